package command

import (
	"fmt"
	"time"

	"github.com/thukha/backoffice/internal/user/domain"
	"github.com/thukha/backoffice/pkg/apperror"
	"github.com/thukha/backoffice/pkg/auth"
)

// RegisterUserCommand represents the command to register a new account
type RegisterUserCommand struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string // Optional, defaults to "staff"
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(cmd RegisterUserCommand) (*domain.User, error) {
	if cmd.Username == "" {
		return nil, apperror.BadRequest("username is required")
	}
	if cmd.Email == "" {
		return nil, apperror.BadRequest("email is required")
	}
	if cmd.Password == "" {
		return nil, apperror.BadRequest("password is required")
	}
	if len(cmd.Password) < 6 {
		return nil, apperror.BadRequest("password must be at least 6 characters")
	}
	if cmd.FullName == "" {
		return nil, apperror.BadRequest("full name is required")
	}

	if existing, _ := h.repo.FindByUsername(cmd.Username); existing != nil {
		return nil, apperror.Conflict("username already exists")
	}
	if existing, _ := h.repo.FindByEmail(cmd.Email); existing != nil {
		return nil, apperror.Conflict("email already exists")
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := cmd.Role
	if role == "" {
		role = domain.RoleStaff
	}
	if !domain.ValidRole(role) {
		return nil, apperror.BadRequest("invalid role: %q", role)
	}

	user := &domain.User{
		Username:  cmd.Username,
		Email:     cmd.Email,
		Password:  hashedPassword,
		FullName:  cmd.FullName,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
