package command

import (
	"fmt"
	"time"

	"github.com/thukha/backoffice/internal/user/domain"
	"github.com/thukha/backoffice/pkg/apperror"
	"github.com/thukha/backoffice/pkg/auth"
)

// UpdateUserCommand represents the command to update a user.
// Only non-nil fields are applied.
type UpdateUserCommand struct {
	ID       uint
	Email    *string
	FullName *string
	Password *string
}

// UpdateUserHandler handles user update command
type UpdateUserHandler struct {
	repo domain.UserRepository
}

// NewUpdateUserHandler creates a new update user handler
func NewUpdateUserHandler(repo domain.UserRepository) *UpdateUserHandler {
	return &UpdateUserHandler{repo: repo}
}

// Handle executes the update user command
func (h *UpdateUserHandler) Handle(cmd UpdateUserCommand) (*domain.User, error) {
	user, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("user not found")
	}

	if cmd.Email != nil && *cmd.Email != user.Email {
		if existing, _ := h.repo.FindByEmail(*cmd.Email); existing != nil {
			return nil, apperror.Conflict("email already exists")
		}
		user.Email = *cmd.Email
	}
	if cmd.FullName != nil {
		user.FullName = *cmd.FullName
	}
	if cmd.Password != nil {
		if len(*cmd.Password) < 6 {
			return nil, apperror.BadRequest("password must be at least 6 characters")
		}
		hashed, err := auth.HashPassword(*cmd.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashed
	}
	user.UpdatedAt = time.Now()

	if err := h.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
