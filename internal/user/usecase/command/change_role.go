package command

import (
	"fmt"
	"time"

	"github.com/thukha/backoffice/internal/user/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// ChangeRoleCommand represents the command to change a user's role
type ChangeRoleCommand struct {
	ID   uint
	Role string
}

// ChangeRoleHandler handles role change command
type ChangeRoleHandler struct {
	repo domain.UserRepository
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(repo domain.UserRepository) *ChangeRoleHandler {
	return &ChangeRoleHandler{repo: repo}
}

// Handle executes the change role command
func (h *ChangeRoleHandler) Handle(cmd ChangeRoleCommand) (*domain.User, error) {
	if !domain.ValidRole(cmd.Role) {
		return nil, apperror.BadRequest("invalid role: %q", cmd.Role)
	}

	user, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("user not found")
	}

	// Demoting the last admin would lock everyone out of admin routes.
	if user.IsAdmin() && cmd.Role != domain.RoleAdmin {
		admins, err := h.repo.CountByRole(domain.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("failed to count admins: %w", err)
		}
		if admins <= 1 {
			return nil, apperror.BadRequest("cannot demote the last admin account")
		}
	}

	user.Role = cmd.Role
	user.UpdatedAt = time.Now()

	if err := h.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to change role: %w", err)
	}

	return user, nil
}
