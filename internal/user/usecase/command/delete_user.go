package command

import (
	"fmt"

	"github.com/thukha/backoffice/internal/user/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// DeleteUserCommand represents the command to delete a user
type DeleteUserCommand struct {
	ID uint
}

// DeleteUserHandler handles user deletion command
type DeleteUserHandler struct {
	repo domain.UserRepository
}

// NewDeleteUserHandler creates a new delete user handler
func NewDeleteUserHandler(repo domain.UserRepository) *DeleteUserHandler {
	return &DeleteUserHandler{repo: repo}
}

// Handle executes the delete user command
func (h *DeleteUserHandler) Handle(cmd DeleteUserCommand) error {
	user, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return apperror.NotFound("user not found")
	}

	// The last admin account cannot be removed.
	if user.IsAdmin() {
		admins, err := h.repo.CountByRole(domain.RoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if admins <= 1 {
			return apperror.BadRequest("cannot delete the last admin account")
		}
	}

	if err := h.repo.Delete(cmd.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
