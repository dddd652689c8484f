package command

import (
	"fmt"
	"time"

	"github.com/thukha/backoffice/internal/user/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// ToggleActiveCommand represents the command to activate/deactivate a user
type ToggleActiveCommand struct {
	ID uint
}

// ToggleActiveHandler handles toggle active command
type ToggleActiveHandler struct {
	repo domain.UserRepository
}

// NewToggleActiveHandler creates a new toggle active handler
func NewToggleActiveHandler(repo domain.UserRepository) *ToggleActiveHandler {
	return &ToggleActiveHandler{repo: repo}
}

// Handle executes the toggle active command
func (h *ToggleActiveHandler) Handle(cmd ToggleActiveCommand) (*domain.User, error) {
	user, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("user not found")
	}

	user.IsActive = !user.IsActive
	user.UpdatedAt = time.Now()

	if err := h.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to toggle active state: %w", err)
	}

	return user, nil
}
