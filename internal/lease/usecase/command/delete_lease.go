package command

import (
	"fmt"

	"github.com/thukha/backoffice/internal/lease/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// DeleteLeaseCommand represents the command to delete a lease
type DeleteLeaseCommand struct {
	ID uint
}

// DeleteLeaseHandler handles lease deletion command
type DeleteLeaseHandler struct {
	repo domain.LeaseRepository
}

// NewDeleteLeaseHandler creates a new delete lease handler
func NewDeleteLeaseHandler(repo domain.LeaseRepository) *DeleteLeaseHandler {
	return &DeleteLeaseHandler{repo: repo}
}

// Handle executes the delete lease command
func (h *DeleteLeaseHandler) Handle(cmd DeleteLeaseCommand) error {
	lease, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return apperror.NotFound("lease not found")
	}

	if lease.IsActive() {
		return apperror.BadRequest("an active lease cannot be deleted")
	}

	if err := h.repo.Delete(cmd.ID); err != nil {
		return fmt.Errorf("failed to delete lease: %w", err)
	}

	return nil
}
