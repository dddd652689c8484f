package command

import (
	"fmt"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// DeleteRequestCommand represents the command to delete a request
type DeleteRequestCommand struct {
	ID uint
}

// DeleteRequestHandler handles request deletion command
type DeleteRequestHandler struct {
	requests domain.RequestRepository
}

// NewDeleteRequestHandler creates a new delete request handler
func NewDeleteRequestHandler(requests domain.RequestRepository) *DeleteRequestHandler {
	return &DeleteRequestHandler{requests: requests}
}

// Handle executes the delete request command
func (h *DeleteRequestHandler) Handle(cmd DeleteRequestCommand) error {
	if _, err := h.requests.FindByID(cmd.ID); err != nil {
		return apperror.NotFound("request not found")
	}
	if err := h.requests.Delete(cmd.ID); err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}
