package command

import (
	"fmt"

	"github.com/thukha/backoffice/internal/lease/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// ActivateLeaseCommand represents the command to activate a pending lease
type ActivateLeaseCommand struct {
	ID uint
}

// ActivateLeaseHandler handles lease activation command
type ActivateLeaseHandler struct {
	repo  domain.LeaseRepository
	units domain.UnitGateway
}

// NewActivateLeaseHandler creates a new activate lease handler
func NewActivateLeaseHandler(repo domain.LeaseRepository, units domain.UnitGateway) *ActivateLeaseHandler {
	return &ActivateLeaseHandler{repo: repo, units: units}
}

// Handle executes the activate lease command
func (h *ActivateLeaseHandler) Handle(cmd ActivateLeaseCommand) (*domain.Lease, error) {
	lease, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("lease not found")
	}

	if lease.Status != domain.StatusPending {
		return nil, apperror.BadRequest("only a pending lease can be activated")
	}

	lease.Status = domain.StatusActive
	if err := h.repo.Update(lease); err != nil {
		return nil, fmt.Errorf("failed to activate lease: %w", err)
	}

	if err := h.units.SetOccupancy(lease.UnitID, true); err != nil {
		return nil, fmt.Errorf("failed to mark unit occupied: %w", err)
	}

	return lease, nil
}
