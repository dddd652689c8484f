package command

import (
	"fmt"
	"time"

	"github.com/thukha/backoffice/internal/lease/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// TerminateLeaseCommand represents the command to terminate a lease
type TerminateLeaseCommand struct {
	ID              uint
	TerminationDate time.Time
	Reason          string
}

// TerminateLeaseHandler handles lease termination command
type TerminateLeaseHandler struct {
	repo  domain.LeaseRepository
	units domain.UnitGateway
}

// NewTerminateLeaseHandler creates a new terminate lease handler
func NewTerminateLeaseHandler(repo domain.LeaseRepository, units domain.UnitGateway) *TerminateLeaseHandler {
	return &TerminateLeaseHandler{repo: repo, units: units}
}

// Handle executes the terminate lease command
func (h *TerminateLeaseHandler) Handle(cmd TerminateLeaseCommand) (*domain.Lease, error) {
	lease, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("lease not found")
	}

	if cmd.TerminationDate.IsZero() {
		return nil, apperror.BadRequest("termination_date is required")
	}

	wasActive := lease.IsActive()

	lease.Status = domain.StatusTerminated
	lease.TerminationDate = &cmd.TerminationDate
	lease.CustomTerms = append(lease.CustomTerms, domain.CustomTerm{
		Position: len(lease.CustomTerms),
		Text: fmt.Sprintf("Lease terminated on %s. Reason: %s",
			cmd.TerminationDate.Format("2006-01-02"), cmd.Reason),
	})

	if err := h.repo.Update(lease); err != nil {
		return nil, fmt.Errorf("failed to terminate lease: %w", err)
	}

	if wasActive {
		if err := h.units.SetOccupancy(lease.UnitID, false); err != nil {
			return nil, fmt.Errorf("failed to mark unit vacant: %w", err)
		}
	}

	return lease, nil
}
