package command

import (
	"fmt"
	"time"

	"github.com/thukha/backoffice/internal/lease/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// MarkSchedulePaidCommand records a payment against one schedule entry.
type MarkSchedulePaidCommand struct {
	LeaseID  uint
	EntryID  uint
	PaidDate time.Time
}

// MarkSchedulePaidHandler handles schedule payment command
type MarkSchedulePaidHandler struct {
	repo domain.LeaseRepository
}

// NewMarkSchedulePaidHandler creates a new mark schedule paid handler
func NewMarkSchedulePaidHandler(repo domain.LeaseRepository) *MarkSchedulePaidHandler {
	return &MarkSchedulePaidHandler{repo: repo}
}

// Handle executes the mark schedule paid command
func (h *MarkSchedulePaidHandler) Handle(cmd MarkSchedulePaidCommand) (*domain.PaymentScheduleEntry, error) {
	lease, err := h.repo.FindByID(cmd.LeaseID)
	if err != nil {
		return nil, apperror.NotFound("lease not found")
	}

	var entry *domain.PaymentScheduleEntry
	for i := range lease.Schedule {
		if lease.Schedule[i].ID == cmd.EntryID {
			entry = &lease.Schedule[i]
			break
		}
	}
	if entry == nil {
		return nil, apperror.NotFound("schedule entry not found")
	}
	if entry.Status == domain.SchedulePaid {
		return nil, apperror.BadRequest("schedule entry is already paid")
	}

	paidDate := cmd.PaidDate
	if paidDate.IsZero() {
		paidDate = time.Now()
	}

	entry.Status = domain.SchedulePaid
	entry.PaidDate = &paidDate

	if err := h.repo.UpdateScheduleEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to update schedule entry: %w", err)
	}

	return entry, nil
}
