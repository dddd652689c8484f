package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thukha/backoffice/internal/lease/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// CreateLeaseCommand represents the command to create a lease
type CreateLeaseCommand struct {
	UnitID          uint
	TenantID        uint
	StartDate       time.Time
	EndDate         *time.Time
	RentAmount      decimal.Decimal
	PaymentCycle    string
	DepositAmount   decimal.Decimal
	DepositPaid     bool
	DepositPaidDate *time.Time
	Activate        bool
	Schedule        []domain.PaymentScheduleEntry // explicit schedule, optional
	ScheduleUntil   *time.Time                    // generation bound for open-ended leases
	CustomTerms     []string
	CreatedBy       uint
}

// CreateLeaseHandler handles create lease command
type CreateLeaseHandler struct {
	repo    domain.LeaseRepository
	units   domain.UnitGateway
	tenants domain.TenantGateway
}

// NewCreateLeaseHandler creates a new create lease handler
func NewCreateLeaseHandler(repo domain.LeaseRepository, units domain.UnitGateway, tenants domain.TenantGateway) *CreateLeaseHandler {
	return &CreateLeaseHandler{repo: repo, units: units, tenants: tenants}
}

// Handle executes the create lease command
func (h *CreateLeaseHandler) Handle(cmd CreateLeaseCommand) (*domain.Lease, error) {
	if cmd.UnitID == 0 {
		return nil, apperror.BadRequest("unit_id is required")
	}
	if cmd.TenantID == 0 {
		return nil, apperror.BadRequest("tenant_id is required")
	}
	if cmd.StartDate.IsZero() {
		return nil, apperror.BadRequest("start_date is required")
	}
	if cmd.EndDate != nil && cmd.EndDate.Before(cmd.StartDate) {
		return nil, apperror.BadRequest("end_date must not precede start_date")
	}
	if !cmd.RentAmount.IsPositive() {
		return nil, apperror.BadRequest("rent_amount must be positive")
	}
	if cmd.DepositAmount.IsNegative() {
		return nil, apperror.BadRequest("deposit_amount must not be negative")
	}
	if cmd.DepositPaid && cmd.DepositPaidDate == nil {
		return nil, apperror.BadRequest("deposit_paid_date is required when deposit is paid")
	}
	if !cmd.DepositPaid && cmd.DepositPaidDate != nil {
		return nil, apperror.BadRequest("deposit_paid_date is only valid when deposit is paid")
	}

	if exists, err := h.units.UnitExists(cmd.UnitID); err != nil {
		return nil, fmt.Errorf("failed to resolve unit: %w", err)
	} else if !exists {
		return nil, apperror.NotFound("unit %d not found", cmd.UnitID)
	}
	if exists, err := h.tenants.TenantExists(cmd.TenantID); err != nil {
		return nil, fmt.Errorf("failed to resolve tenant: %w", err)
	} else if !exists {
		return nil, apperror.NotFound("tenant %d not found", cmd.TenantID)
	}

	schedule := cmd.Schedule
	if len(schedule) == 0 {
		bound := cmd.EndDate
		if bound == nil {
			bound = cmd.ScheduleUntil
		}
		if bound == nil {
			return nil, apperror.BadRequest("open-ended lease requires an explicit schedule or a schedule_until bound")
		}
		generated, err := domain.GeneratePaymentSchedule(cmd.StartDate, *bound, cmd.RentAmount, cmd.PaymentCycle)
		if err != nil {
			return nil, err
		}
		schedule = generated
	} else if _, err := domain.GeneratePaymentSchedule(cmd.StartDate, cmd.StartDate, cmd.RentAmount, cmd.PaymentCycle); err != nil {
		// cycle must be valid even when the schedule is supplied
		return nil, err
	}

	status := domain.StatusPending
	if cmd.Activate {
		status = domain.StatusActive
	}

	terms := make([]domain.CustomTerm, 0, len(cmd.CustomTerms))
	for i, text := range cmd.CustomTerms {
		terms = append(terms, domain.CustomTerm{Position: i, Text: text})
	}

	lease := &domain.Lease{
		UnitID:          cmd.UnitID,
		TenantID:        cmd.TenantID,
		StartDate:       cmd.StartDate,
		EndDate:         cmd.EndDate,
		RentAmount:      cmd.RentAmount,
		PaymentCycle:    cmd.PaymentCycle,
		DepositAmount:   cmd.DepositAmount,
		DepositPaid:     cmd.DepositPaid,
		DepositPaidDate: cmd.DepositPaidDate,
		Status:          status,
		Schedule:        schedule,
		CustomTerms:     terms,
		CreatedBy:       cmd.CreatedBy,
	}

	if err := h.repo.CreateExclusive(lease); err != nil {
		var overlap *domain.ErrOverlap
		if errors.As(err, &overlap) {
			return nil, apperror.Conflict("unit %d is already leased for an overlapping period", overlap.UnitID)
		}
		return nil, fmt.Errorf("failed to create lease: %w", err)
	}

	if lease.Status == domain.StatusActive {
		if err := h.units.SetOccupancy(lease.UnitID, true); err != nil {
			return nil, fmt.Errorf("failed to mark unit occupied: %w", err)
		}
	}

	return lease, nil
}
