package command

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thukha/backoffice/internal/lease/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// UpdateLeaseCommand is an explicit patch: only non-nil fields are applied.
type UpdateLeaseCommand struct {
	ID              uint
	UnitID          *uint
	TenantID        *uint
	StartDate       *time.Time
	EndDate         *time.Time
	RentAmount      *decimal.Decimal
	PaymentCycle    *string
	DepositAmount   *decimal.Decimal
	DepositPaid     *bool
	DepositPaidDate *time.Time
}

// UpdateLeaseHandler handles lease update command
type UpdateLeaseHandler struct {
	repo    domain.LeaseRepository
	units   domain.UnitGateway
	tenants domain.TenantGateway
}

// NewUpdateLeaseHandler creates a new update lease handler
func NewUpdateLeaseHandler(repo domain.LeaseRepository, units domain.UnitGateway, tenants domain.TenantGateway) *UpdateLeaseHandler {
	return &UpdateLeaseHandler{repo: repo, units: units, tenants: tenants}
}

// Handle executes the update lease command
func (h *UpdateLeaseHandler) Handle(cmd UpdateLeaseCommand) (*domain.Lease, error) {
	lease, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("lease not found")
	}

	// Once a lease is active, its identity fields are frozen.
	if lease.IsActive() {
		if cmd.UnitID != nil && *cmd.UnitID != lease.UnitID {
			return nil, apperror.BadRequest("cannot change unit of an active lease")
		}
		if cmd.TenantID != nil && *cmd.TenantID != lease.TenantID {
			return nil, apperror.BadRequest("cannot change tenant of an active lease")
		}
		if cmd.StartDate != nil && !cmd.StartDate.Equal(lease.StartDate) {
			return nil, apperror.BadRequest("cannot change start date of an active lease")
		}
		if cmd.RentAmount != nil && !cmd.RentAmount.Equal(lease.RentAmount) {
			return nil, apperror.BadRequest("cannot change rent amount of an active lease")
		}
	}

	if cmd.UnitID != nil && *cmd.UnitID != lease.UnitID {
		if exists, err := h.units.UnitExists(*cmd.UnitID); err != nil {
			return nil, fmt.Errorf("failed to resolve unit: %w", err)
		} else if !exists {
			return nil, apperror.NotFound("unit %d not found", *cmd.UnitID)
		}
		lease.UnitID = *cmd.UnitID
	}
	if cmd.TenantID != nil && *cmd.TenantID != lease.TenantID {
		if exists, err := h.tenants.TenantExists(*cmd.TenantID); err != nil {
			return nil, fmt.Errorf("failed to resolve tenant: %w", err)
		} else if !exists {
			return nil, apperror.NotFound("tenant %d not found", *cmd.TenantID)
		}
		lease.TenantID = *cmd.TenantID
	}
	if cmd.StartDate != nil {
		lease.StartDate = *cmd.StartDate
	}
	if cmd.EndDate != nil {
		lease.EndDate = cmd.EndDate
	}
	if cmd.RentAmount != nil {
		if !cmd.RentAmount.IsPositive() {
			return nil, apperror.BadRequest("rent_amount must be positive")
		}
		lease.RentAmount = *cmd.RentAmount
	}
	if cmd.PaymentCycle != nil {
		switch *cmd.PaymentCycle {
		case domain.CycleMonthly, domain.CycleQuarterly, domain.CycleAnnually:
			lease.PaymentCycle = *cmd.PaymentCycle
		default:
			return nil, apperror.BadRequest("unknown payment cycle: %q", *cmd.PaymentCycle)
		}
	}
	if cmd.DepositAmount != nil {
		if cmd.DepositAmount.IsNegative() {
			return nil, apperror.BadRequest("deposit_amount must not be negative")
		}
		lease.DepositAmount = *cmd.DepositAmount
	}
	if cmd.DepositPaid != nil {
		lease.DepositPaid = *cmd.DepositPaid
	}
	if cmd.DepositPaidDate != nil {
		lease.DepositPaidDate = cmd.DepositPaidDate
	}
	if lease.DepositPaid && lease.DepositPaidDate == nil {
		return nil, apperror.BadRequest("deposit_paid_date is required when deposit is paid")
	}

	if err := h.repo.Update(lease); err != nil {
		return nil, fmt.Errorf("failed to update lease: %w", err)
	}

	return lease, nil
}
