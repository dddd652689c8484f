package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/thukha/backoffice/pkg/apperror"
)

// GeneratePaymentSchedule derives the expected rent payments for a lease.
// One Unpaid entry is emitted per payment period, starting at start and
// stepping by the cycle length, until the due date would pass end.
func GeneratePaymentSchedule(start, end time.Time, amount decimal.Decimal, cycle string) ([]PaymentScheduleEntry, error) {
	step, err := cycleStep(cycle)
	if err != nil {
		return nil, err
	}

	var entries []PaymentScheduleEntry
	for due, pos := start, 0; !due.After(end); pos++ {
		entries = append(entries, PaymentScheduleEntry{
			Position: pos,
			DueDate:  due,
			Amount:   amount,
			Status:   ScheduleUnpaid,
		})
		due = step(due)
	}

	return entries, nil
}

func cycleStep(cycle string) (func(time.Time) time.Time, error) {
	switch cycle {
	case CycleMonthly:
		return func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }, nil
	case CycleQuarterly:
		return func(t time.Time) time.Time { return t.AddDate(0, 3, 0) }, nil
	case CycleAnnually:
		return func(t time.Time) time.Time { return t.AddDate(1, 0, 0) }, nil
	default:
		return nil, apperror.BadRequest("unknown payment cycle: %q", cycle)
	}
}

// Overlaps reports whether the lease's interval intersects [start, end].
// A nil end on either side is treated as extending to infinity.
func (l *Lease) Overlaps(start time.Time, end *time.Time) bool {
	// existing.start <= new.end
	if end != nil && l.StartDate.After(*end) {
		return false
	}
	// existing.end >= new.start
	if l.EndDate != nil && l.EndDate.Before(start) {
		return false
	}
	return true
}
