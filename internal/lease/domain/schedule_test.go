package domain

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thukha/backoffice/pkg/apperror"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGeneratePaymentSchedule_Monthly(t *testing.T) {
	entries, err := GeneratePaymentSchedule(date(2024, 1, 1), date(2024, 3, 31), decimal.NewFromInt(500), CycleMonthly)
	if err != nil {
		t.Fatalf("GeneratePaymentSchedule: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	wantDue := []time.Time{date(2024, 1, 1), date(2024, 2, 1), date(2024, 3, 1)}
	for i, entry := range entries {
		if !entry.DueDate.Equal(wantDue[i]) {
			t.Errorf("entry %d due = %v, want %v", i, entry.DueDate, wantDue[i])
		}
		if !entry.Amount.Equal(decimal.NewFromInt(500)) {
			t.Errorf("entry %d amount = %s, want 500", i, entry.Amount)
		}
		if entry.Status != ScheduleUnpaid {
			t.Errorf("entry %d status = %q, want %q", i, entry.Status, ScheduleUnpaid)
		}
		if entry.Position != i {
			t.Errorf("entry %d position = %d", i, entry.Position)
		}
	}
}

func TestGeneratePaymentSchedule_Quarterly(t *testing.T) {
	entries, err := GeneratePaymentSchedule(date(2024, 1, 1), date(2024, 12, 31), decimal.NewFromInt(1500), CycleQuarterly)
	if err != nil {
		t.Fatalf("GeneratePaymentSchedule: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(entries))
	}
	if !entries[3].DueDate.Equal(date(2024, 10, 1)) {
		t.Errorf("last due = %v, want 2024-10-01", entries[3].DueDate)
	}
}

func TestGeneratePaymentSchedule_Annually(t *testing.T) {
	entries, err := GeneratePaymentSchedule(date(2024, 1, 1), date(2026, 12, 31), decimal.NewFromInt(6000), CycleAnnually)
	if err != nil {
		t.Fatalf("GeneratePaymentSchedule: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
}

func TestGeneratePaymentSchedule_FractionalAmountStaysExact(t *testing.T) {
	amount := decimal.RequireFromString("833.33")
	entries, err := GeneratePaymentSchedule(date(2024, 1, 1), date(2024, 3, 31), amount, CycleMonthly)
	if err != nil {
		t.Fatalf("GeneratePaymentSchedule: %v", err)
	}
	for i, entry := range entries {
		if !entry.Amount.Equal(amount) {
			t.Errorf("entry %d amount = %s, want %s", i, entry.Amount, amount)
		}
	}
}

func TestGeneratePaymentSchedule_EndBeforeStart(t *testing.T) {
	entries, err := GeneratePaymentSchedule(date(2024, 5, 1), date(2024, 4, 1), decimal.NewFromInt(500), CycleMonthly)
	if err != nil {
		t.Fatalf("GeneratePaymentSchedule: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}

func TestGeneratePaymentSchedule_UnknownCycle(t *testing.T) {
	_, err := GeneratePaymentSchedule(date(2024, 1, 1), date(2024, 12, 31), decimal.NewFromInt(500), "Weekly")
	if err == nil {
		t.Fatal("expected error for unknown cycle")
	}
	if apperror.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apperror.StatusOf(err))
	}
}

func TestLeaseOverlaps(t *testing.T) {
	end := date(2024, 6, 30)
	openEnded := Lease{StartDate: date(2024, 1, 1)}
	bounded := Lease{StartDate: date(2024, 1, 1), EndDate: &end}

	tests := []struct {
		name  string
		lease *Lease
		start time.Time
		end   *time.Time
		want  bool
	}{
		{"inside bounded", &bounded, date(2024, 3, 1), timePtr(date(2024, 4, 1)), true},
		{"touching end is inclusive", &bounded, date(2024, 6, 30), timePtr(date(2024, 12, 31)), true},
		{"after bounded", &bounded, date(2024, 7, 1), timePtr(date(2024, 12, 31)), false},
		{"before bounded", &bounded, date(2023, 1, 1), timePtr(date(2023, 12, 31)), false},
		{"open-ended blocks future", &openEnded, date(2030, 1, 1), timePtr(date(2030, 12, 31)), true},
		{"open-ended request over bounded", &bounded, date(2024, 5, 1), nil, true},
		{"open-ended request after bounded", &bounded, date(2024, 8, 1), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lease.Overlaps(tt.start, tt.end); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
