package command

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thukha/backoffice/internal/lease/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// fakeLeaseRepo is an in-memory LeaseRepository for usecase tests.
type fakeLeaseRepo struct {
	leases map[uint]*domain.Lease
	nextID uint
}

func newFakeLeaseRepo() *fakeLeaseRepo {
	return &fakeLeaseRepo{leases: make(map[uint]*domain.Lease), nextID: 1}
}

func (r *fakeLeaseRepo) CreateExclusive(lease *domain.Lease) error {
	for _, existing := range r.leases {
		if existing.UnitID != lease.UnitID {
			continue
		}
		if existing.Status != domain.StatusActive && existing.Status != domain.StatusPending {
			continue
		}
		if existing.Overlaps(lease.StartDate, lease.EndDate) {
			return &domain.ErrOverlap{UnitID: lease.UnitID}
		}
	}
	lease.ID = r.nextID
	r.nextID++
	copied := *lease
	r.leases[lease.ID] = &copied
	return nil
}

func (r *fakeLeaseRepo) FindByID(id uint) (*domain.Lease, error) {
	lease, ok := r.leases[id]
	if !ok {
		return nil, apperror.NotFound("lease not found")
	}
	copied := *lease
	return &copied, nil
}

func (r *fakeLeaseRepo) FindAll(filter domain.LeaseFilter) ([]domain.Lease, int64, error) {
	var out []domain.Lease
	for _, lease := range r.leases {
		out = append(out, *lease)
	}
	return out, int64(len(out)), nil
}

func (r *fakeLeaseRepo) FindOverlapping(unitID uint, start time.Time, end *time.Time, excludeID uint) ([]domain.Lease, error) {
	var out []domain.Lease
	for _, lease := range r.leases {
		if lease.UnitID == unitID && lease.ID != excludeID && lease.Overlaps(start, end) {
			out = append(out, *lease)
		}
	}
	return out, nil
}

func (r *fakeLeaseRepo) Update(lease *domain.Lease) error {
	copied := *lease
	r.leases[lease.ID] = &copied
	return nil
}

func (r *fakeLeaseRepo) UpdateScheduleEntry(entry *domain.PaymentScheduleEntry) error {
	lease, ok := r.leases[entry.LeaseID]
	if !ok {
		return apperror.NotFound("lease not found")
	}
	for i := range lease.Schedule {
		if lease.Schedule[i].ID == entry.ID {
			lease.Schedule[i] = *entry
			return nil
		}
	}
	return apperror.NotFound("schedule entry not found")
}

func (r *fakeLeaseRepo) Delete(id uint) error {
	delete(r.leases, id)
	return nil
}

type fakeUnits struct {
	known    map[uint]bool
	occupied map[uint]bool
}

func newFakeUnits(ids ...uint) *fakeUnits {
	f := &fakeUnits{known: make(map[uint]bool), occupied: make(map[uint]bool)}
	for _, id := range ids {
		f.known[id] = true
	}
	return f
}

func (f *fakeUnits) UnitExists(id uint) (bool, error) { return f.known[id], nil }
func (f *fakeUnits) SetOccupancy(id uint, occupied bool) error {
	f.occupied[id] = occupied
	return nil
}

type fakeTenants struct{ known map[uint]bool }

func newFakeTenants(ids ...uint) *fakeTenants {
	f := &fakeTenants{known: make(map[uint]bool)}
	for _, id := range ids {
		f.known[id] = true
	}
	return f
}

func (f *fakeTenants) TenantExists(id uint) (bool, error) { return f.known[id], nil }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func baseCreateCmd() CreateLeaseCommand {
	end := date(2024, 12, 31)
	return CreateLeaseCommand{
		UnitID:       1,
		TenantID:     1,
		StartDate:    date(2024, 1, 1),
		EndDate:      &end,
		RentAmount:   decimal.NewFromInt(800),
		PaymentCycle: domain.CycleMonthly,
		CreatedBy:    7,
	}
}

func TestCreateLease_GeneratesSchedule(t *testing.T) {
	repo := newFakeLeaseRepo()
	handler := NewCreateLeaseHandler(repo, newFakeUnits(1), newFakeTenants(1))

	lease, err := handler.Handle(baseCreateCmd())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if lease.Status != domain.StatusPending {
		t.Errorf("status = %q, want Pending", lease.Status)
	}
	if len(lease.Schedule) != 12 {
		t.Errorf("schedule entries = %d, want 12", len(lease.Schedule))
	}
	for _, entry := range lease.Schedule {
		if entry.Status != domain.ScheduleUnpaid || !entry.Amount.Equal(decimal.NewFromInt(800)) {
			t.Errorf("entry = %+v, want Unpaid/800", entry)
		}
	}
}

func TestCreateLease_OverlapConflict(t *testing.T) {
	repo := newFakeLeaseRepo()
	handler := NewCreateLeaseHandler(repo, newFakeUnits(1), newFakeTenants(1))

	if _, err := handler.Handle(baseCreateCmd()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := baseCreateCmd()
	second.StartDate = date(2024, 6, 1)
	end := date(2025, 5, 31)
	second.EndDate = &end

	_, err := handler.Handle(second)
	if err == nil {
		t.Fatal("expected overlap conflict")
	}
	if apperror.StatusOf(err) != http.StatusConflict {
		t.Errorf("status = %d, want 409", apperror.StatusOf(err))
	}
}

func TestCreateLease_OpenEndedExistingBlocksFuture(t *testing.T) {
	repo := newFakeLeaseRepo()
	handler := NewCreateLeaseHandler(repo, newFakeUnits(1), newFakeTenants(1))

	openEnded := baseCreateCmd()
	openEnded.EndDate = nil
	until := date(2024, 12, 31)
	openEnded.ScheduleUntil = &until
	if _, err := handler.Handle(openEnded); err != nil {
		t.Fatalf("open-ended create: %v", err)
	}

	later := baseCreateCmd()
	later.StartDate = date(2030, 1, 1)
	end := date(2030, 12, 31)
	later.EndDate = &end

	_, err := handler.Handle(later)
	if apperror.StatusOf(err) != http.StatusConflict {
		t.Errorf("status = %d, want 409", apperror.StatusOf(err))
	}
}

func TestCreateLease_DifferentUnitDoesNotConflict(t *testing.T) {
	repo := newFakeLeaseRepo()
	handler := NewCreateLeaseHandler(repo, newFakeUnits(1, 2), newFakeTenants(1))

	if _, err := handler.Handle(baseCreateCmd()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := baseCreateCmd()
	second.UnitID = 2
	if _, err := handler.Handle(second); err != nil {
		t.Errorf("second unit create: %v", err)
	}
}

func TestCreateLease_OpenEndedWithoutBound(t *testing.T) {
	repo := newFakeLeaseRepo()
	handler := NewCreateLeaseHandler(repo, newFakeUnits(1), newFakeTenants(1))

	cmd := baseCreateCmd()
	cmd.EndDate = nil

	_, err := handler.Handle(cmd)
	if apperror.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apperror.StatusOf(err))
	}
}

func TestCreateLease_MissingReferences(t *testing.T) {
	repo := newFakeLeaseRepo()
	handler := NewCreateLeaseHandler(repo, newFakeUnits(1), newFakeTenants(1))

	missingUnit := baseCreateCmd()
	missingUnit.UnitID = 99
	if _, err := handler.Handle(missingUnit); apperror.StatusOf(err) != http.StatusNotFound {
		t.Errorf("missing unit status = %d, want 404", apperror.StatusOf(err))
	}

	missingTenant := baseCreateCmd()
	missingTenant.TenantID = 99
	if _, err := handler.Handle(missingTenant); apperror.StatusOf(err) != http.StatusNotFound {
		t.Errorf("missing tenant status = %d, want 404", apperror.StatusOf(err))
	}
}

func TestCreateLease_DepositPaidRequiresDate(t *testing.T) {
	repo := newFakeLeaseRepo()
	handler := NewCreateLeaseHandler(repo, newFakeUnits(1), newFakeTenants(1))

	cmd := baseCreateCmd()
	cmd.DepositPaid = true

	_, err := handler.Handle(cmd)
	if apperror.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apperror.StatusOf(err))
	}
}

func TestCreateLease_ActivateMarksUnitOccupied(t *testing.T) {
	repo := newFakeLeaseRepo()
	units := newFakeUnits(1)
	handler := NewCreateLeaseHandler(repo, units, newFakeTenants(1))

	cmd := baseCreateCmd()
	cmd.Activate = true

	lease, err := handler.Handle(cmd)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if lease.Status != domain.StatusActive {
		t.Errorf("status = %q, want Active", lease.Status)
	}
	if !units.occupied[1] {
		t.Error("unit 1 should be marked occupied")
	}
}

func seedLease(t *testing.T, repo *fakeLeaseRepo, status string) *domain.Lease {
	t.Helper()
	end := date(2024, 12, 31)
	lease := &domain.Lease{
		UnitID:       1,
		TenantID:     1,
		StartDate:    date(2024, 1, 1),
		EndDate:      &end,
		RentAmount:   decimal.NewFromInt(800),
		PaymentCycle: domain.CycleMonthly,
		Status:       status,
		Schedule: []domain.PaymentScheduleEntry{
			{ID: 1, Position: 0, DueDate: date(2024, 1, 1), Amount: decimal.NewFromInt(800), Status: domain.ScheduleUnpaid},
		},
	}
	if err := repo.CreateExclusive(lease); err != nil {
		t.Fatalf("seed lease: %v", err)
	}
	// CreateExclusive stores a copy; keep the stored one current.
	stored := repo.leases[lease.ID]
	stored.Status = status
	for i := range stored.Schedule {
		stored.Schedule[i].LeaseID = lease.ID
	}
	return stored
}

func TestUpdateLease_ActiveRentAmountFrozen(t *testing.T) {
	repo := newFakeLeaseRepo()
	lease := seedLease(t, repo, domain.StatusActive)
	handler := NewUpdateLeaseHandler(repo, newFakeUnits(1), newFakeTenants(1))

	newRent := decimal.NewFromInt(900)
	_, err := handler.Handle(UpdateLeaseCommand{ID: lease.ID, RentAmount: &newRent})
	if apperror.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apperror.StatusOf(err))
	}
}

func TestUpdateLease_PendingRentAmountMutable(t *testing.T) {
	repo := newFakeLeaseRepo()
	lease := seedLease(t, repo, domain.StatusPending)
	handler := NewUpdateLeaseHandler(repo, newFakeUnits(1), newFakeTenants(1))

	newRent := decimal.NewFromInt(900)
	updated, err := handler.Handle(UpdateLeaseCommand{ID: lease.ID, RentAmount: &newRent})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !updated.RentAmount.Equal(newRent) {
		t.Errorf("rent = %s, want 900", updated.RentAmount)
	}
}

func TestUpdateLease_NotFound(t *testing.T) {
	handler := NewUpdateLeaseHandler(newFakeLeaseRepo(), newFakeUnits(1), newFakeTenants(1))
	_, err := handler.Handle(UpdateLeaseCommand{ID: 42})
	if apperror.StatusOf(err) != http.StatusNotFound {
		t.Errorf("status = %d, want 404", apperror.StatusOf(err))
	}
}

func TestTerminateLease(t *testing.T) {
	repo := newFakeLeaseRepo()
	units := newFakeUnits(1)
	units.occupied[1] = true
	lease := seedLease(t, repo, domain.StatusActive)
	handler := NewTerminateLeaseHandler(repo, units)

	when := date(2024, 7, 15)
	terminated, err := handler.Handle(TerminateLeaseCommand{ID: lease.ID, TerminationDate: when, Reason: "tenant relocated"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if terminated.Status != domain.StatusTerminated {
		t.Errorf("status = %q, want Terminated", terminated.Status)
	}
	if terminated.TerminationDate == nil || !terminated.TerminationDate.Equal(when) {
		t.Errorf("termination date = %v, want %v", terminated.TerminationDate, when)
	}
	last := terminated.CustomTerms[len(terminated.CustomTerms)-1]
	if !strings.Contains(last.Text, "tenant relocated") {
		t.Errorf("custom term %q should contain the reason", last.Text)
	}
	if units.occupied[1] {
		t.Error("unit should be vacant after termination")
	}
}

func TestDeleteLease(t *testing.T) {
	repo := newFakeLeaseRepo()
	active := seedLease(t, repo, domain.StatusActive)
	handler := NewDeleteLeaseHandler(repo)

	if err := handler.Handle(DeleteLeaseCommand{ID: active.ID}); apperror.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("deleting active lease: status = %d, want 400", apperror.StatusOf(err))
	}

	active.Status = domain.StatusTerminated
	if err := handler.Handle(DeleteLeaseCommand{ID: active.ID}); err != nil {
		t.Fatalf("deleting terminated lease: %v", err)
	}
	if _, err := repo.FindByID(active.ID); apperror.StatusOf(err) != http.StatusNotFound {
		t.Error("lease should no longer be retrievable")
	}
}

func TestMarkSchedulePaid(t *testing.T) {
	repo := newFakeLeaseRepo()
	lease := seedLease(t, repo, domain.StatusActive)
	handler := NewMarkSchedulePaidHandler(repo)

	paid := date(2024, 1, 3)
	entry, err := handler.Handle(MarkSchedulePaidCommand{LeaseID: lease.ID, EntryID: 1, PaidDate: paid})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if entry.Status != domain.SchedulePaid {
		t.Errorf("status = %q, want Paid", entry.Status)
	}
	if entry.PaidDate == nil || !entry.PaidDate.Equal(paid) {
		t.Errorf("paid date = %v, want %v", entry.PaidDate, paid)
	}

	if _, err := handler.Handle(MarkSchedulePaidCommand{LeaseID: lease.ID, EntryID: 1, PaidDate: paid}); apperror.StatusOf(err) != http.StatusBadRequest {
		t.Error("paying an already paid entry should fail")
	}
}
