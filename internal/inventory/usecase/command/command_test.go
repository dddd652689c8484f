package command

import (
	"context"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/kafka"
	"github.com/thukha/backoffice/pkg/apperror"
)

type fakeItemRepo struct {
	items  map[uint]*domain.Item
	nextID uint
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uint]*domain.Item), nextID: 1}
}

func (f *fakeItemRepo) Create(item *domain.Item) error {
	item.ID = f.nextID
	f.nextID++
	stored := *item
	f.items[item.ID] = &stored
	return nil
}

func (f *fakeItemRepo) FindByID(id uint) (*domain.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeItemRepo) FindAll(limit, offset int) ([]domain.Item, int64, error) {
	var items []domain.Item
	for _, item := range f.items {
		items = append(items, *item)
	}
	return items, int64(len(f.items)), nil
}

func (f *fakeItemRepo) Update(item *domain.Item) error {
	stored := *item
	f.items[item.ID] = &stored
	return nil
}

func (f *fakeItemRepo) UpdateStatus(id uint, status string) error {
	item, ok := f.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Status = status
	return nil
}

func (f *fakeItemRepo) Delete(id uint) error {
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepo) Exists(id uint) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

type fakeLocationRepo struct {
	locations map[uint]*domain.Location
}

func newFakeLocationRepo(ids ...uint) *fakeLocationRepo {
	f := &fakeLocationRepo{locations: make(map[uint]*domain.Location)}
	for _, id := range ids {
		f.locations[id] = &domain.Location{ID: id, Name: "loc"}
	}
	return f
}

func (f *fakeLocationRepo) Create(location *domain.Location) error {
	location.ID = uint(len(f.locations) + 1)
	f.locations[location.ID] = location
	return nil
}

func (f *fakeLocationRepo) FindByID(id uint) (*domain.Location, error) {
	location, ok := f.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return location, nil
}

func (f *fakeLocationRepo) FindAll() ([]domain.Location, error) { return nil, nil }
func (f *fakeLocationRepo) Update(location *domain.Location) error {
	f.locations[location.ID] = location
	return nil
}
func (f *fakeLocationRepo) Delete(id uint) error { delete(f.locations, id); return nil }
func (f *fakeLocationRepo) Exists(id uint) (bool, error) {
	_, ok := f.locations[id]
	return ok, nil
}

type fakeStockRepo struct {
	stocks map[uint]*domain.Stock
	logs   map[uint][]domain.StockLog
	nextID uint
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{
		stocks: make(map[uint]*domain.Stock),
		logs:   make(map[uint][]domain.StockLog),
		nextID: 1,
	}
}

func (f *fakeStockRepo) CreateWithLog(stock *domain.Stock, log *domain.StockLog) error {
	stock.ID = f.nextID
	f.nextID++
	stored := *stock
	f.stocks[stock.ID] = &stored
	log.StockID = stock.ID
	f.logs[stock.ID] = append(f.logs[stock.ID], *log)
	return nil
}

func (f *fakeStockRepo) UpdateWithLog(stock *domain.Stock, log *domain.StockLog) error {
	stored := *stock
	f.stocks[stock.ID] = &stored
	log.StockID = stock.ID
	f.logs[stock.ID] = append(f.logs[stock.ID], *log)
	return nil
}

func (f *fakeStockRepo) FindByID(id uint) (*domain.Stock, error) {
	stock, ok := f.stocks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *stock
	copied.Logs = append([]domain.StockLog(nil), f.logs[id]...)
	return &copied, nil
}

func (f *fakeStockRepo) FindAll(filter domain.StockFilter) ([]domain.Stock, int64, error) {
	var stocks []domain.Stock
	for _, stock := range f.stocks {
		if filter.ItemID != 0 && stock.ItemID != filter.ItemID {
			continue
		}
		if filter.LocationID != 0 && stock.LocationID != filter.LocationID {
			continue
		}
		stocks = append(stocks, *stock)
	}
	return stocks, int64(len(stocks)), nil
}

func (f *fakeStockRepo) FindByItemAndLocation(itemID, locationID uint) (*domain.Stock, error) {
	for _, stock := range f.stocks {
		if stock.ItemID == itemID && stock.LocationID == locationID {
			return stock, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStockRepo) Delete(id uint) error {
	delete(f.stocks, id)
	return nil
}

func (f *fakeStockRepo) DeductAll(deductions []domain.Deduction) error {
	// Validate everything before mutating anything.
	targets := make([]*domain.Stock, 0, len(deductions))
	for _, d := range deductions {
		stock, err := f.FindByItemAndLocation(d.ItemID, d.LocationID)
		if err != nil {
			return domain.ErrStockMissing{ItemID: d.ItemID, LocationID: d.LocationID}
		}
		if stock.Quantity < d.Quantity {
			return domain.ErrInsufficientStock{
				ItemID: d.ItemID, LocationID: d.LocationID,
				Requested: d.Quantity, Available: stock.Quantity,
			}
		}
		targets = append(targets, stock)
	}
	for i, d := range deductions {
		targets[i].Quantity -= d.Quantity
		f.logs[targets[i].ID] = append(f.logs[targets[i].ID], domain.StockLog{
			StockID:         targets[i].ID,
			Action:          domain.ActionDeducted,
			QuantityChanged: -d.Quantity,
		})
	}
	return nil
}

type fakeRequestRepo struct {
	requests map[uint]*domain.Request
	nextID   uint
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uint]*domain.Request), nextID: 1}
}

func (f *fakeRequestRepo) Create(request *domain.Request) error {
	request.ID = f.nextID
	f.nextID++
	backfillRequestID(request)
	stored := *request
	f.requests[request.ID] = &stored
	return nil
}

// backfillRequestID mirrors the association save: owned rows get their
// parent key stamped on insert.
func backfillRequestID(request *domain.Request) {
	for i := range request.Approvals {
		request.Approvals[i].RequestID = request.ID
	}
	for i := range request.ItemLocations {
		request.ItemLocations[i].RequestID = request.ID
	}
}

func (f *fakeRequestRepo) FindByID(id uint) (*domain.Request, error) {
	request, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	return &copied, nil
}

func (f *fakeRequestRepo) FindAll(filter domain.RequestFilter) ([]domain.Request, int64, error) {
	var requests []domain.Request
	for _, request := range f.requests {
		requests = append(requests, *request)
	}
	return requests, int64(len(requests)), nil
}

func (f *fakeRequestRepo) Update(request *domain.Request) error {
	backfillRequestID(request)
	stored := *request
	f.requests[request.ID] = &stored
	return nil
}

func (f *fakeRequestRepo) UpdateApproval(approval *domain.Approval) error {
	request, ok := f.requests[approval.RequestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range request.Approvals {
		if request.Approvals[i].ApproverID == approval.ApproverID {
			request.Approvals[i] = *approval
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRequestRepo) Delete(id uint) error {
	delete(f.requests, id)
	return nil
}

type fakeUsers struct {
	known map[uint]bool
}

func (f *fakeUsers) UserExists(id uint) (bool, error) {
	return f.known[id], nil
}

func seedItem(t *testing.T, items *fakeItemRepo, status string) uint {
	t.Helper()
	item := &domain.Item{Name: "Drill", Status: status}
	if err := items.Create(item); err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item.ID
}

func TestCreateStockWritesRecordedLog(t *testing.T) {
	items := newFakeItemRepo()
	locations := newFakeLocationRepo(1)
	stocks := newFakeStockRepo()
	users := &fakeUsers{known: map[uint]bool{7: true}}
	itemID := seedItem(t, items, domain.StatusAvailable)

	handler := NewCreateStockHandler(stocks, items, locations, users)
	stock, err := handler.Handle(CreateStockCommand{
		ItemID: itemID, LocationID: 1, Quantity: 5, Status: domain.StatusAvailable, ActorID: 7,
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	logs := stocks.logs[stock.ID]
	if len(logs) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(logs))
	}
	if logs[0].Action != domain.ActionRecorded {
		t.Errorf("action = %q, want %q", logs[0].Action, domain.ActionRecorded)
	}
	if logs[0].QuantityChanged != 5 {
		t.Errorf("quantity changed = %d, want 5", logs[0].QuantityChanged)
	}

	// Updating the quantity to 8 appends an Updated entry with the
	// signed delta.
	updated := NewUpdateStockHandler(stocks, items, locations)
	newQty := 8
	if _, err := updated.Handle(UpdateStockCommand{ID: stock.ID, Quantity: &newQty}); err != nil {
		t.Fatalf("update Handle() error = %v", err)
	}

	logs = stocks.logs[stock.ID]
	if len(logs) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(logs))
	}
	if logs[1].Action != domain.ActionUpdated {
		t.Errorf("action = %q, want %q", logs[1].Action, domain.ActionUpdated)
	}
	if logs[1].QuantityChanged != 3 {
		t.Errorf("quantity changed = %d, want 3", logs[1].QuantityChanged)
	}
}

func TestCreateStockZeroQuantityIsAdjusted(t *testing.T) {
	items := newFakeItemRepo()
	locations := newFakeLocationRepo(1)
	stocks := newFakeStockRepo()
	itemID := seedItem(t, items, domain.StatusAvailable)

	handler := NewCreateStockHandler(stocks, items, locations, &fakeUsers{})
	stock, err := handler.Handle(CreateStockCommand{ItemID: itemID, LocationID: 1, Quantity: 0})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	logs := stocks.logs[stock.ID]
	if len(logs) != 1 || logs[0].Action != domain.ActionAdjusted {
		t.Fatalf("expected one Adjusted log entry, got %+v", logs)
	}
}

func TestCreateStockMissingReferences(t *testing.T) {
	items := newFakeItemRepo()
	locations := newFakeLocationRepo(1)
	stocks := newFakeStockRepo()
	itemID := seedItem(t, items, domain.StatusAvailable)

	handler := NewCreateStockHandler(stocks, items, locations, &fakeUsers{})

	if _, err := handler.Handle(CreateStockCommand{ItemID: 99, LocationID: 1, Quantity: 1}); apperror.StatusOf(err) != 404 {
		t.Errorf("missing item: status = %d, want 404", apperror.StatusOf(err))
	}
	if _, err := handler.Handle(CreateStockCommand{ItemID: itemID, LocationID: 99, Quantity: 1}); apperror.StatusOf(err) != 404 {
		t.Errorf("missing location: status = %d, want 404", apperror.StatusOf(err))
	}
}

func TestCreateStockPropagatesItemStatus(t *testing.T) {
	items := newFakeItemRepo()
	locations := newFakeLocationRepo(1)
	stocks := newFakeStockRepo()
	itemID := seedItem(t, items, domain.StatusAvailable)

	handler := NewCreateStockHandler(stocks, items, locations, &fakeUsers{})
	if _, err := handler.Handle(CreateStockCommand{ItemID: itemID, LocationID: 1, Quantity: 2, Status: domain.StatusReserved}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	item, _ := items.FindByID(itemID)
	if item.Status != domain.StatusReserved {
		t.Errorf("item status = %q, want %q", item.Status, domain.StatusReserved)
	}
}

func TestCreateRequestShapeRules(t *testing.T) {
	items := newFakeItemRepo()
	locations := newFakeLocationRepo(1, 2)
	requests := newFakeRequestRepo()
	users := &fakeUsers{known: map[uint]bool{1: true}}
	itemID := seedItem(t, items, domain.StatusAvailable)

	handler := NewCreateRequestHandler(requests, items, locations, users)

	tests := []struct {
		name       string
		cmd        CreateRequestCommand
		wantStatus int
		wantSubstr string
	}{
		{
			name: "both shapes",
			cmd: CreateRequestCommand{
				Type: domain.RequestStockWithdrawal, ItemID: itemID, RequesterID: 1,
				Quantity: 2, LocationID: 1,
				ItemLocations: []RequestLine{{LocationID: 2, Quantity: 1}},
			},
			wantStatus: 400,
			wantSubstr: "not both",
		},
		{
			name: "duplicate locations",
			cmd: CreateRequestCommand{
				Type: domain.RequestStockWithdrawal, ItemID: itemID, RequesterID: 1,
				ItemLocations: []RequestLine{{LocationID: 1, Quantity: 1}, {LocationID: 1, Quantity: 2}},
			},
			wantStatus: 400,
			wantSubstr: "duplicate location 1",
		},
		{
			name: "zero quantity line",
			cmd: CreateRequestCommand{
				Type: domain.RequestStockWithdrawal, ItemID: itemID, RequesterID: 1,
				ItemLocations: []RequestLine{{LocationID: 1, Quantity: 0}},
			},
			wantStatus: 400,
			wantSubstr: "location 1",
		},
		{
			name: "missing line location",
			cmd: CreateRequestCommand{
				Type: domain.RequestStockWithdrawal, ItemID: itemID, RequesterID: 1,
				ItemLocations: []RequestLine{{LocationID: 9, Quantity: 1}},
			},
			wantStatus: 404,
			wantSubstr: "location 9",
		},
		{
			name: "missing approver",
			cmd: CreateRequestCommand{
				Type: domain.RequestPurchase, ItemID: itemID, RequesterID: 1,
				Quantity: 1, LocationID: 1, ApproverIDs: []uint{42},
			},
			wantStatus: 404,
			wantSubstr: "approver 42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(tt.cmd)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if status := apperror.StatusOf(err); status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantSubstr)
			}
		})
	}
}

func TestCreateRequestSingleShape(t *testing.T) {
	items := newFakeItemRepo()
	locations := newFakeLocationRepo(1)
	requests := newFakeRequestRepo()
	users := &fakeUsers{known: map[uint]bool{1: true, 2: true}}
	itemID := seedItem(t, items, domain.StatusAvailable)

	handler := NewCreateRequestHandler(requests, items, locations, users)
	request, err := handler.Handle(CreateRequestCommand{
		Type: domain.RequestStockWithdrawal, ItemID: itemID, RequesterID: 1,
		Quantity: 3, LocationID: 1, ApproverIDs: []uint{2},
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if request.Status != domain.RequestPending {
		t.Errorf("status = %q, want Pending", request.Status)
	}
	if len(request.Approvals) != 1 || request.Approvals[0].Decision != domain.DecisionPending {
		t.Errorf("expected one pending approval, got %+v", request.Approvals)
	}
}

func TestDecideRequest(t *testing.T) {
	items := newFakeItemRepo()
	locations := newFakeLocationRepo(1)
	requests := newFakeRequestRepo()
	users := &fakeUsers{known: map[uint]bool{1: true, 2: true, 3: true}}
	itemID := seedItem(t, items, domain.StatusAvailable)

	create := NewCreateRequestHandler(requests, items, locations, users)
	request, err := create.Handle(CreateRequestCommand{
		Type: domain.RequestStockWithdrawal, ItemID: itemID, RequesterID: 1,
		Quantity: 3, LocationID: 1, ApproverIDs: []uint{2, 3},
	})
	if err != nil {
		t.Fatalf("create Handle() error = %v", err)
	}

	decide := NewDecideRequestHandler(requests)

	// Non-approver is forbidden.
	if _, err := decide.Handle(DecideRequestCommand{RequestID: request.ID, ApproverID: 9, Approve: true}); apperror.StatusOf(err) != 403 {
		t.Errorf("non-approver: status = %d, want 403", apperror.StatusOf(err))
	}

	// First approval keeps the request pending.
	updated, err := decide.Handle(DecideRequestCommand{RequestID: request.ID, ApproverID: 2, Approve: true})
	if err != nil {
		t.Fatalf("first decision error = %v", err)
	}
	if updated.Status != domain.RequestPending {
		t.Errorf("status after first approval = %q, want Pending", updated.Status)
	}

	// Second approval approves the request.
	updated, err = decide.Handle(DecideRequestCommand{RequestID: request.ID, ApproverID: 3, Approve: true})
	if err != nil {
		t.Fatalf("second decision error = %v", err)
	}
	if updated.Status != domain.RequestApproved {
		t.Errorf("status after all approvals = %q, want Approved", updated.Status)
	}

	// Decisions on settled requests are rejected.
	if _, err := decide.Handle(DecideRequestCommand{RequestID: request.ID, ApproverID: 2, Approve: false}); apperror.StatusOf(err) != 400 {
		t.Errorf("settled request: status = %d, want 400", apperror.StatusOf(err))
	}
}

func TestDecideRequestRejection(t *testing.T) {
	items := newFakeItemRepo()
	locations := newFakeLocationRepo(1)
	requests := newFakeRequestRepo()
	users := &fakeUsers{known: map[uint]bool{1: true, 2: true, 3: true}}
	itemID := seedItem(t, items, domain.StatusAvailable)

	create := NewCreateRequestHandler(requests, items, locations, users)
	request, _ := create.Handle(CreateRequestCommand{
		Type: domain.RequestStockWithdrawal, ItemID: itemID, RequesterID: 1,
		Quantity: 3, LocationID: 1, ApproverIDs: []uint{2, 3},
	})

	decide := NewDecideRequestHandler(requests)
	updated, err := decide.Handle(DecideRequestCommand{RequestID: request.ID, ApproverID: 2, Approve: false, Notes: "over budget"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if updated.Status != domain.RequestRejected {
		t.Errorf("status = %q, want Rejected", updated.Status)
	}
}

func TestFulfilSaleDeductsAllOrNothing(t *testing.T) {
	items := newFakeItemRepo()
	locations := newFakeLocationRepo(1, 2)
	stocks := newFakeStockRepo()
	itemID := seedItem(t, items, domain.StatusAvailable)

	create := NewCreateStockHandler(stocks, items, locations, &fakeUsers{})
	first, _ := create.Handle(CreateStockCommand{ItemID: itemID, LocationID: 1, Quantity: 10})
	second, _ := create.Handle(CreateStockCommand{ItemID: itemID, LocationID: 2, Quantity: 1})

	fulfil := NewFulfilSaleHandler(stocks)

	// The second line exceeds available stock, so neither is applied.
	err := fulfil.Handle(context.Background(), kafka.SaleCompletedEvent{
		Reference: "SA-1",
		Lines: []kafka.SaleLineItem{
			{ItemID: itemID, LocationID: 1, Quantity: 4},
			{ItemID: itemID, LocationID: 2, Quantity: 5},
		},
	})
	if err == nil {
		t.Fatal("expected insufficient stock error, got nil")
	}
	if stock, _ := stocks.FindByID(first.ID); stock.Quantity != 10 {
		t.Errorf("first stock quantity = %d, want 10 (no partial deduction)", stock.Quantity)
	}

	// Within bounds, both lines are deducted and logged.
	err = fulfil.Handle(context.Background(), kafka.SaleCompletedEvent{
		Reference: "SA-2",
		Lines: []kafka.SaleLineItem{
			{ItemID: itemID, LocationID: 1, Quantity: 4},
			{ItemID: itemID, LocationID: 2, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if stock, _ := stocks.FindByID(first.ID); stock.Quantity != 6 {
		t.Errorf("first stock quantity = %d, want 6", stock.Quantity)
	}
	if stock, _ := stocks.FindByID(second.ID); stock.Quantity != 0 {
		t.Errorf("second stock quantity = %d, want 0", stock.Quantity)
	}

	logs := stocks.logs[first.ID]
	last := logs[len(logs)-1]
	if last.Action != domain.ActionDeducted || last.QuantityChanged != -4 {
		t.Errorf("last log = %+v, want Deducted/-4", last)
	}
}
