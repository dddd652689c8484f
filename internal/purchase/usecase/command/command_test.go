package command

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/purchase/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

type fakeSupplierRepo struct {
	suppliers map[uint]*domain.Supplier
	nextID    uint
}

func newFakeSupplierRepo(ids ...uint) *fakeSupplierRepo {
	f := &fakeSupplierRepo{suppliers: make(map[uint]*domain.Supplier), nextID: 1}
	for _, id := range ids {
		f.suppliers[id] = &domain.Supplier{ID: id, Name: "Acme"}
		if id >= f.nextID {
			f.nextID = id + 1
		}
	}
	return f
}

func (f *fakeSupplierRepo) Create(supplier *domain.Supplier) error {
	supplier.ID = f.nextID
	f.nextID++
	f.suppliers[supplier.ID] = supplier
	return nil
}

func (f *fakeSupplierRepo) FindByID(id uint) (*domain.Supplier, error) {
	supplier, ok := f.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return supplier, nil
}

func (f *fakeSupplierRepo) FindAll(limit, offset int) ([]domain.Supplier, int64, error) {
	return nil, 0, nil
}
func (f *fakeSupplierRepo) Update(supplier *domain.Supplier) error { return nil }
func (f *fakeSupplierRepo) Delete(id uint) error                   { delete(f.suppliers, id); return nil }
func (f *fakeSupplierRepo) Exists(id uint) (bool, error) {
	_, ok := f.suppliers[id]
	return ok, nil
}

type fakeOrderRepo struct {
	orders  map[uint]*domain.PurchaseOrder
	nextID  uint
	counter int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*domain.PurchaseOrder), nextID: 1}
}

func (f *fakeOrderRepo) CreateWithCode(order *domain.PurchaseOrder) error {
	if order.ShortCode == "" {
		f.counter++
		order.ShortCode = fmt.Sprintf("PO-%04d", f.counter)
	}
	order.ID = f.nextID
	f.nextID++
	stored := *order
	f.orders[order.ID] = &stored
	return nil
}

func (f *fakeOrderRepo) FindByID(id uint) (*domain.PurchaseOrder, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	copied.Lines = append([]domain.OrderLine(nil), order.Lines...)
	return &copied, nil
}

func (f *fakeOrderRepo) FindAll(filter domain.OrderFilter) ([]domain.PurchaseOrder, int64, error) {
	var orders []domain.PurchaseOrder
	for _, order := range f.orders {
		if filter.SupplierID != 0 && order.SupplierID != filter.SupplierID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, int64(len(orders)), nil
}

func (f *fakeOrderRepo) Update(order *domain.PurchaseOrder) error {
	stored := *order
	f.orders[order.ID] = &stored
	return nil
}

func (f *fakeOrderRepo) Delete(id uint) error { delete(f.orders, id); return nil }
func (f *fakeOrderRepo) Exists(id uint) (bool, error) {
	_, ok := f.orders[id]
	return ok, nil
}

type fakeItems struct{ known map[uint]bool }

func (f *fakeItems) ItemExists(id uint) (bool, error) { return f.known[id], nil }

type fakeUsers struct{ known map[uint]bool }

func (f *fakeUsers) UserExists(id uint) (bool, error) { return f.known[id], nil }

func newCreateHandler(orders *fakeOrderRepo) *CreateOrderHandler {
	return NewCreateOrderHandler(
		orders,
		newFakeSupplierRepo(1),
		&fakeItems{known: map[uint]bool{10: true, 11: true}},
		&fakeUsers{known: map[uint]bool{1: true}},
	)
}

func TestCreateOrderComputesLineTotals(t *testing.T) {
	orders := newFakeOrderRepo()
	handler := newCreateHandler(orders)

	order, err := handler.Handle(CreateOrderCommand{
		SupplierID: 1,
		OrdererID:  1,
		Lines:      []OrderLineInput{{ItemID: 10, Quantity: 3, UnitPrice: "10"}},
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(order.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(order.Lines))
	}
	if !order.Lines[0].TotalPrice.Equal(decimal.NewFromInt(30)) {
		t.Errorf("total price = %s, want 30", order.Lines[0].TotalPrice)
	}
	if order.Status != domain.StatusPending {
		t.Errorf("status = %q, want Pending", order.Status)
	}
}

func TestCreateOrderFractionalPricesStayExact(t *testing.T) {
	orders := newFakeOrderRepo()
	handler := newCreateHandler(orders)

	order, err := handler.Handle(CreateOrderCommand{
		SupplierID: 1, OrdererID: 1,
		Lines: []OrderLineInput{{ItemID: 10, Quantity: 3, UnitPrice: "0.10"}},
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if want := decimal.RequireFromString("0.30"); !order.Lines[0].TotalPrice.Equal(want) {
		t.Errorf("total price = %s, want %s", order.Lines[0].TotalPrice, want)
	}
}

func TestCreateOrderRejectsBadPrices(t *testing.T) {
	orders := newFakeOrderRepo()
	handler := newCreateHandler(orders)

	for _, price := range []string{"", "abc", "-5"} {
		_, err := handler.Handle(CreateOrderCommand{
			SupplierID: 1, OrdererID: 1,
			Lines: []OrderLineInput{{ItemID: 10, Quantity: 1, UnitPrice: price}},
		})
		if apperror.StatusOf(err) != 400 {
			t.Errorf("price %q: status = %d, want 400", price, apperror.StatusOf(err))
		}
	}
}

func TestCreateOrderAssignsSequentialShortCodes(t *testing.T) {
	orders := newFakeOrderRepo()
	handler := newCreateHandler(orders)

	first, err := handler.Handle(CreateOrderCommand{
		SupplierID: 1, OrdererID: 1,
		Lines: []OrderLineInput{{ItemID: 10, Quantity: 1, UnitPrice: "5"}},
	})
	if err != nil {
		t.Fatalf("first Handle() error = %v", err)
	}
	second, err := handler.Handle(CreateOrderCommand{
		SupplierID: 1, OrdererID: 1,
		Lines: []OrderLineInput{{ItemID: 11, Quantity: 2, UnitPrice: "5"}},
	})
	if err != nil {
		t.Fatalf("second Handle() error = %v", err)
	}

	if first.ShortCode != "PO-0001" {
		t.Errorf("first short code = %q, want PO-0001", first.ShortCode)
	}
	if second.ShortCode != "PO-0002" {
		t.Errorf("second short code = %q, want PO-0002", second.ShortCode)
	}
}

func TestCreateOrderMissingItem(t *testing.T) {
	orders := newFakeOrderRepo()
	handler := newCreateHandler(orders)

	_, err := handler.Handle(CreateOrderCommand{
		SupplierID: 1, OrdererID: 1,
		Lines: []OrderLineInput{{ItemID: 99, Quantity: 1, UnitPrice: "5"}},
	})
	if apperror.StatusOf(err) != 404 {
		t.Errorf("status = %d, want 404", apperror.StatusOf(err))
	}
}

func TestUpdateOrderRecomputesLineTotals(t *testing.T) {
	orders := newFakeOrderRepo()
	create := newCreateHandler(orders)
	order, err := create.Handle(CreateOrderCommand{
		SupplierID: 1, OrdererID: 1,
		Lines: []OrderLineInput{{ItemID: 10, Quantity: 1, UnitPrice: "5"}},
	})
	if err != nil {
		t.Fatalf("create Handle() error = %v", err)
	}

	update := NewUpdateOrderHandler(orders, newFakeSupplierRepo(1), &fakeItems{known: map[uint]bool{10: true}})
	lines := []OrderLineInput{{ItemID: 10, Quantity: 3, UnitPrice: "10"}}
	updated, err := update.Handle(UpdateOrderCommand{ID: order.ID, Lines: &lines})
	if err != nil {
		t.Fatalf("update Handle() error = %v", err)
	}

	if !updated.Lines[0].TotalPrice.Equal(decimal.NewFromInt(30)) {
		t.Errorf("total price = %s, want 30", updated.Lines[0].TotalPrice)
	}
	if updated.ShortCode != order.ShortCode {
		t.Errorf("short code changed on update: %q -> %q", order.ShortCode, updated.ShortCode)
	}
}

func TestReceiveOrder(t *testing.T) {
	orders := newFakeOrderRepo()
	create := newCreateHandler(orders)
	order, _ := create.Handle(CreateOrderCommand{
		SupplierID: 1, OrdererID: 1,
		Lines: []OrderLineInput{{ItemID: 10, Quantity: 1, UnitPrice: "5"}},
	})

	receive := NewReceiveOrderHandler(orders)

	partial, err := receive.Handle(ReceiveOrderCommand{ID: order.ID, Partial: true})
	if err != nil {
		t.Fatalf("partial Handle() error = %v", err)
	}
	if partial.Status != domain.StatusPartiallyReceived {
		t.Errorf("status = %q, want Partially Received", partial.Status)
	}
	if partial.ReceivedAt != nil {
		t.Error("partial receipt should not stamp received_at")
	}

	full, err := receive.Handle(ReceiveOrderCommand{ID: order.ID})
	if err != nil {
		t.Fatalf("full Handle() error = %v", err)
	}
	if full.Status != domain.StatusReceived {
		t.Errorf("status = %q, want Received", full.Status)
	}
	if full.ReceivedAt == nil {
		t.Error("full receipt should stamp received_at")
	}

	// A received order cannot be received again or cancelled.
	if _, err := receive.Handle(ReceiveOrderCommand{ID: order.ID}); apperror.StatusOf(err) != 400 {
		t.Errorf("re-receive: status = %d, want 400", apperror.StatusOf(err))
	}
	cancel := NewCancelOrderHandler(orders)
	if _, err := cancel.Handle(CancelOrderCommand{ID: order.ID}); apperror.StatusOf(err) != 400 {
		t.Errorf("cancel received: status = %d, want 400", apperror.StatusOf(err))
	}
}

func TestDeleteSupplierWithPendingOrders(t *testing.T) {
	orders := newFakeOrderRepo()
	suppliers := newFakeSupplierRepo(1)
	create := NewCreateOrderHandler(orders, suppliers, &fakeItems{known: map[uint]bool{10: true}}, &fakeUsers{known: map[uint]bool{1: true}})
	if _, err := create.Handle(CreateOrderCommand{
		SupplierID: 1, OrdererID: 1,
		Lines: []OrderLineInput{{ItemID: 10, Quantity: 1, UnitPrice: "5"}},
	}); err != nil {
		t.Fatalf("create Handle() error = %v", err)
	}

	del := NewDeleteSupplierHandler(suppliers, orders)
	if err := del.Handle(DeleteSupplierCommand{ID: 1}); apperror.StatusOf(err) != 400 {
		t.Errorf("status = %d, want 400", apperror.StatusOf(err))
	}
}
