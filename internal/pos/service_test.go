package pos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/thukha/backoffice/pkg/apperror"
)

type fakeRepo struct {
	shops        map[uint]*Shop
	stores       map[uint]*Store
	sales        map[uint]*Sale
	invoices     map[uint]*Invoice
	transactions []Transaction
	nextID       uint
}

func newFakeRepo(shops ...*Shop) *fakeRepo {
	f := &fakeRepo{
		shops:    make(map[uint]*Shop),
		stores:   make(map[uint]*Store),
		sales:    make(map[uint]*Sale),
		invoices: make(map[uint]*Invoice),
		nextID:   1,
	}
	for _, shop := range shops {
		f.shops[shop.ID] = shop
	}
	return f
}

func (f *fakeRepo) CreateShop(shop *Shop) error {
	shop.ID = f.nextID
	f.nextID++
	f.shops[shop.ID] = shop
	return nil
}

func (f *fakeRepo) FindShopByID(id uint) (*Shop, error) {
	shop, ok := f.shops[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *shop
	return &copied, nil
}

func (f *fakeRepo) FindAllShops() ([]Shop, error) { return nil, nil }
func (f *fakeRepo) UpdateShop(shop *Shop) error   { f.shops[shop.ID] = shop; return nil }
func (f *fakeRepo) DeleteShop(id uint) error      { delete(f.shops, id); return nil }

func (f *fakeRepo) CreateStore(store *Store) error {
	store.ID = f.nextID
	f.nextID++
	f.stores[store.ID] = store
	return nil
}

func (f *fakeRepo) FindStoreByID(id uint) (*Store, error) {
	store, ok := f.stores[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return store, nil
}

func (f *fakeRepo) FindStoresByShop(shopID uint) ([]Store, error) { return nil, nil }
func (f *fakeRepo) UpdateStore(store *Store) error                { return nil }
func (f *fakeRepo) DeleteStore(id uint) error                     { delete(f.stores, id); return nil }

func (f *fakeRepo) CreateSale(sale *Sale) error {
	sale.ID = f.nextID
	f.nextID++
	stored := *sale
	stored.Lines = append([]SaleLine(nil), sale.Lines...)
	f.sales[sale.ID] = &stored
	return nil
}

func (f *fakeRepo) FindSaleByID(id uint) (*Sale, error) {
	sale, ok := f.sales[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *sale
	copied.Lines = append([]SaleLine(nil), sale.Lines...)
	return &copied, nil
}

func (f *fakeRepo) FindSales(status string, shopID uint, limit, offset int) ([]Sale, int, error) {
	var sales []Sale
	for _, sale := range f.sales {
		if status != "" && sale.Status != status {
			continue
		}
		if shopID != 0 && sale.ShopID != shopID {
			continue
		}
		sales = append(sales, *sale)
	}
	return sales, len(sales), nil
}

func (f *fakeRepo) PendingQuantity(productID, shopID uint) (int, error) {
	var total int
	for _, sale := range f.sales {
		if sale.Status != SaleStatusPending || sale.ShopID != shopID {
			continue
		}
		for _, line := range sale.Lines {
			if line.ProductID == productID {
				total += line.Quantity
			}
		}
	}
	return total, nil
}

func (f *fakeRepo) CompleteSale(id uint, txn *Transaction) error {
	sale, ok := f.sales[id]
	if !ok || sale.Status != SaleStatusPending {
		return sql.ErrNoRows
	}
	sale.Status = SaleStatusCompleted
	txn.ID = f.nextID
	f.nextID++
	f.transactions = append(f.transactions, *txn)
	return nil
}

func (f *fakeRepo) VoidSale(id uint) error {
	sale, ok := f.sales[id]
	if !ok || sale.Status != SaleStatusPending {
		return sql.ErrNoRows
	}
	sale.Status = SaleStatusVoided
	return nil
}

func (f *fakeRepo) CreateInvoice(invoice *Invoice) error {
	invoice.ID = f.nextID
	f.nextID++
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeRepo) FindInvoiceByID(id uint) (*Invoice, error) {
	invoice, ok := f.invoices[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *invoice
	return &copied, nil
}

func (f *fakeRepo) FindInvoiceBySale(saleID uint) (*Invoice, error) {
	for _, invoice := range f.invoices {
		if invoice.SaleID == saleID {
			return invoice, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepo) UpdateInvoice(invoice *Invoice) error {
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeRepo) CreateSalaryPayment(payment *SalaryPayment, txn *Transaction) error {
	payment.ID = f.nextID
	f.nextID++
	f.transactions = append(f.transactions, *txn)
	return nil
}

func (f *fakeRepo) FindSalaryPayments(limit, offset int) ([]SalaryPayment, error) { return nil, nil }

func (f *fakeRepo) FindTransactions(txType string, limit, offset int) ([]Transaction, int, error) {
	return f.transactions, len(f.transactions), nil
}

type fakeStocks struct {
	// keyed by "item/location"
	onHand map[string]int
}

func (f *fakeStocks) AvailableQuantity(itemID, locationID uint) (int, error) {
	return f.onHand[fmt.Sprintf("%d/%d", itemID, locationID)], nil
}

type fakeCatalog struct {
	products map[uint]struct {
		itemID uint
		price  decimal.Decimal
		active bool
	}
}

func (f *fakeCatalog) ProductRef(id uint) (uint, decimal.Decimal, bool, error) {
	p, ok := f.products[id]
	if !ok {
		return 0, decimal.Zero, false, sql.ErrNoRows
	}
	return p.itemID, p.price, p.active, nil
}

type fakeUsers struct{ known map[uint]bool }

func (f *fakeUsers) UserExists(id uint) (bool, error) { return f.known[id], nil }

func newTestService(repo *fakeRepo, onHand map[string]int) *Service {
	catalog := &fakeCatalog{products: map[uint]struct {
		itemID uint
		price  decimal.Decimal
		active bool
	}{
		7: {itemID: 100, price: decimal.NewFromInt(5), active: true},
		8: {itemID: 101, price: decimal.RequireFromString("2.50"), active: true},
		9: {itemID: 102, price: decimal.NewFromInt(1), active: false},
	}}

	svc := NewService(
		repo,
		&fakeStocks{onHand: onHand},
		catalog,
		&fakeUsers{known: map[uint]bool{1: true}},
		nil,
	)
	var seq int
	svc.newReference = func(prefix string) string {
		seq++
		return fmt.Sprintf("%s-%04d", prefix, seq)
	}
	return svc
}

func TestCreateSaleNetsPendingReservations(t *testing.T) {
	repo := newFakeRepo(&Shop{ID: 1, Name: "Main", LocationID: 1, IsActive: true})
	svc := newTestService(repo, map[string]int{"100/1": 10})

	first, err := svc.CreateSale(CreateSaleRequest{
		ShopID:    1,
		CashierID: 1,
		Lines:     []SaleLineRequest{{ProductID: 7, Quantity: 6}},
	})
	if err != nil {
		t.Fatalf("first CreateSale() error = %v", err)
	}
	if first.Status != SaleStatusPending {
		t.Errorf("status = %q, want Pending", first.Status)
	}

	// Only 4 of the 10 on hand remain unreserved.
	_, err = svc.CreateSale(CreateSaleRequest{
		ShopID:    1,
		CashierID: 1,
		Lines:     []SaleLineRequest{{ProductID: 7, Quantity: 6}},
	})
	if apperror.StatusOf(err) != 400 {
		t.Fatalf("status = %d, want 400", apperror.StatusOf(err))
	}
	if !strings.Contains(err.Error(), "available 4") {
		t.Errorf("error %q should report 4 available", err)
	}

	// Voiding the first sale releases its reservation.
	if _, err := svc.VoidSale(first.ID); err != nil {
		t.Fatalf("VoidSale() error = %v", err)
	}
	if _, err := svc.CreateSale(CreateSaleRequest{
		ShopID:    1,
		CashierID: 1,
		Lines:     []SaleLineRequest{{ProductID: 7, Quantity: 6}},
	}); err != nil {
		t.Errorf("CreateSale() after void error = %v", err)
	}
}

func TestCreateSaleComputesTotal(t *testing.T) {
	repo := newFakeRepo(&Shop{ID: 1, Name: "Main", LocationID: 1, IsActive: true})
	svc := newTestService(repo, map[string]int{"100/1": 10, "101/1": 10})

	sale, err := svc.CreateSale(CreateSaleRequest{
		ShopID:    1,
		CashierID: 1,
		Lines: []SaleLineRequest{
			{ProductID: 7, Quantity: 2},
			{ProductID: 8, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}

	// 2x5.00 + 3x2.50 = 17.50
	if want := decimal.RequireFromString("17.50"); !sale.TotalAmount.Equal(want) {
		t.Errorf("total = %s, want %s", sale.TotalAmount, want)
	}
	if sale.Lines[0].ItemID != 100 || sale.Lines[1].ItemID != 101 {
		t.Errorf("item refs = %d, %d, want 100, 101", sale.Lines[0].ItemID, sale.Lines[1].ItemID)
	}
	if !strings.HasPrefix(sale.Reference, "SA-") {
		t.Errorf("reference = %q, want SA- prefix", sale.Reference)
	}
}

func TestCreateSaleInactiveProduct(t *testing.T) {
	repo := newFakeRepo(&Shop{ID: 1, Name: "Main", LocationID: 1, IsActive: true})
	svc := newTestService(repo, map[string]int{"102/1": 10})

	_, err := svc.CreateSale(CreateSaleRequest{
		ShopID:    1,
		CashierID: 1,
		Lines:     []SaleLineRequest{{ProductID: 9, Quantity: 1}},
	})
	if apperror.StatusOf(err) != 400 {
		t.Errorf("status = %d, want 400", apperror.StatusOf(err))
	}
}

func TestCompleteSaleRecordsTransaction(t *testing.T) {
	repo := newFakeRepo(&Shop{ID: 1, Name: "Main", LocationID: 1, IsActive: true})
	svc := newTestService(repo, map[string]int{"100/1": 10})

	sale, err := svc.CreateSale(CreateSaleRequest{
		ShopID:    1,
		CashierID: 1,
		Lines:     []SaleLineRequest{{ProductID: 7, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}

	completed, err := svc.CompleteSale(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("CompleteSale() error = %v", err)
	}
	if completed.Status != SaleStatusCompleted {
		t.Errorf("status = %q, want Completed", completed.Status)
	}

	if len(repo.transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(repo.transactions))
	}
	txn := repo.transactions[0]
	if txn.Type != TransactionTypeSale {
		t.Errorf("transaction type = %q, want Sale", txn.Type)
	}
	if !txn.Amount.Equal(sale.TotalAmount) {
		t.Errorf("transaction amount = %s, want %s", txn.Amount, sale.TotalAmount)
	}
	if txn.Reference != sale.Reference {
		t.Errorf("transaction reference = %q, want %q", txn.Reference, sale.Reference)
	}

	// A completed sale cannot be completed again or voided.
	if _, err := svc.CompleteSale(context.Background(), sale.ID); apperror.StatusOf(err) != 400 {
		t.Errorf("re-complete: status = %d, want 400", apperror.StatusOf(err))
	}
	if _, err := svc.VoidSale(sale.ID); apperror.StatusOf(err) != 400 {
		t.Errorf("void completed: status = %d, want 400", apperror.StatusOf(err))
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	repo := newFakeRepo(&Shop{ID: 1, Name: "Main", LocationID: 1, IsActive: true})
	svc := newTestService(repo, map[string]int{"100/1": 10})

	sale, err := svc.CreateSale(CreateSaleRequest{
		ShopID:    1,
		CashierID: 1,
		Lines:     []SaleLineRequest{{ProductID: 7, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateSale() error = %v", err)
	}

	// Pending sale cannot be invoiced.
	if _, err := svc.CreateInvoice(CreateInvoiceRequest{SaleID: sale.ID}); apperror.StatusOf(err) != 400 {
		t.Errorf("invoice pending sale: status = %d, want 400", apperror.StatusOf(err))
	}

	if _, err := svc.CompleteSale(context.Background(), sale.ID); err != nil {
		t.Fatalf("CompleteSale() error = %v", err)
	}

	invoice, err := svc.CreateInvoice(CreateInvoiceRequest{SaleID: sale.ID})
	if err != nil {
		t.Fatalf("CreateInvoice() error = %v", err)
	}
	if !invoice.AmountDue.Equal(sale.TotalAmount) {
		t.Errorf("amount due = %s, want %s", invoice.AmountDue, sale.TotalAmount)
	}

	// A second invoice for the same sale conflicts.
	if _, err := svc.CreateInvoice(CreateInvoiceRequest{SaleID: sale.ID}); apperror.StatusOf(err) != 409 {
		t.Errorf("duplicate invoice: status = %d, want 409", apperror.StatusOf(err))
	}

	// Partial payment, then settling the balance stamps paid_at.
	paid, err := svc.PayInvoice(invoice.ID, PayInvoiceRequest{Amount: "4"})
	if err != nil {
		t.Fatalf("PayInvoice() error = %v", err)
	}
	if paid.PaidAt != nil {
		t.Error("partially paid invoice should not be stamped paid")
	}

	if _, err := svc.PayInvoice(invoice.ID, PayInvoiceRequest{Amount: "100"}); apperror.StatusOf(err) != 400 {
		t.Errorf("overpay: status = %d, want 400", apperror.StatusOf(err))
	}

	settled, err := svc.PayInvoice(invoice.ID, PayInvoiceRequest{Amount: "6"})
	if err != nil {
		t.Fatalf("PayInvoice() error = %v", err)
	}
	if settled.PaidAt == nil {
		t.Error("fully paid invoice should be stamped paid")
	}
}

func TestCreateSalaryPaymentWritesLedger(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	payment, err := svc.CreateSalaryPayment(CreateSalaryPaymentRequest{
		StaffID: 1,
		Period:  "2026-08",
		Amount:  "1200.00",
	})
	if err != nil {
		t.Fatalf("CreateSalaryPayment() error = %v", err)
	}
	if !payment.Amount.Equal(decimal.RequireFromString("1200.00")) {
		t.Errorf("amount = %s, want 1200.00", payment.Amount)
	}

	if len(repo.transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(repo.transactions))
	}
	if repo.transactions[0].Type != TransactionTypeSalary {
		t.Errorf("transaction type = %q, want Salary", repo.transactions[0].Type)
	}

	if _, err := svc.CreateSalaryPayment(CreateSalaryPaymentRequest{
		StaffID: 99,
		Period:  "2026-08",
		Amount:  "100",
	}); apperror.StatusOf(err) != 404 {
		t.Errorf("unknown staff: status = %d, want 404", apperror.StatusOf(err))
	}
}
