package pos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thukha/backoffice/kafka"
	"github.com/thukha/backoffice/pkg/apperror"
	"github.com/thukha/backoffice/pkg/logger"
)

// Service handles business logic for the POS/finance subsystem
type Service struct {
	repo      Repository
	stocks    StockGateway
	catalog   CatalogGateway
	users     UserGateway
	publisher *kafka.Publisher

	// newReference is swappable in tests.
	newReference func(prefix string) string
}

// NewService creates a new POS service
func NewService(repo Repository, stocks StockGateway, catalog CatalogGateway, users UserGateway, publisher *kafka.Publisher) *Service {
	return &Service{
		repo:         repo,
		stocks:       stocks,
		catalog:      catalog,
		users:        users,
		publisher:    publisher,
		newReference: shortRef,
	}
}

func shortRef(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// CreateShop creates a new shop
func (s *Service) CreateShop(req CreateShopRequest) (*Shop, error) {
	shop := &Shop{
		Name:       req.Name,
		Address:    req.Address,
		LocationID: req.LocationID,
		IsActive:   true,
	}
	if err := s.repo.CreateShop(shop); err != nil {
		return nil, fmt.Errorf("failed to create shop: %w", err)
	}
	return shop, nil
}

// GetShop retrieves a shop by ID
func (s *Service) GetShop(id uint) (*Shop, error) {
	shop, err := s.repo.FindShopByID(id)
	if err != nil {
		return nil, apperror.NotFound("shop not found")
	}
	return shop, nil
}

// GetAllShops retrieves all shops
func (s *Service) GetAllShops() ([]Shop, error) {
	return s.repo.FindAllShops()
}

// UpdateShop applies a partial update to a shop
func (s *Service) UpdateShop(id uint, req UpdateShopRequest) (*Shop, error) {
	shop, err := s.repo.FindShopByID(id)
	if err != nil {
		return nil, apperror.NotFound("shop not found")
	}
	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.IsActive != nil {
		shop.IsActive = *req.IsActive
	}
	if err := s.repo.UpdateShop(shop); err != nil {
		return nil, fmt.Errorf("failed to update shop: %w", err)
	}
	return shop, nil
}

// DeleteShop removes a shop. Shops with pending sales cannot be removed.
func (s *Service) DeleteShop(id uint) error {
	if _, err := s.repo.FindShopByID(id); err != nil {
		return apperror.NotFound("shop not found")
	}
	_, pending, err := s.repo.FindSales(SaleStatusPending, id, 1, 0)
	if err != nil {
		return fmt.Errorf("failed to check pending sales: %w", err)
	}
	if pending > 0 {
		return apperror.BadRequest("cannot delete a shop with pending sales")
	}
	if err := s.repo.DeleteShop(id); err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	return nil
}

// CreateStore creates a new storage room under a shop
func (s *Service) CreateStore(req CreateStoreRequest) (*Store, error) {
	if _, err := s.repo.FindShopByID(req.ShopID); err != nil {
		return nil, apperror.NotFound("shop %d not found", req.ShopID)
	}
	store := &Store{
		ShopID:      req.ShopID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.CreateStore(store); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	return store, nil
}

// GetStore retrieves a store by ID
func (s *Service) GetStore(id uint) (*Store, error) {
	store, err := s.repo.FindStoreByID(id)
	if err != nil {
		return nil, apperror.NotFound("store not found")
	}
	return store, nil
}

// GetStoresByShop lists the stores of a shop
func (s *Service) GetStoresByShop(shopID uint) ([]Store, error) {
	return s.repo.FindStoresByShop(shopID)
}

// UpdateStore applies a partial update to a store
func (s *Service) UpdateStore(id uint, req UpdateStoreRequest) (*Store, error) {
	store, err := s.repo.FindStoreByID(id)
	if err != nil {
		return nil, apperror.NotFound("store not found")
	}
	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.Description != nil {
		store.Description = *req.Description
	}
	if err := s.repo.UpdateStore(store); err != nil {
		return nil, fmt.Errorf("failed to update store: %w", err)
	}
	return store, nil
}

// DeleteStore removes a store
func (s *Service) DeleteStore(id uint) error {
	if _, err := s.repo.FindStoreByID(id); err != nil {
		return apperror.NotFound("store not found")
	}
	if err := s.repo.DeleteStore(id); err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	return nil
}

// CreateSale opens a pending sale. Requested quantities are netted
// against on-hand stock minus what other pending sales at the shop
// already hold, so two tickets cannot promise the same units.
func (s *Service) CreateSale(req CreateSaleRequest) (*Sale, error) {
	shop, err := s.repo.FindShopByID(req.ShopID)
	if err != nil {
		return nil, apperror.NotFound("shop %d not found", req.ShopID)
	}
	if !shop.IsActive {
		return nil, apperror.BadRequest("shop %d is not active", shop.ID)
	}

	exists, err := s.users.UserExists(req.CashierID)
	if err != nil {
		return nil, fmt.Errorf("failed to check cashier: %w", err)
	}
	if !exists {
		return nil, apperror.NotFound("cashier %d not found", req.CashierID)
	}

	if len(req.Lines) == 0 {
		return nil, apperror.BadRequest("a sale needs at least one line")
	}

	lines := make([]SaleLine, 0, len(req.Lines))
	requested := make(map[uint]int)
	itemOf := make(map[uint]uint)
	total := decimal.Zero
	for _, lr := range req.Lines {
		if lr.Quantity < 1 {
			return nil, apperror.BadRequest("quantity must be at least 1 for product %d", lr.ProductID)
		}
		itemID, price, active, err := s.catalog.ProductRef(lr.ProductID)
		if err != nil {
			return nil, apperror.NotFound("product %d not found", lr.ProductID)
		}
		if !active {
			return nil, apperror.BadRequest("product %d is not active", lr.ProductID)
		}
		lineTotal := price.Mul(decimal.NewFromInt(int64(lr.Quantity)))
		lines = append(lines, SaleLine{
			ProductID: lr.ProductID,
			ItemID:    itemID,
			Quantity:  lr.Quantity,
			UnitPrice: price,
			LineTotal: lineTotal,
		})
		requested[lr.ProductID] += lr.Quantity
		itemOf[lr.ProductID] = itemID
		total = total.Add(lineTotal)
	}

	for productID, qty := range requested {
		onHand, err := s.stocks.AvailableQuantity(itemOf[productID], shop.LocationID)
		if err != nil {
			return nil, fmt.Errorf("failed to check stock: %w", err)
		}
		pending, err := s.repo.PendingQuantity(productID, shop.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check pending sales: %w", err)
		}
		available := onHand - pending
		if qty > available {
			return nil, apperror.BadRequest("insufficient stock for product %d: requested %d, available %d", productID, qty, available)
		}
	}

	sale := &Sale{
		Reference:   s.newReference("SA"),
		ShopID:      shop.ID,
		CashierID:   req.CashierID,
		Status:      SaleStatusPending,
		TotalAmount: total,
		Lines:       lines,
	}
	if err := s.repo.CreateSale(sale); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}
	return sale, nil
}

// GetSale retrieves a sale with its lines
func (s *Service) GetSale(id uint) (*Sale, error) {
	sale, err := s.repo.FindSaleByID(id)
	if err != nil {
		return nil, apperror.NotFound("sale not found")
	}
	return sale, nil
}

// GetSales lists sales, optionally filtered by status and shop
func (s *Service) GetSales(status string, shopID uint, limit, offset int) ([]Sale, int, error) {
	switch status {
	case "", SaleStatusPending, SaleStatusCompleted, SaleStatusVoided:
	default:
		return nil, 0, apperror.BadRequest("invalid status filter %q", status)
	}
	if limit == 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.FindSales(status, shopID, limit, offset)
}

// CompleteSale settles a pending sale: the ledger transaction is written
// in the same SQL transaction as the status flip, then the sale.completed
// event is published for the inventory service to deduct stock.
func (s *Service) CompleteSale(ctx context.Context, id uint) (*Sale, error) {
	sale, err := s.repo.FindSaleByID(id)
	if err != nil {
		return nil, apperror.NotFound("sale not found")
	}
	if sale.Status != SaleStatusPending {
		return nil, apperror.BadRequest("only a pending sale can be completed")
	}

	txn := &Transaction{
		Type:      TransactionTypeSale,
		Amount:    sale.TotalAmount,
		Reference: sale.Reference,
		Notes:     fmt.Sprintf("Sale %s completed at shop %d", sale.Reference, sale.ShopID),
	}
	if err := s.repo.CompleteSale(sale.ID, txn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.BadRequest("sale %d is no longer pending", sale.ID)
		}
		return nil, fmt.Errorf("failed to complete sale: %w", err)
	}
	sale.Status = SaleStatusCompleted

	s.publishSaleCompleted(ctx, sale)
	return sale, nil
}

func (s *Service) publishSaleCompleted(ctx context.Context, sale *Sale) {
	if s.publisher == nil {
		return
	}
	shop, err := s.repo.FindShopByID(sale.ShopID)
	if err != nil {
		logger.Error(ctx).Err(err).Uint("sale_id", sale.ID).Msg("Failed to resolve shop for sale event")
		return
	}

	event := kafka.SaleCompletedEvent{
		SaleID:    sale.ID,
		ShopID:    sale.ShopID,
		CashierID: sale.CashierID,
		Reference: sale.Reference,
		Amount:    sale.TotalAmount.String(),
		Timestamp: time.Now(),
	}
	for _, line := range sale.Lines {
		event.Lines = append(event.Lines, kafka.SaleLineItem{
			ProductID:  line.ProductID,
			ItemID:     line.ItemID,
			LocationID: shop.LocationID,
			Quantity:   line.Quantity,
		})
	}
	if err := s.publisher.PublishSaleCompleted(ctx, event); err != nil {
		logger.Error(ctx).Err(err).Uint("sale_id", sale.ID).Msg("Failed to publish sale.completed event")
	}
}

// VoidSale cancels a pending sale, releasing its reservation.
func (s *Service) VoidSale(id uint) (*Sale, error) {
	sale, err := s.repo.FindSaleByID(id)
	if err != nil {
		return nil, apperror.NotFound("sale not found")
	}
	if sale.Status != SaleStatusPending {
		return nil, apperror.BadRequest("only a pending sale can be voided")
	}
	if err := s.repo.VoidSale(sale.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.BadRequest("sale %d is no longer pending", sale.ID)
		}
		return nil, fmt.Errorf("failed to void sale: %w", err)
	}
	sale.Status = SaleStatusVoided
	return sale, nil
}

// CreateInvoice issues an invoice for a completed sale.
func (s *Service) CreateInvoice(req CreateInvoiceRequest) (*Invoice, error) {
	sale, err := s.repo.FindSaleByID(req.SaleID)
	if err != nil {
		return nil, apperror.NotFound("sale %d not found", req.SaleID)
	}
	if sale.Status != SaleStatusCompleted {
		return nil, apperror.BadRequest("an invoice can only be issued for a completed sale")
	}
	if existing, _ := s.repo.FindInvoiceBySale(sale.ID); existing != nil {
		return nil, apperror.Conflict("sale %d already has invoice %s", sale.ID, existing.InvoiceNumber)
	}

	invoice := &Invoice{
		InvoiceNumber: s.newReference("INV"),
		SaleID:        sale.ID,
		AmountDue:     sale.TotalAmount,
		AmountPaid:    decimal.Zero,
	}
	if err := s.repo.CreateInvoice(invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return invoice, nil
}

// GetInvoice retrieves an invoice by ID
func (s *Service) GetInvoice(id uint) (*Invoice, error) {
	invoice, err := s.repo.FindInvoiceByID(id)
	if err != nil {
		return nil, apperror.NotFound("invoice not found")
	}
	return invoice, nil
}

// PayInvoice records a payment against an invoice. The invoice is
// stamped paid when the balance reaches zero.
func (s *Service) PayInvoice(id uint, req PayInvoiceRequest) (*Invoice, error) {
	invoice, err := s.repo.FindInvoiceByID(id)
	if err != nil {
		return nil, apperror.NotFound("invoice not found")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, apperror.BadRequest("invalid amount: %q", req.Amount)
	}
	if !amount.IsPositive() {
		return nil, apperror.BadRequest("payment amount must be positive")
	}

	newPaid := invoice.AmountPaid.Add(amount)
	if newPaid.GreaterThan(invoice.AmountDue) {
		return nil, apperror.BadRequest("payment exceeds amount due: %s remaining", invoice.AmountDue.Sub(invoice.AmountPaid))
	}
	invoice.AmountPaid = newPaid
	if newPaid.Equal(invoice.AmountDue) {
		now := time.Now()
		invoice.PaidAt = &now
	}

	if err := s.repo.UpdateInvoice(invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return invoice, nil
}

// CreateSalaryPayment records a salary payment and its ledger transaction.
func (s *Service) CreateSalaryPayment(req CreateSalaryPaymentRequest) (*SalaryPayment, error) {
	exists, err := s.users.UserExists(req.StaffID)
	if err != nil {
		return nil, fmt.Errorf("failed to check staff: %w", err)
	}
	if !exists {
		return nil, apperror.NotFound("staff %d not found", req.StaffID)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, apperror.BadRequest("invalid amount: %q", req.Amount)
	}
	if !amount.IsPositive() {
		return nil, apperror.BadRequest("salary amount must be positive")
	}

	payment := &SalaryPayment{
		StaffID: req.StaffID,
		Period:  req.Period,
		Amount:  amount,
		PaidAt:  time.Now(),
	}
	txn := &Transaction{
		Type:      TransactionTypeSalary,
		Amount:    amount,
		Reference: s.newReference("SAL"),
		Notes:     fmt.Sprintf("Salary for staff %d, period %s", req.StaffID, req.Period),
	}
	if err := s.repo.CreateSalaryPayment(payment, txn); err != nil {
		return nil, fmt.Errorf("failed to create salary payment: %w", err)
	}
	return payment, nil
}

// GetSalaryPayments lists salary payments
func (s *Service) GetSalaryPayments(limit, offset int) ([]SalaryPayment, error) {
	if limit == 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.FindSalaryPayments(limit, offset)
}

// GetTransactions lists ledger transactions, optionally filtered by type
func (s *Service) GetTransactions(txType string, limit, offset int) ([]Transaction, int, error) {
	switch txType {
	case "", TransactionTypeSale, TransactionTypeSalary:
	default:
		return nil, 0, apperror.BadRequest("invalid type filter %q", txType)
	}
	if limit == 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.FindTransactions(txType, limit, offset)
}
