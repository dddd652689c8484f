package pos

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale statuses
const (
	SaleStatusPending   = "Pending"
	SaleStatusCompleted = "Completed"
	SaleStatusVoided    = "Voided"
)

// Transaction types
const (
	TransactionTypeSale   = "Sale"
	TransactionTypeSalary = "Salary"
)

// Shop is a selling location. LocationID ties it to the inventory
// location its stock is drawn from.
type Shop struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	LocationID uint      `json:"location_id"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store is a storage room attached to a shop.
type Store struct {
	ID          uint      `json:"id"`
	ShopID      uint      `json:"shop_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sale is a point-of-sale ticket. A Pending sale reserves its quantities
// against stock; completing it settles the reservation and records a
// financial transaction.
type Sale struct {
	ID          uint            `json:"id"`
	Reference   string          `json:"reference"`
	ShopID      uint            `json:"shop_id"`
	CashierID   uint            `json:"cashier_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Lines       []SaleLine      `json:"lines"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SaleLine is one sold product. ItemID is resolved from the catalog at
// sale time so completion does not depend on later catalog edits.
type SaleLine struct {
	ID        uint            `json:"id"`
	SaleID    uint            `json:"sale_id"`
	ProductID uint            `json:"product_id"`
	ItemID    uint            `json:"item_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Transaction is an entry in the financial ledger.
type Transaction struct {
	ID        uint            `json:"id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
}

// Invoice is issued from a completed sale.
type Invoice struct {
	ID            uint            `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	SaleID        uint            `json:"sale_id"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	IssuedAt      time.Time       `json:"issued_at"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

// SalaryPayment records a salary paid to a staff member for a period.
type SalaryPayment struct {
	ID        uint            `json:"id"`
	StaffID   uint            `json:"staff_id"`
	Period    string          `json:"period"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paid_at"`
	CreatedAt time.Time       `json:"created_at"`
}

type CreateShopRequest struct {
	Name       string `json:"name" validate:"required"`
	Address    string `json:"address"`
	LocationID uint   `json:"location_id" validate:"required"`
}

type UpdateShopRequest struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"is_active"`
}

type CreateStoreRequest struct {
	ShopID      uint   `json:"shop_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateStoreRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type SaleLineRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type CreateSaleRequest struct {
	ShopID    uint              `json:"shop_id" validate:"required"`
	CashierID uint              `json:"-"`
	Lines     []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type CreateInvoiceRequest struct {
	SaleID uint `json:"sale_id" validate:"required"`
}

type PayInvoiceRequest struct {
	Amount string `json:"amount" validate:"required"`
}

type CreateSalaryPaymentRequest struct {
	StaffID uint   `json:"staff_id" validate:"required"`
	Period  string `json:"period" validate:"required"`
	Amount  string `json:"amount" validate:"required"`
}

// StockGateway reports the on-hand quantity at an inventory location.
type StockGateway interface {
	AvailableQuantity(itemID, locationID uint) (int, error)
}

// CatalogGateway resolves a product to its inventory item, current
// price, and active flag.
type CatalogGateway interface {
	ProductRef(id uint) (itemID uint, price decimal.Decimal, active bool, err error)
}

// UserGateway checks that a referenced user exists.
type UserGateway interface {
	UserExists(id uint) (bool, error)
}
