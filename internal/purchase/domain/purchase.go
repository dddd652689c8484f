package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase order status values
const (
	StatusPending           = "Pending"
	StatusPartiallyReceived = "Partially Received"
	StatusReceived          = "Received"
	StatusCancelled         = "Cancelled"
)

// Supplier is a vendor purchase orders are placed with.
type Supplier struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"not null"`
	ContactPerson string         `json:"contact_person"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Address       string         `json:"address"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// PurchaseOrder is an order placed with a supplier.
type PurchaseOrder struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ShortCode  string         `json:"short_code" gorm:"uniqueIndex;not null"`
	SupplierID uint           `json:"supplier_id" gorm:"not null;index"`
	OrdererID  uint           `json:"orderer_id" gorm:"not null"`
	Status     string         `json:"status" gorm:"default:Pending"`
	OrderedAt  time.Time      `json:"ordered_at"`
	ReceivedAt *time.Time     `json:"received_at"`
	Lines      []OrderLine    `json:"lines,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Notes      string         `json:"notes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// OrderLine is one line of a purchase order. TotalPrice is always
// recomputed as Quantity × UnitPrice before persistence.
type OrderLine struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	PurchaseOrderID uint            `json:"-" gorm:"not null;index"`
	Position        int             `json:"-" gorm:"not null"`
	ItemID          uint            `json:"item_id" gorm:"not null"`
	Quantity        int             `json:"quantity" gorm:"not null"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);not null"`
	TotalPrice      decimal.Decimal `json:"total_price" gorm:"type:numeric(12,2);not null"`
	LocationID      uint            `json:"location_id"`
}

func (OrderLine) TableName() string {
	return "purchase_order_lines"
}

// OrderFilter narrows purchase order listings.
type OrderFilter struct {
	SupplierID uint
	OrdererID  uint
	Status     string
	Limit      int
	Offset     int
}

// SupplierRepository defines the contract for supplier data access
type SupplierRepository interface {
	Create(supplier *Supplier) error
	FindByID(id uint) (*Supplier, error)
	FindAll(limit, offset int) ([]Supplier, int64, error)
	Update(supplier *Supplier) error
	Delete(id uint) error
	Exists(id uint) (bool, error)
}

// OrderRepository defines the contract for purchase order data access.
// CreateWithCode assigns the next short code from an atomic counter
// inside the same transaction that inserts the order.
type OrderRepository interface {
	CreateWithCode(order *PurchaseOrder) error
	FindByID(id uint) (*PurchaseOrder, error)
	FindAll(filter OrderFilter) ([]PurchaseOrder, int64, error)
	Update(order *PurchaseOrder) error
	Delete(id uint) error
	Exists(id uint) (bool, error)
}

// ItemGateway resolves inventory item references owned by the
// inventory module.
type ItemGateway interface {
	ItemExists(id uint) (bool, error)
}

// UserGateway resolves account references owned by the user module.
type UserGateway interface {
	UserExists(id uint) (bool, error)
}
