package domain

import (
	"time"

	"gorm.io/gorm"
)

// Stock status values
const (
	StatusAvailable = "Available"
	StatusInUse     = "In Use"
	StatusReserved  = "Reserved"
	StatusBroken    = "Broken"
	StatusLost      = "Lost"
	StatusDisposed  = "Disposed"
)

// ValidStatus reports whether s is a known stock status.
func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusInUse, StatusReserved, StatusBroken, StatusLost, StatusDisposed:
		return true
	}
	return false
}

// Stock log actions
const (
	ActionRecorded = "Recorded"
	ActionAdjusted = "Adjusted"
	ActionUpdated  = "Updated"
	ActionDeducted = "Deducted"
)

// Request types
const (
	RequestPurchase        = "Purchase"
	RequestStockWithdrawal = "StockWithdrawal"
)

// Request status values
const (
	RequestPending   = "Pending"
	RequestApproved  = "Approved"
	RequestRejected  = "Rejected"
	RequestFulfilled = "Fulfilled"
	RequestCancelled = "Cancelled"
)

// Approval decisions
const (
	DecisionPending  = "Pending"
	DecisionApproved = "Approved"
	DecisionRejected = "Rejected"
)

// Item is a trackable inventory item.
type Item struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Name            string         `json:"name" gorm:"not null"`
	CategoryID      uint           `json:"category_id" gorm:"index"`
	AssignedUserID  uint           `json:"assigned_user_id"`
	PurchaseOrderID uint           `json:"purchase_order_id"`
	QuantityUnit    string         `json:"quantity_unit"`
	Status          string         `json:"status" gorm:"default:Available"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Item) TableName() string {
	return "inventory_items"
}

// Location is a physical place stock can sit in.
type Location struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	Site      string         `json:"site"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Location) TableName() string {
	return "inventory_locations"
}

// Stock is the quantity of one item at one location.
type Stock struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ItemID     uint           `json:"item_id" gorm:"not null;index"`
	LocationID uint           `json:"location_id" gorm:"not null;index"`
	Quantity   int            `json:"quantity" gorm:"not null"`
	Status     string         `json:"status" gorm:"default:Available"`
	Logs       []StockLog     `json:"logs,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Stock) TableName() string {
	return "inventory_stocks"
}

// StockLog is one audit entry for a stock mutation. QuantityChanged
// carries the signed delta of the mutation.
type StockLog struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	StockID         uint      `json:"stock_id" gorm:"not null;index"`
	Action          string    `json:"action" gorm:"not null"`
	QuantityChanged int       `json:"quantity_changed" gorm:"not null"`
	Note            string    `json:"note"`
	ActorID         uint      `json:"actor_id"`
	CreatedAt       time.Time `json:"created_at"`
}

func (StockLog) TableName() string {
	return "inventory_stock_logs"
}

// Request is an inventory request (purchase or stock withdrawal).
// Exactly one of {Quantity+LocationID} or ItemLocations is set.
type Request struct {
	ID            uint                  `json:"id" gorm:"primaryKey"`
	Type          string                `json:"type" gorm:"not null"`
	ItemID        uint                  `json:"item_id" gorm:"not null;index"`
	RequesterID   uint                  `json:"requester_id" gorm:"not null"`
	Status        string                `json:"status" gorm:"default:Pending"`
	Quantity      int                   `json:"quantity"`
	LocationID    uint                  `json:"location_id"`
	ItemLocations []RequestItemLocation `json:"item_locations,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Approvals     []Approval            `json:"approvals,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Notes         string                `json:"notes"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	DeletedAt     gorm.DeletedAt        `json:"-" gorm:"index"`
}

func (Request) TableName() string {
	return "inventory_requests"
}

// RequestItemLocation is one per-location line of a multi-location request.
type RequestItemLocation struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	RequestID  uint `json:"-" gorm:"not null;index"`
	Position   int  `json:"-" gorm:"not null"`
	LocationID uint `json:"location_id" gorm:"not null"`
	Quantity   int  `json:"quantity" gorm:"not null"`
}

func (RequestItemLocation) TableName() string {
	return "inventory_request_item_locations"
}

// Approval is one approver's decision row on a request.
type Approval struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	RequestID  uint       `json:"-" gorm:"not null;index"`
	ApproverID uint       `json:"approver_id" gorm:"not null"`
	Decision   string     `json:"decision" gorm:"default:Pending"`
	DecidedAt  *time.Time `json:"decided_at"`
	Notes      string     `json:"notes"`
}

func (Approval) TableName() string {
	return "inventory_approvals"
}

// StockFilter narrows stock listings.
type StockFilter struct {
	ItemID     uint
	LocationID uint
	Status     string
	Limit      int
	Offset     int
}

// RequestFilter narrows request listings.
type RequestFilter struct {
	Type        string
	ItemID      uint
	RequesterID uint
	Status      string
	Limit       int
	Offset      int
}

// Deduction is one per-location stock removal applied during fulfilment.
type Deduction struct {
	ItemID     uint
	LocationID uint
	Quantity   int
	Note       string
	ActorID    uint
}

// ErrInsufficientStock is returned when a deduction would drive a
// stock quantity below zero.
type ErrInsufficientStock struct {
	ItemID     uint
	LocationID uint
	Requested  int
	Available  int
}

func (e ErrInsufficientStock) Error() string {
	return "insufficient stock"
}

// ErrStockMissing is returned when a deduction targets an item/location
// pair with no stock row.
type ErrStockMissing struct {
	ItemID     uint
	LocationID uint
}

func (e ErrStockMissing) Error() string {
	return "no stock for item at location"
}

// ItemRepository defines the contract for item data access
type ItemRepository interface {
	Create(item *Item) error
	FindByID(id uint) (*Item, error)
	FindAll(limit, offset int) ([]Item, int64, error)
	Update(item *Item) error
	UpdateStatus(id uint, status string) error
	Delete(id uint) error
	Exists(id uint) (bool, error)
}

// LocationRepository defines the contract for location data access
type LocationRepository interface {
	Create(location *Location) error
	FindByID(id uint) (*Location, error)
	FindAll() ([]Location, error)
	Update(location *Location) error
	Delete(id uint) error
	Exists(id uint) (bool, error)
}

// StockRepository defines the contract for stock data access. Mutations
// persist the stock row and its log entry in one transaction.
type StockRepository interface {
	CreateWithLog(stock *Stock, log *StockLog) error
	UpdateWithLog(stock *Stock, log *StockLog) error
	FindByID(id uint) (*Stock, error)
	FindAll(filter StockFilter) ([]Stock, int64, error)
	FindByItemAndLocation(itemID, locationID uint) (*Stock, error)
	Delete(id uint) error
	// DeductAll applies every deduction or none, writing a Deducted
	// log row per touched stock.
	DeductAll(deductions []Deduction) error
}

// RequestRepository defines the contract for request data access
type RequestRepository interface {
	Create(request *Request) error
	FindByID(id uint) (*Request, error)
	FindAll(filter RequestFilter) ([]Request, int64, error)
	Update(request *Request) error
	UpdateApproval(approval *Approval) error
	Delete(id uint) error
}

// UserGateway resolves account references owned by the user module.
type UserGateway interface {
	UserExists(id uint) (bool, error)
}

// CategoryGateway resolves category references owned by the product module.
type CategoryGateway interface {
	CategoryExists(id uint) (bool, error)
}

// PurchaseOrderGateway resolves purchase-order references owned by the
// purchase module.
type PurchaseOrderGateway interface {
	OrderExists(id uint) (bool, error)
}
