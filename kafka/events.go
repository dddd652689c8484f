package kafka

import "time"

// SaleCompletedEvent is emitted by the POS subsystem when a sale is
// completed. The inventory service consumes it to deduct stock.
type SaleCompletedEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	SaleID    uint           `json:"sale_id"`
	ShopID    uint           `json:"shop_id"`
	CashierID uint           `json:"cashier_id"`
	Reference string         `json:"reference"`
	Amount    string         `json:"amount"`
	Lines     []SaleLineItem `json:"lines"`
	Timestamp time.Time      `json:"timestamp"`
}

// SaleLineItem is one sold product line inside a SaleCompletedEvent.
type SaleLineItem struct {
	ProductID  uint `json:"product_id"`
	ItemID     uint `json:"item_id"`
	LocationID uint `json:"location_id"`
	Quantity   int  `json:"quantity"`
}

// StockAdjustedEvent is emitted whenever a stock record is recorded,
// updated, or deducted.
type StockAdjustedEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	StockID         uint      `json:"stock_id"`
	ItemID          uint      `json:"item_id"`
	LocationID      uint      `json:"location_id"`
	QuantityChanged int       `json:"quantity_changed"`
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
}

// LeaseCreatedEvent is emitted when a lease is created.
type LeaseCreatedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	LeaseID   uint      `json:"lease_id"`
	UnitID    uint      `json:"unit_id"`
	TenantID  uint      `json:"tenant_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeSaleCompleted = "sale.completed"
	EventTypeStockAdjusted = "stock.adjusted"
	EventTypeLeaseCreated  = "lease.created"
)

// Kafka topics
const (
	TopicSaleCompleted = "sale-completed"
	TopicStockAdjusted = "stock-adjusted"
	TopicLeaseCreated  = "lease-created"
)
