package query

import (
	"fmt"

	"github.com/thukha/backoffice/internal/purchase/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// GetOrderQuery represents the query to get a purchase order
type GetOrderQuery struct {
	ID uint
}

// GetOrderHandler handles get order query
type GetOrderHandler struct {
	orders domain.OrderRepository
}

// NewGetOrderHandler creates a new get order handler
func NewGetOrderHandler(orders domain.OrderRepository) *GetOrderHandler {
	return &GetOrderHandler{orders: orders}
}

// Handle executes the get order query
func (h *GetOrderHandler) Handle(q GetOrderQuery) (*domain.PurchaseOrder, error) {
	order, err := h.orders.FindByID(q.ID)
	if err != nil {
		return nil, apperror.NotFound("purchase order not found")
	}
	return order, nil
}

// ListOrdersQuery represents the query to list purchase orders
type ListOrdersQuery struct {
	Filter domain.OrderFilter
}

// ListOrdersResult carries one page of orders plus the total count
type ListOrdersResult struct {
	Orders []domain.PurchaseOrder `json:"orders"`
	Total  int64                  `json:"total"`
}

// ListOrdersHandler handles list orders query
type ListOrdersHandler struct {
	orders domain.OrderRepository
}

// NewListOrdersHandler creates a new list orders handler
func NewListOrdersHandler(orders domain.OrderRepository) *ListOrdersHandler {
	return &ListOrdersHandler{orders: orders}
}

// Handle executes the list orders query
func (h *ListOrdersHandler) Handle(q ListOrdersQuery) (*ListOrdersResult, error) {
	filter := q.Filter
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	orders, total, err := h.orders.FindAll(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	return &ListOrdersResult{Orders: orders, Total: total}, nil
}

// GetSupplierQuery represents the query to get a supplier
type GetSupplierQuery struct {
	ID uint
}

// GetSupplierHandler handles get supplier query
type GetSupplierHandler struct {
	suppliers domain.SupplierRepository
}

// NewGetSupplierHandler creates a new get supplier handler
func NewGetSupplierHandler(suppliers domain.SupplierRepository) *GetSupplierHandler {
	return &GetSupplierHandler{suppliers: suppliers}
}

// Handle executes the get supplier query
func (h *GetSupplierHandler) Handle(q GetSupplierQuery) (*domain.Supplier, error) {
	supplier, err := h.suppliers.FindByID(q.ID)
	if err != nil {
		return nil, apperror.NotFound("supplier not found")
	}
	return supplier, nil
}

// ListSuppliersQuery represents the query to list suppliers
type ListSuppliersQuery struct {
	Limit  int
	Offset int
}

// ListSuppliersResult carries one page of suppliers plus the total count
type ListSuppliersResult struct {
	Suppliers []domain.Supplier `json:"suppliers"`
	Total     int64             `json:"total"`
}

// ListSuppliersHandler handles list suppliers query
type ListSuppliersHandler struct {
	suppliers domain.SupplierRepository
}

// NewListSuppliersHandler creates a new list suppliers handler
func NewListSuppliersHandler(suppliers domain.SupplierRepository) *ListSuppliersHandler {
	return &ListSuppliersHandler{suppliers: suppliers}
}

// Handle executes the list suppliers query
func (h *ListSuppliersHandler) Handle(q ListSuppliersQuery) (*ListSuppliersResult, error) {
	limit := q.Limit
	if limit == 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	suppliers, total, err := h.suppliers.FindAll(limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return &ListSuppliersResult{Suppliers: suppliers, Total: total}, nil
}
