package query

import (
	"fmt"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// GetStockQuery represents the query to get a stock record with its logs
type GetStockQuery struct {
	ID uint
}

// GetStockHandler handles get stock query
type GetStockHandler struct {
	stocks domain.StockRepository
}

// NewGetStockHandler creates a new get stock handler
func NewGetStockHandler(stocks domain.StockRepository) *GetStockHandler {
	return &GetStockHandler{stocks: stocks}
}

// Handle executes the get stock query
func (h *GetStockHandler) Handle(q GetStockQuery) (*domain.Stock, error) {
	stock, err := h.stocks.FindByID(q.ID)
	if err != nil {
		return nil, apperror.NotFound("stock not found")
	}
	return stock, nil
}

// ListStocksQuery represents the query to list stock records
type ListStocksQuery struct {
	Filter domain.StockFilter
}

// ListStocksResult carries one page of stock records plus the total count
type ListStocksResult struct {
	Stocks []domain.Stock `json:"stocks"`
	Total  int64          `json:"total"`
}

// ListStocksHandler handles list stocks query
type ListStocksHandler struct {
	stocks domain.StockRepository
}

// NewListStocksHandler creates a new list stocks handler
func NewListStocksHandler(stocks domain.StockRepository) *ListStocksHandler {
	return &ListStocksHandler{stocks: stocks}
}

// Handle executes the list stocks query
func (h *ListStocksHandler) Handle(q ListStocksQuery) (*ListStocksResult, error) {
	filter := q.Filter
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		return nil, apperror.BadRequest("unknown stock status: %q", filter.Status)
	}

	stocks, total, err := h.stocks.FindAll(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	return &ListStocksResult{Stocks: stocks, Total: total}, nil
}

// GetRequestQuery represents the query to get a request
type GetRequestQuery struct {
	ID uint
}

// GetRequestHandler handles get request query
type GetRequestHandler struct {
	requests domain.RequestRepository
}

// NewGetRequestHandler creates a new get request handler
func NewGetRequestHandler(requests domain.RequestRepository) *GetRequestHandler {
	return &GetRequestHandler{requests: requests}
}

// Handle executes the get request query
func (h *GetRequestHandler) Handle(q GetRequestQuery) (*domain.Request, error) {
	request, err := h.requests.FindByID(q.ID)
	if err != nil {
		return nil, apperror.NotFound("request not found")
	}
	return request, nil
}

// ListRequestsQuery represents the query to list requests
type ListRequestsQuery struct {
	Filter domain.RequestFilter
}

// ListRequestsResult carries one page of requests plus the total count
type ListRequestsResult struct {
	Requests []domain.Request `json:"requests"`
	Total    int64            `json:"total"`
}

// ListRequestsHandler handles list requests query
type ListRequestsHandler struct {
	requests domain.RequestRepository
}

// NewListRequestsHandler creates a new list requests handler
func NewListRequestsHandler(requests domain.RequestRepository) *ListRequestsHandler {
	return &ListRequestsHandler{requests: requests}
}

// Handle executes the list requests query
func (h *ListRequestsHandler) Handle(q ListRequestsQuery) (*ListRequestsResult, error) {
	filter := q.Filter
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	requests, total, err := h.requests.FindAll(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return &ListRequestsResult{Requests: requests, Total: total}, nil
}

// GetItemQuery represents the query to get an item
type GetItemQuery struct {
	ID uint
}

// GetItemHandler handles get item query
type GetItemHandler struct {
	items domain.ItemRepository
}

// NewGetItemHandler creates a new get item handler
func NewGetItemHandler(items domain.ItemRepository) *GetItemHandler {
	return &GetItemHandler{items: items}
}

// Handle executes the get item query
func (h *GetItemHandler) Handle(q GetItemQuery) (*domain.Item, error) {
	item, err := h.items.FindByID(q.ID)
	if err != nil {
		return nil, apperror.NotFound("item not found")
	}
	return item, nil
}

// ListItemsQuery represents the query to list items
type ListItemsQuery struct {
	Limit  int
	Offset int
}

// ListItemsResult carries one page of items plus the total count
type ListItemsResult struct {
	Items []domain.Item `json:"items"`
	Total int64         `json:"total"`
}

// ListItemsHandler handles list items query
type ListItemsHandler struct {
	items domain.ItemRepository
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(items domain.ItemRepository) *ListItemsHandler {
	return &ListItemsHandler{items: items}
}

// Handle executes the list items query
func (h *ListItemsHandler) Handle(q ListItemsQuery) (*ListItemsResult, error) {
	limit := q.Limit
	if limit == 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	items, total, err := h.items.FindAll(limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return &ListItemsResult{Items: items, Total: total}, nil
}

// ListLocationsHandler handles list locations query
type ListLocationsHandler struct {
	locations domain.LocationRepository
}

// NewListLocationsHandler creates a new list locations handler
func NewListLocationsHandler(locations domain.LocationRepository) *ListLocationsHandler {
	return &ListLocationsHandler{locations: locations}
}

// Handle executes the list locations query
func (h *ListLocationsHandler) Handle() ([]domain.Location, error) {
	locations, err := h.locations.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// GetLocationHandler handles get location query
type GetLocationHandler struct {
	locations domain.LocationRepository
}

// NewGetLocationHandler creates a new get location handler
func NewGetLocationHandler(locations domain.LocationRepository) *GetLocationHandler {
	return &GetLocationHandler{locations: locations}
}

// Handle executes the get location query
func (h *GetLocationHandler) Handle(id uint) (*domain.Location, error) {
	location, err := h.locations.FindByID(id)
	if err != nil {
		return nil, apperror.NotFound("location not found")
	}
	return location, nil
}
