package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/internal/inventory/usecase/command"
	"github.com/thukha/backoffice/internal/inventory/usecase/query"
	"github.com/thukha/backoffice/internal/middleware"
	"github.com/thukha/backoffice/kafka"
	"github.com/thukha/backoffice/pkg/apperror"
	"github.com/thukha/backoffice/pkg/logger"
)

var validate = validator.New()

// InventoryHandler handles HTTP requests for items, locations, stocks
// and requests
type InventoryHandler struct {
	// Command handlers
	createStockHandler    *command.CreateStockHandler
	updateStockHandler    *command.UpdateStockHandler
	deleteStockHandler    *command.DeleteStockHandler
	createRequestHandler  *command.CreateRequestHandler
	updateRequestHandler  *command.UpdateRequestHandler
	decideRequestHandler  *command.DecideRequestHandler
	deleteRequestHandler  *command.DeleteRequestHandler
	createItemHandler     *command.CreateItemHandler
	updateItemHandler     *command.UpdateItemHandler
	deleteItemHandler     *command.DeleteItemHandler
	createLocationHandler *command.CreateLocationHandler
	updateLocationHandler *command.UpdateLocationHandler
	deleteLocationHandler *command.DeleteLocationHandler

	// Query handlers
	getStockHandler      *query.GetStockHandler
	listStocksHandler    *query.ListStocksHandler
	getRequestHandler    *query.GetRequestHandler
	listRequestsHandler  *query.ListRequestsHandler
	getItemHandler       *query.GetItemHandler
	listItemsHandler     *query.ListItemsHandler
	getLocationHandler   *query.GetLocationHandler
	listLocationsHandler *query.ListLocationsHandler

	publisher *kafka.Publisher
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	stocks domain.StockRepository,
	items domain.ItemRepository,
	locations domain.LocationRepository,
	requests domain.RequestRepository,
	users domain.UserGateway,
	categories domain.CategoryGateway,
	orders domain.PurchaseOrderGateway,
	publisher *kafka.Publisher,
) *InventoryHandler {
	return &InventoryHandler{
		createStockHandler:    command.NewCreateStockHandler(stocks, items, locations, users),
		updateStockHandler:    command.NewUpdateStockHandler(stocks, items, locations),
		deleteStockHandler:    command.NewDeleteStockHandler(stocks),
		createRequestHandler:  command.NewCreateRequestHandler(requests, items, locations, users),
		updateRequestHandler:  command.NewUpdateRequestHandler(requests, items, locations, users),
		decideRequestHandler:  command.NewDecideRequestHandler(requests),
		deleteRequestHandler:  command.NewDeleteRequestHandler(requests),
		createItemHandler:     command.NewCreateItemHandler(items, users, categories, orders),
		updateItemHandler:     command.NewUpdateItemHandler(items, users, categories),
		deleteItemHandler:     command.NewDeleteItemHandler(items, stocks),
		createLocationHandler: command.NewCreateLocationHandler(locations),
		updateLocationHandler: command.NewUpdateLocationHandler(locations),
		deleteLocationHandler: command.NewDeleteLocationHandler(locations, stocks),
		getStockHandler:       query.NewGetStockHandler(stocks),
		listStocksHandler:     query.NewListStocksHandler(stocks),
		getRequestHandler:     query.NewGetRequestHandler(requests),
		listRequestsHandler:   query.NewListRequestsHandler(requests),
		getItemHandler:        query.NewGetItemHandler(items),
		listItemsHandler:      query.NewListItemsHandler(items),
		getLocationHandler:    query.NewGetLocationHandler(locations),
		listLocationsHandler:  query.NewListLocationsHandler(locations),
		publisher:             publisher,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type createStockRequest struct {
	ItemID     uint   `json:"item_id" validate:"required"`
	LocationID uint   `json:"location_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"min=0"`
	Status     string `json:"status" validate:"omitempty,oneof=Available 'In Use' Reserved Broken Lost Disposed"`
}

type updateStockRequest struct {
	ItemID     *uint   `json:"item_id"`
	LocationID *uint   `json:"location_id"`
	Quantity   *int    `json:"quantity"`
	Status     *string `json:"status"`
}

type createInventoryRequestBody struct {
	Type          string                `json:"type" validate:"required,oneof=Purchase StockWithdrawal"`
	ItemID        uint                  `json:"item_id" validate:"required"`
	Quantity      int                   `json:"quantity"`
	LocationID    uint                  `json:"location_id"`
	ItemLocations []command.RequestLine `json:"item_locations"`
	ApproverIDs   []uint                `json:"approver_ids"`
	Notes         string                `json:"notes"`
}

type updateInventoryRequestBody struct {
	ItemID        *uint                  `json:"item_id"`
	Quantity      *int                   `json:"quantity"`
	LocationID    *uint                  `json:"location_id"`
	ItemLocations *[]command.RequestLine `json:"item_locations"`
	ApproverIDs   *[]uint                `json:"approver_ids"`
	Notes         *string                `json:"notes"`
}

type decideRequestBody struct {
	Notes string `json:"notes"`
}

type createItemRequest struct {
	Name            string `json:"name" validate:"required"`
	CategoryID      uint   `json:"category_id"`
	AssignedUserID  uint   `json:"assigned_user_id"`
	PurchaseOrderID uint   `json:"purchase_order_id"`
	QuantityUnit    string `json:"quantity_unit"`
	Status          string `json:"status"`
}

type updateItemRequest struct {
	Name           *string `json:"name"`
	CategoryID     *uint   `json:"category_id"`
	AssignedUserID *uint   `json:"assigned_user_id"`
	QuantityUnit   *string `json:"quantity_unit"`
	Status         *string `json:"status"`
}

type createLocationRequest struct {
	Name string `json:"name" validate:"required"`
	Site string `json:"site"`
}

type updateLocationRequest struct {
	Name *string `json:"name"`
	Site *string `json:"site"`
}

// CreateStock handles POST /api/inventory-stock
func (h *InventoryHandler) CreateStock(w http.ResponseWriter, r *http.Request) {
	var req createStockRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	stock, err := h.createStockHandler.Handle(command.CreateStockCommand{
		ItemID:     req.ItemID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
		Status:     req.Status,
		ActorID:    middleware.UserIDFromContext(r.Context()),
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.publishStockAdjusted(r, stock, stock.Quantity)

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Stock recorded successfully", Data: stock})
}

// GetStock handles GET /api/inventory-stock/{id}
func (h *InventoryHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	stock, err := h.getStockHandler.Handle(query.GetStockQuery{ID: id})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: stock})
}

// ListStocks handles GET /api/inventory-stocks
func (h *InventoryHandler) ListStocks(w http.ResponseWriter, r *http.Request) {
	itemID, _ := strconv.ParseUint(r.URL.Query().Get("item_id"), 10, 32)
	locationID, _ := strconv.ParseUint(r.URL.Query().Get("location_id"), 10, 32)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	result, err := h.listStocksHandler.Handle(query.ListStocksQuery{Filter: domain.StockFilter{
		ItemID:     uint(itemID),
		LocationID: uint(locationID),
		Status:     r.URL.Query().Get("status"),
		Limit:      limit,
		Offset:     offset,
	}})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// UpdateStock handles PUT /api/inventory-stock/{id}
func (h *InventoryHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateStockRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	stock, err := h.updateStockHandler.Handle(command.UpdateStockCommand{
		ID:         id,
		ItemID:     req.ItemID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
		Status:     req.Status,
		ActorID:    middleware.UserIDFromContext(r.Context()),
	})
	if err != nil {
		respondError(w, err)
		return
	}

	delta := 0
	if req.Quantity != nil {
		delta = stock.Quantity
	}
	h.publishStockAdjusted(r, stock, delta)

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Stock updated successfully", Data: stock})
}

// DeleteStock handles DELETE /api/inventory-stock/{id}
func (h *InventoryHandler) DeleteStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.deleteStockHandler.Handle(command.DeleteStockCommand{ID: id}); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Stock deleted successfully"})
}

// CreateRequest handles POST /api/inventory-request
func (h *InventoryHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req createInventoryRequestBody
	if !decodeAndValidate(w, r, &req) {
		return
	}

	request, err := h.createRequestHandler.Handle(command.CreateRequestCommand{
		Type:          req.Type,
		ItemID:        req.ItemID,
		RequesterID:   middleware.UserIDFromContext(r.Context()),
		Quantity:      req.Quantity,
		LocationID:    req.LocationID,
		ItemLocations: req.ItemLocations,
		ApproverIDs:   req.ApproverIDs,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Request created successfully", Data: request})
}

// GetRequest handles GET /api/inventory-request/{id}
func (h *InventoryHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	request, err := h.getRequestHandler.Handle(query.GetRequestQuery{ID: id})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: request})
}

// ListRequests handles GET /api/inventory-requests
func (h *InventoryHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	itemID, _ := strconv.ParseUint(r.URL.Query().Get("item_id"), 10, 32)
	requesterID, _ := strconv.ParseUint(r.URL.Query().Get("requester_id"), 10, 32)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	result, err := h.listRequestsHandler.Handle(query.ListRequestsQuery{Filter: domain.RequestFilter{
		Type:        r.URL.Query().Get("type"),
		ItemID:      uint(itemID),
		RequesterID: uint(requesterID),
		Status:      r.URL.Query().Get("status"),
		Limit:       limit,
		Offset:      offset,
	}})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// UpdateRequest handles PUT /api/inventory-request/{id}
func (h *InventoryHandler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateInventoryRequestBody
	if !decodeAndValidate(w, r, &req) {
		return
	}

	request, err := h.updateRequestHandler.Handle(command.UpdateRequestCommand{
		ID:            id,
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
		LocationID:    req.LocationID,
		ItemLocations: req.ItemLocations,
		ApproverIDs:   req.ApproverIDs,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Request updated successfully", Data: request})
}

// ApproveRequest handles POST /api/inventory-request/{id}/approve
func (h *InventoryHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

// RejectRequest handles POST /api/inventory-request/{id}/reject
func (h *InventoryHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *InventoryHandler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req decideRequestBody
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
			return
		}
	}

	request, err := h.decideRequestHandler.Handle(command.DecideRequestCommand{
		RequestID:  id,
		ApproverID: middleware.UserIDFromContext(r.Context()),
		Approve:    approve,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Decision recorded", Data: request})
}

// DeleteRequest handles DELETE /api/inventory-request/{id}
func (h *InventoryHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.deleteRequestHandler.Handle(command.DeleteRequestCommand{ID: id}); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Request deleted successfully"})
}

// CreateItem handles POST /api/inventory-item
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.createItemHandler.Handle(command.CreateItemCommand{
		Name:            req.Name,
		CategoryID:      req.CategoryID,
		AssignedUserID:  req.AssignedUserID,
		PurchaseOrderID: req.PurchaseOrderID,
		QuantityUnit:    req.QuantityUnit,
		Status:          req.Status,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Item created successfully", Data: item})
}

// GetItem handles GET /api/inventory-item/{id}
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.getItemHandler.Handle(query.GetItemQuery{ID: id})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: item})
}

// ListItems handles GET /api/inventory-items
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	result, err := h.listItemsHandler.Handle(query.ListItemsQuery{Limit: limit, Offset: offset})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// UpdateItem handles PUT /api/inventory-item/{id}
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.updateItemHandler.Handle(command.UpdateItemCommand{
		ID:             id,
		Name:           req.Name,
		CategoryID:     req.CategoryID,
		AssignedUserID: req.AssignedUserID,
		QuantityUnit:   req.QuantityUnit,
		Status:         req.Status,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Item updated successfully", Data: item})
}

// DeleteItem handles DELETE /api/inventory-item/{id}
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.deleteItemHandler.Handle(command.DeleteItemCommand{ID: id}); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Item deleted successfully"})
}

// CreateLocation handles POST /api/inventory-location
func (h *InventoryHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req createLocationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	location, err := h.createLocationHandler.Handle(command.CreateLocationCommand{Name: req.Name, Site: req.Site})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Location created successfully", Data: location})
}

// GetLocation handles GET /api/inventory-location/{id}
func (h *InventoryHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	location, err := h.getLocationHandler.Handle(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: location})
}

// ListLocations handles GET /api/inventory-locations
func (h *InventoryHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.listLocationsHandler.Handle()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: locations})
}

// UpdateLocation handles PUT /api/inventory-location/{id}
func (h *InventoryHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateLocationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	location, err := h.updateLocationHandler.Handle(command.UpdateLocationCommand{ID: id, Name: req.Name, Site: req.Site})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Location updated successfully", Data: location})
}

// DeleteLocation handles DELETE /api/inventory-location/{id}
func (h *InventoryHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.deleteLocationHandler.Handle(command.DeleteLocationCommand{ID: id}); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Location deleted successfully"})
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/inventory-stock", middleware.RequireRole("admin", "manager", "staff")(h.CreateStock)).Methods("POST")
	router.HandleFunc("/api/inventory-stocks", middleware.Auth(h.ListStocks)).Methods("GET")
	router.HandleFunc("/api/inventory-stock/{id}", middleware.Auth(h.GetStock)).Methods("GET")
	router.HandleFunc("/api/inventory-stock/{id}", middleware.RequireRole("admin", "manager", "staff")(h.UpdateStock)).Methods("PUT")
	router.HandleFunc("/api/inventory-stock/{id}", middleware.RequireRole("admin", "manager")(h.DeleteStock)).Methods("DELETE")

	router.HandleFunc("/api/inventory-request", middleware.Auth(h.CreateRequest)).Methods("POST")
	router.HandleFunc("/api/inventory-requests", middleware.Auth(h.ListRequests)).Methods("GET")
	router.HandleFunc("/api/inventory-request/{id}", middleware.Auth(h.GetRequest)).Methods("GET")
	router.HandleFunc("/api/inventory-request/{id}", middleware.Auth(h.UpdateRequest)).Methods("PUT")
	router.HandleFunc("/api/inventory-request/{id}/approve", middleware.RequireRole("admin", "manager")(h.ApproveRequest)).Methods("POST")
	router.HandleFunc("/api/inventory-request/{id}/reject", middleware.RequireRole("admin", "manager")(h.RejectRequest)).Methods("POST")
	router.HandleFunc("/api/inventory-request/{id}", middleware.RequireRole("admin", "manager")(h.DeleteRequest)).Methods("DELETE")

	router.HandleFunc("/api/inventory-item", middleware.RequireRole("admin", "manager")(h.CreateItem)).Methods("POST")
	router.HandleFunc("/api/inventory-items", middleware.Auth(h.ListItems)).Methods("GET")
	router.HandleFunc("/api/inventory-item/{id}", middleware.Auth(h.GetItem)).Methods("GET")
	router.HandleFunc("/api/inventory-item/{id}", middleware.RequireRole("admin", "manager")(h.UpdateItem)).Methods("PUT")
	router.HandleFunc("/api/inventory-item/{id}", middleware.Admin(h.DeleteItem)).Methods("DELETE")

	router.HandleFunc("/api/inventory-location", middleware.RequireRole("admin", "manager")(h.CreateLocation)).Methods("POST")
	router.HandleFunc("/api/inventory-locations", middleware.Auth(h.ListLocations)).Methods("GET")
	router.HandleFunc("/api/inventory-location/{id}", middleware.Auth(h.GetLocation)).Methods("GET")
	router.HandleFunc("/api/inventory-location/{id}", middleware.RequireRole("admin", "manager")(h.UpdateLocation)).Methods("PUT")
	router.HandleFunc("/api/inventory-location/{id}", middleware.Admin(h.DeleteLocation)).Methods("DELETE")
}

func (h *InventoryHandler) publishStockAdjusted(r *http.Request, stock *domain.Stock, delta int) {
	if h.publisher == nil {
		return
	}
	err := h.publisher.PublishStockAdjusted(r.Context(), kafka.StockAdjustedEvent{
		StockID:         stock.ID,
		ItemID:          stock.ItemID,
		LocationID:      stock.LocationID,
		QuantityChanged: delta,
		Status:          stock.Status,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("stock_id", stock.ID).Msg("Failed to publish stock.adjusted event")
	}
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return false
	}
	if err := validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

func respondError(w http.ResponseWriter, err error) {
	status := apperror.StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.Logger.Error().Err(err).Msg("Inventory request failed")
		respondJSON(w, status, Response{Success: false, Error: "Internal server error"})
		return
	}
	respondJSON(w, status, Response{Success: false, Error: err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
