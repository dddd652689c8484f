package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/thukha/backoffice/internal/middleware"
	"github.com/thukha/backoffice/internal/purchase/domain"
	"github.com/thukha/backoffice/internal/purchase/usecase/command"
	"github.com/thukha/backoffice/internal/purchase/usecase/query"
	"github.com/thukha/backoffice/pkg/apperror"
	"github.com/thukha/backoffice/pkg/logger"
)

var validate = validator.New()

// PurchaseHandler handles HTTP requests for suppliers and purchase orders
type PurchaseHandler struct {
	// Command handlers
	createOrderHandler    *command.CreateOrderHandler
	updateOrderHandler    *command.UpdateOrderHandler
	receiveOrderHandler   *command.ReceiveOrderHandler
	cancelOrderHandler    *command.CancelOrderHandler
	deleteOrderHandler    *command.DeleteOrderHandler
	createSupplierHandler *command.CreateSupplierHandler
	updateSupplierHandler *command.UpdateSupplierHandler
	deleteSupplierHandler *command.DeleteSupplierHandler

	// Query handlers
	getOrderHandler      *query.GetOrderHandler
	listOrdersHandler    *query.ListOrdersHandler
	getSupplierHandler   *query.GetSupplierHandler
	listSuppliersHandler *query.ListSuppliersHandler
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(orders domain.OrderRepository, suppliers domain.SupplierRepository, items domain.ItemGateway, users domain.UserGateway) *PurchaseHandler {
	return &PurchaseHandler{
		createOrderHandler:    command.NewCreateOrderHandler(orders, suppliers, items, users),
		updateOrderHandler:    command.NewUpdateOrderHandler(orders, suppliers, items),
		receiveOrderHandler:   command.NewReceiveOrderHandler(orders),
		cancelOrderHandler:    command.NewCancelOrderHandler(orders),
		deleteOrderHandler:    command.NewDeleteOrderHandler(orders),
		createSupplierHandler: command.NewCreateSupplierHandler(suppliers),
		updateSupplierHandler: command.NewUpdateSupplierHandler(suppliers),
		deleteSupplierHandler: command.NewDeleteSupplierHandler(suppliers, orders),
		getOrderHandler:       query.NewGetOrderHandler(orders),
		listOrdersHandler:     query.NewListOrdersHandler(orders),
		getSupplierHandler:    query.NewGetSupplierHandler(suppliers),
		listSuppliersHandler:  query.NewListSuppliersHandler(suppliers),
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type createOrderRequest struct {
	SupplierID uint                     `json:"supplier_id" validate:"required"`
	Lines      []command.OrderLineInput `json:"lines" validate:"required,min=1,dive"`
	Notes      string                   `json:"notes"`
}

type updateOrderRequest struct {
	SupplierID *uint                     `json:"supplier_id"`
	Lines      *[]command.OrderLineInput `json:"lines"`
	Notes      *string                   `json:"notes"`
}

type receiveOrderRequest struct {
	Partial bool `json:"partial"`
}

type createSupplierRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

type updateSupplierRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

// CreateOrder handles POST /api/purchase-order
func (h *PurchaseHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.createOrderHandler.Handle(command.CreateOrderCommand{
		SupplierID: req.SupplierID,
		OrdererID:  middleware.UserIDFromContext(r.Context()),
		Lines:      req.Lines,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Purchase order created successfully", Data: order})
}

// GetOrder handles GET /api/purchase-order/{id}
func (h *PurchaseHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.getOrderHandler.Handle(query.GetOrderQuery{ID: id})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: order})
}

// ListOrders handles GET /api/purchase-orders
func (h *PurchaseHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	supplierID, _ := strconv.ParseUint(r.URL.Query().Get("supplier_id"), 10, 32)
	ordererID, _ := strconv.ParseUint(r.URL.Query().Get("orderer_id"), 10, 32)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	result, err := h.listOrdersHandler.Handle(query.ListOrdersQuery{Filter: domain.OrderFilter{
		SupplierID: uint(supplierID),
		OrdererID:  uint(ordererID),
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

// UpdateOrder handles PUT /api/purchase-order/{id}
func (h *PurchaseHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.updateOrderHandler.Handle(command.UpdateOrderCommand{
		ID:         id,
		SupplierID: req.SupplierID,
		Lines:      req.Lines,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Purchase order updated successfully", Data: order})
}

// ReceiveOrder handles POST /api/purchase-order/{id}/receive
func (h *PurchaseHandler) ReceiveOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req receiveOrderRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
			return
		}
	}

	order, err := h.receiveOrderHandler.Handle(command.ReceiveOrderCommand{ID: id, Partial: req.Partial})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Purchase order received", Data: order})
}

// CancelOrder handles POST /api/purchase-order/{id}/cancel
func (h *PurchaseHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	order, err := h.cancelOrderHandler.Handle(command.CancelOrderCommand{ID: id})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Purchase order cancelled", Data: order})
}

// DeleteOrder handles DELETE /api/purchase-order/{id}
func (h *PurchaseHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.deleteOrderHandler.Handle(command.DeleteOrderCommand{ID: id}); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Purchase order deleted successfully"})
}

// CreateSupplier handles POST /api/supplier
func (h *PurchaseHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req createSupplierRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	supplier, err := h.createSupplierHandler.Handle(command.CreateSupplierCommand{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Supplier created successfully", Data: supplier})
}

// GetSupplier handles GET /api/supplier/{id}
func (h *PurchaseHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	supplier, err := h.getSupplierHandler.Handle(query.GetSupplierQuery{ID: id})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: supplier})
}

// ListSuppliers handles GET /api/suppliers
func (h *PurchaseHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	result, err := h.listSuppliersHandler.Handle(query.ListSuppliersQuery{Limit: limit, Offset: offset})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// UpdateSupplier handles PUT /api/supplier/{id}
func (h *PurchaseHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateSupplierRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	supplier, err := h.updateSupplierHandler.Handle(command.UpdateSupplierCommand{
		ID:            id,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Supplier updated successfully", Data: supplier})
}

// DeleteSupplier handles DELETE /api/supplier/{id}
func (h *PurchaseHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.deleteSupplierHandler.Handle(command.DeleteSupplierCommand{ID: id}); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Supplier deleted successfully"})
}

// RegisterRoutes registers all purchase routes
func (h *PurchaseHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/purchase-order", middleware.RequireRole("admin", "manager")(h.CreateOrder)).Methods("POST")
	router.HandleFunc("/api/purchase-orders", middleware.Auth(h.ListOrders)).Methods("GET")
	router.HandleFunc("/api/purchase-order/{id}", middleware.Auth(h.GetOrder)).Methods("GET")
	router.HandleFunc("/api/purchase-order/{id}", middleware.RequireRole("admin", "manager")(h.UpdateOrder)).Methods("PUT")
	router.HandleFunc("/api/purchase-order/{id}/receive", middleware.RequireRole("admin", "manager", "staff")(h.ReceiveOrder)).Methods("POST")
	router.HandleFunc("/api/purchase-order/{id}/cancel", middleware.RequireRole("admin", "manager")(h.CancelOrder)).Methods("POST")
	router.HandleFunc("/api/purchase-order/{id}", middleware.Admin(h.DeleteOrder)).Methods("DELETE")

	router.HandleFunc("/api/supplier", middleware.RequireRole("admin", "manager")(h.CreateSupplier)).Methods("POST")
	router.HandleFunc("/api/suppliers", middleware.Auth(h.ListSuppliers)).Methods("GET")
	router.HandleFunc("/api/supplier/{id}", middleware.Auth(h.GetSupplier)).Methods("GET")
	router.HandleFunc("/api/supplier/{id}", middleware.RequireRole("admin", "manager")(h.UpdateSupplier)).Methods("PUT")
	router.HandleFunc("/api/supplier/{id}", middleware.Admin(h.DeleteSupplier)).Methods("DELETE")
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
		logger.Logger.Error().Err(err).Msg("Purchase request failed")
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
