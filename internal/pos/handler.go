package pos

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/thukha/backoffice/internal/middleware"
	"github.com/thukha/backoffice/pkg/apperror"
	"github.com/thukha/backoffice/pkg/logger"
)

var validate = validator.New()

// Handler handles HTTP requests for the POS/finance subsystem
type Handler struct {
	service *Service
}

// NewHandler creates a new POS handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateShop handles POST /api/shop
func (h *Handler) CreateShop(w http.ResponseWriter, r *http.Request) {
	var req CreateShopRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	shop, err := h.service.CreateShop(req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Shop created successfully", Data: shop})
}

// GetShop handles GET /api/shop/{id}
func (h *Handler) GetShop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	shop, err := h.service.GetShop(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: shop})
}

// ListShops handles GET /api/shops
func (h *Handler) ListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.service.GetAllShops()
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: shops})
}

// UpdateShop handles PUT /api/shop/{id}
func (h *Handler) UpdateShop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateShopRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	shop, err := h.service.UpdateShop(id, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Shop updated successfully", Data: shop})
}

// DeleteShop handles DELETE /api/shop/{id}
func (h *Handler) DeleteShop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteShop(id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Shop deleted successfully"})
}

// CreateStore handles POST /api/store
func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req CreateStoreRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	store, err := h.service.CreateStore(req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Store created successfully", Data: store})
}

// GetStore handles GET /api/store/{id}
func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	store, err := h.service.GetStore(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: store})
}

// ListStores handles GET /api/stores?shop_id=N
func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	shopID, err := strconv.ParseUint(r.URL.Query().Get("shop_id"), 10, 32)
	if err != nil || shopID == 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "shop_id query parameter is required"})
		return
	}

	stores, err := h.service.GetStoresByShop(uint(shopID))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: stores})
}

// UpdateStore handles PUT /api/store/{id}
func (h *Handler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateStoreRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	store, err := h.service.UpdateStore(id, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Store updated successfully", Data: store})
}

// DeleteStore handles DELETE /api/store/{id}
func (h *Handler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteStore(id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Store deleted successfully"})
}

// CreateSale handles POST /api/sale. The cashier is the authenticated user.
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cashierID := middleware.UserIDFromContext(r.Context())
	if cashierID == 0 {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Authentication required"})
		return
	}
	req.CashierID = cashierID

	sale, err := h.service.CreateSale(req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Sale created successfully", Data: sale})
}

// GetSale handles GET /api/sale/{id}
func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sale, err := h.service.GetSale(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: sale})
}

// ListSales handles GET /api/sales
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	shopID, _ := strconv.ParseUint(r.URL.Query().Get("shop_id"), 10, 32)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	sales, total, err := h.service.GetSales(status, uint(shopID), limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]interface{}{
		"sales": sales,
		"total": total,
	}})
}

// CompleteSale handles POST /api/sale/{id}/complete
func (h *Handler) CompleteSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sale, err := h.service.CompleteSale(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Sale completed successfully", Data: sale})
}

// VoidSale handles POST /api/sale/{id}/void
func (h *Handler) VoidSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sale, err := h.service.VoidSale(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Sale voided successfully", Data: sale})
}

// CreateInvoice handles POST /api/invoice
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invoice, err := h.service.CreateInvoice(req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Invoice created successfully", Data: invoice})
}

// GetInvoice handles GET /api/invoice/{id}
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	invoice, err := h.service.GetInvoice(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: invoice})
}

// PayInvoice handles POST /api/invoice/{id}/pay
func (h *Handler) PayInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req PayInvoiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invoice, err := h.service.PayInvoice(id, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Payment recorded successfully", Data: invoice})
}

// CreateSalaryPayment handles POST /api/salary-payment
func (h *Handler) CreateSalaryPayment(w http.ResponseWriter, r *http.Request) {
	var req CreateSalaryPaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	payment, err := h.service.CreateSalaryPayment(req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Salary payment recorded successfully", Data: payment})
}

// ListSalaryPayments handles GET /api/salary-payments
func (h *Handler) ListSalaryPayments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	payments, err := h.service.GetSalaryPayments(limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: payments})
}

// ListTransactions handles GET /api/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txType := r.URL.Query().Get("type")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	transactions, total, err := h.service.GetTransactions(txType, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]interface{}{
		"transactions": transactions,
		"total":        total,
	}})
}

// RegisterRoutes registers all POS routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/shop", middleware.RequireRole("admin", "manager")(h.CreateShop)).Methods("POST")
	router.HandleFunc("/api/shops", middleware.Auth(h.ListShops)).Methods("GET")
	router.HandleFunc("/api/shop/{id}", middleware.Auth(h.GetShop)).Methods("GET")
	router.HandleFunc("/api/shop/{id}", middleware.RequireRole("admin", "manager")(h.UpdateShop)).Methods("PUT")
	router.HandleFunc("/api/shop/{id}", middleware.Admin(h.DeleteShop)).Methods("DELETE")

	router.HandleFunc("/api/store", middleware.RequireRole("admin", "manager")(h.CreateStore)).Methods("POST")
	router.HandleFunc("/api/stores", middleware.Auth(h.ListStores)).Methods("GET")
	router.HandleFunc("/api/store/{id}", middleware.Auth(h.GetStore)).Methods("GET")
	router.HandleFunc("/api/store/{id}", middleware.RequireRole("admin", "manager")(h.UpdateStore)).Methods("PUT")
	router.HandleFunc("/api/store/{id}", middleware.Admin(h.DeleteStore)).Methods("DELETE")

	router.HandleFunc("/api/sale", middleware.Auth(h.CreateSale)).Methods("POST")
	router.HandleFunc("/api/sales", middleware.Auth(h.ListSales)).Methods("GET")
	router.HandleFunc("/api/sale/{id}", middleware.Auth(h.GetSale)).Methods("GET")
	router.HandleFunc("/api/sale/{id}/complete", middleware.Auth(h.CompleteSale)).Methods("POST")
	router.HandleFunc("/api/sale/{id}/void", middleware.RequireRole("admin", "manager")(h.VoidSale)).Methods("POST")

	router.HandleFunc("/api/invoice", middleware.Auth(h.CreateInvoice)).Methods("POST")
	router.HandleFunc("/api/invoice/{id}", middleware.Auth(h.GetInvoice)).Methods("GET")
	router.HandleFunc("/api/invoice/{id}/pay", middleware.Auth(h.PayInvoice)).Methods("POST")

	router.HandleFunc("/api/salary-payment", middleware.RequireRole("admin", "manager")(h.CreateSalaryPayment)).Methods("POST")
	router.HandleFunc("/api/salary-payments", middleware.RequireRole("admin", "manager")(h.ListSalaryPayments)).Methods("GET")
	router.HandleFunc("/api/transactions", middleware.RequireRole("admin", "manager")(h.ListTransactions)).Methods("GET")
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
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
		logger.Logger.Error().Err(err).Msg("POS request failed")
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
