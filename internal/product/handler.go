package product

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

// Handler handles HTTP requests for the POS catalog
type Handler struct {
	service *Service
}

// NewHandler creates a new product handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateCategory handles POST /api/category
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category, err := h.service.CreateCategory(req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Category created successfully", Data: category})
}

// GetCategory handles GET /api/category/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	category, err := h.service.GetCategory(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: category})
}

// ListCategories handles GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: categories})
}

// UpdateCategory handles PUT /api/category/{id}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category, err := h.service.UpdateCategory(id, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Category updated successfully", Data: category})
}

// DeleteCategory handles DELETE /api/category/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Category deleted successfully"})
}

// CreateProduct handles POST /api/product
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := h.service.CreateProduct(req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Product created successfully", Data: product})
}

// GetProduct handles GET /api/product/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: product})
}

// ListProducts handles GET /api/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	categoryID, _ := strconv.ParseUint(r.URL.Query().Get("category_id"), 10, 32)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	products, total, err := h.service.GetProducts(uint(categoryID), limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]interface{}{
		"products": products,
		"total":    total,
	}})
}

// UpdateProduct handles PUT /api/product/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := h.service.UpdateProduct(id, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Product updated successfully", Data: product})
}

// DeleteProduct handles DELETE /api/product/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Product deleted successfully"})
}

// CreateBatch handles POST /api/batch
func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req CreateBatchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	batch, err := h.service.CreateBatch(req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Batch created successfully", Data: batch})
}

// GetBatch handles GET /api/batch/{id}
func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	batch, err := h.service.GetBatch(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: batch})
}

// ListBatches handles GET /api/batches?product_id=N
func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseUint(r.URL.Query().Get("product_id"), 10, 32)
	if err != nil || productID == 0 {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "product_id query parameter is required"})
		return
	}

	batches, err := h.service.GetBatchesByProduct(uint(productID))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: batches})
}

// DeleteBatch handles DELETE /api/batch/{id}
func (h *Handler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteBatch(id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Batch deleted successfully"})
}

// RegisterRoutes registers all catalog routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/category", middleware.RequireRole("admin", "manager")(h.CreateCategory)).Methods("POST")
	router.HandleFunc("/api/categories", middleware.Auth(h.ListCategories)).Methods("GET")
	router.HandleFunc("/api/category/{id}", middleware.Auth(h.GetCategory)).Methods("GET")
	router.HandleFunc("/api/category/{id}", middleware.RequireRole("admin", "manager")(h.UpdateCategory)).Methods("PUT")
	router.HandleFunc("/api/category/{id}", middleware.Admin(h.DeleteCategory)).Methods("DELETE")

	router.HandleFunc("/api/product", middleware.RequireRole("admin", "manager")(h.CreateProduct)).Methods("POST")
	router.HandleFunc("/api/products", middleware.Auth(h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/product/{id}", middleware.Auth(h.GetProduct)).Methods("GET")
	router.HandleFunc("/api/product/{id}", middleware.RequireRole("admin", "manager")(h.UpdateProduct)).Methods("PUT")
	router.HandleFunc("/api/product/{id}", middleware.Admin(h.DeleteProduct)).Methods("DELETE")

	router.HandleFunc("/api/batch", middleware.RequireRole("admin", "manager", "staff")(h.CreateBatch)).Methods("POST")
	router.HandleFunc("/api/batches", middleware.Auth(h.ListBatches)).Methods("GET")
	router.HandleFunc("/api/batch/{id}", middleware.Auth(h.GetBatch)).Methods("GET")
	router.HandleFunc("/api/batch/{id}", middleware.RequireRole("admin", "manager")(h.DeleteBatch)).Methods("DELETE")
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
		logger.Logger.Error().Err(err).Msg("Catalog request failed")
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
