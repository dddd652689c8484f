package tenant

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

// Handler handles HTTP requests for tenants
type Handler struct {
	service *Service
}

// NewHandler creates a new tenant handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateTenant handles POST /api/tenant
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	tenant, err := h.service.CreateTenant(req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Tenant created successfully", Data: tenant})
}

// GetTenant handles GET /api/tenant/{id}
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	tenant, err := h.service.GetTenant(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: tenant})
}

// ListTenants handles GET /api/tenants
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	tenants, total, err := h.service.GetAllTenants(limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: map[string]interface{}{
		"tenants": tenants,
		"total":   total,
	}})
}

// UpdateTenant handles PUT /api/tenant/{id}
func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	tenant, err := h.service.UpdateTenant(id, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Tenant updated successfully", Data: tenant})
}

// DeleteTenant handles DELETE /api/tenant/{id}
func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTenant(id); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Tenant deleted successfully"})
}

// RegisterRoutes registers all tenant routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/tenant", middleware.RequireRole("admin", "manager")(h.CreateTenant)).Methods("POST")
	router.HandleFunc("/api/tenants", middleware.Auth(h.ListTenants)).Methods("GET")
	router.HandleFunc("/api/tenant/{id}", middleware.Auth(h.GetTenant)).Methods("GET")
	router.HandleFunc("/api/tenant/{id}", middleware.RequireRole("admin", "manager")(h.UpdateTenant)).Methods("PUT")
	router.HandleFunc("/api/tenant/{id}", middleware.Admin(h.DeleteTenant)).Methods("DELETE")
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid tenant ID"})
		return 0, false
	}
	return uint(id), true
}

func respondError(w http.ResponseWriter, err error) {
	status := apperror.StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.Logger.Error().Err(err).Msg("Tenant request failed")
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
