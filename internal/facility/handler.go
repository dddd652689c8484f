package facility

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

// Handler handles HTTP requests for areas, units and spaces
type Handler struct {
	service *Service
}

// NewHandler creates a new facility handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateArea handles POST /api/area
func (h *Handler) CreateArea(w http.ResponseWriter, r *http.Request) {
	var req CreateAreaRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	area, err := h.service.CreateArea(req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Area created successfully", Data: area})
}

// GetArea handles GET /api/area/{id}
func (h *Handler) GetArea(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	area, err := h.service.GetArea(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: area})
}

// ListAreas handles GET /api/areas
func (h *Handler) ListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.service.GetAllAreas()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: areas})
}

// UpdateArea handles PUT /api/area/{id}
func (h *Handler) UpdateArea(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateAreaRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	area, err := h.service.UpdateArea(id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Area updated successfully", Data: area})
}

// DeleteArea handles DELETE /api/area/{id}
func (h *Handler) DeleteArea(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteArea(id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Area deleted successfully"})
}

// CreateUnit handles POST /api/unit
func (h *Handler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req CreateUnitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	unit, err := h.service.CreateUnit(req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Unit created successfully", Data: unit})
}

// GetUnit handles GET /api/unit/{id}
func (h *Handler) GetUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	unit, err := h.service.GetUnit(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: unit})
}

// ListUnits handles GET /api/units
func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	areaID, _ := strconv.ParseUint(r.URL.Query().Get("area_id"), 10, 32)
	occupancy := r.URL.Query().Get("occupancy")

	units, err := h.service.GetUnits(uint(areaID), occupancy)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: units})
}

// UpdateUnit handles PUT /api/unit/{id}
func (h *Handler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateUnitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	unit, err := h.service.UpdateUnit(id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Unit updated successfully", Data: unit})
}

// DeleteUnit handles DELETE /api/unit/{id}
func (h *Handler) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteUnit(id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Unit deleted successfully"})
}

// CreateSpace handles POST /api/space
func (h *Handler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	var req CreateSpaceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	space, err := h.service.CreateSpace(req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "Space created successfully", Data: space})
}

// GetSpace handles GET /api/space/{id}
func (h *Handler) GetSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	space, err := h.service.GetSpace(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: space})
}

// UpdateSpace handles PUT /api/space/{id}
func (h *Handler) UpdateSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateSpaceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	space, err := h.service.UpdateSpace(id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Space updated successfully", Data: space})
}

// DeleteSpace handles DELETE /api/space/{id}
func (h *Handler) DeleteSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteSpace(id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Space deleted successfully"})
}

// RegisterRoutes registers all facility routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/area", middleware.RequireRole("admin", "manager")(h.CreateArea)).Methods("POST")
	router.HandleFunc("/api/areas", middleware.Auth(h.ListAreas)).Methods("GET")
	router.HandleFunc("/api/area/{id}", middleware.Auth(h.GetArea)).Methods("GET")
	router.HandleFunc("/api/area/{id}", middleware.RequireRole("admin", "manager")(h.UpdateArea)).Methods("PUT")
	router.HandleFunc("/api/area/{id}", middleware.Admin(h.DeleteArea)).Methods("DELETE")

	router.HandleFunc("/api/unit", middleware.RequireRole("admin", "manager")(h.CreateUnit)).Methods("POST")
	router.HandleFunc("/api/units", middleware.Auth(h.ListUnits)).Methods("GET")
	router.HandleFunc("/api/unit/{id}", middleware.Auth(h.GetUnit)).Methods("GET")
	router.HandleFunc("/api/unit/{id}", middleware.RequireRole("admin", "manager")(h.UpdateUnit)).Methods("PUT")
	router.HandleFunc("/api/unit/{id}", middleware.Admin(h.DeleteUnit)).Methods("DELETE")

	router.HandleFunc("/api/space", middleware.RequireRole("admin", "manager")(h.CreateSpace)).Methods("POST")
	router.HandleFunc("/api/space/{id}", middleware.Auth(h.GetSpace)).Methods("GET")
	router.HandleFunc("/api/space/{id}", middleware.RequireRole("admin", "manager")(h.UpdateSpace)).Methods("PUT")
	router.HandleFunc("/api/space/{id}", middleware.Admin(h.DeleteSpace)).Methods("DELETE")
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
		logger.Logger.Error().Err(err).Msg("Facility request failed")
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
