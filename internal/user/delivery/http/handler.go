package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/thukha/backoffice/internal/middleware"
	"github.com/thukha/backoffice/internal/user/domain"
	"github.com/thukha/backoffice/internal/user/usecase/command"
	"github.com/thukha/backoffice/internal/user/usecase/query"
	"github.com/thukha/backoffice/pkg/apperror"
	"github.com/thukha/backoffice/pkg/logger"
)

var validate = validator.New()

// UserHandler handles HTTP requests for accounts
type UserHandler struct {
	// Command handlers
	registerHandler     *command.RegisterUserHandler
	loginHandler        *command.LoginUserHandler
	updateHandler       *command.UpdateUserHandler
	deleteHandler       *command.DeleteUserHandler
	changeRoleHandler   *command.ChangeRoleHandler
	toggleActiveHandler *command.ToggleActiveHandler

	// Query handlers
	getUserHandler *query.GetUserHandler
	listHandler    *query.ListUsersHandler
	statsHandler   *query.GetStatsHandler

	repo           domain.UserRepository
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	activeUsers    prometheus.Gauge
}

// NewUserHandler creates a new user handler
func NewUserHandler(repo domain.UserRepository) *UserHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_user_requests_total",
			Help: "Total number of requests to the user endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backoffice_user_request_duration_seconds",
			Help:    "Duration of user endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	activeUsers := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "backoffice_active_users",
			Help: "Number of active accounts in the system",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(activeUsers)

	return &UserHandler{
		registerHandler:     command.NewRegisterUserHandler(repo),
		loginHandler:        command.NewLoginUserHandler(repo),
		updateHandler:       command.NewUpdateUserHandler(repo),
		deleteHandler:       command.NewDeleteUserHandler(repo),
		changeRoleHandler:   command.NewChangeRoleHandler(repo),
		toggleActiveHandler: command.NewToggleActiveHandler(repo),
		getUserHandler:      query.NewGetUserHandler(repo),
		listHandler:         query.NewListUsersHandler(repo),
		statsHandler:        query.NewGetStatsHandler(repo),
		repo:                repo,
		requestCounter:      requestCounter,
		requestLatency:      requestLatency,
		activeUsers:         activeUsers,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *UserHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin manager staff"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin manager staff"`
}

// Register handles POST /api/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.registerHandler.Handle(command.RegisterUserCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "User registered successfully", Data: user})
}

// Login handles POST /api/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.loginHandler.Handle(command.LoginUserCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Login successful", Data: resp})
}

// GetUser handles GET /api/user/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.getUserHandler.Handle(query.GetUserQuery{ID: id})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: user})
}

// GetProfile handles GET /api/profile for the authenticated user
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == 0 {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Unauthorized"})
		return
	}

	user, err := h.getUserHandler.Handle(query.GetUserQuery{ID: userID})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: user})
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	role := r.URL.Query().Get("role")

	users, err := h.listHandler.Handle(query.ListUsersQuery{Role: role, Limit: limit, Offset: offset})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: users})
}

// UpdateUser handles PUT /api/user/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.updateHandler.Handle(command.UpdateUserCommand{
		ID:       id,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "User updated successfully", Data: user})
}

// DeleteUser handles DELETE /api/user/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.deleteHandler.Handle(command.DeleteUserCommand{ID: id}); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "User deleted successfully"})
}

// ChangeRole handles PUT /api/user/{id}/role
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req changeRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.changeRoleHandler.Handle(command.ChangeRoleCommand{ID: id, Role: req.Role})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Role changed successfully", Data: user})
}

// ToggleActive handles PUT /api/user/{id}/toggle-active
func (h *UserHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.toggleActiveHandler.Handle(command.ToggleActiveCommand{ID: id})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "User status updated", Data: user})
}

// GetStats handles GET /api/users/stats
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(query.GetStatsQuery{})
	if err != nil {
		respondError(w, err)
		return
	}

	h.activeUsers.Set(float64(stats.ActiveUsers))

	respondJSON(w, http.StatusOK, Response{Success: true, Data: stats})
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/register", h.metricsMiddleware("/api/register", h.Register)).Methods("POST")
	router.HandleFunc("/api/login", h.metricsMiddleware("/api/login", h.Login)).Methods("POST")
	router.HandleFunc("/api/profile", h.metricsMiddleware("/api/profile", middleware.Auth(h.GetProfile))).Methods("GET")
	router.HandleFunc("/api/users", h.metricsMiddleware("/api/users", middleware.Admin(h.ListUsers))).Methods("GET")
	router.HandleFunc("/api/users/stats", h.metricsMiddleware("/api/users/stats", middleware.Admin(h.GetStats))).Methods("GET")
	router.HandleFunc("/api/user/{id}", h.metricsMiddleware("/api/user", middleware.Auth(h.GetUser))).Methods("GET")
	router.HandleFunc("/api/user/{id}", h.metricsMiddleware("/api/user", middleware.Auth(h.UpdateUser))).Methods("PUT")
	router.HandleFunc("/api/user/{id}", h.metricsMiddleware("/api/user", middleware.Admin(h.DeleteUser))).Methods("DELETE")
	router.HandleFunc("/api/user/{id}/role", h.metricsMiddleware("/api/user/role", middleware.Admin(h.ChangeRole))).Methods("PUT")
	router.HandleFunc("/api/user/{id}/toggle-active", h.metricsMiddleware("/api/user/toggle-active", middleware.Admin(h.ToggleActive))).Methods("PUT")
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
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid user ID"})
		return 0, false
	}
	return uint(id), true
}

func respondError(w http.ResponseWriter, err error) {
	status := apperror.StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.Logger.Error().Err(err).Msg("User request failed")
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
