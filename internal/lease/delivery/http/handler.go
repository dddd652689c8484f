package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/thukha/backoffice/internal/lease/domain"
	"github.com/thukha/backoffice/internal/lease/usecase/command"
	"github.com/thukha/backoffice/internal/lease/usecase/query"
	"github.com/thukha/backoffice/internal/middleware"
	"github.com/thukha/backoffice/kafka"
	"github.com/thukha/backoffice/pkg/apperror"
	"github.com/thukha/backoffice/pkg/logger"
)

var validate = validator.New()

// LeaseHandler handles HTTP requests for leases using CQRS pattern
type LeaseHandler struct {
	createHandler    *command.CreateLeaseHandler
	updateHandler    *command.UpdateLeaseHandler
	terminateHandler *command.TerminateLeaseHandler
	activateHandler  *command.ActivateLeaseHandler
	deleteHandler    *command.DeleteLeaseHandler
	payHandler       *command.MarkSchedulePaidHandler

	getHandler  *query.GetLeaseHandler
	listHandler *query.ListLeasesHandler

	publisher *kafka.Publisher
}

// NewLeaseHandler creates a new lease handler
func NewLeaseHandler(repo domain.LeaseRepository, units domain.UnitGateway, tenants domain.TenantGateway, publisher *kafka.Publisher) *LeaseHandler {
	return &LeaseHandler{
		createHandler:    command.NewCreateLeaseHandler(repo, units, tenants),
		updateHandler:    command.NewUpdateLeaseHandler(repo, units, tenants),
		terminateHandler: command.NewTerminateLeaseHandler(repo, units),
		activateHandler:  command.NewActivateLeaseHandler(repo, units),
		deleteHandler:    command.NewDeleteLeaseHandler(repo),
		payHandler:       command.NewMarkSchedulePaidHandler(repo),
		getHandler:       query.NewGetLeaseHandler(repo),
		listHandler:      query.NewListLeasesHandler(repo),
		publisher:        publisher,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type createLeaseRequest struct {
	UnitID          uint     `json:"unit_id" validate:"required"`
	TenantID        uint     `json:"tenant_id" validate:"required"`
	StartDate       string   `json:"start_date" validate:"required"`
	EndDate         *string  `json:"end_date"`
	RentAmount      string   `json:"rent_amount" validate:"required"`
	PaymentCycle    string   `json:"payment_cycle" validate:"required,oneof=Monthly Quarterly Annually"`
	DepositAmount   string   `json:"deposit_amount"`
	DepositPaid     bool     `json:"deposit_paid"`
	DepositPaidDate *string  `json:"deposit_paid_date"`
	Activate        bool     `json:"activate"`
	ScheduleUntil   *string  `json:"schedule_until"`
	CustomTerms     []string `json:"custom_terms"`
}

// CreateLease handles POST /api/lease
func (h *LeaseHandler) CreateLease(w http.ResponseWriter, r *http.Request) {
	var req createLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid start_date"})
		return
	}
	end, err := parseDatePtr(req.EndDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid end_date"})
		return
	}
	depositPaidDate, err := parseDatePtr(req.DepositPaidDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid deposit_paid_date"})
		return
	}
	scheduleUntil, err := parseDatePtr(req.ScheduleUntil)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid schedule_until"})
		return
	}
	rentAmount, err := decimal.NewFromString(req.RentAmount)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid rent_amount"})
		return
	}
	depositAmount := decimal.Zero
	if req.DepositAmount != "" {
		if depositAmount, err = decimal.NewFromString(req.DepositAmount); err != nil {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid deposit_amount"})
			return
		}
	}

	lease, err := h.createHandler.Handle(command.CreateLeaseCommand{
		UnitID:          req.UnitID,
		TenantID:        req.TenantID,
		StartDate:       start,
		EndDate:         end,
		RentAmount:      rentAmount,
		PaymentCycle:    req.PaymentCycle,
		DepositAmount:   depositAmount,
		DepositPaid:     req.DepositPaid,
		DepositPaidDate: depositPaidDate,
		Activate:        req.Activate,
		ScheduleUntil:   scheduleUntil,
		CustomTerms:     req.CustomTerms,
		CreatedBy:       middleware.UserIDFromContext(r.Context()),
	})
	if err != nil {
		respondError(w, err)
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishLeaseCreated(r.Context(), kafka.LeaseCreatedEvent{
			LeaseID:  lease.ID,
			UnitID:   lease.UnitID,
			TenantID: lease.TenantID,
			Status:   lease.Status,
		}); err != nil {
			logger.Logger.Warn().Err(err).Uint("lease_id", lease.ID).Msg("Failed to publish lease created event")
		}
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Lease created successfully",
		Data:    lease,
	})
}

// GetLease handles GET /api/lease/{id}
func (h *LeaseHandler) GetLease(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	lease, err := h.getHandler.Handle(query.GetLeaseQuery{ID: id})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: lease})
}

// ListLeases handles GET /api/leases
func (h *LeaseHandler) ListLeases(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	unitID, _ := strconv.ParseUint(r.URL.Query().Get("unit_id"), 10, 32)
	tenantID, _ := strconv.ParseUint(r.URL.Query().Get("tenant_id"), 10, 32)

	result, err := h.listHandler.Handle(query.ListLeasesQuery{Filter: domain.LeaseFilter{
		UnitID:   uint(unitID),
		TenantID: uint(tenantID),
		Status:   r.URL.Query().Get("status"),
		Limit:    limit,
		Offset:   offset,
	}})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// UpdateLease handles PUT /api/lease/{id}
func (h *LeaseHandler) UpdateLease(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		UnitID          *uint    `json:"unit_id"`
		TenantID        *uint    `json:"tenant_id"`
		StartDate       *string  `json:"start_date"`
		EndDate         *string  `json:"end_date"`
		RentAmount      *string `json:"rent_amount"`
		PaymentCycle    *string `json:"payment_cycle"`
		DepositAmount   *string `json:"deposit_amount"`
		DepositPaid     *bool    `json:"deposit_paid"`
		DepositPaidDate *string  `json:"deposit_paid_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	var startDate *time.Time
	if req.StartDate != nil {
		parsed, err := parseDate(*req.StartDate)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid start_date"})
			return
		}
		startDate = &parsed
	}
	endDate, err := parseDatePtr(req.EndDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid end_date"})
		return
	}
	depositPaidDate, err := parseDatePtr(req.DepositPaidDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid deposit_paid_date"})
		return
	}
	rentAmount, err := parseAmountPtr(req.RentAmount)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid rent_amount"})
		return
	}
	depositAmount, err := parseAmountPtr(req.DepositAmount)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid deposit_amount"})
		return
	}

	lease, err := h.updateHandler.Handle(command.UpdateLeaseCommand{
		ID:              id,
		UnitID:          req.UnitID,
		TenantID:        req.TenantID,
		StartDate:       startDate,
		EndDate:         endDate,
		RentAmount:      rentAmount,
		PaymentCycle:    req.PaymentCycle,
		DepositAmount:   depositAmount,
		DepositPaid:     req.DepositPaid,
		DepositPaidDate: depositPaidDate,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Lease updated successfully", Data: lease})
}

// TerminateLease handles POST /api/lease/{id}/terminate
func (h *LeaseHandler) TerminateLease(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		TerminationDate string `json:"termination_date" validate:"required"`
		Reason          string `json:"reason" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	date, err := parseDate(req.TerminationDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid termination_date"})
		return
	}

	lease, err := h.terminateHandler.Handle(command.TerminateLeaseCommand{
		ID:              id,
		TerminationDate: date,
		Reason:          req.Reason,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Lease terminated successfully", Data: lease})
}

// ActivateLease handles POST /api/lease/{id}/activate
func (h *LeaseHandler) ActivateLease(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	lease, err := h.activateHandler.Handle(command.ActivateLeaseCommand{ID: id})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Lease activated successfully", Data: lease})
}

// MarkSchedulePaid handles POST /api/lease/{id}/schedule/{entry_id}/pay
func (h *LeaseHandler) MarkSchedulePaid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entryID, ok := pathID(w, r, "entry_id")
	if !ok {
		return
	}

	var req struct {
		PaidDate *string `json:"paid_date"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	paidDate, err := parseDatePtr(req.PaidDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid paid_date"})
		return
	}

	cmd := command.MarkSchedulePaidCommand{LeaseID: id, EntryID: entryID}
	if paidDate != nil {
		cmd.PaidDate = *paidDate
	}

	entry, err := h.payHandler.Handle(cmd)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Schedule entry marked paid", Data: entry})
}

// DeleteLease handles DELETE /api/lease/{id}
func (h *LeaseHandler) DeleteLease(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.deleteHandler.Handle(command.DeleteLeaseCommand{ID: id}); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Lease deleted successfully"})
}

// RegisterRoutes registers all lease routes
func (h *LeaseHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/lease", middleware.RequireRole("admin", "manager")(h.CreateLease)).Methods("POST")
	router.HandleFunc("/api/leases", middleware.Auth(h.ListLeases)).Methods("GET")
	router.HandleFunc("/api/lease/{id}", middleware.Auth(h.GetLease)).Methods("GET")
	router.HandleFunc("/api/lease/{id}", middleware.RequireRole("admin", "manager")(h.UpdateLease)).Methods("PUT")
	router.HandleFunc("/api/lease/{id}", middleware.Admin(h.DeleteLease)).Methods("DELETE")
	router.HandleFunc("/api/lease/{id}/terminate", middleware.RequireRole("admin", "manager")(h.TerminateLease)).Methods("POST")
	router.HandleFunc("/api/lease/{id}/activate", middleware.RequireRole("admin", "manager")(h.ActivateLease)).Methods("POST")
	router.HandleFunc("/api/lease/{id}/schedule/{entry_id}/pay", middleware.RequireRole("admin", "manager")(h.MarkSchedulePaid)).Methods("POST")
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars[name], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func parseDatePtr(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseAmountPtr(value *string) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func respondError(w http.ResponseWriter, err error) {
	status := apperror.StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.Logger.Error().Err(err).Msg("Lease request failed")
		respondJSON(w, status, Response{Success: false, Error: "Internal server error"})
		return
	}
	respondJSON(w, status, Response{Success: false, Error: err.Error()})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
