package query

import (
	"github.com/thukha/backoffice/internal/lease/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// GetLeaseQuery represents the query to get a lease by ID
type GetLeaseQuery struct {
	ID uint
}

// GetLeaseHandler handles get lease query
type GetLeaseHandler struct {
	repo domain.LeaseRepository
}

// NewGetLeaseHandler creates a new get lease handler
func NewGetLeaseHandler(repo domain.LeaseRepository) *GetLeaseHandler {
	return &GetLeaseHandler{repo: repo}
}

// Handle executes the get lease query
func (h *GetLeaseHandler) Handle(query GetLeaseQuery) (*domain.Lease, error) {
	lease, err := h.repo.FindByID(query.ID)
	if err != nil {
		return nil, apperror.NotFound("lease not found")
	}
	return lease, nil
}
