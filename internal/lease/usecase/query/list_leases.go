package query

import (
	"fmt"

	"github.com/thukha/backoffice/internal/lease/domain"
)

// ListLeasesQuery represents the query to list leases
type ListLeasesQuery struct {
	Filter domain.LeaseFilter
}

// ListLeasesResult carries one page of leases plus the total count.
type ListLeasesResult struct {
	Leases []domain.Lease `json:"leases"`
	Total  int64          `json:"total"`
}

// ListLeasesHandler handles list leases query
type ListLeasesHandler struct {
	repo domain.LeaseRepository
}

// NewListLeasesHandler creates a new list leases handler
func NewListLeasesHandler(repo domain.LeaseRepository) *ListLeasesHandler {
	return &ListLeasesHandler{repo: repo}
}

// Handle executes the list leases query
func (h *ListLeasesHandler) Handle(query ListLeasesQuery) (*ListLeasesResult, error) {
	if query.Filter.Limit == 0 {
		query.Filter.Limit = 10
	}
	if query.Filter.Limit > 100 {
		query.Filter.Limit = 100
	}

	leases, total, err := h.repo.FindAll(query.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}

	return &ListLeasesResult{Leases: leases, Total: total}, nil
}
