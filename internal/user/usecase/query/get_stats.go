package query

import (
	"fmt"

	"github.com/thukha/backoffice/internal/user/domain"
)

// GetStatsQuery represents the query to get account statistics (admin only)
type GetStatsQuery struct{}

// UserStats represents account statistics
type UserStats struct {
	TotalUsers   int64 `json:"total_users"`
	AdminCount   int64 `json:"admin_count"`
	ManagerCount int64 `json:"manager_count"`
	StaffCount   int64 `json:"staff_count"`
	ActiveUsers  int64 `json:"active_users"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.UserRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.UserRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(q GetStatsQuery) (*UserStats, error) {
	total, err := h.repo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	admins, err := h.repo.CountByRole(domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	managers, err := h.repo.CountByRole(domain.RoleManager)
	if err != nil {
		return nil, fmt.Errorf("failed to count managers: %w", err)
	}
	staff, err := h.repo.CountByRole(domain.RoleStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to count staff: %w", err)
	}
	active, err := h.repo.CountActive()
	if err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}

	return &UserStats{
		TotalUsers:   total,
		AdminCount:   admins,
		ManagerCount: managers,
		StaffCount:   staff,
		ActiveUsers:  active,
	}, nil
}
