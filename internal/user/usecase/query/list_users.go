package query

import (
	"fmt"

	"github.com/thukha/backoffice/internal/user/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// ListUsersQuery represents the query to list users
type ListUsersQuery struct {
	Role   string // Optional role filter
	Limit  int
	Offset int
}

// ListUsersHandler handles list users query
type ListUsersHandler struct {
	repo domain.UserRepository
}

// NewListUsersHandler creates a new list users handler
func NewListUsersHandler(repo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo}
}

// Handle executes the list users query
func (h *ListUsersHandler) Handle(q ListUsersQuery) ([]domain.User, error) {
	limit := q.Limit
	if limit == 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	if q.Role != "" {
		if !domain.ValidRole(q.Role) {
			return nil, apperror.BadRequest("invalid role filter: %q", q.Role)
		}
		users, err := h.repo.FindByRole(q.Role, limit, q.Offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		return users, nil
	}

	users, err := h.repo.FindAll(limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
