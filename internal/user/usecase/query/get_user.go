package query

import (
	"github.com/thukha/backoffice/internal/user/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// GetUserQuery represents the query to get a user by ID
type GetUserQuery struct {
	ID uint
}

// GetUserHandler handles get user query
type GetUserHandler struct {
	repo domain.UserRepository
}

// NewGetUserHandler creates a new get user handler
func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

// Handle executes the get user query
func (h *GetUserHandler) Handle(q GetUserQuery) (*domain.User, error) {
	user, err := h.repo.FindByID(q.ID)
	if err != nil {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}
