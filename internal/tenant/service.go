package tenant

import (
	"fmt"

	"github.com/thukha/backoffice/pkg/apperror"
)

// Service handles business logic for tenants
type Service struct {
	repo *Repository
}

// NewService creates a new tenant service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateTenant creates a new tenant
func (s *Service) CreateTenant(req CreateTenantRequest) (*Tenant, error) {
	if existing, _ := s.repo.FindByEmail(req.Email); existing != nil {
		return nil, apperror.Conflict("a tenant with email %q already exists", req.Email)
	}

	tenant := &Tenant{
		Name:         req.Name,
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Phone:        req.Phone,
		IsActive:     true,
	}

	if err := s.repo.Create(tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	return tenant, nil
}

// GetTenant retrieves a tenant by ID
func (s *Service) GetTenant(id uint) (*Tenant, error) {
	tenant, err := s.repo.FindByID(id)
	if err != nil {
		return nil, apperror.NotFound("tenant not found")
	}
	return tenant, nil
}

// GetAllTenants retrieves one page of tenants plus the total count
func (s *Service) GetAllTenants(limit, offset int) ([]Tenant, int64, error) {
	if limit == 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.FindAll(limit, offset)
}

// UpdateTenant applies a partial update to a tenant
func (s *Service) UpdateTenant(id uint, req UpdateTenantRequest) (*Tenant, error) {
	tenant, err := s.repo.FindByID(id)
	if err != nil {
		return nil, apperror.NotFound("tenant not found")
	}

	if req.Email != nil && *req.Email != tenant.Email {
		if existing, _ := s.repo.FindByEmail(*req.Email); existing != nil {
			return nil, apperror.Conflict("a tenant with email %q already exists", *req.Email)
		}
		tenant.Email = *req.Email
	}
	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.BusinessName != nil {
		tenant.BusinessName = *req.BusinessName
	}
	if req.Phone != nil {
		tenant.Phone = *req.Phone
	}
	if req.IsActive != nil {
		tenant.IsActive = *req.IsActive
	}

	if err := s.repo.Update(tenant); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	return tenant, nil
}

// DeleteTenant removes a tenant
func (s *Service) DeleteTenant(id uint) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return apperror.NotFound("tenant not found")
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	return nil
}

// TenantExists implements the lease module's tenant gateway.
func (s *Service) TenantExists(id uint) (bool, error) {
	return s.repo.Exists(id)
}
