package tenant

import (
	"time"

	"gorm.io/gorm"
)

// Tenant represents a leaseholder managed by the back office.
type Tenant struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"not null"`
	BusinessName string         `json:"business_name"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	Phone        string         `json:"phone"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Tenant) TableName() string {
	return "tenants"
}

// CreateTenantRequest represents the request body for creating a tenant
type CreateTenantRequest struct {
	Name         string `json:"name" validate:"required"`
	BusinessName string `json:"business_name"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
}

// UpdateTenantRequest represents the request body for updating a tenant.
// Only non-nil fields are applied.
type UpdateTenantRequest struct {
	Name         *string `json:"name"`
	BusinessName *string `json:"business_name"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone"`
	IsActive     *bool   `json:"is_active"`
}
