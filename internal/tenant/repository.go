package tenant

import (
	"gorm.io/gorm"
)

// Repository handles tenant data persistence
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tenant repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Tenant{})
}

func (r *Repository) Create(tenant *Tenant) error {
	return r.db.Create(tenant).Error
}

func (r *Repository) FindByID(id uint) (*Tenant, error) {
	var tenant Tenant
	if err := r.db.First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *Repository) FindByEmail(email string) (*Tenant, error) {
	var tenant Tenant
	if err := r.db.Where("email = ?", email).First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *Repository) FindAll(limit, offset int) ([]Tenant, int64, error) {
	var total int64
	if err := r.db.Model(&Tenant{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tenants []Tenant
	err := r.db.Order("name").Limit(limit).Offset(offset).Find(&tenants).Error
	return tenants, total, err
}

func (r *Repository) Update(tenant *Tenant) error {
	return r.db.Save(tenant).Error
}

func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&Tenant{}, id).Error
}

// Exists reports whether a tenant with the id exists.
func (r *Repository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&Tenant{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
