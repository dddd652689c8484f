package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/purchase/domain"
)

// Counter is a named monotonic sequence. Purchase order short codes
// are drawn from the "purchase_order" row.
type Counter struct {
	Name  string `gorm:"primaryKey"`
	Value int64  `gorm:"not null"`
}

func (Counter) TableName() string {
	return "counters"
}

const orderCounterName = "purchase_order"

// AutoMigrate runs database migrations for all purchase tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Supplier{},
		&domain.PurchaseOrder{},
		&domain.OrderLine{},
		&Counter{},
	)
}

// GormSupplierRepository implements domain.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GORM-based supplier repository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

func (r *GormSupplierRepository) Create(supplier *domain.Supplier) error {
	return r.db.Create(supplier).Error
}

func (r *GormSupplierRepository) FindByID(id uint) (*domain.Supplier, error) {
	var supplier domain.Supplier
	if err := r.db.First(&supplier, id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *GormSupplierRepository) FindAll(limit, offset int) ([]domain.Supplier, int64, error) {
	var total int64
	if err := r.db.Model(&domain.Supplier{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var suppliers []domain.Supplier
	err := r.db.Order("name").Limit(limit).Offset(offset).Find(&suppliers).Error
	return suppliers, total, err
}

func (r *GormSupplierRepository) Update(supplier *domain.Supplier) error {
	return r.db.Save(supplier).Error
}

func (r *GormSupplierRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Supplier{}, id).Error
}

func (r *GormSupplierRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Supplier{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// GormOrderRepository implements domain.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM-based order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// CreateWithCode inserts the order with the next short code. The
// counter row is bumped with UPDATE ... RETURNING inside the insert
// transaction, so concurrent creations cannot collide.
func (r *GormOrderRepository) CreateWithCode(order *domain.PurchaseOrder) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if order.ShortCode == "" {
			var next int64
			err := tx.Raw(`
				INSERT INTO counters (name, value) VALUES (?, 1)
				ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
				RETURNING value`, orderCounterName).Scan(&next).Error
			if err != nil {
				return err
			}
			order.ShortCode = fmt.Sprintf("PO-%04d", next)
		}
		return tx.Create(order).Error
	})
}

func (r *GormOrderRepository) FindByID(id uint) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder
	err := r.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("purchase_order_lines.position")
	}).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindAll(filter domain.OrderFilter) ([]domain.PurchaseOrder, int64, error) {
	query := r.db.Model(&domain.PurchaseOrder{})
	if filter.SupplierID != 0 {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.OrdererID != 0 {
		query = query.Where("orderer_id = ?", filter.OrdererID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []domain.PurchaseOrder
	err := query.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("purchase_order_lines.position")
	}).Order("id DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&orders).Error
	return orders, total, err
}

// Update saves the order and replaces its line rows.
func (r *GormOrderRepository) Update(order *domain.PurchaseOrder) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", order.ID).Delete(&domain.OrderLine{}).Error; err != nil {
			return err
		}
		return tx.Save(order).Error
	})
}

func (r *GormOrderRepository) Delete(id uint) error {
	return r.db.Select("Lines").Delete(&domain.PurchaseOrder{ID: id}).Error
}

func (r *GormOrderRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.PurchaseOrder{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
