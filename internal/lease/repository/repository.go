package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/lease/domain"
)

type GormLeaseRepository struct {
	db *gorm.DB
}

func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

func (r *GormLeaseRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Lease{},
		&domain.PaymentScheduleEntry{},
		&domain.CustomTerm{},
		&domain.LeaseDocument{},
	)
}

// leaseLockClass namespaces the per-unit advisory locks taken by
// CreateExclusive.
const leaseLockClass = 125534

// CreateExclusive serializes creations per unit with a transaction-scoped
// advisory lock, then runs the overlap check and the insert. Under READ
// COMMITTED the count alone would not stop two concurrent creations from
// both seeing zero overlaps; the lock makes the second one wait.
func (r *GormLeaseRepository) CreateExclusive(lease *domain.Lease) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?, ?)", leaseLockClass, int32(lease.UnitID)).Error; err != nil {
			return err
		}

		var count int64
		q := overlapQuery(tx, lease.UnitID, lease.StartDate, lease.EndDate, 0)
		if err := q.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &domain.ErrOverlap{UnitID: lease.UnitID}
		}
		return tx.Create(lease).Error
	})
}

func (r *GormLeaseRepository) FindByID(id uint) (*domain.Lease, error) {
	var lease domain.Lease
	err := r.db.
		Preload("Schedule", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("CustomTerms", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Documents").
		First(&lease, id).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *GormLeaseRepository) FindAll(filter domain.LeaseFilter) ([]domain.Lease, int64, error) {
	q := r.db.Model(&domain.Lease{})
	if filter.UnitID != 0 {
		q = q.Where("unit_id = ?", filter.UnitID)
	}
	if filter.TenantID != 0 {
		q = q.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leases []domain.Lease
	err := q.
		Preload("Schedule", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("start_date desc").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&leases).Error
	return leases, total, err
}

func (r *GormLeaseRepository) FindOverlapping(unitID uint, start time.Time, end *time.Time, excludeID uint) ([]domain.Lease, error) {
	var leases []domain.Lease
	err := overlapQuery(r.db, unitID, start, end, excludeID).Find(&leases).Error
	return leases, err
}

// overlapQuery selects Active/Pending leases on the unit whose interval
// intersects [start, end], with a nil end treated as unbounded future.
func overlapQuery(db *gorm.DB, unitID uint, start time.Time, end *time.Time, excludeID uint) *gorm.DB {
	q := db.Model(&domain.Lease{}).
		Where("unit_id = ?", unitID).
		Where("status IN ?", []string{domain.StatusActive, domain.StatusPending}).
		Where("end_date IS NULL OR end_date >= ?", start)
	if end != nil {
		q = q.Where("start_date <= ?", *end)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	return q
}

func (r *GormLeaseRepository) Update(lease *domain.Lease) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(lease).Error
}

func (r *GormLeaseRepository) UpdateScheduleEntry(entry *domain.PaymentScheduleEntry) error {
	return r.db.Save(entry).Error
}

func (r *GormLeaseRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Lease{}, id).Error
}
