package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thukha/backoffice/internal/inventory/domain"
)

// AutoMigrate runs database migrations for all inventory tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Item{},
		&domain.Location{},
		&domain.Stock{},
		&domain.StockLog{},
		&domain.Request{},
		&domain.RequestItemLocation{},
		&domain.Approval{},
	)
}

// GormItemRepository implements domain.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GORM-based item repository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) Create(item *domain.Item) error {
	return r.db.Create(item).Error
}

func (r *GormItemRepository) FindByID(id uint) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) FindAll(limit, offset int) ([]domain.Item, int64, error) {
	var total int64
	if err := r.db.Model(&domain.Item{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Item
	err := r.db.Order("name").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *GormItemRepository) Update(item *domain.Item) error {
	return r.db.Save(item).Error
}

func (r *GormItemRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&domain.Item{}).Where("id = ?", id).Update("status", status).Error
}

func (r *GormItemRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Item{}, id).Error
}

func (r *GormItemRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Item{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// GormLocationRepository implements domain.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GORM-based location repository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

func (r *GormLocationRepository) Create(location *domain.Location) error {
	return r.db.Create(location).Error
}

func (r *GormLocationRepository) FindByID(id uint) (*domain.Location, error) {
	var location domain.Location
	if err := r.db.First(&location, id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *GormLocationRepository) FindAll() ([]domain.Location, error) {
	var locations []domain.Location
	err := r.db.Order("name").Find(&locations).Error
	return locations, err
}

func (r *GormLocationRepository) Update(location *domain.Location) error {
	return r.db.Save(location).Error
}

func (r *GormLocationRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Location{}, id).Error
}

func (r *GormLocationRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Location{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// GormStockRepository implements domain.StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GORM-based stock repository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

func (r *GormStockRepository) CreateWithLog(stock *domain.Stock, log *domain.StockLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(stock).Error; err != nil {
			return err
		}
		log.StockID = stock.ID
		return tx.Create(log).Error
	})
}

func (r *GormStockRepository) UpdateWithLog(stock *domain.Stock, log *domain.StockLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Logs").Save(stock).Error; err != nil {
			return err
		}
		log.StockID = stock.ID
		return tx.Create(log).Error
	})
}

func (r *GormStockRepository) FindByID(id uint) (*domain.Stock, error) {
	var stock domain.Stock
	err := r.db.Preload("Logs", func(db *gorm.DB) *gorm.DB {
		return db.Order("inventory_stock_logs.id")
	}).First(&stock, id).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *GormStockRepository) FindAll(filter domain.StockFilter) ([]domain.Stock, int64, error) {
	query := r.db.Model(&domain.Stock{})
	if filter.ItemID != 0 {
		query = query.Where("item_id = ?", filter.ItemID)
	}
	if filter.LocationID != 0 {
		query = query.Where("location_id = ?", filter.LocationID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var stocks []domain.Stock
	err := query.Order("id").Limit(filter.Limit).Offset(filter.Offset).Find(&stocks).Error
	return stocks, total, err
}

func (r *GormStockRepository) FindByItemAndLocation(itemID, locationID uint) (*domain.Stock, error) {
	var stock domain.Stock
	err := r.db.Where("item_id = ? AND location_id = ?", itemID, locationID).First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *GormStockRepository) Delete(id uint) error {
	return r.db.Select("Logs").Delete(&domain.Stock{ID: id}).Error
}

// DeductAll applies every deduction inside one transaction; rows are
// locked for update so concurrent sales cannot oversell a location.
func (r *GormStockRepository) DeductAll(deductions []domain.Deduction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, d := range deductions {
			var stock domain.Stock
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("item_id = ? AND location_id = ?", d.ItemID, d.LocationID).
				First(&stock).Error
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return domain.ErrStockMissing{ItemID: d.ItemID, LocationID: d.LocationID}
				}
				return err
			}

			if stock.Quantity < d.Quantity {
				return domain.ErrInsufficientStock{
					ItemID:     d.ItemID,
					LocationID: d.LocationID,
					Requested:  d.Quantity,
					Available:  stock.Quantity,
				}
			}

			stock.Quantity -= d.Quantity
			stock.UpdatedAt = time.Now()
			if err := tx.Omit("Logs").Save(&stock).Error; err != nil {
				return err
			}

			log := domain.StockLog{
				StockID:         stock.ID,
				Action:          domain.ActionDeducted,
				QuantityChanged: -d.Quantity,
				Note:            d.Note,
				ActorID:         d.ActorID,
			}
			if err := tx.Create(&log).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GormRequestRepository implements domain.RequestRepository using GORM
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GORM-based request repository
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

func (r *GormRequestRepository) Create(request *domain.Request) error {
	return r.db.Create(request).Error
}

func (r *GormRequestRepository) FindByID(id uint) (*domain.Request, error) {
	var request domain.Request
	err := r.db.
		Preload("ItemLocations", func(db *gorm.DB) *gorm.DB {
			return db.Order("inventory_request_item_locations.position")
		}).
		Preload("Approvals").
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *GormRequestRepository) FindAll(filter domain.RequestFilter) ([]domain.Request, int64, error) {
	query := r.db.Model(&domain.Request{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.ItemID != 0 {
		query = query.Where("item_id = ?", filter.ItemID)
	}
	if filter.RequesterID != 0 {
		query = query.Where("requester_id = ?", filter.RequesterID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []domain.Request
	err := query.
		Preload("ItemLocations", func(db *gorm.DB) *gorm.DB {
			return db.Order("inventory_request_item_locations.position")
		}).
		Preload("Approvals").
		Order("id DESC").Limit(filter.Limit).Offset(filter.Offset).
		Find(&requests).Error
	return requests, total, err
}

func (r *GormRequestRepository) Update(request *domain.Request) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", request.ID).Delete(&domain.RequestItemLocation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("request_id = ?", request.ID).Delete(&domain.Approval{}).Error; err != nil {
			return err
		}
		return tx.Save(request).Error
	})
}

func (r *GormRequestRepository) UpdateApproval(approval *domain.Approval) error {
	return r.db.Save(approval).Error
}

func (r *GormRequestRepository) Delete(id uint) error {
	return r.db.Select("ItemLocations", "Approvals").Delete(&domain.Request{ID: id}).Error
}
