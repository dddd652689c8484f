package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/internal/inventory/repository"
)

// ProvideStockRepository provides the stock repository
func ProvideStockRepository(db *gorm.DB) domain.StockRepository {
	return repository.NewGormStockRepository(db)
}

// ProvideItemRepository provides the item repository
func ProvideItemRepository(db *gorm.DB) domain.ItemRepository {
	return repository.NewGormItemRepository(db)
}

// ProvideLocationRepository provides the location repository
func ProvideLocationRepository(db *gorm.DB) domain.LocationRepository {
	return repository.NewGormLocationRepository(db)
}

// ProvideRequestRepository provides the request repository
func ProvideRequestRepository(db *gorm.DB) domain.RequestRepository {
	return repository.NewGormRequestRepository(db)
}

// RepositorySet groups the inventory repository providers.
var RepositorySet = wire.NewSet(
	ProvideStockRepository,
	ProvideItemRepository,
	ProvideLocationRepository,
	ProvideRequestRepository,
)
