package purchase

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/purchase/domain"
	"github.com/thukha/backoffice/internal/purchase/repository"
)

// ProvideOrderRepository provides the purchase order repository
func ProvideOrderRepository(db *gorm.DB) domain.OrderRepository {
	return repository.NewGormOrderRepository(db)
}

// ProvideSupplierRepository provides the supplier repository
func ProvideSupplierRepository(db *gorm.DB) domain.SupplierRepository {
	return repository.NewGormSupplierRepository(db)
}

// RepositorySet groups the purchase repository providers.
var RepositorySet = wire.NewSet(
	ProvideOrderRepository,
	ProvideSupplierRepository,
)
