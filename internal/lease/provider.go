package lease

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/lease/domain"
	"github.com/thukha/backoffice/internal/lease/repository"
)

// ProvideLeaseRepository provides the lease repository, wrapped with
// repository-level tracing.
func ProvideLeaseRepository(db *gorm.DB) domain.LeaseRepository {
	return repository.NewGormLeaseRepositoryWithTracing(db)
}

// RepositorySet groups the lease repository providers.
var RepositorySet = wire.NewSet(
	ProvideLeaseRepository,
)
