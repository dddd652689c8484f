package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/user/domain"
	"github.com/thukha/backoffice/internal/user/repository"
)

// ProvideUserRepository provides the user repository, wrapped with
// repository-level tracing.
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewGormUserRepositoryWithTracing(db)
}

// RepositorySet groups the user repository providers.
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)
