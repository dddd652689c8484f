//go:build wireinject
// +build wireinject

package lease

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/lease/delivery/http"
	"github.com/thukha/backoffice/internal/lease/domain"
	"github.com/thukha/backoffice/kafka"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, units domain.UnitGateway, tenants domain.TenantGateway, publisher *kafka.Publisher) (*http.LeaseHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewLeaseHandler,
	)
	return nil, nil
}
