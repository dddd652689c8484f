//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/inventory/delivery/http"
	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/kafka"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, users domain.UserGateway, categories domain.CategoryGateway, orders domain.PurchaseOrderGateway, publisher *kafka.Publisher) (*http.InventoryHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewInventoryHandler,
	)
	return nil, nil
}
