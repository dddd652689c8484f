//go:build wireinject
// +build wireinject

package purchase

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/purchase/delivery/http"
	"github.com/thukha/backoffice/internal/purchase/domain"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, items domain.ItemGateway, users domain.UserGateway) (*http.PurchaseHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewPurchaseHandler,
	)
	return nil, nil
}
