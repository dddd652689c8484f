package product

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups products for the POS catalog.
type Category struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"uniqueIndex;not null"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Category) TableName() string {
	return "categories"
}

// Product is a sellable catalog entry. Price is stored as a numeric
// column and serialized as a decimal string.
type Product struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Name       string          `json:"name" gorm:"not null"`
	CategoryID uint            `json:"category_id" gorm:"not null;index"`
	Price      decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Barcode    string          `json:"barcode" gorm:"uniqueIndex"`
	ItemID     uint            `json:"item_id"`
	IsActive   bool            `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}

// Batch is one received lot of a product.
type Batch struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	BatchNumber string         `json:"batch_number" gorm:"uniqueIndex;not null"`
	ProductID   uint           `json:"product_id" gorm:"not null;index"`
	Quantity    int            `json:"quantity" gorm:"not null"`
	ExpiresAt   *time.Time     `json:"expires_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Batch) TableName() string {
	return "product_batches"
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CreateProductRequest struct {
	Name       string `json:"name" validate:"required"`
	CategoryID uint   `json:"category_id" validate:"required"`
	Price      string `json:"price" validate:"required"`
	Barcode    string `json:"barcode"`
	ItemID     uint   `json:"item_id"`
}

type UpdateProductRequest struct {
	Name       *string `json:"name"`
	CategoryID *uint   `json:"category_id"`
	Price      *string `json:"price"`
	Barcode    *string `json:"barcode"`
	IsActive   *bool   `json:"is_active"`
}

type CreateBatchRequest struct {
	ProductID uint       `json:"product_id" validate:"required"`
	Quantity  int        `json:"quantity" validate:"required,min=1"`
	ExpiresAt *time.Time `json:"expires_at"`
}
