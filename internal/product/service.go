package product

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/thukha/backoffice/pkg/apperror"
)

const maxBatchNumberAttempts = 5

// Service handles business logic for the POS catalog
type Service struct {
	repo *Repository

	// randomSuffix is swappable in tests.
	randomSuffix func() string
}

// NewService creates a new product service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo, randomSuffix: randomHex}
}

func randomHex() string {
	buf := make([]byte, 4)
	// crypto/rand.Read is documented to never fail.
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// CreateCategory creates a new category
func (s *Service) CreateCategory(req CreateCategoryRequest) (*Category, error) {
	category := &Category{Name: req.Name, Description: req.Description}
	if err := s.repo.CreateCategory(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// GetCategory retrieves a category by ID
func (s *Service) GetCategory(id uint) (*Category, error) {
	category, err := s.repo.FindCategoryByID(id)
	if err != nil {
		return nil, apperror.NotFound("category not found")
	}
	return category, nil
}

// GetAllCategories retrieves all categories
func (s *Service) GetAllCategories() ([]Category, error) {
	return s.repo.FindAllCategories()
}

// UpdateCategory applies a partial update to a category
func (s *Service) UpdateCategory(id uint, req UpdateCategoryRequest) (*Category, error) {
	category, err := s.repo.FindCategoryByID(id)
	if err != nil {
		return nil, apperror.NotFound("category not found")
	}
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if err := s.repo.UpdateCategory(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category. Categories still referenced by
// products cannot be removed.
func (s *Service) DeleteCategory(id uint) error {
	if _, err := s.repo.FindCategoryByID(id); err != nil {
		return apperror.NotFound("category not found")
	}
	count, err := s.repo.CountProductsInCategory(id)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return apperror.BadRequest("cannot delete a category that still has products")
	}
	if err := s.repo.DeleteCategory(id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// CreateProduct creates a new product in an existing category
func (s *Service) CreateProduct(req CreateProductRequest) (*Product, error) {
	exists, err := s.repo.CategoryExists(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, apperror.NotFound("category %d not found", req.CategoryID)
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, apperror.BadRequest("invalid price: %q", req.Price)
	}
	if price.IsNegative() {
		return nil, apperror.BadRequest("price must not be negative")
	}

	if req.Barcode != "" {
		if existing, _ := s.repo.FindProductByBarcode(req.Barcode); existing != nil {
			return nil, apperror.Conflict("a product with barcode %q already exists", req.Barcode)
		}
	}

	product := &Product{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Price:      price,
		Barcode:    req.Barcode,
		ItemID:     req.ItemID,
		IsActive:   true,
	}
	if err := s.repo.CreateProduct(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	product, err := s.repo.FindProductByID(id)
	if err != nil {
		return nil, apperror.NotFound("product not found")
	}
	return product, nil
}

// GetProducts lists products, optionally filtered by category
func (s *Service) GetProducts(categoryID uint, limit, offset int) ([]Product, int64, error) {
	if limit == 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.FindProducts(categoryID, limit, offset)
}

// UpdateProduct applies a partial update to a product
func (s *Service) UpdateProduct(id uint, req UpdateProductRequest) (*Product, error) {
	product, err := s.repo.FindProductByID(id)
	if err != nil {
		return nil, apperror.NotFound("product not found")
	}

	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		exists, err := s.repo.CategoryExists(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		if !exists {
			return nil, apperror.NotFound("category %d not found", *req.CategoryID)
		}
		product.CategoryID = *req.CategoryID
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			return nil, apperror.BadRequest("invalid price: %q", *req.Price)
		}
		if price.IsNegative() {
			return nil, apperror.BadRequest("price must not be negative")
		}
		product.Price = price
	}
	if req.Barcode != nil && *req.Barcode != product.Barcode {
		if *req.Barcode != "" {
			if existing, _ := s.repo.FindProductByBarcode(*req.Barcode); existing != nil {
				return nil, apperror.Conflict("a product with barcode %q already exists", *req.Barcode)
			}
		}
		product.Barcode = *req.Barcode
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateProduct(product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product
func (s *Service) DeleteProduct(id uint) error {
	if _, err := s.repo.FindProductByID(id); err != nil {
		return apperror.NotFound("product not found")
	}
	if err := s.repo.DeleteProduct(id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// CreateBatch records a received lot for a product. The batch number
// is generated with a collision-checked retry loop.
func (s *Service) CreateBatch(req CreateBatchRequest) (*Batch, error) {
	if _, err := s.repo.FindProductByID(req.ProductID); err != nil {
		return nil, apperror.NotFound("product %d not found", req.ProductID)
	}

	number, err := nextBatchNumber(s.randomSuffix, s.repo.BatchNumberExists)
	if err != nil {
		return nil, err
	}

	batch := &Batch{
		BatchNumber: number,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		ExpiresAt:   req.ExpiresAt,
	}
	if err := s.repo.CreateBatch(batch); err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}
	return batch, nil
}

// nextBatchNumber draws candidate numbers until one is unused.
func nextBatchNumber(random func() string, exists func(string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxBatchNumberAttempts; attempt++ {
		candidate := "B-" + random()
		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check batch number: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", apperror.Internal("could not generate a unique batch number after %d attempts", maxBatchNumberAttempts)
}

// GetBatch retrieves a batch by ID
func (s *Service) GetBatch(id uint) (*Batch, error) {
	batch, err := s.repo.FindBatchByID(id)
	if err != nil {
		return nil, apperror.NotFound("batch not found")
	}
	return batch, nil
}

// GetBatchesByProduct lists the batches of a product
func (s *Service) GetBatchesByProduct(productID uint) ([]Batch, error) {
	return s.repo.FindBatchesByProduct(productID)
}

// DeleteBatch removes a batch
func (s *Service) DeleteBatch(id uint) error {
	if _, err := s.repo.FindBatchByID(id); err != nil {
		return apperror.NotFound("batch not found")
	}
	if err := s.repo.DeleteBatch(id); err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	return nil
}

// CategoryExists implements the inventory module's category gateway.
func (s *Service) CategoryExists(id uint) (bool, error) {
	return s.repo.CategoryExists(id)
}

// ProductRef implements the POS module's catalog gateway: it resolves a
// product to its inventory item, current price, and active flag.
func (s *Service) ProductRef(id uint) (uint, decimal.Decimal, bool, error) {
	product, err := s.repo.FindProductByID(id)
	if err != nil {
		return 0, decimal.Zero, false, err
	}
	return product.ItemID, product.Price, product.IsActive, nil
}
