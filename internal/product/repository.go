package product

import (
	"gorm.io/gorm"
)

// Repository handles catalog data persistence
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new product repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Category{}, &Product{}, &Batch{})
}

func (r *Repository) CreateCategory(category *Category) error {
	return r.db.Create(category).Error
}

func (r *Repository) FindCategoryByID(id uint) (*Category, error) {
	var category Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) FindAllCategories() ([]Category, error) {
	var categories []Category
	err := r.db.Order("name").Find(&categories).Error
	return categories, err
}

func (r *Repository) UpdateCategory(category *Category) error {
	return r.db.Save(category).Error
}

func (r *Repository) DeleteCategory(id uint) error {
	return r.db.Delete(&Category{}, id).Error
}

func (r *Repository) CategoryExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CountProductsInCategory(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&Product{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

func (r *Repository) CreateProduct(product *Product) error {
	return r.db.Create(product).Error
}

func (r *Repository) FindProductByID(id uint) (*Product, error) {
	var product Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) FindProductByBarcode(barcode string) (*Product, error) {
	var product Product
	if err := r.db.Where("barcode = ?", barcode).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) FindProducts(categoryID uint, limit, offset int) ([]Product, int64, error) {
	query := r.db.Model(&Product{})
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []Product
	err := query.Order("name").Limit(limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *Repository) UpdateProduct(product *Product) error {
	return r.db.Save(product).Error
}

func (r *Repository) DeleteProduct(id uint) error {
	return r.db.Delete(&Product{}, id).Error
}

func (r *Repository) CreateBatch(batch *Batch) error {
	return r.db.Create(batch).Error
}

func (r *Repository) FindBatchByID(id uint) (*Batch, error) {
	var batch Batch
	if err := r.db.First(&batch, id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *Repository) FindBatchesByProduct(productID uint) ([]Batch, error) {
	var batches []Batch
	err := r.db.Where("product_id = ?", productID).Order("created_at").Find(&batches).Error
	return batches, err
}

func (r *Repository) BatchNumberExists(number string) (bool, error) {
	var count int64
	err := r.db.Model(&Batch{}).Where("batch_number = ?", number).Count(&count).Error
	return count > 0, err
}

func (r *Repository) DeleteBatch(id uint) error {
	return r.db.Delete(&Batch{}, id).Error
}
