package repository

import (
	"gorm.io/gorm"

	"github.com/thukha/backoffice/internal/user/domain"
)

// GormUserRepository implements domain.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM-based user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GormUserRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.User{})
}

func (r *GormUserRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *GormUserRepository) FindByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindAll(limit, offset int) ([]domain.User, error) {
	var users []domain.User
	err := r.db.Order("id").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

func (r *GormUserRepository) FindByRole(role string, limit, offset int) ([]domain.User, error) {
	var users []domain.User
	err := r.db.Where("role = ?", role).Order("id").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

func (r *GormUserRepository) Update(user *domain.User) error {
	return r.db.Save(user).Error
}

func (r *GormUserRepository) Delete(id uint) error {
	return r.db.Delete(&domain.User{}, id).Error
}

func (r *GormUserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Count(&count).Error
	return count, err
}

func (r *GormUserRepository) CountByRole(role string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *GormUserRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
