package facility

import (
	"gorm.io/gorm"
)

// Repository handles facility data persistence
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new facility repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Area{}, &Unit{}, &UnitFeature{}, &Space{})
}

func (r *Repository) CreateArea(area *Area) error {
	return r.db.Create(area).Error
}

func (r *Repository) FindAreaByID(id uint) (*Area, error) {
	var area Area
	err := r.db.Preload("Units", func(db *gorm.DB) *gorm.DB {
		return db.Order("units.code")
	}).First(&area, id).Error
	if err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *Repository) FindAllAreas() ([]Area, error) {
	var areas []Area
	err := r.db.Order("name").Find(&areas).Error
	return areas, err
}

func (r *Repository) UpdateArea(area *Area) error {
	return r.db.Save(area).Error
}

func (r *Repository) DeleteArea(id uint) error {
	return r.db.Select("Units").Delete(&Area{ID: id}).Error
}

func (r *Repository) AreaExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&Area{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateUnit(unit *Unit) error {
	return r.db.Create(unit).Error
}

func (r *Repository) FindUnitByID(id uint) (*Unit, error) {
	var unit Unit
	err := r.db.Preload("Features", func(db *gorm.DB) *gorm.DB {
		return db.Order("unit_features.position")
	}).Preload("Spaces").First(&unit, id).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *Repository) FindUnitByCode(code string) (*Unit, error) {
	var unit Unit
	if err := r.db.Where("code = ?", code).First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *Repository) FindUnits(areaID uint, occupancy string) ([]Unit, error) {
	query := r.db.Preload("Features", func(db *gorm.DB) *gorm.DB {
		return db.Order("unit_features.position")
	}).Order("code")
	if areaID != 0 {
		query = query.Where("area_id = ?", areaID)
	}
	if occupancy != "" {
		query = query.Where("occupancy = ?", occupancy)
	}

	var units []Unit
	err := query.Find(&units).Error
	return units, err
}

// UpdateUnit saves the unit and replaces its feature rows.
func (r *Repository) UpdateUnit(unit *Unit) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("unit_id = ?", unit.ID).Delete(&UnitFeature{}).Error; err != nil {
			return err
		}
		return tx.Save(unit).Error
	})
}

func (r *Repository) DeleteUnit(id uint) error {
	return r.db.Select("Features", "Spaces").Delete(&Unit{ID: id}).Error
}

func (r *Repository) UnitExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&Unit{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) SetUnitOccupancy(id uint, occupancy string) error {
	result := r.db.Model(&Unit{}).Where("id = ?", id).Update("occupancy", occupancy)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) CreateSpace(space *Space) error {
	return r.db.Create(space).Error
}

func (r *Repository) FindSpaceByID(id uint) (*Space, error) {
	var space Space
	if err := r.db.First(&space, id).Error; err != nil {
		return nil, err
	}
	return &space, nil
}

func (r *Repository) UpdateSpace(space *Space) error {
	return r.db.Save(space).Error
}

func (r *Repository) DeleteSpace(id uint) error {
	return r.db.Delete(&Space{}, id).Error
}
