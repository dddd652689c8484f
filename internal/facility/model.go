package facility

import (
	"time"

	"gorm.io/gorm"
)

// Occupancy states for a unit.
const (
	OccupancyVacant   = "Vacant"
	OccupancyOccupied = "Occupied"
)

// Area is a top-level zone of the property (a floor, a wing, a block).
type Area struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Units       []Unit         `json:"units,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Area) TableName() string {
	return "areas"
}

// Unit is a leasable unit inside an area.
type Unit struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	AreaID    uint           `json:"area_id" gorm:"not null;index"`
	Code      string         `json:"code" gorm:"uniqueIndex;not null"`
	Name      string         `json:"name"`
	SizeSqm   float64        `json:"size_sqm"`
	Occupancy string         `json:"occupancy" gorm:"default:Vacant"`
	Features  []UnitFeature  `json:"features,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Spaces    []Space        `json:"spaces,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Unit) TableName() string {
	return "units"
}

// UnitFeature is an amenity attached to a unit.
type UnitFeature struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UnitID   uint   `json:"-" gorm:"not null;index"`
	Position int    `json:"-" gorm:"not null"`
	Name     string `json:"name" gorm:"not null"`
}

func (UnitFeature) TableName() string {
	return "unit_features"
}

// Space is a subdivision of a unit (a storage bay, a counter slot).
type Space struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UnitID    uint           `json:"unit_id" gorm:"not null;index"`
	Name      string         `json:"name" gorm:"not null"`
	SizeSqm   float64        `json:"size_sqm"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Space) TableName() string {
	return "spaces"
}

type CreateAreaRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type UpdateAreaRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CreateUnitRequest struct {
	AreaID   uint     `json:"area_id" validate:"required"`
	Code     string   `json:"code" validate:"required"`
	Name     string   `json:"name"`
	SizeSqm  float64  `json:"size_sqm"`
	Features []string `json:"features"`
}

type UpdateUnitRequest struct {
	AreaID   *uint     `json:"area_id"`
	Code     *string   `json:"code"`
	Name     *string   `json:"name"`
	SizeSqm  *float64  `json:"size_sqm"`
	Features *[]string `json:"features"`
}

type CreateSpaceRequest struct {
	UnitID  uint    `json:"unit_id" validate:"required"`
	Name    string  `json:"name" validate:"required"`
	SizeSqm float64 `json:"size_sqm"`
}

type UpdateSpaceRequest struct {
	Name    *string  `json:"name"`
	SizeSqm *float64 `json:"size_sqm"`
}
