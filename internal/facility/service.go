package facility

import (
	"fmt"

	"github.com/thukha/backoffice/pkg/apperror"
)

// Service handles business logic for areas, units and spaces
type Service struct {
	repo *Repository
}

// NewService creates a new facility service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateArea creates a new area
func (s *Service) CreateArea(req CreateAreaRequest) (*Area, error) {
	area := &Area{Name: req.Name, Description: req.Description}
	if err := s.repo.CreateArea(area); err != nil {
		return nil, fmt.Errorf("failed to create area: %w", err)
	}
	return area, nil
}

// GetArea retrieves an area with its units
func (s *Service) GetArea(id uint) (*Area, error) {
	area, err := s.repo.FindAreaByID(id)
	if err != nil {
		return nil, apperror.NotFound("area not found")
	}
	return area, nil
}

// GetAllAreas retrieves all areas
func (s *Service) GetAllAreas() ([]Area, error) {
	return s.repo.FindAllAreas()
}

// UpdateArea applies a partial update to an area
func (s *Service) UpdateArea(id uint, req UpdateAreaRequest) (*Area, error) {
	area, err := s.repo.FindAreaByID(id)
	if err != nil {
		return nil, apperror.NotFound("area not found")
	}
	if req.Name != nil {
		area.Name = *req.Name
	}
	if req.Description != nil {
		area.Description = *req.Description
	}
	if err := s.repo.UpdateArea(area); err != nil {
		return nil, fmt.Errorf("failed to update area: %w", err)
	}
	return area, nil
}

// DeleteArea removes an area. Areas that still contain occupied units
// cannot be deleted.
func (s *Service) DeleteArea(id uint) error {
	area, err := s.repo.FindAreaByID(id)
	if err != nil {
		return apperror.NotFound("area not found")
	}
	for _, unit := range area.Units {
		if unit.Occupancy == OccupancyOccupied {
			return apperror.BadRequest("cannot delete area: unit %s is occupied", unit.Code)
		}
	}
	if err := s.repo.DeleteArea(id); err != nil {
		return fmt.Errorf("failed to delete area: %w", err)
	}
	return nil
}

// CreateUnit creates a new unit inside an existing area
func (s *Service) CreateUnit(req CreateUnitRequest) (*Unit, error) {
	exists, err := s.repo.AreaExists(req.AreaID)
	if err != nil {
		return nil, fmt.Errorf("failed to check area: %w", err)
	}
	if !exists {
		return nil, apperror.NotFound("area %d not found", req.AreaID)
	}
	if existing, _ := s.repo.FindUnitByCode(req.Code); existing != nil {
		return nil, apperror.Conflict("a unit with code %q already exists", req.Code)
	}

	unit := &Unit{
		AreaID:    req.AreaID,
		Code:      req.Code,
		Name:      req.Name,
		SizeSqm:   req.SizeSqm,
		Occupancy: OccupancyVacant,
		Features:  buildFeatures(req.Features),
	}
	if err := s.repo.CreateUnit(unit); err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}
	return unit, nil
}

// GetUnit retrieves a unit with its features and spaces
func (s *Service) GetUnit(id uint) (*Unit, error) {
	unit, err := s.repo.FindUnitByID(id)
	if err != nil {
		return nil, apperror.NotFound("unit not found")
	}
	return unit, nil
}

// GetUnits lists units, optionally filtered by area and occupancy
func (s *Service) GetUnits(areaID uint, occupancy string) ([]Unit, error) {
	if occupancy != "" && occupancy != OccupancyVacant && occupancy != OccupancyOccupied {
		return nil, apperror.BadRequest("unknown occupancy filter: %q", occupancy)
	}
	return s.repo.FindUnits(areaID, occupancy)
}

// UpdateUnit applies a partial update to a unit
func (s *Service) UpdateUnit(id uint, req UpdateUnitRequest) (*Unit, error) {
	unit, err := s.repo.FindUnitByID(id)
	if err != nil {
		return nil, apperror.NotFound("unit not found")
	}

	if req.AreaID != nil && *req.AreaID != unit.AreaID {
		exists, err := s.repo.AreaExists(*req.AreaID)
		if err != nil {
			return nil, fmt.Errorf("failed to check area: %w", err)
		}
		if !exists {
			return nil, apperror.NotFound("area %d not found", *req.AreaID)
		}
		unit.AreaID = *req.AreaID
	}
	if req.Code != nil && *req.Code != unit.Code {
		if existing, _ := s.repo.FindUnitByCode(*req.Code); existing != nil {
			return nil, apperror.Conflict("a unit with code %q already exists", *req.Code)
		}
		unit.Code = *req.Code
	}
	if req.Name != nil {
		unit.Name = *req.Name
	}
	if req.SizeSqm != nil {
		unit.SizeSqm = *req.SizeSqm
	}
	if req.Features != nil {
		unit.Features = buildFeatures(*req.Features)
		for i := range unit.Features {
			unit.Features[i].UnitID = unit.ID
		}
	}

	if err := s.repo.UpdateUnit(unit); err != nil {
		return nil, fmt.Errorf("failed to update unit: %w", err)
	}
	return unit, nil
}

// DeleteUnit removes a unit. Occupied units cannot be deleted.
func (s *Service) DeleteUnit(id uint) error {
	unit, err := s.repo.FindUnitByID(id)
	if err != nil {
		return apperror.NotFound("unit not found")
	}
	if unit.Occupancy == OccupancyOccupied {
		return apperror.BadRequest("cannot delete an occupied unit")
	}
	if err := s.repo.DeleteUnit(id); err != nil {
		return fmt.Errorf("failed to delete unit: %w", err)
	}
	return nil
}

// CreateSpace creates a subdivision inside an existing unit
func (s *Service) CreateSpace(req CreateSpaceRequest) (*Space, error) {
	exists, err := s.repo.UnitExists(req.UnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to check unit: %w", err)
	}
	if !exists {
		return nil, apperror.NotFound("unit %d not found", req.UnitID)
	}

	space := &Space{UnitID: req.UnitID, Name: req.Name, SizeSqm: req.SizeSqm}
	if err := s.repo.CreateSpace(space); err != nil {
		return nil, fmt.Errorf("failed to create space: %w", err)
	}
	return space, nil
}

// GetSpace retrieves a space by ID
func (s *Service) GetSpace(id uint) (*Space, error) {
	space, err := s.repo.FindSpaceByID(id)
	if err != nil {
		return nil, apperror.NotFound("space not found")
	}
	return space, nil
}

// UpdateSpace applies a partial update to a space
func (s *Service) UpdateSpace(id uint, req UpdateSpaceRequest) (*Space, error) {
	space, err := s.repo.FindSpaceByID(id)
	if err != nil {
		return nil, apperror.NotFound("space not found")
	}
	if req.Name != nil {
		space.Name = *req.Name
	}
	if req.SizeSqm != nil {
		space.SizeSqm = *req.SizeSqm
	}
	if err := s.repo.UpdateSpace(space); err != nil {
		return nil, fmt.Errorf("failed to update space: %w", err)
	}
	return space, nil
}

// DeleteSpace removes a space
func (s *Service) DeleteSpace(id uint) error {
	if _, err := s.repo.FindSpaceByID(id); err != nil {
		return apperror.NotFound("space not found")
	}
	if err := s.repo.DeleteSpace(id); err != nil {
		return fmt.Errorf("failed to delete space: %w", err)
	}
	return nil
}

// UnitExists implements the lease module's unit gateway.
func (s *Service) UnitExists(id uint) (bool, error) {
	return s.repo.UnitExists(id)
}

// SetOccupancy implements the lease module's unit gateway.
func (s *Service) SetOccupancy(id uint, occupied bool) error {
	occupancy := OccupancyVacant
	if occupied {
		occupancy = OccupancyOccupied
	}
	if err := s.repo.SetUnitOccupancy(id, occupancy); err != nil {
		return apperror.NotFound("unit %d not found", id)
	}
	return nil
}

func buildFeatures(names []string) []UnitFeature {
	features := make([]UnitFeature, 0, len(names))
	for i, name := range names {
		features = append(features, UnitFeature{Position: i, Name: name})
	}
	return features
}
