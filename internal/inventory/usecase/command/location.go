package command

import (
	"fmt"
	"time"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// CreateLocationCommand represents the command to create a location
type CreateLocationCommand struct {
	Name string
	Site string
}

// CreateLocationHandler handles location creation command
type CreateLocationHandler struct {
	locations domain.LocationRepository
}

// NewCreateLocationHandler creates a new create location handler
func NewCreateLocationHandler(locations domain.LocationRepository) *CreateLocationHandler {
	return &CreateLocationHandler{locations: locations}
}

// Handle executes the create location command
func (h *CreateLocationHandler) Handle(cmd CreateLocationCommand) (*domain.Location, error) {
	if cmd.Name == "" {
		return nil, apperror.BadRequest("name is required")
	}

	location := &domain.Location{
		Name:      cmd.Name,
		Site:      cmd.Site,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := h.locations.Create(location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return location, nil
}

// UpdateLocationCommand represents the command to patch a location.
// Only non-nil fields are applied.
type UpdateLocationCommand struct {
	ID   uint
	Name *string
	Site *string
}

// UpdateLocationHandler handles location update command
type UpdateLocationHandler struct {
	locations domain.LocationRepository
}

// NewUpdateLocationHandler creates a new update location handler
func NewUpdateLocationHandler(locations domain.LocationRepository) *UpdateLocationHandler {
	return &UpdateLocationHandler{locations: locations}
}

// Handle executes the update location command
func (h *UpdateLocationHandler) Handle(cmd UpdateLocationCommand) (*domain.Location, error) {
	location, err := h.locations.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("location not found")
	}
	if cmd.Name != nil {
		location.Name = *cmd.Name
	}
	if cmd.Site != nil {
		location.Site = *cmd.Site
	}
	location.UpdatedAt = time.Now()

	if err := h.locations.Update(location); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return location, nil
}

// DeleteLocationCommand represents the command to delete a location
type DeleteLocationCommand struct {
	ID uint
}

// DeleteLocationHandler handles location deletion command
type DeleteLocationHandler struct {
	locations domain.LocationRepository
	stocks    domain.StockRepository
}

// NewDeleteLocationHandler creates a new delete location handler
func NewDeleteLocationHandler(locations domain.LocationRepository, stocks domain.StockRepository) *DeleteLocationHandler {
	return &DeleteLocationHandler{locations: locations, stocks: stocks}
}

// Handle executes the delete location command. Locations still holding
// stock cannot be removed.
func (h *DeleteLocationHandler) Handle(cmd DeleteLocationCommand) error {
	if _, err := h.locations.FindByID(cmd.ID); err != nil {
		return apperror.NotFound("location not found")
	}

	stocks, _, err := h.stocks.FindAll(domain.StockFilter{LocationID: cmd.ID, Limit: 1})
	if err != nil {
		return fmt.Errorf("failed to check stock: %w", err)
	}
	if len(stocks) > 0 {
		return apperror.BadRequest("cannot delete a location that still has stock records")
	}

	if err := h.locations.Delete(cmd.ID); err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}
