package command

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// CreateStockCommand represents the command to record stock for an item
// at a location.
type CreateStockCommand struct {
	ItemID     uint
	LocationID uint
	Quantity   int
	Status     string
	ActorID    uint
}

// CreateStockHandler handles stock creation command
type CreateStockHandler struct {
	stocks    domain.StockRepository
	items     domain.ItemRepository
	locations domain.LocationRepository
	users     domain.UserGateway
}

// NewCreateStockHandler creates a new create stock handler
func NewCreateStockHandler(stocks domain.StockRepository, items domain.ItemRepository, locations domain.LocationRepository, users domain.UserGateway) *CreateStockHandler {
	return &CreateStockHandler{stocks: stocks, items: items, locations: locations, users: users}
}

// Handle executes the create stock command
func (h *CreateStockHandler) Handle(cmd CreateStockCommand) (*domain.Stock, error) {
	if cmd.ItemID == 0 {
		return nil, apperror.BadRequest("item_id is required")
	}
	if cmd.LocationID == 0 {
		return nil, apperror.BadRequest("location_id is required")
	}
	if cmd.Quantity < 0 {
		return nil, apperror.BadRequest("quantity must not be negative")
	}
	status := cmd.Status
	if status == "" {
		status = domain.StatusAvailable
	}
	if !domain.ValidStatus(status) {
		return nil, apperror.BadRequest("unknown stock status: %q", status)
	}

	if err := h.validateReferences(cmd.ItemID, cmd.LocationID, cmd.ActorID); err != nil {
		return nil, err
	}

	stock := &domain.Stock{
		ItemID:     cmd.ItemID,
		LocationID: cmd.LocationID,
		Quantity:   cmd.Quantity,
		Status:     status,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	action := domain.ActionRecorded
	if cmd.Quantity == 0 {
		action = domain.ActionAdjusted
	}
	log := &domain.StockLog{
		Action:          action,
		QuantityChanged: cmd.Quantity,
		Note:            fmt.Sprintf("Stock of item %d at location %d recorded with status %s", cmd.ItemID, cmd.LocationID, status),
		ActorID:         cmd.ActorID,
	}

	if err := h.stocks.CreateWithLog(stock, log); err != nil {
		return nil, fmt.Errorf("failed to create stock: %w", err)
	}

	if err := propagateItemStatus(h.items, cmd.ItemID, status); err != nil {
		return nil, err
	}

	return stock, nil
}

// validateReferences resolves the item, location and actor references
// concurrently; the first missing reference aborts the request.
func (h *CreateStockHandler) validateReferences(itemID, locationID, actorID uint) error {
	var g errgroup.Group

	g.Go(func() error {
		ok, err := h.items.Exists(itemID)
		if err != nil {
			return fmt.Errorf("failed to check item: %w", err)
		}
		if !ok {
			return apperror.NotFound("item %d not found", itemID)
		}
		return nil
	})

	g.Go(func() error {
		ok, err := h.locations.Exists(locationID)
		if err != nil {
			return fmt.Errorf("failed to check location: %w", err)
		}
		if !ok {
			return apperror.NotFound("location %d not found", locationID)
		}
		return nil
	})

	if actorID != 0 {
		g.Go(func() error {
			ok, err := h.users.UserExists(actorID)
			if err != nil {
				return fmt.Errorf("failed to check user: %w", err)
			}
			if !ok {
				return apperror.NotFound("user %d not found", actorID)
			}
			return nil
		})
	}

	return g.Wait()
}

// propagateItemStatus mirrors the stock status onto the item when they
// differ. Last writer wins across locations.
func propagateItemStatus(items domain.ItemRepository, itemID uint, status string) error {
	item, err := items.FindByID(itemID)
	if err != nil {
		return apperror.NotFound("item %d not found", itemID)
	}
	if item.Status == status {
		return nil
	}
	if err := items.UpdateStatus(itemID, status); err != nil {
		return fmt.Errorf("failed to propagate item status: %w", err)
	}
	return nil
}
