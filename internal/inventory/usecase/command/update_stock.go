package command

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// UpdateStockCommand represents the command to patch a stock record.
// Only non-nil fields are applied.
type UpdateStockCommand struct {
	ID         uint
	ItemID     *uint
	LocationID *uint
	Quantity   *int
	Status     *string
	ActorID    uint
}

// UpdateStockHandler handles stock update command
type UpdateStockHandler struct {
	stocks    domain.StockRepository
	items     domain.ItemRepository
	locations domain.LocationRepository
}

// NewUpdateStockHandler creates a new update stock handler
func NewUpdateStockHandler(stocks domain.StockRepository, items domain.ItemRepository, locations domain.LocationRepository) *UpdateStockHandler {
	return &UpdateStockHandler{stocks: stocks, items: items, locations: locations}
}

// Handle executes the update stock command
func (h *UpdateStockHandler) Handle(cmd UpdateStockCommand) (*domain.Stock, error) {
	stock, err := h.stocks.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("stock not found")
	}

	if err := h.validateChangedReferences(stock, cmd); err != nil {
		return nil, err
	}

	previousQuantity := stock.Quantity

	if cmd.ItemID != nil {
		stock.ItemID = *cmd.ItemID
	}
	if cmd.LocationID != nil {
		stock.LocationID = *cmd.LocationID
	}
	if cmd.Quantity != nil {
		if *cmd.Quantity < 0 {
			return nil, apperror.BadRequest("quantity must not be negative")
		}
		stock.Quantity = *cmd.Quantity
	}
	if cmd.Status != nil {
		if !domain.ValidStatus(*cmd.Status) {
			return nil, apperror.BadRequest("unknown stock status: %q", *cmd.Status)
		}
		stock.Status = *cmd.Status
	}
	stock.UpdatedAt = time.Now()

	delta := stock.Quantity - previousQuantity
	log := &domain.StockLog{
		Action:          domain.ActionUpdated,
		QuantityChanged: delta,
		Note:            fmt.Sprintf("Stock %d updated, quantity %d -> %d", stock.ID, previousQuantity, stock.Quantity),
		ActorID:         cmd.ActorID,
	}

	if err := h.stocks.UpdateWithLog(stock, log); err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	if err := propagateItemStatus(h.items, stock.ItemID, stock.Status); err != nil {
		return nil, err
	}

	return stock, nil
}

func (h *UpdateStockHandler) validateChangedReferences(stock *domain.Stock, cmd UpdateStockCommand) error {
	var g errgroup.Group

	if cmd.ItemID != nil && *cmd.ItemID != stock.ItemID {
		itemID := *cmd.ItemID
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
	}

	if cmd.LocationID != nil && *cmd.LocationID != stock.LocationID {
		locationID := *cmd.LocationID
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
	}

	return g.Wait()
}
