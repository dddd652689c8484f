package command

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// CreateItemCommand represents the command to create an inventory item
type CreateItemCommand struct {
	Name            string
	CategoryID      uint
	AssignedUserID  uint
	PurchaseOrderID uint
	QuantityUnit    string
	Status          string
}

// CreateItemHandler handles item creation command
type CreateItemHandler struct {
	items      domain.ItemRepository
	users      domain.UserGateway
	categories domain.CategoryGateway
	orders     domain.PurchaseOrderGateway
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(items domain.ItemRepository, users domain.UserGateway, categories domain.CategoryGateway, orders domain.PurchaseOrderGateway) *CreateItemHandler {
	return &CreateItemHandler{items: items, users: users, categories: categories, orders: orders}
}

// Handle executes the create item command. Optional references are
// resolved concurrently.
func (h *CreateItemHandler) Handle(cmd CreateItemCommand) (*domain.Item, error) {
	if cmd.Name == "" {
		return nil, apperror.BadRequest("name is required")
	}
	status := cmd.Status
	if status == "" {
		status = domain.StatusAvailable
	}
	if !domain.ValidStatus(status) {
		return nil, apperror.BadRequest("unknown item status: %q", status)
	}

	if err := h.validateReferences(cmd); err != nil {
		return nil, err
	}

	item := &domain.Item{
		Name:            cmd.Name,
		CategoryID:      cmd.CategoryID,
		AssignedUserID:  cmd.AssignedUserID,
		PurchaseOrderID: cmd.PurchaseOrderID,
		QuantityUnit:    cmd.QuantityUnit,
		Status:          status,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := h.items.Create(item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return item, nil
}

func (h *CreateItemHandler) validateReferences(cmd CreateItemCommand) error {
	var g errgroup.Group

	if cmd.CategoryID != 0 {
		g.Go(func() error {
			ok, err := h.categories.CategoryExists(cmd.CategoryID)
			if err != nil {
				return fmt.Errorf("failed to check category: %w", err)
			}
			if !ok {
				return apperror.NotFound("category %d not found", cmd.CategoryID)
			}
			return nil
		})
	}
	if cmd.AssignedUserID != 0 {
		g.Go(func() error {
			ok, err := h.users.UserExists(cmd.AssignedUserID)
			if err != nil {
				return fmt.Errorf("failed to check user: %w", err)
			}
			if !ok {
				return apperror.NotFound("user %d not found", cmd.AssignedUserID)
			}
			return nil
		})
	}
	if cmd.PurchaseOrderID != 0 {
		g.Go(func() error {
			ok, err := h.orders.OrderExists(cmd.PurchaseOrderID)
			if err != nil {
				return fmt.Errorf("failed to check purchase order: %w", err)
			}
			if !ok {
				return apperror.NotFound("purchase order %d not found", cmd.PurchaseOrderID)
			}
			return nil
		})
	}

	return g.Wait()
}

// UpdateItemCommand represents the command to patch an item.
// Only non-nil fields are applied.
type UpdateItemCommand struct {
	ID             uint
	Name           *string
	CategoryID     *uint
	AssignedUserID *uint
	QuantityUnit   *string
	Status         *string
}

// UpdateItemHandler handles item update command
type UpdateItemHandler struct {
	items      domain.ItemRepository
	users      domain.UserGateway
	categories domain.CategoryGateway
}

// NewUpdateItemHandler creates a new update item handler
func NewUpdateItemHandler(items domain.ItemRepository, users domain.UserGateway, categories domain.CategoryGateway) *UpdateItemHandler {
	return &UpdateItemHandler{items: items, users: users, categories: categories}
}

// Handle executes the update item command
func (h *UpdateItemHandler) Handle(cmd UpdateItemCommand) (*domain.Item, error) {
	item, err := h.items.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("item not found")
	}

	if cmd.CategoryID != nil && *cmd.CategoryID != item.CategoryID {
		ok, err := h.categories.CategoryExists(*cmd.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		if !ok {
			return nil, apperror.NotFound("category %d not found", *cmd.CategoryID)
		}
		item.CategoryID = *cmd.CategoryID
	}
	if cmd.AssignedUserID != nil && *cmd.AssignedUserID != item.AssignedUserID {
		if *cmd.AssignedUserID != 0 {
			ok, err := h.users.UserExists(*cmd.AssignedUserID)
			if err != nil {
				return nil, fmt.Errorf("failed to check user: %w", err)
			}
			if !ok {
				return nil, apperror.NotFound("user %d not found", *cmd.AssignedUserID)
			}
		}
		item.AssignedUserID = *cmd.AssignedUserID
	}
	if cmd.Name != nil {
		item.Name = *cmd.Name
	}
	if cmd.QuantityUnit != nil {
		item.QuantityUnit = *cmd.QuantityUnit
	}
	if cmd.Status != nil {
		if !domain.ValidStatus(*cmd.Status) {
			return nil, apperror.BadRequest("unknown item status: %q", *cmd.Status)
		}
		item.Status = *cmd.Status
	}
	item.UpdatedAt = time.Now()

	if err := h.items.Update(item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return item, nil
}

// DeleteItemCommand represents the command to delete an item
type DeleteItemCommand struct {
	ID uint
}

// DeleteItemHandler handles item deletion command
type DeleteItemHandler struct {
	items  domain.ItemRepository
	stocks domain.StockRepository
}

// NewDeleteItemHandler creates a new delete item handler
func NewDeleteItemHandler(items domain.ItemRepository, stocks domain.StockRepository) *DeleteItemHandler {
	return &DeleteItemHandler{items: items, stocks: stocks}
}

// Handle executes the delete item command. Items with remaining stock
// cannot be removed.
func (h *DeleteItemHandler) Handle(cmd DeleteItemCommand) error {
	if _, err := h.items.FindByID(cmd.ID); err != nil {
		return apperror.NotFound("item not found")
	}

	stocks, _, err := h.stocks.FindAll(domain.StockFilter{ItemID: cmd.ID, Limit: 1})
	if err != nil {
		return fmt.Errorf("failed to check stock: %w", err)
	}
	if len(stocks) > 0 {
		return apperror.BadRequest("cannot delete an item that still has stock records")
	}

	if err := h.items.Delete(cmd.ID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}
