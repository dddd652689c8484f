package command

import (
	"fmt"
	"time"

	"github.com/thukha/backoffice/internal/purchase/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// UpdateOrderCommand represents the command to patch a purchase order.
// Only non-nil fields are applied.
type UpdateOrderCommand struct {
	ID         uint
	SupplierID *uint
	Lines      *[]OrderLineInput
	Notes      *string
}

// UpdateOrderHandler handles purchase order update command
type UpdateOrderHandler struct {
	orders    domain.OrderRepository
	suppliers domain.SupplierRepository
	items     domain.ItemGateway
}

// NewUpdateOrderHandler creates a new update order handler
func NewUpdateOrderHandler(orders domain.OrderRepository, suppliers domain.SupplierRepository, items domain.ItemGateway) *UpdateOrderHandler {
	return &UpdateOrderHandler{orders: orders, suppliers: suppliers, items: items}
}

// Handle executes the update order command. Patched lines get their
// totals recomputed.
func (h *UpdateOrderHandler) Handle(cmd UpdateOrderCommand) (*domain.PurchaseOrder, error) {
	order, err := h.orders.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("purchase order not found")
	}
	if order.Status == domain.StatusReceived || order.Status == domain.StatusCancelled {
		return nil, apperror.BadRequest("cannot update a %s order", order.Status)
	}

	if cmd.SupplierID != nil && *cmd.SupplierID != order.SupplierID {
		ok, err := h.suppliers.Exists(*cmd.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("failed to check supplier: %w", err)
		}
		if !ok {
			return nil, apperror.NotFound("supplier %d not found", *cmd.SupplierID)
		}
		order.SupplierID = *cmd.SupplierID
	}

	if cmd.Lines != nil {
		if len(*cmd.Lines) == 0 {
			return nil, apperror.BadRequest("at least one line item is required")
		}
		lines, err := buildLines(order.ID, *cmd.Lines)
		if err != nil {
			return nil, err
		}
		for _, line := range *cmd.Lines {
			ok, err := h.items.ItemExists(line.ItemID)
			if err != nil {
				return nil, fmt.Errorf("failed to check item: %w", err)
			}
			if !ok {
				return nil, apperror.NotFound("item %d not found", line.ItemID)
			}
		}
		order.Lines = lines
	}

	if cmd.Notes != nil {
		order.Notes = *cmd.Notes
	}
	order.UpdatedAt = time.Now()

	if err := h.orders.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update purchase order: %w", err)
	}

	return order, nil
}
