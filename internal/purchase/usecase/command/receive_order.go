package command

import (
	"fmt"
	"time"

	"github.com/thukha/backoffice/internal/purchase/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// ReceiveOrderCommand marks a purchase order received. Partial marks
// the order Partially Received and leaves ReceivedAt unset.
type ReceiveOrderCommand struct {
	ID      uint
	Partial bool
}

// ReceiveOrderHandler handles order receipt command
type ReceiveOrderHandler struct {
	orders domain.OrderRepository
}

// NewReceiveOrderHandler creates a new receive order handler
func NewReceiveOrderHandler(orders domain.OrderRepository) *ReceiveOrderHandler {
	return &ReceiveOrderHandler{orders: orders}
}

// Handle executes the receive order command
func (h *ReceiveOrderHandler) Handle(cmd ReceiveOrderCommand) (*domain.PurchaseOrder, error) {
	order, err := h.orders.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("purchase order not found")
	}

	switch order.Status {
	case domain.StatusPending, domain.StatusPartiallyReceived:
	default:
		return nil, apperror.BadRequest("cannot receive a %s order", order.Status)
	}

	now := time.Now()
	if cmd.Partial {
		order.Status = domain.StatusPartiallyReceived
	} else {
		order.Status = domain.StatusReceived
		order.ReceivedAt = &now
	}
	order.UpdatedAt = now

	if err := h.orders.Update(order); err != nil {
		return nil, fmt.Errorf("failed to receive purchase order: %w", err)
	}

	return order, nil
}

// CancelOrderCommand represents the command to cancel a purchase order
type CancelOrderCommand struct {
	ID uint
}

// CancelOrderHandler handles order cancellation command
type CancelOrderHandler struct {
	orders domain.OrderRepository
}

// NewCancelOrderHandler creates a new cancel order handler
func NewCancelOrderHandler(orders domain.OrderRepository) *CancelOrderHandler {
	return &CancelOrderHandler{orders: orders}
}

// Handle executes the cancel order command. Received orders cannot be
// cancelled.
func (h *CancelOrderHandler) Handle(cmd CancelOrderCommand) (*domain.PurchaseOrder, error) {
	order, err := h.orders.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("purchase order not found")
	}
	if order.Status == domain.StatusReceived {
		return nil, apperror.BadRequest("cannot cancel a received order")
	}
	if order.Status == domain.StatusCancelled {
		return nil, apperror.BadRequest("order is already cancelled")
	}

	order.Status = domain.StatusCancelled
	order.UpdatedAt = time.Now()

	if err := h.orders.Update(order); err != nil {
		return nil, fmt.Errorf("failed to cancel purchase order: %w", err)
	}

	return order, nil
}

// DeleteOrderCommand represents the command to delete a purchase order
type DeleteOrderCommand struct {
	ID uint
}

// DeleteOrderHandler handles order deletion command
type DeleteOrderHandler struct {
	orders domain.OrderRepository
}

// NewDeleteOrderHandler creates a new delete order handler
func NewDeleteOrderHandler(orders domain.OrderRepository) *DeleteOrderHandler {
	return &DeleteOrderHandler{orders: orders}
}

// Handle executes the delete order command
func (h *DeleteOrderHandler) Handle(cmd DeleteOrderCommand) error {
	if _, err := h.orders.FindByID(cmd.ID); err != nil {
		return apperror.NotFound("purchase order not found")
	}
	if err := h.orders.Delete(cmd.ID); err != nil {
		return fmt.Errorf("failed to delete purchase order: %w", err)
	}
	return nil
}
