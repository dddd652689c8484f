package command

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/thukha/backoffice/internal/purchase/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// OrderLineInput is one requested purchase order line. The unit price
// is a decimal string, e.g. "12.50".
type OrderLineInput struct {
	ItemID     uint   `json:"item_id"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	LocationID uint   `json:"location_id"`
}

// CreateOrderCommand represents the command to place a purchase order
type CreateOrderCommand struct {
	SupplierID uint
	OrdererID  uint
	Lines      []OrderLineInput
	Notes      string
}

// CreateOrderHandler handles purchase order creation command
type CreateOrderHandler struct {
	orders    domain.OrderRepository
	suppliers domain.SupplierRepository
	items     domain.ItemGateway
	users     domain.UserGateway
}

// NewCreateOrderHandler creates a new create order handler
func NewCreateOrderHandler(orders domain.OrderRepository, suppliers domain.SupplierRepository, items domain.ItemGateway, users domain.UserGateway) *CreateOrderHandler {
	return &CreateOrderHandler{orders: orders, suppliers: suppliers, items: items, users: users}
}

// Handle executes the create order command. Line totals are computed
// here; client-supplied totals are ignored.
func (h *CreateOrderHandler) Handle(cmd CreateOrderCommand) (*domain.PurchaseOrder, error) {
	if cmd.SupplierID == 0 {
		return nil, apperror.BadRequest("supplier_id is required")
	}
	if cmd.OrdererID == 0 {
		return nil, apperror.BadRequest("orderer_id is required")
	}
	if len(cmd.Lines) == 0 {
		return nil, apperror.BadRequest("at least one line item is required")
	}
	lines, err := buildLines(0, cmd.Lines)
	if err != nil {
		return nil, err
	}

	if err := h.validateReferences(cmd); err != nil {
		return nil, err
	}

	order := &domain.PurchaseOrder{
		SupplierID: cmd.SupplierID,
		OrdererID:  cmd.OrdererID,
		Status:     domain.StatusPending,
		OrderedAt:  time.Now(),
		Notes:      cmd.Notes,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	order.Lines = lines

	if err := h.orders.CreateWithCode(order); err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}

	return order, nil
}

// validateReferences resolves supplier, orderer and every line's item
// reference concurrently.
func (h *CreateOrderHandler) validateReferences(cmd CreateOrderCommand) error {
	var g errgroup.Group

	g.Go(func() error {
		ok, err := h.suppliers.Exists(cmd.SupplierID)
		if err != nil {
			return fmt.Errorf("failed to check supplier: %w", err)
		}
		if !ok {
			return apperror.NotFound("supplier %d not found", cmd.SupplierID)
		}
		return nil
	})

	g.Go(func() error {
		ok, err := h.users.UserExists(cmd.OrdererID)
		if err != nil {
			return fmt.Errorf("failed to check orderer: %w", err)
		}
		if !ok {
			return apperror.NotFound("orderer %d not found", cmd.OrdererID)
		}
		return nil
	})

	for _, line := range cmd.Lines {
		itemID := line.ItemID
		g.Go(func() error {
			ok, err := h.items.ItemExists(itemID)
			if err != nil {
				return fmt.Errorf("failed to check item: %w", err)
			}
			if !ok {
				return apperror.NotFound("item %d not found", itemID)
			}
			return nil
		})
	}

	return g.Wait()
}

// buildLines validates the line inputs and materializes order lines
// with recomputed totals.
func buildLines(orderID uint, inputs []OrderLineInput) ([]domain.OrderLine, error) {
	lines := make([]domain.OrderLine, 0, len(inputs))
	for i, input := range inputs {
		if input.Quantity < 1 {
			return nil, apperror.BadRequest("quantity must be at least 1 for item %d", input.ItemID)
		}
		price, err := decimal.NewFromString(input.UnitPrice)
		if err != nil {
			return nil, apperror.BadRequest("invalid unit price %q for item %d", input.UnitPrice, input.ItemID)
		}
		if price.IsNegative() {
			return nil, apperror.BadRequest("unit price must not be negative for item %d", input.ItemID)
		}
		lines = append(lines, domain.OrderLine{
			PurchaseOrderID: orderID,
			Position:        i,
			ItemID:          input.ItemID,
			Quantity:        input.Quantity,
			UnitPrice:       price,
			TotalPrice:      price.Mul(decimal.NewFromInt(int64(input.Quantity))),
			LocationID:      input.LocationID,
		})
	}
	return lines, nil
}
