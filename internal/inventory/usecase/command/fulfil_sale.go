package command

import (
	"context"
	"fmt"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/kafka"
	"github.com/thukha/backoffice/pkg/logger"
)

// FulfilSaleHandler deducts stock for completed sales consumed from
// the sale.completed topic. All per-location deductions of one sale
// are applied in a single transaction or not at all.
type FulfilSaleHandler struct {
	stocks domain.StockRepository
}

// NewFulfilSaleHandler creates a new fulfil sale handler
func NewFulfilSaleHandler(stocks domain.StockRepository) *FulfilSaleHandler {
	return &FulfilSaleHandler{stocks: stocks}
}

// Handle deducts stock for every line of the sale.
func (h *FulfilSaleHandler) Handle(ctx context.Context, event kafka.SaleCompletedEvent) error {
	deductions := make([]domain.Deduction, 0, len(event.Lines))
	for _, line := range event.Lines {
		deductions = append(deductions, domain.Deduction{
			ItemID:     line.ItemID,
			LocationID: line.LocationID,
			Quantity:   line.Quantity,
			Note:       fmt.Sprintf("Sale %s completed", event.Reference),
			ActorID:    event.CashierID,
		})
	}

	if err := h.stocks.DeductAll(deductions); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("sale_reference", event.Reference).
			Msg("Failed to deduct stock for completed sale")
		return err
	}

	logger.Info(ctx).
		Str("sale_reference", event.Reference).
		Int("lines", len(deductions)).
		Msg("Stock deducted for completed sale")
	return nil
}
