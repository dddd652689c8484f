package command

import (
	"fmt"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// DeleteStockCommand represents the command to delete a stock record
type DeleteStockCommand struct {
	ID uint
}

// DeleteStockHandler handles stock deletion command
type DeleteStockHandler struct {
	stocks domain.StockRepository
}

// NewDeleteStockHandler creates a new delete stock handler
func NewDeleteStockHandler(stocks domain.StockRepository) *DeleteStockHandler {
	return &DeleteStockHandler{stocks: stocks}
}

// Handle executes the delete stock command. The removal writes no
// compensating log entry; the ledger keeps only the entries written
// while the record lived.
func (h *DeleteStockHandler) Handle(cmd DeleteStockCommand) error {
	if _, err := h.stocks.FindByID(cmd.ID); err != nil {
		return apperror.NotFound("stock not found")
	}
	if err := h.stocks.Delete(cmd.ID); err != nil {
		return fmt.Errorf("failed to delete stock: %w", err)
	}
	return nil
}
