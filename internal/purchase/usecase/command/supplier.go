package command

import (
	"fmt"
	"time"

	"github.com/thukha/backoffice/internal/purchase/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// CreateSupplierCommand represents the command to create a supplier
type CreateSupplierCommand struct {
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

// CreateSupplierHandler handles supplier creation command
type CreateSupplierHandler struct {
	suppliers domain.SupplierRepository
}

// NewCreateSupplierHandler creates a new create supplier handler
func NewCreateSupplierHandler(suppliers domain.SupplierRepository) *CreateSupplierHandler {
	return &CreateSupplierHandler{suppliers: suppliers}
}

// Handle executes the create supplier command
func (h *CreateSupplierHandler) Handle(cmd CreateSupplierCommand) (*domain.Supplier, error) {
	if cmd.Name == "" {
		return nil, apperror.BadRequest("name is required")
	}

	supplier := &domain.Supplier{
		Name:          cmd.Name,
		ContactPerson: cmd.ContactPerson,
		Email:         cmd.Email,
		Phone:         cmd.Phone,
		Address:       cmd.Address,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := h.suppliers.Create(supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return supplier, nil
}

// UpdateSupplierCommand represents the command to patch a supplier.
// Only non-nil fields are applied.
type UpdateSupplierCommand struct {
	ID            uint
	Name          *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
}

// UpdateSupplierHandler handles supplier update command
type UpdateSupplierHandler struct {
	suppliers domain.SupplierRepository
}

// NewUpdateSupplierHandler creates a new update supplier handler
func NewUpdateSupplierHandler(suppliers domain.SupplierRepository) *UpdateSupplierHandler {
	return &UpdateSupplierHandler{suppliers: suppliers}
}

// Handle executes the update supplier command
func (h *UpdateSupplierHandler) Handle(cmd UpdateSupplierCommand) (*domain.Supplier, error) {
	supplier, err := h.suppliers.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("supplier not found")
	}
	if cmd.Name != nil {
		supplier.Name = *cmd.Name
	}
	if cmd.ContactPerson != nil {
		supplier.ContactPerson = *cmd.ContactPerson
	}
	if cmd.Email != nil {
		supplier.Email = *cmd.Email
	}
	if cmd.Phone != nil {
		supplier.Phone = *cmd.Phone
	}
	if cmd.Address != nil {
		supplier.Address = *cmd.Address
	}
	supplier.UpdatedAt = time.Now()

	if err := h.suppliers.Update(supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}

// DeleteSupplierCommand represents the command to delete a supplier
type DeleteSupplierCommand struct {
	ID uint
}

// DeleteSupplierHandler handles supplier deletion command
type DeleteSupplierHandler struct {
	suppliers domain.SupplierRepository
	orders    domain.OrderRepository
}

// NewDeleteSupplierHandler creates a new delete supplier handler
func NewDeleteSupplierHandler(suppliers domain.SupplierRepository, orders domain.OrderRepository) *DeleteSupplierHandler {
	return &DeleteSupplierHandler{suppliers: suppliers, orders: orders}
}

// Handle executes the delete supplier command. Suppliers with open
// orders cannot be removed.
func (h *DeleteSupplierHandler) Handle(cmd DeleteSupplierCommand) error {
	if _, err := h.suppliers.FindByID(cmd.ID); err != nil {
		return apperror.NotFound("supplier not found")
	}

	open, _, err := h.orders.FindAll(domain.OrderFilter{SupplierID: cmd.ID, Status: domain.StatusPending, Limit: 1})
	if err != nil {
		return fmt.Errorf("failed to check orders: %w", err)
	}
	if len(open) > 0 {
		return apperror.BadRequest("cannot delete a supplier with pending orders")
	}

	if err := h.suppliers.Delete(cmd.ID); err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	return nil
}
