package command

import (
	"fmt"
	"time"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// UpdateRequestCommand represents the command to patch a request.
// Only non-nil fields are applied.
type UpdateRequestCommand struct {
	ID            uint
	ItemID        *uint
	Quantity      *int
	LocationID    *uint
	ItemLocations *[]RequestLine
	ApproverIDs   *[]uint
	Notes         *string
}

// UpdateRequestHandler handles request update command
type UpdateRequestHandler struct {
	requests  domain.RequestRepository
	items     domain.ItemRepository
	locations domain.LocationRepository
	users     domain.UserGateway
}

// NewUpdateRequestHandler creates a new update request handler
func NewUpdateRequestHandler(requests domain.RequestRepository, items domain.ItemRepository, locations domain.LocationRepository, users domain.UserGateway) *UpdateRequestHandler {
	return &UpdateRequestHandler{requests: requests, items: items, locations: locations, users: users}
}

// Handle executes the update request command. The patched request must
// satisfy the same shape rules as creation.
func (h *UpdateRequestHandler) Handle(cmd UpdateRequestCommand) (*domain.Request, error) {
	request, err := h.requests.FindByID(cmd.ID)
	if err != nil {
		return nil, apperror.NotFound("request not found")
	}
	if request.Status != domain.RequestPending {
		return nil, apperror.BadRequest("only pending requests can be updated")
	}

	if cmd.ItemID != nil && *cmd.ItemID != request.ItemID {
		ok, err := h.items.Exists(*cmd.ItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to check item: %w", err)
		}
		if !ok {
			return nil, apperror.NotFound("item %d not found", *cmd.ItemID)
		}
		request.ItemID = *cmd.ItemID
	}

	quantity := request.Quantity
	locationID := request.LocationID
	lines := linesOf(request)
	if cmd.Quantity != nil {
		quantity = *cmd.Quantity
	}
	if cmd.LocationID != nil {
		locationID = *cmd.LocationID
	}
	if cmd.ItemLocations != nil {
		lines = *cmd.ItemLocations
	}
	// Switching shapes clears the other shape's fields.
	if cmd.ItemLocations != nil && len(lines) > 0 && cmd.Quantity == nil && cmd.LocationID == nil {
		quantity = 0
		locationID = 0
	}

	if err := validateRequestShape(quantity, locationID, lines); err != nil {
		return nil, err
	}

	if cmd.LocationID != nil && *cmd.LocationID != 0 {
		if err := h.checkLocation(*cmd.LocationID); err != nil {
			return nil, err
		}
	}
	if cmd.ItemLocations != nil {
		for _, line := range *cmd.ItemLocations {
			if err := h.checkLocation(line.LocationID); err != nil {
				return nil, err
			}
		}
	}

	request.Quantity = quantity
	request.LocationID = locationID
	if cmd.ItemLocations != nil {
		request.ItemLocations = nil
		for i, line := range lines {
			request.ItemLocations = append(request.ItemLocations, domain.RequestItemLocation{
				RequestID:  request.ID,
				Position:   i,
				LocationID: line.LocationID,
				Quantity:   line.Quantity,
			})
		}
	}

	if cmd.ApproverIDs != nil {
		for _, approverID := range *cmd.ApproverIDs {
			ok, err := h.users.UserExists(approverID)
			if err != nil {
				return nil, fmt.Errorf("failed to check approver: %w", err)
			}
			if !ok {
				return nil, apperror.NotFound("approver %d not found", approverID)
			}
		}
		request.Approvals = nil
		for _, approverID := range *cmd.ApproverIDs {
			request.Approvals = append(request.Approvals, domain.Approval{
				RequestID:  request.ID,
				ApproverID: approverID,
				Decision:   domain.DecisionPending,
			})
		}
	}

	if cmd.Notes != nil {
		request.Notes = *cmd.Notes
	}
	request.UpdatedAt = time.Now()

	if err := h.requests.Update(request); err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	return request, nil
}

func (h *UpdateRequestHandler) checkLocation(id uint) error {
	ok, err := h.locations.Exists(id)
	if err != nil {
		return fmt.Errorf("failed to check location: %w", err)
	}
	if !ok {
		return apperror.NotFound("location %d not found", id)
	}
	return nil
}

func linesOf(request *domain.Request) []RequestLine {
	lines := make([]RequestLine, 0, len(request.ItemLocations))
	for _, il := range request.ItemLocations {
		lines = append(lines, RequestLine{LocationID: il.LocationID, Quantity: il.Quantity})
	}
	return lines
}
