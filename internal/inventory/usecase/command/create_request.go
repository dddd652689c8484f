package command

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// RequestLine is one per-location line supplied on a request.
type RequestLine struct {
	LocationID uint `json:"location_id"`
	Quantity   int  `json:"quantity"`
}

// CreateRequestCommand represents the command to open an inventory
// request. Exactly one of {Quantity+LocationID} or ItemLocations may be
// supplied.
type CreateRequestCommand struct {
	Type          string
	ItemID        uint
	RequesterID   uint
	Quantity      int
	LocationID    uint
	ItemLocations []RequestLine
	ApproverIDs   []uint
	Notes         string
}

// CreateRequestHandler handles request creation command
type CreateRequestHandler struct {
	requests  domain.RequestRepository
	items     domain.ItemRepository
	locations domain.LocationRepository
	users     domain.UserGateway
}

// NewCreateRequestHandler creates a new create request handler
func NewCreateRequestHandler(requests domain.RequestRepository, items domain.ItemRepository, locations domain.LocationRepository, users domain.UserGateway) *CreateRequestHandler {
	return &CreateRequestHandler{requests: requests, items: items, locations: locations, users: users}
}

// Handle executes the create request command
func (h *CreateRequestHandler) Handle(cmd CreateRequestCommand) (*domain.Request, error) {
	if cmd.Type != domain.RequestPurchase && cmd.Type != domain.RequestStockWithdrawal {
		return nil, apperror.BadRequest("unknown request type: %q", cmd.Type)
	}
	if cmd.ItemID == 0 {
		return nil, apperror.BadRequest("item_id is required")
	}
	if cmd.RequesterID == 0 {
		return nil, apperror.BadRequest("requester_id is required")
	}

	if err := validateRequestShape(cmd.Quantity, cmd.LocationID, cmd.ItemLocations); err != nil {
		return nil, err
	}

	if err := h.validateReferences(cmd); err != nil {
		return nil, err
	}

	request := &domain.Request{
		Type:        cmd.Type,
		ItemID:      cmd.ItemID,
		RequesterID: cmd.RequesterID,
		Status:      domain.RequestPending,
		Quantity:    cmd.Quantity,
		LocationID:  cmd.LocationID,
		Notes:       cmd.Notes,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	for i, line := range cmd.ItemLocations {
		request.ItemLocations = append(request.ItemLocations, domain.RequestItemLocation{
			Position:   i,
			LocationID: line.LocationID,
			Quantity:   line.Quantity,
		})
	}
	for _, approverID := range cmd.ApproverIDs {
		request.Approvals = append(request.Approvals, domain.Approval{
			ApproverID: approverID,
			Decision:   domain.DecisionPending,
		})
	}

	if err := h.requests.Create(request); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return request, nil
}

// validateRequestShape enforces shape exclusivity plus the per-line
// quantity and duplicate-location rules.
func validateRequestShape(quantity int, locationID uint, lines []RequestLine) error {
	single := quantity != 0 || locationID != 0
	multi := len(lines) > 0

	if single && multi {
		return apperror.BadRequest("supply either a single location and quantity or item_locations, not both")
	}
	if !single && !multi {
		return apperror.BadRequest("supply a single location and quantity or item_locations")
	}

	if single {
		if quantity < 1 {
			return apperror.BadRequest("quantity must be at least 1")
		}
		if locationID == 0 {
			return apperror.BadRequest("location_id is required")
		}
		return nil
	}

	seen := make(map[uint]bool, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return apperror.BadRequest("quantity must be at least 1 for location %d", line.LocationID)
		}
		if seen[line.LocationID] {
			return apperror.BadRequest("duplicate location %d in item_locations", line.LocationID)
		}
		seen[line.LocationID] = true
	}
	return nil
}

// validateReferences resolves the item, requester, per-line location
// and approver references concurrently.
func (h *CreateRequestHandler) validateReferences(cmd CreateRequestCommand) error {
	var g errgroup.Group

	g.Go(func() error {
		ok, err := h.items.Exists(cmd.ItemID)
		if err != nil {
			return fmt.Errorf("failed to check item: %w", err)
		}
		if !ok {
			return apperror.NotFound("item %d not found", cmd.ItemID)
		}
		return nil
	})

	g.Go(func() error {
		ok, err := h.users.UserExists(cmd.RequesterID)
		if err != nil {
			return fmt.Errorf("failed to check requester: %w", err)
		}
		if !ok {
			return apperror.NotFound("requester %d not found", cmd.RequesterID)
		}
		return nil
	})

	if cmd.LocationID != 0 {
		locationID := cmd.LocationID
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
	for _, line := range cmd.ItemLocations {
		locationID := line.LocationID
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

	for _, approverID := range cmd.ApproverIDs {
		approverID := approverID
		g.Go(func() error {
			ok, err := h.users.UserExists(approverID)
			if err != nil {
				return fmt.Errorf("failed to check approver: %w", err)
			}
			if !ok {
				return apperror.NotFound("approver %d not found", approverID)
			}
			return nil
		})
	}

	return g.Wait()
}
