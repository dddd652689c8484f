package command

import (
	"fmt"
	"time"

	"github.com/thukha/backoffice/internal/inventory/domain"
	"github.com/thukha/backoffice/pkg/apperror"
)

// DecideRequestCommand represents an approver's decision on a request
type DecideRequestCommand struct {
	RequestID  uint
	ApproverID uint
	Approve    bool
	Notes      string
}

// DecideRequestHandler records approval decisions and derives the
// request status from them.
type DecideRequestHandler struct {
	requests domain.RequestRepository
}

// NewDecideRequestHandler creates a new decide request handler
func NewDecideRequestHandler(requests domain.RequestRepository) *DecideRequestHandler {
	return &DecideRequestHandler{requests: requests}
}

// Handle executes the decide request command. A single rejection
// rejects the request; the request is approved once every approval row
// is approved.
func (h *DecideRequestHandler) Handle(cmd DecideRequestCommand) (*domain.Request, error) {
	request, err := h.requests.FindByID(cmd.RequestID)
	if err != nil {
		return nil, apperror.NotFound("request not found")
	}
	if request.Status != domain.RequestPending {
		return nil, apperror.BadRequest("request is already %s", request.Status)
	}

	var approval *domain.Approval
	for i := range request.Approvals {
		if request.Approvals[i].ApproverID == cmd.ApproverID {
			approval = &request.Approvals[i]
			break
		}
	}
	if approval == nil {
		return nil, apperror.Forbidden("user %d is not an approver on this request", cmd.ApproverID)
	}
	if approval.Decision != domain.DecisionPending {
		return nil, apperror.BadRequest("approver %d has already decided", cmd.ApproverID)
	}

	now := time.Now()
	approval.Decision = domain.DecisionApproved
	if !cmd.Approve {
		approval.Decision = domain.DecisionRejected
	}
	approval.DecidedAt = &now
	approval.Notes = cmd.Notes

	if err := h.requests.UpdateApproval(approval); err != nil {
		return nil, fmt.Errorf("failed to record decision: %w", err)
	}

	status := deriveStatus(request.Approvals)
	if status != request.Status {
		request.Status = status
		request.UpdatedAt = now
		if err := h.requests.Update(request); err != nil {
			return nil, fmt.Errorf("failed to update request status: %w", err)
		}
	}

	return request, nil
}

func deriveStatus(approvals []domain.Approval) string {
	allApproved := len(approvals) > 0
	for _, a := range approvals {
		switch a.Decision {
		case domain.DecisionRejected:
			return domain.RequestRejected
		case domain.DecisionPending:
			allApproved = false
		}
	}
	if allApproved {
		return domain.RequestApproved
	}
	return domain.RequestPending
}
