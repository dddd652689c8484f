package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsCarryStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"bad request", BadRequest("quantity must be positive"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("invalid credentials"), http.StatusUnauthorized},
		{"forbidden", Forbidden("admin role required"), http.StatusForbidden},
		{"not found", NotFound("item %d not found", 7), http.StatusNotFound},
		{"conflict", Conflict("barcode already registered"), http.StatusConflict},
		{"internal", Internal("unexpected failure"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.want {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.want)
			}
			if StatusOf(tt.err) != tt.want {
				t.Errorf("StatusOf = %d, want %d", StatusOf(tt.err), tt.want)
			}
		})
	}
}

func TestStatusOfUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("creating stock: %w", NotFound("item %d not found", 3))
	if got := StatusOf(wrapped); got != http.StatusNotFound {
		t.Errorf("StatusOf(wrapped) = %d, want %d", got, http.StatusNotFound)
	}
}

func TestStatusOfPlainErrorIsInternal(t *testing.T) {
	if got := StatusOf(errors.New("disk full")); got != http.StatusInternalServerError {
		t.Errorf("StatusOf = %d, want %d", got, http.StatusInternalServerError)
	}
}

func TestMessageFormatting(t *testing.T) {
	err := NotFound("unit %d not found", 12)
	if err.Error() != "unit 12 not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}
