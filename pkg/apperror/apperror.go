package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the structured application error used across usecases.
// It carries the HTTP status the handler should respond with.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an application error with an explicit status code.
func New(status int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// BadRequest signals an invalid combination of input fields.
func BadRequest(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, format, args...)
}

// Unauthorized signals missing or invalid credentials.
func Unauthorized(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

// Forbidden signals insufficient permission.
func Forbidden(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, format, args...)
}

// NotFound signals an absent referenced entity.
func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, format, args...)
}

// Conflict signals a uniqueness or exclusion violation.
func Conflict(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, format, args...)
}

// Internal signals an unexpected failure.
func Internal(format string, args ...interface{}) *Error {
	return New(http.StatusInternalServerError, format, args...)
}

// StatusOf extracts the HTTP status for err. Errors that are not
// application errors map to 500.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Is reports whether err is an application error with the given status.
func Is(err error, status int) bool {
	return StatusOf(err) == status
}
