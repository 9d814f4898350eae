package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common client-side errors with proper types for error handling

var (
	// ErrValidation indicates invalid input caught before any network call
	ErrValidation = errors.New("validation failed")

	// ErrNetwork indicates the backend could not be reached (no response)
	ErrNetwork = errors.New("network error")

	// ErrAuthNotConfirmed indicates whoami reported unauthenticated after
	// an action that was expected to authenticate
	ErrAuthNotConfirmed = errors.New("authentication not confirmed")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")
)

// APIError is a server-reported failure: the backend responded with a
// non-success status, usually carrying a JSON {"error": "..."} body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// NewAPIError creates an APIError, falling back to the standard status
// text when the server supplied no message.
func NewAPIError(statusCode int, message string) *APIError {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	if message == "" {
		message = "request failed"
	}
	return &APIError{StatusCode: statusCode, Message: message}
}

// IsAPIStatus reports whether err is an APIError with the given status.
func IsAPIStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}

// ValidationError creates a validation error with field context
func ValidationError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrValidation)
}

// NetworkError wraps a transport failure
func NetworkError(err error) error {
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}
