// Package common defines shared constants and sentinel errors used across
// repositories, services and transports. Callers should use errors.Is and
// errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrStorage      = errors.New("storage error")
	ErrInvalidState = errors.New("invalid state")
	ErrUnknownUser  = errors.New("unknown user")
)

// ValidationError reports a field-attributable input problem detected before
// any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError returns a *ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StorageError wraps an underlying engine failure for operation op. The
// result matches ErrStorage and still unwraps to err.
func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// IsDomainError reports whether err is one of the errors services pass
// through unchanged (not found, validation, invalid state, unknown user).
func IsDomainError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrUnknownUser)
}
