package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the registry, provisioning and the Nextcloud
// client. Callers wrap them so the CLI and the admin API can classify
// failures without importing the package that produced them.
//
//	return fmt.Errorf("failed to load server %d: %w", id, domain.ErrNotFound)
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the remote server rejected the
	// configured credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict indicates a uniqueness conflict, such as a second
	// service instance for the same order.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates caller supplied input was rejected.
	ErrValidation = errors.New("validation failed")
)

// ValidationError names the offending field of a rejected request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports ErrValidation so callers can match on the sentinel.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError is shorthand for &ValidationError{Field, Message}.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
