package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the storage layer.
var (
	// ErrNotFound is returned when a record does not exist for the
	// requesting owner. A record owned by somebody else is reported
	// exactly the same way.
	ErrNotFound = errors.New("transaction not found")

	// ErrDuplicateID is returned when a create collides with an existing
	// record id.
	ErrDuplicateID = errors.New("transaction id already exists")
)

// ValidationError reports a malformed or missing field on a transaction
// record or credential payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthError reports bad credentials or an invalid/expired token.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "unauthorized: " + e.Reason
}

// ServiceError reports a failure from the external suggestion service.
// Callers may retry manually; the backend never retries on its own.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("suggestion service %s failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
