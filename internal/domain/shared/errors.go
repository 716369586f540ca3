// internal/domain/shared/errors.go
package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error with a stable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// ValidationError reports a bad or missing input field. Field always names the offender.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a field-specific validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PersistenceError wraps a durable-store failure. Callers may retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Retryable is always true for persistence failures
func (e *PersistenceError) Retryable() bool {
	return true
}

// NewPersistenceError wraps err as a retryable persistence failure
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// AsValidationError extracts a ValidationError from err's chain
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// AsDomainError extracts a DomainError from err's chain
func AsDomainError(err error) (*DomainError, bool) {
	var dErr *DomainError
	if errors.As(err, &dErr) {
		return dErr, true
	}
	return nil, false
}
