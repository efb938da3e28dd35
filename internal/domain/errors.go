// Package domain contains the core record types of the people store.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent invalid caller input.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ErrInvalidDate indicates a date could not be parsed or does not exist.
	ErrInvalidDate = errors.New("invalid date")

	// ErrRecordIncomplete indicates a required key is missing from a record map.
	ErrRecordIncomplete = errors.New("record incomplete")

	// ErrInvalidCoordinate indicates a latitude or longitude is not a number.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrInvalidRecord indicates a nested record value has the wrong shape.
	ErrInvalidRecord = errors.New("invalid record")
)

// DomainError wraps a domain error with additional context.
type DomainError struct {
	// Err is the underlying domain error.
	Err error

	// Message provides additional context.
	Message string

	// Resource identifies the affected record type or input value.
	Resource string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Message, e.Resource)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with context.
func NewDomainError(err error, message, resource string) *DomainError {
	return &DomainError{
		Err:      err,
		Message:  message,
		Resource: resource,
	}
}

// missingKey reports a required key absent from the map of the named record type.
func missingKey(record, key string) error {
	return NewDomainError(ErrRecordIncomplete, fmt.Sprintf("missing key %q", key), record)
}
