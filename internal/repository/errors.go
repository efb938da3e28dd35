package repository

import (
	"errors"
	"fmt"

	"github.com/prn-tf/people/internal/domain"
)

// Repository errors
var (
	// ErrNotFound indicates the requested record was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidColumn indicates a field name that is not a column of the
	// record kind, or a column that cannot be used for the operation.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrInvalidValue indicates a filter value that does not fit the column type.
	ErrInvalidValue = errors.New("invalid filter value")

	// ErrDuplicate indicates a natural-key uniqueness constraint was violated.
	ErrDuplicate = errors.New("duplicate record")

	// ErrReferenced indicates a row is still referenced by another row.
	ErrReferenced = errors.New("record is still referenced")

	// ErrUnsupportedRecord indicates a record type the store cannot handle.
	ErrUnsupportedRecord = errors.New("unsupported record")
)

// InterfaceError reports misuse of the store interface: an unknown or
// unusable field, or a value of the wrong type for a field.
type InterfaceError struct {
	// Op is the store operation ("filter", "group_by").
	Op string

	// Kind is the record kind the operation targeted.
	Kind domain.Kind

	// Field is the offending field name as given by the caller.
	Field string

	// Err is ErrInvalidColumn or ErrInvalidValue.
	Err error

	// Detail optionally describes the cause.
	Detail string
}

// Error implements the error interface.
func (e *InterfaceError) Error() string {
	msg := fmt.Sprintf("%s %s: %v %q", e.Op, e.Kind, e.Err, e.Field)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the underlying sentinel error.
func (e *InterfaceError) Unwrap() error {
	return e.Err
}
