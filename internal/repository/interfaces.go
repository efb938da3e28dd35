// Package repository defines data access interfaces for the people store.
// These interfaces abstract database operations, allowing for different
// implementations (SQLite, PostgreSQL, test doubles) while keeping the
// service layer clean.
package repository

import (
	"context"

	"github.com/prn-tf/people/internal/domain"
)

// =============================================================================
// Store
// =============================================================================

// Store is the data access façade available inside one unit of work.
type Store interface {
	// Add stores rec and assigns its ID. Adding a User stores all of its
	// sub-records; shared coordinates, timezones and nationalities are
	// reused when a row with the same natural key exists.
	Add(ctx context.Context, rec domain.Record) error

	// Get retrieves one record by kind and ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, kind domain.Kind, id int64) (domain.Record, error)

	// Delete removes one record by kind and ID. Deleting a user removes the
	// records it owns. Returns ErrNotFound if absent.
	Delete(ctx context.Context, kind domain.Kind, id int64) error

	// Filter returns every record of kind matching all conditions, ordered by ID.
	Filter(ctx context.Context, kind domain.Kind, conds ...Condition) ([]domain.Record, error)

	// GroupByCount groups the records of field.Kind by field and returns one
	// representative record per group with the group's size.
	GroupByCount(ctx context.Context, field Field, opts GroupOptions) ([]GroupCount, error)

	// FilterPersonsByBirthDate returns persons born between from and to,
	// both inclusive, ordered by date of birth.
	FilterPersonsByBirthDate(ctx context.Context, from, to domain.CalendarDate) ([]*domain.Person, error)

	// Count returns the number of records of kind.
	Count(ctx context.Context, kind domain.Kind) (int64, error)
}

// GroupOptions contains options for GroupByCount.
type GroupOptions struct {
	// Limit is the maximum number of groups to return (0 = no limit).
	Limit int

	// Ascending orders groups by increasing count. The default is descending.
	Ascending bool
}

// GroupCount is one group of a GroupByCount result.
type GroupCount struct {
	// Record is the member of the group with the lowest ID.
	Record domain.Record

	// Count is the number of records in the group.
	Count int64
}

// =============================================================================
// Unit of Work
// =============================================================================

// UnitOfWork opens sessions. Each session is one transaction on its own
// connection; nothing it writes is visible outside it before Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) (Session, error)
}

// Session is an open unit of work.
type Session interface {
	// Store returns the store bound to this session's transaction.
	Store() Store

	// Commit makes the session's changes permanent.
	Commit() error

	// Rollback discards the session's changes.
	Rollback() error

	// Close rolls back anything not yet committed and releases the
	// connection. It is safe to call after Commit or Rollback.
	Close() error
}
