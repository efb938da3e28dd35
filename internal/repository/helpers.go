package repository

import (
	"context"
	"fmt"

	"github.com/prn-tf/people/internal/domain"
)

// Get retrieves a record of type T by ID.
func Get[T domain.Record](ctx context.Context, s Store, id int64) (T, error) {
	var zero T
	rec, err := s.Get(ctx, zero.Kind(), id)
	if err != nil {
		return zero, err
	}
	typed, ok := rec.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T", ErrUnsupportedRecord, rec)
	}
	return typed, nil
}

// Filter returns every record of type T matching all conditions.
func Filter[T domain.Record](ctx context.Context, s Store, conds ...Condition) ([]T, error) {
	var zero T
	recs, err := s.Filter(ctx, zero.Kind(), conds...)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		typed, ok := rec.(T)
		if !ok {
			return nil, fmt.Errorf("%w: got %T", ErrUnsupportedRecord, rec)
		}
		out = append(out, typed)
	}
	return out, nil
}

// FilterBy filters records of kind by field names resolved at run time.
func FilterBy(ctx context.Context, s Store, kind domain.Kind, filters map[string]any) ([]domain.Record, error) {
	conds, err := ConditionsFromMap(kind, filters)
	if err != nil {
		return nil, err
	}
	return s.Filter(ctx, kind, conds...)
}

// GroupByName groups records of kind by a field name resolved at run time.
func GroupByName(ctx context.Context, s Store, kind domain.Kind, name string, opts GroupOptions) ([]GroupCount, error) {
	f, err := LookupField(kind, name)
	if err != nil {
		return nil, &InterfaceError{Op: "group_by", Kind: kind, Field: name, Err: ErrInvalidColumn}
	}
	return s.GroupByCount(ctx, f, opts)
}
