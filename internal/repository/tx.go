package repository

import (
	"context"
	"fmt"
)

// WithTx executes fn within a unit of work.
// If fn returns an error or panics, the session is rolled back.
// Otherwise, the session is committed. The session is always closed.
func WithTx(ctx context.Context, uow UnitOfWork, fn func(ctx context.Context, store Store) error) (err error) {
	session, err := uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin unit of work: %w", err)
	}

	defer func() {
		if closeErr := session.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close unit of work: %w", closeErr)
		}
	}()

	defer func() {
		if p := recover(); p != nil {
			_ = session.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, session.Store()); err != nil {
		if rbErr := session.Rollback(); rbErr != nil {
			return fmt.Errorf("unit of work error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := session.Commit(); err != nil {
		return fmt.Errorf("failed to commit unit of work: %w", err)
	}

	return nil
}
