package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/people/internal/repository"
)

// Database opens units of work on a *sql.DB.
type Database struct {
	db      *sql.DB
	dialect Dialect
	logger  zerolog.Logger
}

// NewDatabase creates a unit-of-work factory for db.
func NewDatabase(db *sql.DB, dialect Dialect, logger zerolog.Logger) *Database {
	return &Database{
		db:      db,
		dialect: dialect,
		logger:  logger.With().Str("component", "store").Str("dialect", dialect.Name).Logger(),
	}
}

var _ repository.UnitOfWork = (*Database)(nil)

// Begin takes a dedicated connection and starts a transaction on it.
func (d *Database) Begin(ctx context.Context) (repository.Session, error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	logger := d.logger.With().Str("uow", uuid.NewString()).Logger()
	logger.Debug().Msg("unit of work started")

	return &session{
		conn:   conn,
		tx:     tx,
		store:  NewStore(tx, d.dialect, logger),
		logger: logger,
	}, nil
}

// session is one transaction on one connection.
type session struct {
	conn   *sql.Conn
	tx     *sql.Tx
	store  *Store
	logger zerolog.Logger
	done   bool
	closed bool
}

func (s *session) Store() repository.Store {
	return s.store
}

func (s *session) Commit() error {
	if s.done {
		return sql.ErrTxDone
	}
	s.done = true
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.Debug().Msg("unit of work committed")
	return nil
}

func (s *session) Rollback() error {
	if s.done {
		return sql.ErrTxDone
	}
	s.done = true
	if err := s.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	s.logger.Debug().Msg("unit of work rolled back")
	return nil
}

func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var rbErr error
	if !s.done {
		if err := s.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			rbErr = err
		}
	}
	return errors.Join(rbErr, s.conn.Close())
}
