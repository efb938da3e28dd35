package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/people/internal/domain"
	"github.com/prn-tf/people/internal/repository"
)

// stubStore answers Add and Get; other methods are never called here.
type stubStore struct {
	repository.Store
	addErr error
}

func (s *stubStore) Add(ctx context.Context, rec domain.Record) error { return s.addErr }

func (s *stubStore) Get(ctx context.Context, kind domain.Kind, id int64) (domain.Record, error) {
	return nil, repository.ErrNotFound
}

type stubSession struct {
	store     *stubStore
	committed bool
}

func (s *stubSession) Store() repository.Store { return s.store }
func (s *stubSession) Commit() error           { s.committed = true; return nil }
func (s *stubSession) Rollback() error         { return nil }
func (s *stubSession) Close() error            { return nil }

type stubUnitOfWork struct {
	session *stubSession
}

func (u *stubUnitOfWork) Begin(ctx context.Context) (repository.Session, error) {
	return u.session, nil
}

func TestInstrumentUnitOfWork(t *testing.T) {
	m := New(NewRegistry())
	inner := &stubSession{store: &stubStore{}}
	uow := InstrumentUnitOfWork(&stubUnitOfWork{session: inner}, m)

	err := repository.WithTx(context.Background(), uow, func(ctx context.Context, s repository.Store) error {
		require.NoError(t, s.Add(ctx, &domain.Nationality{Code: "CH"}))
		_, err := s.Get(ctx, domain.KindNationality, 1)
		require.ErrorIs(t, err, repository.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, inner.committed, "session calls reach the wrapped session")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("add", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("get", OutcomeError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("add", OutcomeError)))
}

func TestInstrumentUnitOfWork_FailedAdd(t *testing.T) {
	m := New(NewRegistry())
	inner := &stubSession{store: &stubStore{addErr: errors.New("boom")}}
	uow := InstrumentUnitOfWork(&stubUnitOfWork{session: inner}, m)

	err := repository.WithTx(context.Background(), uow, func(ctx context.Context, s repository.Store) error {
		return s.Add(ctx, &domain.Nationality{Code: "CH"})
	})
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("add", OutcomeError)))
}

func TestImportCountersAndHandler(t *testing.T) {
	m := New(NewRegistry())
	m.AddImported(3)
	m.AddSkipped(1)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.UsersImported))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportSkipped))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "people_users_imported_total 3")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(NewRegistry())
		New(NewRegistry())
	})
}
