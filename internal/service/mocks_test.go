package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/prn-tf/people/internal/domain"
	"github.com/prn-tf/people/internal/repository"
)

// =============================================================================
// Mock Store and Unit of Work
// =============================================================================

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Add(ctx context.Context, rec domain.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockStore) Get(ctx context.Context, kind domain.Kind, id int64) (domain.Record, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, kind domain.Kind, id int64) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

func (m *mockStore) Filter(ctx context.Context, kind domain.Kind, conds ...repository.Condition) ([]domain.Record, error) {
	args := m.Called(ctx, kind, conds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *mockStore) GroupByCount(ctx context.Context, field repository.Field, opts repository.GroupOptions) ([]repository.GroupCount, error) {
	args := m.Called(ctx, field, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.GroupCount), args.Error(1)
}

func (m *mockStore) FilterPersonsByBirthDate(ctx context.Context, from, to domain.CalendarDate) ([]*domain.Person, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Person), args.Error(1)
}

func (m *mockStore) Count(ctx context.Context, kind domain.Kind) (int64, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(int64), args.Error(1)
}

// fakeUnitOfWork hands out sessions over one mock store and records how
// they ended.
type fakeUnitOfWork struct {
	store     *mockStore
	commits   int
	rollbacks int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{store: &mockStore{}}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) (repository.Session, error) {
	return &fakeSession{uow: u}, nil
}

type fakeSession struct {
	uow  *fakeUnitOfWork
	done bool
}

func (s *fakeSession) Store() repository.Store { return s.uow.store }

func (s *fakeSession) Commit() error {
	s.done = true
	s.uow.commits++
	return nil
}

func (s *fakeSession) Rollback() error {
	s.done = true
	s.uow.rollbacks++
	return nil
}

func (s *fakeSession) Close() error { return nil }

// =============================================================================
// Fixtures
// =============================================================================

var testToday = domain.MustDate(2024, time.June, 15)

func testPerson(id int64, gender string, dob domain.CalendarDate) *domain.Person {
	p := domain.NewPerson(gender, domain.Name{Title: "Mx", FirstName: "First", SecondName: "Last"}, dob)
	p.ID = id
	return p
}

func testLogin(id int64, username, password string) *domain.Credential {
	return &domain.Credential{ID: id, UUID: username + "-uuid", Username: username, Password: password}
}
