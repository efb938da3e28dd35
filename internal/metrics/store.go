package metrics

import (
	"context"
	"time"

	"github.com/prn-tf/people/internal/domain"
	"github.com/prn-tf/people/internal/repository"
)

// InstrumentUnitOfWork wraps uow so every store operation is counted and timed.
func InstrumentUnitOfWork(uow repository.UnitOfWork, m *Metrics) repository.UnitOfWork {
	return &unitOfWork{next: uow, metrics: m}
}

type unitOfWork struct {
	next    repository.UnitOfWork
	metrics *Metrics
}

func (u *unitOfWork) Begin(ctx context.Context) (repository.Session, error) {
	s, err := u.next.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &session{Session: s, store: &store{next: s.Store(), metrics: u.metrics}}, nil
}

type session struct {
	repository.Session
	store *store
}

func (s *session) Store() repository.Store { return s.store }

type store struct {
	next    repository.Store
	metrics *Metrics
}

func (s *store) Add(ctx context.Context, rec domain.Record) error {
	start := time.Now()
	err := s.next.Add(ctx, rec)
	s.metrics.ObserveStore("add", start, err)
	return err
}

func (s *store) Get(ctx context.Context, kind domain.Kind, id int64) (domain.Record, error) {
	start := time.Now()
	rec, err := s.next.Get(ctx, kind, id)
	s.metrics.ObserveStore("get", start, err)
	return rec, err
}

func (s *store) Delete(ctx context.Context, kind domain.Kind, id int64) error {
	start := time.Now()
	err := s.next.Delete(ctx, kind, id)
	s.metrics.ObserveStore("delete", start, err)
	return err
}

func (s *store) Filter(ctx context.Context, kind domain.Kind, conds ...repository.Condition) ([]domain.Record, error) {
	start := time.Now()
	recs, err := s.next.Filter(ctx, kind, conds...)
	s.metrics.ObserveStore("filter", start, err)
	return recs, err
}

func (s *store) GroupByCount(ctx context.Context, field repository.Field, opts repository.GroupOptions) ([]repository.GroupCount, error) {
	start := time.Now()
	groups, err := s.next.GroupByCount(ctx, field, opts)
	s.metrics.ObserveStore("group_by_count", start, err)
	return groups, err
}

func (s *store) FilterPersonsByBirthDate(ctx context.Context, from, to domain.CalendarDate) ([]*domain.Person, error) {
	start := time.Now()
	persons, err := s.next.FilterPersonsByBirthDate(ctx, from, to)
	s.metrics.ObserveStore("filter_by_birth_date", start, err)
	return persons, err
}

func (s *store) Count(ctx context.Context, kind domain.Kind) (int64, error) {
	start := time.Now()
	n, err := s.next.Count(ctx, kind)
	s.metrics.ObserveStore("count", start, err)
	return n, err
}
