package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/prn-tf/people/internal/domain"
	"github.com/prn-tf/people/internal/repository"
)

// StatsService answers the reporting queries over stored users.
type StatsService struct {
	uow    repository.UnitOfWork
	clock  domain.Clock
	logger zerolog.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(uow repository.UnitOfWork, clock domain.Clock, logger zerolog.Logger) *StatsService {
	return &StatsService{
		uow:    uow,
		clock:  clock,
		logger: logger.With().Str("service", "stats").Logger(),
	}
}

// GenderShare is the number and percentage of persons of one gender.
type GenderShare struct {
	Gender     string  `json:"gender"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ValueCount is one value of a grouped column and how often it occurs.
type ValueCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// AverageAgeOutput is the mean age of the selected persons on today.
type AverageAgeOutput struct {
	Gender  string  `json:"gender,omitempty"`
	Persons int     `json:"persons"`
	Average float64 `json:"average"`
}

// PasswordScore is a credential's password with its strength.
type PasswordScore struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Strength int    `json:"strength"`
}

// Genders returns the gender breakdown, most common first.
func (s *StatsService) Genders(ctx context.Context) ([]GenderShare, error) {
	var groups []repository.GroupCount
	err := s.read(ctx, "genders", func(ctx context.Context, store repository.Store) error {
		var err error
		groups, err = store.GroupByCount(ctx, repository.PersonGender, repository.GroupOptions{})
		return err
	})
	if err != nil {
		return nil, err
	}

	var total int64
	for _, g := range groups {
		total += g.Count
	}

	shares := make([]GenderShare, 0, len(groups))
	for _, g := range groups {
		shares = append(shares, GenderShare{
			Gender:     g.Record.(*domain.Person).Gender,
			Count:      g.Count,
			Percentage: float64(g.Count) * 100 / float64(total),
		})
	}
	return shares, nil
}

// AverageAge returns the average age of all persons, or of one gender when
// gender is not empty. Ages are whole years on the clock's today.
func (s *StatsService) AverageAge(ctx context.Context, gender string) (*AverageAgeOutput, error) {
	var conds []repository.Condition
	if gender != "" {
		conds = append(conds, repository.Eq(repository.PersonGender, gender))
	}

	var persons []*domain.Person
	err := s.read(ctx, "average_age", func(ctx context.Context, store repository.Store) error {
		var err error
		persons, err = repository.Filter[*domain.Person](ctx, store, conds...)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := &AverageAgeOutput{Gender: gender, Persons: len(persons)}
	if len(persons) == 0 {
		return out, nil
	}

	today := s.clock.Today()
	var sum int
	for _, p := range persons {
		sum += p.Age(today)
	}
	out.Average = float64(sum) / float64(len(persons))
	return out, nil
}

// MostCommonCities returns the limit most common cities (limit <= 0: all).
func (s *StatsService) MostCommonCities(ctx context.Context, limit int) ([]ValueCount, error) {
	return s.mostCommon(ctx, repository.LocationCity, limit, func(r domain.Record) string {
		return r.(*domain.Location).City
	})
}

// MostCommonPasswords returns the limit most common passwords (limit <= 0: all).
func (s *StatsService) MostCommonPasswords(ctx context.Context, limit int) ([]ValueCount, error) {
	return s.mostCommon(ctx, repository.LoginPassword, limit, func(r domain.Record) string {
		return r.(*domain.Credential).Password
	})
}

func (s *StatsService) mostCommon(ctx context.Context, field repository.Field, limit int, value func(domain.Record) string) ([]ValueCount, error) {
	var groups []repository.GroupCount
	err := s.read(ctx, "most_common_"+field.Name, func(ctx context.Context, store repository.Store) error {
		var err error
		groups, err = store.GroupByCount(ctx, field, repository.GroupOptions{Limit: limit})
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]ValueCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, ValueCount{Value: value(g.Record), Count: g.Count})
	}
	return out, nil
}

// StrongestPasswords scores every credential and returns the limit
// strongest (limit <= 0: all), ties ordered by username.
func (s *StatsService) StrongestPasswords(ctx context.Context, limit int) ([]PasswordScore, error) {
	var logins []*domain.Credential
	err := s.read(ctx, "strongest_passwords", func(ctx context.Context, store repository.Store) error {
		var err error
		logins, err = repository.Filter[*domain.Credential](ctx, store)
		return err
	})
	if err != nil {
		return nil, err
	}

	scores := make([]PasswordScore, 0, len(logins))
	for _, l := range logins {
		scores = append(scores, PasswordScore{Username: l.Username, Password: l.Password, Strength: l.Strength()})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Strength != scores[j].Strength {
			return scores[i].Strength > scores[j].Strength
		}
		return scores[i].Username < scores[j].Username
	})

	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

// BornBetween returns persons born between from and to, both inclusive.
func (s *StatsService) BornBetween(ctx context.Context, from, to domain.CalendarDate) ([]*domain.Person, error) {
	if from.After(to) {
		return nil, ErrInvalidRange
	}

	var persons []*domain.Person
	err := s.read(ctx, "born_between", func(ctx context.Context, store repository.Store) error {
		var err error
		persons, err = store.FilterPersonsByBirthDate(ctx, from, to)
		return err
	})
	return persons, err
}

// Filter returns the records of kind whose fields equal the given values.
// Field names are resolved at run time; unknown names fail with
// repository.ErrInvalidColumn.
func (s *StatsService) Filter(ctx context.Context, kind string, filters map[string]any) ([]domain.Record, error) {
	k, ok := domain.ParseKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	var recs []domain.Record
	err := s.read(ctx, "filter", func(ctx context.Context, store repository.Store) error {
		var err error
		recs, err = repository.FilterBy(ctx, store, k, filters)
		return err
	})
	return recs, err
}

// read runs fn in a unit of work. Caller errors (unknown fields, bad
// values) are returned as they are; anything else becomes ErrInternalError.
func (s *StatsService) read(ctx context.Context, op string, fn func(ctx context.Context, store repository.Store) error) error {
	err := repository.WithTx(ctx, s.uow, fn)
	if err == nil {
		return nil
	}

	var ifaceErr *repository.InterfaceError
	if errors.As(err, &ifaceErr) {
		return err
	}
	s.logger.Error().Err(err).Str("op", op).Msg("report query failed")
	return fmt.Errorf("%w: %v", ErrInternalError, err)
}
