package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/people/internal/domain"
	"github.com/prn-tf/people/internal/repository"
)

func newStatsService(uow *fakeUnitOfWork) *StatsService {
	return NewStatsService(uow, domain.FixedClock(testToday), zerolog.Nop())
}

func TestStatsService_Genders(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.store.On("GroupByCount", mock.Anything, repository.PersonGender, repository.GroupOptions{}).Return([]repository.GroupCount{
		{Record: testPerson(1, "female", domain.MustDate(1990, time.January, 1)), Count: 3},
		{Record: testPerson(2, "male", domain.MustDate(1990, time.January, 1)), Count: 1},
	}, nil)

	shares, err := newStatsService(uow).Genders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []GenderShare{
		{Gender: "female", Count: 3, Percentage: 75},
		{Gender: "male", Count: 1, Percentage: 25},
	}, shares)
	mock.AssertExpectationsForObjects(t, uow.store)
}

func TestStatsService_AverageAge(t *testing.T) {
	persons := []domain.Record{
		testPerson(1, "female", domain.MustDate(1990, time.June, 15)), // 34 today
		testPerson(2, "female", domain.MustDate(1990, time.June, 16)), // 33 until tomorrow
	}

	uow := newFakeUnitOfWork()
	uow.store.On("Filter", mock.Anything, domain.KindPerson, []repository.Condition{repository.Eq(repository.PersonGender, "female")}).Return(persons, nil)
	uow.store.On("Filter", mock.Anything, domain.KindPerson, []repository.Condition(nil)).Return([]domain.Record{}, nil)

	svc := newStatsService(uow)

	out, err := svc.AverageAge(context.Background(), "female")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Persons)
	assert.InDelta(t, 33.5, out.Average, 1e-9)

	empty, err := svc.AverageAge(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, empty.Persons)
	assert.Zero(t, empty.Average)
}

func TestStatsService_MostCommon(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.store.On("GroupByCount", mock.Anything, repository.LocationCity, repository.GroupOptions{Limit: 2}).Return([]repository.GroupCount{
		{Record: &domain.Location{ID: 1, City: "Bern"}, Count: 5},
		{Record: &domain.Location{ID: 4, City: "Basel"}, Count: 2},
	}, nil)
	uow.store.On("GroupByCount", mock.Anything, repository.LoginPassword, repository.GroupOptions{Limit: 1}).Return([]repository.GroupCount{
		{Record: testLogin(3, "carol", "password"), Count: 9},
	}, nil)

	svc := newStatsService(uow)

	cities, err := svc.MostCommonCities(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []ValueCount{{Value: "Bern", Count: 5}, {Value: "Basel", Count: 2}}, cities)

	passwords, err := svc.MostCommonPasswords(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []ValueCount{{Value: "password", Count: 9}}, passwords)
}

func TestStatsService_StrongestPasswords(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.store.On("Filter", mock.Anything, domain.KindLogin, []repository.Condition(nil)).Return([]domain.Record{
		testLogin(1, "zed", "abc"),
		testLogin(2, "amy", "Abc12345!"),
		testLogin(3, "bob", "abcdefgh"),
		testLogin(4, "al", "Xyz98765?"),
		testLogin(5, "cy", "ABCDEFGHIJ"),
	}, nil)

	svc := newStatsService(uow)

	top, err := svc.StrongestPasswords(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, PasswordScore{Username: "al", Password: "Xyz98765?", Strength: 12}, top[0])
	assert.Equal(t, "amy", top[1].Username)
	assert.Equal(t, PasswordScore{Username: "cy", Password: "ABCDEFGHIJ", Strength: 7}, top[2])

	all, err := svc.StrongestPasswords(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, []string{"al", "amy", "cy", "bob", "zed"}, usernames(all))
}

func TestStatsService_BornBetween(t *testing.T) {
	from := domain.MustDate(1980, time.January, 1)
	to := domain.MustDate(1989, time.December, 31)

	uow := newFakeUnitOfWork()
	uow.store.On("FilterPersonsByBirthDate", mock.Anything, from, to).Return([]*domain.Person{
		testPerson(1, "male", domain.MustDate(1985, time.March, 3)),
	}, nil)

	svc := newStatsService(uow)

	persons, err := svc.BornBetween(context.Background(), from, to)
	require.NoError(t, err)
	assert.Len(t, persons, 1)

	_, err = svc.BornBetween(context.Background(), to, from)
	require.ErrorIs(t, err, ErrInvalidRange)
	mock.AssertExpectationsForObjects(t, uow.store)
}

func TestStatsService_Filter(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.store.On("Filter", mock.Anything, domain.KindLocation, []repository.Condition{repository.Eq(repository.LocationCity, "Bern")}).
		Return([]domain.Record{&domain.Location{ID: 1, City: "Bern"}}, nil)
	uow.store.On("Filter", mock.Anything, domain.KindNationality, mock.Anything).Return(nil, errors.New("database is locked"))

	svc := newStatsService(uow)

	recs, err := svc.Filter(context.Background(), "location", map[string]any{"city": "Bern"})
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	_, err = svc.Filter(context.Background(), "location", map[string]any{"planet": "Earth"})
	require.ErrorIs(t, err, repository.ErrInvalidColumn)

	_, err = svc.Filter(context.Background(), "spaceship", nil)
	require.ErrorIs(t, err, ErrUnknownKind)

	_, err = svc.Filter(context.Background(), "nationality", map[string]any{"code": "CH"})
	require.ErrorIs(t, err, ErrInternalError)
}

func usernames(scores []PasswordScore) []string {
	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = s.Username
	}
	return out
}
