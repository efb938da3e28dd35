package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/people/internal/domain"
	"github.com/prn-tf/people/internal/importer"
	"github.com/prn-tf/people/internal/metrics"
	"github.com/prn-tf/people/internal/pkg/crypto"
	"github.com/prn-tf/people/internal/repository"
)

func validCreateInput() CreateUserInput {
	return CreateUserInput{
		Gender:              "female",
		Name:                domain.Name{Title: "Ms", FirstName: "Ada", SecondName: "Lovelace"},
		DateOfBirth:         domain.MustDate(1990, time.December, 10),
		Username:            "ada",
		Password:            "Analytical1!",
		Email:               "ada@example.com",
		Phone:               "044-555-10-10",
		Cell:                "079-555-20-20",
		Street:              "12 Bahnhofstrasse",
		City:                "Zurich",
		State:               "Zurich",
		Postcode:            "8001",
		Latitude:            47.37,
		Longitude:           8.54,
		TimezoneOffset:      "+1:00",
		TimezoneDescription: "Brussels, Copenhagen, Madrid, Paris",
		Nationality:         "CH",
		PersonalIDName:      "AVS",
		PersonalIDValue:     "756.0000.0000.01",
	}
}

func TestUserService_Create(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *CreateUserInput)
		setup   func(store *mockStore)
		wantErr error
	}{
		{
			name: "registers user",
			setup: func(store *mockStore) {
				store.On("Add", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
			},
		},
		{
			name:    "short username",
			mutate:  func(in *CreateUserInput) { in.Username = "al" },
			wantErr: ErrInvalidUsername,
		},
		{
			name:    "empty password",
			mutate:  func(in *CreateUserInput) { in.Password = "" },
			wantErr: ErrInvalidPassword,
		},
		{
			name:   "email is stored as given",
			mutate: func(in *CreateUserInput) { in.Email = "not-an-email" },
			setup: func(store *mockStore) {
				store.On("Add", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
			},
		},
		{
			name:    "birth date in the future",
			mutate:  func(in *CreateUserInput) { in.DateOfBirth = domain.MustDate(2030, time.January, 1) },
			wantErr: ErrInvalidBirthDate,
		},
		{
			name: "duplicate username",
			setup: func(store *mockStore) {
				store.On("Add", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)
			},
			wantErr: ErrUserAlreadyExists,
		},
		{
			name: "store failure",
			setup: func(store *mockStore) {
				store.On("Add", mock.Anything, mock.Anything).Return(errors.New("disk full"))
			},
			wantErr: ErrInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := newFakeUnitOfWork()
			if tt.setup != nil {
				tt.setup(uow.store)
			}
			svc := NewUserService(uow, domain.FixedClock(testToday), nil, zerolog.Nop())

			input := validCreateInput()
			if tt.mutate != nil {
				tt.mutate(&input)
			}

			output, err := svc.Create(context.Background(), input)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				login := output.User.Login
				assert.Len(t, login.Salt, crypto.SaltLength)
				assert.Equal(t, crypto.ComputeDigests("Analytical1!", login.Salt).SHA256, login.SHA256)
				assert.Equal(t, testToday, login.DateRegistered)
				assert.Len(t, login.UUID, 36)
				assert.Equal(t, "0445551010", output.User.Contact.Phone())
				assert.Equal(t, input.Email, output.User.Contact.Email)
				assert.Equal(t, 1, uow.commits)
			}

			mock.AssertExpectationsForObjects(t, uow.store)
		})
	}
}

func TestUserService_GetByID(t *testing.T) {
	user := domain.NewUser(testPerson(1, "male", domain.MustDate(1980, time.April, 1)), testLogin(1, "bob", "pw"),
		domain.NewContact("1", "2", "bob@example.com"), &domain.Location{}, &domain.PersonalID{})
	user.SetID(7)

	uow := newFakeUnitOfWork()
	uow.store.On("Get", mock.Anything, domain.KindUser, int64(7)).Return(user, nil)
	uow.store.On("Get", mock.Anything, domain.KindUser, int64(8)).Return(nil, repository.ErrNotFound)
	uow.store.On("Get", mock.Anything, domain.KindUser, int64(9)).Return(nil, errors.New("connection reset"))

	svc := NewUserService(uow, domain.FixedClock(testToday), nil, zerolog.Nop())

	got, err := svc.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Login.Username)

	_, err = svc.GetByID(context.Background(), 8)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetByID(context.Background(), 9)
	require.ErrorIs(t, err, ErrInternalError)

	mock.AssertExpectationsForObjects(t, uow.store)
}

func TestUserService_Delete(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.store.On("Delete", mock.Anything, domain.KindUser, int64(3)).Return(nil)
	uow.store.On("Delete", mock.Anything, domain.KindUser, int64(4)).Return(repository.ErrNotFound)

	svc := NewUserService(uow, domain.FixedClock(testToday), nil, zerolog.Nop())

	require.NoError(t, svc.Delete(context.Background(), 3))
	require.ErrorIs(t, svc.Delete(context.Background(), 4), ErrUserNotFound)
	assert.Equal(t, 1, uow.commits)
	assert.Equal(t, 1, uow.rollbacks)
}

func testdataSource() importer.Source {
	return importer.NewFileSource(filepath.Join("..", "importer", "testdata", "persons.json"))
}

func TestUserService_Import(t *testing.T) {
	t.Run("aborts on invalid entry", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.store.On("Add", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
		svc := NewUserService(uow, domain.FixedClock(testToday), nil, zerolog.Nop())

		_, err := svc.Import(context.Background(), ImportInput{Source: testdataSource()})
		require.ErrorIs(t, err, domain.ErrRecordIncomplete)
		assert.Equal(t, 1, uow.rollbacks)
		assert.Zero(t, uow.commits)
	})

	t.Run("skips invalid entries", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.store.On("Add", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil).Twice()
		m := metrics.New(metrics.NewRegistry())
		svc := NewUserService(uow, domain.FixedClock(testToday), m, zerolog.Nop())

		out, err := svc.Import(context.Background(), ImportInput{Source: testdataSource(), SkipInvalid: true})
		require.NoError(t, err)
		assert.Equal(t, &ImportOutput{Total: 3, Imported: 2, Skipped: 1}, out)
		assert.Equal(t, 1, uow.commits)
		assert.Equal(t, 2.0, testutil.ToFloat64(m.UsersImported))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportSkipped))
		mock.AssertExpectationsForObjects(t, uow.store)
	})

	t.Run("store failure rolls back", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.store.On("Add", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()
		svc := NewUserService(uow, domain.FixedClock(testToday), nil, zerolog.Nop())

		_, err := svc.Import(context.Background(), ImportInput{Source: testdataSource(), SkipInvalid: true})
		require.ErrorIs(t, err, ErrUserAlreadyExists)
		assert.Equal(t, 1, uow.rollbacks)
	})

	t.Run("missing dataset", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		svc := NewUserService(uow, domain.FixedClock(testToday), nil, zerolog.Nop())

		_, err := svc.Import(context.Background(), ImportInput{Source: importer.NewFileSource(filepath.Join(t.TempDir(), "none.json"))})
		require.Error(t, err)
		assert.Zero(t, uow.commits+uow.rollbacks, "no unit of work is opened")
	})
}
