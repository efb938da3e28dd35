package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/people/internal/domain"
	"github.com/prn-tf/people/internal/importer"
	"github.com/prn-tf/people/internal/metrics"
	"github.com/prn-tf/people/internal/pkg/crypto"
	"github.com/prn-tf/people/internal/repository"
)

// UserService handles user registration, lookup, deletion and dataset import.
type UserService struct {
	uow     repository.UnitOfWork
	clock   domain.Clock
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewUserService creates a new UserService. m may be nil.
func NewUserService(uow repository.UnitOfWork, clock domain.Clock, m *metrics.Metrics, logger zerolog.Logger) *UserService {
	return &UserService{
		uow:     uow,
		clock:   clock,
		metrics: m,
		logger:  logger.With().Str("service", "user").Logger(),
	}
}

// CreateUserInput contains the data needed to register a new user.
type CreateUserInput struct {
	Gender      string
	Name        domain.Name
	DateOfBirth domain.CalendarDate

	Username string
	Password string

	Email string
	Phone string
	Cell  string

	Street              string
	City                string
	State               string
	Postcode            string
	Latitude            float64
	Longitude           float64
	TimezoneOffset      string
	TimezoneDescription string
	Nationality         string

	PersonalIDName  string
	PersonalIDValue string
}

// CreateUserOutput contains the result of registering a user.
type CreateUserOutput struct {
	User *domain.User
}

// Create registers a new user. The credential gets a fresh UUID, a random
// salt, the digests of password+salt and today's registration date.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*CreateUserOutput, error) {
	today := s.clock.Today()

	// Validate input
	if err := validateCreateInput(input, today); err != nil {
		return nil, err
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate salt")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	digests := crypto.ComputeDigests(input.Password, salt)

	user := domain.NewUser(
		domain.NewPerson(input.Gender, input.Name, input.DateOfBirth),
		&domain.Credential{
			UUID:           uuid.NewString(),
			Username:       input.Username,
			Password:       input.Password,
			Salt:           salt,
			MD5:            digests.MD5,
			SHA1:           digests.SHA1,
			SHA256:         digests.SHA256,
			DateRegistered: today,
		},
		domain.NewContact(input.Phone, input.Cell, input.Email),
		&domain.Location{
			Street:      input.Street,
			City:        input.City,
			State:       input.State,
			Postcode:    input.Postcode,
			Coordinates: &domain.Coordinates{Latitude: input.Latitude, Longitude: input.Longitude},
			Timezone:    &domain.Timezone{Offset: input.TimezoneOffset, Description: input.TimezoneDescription},
			Nationality: &domain.Nationality{Code: input.Nationality},
		},
		&domain.PersonalID{Name: input.PersonalIDName, Value: input.PersonalIDValue},
	)

	err = repository.WithTx(ctx, s.uow, func(ctx context.Context, store repository.Store) error {
		return store.Add(ctx, user)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username '%s'", ErrUserAlreadyExists, input.Username)
		}
		s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", input.Username).
		Msg("user created")

	return &CreateUserOutput{User: user}, nil
}

// GetByID retrieves a user with all sub-records.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user *domain.User
	err := repository.WithTx(ctx, s.uow, func(ctx context.Context, store repository.Store) error {
		var err error
		user, err = repository.Get[*domain.User](ctx, store, id)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return user, nil
}

// Delete deletes a user and the records it owns.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := repository.WithTx(ctx, s.uow, func(ctx context.Context, store repository.Store) error {
		return store.Delete(ctx, domain.KindUser, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// ImportInput describes one dataset import.
type ImportInput struct {
	Source importer.Source

	// SkipInvalid logs and skips entries the factories reject instead of
	// aborting the whole import.
	SkipInvalid bool
}

// ImportOutput contains the result of an import.
type ImportOutput struct {
	Total    int
	Imported int
	Skipped  int
}

// Import reads a dataset and stores every user in a single unit of work.
// Without SkipInvalid, the first invalid entry aborts the import and nothing
// is stored.
func (s *UserService) Import(ctx context.Context, input ImportInput) (*ImportOutput, error) {
	logger := s.logger.With().Str("source", input.Source.Name()).Logger()

	entries, err := importer.Load(ctx, input.Source)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load dataset")
		return nil, err
	}

	out := &ImportOutput{Total: len(entries)}
	err = repository.WithTx(ctx, s.uow, func(ctx context.Context, store repository.Store) error {
		for i, entry := range entries {
			user, err := domain.UserFromMap(importer.Translate(entry))
			if err != nil {
				if !input.SkipInvalid {
					return fmt.Errorf("entry %d: %w", i, err)
				}
				logger.Warn().Err(err).Int("entry", i).Msg("skipping invalid entry")
				out.Skipped++
				continue
			}
			if err := store.Add(ctx, user); err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
			out.Imported++
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("import rolled back")
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %v", ErrUserAlreadyExists, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if s.metrics != nil {
		s.metrics.AddImported(out.Imported)
		s.metrics.AddSkipped(out.Skipped)
	}

	logger.Info().
		Int("total", out.Total).
		Int("imported", out.Imported).
		Int("skipped", out.Skipped).
		Msg("import finished")

	return out, nil
}

// validateCreateInput validates the input for creating a user.
func validateCreateInput(input CreateUserInput, today domain.CalendarDate) error {
	// Validate username
	if len(input.Username) < 3 || len(input.Username) > 255 {
		return ErrInvalidUsername
	}

	// Validate password
	if input.Password == "" {
		return ErrInvalidPassword
	}

	// Validate date of birth
	if input.DateOfBirth.IsZero() || input.DateOfBirth.After(today) {
		return ErrInvalidBirthDate
	}

	return nil
}
