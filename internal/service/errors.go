// Package service provides the business logic of the people store.
package service

import "errors"

// Common service errors.
var (
	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidUsername   = errors.New("invalid username: must be 3-255 characters")
	ErrInvalidPassword   = errors.New("invalid password: must not be empty")
	ErrInvalidBirthDate  = errors.New("invalid date of birth: must be set and not in the future")

	// Report errors
	ErrInvalidRange = errors.New("invalid date range: from is after to")
	ErrUnknownKind  = errors.New("unknown record kind")

	// General errors
	ErrInternalError = errors.New("internal server error")
)
