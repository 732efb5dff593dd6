// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrInvalidInput is returned when the username or password is empty.
	ErrInvalidInput = errors.New("username and password are required")

	// ErrPasswordTooLong is returned when the password exceeds MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

	// ErrUsernameAlreadyExists is returned when signing up with a taken username.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrUserNotFound is returned when no user has the given username or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrWrongPassword is returned when the password does not match the stored hash.
	ErrWrongPassword = errors.New("wrong password")

	// ErrInvalidCredentials wraps ErrUserNotFound and ErrWrongPassword on login so callers
	// can answer both the same way.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")
)
