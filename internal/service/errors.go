package service

import "errors"

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when attempting to register with an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidInput wraps registration input that breaks the username or password rules.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorage wraps failures of the durable stores.
	ErrStorage = errors.New("storage failure")
	// ErrNotAuthenticated is returned when an anonymous session reaches a protected operation.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrArchiveDisabled is returned when no report archive is configured.
	ErrArchiveDisabled = errors.New("report archive not configured")
)
