package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint conflict.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation indicates rejected request input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
