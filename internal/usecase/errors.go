package usecase

import "errors"

// Sentinel errors services return; the HTTP layer maps them onto the JSON
// error envelope.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
