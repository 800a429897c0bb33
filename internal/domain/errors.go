package domain

import "errors"

var (
	// ErrNotFound is returned when the requested entity does not exist
	// or is not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller is authenticated but lacks
	// the project role required for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized is returned when no valid credential accompanies
	// the request.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalid is returned for malformed or incomplete input.
	ErrInvalid = errors.New("invalid input")

	// ErrDuplicate is returned when a uniqueness constraint would be
	// violated (e.g. signup with an existing email).
	ErrDuplicate = errors.New("already exists")
)
