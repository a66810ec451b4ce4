// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across remote/session/service layers.
var (
	// ErrNetwork indicates a transport failure or a malformed response.
	ErrNetwork = errors.New("network failure")

	// ErrUnauthorized indicates a missing token where one is required,
	// or a 401-class rejection from the remote service.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates a non-success response with a
	// server-supplied message (e.g. bad credentials).
	ErrValidation = errors.New("rejected")

	// ErrOutOfRange indicates a client-side invariant violation such as
	// a page number outside [1, totalPages]; prevented before dispatch.
	ErrOutOfRange = errors.New("out of range")
)
