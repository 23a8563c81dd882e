// Package apperrors defines the sentinel errors shared by the catalog store,
// the session controller and the HTTP handlers.
package apperrors

import "errors"

var (
	// ErrStoreUnavailable means the backing catalog file could not be read or
	// parsed. It is fatal at startup.
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	// ErrNotFound is returned when no course (or attachment) matches the key.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned by a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPersistFailure wraps any error raised while writing the catalog back
	// to disk. The in-memory table stays valid.
	ErrPersistFailure = errors.New("persist failed")

	// ErrUnauthenticated is returned when a privileged operation is attempted
	// by an anonymous session.
	ErrUnauthenticated = errors.New("authentication required")
)
