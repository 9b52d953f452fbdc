// Package common defines shared sentinel errors used across the
// repository, service, and transport layers of taskboard. Callers should
// use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// ErrServerConfig signals a missing or unusable runtime setting,
	// distinct from an unauthenticated caller.
	ErrServerConfig = errors.New("server configuration error")
)
