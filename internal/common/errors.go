// Package common defines shared constants and sentinel errors used across
// the backend layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorValidation   = errors.New("validation error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Refresh token rotation: the presented token no longer matches the one
	// on file (revoked, already rotated, or raced by a concurrent renewal).
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
)
