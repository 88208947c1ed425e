// Package users declares the repository contract for registered identities.
package users

import (
	"context"

	"github.com/interviewqs/backend/internal/server/models"
)

// Repository defines persistence operations for the email+pin identity flow.
type Repository interface {
	// Create registers a new identity with its first known IP address.
	Create(ctx context.Context, email, ip string) error

	// GetByEmail returns the identity for email, or a not-found error.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdatePin sets the stored login pin token. Passing the "null"
	// sentinel marks the pin as used.
	UpdatePin(ctx context.Context, email, pin string) error

	// AppendIP records another IP address for the identity.
	AppendIP(ctx context.Context, email, ip string) error

	// SetRefreshToken unconditionally stores token as the identity's single
	// active refresh token, revoking whatever was there before.
	SetRefreshToken(ctx context.Context, email, token string) error

	// RotateRefreshToken atomically replaces old with new, but only if old
	// is still the token on file. Returns ErrRefreshTokenRevoked when the
	// compare-and-set finds a different value (stale or concurrently
	// rotated token).
	RotateRefreshToken(ctx context.Context, email, old, new string) error

	// ClearRefreshTokenByValue revokes the given token wherever it is
	// stored, writing the "null" sentinel.
	ClearRefreshTokenByValue(ctx context.Context, token string) error
}
