// Package auth contains JWT helpers for the three token kinds the server
// issues: access tokens, refresh tokens, and login pin tokens. Each kind is
// signed with its own HMAC secret.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/interviewqs/backend/internal/common"
)

// Claims carries the registered claims plus the identity's email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// GenerateToken signs an HS256 token for email expiring after
// validityDuration.
func GenerateToken(email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Email: email,
	})
	return token.SignedString(secretKey)
}

// GenerateUnexpiringToken signs an HS256 token for email with no expiry
// claim. Refresh tokens use this: their lifetime is bounded by the single
// active row on file, not by an embedded deadline. The random jti keeps two
// tokens minted within the same second distinct, which rotation relies on.
func GenerateUnexpiringToken(email string, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			ID:       uuid.NewString(),
		},
		Email: email,
	})
	return token.SignedString(secretKey)
}

// GetEmailFromToken validates tokenString's signature and expiry against
// secretKey and returns the embedded email claim.
func GetEmailFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrInvalidToken
		}
		return "", err
	}

	if !token.Valid || claims.Email == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Email, nil
}
