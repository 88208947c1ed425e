// Package users provides a PostgreSQL-backed repository for registered
// identities and their session credentials.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/interviewqs/backend/internal/common"
	"github.com/interviewqs/backend/internal/dbx"
	"github.com/interviewqs/backend/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, email, ip string) error {
	query := `
		INSERT INTO users (email, ip)
		VALUES ($1, ARRAY[$2])
	`
	if _, err := r.db.ExecContext(ctx, query, email, ip); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT email, banned, pin, refresh_token FROM users
		WHERE email = $1
	`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.Email, &user.Banned, &user.Pin, &user.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) UpdatePin(ctx context.Context, email, pin string) error {
	query := `
		UPDATE users SET pin = $1
		WHERE email = $2
	`
	affected, err := dbx.ExecAffected(ctx, r.db, query, pin, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) AppendIP(ctx context.Context, email, ip string) error {
	query := `
		UPDATE users SET ip = array_append(ip, $1)
		WHERE email = $2
	`
	if _, err := r.db.ExecContext(ctx, query, ip, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetRefreshToken(ctx context.Context, email, token string) error {
	query := `
		UPDATE users SET refresh_token = $1
		WHERE email = $2
	`
	affected, err := dbx.ExecAffected(ctx, r.db, query, token, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// RotateRefreshToken is the single-active-session enforcement point: the
// conditional WHERE makes two concurrent renewals carrying the same token
// race for one row update, and the loser gets ErrRefreshTokenRevoked.
func (r *PostgresRepository) RotateRefreshToken(ctx context.Context, email, old, new string) error {
	query := `
		UPDATE users SET refresh_token = $1
		WHERE email = $2 AND refresh_token = $3
	`
	affected, err := dbx.ExecAffected(ctx, r.db, query, new, email, old)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrRefreshTokenRevoked
	}
	return nil
}

func (r *PostgresRepository) ClearRefreshTokenByValue(ctx context.Context, token string) error {
	query := `
		UPDATE users SET refresh_token = $1
		WHERE refresh_token = $2
	`
	if _, err := r.db.ExecContext(ctx, query, common.SentinelNull, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
