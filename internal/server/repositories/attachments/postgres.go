// Package attachments provides a PostgreSQL-backed repository for attachment
// metadata.
package attachments

import (
	"context"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, a *models.Attachment) (int64, error) {
	query := `
		INSERT INTO attachments (post_id, storage_key, url, create_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		a.PostID, a.StorageKey, a.URL, a.CreateDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Attachment, error) {
	query := `
		SELECT id, post_id, storage_key, url, create_date
		FROM attachments
		WHERE post_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Attachment
	for rows.Next() {
		a := &models.Attachment{}
		if err := rows.Scan(&a.ID, &a.PostID, &a.StorageKey, &a.URL, &a.CreateDate); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByPost(ctx context.Context, postID int64) ([]string, error) {
	query := `
		DELETE FROM attachments
		WHERE post_id = $1
		RETURNING storage_key
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return keys, nil
}
