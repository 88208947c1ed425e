// Package comments provides a PostgreSQL-backed repository for comments.
package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/interviewqs/backend/internal/common"
	"github.com/interviewqs/backend/internal/dbx"
	"github.com/interviewqs/backend/internal/server/models"
)

var sortOrders = map[string]string{
	"asc":  "ASC",
	"desc": "DESC",
}

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	query := `
		INSERT INTO comments (post_id, body, solution, status, pin, create_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		comment.PostID, comment.Body, comment.Solution,
		comment.Status, comment.PinHash, comment.CreateDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Comment, error) {
	query := `
		SELECT id, post_id, body, solution, status, pin, create_date
		FROM comments
		WHERE id = $1
	`
	comment := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.PostID, &comment.Body, &comment.Solution,
		&comment.Status, &comment.PinHash, &comment.CreateDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

func (r *PostgresRepository) GetPublished(ctx context.Context, id int64) (*models.Comment, error) {
	query := `
		SELECT id, post_id, body, solution, create_date
		FROM comments
		WHERE id = $1 AND status = 'published'
	`
	comment := &models.Comment{Status: models.StatusPublished}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.PostID, &comment.Body, &comment.Solution, &comment.CreateDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE comments SET status = $1
		WHERE id = $2
	`
	affected, err := dbx.ExecAffected(ctx, r.db, query, status, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdatePatch(ctx context.Context, id int64, patch models.CommentPatch) error {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if patch.Body != "" {
		args = append(args, patch.Body)
		sets = append(sets, fmt.Sprintf("body = $%d", len(args)))
	}
	if patch.Solution != nil {
		args = append(args, *patch.Solution)
		sets = append(sets, fmt.Sprintf("solution = $%d", len(args)))
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE comments SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	affected, err := dbx.ExecAffected(ctx, r.db, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID int64, solutionsOnly bool, q models.ListQuery) ([]*models.Comment, error) {
	order, ok := sortOrders[q.SortOrder]
	if !ok {
		return nil, common.ErrorValidation
	}

	where := "post_id = $1 AND status = 'published'"
	if solutionsOnly {
		where += " AND solution = true"
	}

	query := fmt.Sprintf(`
		SELECT id, post_id, body, solution, create_date
		FROM comments
		WHERE %s
		ORDER BY create_date %s
		LIMIT $2 OFFSET $3
	`, where, order)

	rows, err := r.db.QueryContext(ctx, query, postID, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Comment
	for rows.Next() {
		comment := &models.Comment{Status: models.StatusPublished}
		if err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.Body,
			&comment.Solution, &comment.CreateDate); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
