// Package posts provides a PostgreSQL-backed repository for interview posts.
package posts

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

// sortColumns whitelists listing sort keys. Anything outside this map never
// reaches the ORDER BY clause.
var sortColumns = map[string]string{
	"create_date":    "create_date",
	"interview_date": "interview_date",
	"views":          "views",
}

// sortOrders whitelists listing sort directions.
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

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (title, interview_date, company, position, body, status, pin, create_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		post.Title, post.InterviewDate, post.Company, post.Position,
		post.Body, post.Status, post.PinHash, post.CreateDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Post, error) {
	query := `
		SELECT id, title, interview_date, company, position, body, status, pin, create_date, views, votes_up, votes_down
		FROM posts
		WHERE id = $1
	`
	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.InterviewDate, &post.Company, &post.Position,
		&post.Body, &post.Status, &post.PinHash, &post.CreateDate,
		&post.Views, &post.VotesUp, &post.VotesDown)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) GetPublished(ctx context.Context, id int64) (*models.Post, error) {
	query := `
		SELECT id, title, interview_date, company, position, body, create_date, views, votes_up, votes_down
		FROM posts
		WHERE id = $1 AND status = 'published'
	`
	post := &models.Post{Status: models.StatusPublished}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.InterviewDate, &post.Company, &post.Position,
		&post.Body, &post.CreateDate, &post.Views, &post.VotesUp, &post.VotesDown)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	query := `
		UPDATE posts SET views = views + 1
		WHERE id = $1
		RETURNING views
	`
	var views int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&views); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return views, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE posts SET status = $1
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

func (r *PostgresRepository) UpdatePatch(ctx context.Context, id int64, patch models.PostPatch) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	add := func(column, value string) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != "" {
		add("title", patch.Title)
	}
	if patch.Company != "" {
		add("company", patch.Company)
	}
	if patch.Position != "" {
		add("position", patch.Position)
	}
	if patch.Body != "" {
		add("body", patch.Body)
	}
	if patch.InterviewDate != "" {
		add("interview_date", patch.InterviewDate)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE posts SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	affected, err := dbx.ExecAffected(ctx, r.db, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, filter Filter, q models.ListQuery) ([]*models.Post, error) {
	column, ok := sortColumns[q.SortKey]
	if !ok {
		return nil, common.ErrorValidation
	}
	order, ok := sortOrders[q.SortOrder]
	if !ok {
		return nil, common.ErrorValidation
	}

	where := []string{"status = 'published'"}
	args := []any{}

	if filter.Company != "" {
		args = append(args, filter.Company)
		where = append(where, fmt.Sprintf("company = $%d", len(args)))
	}
	if filter.Position != "" {
		args = append(args, filter.Position)
		where = append(where, fmt.Sprintf("position = $%d", len(args)))
	}

	args = append(args, q.Limit, q.Offset)
	query := fmt.Sprintf(`
		SELECT id, title, interview_date, company, position, body, create_date, views, votes_up, votes_down
		FROM posts
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, strings.Join(where, " AND "), column, order, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Post
	for rows.Next() {
		post := &models.Post{Status: models.StatusPublished}
		if err := rows.Scan(
			&post.ID, &post.Title, &post.InterviewDate, &post.Company, &post.Position,
			&post.Body, &post.CreateDate, &post.Views, &post.VotesUp, &post.VotesDown); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Companies(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `
		SELECT DISTINCT company FROM posts
		WHERE status = 'published'
		ORDER BY company
	`)
}

func (r *PostgresRepository) Positions(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `
		SELECT DISTINCT position FROM posts
		WHERE status = 'published'
		ORDER BY position
	`)
}

func (r *PostgresRepository) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) CompanyStats(ctx context.Context) ([]models.NameCount, error) {
	return r.counts(ctx, `
		SELECT company, count(*) FROM posts
		GROUP BY company
		ORDER BY count DESC
	`)
}

func (r *PostgresRepository) PositionStats(ctx context.Context) ([]models.NameCount, error) {
	return r.counts(ctx, `
		SELECT position, count(*) FROM posts
		GROUP BY position
		ORDER BY count DESC
	`)
}

func (r *PostgresRepository) counts(ctx context.Context, query string) ([]models.NameCount, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.NameCount
	for rows.Next() {
		var nc models.NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, nc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
