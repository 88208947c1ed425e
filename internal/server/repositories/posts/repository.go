// Package posts declares the repository contract for interview posts.
package posts

import (
	"context"

	"github.com/interviewqs/backend/internal/server/models"
)

// Filter narrows a listing to a company, a position, or both. Empty fields
// are ignored.
type Filter struct {
	Company  string
	Position string
}

// Repository defines persistence operations for posts.
type Repository interface {
	// Create inserts a new post row and returns the assigned id.
	Create(ctx context.Context, post *models.Post) (int64, error)

	// Get returns a post regardless of status, including its pin hash.
	// Only the ownership verification path may use it.
	Get(ctx context.Context, id int64) (*models.Post, error)

	// GetPublished returns the public projection of a published post. The
	// pin hash is never part of the projection.
	GetPublished(ctx context.Context, id int64) (*models.Post, error)

	// IncrementViews bumps the view counter and returns the new value.
	IncrementViews(ctx context.Context, id int64) (int64, error)

	// UpdateStatus transitions a post's status.
	UpdateStatus(ctx context.Context, id int64, status string) error

	// UpdatePatch applies a sparse patch. Fields absent from the patch are
	// left untouched. Implementations must build a parameterized statement.
	UpdatePatch(ctx context.Context, id int64, patch models.PostPatch) error

	// List returns published posts matching filter, ordered and paged by q.
	// The caller is responsible for validating q against the whitelists.
	List(ctx context.Context, filter Filter, q models.ListQuery) ([]*models.Post, error)

	// Companies and Positions return the distinct published values.
	Companies(ctx context.Context) ([]string, error)
	Positions(ctx context.Context) ([]string, error)

	// CompanyStats and PositionStats return post counts per distinct value.
	CompanyStats(ctx context.Context) ([]models.NameCount, error)
	PositionStats(ctx context.Context) ([]models.NameCount, error)
}
