// Package comments declares the repository contract for post comments.
package comments

import (
	"context"

	"github.com/interviewqs/backend/internal/server/models"
)

// Repository defines persistence operations for comments.
type Repository interface {
	// Create inserts a new comment row and returns the assigned id.
	Create(ctx context.Context, comment *models.Comment) (int64, error)

	// Get returns a comment regardless of status, including its pin hash.
	// Only the ownership verification path may use it.
	Get(ctx context.Context, id int64) (*models.Comment, error)

	// GetPublished returns the public projection of a published comment.
	GetPublished(ctx context.Context, id int64) (*models.Comment, error)

	// UpdateStatus transitions a comment's status.
	UpdateStatus(ctx context.Context, id int64, status string) error

	// UpdatePatch applies a sparse patch (body and/or solution flag).
	UpdatePatch(ctx context.Context, id int64, patch models.CommentPatch) error

	// ListByPost returns the published comments of a post, paged by q and
	// ordered by create date. With solutionsOnly, only comments marked as
	// solutions are returned.
	ListByPost(ctx context.Context, postID int64, solutionsOnly bool, q models.ListQuery) ([]*models.Comment, error)
}
