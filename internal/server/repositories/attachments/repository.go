// Package attachments declares the repository contract for post file
// attachments.
package attachments

import (
	"context"

	"github.com/interviewqs/backend/internal/server/models"
)

// Repository defines persistence operations for attachment metadata. The
// blobs themselves live in object storage.
type Repository interface {
	// Create records an uploaded file for a post.
	Create(ctx context.Context, a *models.Attachment) (int64, error)

	// ListByPost returns all attachments of a post.
	ListByPost(ctx context.Context, postID int64) ([]*models.Attachment, error)

	// DeleteByPost removes all attachment rows of a post and returns the
	// storage keys of the removed blobs so the caller can clean up object
	// storage.
	DeleteByPost(ctx context.Context, postID int64) ([]string, error)
}
