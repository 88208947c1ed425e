// Package repomanager declares the factory contract that vends repositories
// bound to a database handle or a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/interviewqs/backend/internal/dbx"
	"github.com/interviewqs/backend/internal/server/repositories/attachments"
	"github.com/interviewqs/backend/internal/server/repositories/comments"
	"github.com/interviewqs/backend/internal/server/repositories/posts"
	"github.com/interviewqs/backend/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to the provided DBTX, so that
// services can run a set of repository calls over one transaction.
type RepositoryManager interface {
	Posts(db dbx.DBTX) posts.Repository
	Comments(db dbx.DBTX) comments.Repository
	Users(db dbx.DBTX) users.Repository
	Attachments(db dbx.DBTX) attachments.Repository

	// RunMigrations brings the schema up to date.
	RunMigrations(ctx context.Context, db *sql.DB) error
}
