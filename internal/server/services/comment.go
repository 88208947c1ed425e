package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/interviewqs/backend/internal/common"
	"github.com/interviewqs/backend/internal/logging"
	"github.com/interviewqs/backend/internal/server/mail"
	"github.com/interviewqs/backend/internal/server/models"
	"github.com/interviewqs/backend/internal/server/pin"
	"github.com/interviewqs/backend/internal/server/repositories/repomanager"
)

// CommentService implements the same pin ownership model as posts, scoped to
// a published parent post.
type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      pin.Hasher
	cleaner     Cleaner
	mailer      mail.Dispatcher
	logger      logging.Logger
}

// NewCommentService constructs a CommentService with its collaborators
// injected.
func NewCommentService(db *sql.DB, m repomanager.RepositoryManager, hasher pin.Hasher, cleaner Cleaner, mailer mail.Dispatcher, logger logging.Logger) *CommentService {
	return &CommentService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		cleaner:     cleaner,
		mailer:      mailer,
		logger:      logger.With("module", "comment_service"),
	}
}

// Create publishes a comment on an existing published post. The generated
// admin pin is hashed before the insert and emailed to the authenticated
// creator afterwards, never returned over HTTP.
func (s *CommentService) Create(ctx context.Context, postID int64, body string, solution *bool, userEmail string) (int64, error) {
	if postID == 0 || body == "" || solution == nil {
		return 0, common.ErrorValidation
	}

	// The parent must exist and be readable.
	if _, err := s.repomanager.Posts(s.db).GetPublished(ctx, postID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, err
		}
		s.logger.Error(ctx, "fetch parent post", "error", err.Error())
		return 0, common.ErrorInternal
	}

	comment := &models.Comment{
		PostID:     postID,
		Body:       s.cleaner.Censor(body),
		Solution:   *solution,
		Status:     models.StatusPublished,
		CreateDate: today(),
	}

	plainPin, err := pin.Generate(pin.Length)
	if err != nil {
		return 0, common.ErrorInternal
	}
	comment.PinHash, err = s.hasher.Hash(plainPin)
	if err != nil {
		return 0, common.ErrorInternal
	}

	repo := s.repomanager.Comments(s.db)
	id, err := repo.Create(ctx, comment)
	if err != nil {
		s.logger.Error(ctx, "create comment", "error", err.Error())
		return 0, common.ErrorInternal
	}

	subject := "Comment Published - Your Admin PIN is Here!"
	mailBody := fmt.Sprintf("Your comment is published, please use this PIN to edit or delete your comment in the future!\nComment PIN: %s", plainPin)
	if err := s.mailer.Send(ctx, userEmail, subject, mailBody); err != nil {
		s.logger.Error(ctx, "send comment pin email", "error", err.Error())
		return 0, common.ErrorInternal
	}

	return id, nil
}

// Get returns the public projection of a published comment.
func (s *CommentService) Get(ctx context.Context, id int64) (*models.Comment, error) {
	if id == 0 {
		return nil, common.ErrorValidation
	}
	comment, err := s.repomanager.Comments(s.db).GetPublished(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		s.logger.Error(ctx, "get comment", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return comment, nil
}

// verifyPin fetches the stored hash and compares the presented pin in a
// single step, mirroring PostService.VerifyPin.
func (s *CommentService) verifyPin(ctx context.Context, id int64, presented string) error {
	if id == 0 || presented == "" {
		return common.ErrorValidation
	}
	comment, err := s.repomanager.Comments(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		s.logger.Error(ctx, "fetch comment for pin check", "error", err.Error())
		return common.ErrorInternal
	}
	if !s.hasher.Verify(presented, comment.PinHash) {
		return common.ErrorUnauthorized
	}
	return nil
}

// Update applies a sparse patch after verifying the pin.
func (s *CommentService) Update(ctx context.Context, id int64, presented string, patch models.CommentPatch) error {
	if err := s.verifyPin(ctx, id, presented); err != nil {
		return err
	}
	patch.Body = censorIfSet(s.cleaner, patch.Body)

	if err := s.repomanager.Comments(s.db).UpdatePatch(ctx, id, patch); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		s.logger.Error(ctx, "update comment", "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}

// Delete transitions the comment to deleted after verifying the pin.
func (s *CommentService) Delete(ctx context.Context, id int64, presented string) error {
	if err := s.verifyPin(ctx, id, presented); err != nil {
		return err
	}
	if err := s.repomanager.Comments(s.db).UpdateStatus(ctx, id, models.StatusDeleted); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		s.logger.Error(ctx, "delete comment", "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}

// ListByPost returns a page of the post's published comments, optionally
// only the ones marked as solutions.
func (s *CommentService) ListByPost(ctx context.Context, postID int64, solutionsOnly bool, q models.ListQuery) ([]*models.Comment, error) {
	if postID == 0 {
		return nil, common.ErrorValidation
	}
	if err := validateListQuery(q, false); err != nil {
		return nil, err
	}
	result, err := s.repomanager.Comments(s.db).ListByPost(ctx, postID, solutionsOnly, q)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		s.logger.Error(ctx, "list post comments", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return result, nil
}
