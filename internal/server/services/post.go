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
	"github.com/interviewqs/backend/internal/server/repositories/posts"
	"github.com/interviewqs/backend/internal/server/repositories/repomanager"
)

// PostDraft carries the fields required to publish a new post.
type PostDraft struct {
	Title         string
	InterviewDate string
	Company       string
	Position      string
	Body          string
}

// PostService implements pin-based ownership for posts: it issues a one-time
// admin pin at creation, stores only its hash, and verifies a presented pin
// before any mutation or deletion.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      pin.Hasher
	cleaner     Cleaner
	mailer      mail.Dispatcher
	logger      logging.Logger
}

// NewPostService constructs a PostService with its collaborators injected.
func NewPostService(db *sql.DB, m repomanager.RepositoryManager, hasher pin.Hasher, cleaner Cleaner, mailer mail.Dispatcher, logger logging.Logger) *PostService {
	return &PostService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		cleaner:     cleaner,
		mailer:      mailer,
		logger:      logger.With("module", "post_service"),
	}
}

// Create publishes a new post. It generates the admin pin, persists the post
// with the pin's bcrypt hash, and only then emails the plaintext pin to
// userEmail. The plaintext is never stored or logged; if the email cannot be
// sent the post stays published but permanently unowned.
func (s *PostService) Create(ctx context.Context, draft PostDraft, userEmail string) (int64, error) {
	if draft.Title == "" || draft.InterviewDate == "" || draft.Company == "" || draft.Position == "" {
		return 0, common.ErrorValidation
	}

	post := &models.Post{
		Title:         s.cleaner.Censor(draft.Title),
		InterviewDate: draft.InterviewDate,
		Company:       s.cleaner.Censor(draft.Company),
		Position:      s.cleaner.Censor(draft.Position),
		Status:        models.StatusPublished,
		CreateDate:    today(),
	}
	if draft.Body != "" {
		post.Body = s.cleaner.Censor(draft.Body)
	}

	plainPin, err := pin.Generate(pin.Length)
	if err != nil {
		return 0, common.ErrorInternal
	}
	post.PinHash, err = s.hasher.Hash(plainPin)
	if err != nil {
		return 0, common.ErrorInternal
	}

	// The hash must be durable before the plaintext leaves through the mail
	// channel.
	repo := s.repomanager.Posts(s.db)
	id, err := repo.Create(ctx, post)
	if err != nil {
		s.logger.Error(ctx, "create post", "error", err.Error())
		return 0, common.ErrorInternal
	}

	subject := "Post Published - Your Admin PIN is Here!"
	body := fmt.Sprintf("Your post is published, please use this PIN to edit or delete your post in the future!\nPost Title: %s\nPost PIN: %s", post.Title, plainPin)
	if err := s.mailer.Send(ctx, userEmail, subject, body); err != nil {
		s.logger.Error(ctx, "send post pin email", "error", err.Error())
		return 0, common.ErrorInternal
	}

	return id, nil
}

// Get returns the public projection of a published post and counts the view.
func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	if id == 0 {
		return nil, common.ErrorValidation
	}
	repo := s.repomanager.Posts(s.db)
	post, err := repo.GetPublished(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		s.logger.Error(ctx, "get post", "error", err.Error())
		return nil, common.ErrorInternal
	}
	views, err := repo.IncrementViews(ctx, id)
	if err != nil {
		s.logger.Error(ctx, "increment post views", "error", err.Error())
		return nil, common.ErrorInternal
	}
	post.Views = views
	return post, nil
}

// VerifyPin fetches the stored hash for a post and compares the presented
// pin against it in a single step. It returns ErrorNotFound when the post
// does not exist and ErrorUnauthorized on a mismatch. The stored status is
// deliberately ignored: a correct pin keeps working on deleted rows.
func (s *PostService) VerifyPin(ctx context.Context, id int64, presented string) error {
	if id == 0 || presented == "" {
		return common.ErrorValidation
	}
	repo := s.repomanager.Posts(s.db)
	post, err := repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		s.logger.Error(ctx, "fetch post for pin check", "error", err.Error())
		return common.ErrorInternal
	}
	if !s.hasher.Verify(presented, post.PinHash) {
		return common.ErrorUnauthorized
	}
	return nil
}

// Update applies a sparse patch after verifying the pin: only non-empty
// patch fields are written, the rest stay untouched.
func (s *PostService) Update(ctx context.Context, id int64, presented string, patch models.PostPatch) error {
	if err := s.VerifyPin(ctx, id, presented); err != nil {
		return err
	}

	patch.Title = censorIfSet(s.cleaner, patch.Title)
	patch.Company = censorIfSet(s.cleaner, patch.Company)
	patch.Position = censorIfSet(s.cleaner, patch.Position)
	patch.Body = censorIfSet(s.cleaner, patch.Body)

	repo := s.repomanager.Posts(s.db)
	if err := repo.UpdatePatch(ctx, id, patch); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		s.logger.Error(ctx, "update post", "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}

// Delete transitions the post to deleted after verifying the pin. The write
// is idempotent; repeating the call with the correct pin succeeds again.
func (s *PostService) Delete(ctx context.Context, id int64, presented string) error {
	if err := s.VerifyPin(ctx, id, presented); err != nil {
		return err
	}
	repo := s.repomanager.Posts(s.db)
	if err := repo.UpdateStatus(ctx, id, models.StatusDeleted); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		s.logger.Error(ctx, "delete post", "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}

// List returns published posts matching filter ordered per q.
func (s *PostService) List(ctx context.Context, filter posts.Filter, q models.ListQuery) ([]*models.Post, error) {
	if err := validateListQuery(q, true); err != nil {
		return nil, err
	}
	repo := s.repomanager.Posts(s.db)
	result, err := repo.List(ctx, filter, q)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		s.logger.Error(ctx, "list posts", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Companies returns the distinct companies with published posts.
func (s *PostService) Companies(ctx context.Context) ([]string, error) {
	result, err := s.repomanager.Posts(s.db).Companies(ctx)
	if err != nil {
		s.logger.Error(ctx, "list companies", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Positions returns the distinct positions with published posts.
func (s *PostService) Positions(ctx context.Context) ([]string, error) {
	result, err := s.repomanager.Posts(s.db).Positions(ctx)
	if err != nil {
		s.logger.Error(ctx, "list positions", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return result, nil
}

// CompanyStats returns post counts per company, most posts first.
func (s *PostService) CompanyStats(ctx context.Context) ([]models.NameCount, error) {
	result, err := s.repomanager.Posts(s.db).CompanyStats(ctx)
	if err != nil {
		s.logger.Error(ctx, "company stats", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return result, nil
}

// PositionStats returns post counts per position, most posts first.
func (s *PostService) PositionStats(ctx context.Context) ([]models.NameCount, error) {
	result, err := s.repomanager.Posts(s.db).PositionStats(ctx)
	if err != nil {
		s.logger.Error(ctx, "position stats", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return result, nil
}

func censorIfSet(c Cleaner, v string) string {
	if v == "" {
		return ""
	}
	return c.Censor(v)
}
