package httpapi

import (
	"context"
	"database/sql"
	"sort"

	"github.com/interviewqs/backend/internal/common"
	"github.com/interviewqs/backend/internal/dbx"
	"github.com/interviewqs/backend/internal/logging"
	"github.com/interviewqs/backend/internal/server/models"
	"github.com/interviewqs/backend/internal/server/repositories/attachments"
	"github.com/interviewqs/backend/internal/server/repositories/comments"
	"github.com/interviewqs/backend/internal/server/repositories/posts"
	"github.com/interviewqs/backend/internal/server/repositories/users"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l nopLogger) With(args ...any) logging.Logger                  { return l }

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// plainHasher keeps the hash-then-verify contract without bcrypt's cost.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Verify(plain, hash string) bool { return hash == "hashed:"+plain }

type passCleaner struct{}

func (passCleaner) Censor(text string) string { return text }

type memPostsRepo struct {
	store  map[int64]*models.Post
	nextID int64
}

func (r *memPostsRepo) Create(ctx context.Context, post *models.Post) (int64, error) {
	r.nextID++
	p := *post
	p.ID = r.nextID
	r.store[p.ID] = &p
	return p.ID, nil
}

func (r *memPostsRepo) Get(ctx context.Context, id int64) (*models.Post, error) {
	p, ok := r.store[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPostsRepo) GetPublished(ctx context.Context, id int64) (*models.Post, error) {
	p, ok := r.store[id]
	if !ok || p.Status != models.StatusPublished {
		return nil, common.ErrorNotFound
	}
	cp := *p
	cp.PinHash = ""
	return &cp, nil
}

func (r *memPostsRepo) IncrementViews(ctx context.Context, id int64) (int64, error) {
	p, ok := r.store[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	p.Views++
	return p.Views, nil
}

func (r *memPostsRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	p, ok := r.store[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.Status = status
	return nil
}

func (r *memPostsRepo) UpdatePatch(ctx context.Context, id int64, patch models.PostPatch) error {
	p, ok := r.store[id]
	if !ok {
		return common.ErrorNotFound
	}
	if patch.Title != "" {
		p.Title = patch.Title
	}
	if patch.Company != "" {
		p.Company = patch.Company
	}
	if patch.Position != "" {
		p.Position = patch.Position
	}
	if patch.Body != "" {
		p.Body = patch.Body
	}
	if patch.InterviewDate != "" {
		p.InterviewDate = patch.InterviewDate
	}
	return nil
}

func (r *memPostsRepo) List(ctx context.Context, filter posts.Filter, q models.ListQuery) ([]*models.Post, error) {
	var result []*models.Post
	for _, p := range r.store {
		if p.Status != models.StatusPublished {
			continue
		}
		if filter.Company != "" && p.Company != filter.Company {
			continue
		}
		if filter.Position != "" && p.Position != filter.Position {
			continue
		}
		cp := *p
		cp.PinHash = ""
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *memPostsRepo) Companies(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var result []string
	for _, p := range r.store {
		if p.Status != models.StatusPublished {
			continue
		}
		if _, ok := seen[p.Company]; !ok {
			seen[p.Company] = struct{}{}
			result = append(result, p.Company)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (r *memPostsRepo) Positions(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var result []string
	for _, p := range r.store {
		if p.Status != models.StatusPublished {
			continue
		}
		if _, ok := seen[p.Position]; !ok {
			seen[p.Position] = struct{}{}
			result = append(result, p.Position)
		}
	}
	sort.Strings(result)
	return result, nil
}

func (r *memPostsRepo) CompanyStats(ctx context.Context) ([]models.NameCount, error) {
	counts := map[string]int64{}
	for _, p := range r.store {
		counts[p.Company]++
	}
	var result []models.NameCount
	for name, count := range counts {
		result = append(result, models.NameCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result, nil
}

func (r *memPostsRepo) PositionStats(ctx context.Context) ([]models.NameCount, error) {
	counts := map[string]int64{}
	for _, p := range r.store {
		counts[p.Position]++
	}
	var result []models.NameCount
	for name, count := range counts {
		result = append(result, models.NameCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result, nil
}

type memCommentsRepo struct {
	store  map[int64]*models.Comment
	nextID int64
}

func (r *memCommentsRepo) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	r.nextID++
	c := *comment
	c.ID = r.nextID
	r.store[c.ID] = &c
	return c.ID, nil
}

func (r *memCommentsRepo) Get(ctx context.Context, id int64) (*models.Comment, error) {
	c, ok := r.store[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCommentsRepo) GetPublished(ctx context.Context, id int64) (*models.Comment, error) {
	c, ok := r.store[id]
	if !ok || c.Status != models.StatusPublished {
		return nil, common.ErrorNotFound
	}
	cp := *c
	cp.PinHash = ""
	return &cp, nil
}

func (r *memCommentsRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	c, ok := r.store[id]
	if !ok {
		return common.ErrorNotFound
	}
	c.Status = status
	return nil
}

func (r *memCommentsRepo) UpdatePatch(ctx context.Context, id int64, patch models.CommentPatch) error {
	c, ok := r.store[id]
	if !ok {
		return common.ErrorNotFound
	}
	if patch.Body != "" {
		c.Body = patch.Body
	}
	if patch.Solution != nil {
		c.Solution = *patch.Solution
	}
	return nil
}

func (r *memCommentsRepo) ListByPost(ctx context.Context, postID int64, solutionsOnly bool, q models.ListQuery) ([]*models.Comment, error) {
	var result []*models.Comment
	for _, c := range r.store {
		if c.PostID != postID || c.Status != models.StatusPublished {
			continue
		}
		if solutionsOnly && !c.Solution {
			continue
		}
		cp := *c
		cp.PinHash = ""
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type memUsersRepo struct {
	store map[string]*models.User
}

func (r *memUsersRepo) Create(ctx context.Context, email, ip string) error {
	r.store[email] = &models.User{
		Email:        email,
		Pin:          common.SentinelNull,
		RefreshToken: common.SentinelNull,
	}
	return nil
}

func (r *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.store[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsersRepo) UpdatePin(ctx context.Context, email, pin string) error {
	u, ok := r.store[email]
	if !ok {
		return common.ErrorNotFound
	}
	u.Pin = pin
	return nil
}

func (r *memUsersRepo) AppendIP(ctx context.Context, email, ip string) error { return nil }

func (r *memUsersRepo) SetRefreshToken(ctx context.Context, email, token string) error {
	u, ok := r.store[email]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *memUsersRepo) RotateRefreshToken(ctx context.Context, email, old, new string) error {
	u, ok := r.store[email]
	if !ok || u.RefreshToken != old {
		return common.ErrRefreshTokenRevoked
	}
	u.RefreshToken = new
	return nil
}

func (r *memUsersRepo) ClearRefreshTokenByValue(ctx context.Context, token string) error {
	for _, u := range r.store {
		if u.RefreshToken == token {
			u.RefreshToken = common.SentinelNull
		}
	}
	return nil
}

type memAttachmentsRepo struct {
	store  map[int64]*models.Attachment
	nextID int64
}

func (r *memAttachmentsRepo) Create(ctx context.Context, a *models.Attachment) (int64, error) {
	r.nextID++
	cp := *a
	cp.ID = r.nextID
	r.store[cp.ID] = &cp
	return cp.ID, nil
}

func (r *memAttachmentsRepo) ListByPost(ctx context.Context, postID int64) ([]*models.Attachment, error) {
	var result []*models.Attachment
	for _, a := range r.store {
		if a.PostID == postID {
			cp := *a
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *memAttachmentsRepo) DeleteByPost(ctx context.Context, postID int64) ([]string, error) {
	var keys []string
	for id, a := range r.store {
		if a.PostID == postID {
			keys = append(keys, a.StorageKey)
			delete(r.store, id)
		}
	}
	return keys, nil
}

type memRepoManager struct {
	posts       *memPostsRepo
	comments    *memCommentsRepo
	users       *memUsersRepo
	attachments *memAttachmentsRepo
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		posts:       &memPostsRepo{store: map[int64]*models.Post{}},
		comments:    &memCommentsRepo{store: map[int64]*models.Comment{}},
		users:       &memUsersRepo{store: map[string]*models.User{}},
		attachments: &memAttachmentsRepo{store: map[int64]*models.Attachment{}},
	}
}

func (m *memRepoManager) Posts(db dbx.DBTX) posts.Repository                  { return m.posts }
func (m *memRepoManager) Comments(db dbx.DBTX) comments.Repository            { return m.comments }
func (m *memRepoManager) Users(db dbx.DBTX) users.Repository                  { return m.users }
func (m *memRepoManager) Attachments(db dbx.DBTX) attachments.Repository      { return m.attachments }
func (m *memRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
