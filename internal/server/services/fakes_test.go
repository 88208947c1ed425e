package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/interviewqs/backend/internal/common"
	"github.com/interviewqs/backend/internal/dbx"
	"github.com/interviewqs/backend/internal/logging"
	"github.com/interviewqs/backend/internal/server/models"
	"github.com/interviewqs/backend/internal/server/repositories/attachments"
	"github.com/interviewqs/backend/internal/server/repositories/comments"
	"github.com/interviewqs/backend/internal/server/repositories/posts"
	"github.com/interviewqs/backend/internal/server/repositories/users"
)

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l nopLogger) With(args ...any) logging.Logger                  { return l }

// plainHasher is a transparent stand-in for bcrypt so tests can stay fast
// and still exercise the hash-then-verify contract.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Verify(plain, hash string) bool { return hash == "hashed:"+plain }

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// fakeMailer records outgoing mail instead of dialing SMTP.
type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// fakeCleaner replaces the word "ugly" so tests can observe that censoring
// ran.
type fakeCleaner struct{}

func (fakeCleaner) Censor(text string) string {
	return strings.ReplaceAll(text, "ugly", "****")
}

type fakePostsRepo struct {
	store  map[int64]*models.Post
	nextID int64
}

func newFakePostsRepo() *fakePostsRepo {
	return &fakePostsRepo{store: map[int64]*models.Post{}}
}

func (r *fakePostsRepo) Create(ctx context.Context, post *models.Post) (int64, error) {
	r.nextID++
	p := *post
	p.ID = r.nextID
	r.store[p.ID] = &p
	return p.ID, nil
}

func (r *fakePostsRepo) Get(ctx context.Context, id int64) (*models.Post, error) {
	p, ok := r.store[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostsRepo) GetPublished(ctx context.Context, id int64) (*models.Post, error) {
	p, ok := r.store[id]
	if !ok || p.Status != models.StatusPublished {
		return nil, common.ErrorNotFound
	}
	cp := *p
	cp.PinHash = ""
	return &cp, nil
}

func (r *fakePostsRepo) IncrementViews(ctx context.Context, id int64) (int64, error) {
	p, ok := r.store[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	p.Views++
	return p.Views, nil
}

func (r *fakePostsRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	p, ok := r.store[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.Status = status
	return nil
}

func (r *fakePostsRepo) UpdatePatch(ctx context.Context, id int64, patch models.PostPatch) error {
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

func (r *fakePostsRepo) List(ctx context.Context, filter posts.Filter, q models.ListQuery) ([]*models.Post, error) {
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
	return result, nil
}

func (r *fakePostsRepo) Companies(ctx context.Context) ([]string, error) {
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
	return result, nil
}

func (r *fakePostsRepo) Positions(ctx context.Context) ([]string, error) {
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
	return result, nil
}

func (r *fakePostsRepo) CompanyStats(ctx context.Context) ([]models.NameCount, error) {
	counts := map[string]int64{}
	for _, p := range r.store {
		counts[p.Company]++
	}
	var result []models.NameCount
	for name, count := range counts {
		result = append(result, models.NameCount{Name: name, Count: count})
	}
	return result, nil
}

func (r *fakePostsRepo) PositionStats(ctx context.Context) ([]models.NameCount, error) {
	counts := map[string]int64{}
	for _, p := range r.store {
		counts[p.Position]++
	}
	var result []models.NameCount
	for name, count := range counts {
		result = append(result, models.NameCount{Name: name, Count: count})
	}
	return result, nil
}

type fakeCommentsRepo struct {
	store  map[int64]*models.Comment
	nextID int64
}

func newFakeCommentsRepo() *fakeCommentsRepo {
	return &fakeCommentsRepo{store: map[int64]*models.Comment{}}
}

func (r *fakeCommentsRepo) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	r.nextID++
	c := *comment
	c.ID = r.nextID
	r.store[c.ID] = &c
	return c.ID, nil
}

func (r *fakeCommentsRepo) Get(ctx context.Context, id int64) (*models.Comment, error) {
	c, ok := r.store[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentsRepo) GetPublished(ctx context.Context, id int64) (*models.Comment, error) {
	c, ok := r.store[id]
	if !ok || c.Status != models.StatusPublished {
		return nil, common.ErrorNotFound
	}
	cp := *c
	cp.PinHash = ""
	return &cp, nil
}

func (r *fakeCommentsRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	c, ok := r.store[id]
	if !ok {
		return common.ErrorNotFound
	}
	c.Status = status
	return nil
}

func (r *fakeCommentsRepo) UpdatePatch(ctx context.Context, id int64, patch models.CommentPatch) error {
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

func (r *fakeCommentsRepo) ListByPost(ctx context.Context, postID int64, solutionsOnly bool, q models.ListQuery) ([]*models.Comment, error) {
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
	return result, nil
}

type fakeUsersRepo struct {
	store map[string]*models.User
	ips   map[string][]string
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{store: map[string]*models.User{}, ips: map[string][]string{}}
}

func (r *fakeUsersRepo) Create(ctx context.Context, email, ip string) error {
	r.store[email] = &models.User{
		Email:        email,
		Pin:          common.SentinelNull,
		RefreshToken: common.SentinelNull,
	}
	r.ips[email] = []string{ip}
	return nil
}

func (r *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.store[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsersRepo) UpdatePin(ctx context.Context, email, pin string) error {
	u, ok := r.store[email]
	if !ok {
		return common.ErrorNotFound
	}
	u.Pin = pin
	return nil
}

func (r *fakeUsersRepo) AppendIP(ctx context.Context, email, ip string) error {
	r.ips[email] = append(r.ips[email], ip)
	return nil
}

func (r *fakeUsersRepo) SetRefreshToken(ctx context.Context, email, token string) error {
	u, ok := r.store[email]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *fakeUsersRepo) RotateRefreshToken(ctx context.Context, email, old, new string) error {
	u, ok := r.store[email]
	if !ok || u.RefreshToken != old {
		return common.ErrRefreshTokenRevoked
	}
	u.RefreshToken = new
	return nil
}

func (r *fakeUsersRepo) ClearRefreshTokenByValue(ctx context.Context, token string) error {
	for _, u := range r.store {
		if u.RefreshToken == token {
			u.RefreshToken = common.SentinelNull
		}
	}
	return nil
}

type fakeAttachmentsRepo struct {
	store  map[int64]*models.Attachment
	nextID int64
}

func newFakeAttachmentsRepo() *fakeAttachmentsRepo {
	return &fakeAttachmentsRepo{store: map[int64]*models.Attachment{}}
}

func (r *fakeAttachmentsRepo) Create(ctx context.Context, a *models.Attachment) (int64, error) {
	r.nextID++
	cp := *a
	cp.ID = r.nextID
	r.store[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeAttachmentsRepo) ListByPost(ctx context.Context, postID int64) ([]*models.Attachment, error) {
	var result []*models.Attachment
	for _, a := range r.store {
		if a.PostID == postID {
			cp := *a
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *fakeAttachmentsRepo) DeleteByPost(ctx context.Context, postID int64) ([]string, error) {
	var keys []string
	for id, a := range r.store {
		if a.PostID == postID {
			keys = append(keys, a.StorageKey)
			delete(r.store, id)
		}
	}
	return keys, nil
}

func publishedPost() *models.Post {
	return &models.Post{
		Title:         "Rough system design round",
		InterviewDate: "01/15/2026",
		Company:       "Acme",
		Position:      "Backend Engineer",
		Status:        models.StatusPublished,
		PinHash:       "hashed:some-pin",
		CreateDate:    "01/20/2026",
	}
}

func attachmentRow(postID int64, key string) *models.Attachment {
	return &models.Attachment{
		PostID:     postID,
		StorageKey: key,
		URL:        "http://s3/attachments/" + key,
		CreateDate: "01/20/2026",
	}
}

// fakeRepoManager vends the in-memory fakes regardless of the handle passed
// in, which also covers the transactional paths.
type fakeRepoManager struct {
	posts       *fakePostsRepo
	comments    *fakeCommentsRepo
	users       *fakeUsersRepo
	attachments *fakeAttachmentsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		posts:       newFakePostsRepo(),
		comments:    newFakeCommentsRepo(),
		users:       newFakeUsersRepo(),
		attachments: newFakeAttachmentsRepo(),
	}
}

func (m *fakeRepoManager) Posts(db dbx.DBTX) posts.Repository                { return m.posts }
func (m *fakeRepoManager) Comments(db dbx.DBTX) comments.Repository          { return m.comments }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                { return m.users }
func (m *fakeRepoManager) Attachments(db dbx.DBTX) attachments.Repository    { return m.attachments }
func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
