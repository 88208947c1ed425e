// Package httpapi exposes the REST surface: chi routing, the uniform
// data/error envelopes, and the bearer/pin gates in front of the services.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/interviewqs/backend/internal/logging"
	"github.com/interviewqs/backend/internal/server/config"
	"github.com/interviewqs/backend/internal/server/services"
)

// Server wires the HTTP surface to the services.
type Server struct {
	addr        string
	logger      logging.Logger
	sessions    *services.SessionService
	posts       *services.PostService
	comments    *services.CommentService
	attachments *services.AttachmentService
	cookieAge   time.Duration
}

// NewServer constructs a Server from the service layer and config.
func NewServer(cfg *config.Config, l logging.Logger, sessions *services.SessionService, posts *services.PostService, comments *services.CommentService, attachments *services.AttachmentService) *Server {
	return &Server{
		addr:        cfg.EndpointAddrHTTP,
		logger:      l.With("module", "http_server"),
		sessions:    sessions,
		posts:       posts,
		comments:    comments,
		attachments: attachments,
		cookieAge:   cfg.RefreshCookieMaxAge,
	}
}

// Router builds the chi routing tree. Recoverer keeps one panicking request
// from taking the process down; every other request keeps being served.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleGreeting)
	r.Get("/ping", s.handlePing)
	r.Get("/version", s.handleVersion)

	// Session flow.
	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Post("/renewtoken", s.handleRenewToken)
	r.Post("/renewtokenbycookie", s.handleRenewTokenByCookie)

	// Posts.
	r.With(s.requireAuth).Post("/posts", s.handleCreatePost)
	r.Get("/posts/{postID}", s.handleGetPost)
	r.Put("/posts", s.handleUpdatePost)
	r.Delete("/posts", s.handleDeletePost)
	r.Post("/deletePost/{postID}", s.handleDeletePostByPath)
	r.Post("/posts/all", s.handleListPosts)
	r.Post("/posts/company", s.handleListCompanyPosts)
	r.Post("/posts/position", s.handleListPositionPosts)
	r.Post("/posts/position/company", s.handleListPositionCompanyPosts)
	r.Get("/companies", s.handleCompanies)
	r.Get("/positions", s.handlePositions)

	// Comments.
	r.With(s.requireAuth).Post("/comments", s.handleCreateComment)
	r.Get("/comments/{commentID}", s.handleGetComment)
	r.Put("/comments", s.handleUpdateComment)
	r.Delete("/comments", s.handleDeleteComment)
	r.Post("/comments/post", s.handleListPostComments)
	r.Post("/comments/post/solutions", s.handleListPostSolutions)

	// Attachments.
	r.With(s.requireAuth).Post("/files/post/{postID}", s.handleCreateUpload)
	r.Get("/files/post/{postID}", s.handleListFiles)
	r.Delete("/files/post/{postID}", s.handleDeleteFiles)

	// Stats.
	r.Get("/stats/companies", s.handleCompanyStats)
	r.Get("/stats/positions", s.handlePositionStats)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
