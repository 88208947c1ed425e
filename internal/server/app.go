// Package server initializes and runs the main application server: it opens
// the database, runs migrations, wires services, and starts the HTTP server
// with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	goaway "github.com/TwiN/go-away"

	"github.com/interviewqs/backend/internal/logging"
	"github.com/interviewqs/backend/internal/server/config"
	"github.com/interviewqs/backend/internal/server/httpapi"
	"github.com/interviewqs/backend/internal/server/mail"
	"github.com/interviewqs/backend/internal/server/pin"
	"github.com/interviewqs/backend/internal/server/repositories/repomanager"
	"github.com/interviewqs/backend/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	// Stateless collaborators constructed once and injected everywhere.
	hasher := pin.NewBcryptHasher(pin.Cost)
	cleaner := goaway.NewProfanityDetector()
	mailer := mail.NewSMTPDispatcher(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)

	sessions := services.NewSessionService(db, rm, mailer, logger, cfg)
	posts := services.NewPostService(db, rm, hasher, cleaner, mailer, logger)
	comments := services.NewCommentService(db, rm, hasher, cleaner, mailer, logger)
	attachments := services.NewAttachmentService(db, rm, posts, cfg, logger)

	srv := httpapi.NewServer(cfg, logger, sessions, posts, comments, attachments)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
