package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/interviewqs/backend/internal/common"
	"github.com/interviewqs/backend/internal/dbx"
	"github.com/interviewqs/backend/internal/logging"
	"github.com/interviewqs/backend/internal/server/auth"
	"github.com/interviewqs/backend/internal/server/config"
	"github.com/interviewqs/backend/internal/server/mail"
	"github.com/interviewqs/backend/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh
// token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService runs the email+pin login flow and the rotating refresh
// token protocol. Per identity at most one refresh token is valid at a time;
// issuing a new one (on login or renewal) revokes the previous value.
type SessionService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	mailer                      mail.Dispatcher
	logger                      logging.Logger
	accessTokenSecret           []byte
	refreshTokenSecret          []byte
	pinTokenSecret              []byte
	accessTokenValidityDuration time.Duration
	loginPinValidityDuration    time.Duration
}

// NewSessionService constructs a SessionService using repositories and
// server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, mailer mail.Dispatcher, logger logging.Logger, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                          db,
		repomanager:                 m,
		mailer:                      mailer,
		logger:                      logger.With("module", "session_service"),
		accessTokenSecret:           []byte(cfg.AccessTokenSecret),
		refreshTokenSecret:          []byte(cfg.RefreshTokenSecret),
		pinTokenSecret:              []byte(cfg.PinTokenSecret),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		loginPinValidityDuration:    cfg.LoginPinValidityDuration,
	}
}

// RequestPin lazily registers the identity and emails it a fresh, time-boxed
// login pin. The pin token itself is persisted for later exact-match
// comparison: it is a revocable short-lived credential, not a long-lived
// secret, so hashing it would buy nothing.
func (s *SessionService) RequestPin(ctx context.Context, email, ip string) error {
	if email == "" || ip == "" {
		return common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		if err := repo.Create(ctx, email, ip); err != nil {
			s.logger.Error(ctx, "register identity", "error", err.Error())
			return common.ErrorInternal
		}
	case err != nil:
		s.logger.Error(ctx, "fetch identity", "error", err.Error())
		return common.ErrorInternal
	case user.Banned:
		return common.ErrorForbidden
	}

	pinToken, err := auth.GenerateToken(email, s.pinTokenSecret, s.loginPinValidityDuration)
	if err != nil {
		return common.ErrorInternal
	}
	if err := repo.UpdatePin(ctx, email, pinToken); err != nil {
		s.logger.Error(ctx, "store login pin", "error", err.Error())
		return common.ErrorInternal
	}

	subject := "Your PIN Verification is Here"
	body := fmt.Sprintf("PIN: %s", pinToken)
	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		s.logger.Error(ctx, "send login pin email", "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}

// Login validates the presented pin (signature, expiry, exact match against
// the stored value, and embedded email claim) and issues a fresh token pair.
// The stored pin is cleared in the same transaction that persists the
// refresh token, so a pin is usable exactly once.
func (s *SessionService) Login(ctx context.Context, email, presentedPin, ip string) (*TokenPair, error) {
	if email == "" || presentedPin == "" || ip == "" {
		return nil, common.ErrorValidation
	}

	claimEmail, err := auth.GetEmailFromToken(presentedPin, s.pinTokenSecret)
	if err != nil || claimEmail != email {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "fetch identity", "error", err.Error())
		return nil, common.ErrorInternal
	}
	if user.Banned {
		return nil, common.ErrorForbidden
	}
	if user.Pin == common.SentinelNull || presentedPin == common.SentinelNull {
		return nil, common.ErrorUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(user.Pin), []byte(presentedPin)) != 1 {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(email)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Users(tx)
		if err := repoTx.SetRefreshToken(ctx, email, pair.RefreshToken); err != nil {
			return err
		}
		if err := repoTx.AppendIP(ctx, email, ip); err != nil {
			return err
		}
		return repoTx.UpdatePin(ctx, email, common.SentinelNull)
	}); err != nil {
		s.logger.Error(ctx, "persist login", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// Renew rotates the refresh token: both presented tokens must be valid,
// carry the same email, and the refresh token must still be the one on file.
// The conditional store update makes concurrent renewals race for a single
// winner; the loser fails Unauthorized rather than reusing a stale token.
func (s *SessionService) Renew(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	if accessToken == "" || refreshToken == "" {
		return nil, common.ErrorValidation
	}

	accessEmail, err := auth.GetEmailFromToken(accessToken, s.accessTokenSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	refreshEmail, err := auth.GetEmailFromToken(refreshToken, s.refreshTokenSecret)
	if err != nil || refreshEmail != accessEmail {
		return nil, common.ErrorUnauthorized
	}

	return s.rotate(ctx, refreshEmail, refreshToken)
}

// RenewByCookie rotates the refresh token presented via the HTTP-only
// cookie, without requiring an access token.
func (s *SessionService) RenewByCookie(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrorValidation
	}
	refreshEmail, err := auth.GetEmailFromToken(refreshToken, s.refreshTokenSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	return s.rotate(ctx, refreshEmail, refreshToken)
}

func (s *SessionService) rotate(ctx context.Context, email, presented string) (*TokenPair, error) {
	if presented == common.SentinelNull {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(email)
	if err != nil {
		return nil, common.ErrorInternal
	}

	err = s.repomanager.Users(s.db).RotateRefreshToken(ctx, email, presented, pair.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenRevoked) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "rotate refresh token", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return pair, nil
}

// Logout revokes the presented refresh token. Both tokens must be valid and
// agree on the identity.
func (s *SessionService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken == "" || refreshToken == "" {
		return common.ErrorValidation
	}

	accessEmail, err := auth.GetEmailFromToken(accessToken, s.accessTokenSecret)
	if err != nil {
		return common.ErrorUnauthorized
	}
	refreshEmail, err := auth.GetEmailFromToken(refreshToken, s.refreshTokenSecret)
	if err != nil || refreshEmail != accessEmail {
		return common.ErrorUnauthorized
	}

	if err := s.repomanager.Users(s.db).ClearRefreshTokenByValue(ctx, refreshToken); err != nil {
		s.logger.Error(ctx, "clear refresh token", "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}

// Verify is the stateless authorization gate: it checks the access token's
// signature and expiry without a store lookup and returns the identity's
// email.
func (s *SessionService) Verify(accessToken string) (string, error) {
	if accessToken == "" {
		return "", common.ErrorValidation
	}
	email, err := auth.GetEmailFromToken(accessToken, s.accessTokenSecret)
	if err != nil {
		return "", common.ErrorUnauthorized
	}
	return email, nil
}

func (s *SessionService) generateTokenPair(email string) (*TokenPair, error) {
	access, err := auth.GenerateToken(email, s.accessTokenSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateUnexpiringToken(email, s.refreshTokenSecret)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
