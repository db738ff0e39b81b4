// Package auth implements the flow state machines of the service:
// login, register, logout, refresh, forgot/reset password, email
// verification, and the session-mode variants. The orchestrator owns no
// storage; it composes the stores it receives at construction.
package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/consolehq/auth-service/internal/logger"
	"github.com/consolehq/auth-service/internal/model"
	"github.com/consolehq/auth-service/internal/queue"
	"github.com/consolehq/auth-service/internal/repository"
	"github.com/consolehq/auth-service/internal/utils"
)

// Config carries the token parameters of the service. Loaded once at
// startup and treated as immutable afterwards.
type Config struct {
	JWTSecret    string
	Issuer       string
	Audience     string
	AccessTTLMin int           // access token TTL in minutes (default 24h)
	RefreshTTL   time.Duration // refresh token TTL (default 7 days)
	EphemeralTTL time.Duration // verify/reset token TTL (default 24h)
	SessionTTL   time.Duration // session token TTL (session mode)
	BcryptCost   int
}

// Deps bundles the orchestrator's collaborators.
type Deps struct {
	Users       UserStore
	Refresh     RefreshTokenStore
	Sessions    SessionStore
	Blacklist   BlacklistStore
	EmailTokens EmailTokenStore
	Mail        EmailSender
}

// Service is the auth orchestrator.
type Service struct {
	cfg         Config
	users       UserStore
	refresh     RefreshTokenStore
	sessions    SessionStore
	blacklist   BlacklistStore
	emailTokens EmailTokenStore
	mail        EmailSender
	log         *zap.Logger
}

// New builds a Service. All stores are required except Sessions (JWT
// mode) and Mail (emails degrade to log lines when nil).
func New(cfg Config, deps Deps) *Service {
	return &Service{
		cfg:         cfg,
		users:       deps.Users,
		refresh:     deps.Refresh,
		sessions:    deps.Sessions,
		blacklist:   deps.Blacklist,
		emailTokens: deps.EmailTokens,
		mail:        deps.Mail,
		log:         logger.Named("auth"),
	}
}

// TokenPair is the result of login, register and refresh: the user plus
// a fresh access/refresh token pair. The raw refresh token appears here
// once and is never recoverable afterwards.
type TokenPair struct {
	User         model.User
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

// Login verifies credentials and issues a token pair. An unknown email
// and a wrong password both come back as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.issuePair(ctx, u)
}

// Register creates a user with role "user", queues a verification
// email, and issues a token pair so the client is signed in right away.
// A missing verification email only degrades UX, so the send is best
// effort; the user row and the token pair are not.
func (s *Service) Register(ctx context.Context, name, email, password string) (TokenPair, error) {
	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return TokenPair{}, err
	}
	u, err := s.users.Create(ctx, name, email, hash, model.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return TokenPair{}, ErrEmailInUse
		}
		return TokenPair{}, err
	}
	if err := s.issueEmailToken(ctx, u, model.PurposeVerifyEmail); err != nil {
		s.log.Warn("verification token not issued", zap.Uint64("user_id", u.ID), zap.Error(err))
	}
	return s.issuePair(ctx, u)
}

// Logout revokes every refresh token of the user and blacklists the
// presented access token until its original expiry so it cannot be
// replayed. Always succeeds from the caller's perspective: storage
// errors are logged and swallowed, the client-side session is cleared
// regardless.
func (s *Service) Logout(ctx context.Context, userID uint64, rawAccessToken string, accessExp time.Time) {
	if err := s.refresh.RevokeAllForUser(ctx, userID); err != nil {
		s.log.Warn("logout: revoke refresh tokens failed", zap.Uint64("user_id", userID), zap.Error(err))
	}
	if rawAccessToken != "" {
		if err := s.blacklist.Add(ctx, utils.HashTokenRaw(rawAccessToken), accessExp); err != nil {
			s.log.Warn("logout: blacklist add failed", zap.Uint64("user_id", userID), zap.Error(err))
		}
	}
}

// Refresh exchanges a valid refresh token for a new pair. The presented
// token is revoked in the same storage operation that validates it
// (rotation-on-use): a stolen token is good for at most one exchange,
// and of two concurrent calls with the same token exactly one wins.
func (s *Service) Refresh(ctx context.Context, rawRefreshToken string) (TokenPair, error) {
	userID, err := s.refresh.Consume(ctx, utils.HashTokenRaw(rawRefreshToken))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrExpired):
			return TokenPair{}, ErrRefreshTokenExpired
		case errors.Is(err, repository.ErrNotFound):
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, err
	}
	return s.issuePair(ctx, u)
}

// ForgotPassword starts the reset flow. An unknown email silently
// succeeds: no error, no token, no observable difference for a caller
// probing which addresses exist.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.issueEmailToken(ctx, u, model.PurposeResetPassword)
}

// ResetPassword consumes a reset token and replaces the user's password
// hash. A used, unknown or expired token fails with
// ErrInvalidOrExpiredToken; consumption is single-use even under
// concurrent duplicate submissions.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	userID, err := s.emailTokens.Consume(ctx, model.PurposeResetPassword, utils.HashTokenRaw(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrExpired) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}
	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// VerifyEmail consumes a verification token and flips the user's
// email_verified flag.
func (s *Service) VerifyEmail(ctx context.Context, rawToken string) (model.User, error) {
	userID, err := s.emailTokens.Consume(ctx, model.PurposeVerifyEmail, utils.HashTokenRaw(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrExpired) {
			return model.User{}, ErrInvalidOrExpiredToken
		}
		return model.User{}, err
	}
	if err := s.users.MarkEmailVerified(ctx, userID); err != nil {
		return model.User{}, err
	}
	return s.users.GetByID(ctx, userID)
}

// ResendVerification issues a fresh verification token for the user,
// superseding any live one. Returns the raw token so the handler can
// echo it in dev environments. Fails with ErrAlreadyVerified when the
// address is already confirmed.
func (s *Service) ResendVerification(ctx context.Context, userID uint64) (string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}
	if u.EmailVerified {
		return "", ErrAlreadyVerified
	}
	tok, err := utils.NewOpaqueToken(utils.EmailTokenPrefix, s.cfg.EphemeralTTL)
	if err != nil {
		return "", err
	}
	if err := s.emailTokens.Create(ctx, u.ID, model.PurposeVerifyEmail, utils.HashTokenRaw(tok.Raw), tok.Exp); err != nil {
		return "", err
	}
	s.sendEmail(ctx, u.Email, model.PurposeVerifyEmail, tok.Raw)
	return tok.Raw, nil
}

// Profile loads the authenticated user.
func (s *Service) Profile(ctx context.Context, userID uint64) (model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUnauthorized
		}
		return model.User{}, err
	}
	return u, nil
}

// SessionLogin is the non-JWT variant of Login: one opaque session
// token is the sole bearer credential.
func (s *Service) SessionLogin(ctx context.Context, email, password string) (model.User, utils.OpaqueToken, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, utils.OpaqueToken{}, ErrInvalidCredentials
		}
		return model.User{}, utils.OpaqueToken{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, utils.OpaqueToken{}, ErrInvalidCredentials
	}
	tok, err := utils.NewOpaqueToken(utils.SessionTokenPrefix, s.cfg.SessionTTL)
	if err != nil {
		return model.User{}, utils.OpaqueToken{}, err
	}
	if err := s.sessions.Create(ctx, u.ID, utils.HashTokenRaw(tok.Raw), tok.Exp); err != nil {
		return model.User{}, utils.OpaqueToken{}, err
	}
	return u, tok, nil
}

// SessionLogout deletes the presented session. Best effort, like
// Logout: errors are logged, the client is logged out regardless.
func (s *Service) SessionLogout(ctx context.Context, rawToken string) {
	if err := s.sessions.Delete(ctx, utils.HashTokenRaw(rawToken)); err != nil {
		s.log.Warn("session logout: delete failed", zap.Error(err))
	}
}

// SessionUser resolves a session token to its user via a store-backed
// lookup only; the token string itself is opaque.
func (s *Service) SessionUser(ctx context.Context, rawToken string) (model.User, error) {
	userID, err := s.sessions.Lookup(ctx, utils.HashTokenRaw(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrExpired) {
			return model.User{}, ErrUnauthorized
		}
		return model.User{}, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUnauthorized
		}
		return model.User{}, err
	}
	return u, nil
}

// issuePair mints an access token and a fresh refresh token for u and
// persists the refresh token's hash.
func (s *Service) issuePair(ctx context.Context, u model.User) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, s.cfg.Issuer, s.cfg.Audience, u, s.cfg.AccessTTLMin)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := utils.NewOpaqueToken(utils.RefreshTokenPrefix, s.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.refresh.Store(ctx, u.ID, utils.HashTokenRaw(refresh.Raw), refresh.Exp); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		User:         u,
		AccessToken:  access.Token,
		AccessExp:    access.Exp,
		RefreshToken: refresh.Raw,
		RefreshExp:   refresh.Exp,
	}, nil
}

// issueEmailToken mints and stores an ephemeral token for the purpose,
// then hands the send off to the mail side.
func (s *Service) issueEmailToken(ctx context.Context, u model.User, purpose string) error {
	tok, err := utils.NewOpaqueToken(utils.EmailTokenPrefix, s.cfg.EphemeralTTL)
	if err != nil {
		return err
	}
	if err := s.emailTokens.Create(ctx, u.ID, purpose, utils.HashTokenRaw(tok.Raw), tok.Exp); err != nil {
		return err
	}
	s.sendEmail(ctx, u.Email, purpose, tok.Raw)
	return nil
}

// sendEmail publishes an outbound email event. Delivery is never load
// bearing: on publish failure (or when no sender is wired) the request
// is logged and the flow continues.
func (s *Service) sendEmail(ctx context.Context, email, purpose, rawToken string) {
	ev := queue.EmailRequestedEvent{
		Email:       email,
		Purpose:     purpose,
		Token:       rawToken,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if s.mail == nil {
		s.log.Info("email requested (no sender wired)",
			zap.String("to", email), zap.String("purpose", purpose))
		return
	}
	if err := s.mail.Send(ctx, ev); err != nil {
		s.log.Warn("email publish failed",
			zap.String("to", email), zap.String("purpose", purpose), zap.Error(err))
	}
}
