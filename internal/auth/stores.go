package auth

import (
	"context"
	"time"

	"github.com/consolehq/auth-service/internal/model"
	"github.com/consolehq/auth-service/internal/queue"
)

// Store contracts consumed by the orchestrator. The MySQL repositories
// satisfy them in production; tests swap in in-memory fakes. All token
// parameters are hashes, never raw tokens, and every consume-style
// method must be atomic at the storage layer (conditional update, not
// read-then-write).

// UserStore is the credential store; email is unique, so lookups match
// at most one row.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id uint64) error
}

// RefreshTokenStore persists rotating refresh tokens.
type RefreshTokenStore interface {
	Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	// Consume validates and revokes in one step; exactly one concurrent
	// caller per token may succeed.
	Consume(ctx context.Context, tokenHash string) (uint64, error)
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// SessionStore persists opaque session tokens (non-JWT mode).
type SessionStore interface {
	Create(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	Lookup(ctx context.Context, tokenHash string) (uint64, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteAllForUser(ctx context.Context, userID uint64) error
}

// BlacklistStore records access tokens revoked before natural expiry.
type BlacklistStore interface {
	Add(ctx context.Context, tokenHash string, exp time.Time) error
	IsBlacklisted(ctx context.Context, tokenHash string) (bool, error)
}

// EmailTokenStore persists single-use ephemeral tokens per purpose.
type EmailTokenStore interface {
	Create(ctx context.Context, userID uint64, purpose, tokenHash string, exp time.Time) error
	Consume(ctx context.Context, purpose, tokenHash string) (uint64, error)
}

// EmailSender hands an outbound email request to the delivery side
// (the broker publisher in production).
type EmailSender interface {
	Send(ctx context.Context, ev queue.EmailRequestedEvent) error
}

// EmailSenderFunc adapts a plain function to EmailSender.
type EmailSenderFunc func(ctx context.Context, ev queue.EmailRequestedEvent) error

func (f EmailSenderFunc) Send(ctx context.Context, ev queue.EmailRequestedEvent) error {
	return f(ctx, ev)
}
