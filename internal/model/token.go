package model

import "time"

// Purposes of an email token. Each purpose runs the same single-use
// lifecycle; at most one live token exists per user per purpose.
const (
    PurposeVerifyEmail   = "verify_email"
    PurposeResetPassword = "reset_password"
)

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and carries metadata for expiry
// and revocation. The plain token is never stored; only its SHA-256
// hash. Rows are revoked (revoked_at set), never deleted, so a
// replayed token stays distinguishable from an unknown one.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the raw token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null while active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}

// SessionToken models a row in `session_tokens`, used when the service
// runs in session mode (no JWT): the opaque session token is the sole
// bearer credential. Unlike refresh tokens, session rows are deleted on
// logout since there is no separate access token left to invalidate.
type SessionToken struct {
    ID        uint64    // session_tokens.id
    UserID    uint64    // session_tokens.user_id
    TokenHash string    // session_tokens.token_hash
    ExpiresAt time.Time // session_tokens.expires_at
    CreatedAt time.Time // session_tokens.created_at
}

// EmailToken models a row in `email_tokens`, shared by the email
// verification and password reset flows. A token is single-use: once
// used_at is set it is never accepted again, even before its expiry.
type EmailToken struct {
    ID        uint64     // email_tokens.id
    UserID    uint64     // email_tokens.user_id
    Purpose   string     // email_tokens.purpose (verify_email | reset_password)
    TokenHash string     // email_tokens.token_hash
    ExpiresAt time.Time  // email_tokens.expires_at
    UsedAt    *time.Time // email_tokens.used_at (nullable; also set when superseded)
    CreatedAt time.Time  // email_tokens.created_at
}

// BlacklistedToken models a row in `blacklisted_tokens`: an access token
// revoked by logout before its natural expiry. Rows are only meaningful
// until expires_at; the sweeper removes stale ones out of band.
type BlacklistedToken struct {
    ID        uint64    // blacklisted_tokens.id
    TokenHash string    // blacklisted_tokens.token_hash
    ExpiresAt time.Time // blacklisted_tokens.expires_at
    CreatedAt time.Time // blacklisted_tokens.created_at
}
