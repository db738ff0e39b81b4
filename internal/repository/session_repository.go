package repository

import (
	"context"
	"database/sql"
	"time"
)

// SessionRepo persists opaque session tokens for the non-JWT deployment
// mode. Same hashed-token discipline as refresh tokens, but sessions
// are deleted outright on logout: with no separate access token in
// play there is nothing to later invalidate against, so keeping
// revoked rows would buy nothing.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session token hash row.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO session_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// Lookup resolves a session token to its user ID. The lookup is always
// store-backed; nothing is ever derived from the token string itself.
// Returns ErrNotFound for unknown tokens and ErrExpired past expiry.
func (r *SessionRepo) Lookup(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at FROM session_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, ErrExpired
	}
	return userID, nil
}

// Delete removes a single session (logout). Idempotent.
func (r *SessionRepo) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM session_tokens WHERE token_hash=?", tokenHash)
	return err
}

// DeleteAllForUser removes every session of a user.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM session_tokens WHERE user_id=?", userID)
	return err
}

// DeleteExpired removes sessions whose expiry has passed. Maintenance
// only.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM session_tokens WHERE expires_at < UTC_TIMESTAMP()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
