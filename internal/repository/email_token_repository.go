package repository

import (
	"context"
	"database/sql"
	"time"
)

// EmailTokenRepo persists single-use tokens for the email verification
// and password reset flows. Both purposes share one table and one
// lifecycle: Issued -> Used, Expired, or Superseded (a newer token for
// the same user+purpose marks the older one used).
type EmailTokenRepo struct{ DB *sql.DB }

func NewEmailTokenRepo(db *sql.DB) *EmailTokenRepo { return &EmailTokenRepo{DB: db} }

// Create inserts a token row after superseding any live token for the
// same user and purpose. Both statements run in one transaction so at
// most one live token per user per purpose can ever be observed.
func (r *EmailTokenRepo) Create(ctx context.Context, userID uint64, purpose, tokenHash string, exp time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"UPDATE email_tokens SET used_at=UTC_TIMESTAMP() WHERE user_id=? AND purpose=? AND used_at IS NULL",
		userID, purpose); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO email_tokens (user_id, purpose, token_hash, expires_at) VALUES (?,?,?,?)",
		userID, purpose, tokenHash, exp); err != nil {
		return err
	}
	return tx.Commit()
}

// Consume marks a token used and returns its user ID. ErrNotFound covers
// absent and already-used tokens, ErrExpired an expired one. The mark is
// a conditional UPDATE guarded by `used_at IS NULL`; under concurrent
// duplicate submissions exactly one caller succeeds, the other gets
// ErrNotFound. A consumed token is never accepted again, even unexpired.
func (r *EmailTokenRepo) Consume(ctx context.Context, purpose, tokenHash string) (uint64, error) {
	var (
		id        uint64
		userID    uint64
		expiresAt time.Time
		usedAt    sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, expires_at, used_at FROM email_tokens WHERE token_hash=? AND purpose=? LIMIT 1",
		tokenHash, purpose).Scan(&id, &userID, &expiresAt, &usedAt)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if usedAt.Valid {
		return 0, ErrNotFound
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, ErrExpired
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE email_tokens SET used_at=UTC_TIMESTAMP() WHERE id=? AND used_at IS NULL", id)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrNotFound
	}
	return userID, nil
}

// DeleteExpired removes tokens whose expiry has passed. Maintenance
// only.
func (r *EmailTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM email_tokens WHERE expires_at < UTC_TIMESTAMP()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
