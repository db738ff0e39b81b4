package repository

import (
	"context"
	"database/sql"
	"time"
)

// BlacklistRepo persists access tokens revoked by logout so they cannot
// be replayed before their natural expiry. Entries are only meaningful
// until expires_at. No request path ever triggers the sweep; cleanup is
// the sweeper binary's job, which keeps the hot path free of delete
// latency at the cost of table growth between sweeps.
type BlacklistRepo struct{ DB *sql.DB }

func NewBlacklistRepo(db *sql.DB) *BlacklistRepo { return &BlacklistRepo{DB: db} }

// Add records a token hash with the token's original expiry. Re-adding
// the same token (double logout) is a no-op.
func (r *BlacklistRepo) Add(ctx context.Context, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO blacklisted_tokens (token_hash, expires_at) VALUES (?,?)",
		tokenHash, exp)
	return err
}

// IsBlacklisted reports whether a token hash has an unexpired blacklist
// entry. Expired entries are treated as absent even before the sweep
// removes them.
func (r *BlacklistRepo) IsBlacklisted(ctx context.Context, tokenHash string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM blacklisted_tokens WHERE token_hash=? AND expires_at > UTC_TIMESTAMP() LIMIT 1",
		tokenHash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RemoveExpired deletes entries whose expiry has passed and returns the
// number of rows removed.
func (r *BlacklistRepo) RemoveExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM blacklisted_tokens WHERE expires_at < UTC_TIMESTAMP()")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
