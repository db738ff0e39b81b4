package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

const consumeSelect = "SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1"
const consumeUpdate = "UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL"

func TestRefreshTokenRepo_Consume(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRefreshTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(consumeSelect)).
		WithArgs("hash1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(42, time.Now().UTC().Add(time.Hour), nil))
	mock.ExpectExec(regexp.QuoteMeta(consumeUpdate)).
		WithArgs("hash1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	userID, err := repo.Consume(context.Background(), "hash1")
	require.NoError(t, err)
	require.Equal(t, uint64(42), userID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepo_Consume_Unknown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRefreshTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(consumeSelect)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}))

	_, err = repo.Consume(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepo_Consume_Revoked(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRefreshTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(consumeSelect)).
		WithArgs("hash1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(42, time.Now().UTC().Add(time.Hour), time.Now().UTC()))

	_, err = repo.Consume(context.Background(), "hash1")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepo_Consume_Expired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRefreshTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(consumeSelect)).
		WithArgs("hash1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(42, time.Now().UTC().Add(-time.Minute), nil))

	_, err = repo.Consume(context.Background(), "hash1")
	require.ErrorIs(t, err, ErrExpired)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A concurrent caller revoked the row between our SELECT and UPDATE:
// RowsAffected comes back 0 and the caller must lose.
func TestRefreshTokenRepo_Consume_LostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRefreshTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(consumeSelect)).
		WithArgs("hash1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(42, time.Now().UTC().Add(time.Hour), nil))
	mock.ExpectExec(regexp.QuoteMeta(consumeUpdate)).
		WithArgs("hash1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = repo.Consume(context.Background(), "hash1")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepo_RevokeAllForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRefreshTokenRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE user_id=? AND revoked_at IS NULL")).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.RevokeAllForUser(context.Background(), 42))
	require.NoError(t, mock.ExpectationsWereMet())
}
