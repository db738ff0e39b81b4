package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

const emailSelect = "SELECT id, user_id, expires_at, used_at FROM email_tokens WHERE token_hash=? AND purpose=? LIMIT 1"
const emailMarkUsed = "UPDATE email_tokens SET used_at=UTC_TIMESTAMP() WHERE id=? AND used_at IS NULL"

// Create must supersede live tokens and insert inside one transaction.
func TestEmailTokenRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewEmailTokenRepo(db)
	exp := time.Now().UTC().Add(24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE email_tokens SET used_at=UTC_TIMESTAMP() WHERE user_id=? AND purpose=? AND used_at IS NULL")).
		WithArgs(uint64(7), "reset_password").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO email_tokens (user_id, purpose, token_hash, expires_at) VALUES (?,?,?,?)")).
		WithArgs(uint64(7), "reset_password", "hash1", exp).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), 7, "reset_password", "hash1", exp))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailTokenRepo_Consume(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewEmailTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(emailSelect)).
		WithArgs("hash1", "verify_email").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "used_at"}).
			AddRow(3, 7, time.Now().UTC().Add(time.Hour), nil))
	mock.ExpectExec(regexp.QuoteMeta(emailMarkUsed)).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	userID, err := repo.Consume(context.Background(), "verify_email", "hash1")
	require.NoError(t, err)
	require.Equal(t, uint64(7), userID)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Already-used tokens fail identically to unknown ones.
func TestEmailTokenRepo_Consume_Used(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewEmailTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(emailSelect)).
		WithArgs("hash1", "verify_email").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "used_at"}).
			AddRow(3, 7, time.Now().UTC().Add(time.Hour), time.Now().UTC()))

	_, err = repo.Consume(context.Background(), "verify_email", "hash1")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailTokenRepo_Consume_Expired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewEmailTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(emailSelect)).
		WithArgs("hash1", "reset_password").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "used_at"}).
			AddRow(3, 7, time.Now().UTC().Add(-time.Minute), nil))

	_, err = repo.Consume(context.Background(), "reset_password", "hash1")
	require.ErrorIs(t, err, ErrExpired)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailTokenRepo_Consume_LostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewEmailTokenRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(emailSelect)).
		WithArgs("hash1", "reset_password").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "used_at"}).
			AddRow(3, 7, time.Now().UTC().Add(time.Hour), nil))
	mock.ExpectExec(regexp.QuoteMeta(emailMarkUsed)).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = repo.Consume(context.Background(), "reset_password", "hash1")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
