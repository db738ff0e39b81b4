package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

const userInsert = "INSERT INTO users (name, email, password_hash, role, email_verified) VALUES (?,?,?,?,0)"
const userByEmail = "SELECT id,name,email,password_hash,role,email_verified,created_at,updated_at FROM users WHERE email=? LIMIT 1"

func TestUserRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(userInsert)).
		WithArgs("Ann", "ann@x.com", "$2a$10$hash", "user").
		WillReturnResult(sqlmock.NewResult(5, 1))

	u, err := repo.Create(context.Background(), "Ann", "ANN@X.com ", "$2a$10$hash", "user")
	require.NoError(t, err)
	require.Equal(t, uint64(5), u.ID)
	require.Equal(t, "ann@x.com", u.Email) // normalized before insert
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(userInsert)).
		WithArgs("Ann", "ann@x.com", "$2a$10$hash", "user").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'ann@x.com' for key 'users.uq_users_email'"))

	_, err = repo.Create(context.Background(), "Ann", "ann@x.com", "$2a$10$hash", "user")
	require.ErrorIs(t, err, ErrEmailExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(userByEmail)).
		WithArgs("ann@x.com").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "email", "password_hash", "role", "email_verified", "created_at", "updated_at"}).
			AddRow(5, "Ann", "ann@x.com", "$2a$10$hash", "user", true, now, now))

	u, err := repo.GetByEmail(context.Background(), "Ann@X.com")
	require.NoError(t, err)
	require.Equal(t, uint64(5), u.ID)
	require.True(t, u.EmailVerified)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(userByEmail)).
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "email", "password_hash", "role", "email_verified", "created_at", "updated_at"}))

	_, err = repo.GetByEmail(context.Background(), "nobody@x.com")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_UpdatePassword_NoRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE users SET password_hash=?, updated_at=UTC_TIMESTAMP() WHERE id=?")).
		WithArgs("$2a$10$new", uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdatePassword(context.Background(), 99, "$2a$10$new")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
