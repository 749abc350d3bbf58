package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-predict/internal/domain"
)

var errDB = errors.New("disk I/O error")

func setupMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestAccountRepo_Create_UniqueViolationOnInsert(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewAccountRepo(db, db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM accounts WHERE username = ? OR email = ?`)).
		WithArgs("alice", "a@x.io").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO accounts`)).
		WillReturnError(errors.New("UNIQUE constraint failed: accounts.username"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &domain.Account{Username: "alice", Email: "a@x.io", PasswordHash: "h"})

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username or email already in use", conflict.Message)
}

func TestAccountRepo_Create_PrecheckFailure(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewAccountRepo(db, db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM accounts`)).WillReturnError(errDB)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &domain.Account{Username: "alice", Email: "a@x.io"})
	require.ErrorIs(t, err, errDB)
}

func TestAccountRepo_Create_BeginFailure(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewAccountRepo(db, db)

	mock.ExpectBegin().WillReturnError(errDB)

	_, err := repo.Create(context.Background(), &domain.Account{Username: "alice", Email: "a@x.io"})
	require.ErrorIs(t, err, errDB)
}

func TestAccountRepo_GetByUsername_DBError(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewAccountRepo(db, db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE username = ?`)).WithArgs("alice").WillReturnError(errDB)

	_, err := repo.GetByUsername(context.Background(), "alice")
	require.ErrorIs(t, err, errDB)
	var notFound *domain.NotFoundError
	assert.False(t, errors.As(err, &notFound))
}

func TestAccountRepo_Activate_UpdateFailure(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewAccountRepo(db, db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET password_hash = ?, is_active = 1`)).WillReturnError(errDB)
	mock.ExpectRollback()

	err := repo.Activate(context.Background(), 1, "h")
	require.ErrorIs(t, err, errDB)
}

func TestAccountRepo_List_CountFailure(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewAccountRepo(db, db)
	owner := int64(3)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM accounts WHERE id = ?`)).
		WithArgs(owner).
		WillReturnError(errDB)

	_, _, err := repo.List(context.Background(), domain.AccountFilter{OwnerID: &owner})
	require.ErrorIs(t, err, errDB)
}

func TestLoanRepo_List_QueryFailure(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewLoanRepo(db, db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM loan_requests`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM loan_requests ORDER BY id DESC LIMIT ? OFFSET ?`)).
		WithArgs(domain.DefaultMaxResults, 0).
		WillReturnError(errDB)

	_, _, err := repo.List(context.Background(), domain.LoanFilter{})
	require.ErrorIs(t, err, errDB)
}

func TestMapDBError(t *testing.T) {
	var notFound *domain.NotFoundError
	require.ErrorAs(t, mapDBError(sql.ErrNoRows), &notFound)

	var conflict *domain.ConflictError
	require.ErrorAs(t, mapDBError(errors.New("UNIQUE constraint failed: accounts.email")), &conflict)

	assert.Equal(t, errDB, mapDBError(errDB))
	assert.NoError(t, mapDBError(nil))
}
