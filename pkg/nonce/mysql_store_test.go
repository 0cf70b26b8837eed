package nonce

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	pkgdb "github.com/ahwlsqja/auth-nonce-service/pkg/db"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	insertNonceQuery  = `(?s)^INSERT\s+INTO\s+auth_nonces\b.*VALUES\s*\(\?,\s*\?,\s*\?,\s*\?,\s*0\)\s*$`
	selectNonceQuery  = `(?s)^SELECT\s+token,\s*owner,\s*issued_at,\s*expires_at,\s*consumed,\s*consumed_at\s+FROM\s+auth_nonces\s+WHERE\s+token\s*=\s*\?\s*$`
	lockNonceQuery    = `(?s)^SELECT\s+token,.*FROM\s+auth_nonces\s+WHERE\s+token\s*=\s*\?\s+FOR\s+UPDATE\s*$`
	consumeNonceQuery = `(?s)^UPDATE\s+auth_nonces\s+SET\s+consumed\s*=\s*1,\s*consumed_at\s*=\s*\?\s+WHERE\s+token\s*=\s*\?\s+AND\s+consumed\s*=\s*0\s*$`
	deleteNonceQuery  = `(?s)^DELETE\s+FROM\s+auth_nonces\s+WHERE\s+expires_at\s*<\s*\?\s*$`
)

var nonceColumns = []string{"token", "owner", "issued_at", "expires_at", "consumed", "consumed_at"}

func newMySQLStoreWithMock(t *testing.T) (*MySQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMySQLStore(pkgdb.NewTxRunner(db), zap.NewNop()), mock
}

func TestMySQLStore_Create(t *testing.T) {
	store, mock := newMySQLStoreWithMock(t)
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(insertNonceQuery).
		WithArgs("tok1", "hhh", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Create(context.Background(), testNonce("tok1", issued)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_CreateDuplicate(t *testing.T) {
	store, mock := newMySQLStoreWithMock(t)

	mock.ExpectExec(insertNonceQuery).
		WithArgs("tok1", "hhh", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'tok1' for key 'PRIMARY'"})

	err := store.Create(context.Background(), testNonce("tok1", time.Now()))
	assert.ErrorIs(t, err, ErrDuplicateToken)
}

func TestMySQLStore_CreateDBError(t *testing.T) {
	store, mock := newMySQLStoreWithMock(t)

	mock.ExpectExec(insertNonceQuery).
		WithArgs("tok1", "hhh", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	err := store.Create(context.Background(), testNonce("tok1", time.Now()))
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestMySQLStore_Get(t *testing.T) {
	store, mock := newMySQLStoreWithMock(t)
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	consumedAt := issued.Add(time.Minute)

	mock.ExpectQuery(selectNonceQuery).
		WithArgs("tok1").
		WillReturnRows(sqlmock.NewRows(nonceColumns).
			AddRow("tok1", "hhh", issued, issued.Add(DefaultTTL), true, consumedAt))

	got, err := store.Get(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Equal(t, "hhh", got.Owner)
	assert.True(t, got.Consumed)
	require.NotNil(t, got.ConsumedAt)
	assert.True(t, got.ConsumedAt.Equal(consumedAt))
}

func TestMySQLStore_GetNotFound(t *testing.T) {
	store, mock := newMySQLStoreWithMock(t)

	mock.ExpectQuery(selectNonceQuery).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMySQLStore_Consume(t *testing.T) {
	store, mock := newMySQLStoreWithMock(t)
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now := issued.Add(time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(lockNonceQuery).
		WithArgs("tok1").
		WillReturnRows(sqlmock.NewRows(nonceColumns).
			AddRow("tok1", "hhh", issued, issued.Add(DefaultTTL), false, nil))
	mock.ExpectExec(consumeNonceQuery).
		WithArgs(sqlmock.AnyArg(), "tok1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := store.Consume(context.Background(), "tok1", now)
	require.NoError(t, err)
	assert.True(t, n.Consumed)
	require.NotNil(t, n.ConsumedAt)
	assert.True(t, n.ConsumedAt.Equal(now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_ConsumeRejections(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		consumed bool
		now      time.Time
		wantErr  error
	}{
		{name: "already consumed", consumed: true, now: issued.Add(time.Minute), wantErr: ErrAlreadyConsumed},
		{name: "expired", consumed: false, now: issued.Add(DefaultTTL), wantErr: ErrExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMySQLStoreWithMock(t)

			mock.ExpectBegin()
			mock.ExpectQuery(lockNonceQuery).
				WithArgs("tok1").
				WillReturnRows(sqlmock.NewRows(nonceColumns).
					AddRow("tok1", "hhh", issued, issued.Add(DefaultTTL), tt.consumed, nil))
			mock.ExpectRollback()

			_, err := store.Consume(context.Background(), "tok1", tt.now)
			assert.ErrorIs(t, err, tt.wantErr)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMySQLStore_ConsumeNotFound(t *testing.T) {
	store, mock := newMySQLStoreWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockNonceQuery).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := store.Consume(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_ConsumeLostRace(t *testing.T) {
	store, mock := newMySQLStoreWithMock(t)
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(lockNonceQuery).
		WithArgs("tok1").
		WillReturnRows(sqlmock.NewRows(nonceColumns).
			AddRow("tok1", "hhh", issued, issued.Add(DefaultTTL), false, nil))
	mock.ExpectExec(consumeNonceQuery).
		WithArgs(sqlmock.AnyArg(), "tok1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := store.Consume(context.Background(), "tok1", issued.Add(time.Minute))
	assert.ErrorIs(t, err, ErrAlreadyConsumed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_DeleteExpired(t *testing.T) {
	store, mock := newMySQLStoreWithMock(t)

	mock.ExpectExec(deleteNonceQuery).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := store.DeleteExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}

func TestMySQLStore_ConsumeRowsAffectedError(t *testing.T) {
	store, mock := newMySQLStoreWithMock(t)
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	errDriver := errors.New("rows affected unavailable")

	mock.ExpectBegin()
	mock.ExpectQuery(lockNonceQuery).
		WithArgs("tok1").
		WillReturnRows(sqlmock.NewRows(nonceColumns).
			AddRow("tok1", "hhh", issued, issued.Add(DefaultTTL), false, nil))
	mock.ExpectExec(consumeNonceQuery).
		WithArgs(sqlmock.AnyArg(), "tok1").
		WillReturnResult(sqlmock.NewErrorResult(errDriver))
	mock.ExpectRollback()

	_, err := store.Consume(context.Background(), "tok1", issued.Add(time.Minute))
	require.Error(t, err)
	assert.ErrorIs(t, err, errDriver)
	assert.NotErrorIs(t, err, ErrAlreadyConsumed)
	_, isReason := ReasonOf(err)
	assert.False(t, isReason)
	require.NoError(t, mock.ExpectationsWereMet())
}
