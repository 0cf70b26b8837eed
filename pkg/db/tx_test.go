package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunnerWithMock(t *testing.T) (*TxRunner, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		database.Close()
	})
	return NewTxRunner(database), mock
}

func TestWithTx_Commit(t *testing.T) {
	runner, mock := newRunnerWithMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := runner.WithTx(context.Background(), func(*sql.Tx) error { return nil })
	assert.NoError(t, err)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	runner, mock := newRunnerWithMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	errBoom := errors.New("boom")
	err := runner.WithTx(context.Background(), func(*sql.Tx) error { return errBoom })
	assert.ErrorIs(t, err, errBoom)
}

func TestWithTx_BeginFails(t *testing.T) {
	runner, mock := newRunnerWithMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	err := runner.WithTx(context.Background(), func(*sql.Tx) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
}

func TestWithTxResult(t *testing.T) {
	runner, mock := newRunnerWithMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	got, err := WithTxResult(context.Background(), runner, func(*sql.Tx) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestWithTxResult_CommitFails(t *testing.T) {
	runner, mock := newRunnerWithMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("deadlock"))

	_, err := WithTxResult(context.Background(), runner, func(*sql.Tx) (string, error) { return "x", nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit transaction")
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 3306, User: "app", Password: "secret", Name: "auth_nonce"}
	assert.Equal(t,
		"app:secret@tcp(db:3306)/auth_nonce?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.DSN())
}
