package nonce

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	pkgdb "github.com/ahwlsqja/auth-nonce-service/pkg/db"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

const (
	mysqlErrDuplicateEntry = 1062
)

// MySQLStore implements Store on the auth_nonces table
type MySQLStore struct {
	txRunner *pkgdb.TxRunner
	logger   *zap.Logger
}

// Compile-time interface compliance check
var _ Store = (*MySQLStore)(nil)

// NewMySQLStore creates a MySQL-backed nonce store
func NewMySQLStore(txRunner *pkgdb.TxRunner, logger *zap.Logger) *MySQLStore {
	return &MySQLStore{
		txRunner: txRunner,
		logger:   logger,
	}
}

// Create inserts the nonce row; the primary key rejects duplicate tokens
func (s *MySQLStore) Create(ctx context.Context, n *Nonce) error {
	query := `
		INSERT INTO auth_nonces (token, owner, issued_at, expires_at, consumed)
		VALUES (?, ?, ?, ?, 0)
	`
	if _, err := s.txRunner.DB().ExecContext(ctx, query, n.Token, n.Owner, n.IssuedAt, n.ExpiresAt); err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateToken
		}
		s.logger.Error("failed to insert nonce", zap.String("owner", n.Owner), zap.Error(err))
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Get returns the nonce row for token
func (s *MySQLStore) Get(ctx context.Context, token string) (*Nonce, error) {
	query := `
		SELECT token, owner, issued_at, expires_at, consumed, consumed_at
		FROM auth_nonces
		WHERE token = ?
	`
	return scanNonce(s.txRunner.DB().QueryRowContext(ctx, query, token))
}

// Consume locks the row, classifies it and flips the consumed flag
// inside one transaction
func (s *MySQLStore) Consume(ctx context.Context, token string, now time.Time) (*Nonce, error) {
	return pkgdb.WithTxResult(ctx, s.txRunner, func(tx *sql.Tx) (*Nonce, error) {
		// 1. Lock nonce row
		n, err := scanNonce(tx.QueryRowContext(ctx, `
			SELECT token, owner, issued_at, expires_at, consumed, consumed_at
			FROM auth_nonces
			WHERE token = ?
			FOR UPDATE
		`, token))
		if err != nil {
			return nil, err
		}

		// 2. Classify
		if n.Consumed {
			return nil, ErrAlreadyConsumed
		}
		if n.Expired(now) {
			return nil, ErrExpired
		}

		// 3. Flip flag; the consumed = 0 guard keeps the update a compare-and-set
		result, err := tx.ExecContext(ctx, `
			UPDATE auth_nonces
			SET consumed = 1, consumed_at = ?
			WHERE token = ? AND consumed = 0
		`, now, token)
		if err != nil {
			s.logger.Error("failed to consume nonce", zap.Error(err))
			return nil, fmt.Errorf("db error: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			s.logger.Error("failed to read consume result", zap.Error(err))
			return nil, fmt.Errorf("db error: %w", err)
		}
		if affected == 0 {
			return nil, ErrAlreadyConsumed
		}

		n.Consumed = true
		n.ConsumedAt = &now
		return n, nil
	})
}

// DeleteExpired removes rows that expired before the given time
func (s *MySQLStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.txRunner.DB().ExecContext(ctx, `
		DELETE FROM auth_nonces
		WHERE expires_at < ?
	`, before)
	if err != nil {
		s.logger.Error("failed to delete expired nonces", zap.Error(err))
		return 0, fmt.Errorf("db error: %w", err)
	}
	return result.RowsAffected()
}

func scanNonce(row *sql.Row) (*Nonce, error) {
	var (
		n          Nonce
		consumedAt sql.NullTime
	)
	err := row.Scan(&n.Token, &n.Owner, &n.IssuedAt, &n.ExpiresAt, &n.Consumed, &consumedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if consumedAt.Valid {
		n.ConsumedAt = &consumedAt.Time
	}
	return &n, nil
}

// isDuplicateKeyError checks if the error is a MySQL duplicate key error
func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDuplicateEntry
	}
	return false
}
