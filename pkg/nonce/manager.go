package nonce

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxIssueAttempts = 3

// VerifyOptions controls Verify behavior
type VerifyOptions struct {
	// Strict surfaces the rejection reason as an *Error instead of a plain false
	Strict bool
	// Consume marks the nonce consumed in the same atomic step as verification
	Consume bool
}

// TokenGenerator produces a new unpredictable token
type TokenGenerator func() (string, error)

// Option configures a Manager
type Option func(*Manager)

// WithTTL sets the nonce validity duration
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithTokenGenerator replaces the default UUIDv4 token generator
func WithTokenGenerator(gen TokenGenerator) Option {
	return func(m *Manager) {
		m.generate = gen
	}
}

// WithMetrics records lifecycle events on the given collectors
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// Manager issues, verifies and consumes nonces on top of a Store
type Manager struct {
	store    Store
	ttl      time.Duration
	now      func() time.Time
	generate TokenGenerator
	metrics  *Metrics
	logger   *zap.Logger
}

// NewManager creates a nonce manager with DefaultTTL unless overridden
func NewManager(store Store, logger *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		ttl:      DefaultTTL,
		now:      time.Now,
		generate: randomToken,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the configured validity duration
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// randomToken returns a UUIDv4 string; uuid.NewRandom reads crypto/rand
func randomToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Issue creates and persists a new nonce for owner
func (m *Manager) Issue(ctx context.Context, owner string) (*Nonce, error) {
	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		token, err := m.generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate nonce token: %w", err)
		}

		now := m.now().UTC()
		n := &Nonce{
			Token:     token,
			Owner:     owner,
			IssuedAt:  now,
			ExpiresAt: now.Add(m.ttl),
		}

		err = m.store.Create(ctx, n)
		if errors.Is(err, ErrDuplicateToken) {
			m.logger.Warn("nonce token collision, regenerating",
				zap.String("owner", owner),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to store nonce: %w", err)
		}

		m.metrics.issued()
		m.logger.Debug("nonce issued",
			zap.String("owner", owner),
			zap.Time("expires_at", n.ExpiresAt),
		)
		return n, nil
	}
	return nil, fmt.Errorf("failed to issue nonce after %d attempts: %w", maxIssueAttempts, ErrDuplicateToken)
}

// Get returns the stored record for token, consumed or not
func (m *Manager) Get(ctx context.Context, token string) (*Nonce, error) {
	n, err := m.store.Get(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil, reject(ReasonNotFound, token)
	}
	return n, err
}

// Verify checks that token is a live nonce issued to owner.
//
// In non-strict mode every rejection collapses to (false, nil); in strict mode
// the rejection is returned as an *Error. Storage failures are always returned.
func (m *Manager) Verify(ctx context.Context, token, owner string, opts VerifyOptions) (bool, error) {
	reason, err := m.check(ctx, token, owner, opts.Consume)
	if err != nil {
		return false, err
	}
	m.metrics.verified(reason)

	if reason != "" {
		m.logger.Warn("nonce rejected",
			zap.String("owner", owner),
			zap.String("reason", string(reason)),
			zap.Bool("strict", opts.Strict),
		)
		if opts.Strict {
			return false, reject(reason, token)
		}
		return false, nil
	}

	if opts.Consume {
		m.metrics.consumed()
	}
	return true, nil
}

// check returns the rejection reason, or "" if the nonce is valid
func (m *Manager) check(ctx context.Context, token, owner string, consume bool) (Reason, error) {
	n, err := m.store.Get(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return ReasonNotFound, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load nonce: %w", err)
	}

	// Owner is immutable, so checking it before the atomic consume is safe.
	if n.Owner != owner {
		return ReasonOwnerMismatch, nil
	}

	now := m.now().UTC()
	if !consume {
		switch {
		case n.Consumed:
			return ReasonAlreadyConsumed, nil
		case n.Expired(now):
			return ReasonExpired, nil
		}
		return "", nil
	}

	if _, err := m.store.Consume(ctx, token, now); err != nil {
		if reason, ok := ReasonOf(err); ok {
			return reason, nil
		}
		return "", fmt.Errorf("failed to consume nonce: %w", err)
	}
	return "", nil
}

// Consume marks token as used. Expired and already consumed nonces are rejected.
func (m *Manager) Consume(ctx context.Context, token string) error {
	n, err := m.store.Consume(ctx, token, m.now().UTC())
	if err != nil {
		if reason, ok := ReasonOf(err); ok {
			m.logger.Warn("nonce consume rejected", zap.String("reason", string(reason)))
			return reject(reason, token)
		}
		return fmt.Errorf("failed to consume nonce: %w", err)
	}

	m.metrics.consumed()
	m.logger.Debug("nonce consumed", zap.String("owner", n.Owner))
	return nil
}

// Purge deletes records that expired more than retention ago.
// A negative retention would reach live nonces and is rejected.
func (m *Manager) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if retention < 0 {
		return 0, fmt.Errorf("purge retention must not be negative, got %s", retention)
	}
	before := m.now().UTC().Add(-retention)
	deleted, err := m.store.DeleteExpired(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge nonces: %w", err)
	}
	if deleted > 0 {
		m.logger.Info("expired nonces purged",
			zap.Int64("deleted", deleted),
			zap.Time("before", before),
		)
	}
	return deleted, nil
}
