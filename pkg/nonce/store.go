package nonce

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultTTL is the default nonce validity duration
	DefaultTTL = 5 * time.Minute

	// DefaultRetention is how long expired records are kept for audit
	DefaultRetention = 24 * time.Hour
)

// Nonce is a single-use authentication token bound to an owner
type Nonce struct {
	Token      string     `json:"token"`
	Owner      string     `json:"owner"`
	IssuedAt   time.Time  `json:"issued_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	Consumed   bool       `json:"consumed"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

// Expired reports whether the nonce is no longer valid at now
func (n *Nonce) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// Store defines the interface for nonce record storage.
// Implementations can use MySQL, Redis, in-memory, or other backends.
type Store interface {
	// Create persists a new nonce record.
	// Returns ErrDuplicateToken if the token already exists.
	Create(ctx context.Context, n *Nonce) error

	// Get returns the record for token, or ErrNotFound
	Get(ctx context.Context, token string) (*Nonce, error)

	// Consume atomically marks an unconsumed, unexpired nonce as consumed.
	// Returns ErrNotFound, ErrAlreadyConsumed or ErrExpired otherwise.
	Consume(ctx context.Context, token string, now time.Time) (*Nonce, error)

	// DeleteExpired removes records that expired before the given time
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Reason identifies why a nonce was rejected
type Reason string

const (
	ReasonNotFound        Reason = "not_found"
	ReasonExpired         Reason = "expired"
	ReasonAlreadyConsumed Reason = "already_consumed"
	ReasonOwnerMismatch   Reason = "owner_mismatch"
)

// Error definitions
var (
	ErrNotFound        = errors.New("nonce not found")
	ErrExpired         = errors.New("nonce has expired")
	ErrAlreadyConsumed = errors.New("nonce already consumed")
	ErrOwnerMismatch   = errors.New("nonce owner mismatch")
	ErrDuplicateToken  = errors.New("nonce token already exists")
)

var reasonErrors = map[Reason]error{
	ReasonNotFound:        ErrNotFound,
	ReasonExpired:         ErrExpired,
	ReasonAlreadyConsumed: ErrAlreadyConsumed,
	ReasonOwnerMismatch:   ErrOwnerMismatch,
}

// Error is the tagged failure returned by strict verification and consume.
// It matches the corresponding sentinel with errors.Is.
type Error struct {
	Reason Reason
	Token  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v (token=%s)", reasonErrors[e.Reason], e.Token)
}

func (e *Error) Unwrap() error {
	return reasonErrors[e.Reason]
}

// ReasonOf extracts the rejection reason from err.
// The second result is false for nil and non-nonce errors.
func ReasonOf(err error) (Reason, bool) {
	var nerr *Error
	if errors.As(err, &nerr) {
		return nerr.Reason, true
	}
	for reason, sentinel := range reasonErrors {
		if errors.Is(err, sentinel) {
			return reason, true
		}
	}
	return "", false
}

func reject(reason Reason, token string) *Error {
	return &Error{Reason: reason, Token: token}
}
