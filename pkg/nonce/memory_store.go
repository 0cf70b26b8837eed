package nonce

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with a mutex-guarded map.
// Suitable for single-instance deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Nonce
}

// Compile-time interface compliance check
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Nonce)}
}

func (s *MemoryStore) Create(_ context.Context, n *Nonce) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[n.Token]; exists {
		return ErrDuplicateToken
	}
	s.records[n.Token] = *n
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (*Nonce, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.records[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &n, nil
}

func (s *MemoryStore) Consume(_ context.Context, token string, now time.Time) (*Nonce, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.records[token]
	if !ok {
		return nil, ErrNotFound
	}
	if n.Consumed {
		return nil, ErrAlreadyConsumed
	}
	if n.Expired(now) {
		return nil, ErrExpired
	}

	n.Consumed = true
	n.ConsumedAt = &now
	s.records[token] = n
	return &n, nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for token, n := range s.records {
		if n.ExpiresAt.Before(before) {
			delete(s.records, token)
			deleted++
		}
	}
	return deleted, nil
}
