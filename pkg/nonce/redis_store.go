package nonce

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// keyPrefix is the Redis key prefix for nonces
	keyPrefix = "nonce"
)

// createScript stores the record only if the key does not exist yet.
// KEYS[1] = key, ARGV = owner, issued_at, expires_at, key ttl (ms)
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'owner', ARGV[1], 'issued_at', ARGV[2], 'expires_at', ARGV[3], 'consumed', '0')
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// consumeScript is the compare-and-set on the consumed flag.
// KEYS[1] = key, ARGV[1] = now (unix ms)
// Returns -1 not found, -2 already consumed, -3 expired, or the updated hash.
var consumeScript = redis.NewScript(`
local exp = redis.call('HGET', KEYS[1], 'expires_at')
if not exp then
	return -1
end
if redis.call('HGET', KEYS[1], 'consumed') == '1' then
	return -2
end
if tonumber(exp) <= tonumber(ARGV[1]) then
	return -3
end
redis.call('HSET', KEYS[1], 'consumed', '1', 'consumed_at', ARGV[1])
return redis.call('HGETALL', KEYS[1])
`)

// RedisStore implements Store using one Redis hash per nonce.
// Keys expire on their own after the nonce TTL plus retention.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
	logger    *zap.Logger
}

// Compile-time interface compliance check
var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a new Redis-based nonce store with default retention
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return NewRedisStoreWithRetention(client, DefaultRetention, logger)
}

// NewRedisStoreWithRetention creates a new Redis-based nonce store that keeps
// expired records for retention before Redis evicts them
func NewRedisStoreWithRetention(client *redis.Client, retention time.Duration, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client:    client,
		retention: retention,
		logger:    logger,
	}
}

// buildKey creates a Redis key from the token
// Format: nonce:{token}
func buildKey(token string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, token)
}

// Create stores the nonce atomically, failing on an existing token
func (s *RedisStore) Create(ctx context.Context, n *Nonce) error {
	keyTTL := n.ExpiresAt.Sub(n.IssuedAt) + s.retention

	created, err := createScript.Run(ctx, s.client, []string{buildKey(n.Token)},
		n.Owner,
		n.IssuedAt.UnixMilli(),
		n.ExpiresAt.UnixMilli(),
		keyTTL.Milliseconds(),
	).Int()
	if err != nil {
		s.logger.Error("failed to create nonce", zap.String("owner", n.Owner), zap.Error(err))
		return fmt.Errorf("failed to create nonce: %w", err)
	}
	if created == 0 {
		return ErrDuplicateToken
	}

	s.logger.Debug("nonce stored", zap.String("owner", n.Owner))
	return nil
}

// Get loads the nonce hash
func (s *RedisStore) Get(ctx context.Context, token string) (*Nonce, error) {
	fields, err := s.client.HGetAll(ctx, buildKey(token)).Result()
	if err != nil {
		s.logger.Error("failed to get nonce", zap.Error(err))
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return decodeHash(token, fields)
}

// Consume runs the compare-and-set script
func (s *RedisStore) Consume(ctx context.Context, token string, now time.Time) (*Nonce, error) {
	res, err := consumeScript.Run(ctx, s.client, []string{buildKey(token)}, now.UnixMilli()).Result()
	if err != nil {
		s.logger.Error("failed to consume nonce", zap.Error(err))
		return nil, fmt.Errorf("failed to consume nonce: %w", err)
	}

	switch v := res.(type) {
	case int64:
		switch v {
		case -1:
			return nil, ErrNotFound
		case -2:
			return nil, ErrAlreadyConsumed
		case -3:
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("unexpected consume result %d", v)
	case []interface{}:
		fields := make(map[string]string, len(v)/2)
		for i := 0; i+1 < len(v); i += 2 {
			k, _ := v[i].(string)
			val, _ := v[i+1].(string)
			fields[k] = val
		}
		s.logger.Debug("nonce marked as consumed")
		return decodeHash(token, fields)
	default:
		return nil, fmt.Errorf("unexpected consume result type %T", res)
	}
}

// DeleteExpired is a no-op: Redis evicts keys through their TTL
func (s *RedisStore) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func decodeHash(token string, fields map[string]string) (*Nonce, error) {
	issuedAt, err := parseMillis(fields["issued_at"])
	if err != nil {
		return nil, fmt.Errorf("invalid issued_at for nonce: %w", err)
	}
	expiresAt, err := parseMillis(fields["expires_at"])
	if err != nil {
		return nil, fmt.Errorf("invalid expires_at for nonce: %w", err)
	}

	n := &Nonce{
		Token:     token,
		Owner:     fields["owner"],
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
		Consumed:  fields["consumed"] == "1",
	}
	if raw, ok := fields["consumed_at"]; ok {
		consumedAt, err := parseMillis(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid consumed_at for nonce: %w", err)
		}
		n.ConsumedAt = &consumedAt
	}
	return n, nil
}

func parseMillis(raw string) (time.Time, error) {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}
