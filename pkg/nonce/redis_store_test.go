package nonce

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisStoreWithMock(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreWithRetention(client, time.Hour, zap.NewNop()), mr
}

func testNonce(token string, issuedAt time.Time) *Nonce {
	return &Nonce{
		Token:     token,
		Owner:     "hhh",
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(DefaultTTL),
	}
}

func TestRedisStore_CreateAndGet(t *testing.T) {
	store, mr := newRedisStoreWithMock(t)
	ctx := context.Background()
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, testNonce("tok1", issued)))

	got, err := store.Get(ctx, "tok1")
	require.NoError(t, err)
	assert.Equal(t, "tok1", got.Token)
	assert.Equal(t, "hhh", got.Owner)
	assert.True(t, got.IssuedAt.Equal(issued))
	assert.True(t, got.ExpiresAt.Equal(issued.Add(DefaultTTL)))
	assert.False(t, got.Consumed)
	assert.Nil(t, got.ConsumedAt)

	assert.Equal(t, DefaultTTL+time.Hour, mr.TTL("nonce:tok1"))
}

func TestRedisStore_CreateDuplicate(t *testing.T) {
	store, _ := newRedisStoreWithMock(t)
	ctx := context.Background()
	issued := time.Now().UTC()

	require.NoError(t, store.Create(ctx, testNonce("tok1", issued)))
	err := store.Create(ctx, testNonce("tok1", issued))
	assert.ErrorIs(t, err, ErrDuplicateToken)
}

func TestRedisStore_GetMissing(t *testing.T) {
	store, _ := newRedisStoreWithMock(t)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Consume(t *testing.T) {
	store, _ := newRedisStoreWithMock(t)
	ctx := context.Background()
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Create(ctx, testNonce("tok1", issued)))

	now := issued.Add(time.Minute)
	n, err := store.Consume(ctx, "tok1", now)
	require.NoError(t, err)
	assert.True(t, n.Consumed)
	require.NotNil(t, n.ConsumedAt)
	assert.True(t, n.ConsumedAt.Equal(now))

	_, err = store.Consume(ctx, "tok1", now)
	assert.ErrorIs(t, err, ErrAlreadyConsumed)

	got, err := store.Get(ctx, "tok1")
	require.NoError(t, err)
	assert.True(t, got.Consumed)
}

func TestRedisStore_ConsumeExpired(t *testing.T) {
	store, _ := newRedisStoreWithMock(t)
	ctx := context.Background()
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Create(ctx, testNonce("tok1", issued)))

	_, err := store.Consume(ctx, "tok1", issued.Add(DefaultTTL))
	assert.ErrorIs(t, err, ErrExpired)

	got, err := store.Get(ctx, "tok1")
	require.NoError(t, err)
	assert.False(t, got.Consumed)
}

func TestRedisStore_ConsumeMissing(t *testing.T) {
	store, _ := newRedisStoreWithMock(t)
	_, err := store.Consume(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_KeyEvictedAfterRetention(t *testing.T) {
	store, mr := newRedisStoreWithMock(t)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, testNonce("tok1", time.Now().UTC())))

	mr.FastForward(DefaultTTL + time.Hour + time.Second)

	_, err := store.Get(ctx, "tok1")
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := store.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestRedisStore_BackendDown(t *testing.T) {
	store, mr := newRedisStoreWithMock(t)
	mr.Close()

	err := store.Create(context.Background(), testNonce("tok1", time.Now()))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateToken)

	_, err = store.Get(context.Background(), "tok1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_WithManager(t *testing.T) {
	store, _ := newRedisStoreWithMock(t)
	m := NewManager(store, zap.NewNop())
	ctx := context.Background()

	n, err := m.Issue(ctx, "hhh")
	require.NoError(t, err)

	ok, err := m.Verify(ctx, n.Token, "hhh", VerifyOptions{})
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, m.Consume(ctx, n.Token))

	ok, err = m.Verify(ctx, n.Token, "hhh", VerifyOptions{Strict: true})
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrAlreadyConsumed)
}
