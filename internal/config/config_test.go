package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, BackendMemory, cfg.Nonce.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Nonce.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Nonce.Retention)
	assert.Equal(t, 5*time.Minute, cfg.EIP712.TimestampTolerance)
	assert.True(t, cfg.Worker.Enabled)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("NONCE_BACKEND", "redis")
	t.Setenv("NONCE_TTL", "90s")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, BackendRedis, cfg.Nonce.Backend)
	assert.Equal(t, 90*time.Second, cfg.Nonce.TTL)
	assert.Equal(t, "cache", cfg.Redis.Host)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("NONCE_BACKEND", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid NONCE_BACKEND")
}

func TestValidate_NonPositiveTTL(t *testing.T) {
	cfg := &Config{
		Nonce:  NonceConfig{Backend: BackendMemory, TTL: 0},
		Worker: WorkerConfig{Enabled: false},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidate_WorkerInterval(t *testing.T) {
	cfg := &Config{
		Nonce:  NonceConfig{Backend: BackendMySQL, TTL: time.Minute},
		Worker: WorkerConfig{Enabled: true, PollInterval: 0},
	}
	assert.Error(t, cfg.Validate())

	cfg.Worker.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestValidate_NegativeRetention(t *testing.T) {
	t.Setenv("NONCE_RETENTION", "-1h")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NONCE_RETENTION")

	cfg := &Config{
		Nonce:  NonceConfig{Backend: BackendMemory, TTL: time.Minute, Retention: -time.Second},
		Worker: WorkerConfig{Enabled: false},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidate_ZeroRetention(t *testing.T) {
	cfg := &Config{
		Nonce:  NonceConfig{Backend: BackendMemory, TTL: time.Minute, Retention: 0},
		Worker: WorkerConfig{Enabled: false},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Nonce.Backend = BackendMySQL
	assert.NoError(t, cfg.Validate())

	cfg.Nonce.Backend = BackendRedis
	assert.Error(t, cfg.Validate())
}
