package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Nonce storage backends
const (
	BackendMemory = "memory"
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Nonce    NonceConfig
	EIP712   EIP712Config
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	Environment  string        `envconfig:"ENVIRONMENT" default:"development"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"3306"`
	User            string        `envconfig:"DB_USER" default:"app"`
	Password        string        `envconfig:"DB_PASSWORD" default:"apppassword"`
	Name            string        `envconfig:"DB_NAME" default:"auth_nonce"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type NonceConfig struct {
	Backend   string        `envconfig:"NONCE_BACKEND" default:"memory"`
	TTL       time.Duration `envconfig:"NONCE_TTL" default:"5m"`
	Retention time.Duration `envconfig:"NONCE_RETENTION" default:"24h"`
}

type EIP712Config struct {
	ChainID            int64         `envconfig:"EIP712_CHAIN_ID" default:"1"`
	VerifyingContract  string        `envconfig:"EIP712_VERIFYING_CONTRACT" default:"0x0000000000000000000000000000000000000000"`
	TimestampTolerance time.Duration `envconfig:"EIP712_TIMESTAMP_TOLERANCE" default:"5m"`
}

type WorkerConfig struct {
	PollInterval time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"10m"`
	Enabled      bool          `envconfig:"WORKER_ENABLED" default:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express
func (c *Config) Validate() error {
	switch c.Nonce.Backend {
	case BackendMemory, BackendMySQL, BackendRedis:
	default:
		return fmt.Errorf("invalid NONCE_BACKEND %q: want %s, %s or %s",
			c.Nonce.Backend, BackendMemory, BackendMySQL, BackendRedis)
	}
	if c.Nonce.TTL <= 0 {
		return fmt.Errorf("NONCE_TTL must be positive, got %s", c.Nonce.TTL)
	}
	if c.Nonce.Retention < 0 {
		return fmt.Errorf("NONCE_RETENTION must not be negative, got %s", c.Nonce.Retention)
	}
	// redis keys live TTL + retention; with no retention an expired nonce reads as missing
	if c.Nonce.Backend == BackendRedis && c.Nonce.Retention == 0 {
		return fmt.Errorf("NONCE_RETENTION must be positive for the %s backend", BackendRedis)
	}
	if c.Worker.Enabled && c.Worker.PollInterval <= 0 {
		return fmt.Errorf("WORKER_POLL_INTERVAL must be positive, got %s", c.Worker.PollInterval)
	}
	return nil
}
