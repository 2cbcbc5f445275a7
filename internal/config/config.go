// Package config loads runtime settings for the credstore binaries from the
// environment (optionally seeded from a .env file) and builds their logger.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backend names accepted by CREDSTORE_BACKEND.
const (
	BackendMemory    = "memory"
	BackendRedis     = "redis"
	BackendMiniredis = "miniredis"
	BackendSQLite    = "sqlite"
)

// Config holds all runtime configuration for a credstore process.
type Config struct {
	Backend           string        `mapstructure:"CREDSTORE_BACKEND"`
	RedisAddr         string        `mapstructure:"CREDSTORE_REDIS_ADDR"`
	SQLitePath        string        `mapstructure:"CREDSTORE_SQLITE_PATH"`
	KeyPrefix         string        `mapstructure:"CREDSTORE_KEY_PREFIX"`
	MaxAttempts       int           `mapstructure:"CREDSTORE_MAX_ATTEMPTS"`
	LockoutDuration   time.Duration `mapstructure:"CREDSTORE_LOCKOUT_DURATION"`
	AuthDelay         time.Duration `mapstructure:"CREDSTORE_AUTH_DELAY"`
	PasswordAlgorithm string        `mapstructure:"CREDSTORE_PASSWORD_ALGORITHM"`
	TokenFormat       string        `mapstructure:"CREDSTORE_TOKEN_FORMAT"`
	GenericAuthErrors bool          `mapstructure:"CREDSTORE_GENERIC_AUTH_ERRORS"`
	LogLevel          string        `mapstructure:"CREDSTORE_LOG_LEVEL"`
	LogDev            bool          `mapstructure:"CREDSTORE_LOG_DEV"`
}

var keys = []string{
	"CREDSTORE_BACKEND",
	"CREDSTORE_REDIS_ADDR",
	"CREDSTORE_SQLITE_PATH",
	"CREDSTORE_KEY_PREFIX",
	"CREDSTORE_MAX_ATTEMPTS",
	"CREDSTORE_LOCKOUT_DURATION",
	"CREDSTORE_AUTH_DELAY",
	"CREDSTORE_PASSWORD_ALGORITHM",
	"CREDSTORE_TOKEN_FORMAT",
	"CREDSTORE_GENERIC_AUTH_ERRORS",
	"CREDSTORE_LOG_LEVEL",
	"CREDSTORE_LOG_DEV",
}

// LoadEnvFiles seeds the process environment from .env files. Missing files
// are skipped; variables already set are not overridden.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("CREDSTORE_BACKEND", BackendMemory)
	v.SetDefault("CREDSTORE_REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("CREDSTORE_SQLITE_PATH", "credstore.db")
	v.SetDefault("CREDSTORE_KEY_PREFIX", "auth:")
	v.SetDefault("CREDSTORE_MAX_ATTEMPTS", 5)
	v.SetDefault("CREDSTORE_LOCKOUT_DURATION", "15m")
	v.SetDefault("CREDSTORE_AUTH_DELAY", "300ms")
	v.SetDefault("CREDSTORE_PASSWORD_ALGORITHM", "sha256")
	v.SetDefault("CREDSTORE_TOKEN_FORMAT", "opaque")
	v.SetDefault("CREDSTORE_GENERIC_AUTH_ERRORS", false)
	v.SetDefault("CREDSTORE_LOG_LEVEL", "info")
	v.SetDefault("CREDSTORE_LOG_DEV", false)
	v.AutomaticEnv()

	// Bind explicitly so every key appears in Unmarshal.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))

	switch cfg.Backend {
	case BackendMemory, BackendRedis, BackendMiniredis, BackendSQLite:
	default:
		return nil, fmt.Errorf("CREDSTORE_BACKEND: unsupported backend %q", cfg.Backend)
	}
	if cfg.Backend == BackendRedis && cfg.RedisAddr == "" {
		return nil, errors.New("CREDSTORE_REDIS_ADDR is required for the redis backend")
	}
	if cfg.Backend == BackendSQLite && cfg.SQLitePath == "" {
		return nil, errors.New("CREDSTORE_SQLITE_PATH is required for the sqlite backend")
	}
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("CREDSTORE_MAX_ATTEMPTS must be > 0, got %d", cfg.MaxAttempts)
	}

	return &cfg, nil
}
