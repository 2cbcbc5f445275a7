package credstore

import (
	"errors"
	"strings"
	"time"

	"github.com/incidentmart/credstore/internal"
	"github.com/incidentmart/credstore/password"
)

// Password hashing algorithms accepted by PasswordConfig.Algorithm.
const (
	HashSHA256   = "sha256"
	HashArgon2id = "argon2id"
)

// Token formats accepted by TokenConfig.Format.
const (
	TokenFormatOpaque = internal.TokenFormatOpaque
	TokenFormatUUID   = internal.TokenFormatUUID
)

// Config controls an Engine. Start from DefaultConfig and override fields.
type Config struct {
	// KeyPrefix namespaces every record in the backend.
	KeyPrefix string
	// AuthDelay is slept at the start of every Authenticate call.
	AuthDelay time.Duration
	// GenericAuthErrors makes Message render UserNotFound, WrongPassword and
	// NotVerified with one shared string.
	GenericAuthErrors bool

	Lockout  LockoutConfig
	Password PasswordConfig
	Tokens   TokenConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
LOCKOUT CONFIG
====================================
*/

// LockoutConfig controls failed-attempt lockout.
//
// Raising MaxAttempts trades brute-force resistance for user convenience.
// Raising Duration lengthens the denial window for a locked email.
type LockoutConfig struct {
	MaxAttempts int
	Duration    time.Duration
	// GlobalClearOnSuccess makes any successful sign-in clear every lockout,
	// not only the signing-in email's. Off by default.
	GlobalClearOnSuccess bool
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig selects the digest algorithm and the length policy.
type PasswordConfig struct {
	Algorithm string // "sha256" (default) or "argon2id"
	MinLength int
	Argon2    password.Config
	// UpgradeOnLogin rehashes a stored digest after a successful
	// Authenticate when Algorithm is argon2id and the digest is SHA-256 or
	// used weaker argon2 parameters. Digests are never rehashed to SHA-256.
	UpgradeOnLogin bool
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls verification and reset tokens. A zero TTL means the
// token never expires and stays valid until consumed.
type TokenConfig struct {
	Format          string // "opaque" (default) or "uuid"
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the reference policy: 5 attempts, 15 minute lockout,
// 8 character passwords, SHA-256 digests and non-expiring tokens.
func DefaultConfig() Config {
	return Config{
		KeyPrefix: internal.DefaultKeyPrefix,
		AuthDelay: 300 * time.Millisecond,
		Lockout: LockoutConfig{
			MaxAttempts: 5,
			Duration:    15 * time.Minute,
		},
		Password: PasswordConfig{
			Algorithm:      HashSHA256,
			MinLength:      8,
			Argon2:         password.DefaultConfig(),
			UpgradeOnLogin: true,
		},
		Tokens: TokenConfig{
			Format: TokenFormatOpaque,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// Validate checks c for values an Engine cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.KeyPrefix) == "" {
		return errors.New("KeyPrefix must not be empty")
	}
	if c.AuthDelay < 0 {
		return errors.New("AuthDelay must be >= 0")
	}

	// Lockout
	if c.Lockout.MaxAttempts <= 0 {
		return errors.New("Lockout MaxAttempts must be > 0")
	}
	if c.Lockout.Duration <= 0 {
		return errors.New("Lockout Duration must be > 0")
	}

	// Password
	if c.Password.MinLength <= 0 {
		return errors.New("Password MinLength must be > 0")
	}
	switch c.Password.Algorithm {
	case HashSHA256:
	case HashArgon2id:
		if c.Password.Argon2.MaxPasswordBytes > 0 && c.Password.MinLength > c.Password.Argon2.MaxPasswordBytes {
			return errors.New("Password MinLength exceeds Argon2 MaxPasswordBytes")
		}
	default:
		return errors.New("unsupported Password Algorithm")
	}

	// Tokens
	if c.Tokens.Format != TokenFormatOpaque && c.Tokens.Format != TokenFormatUUID {
		return errors.New("unsupported Tokens Format")
	}
	if c.Tokens.VerificationTTL < 0 {
		return errors.New("Tokens VerificationTTL must be >= 0")
	}
	if c.Tokens.ResetTTL < 0 {
		return errors.New("Tokens ResetTTL must be >= 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	return nil
}
