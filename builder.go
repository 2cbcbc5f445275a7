package credstore

import (
	"errors"
	"time"

	"github.com/incidentmart/credstore/internal"
	"github.com/incidentmart/credstore/internal/audit"
	"github.com/incidentmart/credstore/internal/limiters"
	"github.com/incidentmart/credstore/internal/stores"
	"github.com/incidentmart/credstore/kv"
	"github.com/incidentmart/credstore/password"
	"go.uber.org/zap"
)

// Builder assembles an Engine. A Builder can be used for one Build only.
//
//	engine, err := credstore.New().
//		WithConfig(cfg).
//		WithBackend(kv.NewMemory()).
//		WithLogger(logger).
//		Build()
type Builder struct {
	config  Config
	backend kv.Backend
	logger  *zap.Logger

	mailer    Mailer
	auditSink AuditSink
	clock     func() time.Time

	built bool
}

// New returns a Builder preloaded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBackend sets the key-value backend every record is stored in. Required.
func (b *Builder) WithBackend(backend kv.Backend) *Builder {
	b.backend = backend
	return b
}

// WithLogger sets the logger for swallowed persistence errors and lifecycle
// events. Defaults to a no-op logger.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMailer sets where verification and reset tokens are delivered.
// Defaults to a LogMailer on the Builder's logger.
func (b *Builder) WithMailer(m Mailer) *Builder {
	b.mailer = m
	return b
}

// WithAuditSink sets the audit sink. Events are only dispatched when
// Config.Audit.Enabled is true; without a sink they are logged through the
// Builder's logger.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock replaces time.Now for lockout, token expiry and timestamps.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.backend == nil {
		return nil, errors.New("kv backend required")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	// -------- PASSWORD HASHERS --------
	argon, err := password.NewArgon2(cfg.Password.Argon2)
	if err != nil {
		if cfg.Password.Algorithm == HashArgon2id {
			return nil, err
		}
		// Only used to verify digests written under a previous argon2id config.
		argon, err = password.NewArgon2(password.DefaultConfig())
		if err != nil {
			return nil, err
		}
	}
	var primary password.Hasher = password.SHA256{}
	if cfg.Password.Algorithm == HashArgon2id {
		primary = argon
	}

	// -------- RECORD STORES --------
	keys := internal.NewKeyspace(cfg.KeyPrefix)
	adapter := kv.NewAdapter(b.backend, logger.Named("kv"))

	engine := &Engine{
		config:       cfg,
		log:          logger,
		keys:         keys,
		users:        stores.NewUserStore(adapter, keys),
		verifyTokens: stores.NewTokenStore(adapter, keys.Verify, clock),
		resetTokens:  stores.NewTokenStore(adapter, keys.Reset, clock),
		remember:     stores.NewRememberStore(adapter, keys),
		lockout: limiters.NewLockoutTracker(adapter, keys, limiters.LockoutConfig{
			MaxAttempts:          cfg.Lockout.MaxAttempts,
			Duration:             cfg.Lockout.Duration,
			GlobalClearOnSuccess: cfg.Lockout.GlobalClearOnSuccess,
		}, clock),
		hasher:  primary,
		argon:   argon,
		audit:   audit.NewDispatcher(audit.Config(cfg.Audit), b.auditSink, logger),
		metrics: NewMetrics(cfg.Metrics),
		clock:   clock,
	}

	engine.mailer = b.mailer
	if engine.mailer == nil {
		engine.mailer = NewLogMailer(logger)
	}

	b.built = true

	return engine, nil
}
