package credstore

import (
	"context"
	"sync"
	"time"

	"github.com/incidentmart/credstore/internal"
	"github.com/incidentmart/credstore/internal/audit"
	"github.com/incidentmart/credstore/internal/limiters"
	"github.com/incidentmart/credstore/internal/stores"
	"github.com/incidentmart/credstore/password"
	"go.uber.org/zap"
)

// Engine is the credential store. Build one with New().
//
// Every record lives under its own key, so concurrent writers touching
// different emails or tokens never overwrite each other. Within one Engine,
// read-modify-write sequences are serialized by mu. Engines in different
// processes sharing a backend are last-write-wins per record.
type Engine struct {
	config Config
	log    *zap.Logger

	// mu guards read-modify-write sequences over the stores below.
	mu sync.Mutex

	keys         internal.Keyspace
	users        *stores.UserStore
	verifyTokens *stores.TokenStore
	resetTokens  *stores.TokenStore
	remember     *stores.RememberStore
	lockout      *limiters.LockoutTracker

	hasher password.Hasher
	argon  *password.Argon2
	mailer Mailer

	audit   *audit.Dispatcher
	metrics *Metrics
	clock   func() time.Time
}

// Close flushes pending audit events. It does not close the backend.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Config returns a copy of the Engine's configuration.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	return e.config
}

// AuditDropped returns how many audit events were dropped on a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns the current counters and latency histogram.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil && e.users != nil
}

func (e *Engine) now() time.Time {
	if e == nil || e.clock == nil {
		return time.Now()
	}
	return e.clock()
}

func (e *Engine) newToken() (string, error) {
	return internal.NewToken(e.config.Tokens.Format)
}

func (e *Engine) hashPassword(plain string) (string, error) {
	return e.hasher.Hash(plain)
}

// verifyPassword checks plain against stored with whichever algorithm
// produced stored, and reports whether stored should be rehashed.
func (e *Engine) verifyPassword(plain, stored string) (ok bool, upgrade bool, err error) {
	if password.IsArgon2(stored) {
		ok, err = e.argon.Verify(plain, stored)
		if err != nil || !ok {
			return false, false, err
		}
		// An argon2 digest is never rewritten as SHA-256, only re-hashed
		// when the configured argon2 parameters are stronger.
		if e.config.Password.Algorithm != HashArgon2id {
			return true, false, nil
		}
		upgrade, _ = e.argon.NeedsUpgrade(stored)
		return true, upgrade, nil
	}

	ok, err = password.SHA256{}.Verify(plain, stored)
	if err != nil || !ok {
		return false, false, err
	}
	return true, e.config.Password.Algorithm == HashArgon2id, nil
}

func userFromRecord(rec stores.UserRecord) User {
	return User{
		Name:         rec.Name,
		Company:      rec.Company,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Verified:     rec.Verified,
		CreatedAt:    time.UnixMilli(rec.CreatedAt),
	}
}

// waitAuthDelay sleeps for the configured authentication delay. It returns
// early with ctx.Err() if ctx is done first.
func (e *Engine) waitAuthDelay(ctx context.Context) error {
	d := e.config.AuthDelay
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
