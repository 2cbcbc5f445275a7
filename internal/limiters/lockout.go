package limiters

import (
	"context"
	"time"

	"github.com/incidentmart/credstore/internal"
	"github.com/incidentmart/credstore/kv"
)

// LockoutConfig holds configuration for the account lockout tracker.
type LockoutConfig struct {
	MaxAttempts int
	Duration    time.Duration
	// GlobalClearOnSuccess makes a successful sign-in clear every lockout
	// record instead of only the one for the signing-in email.
	GlobalClearOnSuccess bool
}

// AttemptRecord is one persisted failed sign-in.
type AttemptRecord struct {
	Email     string `json:"email"`
	Timestamp int64  `json:"timestamp"` // epoch ms
	ClientID  string `json:"clientId"`
}

// LockoutRecord is the persisted lockout for one email.
type LockoutRecord struct {
	Email string `json:"email"`
	Until int64  `json:"until"` // epoch ms
	Count int    `json:"count"`
}

// LockoutTracker stores failed attempts and lockouts under per-email keys.
type LockoutTracker struct {
	kv     *kv.Adapter
	keys   internal.Keyspace
	config LockoutConfig
	now    func() time.Time
}

// NewLockoutTracker creates a new lockout tracker.
func NewLockoutTracker(adapter *kv.Adapter, keys internal.Keyspace, cfg LockoutConfig, now func() time.Time) *LockoutTracker {
	if now == nil {
		now = time.Now
	}
	return &LockoutTracker{kv: adapter, keys: keys, config: cfg, now: now}
}

// RecordFailure appends a failed attempt and returns the email's attempt count.
func (l *LockoutTracker) RecordFailure(ctx context.Context, email, clientID string) int {
	if l == nil || email == "" {
		return 0
	}
	attempts := l.Attempts(ctx, email)
	attempts = append(attempts, AttemptRecord{
		Email:     email,
		Timestamp: l.now().UnixMilli(),
		ClientID:  clientID,
	})
	l.kv.Write(ctx, l.keys.Attempts(email), attempts)
	return len(attempts)
}

// Attempts returns the failed attempts recorded for email, oldest first.
func (l *LockoutTracker) Attempts(ctx context.Context, email string) []AttemptRecord {
	if l == nil || email == "" {
		return nil
	}
	var attempts []AttemptRecord
	l.kv.Read(ctx, l.keys.Attempts(email), &attempts)
	return attempts
}

// Count returns the number of failed attempts recorded for email.
func (l *LockoutTracker) Count(ctx context.Context, email string) int {
	return len(l.Attempts(ctx, email))
}

// ClearAttempts forgets every failed attempt for email.
func (l *LockoutTracker) ClearAttempts(ctx context.Context, email string) {
	if l == nil || email == "" {
		return
	}
	l.kv.Remove(ctx, l.keys.Attempts(email))
}

// Remaining is how many more failures email may accumulate before lockout.
func (l *LockoutTracker) Remaining(count int) int {
	if l == nil {
		return 0
	}
	if r := l.config.MaxAttempts - count; r > 0 {
		return r
	}
	return 0
}

// Lock writes a lockout for email expiring Duration from now.
func (l *LockoutTracker) Lock(ctx context.Context, email string, count int) LockoutRecord {
	if l == nil {
		return LockoutRecord{}
	}
	rec := LockoutRecord{
		Email: email,
		Until: l.now().Add(l.config.Duration).UnixMilli(),
		Count: count,
	}
	l.kv.Write(ctx, l.keys.Lockout(email), rec)
	return rec
}

// Active returns the unexpired lockout for email. An expired record is
// deleted and reported as absent.
func (l *LockoutTracker) Active(ctx context.Context, email string) (LockoutRecord, bool) {
	if l == nil || email == "" {
		return LockoutRecord{}, false
	}
	var rec LockoutRecord
	if !l.kv.Read(ctx, l.keys.Lockout(email), &rec) {
		return LockoutRecord{}, false
	}
	if l.now().UnixMilli() >= rec.Until {
		l.kv.Remove(ctx, l.keys.Lockout(email))
		return LockoutRecord{}, false
	}
	return rec, true
}

// Clear removes the lockout for email.
func (l *LockoutTracker) Clear(ctx context.Context, email string) {
	if l == nil || email == "" {
		return
	}
	l.kv.Remove(ctx, l.keys.Lockout(email))
}

// ClearAll removes every lockout record in the keyspace.
func (l *LockoutTracker) ClearAll(ctx context.Context) {
	if l == nil {
		return
	}
	for _, key := range l.kv.Keys(ctx, l.keys.LockoutPrefix()) {
		l.kv.Remove(ctx, key)
	}
}

// ClearOnSuccess applies the configured success policy for email.
func (l *LockoutTracker) ClearOnSuccess(ctx context.Context, email string) {
	if l == nil {
		return
	}
	l.ClearAttempts(ctx, email)
	if l.config.GlobalClearOnSuccess {
		l.ClearAll(ctx)
		return
	}
	l.Clear(ctx, email)
}
