package credstore

import (
	"context"
	"strings"
	"time"
)

// RecordFailedAttempt appends a failed attempt for email, tagged with the
// client identifier from ctx.
func (e *Engine) RecordFailedAttempt(ctx context.Context, email string) {
	if !e.ready() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lockout.RecordFailure(ctx, strings.TrimSpace(email), clientIDFromContext(ctx))
}

// FailedAttempts returns the failed attempts recorded for email, oldest first.
func (e *Engine) FailedAttempts(ctx context.Context, email string) []FailedAttempt {
	if !e.ready() {
		return nil
	}
	recs := e.lockout.Attempts(ctx, strings.TrimSpace(email))
	out := make([]FailedAttempt, 0, len(recs))
	for _, r := range recs {
		out = append(out, FailedAttempt{
			Email:     r.Email,
			Timestamp: time.UnixMilli(r.Timestamp),
			ClientID:  r.ClientID,
		})
	}
	return out
}

// AttemptsCount returns the number of failed attempts recorded for email.
func (e *Engine) AttemptsCount(ctx context.Context, email string) int {
	if !e.ready() {
		return 0
	}
	return e.lockout.Count(ctx, strings.TrimSpace(email))
}

// ClearFailedAttempts forgets every failed attempt for email.
func (e *Engine) ClearFailedAttempts(ctx context.Context, email string) {
	if !e.ready() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lockout.ClearAttempts(ctx, strings.TrimSpace(email))
}

// SetLockout locks email for Config.Lockout.Duration from now.
func (e *Engine) SetLockout(ctx context.Context, email string, count int) LockoutInfo {
	if !e.ready() {
		return LockoutInfo{}
	}
	email = strings.TrimSpace(email)

	e.mu.Lock()
	rec := e.lockout.Lock(ctx, email, count)
	e.mu.Unlock()

	e.metricInc(MetricLockoutTriggered)
	return LockoutInfo{Email: rec.Email, Until: time.UnixMilli(rec.Until), Count: rec.Count}
}

// Lockout returns the active lockout for email. An expired lockout is
// deleted and reported as absent.
func (e *Engine) Lockout(ctx context.Context, email string) (LockoutInfo, bool) {
	if !e.ready() {
		return LockoutInfo{}, false
	}
	e.mu.Lock()
	rec, ok := e.lockout.Active(ctx, strings.TrimSpace(email))
	e.mu.Unlock()
	if !ok {
		return LockoutInfo{}, false
	}
	return LockoutInfo{Email: rec.Email, Until: time.UnixMilli(rec.Until), Count: rec.Count}, true
}

// ClearLockout removes the lockout for email, if any.
func (e *Engine) ClearLockout(ctx context.Context, email string) {
	if !e.ready() {
		return
	}
	email = strings.TrimSpace(email)

	e.mu.Lock()
	e.lockout.Clear(ctx, email)
	e.mu.Unlock()

	e.emitAudit(ctx, auditEventLockoutCleared, true, email, nil, nil)
}
