package credstore

import (
	"context"
	"strings"
	"time"
)

// SetRemember saves email for pre-filling the next sign-in. It grants no
// access by itself.
func (e *Engine) SetRemember(ctx context.Context, email string) {
	if !e.ready() {
		return
	}
	e.mu.Lock()
	e.remember.Set(ctx, strings.TrimSpace(email), e.now().UnixMilli())
	e.mu.Unlock()
	e.metricInc(MetricRememberSet)
}

// Remembered returns the saved email, if any.
func (e *Engine) Remembered(ctx context.Context) (string, bool) {
	r, ok := e.RememberedEmail(ctx)
	return r.Email, ok
}

// RememberedEmail returns the saved email with the time it was saved.
func (e *Engine) RememberedEmail(ctx context.Context) (RememberedEmail, bool) {
	if !e.ready() {
		return RememberedEmail{}, false
	}
	rec, ok := e.remember.Get(ctx)
	if !ok {
		return RememberedEmail{}, false
	}
	return RememberedEmail{Email: rec.Email, Timestamp: time.UnixMilli(rec.Timestamp)}, true
}

// ClearRemember forgets the saved email.
func (e *Engine) ClearRemember(ctx context.Context) {
	if !e.ready() {
		return
	}
	e.mu.Lock()
	e.remember.Clear(ctx)
	e.mu.Unlock()
}
