package credstore

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/incidentmart/credstore/internal"
	"go.uber.org/zap"
)

// Authenticate checks credentials after waiting Config.AuthDelay.
//
// Checks run in order and the first failure is returned: email format
// (ErrInvalidEmail), account existence (ErrUserNotFound), password
// (ErrWrongPassword), verification (ErrNotVerified). Authenticate does not
// consult or update lockout state; use SignIn for the gated flow. If ctx is
// done during the delay, ctx.Err() is returned and no check runs.
func (e *Engine) Authenticate(ctx context.Context, email, plain string) error {
	if !e.ready() {
		return ErrStoreNotReady
	}

	start := time.Now()
	err := e.authenticate(ctx, strings.TrimSpace(email), plain)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
	}
	if err != nil {
		e.metricInc(MetricAuthenticateFailure)
		return err
	}
	e.metricInc(MetricAuthenticateSuccess)
	return nil
}

func (e *Engine) authenticate(ctx context.Context, email, plain string) error {
	if err := e.waitAuthDelay(ctx); err != nil {
		return err
	}

	if !internal.ValidEmail(email) {
		return ErrInvalidEmail
	}

	rec, ok := e.users.Get(ctx, email)
	if !ok {
		return ErrUserNotFound
	}

	match, upgrade, err := e.verifyPassword(plain, rec.PasswordHash)
	if err != nil {
		e.log.Warn("stored password digest rejected", zap.Error(err))
		return ErrWrongPassword
	}
	if !match {
		return ErrWrongPassword
	}

	if !rec.Verified {
		return ErrNotVerified
	}

	if upgrade && e.config.Password.UpgradeOnLogin {
		e.rehash(ctx, rec.Email, rec.PasswordHash, plain)
	}
	return nil
}

// rehash replaces the stored digest if it still equals the one just verified.
func (e *Engine) rehash(ctx context.Context, email, verified, plain string) {
	hash, err := e.hashPassword(plain)
	if err != nil {
		e.log.Warn("password rehash failed", zap.Error(err))
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.users.Get(ctx, email)
	if !ok || rec.PasswordHash != verified {
		return
	}
	rec.PasswordHash = hash
	e.users.Put(ctx, rec)
}

// SignIn is the lockout-gated sign-in flow.
//
// If email has an active lockout, SignIn returns a *LockedError without
// calling Authenticate or recording an attempt. Otherwise it authenticates;
// a failure is recorded against email and returned as an *AttemptError with
// the attempts remaining, or, when none remain, a lockout is created and a
// *LockedError wrapping the authentication error is returned. A success
// clears the email's failed attempts and lockout and, when remember is set,
// saves email for pre-filling the next sign-in.
//
// After a lockout expires the attempt count is not reset, so the next failure
// locks the email again. Only a success clears the count.
func (e *Engine) SignIn(ctx context.Context, email, plain string, remember bool) (*SignInResult, error) {
	if !e.ready() {
		return nil, ErrStoreNotReady
	}
	email = strings.TrimSpace(email)

	e.mu.Lock()
	info, locked := e.lockout.Active(ctx, email)
	e.mu.Unlock()
	if locked {
		err := &LockedError{Email: info.Email, Until: time.UnixMilli(info.Until), Count: info.Count}
		e.metricInc(MetricSignInLocked)
		e.emitAudit(ctx, auditEventSignInLocked, false, email, err, nil)
		return nil, err
	}

	if err := e.Authenticate(ctx, email, plain); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, e.recordSignInFailure(ctx, email, err)
	}

	e.mu.Lock()
	e.lockout.ClearOnSuccess(ctx, email)
	if remember {
		e.remember.Set(ctx, email, e.now().UnixMilli())
	}
	rec, _ := e.users.Get(ctx, email)
	e.mu.Unlock()

	if remember {
		e.metricInc(MetricRememberSet)
	}
	e.metricInc(MetricSignInSuccess)
	e.emitAudit(ctx, auditEventSignInSuccess, true, email, nil, nil)

	return &SignInResult{User: userFromRecord(rec), Remembered: remember}, nil
}

// recordSignInFailure counts a failed attempt and locks email once the
// limit is reached. A lockout set by a concurrent SignIn after this call
// passed the gate is honored as is: the attempt is not recorded and the
// lockout is not extended.
func (e *Engine) recordSignInFailure(ctx context.Context, email string, cause error) error {
	e.mu.Lock()
	if active, locked := e.lockout.Active(ctx, email); locked {
		e.mu.Unlock()
		err := &LockedError{Email: active.Email, Until: time.UnixMilli(active.Until), Count: active.Count, Cause: cause}
		e.metricInc(MetricSignInLocked)
		e.emitAudit(ctx, auditEventSignInLocked, false, email, err, nil)
		return err
	}
	count := e.lockout.RecordFailure(ctx, email, clientIDFromContext(ctx))
	remaining := e.lockout.Remaining(count)
	var info LockoutInfo
	if remaining == 0 {
		rec := e.lockout.Lock(ctx, email, count)
		info = LockoutInfo{Email: rec.Email, Until: time.UnixMilli(rec.Until), Count: rec.Count}
	}
	e.mu.Unlock()

	e.metricInc(MetricSignInFailure)
	e.emitAudit(ctx, auditEventSignInFailure, false, email, cause, func() map[string]string {
		return map[string]string{"remaining": strconv.Itoa(remaining)}
	})

	if remaining > 0 {
		return &AttemptError{Cause: cause, Remaining: remaining}
	}

	e.metricInc(MetricLockoutTriggered)
	e.emitAudit(ctx, auditEventLockoutTriggered, false, email, ErrLocked, func() map[string]string {
		return map[string]string{"count": strconv.Itoa(info.Count)}
	})
	e.log.Info("email locked out",
		zap.String("email", email),
		zap.Int("attempts", info.Count),
		zap.Time("until", info.Until),
	)
	return &LockedError{Email: info.Email, Until: info.Until, Count: info.Count, Cause: cause}
}
