package credstore

import (
	"context"
	"strings"
)

// Verify consumes a verification token and marks its account verified.
//
// Unknown, already consumed and expired tokens return ErrInvalidToken. A
// token whose account no longer exists returns ErrUserNotFound and is left
// in place.
func (e *Engine) Verify(ctx context.Context, token string) error {
	if !e.ready() {
		return ErrStoreNotReady
	}

	email, err := e.consumeVerification(ctx, strings.TrimSpace(token))
	if err != nil {
		e.metricInc(MetricEmailVerificationFailure)
		e.emitAudit(ctx, auditEventVerifyFailure, false, email, err, nil)
		if err == ErrUserNotFound {
			e.log.Warn("verification token maps to a missing user")
		}
		return err
	}

	e.metricInc(MetricEmailVerificationSuccess)
	e.emitAudit(ctx, auditEventVerifySuccess, true, email, nil, nil)
	return nil
}

// consumeVerification marks the token's account verified and deletes the
// token. The email is returned whenever the token resolved.
func (e *Engine) consumeVerification(ctx context.Context, token string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	email, ok := e.verifyTokens.Lookup(ctx, token)
	if !ok {
		return "", ErrInvalidToken
	}
	rec, ok := e.users.Get(ctx, email)
	if !ok {
		return email, ErrUserNotFound
	}

	rec.Verified = true
	e.users.Put(ctx, rec)
	e.verifyTokens.Delete(ctx, token)
	return rec.Email, nil
}
