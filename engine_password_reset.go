package credstore

import (
	"context"
	"fmt"
	"strings"
)

// ResetRequestedMessage is shown for every StartReset call, whether or not
// the email has an account.
const ResetRequestedMessage = "If the email address exists, we'll send you a reset link. Check your email."

// StartReset issues a password reset token for email.
//
// The returned Message is identical for known and unknown emails and no
// error is returned for an unknown email; callers must not branch on whether
// Token is empty. The token is delivered through the Mailer.
func (e *Engine) StartReset(ctx context.Context, email string) (*ResetRequest, error) {
	if !e.ready() {
		return nil, ErrStoreNotReady
	}
	email = strings.TrimSpace(email)
	e.metricInc(MetricPasswordResetRequest)

	account, token, err := e.issueReset(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == "" {
		e.emitAudit(ctx, auditEventPasswordResetStart, false, email, ErrUserNotFound, nil)
		return &ResetRequest{Message: ResetRequestedMessage}, nil
	}

	e.mailer.SendPasswordReset(ctx, account, token)
	e.emitAudit(ctx, auditEventPasswordResetStart, true, account, nil, nil)

	return &ResetRequest{Message: ResetRequestedMessage, Token: token}, nil
}

// issueReset saves a reset token for email's account. An unknown email
// returns an empty account and no error.
func (e *Engine) issueReset(ctx context.Context, email string) (account, token string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.users.Get(ctx, email)
	if !ok {
		return "", "", nil
	}
	token, err = e.newToken()
	if err != nil {
		return "", "", fmt.Errorf("generate reset token: %w", err)
	}
	e.resetTokens.Save(ctx, token, rec.Email, e.config.Tokens.ResetTTL)
	return rec.Email, token, nil
}

// ResolveResetToken returns the email a reset token was issued for without
// consuming it.
func (e *Engine) ResolveResetToken(ctx context.Context, token string) (string, bool) {
	if !e.ready() {
		return "", false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resetTokens.Lookup(ctx, strings.TrimSpace(token))
}

// CompleteReset sets a new password and consumes the reset token.
//
// Checks run in order: password length (ErrWeakPassword), token
// (ErrInvalidToken), account (ErrUserNotFound).
func (e *Engine) CompleteReset(ctx context.Context, token, newPassword string) error {
	if !e.ready() {
		return ErrStoreNotReady
	}
	token = strings.TrimSpace(token)

	if err := e.checkPasswordLength(newPassword); err != nil {
		e.resetFailed(ctx, "", err)
		return err
	}

	email, err := e.resolveReset(ctx, token)
	if err != nil {
		e.resetFailed(ctx, email, err)
		return err
	}

	hash, err := e.hashPassword(newPassword)
	if err != nil {
		e.resetFailed(ctx, email, err)
		return fmt.Errorf("hash password: %w", err)
	}

	if err := e.applyReset(ctx, token, email, hash); err != nil {
		e.resetFailed(ctx, email, err)
		return err
	}

	e.metricInc(MetricPasswordResetConfirmSuccess)
	e.emitAudit(ctx, auditEventPasswordResetDone, true, email, nil, nil)
	return nil
}

// resolveReset returns the account email a live reset token belongs to.
func (e *Engine) resolveReset(ctx context.Context, token string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	email, ok := e.resetTokens.Lookup(ctx, token)
	if !ok {
		return "", ErrInvalidToken
	}
	if _, ok := e.users.Get(ctx, email); !ok {
		return email, ErrUserNotFound
	}
	return email, nil
}

// applyReset stores hash and consumes token. The token must still map to
// email, so two concurrent completions of one token cannot both succeed.
func (e *Engine) applyReset(ctx context.Context, token, email, hash string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if current, ok := e.resetTokens.Lookup(ctx, token); !ok || current != email {
		return ErrInvalidToken
	}
	rec, ok := e.users.Get(ctx, email)
	if !ok {
		return ErrUserNotFound
	}
	rec.PasswordHash = hash
	e.users.Put(ctx, rec)
	e.resetTokens.Delete(ctx, token)
	return nil
}

// CompleteResetConfirmed is CompleteReset with a confirmation field. A
// mismatch is reported after the length check and before the token check.
func (e *Engine) CompleteResetConfirmed(ctx context.Context, token, newPassword, confirm string) error {
	if !e.ready() {
		return ErrStoreNotReady
	}
	if err := e.checkPasswordLength(newPassword); err != nil {
		e.resetFailed(ctx, "", err)
		return err
	}
	if err := CheckPasswordConfirmation(newPassword, confirm); err != nil {
		e.resetFailed(ctx, "", err)
		return err
	}
	return e.CompleteReset(ctx, token, newPassword)
}

func (e *Engine) resetFailed(ctx context.Context, email string, err error) {
	e.metricInc(MetricPasswordResetConfirmFailure)
	e.emitAudit(ctx, auditEventPasswordResetFailed, false, email, err, nil)
}
