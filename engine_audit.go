package credstore

import (
	"context"
	"errors"
)

const (
	auditEventRegisterSuccess     = "register_success"
	auditEventRegisterFailure     = "register_failure"
	auditEventVerifySuccess       = "email_verification_confirm"
	auditEventVerifyFailure       = "email_verification_failure"
	auditEventSignInSuccess       = "sign_in_success"
	auditEventSignInFailure       = "sign_in_failure"
	auditEventSignInLocked        = "sign_in_locked"
	auditEventLockoutTriggered    = "lockout_triggered"
	auditEventLockoutCleared      = "lockout_cleared"
	auditEventPasswordResetStart  = "password_reset_request"
	auditEventPasswordResetDone   = "password_reset_confirm"
	auditEventPasswordResetFailed = "password_reset_failure"
)

// AuditErrorCode is the stable error label recorded on audit events.
type AuditErrorCode string

const (
	auditErrInvalidEmail    AuditErrorCode = "invalid_email"
	auditErrWeakPassword    AuditErrorCode = "weak_password"
	auditErrProfile         AuditErrorCode = "profile_incomplete"
	auditErrEmailTaken      AuditErrorCode = "email_taken"
	auditErrUserNotFound    AuditErrorCode = "user_not_found"
	auditErrWrongPassword   AuditErrorCode = "wrong_password"
	auditErrNotVerified     AuditErrorCode = "not_verified"
	auditErrInvalidToken    AuditErrorCode = "invalid_token"
	auditErrAccountLocked   AuditErrorCode = "account_locked"
	auditErrPasswordInvalid AuditErrorCode = "password_mismatch"
	auditErrInternal        AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	email string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: eventType,
		Email:     email,
		ClientID:  clientIDFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	// ErrLocked first: a LockedError also wraps the failure that caused it.
	switch {
	case errors.Is(err, ErrLocked):
		return auditErrAccountLocked
	case errors.Is(err, ErrInvalidEmail):
		return auditErrInvalidEmail
	case errors.Is(err, ErrWeakPassword):
		return auditErrWeakPassword
	case errors.Is(err, ErrPasswordMismatch):
		return auditErrPasswordInvalid
	case errors.Is(err, ErrProfileIncomplete):
		return auditErrProfile
	case errors.Is(err, ErrEmailTaken):
		return auditErrEmailTaken
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrWrongPassword):
		return auditErrWrongPassword
	case errors.Is(err, ErrNotVerified):
		return auditErrNotVerified
	case errors.Is(err, ErrInvalidToken):
		return auditErrInvalidToken
	default:
		return auditErrInternal
	}
}
