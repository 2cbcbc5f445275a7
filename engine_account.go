package credstore

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/incidentmart/credstore/internal"
	"github.com/incidentmart/credstore/internal/stores"
)

// Register creates an unverified account and issues a verification token.
//
// Checks run in order: email format (ErrInvalidEmail), uniqueness
// (ErrEmailTaken), password length (ErrWeakPassword), then name and company
// (ErrProfileIncomplete). On success the token is handed to the Mailer and
// returned to the caller.
//
// Hashing and delivery run outside the Engine lock; only the uniqueness
// re-check and the writes hold it.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if !e.ready() {
		return nil, ErrStoreNotReady
	}

	name := strings.TrimSpace(req.Name)
	company := strings.TrimSpace(req.Company)
	email := strings.TrimSpace(req.Email)

	e.mu.Lock()
	err := e.validateRegistration(ctx, name, company, email, req.Password)
	e.mu.Unlock()
	if err != nil {
		e.registerFailed(ctx, email, err)
		return nil, err
	}

	hash, err := e.hashPassword(req.Password)
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		return nil, fmt.Errorf("hash password: %w", err)
	}
	token, err := e.newToken()
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	rec := stores.UserRecord{
		Name:         name,
		Company:      company,
		Email:        email,
		PasswordHash: hash,
		Verified:     false,
		CreatedAt:    e.now().UnixMilli(),
	}
	if err := e.createAccount(ctx, rec, token); err != nil {
		e.registerFailed(ctx, email, err)
		return nil, err
	}

	e.mailer.SendVerification(ctx, email, token)
	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, email, nil, nil)

	return &RegisterResult{Email: email, VerificationToken: token}, nil
}

// createAccount writes rec and its verification token unless a concurrent
// Register took the email after validation.
func (e *Engine) createAccount(ctx context.Context, rec stores.UserRecord, token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, taken := e.users.Get(ctx, rec.Email); taken {
		return ErrEmailTaken
	}
	e.users.Put(ctx, rec)
	e.verifyTokens.Save(ctx, token, rec.Email, e.config.Tokens.VerificationTTL)
	return nil
}

func (e *Engine) registerFailed(ctx context.Context, email string, err error) {
	if err == ErrEmailTaken {
		e.metricInc(MetricRegisterDuplicate)
	} else {
		e.metricInc(MetricRegisterFailure)
	}
	e.emitAudit(ctx, auditEventRegisterFailure, false, email, err, nil)
}

func (e *Engine) validateRegistration(ctx context.Context, name, company, email, plain string) error {
	if !internal.ValidEmail(email) {
		return ErrInvalidEmail
	}
	if _, taken := e.users.Get(ctx, email); taken {
		return ErrEmailTaken
	}
	if err := e.checkPasswordLength(plain); err != nil {
		return err
	}
	if name == "" || company == "" {
		return ErrProfileIncomplete
	}
	return nil
}

func (e *Engine) checkPasswordLength(plain string) error {
	if utf8.RuneCountInString(plain) < e.config.Password.MinLength {
		return ErrWeakPassword
	}
	return nil
}

// CheckPasswordConfirmation returns ErrPasswordMismatch when a password and
// its confirmation field differ.
func CheckPasswordConfirmation(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// Lookup finds a user by case-insensitive email.
func (e *Engine) Lookup(ctx context.Context, email string) (User, bool) {
	if !e.ready() {
		return User{}, false
	}
	rec, ok := e.users.Get(ctx, strings.TrimSpace(email))
	if !ok {
		return User{}, false
	}
	return userFromRecord(rec), true
}

// IsTaken reports whether an account exists for email.
func (e *Engine) IsTaken(ctx context.Context, email string) bool {
	_, ok := e.Lookup(ctx, email)
	return ok
}

// ListUsers returns every account ordered by creation time.
func (e *Engine) ListUsers(ctx context.Context) []User {
	if !e.ready() {
		return nil
	}
	recs := e.users.List(ctx)
	users := make([]User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, userFromRecord(rec))
	}
	return users
}
