package credstore

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidEmail is returned when an email does not look like name@host.tld.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrWeakPassword is returned when a password is shorter than Config.Password.MinLength.
	ErrWeakPassword = errors.New("password too short")
	// ErrPasswordMismatch is returned when a password and its confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrProfileIncomplete is returned when registration is missing a name or company.
	ErrProfileIncomplete = errors.New("name and company required")
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound is returned when no account matches the email, including
	// when a token maps to an account that no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword is returned when the password does not match the stored digest.
	ErrWrongPassword = errors.New("wrong password")
	// ErrNotVerified is returned when credentials are correct but the email is unverified.
	ErrNotVerified = errors.New("email not verified")
	// ErrInvalidToken is returned for unknown, consumed or expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrLocked is returned when an email is locked out after too many failures.
	ErrLocked = errors.New("account locked")
	// ErrStoreNotReady is returned when a nil or unbuilt Engine is used.
	ErrStoreNotReady = errors.New("credential store not initialized")
)

// LockedError reports an active lockout. It wraps ErrLocked and, when the
// lockout was triggered by the current attempt, the authentication error
// that caused it.
type LockedError struct {
	Email string
	Until time.Time
	Count int
	Cause error
}

func (e *LockedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %v until %s", e.Cause, ErrLocked, e.Until.UTC().Format(time.RFC3339))
	}
	return fmt.Sprintf("%v until %s", ErrLocked, e.Until.UTC().Format(time.RFC3339))
}

func (e *LockedError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrLocked, e.Cause}
	}
	return []error{ErrLocked}
}

// AttemptError reports a failed sign-in that did not (yet) trigger a lockout.
type AttemptError struct {
	Cause     error
	Remaining int
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("%v (%d attempts remaining)", e.Cause, e.Remaining)
}

func (e *AttemptError) Unwrap() error {
	return e.Cause
}
