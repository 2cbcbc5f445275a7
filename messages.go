package credstore

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// GenericAuthMessage replaces the account-revealing authentication messages
// when Config.GenericAuthErrors is set.
const GenericAuthMessage = "Invalid email or password."

// Message renders err as the user-facing text for a form. Errors from
// SignIn (*AttemptError, *LockedError) include the remaining attempts or the
// lockout window. Message returns "" for a nil error.
func (e *Engine) Message(err error) string {
	if err == nil {
		return ""
	}

	var locked *LockedError
	if errors.As(err, &locked) {
		if locked.Cause != nil {
			return fmt.Sprintf("The maximum number of attempts has been reached. Account blocked by %d min.",
				ceilMinutes(e.lockoutDuration()))
		}
		return fmt.Sprintf("Your account is blocked for security reasons. Please try again later. %d min.",
			ceilMinutes(locked.Until.Sub(e.now())))
	}

	var attempt *AttemptError
	if errors.As(err, &attempt) {
		return fmt.Sprintf("%s You have left %d attempt(s) before blocking.",
			e.message(attempt.Cause, true), attempt.Remaining)
	}

	return e.message(err, false)
}

func (e *Engine) message(err error, signIn bool) string {
	generic := e != nil && e.config.GenericAuthErrors

	switch {
	case errors.Is(err, ErrInvalidEmail):
		if signIn {
			return "Invalid email format."
		}
		return "Invalid email."
	case errors.Is(err, ErrEmailTaken):
		return "The email is already registered."
	case errors.Is(err, ErrWeakPassword):
		return fmt.Sprintf("The password must be at least %d characters.", e.minPasswordLength())
	case errors.Is(err, ErrPasswordMismatch):
		return "The passwords do not match."
	case errors.Is(err, ErrProfileIncomplete):
		return "Enter name and company."
	case errors.Is(err, ErrInvalidToken):
		return "Invalid or expired token."
	case errors.Is(err, ErrUserNotFound):
		if generic {
			return GenericAuthMessage
		}
		return "User not found."
	case errors.Is(err, ErrWrongPassword):
		if generic {
			return GenericAuthMessage
		}
		return "Invalid password."
	case errors.Is(err, ErrNotVerified):
		if generic {
			return GenericAuthMessage
		}
		return "You must verify your email to log in."
	default:
		return "Authentication error."
	}
}

func (e *Engine) lockoutDuration() time.Duration {
	if e == nil {
		return DefaultConfig().Lockout.Duration
	}
	return e.config.Lockout.Duration
}

func (e *Engine) minPasswordLength() int {
	if e == nil {
		return DefaultConfig().Password.MinLength
	}
	return e.config.Password.MinLength
}

func ceilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Minutes()))
}
