package credstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMessageReferenceStrings(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrInvalidEmail, "Invalid email."},
		{ErrEmailTaken, "The email is already registered."},
		{ErrWeakPassword, "The password must be at least 8 characters."},
		{ErrPasswordMismatch, "The passwords do not match."},
		{ErrProfileIncomplete, "Enter name and company."},
		{ErrInvalidToken, "Invalid or expired token."},
		{ErrUserNotFound, "User not found."},
		{ErrWrongPassword, "Invalid password."},
		{ErrNotVerified, "You must verify your email to log in."},
		{fmt.Errorf("wrapped: %w", ErrInvalidToken), "Invalid or expired token."},
		{errors.New("boom"), "Authentication error."},
	}

	for _, tt := range tests {
		if got := env.engine.Message(tt.err); got != tt.want {
			t.Fatalf("Message(%v): expected %q, got %q", tt.err, tt.want, got)
		}
	}
}

func TestMessageSignInErrors(t *testing.T) {
	env := newTestEnv(t, nil)

	attempt := &AttemptError{Cause: ErrInvalidEmail, Remaining: 3}
	if got, want := env.engine.Message(attempt), "Invalid email format. You have left 3 attempt(s) before blocking."; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	triggered := &LockedError{Until: env.clock.Now().Add(15 * time.Minute), Count: 5, Cause: ErrWrongPassword}
	if got, want := env.engine.Message(triggered), "The maximum number of attempts has been reached. Account blocked by 15 min."; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	gated := &LockedError{Until: env.clock.Now().Add(90 * time.Second), Count: 5}
	if got, want := env.engine.Message(gated), "Your account is blocked for security reasons. Please try again later. 2 min."; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMessageGenericAuthErrors(t *testing.T) {
	env := newTestEnv(t, func(c *Config) {
		c.GenericAuthErrors = true
	})
	ctx := context.Background()
	env.registerVerified(t, "a@b.com", "longenough1")

	_, errUnknown := env.engine.SignIn(ctx, "ghost@x.com", "whatever1", false)
	_, errWrong := env.engine.SignIn(ctx, "a@b.com", "whatever1", false)

	if !errors.Is(errUnknown, ErrUserNotFound) || !errors.Is(errWrong, ErrWrongPassword) {
		t.Fatalf("expected errors to stay distinguishable, got %v / %v", errUnknown, errWrong)
	}
	if env.engine.Message(errUnknown) != env.engine.Message(errWrong) {
		t.Fatalf("expected identical messages, got %q vs %q", env.engine.Message(errUnknown), env.engine.Message(errWrong))
	}
	if got := env.engine.Message(ErrNotVerified); got != GenericAuthMessage {
		t.Fatalf("expected generic message, got %q", got)
	}
}
