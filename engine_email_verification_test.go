package credstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestVerifyIsSingleUse(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	res, err := env.engine.Register(ctx, RegisterRequest{Name: "A", Company: "B", Email: "a@b.com", Password: "longenough1"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := env.engine.Verify(ctx, res.VerificationToken); err != nil {
		t.Fatalf("first Verify failed: %v", err)
	}
	user, _ := env.engine.Lookup(ctx, "a@b.com")
	if !user.Verified {
		t.Fatal("expected user to be verified")
	}

	if err := env.engine.Verify(ctx, res.VerificationToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on replay, got %v", err)
	}
}

func TestVerifyUnknownToken(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, token := range []string{"", "does-not-exist"} {
		if err := env.engine.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
	if got := env.engine.MetricsSnapshot().Counters[MetricEmailVerificationFailure]; got != 2 {
		t.Fatalf("expected 2 verification failures counted, got %d", got)
	}
}

func TestVerifyTokenForVanishedUser(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	res, err := env.engine.Register(ctx, RegisterRequest{Name: "A", Company: "B", Email: "a@b.com", Password: "longenough1"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := env.backend.Delete(ctx, env.engine.keys.User("a@b.com")); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if err := env.engine.Verify(ctx, res.VerificationToken); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestVerifyTokenExpiresWhenTTLConfigured(t *testing.T) {
	env := newTestEnv(t, func(c *Config) {
		c.Tokens.VerificationTTL = time.Hour
	})
	ctx := context.Background()

	res, err := env.engine.Register(ctx, RegisterRequest{Name: "A", Company: "B", Email: "a@b.com", Password: "longenough1"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	env.clock.Advance(time.Hour)

	if err := env.engine.Verify(ctx, res.VerificationToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be ErrInvalidToken, got %v", err)
	}
	user, _ := env.engine.Lookup(ctx, "a@b.com")
	if user.Verified {
		t.Fatal("expired token must not verify the user")
	}
}

func TestVerifyTokenNeverExpiresByDefault(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	res, err := env.engine.Register(ctx, RegisterRequest{Name: "A", Company: "B", Email: "a@b.com", Password: "longenough1"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	env.clock.Advance(365 * 24 * time.Hour)

	if err := env.engine.Verify(ctx, res.VerificationToken); err != nil {
		t.Fatalf("expected token without TTL to stay valid, got %v", err)
	}
}

func TestUUIDTokenFormat(t *testing.T) {
	env := newTestEnv(t, func(c *Config) {
		c.Tokens.Format = TokenFormatUUID
	})

	res, err := env.engine.Register(context.Background(), RegisterRequest{Name: "A", Company: "B", Email: "a@b.com", Password: "longenough1"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(res.VerificationToken) != 36 {
		t.Fatalf("expected a 36-char UUID token, got %q", res.VerificationToken)
	}
}
