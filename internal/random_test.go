package internal

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewOpaqueTokenUnique(t *testing.T) {
	seen := make(map[string]struct{}, 64)
	for i := 0; i < 64; i++ {
		tok, err := NewOpaqueToken()
		if err != nil {
			t.Fatalf("NewOpaqueToken failed: %v", err)
		}
		if len(tok) != 32 {
			t.Fatalf("expected 32 chars, got %d (%s)", len(tok), tok)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token %s", tok)
		}
		seen[tok] = struct{}{}
	}
}

func TestNewTokenFormats(t *testing.T) {
	tok, err := NewToken(TokenFormatUUID)
	if err != nil {
		t.Fatalf("NewToken(uuid) failed: %v", err)
	}
	if _, err := uuid.Parse(tok); err != nil {
		t.Fatalf("expected a parseable uuid, got %q: %v", tok, err)
	}

	if _, err := NewToken("snowflake"); !errors.Is(err, ErrUnknownTokenFormat) {
		t.Fatalf("expected ErrUnknownTokenFormat, got %v", err)
	}
}

func TestNormalizeAndValidateEmail(t *testing.T) {
	if got := NormalizeEmail("  A@B.Com "); got != "a@b.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
	for _, ok := range []string{"a@b.com", "x.y@sub.example.org"} {
		if !ValidEmail(ok) {
			t.Fatalf("expected %q to be valid", ok)
		}
	}
	for _, bad := range []string{"", "ab.com", "a@bcom", "@."} {
		if ValidEmail(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}

func TestKeyspaceNormalizesEmails(t *testing.T) {
	k := NewKeyspace("")
	if got := k.User("A@B.com"); got != "auth:users:a@b.com" {
		t.Fatalf("User key = %q", got)
	}
	if got := k.Lockout(" a@b.COM"); got != "auth:lockout:a@b.com" {
		t.Fatalf("Lockout key = %q", got)
	}
	if got := NewKeyspace("demo/").Verify("tok"); got != "demo/verify:tok" {
		t.Fatalf("Verify key = %q", got)
	}
}
