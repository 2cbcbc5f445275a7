package stores

import (
	"context"
	"testing"
	"time"

	"github.com/incidentmart/credstore/internal"
	"github.com/incidentmart/credstore/kv"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newAdapter() *kv.Adapter {
	return kv.NewAdapter(kv.NewMemory(), nil)
}

func TestUserStoreCaseInsensitiveLookup(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(newAdapter(), internal.NewKeyspace(""))

	s.Put(ctx, UserRecord{Name: "A", Company: "B", Email: "A@B.com", PasswordHash: "h", CreatedAt: 1})

	rec, ok := s.Get(ctx, "a@b.COM")
	if !ok {
		t.Fatal("expected case-insensitive lookup to find user")
	}
	if rec.Email != "A@B.com" {
		t.Fatalf("expected stored email casing to be preserved, got %q", rec.Email)
	}
}

func TestUserStoreListOrdersByCreation(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(newAdapter(), internal.NewKeyspace(""))

	s.Put(ctx, UserRecord{Email: "late@x.com", CreatedAt: 30})
	s.Put(ctx, UserRecord{Email: "early@x.com", CreatedAt: 10})
	s.Put(ctx, UserRecord{Email: "mid@x.com", CreatedAt: 20})

	users := s.List(ctx)
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	if users[0].Email != "early@x.com" || users[2].Email != "late@x.com" {
		t.Fatalf("unexpected order: %+v", users)
	}
}

func TestTokenStoreLookupDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	keys := internal.NewKeyspace("")
	s := NewTokenStore(newAdapter(), keys.Reset, nil)

	s.Save(ctx, "tok", "a@b.com", 0)

	for i := 0; i < 2; i++ {
		email, ok := s.Lookup(ctx, "tok")
		if !ok || email != "a@b.com" {
			t.Fatalf("lookup %d: got %q ok=%v", i, email, ok)
		}
	}

	s.Delete(ctx, "tok")
	if _, ok := s.Lookup(ctx, "tok"); ok {
		t.Fatal("expected token to be gone after delete")
	}
}

func TestTokenStoreExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.UnixMilli(1_000_000)}
	adapter := newAdapter()
	keys := internal.NewKeyspace("")
	s := NewTokenStore(adapter, keys.Verify, clock.Now)

	rec := s.Save(ctx, "tok", "a@b.com", time.Minute)
	if rec.ExpiresAt != clock.t.Add(time.Minute).UnixMilli() {
		t.Fatalf("unexpected expiry %d", rec.ExpiresAt)
	}

	clock.t = clock.t.Add(59 * time.Second)
	if _, ok := s.Lookup(ctx, "tok"); !ok {
		t.Fatal("expected token to be valid before expiry")
	}

	clock.t = clock.t.Add(time.Second)
	if _, ok := s.Lookup(ctx, "tok"); ok {
		t.Fatal("expected token to be expired at expiry instant")
	}
	if keys := adapter.Keys(ctx, keys.VerifyPrefix()); len(keys) != 0 {
		t.Fatalf("expected expired token to be deleted, still have %v", keys)
	}
}

func TestRememberStore(t *testing.T) {
	ctx := context.Background()
	s := NewRememberStore(newAdapter(), internal.NewKeyspace(""))

	if _, ok := s.Get(ctx); ok {
		t.Fatal("expected nothing remembered initially")
	}
	s.Set(ctx, "a@b.com", 42)
	rec, ok := s.Get(ctx)
	if !ok || rec.Email != "a@b.com" || rec.Timestamp != 42 {
		t.Fatalf("unexpected remember record %+v ok=%v", rec, ok)
	}
	s.Clear(ctx)
	if _, ok := s.Get(ctx); ok {
		t.Fatal("expected remember record to be cleared")
	}
}
