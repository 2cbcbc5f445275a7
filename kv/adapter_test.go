package kv

import (
	"context"
	"errors"
	"testing"
)

type failingBackend struct {
	Backend
	setErr error
	getErr error
}

func (f failingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Backend.Get(ctx, key)
}

func (f failingBackend) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Backend.Set(ctx, key, value)
}

type record struct {
	Email string `json:"email"`
	Count int    `json:"count"`
}

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemory(), nil)

	a.Write(ctx, "auth:rec", record{Email: "a@b.com", Count: 2})

	var got record
	if !a.Read(ctx, "auth:rec", &got) {
		t.Fatal("expected value to be read")
	}
	if got.Email != "a@b.com" || got.Count != 2 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestAdapterMissingKeyKeepsFallback(t *testing.T) {
	a := NewAdapter(NewMemory(), nil)

	got := []string{"fallback"}
	if a.Read(context.Background(), "absent", &got) {
		t.Fatal("expected absent key to report false")
	}
	if len(got) != 1 || got[0] != "fallback" {
		t.Fatalf("fallback was modified: %v", got)
	}
}

func TestAdapterCorruptValueReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	if err := mem.Set(ctx, "auth:rec", []byte(`{"email": "a@b.com", "count": `)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	a := NewAdapter(mem, nil)

	fallback := record{Email: "fallback"}
	got := fallback
	if a.Read(ctx, "auth:rec", &got) {
		t.Fatal("expected corrupt value to report false")
	}
	if got != fallback {
		t.Fatalf("corrupt read leaked into dst: %+v", got)
	}
}

func TestAdapterTypeMismatchReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	_ = mem.Set(ctx, "k", []byte(`"just a string"`))
	a := NewAdapter(mem, nil)

	var got record
	if a.Read(ctx, "k", &got) {
		t.Fatal("expected type mismatch to report false")
	}
}

func TestAdapterSwallowsBackendFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")
	a := NewAdapter(failingBackend{Backend: NewMemory(), setErr: boom, getErr: boom}, nil)

	a.Write(ctx, "k", record{Email: "x"})

	var got record
	if a.Read(ctx, "k", &got) {
		t.Fatal("expected failing backend read to report false")
	}
}

func TestAdapterKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemory(), nil)
	a.Write(ctx, "auth:users:a", 1)
	a.Write(ctx, "auth:users:b", 2)
	a.Write(ctx, "auth:reset:c", 3)

	keys := a.Keys(ctx, "auth:users:")
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %v", keys)
	}

	a.Remove(ctx, "auth:users:a")
	if keys := a.Keys(ctx, "auth:users:"); len(keys) != 1 || keys[0] != "auth:users:b" {
		t.Fatalf("unexpected keys after remove: %v", keys)
	}
}
