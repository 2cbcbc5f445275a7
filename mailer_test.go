package credstore

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/incidentmart/credstore/kv"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogMailerLogsTokens(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewLogMailer(zap.New(core))

	m.SendVerification(context.Background(), "a@b.com", "tok-verify")
	m.SendPasswordReset(context.Background(), "a@b.com", "tok-reset")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].LoggerName != "mailer" {
		t.Fatalf("expected mailer logger, got %q", entries[0].LoggerName)
	}
	if entries[0].ContextMap()["token"] != "tok-verify" {
		t.Fatalf("unexpected verification fields %v", entries[0].ContextMap())
	}
	if entries[1].Message != "password reset email sent" || entries[1].ContextMap()["token"] != "tok-reset" {
		t.Fatalf("unexpected reset entry %+v", entries[1])
	}
}

func TestNilLoggerMailerDoesNotPanic(t *testing.T) {
	m := NewLogMailer(nil)
	m.SendVerification(context.Background(), "a@b.com", "t")
}

func TestEngineUsesLogMailerByDefault(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := testConfig()

	engine, err := New().WithConfig(cfg).WithBackend(kv.NewMemory()).WithLogger(zap.New(core)).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	res, err := engine.Register(context.Background(), RegisterRequest{Name: "A", Company: "B", Email: "a@b.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	found := logs.FilterMessage("verification email sent").All()
	if len(found) != 1 || found[0].ContextMap()["token"] != res.VerificationToken {
		t.Fatalf("expected verification mail log carrying the token, got %v", found)
	}
}

// callbackMailer calls back into the Engine from each delivery, the way a
// mailer that looks up the recipient's profile would.
type callbackMailer struct {
	engine  *Engine
	calls   atomic.Int32
	blocked atomic.Int32
}

func (m *callbackMailer) SendVerification(ctx context.Context, email, _ string) {
	m.callBack(ctx, email)
}

func (m *callbackMailer) SendPasswordReset(ctx context.Context, email, _ string) {
	m.callBack(ctx, email)
}

func (m *callbackMailer) callBack(ctx context.Context, email string) {
	m.calls.Add(1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.engine.SetRemember(ctx, email)
		m.engine.ClearRemember(ctx)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		m.blocked.Add(1)
	}
}

func TestMailerRunsOutsideEngineLock(t *testing.T) {
	mailer := &callbackMailer{}
	cfg := testConfig()
	engine, err := New().WithConfig(cfg).WithBackend(kv.NewMemory()).WithMailer(mailer).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()
	mailer.engine = engine
	ctx := context.Background()

	res, err := engine.Register(ctx, RegisterRequest{Name: "A", Company: "B", Email: "a@b.com", Password: "longenough1"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := engine.Verify(ctx, res.VerificationToken); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if _, err := engine.StartReset(ctx, "a@b.com"); err != nil {
		t.Fatalf("StartReset failed: %v", err)
	}

	if got := mailer.calls.Load(); got != 2 {
		t.Fatalf("expected 2 deliveries, got %d", got)
	}
	if got := mailer.blocked.Load(); got != 0 {
		t.Fatalf("expected deliveries not to hold the engine lock, %d blocked", got)
	}
}
