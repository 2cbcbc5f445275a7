package credstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/incidentmart/credstore/kv"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type sentMail struct {
	kind  string
	email string
	token string
}

type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *captureMailer) SendVerification(_ context.Context, email, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: "verify", email: email, token: token})
}

func (m *captureMailer) SendPasswordReset(_ context.Context, email, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: "reset", email: email, token: token})
}

func (m *captureMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type testEnv struct {
	engine  *Engine
	backend *kv.Memory
	clock   *fakeClock
	mailer  *captureMailer
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.AuthDelay = 0
	cfg.Metrics.Enabled = true
	return cfg
}

func newTestEnv(t *testing.T, mutate func(*Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	env := &testEnv{
		backend: kv.NewMemory(),
		clock:   newFakeClock(),
		mailer:  &captureMailer{},
	}

	engine, err := New().
		WithConfig(cfg).
		WithBackend(env.backend).
		WithClock(env.clock.Now).
		WithMailer(env.mailer).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	env.engine = engine
	return env
}

// registerVerified registers email and consumes its verification token.
func (env *testEnv) registerVerified(t *testing.T, email, plain string) {
	t.Helper()

	ctx := context.Background()
	res, err := env.engine.Register(ctx, RegisterRequest{Name: "A", Company: "B", Email: email, Password: plain})
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	if err := env.engine.Verify(ctx, res.VerificationToken); err != nil {
		t.Fatalf("Verify(%s) failed: %v", email, err)
	}
}
