package kv

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"

	"go.uber.org/zap"
)

// Adapter stores JSON values over a Backend without ever surfacing
// persistence errors to the caller.
type Adapter struct {
	backend Backend
	log     *zap.Logger
}

// NewAdapter wraps backend. A nil logger disables logging.
func NewAdapter(backend Backend, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{backend: backend, log: logger}
}

// Backend returns the wrapped backend.
func (a *Adapter) Backend() Backend {
	return a.backend
}

// Read decodes the value at key into dst and reports whether it did.
//
// Absent keys, backend failures and malformed data all return false and leave
// dst untouched, so dst should already hold the fallback value.
func (a *Adapter) Read(ctx context.Context, key string, dst any) bool {
	raw, err := a.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.log.Warn("kv read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if len(raw) == 0 {
		return false
	}

	// Decode into a scratch value first so a half-decoded dst never leaks.
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		a.log.Warn("kv read into non-pointer", zap.String("key", key))
		return false
	}
	scratch := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(raw, scratch.Interface()); err != nil {
		a.log.Warn("kv value corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	rv.Elem().Set(scratch.Elem())
	return true
}

// Write encodes value and stores it at key. Failures are logged and dropped.
func (a *Adapter) Write(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		a.log.Warn("kv encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := a.backend.Set(ctx, key, raw); err != nil {
		a.log.Warn("kv write failed", zap.String("key", key), zap.Error(err))
	}
}

// Remove deletes key. Failures are logged and dropped.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.backend.Delete(ctx, key); err != nil {
		a.log.Warn("kv delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Keys lists keys under prefix. A failing backend yields no keys.
func (a *Adapter) Keys(ctx context.Context, prefix string) []string {
	keys, err := a.backend.List(ctx, prefix)
	if err != nil {
		a.log.Warn("kv list failed", zap.String("prefix", prefix), zap.Error(err))
		return nil
	}
	return keys
}
