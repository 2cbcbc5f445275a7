// Package rediskv implements kv.Backend on top of go-redis.
package rediskv

import (
	"context"
	"errors"
	"fmt"

	"github.com/incidentmart/credstore/kv"
	"github.com/redis/go-redis/v9"
)

const scanBatch = 256

// Backend stores each key as a plain Redis string without TTL.
type Backend struct {
	redis redis.UniversalClient
}

// New creates a Backend using redisClient. The caller owns the client.
func New(redisClient redis.UniversalClient) *Backend {
	return &Backend{redis: redisClient}
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := b.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", kv.ErrUnavailable, err)
	}
	return raw, nil
}

func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if err := b.redis.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", kv.ErrUnavailable, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := b.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", kv.ErrUnavailable, err)
	}
	return nil
}

// List walks the keyspace with SCAN; it never blocks the server like KEYS.
func (b *Backend) List(ctx context.Context, prefix string) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := b.redis.Scan(ctx, cursor, escapeGlob(prefix)+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kv.ErrUnavailable, err)
		}
		keys = append(keys, batch...)
		if next == 0 {
			break
		}
		cursor = next
	}
	return dedupe(keys), nil
}

func escapeGlob(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// SCAN may return a key more than once.
func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
