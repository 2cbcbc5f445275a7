package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by a Backend when the key has no value.
	ErrNotFound = errors.New("kv: key not found")
	// ErrUnavailable wraps transport or storage failures of a Backend.
	ErrUnavailable = errors.New("kv: backend unavailable")
)

// Backend is a durable mapping from string key to raw bytes.
//
// Implementations must be safe for concurrent use. Get returns ErrNotFound for
// missing keys; Delete of a missing key is not an error.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// List returns every key starting with prefix, in no particular order.
	List(ctx context.Context, prefix string) ([]string, error)
}
