package sqlitekv

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/incidentmart/credstore/kv"
	"github.com/stretchr/testify/require"
)

func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "auth:users:a@b.com", []byte(`{"email":"a@b.com"}`)))

	v, err := b.Get(ctx, "auth:users:a@b.com")
	require.NoError(t, err)
	require.Equal(t, `{"email":"a@b.com"}`, string(v))
}

func TestGet_Missing_ReturnsErrNotFound(t *testing.T) {
	b := setupBackend(t)

	_, err := b.Get(context.Background(), "absent")
	require.ErrorIs(t, err, kv.ErrNotFound)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "k", []byte("old")))
	require.NoError(t, b.Set(ctx, "k", []byte("new")))

	v, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "new", string(v))
}

func TestDelete_MissingKeyIsNoop(t *testing.T) {
	b := setupBackend(t)
	require.NoError(t, b.Delete(context.Background(), "nope"))
}

func TestList_PrefixIsCaseSensitive(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "auth:verify:AbC", []byte("{}")))
	require.NoError(t, b.Set(ctx, "auth:verify:xyz", []byte("{}")))
	require.NoError(t, b.Set(ctx, "AUTH:VERIFY:other", []byte("{}")))
	require.NoError(t, b.Set(ctx, "auth:users:a", []byte("{}")))

	keys, err := b.List(ctx, "auth:verify:")
	require.NoError(t, err)
	sort.Strings(keys)
	require.Equal(t, []string{"auth:verify:AbC", "auth:verify:xyz"}, keys)
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credstore.db")

	first, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "auth:remember", []byte(`{"email":"a@b.com"}`)))
	require.NoError(t, first.Close())

	second, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	v, err := second.Get(ctx, "auth:remember")
	require.NoError(t, err)
	require.Equal(t, `{"email":"a@b.com"}`, string(v))
}
