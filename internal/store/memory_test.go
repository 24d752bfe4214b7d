package store_test

import (
	"context"
	"testing"
	"time"

	"paintshop-terminal/internal/store"

	"github.com/stretchr/testify/require"
)

func TestMemoryKV_SetGetDel(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrMiss)

	require.NoError(t, kv.Set(ctx, "k", "v", 0))
	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", v)

	require.NoError(t, kv.Del(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	require.ErrorIs(t, err, store.ErrMiss)
}

func TestMemoryKV_TTLExpiry(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := kv.Get(ctx, "k")
	require.ErrorIs(t, err, store.ErrMiss)
}

func TestMemoryKV_SetNX(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()

	ok, err := kv.SetNX(ctx, "k", "first", 0)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = kv.SetNX(ctx, "k", "second", 0)
	require.NoError(t, err)
	require.False(t, ok)

	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "first", v)
}

func TestMemoryKV_SetNXAfterExpiry(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()

	ok, err := kv.SetNX(ctx, "k", "first", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)

	ok, err = kv.SetNX(ctx, "k", "second", 0)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryKV_ScanKeys(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, store.LockKey("SN-1"), "{}", 0))
	require.NoError(t, kv.Set(ctx, store.LockKey("SN-2"), "{}", 0))
	require.NoError(t, kv.Set(ctx, store.ProgressKey("SN-1"), "{}", 0))

	keys, err := kv.ScanKeys(ctx, "atm:lock:*")
	require.NoError(t, err)
	require.Len(t, keys, 2)
}
