package lock_test

import (
	"context"
	"testing"
	"time"

	"paintshop-terminal/internal/lock"
	"paintshop-terminal/internal/models"
	"paintshop-terminal/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	userA = models.User{Username: "ivanov", Name: "Ivan Ivanov"}
	userB = models.User{Username: "petrov", Name: "Petr Petrov"}
)

func newLocker(ttl time.Duration) (*lock.Locker, store.KV) {
	kv := store.NewMemoryKV()
	return lock.NewLocker(kv, ttl, zap.NewNop()), kv
}

func TestTryClaim_FirstClaimantWins(t *testing.T) {
	l, _ := newLocker(time.Hour)
	ctx := context.Background()

	res, err := l.TryClaim(ctx, "SN-100", userA)
	require.NoError(t, err)
	require.True(t, res.Granted)

	res, err = l.TryClaim(ctx, "SN-100", userB)
	require.NoError(t, err)
	require.False(t, res.Granted)
	require.Equal(t, userA, res.Claimant)
}

func TestTryClaim_SameUserIdempotent(t *testing.T) {
	l, kv := newLocker(time.Hour)
	ctx := context.Background()

	res, err := l.TryClaim(ctx, "SN-100", userA)
	require.NoError(t, err)
	require.True(t, res.Granted)

	// 同一用户重入（页面重开）：依然授予，不产生第二条记录
	res, err = l.TryClaim(ctx, "SN-100", userA)
	require.NoError(t, err)
	require.True(t, res.Granted)

	keys, err := kv.ScanKeys(ctx, "atm:lock:*")
	require.NoError(t, err)
	require.Len(t, keys, 1)
}

func TestTryClaim_LeaseExpires(t *testing.T) {
	l, _ := newLocker(10 * time.Millisecond)
	ctx := context.Background()

	res, err := l.TryClaim(ctx, "SN-100", userA)
	require.NoError(t, err)
	require.True(t, res.Granted)

	time.Sleep(30 * time.Millisecond)

	res, err = l.TryClaim(ctx, "SN-100", userB)
	require.NoError(t, err)
	require.True(t, res.Granted, "expired lease must be claimable")
}

func TestRelease_FreesClaim(t *testing.T) {
	l, _ := newLocker(time.Hour)
	ctx := context.Background()

	_, err := l.TryClaim(ctx, "SN-100", userA)
	require.NoError(t, err)
	require.NoError(t, l.Release(ctx, "SN-100"))

	res, err := l.TryClaim(ctx, "SN-100", userB)
	require.NoError(t, err)
	require.True(t, res.Granted)
}

func TestRefresh_OnlyHolder(t *testing.T) {
	l, _ := newLocker(time.Hour)
	ctx := context.Background()

	_, err := l.TryClaim(ctx, "SN-100", userA)
	require.NoError(t, err)

	require.NoError(t, l.Refresh(ctx, "SN-100", userA))
	require.ErrorIs(t, l.Refresh(ctx, "SN-100", userB), lock.ErrNotHeld)
	require.ErrorIs(t, l.Refresh(ctx, "SN-999", userA), lock.ErrNotHeld)
}

func TestHolder(t *testing.T) {
	l, _ := newLocker(time.Hour)
	ctx := context.Background()

	_, err := l.Holder(ctx, "SN-100")
	require.ErrorIs(t, err, store.ErrMiss)

	_, err = l.TryClaim(ctx, "SN-100", userA)
	require.NoError(t, err)

	holder, err := l.Holder(ctx, "SN-100")
	require.NoError(t, err)
	require.Equal(t, userA, holder)
}
