package intake_test

import (
	"context"
	"testing"
	"time"

	"paintshop-terminal/internal/intake"
	"paintshop-terminal/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJournal_AddAndList(t *testing.T) {
	j := intake.NewJournal(store.NewMemoryKV(), time.Hour, zap.NewNop())
	ctx := context.Background()

	serials, err := j.List(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, serials)

	require.NoError(t, j.Add(ctx, 10, "SN-1"))
	require.NoError(t, j.Add(ctx, 10, "SN-2"))

	serials, err = j.List(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"SN-1", "SN-2"}, serials)
}

func TestJournal_DuplicateScan(t *testing.T) {
	j := intake.NewJournal(store.NewMemoryKV(), time.Hour, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, j.Add(ctx, 10, "SN-1"))
	require.ErrorIs(t, j.Add(ctx, 10, "SN-1"), intake.ErrDuplicateScan)

	// 不同工单互不影响
	require.NoError(t, j.Add(ctx, 11, "SN-1"))
}

func TestJournal_Clear(t *testing.T) {
	j := intake.NewJournal(store.NewMemoryKV(), time.Hour, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, j.Add(ctx, 10, "SN-1"))
	require.NoError(t, j.Clear(ctx, 10))

	serials, err := j.List(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, serials)
}
