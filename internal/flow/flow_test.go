package flow_test

import (
	"testing"

	"paintshop-terminal/internal/flow"

	"github.com/stretchr/testify/require"
)

func newLoginFlow(t *testing.T) *flow.Flow {
	t.Helper()
	f, err := flow.New(
		flow.Step{Name: "credentials"},
		flow.Step{Name: "bind_telegram", Optional: true},
		flow.Step{Name: "verify_code"},
	)
	require.NoError(t, err)
	return f
}

func TestFlow_HappyPath(t *testing.T) {
	f := newLoginFlow(t)
	require.Equal(t, "credentials", f.Current())
	require.False(t, f.Done())

	require.NoError(t, f.Advance("credentials", "ivan"))
	require.Equal(t, "bind_telegram", f.Current())

	require.NoError(t, f.Skip("bind_telegram"))
	require.Equal(t, "verify_code", f.Current())

	require.NoError(t, f.Advance("verify_code", "123456"))
	require.True(t, f.Done())
	require.Equal(t, "", f.Current())

	v, ok := f.Value("credentials")
	require.True(t, ok)
	require.Equal(t, "ivan", v)
}

func TestFlow_RejectsOutOfOrder(t *testing.T) {
	f := newLoginFlow(t)
	err := f.Advance("verify_code", "123456")
	require.ErrorIs(t, err, flow.ErrNotCurrent)
}

func TestFlow_SkipOnlyOptional(t *testing.T) {
	f := newLoginFlow(t)
	err := f.Skip("credentials")
	require.ErrorIs(t, err, flow.ErrNotOptional)
}

func TestFlow_DoneRejectsEverything(t *testing.T) {
	f := newLoginFlow(t)
	require.NoError(t, f.Advance("credentials", "x"))
	require.NoError(t, f.Skip("bind_telegram"))
	require.NoError(t, f.Advance("verify_code", "y"))

	require.ErrorIs(t, f.Advance("verify_code", "z"), flow.ErrDone)
	require.ErrorIs(t, f.Back(), flow.ErrDone)
}

func TestFlow_BackClearsValue(t *testing.T) {
	f := newLoginFlow(t)
	require.NoError(t, f.Advance("credentials", "ivan"))
	require.NoError(t, f.Back())

	require.Equal(t, "credentials", f.Current())
	_, ok := f.Value("credentials")
	require.False(t, ok)
}

func TestFlow_ValidatesSteps(t *testing.T) {
	_, err := flow.New()
	require.Error(t, err)

	_, err = flow.New(flow.Step{Name: "a"}, flow.Step{Name: "a"})
	require.Error(t, err)
}
