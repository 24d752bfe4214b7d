package scanner_test

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"paintshop-terminal/internal/scanner"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeFrameSource 依次吐出固定数量的空白帧，记录 Close 调用次数
type fakeFrameSource struct {
	frames int
	served int
	closed int
	err    error // 帧耗尽后返回的设备错误
}

func (f *fakeFrameSource) Next(ctx context.Context) (image.Image, error) {
	if f.served >= f.frames {
		if f.err != nil {
			return nil, f.err
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.served++
	return image.NewGray(image.Rect(0, 0, 8, 8)), nil
}

func (f *fakeFrameSource) Close() error {
	f.closed++
	return nil
}

// fakeDecoder 前 missUntil 帧报"无码"，之后命中
type fakeDecoder struct {
	missUntil int
	seen      int
	code      string
}

func (d *fakeDecoder) Decode(img image.Image) (string, error) {
	d.seen++
	if d.seen <= d.missUntil {
		return "", scanner.ErrNotFound
	}
	return d.code, nil
}

func TestFrameResolver_EmitsOnceAndStops(t *testing.T) {
	src := &fakeFrameSource{frames: 10}
	dec := &fakeDecoder{missUntil: 3, code: "SN-42"}
	r := scanner.NewFrameResolver(src, dec, zap.NewNop())

	code, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "SN-42", code)

	// 命中即停：没有继续消费后面的帧
	require.Equal(t, 4, src.served)
	require.Equal(t, 1, src.closed)

	// 已停止的会话不再出码
	_, err = r.Resolve(context.Background())
	require.ErrorIs(t, err, scanner.ErrStopped)
}

func TestFrameResolver_StopIdempotent(t *testing.T) {
	src := &fakeFrameSource{frames: 1}
	dec := &fakeDecoder{code: "SN-1"}
	r := scanner.NewFrameResolver(src, dec, zap.NewNop())

	_, err := r.Resolve(context.Background())
	require.NoError(t, err)

	r.Stop()
	r.Stop()
	require.Equal(t, 1, src.closed, "double stop must not double-release the source")
}

func TestFrameResolver_DeviceErrorSurfacedAndReleased(t *testing.T) {
	deviceErr := errors.New("camera permission denied")
	src := &fakeFrameSource{frames: 2, err: deviceErr}
	dec := &fakeDecoder{missUntil: 100}
	r := scanner.NewFrameResolver(src, dec, zap.NewNop())

	_, err := r.Resolve(context.Background())
	require.ErrorIs(t, err, deviceErr)
	require.Equal(t, 1, src.closed, "source must be released on error exit")
}

func TestFrameResolver_ContextCancel(t *testing.T) {
	src := &fakeFrameSource{frames: 0}
	dec := &fakeDecoder{missUntil: 100}
	r := scanner.NewFrameResolver(src, dec, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Resolve(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, src.closed)
}

func TestManualResolver_ReadsTrimmedLine(t *testing.T) {
	r := scanner.NewManualResolver(strings.NewReader("  SN-77  \n"))
	code, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "SN-77", code)
}

func TestManualResolver_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// 已取消的上下文不进入读取，即使输入里已经有一行
	r := scanner.NewManualResolver(strings.NewReader("SN-1\n"))
	_, err := r.Resolve(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestManualResolver_EmptyInput(t *testing.T) {
	r := scanner.NewManualResolver(strings.NewReader("\n"))
	_, err := r.Resolve(context.Background())
	require.ErrorIs(t, err, scanner.ErrNoInput)

	r = scanner.NewManualResolver(strings.NewReader(""))
	_, err = r.Resolve(context.Background())
	require.ErrorIs(t, err, scanner.ErrNoInput)
}
