package scanner

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"
)

// FrameSource 连续取帧源（摄像头/视频流的抽象）
// Next 阻塞到下一帧；设备级错误（权限、拔出）直接返回 error
type FrameSource interface {
	Next(ctx context.Context) (image.Image, error)
	Close() error
}

// Decoder 单帧解码器
// 帧里没有码时返回 ErrNotFound，解码循环会继续取下一帧
type Decoder interface {
	Decode(img image.Image) (string, error)
}

// FrameResolver 连续解码策略：逐帧解码，第一次命中即发出结果并停止
// 不会在命中后继续扫描，下一次扫码由调用方新建会话
type FrameResolver struct {
	src    FrameSource
	dec    Decoder
	logger *zap.Logger

	stopOnce sync.Once
	stopped  chan struct{}
}

func NewFrameResolver(src FrameSource, dec Decoder, logger *zap.Logger) *FrameResolver {
	return &FrameResolver{
		src:     src,
		dec:     dec,
		logger:  logger,
		stopped: make(chan struct{}),
	}
}

// Resolve 解码循环
// 无论以何种方式退出（命中、取消、设备错误），帧源都会被释放
func (f *FrameResolver) Resolve(ctx context.Context) (string, error) {
	defer f.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-f.stopped:
			return "", ErrStopped
		default:
		}

		img, err := f.src.Next(ctx)
		if err != nil {
			// 设备/权限错误要展示给操作员并终止会话
			return "", fmt.Errorf("camera: %w", err)
		}

		code, err := f.dec.Decode(img)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return "", fmt.Errorf("decode: %w", err)
		}

		f.logger.Info("code decoded", zap.String("code", code))
		return code, nil
	}
}

// Stop 停止会话并释放帧源；重复调用是空操作
func (f *FrameResolver) Stop() {
	f.stopOnce.Do(func() {
		close(f.stopped)
		if err := f.src.Close(); err != nil {
			f.logger.Warn("failed to close frame source", zap.Error(err))
		}
	})
}
