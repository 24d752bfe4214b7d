package opslog

import (
	"context"
	"time"

	"paintshop-terminal/internal/api"

	"go.uber.org/zap"
)

// Watcher 运维日志控制台：独立定时器轮询 /logs/，
// 与用户操作互不阻塞。后端每次返回全量日志，只打印新增尾部
type Watcher struct {
	api      *api.Client
	interval time.Duration
	logger   *zap.Logger

	seen int
}

func NewWatcher(client *api.Client, interval time.Duration, logger *zap.Logger) *Watcher {
	return &Watcher{api: client, interval: interval, logger: logger}
}

// Run 轮询直到 ctx 取消；单次拉取失败只记警告，下个周期重试
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("ops log watcher started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("ops log watcher stopped")
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	lines, err := w.api.FetchLogs(ctx)
	if err != nil {
		w.logger.Warn("ops log poll failed", zap.Error(err))
		return
	}
	if len(lines) < w.seen {
		// 后端日志被轮转，从头开始
		w.seen = 0
	}
	for _, line := range lines[w.seen:] {
		w.logger.Info("backend log", zap.String("line", line))
	}
	w.seen = len(lines)
}
