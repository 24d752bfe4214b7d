package scanner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// 扫码策略：构造时选定一种 Resolver，调用方只关心"给我一个编码"。
// 工位终端没有摄像头时用手输策略，有取帧源时用连续解码策略。

var (
	// ErrNoInput 手输模式下没有读到内容
	ErrNoInput = errors.New("no code entered")
	// ErrNotFound 当前帧里没有条码/二维码（预期情况，解码循环忽略）
	ErrNotFound = errors.New("no code in frame")
	// ErrStopped 会话已被停止
	ErrStopped = errors.New("scan session stopped")
)

// Resolver 统一的取码接口
// Resolve 阻塞直到拿到一个编码或失败；成功后会话即停止，
// 下一次扫码需要新建 Resolver。Stop 可重复调用。
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
	Stop()
}

// ManualResolver 手输策略：从输入流读一行
type ManualResolver struct {
	r *bufio.Reader
}

func NewManualResolver(r io.Reader) *ManualResolver {
	return &ManualResolver{r: bufio.NewReader(r)}
}

func (m *ManualResolver) Resolve(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := m.r.ReadString('\n')
	if cerr := ctx.Err(); cerr != nil {
		return "", cerr
	}
	if err != nil && line == "" {
		if err == io.EOF {
			return "", ErrNoInput
		}
		return "", err
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return "", ErrNoInput
	}
	return code, nil
}

// Stop 手输模式没有需要释放的资源
func (m *ManualResolver) Stop() {}
