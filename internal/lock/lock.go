package lock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"paintshop-terminal/internal/models"
	"paintshop-terminal/internal/store"

	"go.uber.org/zap"
)

// 编辑声明：开始检验前先按序列号抢占一条租约，
// 被别人持有时只读展示持有人。声明是建议性的，后端不校验，
// 租约 TTL 用来兜底陈旧锁（持有人崩溃/忘记提交）。

// ErrNotHeld 续租/校验时发现声明已不属于该用户
var ErrNotHeld = errors.New("claim not held by user")

// Result 抢占结果
type Result struct {
	Granted  bool
	Claimant models.User // Granted=false 时为当前持有人
}

// Locker 基于 KV 的租约式编辑声明
type Locker struct {
	kv     store.KV
	ttl    time.Duration
	logger *zap.Logger
}

func NewLocker(kv store.KV, ttl time.Duration, logger *zap.Logger) *Locker {
	return &Locker{kv: kv, ttl: ttl, logger: logger}
}

// TryClaim 尝试抢占设备的编辑声明
// 不存在 → 写入并授予；已被同一用户持有 → 幂等授予并续租（页面重开场景）；
// 被他人持有 → 拒绝并返回持有人
func (l *Locker) TryClaim(ctx context.Context, serial string, user models.User) (Result, error) {
	claim := models.Claim{Serial: serial, ClaimedBy: user}
	payload, err := json.Marshal(claim)
	if err != nil {
		return Result{}, fmt.Errorf("marshal claim: %w", err)
	}
	key := store.LockKey(serial)

	// 两轮尝试：第一轮 SetNX 失败但随后 Get 发现键已过期消失时再抢一次
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := l.kv.SetNX(ctx, key, string(payload), l.ttl)
		if err != nil {
			return Result{}, fmt.Errorf("claim setnx: %w", err)
		}
		if ok {
			l.logger.Info("edit claim granted",
				zap.String("sn", serial),
				zap.String("username", user.Username),
			)
			return Result{Granted: true, Claimant: user}, nil
		}

		raw, err := l.kv.Get(ctx, key)
		if err != nil {
			if errors.Is(err, store.ErrMiss) {
				continue // 刚好过期，重抢
			}
			return Result{}, fmt.Errorf("claim read: %w", err)
		}

		var held models.Claim
		if err := json.Unmarshal([]byte(raw), &held); err != nil {
			return Result{}, fmt.Errorf("claim decode: %w", err)
		}
		if held.ClaimedBy.Username == user.Username {
			// 同一用户重入：续租
			if err := l.kv.Set(ctx, key, string(payload), l.ttl); err != nil {
				return Result{}, fmt.Errorf("claim renew: %w", err)
			}
			return Result{Granted: true, Claimant: user}, nil
		}
		l.logger.Info("edit claim denied",
			zap.String("sn", serial),
			zap.String("held_by", held.ClaimedBy.Username),
		)
		return Result{Granted: false, Claimant: held.ClaimedBy}, nil
	}
	return Result{}, fmt.Errorf("claim contention on %s", serial)
}

// Refresh 续租，仅当声明仍由该用户持有
func (l *Locker) Refresh(ctx context.Context, serial string, user models.User) error {
	key := store.LockKey(serial)
	raw, err := l.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return ErrNotHeld
		}
		return err
	}
	var held models.Claim
	if err := json.Unmarshal([]byte(raw), &held); err != nil {
		return fmt.Errorf("claim decode: %w", err)
	}
	if held.ClaimedBy.Username != user.Username {
		return ErrNotHeld
	}
	return l.kv.Set(ctx, key, raw, l.ttl)
}

// Release 释放声明。只在提交成功后调用，
// 中途退出不释放（与原工作流一致），由租约到期兜底
func (l *Locker) Release(ctx context.Context, serial string) error {
	return l.kv.Del(ctx, store.LockKey(serial))
}

// Holder 查询当前持有人；无人持有返回 ErrMiss
func (l *Locker) Holder(ctx context.Context, serial string) (models.User, error) {
	raw, err := l.kv.Get(ctx, store.LockKey(serial))
	if err != nil {
		return models.User{}, err
	}
	var held models.Claim
	if err := json.Unmarshal([]byte(raw), &held); err != nil {
		return models.User{}, fmt.Errorf("claim decode: %w", err)
	}
	return held.ClaimedBy, nil
}
