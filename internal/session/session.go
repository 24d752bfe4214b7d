package session

import (
	"context"
	"errors"
	"fmt"

	"paintshop-terminal/internal/api"
	"paintshop-terminal/internal/store"

	"go.uber.org/zap"
)

// ErrLoginRequired 令牌校验和刷新都失败，必须重新登录
// （对应原工作流里"清除令牌并跳转 /login"）
var ErrLoginRequired = errors.New("login required")

// Store 令牌存储（访问令牌 + 刷新令牌）
type Store struct {
	kv store.KV
}

func NewStore(kv store.KV) *Store { return &Store{kv: kv} }

// AccessToken 当前访问令牌；未登录返回 store.ErrMiss
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	return s.kv.Get(ctx, store.TokenKey())
}

// RefreshToken 当前刷新令牌
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	return s.kv.Get(ctx, store.RefreshTokenKey())
}

// SetTokens 保存令牌对（登录成功 / 刷新成功后）
func (s *Store) SetTokens(ctx context.Context, access, refresh string) error {
	if err := s.kv.Set(ctx, store.TokenKey(), access, 0); err != nil {
		return err
	}
	if refresh != "" {
		return s.kv.Set(ctx, store.RefreshTokenKey(), refresh, 0)
	}
	return nil
}

// Clear 清除两个令牌
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Del(ctx, store.TokenKey()); err != nil {
		return err
	}
	return s.kv.Del(ctx, store.RefreshTokenKey())
}

// TokenProvider 适配 api.Client 的令牌来源
func (s *Store) TokenProvider() api.TokenProvider {
	return func(ctx context.Context) (string, error) {
		return s.AccessToken(ctx)
	}
}

// Gate 受保护操作的准入检查
type Gate struct {
	api    *api.Client
	store  *Store
	logger *zap.Logger
}

func NewGate(client *api.Client, st *Store, logger *zap.Logger) *Gate {
	return &Gate{api: client, store: st, logger: logger}
}

// EnsureValid 校验访问令牌；失效则尝试刷新；
// 刷新也失败时清除令牌并返回 ErrLoginRequired
func (g *Gate) EnsureValid(ctx context.Context) error {
	access, err := g.store.AccessToken(ctx)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return ErrLoginRequired
		}
		return fmt.Errorf("read access token: %w", err)
	}

	if err := g.api.VerifyToken(ctx, access); err == nil {
		return nil
	} else if !errors.Is(err, api.ErrUnauthorized) {
		return err // 网络类错误不等于未登录
	}

	refresh, err := g.store.RefreshToken(ctx)
	if err != nil {
		g.logout(ctx)
		return ErrLoginRequired
	}
	newAccess, err := g.api.RefreshToken(ctx, refresh)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			g.logout(ctx)
			return ErrLoginRequired
		}
		return err
	}

	g.logger.Info("access token refreshed")
	return g.store.SetTokens(ctx, newAccess, "")
}

func (g *Gate) logout(ctx context.Context) {
	if err := g.store.Clear(ctx); err != nil {
		g.logger.Warn("failed to clear tokens", zap.Error(err))
	}
}
