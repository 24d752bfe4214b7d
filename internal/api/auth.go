package api

import (
	"context"

	"paintshop-terminal/internal/models"

	"go.uber.org/zap"
)

// LoginStep1Response 第一步登录响应：临时令牌 + 是否已绑定 Telegram
type LoginStep1Response struct {
	Token         string `json:"token"`
	HasTelegramID bool   `json:"has_telegram_id"`
}

// TokenPair 最终访问令牌对
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginStep1 用户名密码登录（两步验证的第一步）
func (c *Client) LoginStep1(ctx context.Context, username, password string) (*LoginStep1Response, error) {
	var out LoginStep1Response
	resp, err := c.public(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&out).
		Post("/auth/login-step-1/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	c.logger.Info("login step 1 accepted",
		zap.String("username", username),
		zap.Bool("has_telegram_id", out.HasTelegramID),
	)
	return &out, nil
}

// SetTelegramID 绑定二次验证的 Telegram ID（使用第一步返回的临时令牌）
func (c *Client) SetTelegramID(ctx context.Context, token, telegramID string) error {
	resp, err := c.public(ctx).
		SetAuthToken(token).
		SetBody(map[string]string{"telegram_id": telegramID}).
		Post("/auth/set-telegram-id/")
	return c.check(resp, err)
}

// VerifyCode 校验二次验证码，换取最终令牌对
func (c *Client) VerifyCode(ctx context.Context, token, code string) (*TokenPair, error) {
	var out TokenPair
	resp, err := c.public(ctx).
		SetAuthToken(token).
		SetBody(map[string]string{"code": code}).
		SetResult(&out).
		Post("/auth/verify-code/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me 当前登录用户
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	r, err := c.guarded(ctx)
	if err != nil {
		return nil, err
	}
	var out models.User
	resp, err := r.SetResult(&out).Get("/auth/me/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyToken 校验访问令牌是否仍然有效
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	resp, err := c.public(ctx).
		SetBody(map[string]string{"token": token}).
		Post("/token/verify/")
	return c.check(resp, err)
}

// RefreshToken 用刷新令牌换取新的访问令牌
func (c *Client) RefreshToken(ctx context.Context, refresh string) (string, error) {
	var out struct {
		Access string `json:"access"`
	}
	resp, err := c.public(ctx).
		SetBody(map[string]string{"refresh": refresh}).
		SetResult(&out).
		Post("/token/refresh/")
	if err := c.check(resp, err); err != nil {
		return "", err
	}
	return out.Access, nil
}
