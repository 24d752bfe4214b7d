package session

import (
	"context"
	"fmt"

	"paintshop-terminal/internal/api"
	"paintshop-terminal/internal/flow"
)

// 登录向导的步骤名
const (
	StepCredentials  = "credentials"
	StepBindTelegram = "bind_telegram"
	StepVerifyCode   = "verify_code"
)

// Wizard 两步登录向导：
// 凭证 → （首次登录时绑定 Telegram）→ 验证码 → 完成
type Wizard struct {
	api     *api.Client
	store   *Store
	fl      *flow.Flow
	interim string // 第一步返回的临时令牌
}

func NewWizard(client *api.Client, st *Store) *Wizard {
	fl, _ := flow.New(
		flow.Step{Name: StepCredentials},
		flow.Step{Name: StepBindTelegram, Optional: true},
		flow.Step{Name: StepVerifyCode},
	)
	return &Wizard{api: client, store: st, fl: fl}
}

// Current 当前步骤名
func (w *Wizard) Current() string { return w.fl.Current() }

// Done 登录是否完成
func (w *Wizard) Done() bool { return w.fl.Done() }

// SubmitCredentials 提交用户名密码
// 返回是否还需要绑定 Telegram ID（首次登录的账号）
func (w *Wizard) SubmitCredentials(ctx context.Context, username, password string) (needBind bool, err error) {
	resp, err := w.api.LoginStep1(ctx, username, password)
	if err != nil {
		return false, err
	}
	w.interim = resp.Token
	if err := w.fl.Advance(StepCredentials, username); err != nil {
		return false, err
	}
	if resp.HasTelegramID {
		if err := w.fl.Skip(StepBindTelegram); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// BindTelegram 绑定二次验证的 Telegram ID
func (w *Wizard) BindTelegram(ctx context.Context, telegramID string) error {
	if w.fl.Current() != StepBindTelegram {
		return fmt.Errorf("%w: %s", flow.ErrNotCurrent, StepBindTelegram)
	}
	if err := w.api.SetTelegramID(ctx, w.interim, telegramID); err != nil {
		return err
	}
	return w.fl.Advance(StepBindTelegram, telegramID)
}

// SubmitCode 提交验证码，成功后保存最终令牌对
func (w *Wizard) SubmitCode(ctx context.Context, code string) error {
	if w.fl.Current() != StepVerifyCode {
		return fmt.Errorf("%w: %s", flow.ErrNotCurrent, StepVerifyCode)
	}
	pair, err := w.api.VerifyCode(ctx, w.interim, code)
	if err != nil {
		return err
	}
	if err := w.store.SetTokens(ctx, pair.Access, pair.Refresh); err != nil {
		return err
	}
	return w.fl.Advance(StepVerifyCode, "")
}
