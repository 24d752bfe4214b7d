package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnauthorized 令牌无效或过期，调用方应清除令牌并回到登录流程
var ErrUnauthorized = errors.New("unauthorized")

// APIError 后端返回的业务错误（如"重复扫描"、"不在本工单内"）
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error: %s (status: %d)", e.Detail, e.Status)
}

// TokenProvider 为受保护的请求提供访问令牌
type TokenProvider func(ctx context.Context) (string, error)

// Client 喷漆车间后端 REST 客户端
type Client struct {
	httpClient *resty.Client
	token      TokenProvider
	logger     *zap.Logger
}

// New 创建后端客户端
// 重试策略只覆盖幂等的 GET 请求，写操作失败由调用方决定是否重试
func New(baseURL string, timeout time.Duration, retries int, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r == nil || r.Request == nil {
				return false
			}
			if r.Request.Method != http.MethodGet {
				return false
			}
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			r.SetHeader("X-Request-ID", uuid.NewString())
			return nil
		})

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

// SetTokenProvider 注入令牌来源（避免 api 包依赖会话存储）
func (c *Client) SetTokenProvider(p TokenProvider) { c.token = p }

// public 未认证请求（登录流程、令牌校验）
func (c *Client) public(ctx context.Context) *resty.Request {
	return c.httpClient.R().SetContext(ctx)
}

// guarded 携带访问令牌的请求；拿不到令牌直接视为未登录
func (c *Client) guarded(ctx context.Context) (*resty.Request, error) {
	if c.token == nil {
		return nil, ErrUnauthorized
	}
	tok, err := c.token(ctx)
	if err != nil || tok == "" {
		return nil, ErrUnauthorized
	}
	return c.httpClient.R().SetContext(ctx).SetAuthToken(tok), nil
}

// check 统一的响应检查：传输错误、认证失败、业务错误
func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	code := resp.StatusCode()
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.IsError() {
		return parseAPIError(resp)
	}
	return nil
}

func parseAPIError(resp *resty.Response) error {
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	detail := http.StatusText(resp.StatusCode())
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if body.Detail != "" {
			detail = body.Detail
		} else if body.Error != "" {
			detail = body.Error
		}
	}
	return &APIError{Status: resp.StatusCode(), Detail: detail}
}
