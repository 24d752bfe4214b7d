package api

import (
	"context"
	"fmt"

	"paintshop-terminal/internal/models"
)

// RequestListResponse 工单分页列表
type RequestListResponse struct {
	Count   int              `json:"count"`
	Results []models.Request `json:"results"`
}

// ListRequests 工单列表
func (c *Client) ListRequests(ctx context.Context, page int) (*RequestListResponse, error) {
	r, err := c.guarded(ctx)
	if err != nil {
		return nil, err
	}
	var out RequestListResponse
	resp, err := r.
		SetQueryParam("page", fmt.Sprintf("%d", page)).
		SetResult(&out).
		Get("/requests-list/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRequest 新建工单
func (c *Client) CreateRequest(ctx context.Context, number, note string) (*models.Request, error) {
	r, err := c.guarded(ctx)
	if err != nil {
		return nil, err
	}
	var out models.Request
	resp, err := r.
		SetBody(map[string]string{"number": number, "note": note}).
		SetResult(&out).
		Post("/requests/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchRequest 局部更新工单字段
func (c *Client) PatchRequest(ctx context.Context, id int64, fields map[string]any) error {
	r, err := c.guarded(ctx)
	if err != nil {
		return err
	}
	resp, err := r.
		SetBody(fields).
		Patch(fmt.Sprintf("/requests/%d/", id))
	return c.check(resp, err)
}

// RequestStatuses 工单可用状态列表
func (c *Client) RequestStatuses(ctx context.Context) ([]string, error) {
	r, err := c.guarded(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	resp, err := r.SetResult(&out).Get("/status_req/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}
