package api

import "context"

// FetchLogs 拉取后端运维日志（运维控制台轮询用）
func (c *Client) FetchLogs(ctx context.Context) ([]string, error) {
	r, err := c.guarded(ctx)
	if err != nil {
		return nil, err
	}
	var out struct {
		Logs []string `json:"logs"`
	}
	resp, err := r.SetResult(&out).Get("/logs/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return out.Logs, nil
}
