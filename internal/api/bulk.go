package api

import "context"

// 批量字段更新：四个端点互相独立，后端没有跨字段事务，
// 一个字段失败不会回滚已成功的字段

func (c *Client) bulkPatch(ctx context.Context, path string, body any) error {
	r, err := c.guarded(ctx)
	if err != nil {
		return err
	}
	resp, err := r.SetBody(body).Patch(path)
	return c.check(resp, err)
}

// UpdatePayment 批量更新付款金额
func (c *Client) UpdatePayment(ctx context.Context, ids []int64, value string) error {
	return c.bulkPatch(ctx, "/update_payment/", map[string]any{"ids": ids, "value": value})
}

// UpdateDates 批量更新日期对
func (c *Client) UpdateDates(ctx context.Context, ids []int64, dateFrom, dateTo string) error {
	return c.bulkPatch(ctx, "/update_dates_flow/", map[string]any{
		"ids":       ids,
		"date_from": dateFrom,
		"date_to":   dateTo,
	})
}

// UpdateStatus 批量更新状态
func (c *Client) UpdateStatus(ctx context.Context, ids []int64, status string) error {
	return c.bulkPatch(ctx, "/update_status_flow/", map[string]any{"ids": ids, "value": status})
}

// UpdateNote 批量更新备注
func (c *Client) UpdateNote(ctx context.Context, ids []int64, note string) error {
	return c.bulkPatch(ctx, "/update_note_flow/", map[string]any{"ids": ids, "value": note})
}
