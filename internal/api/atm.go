package api

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"paintshop-terminal/internal/models"

	"go.uber.org/zap"
)

// ATMListResponse 设备分页列表
type ATMListResponse struct {
	Count   int          `json:"count"`
	Results []models.ATM `json:"results"`
}

// Photo 待上传的照片
type Photo struct {
	Name string
	Data []byte
}

// PhotoRecord 设备历史照片记录
type PhotoRecord struct {
	URL       string `json:"url"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// SearchATM 按扫描/手输的编码查找设备
// source 标识编码来源（"scan" 或 "manual"），后端据此记录操作方式
func (c *Client) SearchATM(ctx context.Context, code, source string) (*models.ATM, error) {
	r, err := c.guarded(ctx)
	if err != nil {
		return nil, err
	}
	var out models.ATM
	resp, err := r.
		SetQueryParams(map[string]string{"code": code, "source": source}).
		SetResult(&out).
		Get("/atm/search/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListATMs 设备分页列表
func (c *Client) ListATMs(ctx context.Context, page int) (*ATMListResponse, error) {
	r, err := c.guarded(ctx)
	if err != nil {
		return nil, err
	}
	var out ATMListResponse
	resp, err := r.
		SetQueryParam("page", strconv.Itoa(page)).
		SetResult(&out).
		Get("/atm_list/")
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPhotos 按设备序列号上传照片（multipart）
// 字段名与后端严格一致：photos[]、comment、status、sn
func (c *Client) UploadPhotos(ctx context.Context, serial, status, comment string, photos []Photo) error {
	if len(photos) == 0 {
		return fmt.Errorf("no photos to upload")
	}
	r, err := c.guarded(ctx)
	if err != nil {
		return err
	}
	for _, p := range photos {
		r.SetFileReader("photos[]", p.Name, bytes.NewReader(p.Data))
	}
	resp, err := r.
		SetFormData(map[string]string{
			"comment": comment,
			"status":  status,
			"sn":      serial,
		}).
		Post("/atm/upload-photos/")
	if err := c.check(resp, err); err != nil {
		return err
	}
	c.logger.Info("photos uploaded",
		zap.String("sn", serial),
		zap.Int("count", len(photos)),
	)
	return nil
}

// PhotoHistory 设备历史照片
func (c *Client) PhotoHistory(ctx context.Context, atmID int64) ([]PhotoRecord, error) {
	r, err := c.guarded(ctx)
	if err != nil {
		return nil, err
	}
	var out []PhotoRecord
	resp, err := r.
		SetResult(&out).
		Get(fmt.Sprintf("/atm/%d/photos/", atmID))
	if err := c.check(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}
