package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"paintshop-terminal/internal/store"

	"go.uber.org/zap"
)

// 入库扫描台账：记录某个工单下已扫描过的设备序列号，
// 同一台设备重复扫描直接在客户端拦下，不用等后端报错

// ErrDuplicateScan 该序列号已在本工单台账里
var ErrDuplicateScan = errors.New("device already scanned for this request")

// Journal 按工单号持久化的扫描台账
type Journal struct {
	kv     store.KV
	ttl    time.Duration
	logger *zap.Logger
}

func NewJournal(kv store.KV, ttl time.Duration, logger *zap.Logger) *Journal {
	return &Journal{kv: kv, ttl: ttl, logger: logger}
}

// Add 登记一次扫描；重复序列号返回 ErrDuplicateScan
func (j *Journal) Add(ctx context.Context, requestID int64, serial string) error {
	serials, err := j.List(ctx, requestID)
	if err != nil {
		return err
	}
	for _, s := range serials {
		if s == serial {
			return fmt.Errorf("%w: %s", ErrDuplicateScan, serial)
		}
	}
	serials = append(serials, serial)
	if err := j.persist(ctx, requestID, serials); err != nil {
		return err
	}
	j.logger.Info("device scanned into request",
		zap.Int64("request_id", requestID),
		zap.String("sn", serial),
		zap.Int("total", len(serials)),
	)
	return nil
}

// List 工单下已扫描的序列号（保持扫描顺序）
func (j *Journal) List(ctx context.Context, requestID int64) ([]string, error) {
	raw, err := j.kv.Get(ctx, store.ScannedKey(requestID))
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("load scan journal: %w", err)
	}
	var serials []string
	if err := json.Unmarshal([]byte(raw), &serials); err != nil {
		return nil, fmt.Errorf("decode scan journal: %w", err)
	}
	return serials, nil
}

// Clear 清空工单台账（工单关闭后）
func (j *Journal) Clear(ctx context.Context, requestID int64) error {
	return j.kv.Del(ctx, store.ScannedKey(requestID))
}

func (j *Journal) persist(ctx context.Context, requestID int64, serials []string) error {
	b, err := json.Marshal(serials)
	if err != nil {
		return fmt.Errorf("encode scan journal: %w", err)
	}
	return j.kv.Set(ctx, store.ScannedKey(requestID), string(b), j.ttl)
}
