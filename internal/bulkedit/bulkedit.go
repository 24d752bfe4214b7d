package bulkedit

import (
	"context"

	"paintshop-terminal/internal/api"
	"paintshop-terminal/internal/models"

	"go.uber.org/zap"
)

// Selection 批量编辑的选择状态
// 记录顺序跟随传入列表的当前排序/筛选顺序，SelectFirstN 因此是确定性的
type Selection struct {
	order  []int64
	picked map[int64]bool
}

// NewSelection 按列表当前顺序建立选择器
func NewSelection(atms []models.ATM) *Selection {
	s := &Selection{
		order:  make([]int64, 0, len(atms)),
		picked: make(map[int64]bool, len(atms)),
	}
	for _, a := range atms {
		s.order = append(s.order, a.ID)
	}
	return s
}

// SelectFirstN 清空后选中列表顺序下的前 n 条
// n 超出长度时等价于全选，n 为负（操作员手输）按 0 处理
func (s *Selection) SelectFirstN(n int) {
	s.Clear()
	if n < 0 {
		n = 0
	}
	if n > len(s.order) {
		n = len(s.order)
	}
	for _, id := range s.order[:n] {
		s.picked[id] = true
	}
}

// SelectAll 全选
func (s *Selection) SelectAll() {
	for _, id := range s.order {
		s.picked[id] = true
	}
}

// Clear 清空选择
func (s *Selection) Clear() {
	s.picked = make(map[int64]bool, len(s.order))
}

// Toggle 翻转单条选择；未知 ID 忽略
func (s *Selection) Toggle(id int64) {
	if !contains(s.order, id) {
		return
	}
	if s.picked[id] {
		delete(s.picked, id)
	} else {
		s.picked[id] = true
	}
}

// IDs 已选 ID，按列表顺序
func (s *Selection) IDs() []int64 {
	out := make([]int64, 0, len(s.picked))
	for _, id := range s.order {
		if s.picked[id] {
			out = append(out, id)
		}
	}
	return out
}

// Count 已选数量
func (s *Selection) Count() int { return len(s.picked) }

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Change 一次批量编辑要应用的字段，nil 字段不发请求
type Change struct {
	Payment  *string
	DateFrom *string
	DateTo   *string // 与 DateFrom 成对，单独出现视为空串
	Status   *string
	Note     *string
}

// FieldResult 单个字段更新的结果
type FieldResult struct {
	Field string
	Err   error
}

// Editor 批量字段编辑
type Editor struct {
	api    *api.Client
	logger *zap.Logger
}

func NewEditor(client *api.Client, logger *zap.Logger) *Editor {
	return &Editor{api: client, logger: logger}
}

// Apply 对已选记录应用变更
// 四个字段各自独立请求、独立成败，一个失败不回滚其他已成功的
// （后端没有跨字段事务）
func (e *Editor) Apply(ctx context.Context, ids []int64, change Change) []FieldResult {
	var results []FieldResult

	if change.Payment != nil {
		err := e.api.UpdatePayment(ctx, ids, *change.Payment)
		results = append(results, e.report("payment", ids, err))
	}
	if change.DateFrom != nil || change.DateTo != nil {
		from, to := "", ""
		if change.DateFrom != nil {
			from = *change.DateFrom
		}
		if change.DateTo != nil {
			to = *change.DateTo
		}
		err := e.api.UpdateDates(ctx, ids, from, to)
		results = append(results, e.report("dates", ids, err))
	}
	if change.Status != nil {
		err := e.api.UpdateStatus(ctx, ids, *change.Status)
		results = append(results, e.report("status", ids, err))
	}
	if change.Note != nil {
		err := e.api.UpdateNote(ctx, ids, *change.Note)
		results = append(results, e.report("note", ids, err))
	}
	return results
}

func (e *Editor) report(field string, ids []int64, err error) FieldResult {
	if err != nil {
		e.logger.Warn("bulk field update failed",
			zap.String("field", field),
			zap.Int("count", len(ids)),
			zap.Error(err),
		)
	} else {
		e.logger.Info("bulk field updated",
			zap.String("field", field),
			zap.Int("count", len(ids)),
		)
	}
	return FieldResult{Field: field, Err: err}
}
