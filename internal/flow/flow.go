package flow

import (
	"errors"
	"fmt"
)

// 通用的"命名步骤"表单状态机。
// 登录向导这类多步流程都用它驱动：状态是纯数据，
// 迁移是纯函数，不依赖任何渲染或 I/O。

var (
	// ErrDone 流程已结束，不再接受任何迁移
	ErrDone = errors.New("flow already done")
	// ErrNotCurrent 提交的步骤不是当前步骤
	ErrNotCurrent = errors.New("step is not current")
	// ErrNotOptional 只有可选步骤才能跳过
	ErrNotOptional = errors.New("step is not optional")
)

// Step 流程中的一个命名步骤
type Step struct {
	Name     string
	Optional bool
}

// Flow 有序步骤 + 当前位置 + 各步骤已提交的值
type Flow struct {
	steps  []Step
	idx    int
	values map[string]string
	done   bool
}

// New 创建流程，至少需要一个步骤
func New(steps ...Step) (*Flow, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("flow needs at least one step")
	}
	seen := make(map[string]bool, len(steps))
	for _, s := range steps {
		if s.Name == "" {
			return nil, fmt.Errorf("step name must not be empty")
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate step name: %s", s.Name)
		}
		seen[s.Name] = true
	}
	return &Flow{
		steps:  steps,
		values: make(map[string]string, len(steps)),
	}, nil
}

// Current 当前步骤名；流程结束后返回空串
func (f *Flow) Current() string {
	if f.done {
		return ""
	}
	return f.steps[f.idx].Name
}

// Done 流程是否已走完
func (f *Flow) Done() bool { return f.done }

// Value 某步骤已提交的值
func (f *Flow) Value(name string) (string, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Advance 提交当前步骤的值并前进
func (f *Flow) Advance(name, value string) error {
	if f.done {
		return ErrDone
	}
	if f.steps[f.idx].Name != name {
		return fmt.Errorf("%w: got %q, current is %q", ErrNotCurrent, name, f.steps[f.idx].Name)
	}
	f.values[name] = value
	f.forward()
	return nil
}

// Skip 跳过当前的可选步骤
func (f *Flow) Skip(name string) error {
	if f.done {
		return ErrDone
	}
	if f.steps[f.idx].Name != name {
		return fmt.Errorf("%w: got %q, current is %q", ErrNotCurrent, name, f.steps[f.idx].Name)
	}
	if !f.steps[f.idx].Optional {
		return fmt.Errorf("%w: %s", ErrNotOptional, name)
	}
	delete(f.values, name)
	f.forward()
	return nil
}

// Back 回退一步（清掉回退到的那一步的值，重新填写）
func (f *Flow) Back() error {
	if f.done {
		return ErrDone
	}
	if f.idx == 0 {
		return fmt.Errorf("already at first step")
	}
	f.idx--
	delete(f.values, f.steps[f.idx].Name)
	return nil
}

func (f *Flow) forward() {
	f.idx++
	if f.idx >= len(f.steps) {
		f.done = true
	}
}
