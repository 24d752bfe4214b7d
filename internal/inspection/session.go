package inspection

import (
	"encoding/json"
	"fmt"
)

// Option 单个区域的检验结论
type Option string

const (
	OptionNoIssues  Option = "no_issues"
	OptionHasIssues Option = "has_issues"
)

// ZoneState 区域状态（由结论 + 照片标记推导）
type ZoneState string

const (
	ZoneUnanswered    ZoneState = "unanswered"
	ZoneNoIssues      ZoneState = "no_issues"
	ZonePendingPhoto  ZoneState = "has_issues_pending_photo"
	ZonePhotoAttached ZoneState = "has_issues_photo_attached"
)

// State 整个检验会话的状态
type State string

const (
	StateInProgress    State = "in_progress"
	StateReadyToSubmit State = "ready_to_submit"
	StateSubmitting    State = "submitting"
	StateSubmitted     State = "submitted"
)

// zoneEntry 区域的持久化记录
// 结论从"有问题"改回"无问题"时不清除 photo_attached：
// 已上传的照片仍是有效留证（产品未定论，保持原行为）
type zoneEntry struct {
	Answer        Option `json:"answer,omitempty"`
	PhotoAttached bool   `json:"photo_attached"`
}

// Session 检验会话（客户端瞬态结构，按序列号持久化到 KV，换班/重启可恢复）
type Session struct {
	Serial string                `json:"serial"`
	Zones  []string              `json:"zones"`
	Items  map[string]*zoneEntry `json:"items"`
	State  State                 `json:"state"`
}

func newSession(serial string, zones []string) *Session {
	items := make(map[string]*zoneEntry, len(zones))
	for _, z := range zones {
		items[z] = &zoneEntry{}
	}
	return &Session{
		Serial: serial,
		Zones:  zones,
		Items:  items,
		State:  StateInProgress,
	}
}

func decodeSession(raw string) (*Session, error) {
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode inspection session: %w", err)
	}
	if s.Items == nil {
		s.Items = make(map[string]*zoneEntry)
	}
	for _, z := range s.Zones {
		if s.Items[z] == nil {
			s.Items[z] = &zoneEntry{}
		}
	}
	return &s, nil
}

func (s *Session) encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode inspection session: %w", err)
	}
	return string(b), nil
}

// ZoneState 推导某区域的当前状态
func (s *Session) ZoneState(zone string) ZoneState {
	e, ok := s.Items[zone]
	if !ok || e.Answer == "" {
		return ZoneUnanswered
	}
	if e.Answer == OptionNoIssues {
		return ZoneNoIssues
	}
	if e.PhotoAttached {
		return ZonePhotoAttached
	}
	return ZonePendingPhoto
}

// CanSubmit 纯推导：所有区域到达终态，且每个"有问题"区域都已附照片
func (s *Session) CanSubmit() bool {
	for _, z := range s.Zones {
		switch s.ZoneState(z) {
		case ZoneNoIssues, ZonePhotoAttached:
		default:
			return false
		}
	}
	return true
}

// HasIssues 整机是否存在问题（任一区域为"有问题"）
func (s *Session) HasIssues() bool {
	for _, z := range s.Zones {
		if e := s.Items[z]; e != nil && e.Answer == OptionHasIssues {
			return true
		}
	}
	return false
}

// refreshState 答案变化后重新推导会话状态
// 已提交的会话不再回退
func (s *Session) refreshState() {
	if s.State == StateSubmitted || s.State == StateSubmitting {
		return
	}
	if s.CanSubmit() {
		s.State = StateReadyToSubmit
	} else {
		s.State = StateInProgress
	}
}
