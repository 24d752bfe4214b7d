package inspection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paintshop-terminal/internal/api"
	"paintshop-terminal/internal/lock"
	"paintshop-terminal/internal/models"
	"paintshop-terminal/internal/store"

	"go.uber.org/zap"
)

var (
	// ErrUnknownZone 区域名不在清单里
	ErrUnknownZone = errors.New("unknown inspection zone")
	// ErrNotReady 清单未完成，不能提交
	ErrNotReady = errors.New("inspection not ready to submit")
	// ErrAlreadySubmitted 会话已提交
	ErrAlreadySubmitted = errors.New("inspection already submitted")
)

// LockedError 设备正被其他操作员检验
type LockedError struct {
	Claimant models.User
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("device locked by %s", e.Claimant.Username)
}

// Inspector 检验工作流：声明 → 清单 → 照片 → 提交
type Inspector struct {
	api         *api.Client
	kv          store.KV
	locker      *lock.Locker
	progressTTL time.Duration
	logger      *zap.Logger
}

func NewInspector(client *api.Client, kv store.KV, locker *lock.Locker, progressTTL time.Duration, logger *zap.Logger) *Inspector {
	return &Inspector{
		api:         client,
		kv:          kv,
		locker:      locker,
		progressTTL: progressTTL,
		logger:      logger,
	}
}

// Open 按序列号开始（或恢复）一次检验
// 先抢编辑声明，被他人持有返回 *LockedError；
// 然后恢复已持久化的进度，没有则按固定区域清单新建
func (i *Inspector) Open(ctx context.Context, serial string, user models.User) (*Session, error) {
	res, err := i.locker.TryClaim(ctx, serial, user)
	if err != nil {
		return nil, err
	}
	if !res.Granted {
		return nil, &LockedError{Claimant: res.Claimant}
	}

	raw, err := i.kv.Get(ctx, store.ProgressKey(serial))
	if err == nil {
		s, err := decodeSession(raw)
		if err == nil {
			i.logger.Info("inspection session restored",
				zap.String("sn", serial),
				zap.String("state", string(s.State)),
			)
			return s, nil
		}
		// 损坏的进度不挡路，丢弃重来
		i.logger.Warn("stored inspection progress is corrupt, starting fresh",
			zap.String("sn", serial), zap.Error(err))
	} else if !errors.Is(err, store.ErrMiss) {
		return nil, fmt.Errorf("load inspection progress: %w", err)
	}

	s := newSession(serial, models.InspectionZones)
	if err := i.persist(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// SelectOption 记录某区域的结论，覆盖旧结论，每次变更都整体持久化
func (i *Inspector) SelectOption(ctx context.Context, s *Session, zone string, opt Option) error {
	if s.State == StateSubmitted {
		return ErrAlreadySubmitted
	}
	e, ok := s.Items[zone]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownZone, zone)
	}
	if opt != OptionNoIssues && opt != OptionHasIssues {
		return fmt.Errorf("invalid option: %s", opt)
	}
	e.Answer = opt
	s.refreshState()
	return i.persist(ctx, s)
}

// AttachPhoto 上传区域照片并标记已附
// 对"无问题"区域也接受（不影响提交门禁），照片照常上传留证
func (i *Inspector) AttachPhoto(ctx context.Context, s *Session, zone, comment string, photos []api.Photo) error {
	if s.State == StateSubmitted {
		return ErrAlreadySubmitted
	}
	e, ok := s.Items[zone]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownZone, zone)
	}
	if err := i.api.UploadPhotos(ctx, s.Serial, "otk", comment, photos); err != nil {
		return err
	}
	e.PhotoAttached = true
	s.refreshState()
	return i.persist(ctx, s)
}

// Submit 提交检验结论
// 成功：删除进度、释放声明、会话进入 submitted；
// 失败：会话回到 ready_to_submit，由操作员决定是否重试
func (i *Inspector) Submit(ctx context.Context, s *Session) error {
	if s.State == StateSubmitted {
		return ErrAlreadySubmitted
	}
	if !s.CanSubmit() {
		return ErrNotReady
	}

	s.State = StateSubmitting
	report := &api.InspectionReport{
		SerialNumber: s.Serial,
		HasIssues:    s.HasIssues(),
	}
	for _, z := range s.Zones {
		e := s.Items[z]
		report.Sections = append(report.Sections, api.InspectionSection{
			Zone:          z,
			Answer:        string(e.Answer),
			PhotoAttached: e.PhotoAttached,
		})
	}

	if err := i.api.SubmitInspection(ctx, report); err != nil {
		s.State = StateReadyToSubmit
		return err
	}

	if err := i.kv.Del(ctx, store.ProgressKey(s.Serial)); err != nil {
		i.logger.Warn("failed to drop inspection progress", zap.String("sn", s.Serial), zap.Error(err))
	}
	if err := i.locker.Release(ctx, s.Serial); err != nil {
		i.logger.Warn("failed to release edit claim", zap.String("sn", s.Serial), zap.Error(err))
	}
	s.State = StateSubmitted
	return nil
}

// Discard 丢弃进度但保留声明（操作员主动重做清单）
func (i *Inspector) Discard(ctx context.Context, s *Session) error {
	if err := i.kv.Del(ctx, store.ProgressKey(s.Serial)); err != nil {
		return err
	}
	fresh := newSession(s.Serial, s.Zones)
	*s = *fresh
	return i.persist(ctx, s)
}

func (i *Inspector) persist(ctx context.Context, s *Session) error {
	raw, err := s.encode()
	if err != nil {
		return err
	}
	if err := i.kv.Set(ctx, store.ProgressKey(s.Serial), raw, i.progressTTL); err != nil {
		return fmt.Errorf("persist inspection progress: %w", err)
	}
	return nil
}
