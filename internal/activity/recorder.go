package activity

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/prathamjain99/Quant/pkg/database"
	"github.com/prathamjain99/Quant/pkg/logging"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

const defaultQueueSize = 256

// Repository 活动日志仓储。
type Repository struct {
	*database.GormRepository[Log]
}

// NewRepository 创建活动日志仓储。
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{GormRepository: database.NewGormRepository[Log](db)}
}

// ListRecentByUsername 返回某用户最近的活动记录。
func (r *Repository) ListRecentByUsername(ctx context.Context, username string, limit int) ([]*Log, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []*Log
	err := r.DB(ctx).
		Where("username = ?", username).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, xerrors.WrapInternal(err, "failed to list activity logs")
	}
	return out, nil
}

// LastActivityAt 返回某用户最近一次活动时间，没有记录时返回 nil。
func (r *Repository) LastActivityAt(ctx context.Context, username string) (*time.Time, error) {
	var entry Log
	err := r.DB(ctx).
		Where("username = ?", username).
		Order("created_at DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, xerrors.WrapInternal(err, "failed to query last activity")
	}
	return &entry.CreatedAt, nil
}

// Recorder 是异步的活动日志记录器。
// 写入通过有界通道投递到后台 goroutine，落库失败只记日志，
// 任何情况下都不会阻塞或拖垮主流程的业务变更。
type Recorder struct {
	repo   *Repository
	queue  chan Log
	done   chan struct{}
	logger *logging.Logger
}

// NewRecorder 创建并启动活动日志记录器。
func NewRecorder(repo *Repository, logger *logging.Logger) *Recorder {
	r := &Recorder{
		repo:   repo,
		queue:  make(chan Log, defaultQueueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	go r.loop()
	return r
}

// Record 投递一条活动记录。队列满时丢弃并告警，绝不阻塞调用方。
func (r *Recorder) Record(ctx context.Context, username, eventType, message, entityType string, entityID uint64) {
	entry := Log{
		Username:   username,
		EventType:  eventType,
		Message:    message,
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
	}

	select {
	case r.queue <- entry:
	default:
		r.logger.WarnContext(ctx, "activity queue full, entry dropped",
			"username", username, "event", eventType)
	}
}

func (r *Recorder) loop() {
	defer close(r.done)

	for entry := range r.queue {
		// 后台写入不继承请求上下文，避免请求结束导致写入被取消。
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.repo.Create(ctx, &entry); err != nil {
			r.logger.Error("failed to persist activity log",
				"username", entry.Username, "event", entry.EventType, "error", err)
		}
		cancel()
	}
}

// Close 关闭记录器并等待队列排空，用于应用优雅退出。
func (r *Recorder) Close() {
	close(r.queue)

	select {
	case <-r.done:
	case <-time.After(10 * time.Second):
		r.logger.Warn("activity recorder drain timed out")
	}
}
