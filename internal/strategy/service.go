package strategy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prathamjain99/Quant/internal/user"
	"github.com/prathamjain99/Quant/pkg/cache"
	"github.com/prathamjain99/Quant/pkg/logging"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

// 活动日志事件类型。
const (
	EventCreated     = "STRATEGY_CREATED"
	EventUpdated     = "STRATEGY_UPDATED"
	EventDeleted     = "STRATEGY_DELETED"
	EventPublished   = "STRATEGY_PUBLISHED"
	EventUnpublished = "STRATEGY_UNPUBLISHED"

	entityType = "Strategy"
)

// Store 定义服务层依赖的策略存取能力。
type Store interface {
	FindByID(ctx context.Context, id uint64) (*Strategy, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*Strategy, error)
	ListAll(ctx context.Context) ([]*Strategy, error)
	ListPublic(ctx context.Context) ([]*Strategy, error)
	SearchByOwner(ctx context.Context, ownerID uint64, term string) ([]*Strategy, error)
	SearchPublic(ctx context.Context, term string) ([]*Strategy, error)
	ExistsByOwnerAndName(ctx context.Context, ownerID uint64, name string, excludeID uint64) (bool, error)
	Create(ctx context.Context, s *Strategy) error
	Update(ctx context.Context, s *Strategy) error
	Delete(ctx context.Context, id any) error
	CountByOwner(ctx context.Context, ownerID uint64) (total, public int64, err error)
}

// ActivityRecorder 是活动日志的投递端口，实现必须保证调用不阻塞、失败不外溢。
type ActivityRecorder interface {
	Record(ctx context.Context, username, eventType, message, entType string, entityID uint64)
}

// Statistics 按所有者口径统计的策略数量。
// 注意：对所有角色都按"调用者拥有的策略"统计，与既有行为保持一致。
type Statistics struct {
	TotalStrategies   int64 `json:"totalStrategies"`
	PublicStrategies  int64 `json:"publicStrategies"`
	PrivateStrategies int64 `json:"privateStrategies"`
}

// CreateRequest 创建策略请求体。
type CreateRequest struct {
	Name          string   `json:"name"          binding:"required,min=2,max=100"`
	Description   string   `json:"description"   binding:"omitempty,max=2000"`
	Configuration Document `json:"configuration"`
	Tags          []string `json:"tags"`
}

// UpdateRequest 更新策略请求体，整体替换四个可变字段。
type UpdateRequest struct {
	Name          string   `json:"name"          binding:"required,min=2,max=100"`
	Description   string   `json:"description"   binding:"omitempty,max=2000"`
	Configuration Document `json:"configuration"`
	Tags          []string `json:"tags"`
}

// Service 策略授权与生命周期引擎。
type Service struct {
	repo     Store
	recorder ActivityRecorder
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *logging.Logger
	now      func() time.Time
}

// NewService 创建策略服务。statsCache 可为 nil 表示禁用统计缓存。
func NewService(repo Store, recorder ActivityRecorder, statsCache cache.Cache, cacheTTL time.Duration, logger *logging.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &Service{
		repo:     repo,
		recorder: recorder,
		cache:    statsCache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// List 按角色分发返回观察者可见的策略。
// search 非空时执行大小写不敏感的名称子串过滤。
func (s *Service) List(ctx context.Context, viewer *user.User, search string) ([]*DTO, error) {
	var (
		items []*Strategy
		err   error
	)

	if search == "" {
		switch viewer.Role {
		case user.RoleResearcher:
			items, err = s.repo.ListByOwner(ctx, viewer.ID)
		case user.RolePortfolioManager:
			items, err = s.repo.ListAll(ctx)
		case user.RoleClient:
			items, err = s.repo.ListPublic(ctx)
		default:
			items = nil
		}
	} else {
		switch viewer.Role {
		case user.RoleResearcher:
			items, err = s.repo.SearchByOwner(ctx, viewer.ID, search)
		case user.RolePortfolioManager:
			// 组合经理的搜索在全量集合上做内存过滤，与既有行为保持一致。
			var all []*Strategy
			all, err = s.repo.ListAll(ctx)
			if err == nil {
				term := strings.ToLower(search)
				for _, it := range all {
					if strings.Contains(strings.ToLower(it.Name), term) {
						items = append(items, it)
					}
				}
			}
		case user.RoleClient:
			items, err = s.repo.SearchPublic(ctx, search)
		default:
			items = nil
		}
	}
	if err != nil {
		return nil, err
	}

	return NewDTOList(items, viewer), nil
}

// Get 返回单条策略，观察者无权查看时返回 PermissionDenied。
func (s *Service) Get(ctx context.Context, viewer *user.User, id uint64) (*DTO, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanView(viewer, st) {
		return nil, xerrors.PermissionDenied("you don't have permission to view this strategy")
	}

	return NewDTO(st, viewer), nil
}

// Create 创建策略：仅研究员可创建，配置为空时套用固定默认文档。
func (s *Service) Create(ctx context.Context, viewer *user.User, req CreateRequest) (*DTO, error) {
	if viewer.Role != user.RoleResearcher {
		return nil, xerrors.PermissionDenied("only researchers can create strategies")
	}

	exists, err := s.repo.ExistsByOwnerAndName(ctx, viewer.ID, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, xerrors.AlreadyExists("a strategy with this name already exists")
	}

	conf := req.Configuration
	if len(conf) == 0 {
		conf = DefaultConfiguration()
	}

	now := s.now()
	st := &Strategy{
		Name:          req.Name,
		NameLower:     strings.ToLower(req.Name),
		Description:   req.Description,
		Configuration: conf,
		Tags:          req.Tags,
		IsPublic:      false,
		OwnerID:       viewer.ID,
		Owner:         viewer,
		CreatedAt:     now,
		UpdatedAt:     now,
		PublishedAt:   nil,
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}

	s.record(ctx, viewer.Username, EventCreated, "Created strategy: "+req.Name, st.ID)
	s.invalidateStats(ctx, viewer.ID)

	return NewDTO(st, viewer), nil
}

// Update 整体替换名称、描述、配置与标签；可见性与发布时间不受影响。
func (s *Service) Update(ctx context.Context, viewer *user.User, id uint64, req UpdateRequest) (*DTO, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanModify(viewer, st) {
		return nil, xerrors.PermissionDenied("you can only modify your own strategies")
	}

	// 重命名冲突检查排除自身，允许纯大小写调整等原地改名。
	if !strings.EqualFold(st.Name, req.Name) {
		exists, err := s.repo.ExistsByOwnerAndName(ctx, viewer.ID, req.Name, st.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, xerrors.AlreadyExists("a strategy with this name already exists")
		}
	}

	oldName := st.Name
	st.Name = req.Name
	st.NameLower = strings.ToLower(req.Name)
	st.Description = req.Description
	st.Configuration = req.Configuration
	st.Tags = req.Tags
	st.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}

	s.record(ctx, viewer.Username, EventUpdated,
		fmt.Sprintf("Updated strategy: %s -> %s", oldName, req.Name), st.ID)

	return NewDTO(st, viewer), nil
}

// Delete 删除策略。
func (s *Service) Delete(ctx context.Context, viewer *user.User, id uint64) error {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !CanModify(viewer, st) {
		return xerrors.PermissionDenied("you can only delete your own strategies")
	}

	if err := s.repo.Delete(ctx, st.ID); err != nil {
		return err
	}

	s.record(ctx, viewer.Username, EventDeleted, "Deleted strategy: "+st.Name, st.ID)
	s.invalidateStats(ctx, viewer.ID)

	return nil
}

// Publish 将私有策略发布为公开。重复发布被拒绝而非静默忽略。
func (s *Service) Publish(ctx context.Context, viewer *user.User, id uint64) (*DTO, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanModify(viewer, st) {
		return nil, xerrors.PermissionDenied("you can only publish your own strategies")
	}

	if st.IsPublic {
		return nil, xerrors.InvalidArg("strategy is already public")
	}

	now := s.now()
	st.Publish(now)
	st.UpdatedAt = now

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}

	s.record(ctx, viewer.Username, EventPublished, "Published strategy: "+st.Name, st.ID)
	s.invalidateStats(ctx, viewer.ID)

	return NewDTO(st, viewer), nil
}

// Unpublish 将公开策略收回为私有。重复收回被拒绝而非静默忽略。
func (s *Service) Unpublish(ctx context.Context, viewer *user.User, id uint64) (*DTO, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanModify(viewer, st) {
		return nil, xerrors.PermissionDenied("you can only unpublish your own strategies")
	}

	if !st.IsPublic {
		return nil, xerrors.InvalidArg("strategy is already private")
	}

	st.Unpublish()
	st.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}

	s.record(ctx, viewer.Username, EventUnpublished, "Unpublished strategy: "+st.Name, st.ID)
	s.invalidateStats(ctx, viewer.ID)

	return NewDTO(st, viewer), nil
}

// Stats 返回调用者名下的策略统计。
// 对所有角色都按所有者口径统计（组合经理和客户通常得到全零），
// 该口径沿袭既有行为，不做纠正。
func (s *Service) Stats(ctx context.Context, viewer *user.User) (*Statistics, error) {
	key := s.statsKey(viewer.ID)

	if s.cache != nil {
		var cached Statistics
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	total, public, err := s.repo.CountByOwner(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalStrategies:   total,
		PublicStrategies:  public,
		PrivateStrategies: total - public,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats, s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "failed to cache strategy statistics", "owner_id", viewer.ID, "error", err)
		}
	}

	return stats, nil
}

func (s *Service) statsKey(ownerID uint64) string {
	return fmt.Sprintf("strategy:stats:%d", ownerID)
}

func (s *Service) invalidateStats(ctx context.Context, ownerID uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.statsKey(ownerID)); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate statistics cache", "owner_id", ownerID, "error", err)
	}
}

func (s *Service) record(ctx context.Context, username, eventType, message string, id uint64) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, username, eventType, message, entityType, id)
}
