package strategy

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/prathamjain99/Quant/pkg/database"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

// Repository 策略仓储，组合通用 GORM 仓储并补充角色分发所需的有序查询。
type Repository struct {
	*database.GormRepository[Strategy]
}

// NewRepository 创建策略仓储实例。
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{GormRepository: database.NewGormRepository[Strategy](db)}
}

// FindByID 按 ID 查询策略并预载所有者。
func (r *Repository) FindByID(ctx context.Context, id uint64) (*Strategy, error) {
	var s Strategy
	if err := r.DB(ctx).Preload("Owner").First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerrors.NotFound("strategy not found")
		}
		return nil, xerrors.WrapInternal(err, "failed to find strategy")
	}
	return &s, nil
}

// ListByOwner 返回某个所有者的全部策略，按更新时间倒序。
func (r *Repository) ListByOwner(ctx context.Context, ownerID uint64) ([]*Strategy, error) {
	var out []*Strategy
	err := r.DB(ctx).Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, xerrors.WrapInternal(err, "failed to list strategies by owner")
	}
	return out, nil
}

// ListAll 返回全部策略，按更新时间倒序。
func (r *Repository) ListAll(ctx context.Context) ([]*Strategy, error) {
	var out []*Strategy
	err := r.DB(ctx).Preload("Owner").
		Order("updated_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, xerrors.WrapInternal(err, "failed to list strategies")
	}
	return out, nil
}

// ListPublic 返回全部公开策略，按发布时间倒序，发布时间相同按更新时间倒序。
func (r *Repository) ListPublic(ctx context.Context) ([]*Strategy, error) {
	var out []*Strategy
	err := r.DB(ctx).Preload("Owner").
		Where("is_public = ?", true).
		Order("published_at DESC, updated_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, xerrors.WrapInternal(err, "failed to list public strategies")
	}
	return out, nil
}

// SearchByOwner 在某个所有者的策略中做大小写不敏感的名称子串匹配。
func (r *Repository) SearchByOwner(ctx context.Context, ownerID uint64, term string) ([]*Strategy, error) {
	var out []*Strategy
	err := r.DB(ctx).Preload("Owner").
		Where("owner_id = ? AND name_lower LIKE ?", ownerID, "%"+strings.ToLower(term)+"%").
		Order("updated_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, xerrors.WrapInternal(err, "failed to search strategies by owner")
	}
	return out, nil
}

// SearchPublic 在公开策略中做大小写不敏感的名称子串匹配。
func (r *Repository) SearchPublic(ctx context.Context, term string) ([]*Strategy, error) {
	var out []*Strategy
	err := r.DB(ctx).Preload("Owner").
		Where("is_public = ? AND name_lower LIKE ?", true, "%"+strings.ToLower(term)+"%").
		Order("published_at DESC, updated_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, xerrors.WrapInternal(err, "failed to search public strategies")
	}
	return out, nil
}

// ExistsByOwnerAndName 检查某所有者名下是否已有同名策略（大小写不敏感）。
// excludeID 非零时排除指定记录，用于重命名时排除自身。
func (r *Repository) ExistsByOwnerAndName(ctx context.Context, ownerID uint64, name string, excludeID uint64) (bool, error) {
	q := r.DB(ctx).Model(&Strategy{}).
		Where("owner_id = ? AND name_lower = ?", ownerID, strings.ToLower(name))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, xerrors.WrapInternal(err, "failed to check strategy name existence")
	}
	return count > 0, nil
}

// CountByOwner 返回某所有者名下的 (总数, 公开数)。
func (r *Repository) CountByOwner(ctx context.Context, ownerID uint64) (total, public int64, err error) {
	if err = r.DB(ctx).Model(&Strategy{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error; err != nil {
		return 0, 0, xerrors.WrapInternal(err, "failed to count strategies")
	}

	if err = r.DB(ctx).Model(&Strategy{}).
		Where("owner_id = ? AND is_public = ?", ownerID, true).
		Count(&public).Error; err != nil {
		return 0, 0, xerrors.WrapInternal(err, "failed to count public strategies")
	}

	return total, public, nil
}
