package product

import (
	"context"

	"gorm.io/gorm"

	"github.com/prathamjain99/Quant/pkg/database"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

// Repository 产品仓储。
type Repository struct {
	*database.GormRepository[Product]
}

// NewRepository 创建产品仓储实例。
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{GormRepository: database.NewGormRepository[Product](db)}
}

// ListByOwner 返回某个组合经理名下的产品。
func (r *Repository) ListByOwner(ctx context.Context, ownerID uint64) ([]*Product, error) {
	var out []*Product
	if err := r.DB(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, xerrors.WrapInternal(err, "failed to list products by owner")
	}
	return out, nil
}

// Exists 判断产品是否存在。
func (r *Repository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, xerrors.WrapInternal(err, "failed to check product existence")
	}
	return count > 0, nil
}

// CountByOwner 返回某个组合经理名下的产品数。
func (r *Repository) CountByOwner(ctx context.Context, ownerID uint64) (int64, error) {
	var count int64
	if err := r.DB(ctx).Model(&Product{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, xerrors.WrapInternal(err, "failed to count products")
	}
	return count, nil
}
