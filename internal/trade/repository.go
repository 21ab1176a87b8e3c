package trade

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/prathamjain99/Quant/pkg/database"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

// Repository 交易仓储。
type Repository struct {
	*database.GormRepository[Trade]
}

// NewRepository 创建交易仓储实例。
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{GormRepository: database.NewGormRepository[Trade](db)}
}

// FindByID 按 ID 查询交易并预载产品信息。
func (r *Repository) FindByID(ctx context.Context, id uint64) (*Trade, error) {
	var t Trade
	if err := r.DB(ctx).Preload("Product").First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerrors.NotFound("trade not found")
		}
		return nil, xerrors.WrapInternal(err, "failed to find trade")
	}
	return &t, nil
}

// ListByUser 返回某用户的全部交易并预载产品信息，按交易时间倒序。
func (r *Repository) ListByUser(ctx context.Context, userID uint64) ([]*Trade, error) {
	var out []*Trade
	err := r.DB(ctx).Preload("Product").
		Where("user_id = ?", userID).
		Order("trade_date DESC").
		Find(&out).Error
	if err != nil {
		return nil, xerrors.WrapInternal(err, "failed to list trades")
	}
	return out, nil
}

// CountByUser 返回某用户的交易数。
func (r *Repository) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	if err := r.DB(ctx).Model(&Trade{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, xerrors.WrapInternal(err, "failed to count trades")
	}
	return count, nil
}
