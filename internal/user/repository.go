package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/prathamjain99/Quant/pkg/database"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

// Repository 用户仓储，组合通用 GORM 仓储并补充按用户名的查询。
type Repository struct {
	*database.GormRepository[User]
}

// NewRepository 创建用户仓储实例。
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{GormRepository: database.NewGormRepository[User](db)}
}

// FindByID 按 ID 查询用户。
func (r *Repository) FindByID(ctx context.Context, id uint64) (*User, error) {
	var u User
	if err := r.DB(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerrors.NotFound("user not found")
		}
		return nil, xerrors.WrapInternal(err, "failed to find user")
	}
	return &u, nil
}

// FindByUsername 按用户名查询用户。
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := r.DB(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerrors.NotFound("user not found")
		}
		return nil, xerrors.WrapInternal(err, "failed to find user by username")
	}
	return &u, nil
}

// ExistsByUsername 检查用户名是否已被占用。
func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, xerrors.WrapInternal(err, "failed to check username existence")
	}
	return count > 0, nil
}

// ExistsByEmail 检查邮箱是否已被占用。
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, xerrors.WrapInternal(err, "failed to check email existence")
	}
	return count > 0, nil
}

// TouchLastLogin 更新最近登录时间。
func (r *Repository) TouchLastLogin(ctx context.Context, userID uint64, at time.Time) error {
	if err := r.DB(ctx).Model(&User{}).Where("id = ?", userID).Update("last_login", at).Error; err != nil {
		return xerrors.WrapInternal(err, "failed to update last login")
	}
	return nil
}
