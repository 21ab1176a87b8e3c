// Package product 实现结构化产品目录。
package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prathamjain99/Quant/internal/user"
)

// Product 可交易的结构化产品，由组合经理创建维护。
type Product struct {
	ID              uint64          `gorm:"primaryKey"           json:"id"`
	Name            string          `gorm:"size:128;not null"    json:"name"`
	Type            string          `gorm:"size:64;not null"     json:"type"`
	UnderlyingAsset string          `gorm:"size:64"              json:"underlyingAsset"`
	Strike          decimal.Decimal `gorm:"type:decimal(18,4)"   json:"strike"`
	Maturity        *time.Time      `json:"maturity,omitempty"`
	OwnerID         uint64          `gorm:"not null;index"       json:"ownerId"`
	Owner           *user.User      `gorm:"foreignKey:OwnerID"   json:"-"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TableName 指定表名。
func (Product) TableName() string {
	return "products"
}
