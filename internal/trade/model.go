// Package trade 实现模拟交易的簿记与盈亏计算。
package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prathamjain99/Quant/internal/product"
	"github.com/prathamjain99/Quant/internal/user"
)

// 交易方向。
const (
	TypeBuy  = "BUY"
	TypeSell = "SELL"
)

// Status 交易状态的封闭集合。
type Status string

const (
	StatusBooked  Status = "BOOKED"
	StatusActive  Status = "ACTIVE"
	StatusClosed  Status = "CLOSED"
	StatusSettled Status = "SETTLED"
)

// ParseStatus 解析交易状态，大小写不敏感。
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(s)) {
	case StatusBooked:
		return StatusBooked, nil
	case StatusActive:
		return StatusActive, nil
	case StatusClosed:
		return StatusClosed, nil
	case StatusSettled:
		return StatusSettled, nil
	default:
		return "", fmt.Errorf("invalid status: %q", s)
	}
}

// Trade 一笔已簿记的模拟交易。价格按百分比报价，价值换算时除以 100。
type Trade struct {
	ID           uint64           `gorm:"primaryKey"            json:"id"`
	ProductID    uint64           `gorm:"not null;index"        json:"productId"`
	Product      *product.Product `gorm:"foreignKey:ProductID"  json:"-"`
	UserID       uint64           `gorm:"not null;index"        json:"userId"`
	User         *user.User       `gorm:"foreignKey:UserID"     json:"-"`
	TradeType    string           `gorm:"size:8;not null"       json:"tradeType"`
	Notional     decimal.Decimal  `gorm:"type:decimal(18,4)"    json:"notional"`
	EntryPrice   decimal.Decimal  `gorm:"type:decimal(18,4)"    json:"entryPrice"`
	CurrentPrice decimal.Decimal  `gorm:"type:decimal(18,4)"    json:"currentPrice"`
	Status       Status           `gorm:"size:16;not null"      json:"status"`
	Notes        string           `gorm:"size:512"              json:"notes,omitempty"`
	TradeDate    time.Time        `json:"tradeDate"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// TableName 指定表名。
func (Trade) TableName() string {
	return "trades"
}

var hundred = decimal.NewFromInt(100)

// PnL 计算该笔交易当前的盈亏。
// BUY: (现价-入场价)*名义本金/100；SELL 方向相反。
func (t *Trade) PnL() decimal.Decimal {
	diff := t.CurrentPrice.Sub(t.EntryPrice)
	if t.TradeType != TypeBuy {
		diff = diff.Neg()
	}
	return diff.Mul(t.Notional).Div(hundred)
}

// Investment 该笔交易的投入金额：名义本金*入场价/100。
func (t *Trade) Investment() decimal.Decimal {
	return t.Notional.Mul(t.EntryPrice).Div(hundred)
}

// CurrentValue 该笔交易的当前价值：名义本金*现价/100。
func (t *Trade) CurrentValue() decimal.Decimal {
	return t.Notional.Mul(t.CurrentPrice).Div(hundred)
}
