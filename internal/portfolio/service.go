// Package portfolio 基于用户的交易簿聚合持仓与盈亏概览。
package portfolio

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/prathamjain99/Quant/internal/trade"
)

// TradeStore 取用户交易簿的能力。
type TradeStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]*trade.Trade, error)
}

// PositionProduct 持仓里嵌入的产品摘要。
type PositionProduct struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	UnderlyingAsset string `json:"underlyingAsset"`
}

// Position 单笔持仓视图。
type Position struct {
	TradeID         uint64          `json:"tradeId"`
	Product         PositionProduct `json:"product"`
	TradeType       string          `json:"tradeType"`
	Quantity        decimal.Decimal `json:"quantity"`
	EntryPrice      decimal.Decimal `json:"entryPrice"`
	CurrentValue    decimal.Decimal `json:"currentValue"`
	TotalInvestment decimal.Decimal `json:"totalInvestment"`
	UnrealizedPnl   decimal.Decimal `json:"unrealizedPnl"`
	Status          trade.Status    `json:"status"`
}

// Summary 组合概览。
type Summary struct {
	TotalInvestment decimal.Decimal `json:"totalInvestment"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	TotalPnl        decimal.Decimal `json:"totalPnl"`
	PnlPercentage   decimal.Decimal `json:"pnlPercentage"`
	PositionCount   int             `json:"positionCount"`
	Positions       []*Position     `json:"positions"`
}

// Service 组合概览服务。
type Service struct {
	trades TradeStore
}

// NewService 创建组合概览服务。
func NewService(trades TradeStore) *Service {
	return &Service{trades: trades}
}

var hundred = decimal.NewFromInt(100)

// Summarize 汇总用户全部交易的投入、现值与盈亏。
// 投入 = Σ 名义本金*入场价/100；现值 = Σ 名义本金*现价/100。
func (s *Service) Summarize(ctx context.Context, userID uint64) (*Summary, error) {
	trades, err := s.trades.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Positions: make([]*Position, 0, len(trades)),
	}
	for _, t := range trades {
		investment := t.Investment()
		value := t.CurrentValue()

		pos := &Position{
			TradeID:         t.ID,
			TradeType:       t.TradeType,
			Quantity:        t.Notional,
			EntryPrice:      t.EntryPrice,
			CurrentValue:    value,
			TotalInvestment: investment,
			UnrealizedPnl:   t.PnL(),
			Status:          t.Status,
		}
		if t.Product != nil {
			pos.Product = PositionProduct{
				Name:            t.Product.Name,
				Type:            t.Product.Type,
				UnderlyingAsset: t.Product.UnderlyingAsset,
			}
		}
		summary.Positions = append(summary.Positions, pos)

		summary.TotalInvestment = summary.TotalInvestment.Add(investment)
		summary.TotalValue = summary.TotalValue.Add(value)
	}

	summary.TotalPnl = summary.TotalValue.Sub(summary.TotalInvestment)
	summary.PositionCount = len(summary.Positions)
	if summary.TotalInvestment.Sign() > 0 {
		summary.PnlPercentage = summary.TotalPnl.Div(summary.TotalInvestment).Mul(hundred)
	}
	return summary, nil
}
