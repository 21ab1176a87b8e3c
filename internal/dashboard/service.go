// Package dashboard 聚合各子系统数据，产出登录后首屏的概览。
package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prathamjain99/Quant/internal/trade"
	"github.com/prathamjain99/Quant/internal/user"
)

// StrategyCounter 统计用户名下的策略数。
type StrategyCounter interface {
	CountByOwner(ctx context.Context, ownerID uint64) (total int64, public int64, err error)
}

// TradeStore 取用户交易簿并统计笔数。
type TradeStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]*trade.Trade, error)
}

// ProductCounter 统计组合经理名下的产品数。
type ProductCounter interface {
	CountByOwner(ctx context.Context, ownerID uint64) (int64, error)
}

// ActivityStore 查询用户最近一次活动时间。
type ActivityStore interface {
	LastActivityAt(ctx context.Context, username string) (*time.Time, error)
}

// UserStore 查询用户资料。
type UserStore interface {
	FindByID(ctx context.Context, id uint64) (*user.User, error)
}

// Summary 仪表盘概览。回测、分析报告与模拟次数目前由存量数据推算。
type Summary struct {
	StrategiesCount           int64           `json:"strategiesCount"`
	TradesCount               int64           `json:"tradesCount"`
	ProductsCount             int64           `json:"productsCount"`
	BacktestsCount            int64           `json:"backtestsCount"`
	AnalyticsReportsCount     int64           `json:"analyticsReportsCount"`
	PortfolioSimulationsCount int64           `json:"portfolioSimulationsCount"`
	TotalPortfolioValue       decimal.Decimal `json:"totalPortfolioValue"`
	LastActivity              *time.Time      `json:"lastActivity,omitempty"`
}

// Service 仪表盘服务。
type Service struct {
	strategies StrategyCounter
	trades     TradeStore
	products   ProductCounter
	activities ActivityStore
	users      UserStore
}

// NewService 创建仪表盘服务。
func NewService(strategies StrategyCounter, trades TradeStore, products ProductCounter, activities ActivityStore, users UserStore) *Service {
	return &Service{
		strategies: strategies,
		trades:     trades,
		products:   products,
		activities: activities,
		users:      users,
	}
}

var hundred = decimal.NewFromInt(100)

// Summarize 汇总当前用户的仪表盘数据。产品数仅对组合经理统计。
func (s *Service) Summarize(ctx context.Context, viewer *user.User) (*Summary, error) {
	strategiesCount, _, err := s.strategies.CountByOwner(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	trades, err := s.trades.ListByUser(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	var productsCount int64
	if viewer.Role == user.RolePortfolioManager {
		productsCount, err = s.products.CountByOwner(ctx, viewer.ID)
		if err != nil {
			return nil, err
		}
	}

	totalValue := decimal.Zero
	for _, t := range trades {
		totalValue = totalValue.Add(t.Notional.Mul(t.CurrentPrice).Div(hundred))
	}

	tradesCount := int64(len(trades))
	summary := &Summary{
		StrategiesCount:           strategiesCount,
		TradesCount:               tradesCount,
		ProductsCount:             productsCount,
		BacktestsCount:            strategiesCount * 2,
		AnalyticsReportsCount:     tradesCount / 2,
		PortfolioSimulationsCount: strategiesCount,
		TotalPortfolioValue:       totalValue,
	}

	last, err := s.activities.LastActivityAt(ctx, viewer.Username)
	if err != nil {
		return nil, err
	}
	if last != nil {
		summary.LastActivity = last
	} else if u, err := s.users.FindByID(ctx, viewer.ID); err == nil {
		summary.LastActivity = u.LastLogin
	}
	return summary, nil
}
