package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prathamjain99/Quant/internal/trade"
	"github.com/prathamjain99/Quant/internal/user"
)

type fakeStrategies struct{ total, public int64 }

func (f *fakeStrategies) CountByOwner(context.Context, uint64) (int64, int64, error) {
	return f.total, f.public, nil
}

type fakeTrades struct{ trades []*trade.Trade }

func (f *fakeTrades) ListByUser(context.Context, uint64) ([]*trade.Trade, error) {
	return f.trades, nil
}

type fakeProducts struct{ count int64 }

func (f *fakeProducts) CountByOwner(context.Context, uint64) (int64, error) {
	return f.count, nil
}

type fakeActivities struct{ last *time.Time }

func (f *fakeActivities) LastActivityAt(context.Context, string) (*time.Time, error) {
	return f.last, nil
}

type fakeUsers struct{ u *user.User }

func (f *fakeUsers) FindByID(context.Context, uint64) (*user.User, error) {
	return f.u, nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestSummarizeDerivedCounts(t *testing.T) {
	trades := []*trade.Trade{
		{Notional: dec("100000"), CurrentPrice: dec("105")},
		{Notional: dec("50000"), CurrentPrice: dec("98")},
		{Notional: dec("20000"), CurrentPrice: dec("100")},
	}
	lastSeen := time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC)
	svc := NewService(
		&fakeStrategies{total: 4},
		&fakeTrades{trades: trades},
		&fakeProducts{count: 9},
		&fakeActivities{last: &lastSeen},
		&fakeUsers{u: &user.User{ID: 1}},
	)

	summary, err := svc.Summarize(context.Background(), &user.User{ID: 1, Username: "researcher1", Role: user.RoleResearcher})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.StrategiesCount != 4 || summary.TradesCount != 3 {
		t.Errorf("counts = %d strategies, %d trades", summary.StrategiesCount, summary.TradesCount)
	}
	if summary.BacktestsCount != 8 {
		t.Errorf("backtests = %d, want strategies*2 = 8", summary.BacktestsCount)
	}
	if summary.AnalyticsReportsCount != 1 {
		t.Errorf("analyticsReports = %d, want trades/2 = 1", summary.AnalyticsReportsCount)
	}
	if summary.PortfolioSimulationsCount != 4 {
		t.Errorf("simulations = %d, want strategies = 4", summary.PortfolioSimulationsCount)
	}
	// 105000 + 49000 + 20000 = 174000
	if !summary.TotalPortfolioValue.Equal(dec("174000")) {
		t.Errorf("totalPortfolioValue = %s, want 174000", summary.TotalPortfolioValue)
	}
	// 研究员不统计产品数。
	if summary.ProductsCount != 0 {
		t.Errorf("productsCount = %d, want 0 for researcher", summary.ProductsCount)
	}
	if summary.LastActivity == nil || !summary.LastActivity.Equal(lastSeen) {
		t.Errorf("lastActivity = %v, want %v", summary.LastActivity, lastSeen)
	}
}

func TestSummarizeProductCountForPM(t *testing.T) {
	svc := NewService(
		&fakeStrategies{},
		&fakeTrades{},
		&fakeProducts{count: 9},
		&fakeActivities{},
		&fakeUsers{u: &user.User{ID: 3}},
	)

	summary, err := svc.Summarize(context.Background(), &user.User{ID: 3, Username: "pm1", Role: user.RolePortfolioManager})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.ProductsCount != 9 {
		t.Errorf("productsCount = %d, want 9 for portfolio manager", summary.ProductsCount)
	}
}

func TestSummarizeFallsBackToLastLogin(t *testing.T) {
	login := time.Date(2025, 5, 1, 7, 0, 0, 0, time.UTC)
	svc := NewService(
		&fakeStrategies{},
		&fakeTrades{},
		&fakeProducts{},
		&fakeActivities{last: nil},
		&fakeUsers{u: &user.User{ID: 1, LastLogin: &login}},
	)

	summary, err := svc.Summarize(context.Background(), &user.User{ID: 1, Username: "client1", Role: user.RoleClient})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.LastActivity == nil || !summary.LastActivity.Equal(login) {
		t.Errorf("lastActivity = %v, want lastLogin %v", summary.LastActivity, login)
	}
}
