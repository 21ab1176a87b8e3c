package portfolio

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/prathamjain99/Quant/internal/product"
	"github.com/prathamjain99/Quant/internal/trade"
)

type fakeTrades struct {
	byUser map[uint64][]*trade.Trade
}

func (f *fakeTrades) ListByUser(_ context.Context, userID uint64) ([]*trade.Trade, error) {
	return f.byUser[userID], nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSummarizeEmptyBook(t *testing.T) {
	svc := NewService(&fakeTrades{byUser: map[uint64][]*trade.Trade{}})

	summary, err := svc.Summarize(context.Background(), 1)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.PositionCount != 0 || len(summary.Positions) != 0 {
		t.Errorf("empty book: positions = %d", summary.PositionCount)
	}
	if !summary.TotalInvestment.IsZero() || !summary.TotalValue.IsZero() || !summary.PnlPercentage.IsZero() {
		t.Errorf("empty book must be all zero, got %+v", summary)
	}
}

func TestSummarizeAggregatesPositions(t *testing.T) {
	note := &product.Product{Name: "Autocall Note", Type: "AUTOCALLABLE", UnderlyingAsset: "SPX"}
	trades := []*trade.Trade{
		{
			ID: 1, TradeType: trade.TypeBuy, Product: note,
			Notional: dec("100000"), EntryPrice: dec("100"), CurrentPrice: dec("105"),
			Status: trade.StatusActive,
		},
		{
			ID: 2, TradeType: trade.TypeBuy, Product: note,
			Notional: dec("50000"), EntryPrice: dec("100"), CurrentPrice: dec("98"),
			Status: trade.StatusBooked,
		},
	}
	svc := NewService(&fakeTrades{byUser: map[uint64][]*trade.Trade{1: trades}})

	summary, err := svc.Summarize(context.Background(), 1)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	// 投入 = 100000*100/100 + 50000*100/100 = 150000
	if !summary.TotalInvestment.Equal(dec("150000")) {
		t.Errorf("totalInvestment = %s, want 150000", summary.TotalInvestment)
	}
	// 现值 = 100000*105/100 + 50000*98/100 = 105000 + 49000 = 154000
	if !summary.TotalValue.Equal(dec("154000")) {
		t.Errorf("totalValue = %s, want 154000", summary.TotalValue)
	}
	if !summary.TotalPnl.Equal(dec("4000")) {
		t.Errorf("totalPnl = %s, want 4000", summary.TotalPnl)
	}
	// 4000/150000*100 ≈ 2.6667%
	wantPct := dec("4000").Div(dec("150000")).Mul(dec("100"))
	if !summary.PnlPercentage.Equal(wantPct) {
		t.Errorf("pnlPercentage = %s, want %s", summary.PnlPercentage, wantPct)
	}
	if summary.PositionCount != 2 {
		t.Errorf("positionCount = %d, want 2", summary.PositionCount)
	}

	pos := summary.Positions[0]
	if pos.Product.Name != "Autocall Note" || pos.Product.UnderlyingAsset != "SPX" {
		t.Errorf("position product = %+v", pos.Product)
	}
	if !pos.UnrealizedPnl.Equal(dec("5000")) {
		t.Errorf("position pnl = %s, want 5000", pos.UnrealizedPnl)
	}
}
