package trade

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prathamjain99/Quant/pkg/logging"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

type fakeStore struct {
	items  map[uint64]*Trade
	nextID uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[uint64]*Trade)}
}

func (f *fakeStore) Create(_ context.Context, t *Trade) error {
	f.nextID++
	t.ID = f.nextID
	cp := *t
	f.items[t.ID] = &cp
	return nil
}

func (f *fakeStore) Update(_ context.Context, t *Trade) error {
	if _, ok := f.items[t.ID]; !ok {
		return xerrors.NotFound("trade not found")
	}
	cp := *t
	f.items[t.ID] = &cp
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id uint64) (*Trade, error) {
	t, ok := f.items[id]
	if !ok {
		return nil, xerrors.NotFound("trade not found")
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID uint64) ([]*Trade, error) {
	var out []*Trade
	for _, t := range f.items {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeProducts struct {
	existing map[uint64]bool
}

func (f *fakeProducts) Exists(_ context.Context, id uint64) (bool, error) {
	return f.existing[id], nil
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, string, string, string, string, uint64) {}

func newTestService(store Store) *Service {
	svc := NewService(store, &fakeProducts{existing: map[uint64]bool{7: true}}, nopRecorder{}, logging.NewLogger("test", "trade"))
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBookInitializesCurrentPriceAndStatus(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	result, err := svc.Book(context.Background(), 1, "client1", BookRequest{
		ProductID:  7,
		TradeType:  TypeBuy,
		Notional:   dec("100000"),
		EntryPrice: dec("98.5"),
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if result.Status != StatusBooked {
		t.Errorf("status = %s, want BOOKED", result.Status)
	}

	booked, err := svc.Get(context.Background(), 1, result.TradeID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !booked.CurrentPrice.Equal(booked.EntryPrice) {
		t.Errorf("current price %s must equal entry price %s at booking", booked.CurrentPrice, booked.EntryPrice)
	}
	if !booked.PnL.IsZero() {
		t.Errorf("pnl at booking = %s, want 0", booked.PnL)
	}
}

func TestBookRejectsNonPositiveAmounts(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Book(context.Background(), 1, "client1", BookRequest{
		ProductID: 7, TradeType: TypeBuy, Notional: dec("0"), EntryPrice: dec("100"),
	})
	if !xerrors.IsType(err, xerrors.ErrInvalidArg) {
		t.Errorf("zero notional: expected InvalidArg, got %v", err)
	}

	_, err = svc.Book(context.Background(), 1, "client1", BookRequest{
		ProductID: 7, TradeType: TypeSell, Notional: dec("1000"), EntryPrice: dec("-1"),
	})
	if !xerrors.IsType(err, xerrors.ErrInvalidArg) {
		t.Errorf("negative entry: expected InvalidArg, got %v", err)
	}
}

func TestBookUnknownProduct(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Book(context.Background(), 1, "client1", BookRequest{
		ProductID: 999, TradeType: TypeBuy, Notional: dec("1000"), EntryPrice: dec("100"),
	})
	if !xerrors.IsType(err, xerrors.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestPnLDirection(t *testing.T) {
	cases := []struct {
		name      string
		tradeType string
		entry     string
		current   string
		notional  string
		want      string
	}{
		{"buy gains when price rises", TypeBuy, "100", "105", "100000", "5000"},
		{"buy loses when price falls", TypeBuy, "100", "97", "100000", "-3000"},
		{"sell gains when price falls", TypeSell, "100", "97", "100000", "3000"},
		{"sell loses when price rises", TypeSell, "100", "105", "100000", "-5000"},
	}
	for _, tc := range cases {
		tr := &Trade{
			TradeType:    tc.tradeType,
			Notional:     dec(tc.notional),
			EntryPrice:   dec(tc.entry),
			CurrentPrice: dec(tc.current),
		}
		if got := tr.PnL(); !got.Equal(dec(tc.want)) {
			t.Errorf("%s: pnl = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestGetIsOwnerOnly(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	result, err := svc.Book(context.Background(), 1, "client1", BookRequest{
		ProductID: 7, TradeType: TypeBuy, Notional: dec("1000"), EntryPrice: dec("100"),
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	if _, err := svc.Get(context.Background(), 2, result.TradeID); !xerrors.IsType(err, xerrors.ErrPermissionDenied) {
		t.Errorf("foreign user: expected PermissionDenied, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	result, err := svc.Book(ctx, 1, "client1", BookRequest{
		ProductID: 7, TradeType: TypeBuy, Notional: dec("1000"), EntryPrice: dec("100"),
	})
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}

	dto, err := svc.UpdateStatus(ctx, 1, "client1", result.TradeID, "active")
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if dto.Status != StatusActive {
		t.Errorf("status = %s, want ACTIVE", dto.Status)
	}

	if _, err := svc.UpdateStatus(ctx, 1, "client1", result.TradeID, "FROZEN"); !xerrors.IsType(err, xerrors.ErrInvalidArg) {
		t.Errorf("invalid status: expected InvalidArg, got %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, 2, "intruder", result.TradeID, "CLOSED"); !xerrors.IsType(err, xerrors.ErrPermissionDenied) {
		t.Errorf("foreign user: expected PermissionDenied, got %v", err)
	}
}
