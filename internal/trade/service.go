package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prathamjain99/Quant/pkg/logging"
	"github.com/prathamjain99/Quant/pkg/xerrors"
)

// 交易生命周期的活动事件。
const (
	EventBooked        = "TRADE_BOOKED"
	EventStatusChanged = "TRADE_STATUS_CHANGED"

	entityType = "Trade"
)

// Store 交易服务依赖的持久化能力，便于单测替换。
type Store interface {
	Create(ctx context.Context, t *Trade) error
	Update(ctx context.Context, t *Trade) error
	FindByID(ctx context.Context, id uint64) (*Trade, error)
	ListByUser(ctx context.Context, userID uint64) ([]*Trade, error)
}

// ActivityRecorder 活动流记录器。
type ActivityRecorder interface {
	Record(ctx context.Context, username, eventType, message, entityType string, entityID uint64)
}

// ProductStore 簿记前校验产品存在性。
type ProductStore interface {
	Exists(ctx context.Context, id uint64) (bool, error)
}

// BookRequest 簿记交易请求体。
type BookRequest struct {
	ProductID  uint64          `json:"productId"  binding:"required"`
	TradeType  string          `json:"tradeType"  binding:"required,oneof=BUY SELL"`
	Notional   decimal.Decimal `json:"notional"   binding:"required"`
	EntryPrice decimal.Decimal `json:"entryPrice" binding:"required"`
	Notes      string          `json:"notes"      binding:"omitempty,max=512"`
	TradeDate  *time.Time      `json:"tradeDate"`
}

// BookResult 簿记成功的回执。
type BookResult struct {
	TradeID uint64 `json:"tradeId"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// DTO 带盈亏的交易视图。
type DTO struct {
	ID           uint64          `json:"id"`
	ProductID    uint64          `json:"productId"`
	ProductName  string          `json:"productName,omitempty"`
	TradeType    string          `json:"tradeType"`
	Notional     decimal.Decimal `json:"notional"`
	EntryPrice   decimal.Decimal `json:"entryPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	Status       Status          `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	PnL          decimal.Decimal `json:"pnl"`
	TradeDate    time.Time       `json:"tradeDate"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// NewDTO 由交易实体构造视图。
func NewDTO(t *Trade) *DTO {
	dto := &DTO{
		ID:           t.ID,
		ProductID:    t.ProductID,
		TradeType:    t.TradeType,
		Notional:     t.Notional,
		EntryPrice:   t.EntryPrice,
		CurrentPrice: t.CurrentPrice,
		Status:       t.Status,
		Notes:        t.Notes,
		PnL:          t.PnL(),
		TradeDate:    t.TradeDate,
		CreatedAt:    t.CreatedAt,
	}
	if t.Product != nil {
		dto.ProductName = t.Product.Name
	}
	return dto
}

// Service 交易服务。
type Service struct {
	repo     Store
	products ProductStore
	recorder ActivityRecorder
	logger   *logging.Logger
	now      func() time.Time
}

// NewService 创建交易服务。
func NewService(repo Store, products ProductStore, recorder ActivityRecorder, logger *logging.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Book 簿记一笔新交易：现价初始化为入场价，状态为 BOOKED。
func (s *Service) Book(ctx context.Context, userID uint64, username string, req BookRequest) (*BookResult, error) {
	if req.Notional.Sign() <= 0 {
		return nil, xerrors.InvalidArg("notional must be positive")
	}
	if req.EntryPrice.Sign() <= 0 {
		return nil, xerrors.InvalidArg("entry price must be positive")
	}
	if s.products != nil {
		ok, err := s.products.Exists(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, xerrors.NotFound("product not found")
		}
	}

	tradeDate := s.now()
	if req.TradeDate != nil {
		tradeDate = *req.TradeDate
	}
	t := &Trade{
		ProductID:    req.ProductID,
		UserID:       userID,
		TradeType:    req.TradeType,
		Notional:     req.Notional,
		EntryPrice:   req.EntryPrice,
		CurrentPrice: req.EntryPrice,
		Status:       StatusBooked,
		Notes:        req.Notes,
		TradeDate:    tradeDate,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "trade booked",
		"trade_id", t.ID, "product_id", t.ProductID, "type", t.TradeType, "user_id", userID)
	s.record(ctx, username, EventBooked,
		fmt.Sprintf("Booked %s trade on product %d", req.TradeType, req.ProductID), t.ID)
	return &BookResult{
		TradeID: t.ID,
		Status:  t.Status,
		Message: "Trade booked successfully",
	}, nil
}

// List 返回用户自己的全部交易，带实时盈亏。
func (s *Service) List(ctx context.Context, userID uint64) ([]*DTO, error) {
	trades, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*DTO, 0, len(trades))
	for _, t := range trades {
		out = append(out, NewDTO(t))
	}
	return out, nil
}

// Get 返回单笔交易，仅交易的所有者可见。
func (s *Service) Get(ctx context.Context, userID, id uint64) (*DTO, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, xerrors.PermissionDenied("access denied to this trade")
	}
	return NewDTO(t), nil
}

// UpdateStatus 更新交易状态，仅所有者可操作。
func (s *Service) UpdateStatus(ctx context.Context, userID uint64, username string, id uint64, raw string) (*DTO, error) {
	status, err := ParseStatus(raw)
	if err != nil {
		return nil, xerrors.InvalidArg(err.Error())
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, xerrors.PermissionDenied("access denied to this trade")
	}

	old := t.Status
	t.Status = status
	t.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.record(ctx, username, EventStatusChanged,
		fmt.Sprintf("Trade %d status: %s -> %s", t.ID, old, status), t.ID)
	return NewDTO(t), nil
}

func (s *Service) record(ctx context.Context, username, event, message string, entityID uint64) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, username, event, message, entityType, entityID)
}
