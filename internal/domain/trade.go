package domain

import (
	"time"

	"github.com/google/uuid"
)

// TradeResult is the resolution state of a filled position.
type TradeResult string

const (
	TradeResultPending TradeResult = "pending"
	TradeResultWin     TradeResult = "win"
	TradeResultLoss    TradeResult = "loss"
)

// Trade records the outcome of a filled order. Result and PnL are set
// together, exactly once, by Resolve.
type Trade struct {
	ID              string         `json:"id"`
	OrderID         string         `json:"order_id"`
	Variant         string         `json:"variant"`
	Family          StrategyFamily `json:"family"`
	Asset           Asset          `json:"asset"`
	MarketSlug      string         `json:"market_slug"`
	Side            Outcome        `json:"side"`
	EntryPrice      float64        `json:"entry_price"`
	Size            float64        `json:"size"`
	FilledSize      float64        `json:"filled_size"`
	Invested        float64        `json:"invested"` // FilledSize * EntryPrice
	MarketStartTime int64          `json:"market_start_time"`
	EntryTime       time.Time      `json:"entry_time"`
	ResolutionTime  *time.Time     `json:"resolution_time,omitempty"`
	Result          TradeResult    `json:"result"`
	PnL             float64        `json:"pnl"`
}

// TradeFromOrder creates a pending trade the moment an order becomes FILLED.
func TradeFromOrder(o *Order) *Trade {
	return &Trade{
		ID:              uuid.NewString(),
		OrderID:         o.ID,
		Variant:         o.Variant,
		Family:          o.Family,
		Asset:           o.Asset,
		MarketSlug:      o.MarketSlug,
		Side:            o.Side,
		EntryPrice:      o.LimitPrice,
		Size:            o.Size,
		FilledSize:      o.FilledSize,
		Invested:        o.FilledSize * o.LimitPrice,
		MarketStartTime: o.MarketStartTime,
		EntryTime:       o.UpdatedAt,
		Result:          TradeResultPending,
	}
}

// Resolve settles the trade against the market's winning side.
// Win pays size*(1-entry); loss forfeits size*entry. No-op once resolved.
func (t *Trade) Resolve(winner Outcome, now time.Time) {
	if t.Result != TradeResultPending {
		return
	}
	resolvedAt := now
	t.ResolutionTime = &resolvedAt
	if t.Side == winner {
		t.PnL = t.Size * (1.0 - t.EntryPrice)
		t.Result = TradeResultWin
	} else {
		t.PnL = -t.Size * t.EntryPrice
		t.Result = TradeResultLoss
	}
}
