package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of a simulated order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusExpired   OrderStatus = "expired"
)

// Order is a simulated position attempt against one market window.
// Orders are created OPEN and mutated only by Fill and Cancel;
// they are never deleted, only retained for history.
type Order struct {
	ID              string         `json:"id"`
	Variant         string         `json:"variant"`
	Family          StrategyFamily `json:"family"`
	Asset           Asset          `json:"asset"`
	MarketSlug      string         `json:"market_slug"`
	Side            Outcome        `json:"side"`
	Price           float64        `json:"price"`       // best bid observed at creation
	LimitPrice      float64        `json:"limit_price"` // = Price; second-chance fills trigger at or below this
	Size            float64        `json:"size"`        // shares requested
	FilledSize      float64        `json:"filled_size"`
	Status          OrderStatus    `json:"status"`
	MarketStartTime int64          `json:"market_start_time"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// NewOrder creates an OPEN order for the given variant and window side.
func NewOrder(v Variant, asset Asset, window MarketWindow, side Outcome, price, size float64, now time.Time) *Order {
	return &Order{
		ID:              uuid.NewString(),
		Variant:         v.Name,
		Family:          v.Family,
		Asset:           asset,
		MarketSlug:      window.Slug,
		Side:            side,
		Price:           price,
		LimitPrice:      price,
		Size:            size,
		Status:          OrderStatusOpen,
		MarketStartTime: window.StartTime,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Fill adds size to the order, capping at the requested size.
// The order becomes FILLED once the full size is reached.
func (o *Order) Fill(size float64, now time.Time) {
	o.FilledSize += size
	if o.FilledSize > o.Size {
		o.FilledSize = o.Size
	}
	if o.FilledSize >= o.Size {
		o.Status = OrderStatusFilled
	}
	o.UpdatedAt = now
}

// Cancel marks the order cancelled. Terminal.
func (o *Order) Cancel(now time.Time) {
	o.Status = OrderStatusCancelled
	o.UpdatedAt = now
}

// IsOpenUnfilled reports whether the order is still eligible for a fill.
func (o *Order) IsOpenUnfilled() bool {
	return o.Status == OrderStatusOpen && o.FilledSize == 0
}
