package engine

import (
	"context"
	"log/slog"

	"github.com/adelgadoc/updownbot/internal/domain"
)

// simulateFills runs one Bernoulli trial per open, zero-filled order.
// An order can survive many cycles unfilled; the first successful draw
// fills it for the full requested size. Orders filled by the
// second-chance path earlier in the cycle are no longer open and are
// naturally excluded.
func (e *Engine) simulateFills(ctx context.Context) {
	e.mu.Lock()
	var candidates []*domain.Order
	for _, o := range e.orders {
		if o.IsOpenUnfilled() {
			candidates = append(candidates, o)
		}
	}
	e.mu.Unlock()

	for _, o := range candidates {
		if e.randF() >= e.cfg.FillProbability {
			continue
		}
		e.fillOrder(ctx, o, false)
	}
}

// fillOrder commits a full fill and emits the resulting trade. The
// zero-filled re-check under the lock keeps the two fill paths mutually
// exclusive within one cycle.
func (e *Engine) fillOrder(ctx context.Context, o *domain.Order, secondChance bool) {
	now := e.now()

	e.mu.Lock()
	if !o.IsOpenUnfilled() {
		e.mu.Unlock()
		return
	}
	o.Fill(o.Size, now)
	trade := domain.TradeFromOrder(o)
	e.trades = append(e.trades, trade)
	orderSnap, tradeSnap := *o, *trade
	e.mu.Unlock()

	slog.Info("order filled", "asset", e.asset, "variant", orderSnap.Variant,
		"side", orderSnap.Side, "price", orderSnap.LimitPrice, "second_chance", secondChance)
	e.journalOrder(ctx, orderSnap)
	e.journalTrade(ctx, tradeSnap)
	if e.notifier != nil {
		e.notifier.OrderFilled(orderSnap, secondChance)
	}
}

// journalOrder writes through to the journal, if one is configured.
func (e *Engine) journalOrder(ctx context.Context, o domain.Order) {
	if e.journal == nil {
		return
	}
	if err := e.journal.SaveOrder(ctx, o); err != nil {
		slog.Warn("journal order write failed", "asset", e.asset, "err", err)
	}
}

// journalTrade writes through to the journal, if one is configured.
func (e *Engine) journalTrade(ctx context.Context, t domain.Trade) {
	if e.journal == nil {
		return
	}
	if err := e.journal.SaveTrade(ctx, t); err != nil {
		slog.Warn("journal trade write failed", "asset", e.asset, "err", err)
	}
}
