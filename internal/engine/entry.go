package engine

import (
	"context"
	"log/slog"

	"github.com/adelgadoc/updownbot/internal/domain"
)

// evaluateEntries checks every variant's entry condition against the
// tracked window's current best bids. Each variant places at most one
// order per window; the processed set enforces that across cycles.
func (e *Engine) evaluateEntries(ctx context.Context, window domain.MarketWindow) {
	upPrice, upOK := e.bestBid(ctx, window.UpTokenID)
	downPrice, downOK := e.bestBid(ctx, window.DownTokenID)
	if !upOK || !downOK {
		// Missing book means no data this cycle, not an error.
		slog.Debug("no prices for window", "asset", e.asset, "slug", window.Slug)
		return
	}

	slog.Debug("entry prices", "asset", e.asset, "slug", window.Slug,
		"up", upPrice, "down", downPrice)

	for _, v := range e.cfg.Variants {
		if e.variantProcessed(window.Slug, v.Name) {
			continue
		}
		switch v.Family {
		case domain.FamilyBuyLow:
			if upPrice <= v.Threshold {
				e.placeOrder(ctx, v, window, domain.OutcomeUp, upPrice)
			} else if downPrice <= v.Threshold {
				e.placeOrder(ctx, v, window, domain.OutcomeDown, downPrice)
			}
		case domain.FamilyBuyHigh:
			if upPrice >= v.Threshold {
				e.placeOrder(ctx, v, window, domain.OutcomeUp, upPrice)
			} else if downPrice >= v.Threshold {
				e.placeOrder(ctx, v, window, domain.OutcomeDown, downPrice)
			}
		}
	}
}

// checkSecondChance fills open orders of the tracked window whose side
// has since traded at or below the order's limit price. The fill happens
// at the limit, not the current price.
func (e *Engine) checkSecondChance(ctx context.Context, window domain.MarketWindow) {
	for _, o := range e.openOrdersForWindow(window.Slug) {
		price, ok := e.bestBid(ctx, window.TokenID(o.Side))
		if !ok {
			continue
		}
		if price > o.LimitPrice {
			continue
		}
		e.fillOrder(ctx, o, true)
	}
}

// cancelUnfilled cancels every still-open, zero-filled order of the
// tracked window once its entry opportunity has closed.
func (e *Engine) cancelUnfilled(ctx context.Context, window domain.MarketWindow) {
	now := e.now()
	e.mu.Lock()
	var cancelled []domain.Order
	for _, o := range e.orders {
		if o.MarketSlug != window.Slug || !o.IsOpenUnfilled() {
			continue
		}
		o.Cancel(now)
		cancelled = append(cancelled, *o)
	}
	e.mu.Unlock()

	for _, o := range cancelled {
		slog.Info("order cancelled, entry window closed",
			"asset", e.asset, "variant", o.Variant, "side", o.Side)
		e.journalOrder(ctx, o)
		if e.notifier != nil {
			e.notifier.OrderCancelled(o)
		}
	}
}

// placeOrder opens a simulated order and marks the variant processed
// for this window.
func (e *Engine) placeOrder(ctx context.Context, v domain.Variant, window domain.MarketWindow, side domain.Outcome, price float64) {
	order := domain.NewOrder(v, e.asset, window, side, price, e.cfg.OrderSize, e.now())

	e.mu.Lock()
	e.orders[order.ID] = order
	set, ok := e.processed[window.Slug]
	if !ok {
		set = make(map[string]struct{})
		e.processed[window.Slug] = set
	}
	set[v.Name] = struct{}{}
	snapshot := *order
	e.mu.Unlock()

	slog.Info("order placed", "asset", e.asset, "variant", v.Name,
		"side", side, "price", price, "slug", window.Slug)
	e.journalOrder(ctx, snapshot)
	if e.notifier != nil {
		e.notifier.OrderPlaced(snapshot)
	}
}

// variantProcessed reports whether the variant already placed an order
// for this window.
func (e *Engine) variantProcessed(slug, variant string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	set, ok := e.processed[slug]
	if !ok {
		return false
	}
	_, done := set[variant]
	return done
}

// openOrdersForWindow snapshots the window's open, zero-filled orders.
func (e *Engine) openOrdersForWindow(slug string) []*domain.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*domain.Order
	for _, o := range e.orders {
		if o.MarketSlug == slug && o.IsOpenUnfilled() {
			out = append(out, o)
		}
	}
	return out
}

// bestBid fetches a side's highest bid, treating provider errors and
// empty books alike as "no price this cycle".
func (e *Engine) bestBid(ctx context.Context, tokenID string) (float64, bool) {
	price, found, err := e.books.BestBid(ctx, tokenID)
	if err != nil {
		slog.Debug("best bid fetch failed", "asset", e.asset, "err", err)
		return 0, false
	}
	return price, found
}
