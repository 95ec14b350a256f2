package engine

import (
	"context"
	"log/slog"

	"github.com/adelgadoc/updownbot/internal/domain"
	"github.com/adelgadoc/updownbot/internal/tracker"
)

// checkResolutions settles pending trades whose market has closed.
// Lookups are throttled per market slug, independent of how many trades
// share the market. Markets whose outcome is not yet published are
// retried indefinitely on the same throttle.
func (e *Engine) checkResolutions(ctx context.Context) {
	now := e.now()

	e.mu.Lock()
	pending := make(map[string][]*domain.Trade)
	for _, t := range e.trades {
		if t.Result == domain.TradeResultPending {
			pending[t.MarketSlug] = append(pending[t.MarketSlug], t)
		}
	}
	e.mu.Unlock()

	for slug, trades := range pending {
		endTime, ok := e.windowEndTime(slug)
		if !ok {
			continue
		}
		if now.Unix() <= endTime {
			continue
		}

		e.mu.Lock()
		last := e.lastCheck[slug]
		if now.Sub(last) < e.cfg.ResolutionThrottle {
			e.mu.Unlock()
			continue
		}
		e.lastCheck[slug] = now
		e.mu.Unlock()

		winner, found := e.tracker.ResolveOutcome(ctx, slug)
		if !found {
			slog.Debug("market not resolved yet", "asset", e.asset, "slug", slug)
			continue
		}

		for _, t := range trades {
			e.mu.Lock()
			t.Resolve(winner, now)
			snap := *t
			e.mu.Unlock()

			slog.Info("trade resolved", "asset", e.asset, "variant", snap.Variant,
				"result", snap.Result, "pnl", snap.PnL)
			e.journalTrade(ctx, snap)
			if e.notifier != nil {
				e.notifier.TradeResolved(snap)
			}
		}
	}
}

// windowEndTime resolves a market's close time from the catalog when the
// window is still tracked, falling back to the slug's trailing timestamp
// for windows that rolled out of the tracked range.
func (e *Engine) windowEndTime(slug string) (int64, bool) {
	if w, ok := e.tracker.BySlug(slug); ok {
		return w.EndTime, true
	}
	start, ok := tracker.StartTimeFromSlug(slug)
	if !ok {
		return 0, false
	}
	return start + domain.WindowDuration, true
}
