package engine

import (
	"sort"
	"time"

	"github.com/adelgadoc/updownbot/internal/domain"
)

// Status is a point-in-time snapshot of one engine's counters.
type Status struct {
	Asset            domain.Asset `json:"asset"`
	Running          bool         `json:"running"`
	StartedAt        *time.Time   `json:"started_at,omitempty"`
	OrdersCount      int          `json:"orders_count"`
	TradesCount      int          `json:"trades_count"`
	ProcessedWindows int          `json:"processed_windows"`
	TotalPnL         float64      `json:"total_pnl"`
	TotalInvested    float64      `json:"total_invested"`
}

// Orders returns a copy of the order history, newest-first.
// limit <= 0 returns everything past the offset.
func (e *Engine) Orders(limit, offset int) []domain.Order {
	e.mu.Lock()
	out := make([]domain.Order, 0, len(e.orders))
	for _, o := range e.orders {
		out = append(out, *o)
	}
	e.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, limit, offset)
}

// Trades returns a copy of the trade history, newest entry first.
// family "" means all families; limit <= 0 returns everything past the offset.
func (e *Engine) Trades(family domain.StrategyFamily, limit, offset int) []domain.Trade {
	e.mu.Lock()
	out := make([]domain.Trade, 0, len(e.trades))
	for _, t := range e.trades {
		if family != "" && t.Family != family {
			continue
		}
		out = append(out, *t)
	}
	e.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].EntryTime.After(out[j].EntryTime)
	})
	return paginate(out, limit, offset)
}

// VariantMetrics derives per-variant aggregates over the trade set.
// Every catalog variant is reported, including ones without trades yet.
func (e *Engine) VariantMetrics() []domain.VariantMetrics {
	byName := make(map[string]*domain.VariantMetrics, len(e.cfg.Variants))
	out := make([]domain.VariantMetrics, len(e.cfg.Variants))
	for i, v := range e.cfg.Variants {
		out[i] = domain.VariantMetrics{VariantName: v.Name, Threshold: v.Threshold, Asset: e.asset}
		byName[v.Name] = &out[i]
	}

	e.mu.Lock()
	for _, t := range e.trades {
		m, ok := byName[t.Variant]
		if !ok {
			continue
		}
		accumulateVariant(m, t)
	}
	e.mu.Unlock()
	return out
}

// FamilyMetrics derives aggregates for one strategy family.
func (e *Engine) FamilyMetrics(family domain.StrategyFamily) domain.FamilyMetrics {
	m := domain.FamilyMetrics{Family: family, Asset: e.asset}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.trades {
		if t.Family != family {
			continue
		}
		m.TotalTrades++
		m.TotalInvested += t.Invested
		switch t.Result {
		case domain.TradeResultWin:
			m.Wins++
			m.TotalPnL += t.PnL
		case domain.TradeResultLoss:
			m.Losses++
			m.TotalPnL += t.PnL
		default:
			m.Pending++
		}
	}
	return m
}

// Status snapshots the engine's counters, pnl and volume.
func (e *Engine) Status() Status {
	st := Status{
		Asset:   e.asset,
		Running: e.IsRunning(),
	}
	if started := e.StartedAt(); !started.IsZero() {
		st.StartedAt = &started
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	st.OrdersCount = len(e.orders)
	st.TradesCount = len(e.trades)
	st.ProcessedWindows = len(e.processed)
	for _, t := range e.trades {
		st.TotalPnL += t.PnL
		st.TotalInvested += t.Invested
	}
	return st
}

// accumulateVariant folds one trade into a variant's aggregates.
func accumulateVariant(m *domain.VariantMetrics, t *domain.Trade) {
	m.TotalTrades++
	m.TotalInvested += t.Invested
	switch t.Result {
	case domain.TradeResultWin:
		m.Wins++
		m.TotalPnL += t.PnL
	case domain.TradeResultLoss:
		m.Losses++
		m.TotalPnL += t.PnL
	default:
		m.Pending++
	}
}

// paginate slices out [offset, offset+limit); limit <= 0 means no cap.
func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
