package engine

import (
	"context"
	"sort"

	"github.com/adelgadoc/updownbot/internal/domain"
	"github.com/adelgadoc/updownbot/internal/ports"
	"github.com/adelgadoc/updownbot/internal/tracker"
)

// Registry constructs and owns one Engine per asset. All cross-asset
// queries fan out through the engines' accessors; the registry never
// touches an engine's internals.
type Registry struct {
	cfg     Config
	engines map[domain.Asset]*Engine
	enabled map[domain.Asset]bool
}

// RegistryStatus aggregates per-engine status with the global counters.
type RegistryStatus struct {
	Assets    map[domain.Asset]Status `json:"assets"`
	Aggregate domain.AggregateMetrics `json:"aggregate"`
}

// NewRegistry builds one engine per supported asset.
func NewRegistry(cfg Config, trk *tracker.Tracker, books ports.BookProvider, journal ports.Journal, notifier ports.Notifier, enabled map[domain.Asset]bool) *Registry {
	r := &Registry{
		cfg:     cfg,
		engines: make(map[domain.Asset]*Engine, len(domain.Assets())),
		enabled: enabled,
	}
	for _, a := range domain.Assets() {
		r.engines[a] = New(a, cfg, trk, books, journal, notifier)
	}
	return r
}

// Config returns the strategy configuration shared by all engines.
func (r *Registry) Config() Config {
	return r.cfg
}

// Engine returns the engine owning the given asset.
func (r *Registry) Engine(asset domain.Asset) *Engine {
	return r.engines[asset]
}

// Enabled reports whether the asset is enabled in configuration.
func (r *Registry) Enabled(asset domain.Asset) bool {
	return r.enabled[asset]
}

// Start launches one asset's engine. No-op if already running.
func (r *Registry) Start(ctx context.Context, asset domain.Asset) {
	r.engines[asset].Start(ctx)
}

// Stop flushes one asset's engine. No-op if already stopped.
func (r *Registry) Stop(asset domain.Asset) {
	r.engines[asset].Stop()
}

// StartAll launches every enabled asset's engine.
func (r *Registry) StartAll(ctx context.Context) {
	for _, a := range domain.Assets() {
		if r.enabled[a] {
			r.engines[a].Start(ctx)
		}
	}
}

// StopAll stops every engine and waits for each loop to flush.
func (r *Registry) StopAll() {
	for _, a := range domain.Assets() {
		r.engines[a].Stop()
	}
}

// Orders returns order history newest-first. asset "" spans all assets.
func (r *Registry) Orders(asset domain.Asset, limit, offset int) []domain.Order {
	if asset != "" {
		return r.engines[asset].Orders(limit, offset)
	}
	var all []domain.Order
	for _, a := range domain.Assets() {
		all = append(all, r.engines[a].Orders(0, 0)...)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return paginate(all, limit, offset)
}

// Trades returns trade history newest entry first. asset "" spans all
// assets; family "" spans both families.
func (r *Registry) Trades(asset domain.Asset, family domain.StrategyFamily, limit, offset int) []domain.Trade {
	if asset != "" {
		return r.engines[asset].Trades(family, limit, offset)
	}
	var all []domain.Trade
	for _, a := range domain.Assets() {
		all = append(all, r.engines[a].Trades(family, 0, 0)...)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].EntryTime.After(all[j].EntryTime)
	})
	return paginate(all, limit, offset)
}

// VariantMetrics derives per-variant aggregates. asset "" merges the
// same variant across every asset into one row.
func (r *Registry) VariantMetrics(asset domain.Asset) []domain.VariantMetrics {
	if asset != "" {
		return r.engines[asset].VariantMetrics()
	}

	var order []string
	merged := make(map[string]*domain.VariantMetrics)
	for _, a := range domain.Assets() {
		for _, m := range r.engines[a].VariantMetrics() {
			agg, ok := merged[m.VariantName]
			if !ok {
				order = append(order, m.VariantName)
				agg = &domain.VariantMetrics{VariantName: m.VariantName, Threshold: m.Threshold}
				merged[m.VariantName] = agg
			}
			agg.TotalTrades += m.TotalTrades
			agg.Wins += m.Wins
			agg.Losses += m.Losses
			agg.Pending += m.Pending
			agg.TotalPnL += m.TotalPnL
			agg.TotalInvested += m.TotalInvested
		}
	}

	out := make([]domain.VariantMetrics, 0, len(order))
	for _, name := range order {
		out = append(out, *merged[name])
	}
	return out
}

// FamilyMetrics derives one family's aggregates for one asset.
func (r *Registry) FamilyMetrics(asset domain.Asset, family domain.StrategyFamily) domain.FamilyMetrics {
	return r.engines[asset].FamilyMetrics(family)
}

// Aggregate combines pnl and volume across every asset and family.
func (r *Registry) Aggregate() domain.AggregateMetrics {
	var agg domain.AggregateMetrics
	for _, a := range domain.Assets() {
		st := r.engines[a].Status()
		agg.TotalTrades += st.TradesCount
		agg.TotalPnL += st.TotalPnL
		agg.TotalInvested += st.TotalInvested
		if st.Running {
			agg.AssetsRunning++
		}
		if r.enabled[a] {
			agg.AssetsEnabled++
		}
	}
	return agg
}

// LastTrades returns the most recent trades across all assets. With
// winningOnly, only trades whose variant has net positive aggregate pnl
// at query time are kept; the classification is derived, not stored.
func (r *Registry) LastTrades(limit int, winningOnly bool) []domain.Trade {
	trades := r.Trades("", "", 0, 0)
	if !winningOnly {
		return paginate(trades, limit, 0)
	}

	winning := make(map[string]bool)
	for _, m := range r.VariantMetrics("") {
		winning[m.VariantName] = m.TotalPnL > 0
	}

	out := make([]domain.Trade, 0, limit)
	for _, t := range trades {
		if !winning[t.Variant] {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Status snapshots every engine plus the aggregate.
func (r *Registry) Status() RegistryStatus {
	st := RegistryStatus{
		Assets:    make(map[domain.Asset]Status, len(r.engines)),
		Aggregate: r.Aggregate(),
	}
	for _, a := range domain.Assets() {
		st.Assets[a] = r.engines[a].Status()
	}
	return st
}
