package domain

// VariantMetrics aggregates the trade history of one strategy variant.
// Derived on read, never stored.
type VariantMetrics struct {
	VariantName   string  `json:"variant"`
	Threshold     float64 `json:"threshold"`
	Asset         Asset   `json:"asset,omitempty"` // empty = aggregate across assets
	TotalTrades   int     `json:"total_trades"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Pending       int     `json:"pending"`
	TotalPnL      float64 `json:"total_pnl"`
	TotalInvested float64 `json:"total_invested"` // aka trading volume
}

// WinRate is wins over completed trades as a percentage. 0 with no completions.
func (m VariantMetrics) WinRate() float64 {
	completed := m.Wins + m.Losses
	if completed == 0 {
		return 0
	}
	return float64(m.Wins) / float64(completed) * 100
}

// ROI is total pnl over total invested as a percentage. 0 with no volume.
func (m VariantMetrics) ROI() float64 {
	if m.TotalInvested == 0 {
		return 0
	}
	return m.TotalPnL / m.TotalInvested * 100
}

// FamilyMetrics aggregates the trade history of one strategy family.
type FamilyMetrics struct {
	Family        StrategyFamily `json:"family"`
	Asset         Asset          `json:"asset,omitempty"`
	TotalTrades   int            `json:"total_trades"`
	Wins          int            `json:"wins"`
	Losses        int            `json:"losses"`
	Pending       int            `json:"pending"`
	TotalPnL      float64        `json:"total_pnl"`
	TotalInvested float64        `json:"total_invested"`
}

// WinRate is wins over completed trades as a percentage.
func (m FamilyMetrics) WinRate() float64 {
	completed := m.Wins + m.Losses
	if completed == 0 {
		return 0
	}
	return float64(m.Wins) / float64(completed) * 100
}

// ROI is total pnl over total invested as a percentage.
func (m FamilyMetrics) ROI() float64 {
	if m.TotalInvested == 0 {
		return 0
	}
	return m.TotalPnL / m.TotalInvested * 100
}

// AggregateMetrics combines everything across assets and variants.
type AggregateMetrics struct {
	TotalTrades   int     `json:"total_trades"`
	TotalPnL      float64 `json:"total_pnl"`
	TotalInvested float64 `json:"total_invested"`
	AssetsRunning int     `json:"assets_running"`
	AssetsEnabled int     `json:"assets_enabled"`
}

// ROI is total pnl over total invested as a percentage.
func (m AggregateMetrics) ROI() float64 {
	if m.TotalInvested == 0 {
		return 0
	}
	return m.TotalPnL / m.TotalInvested * 100
}
