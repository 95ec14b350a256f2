package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelgadoc/updownbot/internal/domain"
)

func TestNewVariant_CanonicalNames(t *testing.T) {
	cases := []struct {
		family    domain.StrategyFamily
		threshold float64
		want      string
	}{
		{domain.FamilyBuyLow, 0.49, "buy_low_49"},
		{domain.FamilyBuyLow, 0.46, "buy_low_46"},
		{domain.FamilyBuyHigh, 0.51, "buy_high_51"},
		{domain.FamilyBuyHigh, 0.54, "buy_high_54"},
	}
	for _, tc := range cases {
		v := domain.NewVariant(tc.family, tc.threshold)
		assert.Equal(t, tc.want, v.Name)
		assert.Equal(t, tc.threshold, v.Threshold)
	}
}

func TestDefaultVariants_FullCatalog(t *testing.T) {
	variants := domain.DefaultVariants(
		[]float64{0.49, 0.48, 0.47, 0.46},
		[]float64{0.51, 0.52, 0.53, 0.54},
	)
	require.Len(t, variants, 8)
	assert.Equal(t, "buy_low_49", variants[0].Name)
	assert.Equal(t, "buy_high_54", variants[7].Name)
}

func TestOrder_FillTransitions(t *testing.T) {
	v := domain.NewVariant(domain.FamilyBuyLow, 0.46)
	window := domain.MarketWindow{Slug: "btc-updown-15m-900", StartTime: 900, EndTime: 1800}
	now := time.Unix(100, 0)

	o := domain.NewOrder(v, domain.AssetBTC, window, domain.OutcomeUp, 0.45, 10, now)
	assert.Equal(t, domain.OrderStatusOpen, o.Status)
	assert.Equal(t, o.Price, o.LimitPrice)
	assert.True(t, o.IsOpenUnfilled())

	o.Fill(10, now.Add(time.Second))
	assert.Equal(t, domain.OrderStatusFilled, o.Status)
	assert.Equal(t, 10.0, o.FilledSize)
	assert.False(t, o.IsOpenUnfilled())

	// Overfilling caps at the requested size.
	o2 := domain.NewOrder(v, domain.AssetBTC, window, domain.OutcomeUp, 0.45, 10, now)
	o2.Fill(25, now)
	assert.Equal(t, 10.0, o2.FilledSize)
}

func TestTrade_ResolveWinAndLoss(t *testing.T) {
	v := domain.NewVariant(domain.FamilyBuyLow, 0.46)
	window := domain.MarketWindow{Slug: "btc-updown-15m-900", StartTime: 900, EndTime: 1800}
	now := time.Unix(100, 0)

	o := domain.NewOrder(v, domain.AssetBTC, window, domain.OutcomeUp, 0.45, 10, now)
	o.Fill(10, now)

	trade := domain.TradeFromOrder(o)
	assert.Equal(t, domain.TradeResultPending, trade.Result)
	assert.InDelta(t, 4.5, trade.Invested, 1e-9)

	trade.Resolve(domain.OutcomeUp, now.Add(time.Hour))
	assert.Equal(t, domain.TradeResultWin, trade.Result)
	assert.InDelta(t, 10*(1.0-0.45), trade.PnL, 1e-9)
	require.NotNil(t, trade.ResolutionTime)

	// Resolving again is a no-op.
	trade.Resolve(domain.OutcomeDown, now.Add(2*time.Hour))
	assert.Equal(t, domain.TradeResultWin, trade.Result)

	loser := domain.TradeFromOrder(o)
	loser.Resolve(domain.OutcomeDown, now)
	assert.Equal(t, domain.TradeResultLoss, loser.Result)
	assert.InDelta(t, -4.5, loser.PnL, 1e-9)
}

func TestMarketWindow_Countdowns(t *testing.T) {
	w := domain.MarketWindow{StartTime: 1000, EndTime: 1900}

	assert.Equal(t, int64(400), w.CountdownToActive(time.Unix(600, 0)))
	assert.Equal(t, int64(0), w.CountdownToActive(time.Unix(1200, 0)), "floored at zero once open")
	assert.Equal(t, int64(700), w.CountdownToEnd(time.Unix(1200, 0)))

	assert.False(t, w.Contains(time.Unix(999, 0)))
	assert.True(t, w.Contains(time.Unix(1000, 0)))
	assert.False(t, w.Contains(time.Unix(1900, 0)), "end is exclusive")
}
