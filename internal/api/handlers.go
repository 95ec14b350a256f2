package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adelgadoc/updownbot/internal/domain"
)

// parseAssetParam validates the :asset path parameter, answering 400 on
// anything outside the supported set.
func parseAssetParam(c *gin.Context) (domain.Asset, bool) {
	asset, ok := domain.ParseAsset(c.Param("asset"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "unknown asset: " + c.Param("asset"),
		})
		return "", false
	}
	return asset, true
}

// parseAssetQuery validates the optional ?asset= query parameter.
// Empty means all assets.
func parseAssetQuery(c *gin.Context) (domain.Asset, bool) {
	raw := c.Query("asset")
	if raw == "" {
		return "", true
	}
	asset, ok := domain.ParseAsset(raw)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "unknown asset: " + raw,
		})
		return "", false
	}
	return asset, true
}

// parseFamilyQuery validates the optional ?family= query parameter.
func parseFamilyQuery(c *gin.Context) (domain.StrategyFamily, bool) {
	raw := c.Query("family")
	if raw == "" {
		return "", true
	}
	family, ok := domain.ParseFamily(raw)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "unknown family: " + raw,
		})
		return "", false
	}
	return family, true
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func (s *server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Registry.Status())
}

func (s *server) getAssets(c *gin.Context) {
	type assetInfo struct {
		Asset       domain.Asset `json:"asset"`
		DisplayName string       `json:"display_name"`
		Enabled     bool         `json:"enabled"`
		Running     bool         `json:"running"`
	}
	out := make([]assetInfo, 0, len(domain.Assets()))
	for _, a := range domain.Assets() {
		out = append(out, assetInfo{
			Asset:       a,
			DisplayName: a.DisplayName(),
			Enabled:     s.deps.Registry.Enabled(a),
			Running:     s.deps.Registry.Engine(a).IsRunning(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"assets": out})
}

func (s *server) startAsset(c *gin.Context) {
	asset, ok := parseAssetParam(c)
	if !ok {
		return
	}
	s.deps.Registry.Start(s.deps.BaseCtx, asset)
	c.JSON(http.StatusOK, gin.H{"asset": asset, "running": true})
}

func (s *server) stopAsset(c *gin.Context) {
	asset, ok := parseAssetParam(c)
	if !ok {
		return
	}
	s.deps.Registry.Stop(asset)
	c.JSON(http.StatusOK, gin.H{"asset": asset, "running": false})
}

func (s *server) startAll(c *gin.Context) {
	s.deps.Registry.StartAll(s.deps.BaseCtx)
	c.JSON(http.StatusOK, s.deps.Registry.Status())
}

func (s *server) stopAll(c *gin.Context) {
	s.deps.Registry.StopAll()
	c.JSON(http.StatusOK, s.deps.Registry.Status())
}

func (s *server) getOrders(c *gin.Context) {
	asset, ok := parseAssetQuery(c)
	if !ok {
		return
	}
	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)
	orders := s.deps.Registry.Orders(asset, limit, offset)
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

func (s *server) getTrades(c *gin.Context) {
	asset, ok := parseAssetQuery(c)
	if !ok {
		return
	}
	family, ok := parseFamilyQuery(c)
	if !ok {
		return
	}
	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)
	trades := s.deps.Registry.Trades(asset, family, limit, offset)
	c.JSON(http.StatusOK, gin.H{"trades": trades, "count": len(trades)})
}

func (s *server) getLastTrades(c *gin.Context) {
	limit := intQuery(c, "limit", 10)
	winningOnly := c.Query("winning_only") == "true"
	trades := s.deps.Registry.LastTrades(limit, winningOnly)
	c.JSON(http.StatusOK, gin.H{"trades": trades, "count": len(trades)})
}

func (s *server) getMetrics(c *gin.Context) {
	asset, ok := parseAssetQuery(c)
	if !ok {
		return
	}
	assets := domain.Assets()
	if asset != "" {
		assets = []domain.Asset{asset}
	}

	families := make(map[domain.Asset]familyPair, len(assets))
	for _, a := range assets {
		families[a] = familyPair{
			BuyLow:  newFamilyView(s.deps.Registry.FamilyMetrics(a, domain.FamilyBuyLow)),
			BuyHigh: newFamilyView(s.deps.Registry.FamilyMetrics(a, domain.FamilyBuyHigh)),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"aggregate": s.aggregatePayload(asset, families[asset]),
		"families":  families,
	})
}

// aggregatePayload sums the metrics over every asset, or over the two
// families of a single requested asset.
func (s *server) aggregatePayload(asset domain.Asset, pair familyPair) gin.H {
	if asset == "" {
		agg := s.deps.Registry.Aggregate()
		return gin.H{
			"total_trades":   agg.TotalTrades,
			"total_pnl":      agg.TotalPnL,
			"total_invested": agg.TotalInvested,
			"roi":            agg.ROI(),
			"assets_running": agg.AssetsRunning,
			"assets_enabled": agg.AssetsEnabled,
		}
	}

	total := domain.AggregateMetrics{
		TotalTrades:   pair.BuyLow.TotalTrades + pair.BuyHigh.TotalTrades,
		TotalPnL:      pair.BuyLow.TotalPnL + pair.BuyHigh.TotalPnL,
		TotalInvested: pair.BuyLow.TotalInvested + pair.BuyHigh.TotalInvested,
	}
	return gin.H{
		"asset":          asset,
		"total_trades":   total.TotalTrades,
		"total_pnl":      total.TotalPnL,
		"total_invested": total.TotalInvested,
		"roi":            total.ROI(),
	}
}

func (s *server) getVariantMetrics(c *gin.Context) {
	asset, ok := parseAssetQuery(c)
	if !ok {
		return
	}
	metrics := s.deps.Registry.VariantMetrics(asset)
	out := make([]variantView, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, newVariantView(m))
	}
	c.JSON(http.StatusOK, gin.H{"variants": out})
}

// trackerStatus is one asset's view of the window catalog: the window
// trading right now, the next entry-eligible window, and the one after it.
type trackerStatus struct {
	ActiveMarket *domain.MarketWindow  `json:"active_market"`
	T1Market     *domain.MarketWindow  `json:"t1_market"`
	T2Market     *domain.MarketWindow  `json:"t2_market"`
	Windows      []domain.MarketWindow `json:"windows"`
}

func (s *server) getMarkets(c *gin.Context) {
	asset, ok := parseAssetQuery(c)
	if !ok {
		return
	}
	assets := domain.Assets()
	if asset != "" {
		assets = []domain.Asset{asset}
	}
	out := make(map[domain.Asset]trackerStatus, len(assets))
	for _, a := range assets {
		st := trackerStatus{Windows: s.deps.Tracker.Windows(a)}
		if w, found := s.deps.Tracker.Active(a); found {
			st.ActiveMarket = &w
		}
		if w, found := s.deps.Tracker.NextEntryEligible(a); found {
			st.T1Market = &w
			if f, found := s.deps.Tracker.Following(a, w); found {
				st.T2Market = &f
			}
		}
		out[a] = st
	}
	c.JSON(http.StatusOK, gin.H{"markets": out})
}

// getPrices reports the order book for the window entries are currently
// evaluated against, together with the configured entry thresholds.
func (s *server) getPrices(c *gin.Context) {
	asset, ok := parseAssetParam(c)
	if !ok {
		return
	}
	window, found := s.deps.Tracker.NextEntryEligible(asset)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no entry window tracked for " + string(asset)})
		return
	}

	cfg := s.deps.Registry.Config()
	buyLow := make([]float64, 0, len(cfg.Variants))
	buyHigh := make([]float64, 0, len(cfg.Variants))
	for _, v := range cfg.Variants {
		switch v.Family {
		case domain.FamilyBuyLow:
			buyLow = append(buyLow, v.Threshold)
		case domain.FamilyBuyHigh:
			buyHigh = append(buyHigh, v.Threshold)
		}
	}

	resp := gin.H{
		"asset":               asset,
		"slug":                window.Slug,
		"countdown":           window.CountdownToActive(time.Now()),
		"buy_low_thresholds":  buyLow,
		"buy_high_thresholds": buyHigh,
	}
	up, upOK, upErr := s.deps.Books.BestBid(c.Request.Context(), window.UpTokenID)
	if upErr == nil && upOK {
		resp["up_bid"] = up
	}
	down, downOK, downErr := s.deps.Books.BestBid(c.Request.Context(), window.DownTokenID)
	if downErr == nil && downOK {
		resp["down_bid"] = down
	}
	if upErr == nil && upOK && downErr == nil && downOK {
		resp["bid_sum"] = up + down
	}
	c.JSON(http.StatusOK, resp)
}

// variantView adds the computed percentages to the JSON payload.
type variantView struct {
	domain.VariantMetrics
	WinRate float64 `json:"win_rate"`
	ROI     float64 `json:"roi"`
}

func newVariantView(m domain.VariantMetrics) variantView {
	return variantView{VariantMetrics: m, WinRate: m.WinRate(), ROI: m.ROI()}
}

type familyView struct {
	domain.FamilyMetrics
	WinRate float64 `json:"win_rate"`
	ROI     float64 `json:"roi"`
}

// familyPair groups one asset's two family summaries in the metrics payload.
type familyPair struct {
	BuyLow  familyView `json:"buy_low"`
	BuyHigh familyView `json:"buy_high"`
}

func newFamilyView(m domain.FamilyMetrics) familyView {
	return familyView{FamilyMetrics: m, WinRate: m.WinRate(), ROI: m.ROI()}
}
