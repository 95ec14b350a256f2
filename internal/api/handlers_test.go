// Package api_test runs HTTP-level smoke tests with net/http/httptest:
// routing, parameter validation responses, and payload envelopes. The
// strategy semantics themselves are covered by the engine tests.
package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelgadoc/updownbot/internal/api"
	"github.com/adelgadoc/updownbot/internal/domain"
	"github.com/adelgadoc/updownbot/internal/engine"
	"github.com/adelgadoc/updownbot/internal/tracker"
)

type emptyProvider struct{}

// mapProvider serves canned windows keyed by slug, mirroring how the
// catalog discovers markets.
type mapProvider struct {
	markets map[string]domain.MarketWindow
}

func (p mapProvider) FetchMarket(_ context.Context, slug string) (domain.MarketWindow, bool, error) {
	w, ok := p.markets[slug]
	return w, ok, nil
}

func (emptyProvider) FetchMarket(context.Context, string) (domain.MarketWindow, bool, error) {
	return domain.MarketWindow{}, false, nil
}

type emptyBooks struct{}

func (emptyBooks) BestBid(context.Context, string) (float64, bool, error) {
	return 0, false, nil
}

func buildTestRouter(t *testing.T) http.Handler {
	t.Helper()
	trk := tracker.New(emptyProvider{})
	enabled := map[domain.Asset]bool{
		domain.AssetBTC: true, domain.AssetETH: true,
		domain.AssetSOL: true, domain.AssetXRP: true,
	}
	reg := engine.NewRegistry(engine.DefaultConfig(), trk, emptyBooks{}, nil, nil, enabled)
	t.Cleanup(reg.StopAll)

	return api.NewRouter(api.Deps{
		Registry: reg,
		Tracker:  trk,
		Books:    emptyBooks{},
		BaseCtx:  context.Background(),
	})
}

func doRequest(t *testing.T, router http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAPI_Health(t *testing.T) {
	router := buildTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestAPI_StatusEnvelope(t *testing.T) {
	router := buildTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Assets    map[string]engine.Status `json:"assets"`
		Aggregate struct {
			AssetsEnabled int `json:"assets_enabled"`
		} `json:"aggregate"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Assets, 4)
	assert.Equal(t, 4, body.Aggregate.AssetsEnabled)
}

func TestAPI_AssetsList(t *testing.T) {
	router := buildTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/assets")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bitcoin")
	assert.Contains(t, rec.Body.String(), `"running":false`)
}

func TestAPI_StartStopAsset(t *testing.T) {
	router := buildTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/assets/btc/start")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"running":true`)

	rec = doRequest(t, router, http.MethodPost, "/api/assets/btc/stop")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"running":false`)
}

func TestAPI_UnknownAssetRejected(t *testing.T) {
	router := buildTestRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/assets/doge/start"},
		{http.MethodGet, "/api/prices/doge"},
		{http.MethodGet, "/api/orders?asset=doge"},
	}
	for _, tc := range cases {
		rec := doRequest(t, router, tc.method, tc.path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.path)
		assert.Contains(t, rec.Body.String(), "unknown asset", tc.path)
	}
}

func TestAPI_UnknownFamilyRejected(t *testing.T) {
	router := buildTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/trades?family=buy_sideways")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown family")
}

func TestAPI_EmptyHistories(t *testing.T) {
	router := buildTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/orders")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)

	rec = doRequest(t, router, http.MethodGet, "/api/trades")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)

	rec = doRequest(t, router, http.MethodGet, "/api/last-trades?winning_only=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}

func TestAPI_VariantMetricsFullCatalog(t *testing.T) {
	router := buildTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/variant-metrics?asset=btc")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Variants []struct {
			Variant string  `json:"variant"`
			WinRate float64 `json:"win_rate"`
		} `json:"variants"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Variants, 8, "every catalog variant reported even with no trades")
	assert.Equal(t, "buy_low_49", body.Variants[0].Variant)
	assert.Zero(t, body.Variants[0].WinRate)
}

func TestAPI_PricesWithoutTrackedWindow(t *testing.T) {
	router := buildTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/prices/btc")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_MetricsAssetFilter(t *testing.T) {
	router := buildTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/metrics?asset=doge")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown asset")

	rec = doRequest(t, router, http.MethodGet, "/api/metrics?asset=btc")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Aggregate struct {
			Asset       string `json:"asset"`
			TotalTrades int    `json:"total_trades"`
		} `json:"aggregate"`
		Families map[string]json.RawMessage `json:"families"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "btc", body.Aggregate.Asset)
	require.Len(t, body.Families, 1, "filtered payload carries only the requested asset")
	assert.Contains(t, body.Families, "btc")
}

func TestAPI_MetricsUnfiltered(t *testing.T) {
	router := buildTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/api/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Aggregate struct {
			AssetsEnabled int `json:"assets_enabled"`
		} `json:"aggregate"`
		Families map[string]json.RawMessage `json:"families"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Aggregate.AssetsEnabled)
	assert.Len(t, body.Families, 4)
}

func TestAPI_MarketsTrackerStatus(t *testing.T) {
	base := time.Now().Unix() / 900 * 900
	markets := make(map[string]domain.MarketWindow, 4)
	for k := int64(0); k < 4; k++ {
		start := base + k*900
		slug := tracker.Slug(domain.AssetBTC, start)
		markets[slug] = domain.MarketWindow{
			Slug:        slug,
			Asset:       domain.AssetBTC,
			UpTokenID:   "up-" + slug,
			DownTokenID: "down-" + slug,
			StartTime:   start,
			EndTime:     start + 900,
		}
	}

	trk := tracker.New(mapProvider{markets: markets})
	trk.SetNow(func() time.Time { return time.Unix(base+50, 0) })
	require.NoError(t, trk.Refresh(context.Background(), domain.AssetBTC))

	enabled := map[domain.Asset]bool{domain.AssetBTC: true}
	reg := engine.NewRegistry(engine.DefaultConfig(), trk, emptyBooks{}, nil, nil, enabled)
	t.Cleanup(reg.StopAll)
	router := api.NewRouter(api.Deps{
		Registry: reg,
		Tracker:  trk,
		Books:    emptyBooks{},
		BaseCtx:  context.Background(),
	})

	rec := doRequest(t, router, http.MethodGet, "/api/markets?asset=btc")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Markets map[string]struct {
			ActiveMarket *domain.MarketWindow  `json:"active_market"`
			T1Market     *domain.MarketWindow  `json:"t1_market"`
			T2Market     *domain.MarketWindow  `json:"t2_market"`
			Windows      []domain.MarketWindow `json:"windows"`
		} `json:"markets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	st, ok := body.Markets["btc"]
	require.True(t, ok)

	// Window at base+900 opens in 850s, inside the closed entry window,
	// so the next eligible one is two buckets out.
	require.NotNil(t, st.ActiveMarket)
	assert.Equal(t, base, st.ActiveMarket.StartTime)
	require.NotNil(t, st.T1Market)
	assert.Equal(t, base+1800, st.T1Market.StartTime)
	require.NotNil(t, st.T2Market)
	assert.Equal(t, base+2700, st.T2Market.StartTime)
	assert.Len(t, st.Windows, 4)
}

func TestAPI_ExportFormats(t *testing.T) {
	router := buildTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/export/orders")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "ORDER HISTORY")

	rec = doRequest(t, router, http.MethodGet, "/api/export/trades?format=md")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "markdown")
	assert.Contains(t, rec.Body.String(), "# Trade History")

	rec = doRequest(t, router, http.MethodGet, "/api/export/orders?format=pdf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
