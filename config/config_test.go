package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelgadoc/updownbot/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsOnMissingFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Strategy.OrderSizeShares)
	assert.Equal(t, int64(1230), cfg.Strategy.EntryWindowStart)
	assert.Equal(t, int64(930), cfg.Strategy.EntryWindowEnd)
	assert.Equal(t, 0.7, cfg.Strategy.FillProbability)
	assert.Equal(t, 2*time.Second, cfg.CycleInterval())
	assert.Equal(t, 15*time.Second, cfg.ResolutionThrottle())
	assert.Equal(t, []float64{0.49, 0.48, 0.47, 0.46}, cfg.Strategy.BuyLowThresholds)
	assert.Equal(t, []float64{0.51, 0.52, 0.53, 0.54}, cfg.Strategy.BuyHighThresholds)
	assert.Equal(t, ":8002", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
strategy:
  order_size_shares: 25
  fill_probability: 0.5
  buy_low_thresholds: [0.40]
  assets:
    btc: true
    eth: false
server:
  addr: ":9000"
log:
  level: debug
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25.0, cfg.Strategy.OrderSizeShares)
	assert.Equal(t, 0.5, cfg.Strategy.FillProbability)
	assert.Equal(t, []float64{0.40}, cfg.Strategy.BuyLowThresholds)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset keys still get defaults.
	assert.Equal(t, int64(1230), cfg.Strategy.EntryWindowStart)
	assert.Equal(t, []float64{0.51, 0.52, 0.53, 0.54}, cfg.Strategy.BuyHighThresholds)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
strategy:
  order_size_shares: 25
log:
  level: info
`)
	t.Setenv("ORDER_SIZE_SHARES", "50")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("ENABLE_SOL", "false")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50.0, cfg.Strategy.OrderSizeShares)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.AssetEnabled("sol"))
}

func TestAssetEnabled_DefaultsToTrue(t *testing.T) {
	path := writeConfig(t, `
strategy:
  assets:
    eth: false
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.AssetEnabled("btc"), "assets absent from the map trade by default")
	assert.False(t, cfg.AssetEnabled("eth"))
}
