package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Strategy StrategyConfig `yaml:"strategy"`
	API      APIConfig      `yaml:"api"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// StrategyConfig controls the simulation engines.
type StrategyConfig struct {
	OrderSizeShares    float64         `yaml:"order_size_shares"`
	EntryWindowStart   int64           `yaml:"entry_window_start"`   // countdown upper bound in seconds
	EntryWindowEnd     int64           `yaml:"entry_window_end"`     // countdown lower bound in seconds
	FillProbability    float64         `yaml:"fill_probability"`     // per-cycle Bernoulli trial
	CycleSeconds       int             `yaml:"cycle_seconds"`        // sleep between loop iterations
	ResolutionThrottle int             `yaml:"resolution_throttle"`  // seconds between lookups per market
	BuyLowThresholds   []float64       `yaml:"buy_low_thresholds"`
	BuyHighThresholds  []float64       `yaml:"buy_high_thresholds"`
	Assets             map[string]bool `yaml:"assets"` // asset name → enabled
	AutoStart          bool            `yaml:"auto_start"`
}

// APIConfig holds the upstream base URLs.
type APIConfig struct {
	CLOBBase  string `yaml:"clob_base"`
	GammaBase string `yaml:"gamma_base"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig controls where history is journaled.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or empty to disable the journal
}

// LogConfig controls logging format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML file and the .env file if present. Env values
// override YAML for the keys they cover. A missing config file is not
// an error; defaults apply.
func Load(path string) (*Config, error) {
	// Load .env silently if present
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// run on defaults + env
	case err != nil:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)
	return &cfg, nil
}

// CycleInterval returns the loop sleep as a time.Duration.
func (c *Config) CycleInterval() time.Duration {
	return time.Duration(c.Strategy.CycleSeconds) * time.Second
}

// ResolutionThrottle returns the per-market lookup throttle as a Duration.
func (c *Config) ResolutionThrottle() time.Duration {
	return time.Duration(c.Strategy.ResolutionThrottle) * time.Second
}

// AssetEnabled reports whether the named asset should trade.
// Assets absent from the map default to enabled.
func (c *Config) AssetEnabled(name string) bool {
	enabled, ok := c.Strategy.Assets[name]
	if !ok {
		return true
	}
	return enabled
}

// applyEnvOverrides overrides values from environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("ORDER_SIZE_SHARES"), 64); err == nil && v > 0 {
		cfg.Strategy.OrderSizeShares = v
	}
	if v, err := strconv.ParseInt(os.Getenv("ENTRY_WINDOW_START"), 10, 64); err == nil && v > 0 {
		cfg.Strategy.EntryWindowStart = v
	}
	if v, err := strconv.ParseInt(os.Getenv("ENTRY_WINDOW_END"), 10, 64); err == nil && v > 0 {
		cfg.Strategy.EntryWindowEnd = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("SIM_FILL_PROBABILITY"), 64); err == nil && v > 0 {
		cfg.Strategy.FillProbability = v
	}

	for _, name := range []string{"btc", "eth", "sol", "xrp"} {
		v := os.Getenv("ENABLE_" + strings.ToUpper(name))
		if v == "" {
			continue
		}
		if cfg.Strategy.Assets == nil {
			cfg.Strategy.Assets = make(map[string]bool)
		}
		cfg.Strategy.Assets[name] = strings.EqualFold(v, "true")
	}
}

// setDefaults fills in sane values for anything unset.
func setDefaults(cfg *Config) {
	if cfg.Strategy.OrderSizeShares <= 0 {
		cfg.Strategy.OrderSizeShares = 10
	}
	if cfg.Strategy.EntryWindowStart <= 0 {
		cfg.Strategy.EntryWindowStart = 1230 // 20:30 before open
	}
	if cfg.Strategy.EntryWindowEnd <= 0 {
		cfg.Strategy.EntryWindowEnd = 930 // 15:30 before open
	}
	if cfg.Strategy.FillProbability <= 0 {
		cfg.Strategy.FillProbability = 0.7
	}
	if cfg.Strategy.CycleSeconds <= 0 {
		cfg.Strategy.CycleSeconds = 2
	}
	if cfg.Strategy.ResolutionThrottle <= 0 {
		cfg.Strategy.ResolutionThrottle = 15
	}
	if len(cfg.Strategy.BuyLowThresholds) == 0 {
		cfg.Strategy.BuyLowThresholds = []float64{0.49, 0.48, 0.47, 0.46}
	}
	if len(cfg.Strategy.BuyHighThresholds) == 0 {
		cfg.Strategy.BuyHighThresholds = []float64{0.51, 0.52, 0.53, 0.54}
	}
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8002"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
