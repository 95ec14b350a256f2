package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adelgadoc/updownbot/config"
	"github.com/adelgadoc/updownbot/internal/adapters/notify"
	"github.com/adelgadoc/updownbot/internal/adapters/polymarket"
	"github.com/adelgadoc/updownbot/internal/adapters/storage"
	"github.com/adelgadoc/updownbot/internal/api"
	"github.com/adelgadoc/updownbot/internal/domain"
	"github.com/adelgadoc/updownbot/internal/engine"
	"github.com/adelgadoc/updownbot/internal/ports"
	"github.com/adelgadoc/updownbot/internal/tracker"
	"github.com/adelgadoc/updownbot/internal/ws"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	noAutoStart := flag.Bool("no-autostart", false, "register engines but don't start them")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	setupLogger(cfg.Log)

	slog.Info("updownbot starting",
		"config", *configPath,
		"addr", cfg.Server.Addr,
		"cycle", cfg.CycleInterval(),
		"order_size", cfg.Strategy.OrderSizeShares,
		"auto_start", cfg.Strategy.AutoStart && !*noAutoStart,
	)

	client := polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase)
	trk := tracker.New(client)

	var journal ports.Journal
	if cfg.Storage.DSN != "" {
		sqlJournal, err := storage.NewSQLiteJournal(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open journal", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer sqlJournal.Close()
		journal = sqlJournal
	}

	notifier := notify.NewConsole()

	engCfg := engine.DefaultConfig()
	engCfg.OrderSize = cfg.Strategy.OrderSizeShares
	engCfg.EntryWindowStart = cfg.Strategy.EntryWindowStart
	engCfg.EntryWindowEnd = cfg.Strategy.EntryWindowEnd
	engCfg.FillProbability = cfg.Strategy.FillProbability
	engCfg.CycleInterval = cfg.CycleInterval()
	engCfg.ResolutionThrottle = cfg.ResolutionThrottle()
	engCfg.Variants = domain.DefaultVariants(
		cfg.Strategy.BuyLowThresholds,
		cfg.Strategy.BuyHighThresholds,
	)

	enabled := make(map[domain.Asset]bool, len(domain.Assets()))
	for _, a := range domain.Assets() {
		enabled[a] = cfg.AssetEnabled(string(a))
	}

	registry := engine.NewRegistry(engCfg, trk, client, journal, notifier, enabled)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)
	go hub.RunBroadcaster(ctx, engCfg.CycleInterval, snapshotFunc(registry, trk))

	if cfg.Strategy.AutoStart && !*noAutoStart {
		registry.StartAll(ctx)
	}

	router := api.NewRouter(api.Deps{
		Registry: registry,
		Tracker:  trk,
		Books:    client,
		Hub:      hub,
		BaseCtx:  ctx,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "err", err)
		}
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown error", "err", err)
	}

	registry.StopAll()
	notifier.PrintSummary(registry.VariantMetrics(""))

	slog.Info("updownbot stopped cleanly")
}

// snapshotFunc builds the per-feed payload pushed to WebSocket clients.
func snapshotFunc(registry *engine.Registry, trk *tracker.Tracker) ws.SnapshotFunc {
	return func(asset domain.Asset) any {
		if asset == "" {
			return map[string]any{
				"status":      registry.Status(),
				"last_trades": registry.LastTrades(10, false),
			}
		}

		payload := map[string]any{
			"status":   registry.Engine(asset).Status(),
			"variants": registry.VariantMetrics(asset),
		}
		if window, ok := trk.Active(asset); ok {
			payload["active_market"] = window
		}
		return payload
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
