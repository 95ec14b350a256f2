package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/adelgadoc/updownbot/internal/domain"
	"github.com/adelgadoc/updownbot/internal/ports"
	"github.com/adelgadoc/updownbot/internal/tracker"
)

// Config holds the strategy settings shared by every asset engine.
type Config struct {
	OrderSize          float64
	EntryWindowStart   int64 // countdown upper bound, seconds before open
	EntryWindowEnd     int64 // countdown lower bound, seconds before open
	FillProbability    float64
	CycleInterval      time.Duration
	ResolutionThrottle time.Duration
	Variants           []domain.Variant
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		OrderSize:          10,
		EntryWindowStart:   1230,
		EntryWindowEnd:     930,
		FillProbability:    0.7,
		CycleInterval:      2 * time.Second,
		ResolutionThrottle: 15 * time.Second,
		Variants: domain.DefaultVariants(
			[]float64{0.49, 0.48, 0.47, 0.46},
			[]float64{0.51, 0.52, 0.53, 0.54},
		),
	}
}

// Engine runs the trading simulation loop for one asset. All orders,
// trades and per-window bookkeeping belong exclusively to this engine;
// external readers go through the accessor methods, which copy under
// the same mutex the loop mutates under.
type Engine struct {
	asset    domain.Asset
	cfg      Config
	tracker  *tracker.Tracker
	books    ports.BookProvider
	journal  ports.Journal  // optional
	notifier ports.Notifier // optional

	now   func() time.Time
	randF func() float64

	mu        sync.Mutex
	orders    map[string]*domain.Order
	trades    []*domain.Trade
	processed map[string]map[string]struct{} // window slug → variants placed
	lastCheck map[string]time.Time           // market slug → last resolution attempt

	runMu     sync.Mutex
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	startedAt time.Time
}

// New creates a stopped engine for one asset. journal and notifier may be nil.
func New(asset domain.Asset, cfg Config, trk *tracker.Tracker, books ports.BookProvider, journal ports.Journal, notifier ports.Notifier) *Engine {
	return &Engine{
		asset:     asset,
		cfg:       cfg,
		tracker:   trk,
		books:     books,
		journal:   journal,
		notifier:  notifier,
		now:       time.Now,
		randF:     rand.Float64,
		orders:    make(map[string]*domain.Order),
		processed: make(map[string]map[string]struct{}),
		lastCheck: make(map[string]time.Time),
	}
}

// SetNow overrides the clock. Tests only.
func (e *Engine) SetNow(now func() time.Time) { e.now = now }

// SetRand overrides the fill simulator's random source. Tests only.
func (e *Engine) SetRand(f func() float64) { e.randF = f }

// Asset returns the asset this engine trades.
func (e *Engine) Asset() domain.Asset { return e.asset }

// IsRunning reports whether the loop is active.
func (e *Engine) IsRunning() bool {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	return e.running
}

// StartedAt returns when the loop was last started.
func (e *Engine) StartedAt() time.Time {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	return e.startedAt
}

// Start launches the scheduling loop. Starting a running engine is a no-op.
func (e *Engine) Start(ctx context.Context) {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	if e.running {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	e.running = true
	e.cancel = cancel
	e.done = make(chan struct{})
	e.startedAt = e.now()
	go e.run(loopCtx)
	slog.Info("engine started", "asset", e.asset)
}

// Stop cancels the loop and waits for it to flush. Idempotent: stopping
// a stopped engine returns immediately.
func (e *Engine) Stop() {
	e.runMu.Lock()
	if !e.running {
		e.runMu.Unlock()
		return
	}
	cancel, done := e.cancel, e.done
	e.runMu.Unlock()

	cancel()
	<-done

	e.runMu.Lock()
	e.running = false
	e.runMu.Unlock()
	slog.Info("engine stopped", "asset", e.asset)
}

// run executes cycles until the context is cancelled. Each cycle is
// committed atomically with respect to Stop: cancellation is only
// observed between cycles and at the providers' own context checks.
func (e *Engine) run(ctx context.Context) {
	defer close(e.done)
	for {
		if err := e.RunOnce(ctx); err != nil && ctx.Err() == nil {
			slog.Error("cycle failed", "asset", e.asset, "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(e.cfg.CycleInterval):
		}
	}
}

// RunOnce executes a single cycle: refresh the catalog, locate the
// tracked (t+1) window, run entry evaluation and second-chance fills
// inside the entry window, cancel stale orders past it, check pending
// resolutions, and run the fill simulator.
func (e *Engine) RunOnce(ctx context.Context) error {
	if err := e.tracker.Refresh(ctx, e.asset); err != nil {
		// Transient; the next cycle retries on the tracker's own cooldown.
		slog.Warn("refresh failed", "asset", e.asset, "err", err)
	}

	t1, ok := e.tracker.NextEntryEligible(e.asset)
	if !ok {
		// Nothing to track yet; retry next cycle.
		slog.Debug("no entry-eligible window", "asset", e.asset)
		return ctx.Err()
	}

	countdown := t1.CountdownToActive(e.now())
	slog.Debug("tracking window", "asset", e.asset, "slug", t1.Slug, "countdown", countdown)

	if countdown >= e.cfg.EntryWindowEnd && countdown <= e.cfg.EntryWindowStart {
		e.evaluateEntries(ctx, t1)
		e.checkSecondChance(ctx, t1)
	}
	if countdown <= e.cfg.EntryWindowEnd {
		e.cancelUnfilled(ctx, t1)
	}

	e.checkResolutions(ctx)
	e.simulateFills(ctx)
	return ctx.Err()
}
