package tracker

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/adelgadoc/updownbot/internal/domain"
	"github.com/adelgadoc/updownbot/internal/ports"
)

const (
	// RefreshCooldown bounds how often one asset's window list is
	// rebuilt from the metadata provider.
	RefreshCooldown = 30 * time.Second

	candidatesBack    = 2
	candidatesForward = 6
)

// Tracker is the per-asset catalog of known market windows. Each asset's
// list is replaced atomically on refresh so concurrent readers always
// observe a consistent snapshot.
type Tracker struct {
	provider ports.MarketProvider
	now      func() time.Time

	mu          sync.RWMutex
	windows     map[domain.Asset][]domain.MarketWindow
	lastRefresh map[domain.Asset]time.Time
}

// New creates a Tracker backed by the given metadata provider.
func New(provider ports.MarketProvider) *Tracker {
	t := &Tracker{
		provider:    provider,
		now:         time.Now,
		windows:     make(map[domain.Asset][]domain.MarketWindow),
		lastRefresh: make(map[domain.Asset]time.Time),
	}
	for _, a := range domain.Assets() {
		t.windows[a] = nil
	}
	return t
}

// SetNow overrides the clock. Tests only.
func (t *Tracker) SetNow(now func() time.Time) { t.now = now }

// Refresh rebuilds the asset's window list unless a refresh completed
// less than RefreshCooldown ago. Fetch and parse failures for single
// candidates are tolerated: the list is replaced with whatever subset
// parsed, sorted ascending by start time.
func (t *Tracker) Refresh(ctx context.Context, asset domain.Asset) error {
	now := t.now()

	t.mu.RLock()
	last := t.lastRefresh[asset]
	t.mu.RUnlock()
	if now.Sub(last) < RefreshCooldown {
		return nil
	}

	slugs := CandidateSlugs(asset, now.Unix(), candidatesBack, candidatesForward)
	slog.Debug("refreshing windows", "asset", asset, "candidates", len(slugs))

	windows := make([]domain.MarketWindow, 0, len(slugs))
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return err
		}
		w, found, err := t.provider.FetchMarket(ctx, slug)
		if err != nil {
			slog.Debug("window fetch failed, skipping", "slug", slug, "err", err)
			continue
		}
		if !found {
			continue
		}
		windows = append(windows, w)
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].StartTime < windows[j].StartTime
	})

	t.mu.Lock()
	t.windows[asset] = windows
	t.lastRefresh[asset] = now
	t.mu.Unlock()

	slog.Info("windows refreshed", "asset", asset, "found", len(windows))
	return nil
}

// Active returns the window whose [start, end) contains now, if any.
func (t *Tracker) Active(asset domain.Asset) (domain.MarketWindow, bool) {
	now := t.now()
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, w := range t.windows[asset] {
		if w.Contains(now) {
			return w, true
		}
	}
	return domain.MarketWindow{}, false
}

// NextEntryEligible returns the t+1 window: the earliest future window
// whose countdown still exceeds one full bucket. Windows within 900s of
// opening are skipped because their entry window has already closed.
func (t *Tracker) NextEntryEligible(asset domain.Asset) (domain.MarketWindow, bool) {
	now := t.now()
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, w := range t.windows[asset] {
		if w.StartTime > now.Unix() && w.CountdownToActive(now) > BucketSize {
			return w, true
		}
	}
	return domain.MarketWindow{}, false
}

// Following returns the t+2 window: the earliest window starting
// strictly after the given window.
func (t *Tracker) Following(asset domain.Asset, after domain.MarketWindow) (domain.MarketWindow, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, w := range t.windows[asset] {
		if w.StartTime > after.StartTime {
			return w, true
		}
	}
	return domain.MarketWindow{}, false
}

// BySlug looks up a tracked window across all assets.
func (t *Tracker) BySlug(slug string) (domain.MarketWindow, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, windows := range t.windows {
		for _, w := range windows {
			if w.Slug == slug {
				return w, true
			}
		}
	}
	return domain.MarketWindow{}, false
}

// Windows returns a copy of the asset's current window list.
func (t *Tracker) Windows(asset domain.Asset) []domain.MarketWindow {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.MarketWindow, len(t.windows[asset]))
	copy(out, t.windows[asset])
	return out
}

// LastRefresh returns when the asset's list was last rebuilt.
func (t *Tracker) LastRefresh(asset domain.Asset) time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastRefresh[asset]
}

// ResolveOutcome returns the winning side for a market. Tracked windows
// answer from cache; windows that rolled out of the tracked range are
// fetched one-off. Returns found=false while the market is unresolved.
func (t *Tracker) ResolveOutcome(ctx context.Context, slug string) (domain.Outcome, bool) {
	if w, ok := t.BySlug(slug); ok && w.Winner != nil {
		return *w.Winner, true
	}

	if _, ok := AssetFromSlug(slug); !ok {
		return "", false
	}
	w, found, err := t.provider.FetchMarket(ctx, slug)
	if err != nil {
		slog.Debug("resolution fetch failed", "slug", slug, "err", err)
		return "", false
	}
	if !found || w.Winner == nil {
		return "", false
	}
	return *w.Winner, true
}
