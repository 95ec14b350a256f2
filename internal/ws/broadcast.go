package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/adelgadoc/updownbot/internal/domain"
)

// Frame is the envelope written to every subscriber.
type Frame struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data"`
}

// SnapshotFunc builds the feed payload for one asset. An empty asset
// requests the global payload spanning every asset.
type SnapshotFunc func(asset domain.Asset) any

// RunBroadcaster pushes a fresh snapshot to every active feed on the
// given interval until ctx is cancelled. Feeds with no subscribers cost
// nothing; the snapshot is only built for feeds someone is watching.
func (h *Hub) RunBroadcaster(ctx context.Context, interval time.Duration, snapshot SnapshotFunc) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now().Unix()
			for _, asset := range h.feeds() {
				data, err := json.Marshal(Frame{
					Type:      "snapshot",
					Timestamp: now,
					Data:      snapshot(asset),
				})
				if err != nil {
					slog.Warn("ws snapshot marshal failed", "asset", asset, "error", err)
					continue
				}
				select {
				case h.broadcast <- envelope{asset: asset, data: data}:
				default:
					slog.Debug("ws broadcast channel full, frame dropped", "asset", asset)
				}
			}
		}
	}
}
