package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/adelgadoc/updownbot/internal/domain"
)

const (
	writeDeadline  = 10 * time.Second
	pingInterval   = 30 * time.Second
	pongWait       = 35 * time.Second // must be > pingInterval
	maxMessageSize = 512              // bytes; clients only send pongs
	sendBufferSize = 64               // messages in each client send channel
)

// Client represents one connected WebSocket endpoint. Each client may
// subscribe to one asset's feed or to the global feed (empty asset).
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	asset domain.Asset // "" = global feed
}

// envelope pairs an outbound frame with the feed it belongs to.
type envelope struct {
	asset domain.Asset
	data  []byte
}

// Hub maintains the set of active clients and routes snapshot frames to
// the feeds they subscribed to. Run must be started in its own goroutine
// before ServeWS is used.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool

	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run exits

	upgrader websocket.Upgrader
}

// NewHub creates a Hub ready to be started with Run.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboard is served from anywhere; the feed is read-only.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Run processes registration, unregistration, and broadcast events
// sequentially until ctx is cancelled. Call it once as a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			// Unblocks pumps and ServeWS calls still trying to reach
			// the event loop.
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case env := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if client.asset != env.asset {
					continue
				}
				select {
				case client.send <- env.data:
				default:
					// Client's buffer full; drop the frame for this client.
					// The writePump detects a stalled connection separately.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// ConnectedCount returns the current number of connected clients.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// feeds returns the distinct feeds with at least one subscriber.
func (h *Hub) feeds() []domain.Asset {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[domain.Asset]bool, len(h.clients))
	var out []domain.Asset
	for client := range h.clients {
		if !seen[client.asset] {
			seen[client.asset] = true
			out = append(out, client.asset)
		}
	}
	return out
}

// ServeWS upgrades an HTTP request to a WebSocket connection subscribed
// to the given asset's feed (empty = global) and starts the pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, asset domain.Asset) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		asset: asset,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// writePump drains the client's send channel onto the connection and
// sends ping frames every pingInterval.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes inbound frames. Only pongs matter (they reset the
// read deadline); everything else is discarded, the feed is push-only.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("ws unexpected close", "error", err)
			}
			return
		}
	}
}
