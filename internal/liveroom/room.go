// Package liveroom broadcasts auction projections to connected
// websocket watchers. It is strictly ephemeral and best-effort: a
// dropped connection or a slow reader simply misses updates and must
// re-fetch state over HTTP. This is not the notification system —
// it never queues, retries, or persists anything, and has no
// delivery guarantee to any particular user. Adapted from the
// teacher's hub package, with chat-room and message-persistence
// logic stripped since nothing in this service models chat.
package liveroom

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/wallym/auctionhouse/internal/metrics"
	"github.com/wallym/auctionhouse/pkg/logger"
)

// Update is broadcast to every watcher of an auction whenever its
// projection changes.
type Update struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

const TypeAuctionUpdated = "auction_updated"

// watcher is a single connected websocket client watching one auction.
type watcher struct {
	auctionID string
	conn      *websocket.Conn
	send      chan []byte
}

// Room fans out auction projections to connected watchers, keyed by
// auction id.
type Room struct {
	mu       sync.RWMutex
	watchers map[string][]*watcher

	metrics *metrics.Metrics

	register   chan *watcher
	unregister chan *watcher
}

func NewRoom(m *metrics.Metrics) *Room {
	return &Room{
		watchers:   make(map[string][]*watcher),
		metrics:    m,
		register:   make(chan *watcher, 256),
		unregister: make(chan *watcher, 256),
	}
}

// Run is the central event loop; start it in its own goroutine.
func (r *Room) Run() {
	for {
		select {
		case w := <-r.register:
			r.mu.Lock()
			r.watchers[w.auctionID] = append(r.watchers[w.auctionID], w)
			r.mu.Unlock()
			if r.metrics != nil {
				r.metrics.FeedConnections.Inc()
			}

		case w := <-r.unregister:
			r.mu.Lock()
			clients := r.watchers[w.auctionID]
			for i, c := range clients {
				if c == w {
					r.watchers[w.auctionID] = append(clients[:i], clients[i+1:]...)
					break
				}
			}
			if len(r.watchers[w.auctionID]) == 0 {
				delete(r.watchers, w.auctionID)
			}
			r.mu.Unlock()
			close(w.send)
			if r.metrics != nil {
				r.metrics.FeedConnections.Dec()
			}
		}
	}
}

// Broadcast sends view (already JSON-encoded) to every watcher of
// auctionID. Slow watchers whose send buffer is full are skipped
// rather than blocking the broadcaster.
func (r *Room) Broadcast(auctionID string, view json.RawMessage) {
	msg, err := json.Marshal(Update{Type: TypeAuctionUpdated, Payload: view})
	if err != nil {
		logger.Feed().Error().Err(err).Msg("marshal auction update")
		return
	}

	r.mu.RLock()
	clients := make([]*watcher, len(r.watchers[auctionID]))
	copy(clients, r.watchers[auctionID])
	r.mu.RUnlock()

	for _, w := range clients {
		select {
		case w.send <- msg:
		default:
			logger.Feed().Warn().Str("auction_id", auctionID).Msg("dropped update for slow watcher")
		}
	}
}

// Watch registers conn as a watcher of auctionID and starts its
// read/write pumps. The read pump only drains control frames (ping,
// close) — the feed is one-directional.
func (r *Room) Watch(auctionID string, conn *websocket.Conn) {
	w := &watcher{
		auctionID: auctionID,
		conn:      conn,
		send:      make(chan []byte, 32),
	}
	r.register <- w
	go r.writePump(w)
	go r.readPump(w)
}

func (r *Room) readPump(w *watcher) {
	defer func() {
		r.unregister <- w
		w.conn.Close()
	}()
	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (r *Room) writePump(w *watcher) {
	defer w.conn.Close()
	for msg := range w.send {
		if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
