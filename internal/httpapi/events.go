package httpapi

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/joulepoint/fleet-console/internal/model"
)

const writeDeadline = 10 * time.Second

// Hub pushes each refreshed dashboard snapshot to connected websocket
// clients. Slow or failed writers are dropped, never waited on.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: logger,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// Broadcast sends the snapshot to every connected client.
func (h *Hub) Broadcast(snapshot *model.DashboardSnapshot) {
	if snapshot == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := conn.WriteJSON(snapshot); err != nil {
			h.logger.Debug("dropping event subscriber", "err", err)
			_ = conn.Close()
			delete(h.conns, conn)
		}
	}
}

// subscribe sends the catch-up snapshot and registers the connection.
// Both happen under the hub lock: every write to a registered connection
// goes through h.mu, so the connection never sees two writers.
func (h *Hub) subscribe(conn *websocket.Conn, snapshot *model.DashboardSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if snapshot != nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := conn.WriteJSON(snapshot); err != nil {
			_ = conn.Close()
			return
		}
	}
	h.conns[conn] = struct{}{}
}

// readLoop blocks until the client goes away, then unregisters it.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Events upgrades the request and streams snapshots until the client
// disconnects. A fresh client gets the current snapshot immediately
// instead of waiting for the next poll cycle.
func (a *API) Events(w http.ResponseWriter, r *http.Request) {
	conn, err := a.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	snapshot, _ := a.snapshots.Snapshot()
	a.hub.subscribe(conn, snapshot)

	go a.hub.readLoop(conn)
}
