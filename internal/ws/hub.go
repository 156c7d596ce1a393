package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Hub fans analytics updates out to connected dashboard clients. Writes are
// fire-and-forget; a client that cannot keep up is dropped.
type Hub struct {
	Logger *zap.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		Logger: logger,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// Serve upgrades the request and keeps the connection registered until the
// client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("websocket accept failed", zap.Error(err))
		}
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	if h.Logger != nil {
		h.Logger.Info("analytics subscriber connected", zap.Int("subscribers", n))
	}

	// Clients never send payloads; reading just detects the close frame.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}
	h.drop(conn, websocket.StatusNormalClosure)
}

// Broadcast pushes a JSON payload to every subscriber.
func (h *Hub) Broadcast(ctx context.Context, payload any) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := wsjson.Write(writeCtx, conn, payload)
		cancel()
		if err != nil {
			h.drop(conn, websocket.StatusPolicyViolation)
		}
	}
}

// Close disconnects every subscriber, typically at shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.conns = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close(websocket.StatusGoingAway, "server shutdown")
	}
}

func (h *Hub) drop(conn *websocket.Conn, code websocket.StatusCode) {
	h.mu.Lock()
	_, ok := h.conns[conn]
	delete(h.conns, conn)
	n := len(h.conns)
	h.mu.Unlock()
	if !ok {
		return
	}
	_ = conn.Close(code, "")
	if h.Logger != nil {
		h.Logger.Info("analytics subscriber dropped", zap.Int("subscribers", n))
	}
}
