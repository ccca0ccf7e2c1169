package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Envelope is the message wrapper broadcast to dashboard clients.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans incoming broadcasts out to every connected dashboard client over
// WebSocket. Slow clients are skipped rather than allowed to block the
// consume path.
type Hub struct {
	logger  *slog.Logger
	mu      sync.RWMutex
	clients map[chan []byte]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[chan []byte]struct{}),
	}
}

// ServeHTTP upgrades the request and streams broadcasts to the client until
// it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}
	defer conn.Close()

	messages := make(chan []byte, 64)
	h.addClient(messages)
	defer h.removeClient(messages)

	greeting, _ := json.Marshal(map[string]string{"message": "connected to log consumer stream"})
	if err := conn.WriteMessage(websocket.TextMessage, greeting); err != nil {
		return
	}

	// Drain the read side so close frames from the client are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

// Broadcast marshals the envelope and delivers it to every connected client.
func (h *Hub) Broadcast(msgType string, data any) {
	payload, err := json.Marshal(Envelope{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal broadcast", "error", err, "type", msgType)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client <- payload:
		default:
			// Client buffer full; drop rather than block the broadcaster.
		}
	}
}

// ClientCount returns the number of connected dashboard clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	h.logger.Info("dashboard client connected")
}

func (h *Hub) removeClient(client chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client)
		h.logger.Info("dashboard client disconnected")
	}
}
