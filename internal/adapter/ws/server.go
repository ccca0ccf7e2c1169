package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/user/stream-harness/internal/adapter/metrics"
	"github.com/user/stream-harness/internal/usecase"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// BridgeHandler accepts one persistent WebSocket connection per client and
// relays each received text frame to the broker, one in-flight publish at a
// time per connection. It holds no state across clients.
type BridgeHandler struct {
	forward        *usecase.ForwardUseCase
	logger         *slog.Logger
	metrics        *metrics.BridgeMetrics
	maxMessageSize int64
	msgsPerSecond  float64
}

// NewBridgeHandler creates a bridge handler. msgsPerSecond caps the sustained
// read rate per connection; zero disables the limit.
func NewBridgeHandler(forward *usecase.ForwardUseCase, logger *slog.Logger, m *metrics.BridgeMetrics, maxMessageSize int64, msgsPerSecond float64) *BridgeHandler {
	return &BridgeHandler{
		forward:        forward,
		logger:         logger,
		metrics:        m,
		maxMessageSize: maxMessageSize,
		msgsPerSecond:  msgsPerSecond,
	}
}

// ServeHTTP upgrades the request and runs the per-connection relay loop
// until the client disconnects or a publish fails.
func (h *BridgeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}

	connID := uuid.NewString()
	logger := h.logger.With("conn_id", connID, "remote_addr", r.RemoteAddr)
	logger.Info("client connected")

	if h.metrics != nil {
		h.metrics.ActiveConnections.Inc()
		defer h.metrics.ActiveConnections.Dec()
	}
	defer conn.Close()
	defer logger.Info("client disconnected")

	if h.maxMessageSize > 0 {
		conn.SetReadLimit(h.maxMessageSize)
	}

	var limiter *rate.Limiter
	if h.msgsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(h.msgsPerSecond), int(h.msgsPerSecond)+1)
	}

	ctx := r.Context()
	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				logger.Warn("read failed", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		if h.metrics != nil {
			h.metrics.MessagesTotal.Inc()
			h.metrics.BytesTotal.Add(float64(len(payload)))
		}

		// One in-flight publish per connection: the next frame is not read
		// until the broker confirms this one.
		if err := h.forward.Forward(ctx, payload); err != nil {
			if h.metrics != nil {
				h.metrics.PublishesTotal.WithLabelValues("error").Inc()
			}
			logger.Error("publish failed, closing connection", "error", err)
			return
		}
		if h.metrics != nil {
			h.metrics.PublishesTotal.WithLabelValues("ok").Inc()
		}
	}
}
