package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/user/stream-harness/internal/domain"
)

const closeWriteTimeout = time.Second

// Dialer implements domain.Dialer over WebSocket.
type Dialer struct {
	url string
}

// NewDialer creates a dialer for the given ws:// or wss:// URL.
func NewDialer(url string) *Dialer {
	return &Dialer{url: url}
}

// Dial opens one persistent connection to the ingestion endpoint.
func (d *Dialer) Dial(ctx context.Context) (domain.Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, d.url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &clientConn{conn: conn}, nil
}

// clientConn wraps a gorilla connection behind the domain port. The mutex
// keeps Close from racing an in-flight Send: a shutdown waits for the
// current frame to finish rather than tearing the socket out from under it.
type clientConn struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func (c *clientConn) Send(ctx context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrConnClosed
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *clientConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeWriteTimeout))
	return c.conn.Close()
}
