package ws

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/user/stream-harness/internal/domain/mocks"
	"github.com/user/stream-harness/internal/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBridgeServer(t *testing.T, publisher *mocks.MockPublisher) *httptest.Server {
	t.Helper()
	forward := usecase.NewForwardUseCase(publisher, testLogger())
	handler := NewBridgeHandler(forward, testLogger(), nil, 65536, 0)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func dialTest(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("failed to dial bridge: %v", err)
	}
	return conn
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestBridgeHandler_RelaysFramesInOrder(t *testing.T) {
	publisher := &mocks.MockPublisher{}
	server := newBridgeServer(t, publisher)

	conn := dialTest(t, wsURL(server))
	defer conn.Close()

	frames := []string{
		`{"user_id":"User-1","video_id":"m1","video_title":"A","event":"play","time_seconds":0}`,
		`{"user_id":"User-1","video_id":"m1","video_title":"A","event":"pause","time_seconds":30}`,
		`{"user_id":"User-1","video_id":"m1","video_title":"A","event":"stop","time_seconds":60}`,
	}
	for _, f := range frames {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
			t.Fatalf("failed to send frame: %v", err)
		}
	}

	waitFor(t, 5*time.Second, func() bool {
		return len(publisher.Records()) == len(frames)
	})

	for i, record := range publisher.Records() {
		if string(record.Key) != "log" {
			t.Errorf("record %d: expected key %q, got %q", i, "log", record.Key)
		}
		if string(record.Value) != frames[i] {
			t.Errorf("record %d: frame modified or reordered:\n got %s\nwant %s", i, record.Value, frames[i])
		}
	}
}

func TestBridgeHandler_ClosesConnectionOnPublishFailure(t *testing.T) {
	publisher := &mocks.MockPublisher{PublishErr: errors.New("broker unavailable")}
	server := newBridgeServer(t, publisher)

	conn := dialTest(t, wsURL(server))
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"play"}`)); err != nil {
		t.Fatalf("failed to send frame: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected the bridge to close the connection after a publish failure")
	}
}

func TestBridgeHandler_ServesSuccessiveClients(t *testing.T) {
	publisher := &mocks.MockPublisher{}
	server := newBridgeServer(t, publisher)

	first := dialTest(t, wsURL(server))
	if err := first.WriteMessage(websocket.TextMessage, []byte(`{"event":"play"}`)); err != nil {
		t.Fatalf("first client failed to send: %v", err)
	}
	first.Close()

	second := dialTest(t, wsURL(server))
	defer second.Close()
	if err := second.WriteMessage(websocket.TextMessage, []byte(`{"event":"stop"}`)); err != nil {
		t.Fatalf("second client failed to send: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		return len(publisher.Records()) == 2
	})
}

func TestDialer_SendsThroughBridge(t *testing.T) {
	publisher := &mocks.MockPublisher{}
	server := newBridgeServer(t, publisher)

	dialer := NewDialer(wsURL(server))
	conn, err := dialer.Dial(context.Background())
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()

	payload := []byte(`{"user_id":"User-1","video_id":"m1","video_title":"A","event":"play","time_seconds":0}`)
	if err := conn.Send(context.Background(), payload); err != nil {
		t.Fatalf("failed to send: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		return len(publisher.Records()) == 1
	})
	if got := publisher.Records()[0].Value; string(got) != string(payload) {
		t.Errorf("payload mismatch: got %s", got)
	}

	if err := conn.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
	if err := conn.Send(context.Background(), payload); err == nil {
		t.Error("expected send on closed connection to fail")
	}
}
