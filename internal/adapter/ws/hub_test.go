package ws

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHub_BroadcastsToConnectedClients(t *testing.T) {
	hub := NewHub(testLogger())
	server := httptest.NewServer(hub)
	defer server.Close()

	conn := dialTest(t, wsURL(server))
	defer conn.Close()

	// First frame is the greeting.
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("failed to read greeting: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool { return hub.ClientCount() == 1 })
	hub.Broadcast("raw_log", map[string]string{"event": "play"})

	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read broadcast: %v", err)
	}

	var env struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("broadcast is not valid JSON: %v", err)
	}
	if env.Type != "raw_log" {
		t.Errorf("expected envelope type raw_log, got %q", env.Type)
	}
}

func TestHub_RemovesDisconnectedClients(t *testing.T) {
	hub := NewHub(testLogger())
	server := httptest.NewServer(hub)
	defer server.Close()

	conn := dialTest(t, wsURL(server))
	waitFor(t, 5*time.Second, func() bool { return hub.ClientCount() == 1 })

	conn.Close()
	waitFor(t, 5*time.Second, func() bool { return hub.ClientCount() == 0 })

	// Broadcasting with no clients must not panic or block.
	hub.Broadcast("aggregate_data", map[string]int{"total_logs": 0})
}
