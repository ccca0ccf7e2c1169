package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/user/stream-harness/internal/usecase"
)

// ControlHandler exposes the pool's start/stop/scale operations over HTTP.
type ControlHandler struct {
	pool   *usecase.Pool
	logger *slog.Logger
}

// NewControlHandler creates a new ControlHandler.
func NewControlHandler(pool *usecase.Pool, logger *slog.Logger) *ControlHandler {
	return &ControlHandler{pool: pool, logger: logger}
}

// Start begins traffic generation. Starting an already running pool leaves
// it untouched.
func (h *ControlHandler) Start(w http.ResponseWriter, r *http.Request) {
	started, ok := h.pool.Start()
	if !ok {
		writeMessage(w, http.StatusOK, "Traffic generation already running.")
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Traffic generation started with %d workers.", started))
}

// Stop halts traffic generation and returns once every worker has drained.
func (h *ControlHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if !h.pool.Stop() {
		writeMessage(w, http.StatusOK, "No active traffic generation.")
		return
	}
	writeMessage(w, http.StatusOK, "Traffic generation stopped.")
}

// Increase multiplies the target worker count by n (default 2) and attempts
// a start.
func (h *ControlHandler) Increase(w http.ResponseWriter, r *http.Request) {
	n, err := scaleFactor(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	started, ok := h.pool.Increase(n)
	h.writeScaleResult(w, started, ok)
}

// Decrease divides the target worker count by n (default 2, floor 1) and
// attempts a start.
func (h *ControlHandler) Decrease(w http.ResponseWriter, r *http.Request) {
	n, err := scaleFactor(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	started, ok := h.pool.Decrease(n)
	h.writeScaleResult(w, started, ok)
}

// Status reports the pool's current state.
func (h *ControlHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pool.Status())
}

func (h *ControlHandler) writeScaleResult(w http.ResponseWriter, started int, ok bool) {
	if !ok {
		writeMessage(w, http.StatusOK, "Traffic generation already running.")
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Traffic generation started with %d workers.", started))
}

func scaleFactor(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return 2, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("n must be a positive integer")
	}
	return n, nil
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
