package usecase

import (
	"sync"
	"time"

	"github.com/user/stream-harness/internal/domain"
)

// Aggregate summarizes the events observed inside the sliding window.
type Aggregate struct {
	Timestamp   string         `json:"timestamp"`
	EventCounts map[string]int `json:"event_counts"`
	VideoCounts map[string]int `json:"video_counts"`
	UniqueUsers int            `json:"unique_users"`
	TotalLogs   int            `json:"total_logs"`
}

type windowEntry struct {
	event domain.Event
	at    time.Time
}

// WindowAggregator keeps the events seen within the last window duration and
// computes rollups over them. Time is always passed in by the caller, so the
// aggregator is deterministic under test.
type WindowAggregator struct {
	window  time.Duration
	mu      sync.Mutex
	entries []windowEntry
}

// NewWindowAggregator creates an aggregator over the given window duration.
func NewWindowAggregator(window time.Duration) *WindowAggregator {
	return &WindowAggregator{window: window}
}

// Add records one event observed at the given time.
func (w *WindowAggregator) Add(ev domain.Event, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, windowEntry{event: ev, at: now})
	w.pruneLocked(now)
}

// Size returns the number of events currently inside the window.
func (w *WindowAggregator) Size(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pruneLocked(now)
	return len(w.entries)
}

// Snapshot prunes expired entries and returns the current rollups.
func (w *WindowAggregator) Snapshot(now time.Time) Aggregate {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pruneLocked(now)

	agg := Aggregate{
		Timestamp:   now.UTC().Format(time.RFC3339),
		EventCounts: make(map[string]int),
		VideoCounts: make(map[string]int),
		TotalLogs:   len(w.entries),
	}
	users := make(map[string]struct{})
	for _, e := range w.entries {
		agg.EventCounts[string(e.event.Type)]++
		agg.VideoCounts[e.event.VideoTitle]++
		users[e.event.UserID] = struct{}{}
	}
	agg.UniqueUsers = len(users)
	return agg
}

func (w *WindowAggregator) pruneLocked(now time.Time) {
	cutoff := now.Add(-w.window)
	i := 0
	for i < len(w.entries) && w.entries[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		w.entries = append(w.entries[:0], w.entries[i:]...)
	}
}
