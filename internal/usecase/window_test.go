package usecase

import (
	"testing"
	"time"

	"github.com/user/stream-harness/internal/domain"
)

func TestWindowAggregator_Snapshot(t *testing.T) {
	w := NewWindowAggregator(30 * time.Second)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	w.Add(domain.Event{UserID: "User-1", VideoTitle: "A", Type: domain.EventPlay}, t0)
	w.Add(domain.Event{UserID: "User-1", VideoTitle: "A", Type: domain.EventSeek}, t0.Add(time.Second))
	w.Add(domain.Event{UserID: "User-2", VideoTitle: "B", Type: domain.EventPlay}, t0.Add(2*time.Second))

	agg := w.Snapshot(t0.Add(3 * time.Second))

	if agg.TotalLogs != 3 {
		t.Errorf("expected 3 logs, got %d", agg.TotalLogs)
	}
	if agg.UniqueUsers != 2 {
		t.Errorf("expected 2 unique users, got %d", agg.UniqueUsers)
	}
	if agg.EventCounts["play"] != 2 || agg.EventCounts["seek"] != 1 {
		t.Errorf("unexpected event counts: %v", agg.EventCounts)
	}
	if agg.VideoCounts["A"] != 2 || agg.VideoCounts["B"] != 1 {
		t.Errorf("unexpected video counts: %v", agg.VideoCounts)
	}
}

func TestWindowAggregator_PrunesExpired(t *testing.T) {
	w := NewWindowAggregator(30 * time.Second)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	w.Add(domain.Event{UserID: "User-1", Type: domain.EventPlay}, t0)
	w.Add(domain.Event{UserID: "User-2", Type: domain.EventPlay}, t0.Add(20*time.Second))

	agg := w.Snapshot(t0.Add(45 * time.Second))
	if agg.TotalLogs != 1 {
		t.Fatalf("expected 1 event left in window, got %d", agg.TotalLogs)
	}
	if agg.UniqueUsers != 1 {
		t.Errorf("expected 1 unique user, got %d", agg.UniqueUsers)
	}

	if size := w.Size(t0.Add(2 * time.Minute)); size != 0 {
		t.Errorf("expected empty window, got size %d", size)
	}
}
