package domain

import (
	"encoding/json"
	"fmt"
)

// EventType identifies a playback action within a viewing session.
type EventType string

const (
	EventPlay      EventType = "play"
	EventPause     EventType = "pause"
	EventSeek      EventType = "seek"
	EventBuffering EventType = "buffering"
	EventStop      EventType = "stop"
)

// Valid reports whether t is one of the known playback event types.
func (t EventType) Valid() bool {
	switch t {
	case EventPlay, EventPause, EventSeek, EventBuffering, EventStop:
		return true
	}
	return false
}

// Event is the wire message emitted once per session tick. It is immutable
// after construction and serialized as a single UTF-8 JSON text frame.
type Event struct {
	UserID      string    `json:"user_id"`
	VideoID     string    `json:"video_id"`
	VideoTitle  string    `json:"video_title"`
	Type        EventType `json:"event"`
	TimeSeconds int       `json:"time_seconds"`
}

// Marshal serializes the event to its wire format.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// ParseEvent decodes a wire frame back into an Event. It rejects frames with
// an unknown event type or a negative playback position.
func ParseEvent(raw []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return Event{}, err
	}
	if !e.Type.Valid() {
		return Event{}, fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.TimeSeconds < 0 {
		return Event{}, fmt.Errorf("negative time_seconds %d", e.TimeSeconds)
	}
	return e, nil
}
