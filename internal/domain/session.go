package domain

// SessionStatus is the playback state of a viewing session.
type SessionStatus string

const (
	StatusPlaying   SessionStatus = "playing"
	StatusPaused    SessionStatus = "paused"
	StatusSeeking   SessionStatus = "seeking"
	StatusBuffering SessionStatus = "buffering"
	StatusStopped   SessionStatus = "stopped"
)

// Session is one simulated viewer's continuous watch attempt on a single
// catalog item. It is owned and mutated by exactly one worker.
type Session struct {
	OwnerID        string
	Item           CatalogItem
	WatchedSeconds int
	Status         SessionStatus
}

// NewSession starts a fresh session at position zero in the Playing state.
func NewSession(ownerID string, item CatalogItem) *Session {
	return &Session{
		OwnerID: ownerID,
		Item:    item,
		Status:  StatusPlaying,
	}
}

// Done reports whether the session has reached a terminal condition: either
// an explicit stop or exhaustion of the item's duration. A non-positive
// duration counts as already complete.
func (s *Session) Done() bool {
	return s.Status == StatusStopped || s.WatchedSeconds >= s.Item.DurationSeconds
}
