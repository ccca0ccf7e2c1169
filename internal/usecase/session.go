package usecase

import (
	"math/rand"

	"github.com/user/stream-harness/internal/domain"
)

// Relative frequencies of playback actions, mirroring observed viewing
// behavior: mostly uninterrupted playback with occasional seeks and stalls.
var (
	tickEventTypes   = []domain.EventType{domain.EventPlay, domain.EventPause, domain.EventSeek, domain.EventBuffering, domain.EventStop}
	tickEventWeights = []float64{50, 10, 20, 10, 10}
)

const (
	maxSeekOffsetSeconds = 300 // seeks jump at most five minutes either way
	minAdvanceSeconds    = 10
	maxAdvanceSeconds    = 60
)

// SessionTicker produces the next playback event for a session.
type SessionTicker interface {
	Tick(s *domain.Session) domain.Event
}

// SessionMachine is the pure session state machine. It performs no I/O; all
// randomness comes from the injected source, so behavior is reproducible
// under a fixed seed.
type SessionMachine struct {
	rng *rand.Rand
}

// NewSessionMachine creates a machine drawing from the given random source.
func NewSessionMachine(rng *rand.Rand) *SessionMachine {
	return &SessionMachine{rng: rng}
}

// Tick advances the session by one event and returns it. A seek moves the
// playback position by a uniform offset in [-300, 300] seconds, clamped to
// [0, duration]; it is the only event that can move time backward. A stop
// transitions the session to its terminal state. Any other event advances
// the position by a uniform [10, 60] seconds of simulated playback in
// preparation for the next tick.
func (m *SessionMachine) Tick(s *domain.Session) domain.Event {
	et := tickEventTypes[domain.WeightedIndex(m.rng, tickEventWeights)]

	if et == domain.EventSeek {
		offset := m.rng.Intn(2*maxSeekOffsetSeconds+1) - maxSeekOffsetSeconds
		s.WatchedSeconds = clamp(s.WatchedSeconds+offset, 0, s.Item.DurationSeconds)
	}

	ev := domain.Event{
		UserID:      s.OwnerID,
		VideoID:     s.Item.ID,
		VideoTitle:  s.Item.Title,
		Type:        et,
		TimeSeconds: s.WatchedSeconds,
	}

	s.Status = statusFor(et)
	if et != domain.EventStop {
		s.WatchedSeconds += minAdvanceSeconds + m.rng.Intn(maxAdvanceSeconds-minAdvanceSeconds+1)
	}

	return ev
}

func statusFor(et domain.EventType) domain.SessionStatus {
	switch et {
	case domain.EventPause:
		return domain.StatusPaused
	case domain.EventSeek:
		return domain.StatusSeeking
	case domain.EventBuffering:
		return domain.StatusBuffering
	case domain.EventStop:
		return domain.StatusStopped
	default:
		return domain.StatusPlaying
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
