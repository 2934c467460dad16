package attack

import "time"

// DeliveryState is a payload's position in its delivery lifecycle.
type DeliveryState int

const (
	StateQueued DeliveryState = iota
	StateDelivering
	StateDelivered
	StateCancelled
)

// String returns a human-readable name for the state.
func (s DeliveryState) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateDelivering:
		return "delivering"
	case StateDelivered:
		return "delivered"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// TrackedPayload is one queue entry with its identity and timing.
type TrackedPayload struct {
	ID      int
	Payload Payload
	State   DeliveryState

	EnqueuedAt  time.Time
	SpawnAt     time.Time // earliest delivery time
	DeliveredAt time.Time
}

// Tracker assigns payload IDs and keeps a bounded history of completed
// payloads for logs and post-match summaries.
type Tracker struct {
	nextID  int
	history []*TrackedPayload
	keep    int
}

// NewTracker creates a tracker retaining up to keep completed payloads.
func NewTracker(keep int) *Tracker {
	if keep < 1 {
		keep = 32
	}
	return &Tracker{nextID: 1, keep: keep}
}

// Track wraps a payload in a tracked entry in the queued state.
func (t *Tracker) Track(p Payload, now, spawnAt time.Time) *TrackedPayload {
	tp := &TrackedPayload{
		ID:         t.nextID,
		Payload:    p,
		State:      StateQueued,
		EnqueuedAt: now,
		SpawnAt:    spawnAt,
	}
	t.nextID++
	return tp
}

// Complete moves a payload to a terminal state and records it in history.
func (t *Tracker) Complete(tp *TrackedPayload, state DeliveryState, now time.Time) {
	tp.State = state
	tp.DeliveredAt = now
	t.history = append(t.history, tp)
	if len(t.history) > t.keep {
		t.history = t.history[len(t.history)-t.keep:]
	}
}

// History returns the retained completed payloads, oldest first.
func (t *Tracker) History() []*TrackedPayload {
	return t.history
}
