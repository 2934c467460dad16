package attack

import (
	"time"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
)

// QueueConfig tunes delivery timing.
type QueueConfig struct {
	// SpawnDelay is how long a payload waits after enqueue before it may land.
	SpawnDelay time.Duration `yaml:"spawn_delay"`
	// FallCadence is the minimum interval between consecutive deliveries.
	FallCadence time.Duration `yaml:"fall_cadence"`
	// Expiry cancels payloads still queued after this long, keeping a stalled
	// match from accumulating stale attacks. Zero disables expiry.
	Expiry time.Duration `yaml:"expiry"`
}

// DefaultQueueConfig returns the reference timing.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		SpawnDelay:  1000 * time.Millisecond,
		FallCadence: 200 * time.Millisecond,
		Expiry:      30 * time.Second,
	}
}

// Queue holds one player's incoming attacks and feeds them onto that player's
// board in arrival order, one payload per cadence interval. Strikes pull
// their entry column from the queue's rotator.
type Queue struct {
	cfg     QueueConfig
	rotator *ColumnRotator
	tracker *Tracker

	pending  []*TrackedPayload
	lastStep time.Time
}

// NewQueue creates an empty queue with its own column rotation.
func NewQueue(cfg QueueConfig) *Queue {
	if cfg.FallCadence <= 0 {
		cfg.FallCadence = DefaultQueueConfig().FallCadence
	}
	return &Queue{
		cfg:     cfg,
		rotator: NewColumnRotator(),
		tracker: NewTracker(64),
	}
}

// Enqueue adds a payload, stamping its earliest delivery time.
func (q *Queue) Enqueue(p Payload, now time.Time) *TrackedPayload {
	tp := q.tracker.Track(p, now, now.Add(q.cfg.SpawnDelay))
	q.pending = append(q.pending, tp)
	return tp
}

// Process delivers at most one due payload onto the board and returns the
// payloads completed during this call. Delivery pauses while the board's
// chain reaction is running so arriving blocks never interleave with breaks.
func (q *Queue) Process(now time.Time, board *puzzle.Board) []*TrackedPayload {
	var done []*TrackedPayload
	done = q.expire(now, done)

	if len(q.pending) == 0 || board.GameOver() || board.Chain().InProgress() {
		return done
	}
	head := q.pending[0]
	if now.Before(head.SpawnAt) {
		return done
	}
	if !q.lastStep.IsZero() && now.Sub(q.lastStep) < q.cfg.FallCadence {
		return done
	}

	head.State = StateDelivering
	q.deliver(head.Payload, board)
	q.tracker.Complete(head, StateDelivered, now)
	q.pending = q.pending[1:]
	q.lastStep = now
	return append(done, head)
}

func (q *Queue) deliver(p Payload, board *puzzle.Board) {
	switch a := p.(type) {
	case Garbage:
		board.PlaceGarbage(a.Count, a.Color)
	case Strike:
		board.PlaceStrike(a.Width, a.Height, q.rotator.Next(), a.Color)
	}
}

func (q *Queue) expire(now time.Time, done []*TrackedPayload) []*TrackedPayload {
	if q.cfg.Expiry <= 0 {
		return done
	}
	kept := q.pending[:0]
	for _, tp := range q.pending {
		if now.Sub(tp.EnqueuedAt) >= q.cfg.Expiry {
			q.tracker.Complete(tp, StateCancelled, now)
			done = append(done, tp)
			continue
		}
		kept = append(kept, tp)
	}
	q.pending = kept
	return done
}

// Clear cancels everything still pending, e.g. when the match ends.
func (q *Queue) Clear(now time.Time) {
	for _, tp := range q.pending {
		q.tracker.Complete(tp, StateCancelled, now)
	}
	q.pending = nil
}

// PendingCount returns the number of undelivered payloads.
func (q *Queue) PendingCount() int { return len(q.pending) }

// PendingCells returns the total grid cells waiting to land, the number shown
// in the incoming-attack warning.
func (q *Queue) PendingCells() int {
	cells := 0
	for _, tp := range q.pending {
		cells += tp.Payload.Cells()
	}
	return cells
}

// Pending returns short descriptions of the waiting payloads, in order.
func (q *Queue) Pending() []string {
	out := make([]string, 0, len(q.pending))
	for _, tp := range q.pending {
		switch a := tp.Payload.(type) {
		case Garbage:
			out = append(out, a.String())
		case Strike:
			out = append(out, a.String())
		}
	}
	return out
}

// History exposes the completed payload log.
func (q *Queue) History() []*TrackedPayload {
	return q.tracker.History()
}
