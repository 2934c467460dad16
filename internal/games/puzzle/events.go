package puzzle

// EventSink receives discrete gameplay notifications, fired at the moments
// the simulation commits them. The audio layer is the usual consumer; the
// simulation never waits on a sink.
type EventSink interface {
	// PiecePlaced fires when a falling piece locks into the grid.
	PiecePlaced()

	// SingleBreak fires when a non-chained break clears blocks.
	SingleBreak()

	// ComboBreak fires when a chained break clears blocks, with the
	// 1-based chain position.
	ComboBreak(chain int)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) PiecePlaced()   {}
func (NopSink) SingleBreak()   {}
func (NopSink) ComboBreak(int) {}

// AnimationStatusProvider lets the presentation layer hold the chain reaction
// in its gravity-wait state while falls are still animating. The simulation
// only honors it up to a timeout; a nil or stuck provider never stalls the
// chain.
type AnimationStatusProvider interface {
	AnimationsInProgress() bool
}
