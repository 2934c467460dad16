package puzzle

import (
	"testing"
	"time"
)

// runChain drives a chain reaction to completion in small time steps,
// collecting every combo event. Fails the test if the chain outlives the
// global timeout by a wide margin.
func runChain(t *testing.T, g *Grid, cr *ChainReaction) []ComboEvent {
	t.Helper()
	now := time.Unix(0, 0)
	cr.Start(now)

	var events []ComboEvent
	for i := 0; i < 1000; i++ {
		now = now.Add(10 * time.Millisecond)
		events = append(events, cr.Update(g, now, nil)...)
		if !cr.InProgress() {
			return events
		}
	}
	t.Fatal("chain reaction never finished")
	return nil
}

func TestBreakerClearsAdjacentGroup(t *testing.T) {
	g := newTestGrid()
	g.Set(0, 15, red())
	g.Set(1, 15, redBrk())
	g.Set(3, 15, blue()) // unrelated block stays

	cr := NewChainReaction(DefaultConfig(), nil)
	events := runChain(t, g, cr)

	if len(events) != 1 {
		t.Fatalf("got %d combo events, want 1", len(events))
	}
	ev := events[0]
	if len(ev.Blocks) != 2 {
		t.Errorf("broke %d blocks, want 2", len(ev.Blocks))
	}
	if ev.ChainMultiplier != 1 {
		t.Errorf("chain multiplier = %d, want 1", ev.ChainMultiplier)
	}
	if g.Occupied(0, 15) || g.Occupied(1, 15) {
		t.Error("broken cells still occupied")
	}
	if !g.Occupied(3, 15) {
		t.Error("unrelated block was cleared")
	}
}

func TestBreakerNeedsSameColorNeighbor(t *testing.T) {
	g := newTestGrid()
	g.Set(0, 15, blue())
	g.Set(1, 15, redBrk()) // no red neighbor

	cr := NewChainReaction(DefaultConfig(), nil)
	events := runChain(t, g, cr)

	if len(events) != 0 {
		t.Errorf("got %d combo events, want 0", len(events))
	}
	if !g.Occupied(1, 15) {
		t.Error("inert breaker was cleared")
	}
}

func TestBreakerIgnoresGarbage(t *testing.T) {
	g := newTestGrid()
	g.Set(0, 15, BlockTag{Color: Red, Kind: KindGarbage})
	g.Set(1, 15, redBrk())

	cr := NewChainReaction(DefaultConfig(), nil)
	events := runChain(t, g, cr)

	if len(events) != 0 {
		t.Errorf("garbage triggered %d combo events", len(events))
	}
}

func TestChainMultiplierIncrements(t *testing.T) {
	g := newTestGrid()
	// Batch 1: the red pair on the floor. The blue breaker above then falls
	// next to the blue block and fires batch 2.
	g.Set(0, 15, red())
	g.Set(1, 15, redBrk())
	g.Set(0, 13, BlockTag{Color: Blue, Kind: KindBreaker})
	g.Set(1, 14, blue())

	cr := NewChainReaction(DefaultConfig(), nil)
	events := runChain(t, g, cr)

	if len(events) != 2 {
		t.Fatalf("got %d combo events, want 2", len(events))
	}
	if events[0].ChainMultiplier != 1 {
		t.Errorf("first batch multiplier = %d, want 1", events[0].ChainMultiplier)
	}
	if events[1].ChainMultiplier != 2 {
		t.Errorf("second batch multiplier = %d, want 2", events[1].ChainMultiplier)
	}
	if g.CountOccupied() != 0 {
		t.Errorf("%d cells left after full cascade", g.CountOccupied())
	}
}

func TestClusterBreakMarksEvent(t *testing.T) {
	g := newTestGrid()
	fillRect(g, 0, 14, 2, 2, red())
	g.Set(2, 15, redBrk())

	cr := NewChainReaction(DefaultConfig(), nil)
	events := runChain(t, g, cr)

	if len(events) != 1 {
		t.Fatalf("got %d combo events, want 1", len(events))
	}
	if !events[0].IsCluster {
		t.Error("cluster break not flagged as cluster")
	}
	if len(events[0].Blocks) != 5 {
		t.Errorf("broke %d blocks, want 5 (cluster + breaker)", len(events[0].Blocks))
	}
}

func TestChainTimeoutForcesSettle(t *testing.T) {
	g := newTestGrid()
	g.Set(0, 15, red())
	g.Set(1, 15, redBrk())
	g.Set(4, 3, blue()) // floating, must settle on abort

	cfg := DefaultConfig()
	cr := NewChainReaction(cfg, nil)
	now := time.Unix(0, 0)
	cr.Start(now)

	// Jump straight past the global timeout.
	cr.Update(g, now.Add(cfg.ChainTimeout+time.Second), nil)
	if cr.InProgress() {
		t.Error("chain still in progress past the timeout")
	}
	if !g.Occupied(4, 15) {
		t.Error("floating block not settled by the abort path")
	}
	if !g.Occupied(0, 15) {
		t.Error("timeout abort cleared blocks")
	}
}

func TestBreakWaitsForBreakDuration(t *testing.T) {
	g := newTestGrid()
	g.Set(0, 15, red())
	g.Set(1, 15, redBrk())

	cfg := DefaultConfig()
	cr := NewChainReaction(cfg, nil)
	now := time.Unix(0, 0)
	cr.Start(now)

	cr.Update(g, now, nil) // idle scan arms the break
	if cr.Phase() != PhaseBreaking {
		t.Fatalf("phase = %v, want breaking", cr.Phase())
	}
	if g.CountOccupied() != 2 {
		t.Error("blocks cleared before the break duration elapsed")
	}

	events := cr.Update(g, now.Add(cfg.BreakDuration/2), nil)
	if len(events) != 0 {
		t.Error("break committed early")
	}
	events = cr.Update(g, now.Add(cfg.BreakDuration+10*time.Millisecond), nil)
	if len(events) != 1 {
		t.Fatalf("break not committed after the duration: %d events", len(events))
	}
}

func TestResetReturnsToIdle(t *testing.T) {
	g := newTestGrid()
	g.Set(0, 15, red())
	g.Set(1, 15, redBrk())

	cr := NewChainReaction(DefaultConfig(), nil)
	now := time.Unix(0, 0)
	cr.Start(now)
	cr.Update(g, now, nil)

	cr.Reset()
	if cr.InProgress() || cr.Phase() != PhaseIdle {
		t.Error("reset did not return the machine to idle")
	}
	if cr.Update(g, now.Add(time.Second), nil) != nil {
		t.Error("idle machine emitted events")
	}
}
