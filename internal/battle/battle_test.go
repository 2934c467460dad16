package battle

import (
	"reflect"
	"testing"
	"time"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/multiplayer"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/registry"
)

// Compile-time interface checks.
var (
	_ registry.Game          = (*Game)(nil)
	_ multiplayer.OnlineGame = (*Game)(nil)
)

func clusterEvent(chain int) puzzle.ComboEvent {
	ev := puzzle.ComboEvent{IsCluster: true, ChainMultiplier: chain}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			ev.Blocks = append(ev.Blocks, puzzle.BrokenBlock{X: x, Y: y, Color: puzzle.Red})
		}
	}
	return ev
}

func TestRouteSendsToOpponentOnly(t *testing.T) {
	now := time.Unix(0, 0)
	bt := NewBattle(DefaultConfig(), 1)

	bt.route(0, clusterEvent(1), now)

	if got := bt.Queue(1).PendingCount(); got != 1 {
		t.Errorf("opponent queue has %d payloads, want 1", got)
	}
	if got := bt.Queue(0).PendingCount(); got != 0 {
		t.Errorf("own queue has %d payloads, want 0", got)
	}
	if got := bt.Board(0).Stats().AttacksSent; got != 1 {
		t.Errorf("attacks sent = %d, want 1", got)
	}
}

func TestAttackLandsOnOpponentBoard(t *testing.T) {
	now := time.Unix(0, 0)
	bt := NewBattle(DefaultConfig(), 1)
	bt.Board(0).SpawnPiece(now)
	bt.Board(1).SpawnPiece(now)

	bt.route(0, clusterEvent(1), now)

	// Advance past the spawn delay; the strike should land on side 1.
	empty := core.NewMultiInputFrame()
	tick := 16 * time.Millisecond
	clock := now
	for i := 0; i < 100; i++ {
		clock = clock.Add(tick)
		bt.Update(clock, empty)
	}

	if got := bt.Queue(1).PendingCount(); got != 0 {
		t.Fatalf("queue still holds %d payloads", got)
	}
	if got := bt.Board(1).Stats().AttacksReceived; got != 1 {
		t.Errorf("attacks received = %d, want 1", got)
	}

	strikes := 0
	g := bt.Board(1).Grid()
	for y := 0; y < g.TotalHeight(); y++ {
		for x := 0; x < g.Width(); x++ {
			if c := g.At(x, y); c.Occupied && c.Tag.Kind == puzzle.KindStrike {
				strikes++
			}
		}
	}
	// A lone 2x2 cluster at chain 1 converts to a 1x4 strike.
	if strikes != 4 {
		t.Errorf("strike cells on opponent board = %d, want 4", strikes)
	}
}

func TestTopOutDecidesWinner(t *testing.T) {
	now := time.Unix(0, 0)
	bt := NewBattle(DefaultConfig(), 1)
	bt.Board(0).SpawnPiece(now)
	bt.Board(1).SpawnPiece(now)

	// Burying side 2 under garbage tops it out.
	bt.Board(1).PlaceGarbage(1000, puzzle.Red)

	bt.Update(now.Add(16*time.Millisecond), core.NewMultiInputFrame())
	if !bt.Over() {
		t.Fatal("battle not over after top-out")
	}
	if bt.Winner() != core.Player1 {
		t.Errorf("winner = %v, want Player1", bt.Winner())
	}
}

func TestSimultaneousTopOutIsDraw(t *testing.T) {
	now := time.Unix(0, 0)
	bt := NewBattle(DefaultConfig(), 1)
	bt.Board(0).PlaceGarbage(1000, puzzle.Red)
	bt.Board(1).PlaceGarbage(1000, puzzle.Blue)

	bt.Update(now, core.NewMultiInputFrame())
	if !bt.Over() {
		t.Fatal("battle not over")
	}
	if bt.Winner() != 0 {
		t.Errorf("winner = %v, want 0 (draw)", bt.Winner())
	}
}

func TestGameOverClearsPendingAttacks(t *testing.T) {
	now := time.Unix(0, 0)
	bt := NewBattle(DefaultConfig(), 1)
	bt.route(0, clusterEvent(1), now)
	bt.Board(0).PlaceGarbage(1000, puzzle.Red)

	bt.Update(now, core.NewMultiInputFrame())
	if got := bt.Queue(1).PendingCount(); got != 0 {
		t.Errorf("pending after game over = %d, want 0", got)
	}
}

func TestGameDeterminism(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42}

	run := func() Snapshot {
		g := New()
		g.Reset(cfg)
		in := core.NewInputFrame()
		for i := 0; i < 600; i++ {
			if i%7 == 0 {
				in.Set(core.ActionLeft)
			} else {
				in.Clear()
			}
			g.Step(in)
		}
		return g.Battle().Snapshot()
	}

	snap1 := run()
	snap2 := run()
	if !reflect.DeepEqual(snap1, snap2) {
		t.Error("same seed and inputs produced different battle states")
	}
}

func TestGameRestartAfterOver(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 3}
	g := NewLocal()
	g.Reset(cfg)

	g.Battle().Board(0).PlaceGarbage(1000, puzzle.Red)
	g.StepMulti(core.NewMultiInputFrame())
	if !g.IsGameOver() {
		t.Fatal("game not over after top-out")
	}
	if g.Winner() != core.Player2 {
		t.Errorf("winner = %v, want Player2", g.Winner())
	}

	restart := core.NewMultiInputFrame()
	in := core.NewInputFrame()
	in.Set(core.ActionRestart)
	restart.SetPlayer(core.Player1, in)
	g.StepMulti(restart)
	if g.IsGameOver() {
		t.Error("restart did not reset the battle")
	}
}

func TestCPUKeepsPlaying(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 9}
	g := New()
	g.Reset(cfg)

	in := core.NewInputFrame()
	for i := 0; i < 1200 && !g.IsGameOver(); i++ {
		g.Step(in)
	}
	// The CPU board must have an active piece or placed blocks by now.
	board := g.Battle().Board(1)
	placed := 0
	grid := board.Grid()
	for y := 0; y < grid.TotalHeight(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if grid.Occupied(x, y) {
				placed++
			}
		}
	}
	if board.Piece() == nil && placed == 0 {
		t.Error("CPU board shows no activity after 1200 ticks")
	}
}
