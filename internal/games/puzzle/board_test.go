package puzzle

import (
	"testing"
	"time"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
)

func newTestBoard() *Board {
	return NewBoard(DefaultConfig(), 1, nil, nil)
}

func TestSpawnPieceAtColumnCenter(t *testing.T) {
	b := newTestBoard()
	now := time.Unix(0, 0)
	b.SpawnPiece(now)

	p := b.Piece()
	if p == nil {
		t.Fatal("no piece after spawn")
	}
	if p.X != 3 {
		t.Errorf("spawn column = %d, want 3", p.X)
	}
	if p.Y != -1 {
		t.Errorf("spawn row = %d, want -1 (above the grid)", p.Y)
	}
	if p.Orient != OrientTop {
		t.Errorf("spawn orientation = %v, want top", p.Orient)
	}
}

func TestUpdateSpawnsWhenNoPiece(t *testing.T) {
	b := newTestBoard()
	b.Update(time.Unix(0, 0), core.NewInputFrame())
	if b.Piece() == nil {
		t.Error("update did not spawn a piece")
	}
}

func TestPlacePieceSnapsAboveGridIntoTopRow(t *testing.T) {
	b := newTestBoard()
	now := time.Unix(0, 0)

	// A piece still above the grid: main at -1, attached at -2. Both rows
	// clamp to 0 and the main block wins the cell.
	b.piece = &FallingPiece{
		X: 2, Y: -1,
		Main:     BlockTag{Color: Red},
		Attached: BlockTag{Color: Blue},
		Orient:   OrientTop,
	}
	b.placePiece(now)

	// Gravity drops the surviving block to the floor.
	if got := b.grid.CountOccupied(); got != 1 {
		t.Fatalf("%d cells occupied, want 1 (main wins the conflict)", got)
	}
	if c := b.grid.At(2, 15); !c.Occupied || c.Tag.Color != Red {
		t.Error("surviving block is not the main block")
	}
}

func TestPlacePieceKeepsBothBlocks(t *testing.T) {
	b := newTestBoard()
	b.piece = &FallingPiece{
		X: 2, Y: 15,
		Main:     BlockTag{Color: Red},
		Attached: BlockTag{Color: Blue},
		Orient:   OrientTop,
	}
	b.placePiece(time.Unix(0, 0))

	if c := b.grid.At(2, 15); !c.Occupied || c.Tag.Color != Red {
		t.Error("main block missing from the floor")
	}
	if c := b.grid.At(2, 14); !c.Occupied || c.Tag.Color != Blue {
		t.Error("attached block missing above the main block")
	}
}

func TestPlaceGarbageRoundRobin(t *testing.T) {
	b := newTestBoard()
	if placed := b.PlaceGarbage(8, Green); placed != 8 {
		t.Fatalf("placed %d garbage blocks, want 8", placed)
	}

	// One full sweep fills the bottom row, the remainder wraps to columns 0
	// and 1.
	for x := 0; x < 6; x++ {
		c := b.grid.At(x, 15)
		if !c.Occupied || c.Tag.Kind != KindGarbage {
			t.Errorf("column %d bottom row missing garbage", x)
		}
	}
	for _, x := range []int{0, 1} {
		if c := b.grid.At(x, 14); !c.Occupied || c.Tag.Kind != KindGarbage {
			t.Errorf("column %d second row missing wrapped garbage", x)
		}
	}
	if got := b.Stats().AttacksReceived; got != 1 {
		t.Errorf("attacks received = %d, want 1", got)
	}
}

func TestPlaceGarbageSkipsFullColumns(t *testing.T) {
	b := newTestBoard()
	for y := 0; y < b.grid.TotalHeight(); y++ {
		b.grid.Set(0, y, red())
	}
	b.PlaceGarbage(2, Green)

	if c := b.grid.At(1, 15); !c.Occupied {
		t.Error("garbage skipped an open column")
	}
	if c := b.grid.At(2, 15); !c.Occupied {
		t.Error("second garbage block missing")
	}
}

func TestPlaceStrikeShiftsSpanToFit(t *testing.T) {
	b := newTestBoard()
	// Left edge at column 5 cannot fit a 3-wide strike; the span clamps to
	// columns 3..5.
	if placed := b.PlaceStrike(3, 2, 5, Red); placed != 6 {
		t.Fatalf("placed %d strike cells, want 6", placed)
	}
	for x := 3; x <= 5; x++ {
		for y := 14; y <= 15; y++ {
			c := b.grid.At(x, y)
			if !c.Occupied || c.Tag.Kind != KindStrike {
				t.Errorf("strike cell missing at (%d, %d)", x, y)
			}
		}
	}
	if b.grid.Occupied(2, 15) {
		t.Error("strike leaked left of its span")
	}
}

func TestPlaceStrikeTruncatesHeight(t *testing.T) {
	b := newTestBoard()
	placed := b.PlaceStrike(1, 30, 0, Red)
	if placed != b.grid.TotalHeight() {
		t.Errorf("placed %d cells, want the full column (%d)", placed, b.grid.TotalHeight())
	}
}

func TestPlaceStrikeLandsOnHighestColumn(t *testing.T) {
	b := newTestBoard()
	// A stack in column 1 raises the landing row for a 2-wide strike.
	b.grid.Set(1, 15, red())
	b.grid.Set(1, 14, red())

	b.PlaceStrike(2, 1, 0, Blue)
	for _, x := range []int{0, 1} {
		c := b.grid.At(x, 13)
		if !c.Occupied || c.Tag.Kind != KindStrike {
			t.Errorf("strike cell missing at (%d, 13)", x)
		}
	}
	if b.grid.Occupied(0, 15) {
		t.Error("strike fell through below the common landing row")
	}
}

func TestLandingsConvertGarbageAfterTwoPlacements(t *testing.T) {
	b := newTestBoard()
	b.grid.Set(0, 15, garbage())
	now := time.Unix(0, 0)

	place := func(x int) {
		b.piece = &FallingPiece{
			X: x, Y: 15,
			Main:     BlockTag{Color: Red},
			Attached: BlockTag{Color: Red},
			Orient:   OrientTop,
		}
		b.placePiece(now)
		b.chain.Reset() // landings are what this test is about
	}

	place(4)
	if got := b.grid.At(0, 15).Tag.Kind; got != KindGarbage {
		t.Fatal("garbage converted after a single landing")
	}
	place(2)
	if got := b.grid.At(0, 15).Tag.Kind; got != KindNormal {
		t.Errorf("garbage kind after two landings = %v, want normal", got)
	}
}

func TestGameOverOnSpawnColumnOverflow(t *testing.T) {
	b := newTestBoard()
	b.grid.Set(3, 0, red()) // overflow row of the game-over column
	b.checkGameOver()
	if !b.GameOver() {
		t.Error("occupied overflow cell in column 3 did not end the game")
	}

	b2 := newTestBoard()
	b2.grid.Set(0, 0, red()) // other columns may overflow freely
	b2.checkGameOver()
	if b2.GameOver() {
		t.Error("overflow outside the game-over column ended the game")
	}
}

func TestUpdateStopsAfterGameOver(t *testing.T) {
	b := newTestBoard()
	b.PlaceGarbage(1000, Red)
	if !b.GameOver() {
		t.Fatal("burying the board did not end the game")
	}
	if events := b.Update(time.Unix(0, 0), core.NewInputFrame()); events != nil {
		t.Error("dead board still emits combo events")
	}
	if b.Piece() != nil {
		t.Error("dead board spawned a piece")
	}
}

func TestSoftDropInputAccelerates(t *testing.T) {
	b := newTestBoard()
	now := time.Unix(0, 0)
	b.SpawnPiece(now)

	in := core.NewInputFrame()
	in.Set(core.ActionSoftDrop)
	b.Update(now.Add(16*time.Millisecond), in)
	if !b.phys.Accelerated() {
		t.Error("soft drop input did not accelerate the fall")
	}

	b.Update(now.Add(32*time.Millisecond), core.NewInputFrame())
	if b.phys.Accelerated() {
		t.Error("fall stayed accelerated after the key released")
	}
}

func TestMoveInputShiftsPiece(t *testing.T) {
	b := newTestBoard()
	now := time.Unix(0, 0)
	b.SpawnPiece(now)

	in := core.NewInputFrame()
	in.Set(core.ActionLeft)
	b.Update(now.Add(16*time.Millisecond), in)
	if got := b.Piece().X; got != 2 {
		t.Errorf("piece at x=%d after left input, want 2", got)
	}
}

func TestSetFallTuningRetunesPhysicsAndDraws(t *testing.T) {
	b := newTestBoard()
	base := b.phys.microInterval()

	b.SetFallTuning(b.cfg.NormalFall/2, 1.0)
	if got := b.phys.microInterval(); got >= base {
		t.Errorf("micro interval = %v after halving the fall, want < %v", got, base)
	}
	for i := 0; i < 20; i++ {
		if tag := b.randomBlock(); tag.Kind != KindBreaker {
			t.Fatalf("draw %d = %v with breaker chance 1.0, want breaker", i, tag.Kind)
		}
	}

	b.SetFallTuning(b.cfg.NormalFall, 0.0)
	for i := 0; i < 20; i++ {
		if tag := b.randomBlock(); tag.Kind == KindBreaker {
			t.Fatalf("draw %d is a breaker with breaker chance 0.0", i)
		}
	}
}
