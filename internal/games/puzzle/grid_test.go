package puzzle

import "testing"

func newTestGrid() *Grid {
	return NewGrid(6, 15, 1)
}

func red() BlockTag     { return BlockTag{Color: Red} }
func blue() BlockTag    { return BlockTag{Color: Blue} }
func redBrk() BlockTag  { return BlockTag{Color: Red, Kind: KindBreaker} }
func garbage() BlockTag { return BlockTag{Color: Green, Kind: KindGarbage} }

func TestIsValid(t *testing.T) {
	g := newTestGrid()
	g.Set(2, 10, red())

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"empty interior", 0, 5, true},
		{"above grid", 3, -2, true},
		{"left of board", -1, 5, false},
		{"right of board", 6, 5, false},
		{"below floor", 0, 16, false},
		{"occupied", 2, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsValid(tt.x, tt.y); got != tt.want {
				t.Errorf("IsValid(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestLowestEmptyRow(t *testing.T) {
	g := newTestGrid()

	y, ok := g.LowestEmptyRow(0)
	if !ok || y != 15 {
		t.Errorf("empty column: got (%d, %v), want (15, true)", y, ok)
	}

	g.Set(0, 15, red())
	y, ok = g.LowestEmptyRow(0)
	if !ok || y != 14 {
		t.Errorf("one block: got (%d, %v), want (14, true)", y, ok)
	}

	for row := 0; row < g.TotalHeight(); row++ {
		g.Set(3, row, red())
	}
	if _, ok := g.LowestEmptyRow(3); ok {
		t.Error("full column reported an empty row")
	}
}

func TestApplyGravityReachesFixpoint(t *testing.T) {
	g := newTestGrid()
	g.Set(0, 3, red())
	g.Set(0, 8, blue())
	g.Set(4, 0, red())
	g.Set(5, 12, blue())

	if !g.ApplyGravity() {
		t.Fatal("gravity moved nothing on a floating layout")
	}
	if g.ApplyGravity() {
		t.Error("second gravity pass still moved blocks")
	}

	// Every block must rest on the floor or on another block.
	for y := 0; y < g.TotalHeight(); y++ {
		for x := 0; x < g.Width(); x++ {
			if !g.Occupied(x, y) {
				continue
			}
			if y == g.TotalHeight()-1 || g.Occupied(x, y+1) {
				continue
			}
			t.Errorf("block at (%d, %d) is unsupported after gravity", x, y)
		}
	}
	if got := g.CountOccupied(); got != 4 {
		t.Errorf("gravity changed block count: %d, want 4", got)
	}
}

func TestGravityClearsOverflowRow(t *testing.T) {
	g := newTestGrid()
	g.Set(3, 0, red()) // docked at the spawn boundary

	g.ApplyGravity()
	if g.Occupied(3, 0) {
		t.Error("overflow row block did not fall")
	}
	if !g.Occupied(3, 15) {
		t.Error("block did not reach the floor")
	}
}

func TestIncrementLandingsConversion(t *testing.T) {
	g := newTestGrid()
	g.Set(0, 15, garbage())
	g.Set(1, 15, BlockTag{Color: Red, Kind: KindStrike})
	g.Set(2, 15, red())

	if n := g.IncrementLandings(2, 3); n != 0 {
		t.Errorf("first landing converted %d cells, want 0", n)
	}
	if n := g.IncrementLandings(2, 3); n != 1 {
		t.Errorf("second landing converted %d cells, want 1 (garbage)", n)
	}
	if got := g.At(0, 15).Tag.Kind; got != KindNormal {
		t.Errorf("garbage kind after conversion = %v, want normal", got)
	}
	if got := g.At(0, 15).Tag.Color; got != Green {
		t.Errorf("converted block lost its color: %v", got)
	}

	// The strike needs a third landing.
	if got := g.At(1, 15).Tag.Kind; got != KindStrike {
		t.Error("strike converted early")
	}
	if n := g.IncrementLandings(2, 3); n != 1 {
		t.Errorf("third landing converted %d cells, want 1 (strike)", n)
	}
	if got := g.At(1, 15).Tag.Kind; got != KindNormal {
		t.Errorf("strike kind after conversion = %v, want normal", got)
	}

	// Normal blocks never carry a landings counter.
	if got := g.At(2, 15).Landings; got != 0 {
		t.Errorf("normal block accumulated landings: %d", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := newTestGrid()
	g.Set(2, 14, red())

	c := g.Clone()
	c.ClearCell(2, 14)
	if !g.Occupied(2, 14) {
		t.Error("mutating the clone changed the original")
	}
}
