package attack

import (
	"testing"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
)

// looseEvent builds a break batch of scattered single blocks plus breakers.
func looseEvent(individuals, breakers, chain int) puzzle.ComboEvent {
	ev := puzzle.ComboEvent{ChainMultiplier: chain}
	for i := 0; i < individuals; i++ {
		// Checkerboard spread keeps blocks from touching each other.
		ev.Blocks = append(ev.Blocks, puzzle.BrokenBlock{
			X: (i * 2) % 6, Y: i / 3 * 2, Color: puzzle.BlockColor(i % puzzle.NumColors),
		})
	}
	for i := 0; i < breakers; i++ {
		ev.Blocks = append(ev.Blocks, puzzle.BrokenBlock{
			X: (i*2 + 1) % 6, Y: i/3*2 + 1, Color: puzzle.Red, Breaker: true,
		})
	}
	return ev
}

// rectEvent builds a solid w x h cluster of one color at an offset.
func rectEvent(w, h, chain int, color puzzle.BlockColor, offX, offY int) puzzle.ComboEvent {
	ev := puzzle.ComboEvent{IsCluster: true, ChainMultiplier: chain}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ev.Blocks = append(ev.Blocks, puzzle.BrokenBlock{X: offX + x, Y: offY + y, Color: color})
		}
	}
	return ev
}

func mergeEvents(events ...puzzle.ComboEvent) puzzle.ComboEvent {
	out := events[0]
	for _, ev := range events[1:] {
		out.Blocks = append(out.Blocks, ev.Blocks...)
		out.IsCluster = out.IsCluster || ev.IsCluster
	}
	return out
}

func singleGarbage(t *testing.T, payloads []Payload) Garbage {
	t.Helper()
	if len(payloads) != 1 {
		t.Fatalf("expected exactly one payload, got %d: %v", len(payloads), payloads)
	}
	g, ok := payloads[0].(Garbage)
	if !ok {
		t.Fatalf("expected garbage payload, got %T", payloads[0])
	}
	return g
}

func TestGarbageConservation(t *testing.T) {
	// Halved formula: garbage == floor(individuals * chain / 2), for every
	// loose-block count and chain level in play.
	calc := NewCalculator(DefaultCalcConfig(), nil)
	for individuals := 0; individuals <= 50; individuals++ {
		for chain := 1; chain <= 10; chain++ {
			payloads := calc.Compute(looseEvent(individuals, 1, chain))
			got := 0
			for _, p := range payloads {
				g, ok := p.(Garbage)
				if !ok {
					t.Fatalf("individuals=%d chain=%d: unexpected payload %T", individuals, chain, p)
				}
				got += g.Count
			}
			want := individuals * chain / 2
			if got != want {
				t.Errorf("individuals=%d chain=%d: garbage=%d, want %d", individuals, chain, got, want)
			}
		}
	}
}

func TestGarbageProductFormula(t *testing.T) {
	calc := NewCalculator(CalcConfig{Formula: FormulaProduct}, nil)
	g := singleGarbage(t, calc.Compute(looseEvent(5, 1, 3)))
	if g.Count != 15 {
		t.Errorf("product formula: garbage=%d, want 15", g.Count)
	}
}

func TestBreakersExcludedFromGarbage(t *testing.T) {
	calc := NewCalculator(DefaultCalcConfig(), nil)
	with := singleGarbage(t, calc.Compute(looseEvent(6, 3, 2)))
	without := singleGarbage(t, calc.Compute(looseEvent(6, 1, 2)))
	if with.Count != without.Count {
		t.Errorf("breakers changed garbage output: %d vs %d", with.Count, without.Count)
	}
	if with.Count != 6 {
		t.Errorf("garbage=%d, want 6", with.Count)
	}
}

func TestClusterStrikeScaling(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		chain   int
		strikes [][2]int
	}{
		{"2x2 chain 1", 2, 2, 1, [][2]int{{1, 4}}},
		{"2x2 chain 2", 2, 2, 2, [][2]int{{2, 4}}},
		{"2x2 chain 3", 2, 2, 3, [][2]int{{2, 6}}},
		{"2x2 chain 6", 2, 2, 6, [][2]int{{2, 12}}},
		{"2x2 chain 9 clamps", 2, 2, 9, [][2]int{{2, 12}}},
		{"3x3 chain 1", 3, 3, 1, [][2]int{{2, 4}}},
		{"3x3 chain 3", 3, 3, 3, [][2]int{{3, 9}}},
		{"3x3 chain 4", 3, 3, 4, [][2]int{{3, 12}}},
		{"3x2 chain 1", 3, 2, 1, [][2]int{{3, 2}}},
		{"2x3 chain 2", 2, 3, 2, [][2]int{{6, 2}}},
		{"3x2 chain 3", 3, 2, 3, [][2]int{{2, 12}}},
		{"4x4 chain 1 twin", 4, 4, 1, [][2]int{{1, 4}, {1, 4}}},
		{"4x4 chain 3 twin", 4, 4, 3, [][2]int{{2, 6}, {2, 6}}},
	}
	calc := NewCalculator(DefaultCalcConfig(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payloads := calc.Compute(rectEvent(tt.w, tt.h, tt.chain, puzzle.Blue, 0, 0))
			var got [][2]int
			for _, p := range payloads {
				s, ok := p.(Strike)
				if !ok {
					t.Fatalf("unexpected payload %T", p)
				}
				got = append(got, [2]int{s.Width, s.Height})
			}
			if len(got) != len(tt.strikes) {
				t.Fatalf("got %d strikes %v, want %v", len(got), got, tt.strikes)
			}
			for i := range got {
				if got[i] != tt.strikes[i] {
					t.Errorf("strike %d: got %dx%d, want %dx%d",
						i, got[i][0], got[i][1], tt.strikes[i][0], tt.strikes[i][1])
				}
			}
		})
	}
}

func TestCombinedClustersFoldIntoOneStrike(t *testing.T) {
	// Three 2x2 clusters breaking as one batch at chain 3 combine into a
	// single 2x12 instead of three separate 2x6 strikes.
	ev := mergeEvents(
		rectEvent(2, 2, 3, puzzle.Red, 0, 0),
		rectEvent(2, 2, 3, puzzle.Blue, 0, 4),
		rectEvent(2, 2, 3, puzzle.Green, 0, 8),
	)
	calc := NewCalculator(DefaultCalcConfig(), nil)
	payloads := calc.Compute(ev)
	if len(payloads) != 1 {
		t.Fatalf("expected one combined strike, got %d payloads: %v", len(payloads), payloads)
	}
	s, ok := payloads[0].(Strike)
	if !ok {
		t.Fatalf("expected strike, got %T", payloads[0])
	}
	if s.Width != 2 || s.Height != 12 {
		t.Errorf("combined strike is %dx%d, want 2x12", s.Width, s.Height)
	}
}

func TestCombineDisabledEmitsPerCluster(t *testing.T) {
	ev := mergeEvents(
		rectEvent(2, 2, 1, puzzle.Red, 0, 0),
		rectEvent(2, 2, 1, puzzle.Blue, 0, 4),
	)
	calc := NewCalculator(CalcConfig{Formula: FormulaHalved, CombineClusters: false}, nil)
	payloads := calc.Compute(ev)
	if len(payloads) != 2 {
		t.Fatalf("expected two strikes, got %d payloads: %v", len(payloads), payloads)
	}
	for _, p := range payloads {
		s := p.(Strike)
		if s.Width != 1 || s.Height != 4 {
			t.Errorf("strike is %dx%d, want 1x4", s.Width, s.Height)
		}
	}
}

func TestClassifySplitsClustersAndIndividuals(t *testing.T) {
	// One 2x2 red cluster plus two loose blocks and a breaker.
	ev := rectEvent(2, 2, 2, puzzle.Red, 0, 0)
	ev.Blocks = append(ev.Blocks,
		puzzle.BrokenBlock{X: 4, Y: 0, Color: puzzle.Blue},
		puzzle.BrokenBlock{X: 4, Y: 2, Color: puzzle.Green},
		puzzle.BrokenBlock{X: 5, Y: 5, Color: puzzle.Red, Breaker: true},
	)
	combo := Classify(ev)
	if len(combo.Clusters) != 1 || combo.Clusters[0].Size != 4 {
		t.Fatalf("clusters = %v, want one of size 4", combo.Clusters)
	}
	if combo.Individuals != 2 {
		t.Errorf("individuals = %d, want 2", combo.Individuals)
	}
	if combo.Breakers != 1 {
		t.Errorf("breakers = %d, want 1", combo.Breakers)
	}
	if combo.Chain != 2 {
		t.Errorf("chain = %d, want 2", combo.Chain)
	}
	if combo.Color != puzzle.Red {
		t.Errorf("dominant color = %s, want red", combo.Color)
	}
	if combo.TotalBlocks() != len(ev.Blocks) {
		t.Errorf("TotalBlocks = %d, want %d", combo.TotalBlocks(), len(ev.Blocks))
	}
}

func TestEmptyEventProducesNothing(t *testing.T) {
	calc := NewCalculator(DefaultCalcConfig(), nil)
	if payloads := calc.Compute(puzzle.ComboEvent{ChainMultiplier: 1}); payloads != nil {
		t.Errorf("empty event produced %v", payloads)
	}
}
