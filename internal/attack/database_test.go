package attack

import (
	"path/filepath"
	"testing"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
)

func TestParseStrikeDim(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"1x4", 1, 4, false},
		{"2x12", 2, 12, false},
		{"3 x 2", 3, 2, false},
		{"x4", 0, 0, true},
		{"2x", 0, 0, true},
		{"garbage", 0, 0, true},
		{"0x4", 0, 0, true},
	}
	for _, tt := range tests {
		w, h, err := ParseStrikeDim(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got %dx%d", tt.in, w, h)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.in, err)
			continue
		}
		if w != tt.w || h != tt.h {
			t.Errorf("%q: got %dx%d, want %dx%d", tt.in, w, h, tt.w, tt.h)
		}
	}
}

func TestGenerateDefaultExactLookup(t *testing.T) {
	db := GenerateDefault(DefaultCalcConfig())
	if db.Len() == 0 {
		t.Fatal("generated database is empty")
	}

	combo := Combo{
		Clusters: []ClusterInfo{{Size: 4, Width: 2, Height: 2}},
		Chain:    3,
	}
	entry, ok := db.Resolve(combo)
	if !ok {
		t.Fatal("2x2 cluster at chain 3 not found")
	}
	if len(entry.Strikes) != 1 || entry.Strikes[0] != "2x6" {
		t.Errorf("strikes = %v, want [2x6]", entry.Strikes)
	}
	if entry.Garbage != 0 {
		t.Errorf("garbage = %d, want 0", entry.Garbage)
	}
}

func TestResolveFallsBackToNearestChain(t *testing.T) {
	db := NewDatabase()
	db.Set("4|0i|0b|2x", Entry{Strikes: []string{"2x4"}, Garbage: 2})

	// Chain 4 is missing; the chain-2 rule rescales by 4/2.
	combo := Combo{
		Clusters: []ClusterInfo{{Size: 4, Width: 2, Height: 2}},
		Chain:    4,
	}
	entry, ok := db.Resolve(combo)
	if !ok {
		t.Fatal("expected a rescaled match")
	}
	if len(entry.Strikes) != 1 || entry.Strikes[0] != "2x8" {
		t.Errorf("strikes = %v, want [2x8]", entry.Strikes)
	}
	if entry.Garbage != 4 {
		t.Errorf("garbage = %d, want 4", entry.Garbage)
	}
}

func TestResolveMissReturnsFalse(t *testing.T) {
	db := NewDatabase()
	if _, ok := db.Resolve(Combo{Individuals: 7, Chain: 1}); ok {
		t.Error("empty database resolved a combo")
	}
}

func TestRescaleCapsStrikeHeight(t *testing.T) {
	got := rescaleEntry(Entry{Strikes: []string{"2x10"}}, 2, 6)
	if len(got.Strikes) != 1 || got.Strikes[0] != "2x12" {
		t.Errorf("strikes = %v, want [2x12]", got.Strikes)
	}
}

func TestDatabaseYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attacks.yaml")

	db := NewDatabase()
	db.Set("4,4|0i|1b|1x", Entry{Strikes: []string{"2x4"}, Garbage: 1})
	db.Set("-|5i|1b|2x", Entry{Garbage: 5})
	if err := db.SaveYAML(path); err != nil {
		t.Fatalf("SaveYAML: %v", err)
	}

	loaded := NewDatabase()
	if err := loaded.LoadYAML(path); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("loaded %d rules, want 2", loaded.Len())
	}
	entry, ok := loaded.Resolve(Combo{Individuals: 5, Breakers: 1, Chain: 2})
	if !ok {
		t.Fatal("loaded rule not resolvable")
	}
	if entry.Garbage != 5 {
		t.Errorf("garbage = %d, want 5", entry.Garbage)
	}
}

func TestEntryPayloadsSkipsMalformedStrikes(t *testing.T) {
	e := Entry{Strikes: []string{"2x4", "bogus"}, Garbage: 3}
	payloads := e.Payloads(puzzle.Yellow)
	if len(payloads) != 2 {
		t.Fatalf("got %d payloads, want 2 (strike + garbage)", len(payloads))
	}
	if s, ok := payloads[0].(Strike); !ok || s.Width != 2 || s.Height != 4 {
		t.Errorf("payload 0 = %v, want 2x4 strike", payloads[0])
	}
	if g, ok := payloads[1].(Garbage); !ok || g.Count != 3 {
		t.Errorf("payload 1 = %v, want garbage x3", payloads[1])
	}
}

func TestCalculatorPrefersDatabase(t *testing.T) {
	db := NewDatabase()
	// Hand-tuned override: a lone 2x2 at chain 1 sends extra garbage.
	db.Set("4|0i|0b|1x", Entry{Strikes: []string{"1x4"}, Garbage: 9})

	calc := NewCalculator(DefaultCalcConfig(), db)
	payloads := calc.Compute(rectEvent(2, 2, 1, puzzle.Green, 0, 0))
	foundGarbage := false
	for _, p := range payloads {
		if g, ok := p.(Garbage); ok {
			foundGarbage = true
			if g.Count != 9 {
				t.Errorf("garbage = %d, want 9 from database override", g.Count)
			}
		}
	}
	if !foundGarbage {
		t.Error("database override garbage missing from payloads")
	}
}
