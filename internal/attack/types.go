// Package attack turns combo events into garbage and strike payloads and
// delivers them onto the opposing board: pattern scaling tables, a tunable
// attack database, column rotation placement and delayed spawn timing.
package attack

import (
	"fmt"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
)

// Payload is one attack on its way to the opponent. Concrete types are
// Garbage and Strike.
type Payload interface {
	payload()

	// Cells returns how many grid cells the payload occupies on arrival.
	Cells() int
}

// Garbage is a batch of single garbage blocks, distributed round-robin
// across the opponent's columns.
type Garbage struct {
	Count int
	Color puzzle.BlockColor
}

func (Garbage) payload() {}

// Cells returns the block count.
func (g Garbage) Cells() int { return g.Count }

// String returns a short description for logs and queue summaries.
func (g Garbage) String() string {
	return fmt.Sprintf("garbage x%d %s", g.Count, g.Color)
}

// Strike is a contiguous width x height block placed as one unit.
type Strike struct {
	Width  int
	Height int
	Color  puzzle.BlockColor
}

func (Strike) payload() {}

// Cells returns width times height.
func (s Strike) Cells() int { return s.Width * s.Height }

// Pattern returns the strike's pattern name, e.g. "2x6_vertical".
func (s Strike) Pattern() string {
	if s.Width > s.Height {
		return fmt.Sprintf("%dx%d_horizontal", s.Width, s.Height)
	}
	return fmt.Sprintf("%dx%d_vertical", s.Width, s.Height)
}

// String returns a short description for logs and queue summaries.
func (s Strike) String() string {
	return fmt.Sprintf("strike %s %s", s.Pattern(), s.Color)
}
