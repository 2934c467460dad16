package battle

import (
	"math/rand"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
)

// cpuActInterval is how many ticks pass between CPU key presses. At 60 ticks
// per second this is roughly eight inputs a second, around human speed.
const cpuActInterval = 8

// CPU is the scripted second player for offline battles. It steers each
// piece toward the emptiest column, flips the attached block occasionally
// and soft-drops once aligned.
type CPU struct {
	rng *rand.Rand

	targetCol int
	hasTarget bool
	cooldown  int
}

// NewCPU creates a CPU player with its own deterministic decision stream.
func NewCPU(seed int64) *CPU {
	return &CPU{rng: rand.New(rand.NewSource(seed))}
}

// Act returns the CPU's input for this tick given its own board.
func (c *CPU) Act(b *puzzle.Board) core.InputFrame {
	in := core.NewInputFrame()
	p := b.Piece()
	if p == nil {
		c.hasTarget = false
		return in
	}

	if !c.hasTarget {
		c.targetCol = c.chooseColumn(b)
		c.hasTarget = true
		// Randomize the attached block's side so stacks vary.
		if c.rng.Intn(2) == 0 {
			in.Set(core.ActionRotateCW)
		}
	}

	if c.cooldown > 0 {
		c.cooldown--
		return in
	}
	c.cooldown = cpuActInterval

	switch {
	case p.X < c.targetCol:
		in.Set(core.ActionRight)
	case p.X > c.targetCol:
		in.Set(core.ActionLeft)
	default:
		in.Set(core.ActionSoftDrop)
	}
	return in
}

// chooseColumn picks the column with the most free space, breaking ties
// randomly so the CPU does not always stack leftward.
func (c *CPU) chooseColumn(b *puzzle.Board) int {
	g := b.Grid()
	best := []int{0}
	bestDepth := -1
	for x := 0; x < g.Width(); x++ {
		y, ok := g.LowestEmptyRow(x)
		if !ok {
			continue
		}
		if y > bestDepth {
			bestDepth = y
			best = best[:0]
		}
		if y == bestDepth {
			best = append(best, x)
		}
	}
	return best[c.rng.Intn(len(best))]
}
