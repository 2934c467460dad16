package puzzle

import (
	"math/rand"
	"time"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
)

// Stats accumulates per-board scoring counters.
type Stats struct {
	Score           int
	BlocksBroken    int
	MaxChain        int
	AttacksSent     int
	AttacksReceived int
}

// Board is one complete side of a battle: grid, falling piece, physics and
// chain reaction. Boards never touch each other; attacks arrive only through
// PlaceGarbage and PlaceStrike.
type Board struct {
	cfg   Config
	grid  *Grid
	phys  *Physics
	chain *ChainReaction
	rng   *rand.Rand
	sink  EventSink

	piece *FallingPiece
	next  [2]BlockTag

	stats    Stats
	gameOver bool
}

// NewBoard creates a board with a fresh grid and a seeded piece stream.
// sink and anim may be nil.
func NewBoard(cfg Config, seed int64, sink EventSink, anim AnimationStatusProvider) *Board {
	if sink == nil {
		sink = NopSink{}
	}
	b := &Board{
		cfg:   cfg,
		grid:  NewGrid(cfg.Width, cfg.VisibleHeight, cfg.HiddenRows),
		phys:  NewPhysics(cfg),
		chain: NewChainReaction(cfg, anim),
		rng:   rand.New(rand.NewSource(seed)),
		sink:  sink,
	}
	b.next = [2]BlockTag{b.randomBlock(), b.randomBlock()}
	return b
}

// Grid exposes the board's grid for inspection. Mutation belongs to the board.
func (b *Board) Grid() *Grid { return b.grid }

// Piece returns the current falling piece, or nil between pieces.
func (b *Board) Piece() *FallingPiece { return b.piece }

// NextPiece returns the upcoming main and attached blocks.
func (b *Board) NextPiece() (BlockTag, BlockTag) { return b.next[0], b.next[1] }

// Chain exposes the chain reaction state.
func (b *Board) Chain() *ChainReaction { return b.chain }

// Stats returns the accumulated counters.
func (b *Board) Stats() Stats { return b.stats }

// GameOver reports whether the spawn column overflowed.
func (b *Board) GameOver() bool { return b.gameOver }

// SetFallTuning retunes the passive fall speed and breaker probability.
// Difficulty progression calls this between ticks; the change applies to the
// current piece's next micro-step and to future block draws.
func (b *Board) SetFallTuning(normal time.Duration, breaker float64) {
	b.cfg.NormalFall = normal
	b.cfg.BreakerChance = breaker
	b.phys.cfg.NormalFall = normal
}

func (b *Board) randomBlock() BlockTag {
	tag := BlockTag{Color: BlockColor(b.rng.Intn(NumColors))}
	if b.rng.Float64() < b.cfg.BreakerChance {
		tag.Kind = KindBreaker
	}
	return tag
}

// SpawnPiece puts a new piece at the spawn position above the grid. The next
// preview shifts down and a fresh pair is drawn.
func (b *Board) SpawnPiece(now time.Time) {
	b.piece = &FallingPiece{
		X:        b.cfg.Width / 2,
		Y:        -1,
		SubPos:   b.cfg.SpawnSubPos,
		Main:     b.next[0],
		Attached: b.next[1],
		Orient:   OrientTop,
	}
	b.next = [2]BlockTag{b.randomBlock(), b.randomBlock()}
	b.phys.ResetPiece(now)
}

// Update advances the board by one tick: chain reaction first, then piece
// input and fall physics. Returns the combo events committed this tick.
func (b *Board) Update(now time.Time, in core.InputFrame) []ComboEvent {
	if b.gameOver {
		return nil
	}

	// The next piece waits until the chain settles.
	if b.chain.InProgress() {
		events := b.chain.Update(b.grid, now, b.sink)
		for _, ev := range events {
			b.recordCombo(ev)
		}
		if !b.chain.InProgress() {
			b.checkGameOver()
		}
		return events
	}

	if b.piece == nil {
		b.SpawnPiece(now)
	}

	b.applyInput(now, in)

	if b.phys.Advance(b.grid, b.piece, now) {
		b.placePiece(now)
	}
	return nil
}

func (b *Board) applyInput(now time.Time, in core.InputFrame) {
	if in.Has(core.ActionLeft) {
		b.phys.Move(b.grid, b.piece, -1, 0)
	}
	if in.Has(core.ActionRight) {
		b.phys.Move(b.grid, b.piece, 1, 0)
	}
	if in.Has(core.ActionRotateCW) {
		b.phys.Rotate(b.grid, b.piece, 1, now)
	}
	if in.Has(core.ActionRotateCCW) {
		b.phys.Rotate(b.grid, b.piece, -1, now)
	}
	if in.Has(core.ActionFlip) {
		b.phys.Flip(b.grid, b.piece, now)
	}
	b.phys.SetAccelerated(in.Has(core.ActionSoftDrop))
}

// placePiece writes the piece into the grid. Rows above the grid snap into
// the top row; on a same-cell conflict the main block wins by write order.
// Placement always arms the chain reaction, even if gravity moved nothing.
func (b *Board) placePiece(now time.Time) {
	p := b.piece
	b.piece = nil

	mainY := p.Y
	if mainY < 0 {
		mainY = 0
	}
	ax, ay := p.AttachedCoords()
	if ay < 0 {
		ay = 0
	}

	if !b.grid.Occupied(p.X, mainY) {
		b.grid.Set(p.X, mainY, p.Main)
	}
	if !b.grid.Occupied(ax, ay) {
		b.grid.Set(ax, ay, p.Attached)
	}

	b.sink.PiecePlaced()
	b.grid.IncrementLandings(b.cfg.GarbageLandings, b.cfg.StrikeLandings)
	Settle(b.grid)
	b.chain.Start(now)
	b.checkGameOver()
}

func (b *Board) recordCombo(ev ComboEvent) {
	b.stats.BlocksBroken += len(ev.Blocks)
	b.stats.Score += len(ev.Blocks) * 10 * ev.ChainMultiplier
	if ev.ChainMultiplier > b.stats.MaxChain {
		b.stats.MaxChain = ev.ChainMultiplier
	}
}

// checkGameOver tests the spawn column's overflow rows.
func (b *Board) checkGameOver() {
	for y := 0; y < b.cfg.HiddenRows; y++ {
		if b.grid.Occupied(b.cfg.GameOverColumn, y) {
			b.gameOver = true
			return
		}
	}
}

// PlaceGarbage drops count garbage blocks onto the board, round-robin across
// columns starting at column 0, each landing at the lowest empty row of its
// column. Full columns are skipped. Returns the number actually placed.
func (b *Board) PlaceGarbage(count int, color BlockColor) int {
	placed := 0
	col := 0
	attempts := 0
	for placed < count && attempts < count*b.cfg.Width {
		attempts++
		x := col % b.cfg.Width
		col++
		y, ok := b.grid.LowestEmptyRow(x)
		if !ok {
			continue
		}
		b.grid.Set(x, y, BlockTag{Color: color, Kind: KindGarbage})
		placed++
	}
	if placed > 0 {
		b.stats.AttacksReceived++
		b.checkGameOver()
	}
	return placed
}

// PlaceStrike places a contiguous width x height strike with its left edge at
// startCol, shifting the span sideways to fit the board and truncating the
// height to the vertical space available. The strike lands bottom-aligned at
// the highest common landing row across its columns. Returns the number of
// cells placed.
func (b *Board) PlaceStrike(width, height, startCol int, color BlockColor) int {
	if width < 1 || height < 1 {
		return 0
	}
	if width > b.cfg.Width {
		width = b.cfg.Width
	}
	col := core.Clamp(startCol, 0, b.cfg.Width-width)

	bottom, ok := b.strikeLandingRow(col, width)
	if !ok {
		// Chosen span is full; look for any span with room.
		for alt := 0; alt+width <= b.cfg.Width; alt++ {
			if r, found := b.strikeLandingRow(alt, width); found {
				col, bottom, ok = alt, r, true
				break
			}
		}
	}
	if !ok {
		return 0
	}

	if height > bottom+1 {
		height = bottom + 1
	}
	placed := 0
	for y := bottom; y > bottom-height; y-- {
		for x := col; x < col+width; x++ {
			b.grid.Set(x, y, BlockTag{Color: color, Kind: KindStrike})
			placed++
		}
	}
	if placed > 0 {
		b.stats.AttacksReceived++
		b.checkGameOver()
	}
	return placed
}

// strikeLandingRow returns the bottom row a strike spanning [col, col+width)
// would land on: the highest lowest-empty-row across the span.
func (b *Board) strikeLandingRow(col, width int) (int, bool) {
	bottom := b.grid.TotalHeight() - 1
	for x := col; x < col+width; x++ {
		y, ok := b.grid.LowestEmptyRow(x)
		if !ok {
			return 0, false
		}
		if y < bottom {
			bottom = y
		}
	}
	return bottom, true
}

// NoteAttackSent bumps the sent counter; the battle layer calls this when it
// routes this board's combo into the opponent's queue.
func (b *Board) NoteAttackSent() {
	b.stats.AttacksSent++
}
