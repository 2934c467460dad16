// Package puzzle implements the falling-block chain-reaction battle engine:
// a 6-wide grid, two-block pieces with sub-cell fall interpolation, wall
// kicks and flips, rectangular cluster detection, breaker-driven chain
// reactions, and the garbage/strike attack pipeline.
//
// The Game type in this file is the single-board practice mode; battles
// couple two boards through internal/battle.
package puzzle

import (
	"fmt"
	"time"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/config"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/registry"
)

// Game wraps one Board as a registry game for practice play. Ticks advance a
// synthetic clock derived from the configured tick rate, keeping the
// time-based simulation deterministic under test.
type Game struct {
	cfg   Config
	board *Board

	diff  *config.DifficultyManager
	ticks int

	runtime core.RuntimeConfig
	clock   time.Time
	tick    time.Duration
	paused  bool

	flash      string
	flashUntil time.Time
}

// New creates a practice game with the configured tuning and difficulty
// progression.
func New() *Game {
	g := NewWithConfig(LoadTuning())
	g.diff = LoadDifficulty()
	return g
}

// NewWithConfig creates a practice game with custom tuning.
func NewWithConfig(cfg Config) *Game {
	return &Game{cfg: cfg}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "blade"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Blade Fighters"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	if runtime.TickRate <= 0 {
		runtime.TickRate = 60
	}
	g.tick = time.Second / time.Duration(runtime.TickRate)
	g.clock = time.Unix(0, 0)
	g.paused = false
	g.ticks = 0
	g.flash = ""
	g.flashUntil = time.Time{}
	g.board = NewBoard(g.cfg, runtime.Seed, g, nil)
	g.board.SpawnPiece(g.clock)
}

// PiecePlaced implements EventSink.
func (g *Game) PiecePlaced() {}

// SingleBreak implements EventSink.
func (g *Game) SingleBreak() {
	g.flash = "BREAK!"
	g.flashUntil = g.clock.Add(600 * time.Millisecond)
}

// ComboBreak implements EventSink.
func (g *Game) ComboBreak(chain int) {
	g.flash = fmt.Sprintf("CHAIN x%d!", chain)
	g.flashUntil = g.clock.Add(900 * time.Millisecond)
}

// Step advances the simulation by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.board.GameOver() {
		if in.Has(core.ActionRestart) {
			g.Reset(g.runtime)
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.clock = g.clock.Add(g.tick)
	g.ticks++
	g.applyDifficulty(g.board)
	g.board.Update(g.clock, in)
	return core.StepResult{State: g.State()}
}

// applyDifficulty retunes a board's fall speed and breaker chance for the
// current progression level. No-op when progression is disabled.
func (g *Game) applyDifficulty(b *Board) {
	if g.diff == nil || !g.diff.IsEnabled() {
		return
	}
	score := b.Stats().Score
	ms := g.diff.FallDurationMs(int(g.cfg.NormalFall/time.Millisecond), score, g.ticks)
	chance := g.diff.BreakerChance(g.cfg.BreakerChance, score, g.ticks)
	b.SetFallTuning(time.Duration(ms)*time.Millisecond, chance)
}

// Render draws the board and sidebar into the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	snap := g.board.Snapshot()
	boardW := snap.Width*2 + 2
	ox := (dst.Width() - boardW - 14) / 2
	if ox < 0 {
		ox = 0
	}
	oy := (dst.Height() - snap.VisibleHeight - 2) / 2
	if oy < 0 {
		oy = 0
	}

	DrawBoard(dst, snap, ox, oy)
	DrawSidebar(dst, snap, ox+boardW+2, oy+1)

	if g.flash != "" && g.clock.Before(g.flashUntil) {
		dst.DrawText(ox+boardW+2, oy+10, g.flash)
	}

	if g.paused {
		dst.DrawTextCentered(oy+snap.VisibleHeight/2, "PAUSED")
	}
	if snap.GameOver {
		dst.DrawTextCentered(oy+snap.VisibleHeight/2, "GAME OVER")
		dst.DrawTextCentered(oy+snap.VisibleHeight/2+1, fmt.Sprintf("Score: %d", snap.Stats.Score))
		dst.DrawTextCentered(oy+snap.VisibleHeight/2+2, "Press R to restart")
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.board == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.board.Stats().Score,
		GameOver: g.board.GameOver(),
		Paused:   g.paused,
	}
}

// Board exposes the underlying board, used by the battle coordinator and
// tests.
func (g *Game) Board() *Board {
	return g.board
}

// Register the game with the registry
func init() {
	registry.Register("blade", "Blade Fighters", func() registry.Game {
		return New()
	})
}
