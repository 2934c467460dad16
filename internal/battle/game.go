package battle

import (
	"time"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/config"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/multiplayer"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/registry"
)

// Game wraps a Battle for the platform layers. With a CPU it is a complete
// registry game; without one it expects both players' input through
// StepMulti, which is how local two-player and online matches drive it.
type Game struct {
	cfg    Config
	id     string
	battle *Battle
	cpu    *CPU

	diff  *config.DifficultyManager
	ticks int

	runtime core.RuntimeConfig
	clock   time.Time
	tick    time.Duration
	paused  bool
}

// New creates a versus-CPU battle game with the configured tuning.
func New() *Game {
	return &Game{cfg: loadConfig(), id: "battle", cpu: NewCPU(0), diff: puzzle.LoadDifficulty()}
}

// NewLocal creates a battle driven entirely by StepMulti, for local
// two-player and online play.
func NewLocal() *Game {
	return &Game{cfg: loadConfig(), id: "battle_local", diff: puzzle.LoadDifficulty()}
}

// NewWithConfig creates a versus-CPU battle with custom tuning.
func NewWithConfig(cfg Config) *Game {
	return &Game{cfg: cfg, id: "battle", cpu: NewCPU(0)}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.id == "battle_local" {
		return "Local Versus"
	}
	return "Blade Fighters Battle"
}

// Reset initializes or restarts the battle.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	if runtime.TickRate <= 0 {
		runtime.TickRate = 60
	}
	g.tick = time.Second / time.Duration(runtime.TickRate)
	g.clock = time.Unix(0, 0)
	g.paused = false
	g.ticks = 0
	g.battle = NewBattle(g.cfg, runtime.Seed)
	if g.cpu != nil {
		g.cpu = NewCPU(runtime.Seed + 7)
	}
	g.battle.Board(0).SpawnPiece(g.clock)
	g.battle.Board(1).SpawnPiece(g.clock)
}

// Step advances the battle one tick with Player1's input; Player2 comes from
// the CPU when one is attached.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	multi := core.NewMultiInputFrame()
	multi.SetPlayer(core.Player1, in)
	if g.cpu != nil && !g.battle.Over() {
		multi.SetPlayer(core.Player2, g.cpu.Act(g.battle.Board(1)))
	}
	return g.StepMulti(multi)
}

// StepMulti advances the battle one tick with both players' input.
func (g *Game) StepMulti(in core.MultiInputFrame) core.StepResult {
	p1 := in.Player(core.Player1)
	if g.battle.Over() {
		if p1.Has(core.ActionRestart) {
			g.Reset(g.runtime)
		}
		return core.StepResult{State: g.State()}
	}

	if p1.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.clock = g.clock.Add(g.tick)
	g.ticks++
	g.applyDifficulty(g.battle.Board(0))
	g.applyDifficulty(g.battle.Board(1))
	g.battle.Update(g.clock, in)
	return core.StepResult{State: g.State()}
}

// applyDifficulty retunes one board's fall speed and breaker chance for the
// current progression level, so the leading player's side speeds up first.
func (g *Game) applyDifficulty(b *puzzle.Board) {
	if g.diff == nil || !g.diff.IsEnabled() {
		return
	}
	score := b.Stats().Score
	base := g.cfg.Puzzle
	ms := g.diff.FallDurationMs(int(base.NormalFall/time.Millisecond), score, g.ticks)
	chance := g.diff.BreakerChance(base.BreakerChance, score, g.ticks)
	b.SetFallTuning(time.Duration(ms)*time.Millisecond, chance)
}

// Render draws both boards side by side with their incoming-attack warnings.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	snap := g.battle.Snapshot()
	DrawSnapshot(dst, snap)

	_, oy := snapshotOrigin(dst, snap)
	midY := oy + snap.Board1.VisibleHeight/2
	if g.paused {
		dst.DrawTextCentered(midY, "PAUSED")
	}
	if snap.Over {
		dst.DrawTextCentered(midY+1, "Press R to restart")
	}
}

// State reports Player1's perspective for the platform HUD.
func (g *Game) State() core.GameState {
	if g.battle == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.battle.Board(0).Stats().Score,
		GameOver: g.battle.Over(),
		Paused:   g.paused,
	}
}

// Snapshot returns the battle snapshot for network transmission.
func (g *Game) Snapshot() multiplayer.GameSnapshot {
	return g.battle.Snapshot()
}

// IsGameOver reports whether either board topped out.
func (g *Game) IsGameOver() bool {
	return g.battle != nil && g.battle.Over()
}

// Winner returns the surviving player, or 0 before the end or on a draw.
func (g *Game) Winner() multiplayer.PlayerID {
	if g.battle == nil {
		return 0
	}
	return g.battle.Winner()
}

// Score1 returns Player1's score.
func (g *Game) Score1() int {
	if g.battle == nil {
		return 0
	}
	return g.battle.Board(0).Stats().Score
}

// Score2 returns Player2's score.
func (g *Game) Score2() int {
	if g.battle == nil {
		return 0
	}
	return g.battle.Board(1).Stats().Score
}

// Battle exposes the underlying simulation for tests.
func (g *Game) Battle() *Battle {
	return g.battle
}

func init() {
	registry.Register("battle", "Blade Fighters Battle", func() registry.Game {
		return New()
	})
	registry.Register("battle_local", "Local Versus", func() registry.Game {
		return NewLocal()
	})
}
