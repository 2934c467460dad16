// Package battle couples two puzzle boards through the attack pipeline:
// combos on one side become garbage and strike payloads queued against the
// other. The Game type plays as a registry game (vs CPU or local second
// player) and as an online match via the multiplayer loop.
package battle

import (
	"time"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/attack"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
)

// Config bundles the tuning for both boards and the attack pipeline.
type Config struct {
	Puzzle puzzle.Config
	Calc   attack.CalcConfig
	Queue  attack.QueueConfig

	// UseDatabase routes combos through the pattern database before the
	// formulaic fallback.
	UseDatabase bool

	// DatabasePath points at a hand-tuned attack rules file layered over the
	// generated database. Empty means generated rules only.
	DatabasePath string
}

// DefaultConfig returns the reference battle tuning.
func DefaultConfig() Config {
	return Config{
		Puzzle:      puzzle.DefaultConfig(),
		Calc:        attack.DefaultCalcConfig(),
		Queue:       attack.DefaultQueueConfig(),
		UseDatabase: true,
	}
}

// side is one player's board plus the queue of attacks aimed at it.
type side struct {
	board *puzzle.Board
	queue *attack.Queue
}

// Battle is the two-board simulation. Boards never touch each other; every
// interaction flows through the attack calculator and the incoming queues.
type Battle struct {
	cfg   Config
	calc  *attack.Calculator
	sides [2]side

	over   bool
	winner core.PlayerID
}

// NewBattle creates a battle with independently seeded piece streams.
func NewBattle(cfg Config, seed int64) *Battle {
	var db *attack.Database
	if cfg.UseDatabase {
		db = attack.GenerateDefault(cfg.Calc)
		if cfg.DatabasePath != "" {
			// Hand-tuned rules override the generated ones; a bad file just
			// leaves the defaults in place.
			_ = db.LoadYAML(cfg.DatabasePath)
		}
	}
	bt := &Battle{
		cfg:  cfg,
		calc: attack.NewCalculator(cfg.Calc, db),
	}
	for i := range bt.sides {
		bt.sides[i] = side{
			board: puzzle.NewBoard(cfg.Puzzle, seed+int64(i), nil, nil),
			queue: attack.NewQueue(cfg.Queue),
		}
	}
	return bt
}

// Board returns one side's board. Side 0 is Player1.
func (bt *Battle) Board(i int) *puzzle.Board { return bt.sides[i].board }

// Queue returns the incoming attack queue for one side.
func (bt *Battle) Queue(i int) *attack.Queue { return bt.sides[i].queue }

// Over reports whether either board has topped out.
func (bt *Battle) Over() bool { return bt.over }

// Winner returns the surviving player, or 0 on a simultaneous top-out.
func (bt *Battle) Winner() core.PlayerID { return bt.winner }

// Update advances both boards by one tick and routes the resulting combos
// into the opposing queues, then lets due attacks land.
func (bt *Battle) Update(now time.Time, in core.MultiInputFrame) {
	if bt.over {
		return
	}

	inputs := [2]core.InputFrame{in.Player(core.Player1), in.Player(core.Player2)}
	for i := range bt.sides {
		events := bt.sides[i].board.Update(now, inputs[i])
		for _, ev := range events {
			bt.route(i, ev, now)
		}
	}

	for i := range bt.sides {
		bt.sides[i].queue.Process(now, bt.sides[i].board)
	}

	bt.checkOver(now)
}

// route converts one combo into payloads queued against the opponent.
func (bt *Battle) route(from int, ev puzzle.ComboEvent, now time.Time) {
	payloads := bt.calc.Compute(ev)
	if len(payloads) == 0 {
		return
	}
	bt.sides[from].board.NoteAttackSent()
	opponent := 1 - from
	for _, p := range payloads {
		bt.sides[opponent].queue.Enqueue(p, now)
	}
}

func (bt *Battle) checkOver(now time.Time) {
	over1 := bt.sides[0].board.GameOver()
	over2 := bt.sides[1].board.GameOver()
	if !over1 && !over2 {
		return
	}
	bt.over = true
	switch {
	case over1 && over2:
		bt.winner = 0 // simultaneous top-out is a draw
	case over1:
		bt.winner = core.Player2
	default:
		bt.winner = core.Player1
	}
	for i := range bt.sides {
		bt.sides[i].queue.Clear(now)
	}
}
