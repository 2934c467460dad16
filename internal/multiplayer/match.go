package multiplayer

import (
	"sync"
	"time"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
)

// OnlineGame is what a battle must expose to run under the authoritative
// match loop: two-player stepping plus enough outcome accessors to settle
// the result.
type OnlineGame interface {
	// Reset initializes the battle state.
	Reset(cfg core.RuntimeConfig)

	// StepMulti advances the battle one tick with both players' input.
	StepMulti(input core.MultiInputFrame) core.StepResult

	// Snapshot returns the current state for transmission to the clients.
	Snapshot() GameSnapshot

	// IsGameOver reports whether either board topped out.
	IsGameOver() bool

	// Winner returns the surviving player, or 0 before the end or on a draw.
	Winner() PlayerID

	// Score1 returns Player 1's score.
	Score1() int

	// Score2 returns Player 2's score.
	Score2() int
}

// MatchResult is the settled outcome of a battle.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID
	Score1  int
	Score2  int
	Ticks   uint64
}

// warmupSeconds is the get-ready period before pieces start falling. Both
// clients see the boards frozen while it runs.
const warmupSeconds = 3

// OnlineMatch runs one battle server-side. The simulation only ever advances
// here; clients send inputs and render the snapshots they get back, so
// neither side can disagree about where a garbage block landed.
type OnlineMatch struct {
	id     MatchID
	code   string
	gameID string
	game   OnlineGame

	player1Session SessionHandle
	player2Session SessionHandle

	inputMu    sync.Mutex
	lastInput1 core.InputFrame
	lastInput2 core.InputFrame
	inputChan  chan playerInput

	tick     uint64
	warmup   uint64
	tickRate int
	done     chan struct{}
	doneOnce sync.Once

	disconnectChan chan SessionID
}

type playerInput struct {
	player PlayerID
	input  core.InputFrame
}

// NewOnlineMatch creates a battle between two sessions.
func NewOnlineMatch(
	id MatchID,
	code string,
	gameID string,
	game OnlineGame,
	p1Session, p2Session SessionHandle,
	tickRate int,
) *OnlineMatch {
	if tickRate < 1 {
		tickRate = 60
	}
	return &OnlineMatch{
		id:             id,
		code:           code,
		gameID:         gameID,
		game:           game,
		player1Session: p1Session,
		player2Session: p2Session,
		lastInput1:     core.NewInputFrame(),
		lastInput2:     core.NewInputFrame(),
		inputChan:      make(chan playerInput, 64),
		warmup:         uint64(warmupSeconds * tickRate),
		tickRate:       tickRate,
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, 2),
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the lobby code this battle came from.
func (m *OnlineMatch) Code() string {
	return m.code
}

// GameID returns the game identifier.
func (m *OnlineMatch) GameID() string {
	return m.gameID
}

// SendInput queues a player's input frame. Never blocks; when the buffer is
// full the frame is dropped and the player's held keys simply register one
// tick later.
func (m *OnlineMatch) SendInput(player PlayerID, input core.InputFrame) {
	select {
	case m.inputChan <- playerInput{player: player, input: input}:
	default:
	}
}

// PlayerDisconnected signals that a player dropped mid-battle.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run drives the battle at the configured tick rate until it resolves.
// The callback receives the settled result exactly once.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer func() {
		m.doneOnce.Do(func() {
			close(m.done)
		})
	}()

	ticker := time.NewTicker(time.Second / time.Duration(m.tickRate))
	defer ticker.Stop()

	go m.monitorSessions()

	for {
		select {
		case <-ticker.C:
			result, over := m.runTick()
			if over {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case sessionID := <-m.disconnectChan:
			if onComplete != nil {
				onComplete(m.forfeitResult(sessionID))
			}
			return

		case <-m.done:
			return
		}
	}
}

func (m *OnlineMatch) runTick() (MatchResult, bool) {
	m.drainInputs()

	m.inputMu.Lock()
	multiInput := core.NewMultiInputFrame()
	multiInput.SetPlayer(Player1, m.lastInput1.Clone())
	multiInput.SetPlayer(Player2, m.lastInput2.Clone())
	m.lastInput1.Clear()
	m.lastInput2.Clear()
	m.inputMu.Unlock()

	// Hold the simulation still through the get-ready period. Snapshots
	// keep flowing so both clients render the starting boards.
	if m.warmup > 0 {
		m.warmup--
	} else {
		m.game.StepMulti(multiInput)
		m.tick++
	}

	snapshotEvent := SnapshotEvent{
		MatchID:  m.id,
		Tick:     m.tick,
		Snapshot: m.game.Snapshot(),
	}
	m.player1Session.Send(snapshotEvent)
	m.player2Session.Send(snapshotEvent)

	if m.game.IsGameOver() {
		return MatchResult{
			MatchID: m.id,
			Reason:  MatchEndReasonCompleted,
			Winner:  m.game.Winner(),
			Score1:  m.game.Score1(),
			Score2:  m.game.Score2(),
			Ticks:   m.tick,
		}, true
	}

	return MatchResult{}, false
}

// drainInputs folds every queued frame into the per-player pending input.
// Actions OR together, so a tap between ticks is never lost.
func (m *OnlineMatch) drainInputs() {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()

	for {
		select {
		case pi := <-m.inputChan:
			dst := &m.lastInput1
			if pi.player == Player2 {
				dst = &m.lastInput2
			}
			for action, pressed := range pi.input.Actions {
				if pressed {
					dst.Set(action)
				}
			}
		default:
			return
		}
	}
}

// forfeitResult settles the battle in favor of whoever stayed connected.
func (m *OnlineMatch) forfeitResult(sessionID SessionID) MatchResult {
	winner := Player1
	if sessionID == m.player1Session.ID() {
		winner = Player2
	}
	return MatchResult{
		MatchID: m.id,
		Reason:  MatchEndReasonDisconnect,
		Winner:  winner,
		Score1:  m.game.Score1(),
		Score2:  m.game.Score2(),
		Ticks:   m.tick,
	}
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.player1Session.Done():
		select {
		case m.disconnectChan <- m.player1Session.ID():
		default:
		}
	case <-m.player2Session.Done():
		select {
		case m.disconnectChan <- m.player2Session.ID():
		default:
		}
	case <-m.done:
	}
}

// Stop tears the match down without a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
