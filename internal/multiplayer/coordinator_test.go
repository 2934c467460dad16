package multiplayer

import (
	"testing"
	"time"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
)

type stubSnapshot struct{}

func (stubSnapshot) IsGameSnapshot() {}

// stubGame resolves immediately so matches settle on their first tick.
type stubGame struct {
	winner PlayerID
}

func (g *stubGame) Reset(core.RuntimeConfig) {}
func (g *stubGame) StepMulti(core.MultiInputFrame) core.StepResult {
	return core.StepResult{}
}
func (g *stubGame) Snapshot() GameSnapshot { return stubSnapshot{} }
func (g *stubGame) IsGameOver() bool       { return true }
func (g *stubGame) Winner() PlayerID       { return g.winner }
func (g *stubGame) Score1() int            { return 10 }
func (g *stubGame) Score2() int            { return 5 }

func newTestCoordinator() (*Coordinator, *ChannelSession, *ChannelSession) {
	sessions := NewSessionRegistry()
	host := NewChannelSession("host", 64)
	joiner := NewChannelSession("joiner", 64)
	sessions.Register(host)
	sessions.Register(joiner)

	cfg := CoordinatorConfig{
		LobbyTimeout:  time.Minute,
		TickRate:      120,
		CleanupPeriod: time.Minute,
	}
	factory := func(gameID string, _ core.RuntimeConfig) (OnlineGame, error) {
		return &stubGame{winner: Player1}, nil
	}
	return NewCoordinator(cfg, factory, sessions), host, joiner
}

// waitEvent pulls the next non-snapshot event from a session.
func waitEvent(t *testing.T, s *ChannelSession) SessionEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if _, ok := evt.(SnapshotEvent); ok {
				continue
			}
			return evt
		case <-deadline:
			t.Fatal("timed out waiting for session event")
			return nil
		}
	}
}

func TestLobbyJoinStartsMatch(t *testing.T) {
	c, host, joiner := newTestCoordinator()

	c.handleCreateLobby(CreateLobbyMsg{SessionID: host.ID(), GameID: "battle_local"})
	created, ok := waitEvent(t, host).(LobbyCreatedEvent)
	if !ok {
		t.Fatal("host did not receive LobbyCreatedEvent")
	}
	if created.Code == "" {
		t.Error("lobby code is empty")
	}
	if c.LobbyCount() != 1 {
		t.Errorf("lobby count = %d, want 1", c.LobbyCount())
	}

	c.handleJoinLobby(JoinLobbyMsg{SessionID: joiner.ID(), Code: created.Code})

	if evt, ok := waitEvent(t, host).(LobbyJoinedEvent); !ok || evt.Side != Player1 {
		t.Errorf("host lobby event = %#v, want LobbyJoinedEvent side Player1", evt)
	}
	if evt, ok := waitEvent(t, joiner).(LobbyJoinedEvent); !ok || evt.Side != Player2 {
		t.Errorf("joiner lobby event = %#v, want LobbyJoinedEvent side Player2", evt)
	}

	started, ok := waitEvent(t, host).(MatchStartedEvent)
	if !ok {
		t.Fatal("host did not receive MatchStartedEvent")
	}
	if started.Code != created.Code {
		t.Errorf("match code = %q, want %q", started.Code, created.Code)
	}
	if _, ok := waitEvent(t, joiner).(MatchStartedEvent); !ok {
		t.Fatal("joiner did not receive MatchStartedEvent")
	}
	if c.LobbyCount() != 0 {
		t.Errorf("lobby count = %d after match start, want 0", c.LobbyCount())
	}

	// The stub game is over on its first tick, so the match settles itself.
	ended, ok := waitEvent(t, host).(MatchEndedEvent)
	if !ok {
		t.Fatal("host did not receive MatchEndedEvent")
	}
	if ended.Reason != MatchEndReasonCompleted {
		t.Errorf("end reason = %v, want completed", ended.Reason)
	}
	if ended.Winner != Player1 {
		t.Errorf("winner = %v, want Player1", ended.Winner)
	}
	if _, ok := waitEvent(t, joiner).(MatchEndedEvent); !ok {
		t.Fatal("joiner did not receive MatchEndedEvent")
	}
}

func TestJoinUnknownCodeReportsError(t *testing.T) {
	c, _, joiner := newTestCoordinator()

	c.handleJoinLobby(JoinLobbyMsg{SessionID: joiner.ID(), Code: "NOPE42"})
	evt, ok := waitEvent(t, joiner).(LobbyErrorEvent)
	if !ok {
		t.Fatal("joiner did not receive LobbyErrorEvent")
	}
	if evt.Message != "Lobby not found" {
		t.Errorf("error message = %q", evt.Message)
	}
}

func TestRematchRestartsBetweenSamePlayers(t *testing.T) {
	c, host, joiner := newTestCoordinator()

	c.handleCreateLobby(CreateLobbyMsg{SessionID: host.ID(), GameID: "battle_local"})
	created := waitEvent(t, host).(LobbyCreatedEvent)
	c.handleJoinLobby(JoinLobbyMsg{SessionID: joiner.ID(), Code: created.Code})

	waitEvent(t, host)   // LobbyJoinedEvent
	waitEvent(t, joiner) // LobbyJoinedEvent
	started := waitEvent(t, host).(MatchStartedEvent)
	waitEvent(t, joiner) // MatchStartedEvent

	ended, ok := waitEvent(t, host).(MatchEndedEvent)
	if !ok {
		t.Fatal("host did not receive MatchEndedEvent")
	}
	waitEvent(t, joiner) // MatchEndedEvent
	if ended.MatchID != started.MatchID {
		t.Errorf("ended match %q, started %q", ended.MatchID, started.MatchID)
	}

	// First offer only registers; the second triggers the rematch.
	c.handleRematch(ReadyForRematchMsg{SessionID: host.ID(), MatchID: ended.MatchID})
	if _, ok := waitEvent(t, host).(RematchPendingEvent); !ok {
		t.Fatal("host did not receive RematchPendingEvent")
	}

	c.handleRematch(ReadyForRematchMsg{SessionID: joiner.ID(), MatchID: ended.MatchID})

	restarted, ok := waitEvent(t, host).(MatchStartedEvent)
	if !ok {
		t.Fatal("host did not receive rematch MatchStartedEvent")
	}
	if restarted.MatchID == started.MatchID {
		t.Error("rematch reused the old match ID")
	}
	if restarted.Side != Player1 {
		t.Errorf("host side = %v on rematch, want Player1", restarted.Side)
	}
	joinerRestart, ok := waitEvent(t, joiner).(MatchStartedEvent)
	if !ok {
		t.Fatal("joiner did not receive rematch MatchStartedEvent")
	}
	if joinerRestart.Side != Player2 {
		t.Errorf("joiner side = %v on rematch, want Player2", joinerRestart.Side)
	}
}

func TestRematchUnavailableAfterDisconnect(t *testing.T) {
	c, host, joiner := newTestCoordinator()

	c.handleCreateLobby(CreateLobbyMsg{SessionID: host.ID(), GameID: "battle_local"})
	created := waitEvent(t, host).(LobbyCreatedEvent)
	c.handleJoinLobby(JoinLobbyMsg{SessionID: joiner.ID(), Code: created.Code})

	waitEvent(t, host)
	waitEvent(t, joiner)
	waitEvent(t, host) // MatchStartedEvent
	waitEvent(t, joiner)
	ended := waitEvent(t, host).(MatchEndedEvent)
	waitEvent(t, joiner)

	c.handleSessionDisconnected(SessionDisconnectedMsg{SessionID: joiner.ID()})

	c.handleRematch(ReadyForRematchMsg{SessionID: host.ID(), MatchID: ended.MatchID})
	evt, ok := waitEvent(t, host).(LobbyErrorEvent)
	if !ok {
		t.Fatal("host did not receive LobbyErrorEvent")
	}
	if evt.Message != "Rematch no longer available" {
		t.Errorf("error message = %q", evt.Message)
	}
}
