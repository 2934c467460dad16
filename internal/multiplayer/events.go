package multiplayer

import "github.com/CloudTigerx/BladeFighters-sub000/internal/core"

// SessionEvent is anything the coordinator or match loop pushes to a session:
// lobby lifecycle, match lifecycle, and the per-tick battle snapshots.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent confirms a hosted lobby and carries its join code.
type LobbyCreatedEvent struct {
	Code   string
	GameID string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent reports a failed lobby operation.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyJoinedEvent goes to both players once a challenger enters. Side tells
// each session which board it drives.
type LobbyJoinedEvent struct {
	Code       string
	Side       PlayerID
	OpponentID SessionID
}

func (LobbyJoinedEvent) sessionEvent() {}

// LobbyPlayerLeftEvent tells the host their challenger left before the
// battle started.
type LobbyPlayerLeftEvent struct {
	Code string
}

func (LobbyPlayerLeftEvent) sessionEvent() {}

// MatchStartedEvent announces the battle. Sent for the first match of a
// lobby and again for every rematch.
type MatchStartedEvent struct {
	MatchID MatchID
	Side    PlayerID
	Code    string
}

func (MatchStartedEvent) sessionEvent() {}

// MatchEndedEvent carries the outcome of a finished battle.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID // 0 on a draw or disconnect
	Score1  int
	Score2  int
}

func (MatchEndedEvent) sessionEvent() {}

// RematchPendingEvent tells a player their rematch offer is registered and
// the coordinator is waiting on the opponent.
type RematchPendingEvent struct {
	MatchID MatchID
}

func (RematchPendingEvent) sessionEvent() {}

// MatchEndReason describes why a battle ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted MatchEndReason = iota
	MatchEndReasonDisconnect
	MatchEndReasonCancelled
	MatchEndReasonHostLeft
	MatchEndReasonJoinerLeft
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Match completed"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	case MatchEndReasonCancelled:
		return "Match cancelled"
	case MatchEndReasonHostLeft:
		return "Host left"
	case MatchEndReasonJoinerLeft:
		return "Opponent left"
	default:
		return "Unknown"
	}
}

// SnapshotEvent carries one tick's battle state to both sessions.
type SnapshotEvent struct {
	MatchID  MatchID
	Tick     uint64
	Snapshot GameSnapshot
}

func (SnapshotEvent) sessionEvent() {}

// GameSnapshot is the marker interface for game-specific snapshot payloads.
type GameSnapshot interface {
	IsGameSnapshot()
}

// CoordinatorMessage is anything a session sends to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg requests a new hosted lobby.
type CreateLobbyMsg struct {
	SessionID SessionID
	GameID    string
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg requests joining a lobby by code.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg closes a lobby the sender hosts.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveLobbyMsg withdraws the sender from a lobby.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (LeaveLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg forfeits an active battle.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// PlayerInputMsg forwards one input frame into a running battle.
type PlayerInputMsg struct {
	MatchID  MatchID
	Player   PlayerID
	TickHint uint64 // client tick counter, informational only
	Input    core.InputFrame
}

func (PlayerInputMsg) coordinatorMessage() {}

// ReadyForRematchMsg offers a rematch after a battle ends. When both former
// players send it, the coordinator starts a fresh battle between them.
type ReadyForRematchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (ReadyForRematchMsg) coordinatorMessage() {}

// SessionDisconnectedMsg reports that a session dropped.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
