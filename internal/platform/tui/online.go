package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/multiplayer"
)

// OnlineState represents the current state of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode     OnlineState = iota // choose host or join
	OnlineStateHostWaiting                       // hosting, waiting for a challenger
	OnlineStateJoinEnterCode                     // entering a battle code
	OnlineStateJoinWaiting                       // waiting to connect to the host
	OnlineStateInMatch                           // battle running
	OnlineStateMatchEnded                        // battle settled, rematch offered
	OnlineStateRematchWaiting                    // our rematch offer is in, opponent pending
)

const lobbyCodeLen = 6

// OnlineLobbyModel walks an SSH session through hosting or joining a
// battle, and through the rematch handshake once a battle settles.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	gameID      string
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator

	lobbyCode string

	joinCodeInput string
	joinError     string

	matchID    multiplayer.MatchID
	side       core.PlayerID
	opponentID multiplayer.SessionID

	// Filled in from MatchEndedEvent for the results screen.
	endReason multiplayer.MatchEndReason
	winner    core.PlayerID
	score1    int
	score2    int

	backToMenu bool
	cancelled  bool
	quitting   bool

	eventChan <-chan multiplayer.SessionEvent
}

// NewOnlineLobbyModel creates a new online lobby model.
func NewOnlineLobbyModel(
	gameID string,
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	eventChan <-chan multiplayer.SessionEvent,
	width, height int,
) OnlineLobbyModel {
	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		gameID:      gameID,
		sessionID:   sessionID,
		coordinator: coordinator,
		eventChan:   eventChan,
	}
}

// Init initializes the lobby model.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that blocks on the next coordinator event.
func (m OnlineLobbyModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.eventChan == nil {
			return nil
		}
		evt, ok := <-m.eventChan
		if !ok {
			return nil
		}
		return evt
	}
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
		return m, m.waitForEvent()

	case multiplayer.LobbyJoinedEvent:
		m.side = msg.Side
		m.opponentID = msg.OpponentID
		return m, m.waitForEvent()

	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.state = OnlineStateJoinEnterCode
		case OnlineStateRematchWaiting:
			// Rematch fell through (opponent gone or offer expired).
			m.state = OnlineStateMatchEnded
		}
		return m, m.waitForEvent()

	case multiplayer.LobbyPlayerLeftEvent:
		// Challenger backed out; keep hosting with the same code.
		return m, m.waitForEvent()

	case multiplayer.MatchStartedEvent:
		// First battle of the lobby, or a rematch restarting us.
		m.matchID = msg.MatchID
		m.side = msg.Side
		m.joinError = ""
		m.state = OnlineStateInMatch
		return m, nil // caller takes over the event stream

	case multiplayer.MatchEndedEvent:
		m.matchID = msg.MatchID
		m.endReason = msg.Reason
		m.winner = msg.Winner
		m.score1 = msg.Score1
		m.score2 = msg.Score2
		m.state = OnlineStateMatchEnded
		return m, m.waitForEvent()

	case multiplayer.RematchPendingEvent:
		m.state = OnlineStateRematchWaiting
		return m, m.waitForEvent()
	}
	return m, nil
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(key)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(key)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(key)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(key)
	case OnlineStateMatchEnded:
		return m.handleMatchEndedKey(key)
	case OnlineStateRematchWaiting:
		return m.handleRematchWaitingKey(key)
	}

	return m, nil
}

func (m OnlineLobbyModel) handleChooseModeKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "h", "H", "1":
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			GameID:    m.gameID,
		})
		return m, m.waitForEvent()
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.joinError = ""
		return m, nil
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "q":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleHostWaitingKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "b":
		m.cancelLobby()
		m.cancelled = true
		m.backToMenu = true
		return m, nil
	case "q":
		m.cancelLobby()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *OnlineLobbyModel) cancelLobby() {
	m.coordinator.Send(multiplayer.CancelLobbyMsg{
		SessionID: m.sessionID,
		Code:      m.lobbyCode,
	})
}

func (m OnlineLobbyModel) handleJoinCodeKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "enter":
		if m.joinCodeInput != "" {
			m.state = OnlineStateJoinWaiting
			m.joinError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
			return m, m.waitForEvent()
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Battle codes are uppercase alphanumerics.
		if len(key) == 1 && len(m.joinCodeInput) < lobbyCodeLen {
			c := strings.ToUpper(key)[0]
			if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
				m.joinCodeInput += string(c)
			}
		}
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinWaitingKey(key string) (tea.Model, tea.Cmd) {
	if key == "esc" || key == "b" {
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.joinCodeInput,
		})
		m.state = OnlineStateJoinEnterCode
		return m, nil
	}

	return m, nil
}

func (m OnlineLobbyModel) handleMatchEndedKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "r", "R":
		if m.endReason != multiplayer.MatchEndReasonCompleted {
			return m, nil // no rematch after a forfeit or disconnect
		}
		m.joinError = ""
		m.coordinator.Send(multiplayer.ReadyForRematchMsg{
			SessionID: m.sessionID,
			MatchID:   m.matchID,
		})
		return m, m.waitForEvent()
	case "esc", "b", "enter":
		m.backToMenu = true
		return m, nil
	case "q":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleRematchWaitingKey(key string) (tea.Model, tea.Cmd) {
	if key == "esc" || key == "b" {
		m.backToMenu = true
		return m, nil
	}

	return m, nil
}

// View renders the current state.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.screen("ONLINE BATTLE",
			"Choose an option:",
			"",
			"[H] Host a battle",
			"[J] Join a battle",
			"",
			"Esc: Back  |  Q: Quit")

	case OnlineStateHostWaiting:
		return m.screen("HOSTING BATTLE",
			"Share this code with your opponent:",
			"",
			fmt.Sprintf("[ %s ]", m.lobbyCode),
			"",
			"Waiting for a challenger...",
			"",
			"Esc: Cancel  |  Q: Quit")

	case OnlineStateJoinEnterCode:
		return m.viewJoinEnterCode()

	case OnlineStateJoinWaiting:
		return m.screen("CONNECTING",
			fmt.Sprintf("Joining battle: %s", m.joinCodeInput),
			"",
			"Please wait...",
			"",
			"Esc: Cancel")

	case OnlineStateMatchEnded:
		return m.viewMatchEnded()

	case OnlineStateRematchWaiting:
		return m.screen("REMATCH",
			"Rematch requested.",
			"",
			"Waiting for your opponent...",
			"",
			"Esc: Back to menu")
	}

	return ""
}

// screen centers a title and body lines for the lobby flow.
func (m OnlineLobbyModel) screen(title string, lines ...string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")
	for _, line := range lines {
		if line != "" {
			b.WriteString(centerText(line, m.width))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m OnlineLobbyModel) viewJoinEnterCode() string {
	codeDisplay := m.joinCodeInput
	if len(codeDisplay) < lobbyCodeLen {
		codeDisplay += "_" + strings.Repeat(" ", lobbyCodeLen-1-len(m.joinCodeInput))
	}

	lines := []string{
		"Enter the battle code:",
		"",
		fmt.Sprintf("[ %s ]", codeDisplay),
	}
	if m.joinError != "" {
		lines = append(lines, "", fmt.Sprintf("Error: %s", m.joinError))
	}
	lines = append(lines, "", "Enter: Connect  |  Esc: Back")

	return m.screen("JOIN BATTLE", lines...)
}

func (m OnlineLobbyModel) viewMatchEnded() string {
	var outcome string
	switch {
	case m.endReason != multiplayer.MatchEndReasonCompleted:
		outcome = m.endReason.String()
	case m.winner == m.side:
		outcome = "VICTORY"
	case m.winner == 0:
		outcome = "DRAW"
	default:
		outcome = "DEFEAT"
	}

	lines := []string{
		outcome,
		"",
		fmt.Sprintf("P1 %d - %d P2", m.score1, m.score2),
	}
	if m.joinError != "" {
		lines = append(lines, "", m.joinError)
	}
	if m.endReason == multiplayer.MatchEndReasonCompleted {
		lines = append(lines, "", "[R] Rematch  |  Esc: Back  |  Q: Quit")
	} else {
		lines = append(lines, "", "Esc: Back  |  Q: Quit")
	}

	return m.screen("BATTLE OVER", lines...)
}

// State returns the current online state.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the match ID if a battle was started.
func (m OnlineLobbyModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns which board this session drives.
func (m OnlineLobbyModel) Side() core.PlayerID {
	return m.side
}

// LobbyCode returns the lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}

// BattleModeModel lets SSH users choose how to play a battle.
type BattleModeModel struct {
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	selected  multiplayer.MatchMode
	choosing  bool
	quitting  bool
	back      bool
}

var battleModes = []multiplayer.MatchMode{
	multiplayer.MatchModeVsCPU,
	multiplayer.MatchModeOnlinePvP,
}

// NewBattleModeModel creates a new battle mode selection model.
func NewBattleModeModel(width, height int) BattleModeModel {
	return BattleModeModel{
		cursor:    0,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m BattleModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m BattleModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m BattleModeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(battleModes)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selected = battleModes[m.cursor]
		return m, nil
	case MenuActionBack:
		m.back = true
		return m, nil
	}

	return m, nil
}

// View renders the mode selection.
func (m BattleModeModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("BATTLE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select game mode:", m.width))
	b.WriteString("\n\n")

	for i, mode := range battleModes {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, mode), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selected mode, or -1 if still choosing.
func (m BattleModeModel) Selected() multiplayer.MatchMode {
	if m.choosing {
		return -1
	}
	return m.selected
}

// IsChoosing returns true if still in selection mode.
func (m BattleModeModel) IsChoosing() bool {
	return m.choosing
}

// IsQuitting returns true if user wants to quit.
func (m BattleModeModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m BattleModeModel) WantsBack() bool {
	return m.back
}
