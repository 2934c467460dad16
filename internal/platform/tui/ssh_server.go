// Package tui provides terminal UI components including SSH server support via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/battle"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/multiplayer"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/registry"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.bladefighters/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.bladefighters/scores.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer hosts battles over SSH. Besides the Wish server it owns the
// multiplayer stack: a session registry for every connected player and the
// coordinator that pairs them into online battles.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	logger      *log.Logger
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator

	mu     sync.Mutex
	active map[string]*multiplayer.ChannelSession // keyed by remote address
}

// onlineBattleFactory builds the server-side simulation for an online
// battle. Only the battle modes can run online; the practice board cannot.
func onlineBattleFactory(gameID string, _ core.RuntimeConfig) (multiplayer.OnlineGame, error) {
	switch gameID {
	case "battle", "battle_local":
		return battle.NewLocal(), nil
	default:
		return nil, fmt.Errorf("mode %q does not support online battles", gameID)
	}
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "blade-ssh",
	})

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	}

	sessions := multiplayer.NewSessionRegistry()
	coordinator := multiplayer.NewCoordinator(
		multiplayer.DefaultCoordinatorConfig(), onlineBattleFactory, sessions)
	if store != nil {
		coordinator.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		logger:      logger,
		sessions:    sessions,
		coordinator: coordinator,
		active:      make(map[string]*multiplayer.ChannelSession),
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".bladefighters", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
		Seed:     time.Now().UnixNano(),
	}

	// Register the player with the multiplayer stack so the coordinator
	// can pair them into online battles.
	sessionID := multiplayer.SessionID(fmt.Sprintf("%s-%d", sshSession.User(), time.Now().UnixNano()))
	channel := multiplayer.NewChannelSession(sessionID, 256)
	s.sessions.Register(channel)

	s.mu.Lock()
	s.active[sshSession.RemoteAddr().String()] = channel
	s.mu.Unlock()

	model := NewSessionModel(s.store, cfg, sshSession.User(), s.coordinator, channel)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// sessionMiddleware logs session lifecycle and tears down the player's
// multiplayer registration when the connection ends, so lobbies and
// rematch offers involving them are cleaned up.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		remote := sshSession.RemoteAddr().String()
		s.logger.Info("session started", "user", sshSession.User(), "remote", remote)

		next(sshSession)

		s.mu.Lock()
		channel := s.active[remote]
		delete(s.active, remote)
		s.mu.Unlock()

		if channel != nil {
			channel.Close()
			s.sessions.Unregister(channel.ID())
			s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: channel.ID()})
		}

		s.logger.Info("session ended", "user", sshSession.User(), "remote", remote)
	}
}

// ListenAndServe starts the coordinator and the SSH server, blocking until
// shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the coordinator, storage and the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coordinator.Stop()
	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionMode tracks which screen an SSH session is on.
type sessionMode int

const (
	sessionModeMenu sessionMode = iota
	sessionModeGame
	sessionModeLobby
	sessionModeMatch
)

// SessionModel manages the full SSH session flow:
// menu -> local game or online lobby -> online match -> back to menu.
type SessionModel struct {
	store       *storage.Store
	config      core.RuntimeConfig
	username    string
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator
	session     *multiplayer.ChannelSession

	mode      sessionMode
	menu      MenuModel
	game      registry.Game
	gameModel *GameModel
	lobby     *OnlineLobbyModel
	match     *OnlineMatchModel
	quitting  bool
}

// NewSessionModel creates a new session model. The coordinator and channel
// session come from the SSH server; they enable the online battle entry.
func NewSessionModel(
	store *storage.Store,
	cfg core.RuntimeConfig,
	username string,
	coordinator *multiplayer.Coordinator,
	session *multiplayer.ChannelSession,
) SessionModel {
	m := SessionModel{
		store:       store,
		config:      cfg,
		username:    username,
		coordinator: coordinator,
		session:     session,
	}
	if session != nil {
		m.sessionID = session.ID()
	}
	m.menu = m.freshMenu()
	return m
}

// freshMenu builds the mode picker, with the online entry added when the
// multiplayer stack is available.
func (m *SessionModel) freshMenu() MenuModel {
	menu := NewMenuModel(m.store, m.config)
	if m.coordinator != nil && m.session != nil {
		menu.AddItem(MenuItem{
			GameID: "battle_local",
			Title:  "Online Battle",
			Mode:   multiplayer.MatchModeOnlinePvP,
		})
	}
	return menu
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.mode {
	case sessionModeGame:
		return m.updateGame(msg)
	case sessionModeLobby:
		return m.updateLobby(msg)
	case sessionModeMatch:
		return m.updateMatch(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}
	m.config = m.menu.Config() // pick up any resize the menu saw

	if selected.Mode == multiplayer.MatchModeOnlinePvP {
		lobby := NewOnlineLobbyModel(
			selected.GameID, m.sessionID, m.coordinator, m.session.Events(),
			m.config.ScreenW, m.config.ScreenH)
		m.lobby = &lobby
		m.mode = sessionModeLobby
		return m, m.lobby.Init()
	}

	game, err := registry.Create(selected.GameID)
	if err != nil {
		// Shouldn't happen since menu only shows registered games
		return m, nil
	}

	m.game = game

	match := multiplayer.NewMatch(
		multiplayer.MatchID(fmt.Sprintf("match-%d", time.Now().UnixNano())),
		selected.Mode,
		m.sessionID,
	)

	gameModel := NewGameModel(game, m.store, m.config, match)
	m.gameModel = &gameModel
	m.mode = sessionModeGame

	return m, m.gameModel.Init()
}

// backToMenu resets the session to a fresh mode picker.
func (m *SessionModel) backToMenu() tea.Cmd {
	m.mode = sessionModeMenu
	m.gameModel = nil
	m.game = nil
	m.lobby = nil
	m.match = nil
	m.menu = m.freshMenu()
	return m.menu.Init()
}

// updateGame handles updates when a local game is running.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.BackToMenu() {
		return m, m.backToMenu()
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateLobby handles the online matchmaking flow.
func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.lobby.Update(msg)
	if lobby, ok := newModel.(OnlineLobbyModel); ok {
		m.lobby = &lobby
	}

	if m.lobby.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.lobby.BackToMenu() {
		return m, m.backToMenu()
	}

	// A started (or restarted) battle moves us into the match viewer.
	if m.lobby.State() == OnlineStateInMatch {
		match := NewOnlineMatchModel(
			m.coordinator, m.session, m.lobby.MatchID(), m.lobby.Side(),
			m.config.ScreenW, m.config.ScreenH)
		m.match = &match
		m.mode = sessionModeMatch
		return m, m.match.Init()
	}

	return m, cmd
}

// updateMatch handles an active online battle.
func (m SessionModel) updateMatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.match.Update(msg)
	if match, ok := newModel.(OnlineMatchModel); ok {
		m.match = &match
	}

	if m.match.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.match.WantsMenu() {
		return m, m.backToMenu()
	}

	// When the battle settles, hand the end event back to the lobby so it
	// can show the outcome and run the rematch handshake.
	if ended := m.match.Ended(); ended != nil {
		m.mode = sessionModeLobby
		m.match = nil
		return m.updateLobby(*ended)
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.mode {
	case sessionModeGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	case sessionModeLobby:
		if m.lobby != nil {
			return m.lobby.View()
		}
	case sessionModeMatch:
		if m.match != nil {
			return m.match.View()
		}
	}
	return m.menu.View()
}

// OnlineMatchModel shows a server-authoritative battle: it forwards this
// player's keys to the coordinator and draws the snapshots that come back.
type OnlineMatchModel struct {
	coordinator *multiplayer.Coordinator
	session     *multiplayer.ChannelSession
	matchID     multiplayer.MatchID
	side        core.PlayerID
	screen      *core.Screen
	keyMapper   *KeyMapper

	snap     *battle.Snapshot
	tick     uint64
	ended    *multiplayer.MatchEndedEvent
	wantMenu bool
	quitting bool
}

// NewOnlineMatchModel creates the viewer for one online battle.
func NewOnlineMatchModel(
	coordinator *multiplayer.Coordinator,
	session *multiplayer.ChannelSession,
	matchID multiplayer.MatchID,
	side core.PlayerID,
	width, height int,
) OnlineMatchModel {
	return OnlineMatchModel{
		coordinator: coordinator,
		session:     session,
		matchID:     matchID,
		side:        side,
		screen:      core.NewScreen(width, height),
		keyMapper:   NewKeyMapper(),
	}
}

// Init starts pumping coordinator events.
func (m OnlineMatchModel) Init() tea.Cmd {
	return m.waitEvent()
}

func (m OnlineMatchModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-m.session.Events()
		if !ok {
			return nil
		}
		return evt
	}
}

// Update handles messages.
func (m OnlineMatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case multiplayer.SnapshotEvent:
		if msg.MatchID == m.matchID {
			if snap, ok := msg.Snapshot.(battle.Snapshot); ok {
				m.snap = &snap
				m.tick = msg.Tick
			}
		}
		return m, m.waitEvent()

	case multiplayer.MatchEndedEvent:
		if msg.MatchID == m.matchID {
			ended := msg
			m.ended = &ended
			return m, nil // session model hands this back to the lobby
		}
		return m, m.waitEvent()

	case multiplayer.SessionEvent:
		// Lobby leftovers; not ours to handle mid-battle.
		return m, m.waitEvent()
	}

	return m, nil
}

func (m OnlineMatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.forfeit()
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.forfeit()
		m.wantMenu = true
		return m, nil
	}

	var frame core.InputFrame
	if m.keyMapper.MapKeyToFrame(msg, &frame) {
		return m, nil
	}
	if !frame.IsEmpty() {
		m.coordinator.Send(multiplayer.PlayerInputMsg{
			MatchID:  m.matchID,
			Player:   m.side,
			TickHint: m.tick,
			Input:    frame,
		})
	}
	return m, nil
}

func (m *OnlineMatchModel) forfeit() {
	if m.ended == nil {
		m.coordinator.Send(multiplayer.LeaveMatchMsg{
			SessionID: m.session.ID(),
			MatchID:   m.matchID,
		})
	}
}

// View draws the latest server snapshot.
func (m OnlineMatchModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	if m.snap == nil {
		m.screen.DrawTextCentered(m.screen.Height()/2, "Waiting for the server...")
	} else {
		battle.DrawSnapshot(m.screen, *m.snap)
		label := "You are PLAYER 1"
		if m.side == core.Player2 {
			label = "You are PLAYER 2"
		}
		m.screen.DrawTextCentered(m.screen.Height()-1, label)
	}
	return RenderScreen(m.screen)
}

// Ended returns the end event once the battle settles, nil before.
func (m OnlineMatchModel) Ended() *multiplayer.MatchEndedEvent {
	return m.ended
}

// WantsMenu reports a forfeit back to the menu.
func (m OnlineMatchModel) WantsMenu() bool {
	return m.wantMenu
}

// IsQuitting reports a full disconnect request.
func (m OnlineMatchModel) IsQuitting() bool {
	return m.quitting
}

// GameModel wraps a game with multiplayer support and back-to-menu capability.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	match      *multiplayer.Match
	inputFrame core.MultiInputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel creates a new game model with multiplayer support.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, match *multiplayer.Match) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		match:      match,
		inputFrame: core.NewMultiInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		if !m.gameState.GameOver {
			m.game.Reset(m.config)
		}
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.match != nil && m.match.Mode() == multiplayer.MatchModeLocalVersus {
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
		if a := m.keyMapper.MapKeyPlayer1(msg); a != core.ActionNone {
			p1 := m.inputFrame.Player(core.Player1)
			p1.Set(a)
			m.inputFrame.SetPlayer(core.Player1, p1)
		}
		if a := m.keyMapper.MapKeyPlayer2(msg); a != core.ActionNone {
			p2 := m.inputFrame.Player(core.Player2)
			p2.Set(a)
			m.inputFrame.SetPlayer(core.Player2, p2)
		}
	} else if m.keyMapper.MapKeyToMultiFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Check for back to menu (B or Esc when game over or paused)
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if action == MenuActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, nil
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	p1Input := m.inputFrame.Player1()
	if p1Input.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	// For VsCPU, Step injects the CPU opponent itself; local versus feeds
	// both players' frames through StepMulti.
	var result core.StepResult
	if ms, ok := m.game.(multiStepper); ok && m.match != nil && m.match.Mode() == multiplayer.MatchModeLocalVersus {
		result = ms.StepMulti(m.inputFrame)
	} else {
		result = m.game.Step(p1Input)
	}
	m.gameState = result.State

	// Save score on game over
	if m.gameState.GameOver && !m.scoreSaved && m.gameState.Score > 0 {
		if m.store != nil {
			//nolint:errcheck // Best-effort save
			m.store.SaveScore(m.game.ID(), m.gameState.Score)
		}
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
