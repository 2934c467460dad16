package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
)

// Lobby is a hosted challenge waiting for an opponent. The host shares the
// code out of band; whoever enters it becomes Player 2.
type Lobby struct {
	Code      string
	GameID    string
	Host      SessionHandle
	Joiner    SessionHandle
	CreatedAt time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // empty lobbies and stale rematch offers expire after this
	TickRate      int           // authoritative battle tick rate (Hz)
	CleanupPeriod time.Duration // sweep interval for expired lobbies
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		TickRate:      60,
		CleanupPeriod: 30 * time.Second,
	}
}

// GameFactory creates battle instances for matches.
type GameFactory func(gameID string, cfg core.RuntimeConfig) (OnlineGame, error)

// MatchResultSaver persists settled results. An interface so the coordinator
// never depends on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is the persistence form of a settled battle.
type MatchResultData struct {
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string
	EndReason      string
	DurationSecs   int
}

// rematchOffer tracks a finished battle whose players may go again. Sides
// are preserved: the original host stays Player 1.
type rematchOffer struct {
	code    string
	gameID  string
	host    SessionID
	joiner  SessionID
	ready   map[SessionID]bool
	endedAt time.Time
}

// Coordinator owns every lobby, running battle and rematch offer. Sessions
// talk to it through Send; it talks back through SessionHandle events.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // optional

	mu        sync.RWMutex
	lobbies   map[string]*Lobby
	matches   map[MatchID]*OnlineMatch
	rematches map[MatchID]*rematchOffer

	sessionLobby map[SessionID]string
	sessionMatch map[SessionID]MatchID

	msgChan chan CoordinatorMessage
	done    chan struct{}
}

// NewCoordinator creates a coordinator around a session registry and game
// factory. Call Start before sending messages.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	return &Coordinator{
		config:       cfg,
		gameFactory:  factory,
		sessions:     sessions,
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		rematches:    make(map[MatchID]*rematchOffer),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator.
func (c *Coordinator) Stop() {
	close(c.done)
}

// Send queues a message for async processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	case ReadyForRematchMsg:
		c.handleRematch(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		GameID:    msg.GameID,
		Host:      session,
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	session.Send(LobbyCreatedEvent{Code: code, GameID: msg.GameID})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(msg.Code)
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if lobby.Joiner != nil {
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	}
	if lobby.Host.ID() == msg.SessionID {
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	lobby.Joiner = session
	c.sessionLobby[msg.SessionID] = code

	lobby.Host.Send(LobbyJoinedEvent{
		Code:       code,
		Side:       Player1,
		OpponentID: msg.SessionID,
	})
	session.Send(LobbyJoinedEvent{
		Code:       code,
		Side:       Player2,
		OpponentID: lobby.Host.ID(),
	})

	c.startMatch(lobby)
}

// startMatch launches the battle for a full lobby. Caller holds the lock.
// Both boards share one seed through the game's RuntimeConfig, so neither
// player gets a luckier piece stream.
func (c *Coordinator) startMatch(lobby *Lobby) {
	matchID := MatchID(fmt.Sprintf("match-%s-%d", lobby.Code, time.Now().UnixNano()))

	cfg := core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: c.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	game, err := c.gameFactory(lobby.GameID, cfg)
	if err != nil {
		lobby.Host.Send(LobbyErrorEvent{Message: "Failed to create game"})
		lobby.Joiner.Send(LobbyErrorEvent{Message: "Failed to create game"})
		return
	}

	match := NewOnlineMatch(matchID, lobby.Code, lobby.GameID, game, lobby.Host, lobby.Joiner, c.config.TickRate)

	c.matches[matchID] = match
	hostID := lobby.Host.ID()
	joinerID := lobby.Joiner.ID()

	delete(c.sessionLobby, hostID)
	delete(c.sessionLobby, joinerID)
	c.sessionMatch[hostID] = matchID
	c.sessionMatch[joinerID] = matchID
	delete(c.lobbies, lobby.Code)

	lobby.Host.Send(MatchStartedEvent{
		MatchID: matchID,
		Side:    Player1,
		Code:    lobby.Code,
	})
	lobby.Joiner.Send(MatchStartedEvent{
		MatchID: matchID,
		Side:    Player2,
		Code:    lobby.Code,
	})

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}

	if c.resultSaver != nil {
		winnerSession := ""
		if result.Winner == Player1 {
			winnerSession = string(match.player1Session.ID())
		} else if result.Winner == Player2 {
			winnerSession = string(match.player2Session.ID())
		}

		tickRate := max(1, c.config.TickRate)
		resultData := MatchResultData{
			MatchID:        string(matchID),
			GameID:         match.GameID(),
			Player1Session: string(match.player1Session.ID()),
			Player2Session: string(match.player2Session.ID()),
			Score1:         result.Score1,
			Score2:         result.Score2,
			WinnerSession:  winnerSession,
			EndReason:      result.Reason.String(),
			DurationSecs:   int(result.Ticks / uint64(tickRate)), //nolint:gosec // tickRate is clamped positive
		}
		// Best effort, never blocks the coordinator.
		go func() {
			_ = c.resultSaver.SaveMatchResult(resultData) //nolint:errcheck // intentional fire-and-forget
		}()
	}

	for _, sessionID := range []SessionID{match.player1Session.ID(), match.player2Session.ID()} {
		delete(c.sessionMatch, sessionID)
	}
	delete(c.matches, matchID)

	// A battle that ran to completion leaves a rematch offer behind; one
	// that died to a disconnect has nobody to offer it to.
	if result.Reason == MatchEndReasonCompleted {
		c.rematches[matchID] = &rematchOffer{
			code:    match.Code(),
			gameID:  match.GameID(),
			host:    match.player1Session.ID(),
			joiner:  match.player2Session.ID(),
			ready:   make(map[SessionID]bool, 2),
			endedAt: time.Now(),
		}
	}

	endEvent := MatchEndedEvent{
		MatchID: matchID,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Score1:  result.Score1,
		Score2:  result.Score2,
	}
	match.player1Session.Send(endEvent)
	match.player2Session.Send(endEvent)
}

// handleRematch records one player's offer; when both former players are
// ready the pair goes straight back into a fresh battle, same sides, new
// seed.
func (c *Coordinator) handleRematch(msg ReadyForRematchMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	offer, exists := c.rematches[msg.MatchID]
	if !exists || (msg.SessionID != offer.host && msg.SessionID != offer.joiner) {
		session.Send(LobbyErrorEvent{Message: "Rematch no longer available"})
		return
	}

	offer.ready[msg.SessionID] = true
	if !offer.ready[offer.host] || !offer.ready[offer.joiner] {
		session.Send(RematchPendingEvent{MatchID: msg.MatchID})
		return
	}

	host, hostOK := c.sessions.Get(offer.host)
	joiner, joinerOK := c.sessions.Get(offer.joiner)
	delete(c.rematches, msg.MatchID)
	if !hostOK || !joinerOK {
		session.Send(LobbyErrorEvent{Message: "Opponent is gone"})
		return
	}

	c.startMatch(&Lobby{
		Code:      offer.code,
		GameID:    offer.gameID,
		Host:      host,
		Joiner:    joiner,
		CreatedAt: time.Now(),
	})
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists || lobby.Host.ID() != msg.SessionID {
		return
	}

	if lobby.Joiner != nil {
		lobby.Joiner.Send(MatchEndedEvent{
			Reason: MatchEndReasonHostLeft,
		})
		delete(c.sessionLobby, lobby.Joiner.ID())
	}

	delete(c.lobbies, msg.Code)
	delete(c.sessionLobby, msg.SessionID)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists {
		return
	}

	if lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID {
		lobby.Joiner = nil
		delete(c.sessionLobby, msg.SessionID)
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: msg.Code})
		return
	}

	if lobby.Host.ID() == msg.SessionID {
		if lobby.Joiner != nil {
			lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
			delete(c.sessionLobby, lobby.Joiner.ID())
		}
		delete(c.lobbies, msg.Code)
		delete(c.sessionLobby, msg.SessionID)
	}
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.Lock()
	match, exists := c.matches[msg.MatchID]
	c.mu.Unlock()

	if !exists {
		return
	}

	match.PlayerDisconnected(msg.SessionID)
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}

	match.SendInput(msg.Player, msg.Input)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		if lobby, exists := c.lobbies[code]; exists {
			if lobby.Host.ID() == msg.SessionID {
				if lobby.Joiner != nil {
					lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
					delete(c.sessionLobby, lobby.Joiner.ID())
				}
				delete(c.lobbies, code)
			} else if lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID {
				lobby.Joiner = nil
				lobby.Host.Send(LobbyPlayerLeftEvent{Code: code})
			}
		}
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}

	// Any rematch offer involving this session dies with it.
	for id, offer := range c.rematches {
		if offer.host == msg.SessionID || offer.joiner == msg.SessionID {
			delete(c.rematches, id)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.done:
			return
		}
	}
}

// cleanupExpired sweeps lobbies nobody joined and rematch offers nobody
// took up.
func (c *Coordinator) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for code, lobby := range c.lobbies {
		if lobby.Joiner == nil && now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
	for id, offer := range c.rematches {
		if now.Sub(offer.endedAt) > c.config.LobbyTimeout {
			delete(c.rematches, id)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4)
	_, err := rand.Read(b)
	if err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	// base32 keeps the alphabet to A-Z and 2-7, easy to read over voice.
	return strings.ToUpper(base32.StdEncoding.EncodeToString(b)[:6])
}

// GetLobby returns a lobby by code, for tests.
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns a running match by ID, for tests.
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running battles.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
