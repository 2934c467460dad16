package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/registry"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/storage"
)

// multiStepper is implemented by games that accept per-player input,
// which is what local two-player battles drive.
type multiStepper interface {
	StepMulti(in core.MultiInputFrame) core.StepResult
}

// Model is the Bubble Tea model for running games.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	keys       *KeyMapper
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	multiFrame core.MultiInputFrame
	twoPlayer  bool
	gameState  core.GameState
	quitting   bool
	scoreSaved bool // Whether score has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		keys:       NewKeyMapper(),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		multiFrame: core.NewMultiInputFrame(),
	}
}

// NewLocalVersusModel creates a model that feeds two key sets into a game's
// StepMulti: letters for Player1, the arrow block for Player2.
func NewLocalVersusModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	m := NewModel(game, store, cfg)
	if _, ok := game.(multiStepper); ok {
		m.twoPlayer = true
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	// Initialize the game
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	// Start the tick loop
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit keys
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	if m.twoPlayer {
		if a := m.keys.MapKeyPlayer1(msg); a != core.ActionNone {
			p1 := m.multiFrame.Player(core.Player1)
			p1.Set(a)
			m.multiFrame.SetPlayer(core.Player1, p1)
		}
		if a := m.keys.MapKeyPlayer2(msg); a != core.ActionNone {
			p2 := m.multiFrame.Player(core.Player2)
			p2.Set(a)
			m.multiFrame.SetPlayer(core.Player2, p2)
		}
		return m, nil
	}

	if a, _ := m.keys.MapKey(msg); a != core.ActionNone {
		m.inputFrame.Set(a)
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	// Update screen size
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// Reinitialize game with new dimensions if needed
	// Note: This resets the game - could be improved to preserve state
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	if m.restartRequested() && m.gameState.GameOver {
		// Reset seed for new game
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		m.multiFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	// Run game simulation
	var result core.StepResult
	if m.twoPlayer {
		result = m.game.(multiStepper).StepMulti(m.multiFrame)
	} else {
		result = m.game.Step(m.inputFrame)
	}
	m.gameState = result.State

	// Save score on game over (once)
	if m.gameState.GameOver && !m.scoreSaved && m.gameState.Score > 0 {
		if m.store != nil {
			//nolint:errcheck // Best-effort save, game continues regardless
			m.store.SaveScore(m.game.ID(), m.gameState.Score)
		}
		m.scoreSaved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()
	m.multiFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

func (m Model) restartRequested() bool {
	if m.twoPlayer {
		return m.multiFrame.Player(core.Player1).Has(core.ActionRestart)
	}
	return m.inputFrame.Has(core.ActionRestart)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	// Render current state
	m.game.Render(m.screen)

	// Create screenshots directory
	dir := filepath.Join(os.Getenv("HOME"), ".bladefighters", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	// Save screenshot
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Render game to screen buffer
	m.game.Render(m.screen)

	// Convert screen to string
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse (for future use)
	)

	_, err := p.Run()
	return err
}

// RunLocalVersus starts a local two-player battle on one keyboard.
func RunLocalVersus(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewLocalVersusModel(game, store, cfg)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
