package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/battle"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/platform/tui"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/registry"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Play a mode",
	Long: `Start playing the specified mode.

Modes:
  blade         - Single-board practice
  battle        - Battle against the CPU
  battle_local  - Two players on one keyboard

Controls (Player 1):
  A/D or Left/Right  - Move piece
  W/Up               - Rotate clockwise
  Z                  - Rotate counter-clockwise
  X/Tab              - Flip attached block
  S/Down             - Soft drop
  P                  - Pause
  R                  - Restart (after game over)
  Q/Ctrl+C           - Quit

In local versus, Player 2 uses the arrow keys with , and . to rotate.

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  bladefighters play blade
  bladefighters play battle --difficulty easy
  bladefighters play battle_local
  bladefighters play blade --config ./my-blade.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if mode exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'bladefighters list' to see available modes.")
		os.Exit(1)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Create runtime config
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Set config path and difficulty before creation
	applyTuning(gameID)

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	// Run the game
	var runErr error
	if gameID == "battle_local" {
		runErr = tui.RunLocalVersus(game, store, cfg)
	} else {
		runErr = tui.Run(game, store, cfg)
	}

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// applyTuning routes the --config and --difficulty flags to the package that
// owns the selected mode.
func applyTuning(gameID string) {
	switch gameID {
	case "blade":
		puzzle.SetConfigPath(flagConfig)
		puzzle.SetDifficultyPreset(flagDifficulty)
	case "battle", "battle_local":
		battle.SetConfigPath(flagConfig)
		battle.SetDifficultyPreset(flagDifficulty)
	}
}
