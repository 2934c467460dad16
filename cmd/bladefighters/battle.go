package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/battle"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/core"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/platform/tui"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/registry"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/storage"
)

var flagLocalVersus bool

var battleCmd = &cobra.Command{
	Use:   "battle",
	Short: "Start a battle",
	Long: `Start a two-board battle. By default you face the CPU; pass
--local to share the keyboard with a second player (letters vs arrows).

Examples:
  bladefighters battle
  bladefighters battle --difficulty hard
  bladefighters battle --local`,
	Run: runBattle,
}

func init() {
	battleCmd.Flags().BoolVar(&flagLocalVersus, "local", false, "Two players on one keyboard")
	battleCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	battleCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.AddCommand(battleCmd)
}

func runBattle(_ *cobra.Command, _ []string) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	battle.SetConfigPath(flagConfig)
	battle.SetDifficultyPreset(flagDifficulty)

	gameID := "battle"
	if flagLocalVersus {
		gameID = "battle_local"
	}
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	var runErr error
	if flagLocalVersus {
		runErr = tui.RunLocalVersus(game, store, cfg)
	} else {
		runErr = tui.Run(game, store, cfg)
	}

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
