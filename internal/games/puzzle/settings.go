package puzzle

import (
	"time"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/config"
)

// configPath stores the custom config path set via CLI.
var configPath string

// difficultyPreset stores the difficulty preset set via CLI.
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = ""
	}
}

// LoadTuning resolves the YAML configuration (with the active preset applied)
// into a simulation Config. Missing or unreadable files fall back to the
// reference defaults.
func LoadTuning() Config {
	bc, err := config.LoadBlade(configPath)
	if err != nil {
		return DefaultConfig()
	}
	if difficultyPreset != "" {
		config.ApplyBladePreset(&bc, difficultyPreset)
	}
	return fromBladeConfig(bc)
}

// LoadDifficulty resolves the difficulty progression manager for the active
// preset. Returns nil when progression is disabled, either by the config file
// or the fixed preset.
func LoadDifficulty() *config.DifficultyManager {
	bc, err := config.LoadBlade(configPath)
	if err != nil {
		bc = config.DefaultBladeConfig()
	}
	if difficultyPreset != "" {
		config.ApplyBladePreset(&bc, difficultyPreset)
	}
	if !bc.Difficulty.Enabled {
		return nil
	}
	return config.NewDifficultyManager(bc.Difficulty)
}

// fromBladeConfig maps the YAML structure onto the simulation tuning,
// filling zero values from the reference defaults.
func fromBladeConfig(bc config.BladeConfig) Config {
	cfg := DefaultConfig()

	setInt(&cfg.Width, bc.Board.Width)
	setInt(&cfg.VisibleHeight, bc.Board.VisibleHeight)
	setInt(&cfg.HiddenRows, bc.Board.HiddenRows)
	if bc.Board.GameOverColumn >= 0 && bc.Board.GameOverColumn < cfg.Width {
		cfg.GameOverColumn = bc.Board.GameOverColumn
	}

	setInt(&cfg.SubPositions, bc.Fall.SubPositions)
	setMs(&cfg.NormalFall, bc.Fall.NormalMs)
	setMs(&cfg.AcceleratedFall, bc.Fall.AcceleratedMs)
	if bc.Fall.BufferFraction > 0 && bc.Fall.BufferFraction < 1 {
		cfg.BufferFraction = bc.Fall.BufferFraction
	}
	if bc.Fall.SpawnSubPos >= 0 && bc.Fall.SpawnSubPos < 1 {
		cfg.SpawnSubPos = bc.Fall.SpawnSubPos
	}
	if bc.Fall.BreakerChance >= 0 && bc.Fall.BreakerChance <= 1 {
		cfg.BreakerChance = bc.Fall.BreakerChance
	}

	setInt(&cfg.WallKickMax, bc.Handling.WallKickMax)
	setMs(&cfg.WallKickWindow, bc.Handling.WallKickWindowMs)
	setMs(&cfg.FlipCooldown, bc.Handling.FlipCooldownMs)
	setMs(&cfg.StallTimeout, bc.Handling.StallTimeoutMs)

	setMs(&cfg.BreakDuration, bc.Chain.BreakMs)
	setMs(&cfg.StateDelay, bc.Chain.StateDelayMs)
	setMs(&cfg.ChainStagger, bc.Chain.StaggerMs)
	setMs(&cfg.GravityWait, bc.Chain.GravityWaitMs)
	setMs(&cfg.ChainTimeout, bc.Chain.TimeoutMs)
	setInt(&cfg.GarbageLandings, bc.Chain.GarbageLandings)
	setInt(&cfg.StrikeLandings, bc.Chain.StrikeLandings)

	return cfg
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setMs(dst *time.Duration, ms int) {
	if ms > 0 {
		*dst = time.Duration(ms) * time.Millisecond
	}
}
