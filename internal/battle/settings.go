package battle

import (
	"time"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/attack"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/config"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/games/puzzle"
)

// configPath stores the custom config path set via CLI.
var configPath string

// SetConfigPath sets the custom config path for loading. The board tuning
// lives in the same file, so the puzzle side follows along.
func SetConfigPath(path string) {
	configPath = path
	puzzle.SetConfigPath(path)
}

// SetDifficultyPreset sets the difficulty preset for both boards.
func SetDifficultyPreset(preset string) {
	puzzle.SetDifficultyPreset(preset)
}

// loadConfig resolves the YAML configuration into a battle Config. Missing
// files fall back to the reference defaults.
func loadConfig() Config {
	cfg := DefaultConfig()
	cfg.Puzzle = puzzle.LoadTuning()

	bc, err := config.LoadBlade(configPath)
	if err != nil {
		return cfg
	}

	switch bc.Attack.GarbageFormula {
	case string(attack.FormulaProduct):
		cfg.Calc.Formula = attack.FormulaProduct
	case string(attack.FormulaHalved):
		cfg.Calc.Formula = attack.FormulaHalved
	}
	cfg.Calc.CombineClusters = bc.Attack.CombineClusters
	cfg.UseDatabase = bc.Attack.UseDatabase
	cfg.DatabasePath = bc.Attack.DatabasePath

	if bc.Attack.SpawnDelayMs > 0 {
		cfg.Queue.SpawnDelay = time.Duration(bc.Attack.SpawnDelayMs) * time.Millisecond
	}
	if bc.Attack.FallCadenceMs > 0 {
		cfg.Queue.FallCadence = time.Duration(bc.Attack.FallCadenceMs) * time.Millisecond
	}
	if bc.Attack.ExpiryMs > 0 {
		cfg.Queue.Expiry = time.Duration(bc.Attack.ExpiryMs) * time.Millisecond
	}
	return cfg
}
