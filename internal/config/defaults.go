package config

import (
	_ "embed"
)

//go:embed defaults/blade.yaml
var defaultBladeYAML []byte

// DefaultBladeConfig returns the reference tuning the gameplay was balanced
// around. It mirrors defaults/blade.yaml; the YAML wins when both are present.
func DefaultBladeConfig() BladeConfig {
	return BladeConfig{
		Board: BoardConfig{
			Width:          6,
			VisibleHeight:  15,
			HiddenRows:     1,
			GameOverColumn: 3,
		},
		Fall: FallConfig{
			SubPositions:   20,
			NormalMs:       64000,
			AcceleratedMs:  3600,
			BufferFraction: 0.1,
			SpawnSubPos:    0.3,
			BreakerChance:  0.25,
		},
		Handling: HandlingConfig{
			WallKickMax:      2,
			WallKickWindowMs: 500,
			FlipCooldownMs:   50,
			StallTimeoutMs:   500,
		},
		Chain: ChainConfig{
			BreakMs:         300,
			StateDelayMs:    50,
			StaggerMs:       30,
			GravityWaitMs:   200,
			TimeoutMs:       3000,
			GarbageLandings: 2,
			StrikeLandings:  3,
		},
		Attack: AttackConfig{
			GarbageFormula:  "halved",
			CombineClusters: true,
			UseDatabase:     true,
			SpawnDelayMs:    1000,
			FallCadenceMs:   200,
			ExpiryMs:        30000,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 5000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.5,
				BreakerDrop:     0.1,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "blade", "battle":
		return defaultBladeYAML
	default:
		return nil
	}
}
