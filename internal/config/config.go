// Package config provides YAML-based game configuration loading and
// difficulty management for the battle platform.
package config

// BladeConfig contains all tunables for the Blade Fighters simulation.
// Durations are expressed in milliseconds so the YAML stays plain numbers.
type BladeConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Fall       FallConfig       `yaml:"fall"`
	Handling   HandlingConfig   `yaml:"handling"`
	Chain      ChainConfig      `yaml:"chain"`
	Attack     AttackConfig     `yaml:"attack"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the grid geometry.
type BoardConfig struct {
	Width          int `yaml:"width"`
	VisibleHeight  int `yaml:"visible_height"`
	HiddenRows     int `yaml:"hidden_rows"`
	GameOverColumn int `yaml:"game_over_column"`
}

// FallConfig defines piece fall behavior.
type FallConfig struct {
	SubPositions   int     `yaml:"sub_positions"`
	NormalMs       int     `yaml:"normal_ms"`
	AcceleratedMs  int     `yaml:"accelerated_ms"`
	BufferFraction float64 `yaml:"buffer_fraction"`
	SpawnSubPos    float64 `yaml:"spawn_sub_pos"`
	BreakerChance  float64 `yaml:"breaker_chance"`
}

// HandlingConfig defines rotation and movement limits.
type HandlingConfig struct {
	WallKickMax      int `yaml:"wall_kick_max"`
	WallKickWindowMs int `yaml:"wall_kick_window_ms"`
	FlipCooldownMs   int `yaml:"flip_cooldown_ms"`
	StallTimeoutMs   int `yaml:"stall_timeout_ms"`
}

// ChainConfig defines chain reaction timing and attack-block conversion.
type ChainConfig struct {
	BreakMs         int `yaml:"break_ms"`
	StateDelayMs    int `yaml:"state_delay_ms"`
	StaggerMs       int `yaml:"stagger_ms"`
	GravityWaitMs   int `yaml:"gravity_wait_ms"`
	TimeoutMs       int `yaml:"timeout_ms"`
	GarbageLandings int `yaml:"garbage_landings"`
	StrikeLandings  int `yaml:"strike_landings"`
}

// AttackConfig defines the combo-to-attack conversion and delivery rules.
type AttackConfig struct {
	GarbageFormula  string `yaml:"garbage_formula"` // "halved" or "product"
	CombineClusters bool   `yaml:"combine_clusters"`
	UseDatabase     bool   `yaml:"use_database"`
	DatabasePath    string `yaml:"database_path"` // optional hand-tuned rules
	SpawnDelayMs    int    `yaml:"spawn_delay_ms"`
	FallCadenceMs   int    `yaml:"fall_cadence_ms"`
	ExpiryMs        int    `yaml:"expiry_ms"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Fall speedup at max difficulty
	BreakerDrop     float64 `yaml:"breaker_drop"`     // Breaker chance reduction at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
