package puzzle

import "time"

// Config holds every tunable of the simulation. The numeric defaults are the
// reference values the gameplay was balanced around; the config package can
// override any of them from YAML.
type Config struct {
	Width         int
	VisibleHeight int
	HiddenRows    int

	// SubPositions is the number of sub-cell steps a piece takes to cross
	// one row. Higher values give smoother fall interpolation.
	SubPositions int

	// NormalFall and AcceleratedFall are the wall-clock durations a piece
	// takes to traverse the full grid height at each speed.
	NormalFall      time.Duration
	AcceleratedFall time.Duration

	// BufferFraction is the sub-cell margin kept between a piece and the
	// obstruction below it, preventing phasing one sub-step early.
	BufferFraction float64

	// BreakerChance is the probability that a spawned block is a breaker.
	BreakerChance float64

	// SpawnSubPos is the fractional row progress a fresh piece starts with.
	SpawnSubPos float64

	WallKickMax    int
	WallKickWindow time.Duration
	FlipCooldown   time.Duration
	StallTimeout   time.Duration

	BreakDuration time.Duration
	StateDelay    time.Duration
	ChainStagger  time.Duration
	GravityWait   time.Duration
	ChainTimeout  time.Duration

	GarbageLandings int
	StrikeLandings  int

	// GameOverColumn is the column whose overflow-row occupancy ends the game.
	GameOverColumn int
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		Width:           6,
		VisibleHeight:   15,
		HiddenRows:      1,
		SubPositions:    20,
		NormalFall:      64000 * time.Millisecond,
		AcceleratedFall: 3600 * time.Millisecond,
		BufferFraction:  0.1,
		BreakerChance:   0.25,
		SpawnSubPos:     0.3,
		WallKickMax:     2,
		WallKickWindow:  500 * time.Millisecond,
		FlipCooldown:    50 * time.Millisecond,
		StallTimeout:    500 * time.Millisecond,
		BreakDuration:   300 * time.Millisecond,
		StateDelay:      50 * time.Millisecond,
		ChainStagger:    30 * time.Millisecond,
		GravityWait:     200 * time.Millisecond,
		ChainTimeout:    3000 * time.Millisecond,
		GarbageLandings: 2,
		StrikeLandings:  3,
		GameOverColumn:  3,
	}
}

// TotalHeight returns visible plus hidden rows.
func (c Config) TotalHeight() int { return c.VisibleHeight + c.HiddenRows }

// MicroFallTime derives the interval between sub-cell steps from a full-grid
// traversal duration.
func (c Config) MicroFallTime(fall time.Duration) time.Duration {
	steps := c.TotalHeight() * c.SubPositions
	if steps <= 0 {
		return fall
	}
	return fall / time.Duration(steps)
}
