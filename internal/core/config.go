package core

// RuntimeConfig is handed to a game when it is created or reset. It fixes
// the screen size the snapshot renderer may draw into, the simulation tick
// rate, and the RNG seed so a battle can be replayed deterministically.
type RuntimeConfig struct {
	ScreenW  int   // screen width in characters
	ScreenH  int   // screen height in characters
	TickRate int   // simulation ticks per second (default 60)
	Seed     int64 // RNG seed; 0 means the platform picks one from the clock
}

// DefaultConfig returns a RuntimeConfig sized for a standard terminal.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
	}
}

// GameState is the status a game reports back to the platform each tick.
type GameState struct {
	Score    int  // current score
	GameOver bool // whether the game has ended
	Paused   bool // whether the game is paused
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
