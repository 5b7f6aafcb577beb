package constants

import "time"

// Game Loop Timing Constants
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// GameUpdateInterval is the game logic update interval (clock tick)
	GameUpdateInterval = 50 * time.Millisecond

	// MaxTickDelta caps the delta fed into decay/cooldown math after a
	// stall (suspended terminal, debugger). Wall time beyond the cap is
	// dropped so meters resume smoothly instead of jumping.
	MaxTickDelta = 250 * time.Millisecond
)
