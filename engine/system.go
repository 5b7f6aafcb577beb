package engine

import "time"

// System is one step of the fixed tick. Systems run in ascending priority
// order; the in-tick ordering (spawn before customer updates before bottle
// updates before combo decay) is load-bearing, not incidental.
type System interface {
	// Priority orders systems within a tick; lower runs first.
	Priority() int

	// Update advances the system by one clamped tick delta.
	Update(g *Game, dt time.Duration)
}
