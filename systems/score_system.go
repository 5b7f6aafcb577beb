package systems

import (
	"time"

	"github.com/ferrovine/last-call/engine"
)

// ScoreSystem owns the tick side of the scoring engine: the combo expiry
// window. The serve-time side (points, chain growth, difficulty ramp) runs
// synchronously inside Round.RecordServe when the input handler serves.
type ScoreSystem struct{}

// NewScoreSystem creates the combo expiry system.
func NewScoreSystem() *ScoreSystem {
	return &ScoreSystem{}
}

// Priority places combo decay last within a tick.
func (s *ScoreSystem) Priority() int {
	return 40
}

// Update decays the combo window by the tick delta.
func (s *ScoreSystem) Update(g *engine.Game, dt time.Duration) {
	g.Round.DecayCombo(dt)
}
