package systems

import (
	"time"

	"github.com/ferrovine/last-call/engine"
)

// CooldownSystem steps every bottle's drain/cooldown state machine.
type CooldownSystem struct{}

// NewCooldownSystem creates the bottle cooldown system.
func NewCooldownSystem() *CooldownSystem {
	return &CooldownSystem{}
}

// Priority places bottle updates after patron updates.
func (s *CooldownSystem) Priority() int {
	return 30
}

// Update advances each bottle against the injected clock.
func (s *CooldownSystem) Update(g *engine.Game, dt time.Duration) {
	now := g.Time.Now()
	for _, b := range g.Round.Bottles() {
		b.Update(now)
	}
}
