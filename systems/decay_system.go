package systems

import (
	"time"

	"github.com/ferrovine/last-call/components"
	"github.com/ferrovine/last-call/constants"
	"github.com/ferrovine/last-call/engine"
)

// DecaySystem advances every seated patron: approach movement, patience decay
// with mood degradation, exit movement, and eviction once the exit completes.
type DecaySystem struct{}

// NewDecaySystem creates the patron lifecycle system.
func NewDecaySystem() *DecaySystem {
	return &DecaySystem{}
}

// Priority places patron updates right after spawn allocation.
func (s *DecaySystem) Priority() int {
	return 20
}

// Update runs each patron's state machine once. A storm-off counts the loss
// and breaks the combo on this very tick; the slot is released only when the
// exit has fully played out and the entity is removable.
func (s *DecaySystem) Update(g *engine.Game, dt time.Duration) {
	difficulty := g.Round.Difficulty()

	for i := 0; i < constants.MaxCustomers; i++ {
		c := g.Round.CustomerAt(i)
		if c == nil {
			continue
		}

		if c.Update(dt, difficulty) == components.CustomerEventStormed {
			g.Round.RegisterLoss()
			g.Emit(engine.FeedbackStorm, i, 0)
		}

		if c.Removable {
			g.Round.ReleaseSlot(i)
		}
	}
}
