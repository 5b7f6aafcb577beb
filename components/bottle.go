package components

import (
	"time"

	"github.com/ferrovine/last-call/constants"
)

// BottleState is the cooldown state of one service bottle.
type BottleState int

const (
	BottleIdle BottleState = iota
	BottleActive
	BottleDepleted
	BottleReplenishing
)

func (s BottleState) String() string {
	switch s {
	case BottleIdle:
		return "idle"
	case BottleActive:
		return "active"
	case BottleDepleted:
		return "depleted"
	case BottleReplenishing:
		return "replenishing"
	default:
		return "unknown"
	}
}

// BottleTemplate is one canned response. The table is static data; one bottle
// exists per template for the whole session.
type BottleTemplate struct {
	ID     int
	Label  string
	Text   string
	Locked bool
}

// BottleTemplates is the static response table.
var BottleTemplates = []BottleTemplate{
	{ID: 0, Label: "House Pour", Text: "Coming right up! \U0001F37A"},
	{ID: 1, Label: "Top Shelf", Text: "Only the good stuff for you."},
	{ID: 2, Label: "On The House", Text: "This one's on us. Thanks for stopping by!"},
	{ID: 3, Label: "Last Call", Text: "You got the last pour of the night."},
	{ID: 4, Label: "Reserve", Text: "Reserve cask. Not tapped yet.", Locked: true},
}

// Bottle is a reusable, cooldown-gated serving action.
//
// The visible drain and the cooldown are two independent timers: the drain
// empties the gauge over a small fraction of the cooldown, then the bottle
// sits depleted until the cooldown deadline passes, replenishes, and returns
// to idle. Use is admitted by cooldown progress, not by the visual phase.
type Bottle struct {
	TemplateID int
	Label      string
	Text       string
	Locked     bool

	state       BottleState
	cooldownEnd time.Time
	drainEnd    time.Time
}

// NewBottle creates a bottle for the given template. Locked templates start
// depleted and never leave it.
func NewBottle(t BottleTemplate) *Bottle {
	b := &Bottle{
		TemplateID: t.ID,
		Label:      t.Label,
		Text:       t.Text,
		Locked:     t.Locked,
	}
	if t.Locked {
		b.state = BottleDepleted
	}
	return b
}

// State returns the current cooldown state.
func (b *Bottle) State() BottleState {
	return b.state
}

// OnCooldown reports whether the cooldown deadline is still pending.
func (b *Bottle) OnCooldown(now time.Time) bool {
	return now.Before(b.cooldownEnd)
}

// Progress returns cooldown completion in [0,1]. 1 means usable.
func (b *Bottle) Progress(now time.Time) float64 {
	if !b.OnCooldown(now) {
		return 1
	}
	remaining := b.cooldownEnd.Sub(now)
	p := 1 - float64(remaining)/float64(constants.BottleCooldown)
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}

// FillLevel returns the gauge level in [0,1] for rendering.
func (b *Bottle) FillLevel(now time.Time) float64 {
	switch b.state {
	case BottleIdle:
		return 1
	case BottleActive:
		drain := time.Duration(float64(constants.BottleCooldown) * constants.BottleDrainFraction)
		remaining := b.drainEnd.Sub(now)
		if remaining <= 0 {
			return 0
		}
		return float64(remaining) / float64(drain)
	case BottleReplenishing:
		return b.Progress(now)
	default:
		return 0
	}
}

// Use pours from the bottle. Rejected while locked or while cooldown progress
// is below 1; on success the bottle goes active with a fresh cooldown deadline
// and a drain deadline at a fraction of it.
func (b *Bottle) Use(now time.Time) bool {
	if b.Locked {
		return false
	}
	if b.Progress(now) < 1 {
		return false
	}
	b.state = BottleActive
	b.cooldownEnd = now.Add(constants.BottleCooldown)
	b.drainEnd = now.Add(time.Duration(float64(constants.BottleCooldown) * constants.BottleDrainFraction))
	return true
}

// Update advances at most one phase per tick. The two-phase gap between
// depleted and replenishing is deliberate: a bottle used at T drains, sits
// depleted while the cooldown is still pending, and only then replenishes.
func (b *Bottle) Update(now time.Time) {
	if b.Locked {
		return
	}
	switch b.state {
	case BottleActive:
		if !now.Before(b.drainEnd) {
			b.state = BottleDepleted
		}
	case BottleDepleted:
		if !b.OnCooldown(now) {
			b.state = BottleReplenishing
		}
	case BottleReplenishing:
		if b.cooldownEnd.Sub(now) <= 0 {
			b.state = BottleIdle
		}
	}
}

// Reset returns the bottle to idle and full, unless locked.
func (b *Bottle) Reset() {
	if b.Locked {
		return
	}
	b.state = BottleIdle
	b.cooldownEnd = time.Time{}
	b.drainEnd = time.Time{}
}
