package engine

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/ferrovine/last-call/components"
	"github.com/ferrovine/last-call/constants"
	"github.com/ferrovine/last-call/feed"
)

// FeedbackKind labels a gameplay moment the presentation layer may react to
// with a sound cue or a visual effect. The core never depends on how, or
// whether, feedback is surfaced.
type FeedbackKind int

const (
	FeedbackSelect FeedbackKind = iota
	FeedbackServe
	FeedbackError
	FeedbackStorm
	FeedbackGameOver
)

// FeedbackFunc receives gameplay moments. slot is the affected bar slot
// (-1 when not slot-related); points is nonzero only for FeedbackServe.
type FeedbackFunc func(kind FeedbackKind, slot int, points int)

// Game wires the round to its systems, the message source and the input
// surface. All simulation state mutation happens inside Update or inside the
// synchronous action methods called between ticks.
type Game struct {
	Round *Round
	Time  TimeProvider

	// Feed is the message-source collaborator; nil in pure demo mode.
	Feed feed.Source

	// Reduced mode: the source is unavailable or inactive, so the allocator
	// relies on synthetic patrons only and serves skip response delivery.
	Reduced bool

	// SelectedBottle is the shelf index the next serve pours from; -1 none.
	SelectedBottle int

	systems  []System
	feedback FeedbackFunc
}

// NewGame creates a game around the given round and clock.
func NewGame(round *Round, tp TimeProvider, source feed.Source, reduced bool) *Game {
	return &Game{
		Round:          round,
		Time:           tp,
		Feed:           source,
		Reduced:        reduced,
		SelectedBottle: -1,
	}
}

// RegisterSystem adds a system, keeping the list sorted by priority.
func (g *Game) RegisterSystem(s System) {
	g.systems = append(g.systems, s)
	sort.SliceStable(g.systems, func(i, j int) bool {
		return g.systems[i].Priority() < g.systems[j].Priority()
	})
}

// SetFeedback installs the presentation feedback hook.
func (g *Game) SetFeedback(fn FeedbackFunc) {
	g.feedback = fn
}

// Emit forwards a gameplay moment to the presentation hook, if installed.
func (g *Game) Emit(kind FeedbackKind, slot, points int) {
	if g.feedback != nil {
		g.feedback(kind, slot, points)
	}
}

// Update advances the simulation by one tick. While the round is not playing
// (menu, pause, game over) none of the gated steps execute; the caller keeps
// ticking so the presentation can still animate overlays.
func (g *Game) Update(dt time.Duration) {
	if g.Round.State() != RoundPlaying {
		return
	}

	for _, s := range g.systems {
		s.Update(g, dt)
	}

	// Checked every tick so the transition lands on the same tick the
	// threshold is crossed
	if g.Round.CustomersLost() >= constants.MaxLost {
		if g.Round.EndGame() {
			g.Emit(FeedbackGameOver, -1, 0)
		}
	}
}

// SelectBottle picks the bottle the next serve pours from. Locked bottles
// cannot be selected; a bottle on cooldown can be, pouring is what is gated.
func (g *Game) SelectBottle(i int) bool {
	b := g.Round.Bottle(i)
	if b == nil || b.Locked {
		g.Emit(FeedbackError, -1, 0)
		return false
	}
	g.SelectedBottle = i
	g.Emit(FeedbackSelect, -1, 0)
	return true
}

// ServeCustomer pours the selected bottle for the patron at the slot. It is
// called synchronously between ticks from the input handler. All rejections
// are no-ops on core state: no selection, locked or cooling bottle, no patron,
// or a patron already served or leaving.
func (g *Game) ServeCustomer(slot int) bool {
	if g.Round.State() != RoundPlaying {
		return false
	}

	c := g.Round.CustomerAt(slot)
	if c == nil {
		return false
	}

	if g.SelectedBottle < 0 {
		g.Emit(FeedbackError, slot, 0)
		return false
	}
	b := g.Round.Bottle(g.SelectedBottle)
	if b == nil || b.Locked {
		g.Emit(FeedbackError, slot, 0)
		return false
	}

	now := g.Time.Now()
	if b.Progress(now) < 1 {
		g.Emit(FeedbackError, slot, 0)
		return false
	}

	// Serve is the double-scoring guard: a second click lands here and stops
	if !c.Serve() {
		return false
	}

	b.Use(now)
	points := g.Round.RecordServe(c.PatiencePercent())

	g.deliverResponse(c, b)

	g.Emit(FeedbackServe, slot, points)
	return true
}

// deliverResponse pushes the template text back through the message source for
// real patrons. Fire and forget: a delivery failure never rolls back the
// score, combo or cooldown already applied.
func (g *Game) deliverResponse(c *components.Customer, b *components.Bottle) {
	if !c.Real || g.Reduced || g.Feed == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.DeliverTimeout)
	defer cancel()

	status := feed.DeliverySent
	if err := g.Feed.DeliverResponse(ctx, c.Key, b.Text); err != nil {
		log.Printf("feed: deliver response to %s failed: %v", c.Key, err)
		status = feed.DeliveryFailed
	}
	g.Feed.LogDelivery(ctx, c.Key, b.Text, status)
}

// Reconnect re-probes the message source session and updates reduced mode.
func (g *Game) Reconnect() {
	if g.Feed == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.DeliverTimeout)
	defer cancel()
	g.Reduced = !g.Feed.SessionActive(ctx)
}
