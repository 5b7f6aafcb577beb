package engine

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ferrovine/last-call/components"
	"github.com/ferrovine/last-call/constants"
	"github.com/ferrovine/last-call/feed"
)

// RoundState is the overarching session state gating the tick driver.
type RoundState int

const (
	RoundMenu RoundState = iota
	RoundPlaying
	RoundPaused
	RoundGameOver
)

func (s RoundState) String() string {
	switch s {
	case RoundMenu:
		return "menu"
	case RoundPlaying:
		return "playing"
	case RoundPaused:
		return "paused"
	case RoundGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// Round centralizes one play session with clear ownership boundaries: the
// slots array, the pending real-patron queue and the bottle pool are owned
// exclusively by the Round and mutated only through its methods.
type Round struct {
	mu sync.RWMutex

	state RoundState

	// Counters
	score           int
	customersServed int
	customersLost   int
	comboCount      int
	maxCombo        int
	difficulty      float64

	// Combo chain expiry; the chain dies when this reaches zero, earned
	// score is retained.
	comboRemaining time.Duration

	// Fixed-size roster; index is the slot index.
	slots [constants.MaxCustomers]*components.Customer

	// Real-patron records waiting for a free slot, deduplicated at enqueue time.
	pending []feed.Message

	bottles []*components.Bottle

	// Minted on every start/restart; poll batches from a previous token are stale.
	sessionToken uuid.UUID
}

// NewRound creates a round in the menu state with a full bottle shelf.
func NewRound() *Round {
	r := &Round{
		state:        RoundMenu,
		difficulty:   1,
		sessionToken: uuid.New(),
	}
	for _, t := range components.BottleTemplates {
		r.bottles = append(r.bottles, components.NewBottle(t))
	}
	return r
}

// ===== STATE MACHINE =====

// State returns the current round state.
func (r *Round) State() RoundState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// CanTransition checks if a round state transition is valid
func (r *Round) CanTransition(from, to RoundState) bool {
	validTransitions := map[RoundState][]RoundState{
		RoundMenu:     {RoundPlaying},
		RoundPlaying:  {RoundPaused, RoundGameOver, RoundPlaying},
		RoundPaused:   {RoundPlaying},
		RoundGameOver: {RoundPlaying},
	}

	allowed := validTransitions[from]
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Start begins play from the menu or restarts after a game over. Everything
// resets: counters, slots, pending queue, bottles (locked ones stay locked),
// difficulty back to 1, and a fresh session token.
func (r *Round) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.CanTransition(r.state, RoundPlaying) {
		return false
	}
	r.resetLocked()
	r.state = RoundPlaying
	return true
}

// Restart is Start from any in-round state; mid-round restarts are allowed.
func (r *Round) Restart() bool {
	return r.Start()
}

// Pause suspends play. Only valid while playing.
func (r *Round) Pause() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RoundPlaying {
		return false
	}
	r.state = RoundPaused
	return true
}

// Resume returns from pause without touching any counters.
func (r *Round) Resume() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RoundPaused {
		return false
	}
	r.state = RoundPlaying
	return true
}

// EndGame transitions playing -> gameover.
func (r *Round) EndGame() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RoundPlaying {
		return false
	}
	r.state = RoundGameOver
	return true
}

func (r *Round) resetLocked() {
	r.score = 0
	r.customersServed = 0
	r.customersLost = 0
	r.comboCount = 0
	r.maxCombo = 0
	r.difficulty = 1
	r.comboRemaining = 0
	r.slots = [constants.MaxCustomers]*components.Customer{}
	r.pending = nil
	for _, b := range r.bottles {
		b.Reset()
	}
	r.sessionToken = uuid.New()
}

// SessionToken identifies the current round for stale-poll rejection.
func (r *Round) SessionToken() uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessionToken
}

// ===== SCORING & COMBO =====

// RecordServe applies the scoring rules for one successful serve and returns
// the points awarded. patiencePercent is the patron's remaining patience in
// 0..100 at the moment of service.
//
//	points = base + floor(patiencePct * bonusMult) + comboBefore * comboStep
//
// The combo chain grows by one and its expiry window resets. Every tenth
// serve recomputes the difficulty ramp, which never decreases within a round.
func (r *Round) RecordServe(patiencePercent float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	patienceBonus := int(math.Floor(patiencePercent * constants.BonusMultiplier))
	comboBonus := r.comboCount * constants.ComboBonusPerStep
	points := constants.BaseScore + patienceBonus + comboBonus

	r.score += points
	r.comboCount++
	if r.comboCount > r.maxCombo {
		r.maxCombo = r.comboCount
	}
	r.comboRemaining = constants.ComboTimeout

	r.customersServed++
	if r.customersServed%constants.DifficultyRecomputeEvery == 0 {
		d := math.Min(constants.DifficultyMax,
			1+float64(r.customersServed)/constants.DifficultyServesPerStep)
		if d > r.difficulty {
			r.difficulty = d
		}
	}

	return points
}

// RegisterLoss counts a stormed-off patron and breaks the combo chain,
// returning the new loss total. A loss breaks the chain even when the lost
// patron was not the combo target.
func (r *Round) RegisterLoss() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.customersLost++
	r.comboCount = 0
	r.comboRemaining = 0
	return r.customersLost
}

// DecayCombo advances the combo expiry window by one tick delta. On expiry
// only the chain is lost; the score stands.
func (r *Round) DecayCombo(dt time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.comboRemaining <= 0 {
		return
	}
	r.comboRemaining -= dt
	if r.comboRemaining <= 0 {
		r.comboRemaining = 0
		r.comboCount = 0
	}
}

// Score returns the current score.
func (r *Round) Score() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.score
}

// CustomersServed returns the number of successful serves this round.
func (r *Round) CustomersServed() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.customersServed
}

// CustomersLost returns the number of stormed-off patrons this round.
func (r *Round) CustomersLost() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.customersLost
}

// ComboCount returns the live combo chain length.
func (r *Round) ComboCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.comboCount
}

// MaxCombo returns the longest chain reached this round.
func (r *Round) MaxCombo() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maxCombo
}

// Difficulty returns the current decay/spawn multiplier.
func (r *Round) Difficulty() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.difficulty
}

// ===== SLOTS =====

// FreeSlot returns the first unoccupied slot index, or -1 when the bar is full.
func (r *Round) FreeSlot() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, c := range r.slots {
		if c == nil {
			return i
		}
	}
	return -1
}

// PlaceCustomer seats a patron at the given slot. Rejected if occupied.
func (r *Round) PlaceCustomer(slot int, c *components.Customer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slot < 0 || slot >= len(r.slots) || r.slots[slot] != nil {
		return false
	}
	r.slots[slot] = c
	return true
}

// CustomerAt returns the patron at the slot, or nil.
func (r *Round) CustomerAt(slot int) *components.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if slot < 0 || slot >= len(r.slots) {
		return nil
	}
	return r.slots[slot]
}

// ReleaseSlot evicts the patron at the slot. Called exactly once per patron,
// when Removable is observed true during a tick.
func (r *Round) ReleaseSlot(slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slot >= 0 && slot < len(r.slots) {
		r.slots[slot] = nil
	}
}

// Customers returns the active patrons, slot order, nils skipped.
func (r *Round) Customers() []*components.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*components.Customer, 0, len(r.slots))
	for _, c := range r.slots {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// OccupiedSlots returns the number of seated patrons.
func (r *Round) OccupiedSlots() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, c := range r.slots {
		if c != nil {
			n++
		}
	}
	return n
}

// ===== PENDING QUEUE =====

// EnqueuePending buffers a real-patron record for spawning. Deduplication
// happens here, at enqueue time: a record whose correlation key matches any
// active patron or any queued record is dropped.
func (r *Round) EnqueuePending(msg feed.Message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.Phone == "" {
		return false
	}
	for _, c := range r.slots {
		if c != nil && c.Key == msg.Phone {
			return false
		}
	}
	for _, p := range r.pending {
		if p.Phone == msg.Phone {
			return false
		}
	}
	r.pending = append(r.pending, msg)
	return true
}

// DequeuePending pops the head of the pending queue.
func (r *Round) DequeuePending() (feed.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) == 0 {
		return feed.Message{}, false
	}
	msg := r.pending[0]
	r.pending = r.pending[1:]
	return msg, true
}

// PendingCount returns the number of queued real-patron records.
func (r *Round) PendingCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pending)
}

// ===== BOTTLES =====

// Bottles returns the bottle pool, template order.
func (r *Round) Bottles() []*components.Bottle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bottles
}

// Bottle returns the bottle at the index, or nil.
func (r *Round) Bottle(i int) *components.Bottle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i < 0 || i >= len(r.bottles) {
		return nil
	}
	return r.bottles[i]
}

// ===== SNAPSHOT =====

// RoundSnapshot is a read-only view for the renderer.
type RoundSnapshot struct {
	State           RoundState
	Score           int
	CustomersServed int
	CustomersLost   int
	ComboCount      int
	MaxCombo        int
	Difficulty      float64
	PendingCount    int
}

// Snapshot returns a consistent snapshot of the round counters.
func (r *Round) Snapshot() RoundSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RoundSnapshot{
		State:           r.state,
		Score:           r.score,
		CustomersServed: r.customersServed,
		CustomersLost:   r.customersLost,
		ComboCount:      r.comboCount,
		MaxCombo:        r.maxCombo,
		Difficulty:      r.difficulty,
		PendingCount:    len(r.pending),
	}
}
