package components

import (
	"time"

	"github.com/ferrovine/last-call/constants"
)

// CustomerState is the lifecycle state of a patron.
type CustomerState int

const (
	CustomerArriving CustomerState = iota
	CustomerIdle
	CustomerImpatient
	CustomerAngry
	CustomerHappy
	CustomerWalkingOut
	CustomerStormingOff
)

func (s CustomerState) String() string {
	switch s {
	case CustomerArriving:
		return "arriving"
	case CustomerIdle:
		return "idle"
	case CustomerImpatient:
		return "impatient"
	case CustomerAngry:
		return "angry"
	case CustomerHappy:
		return "happy"
	case CustomerWalkingOut:
		return "walking-out"
	case CustomerStormingOff:
		return "storming-off"
	default:
		return "unknown"
	}
}

// CustomerEvent reports a lifecycle transition that the round must account for.
type CustomerEvent int

const (
	CustomerEventNone CustomerEvent = iota

	// CustomerEventStormed fires on the tick patience hit zero. The patron
	// counts as lost on this event, not when it finishes leaving the screen.
	CustomerEventStormed
)

// Customer is one active patron. It is mutated only by its own Update and by
// Serve/StormOff; the round owns placement and removal.
type Customer struct {
	ID      int64
	Real    bool
	Key     string // correlation key: originating phone for real patrons, generated otherwise
	TypeID  int
	Name    string
	Message string

	// Position along the bar. Patrons enter from the right edge, walk left to
	// their slot, and exit left (served) or right (stormed off).
	X         float64
	TargetX   float64
	SlotIndex int
	Alpha     float64 // render opacity, fades during walk-out

	Patience    float64
	MaxPatience float64
	ArrivedAt   time.Time

	state     CustomerState
	Served    bool
	Leaving   bool
	Removable bool

	happyRemaining time.Duration
}

// NewCustomer creates a patron approaching the given slot.
func NewCustomer(id int64, typeID int, name, message, key string, real bool, slot int, now time.Time) *Customer {
	ct := CustomerTypes[typeID]
	return &Customer{
		ID:          id,
		Real:        real,
		Key:         key,
		TypeID:      typeID,
		Name:        name,
		Message:     message,
		X:           constants.EntryX,
		TargetX:     constants.SlotPositions[slot],
		SlotIndex:   slot,
		Alpha:       1,
		Patience:    ct.MaxPatience,
		MaxPatience: ct.MaxPatience,
		ArrivedAt:   now,
		state:       CustomerArriving,
	}
}

// State returns the current lifecycle state.
func (c *Customer) State() CustomerState {
	return c.state
}

// Waiting reports whether the patron is at the bar expecting service.
// Patience decays only while waiting.
func (c *Customer) Waiting() bool {
	return c.state == CustomerIdle || c.state == CustomerImpatient || c.state == CustomerAngry
}

// PatiencePercent returns remaining patience as 0..100.
func (c *Customer) PatiencePercent() float64 {
	if c.MaxPatience <= 0 {
		return 0
	}
	return c.Patience / c.MaxPatience * 100
}

// Serve transitions a waiting patron to happy. Returns false without any state
// change if the patron is already served or leaving; this guard is what makes
// double-clicks score only once.
func (c *Customer) Serve() bool {
	if c.Served || c.Leaving {
		return false
	}
	if !c.Waiting() {
		return false
	}
	c.Served = true
	c.Leaving = true
	c.state = CustomerHappy
	c.happyRemaining = constants.HappyBeats * constants.HappyBeatDuration
	return true
}

// StormOff sends the patron stomping out to the right. Idempotent: calling it
// while already leaving is a no-op.
func (c *Customer) StormOff() {
	if c.Leaving {
		return
	}
	c.Leaving = true
	c.state = CustomerStormingOff
}

// Update advances the patron by dt at the given difficulty and returns the
// transition event, if any, for the round to account.
func (c *Customer) Update(dt time.Duration, difficulty float64) CustomerEvent {
	seconds := dt.Seconds()

	switch c.state {
	case CustomerArriving:
		ct := CustomerTypes[c.TypeID]
		c.X -= ct.Speed * seconds
		// Exact arrival: clamp onto the slot coordinate, never hover near it
		if c.X <= c.TargetX {
			c.X = c.TargetX
			c.state = CustomerIdle
		}

	case CustomerIdle, CustomerImpatient, CustomerAngry:
		ct := CustomerTypes[c.TypeID]
		c.Patience -= c.MaxPatience * ct.DecayRate * difficulty * seconds
		if c.Patience <= 0 {
			c.Patience = 0
			c.StormOff()
			return CustomerEventStormed
		}
		// Moods only degrade; recovery happens through Serve alone
		if c.Patience < c.MaxPatience*constants.AngryThreshold && c.state != CustomerAngry {
			c.state = CustomerAngry
		} else if c.Patience < c.MaxPatience*constants.ImpatientThreshold && c.state == CustomerIdle {
			c.state = CustomerImpatient
		}

	case CustomerHappy:
		c.happyRemaining -= dt
		if c.happyRemaining <= 0 {
			c.state = CustomerWalkingOut
		}

	case CustomerWalkingOut:
		c.X -= constants.WalkOutSpeed * seconds
		c.Alpha -= seconds / (constants.ExitMargin / constants.WalkOutSpeed * 2)
		if c.Alpha < 0 {
			c.Alpha = 0
		}
		if c.X < -constants.ExitMargin {
			c.Removable = true
		}

	case CustomerStormingOff:
		c.X += constants.StormOffSpeed * seconds
		if c.X > constants.EntryX+constants.ExitMargin {
			c.Removable = true
		}
	}

	return CustomerEventNone
}
