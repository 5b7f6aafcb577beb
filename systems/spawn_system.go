package systems

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ferrovine/last-call/components"
	"github.com/ferrovine/last-call/constants"
	"github.com/ferrovine/last-call/engine"
	"github.com/ferrovine/last-call/feed"
)

// SpawnSystem decides, once per tick, whether a new patron walks in and from
// which source. Real records queued by the feed poller take precedence over
// synthetic filler; capacity is checked first, and the attempt timer resets
// whether or not a slot was free.
type SpawnSystem struct {
	// batches carries poll results in from the feed poller goroutine. They
	// are only consumed here, at the start of the spawn step, so externally
	// sourced patrons merge at a tick boundary, never mid-tick. Nil in pure
	// demo mode.
	batches <-chan feed.Batch

	rng        *rand.Rand
	spawnTimer time.Duration
	nextID     int64
}

// NewSpawnSystem creates a spawn system fed by the given poll batches.
func NewSpawnSystem(batches <-chan feed.Batch, seed int64) *SpawnSystem {
	return &SpawnSystem{
		batches: batches,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Priority returns the system's priority. Spawn runs first within a tick so a
// patron spawned this tick still receives its first decay update in the same
// tick.
func (s *SpawnSystem) Priority() int {
	return 10
}

// Update merges pending poll results, then runs one spawn attempt when the
// cadence timer expires.
func (s *SpawnSystem) Update(g *engine.Game, dt time.Duration) {
	s.ingest(g)

	s.spawnTimer += dt
	interval := s.spawnInterval(g.Round.Difficulty())
	if s.spawnTimer < interval {
		return
	}
	// Reset on every attempt: a full bar does not buy an immediate retry
	s.spawnTimer = 0

	slot := g.Round.FreeSlot()
	if slot < 0 {
		return
	}

	var c *components.Customer
	if msg, ok := g.Round.DequeuePending(); ok {
		c = s.realCustomer(g, msg, slot)
	} else {
		c = s.syntheticCustomer(g, slot)
	}
	g.Round.PlaceCustomer(slot, c)
}

// spawnInterval shortens with difficulty down to the hard floor.
func (s *SpawnSystem) spawnInterval(difficulty float64) time.Duration {
	interval := time.Duration(float64(constants.BaseSpawnInterval) / difficulty)
	if interval < constants.MinSpawnInterval {
		interval = constants.MinSpawnInterval
	}
	return interval
}

// ingest drains the poll channel. Batches from a stale session token (a poll
// that raced a restart) are discarded whole; in reduced mode nothing is
// enqueued. Dedup itself lives in Round.EnqueuePending.
func (s *SpawnSystem) ingest(g *engine.Game) {
	for {
		select {
		case batch := <-s.batches:
			if g.Reduced {
				continue
			}
			if batch.Token != g.Round.SessionToken() {
				continue
			}
			for _, msg := range batch.Messages {
				g.Round.EnqueuePending(msg)
			}
		default:
			return
		}
	}
}

func (s *SpawnSystem) realCustomer(g *engine.Game, msg feed.Message, slot int) *components.Customer {
	s.nextID++
	typeID := s.rng.Intn(len(components.CustomerTypes))
	return components.NewCustomer(s.nextID, typeID, msg.Sender, msg.Text, msg.Phone, true, slot, g.Time.Now())
}

func (s *SpawnSystem) syntheticCustomer(g *engine.Game, slot int) *components.Customer {
	s.nextID++
	typeID := s.rng.Intn(len(components.CustomerTypes))
	name := components.SyntheticNames[s.rng.Intn(len(components.SyntheticNames))]
	message := components.SyntheticMessages[s.rng.Intn(len(components.SyntheticMessages))]
	key := "demo-" + uuid.NewString()
	return components.NewCustomer(s.nextID, typeID, name, message, key, false, slot, g.Time.Now())
}
