package feed

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ferrovine/last-call/constants"
)

// Poller polls a Source on its own cadence, independent of the spawn cadence,
// and hands batches to the simulation over a channel. This is the only
// genuine asynchrony in the system: results are produced here but consumed
// solely at the start of the spawn step, at a tick boundary.
//
// While reduced mode is set the source is left alone entirely; ticks pass
// without a poll until a reconnect clears the flag.
//
// No cancellation plumbing guards a poll in flight across a restart; each
// batch carries the session token current when the poll was issued, and stale
// batches are cheap to discard on the consuming side.
type Poller struct {
	source   Source
	token    func() uuid.UUID
	interval time.Duration
	limit    int
	reduced  atomic.Bool

	out      chan Batch
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPoller creates a poller. token must return the current round session token.
func NewPoller(source Source, token func() uuid.UUID) *Poller {
	return &Poller{
		source:   source,
		token:    token,
		interval: constants.PollInterval,
		limit:    constants.PollLimit,
		out:      make(chan Batch, 4),
		stopChan: make(chan struct{}),
	}
}

// Batches returns the channel the spawn allocator drains.
func (p *Poller) Batches() <-chan Batch {
	return p.out
}

// SetReduced gates polling. Safe to call from any goroutine; the loop checks
// it on every tick.
func (p *Poller) SetReduced(reduced bool) {
	p.reduced.Store(reduced)
}

// Start begins polling in the background.
func (p *Poller) Start() {
	p.wg.Add(1)
	go p.loop()
}

// Stop halts polling and waits for the loop to exit.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
	})
	p.wg.Wait()
}

func (p *Poller) loop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			if p.reduced.Load() {
				continue
			}
			p.pollOnce()
		}
	}
}

func (p *Poller) pollOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	// Read the token before polling: a poll that spans a restart belongs to
	// the round it was issued for, not the one it lands in
	token := p.token()

	msgs, err := p.source.Poll(ctx, p.limit)
	if err != nil {
		// Transient failure: no new data this cycle
		log.Printf("feed: poll failed: %v", err)
		return
	}
	if len(msgs) == 0 {
		return
	}

	batch := Batch{Token: token, Messages: msgs}
	select {
	case p.out <- batch:
	default:
		// Consumer behind; treated as no new data this cycle
	}
}
