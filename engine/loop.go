package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ferrovine/last-call/constants"
)

// Loop drives the fixed game tick and the faster render frame. The tick delta
// is measured against the injected clock and clamped to MaxTickDelta, so a
// stalled process resumes smoothly instead of discharging every timer at once.
//
// Terminal events funnel through the same select, so input handlers run
// strictly between ticks on the loop goroutine; the feed poller remains the
// only concurrent producer and it only touches a channel.
type Loop struct {
	Time TimeProvider

	TickInterval  time.Duration
	FrameInterval time.Duration

	// Events carries terminal events pumped from screen.PollEvent.
	Events <-chan tcell.Event

	// OnTick advances the simulation; dt is the clamped elapsed game time.
	OnTick func(dt time.Duration)

	// OnFrame repaints; runs more often than OnTick and must not mutate
	// simulation state.
	OnFrame func()

	// OnEvent handles one terminal event between ticks.
	OnEvent func(ev tcell.Event)

	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
}

// NewLoop creates a loop with the standard tick and frame cadence.
func NewLoop(tp TimeProvider) *Loop {
	return &Loop{
		Time:          tp,
		TickInterval:  constants.GameUpdateInterval,
		FrameInterval: constants.FrameUpdateInterval,
		stopChan:      make(chan struct{}),
	}
}

// Run blocks until Stop, alternating ticks and frames on their own cadences.
func (l *Loop) Run() {
	if !l.running.CompareAndSwap(false, true) {
		return
	}

	tick := time.NewTicker(l.TickInterval)
	defer tick.Stop()
	frame := time.NewTicker(l.FrameInterval)
	defer frame.Stop()

	last := l.Time.Now()

	for {
		select {
		case <-l.stopChan:
			return

		case <-tick.C:
			now := l.Time.Now()
			dt := now.Sub(last)
			last = now
			if dt > constants.MaxTickDelta {
				dt = constants.MaxTickDelta
			}
			if dt < 0 {
				dt = 0
			}
			if l.OnTick != nil {
				l.OnTick(dt)
			}

		case <-frame.C:
			if l.OnFrame != nil {
				l.OnFrame()
			}

		case ev, ok := <-l.Events:
			if !ok {
				return
			}
			if l.OnEvent != nil {
				l.OnEvent(ev)
			}
		}
	}
}

// Stop halts the loop. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.running.Store(false)
		close(l.stopChan)
	})
}
