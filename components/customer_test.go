package components

import (
	"testing"
	"time"

	"github.com/ferrovine/last-call/constants"
)

const tick = 50 * time.Millisecond

// seated returns a regular patron already at slot 0, waiting.
func seated(t *testing.T) *Customer {
	t.Helper()
	c := NewCustomer(1, 0, "Marge", "one old fashioned", "+15550100", true, 0, time.Now())
	for i := 0; i < 4000 && c.State() == CustomerArriving; i++ {
		c.Update(tick, 1)
	}
	if c.State() != CustomerIdle {
		t.Fatalf("patron never arrived, state = %v", c.State())
	}
	return c
}

func TestCustomerArrivalClampsToSlot(t *testing.T) {
	c := NewCustomer(1, 0, "Deke", "whatever's coldest", "+15550101", true, 2, time.Now())
	if c.State() != CustomerArriving {
		t.Fatalf("initial state = %v, want arriving", c.State())
	}
	start := c.Patience

	for i := 0; i < 4000 && c.State() == CustomerArriving; i++ {
		c.Update(tick, 1)
	}
	if c.State() != CustomerIdle {
		t.Fatalf("state after walk = %v, want idle", c.State())
	}
	if c.X != constants.SlotPositions[2] {
		t.Errorf("X = %.2f, want exactly %.2f", c.X, constants.SlotPositions[2])
	}
	if c.Patience != start {
		t.Errorf("patience decayed during arrival: %.2f -> %.2f", start, c.Patience)
	}
}

// A regular patron at difficulty 1 loses 1.5 patience per second, so the mood
// drops to impatient past 33.3s, angry past 50s, and storms off at 66.7s.
func TestCustomerPatienceTimeline(t *testing.T) {
	c := seated(t)

	advance := func(d time.Duration) CustomerEvent {
		last := CustomerEventNone
		for elapsed := time.Duration(0); elapsed < d; elapsed += tick {
			if ev := c.Update(tick, 1); ev != CustomerEventNone {
				last = ev
			}
		}
		return last
	}

	advance(30 * time.Second)
	if c.State() != CustomerIdle {
		t.Errorf("at 30s state = %v, want idle", c.State())
	}

	advance(5 * time.Second)
	if c.State() != CustomerImpatient {
		t.Errorf("at 35s state = %v, want impatient", c.State())
	}

	advance(16 * time.Second)
	if c.State() != CustomerAngry {
		t.Errorf("at 51s state = %v, want angry", c.State())
	}
	if pct := c.PatiencePercent(); pct > 25 {
		t.Errorf("at 51s patience = %.1f%%, want below 25%%", pct)
	}

	if ev := advance(17 * time.Second); ev != CustomerEventStormed {
		t.Fatal("expected storm event before 68s")
	}
	if c.State() != CustomerStormingOff {
		t.Errorf("state after storm = %v", c.State())
	}
	if c.Patience != 0 {
		t.Errorf("patience after storm = %.2f, want 0", c.Patience)
	}
	t.Logf("✓ storm-off landed near the 66.7s mark")
}

func TestCustomerDifficultyScalesDecay(t *testing.T) {
	slow := seated(t)
	fast := seated(t)

	for i := 0; i < 200; i++ {
		slow.Update(tick, 1)
		fast.Update(tick, 3)
	}
	if fast.Patience >= slow.Patience {
		t.Errorf("difficulty 3 patience %.2f not below difficulty 1 patience %.2f",
			fast.Patience, slow.Patience)
	}
}

func TestCustomerMoodNeverRecovers(t *testing.T) {
	c := seated(t)
	for i := 0; i < 2000; i++ {
		before := c.State()
		c.Update(tick, 1)
		if c.State() < before {
			t.Fatalf("mood recovered from %v to %v without a serve", before, c.State())
		}
		if !c.Waiting() {
			break
		}
	}
}

func TestCustomerServeOnlyOnce(t *testing.T) {
	c := seated(t)
	if !c.Serve() {
		t.Fatal("first serve should succeed")
	}
	if c.State() != CustomerHappy {
		t.Errorf("state after serve = %v, want happy", c.State())
	}
	if c.Serve() {
		t.Error("second serve must be rejected")
	}
}

func TestCustomerServeRejectedWhileArriving(t *testing.T) {
	c := NewCustomer(1, 0, "Priya", "gin and tonic", "+15550102", true, 0, time.Now())
	if c.Serve() {
		t.Error("serve before arrival must be rejected")
	}
}

func TestCustomerHappyWalkOutAndRemoval(t *testing.T) {
	c := seated(t)
	c.Serve()

	happyFor := time.Duration(constants.HappyBeats) * constants.HappyBeatDuration
	for elapsed := time.Duration(0); elapsed <= happyFor; elapsed += tick {
		c.Update(tick, 1)
	}
	if c.State() != CustomerWalkingOut {
		t.Fatalf("state after happy beats = %v, want walking-out", c.State())
	}

	for i := 0; i < 4000 && !c.Removable; i++ {
		c.Update(tick, 1)
	}
	if !c.Removable {
		t.Fatal("served patron never became removable")
	}
	if c.X >= 0 {
		t.Errorf("served patron exited at X=%.1f, want off the left edge", c.X)
	}
}

func TestCustomerStormOffExitsRight(t *testing.T) {
	c := seated(t)
	c.StormOff()
	for i := 0; i < 4000 && !c.Removable; i++ {
		c.Update(tick, 1)
	}
	if !c.Removable {
		t.Fatal("stormed patron never became removable")
	}
	if c.X <= constants.EntryX {
		t.Errorf("stormed patron exited at X=%.1f, want past the right edge", c.X)
	}
}

func TestCustomerTypeTable(t *testing.T) {
	if len(CustomerTypes) < 4 {
		t.Fatalf("expected at least 4 customer types, got %d", len(CustomerTypes))
	}
	for i, ct := range CustomerTypes {
		if ct.MaxPatience <= 0 || ct.DecayRate <= 0 || ct.Speed <= 0 {
			t.Errorf("type %d (%s) has non-positive tuning", i, ct.Name)
		}
	}
}
