package components

import (
	"testing"
	"time"

	"github.com/ferrovine/last-call/constants"
)

func TestBottleCooldownGatesReuse(t *testing.T) {
	base := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)
	b := NewBottle(BottleTemplates[0])

	if !b.Use(base) {
		t.Fatal("fresh bottle should be usable")
	}
	if b.State() != BottleActive {
		t.Errorf("state after use = %v, want active", b.State())
	}

	// Halfway through the 3s cooldown
	half := base.Add(1500 * time.Millisecond)
	if got := b.Progress(half); got < 0.49 || got > 0.51 {
		t.Errorf("progress at half cooldown = %.3f, want ~0.5", got)
	}
	if b.Use(half) {
		t.Error("use during cooldown must be rejected")
	}

	after := base.Add(3100 * time.Millisecond)
	if got := b.Progress(after); got != 1 {
		t.Errorf("progress after cooldown = %.3f, want 1", got)
	}
	if !b.Use(after) {
		t.Error("use after cooldown must succeed")
	}
	t.Logf("✓ second pour admitted at +3100ms")
}

func TestBottlePhasesAdvanceOnePerTick(t *testing.T) {
	base := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)
	b := NewBottle(BottleTemplates[1])
	b.Use(base)

	drain := time.Duration(float64(constants.BottleCooldown) * constants.BottleDrainFraction)

	steps := []struct {
		at   time.Time
		want BottleState
	}{
		{base.Add(drain / 2), BottleActive},
		{base.Add(drain + 10*time.Millisecond), BottleDepleted},
		// Cooldown still pending: stays depleted
		{base.Add(constants.BottleCooldown / 2), BottleDepleted},
		{base.Add(constants.BottleCooldown + 10*time.Millisecond), BottleReplenishing},
		{base.Add(constants.BottleCooldown + 20*time.Millisecond), BottleIdle},
	}
	for i, s := range steps {
		b.Update(s.at)
		if b.State() != s.want {
			t.Fatalf("step %d: state = %v, want %v", i, b.State(), s.want)
		}
	}
}

func TestBottleFillLevel(t *testing.T) {
	base := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)
	b := NewBottle(BottleTemplates[0])

	if got := b.FillLevel(base); got != 1 {
		t.Errorf("idle fill = %.2f, want 1", got)
	}

	b.Use(base)
	drain := time.Duration(float64(constants.BottleCooldown) * constants.BottleDrainFraction)
	if got := b.FillLevel(base.Add(drain / 2)); got < 0.45 || got > 0.55 {
		t.Errorf("mid-drain fill = %.2f, want ~0.5", got)
	}

	b.Update(base.Add(drain + time.Millisecond))
	if got := b.FillLevel(base.Add(drain + time.Millisecond)); got != 0 {
		t.Errorf("depleted fill = %.2f, want 0", got)
	}
}

func TestLockedBottleNeverServes(t *testing.T) {
	b := NewBottle(BottleTemplates[4])
	if !b.Locked {
		t.Fatal("template 4 should be locked")
	}
	now := time.Now()
	if b.Use(now) {
		t.Error("locked bottle must reject use")
	}
	if b.State() != BottleDepleted {
		t.Errorf("locked bottle state = %v, want depleted", b.State())
	}
	b.Update(now.Add(time.Minute))
	if b.State() != BottleDepleted {
		t.Error("locked bottle must not advance phases")
	}
	b.Reset()
	if b.State() != BottleDepleted {
		t.Error("reset must not unlock a locked bottle")
	}
}

func TestBottleReset(t *testing.T) {
	base := time.Now()
	b := NewBottle(BottleTemplates[2])
	b.Use(base)
	b.Reset()
	if b.State() != BottleIdle {
		t.Errorf("state after reset = %v, want idle", b.State())
	}
	if !b.Use(base.Add(time.Millisecond)) {
		t.Error("reset bottle should be immediately usable")
	}
}
