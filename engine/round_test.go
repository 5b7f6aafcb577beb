package engine

import (
	"testing"
	"time"

	"github.com/ferrovine/last-call/components"
	"github.com/ferrovine/last-call/constants"
	"github.com/ferrovine/last-call/feed"
)

func TestRoundStateTransitions(t *testing.T) {
	r := NewRound()

	cases := []struct {
		from, to RoundState
		want     bool
	}{
		{RoundMenu, RoundPlaying, true},
		{RoundMenu, RoundPaused, false},
		{RoundMenu, RoundGameOver, false},
		{RoundPlaying, RoundPaused, true},
		{RoundPlaying, RoundGameOver, true},
		{RoundPlaying, RoundPlaying, true}, // mid-round restart
		{RoundPaused, RoundPlaying, true},
		{RoundPaused, RoundGameOver, false},
		{RoundGameOver, RoundPlaying, true},
		{RoundGameOver, RoundPaused, false},
	}
	for _, c := range cases {
		if got := r.CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%v, %v) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestRoundLifecycle(t *testing.T) {
	r := NewRound()
	if r.State() != RoundMenu {
		t.Fatalf("initial state = %v, want menu", r.State())
	}
	if r.Pause() {
		t.Error("pause from menu must fail")
	}
	if !r.Start() {
		t.Fatal("start from menu must succeed")
	}
	if !r.Pause() {
		t.Fatal("pause from playing must succeed")
	}
	if !r.Resume() {
		t.Fatal("resume from paused must succeed")
	}
	if !r.EndGame() {
		t.Fatal("endgame from playing must succeed")
	}
	if r.EndGame() {
		t.Error("endgame must not repeat")
	}
	if !r.Restart() {
		t.Fatal("restart from gameover must succeed")
	}
}

// Three quick serves at 80% patience: 100+80, then +25 chain bonus each.
func TestComboScoring(t *testing.T) {
	r := NewRound()
	r.Start()

	want := []int{180, 205, 230}
	for i, w := range want {
		got := r.RecordServe(80)
		if got != w {
			t.Errorf("serve %d awarded %d, want %d", i+1, got, w)
		}
	}
	if r.Score() != 180+205+230 {
		t.Errorf("score = %d, want %d", r.Score(), 180+205+230)
	}
	if r.ComboCount() != 3 || r.MaxCombo() != 3 {
		t.Errorf("combo = %d max = %d, want 3/3", r.ComboCount(), r.MaxCombo())
	}
	t.Logf("✓ chain bonus uses the pre-increment combo count")
}

func TestComboExpiryKeepsScore(t *testing.T) {
	r := NewRound()
	r.Start()
	r.RecordServe(50)
	score := r.Score()

	// One tick short of the window, then past it
	r.DecayCombo(constants.ComboTimeout - time.Millisecond)
	if r.ComboCount() != 1 {
		t.Fatalf("combo died early")
	}
	r.DecayCombo(2 * time.Millisecond)
	if r.ComboCount() != 0 {
		t.Errorf("combo = %d after expiry, want 0", r.ComboCount())
	}
	if r.Score() != score {
		t.Errorf("score changed on combo expiry: %d -> %d", score, r.Score())
	}
}

func TestServeInsideWindowExtendsCombo(t *testing.T) {
	r := NewRound()
	r.Start()
	r.RecordServe(50)
	r.DecayCombo(constants.ComboTimeout / 2)
	r.RecordServe(50)
	r.DecayCombo(constants.ComboTimeout - time.Millisecond)
	if r.ComboCount() != 2 {
		t.Errorf("combo = %d, want 2: the window resets on every serve", r.ComboCount())
	}
}

func TestLossBreaksCombo(t *testing.T) {
	r := NewRound()
	r.Start()
	r.RecordServe(50)
	r.RecordServe(50)

	if got := r.RegisterLoss(); got != 1 {
		t.Errorf("loss total = %d, want 1", got)
	}
	if r.ComboCount() != 0 {
		t.Errorf("combo survived a loss")
	}
	if r.MaxCombo() != 2 {
		t.Errorf("max combo = %d, want 2", r.MaxCombo())
	}
}

func TestDifficultyRamp(t *testing.T) {
	r := NewRound()
	r.Start()

	if r.Difficulty() != 1 {
		t.Fatalf("initial difficulty = %.2f, want 1", r.Difficulty())
	}

	// Recomputed on every tenth serve only
	for i := 0; i < 9; i++ {
		r.RecordServe(50)
	}
	if r.Difficulty() != 1 {
		t.Errorf("difficulty moved before the 10th serve: %.2f", r.Difficulty())
	}
	r.RecordServe(50)
	if r.Difficulty() != 1.5 {
		t.Errorf("difficulty at 10 serves = %.2f, want 1.5", r.Difficulty())
	}

	for i := 0; i < 30; i++ {
		r.RecordServe(50)
	}
	if r.Difficulty() != 3 {
		t.Errorf("difficulty at 40 serves = %.2f, want 3", r.Difficulty())
	}

	// Cap holds
	for i := 0; i < 20; i++ {
		r.RecordServe(50)
	}
	if r.Difficulty() != 3 {
		t.Errorf("difficulty exceeded cap: %.2f", r.Difficulty())
	}
}

func TestSlotAllocation(t *testing.T) {
	r := NewRound()
	r.Start()
	now := time.Now()

	for i := 0; i < constants.MaxCustomers; i++ {
		slot := r.FreeSlot()
		if slot != i {
			t.Fatalf("free slot = %d, want %d", slot, i)
		}
		c := components.NewCustomer(int64(i), 0, "x", "y", "", false, slot, now)
		if !r.PlaceCustomer(slot, c) {
			t.Fatalf("place at %d failed", slot)
		}
	}
	if r.FreeSlot() != -1 {
		t.Error("full bar must report no free slot")
	}
	if r.OccupiedSlots() != constants.MaxCustomers {
		t.Errorf("occupied = %d, want %d", r.OccupiedSlots(), constants.MaxCustomers)
	}

	extra := components.NewCustomer(99, 0, "x", "y", "", false, 1, now)
	if r.PlaceCustomer(1, extra) {
		t.Error("placing into an occupied slot must fail")
	}

	r.ReleaseSlot(2)
	if r.FreeSlot() != 2 {
		t.Errorf("free slot after release = %d, want 2", r.FreeSlot())
	}
}

func TestEnqueuePendingDeduplicates(t *testing.T) {
	r := NewRound()
	r.Start()

	msg := feed.Message{ID: "1", Phone: "+15550100", Sender: "Marge", Text: "hi"}
	if !r.EnqueuePending(msg) {
		t.Fatal("first enqueue must succeed")
	}
	if r.EnqueuePending(msg) {
		t.Error("duplicate of a queued phone must be dropped")
	}
	if r.EnqueuePending(feed.Message{ID: "2", Sender: "ghost"}) {
		t.Error("empty phone must be dropped")
	}

	// Same phone already seated at the bar
	c := components.NewCustomer(1, 0, "Marge", "hi", "+15550100", true, 0, time.Now())
	seated := feed.Message{ID: "3", Phone: "+15550101", Sender: "Deke", Text: "yo"}
	r2 := NewRound()
	r2.Start()
	r2.PlaceCustomer(0, c)
	if r2.EnqueuePending(feed.Message{ID: "4", Phone: "+15550100", Sender: "Marge", Text: "again"}) {
		t.Error("duplicate of a seated patron must be dropped")
	}
	if !r2.EnqueuePending(seated) {
		t.Error("distinct phone must be accepted")
	}
}

func TestDequeuePendingIsFIFO(t *testing.T) {
	r := NewRound()
	r.Start()
	r.EnqueuePending(feed.Message{ID: "1", Phone: "a"})
	r.EnqueuePending(feed.Message{ID: "2", Phone: "b"})

	first, ok := r.DequeuePending()
	if !ok || first.Phone != "a" {
		t.Errorf("first dequeue = %+v, want phone a", first)
	}
	second, ok := r.DequeuePending()
	if !ok || second.Phone != "b" {
		t.Errorf("second dequeue = %+v, want phone b", second)
	}
	if _, ok := r.DequeuePending(); ok {
		t.Error("dequeue from empty queue must report false")
	}
}

func TestRestartResetsEverything(t *testing.T) {
	r := NewRound()
	r.Start()
	firstToken := r.SessionToken()

	for i := 0; i < 10; i++ {
		r.RecordServe(50)
	}
	r.RegisterLoss()
	r.PlaceCustomer(0, components.NewCustomer(1, 0, "x", "y", "k", true, 0, time.Now()))
	r.EnqueuePending(feed.Message{ID: "1", Phone: "p"})
	r.Bottle(0).Use(time.Now())

	if !r.Restart() {
		t.Fatal("restart must succeed")
	}
	snap := r.Snapshot()
	if snap.Score != 0 || snap.CustomersServed != 0 || snap.CustomersLost != 0 ||
		snap.ComboCount != 0 || snap.MaxCombo != 0 || snap.PendingCount != 0 {
		t.Errorf("counters survived restart: %+v", snap)
	}
	if snap.Difficulty != 1 {
		t.Errorf("difficulty after restart = %.2f, want 1", snap.Difficulty)
	}
	if r.OccupiedSlots() != 0 {
		t.Error("slots survived restart")
	}
	if r.Bottle(0).State() != components.BottleIdle {
		t.Error("bottle cooldown survived restart")
	}
	if r.Bottle(4).State() != components.BottleDepleted {
		t.Error("locked bottle unlocked by restart")
	}
	if r.SessionToken() == firstToken {
		t.Error("session token not reminted on restart")
	}
	t.Logf("✓ restart minted a fresh session token")
}
