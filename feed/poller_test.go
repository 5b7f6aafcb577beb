package feed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

// countingSource counts polls so tests can assert the source was left alone.
type countingSource struct {
	ScriptedSource
	polls atomic.Int32
}

func (s *countingSource) Poll(ctx context.Context, limit int) ([]Message, error) {
	s.polls.Add(1)
	return s.ScriptedSource.Poll(ctx, limit)
}

// gatedSource blocks inside Poll until released, so a test can rearrange the
// world mid-poll.
type gatedSource struct {
	ScriptedSource
	entered chan struct{}
	release chan struct{}
}

func (s *gatedSource) Poll(ctx context.Context, limit int) ([]Message, error) {
	s.entered <- struct{}{}
	<-s.release
	return s.ScriptedSource.Poll(ctx, limit)
}

func TestPollerTagsBatchesWithSessionToken(t *testing.T) {
	source := NewScriptedSource()
	source.Push(
		Message{ID: "1", Phone: "+15550100", Sender: "Marge", Text: "hi"},
		Message{ID: "2", Phone: "+15550101", Sender: "Deke", Text: "yo"},
	)

	token := uuid.New()
	p := NewPoller(source, func() uuid.UUID { return token })
	p.interval = 10 * time.Millisecond
	p.Start()
	defer p.Stop()

	select {
	case batch := <-p.Batches():
		if batch.Token != token {
			t.Errorf("batch token = %v, want %v", batch.Token, token)
		}
		if len(batch.Messages) != 2 {
			t.Errorf("batch size = %d, want 2", len(batch.Messages))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no batch within 2s")
	}
}

func TestPollerSwallowsErrorsAndEmptyPolls(t *testing.T) {
	source := NewScriptedSource()
	source.PollErr = errors.New("gateway down")

	p := NewPoller(source, uuid.New)
	p.interval = 5 * time.Millisecond
	p.Start()

	select {
	case batch := <-p.Batches():
		t.Fatalf("unexpected batch %+v from a failing source", batch)
	case <-time.After(50 * time.Millisecond):
	}
	p.Stop()

	// Empty polls produce no batches either
	source2 := NewScriptedSource()
	p2 := NewPoller(source2, uuid.New)
	p2.interval = 5 * time.Millisecond
	p2.Start()
	select {
	case batch := <-p2.Batches():
		t.Fatalf("unexpected batch %+v from an empty source", batch)
	case <-time.After(50 * time.Millisecond):
	}
	p2.Stop()
}

// While reduced mode is set the collaborator must not be polled at all, not
// merely have its results discarded downstream.
func TestPollerSkipsSourceWhileReduced(t *testing.T) {
	source := &countingSource{}
	source.Active = false

	p := NewPoller(source, uuid.New)
	p.interval = 5 * time.Millisecond
	p.SetReduced(true)
	p.Start()
	defer p.Stop()

	time.Sleep(60 * time.Millisecond)
	if n := source.polls.Load(); n != 0 {
		t.Fatalf("offline source polled %d times while reduced", n)
	}

	// Reconnect clears the flag and polling resumes on the same loop
	source.Active = true
	p.SetReduced(false)
	deadline := time.Now().Add(2 * time.Second)
	for source.polls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("polling never resumed after reduced mode cleared")
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Logf("✓ poll tap closed while reduced, reopened on reconnect")
}

// A poll in flight across a restart must carry the token of the round it was
// issued for, so the spawn merge discards it as stale.
func TestPollerTagsInFlightPollWithIssuingToken(t *testing.T) {
	source := &gatedSource{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	source.Push(Message{ID: "1", Phone: "+15550100", Sender: "Marge", Text: "hi"})

	var token atomic.Value
	before := uuid.New()
	token.Store(before)

	p := NewPoller(source, func() uuid.UUID { return token.Load().(uuid.UUID) })

	done := make(chan struct{})
	go func() {
		p.pollOnce()
		close(done)
	}()

	<-source.entered
	// Restart mid-poll: the round mints a fresh token
	token.Store(uuid.New())
	close(source.release)
	<-done

	select {
	case batch := <-p.Batches():
		if batch.Token != before {
			t.Errorf("in-flight poll tagged %v, want the issuing round's %v", batch.Token, before)
		}
	default:
		t.Fatal("no batch emitted")
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := NewPoller(NewScriptedSource(), uuid.New)
	p.Start()
	p.Stop()
	p.Stop()
}
