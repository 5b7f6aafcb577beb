package feed

import (
	"context"
	"sync"
)

// Delivery is one recorded outbound response.
type Delivery struct {
	Phone  string
	Text   string
	Status DeliveryStatus
}

// ScriptedSource is an in-memory Source for tests and demo mode. Messages are
// staged with Push and handed out in order by Poll.
type ScriptedSource struct {
	mu         sync.Mutex
	queue      []Message
	deliveries []Delivery

	Active     bool
	PollErr    error
	DeliverErr error
}

var _ Source = (*ScriptedSource)(nil)

// NewScriptedSource creates an active scripted source with no staged messages.
func NewScriptedSource() *ScriptedSource {
	return &ScriptedSource{Active: true}
}

// Push stages messages for subsequent polls.
func (s *ScriptedSource) Push(msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, msgs...)
}

// Poll returns up to limit staged messages, or the configured error.
func (s *ScriptedSource) Poll(ctx context.Context, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.PollErr != nil {
		return nil, s.PollErr
	}
	n := limit
	if n > len(s.queue) {
		n = len(s.queue)
	}
	out := make([]Message, n)
	copy(out, s.queue[:n])
	s.queue = s.queue[n:]
	return out, nil
}

// DeliverResponse records the delivery attempt and returns the configured error.
func (s *ScriptedSource) DeliverResponse(ctx context.Context, phone, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.DeliverErr != nil {
		return s.DeliverErr
	}
	s.deliveries = append(s.deliveries, Delivery{Phone: phone, Text: text, Status: DeliverySent})
	return nil
}

// LogDelivery records the side-channel log entry.
func (s *ScriptedSource) LogDelivery(ctx context.Context, phone, text string, status DeliveryStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = append(s.deliveries, Delivery{Phone: phone, Text: text, Status: status})
}

// SessionActive reports the configured liveness flag.
func (s *ScriptedSource) SessionActive(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Active
}

// Deliveries returns a copy of everything recorded so far.
func (s *ScriptedSource) Deliveries() []Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Delivery, len(s.deliveries))
	copy(out, s.deliveries)
	return out
}
