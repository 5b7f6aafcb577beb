// Package feed integrates the external message source that real patrons
// arrive from. The simulation only ever sees it as a polling collaborator:
// failures are logged and swallowed at the call sites, never surfaced into
// state-machine transitions.
package feed

import (
	"context"

	"github.com/google/uuid"
)

// Message is one incoming chat record. Phone is the correlation key used to
// deduplicate patrons across the pending queue and the active roster.
type Message struct {
	ID        string `json:"id"`
	Phone     string `json:"phone"`
	Sender    string `json:"senderName"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestampSeconds"`
}

// DeliveryStatus labels the outcome of a response delivery for the log side-channel.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// Source is the message-source collaborator.
type Source interface {
	// Poll fetches up to limit new messages. An error means "no new data this
	// cycle"; callers must not treat it as fatal.
	Poll(ctx context.Context, limit int) ([]Message, error)

	// DeliverResponse sends a canned template back to the patron. Fire and
	// forget: the serve that triggered it succeeds locally regardless.
	DeliverResponse(ctx context.Context, phone, text string) error

	// LogDelivery records the delivery outcome on a best-effort side channel.
	LogDelivery(ctx context.Context, phone, text string, status DeliveryStatus)

	// SessionActive probes whether the source is live. A false or failed probe
	// puts the game into reduced mode.
	SessionActive(ctx context.Context) bool
}

// Batch is one poll result tagged with the round session token it was fetched
// for. Batches from a stale round are discarded at the tick-boundary merge.
type Batch struct {
	Token    uuid.UUID
	Messages []Message
}
