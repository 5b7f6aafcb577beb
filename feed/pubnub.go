package feed

import (
	"context"
	"fmt"
	"log"
	"strconv"

	pubnubgo "github.com/pubnub/go/v7"
)

// PubNubConfig carries the keyset and channel naming for a PubNub-backed source.
type PubNubConfig struct {
	PublishKey   string
	SubscribeKey string
	UserID       string

	// Channel is the inbound patron-message channel. Responses publish to
	// Channel+"-out", delivery logs to Channel+"-log".
	Channel string
}

// PubNubSource reads patron messages from a PubNub channel and publishes
// responses back. Polling uses message fetch with a high-water timetoken so
// each record is handed out once.
type PubNubSource struct {
	pn      *pubnubgo.PubNub
	channel string

	// Highest timetoken already handed out; fetched items at or below it are skipped.
	lastTimetoken int64
}

var _ Source = (*PubNubSource)(nil)

// NewPubNubSource creates a source for the given keyset.
func NewPubNubSource(cfg *PubNubConfig) (*PubNubSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pubnub: config must not be nil")
	}
	if cfg.SubscribeKey == "" || cfg.PublishKey == "" || cfg.Channel == "" {
		return nil, fmt.Errorf("pubnub: publish key, subscribe key and channel are required")
	}

	pnCfg := pubnubgo.NewConfigWithUserId(pubnubgo.UserId(cfg.UserID))
	pnCfg.PublishKey = cfg.PublishKey
	pnCfg.SubscribeKey = cfg.SubscribeKey

	return &PubNubSource{
		pn:      pubnubgo.NewPubNub(pnCfg),
		channel: cfg.Channel,
	}, nil
}

// Poll fetches up to limit recent records from the inbound channel, skipping
// anything already seen.
func (s *PubNubSource) Poll(ctx context.Context, limit int) ([]Message, error) {
	res, _, err := s.pn.FetchWithContext(ctx).
		Channels([]string{s.channel}).
		Count(limit).
		Execute()
	if err != nil {
		return nil, err
	}

	var out []Message
	for _, item := range res.Messages[s.channel] {
		tt, err := strconv.ParseInt(item.Timetoken, 10, 64)
		if err != nil || tt <= s.lastTimetoken {
			continue
		}
		msg, ok := decodePatronMessage(item.Message)
		if !ok {
			continue
		}
		msg.ID = item.Timetoken
		// PubNub timetokens are 10ns units since epoch
		msg.Timestamp = tt / 10_000_000
		out = append(out, msg)
		if tt > s.lastTimetoken {
			s.lastTimetoken = tt
		}
	}
	return out, nil
}

// DeliverResponse publishes the template text to the outbound channel.
func (s *PubNubSource) DeliverResponse(ctx context.Context, phone, text string) error {
	payload := map[string]string{"phone": phone, "text": text}
	_, _, err := s.pn.PublishWithContext(ctx).
		Channel(s.channel + "-out").
		Message(payload).
		Execute()
	return err
}

// LogDelivery publishes the delivery outcome to the log channel, best effort.
func (s *PubNubSource) LogDelivery(ctx context.Context, phone, text string, status DeliveryStatus) {
	payload := map[string]string{"phone": phone, "text": text, "status": string(status)}
	_, _, err := s.pn.PublishWithContext(ctx).
		Channel(s.channel + "-log").
		Message(payload).
		Execute()
	if err != nil {
		log.Printf("feed: delivery log publish failed: %v", err)
	}
}

// SessionActive probes the PubNub time endpoint.
func (s *PubNubSource) SessionActive(ctx context.Context) bool {
	_, _, err := s.pn.TimeWithContext(ctx).Execute()
	return err == nil
}

// decodePatronMessage extracts a Message from an arbitrary published payload.
func decodePatronMessage(raw any) (Message, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Message{}, false
	}
	msg := Message{}
	if v, ok := m["phone"].(string); ok {
		msg.Phone = v
	}
	if v, ok := m["senderName"].(string); ok {
		msg.Sender = v
	}
	if v, ok := m["text"].(string); ok {
		msg.Text = v
	}
	if msg.Phone == "" || msg.Text == "" {
		return Message{}, false
	}
	return msg, true
}
