package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
)

// HTTPSource polls a REST message gateway:
//
//	GET  /session            -> {"active": bool}
//	GET  /messages?limit=n   -> {"success": bool, "messages": [...]}
//	POST /respond            <- {"phone": ..., "text": ...}
//	POST /log                <- {"phone": ..., "text": ..., "status": ...}
//
// cmd/feedsim serves this surface for local play.
type HTTPSource struct {
	base   string
	client *http.Client
}

var _ Source = (*HTTPSource)(nil)

// NewHTTPSource creates a source against the given base URL.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		base:   baseURL,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type pollResponse struct {
	Success  bool      `json:"success"`
	Messages []Message `json:"messages"`
}

type respondRequest struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
}

type respondResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type logRequest struct {
	Phone  string `json:"phone"`
	Text   string `json:"text"`
	Status string `json:"status"`
}

type sessionResponse struct {
	Active bool `json:"active"`
}

// Poll fetches up to limit pending messages from the gateway.
func (s *HTTPSource) Poll(ctx context.Context, limit int) ([]Message, error) {
	url := s.base + "/messages?limit=" + strconv.Itoa(limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poll: unexpected status %d", resp.StatusCode)
	}
	var body pollResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, fmt.Errorf("poll: gateway reported failure")
	}
	return body.Messages, nil
}

// DeliverResponse posts the template text back to the gateway.
func (s *HTTPSource) DeliverResponse(ctx context.Context, phone, text string) error {
	var body respondResponse
	if err := s.post(ctx, "/respond", respondRequest{Phone: phone, Text: text}, &body); err != nil {
		return err
	}
	if !body.Success {
		return fmt.Errorf("respond: %s", body.Error)
	}
	return nil
}

// LogDelivery posts the delivery outcome to the best-effort log channel.
func (s *HTTPSource) LogDelivery(ctx context.Context, phone, text string, status DeliveryStatus) {
	if err := s.post(ctx, "/log", logRequest{Phone: phone, Text: text, Status: string(status)}, nil); err != nil {
		log.Printf("feed: delivery log failed: %v", err)
	}
}

// SessionActive probes the gateway session endpoint.
func (s *HTTPSource) SessionActive(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/session", nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	var body sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.Active
}

func (s *HTTPSource) post(ctx context.Context, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
