// Package notify emits pipeline lifecycle events.
//
// Delivery is fire-and-forget: a failed publish is logged and never stops
// the run. The pipeline emits an event when an upload or boot test starts,
// completes, or fails, once per destination region.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

const defaultTimeout = 5 * time.Second

// Event is the payload published for every pipeline lifecycle change.
type Event struct {
	Topic       string            `json:"topic"`
	Build       string            `json:"build"`
	Destination string            `json:"destination"`
	Status      string            `json:"status"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Notifier publishes pipeline lifecycle events.
type Notifier interface {
	// Publish emits one event. Implementations must not return delivery
	// failures to the caller.
	Publish(ctx context.Context, topic, buildName, destination, status string, extra map[string]string)
}

// Webhook posts events as JSON to a single endpoint.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a Notifier that POSTs events to the given URL.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Publish posts the event. Failures are logged and swallowed.
func (w *Webhook) Publish(ctx context.Context, topic, buildName, destination, status string, extra map[string]string) {
	event := Event{
		Topic:       topic,
		Build:       buildName,
		Destination: destination,
		Status:      status,
		Extra:       extra,
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("notify: failed to encode %s event for %s: %v", topic, buildName, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		log.Printf("notify: failed to build %s request for %s: %v", topic, buildName, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		log.Printf("notify: failed to deliver %s event for %s: %v", topic, buildName, err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		log.Printf("notify: %s event for %s rejected: %s", topic, buildName, resp.Status)
	}
}

// Nop discards all events. Used when no webhook is configured.
type Nop struct{}

// Publish discards the event.
func (Nop) Publish(context.Context, string, string, string, string, map[string]string) {}

// New returns a Webhook when url is set, otherwise a Nop.
func New(url string) Notifier {
	if url == "" {
		return Nop{}
	}
	return NewWebhook(url)
}
