package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookTarget POSTs lead events as JSON to one automation webhook URL.
type WebhookTarget struct {
	url    string
	client *http.Client
}

// NewWebhookTarget creates a webhook target. If client is nil a default
// client is used; per-delivery timeouts come from the fan-out context.
func NewWebhookTarget(url string, client *http.Client) *WebhookTarget {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &WebhookTarget{url: url, client: client}
}

// Name identifies the target in logs.
func (t *WebhookTarget) Name() string {
	return "webhook:" + t.url
}

// Deliver sends the event payload. A non-2xx status is an error; the
// response body is drained for connection reuse but never parsed.
func (t *WebhookTarget) Deliver(ctx context.Context, event Event) error {
	body, err := json.Marshal(event.payload())
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// WebhookTargets builds one target per URL sharing a single client.
func WebhookTargets(urls []string) []Target {
	client := &http.Client{Timeout: 30 * time.Second}
	targets := make([]Target, 0, len(urls))
	for _, url := range urls {
		targets = append(targets, NewWebhookTarget(url, client))
	}
	return targets
}
