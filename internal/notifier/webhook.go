package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/ai-news-events/internal/digest"
	"github.com/pfrederiksen/ai-news-events/internal/logger"
)

const (
	UserAgent      = "ai-news-events-notifier/1.0"
	DefaultTimeout = 15 * time.Second
)

// WebhookNotifier posts digests as JSON to a URL
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// webhookPayload is the JSON body sent to the webhook
type webhookPayload struct {
	To       string   `json:"to,omitempty"`
	Subject  string   `json:"subject"`
	Text     string   `json:"text"`
	EventIDs []string `json:"included_event_ids"`
	SentAt   string   `json:"sent_at"`
}

// NewWebhookNotifier creates a notifier posting to url. A nil client uses one
// with DefaultTimeout.
func NewWebhookNotifier(url string, client *http.Client) (*WebhookNotifier, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &WebhookNotifier{url: url, client: client}, nil
}

// Notify posts the digest. Any non-2xx response is an error.
func (n *WebhookNotifier) Notify(ctx context.Context, d *digest.Digest, recipient string) error {
	body, err := json.Marshal(webhookPayload{
		To:       recipient,
		Subject:  d.Subject,
		Text:     d.Text,
		EventIDs: d.IncludedIDs,
		SentAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encoding digest: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting digest: %w", err)
	}
	defer resp.Body.Close()
	logger.RecordTiming("notifier.webhook", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.IncrCounter("notifier.webhook.failed")
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	logger.IncrCounter("notifier.webhook.sent")
	logger.Info("digest delivered", logger.Fields{
		"subject": d.Subject,
		"stories": len(d.IncludedIDs),
		"status":  resp.StatusCode,
	})
	return nil
}
