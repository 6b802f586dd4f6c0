package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/resendlabs/resend-go"

	"github.com/pfrederiksen/ai-news-events/internal/digest"
	"github.com/pfrederiksen/ai-news-events/internal/logger"
)

// DefaultFrom is the sender used when none is configured.
const DefaultFrom = "AI News Publisher <digest@ai-news-events.local>"

// EmailNotifier sends digests by email through the Resend API
type EmailNotifier struct {
	client *resend.Client
	from   string
}

// NewEmailNotifier creates an email notifier. An empty from uses DefaultFrom.
func NewEmailNotifier(apiKey, from string) (*EmailNotifier, error) {
	if apiKey == "" {
		return nil, errors.New("resend API key is required")
	}
	if from == "" {
		from = DefaultFrom
	}
	return &EmailNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
	}, nil
}

// Notify emails the digest to recipient, which is required.
func (n *EmailNotifier) Notify(_ context.Context, d *digest.Digest, recipient string) error {
	if recipient == "" {
		return errors.New("email recipient is required")
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{recipient},
		Subject: d.Subject,
		Text:    d.Text,
		Html:    digestHTML(d),
	}

	if _, err := n.client.Emails.Send(params); err != nil {
		logger.IncrCounter("notifier.email.failed")
		return fmt.Errorf("failed to send digest via Resend: %w", err)
	}

	logger.IncrCounter("notifier.email.sent")
	logger.Info("digest emailed", logger.Fields{"to": recipient, "stories": len(d.IncludedIDs)})
	return nil
}

// digestHTML wraps the plain-text body for mail clients that prefer HTML
func digestHTML(d *digest.Digest) string {
	return "<!DOCTYPE html><html><body>" +
		"<h1>" + html.EscapeString(d.Subject) + "</h1>" +
		`<pre style="font-family: inherit; white-space: pre-wrap">` + html.EscapeString(d.Text) + "</pre>" +
		"</body></html>"
}
