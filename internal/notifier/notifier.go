package notifier

import (
	"context"

	"github.com/pfrederiksen/ai-news-events/internal/digest"
)

// Notifier defines the interface for delivering a digest
type Notifier interface {
	// Notify delivers d to recipient. An empty recipient leaves routing to the receiver.
	Notify(ctx context.Context, d *digest.Digest, recipient string) error
}
