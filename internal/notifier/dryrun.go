package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/pfrederiksen/ai-news-events/internal/digest"
)

// DryRunNotifier prints what would be sent without delivering anything
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to out
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: out}
}

// Notify prints the message that would be delivered
func (n *DryRunNotifier) Notify(_ context.Context, d *digest.Digest, recipient string) error {
	if recipient == "" {
		recipient = "(default)"
	}
	fmt.Fprintf(n.out, "--- Digest for %s ---\n", recipient)
	fmt.Fprintf(n.out, "Subject: %s\n\n", d.Subject)
	fmt.Fprint(n.out, d.Text)
	fmt.Fprintf(n.out, "\n(%d stories, %d characters)\n", len(d.IncludedIDs), len(d.Text))
	return nil
}
