package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ai-news-events/internal/calendar"
	"github.com/pfrederiksen/ai-news-events/internal/digest"
	"github.com/pfrederiksen/ai-news-events/internal/filter"
	"github.com/pfrederiksen/ai-news-events/internal/logger"
	"github.com/pfrederiksen/ai-news-events/internal/notifier"
)

func (a *app) newICSCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "ics <id>",
		Short: "Export an event as an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			evt, ok := st.GetEvent(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", ErrNotFound, args[0])
			}

			ics, err := calendar.GenerateICS(evt, a.cfg.SiteURL)
			if err != nil {
				return fmt.Errorf("generating calendar: %w", err)
			}

			if out == "" || out == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), ics)
				return err
			}
			if err := os.WriteFile(out, []byte(ics), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			logger.Info("calendar written", logger.Fields{"id": evt.ID, "path": out})
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")

	return cmd
}

func (a *app) newDigestCmd() *cobra.Command {
	var (
		maxEvents int
		category  string
		location  string
		day       string
		send      bool
		dryRun    bool
		webhook   string
		recipient string
	)

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the daily text digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now().UTC()
			if day != "" {
				parsed, err := time.Parse("2006-01-02", day)
				if err != nil {
					return fmt.Errorf("invalid --date %q (want YYYY-MM-DD): %w", day, err)
				}
				date = parsed
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			d := digest.Build(st.ListEvents(filter.New(category, location)), date, maxEvents)

			logger.Debug("digest built", logger.Fields{"events": len(d.IncludedIDs)})

			if !send {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s", d.Subject, d.Text)
				return nil
			}

			if recipient == "" {
				recipient = a.cfg.DigestRecipient
			}
			n, err := a.digestNotifier(cmd, webhook, dryRun)
			if err != nil {
				return err
			}
			if err := n.Notify(cmd.Context(), d, recipient); err != nil {
				return fmt.Errorf("sending digest: %w", err)
			}
			if !dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Sent %q (%d stories)\n", d.Subject, len(d.IncludedIDs))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxEvents, "max", digest.DefaultMaxEvents, "Maximum number of stories")
	cmd.Flags().StringVar(&category, "category", "", "Only events in this category")
	cmd.Flags().StringVar(&location, "location", "", "Only events at this location")
	cmd.Flags().StringVar(&day, "date", "", "Digest date as YYYY-MM-DD (default today, UTC)")
	cmd.Flags().BoolVar(&send, "send", false, "Deliver the digest instead of printing it")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "With --send, show what would be delivered")
	cmd.Flags().StringVar(&webhook, "webhook", "", "Webhook URL for --send (default: digest_webhook_url)")
	cmd.Flags().StringVar(&recipient, "to", "", "Recipient passed to the webhook (default: digest_recipient)")

	return cmd
}

// digestNotifier picks how digest --send delivers: dry-run printer, webhook,
// then email when a Resend API key is configured.
func (a *app) digestNotifier(cmd *cobra.Command, webhook string, dryRun bool) (notifier.Notifier, error) {
	if dryRun {
		return notifier.NewDryRunNotifier(cmd.OutOrStdout()), nil
	}
	if webhook == "" {
		webhook = a.cfg.DigestWebhookURL
	}
	if webhook != "" {
		n, err := notifier.NewWebhookNotifier(webhook, nil)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	if a.cfg.ResendAPIKey != "" {
		n, err := notifier.NewEmailNotifier(a.cfg.ResendAPIKey, a.cfg.DigestFrom)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, errors.New("nowhere to send: pass --webhook, set digest_webhook_url or RESEND_API_KEY")
}
