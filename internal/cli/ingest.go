package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ai-news-events/internal/filter"
	"github.com/pfrederiksen/ai-news-events/internal/logger"
	"github.com/pfrederiksen/ai-news-events/internal/scraper"
	"github.com/pfrederiksen/ai-news-events/internal/store"
)

func (a *app) newIngestCmd() *cobra.Command {
	var (
		out      string
		feedURLs []string
		category string
		location string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Build an events data file from RSS feeds",
		Long: `Fetch the configured RSS feeds (plus any --feed URLs) and write their items
as an events data file. The server reads the file at startup with --data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			feeds := make([]scraper.Feed, 0, len(a.cfg.Feeds)+len(feedURLs))
			for _, f := range a.cfg.Feeds {
				feeds = append(feeds, scraper.Feed{URL: f.URL, SourceName: f.Source, Category: f.Category, Location: f.Location})
			}
			for _, u := range feedURLs {
				feeds = append(feeds, scraper.Feed{URL: u, Category: category, Location: location})
			}
			if len(feeds) == 0 {
				return errors.New("no feeds: add feeds to the config file or pass --feed")
			}

			if out == "" {
				out = a.cfg.DataFile
			}
			if out == "" && !dryRun {
				return errors.New("no output file: pass --out or set data_file")
			}

			start := time.Now()
			events, err := scraper.New().FetchEvents(cmd.Context(), feeds)
			if err != nil {
				return fmt.Errorf("fetching feeds: %w", err)
			}
			logger.RecordTiming("ingest.fetch", time.Since(start))
			logger.IncrCounter("ingest.runs")

			if dryRun {
				result := &OutputResult{
					GeneratedAt: time.Now().UTC(),
					Source:      "feeds",
					Filters:     filter.Query{}.String(),
					Events:      events,
					EventCount:  len(events),
				}
				return WriteOutput(cmd.OutOrStdout(), result, FormatText, a.verbose)
			}

			if err := store.WriteFile(out, events); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			logger.Info("events file written", logger.Fields{"path": out, "events": len(events), "feeds": len(feeds)})
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d events from %d feeds into %s\n", len(events), len(feeds), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Events file to write (default: data_file from config)")
	cmd.Flags().StringSliceVar(&feedURLs, "feed", nil, "Extra RSS feed URL (repeatable)")
	cmd.Flags().StringVar(&category, "category", "", "Category for --feed items (default general)")
	cmd.Flags().StringVar(&location, "location", "", "Location for --feed items (default global)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the events instead of writing them")

	return cmd
}
