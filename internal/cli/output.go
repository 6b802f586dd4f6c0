package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/ai-news-events/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Source      string         `json:"source"`
	Filters     string         `json:"filters"`
	Events      []*event.Event `json:"events"`
	EventCount  int            `json:"event_count"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteEvent writes a single event in the specified format
func WriteEvent(w io.Writer, evt *event.Event, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, evt)
	case FormatText:
		fmt.Fprintf(w, "%s\n", evt.Title)
		fmt.Fprintf(w, "%s | %s | %s\n\n", evt.Category, evt.Location, evt.FormatPublished())
		if evt.Summary != "" {
			fmt.Fprintf(w, "%s\n\n", evt.Summary)
		}
		fmt.Fprintf(w, "%s\n", evt.Content)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	for _, evt := range result.Events {
		fmt.Fprintf(w, "[%s] %s (%s, %s)\n", evt.Category, evt.Title, evt.Location, evt.FormatPublished())
		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", evt.ID)
			if evt.Summary != "" {
				fmt.Fprintf(w, "     Summary: %s\n", evt.Summary)
			}
		}
	}

	label := "events"
	if result.EventCount == 1 {
		label = "event"
	}
	fmt.Fprintf(w, "\nTotal: %d %s (%s)\n", result.EventCount, label, result.Filters)

	return nil
}
