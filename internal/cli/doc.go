// Package cli implements the ai-news-events command-line interface.
//
// The cli package provides the Cobra command tree: serve runs the web server,
// list and show print events from the local store or a remote events API,
// ics writes a calendar export, digest prints the daily text digest and
// ingest builds an events data file from RSS feeds.
// Output is text or JSON, and the exit code tells scripts whether an event was
// found.
package cli
