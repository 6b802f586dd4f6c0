package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/ai-news-events/internal/event"
)

// LoadFile builds a Store from a JSON file holding an array of events.
// A leading "~/" is expanded to the user's home directory.
func LoadFile(path string) (*Store, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading events file: %w", err)
	}

	var events []*event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing events file: %w", err)
	}

	s, err := New(events)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return s, nil
}

// Open returns the Store for a data file, or the built-in sample Store when path is empty.
func Open(path string) (*Store, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// expandHome expands ~ to the home directory
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// WriteFile validates events as a Store would and writes them to path as an
// indented JSON array that LoadFile can read back. Parent directories are created.
func WriteFile(path string, events []*event.Event) error {
	s, err := New(events)
	if err != nil {
		return err
	}

	path, err = expandHome(path)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.events, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing events file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing events file: %w", err)
	}

	return nil
}
