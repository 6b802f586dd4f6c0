// Package config loads the ai-news-events runtime configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables. Command-line flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "ai-news-events.yaml"

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the web server.
	Listen string `yaml:"listen"`

	// APIBaseURL, when set, makes the HTML pages read events over HTTP from
	// this base URL instead of the in-process store. Also the default target
	// for the remote CLI commands.
	APIBaseURL string `yaml:"api_base_url"`

	// SiteURL is the public origin used to build absolute links (calendar export).
	SiteURL string `yaml:"site_url"`

	// DataFile is a JSON file of events loaded at startup. Empty means the built-in samples.
	DataFile string `yaml:"data_file"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// CacheMaxAge is the freshness hint sent with event API responses.
	CacheMaxAge time.Duration `yaml:"cache_max_age"`

	ClientTimeout   time.Duration `yaml:"client_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// CORSOrigins lists origins allowed to call the JSON API from a browser.
	// An empty list disables CORS.
	CORSOrigins []string `yaml:"cors_origins"`

	// DigestWebhookURL receives digests sent with "digest --send".
	DigestWebhookURL string `yaml:"digest_webhook_url"`

	// DigestRecipient is passed along with each sent digest.
	DigestRecipient string `yaml:"digest_recipient"`

	// DigestFrom is the sender address for emailed digests.
	DigestFrom string `yaml:"digest_from"`

	// ResendAPIKey enables emailed digests. Read from RESEND_API_KEY only.
	ResendAPIKey string `yaml:"-"`

	// Feeds are the RSS sources read by the ingest command.
	Feeds []Feed `yaml:"feeds"`
}

// Feed is one RSS source and the facets its items are filed under.
type Feed struct {
	URL      string `yaml:"url"`
	Source   string `yaml:"source"` // name used in ingest logs and errors
	Category string `yaml:"category"`
	Location string `yaml:"location"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:          "127.0.0.1:8080",
		LogLevel:        "info",
		CacheMaxAge:     300 * time.Second,
		ClientTimeout:   10 * time.Second,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		CORSOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
	}
}

// Normalize fills in missing or zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	d := Default()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.CacheMaxAge <= 0 {
		c.CacheMaxAge = d.CacheMaxAge
	}
	if c.ClientTimeout <= 0 {
		c.ClientTimeout = d.ClientTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.CORSOrigins == nil {
		c.CORSOrigins = d.CORSOrigins
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	c.SiteURL = strings.TrimRight(c.SiteURL, "/")
}

// Load reads the YAML file at path over the defaults, then applies environment
// overrides. A missing file is not an error unless required is true.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !required:
			// fall through to defaults
		default:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	cfg.Normalize()

	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
// NEXT_PUBLIC_SITE_URL is honored as a fallback for the API base URL.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("AI_NEWS_LISTEN"); ok && v != "" {
		c.Listen = v
	}
	if v, ok := lookup("AI_NEWS_API_BASE_URL"); ok && v != "" {
		c.APIBaseURL = v
	} else if v, ok := lookup("NEXT_PUBLIC_SITE_URL"); ok && v != "" {
		c.APIBaseURL = v
	}
	if v, ok := lookup("AI_NEWS_SITE_URL"); ok && v != "" {
		c.SiteURL = v
	}
	if v, ok := lookup("AI_NEWS_DATA_FILE"); ok && v != "" {
		c.DataFile = v
	}
	if v, ok := lookup("AI_NEWS_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup("AI_NEWS_DIGEST_WEBHOOK_URL"); ok && v != "" {
		c.DigestWebhookURL = v
	}
	if v, ok := lookup("RESEND_API_KEY"); ok && v != "" {
		c.ResendAPIKey = v
	}
}
