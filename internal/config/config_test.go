package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.CacheMaxAge != 300*time.Second {
		t.Errorf("CacheMaxAge = %v, want 5m0s", cfg.CacheMaxAge)
	}
	if cfg.APIBaseURL != "" {
		t.Errorf("APIBaseURL = %q, want empty", cfg.APIBaseURL)
	}
	if cfg.Listen == "" {
		t.Error("Listen should have a default")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `listen: ":9090"
api_base_url: "https://news.example.com/"
data_file: "/srv/events.json"
cache_max_age: 60s
cors_origins:
  - "https://news.example.com"
feeds:
  - url: "https://wire.example.com/rss"
    source: "AI Wire"
    category: "research"
    location: "berlin"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("Listen = %q, want :9090", cfg.Listen)
	}
	if cfg.APIBaseURL != "https://news.example.com" {
		t.Errorf("APIBaseURL = %q, want trailing slash trimmed", cfg.APIBaseURL)
	}
	if cfg.CacheMaxAge != time.Minute {
		t.Errorf("CacheMaxAge = %v, want 1m0s", cfg.CacheMaxAge)
	}
	if len(cfg.Feeds) != 1 || cfg.Feeds[0].Category != "research" || cfg.Feeds[0].Source != "AI Wire" {
		t.Errorf("Feeds = %+v, want one research feed", cfg.Feeds)
	}
	if len(cfg.CORSOrigins) != 1 {
		t.Errorf("CORSOrigins = %v, want one origin", cfg.CORSOrigins)
	}
	if cfg.ClientTimeout != 10*time.Second {
		t.Errorf("ClientTimeout = %v, want default 10s", cfg.ClientTimeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	if _, err := Load(missing, false); err != nil {
		t.Errorf("Load(optional missing) error = %v, want nil", err)
	}
	if _, err := Load(missing, true); err == nil {
		t.Error("Load(required missing) expected error")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("listen: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path, true); err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantBaseURL string
		wantListen  string
	}{
		{
			name:        "no env",
			env:         map[string]string{},
			wantBaseURL: "",
			wantListen:  "127.0.0.1:8080",
		},
		{
			name:        "explicit api base url",
			env:         map[string]string{"AI_NEWS_API_BASE_URL": "http://api:8080", "NEXT_PUBLIC_SITE_URL": "http://other"},
			wantBaseURL: "http://api:8080",
			wantListen:  "127.0.0.1:8080",
		},
		{
			name:        "next public site url fallback",
			env:         map[string]string{"NEXT_PUBLIC_SITE_URL": "http://site"},
			wantBaseURL: "http://site",
			wantListen:  "127.0.0.1:8080",
		},
		{
			name:        "listen override",
			env:         map[string]string{"AI_NEWS_LISTEN": ":7000"},
			wantBaseURL: "",
			wantListen:  ":7000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.ApplyEnv(envMap(tt.env))

			if cfg.APIBaseURL != tt.wantBaseURL {
				t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, tt.wantBaseURL)
			}
			if cfg.Listen != tt.wantListen {
				t.Errorf("Listen = %q, want %q", cfg.Listen, tt.wantListen)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := &Config{SiteURL: "https://example.com/"}
	cfg.Normalize()

	if cfg.SiteURL != "https://example.com" {
		t.Errorf("SiteURL = %q", cfg.SiteURL)
	}
	if cfg.ShutdownTimeout <= 0 || cfg.CacheMaxAge <= 0 || cfg.LogLevel == "" {
		t.Errorf("Normalize() left zero values: %+v", cfg)
	}
}

func TestApplyEnv_Digest(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(envMap(map[string]string{
		"AI_NEWS_DIGEST_WEBHOOK_URL": "https://hooks.example.com/digest",
		"RESEND_API_KEY":             "re_123",
	}))

	if cfg.DigestWebhookURL != "https://hooks.example.com/digest" {
		t.Errorf("DigestWebhookURL = %q", cfg.DigestWebhookURL)
	}
	if cfg.ResendAPIKey != "re_123" {
		t.Errorf("ResendAPIKey = %q", cfg.ResendAPIKey)
	}
}
