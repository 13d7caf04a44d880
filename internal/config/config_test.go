package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig tests the default configuration values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, cfg.Timeout)
	}
	if cfg.OutputPath != DefaultOutputPath {
		t.Errorf("expected output path %q, got %q", DefaultOutputPath, cfg.OutputPath)
	}
	if cfg.Concurrency != DefaultConcurrency {
		t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, cfg.Concurrency)
	}
	if cfg.UserAgent == "" {
		t.Error("expected non-empty default user agent")
	}
	if cfg.MaxBodySize != DefaultMaxBodySize {
		t.Errorf("expected max body size %d, got %d", DefaultMaxBodySize, cfg.MaxBodySize)
	}
}

// TestDefaultSourceURLs verifies the built-in seed pages.
func TestDefaultSourceURLs(t *testing.T) {
	t.Parallel()

	urls := DefaultSourceURLs()
	if len(urls) != 2 {
		t.Fatalf("expected 2 default source URLs, got %d", len(urls))
	}

	// Each call must return a fresh slice.
	urls[0] = "mutated"
	if DefaultSourceURLs()[0] == "mutated" {
		t.Error("expected DefaultSourceURLs to return a fresh slice per call")
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid default config",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "empty sources are valid",
			mutate:  func(c *Config) { c.Sources = nil },
			wantErr: nil,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Timeout = -time.Second },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "missing output path",
			mutate:  func(c *Config) { c.OutputPath = "" },
			wantErr: ErrNoOutputPath,
		},
		{
			name:    "negative max body size",
			mutate:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadConfigFile tests YAML config file loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads site configs", func(t *testing.T) {
		t.Parallel()

		content := `
defaults:
  userAgent: "custom-agent/1.0"
sites:
  intranet.example.test:
    cookie: "session=abc123"
    headers:
      Authorization: "Bearer token"
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		site := cf.GetSiteConfig("intranet.example.test")
		if site.Cookie != "session=abc123" {
			t.Errorf("expected cookie from site config, got %q", site.Cookie)
		}
		if site.UserAgent != "custom-agent/1.0" {
			t.Errorf("expected user agent from defaults, got %q", site.UserAgent)
		}
		if site.Headers["Authorization"] != "Bearer token" {
			t.Errorf("expected Authorization header, got %v", site.Headers)
		}
	})

	t.Run("unknown host falls back to defaults", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Sites:    map[string]SiteConfig{},
			Defaults: SiteConfig{UserAgent: "fallback/1.0"},
		}

		site := cf.GetSiteConfig("unknown.test")
		if site.UserAgent != "fallback/1.0" {
			t.Errorf("expected fallback user agent, got %q", site.UserAgent)
		}
		if site.Cookie != "" {
			t.Errorf("expected empty cookie, got %q", site.Cookie)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "does-not-exist"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [not a map"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}

// TestFindConfigFile tests config file discovery.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path is used when it exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("sites: {}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("missing explicit path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}
