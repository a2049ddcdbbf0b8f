// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the playground client.
//
// Configuration is read from ~/.playground/config.toml when present, with
// built-in defaults and environment variable overrides applied last.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete client configuration.
type Config struct {
	// Backend holds connection settings for the playground backend.
	Backend BackendConfig `toml:"backend"`

	// UI holds presentation settings.
	UI UIConfig `toml:"ui"`
}

// BackendConfig contains backend connection settings.
type BackendConfig struct {
	// URL is the base URL of the playground backend.
	URL string `toml:"url"`
	// RequestTimeoutSecs is the per-request timeout in seconds.
	RequestTimeoutSecs int `toml:"request_timeout_secs"`
	// DefaultMode is the mode the client starts in.
	DefaultMode string `toml:"default_mode"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// ShowMetadata controls whether response metadata is rendered.
	ShowMetadata bool `toml:"show_metadata"`
	// CompactMode uses a more compact layout.
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:                "http://127.0.0.1:8000",
			RequestTimeoutSecs: 60,
			DefaultMode:        "simple",
		},
		UI: UIConfig{
			Theme:        "dark",
			ShowMetadata: true,
			CompactMode:  false,
		},
	}
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Backend.RequestTimeoutSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the playground configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".playground"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Backend.URL == "" {
		c.Backend.URL = defaults.Backend.URL
	}
	if c.Backend.RequestTimeoutSecs <= 0 {
		c.Backend.RequestTimeoutSecs = defaults.Backend.RequestTimeoutSecs
	}
	if c.Backend.DefaultMode == "" {
		c.Backend.DefaultMode = defaults.Backend.DefaultMode
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("backend.url: invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.url: scheme must be http or https, got %q", u.Scheme)
	}

	if c.Backend.RequestTimeoutSecs < 1 || c.Backend.RequestTimeoutSecs > 600 {
		return fmt.Errorf("backend.request_timeout_secs: must be 1-600, got %d", c.Backend.RequestTimeoutSecs)
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		return fmt.Errorf("ui.theme: invalid theme %q, must be one of: dark, light, auto", c.UI.Theme)
	}

	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - PLAYGROUND_URL: overrides backend.url
//   - PLAYGROUND_MODE: overrides backend.default_mode
//   - PLAYGROUND_TIMEOUT_SECS: overrides backend.request_timeout_secs
//   - PLAYGROUND_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("PLAYGROUND_URL"); u != "" {
		c.Backend.URL = u
	}
	if mode := os.Getenv("PLAYGROUND_MODE"); mode != "" {
		c.Backend.DefaultMode = mode
	}
	if secs := os.Getenv("PLAYGROUND_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil {
			c.Backend.RequestTimeoutSecs = n
		}
	}
	if theme := os.Getenv("PLAYGROUND_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}
