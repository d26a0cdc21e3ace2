// Package config handles configuration loading and validation for lingo.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/lingo/internal/core/job"
	"github.com/colonyops/lingo/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Backend   BackendConfig   `yaml:"backend"`
	Poll      PollConfig      `yaml:"poll"`
	TUI       TUIConfig       `yaml:"tui"`
	DevServer DevServerConfig `yaml:"dev_server"`
	DataDir   string          `yaml:"-"` // set by caller, not from config file
}

// BackendConfig configures the translation server client.
type BackendConfig struct {
	URL      string        `yaml:"url"`
	Timeout  time.Duration `yaml:"timeout"`
	RowLimit int           `yaml:"row_limit"` // rows fetched per dataset load
}

// PollConfig configures the job poll loop. The interval is fixed.
type PollConfig struct {
	MaxFailures int `yaml:"max_failures"` // consecutive failed ticks before giving up
}

// TUIConfig configures the terminal UI.
type TUIConfig struct {
	Theme          string        `yaml:"theme"`
	SearchDebounce time.Duration `yaml:"search_debounce"`
}

// DevServerConfig configures the in-memory dev backend.
type DevServerConfig struct {
	Addr      string        `yaml:"addr"`
	ItemDelay time.Duration `yaml:"item_delay"` // simulated time per translated cell
	Rows      int           `yaml:"rows"`       // rows in the seeded dataset
	DatasetID string        `yaml:"dataset_id"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			URL:      "http://127.0.0.1:8000",
			Timeout:  10 * time.Second,
			RowLimit: 1000,
		},
		Poll: PollConfig{
			MaxFailures: job.DefaultMaxPollFailures,
		},
		TUI: TUIConfig{
			Theme:          styles.DefaultTheme,
			SearchDebounce: 300 * time.Millisecond,
		},
		DevServer: DevServerConfig{
			Addr:      "127.0.0.1:8000",
			ItemDelay: 150 * time.Millisecond,
			Rows:      200,
			DatasetID: "demo",
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Backend.URL == "" {
		c.Backend.URL = defaults.Backend.URL
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = defaults.Backend.Timeout
	}
	if c.Backend.RowLimit == 0 {
		c.Backend.RowLimit = defaults.Backend.RowLimit
	}
	if c.Poll.MaxFailures == 0 {
		c.Poll.MaxFailures = defaults.Poll.MaxFailures
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.SearchDebounce == 0 {
		c.TUI.SearchDebounce = defaults.TUI.SearchDebounce
	}
	if c.DevServer.Addr == "" {
		c.DevServer.Addr = defaults.DevServer.Addr
	}
	if c.DevServer.Rows == 0 {
		c.DevServer.Rows = defaults.DevServer.Rows
	}
	if c.DevServer.DatasetID == "" {
		c.DevServer.DatasetID = defaults.DevServer.DatasetID
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("backend.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.url must be an http or https URL, got %q", c.Backend.URL)
	}

	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout cannot be negative")
	}
	if c.Backend.RowLimit < 1 {
		return fmt.Errorf("backend.row_limit must be at least 1")
	}
	if c.Poll.MaxFailures < 1 {
		return fmt.Errorf("poll.max_failures must be at least 1")
	}
	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not a known theme", c.TUI.Theme)
	}

	return nil
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "lingo.log")
}
