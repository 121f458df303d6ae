package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Organizer OrganizerConfig `toml:"organizer"`
	Journal   JournalConfig   `toml:"journal"`
	Watch     WatchConfig     `toml:"watch"`
}

// OrganizerConfig controls how disc images are matched, renamed and listed.
type OrganizerConfig struct {
	Prefix            string `toml:"prefix"`
	Extension         string `toml:"extension"`
	PlaylistExtension string `toml:"playlist_extension"`
}

// JournalConfig contains run journal (SQLite) settings.
type JournalConfig struct {
	Enabled      bool   `toml:"enabled"`
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// WatchConfig contains watch mode settings.
type WatchConfig struct {
	Debounce string `toml:"debounce"`
}

// DebounceDuration parses [WatchConfig.Debounce].
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0, fmt.Errorf("%w: watch.debounce %q: %v", ErrInvalidConfig, w.Debounce, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: watch.debounce must not be negative", ErrInvalidConfig)
	}
	return d, nil
}

// Validate checks the values a run depends on.
func (c *Config) Validate() error {
	if strings.ContainsAny(c.Organizer.Prefix, `/\`) {
		return fmt.Errorf("%w: organizer.prefix must not contain path separators", ErrInvalidConfig)
	}
	if c.Organizer.Prefix == "" {
		return fmt.Errorf("%w: organizer.prefix is empty", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Organizer.Extension, ".") {
		return fmt.Errorf("%w: organizer.extension must start with a dot", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Organizer.PlaylistExtension, ".") {
		return fmt.Errorf("%w: organizer.playlist_extension must start with a dot", ErrInvalidConfig)
	}
	if _, err := c.Watch.DebounceDuration(); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
