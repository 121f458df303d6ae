package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Organizer.Prefix != "_" {
			t.Errorf("expected prefix _, got %s", config.Organizer.Prefix)
		}

		if config.Organizer.Extension != ".chd" {
			t.Errorf("expected extension .chd, got %s", config.Organizer.Extension)
		}

		if config.Organizer.PlaylistExtension != ".m3u" {
			t.Errorf("expected playlist extension .m3u, got %s", config.Organizer.PlaylistExtension)
		}

		if config.Journal.Enabled {
			t.Error("expected journal to be disabled by default")
		}

		if d, err := config.Watch.DebounceDuration(); err != nil || d != 2*time.Second {
			t.Errorf("expected debounce 2s, got %v (err %v)", d, err)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "chdm3u.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Journal.Path != DefaultConfig().Journal.Path {
			t.Errorf("created config journal path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "chdm3u.toml")

		testConfig := `[organizer]
prefix = "."

[journal]
enabled = true
path = "/custom/journal.db"

[watch]
debounce = "500ms"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Organizer.Prefix != "." {
			t.Errorf("expected prefix ., got %s", config.Organizer.Prefix)
		}

		if config.Organizer.Extension != ".chd" {
			t.Errorf("missing keys should keep defaults, got extension %s", config.Organizer.Extension)
		}

		if !config.Journal.Enabled || config.Journal.Path != "/custom/journal.db" {
			t.Errorf("unexpected journal config: %+v", config.Journal)
		}

		if d, _ := config.Watch.DebounceDuration(); d != 500*time.Millisecond {
			t.Errorf("expected debounce 500ms, got %v", d)
		}
	})

	t.Run("LoadConfig rejects invalid values", func(t *testing.T) {
		tt := []struct {
			name string
			body string
		}{
			{name: "empty prefix", body: "[organizer]\nprefix = \"\"\n"},
			{name: "prefix with separator", body: "[organizer]\nprefix = \"a/\"\n"},
			{name: "extension without dot", body: "[organizer]\nextension = \"chd\"\n"},
			{name: "bad debounce", body: "[watch]\ndebounce = \"soon\"\n"},
			{name: "malformed toml", body: "[organizer\n"},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "chdm3u.toml")
				if err := os.WriteFile(configPath, []byte(tc.body), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}

				_, err := LoadConfig(configPath)
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
