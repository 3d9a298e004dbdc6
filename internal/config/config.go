// Package config handles configuration loading, validation, and management
// for inkpick.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete application configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Matcher configures character matching.
	Matcher MatcherConfig `toml:"matcher" json:"matcher" yaml:"matcher"`

	// Canvas configures the drawing surface.
	Canvas CanvasConfig `toml:"canvas" json:"canvas" yaml:"canvas"`

	// Recording configures selection recording.
	Recording RecordingConfig `toml:"recording" json:"recording" yaml:"recording"`

	// Logging configures log output.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// MatcherConfig holds character matching configuration.
type MatcherConfig struct {
	// DataPath is the path to the character data file.
	DataPath string `toml:"data_path" json:"data_path" yaml:"data_path"`

	// Limit is the number of candidates shown per recompute.
	Limit int `toml:"limit" json:"limit" yaml:"limit"`

	// HotReload reloads the character data file when it changes.
	HotReload bool `toml:"hot_reload" json:"hot_reload" yaml:"hot_reload"`
}

// CanvasConfig holds drawing surface configuration.
type CanvasConfig struct {
	// Size is the side of the square canonical drawing grid.
	Size int `toml:"size" json:"size" yaml:"size"`

	// StrokeWidth is the drawn line width in canonical units.
	StrokeWidth float64 `toml:"stroke_width" json:"stroke_width" yaml:"stroke_width"`
}

// RecordingConfig holds selection recording configuration.
type RecordingConfig struct {
	// Enabled turns selection recording on.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// CollectorURL is the ws:// or wss:// URL of the training-data
	// collector. Empty means journal-only.
	CollectorURL string `toml:"collector_url" json:"collector_url" yaml:"collector_url"`

	// JournalPath is the path to the local selection journal database.
	JournalPath string `toml:"journal_path" json:"journal_path" yaml:"journal_path"`
}

// LoggingConfig holds log output configuration.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, or error.
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the output format: text or json.
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is where logs go: stdout, stderr, or file.
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file path when Output is "file".
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dataDir := PlatformDataDir()
	return &Config{
		Version: Version,
		Matcher: MatcherConfig{
			DataPath:  filepath.Join(dataDir, "characters.json"),
			Limit:     8,
			HotReload: false,
		},
		Canvas: CanvasConfig{
			Size:        256,
			StrokeWidth: 4,
		},
		Recording: RecordingConfig{
			Enabled:      true,
			CollectorURL: "",
			JournalPath:  filepath.Join(dataDir, "journal.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads a configuration file, applies environment overrides, and
// validates the result. The format is chosen by extension: .toml
// (default), .yaml/.yml, or .json. An empty path loads the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse yaml config: %w", err)
			}
		case ".json":
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse json config: %w", err)
			}
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse toml config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies INKPICK_* environment variables on top of the
// loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("INKPICK_MATCHER_DATA"); v != "" {
		c.Matcher.DataPath = v
	}
	if v := os.Getenv("INKPICK_MATCHER_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Matcher.Limit = n
		}
	}
	if v := os.Getenv("INKPICK_COLLECTOR_URL"); v != "" {
		c.Recording.CollectorURL = v
	}
	if v := os.Getenv("INKPICK_JOURNAL_PATH"); v != "" {
		c.Recording.JournalPath = v
	}
	if v := os.Getenv("INKPICK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}
