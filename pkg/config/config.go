// Package config loads the norma configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is the bundle used when none is configured.
const DefaultLanguage = "ru"

// DefaultLogLevel is the default log level name.
const DefaultLogLevel = "info"

// DefaultWatchDebounce is the default delay before a changed bundle is reported.
const DefaultWatchDebounce = 500 * time.Millisecond

// Config holds CLI configuration.
type Config struct {
	// Language selects the vocabulary bundle.
	Language string `yaml:"language"`

	// BundleDir holds YAML bundle overrides. If empty, only built-in bundles are used.
	BundleDir string `yaml:"bundle_dir"`

	// OntologyFile replaces the embedded knowledge base when set.
	OntologyFile string `yaml:"ontology_file"`

	Log LogConfig `yaml:"log"`

	// ValidateRecords checks written records against the record schema.
	ValidateRecords bool `yaml:"validate"`

	// WatchDebounce coalesces bursts of bundle file events.
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Language:        DefaultLanguage,
		Log:             LogConfig{Level: DefaultLogLevel},
		ValidateRecords: true,
		WatchDebounce:   DefaultWatchDebounce,
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Language == "" {
		return fmt.Errorf("language must not be empty")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative")
	}
	return nil
}
