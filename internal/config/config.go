// Package config loads a11yx configuration from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/comalice/a11yx/internal/logging"
	"github.com/comalice/a11yx/internal/markup"
)

// Persistence drivers.
const (
	DriverNone   = "none"
	DriverJSON   = "json"
	DriverYAML   = "yaml"
	DriverSQLite = "sqlite"
)

// Config is the top-level configuration.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
	Options     map[string]any    `yaml:"options" toml:"options"`
	Coordinator CoordinatorConfig `yaml:"coordinator" toml:"coordinator"`
	Persistence PersistenceConfig `yaml:"persistence" toml:"persistence"`
	Focus       FocusConfig       `yaml:"focus" toml:"focus"`
	Rules       markup.Ruleset    `yaml:"rules" toml:"rules"`
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// CoordinatorConfig sizes the coordinator's event queue.
type CoordinatorConfig struct {
	QueueSize int `yaml:"queue_size" toml:"queue_size"`
}

// PersistenceConfig selects where snapshots are saved.
// Path is a directory for json/yaml and a database file for sqlite.
type PersistenceConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	Path   string `yaml:"path" toml:"path"`
}

// FocusConfig holds focus manager settings.
type FocusConfig struct {
	PostDelay time.Duration `yaml:"-" toml:"-"`

	// Raw string value for unmarshaling
	PostDelayRaw string `yaml:"post_delay" toml:"post_delay"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Logging:     LoggingConfig{Level: "info", Format: logging.FormatText},
		Options:     map[string]any{},
		Coordinator: CoordinatorConfig{QueueSize: 1000},
		Persistence: PersistenceConfig{Driver: DriverNone},
		Focus:       FocusConfig{PostDelay: 100 * time.Millisecond, PostDelayRaw: "100ms"},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// The format follows the extension: .yaml, .yml or .toml.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes data in the format named by ext.
func Parse(ext string, data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	cfg := Default()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if cfg.Options == nil {
		cfg.Options = map[string]any{}
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envPattern.FindStringSubmatch(match)[1])
	})
}

func parseDurations(cfg *Config) error {
	if cfg.Focus.PostDelayRaw != "" {
		d, err := time.ParseDuration(cfg.Focus.PostDelayRaw)
		if err != nil {
			return fmt.Errorf("parsing post_delay %q: %w", cfg.Focus.PostDelayRaw, err)
		}
		cfg.Focus.PostDelay = d
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Logging.Level != "" {
		if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
			errs = append(errs, fmt.Errorf("logging.level: %w", err))
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be text or json", c.Logging.Format))
	}

	if c.Coordinator.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("coordinator.queue_size must not be negative"))
	}

	switch c.Persistence.Driver {
	case "", DriverNone:
	case DriverJSON, DriverYAML, DriverSQLite:
		if c.Persistence.Path == "" {
			errs = append(errs, fmt.Errorf("persistence.path is required for driver %q", c.Persistence.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("persistence.driver %q must be one of none, json, yaml, sqlite", c.Persistence.Driver))
	}

	if c.Focus.PostDelay < 0 {
		errs = append(errs, fmt.Errorf("focus.post_delay must not be negative"))
	}

	if err := c.Rules.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("rules: %w", err))
	}
	return errors.Join(errs...)
}
