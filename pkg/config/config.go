// Package config loads chooser settings from YAML files and CHOOSER_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/odvcencio/chooser/pkg/errors"
	"github.com/odvcencio/chooser/pkg/logging"
)

// Config is the full chooser configuration.
type Config struct {
	Selector  SelectorConfig  `yaml:"selector"`
	Directory DirectoryConfig `yaml:"directory"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SelectorConfig shapes every selector the binary builds.
type SelectorConfig struct {
	// MaxVisibleItems caps the visible list. 0 means the default of 5,
	// negative means no cap.
	MaxVisibleItems int               `yaml:"max_visible_items"`
	Placeholder     string            `yaml:"placeholder"`
	CustomValue     CustomValueConfig `yaml:"custom_value"`
	Browse          BrowseConfig      `yaml:"browse"`
	// Predicate names a preset filter replacing fuzzy ranking.
	Predicate string `yaml:"predicate"`
}

// CustomValueConfig controls the "use typed text" entry.
type CustomValueConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Validator string `yaml:"validator"`
	// Label is a template; {value} is replaced by the typed text.
	Label string `yaml:"label"`
}

// BrowseConfig controls the injected browse entry.
type BrowseConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DirectoryConfig configures the directory picker.
type DirectoryConfig struct {
	Root       string   `yaml:"root"`
	ShowHidden bool     `yaml:"show_hidden"`
	Recent     []string `yaml:"recent"`
}

// LoggingConfig configures the session event log.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// ServerConfig configures `chooser serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// TelemetryConfig configures tracing and the metrics snapshot that
// pick and rank write on exit.
type TelemetryConfig struct {
	Tracing     bool   `yaml:"tracing"`
	MetricsFile string `yaml:"metrics_file"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Selector: SelectorConfig{
			MaxVisibleItems: 5,
			Placeholder:     "Select...",
		},
		Logging: LoggingConfig{
			Level: string(logging.LevelInfo),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:7433",
		},
	}
}

// Load reads defaults, then ~/.chooser/config.yaml, then
// ./.chooser/config.yaml, then the environment, and validates the result.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userConfigPath := filepath.Join(home, ".chooser", "config.yaml")
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "loading user config").
				WithContext("path", userConfigPath)
		}
	}

	projectConfigPath := filepath.Join(".", ".chooser", "config.yaml")
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "loading project config").
			WithContext("path", projectConfigPath)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads defaults, then path, then the environment.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadAndMerge(cfg, path); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "loading config").
			WithContext("path", path)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := envInt("CHOOSER_MAX_VISIBLE_ITEMS"); ok {
		cfg.Selector.MaxVisibleItems = v
	}
	if v := os.Getenv("CHOOSER_PLACEHOLDER"); v != "" {
		cfg.Selector.Placeholder = v
	}
	if v, ok := envBool("CHOOSER_CUSTOM_VALUE"); ok {
		cfg.Selector.CustomValue.Enabled = v
	}
	if v := os.Getenv("CHOOSER_CUSTOM_VALIDATOR"); v != "" {
		cfg.Selector.CustomValue.Validator = v
	}
	if v := os.Getenv("CHOOSER_CUSTOM_LABEL"); v != "" {
		cfg.Selector.CustomValue.Label = v
	}
	if v, ok := envBool("CHOOSER_BROWSE"); ok {
		cfg.Selector.Browse.Enabled = v
	}
	if v := os.Getenv("CHOOSER_PREDICATE"); v != "" {
		cfg.Selector.Predicate = v
	}
	if v := os.Getenv("CHOOSER_DIRECTORY_ROOT"); v != "" {
		cfg.Directory.Root = v
	}
	if v, ok := envBool("CHOOSER_SHOW_HIDDEN"); ok {
		cfg.Directory.ShowHidden = v
	}
	if v := os.Getenv("CHOOSER_RECENT"); v != "" {
		cfg.Directory.Recent = splitList(v)
	}
	if v := os.Getenv("CHOOSER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CHOOSER_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := os.Getenv("CHOOSER_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := envBool("CHOOSER_TRACING"); ok {
		cfg.Telemetry.Tracing = v
	}
	if v := os.Getenv("CHOOSER_METRICS_FILE"); v != "" {
		cfg.Telemetry.MetricsFile = v
	}
}

// splitList splits on commas or the OS path list separator.
func splitList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == filepath.ListSeparator
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func envInt(key string) (int, bool) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate rejects settings that cannot work. Unknown validator and
// predicate names are not errors; see ValidationWarnings.
func (c *Config) Validate() error {
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level != "" && !validLevels[level] {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("invalid logging level: %s (valid: debug, info, warn, error)", c.Logging.Level))
	}
	if label := c.Selector.CustomValue.Label; label != "" && !strings.Contains(label, "{value}") {
		return errors.New(errors.ErrCodeConfigInvalid, "selector.custom_value.label must contain {value}").
			WithContext("label", label)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "server.addr must not be empty")
	}
	return nil
}

// ValidationWarnings lists settings that were accepted but will be
// ignored. known reports whether a preset name exists.
func (c *Config) ValidationWarnings(knownValidator, knownPredicate func(string) bool) []string {
	var warnings []string
	if name := c.Selector.CustomValue.Validator; name != "" && knownValidator != nil && !knownValidator(name) {
		warnings = append(warnings, fmt.Sprintf("unknown custom value validator %q; accepting any value", name))
	}
	if name := c.Selector.Predicate; name != "" && knownPredicate != nil && !knownPredicate(name) {
		warnings = append(warnings, fmt.Sprintf("unknown predicate %q; using fuzzy ranking", name))
	}
	return warnings
}

// CustomValueLabel renders the label template for v. An empty template
// yields nil so callers fall back to the selector default.
func (c SelectorConfig) CustomValueLabel() func(string) string {
	tmpl := c.CustomValue.Label
	if tmpl == "" {
		return nil
	}
	return func(v string) string {
		return strings.ReplaceAll(tmpl, "{value}", v)
	}
}

// ResolveRoot returns the absolute directory the picker starts in:
// directory.root when set, otherwise the working directory.
func ResolveRoot(cfg *Config) string {
	if cfg != nil {
		if root := expandHomeDir(cfg.Directory.Root); root != "" {
			if abs, err := filepath.Abs(root); err == nil {
				return abs
			}
			return root
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

func expandHomeDir(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
