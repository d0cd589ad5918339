package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/chooser/pkg/errors"
)

// loadAndMerge loads a YAML file and merges it into cfg. Missing files
// surface as os.IsNotExist errors for the caller to skip.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigParse, fmt.Sprintf("parsing YAML in %s", path))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigParse, fmt.Sprintf("parsing YAML in %s", path))
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs copies the fields the file actually set. Strings merge
// when non-empty; bools, ints and lists merge when their key is present,
// so a file can turn a flag off or set a zero.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if fieldSet(raw, "selector", "max_visible_items") {
		base.Selector.MaxVisibleItems = override.Selector.MaxVisibleItems
	}
	if override.Selector.Placeholder != "" {
		base.Selector.Placeholder = override.Selector.Placeholder
	}
	if fieldSet(raw, "selector", "custom_value", "enabled") {
		base.Selector.CustomValue.Enabled = override.Selector.CustomValue.Enabled
	}
	if override.Selector.CustomValue.Validator != "" {
		base.Selector.CustomValue.Validator = override.Selector.CustomValue.Validator
	}
	if override.Selector.CustomValue.Label != "" {
		base.Selector.CustomValue.Label = override.Selector.CustomValue.Label
	}
	if fieldSet(raw, "selector", "browse", "enabled") {
		base.Selector.Browse.Enabled = override.Selector.Browse.Enabled
	}
	if override.Selector.Predicate != "" {
		base.Selector.Predicate = override.Selector.Predicate
	}

	if override.Directory.Root != "" {
		base.Directory.Root = override.Directory.Root
	}
	if fieldSet(raw, "directory", "show_hidden") {
		base.Directory.ShowHidden = override.Directory.ShowHidden
	}
	if fieldSet(raw, "directory", "recent") {
		base.Directory.Recent = append([]string{}, override.Directory.Recent...)
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Dir != "" {
		base.Logging.Dir = override.Logging.Dir
	}
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if fieldSet(raw, "telemetry", "tracing") {
		base.Telemetry.Tracing = override.Telemetry.Tracing
	}
	if override.Telemetry.MetricsFile != "" {
		base.Telemetry.MetricsFile = override.Telemetry.MetricsFile
	}
}

func fieldSet(raw map[string]any, path ...string) bool {
	if len(path) == 0 || raw == nil {
		return false
	}
	current := any(raw)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return false
		}
		val, ok := m[key]
		if !ok {
			return false
		}
		current = val
	}
	return true
}
