package dirpicker

import (
	"path/filepath"
	"strings"

	"github.com/odvcencio/chooser/pkg/presets"
	"github.com/odvcencio/chooser/pkg/selector"
)

// CustomLabel labels the typed-path entry of a directory selector.
func CustomLabel(v string) string {
	return "📁 Use directory: " + v
}

// Enhance turns a string selector config into a directory selector:
// typed paths become custom values, a browse entry calls onBrowse, and
// filtering matches either the full path or the short name.
func Enhance(cfg *selector.Config[string], onBrowse func()) {
	cfg.AllowCustomValue = true
	cfg.ShowBrowseOption = true
	cfg.OnBrowse = onBrowse
	cfg.CustomValueValidator = selector.LooksLikePath
	cfg.CustomValueLabel = CustomLabel
	cfg.Predicate = presets.ValueOrLabel
	if cfg.Codec.Parse == nil {
		cfg.Codec = selector.StringCodec()
	}
}

// RecentOptions builds options from recently used directories, newest
// first. The label is the folder name and the description the path with
// home shortened to ~.
func RecentOptions(paths []string, home string) []selector.Option[string] {
	seen := make(map[string]bool, len(paths))
	out := make([]selector.Option[string], 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, selector.Option[string]{
			Value:       p,
			Label:       shortName(p),
			Description: shortenHome(p, home),
		})
	}
	return out
}

func shortName(p string) string {
	name := filepath.Base(filepath.Clean(p))
	if name == "." || name == string(filepath.Separator) {
		return p
	}
	return name
}

func shortenHome(p, home string) string {
	if home == "" {
		return p
	}
	if p == home {
		return HomePath
	}
	if rest, ok := strings.CutPrefix(p, strings.TrimSuffix(home, "/")+"/"); ok {
		return HomePath + "/" + rest
	}
	return p
}
