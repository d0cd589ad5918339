package selector

import (
	"sort"
	"strings"

	"github.com/odvcencio/chooser/pkg/fuzzy"
)

const (
	// ShowAll disables the visible-items cap.
	ShowAll = -1

	// DefaultMaxVisibleItems applies when the host leaves the cap at zero.
	DefaultMaxVisibleItems = 5

	// BrowseLabel is the label of the injected browse entry.
	BrowseLabel = "📂 Browse for folder..."

	browseDescription = "Open native folder selector"
	customDescription = "Custom directory path"
)

// DefaultCustomValueLabel renders the label of the injected custom entry.
func DefaultCustomValueLabel(query string) string {
	return "Use custom: " + query
}

// RankPolicy carries everything Rank needs besides options and query.
type RankPolicy[V comparable] struct {
	// Predicate replaces fuzzy matching and disables score sorting.
	Predicate func(opt Option[V], query string) bool

	Codec Codec[V]

	AllowCustomValue     bool
	CustomValueValidator func(string) bool
	CustomValueLabel     func(string) string

	// ShowBrowseOption injects the browse entry when BrowseAvailable is
	// also set (a browse callback exists).
	ShowBrowseOption bool
	BrowseAvailable  bool

	// MaxVisibleItems caps the result. Zero means DefaultMaxVisibleItems,
	// any negative value means no cap.
	MaxVisibleItems int
}

// LooksLikePath reports whether text reads as a filesystem path rather
// than a filter term.
func LooksLikePath(text string) bool {
	return strings.Contains(text, "/") ||
		strings.Contains(text, `\`) ||
		strings.HasPrefix(text, "~") ||
		strings.HasPrefix(text, ".")
}

// Rank filters, orders, augments and bounds options for query.
//
// Injected entries always precede matches and the cap is applied last, so
// action entries are never pushed out by low-ranked matches.
func Rank[V comparable](options []Option[V], query string, p RankPolicy[V]) []Entry[V] {
	blank := fuzzy.IsBlank(query)

	filtered := make([]Entry[V], 0, len(options))
	for _, opt := range options {
		switch {
		case blank:
			filtered = append(filtered, Entry[V]{Option: opt})
		case p.Predicate != nil:
			if p.Predicate(opt, query) {
				filtered = append(filtered, Entry[V]{Option: opt})
			}
		default:
			if score, ok := fuzzy.Score(opt.Label, query); ok {
				filtered = append(filtered, Entry[V]{Option: opt, Score: score})
			}
		}
	}

	if !blank && p.Predicate == nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Score < filtered[j].Score
		})
	}

	var actions []Entry[V]
	if custom, ok := customEntry(options, query, p); ok {
		actions = append(actions, custom)
	}
	if p.ShowBrowseOption && p.BrowseAvailable && !hasBrowseLabel(filtered) {
		actions = append(actions, Entry[V]{
			Option: Option[V]{Label: BrowseLabel, Description: browseDescription},
			Kind:   EntryBrowse,
		})
	}

	out := filtered
	if len(actions) > 0 {
		out = append(actions, filtered...)
	}
	return bound(out, p.MaxVisibleItems)
}

func customEntry[V comparable](options []Option[V], query string, p RankPolicy[V]) (Entry[V], bool) {
	if !p.AllowCustomValue || fuzzy.IsBlank(query) {
		return Entry[V]{}, false
	}
	for _, opt := range options {
		if fuzzy.Equal(p.Codec.format(opt.Value), query) {
			return Entry[V]{}, false
		}
	}
	admitted := LooksLikePath(query) ||
		p.CustomValueValidator == nil ||
		p.CustomValueValidator(query)
	if !admitted {
		return Entry[V]{}, false
	}
	value, ok := p.Codec.parse(query)
	if !ok {
		return Entry[V]{}, false
	}
	label := DefaultCustomValueLabel
	if p.CustomValueLabel != nil {
		label = p.CustomValueLabel
	}
	return Entry[V]{
		Option: Option[V]{Value: value, Label: label(query), Description: customDescription},
		Kind:   EntryCustom,
	}, true
}

func hasBrowseLabel[V comparable](entries []Entry[V]) bool {
	for _, e := range entries {
		if strings.Contains(e.Label, "Browse") {
			return true
		}
	}
	return false
}

func bound[V comparable](entries []Entry[V], limit int) []Entry[V] {
	if limit == 0 {
		limit = DefaultMaxVisibleItems
	}
	if limit < 0 || len(entries) <= limit {
		return entries
	}
	return entries[:limit]
}
