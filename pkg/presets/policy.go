package presets

import (
	"sort"
	"strings"

	"github.com/odvcencio/chooser/pkg/selector"
)

var validators = map[string]func(string) bool{
	"path": selector.LooksLikePath,
	"nonempty": func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
}

var predicates = map[string]func(selector.Option[string], string) bool{
	"path-or-label": ValueOrLabel,
	"prefix": func(o selector.Option[string], q string) bool {
		return strings.HasPrefix(strings.ToLower(o.Label), strings.ToLower(q))
	},
}

// Validator returns the named custom-value validator, or nil (accept
// everything) for an empty or unknown name.
func Validator(name string) func(string) bool {
	return validators[strings.TrimSpace(name)]
}

// Predicate returns the named filter predicate, or nil (fuzzy ranking)
// for an empty or unknown name.
func Predicate(name string) func(selector.Option[string], string) bool {
	return predicates[strings.TrimSpace(name)]
}

// KnownValidator reports whether name is a registered validator.
func KnownValidator(name string) bool {
	_, ok := validators[strings.TrimSpace(name)]
	return ok
}

// KnownPredicate reports whether name is a registered predicate.
func KnownPredicate(name string) bool {
	_, ok := predicates[strings.TrimSpace(name)]
	return ok
}

// ValidatorNames lists registered validators, sorted.
func ValidatorNames() []string {
	return sortedKeys(validators)
}

// PredicateNames lists registered predicates, sorted.
func PredicateNames() []string {
	return sortedKeys(predicates)
}

// ValueOrLabel matches when the query is a case-insensitive substring of
// the option's value or label.
func ValueOrLabel(o selector.Option[string], q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(o.Value), q) ||
		strings.Contains(strings.ToLower(o.Label), q)
}

func sortedKeys[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
