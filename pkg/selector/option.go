// Package selector implements a filterable selection engine: a list of
// options narrowed by a typed query, ranked by match quality, navigated by
// keyboard, and committed back to a host through callbacks.
//
// The package draws nothing. Hosts (see pkg/ui/widgets) render the state
// exposed by Controller and feed it keys, clicks and pointer presses.
package selector

import "fmt"

// Option is one selectable candidate supplied by the host.
type Option[V comparable] struct {
	Value       V
	Label       string
	Disabled    bool
	Description string
}

// EntryKind distinguishes host options from injected action entries.
type EntryKind int

const (
	// EntryOption is an option taken from the host's option list.
	EntryOption EntryKind = iota
	// EntryCustom offers the typed query as a free-form value.
	EntryCustom
	// EntryBrowse asks the host to open its folder browser.
	EntryBrowse
)

// String returns the entry kind name.
func (k EntryKind) String() string {
	switch k {
	case EntryOption:
		return "option"
	case EntryCustom:
		return "custom"
	case EntryBrowse:
		return "browse"
	default:
		return "unknown"
	}
}

// Entry is a ranked option as offered to navigation.
type Entry[V comparable] struct {
	Option[V]
	Score float64 // lower is better
	Kind  EntryKind
}

// Synthetic reports whether the entry was injected rather than sourced
// from the host's options.
func (e Entry[V]) Synthetic() bool {
	return e.Kind != EntryOption
}

// ChoiceKind tags what a commit produced.
type ChoiceKind int

const (
	// ChoiceValue carries a value for the host's change callback.
	ChoiceValue ChoiceKind = iota
	// ChoiceBrowse requests the host's browse flow; it carries no value.
	ChoiceBrowse
)

// Choice is the result of a commit: either a real value or a browse
// request. Browse never rides the value channel.
type Choice[V comparable] struct {
	Kind  ChoiceKind
	Value V
}

// Codec converts option values to and from their text form.
//
// Format is used for the custom-value duplicate check; it defaults to
// fmt.Sprint. Parse turns typed text into a value; without it, custom
// values and raw-text commits are disabled.
type Codec[V comparable] struct {
	Format func(V) string
	Parse  func(string) (V, bool)
}

func (c Codec[V]) format(v V) string {
	if c.Format != nil {
		return c.Format(v)
	}
	return fmt.Sprint(v)
}

func (c Codec[V]) parse(s string) (V, bool) {
	if c.Parse == nil {
		var zero V
		return zero, false
	}
	return c.Parse(s)
}

// StringCodec is the identity codec for string-valued selectors.
func StringCodec() Codec[string] {
	return Codec[string]{
		Format: func(s string) string { return s },
		Parse:  func(s string) (string, bool) { return s, true },
	}
}

// Strings builds options whose value and label are the same string.
func Strings(values ...string) []Option[string] {
	out := make([]Option[string], len(values))
	for i, v := range values {
		out[i] = Option[string]{Value: v, Label: v}
	}
	return out
}
