// Package presets holds the ready-made option sets and named policies the
// chooser binary exposes: tool collapse modes, tool display presets, and
// the validators and predicates selectable from configuration.
package presets

import "github.com/odvcencio/chooser/pkg/selector"

// CollapseMode controls which tool outputs start collapsed.
type CollapseMode string

const (
	CollapseExpanded  CollapseMode = "expanded"
	CollapseSmart     CollapseMode = "smart"
	CollapseCollapsed CollapseMode = "collapsed"
)

// CollapseModes lists every mode in display order.
var CollapseModes = []CollapseMode{CollapseExpanded, CollapseSmart, CollapseCollapsed}

type modeUI struct {
	label       string
	description string
}

var collapseUI = map[CollapseMode]modeUI{
	CollapseExpanded:  {"Expand All", "All tools expanded by default"},
	CollapseSmart:     {"Smart Collapse", "Code tools collapsed, others expanded"},
	CollapseCollapsed: {"Collapse All", "All tools collapsed by default"},
}

// Label returns the display label of m, or m itself when unknown.
func (m CollapseMode) Label() string {
	if ui, ok := collapseUI[m]; ok {
		return ui.label
	}
	return string(m)
}

// Valid reports whether m is a known mode.
func (m CollapseMode) Valid() bool {
	_, ok := collapseUI[m]
	return ok
}

// CollapseOptions returns the modes as selector options.
func CollapseOptions() []selector.Option[CollapseMode] {
	out := make([]selector.Option[CollapseMode], 0, len(CollapseModes))
	for _, m := range CollapseModes {
		ui := collapseUI[m]
		out = append(out, selector.Option[CollapseMode]{Value: m, Label: ui.label, Description: ui.description})
	}
	return out
}

// CollapseCodec parses mode names, so typed text can select a mode.
func CollapseCodec() selector.Codec[CollapseMode] {
	return selector.Codec[CollapseMode]{
		Format: func(m CollapseMode) string { return string(m) },
		Parse: func(s string) (CollapseMode, bool) {
			m := CollapseMode(s)
			return m, m.Valid()
		},
	}
}

// codeOutputTools produce code or command output.
var codeOutputTools = map[string]bool{
	"Edit":      true,
	"MultiEdit": true,
	"Write":     true,
	"Bash":      true,
	"Glob":      true,
	"LS":        true,
}

// ToolDefaultCollapsed reports whether a tool's output starts collapsed
// under mode. Unknown modes expand everything.
func ToolDefaultCollapsed(mode CollapseMode, tool string) bool {
	switch mode {
	case CollapseExpanded:
		return false
	case CollapseSmart:
		return codeOutputTools[tool]
	case CollapseCollapsed:
		return true
	default:
		return false
	}
}
