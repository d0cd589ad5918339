package presets

import "github.com/odvcencio/chooser/pkg/selector"

// DisplayPreset is a tool display preset.
type DisplayPreset string

const (
	DisplayDefault DisplayPreset = "default"
	DisplayMinimal DisplayPreset = "minimal"
	DisplayCustom  DisplayPreset = "custom"
)

// DisplayLabel returns the label shown on the trigger. Unknown presets
// show as Default.
func DisplayLabel(p DisplayPreset) string {
	switch p {
	case DisplayMinimal:
		return "Minimal"
	case DisplayCustom:
		return "Custom"
	default:
		return "Default"
	}
}

// DisplayOptions returns the presets as selector options.
func DisplayOptions() []selector.Option[DisplayPreset] {
	return []selector.Option[DisplayPreset]{
		{Value: DisplayDefault, Label: DisplayLabel(DisplayDefault), Description: "Standard view"},
		{Value: DisplayMinimal, Label: DisplayLabel(DisplayMinimal), Description: "Clean interface"},
		{Value: DisplayCustom, Label: DisplayLabel(DisplayCustom), Description: "Your preferences"},
	}
}

// DisplaySettings is a stored display preference. Custom collapse choices
// survive only while the preset is custom.
type DisplaySettings struct {
	Preset          DisplayPreset   `json:"preset" yaml:"preset"`
	CustomCollapsed map[string]bool `json:"customCollapsed,omitempty" yaml:"custom_collapsed,omitempty"`
}

// WithPreset switches to p, carrying custom choices over only when
// switching to custom.
func (s DisplaySettings) WithPreset(p DisplayPreset) DisplaySettings {
	next := DisplaySettings{Preset: p}
	if p == DisplayCustom && s.CustomCollapsed != nil {
		next.CustomCollapsed = s.CustomCollapsed
	}
	return next
}
