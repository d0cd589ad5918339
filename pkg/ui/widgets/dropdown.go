package widgets

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/chooser/pkg/selector"
	"github.com/odvcencio/chooser/pkg/ui/backend"
	"github.com/odvcencio/chooser/pkg/ui/runtime"
	"github.com/odvcencio/chooser/pkg/ui/terminal"
)

const defaultDropdownWidth = 48

// DropdownConfig configures a Dropdown. Selector.Trigger and
// Selector.Surface are filled in by the widget.
type DropdownConfig[V comparable] struct {
	Selector    selector.Config[V]
	Placeholder string
	Width       int
}

// Dropdown draws a selector as a one-line trigger with a floating
// options surface beneath it.
type Dropdown[V comparable] struct {
	Base

	ctrl        *selector.Controller[V]
	cfg         DropdownConfig[V]
	ownsQuery   bool
	canTypeText bool

	trigger  runtime.Rect
	surface  runtime.Rect
	entryTop int
	typedRow int

	triggerStyle  backend.Style
	borderStyle   backend.Style
	queryStyle    backend.Style
	itemStyle     backend.Style
	focusedStyle  backend.Style
	disabledStyle backend.Style
	descStyle     backend.Style
	hintStyle     backend.Style
}

// NewDropdown creates the widget and its controller.
func NewDropdown[V comparable](cfg DropdownConfig[V]) *Dropdown[V] {
	if cfg.Width <= 0 {
		cfg.Width = defaultDropdownWidth
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = "Select..."
	}
	d := &Dropdown[V]{
		cfg:           cfg,
		ownsQuery:     cfg.Selector.QueryBuffer == nil && !cfg.Selector.HideQueryInput,
		canTypeText:   cfg.Selector.Codec.Parse != nil,
		typedRow:      -1,
		triggerStyle:  backend.DefaultStyle().Bold(true),
		borderStyle:   backend.DefaultStyle().Foreground(backend.ColorGray),
		queryStyle:    backend.DefaultStyle().Bold(true),
		itemStyle:     backend.DefaultStyle(),
		focusedStyle:  backend.DefaultStyle().Reverse(true),
		disabledStyle: backend.DefaultStyle().Dim(true),
		descStyle:     backend.DefaultStyle().Foreground(backend.ColorGray),
		hintStyle:     backend.DefaultStyle().Italic(true),
	}
	sc := cfg.Selector
	sc.Trigger = selector.RegionFunc(func(x, y int) bool { return d.trigger.Contains(x, y) })
	sc.Surface = selector.RegionFunc(func(x, y int) bool { return d.IsOpen() && d.surface.Contains(x, y) })
	d.ctrl = selector.New(sc)
	return d
}

// Controller exposes the underlying selector state.
func (d *Dropdown[V]) Controller() *selector.Controller[V] {
	return d.ctrl
}

// IsOpen reports whether the options surface is shown.
func (d *Dropdown[V]) IsOpen() bool {
	return d.ctrl.IsOpen()
}

// TriggerRect and SurfaceRect return the last laid out areas.
func (d *Dropdown[V]) TriggerRect() runtime.Rect { return d.trigger }
func (d *Dropdown[V]) SurfaceRect() runtime.Rect { return d.surface }

// EntryRow returns the screen row of visible entry i, or -1.
func (d *Dropdown[V]) EntryRow(i int) int {
	if !d.IsOpen() || i < 0 || i >= len(d.ctrl.Visible()) {
		return -1
	}
	if y := d.entryTop + i; y < d.innerBottom() {
		return y
	}
	return -1
}

// innerBottom is the row of the surface's bottom border; rows at or
// below it are never drawn.
func (d *Dropdown[V]) innerBottom() int {
	return d.surface.Y + d.surface.Height - 1
}

// TypedTextRow returns the row of the "use typed text" action, or -1.
func (d *Dropdown[V]) TypedTextRow() int {
	return d.typedRow
}

// Layout positions the trigger at the top-left of bounds and the surface
// directly beneath it.
func (d *Dropdown[V]) Layout(bounds runtime.Rect) {
	d.Base.Layout(bounds)
	width := min(d.cfg.Width, bounds.Width)
	d.trigger = runtime.Rect{X: bounds.X, Y: bounds.Y, Width: width, Height: 1}

	d.typedRow = -1
	if !d.IsOpen() {
		d.surface = runtime.Rect{}
		return
	}

	rows := 0
	top := bounds.Y + 2
	if d.ownsQuery {
		rows++
		top++
	}
	d.entryTop = top
	visible := len(d.ctrl.Visible())
	if visible == 0 {
		rows++
	} else {
		rows += visible
	}
	if d.showTypedRow() {
		d.typedRow = bounds.Y + 2 + rows
		rows++
	}

	height := rows + 2
	if maxHeight := bounds.Height - 1; height > maxHeight {
		height = max(maxHeight, 0)
	}
	d.surface = runtime.Rect{X: bounds.X, Y: bounds.Y + 1, Width: width, Height: height}
}

func (d *Dropdown[V]) showTypedRow() bool {
	return d.canTypeText && strings.TrimSpace(d.ctrl.Query()) != ""
}

// Render draws the trigger and, when open, the options surface.
func (d *Dropdown[V]) Render(t backend.RenderTarget) {
	if d.trigger.Empty() {
		return
	}
	d.renderTrigger(t)
	if !d.IsOpen() || d.surface.Height < 3 {
		return
	}

	s := d.surface
	fill(t, s, ' ', d.itemStyle)
	drawBorder(t, s, d.borderStyle)
	inner := s.Width - 4
	bottom := d.innerBottom()

	if d.ownsQuery {
		y := s.Y + 1
		used := drawString(t, s.X+2, y, "> ", inner, d.queryStyle)
		used += drawString(t, s.X+2+used, y, d.ctrl.Query(), inner-used, d.queryStyle)
		if d.ctrl.Cursor() == selector.QueryFocus && used < inner {
			t.SetContent(s.X+2+used, y, '█', nil, d.queryStyle)
		}
	}

	visible := d.ctrl.Visible()
	if len(visible) == 0 && d.entryTop < bottom {
		drawString(t, s.X+2, d.entryTop, selector.NoOptionsText, inner, d.disabledStyle)
	}
	cursor := d.ctrl.Cursor()
	for i, e := range visible {
		y := d.entryTop + i
		if y >= bottom {
			break
		}
		d.renderEntry(t, s.X+1, y, s.Width-2, e, i == cursor)
	}

	if d.typedRow >= 0 && d.typedRow < bottom {
		hint := "↵ Use typed text: " + strings.TrimSpace(d.ctrl.Query())
		drawString(t, s.X+2, d.typedRow, truncate(hint, inner), inner, d.hintStyle)
	}
}

func (d *Dropdown[V]) renderTrigger(t backend.RenderTarget) {
	tr := d.trigger
	style := d.triggerStyle
	if d.focused {
		style = style.Underline(true)
	}
	fill(t, tr, ' ', style)

	label := d.cfg.Placeholder
	if v, ok := d.ctrl.Value(); ok {
		label = d.valueLabel(v)
	}
	arrow := "▾"
	if d.IsOpen() {
		arrow = "▴"
	}
	room := tr.Width - runewidth.StringWidth(arrow) - 1
	drawString(t, tr.X, tr.Y, truncate(label, room), room, style)
	drawString(t, tr.X+tr.Width-runewidth.StringWidth(arrow), tr.Y, arrow, tr.Width, style)
}

func (d *Dropdown[V]) valueLabel(v V) string {
	for _, o := range d.ctrl.Options() {
		if o.Value == v {
			return o.Label
		}
	}
	if d.cfg.Selector.Codec.Format != nil {
		return d.cfg.Selector.Codec.Format(v)
	}
	return fmt.Sprint(v)
}

func (d *Dropdown[V]) renderEntry(t backend.RenderTarget, x, y, width int, e selector.Entry[V], focused bool) {
	style := d.itemStyle
	desc := d.descStyle
	switch {
	case focused:
		style, desc = d.focusedStyle, d.focusedStyle
		fill(t, runtime.Rect{X: x, Y: y, Width: width, Height: 1}, ' ', style)
	case e.Disabled:
		style, desc = d.disabledStyle, d.disabledStyle
	}

	mark := "  "
	if d.ctrl.IsSelected(e) {
		mark = "✓ "
	}
	used := drawString(t, x+1, y, mark, width-1, style)
	room := width - 1 - used
	label := truncate(e.Label, room)
	used += drawString(t, x+1+used, y, label, room, style)

	if e.Description != "" {
		room = width - 1 - used - 2
		if room > 3 {
			drawString(t, x+1+used+2, y, truncate(e.Description, room), room, desc)
		}
	}
}

// HandleMessage routes keys and pointer presses to the controller.
func (d *Dropdown[V]) HandleMessage(msg runtime.Message) runtime.HandleResult {
	switch m := msg.(type) {
	case runtime.KeyMsg:
		if d.handleKey(m) {
			d.Layout(d.bounds)
			return runtime.Handled()
		}
	case runtime.MouseMsg:
		if m.Pressed() && d.handlePress(m.X, m.Y) {
			d.Layout(d.bounds)
			return runtime.Handled()
		}
	}
	return runtime.Unhandled()
}

func (d *Dropdown[V]) handleKey(m runtime.KeyMsg) bool {
	if !d.IsOpen() {
		switch {
		case m.Key == terminal.KeyEnter, m.Key == terminal.KeyDown,
			m.Key == terminal.KeyRune && m.Rune == ' ':
			d.ctrl.Open()
			return true
		}
		return false
	}

	switch m.Key {
	case terminal.KeyDown:
		return d.ctrl.HandleKey(selector.KeyDown)
	case terminal.KeyUp:
		return d.ctrl.HandleKey(selector.KeyUp)
	case terminal.KeyCtrlN:
		return d.ctrl.HandleKey(selector.KeyCtrlN)
	case terminal.KeyCtrlP:
		return d.ctrl.HandleKey(selector.KeyCtrlP)
	case terminal.KeyEnter:
		return d.ctrl.HandleKey(selector.KeyEnter)
	case terminal.KeyEscape:
		return d.ctrl.HandleKey(selector.KeyEscape)
	}

	if !d.ownsQuery {
		return false
	}
	switch m.Key {
	case terminal.KeyRune:
		d.ctrl.TypeRune(m.Rune)
		return true
	case terminal.KeyBackspace:
		d.ctrl.Backspace()
		return true
	case terminal.KeyCtrlU:
		d.ctrl.SetQuery("")
		return true
	}
	return false
}

func (d *Dropdown[V]) handlePress(x, y int) bool {
	if d.trigger.Contains(x, y) {
		d.ctrl.Toggle()
		return true
	}
	if !d.IsOpen() || !d.surface.Contains(x, y) {
		return false
	}
	if y >= d.innerBottom() {
		return true
	}
	if y == d.typedRow {
		d.ctrl.CommitQuery()
		return true
	}
	if i := y - d.entryTop; i >= 0 && i < len(d.ctrl.Visible()) {
		d.ctrl.Click(i)
	}
	// Presses anywhere on the surface are consumed.
	return true
}

var _ runtime.Widget = (*Dropdown[string])(nil)
