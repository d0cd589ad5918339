package widgets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/chooser/pkg/selector"
	"github.com/odvcencio/chooser/pkg/ui/backend"
	"github.com/odvcencio/chooser/pkg/ui/backend/sim"
	"github.com/odvcencio/chooser/pkg/ui/pointer"
	"github.com/odvcencio/chooser/pkg/ui/runtime"
	"github.com/odvcencio/chooser/pkg/ui/terminal"
)

func newScreen(t *testing.T, w, h int) *sim.Backend {
	t.Helper()
	s := sim.New(w, h)
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	return s
}

func draw(s *sim.Backend, w runtime.Widget) {
	width, height := s.Size()
	s.Clear()
	w.Layout(runtime.Rect{Width: width, Height: height})
	w.Render(s)
	s.Show()
}

func key(k terminal.Key) runtime.KeyMsg {
	return runtime.KeyMsg{Key: k}
}

func typeText(d runtime.Widget, text string) {
	for _, r := range text {
		d.HandleMessage(runtime.KeyMsg{Key: terminal.KeyRune, Rune: r})
	}
}

func press(x, y int) runtime.MouseMsg {
	return runtime.MouseMsg{X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MousePress}
}

func TestDropdown_ClosedShowsPlaceholder(t *testing.T) {
	s := newScreen(t, 40, 10)
	d := NewDropdown(DropdownConfig[string]{
		Selector:    selector.Config[string]{Options: selector.Strings("apple", "banana")},
		Placeholder: "Pick fruit",
		Width:       30,
	})
	draw(s, d)

	assert.True(t, strings.HasPrefix(s.Row(0), "Pick fruit"))
	assert.Contains(t, s.Row(0), "▾")
	assert.False(t, s.ContainsText("apple"))
}

func TestDropdown_OpenFilterAndSelect(t *testing.T) {
	s := newScreen(t, 40, 12)
	var got string
	d := NewDropdown(DropdownConfig[string]{
		Selector: selector.Config[string]{
			Options:  selector.Strings("apple", "banana", "grape"),
			OnChange: func(v string) { got = v },
		},
	})

	d.HandleMessage(key(terminal.KeyEnter))
	require.True(t, d.IsOpen())
	typeText(d, "ap")
	draw(s, d)

	assert.True(t, s.ContainsText("> ap"))
	ax, ay := s.FindText("apple")
	gx, gy := s.FindText("grape")
	require.True(t, ax >= 0 && gx >= 0)
	assert.Less(t, ay, gy, "substring match ranks above subsequence")
	assert.False(t, s.ContainsText("banana"))

	d.HandleMessage(key(terminal.KeyDown))
	d.HandleMessage(key(terminal.KeyDown))
	draw(s, d)
	_, attrs := s.CellAttrs(gx, gy)
	assert.NotZero(t, attrs&backend.AttrReverse, "focused entry is highlighted")

	d.HandleMessage(key(terminal.KeyEnter))
	assert.Equal(t, "grape", got)
	assert.False(t, d.IsOpen())
}

func TestDropdown_NoOptions(t *testing.T) {
	s := newScreen(t, 40, 10)
	d := NewDropdown(DropdownConfig[string]{
		Selector: selector.Config[string]{Options: selector.Strings("apple"), Open: true},
	})
	typeText(d, "xyz")
	draw(s, d)
	assert.True(t, s.ContainsText(selector.NoOptionsText))
}

func TestDropdown_SelectedMarkAndDisabled(t *testing.T) {
	s := newScreen(t, 40, 10)
	opts := []selector.Option[string]{
		{Value: "a", Label: "alpha"},
		{Value: "b", Label: "beta", Disabled: true},
	}
	d := NewDropdown(DropdownConfig[string]{
		Selector: selector.Config[string]{Options: opts, Value: "a", HasValue: true, Open: true},
	})
	draw(s, d)

	assert.True(t, strings.HasPrefix(s.Row(0), "alpha"), "trigger shows selected label")
	assert.True(t, s.ContainsText("✓ alpha"))
	x, y := s.FindText("beta")
	_, attrs := s.CellAttrs(x, y)
	assert.NotZero(t, attrs&backend.AttrDim)
}

func TestDropdown_ClickEntry(t *testing.T) {
	s := newScreen(t, 40, 10)
	var got string
	d := NewDropdown(DropdownConfig[string]{
		Selector: selector.Config[string]{
			Options:  selector.Strings("apple", "banana", "grape"),
			OnChange: func(v string) { got = v },
		},
	})
	draw(s, d)

	d.HandleMessage(press(1, 0))
	require.True(t, d.IsOpen())
	draw(s, d)

	row := d.EntryRow(1)
	require.GreaterOrEqual(t, row, 0)
	assert.True(t, d.HandleMessage(press(5, row)).Handled)
	assert.Equal(t, "banana", got)
	assert.False(t, d.IsOpen())
}

func TestDropdown_TypedTextRow(t *testing.T) {
	s := newScreen(t, 40, 10)
	var got string
	d := NewDropdown(DropdownConfig[string]{
		Selector: selector.Config[string]{
			Options:  selector.Strings("alpha"),
			Codec:    selector.StringCodec(),
			Open:     true,
			OnChange: func(v string) { got = v },
		},
	})
	assert.Equal(t, -1, d.TypedTextRow())

	typeText(d, "zeta")
	draw(s, d)
	row := d.TypedTextRow()
	require.GreaterOrEqual(t, row, 0)
	assert.True(t, s.ContainsText("Use typed text: zeta"))

	d.HandleMessage(press(4, row))
	assert.Equal(t, "zeta", got)
}

func TestDropdown_OutsidePressThroughHub(t *testing.T) {
	s := newScreen(t, 40, 10)
	hub := pointer.NewHub()
	d := NewDropdown(DropdownConfig[string]{
		Selector: selector.Config[string]{Options: selector.Strings("a", "b"), Pointer: hub},
		Width:    20,
	})
	draw(s, d)

	d.HandleMessage(key(terminal.KeyEnter))
	draw(s, d)
	require.Equal(t, 1, hub.Len())

	sr := d.SurfaceRect()
	hub.Publish(sr.X+1, sr.Y+1)
	assert.True(t, d.IsOpen(), "press inside the surface keeps it open")

	hub.Publish(35, 9)
	assert.False(t, d.IsOpen())
	assert.Equal(t, 0, hub.Len())
}

func TestDropdown_TriggerPressToggles(t *testing.T) {
	s := newScreen(t, 40, 10)
	hub := pointer.NewHub()
	d := NewDropdown(DropdownConfig[string]{
		Selector: selector.Config[string]{Options: selector.Strings("a"), Pointer: hub},
	})
	draw(s, d)

	// The app publishes before dispatching; mirror that order.
	hub.Publish(0, 0)
	d.HandleMessage(press(0, 0))
	require.True(t, d.IsOpen())

	hub.Publish(0, 0)
	d.HandleMessage(press(0, 0))
	assert.False(t, d.IsOpen())
	assert.Equal(t, 0, hub.Len())
}

func TestDropdown_EscapeAndCtrlKeys(t *testing.T) {
	d := NewDropdown(DropdownConfig[string]{
		Selector: selector.Config[string]{Options: selector.Strings("a", "b", "c"), Open: true},
	})
	d.HandleMessage(key(terminal.KeyCtrlN))
	d.HandleMessage(key(terminal.KeyCtrlN))
	assert.Equal(t, 1, d.Controller().Cursor())
	d.HandleMessage(key(terminal.KeyCtrlP))
	d.HandleMessage(key(terminal.KeyCtrlP))
	assert.Equal(t, selector.QueryFocus, d.Controller().Cursor())

	typeText(d, "b")
	d.HandleMessage(key(terminal.KeyCtrlU))
	assert.Equal(t, "", d.Controller().Query())

	assert.True(t, d.HandleMessage(key(terminal.KeyEscape)).Handled)
	assert.False(t, d.IsOpen())
	assert.False(t, d.HandleMessage(key(terminal.KeyEscape)).Handled)
}

func TestDropdown_ClippedSurfaceBorderIgnoresPress(t *testing.T) {
	s := newScreen(t, 40, 6)
	var got string
	d := NewDropdown(DropdownConfig[string]{
		Selector: selector.Config[string]{
			Options:  selector.Strings("a1", "a2", "a3", "a4", "a5"),
			Open:     true,
			OnChange: func(v string) { got = v },
		},
	})
	draw(s, d)

	sr := d.SurfaceRect()
	require.Equal(t, 5, sr.Height, "surface is clipped to the screen")
	border := sr.Y + sr.Height - 1
	assert.Equal(t, -1, d.EntryRow(2), "entry behind the border is not drawn")
	assert.False(t, s.ContainsText("a3"))

	assert.True(t, d.HandleMessage(press(5, border)).Handled)
	assert.Empty(t, got)
	assert.True(t, d.IsOpen())

	assert.True(t, d.HandleMessage(press(5, d.EntryRow(1))).Handled)
	assert.Equal(t, "a2", got)
}
