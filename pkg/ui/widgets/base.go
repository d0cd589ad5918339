// Package widgets provides the terminal widgets that host a selector.
package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/chooser/pkg/ui/backend"
	"github.com/odvcencio/chooser/pkg/ui/runtime"
)

// Base provides bounds and focus bookkeeping. Embed it in widgets.
type Base struct {
	bounds  runtime.Rect
	focused bool
}

// Layout stores the assigned bounds.
func (b *Base) Layout(bounds runtime.Rect) {
	b.bounds = bounds
}

// Bounds returns the widget's assigned bounds.
func (b *Base) Bounds() runtime.Rect {
	return b.bounds
}

// Focus marks the widget as focused.
func (b *Base) Focus() {
	b.focused = true
}

// Blur marks the widget as unfocused.
func (b *Base) Blur() {
	b.focused = false
}

// IsFocused returns whether the widget is focused.
func (b *Base) IsFocused() bool {
	return b.focused
}

// drawString draws s at (x, y), clipped to maxWidth cells. It returns the
// number of cells used. Wide runes occupy two cells.
func drawString(t backend.RenderTarget, x, y int, s string, maxWidth int, style backend.Style) int {
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > maxWidth {
			break
		}
		t.SetContent(x+used, y, r, nil, style)
		if w == 2 {
			t.SetContent(x+used+1, y, ' ', nil, style)
		}
		used += w
	}
	return used
}

// truncate shortens s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func fill(t backend.RenderTarget, r runtime.Rect, ch rune, style backend.Style) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			t.SetContent(x, y, ch, nil, style)
		}
	}
}

func drawBorder(t backend.RenderTarget, b runtime.Rect, style backend.Style) {
	if b.Width < 2 || b.Height < 2 {
		return
	}
	right, bottom := b.X+b.Width-1, b.Y+b.Height-1
	t.SetContent(b.X, b.Y, '╭', nil, style)
	t.SetContent(right, b.Y, '╮', nil, style)
	t.SetContent(b.X, bottom, '╰', nil, style)
	t.SetContent(right, bottom, '╯', nil, style)
	for x := b.X + 1; x < right; x++ {
		t.SetContent(x, b.Y, '─', nil, style)
		t.SetContent(x, bottom, '─', nil, style)
	}
	for y := b.Y + 1; y < bottom; y++ {
		t.SetContent(b.X, y, '│', nil, style)
		t.SetContent(right, y, '│', nil, style)
	}
}
