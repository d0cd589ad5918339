// Package backend abstracts the terminal so the chooser can run against a
// real tty (tcell) or an in-memory screen (sim) in tests.
package backend

import "github.com/odvcencio/chooser/pkg/ui/terminal"

// Backend is the terminal abstraction layer.
type Backend interface {
	// Init enters raw mode and the alternate screen.
	Init() error

	// Fini restores the terminal. PollEvent returns nil afterwards.
	Fini()

	Size() (width, height int)

	SetContent(x, y int, mainc rune, comb []rune, style Style)

	// Show flushes pending cells to the terminal.
	Show()

	Clear()

	// PollEvent blocks until an event is available.
	// Returns nil once the backend is shutting down.
	PollEvent() terminal.Event

	// PostEvent injects an event into the event queue.
	PostEvent(ev terminal.Event) error
}

// RenderTarget is the drawing half of Backend. Widgets render to it.
type RenderTarget interface {
	Size() (width, height int)
	SetContent(x, y int, mainc rune, comb []rune, style Style)
}

// SubTarget is a clipped, offset view of a RenderTarget.
type SubTarget struct {
	parent  RenderTarget
	offsetX int
	offsetY int
	width   int
	height  int
}

// NewSubTarget creates a sub-region of parent.
func NewSubTarget(parent RenderTarget, x, y, w, h int) *SubTarget {
	return &SubTarget{parent: parent, offsetX: x, offsetY: y, width: w, height: h}
}

// Size returns the sub-target dimensions.
func (s *SubTarget) Size() (width, height int) {
	return s.width, s.height
}

// SetContent draws relative to the sub-target, clipping to its bounds.
func (s *SubTarget) SetContent(x, y int, mainc rune, comb []rune, style Style) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.parent.SetContent(s.offsetX+x, s.offsetY+y, mainc, comb, style)
}
