// Package runtime runs a widget tree against a terminal backend: it turns
// backend events into messages, routes them to the root widget, and
// redraws after every handled message.
package runtime

import "github.com/odvcencio/chooser/pkg/ui/backend"

// Rect is a positioned rectangle in cells.
type Rect struct {
	X, Y, Width, Height int
}

// Contains reports whether the point is inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Widget is the interface the App drives.
type Widget interface {
	// Layout assigns the widget its bounds before rendering.
	Layout(bounds Rect)

	// Render draws the widget in absolute coordinates.
	Render(target backend.RenderTarget)

	// HandleMessage processes an input and reports what happened.
	HandleMessage(msg Message) HandleResult
}

// HandleResult is returned from HandleMessage.
type HandleResult struct {
	Handled  bool
	Commands []Command
}

// Handled returns a result indicating the message was consumed.
func Handled() HandleResult {
	return HandleResult{Handled: true}
}

// Unhandled returns a result indicating the message was not consumed.
func Unhandled() HandleResult {
	return HandleResult{}
}

// WithCommand returns a handled result carrying cmd.
func WithCommand(cmd Command) HandleResult {
	return HandleResult{Handled: true, Commands: []Command{cmd}}
}
