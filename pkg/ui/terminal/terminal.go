// Package terminal defines the input events the chooser UI consumes,
// independent of the terminal library that produced them.
package terminal

// Event is a terminal input event.
type Event interface {
	eventMarker()
}

// KeyEvent is a key press.
type KeyEvent struct {
	Key  Key
	Rune rune
	Alt  bool
	Ctrl bool
}

func (KeyEvent) eventMarker() {}

// ResizeEvent reports a new terminal size.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) eventMarker() {}

// MouseEvent is a mouse press, release or wheel step.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
}

func (MouseEvent) eventMarker() {}

// Pressed reports whether the event is a button press (wheel excluded).
func (e MouseEvent) Pressed() bool {
	if e.Action != MousePress {
		return false
	}
	switch e.Button {
	case MouseLeft, MouseMiddle, MouseRight:
		return true
	}
	return false
}

// PasteEvent carries bracketed paste content.
type PasteEvent struct {
	Text string
}

func (PasteEvent) eventMarker() {}

// MouseButton identifies the button involved in a MouseEvent.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseAction identifies what the mouse did.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
)

// Key identifies special keys. Printable input arrives as KeyRune.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyCtrlC
	KeyCtrlN
	KeyCtrlP
	KeyCtrlU
)
