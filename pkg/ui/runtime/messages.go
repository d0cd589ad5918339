package runtime

import "github.com/odvcencio/chooser/pkg/ui/terminal"

// Message is an event flowing into the UI loop.
type Message interface {
	isMessage()
}

// KeyMsg is a keyboard input.
type KeyMsg struct {
	Key  terminal.Key
	Rune rune
	Alt  bool
	Ctrl bool
}

func (KeyMsg) isMessage() {}

// ResizeMsg reports a new terminal size.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// MouseMsg is a mouse input.
type MouseMsg struct {
	X, Y   int
	Button terminal.MouseButton
	Action terminal.MouseAction
}

func (MouseMsg) isMessage() {}

// Pressed reports whether the message is a button press.
func (m MouseMsg) Pressed() bool {
	return terminal.MouseEvent{X: m.X, Y: m.Y, Button: m.Button, Action: m.Action}.Pressed()
}

// PasteMsg carries pasted text.
type PasteMsg struct {
	Text string
}

func (PasteMsg) isMessage() {}

// ResultMsg carries work finished by a background goroutine. The App runs
// Apply on its loop, so Apply may touch widget state.
type ResultMsg struct {
	Apply func()
}

func (ResultMsg) isMessage() {}

// quitMsg stops the loop from outside the widget tree.
type quitMsg struct{}

func (quitMsg) isMessage() {}

// FromEvent converts a terminal event. Unknown events map to nil.
func FromEvent(ev terminal.Event) Message {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		return KeyMsg{Key: e.Key, Rune: e.Rune, Alt: e.Alt, Ctrl: e.Ctrl}
	case terminal.ResizeEvent:
		return ResizeMsg{Width: e.Width, Height: e.Height}
	case terminal.MouseEvent:
		return MouseMsg{X: e.X, Y: e.Y, Button: e.Button, Action: e.Action}
	case terminal.PasteEvent:
		return PasteMsg{Text: e.Text}
	default:
		return nil
	}
}
