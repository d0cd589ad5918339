// Package tcell implements backend.Backend on top of tcell.
package tcell

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/chooser/pkg/ui/backend"
	"github.com/odvcencio/chooser/pkg/ui/terminal"
)

// Backend implements backend.Backend using a tcell screen.
type Backend struct {
	screen tcell.Screen

	inPaste     bool
	pasteBuffer strings.Builder

	// tcell repeats the held mask on drag; only none->held is a press.
	lastButtons tcell.ButtonMask
}

// New creates a backend for the controlling terminal.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Backend{screen: screen}, nil
}

// NewWithScreen wraps an existing screen, such as a simulation screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

// Init initializes the screen with mouse and paste reporting on.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	b.screen.EnableMouse()
	b.screen.EnablePaste()
	b.screen.HideCursor()
	return nil
}

func (b *Backend) Fini() {
	b.screen.Fini()
}

func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, comb, convertStyle(style))
}

func (b *Backend) Show() {
	b.screen.Show()
}

func (b *Backend) Clear() {
	b.screen.Clear()
}

// PollEvent blocks until a translatable event is available.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventInterrupt:
			if posted, ok := e.Data().(terminal.Event); ok {
				return posted
			}
			continue
		case *tcell.EventPaste:
			if e.Start() {
				b.inPaste = true
				b.pasteBuffer.Reset()
				continue
			}
			if e.End() {
				b.inPaste = false
				text := b.pasteBuffer.String()
				b.pasteBuffer.Reset()
				if text != "" {
					return terminal.PasteEvent{Text: text}
				}
				continue
			}
		case *tcell.EventKey:
			if b.inPaste {
				switch e.Key() {
				case tcell.KeyRune:
					b.pasteBuffer.WriteRune(e.Rune())
				case tcell.KeyEnter:
					b.pasteBuffer.WriteRune('\n')
				case tcell.KeyTab:
					b.pasteBuffer.WriteRune('\t')
				}
				continue
			}
		case *tcell.EventMouse:
			if out, ok := b.convertMouse(e); ok {
				return out
			}
			continue
		}

		if out := convertEvent(ev); out != nil {
			return out
		}
	}
}

// PostEvent queues ev behind pending terminal input. Events ride on a
// tcell interrupt so any event type can be posted.
func (b *Backend) PostEvent(ev terminal.Event) error {
	return b.screen.PostEvent(tcell.NewEventInterrupt(ev))
}

func convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	style := tcell.StyleDefault.
		Foreground(convertColor(fg)).
		Background(convertColor(bg))

	if attrs&backend.AttrBold != 0 {
		style = style.Bold(true)
	}
	if attrs&backend.AttrItalic != 0 {
		style = style.Italic(true)
	}
	if attrs&backend.AttrUnderline != 0 {
		style = style.Underline(true)
	}
	if attrs&backend.AttrDim != 0 {
		style = style.Dim(true)
	}
	if attrs&backend.AttrReverse != 0 {
		style = style.Reverse(true)
	}
	return style
}

func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.PaletteColor(int(c))
}

func convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return terminal.KeyEvent{
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Alt:  e.Modifiers()&tcell.ModAlt != 0,
			Ctrl: e.Modifiers()&tcell.ModCtrl != 0,
		}
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	default:
		return nil
	}
}

func (b *Backend) convertMouse(e *tcell.EventMouse) (terminal.MouseEvent, bool) {
	x, y := e.Position()
	buttons := e.Buttons()
	prev := b.lastButtons
	b.lastButtons = buttons &^ (tcell.WheelUp | tcell.WheelDown)

	switch {
	case buttons&tcell.WheelUp != 0:
		return terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseWheelUp, Action: terminal.MousePress}, true
	case buttons&tcell.WheelDown != 0:
		return terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseWheelDown, Action: terminal.MousePress}, true
	case buttons == tcell.ButtonNone:
		if prev == tcell.ButtonNone {
			return terminal.MouseEvent{}, false
		}
		return terminal.MouseEvent{X: x, Y: y, Button: convertButton(prev), Action: terminal.MouseRelease}, true
	case prev != tcell.ButtonNone:
		return terminal.MouseEvent{}, false
	default:
		return terminal.MouseEvent{X: x, Y: y, Button: convertButton(buttons), Action: terminal.MousePress}, true
	}
}

func convertButton(buttons tcell.ButtonMask) terminal.MouseButton {
	switch {
	case buttons&tcell.Button1 != 0:
		return terminal.MouseLeft
	case buttons&tcell.Button2 != 0:
		return terminal.MouseRight
	case buttons&tcell.Button3 != 0:
		return terminal.MouseMiddle
	default:
		return terminal.MouseNone
	}
}

func convertKey(k tcell.Key) terminal.Key {
	switch k {
	case tcell.KeyRune:
		return terminal.KeyRune
	case tcell.KeyUp:
		return terminal.KeyUp
	case tcell.KeyDown:
		return terminal.KeyDown
	case tcell.KeyRight:
		return terminal.KeyRight
	case tcell.KeyLeft:
		return terminal.KeyLeft
	case tcell.KeyPgUp:
		return terminal.KeyPageUp
	case tcell.KeyPgDn:
		return terminal.KeyPageDown
	case tcell.KeyHome:
		return terminal.KeyHome
	case tcell.KeyEnd:
		return terminal.KeyEnd
	case tcell.KeyDelete:
		return terminal.KeyDelete
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return terminal.KeyBackspace
	case tcell.KeyTab:
		return terminal.KeyTab
	case tcell.KeyEnter:
		return terminal.KeyEnter
	case tcell.KeyEscape:
		return terminal.KeyEscape
	case tcell.KeyCtrlC:
		return terminal.KeyCtrlC
	case tcell.KeyCtrlN:
		return terminal.KeyCtrlN
	case tcell.KeyCtrlP:
		return terminal.KeyCtrlP
	case tcell.KeyCtrlU:
		return terminal.KeyCtrlU
	default:
		return terminal.KeyNone
	}
}

var _ backend.Backend = (*Backend)(nil)
