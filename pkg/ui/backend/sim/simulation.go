// Package sim provides an in-memory backend for tests.
package sim

import (
	"strings"
	"sync"

	tcellv2 "github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/chooser/pkg/ui/backend"
	"github.com/odvcencio/chooser/pkg/ui/backend/tcell"
	"github.com/odvcencio/chooser/pkg/ui/terminal"
)

// Backend is a tcell simulation screen behind the backend.Backend API,
// with helpers to inject input and read the rendered frame.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen
	width  int
	height int
	mu     sync.Mutex
}

// New creates a simulation backend. Call Init before injecting events.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("")
	return &Backend{
		Backend: tcell.NewWithScreen(screen),
		screen:  screen,
		width:   width,
		height:  height,
	}
}

// Init initializes the screen at the size given to New. The simulation
// screen resets itself to 80x25 on init.
func (s *Backend) Init() error {
	if err := s.Backend.Init(); err != nil {
		return err
	}
	s.mu.Lock()
	s.screen.SetSize(s.width, s.height)
	s.mu.Unlock()
	return nil
}

// InjectKey queues a key press.
func (s *Backend) InjectKey(key terminal.Key) {
	_ = s.PostEvent(terminal.KeyEvent{Key: key})
}

// InjectString queues one KeyRune event per rune of str.
func (s *Backend) InjectString(str string) {
	for _, r := range str {
		_ = s.PostEvent(terminal.KeyEvent{Key: terminal.KeyRune, Rune: r})
	}
}

// InjectClick queues a left press and release at (x, y).
func (s *Backend) InjectClick(x, y int) {
	_ = s.PostEvent(terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MousePress})
	_ = s.PostEvent(terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MouseRelease})
}

// InjectResize resizes the screen and queues the matching event.
func (s *Backend) InjectResize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.screen.SetSize(width, height)
	s.mu.Unlock()
	_ = s.PostEvent(terminal.ResizeEvent{Width: width, Height: height})
}

// Capture returns the screen as newline separated rows.
func (s *Backend) Capture() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	lines := make([]string, 0, h)
	for y := 0; y < h; y++ {
		var line strings.Builder
		for x := 0; x < w; x++ {
			mainc, comb, _, _ := s.screen.GetContent(x, y)
			if mainc == 0 {
				mainc = ' '
			}
			line.WriteRune(mainc)
			for _, c := range comb {
				line.WriteRune(c)
			}
			if cw := runewidth.RuneWidth(mainc); cw > 1 {
				x += cw - 1
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// Row returns row y with trailing blanks trimmed.
func (s *Backend) Row(y int) string {
	rows := strings.Split(s.Capture(), "\n")
	if y < 0 || y >= len(rows) {
		return ""
	}
	return strings.TrimRight(rows[y], " ")
}

// FindText returns the cell position of text, or (-1, -1).
func (s *Backend) FindText(text string) (x, y int) {
	for row, line := range strings.Split(s.Capture(), "\n") {
		if col := strings.Index(line, text); col >= 0 {
			return runewidth.StringWidth(line[:col]), row
		}
	}
	return -1, -1
}

// ContainsText reports whether text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, _ := s.FindText(text)
	return x >= 0
}

// CellAttrs returns the rune and attributes drawn at (x, y).
func (s *Backend) CellAttrs(x, y int) (rune, backend.AttrMask) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mainc, _, style, _ := s.screen.GetContent(x, y)
	_, _, attrs := style.Decompose()

	var out backend.AttrMask
	if attrs&tcellv2.AttrBold != 0 {
		out |= backend.AttrBold
	}
	if attrs&tcellv2.AttrReverse != 0 {
		out |= backend.AttrReverse
	}
	if attrs&tcellv2.AttrUnderline != 0 {
		out |= backend.AttrUnderline
	}
	if attrs&tcellv2.AttrDim != 0 {
		out |= backend.AttrDim
	}
	if attrs&tcellv2.AttrItalic != 0 {
		out |= backend.AttrItalic
	}
	return mainc, out
}

var _ backend.Backend = (*Backend)(nil)
