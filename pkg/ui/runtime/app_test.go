package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/chooser/pkg/ui/backend"
	"github.com/odvcencio/chooser/pkg/ui/backend/sim"
	"github.com/odvcencio/chooser/pkg/ui/terminal"
)

type appTestWidget struct {
	bounds  Rect
	keys    chan rune
	quitOn  rune
	drawn   rune
	pressed int
}

func (w *appTestWidget) Layout(bounds Rect) { w.bounds = bounds }

func (w *appTestWidget) Render(target backend.RenderTarget) {
	if w.drawn != 0 {
		target.SetContent(w.bounds.X, w.bounds.Y, w.drawn, nil, backend.DefaultStyle())
	}
}

func (w *appTestWidget) HandleMessage(msg Message) HandleResult {
	switch m := msg.(type) {
	case KeyMsg:
		if m.Rune == w.quitOn {
			return WithCommand(Quit{})
		}
		w.drawn = m.Rune
		if w.keys != nil {
			w.keys <- m.Rune
		}
		return Handled()
	case MouseMsg:
		if m.Pressed() {
			w.pressed++
		}
		return Handled()
	}
	return Unhandled()
}

type recordingSink struct{ presses [][2]int }

func (s *recordingSink) Publish(x, y int) { s.presses = append(s.presses, [2]int{x, y}) }

func runApp(t *testing.T, app *App) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()
	select {
	case <-app.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("app never became ready")
	}
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
		return nil
	}
}

func TestApp_KeysRouteToRoot(t *testing.T) {
	be := sim.New(10, 3)
	w := &appTestWidget{quitOn: 'q', keys: make(chan rune, 4)}
	app := NewApp(AppConfig{Backend: be, Root: w})
	done := runApp(t, app)

	be.InjectString("x")
	select {
	case r := <-w.keys:
		assert.Equal(t, 'x', r)
	case <-time.After(2 * time.Second):
		t.Fatal("key never delivered")
	}

	be.InjectString("q")
	require.NoError(t, waitDone(t, done))
	assert.Equal(t, Rect{Width: 10, Height: 3}, w.bounds)
}

func TestApp_PressesReachPointerSink(t *testing.T) {
	be := sim.New(10, 3)
	sink := &recordingSink{}
	w := &appTestWidget{quitOn: 'q'}
	app := NewApp(AppConfig{Backend: be, Root: w, Pointer: sink})
	done := runApp(t, app)

	be.InjectClick(3, 1)
	be.InjectString("q")
	require.NoError(t, waitDone(t, done))

	assert.Equal(t, [][2]int{{3, 1}}, sink.presses, "release is not a press")
	assert.Equal(t, 1, w.pressed)
}

func TestApp_QuitAndCancel(t *testing.T) {
	app := NewApp(AppConfig{Backend: sim.New(5, 2), Root: &appTestWidget{}})
	done := runApp(t, app)
	app.Quit()
	assert.NoError(t, waitDone(t, done))

	ctx, cancel := context.WithCancel(context.Background())
	app = NewApp(AppConfig{Backend: sim.New(5, 2), Root: &appTestWidget{}})
	errc := make(chan error, 1)
	go func() { errc <- app.Run(ctx) }()
	<-app.Ready()
	cancel()
	assert.ErrorIs(t, waitDone(t, errc), context.Canceled)
}

func TestApp_ResultMsgRunsOnLoop(t *testing.T) {
	be := sim.New(5, 2)
	w := &appTestWidget{}
	app := NewApp(AppConfig{Backend: be, Root: w})
	done := runApp(t, app)

	app.Post(ResultMsg{Apply: func() { w.drawn = 'r' }})
	// The second result runs after the first frame has been redrawn.
	drawn := make(chan rune, 1)
	app.Post(ResultMsg{Apply: func() {
		r, _ := be.CellAttrs(0, 0)
		drawn <- r
	}})
	select {
	case r := <-drawn:
		assert.Equal(t, 'r', r)
	case <-time.After(2 * time.Second):
		t.Fatal("result never applied")
	}
	app.Quit()
	require.NoError(t, waitDone(t, done))
}

func TestApp_RequiresBackendAndRoot(t *testing.T) {
	assert.Error(t, NewApp(AppConfig{Root: &appTestWidget{}}).Run(context.Background()))
	assert.Error(t, NewApp(AppConfig{Backend: sim.New(2, 2)}).Run(context.Background()))
}

func TestFromEvent(t *testing.T) {
	assert.Equal(t, KeyMsg{Key: terminal.KeyCtrlP}, FromEvent(terminal.KeyEvent{Key: terminal.KeyCtrlP}))
	assert.Equal(t, ResizeMsg{Width: 3, Height: 4}, FromEvent(terminal.ResizeEvent{Width: 3, Height: 4}))
	assert.Nil(t, FromEvent(nil))
}

func TestRect(t *testing.T) {
	r := Rect{X: 2, Y: 1, Width: 3, Height: 2}
	assert.True(t, r.Contains(2, 1))
	assert.True(t, r.Contains(4, 2))
	assert.False(t, r.Contains(5, 1))
	assert.False(t, r.Contains(2, 3))
	assert.True(t, Rect{Width: 0, Height: 4}.Empty())
}
