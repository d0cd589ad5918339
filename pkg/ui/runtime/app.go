package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/odvcencio/chooser/pkg/ui/backend"
)

// PointerSink receives every button press before the widget tree sees
// it. The pointer hub implements it to drive outside-dismiss.
type PointerSink interface {
	Publish(x, y int)
}

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend       backend.Backend
	Root          Widget
	Pointer       PointerSink
	MessageBuffer int
}

// App runs a widget tree against a terminal backend.
type App struct {
	backend  backend.Backend
	root     Widget
	pointer  PointerSink
	messages chan Message
	ready    chan struct{}

	width, height int
	running       bool
}

// NewApp creates a new App from config.
func NewApp(cfg AppConfig) *App {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	return &App{
		backend:  cfg.Backend,
		root:     cfg.Root,
		pointer:  cfg.Pointer,
		messages: make(chan Message, bufferSize),
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the first frame has been drawn.
func (a *App) Ready() <-chan struct{} {
	return a.ready
}

// Post sends a message to the event loop. Dropped if the queue is full.
func (a *App) Post(msg Message) {
	select {
	case a.messages <- msg:
	default:
	}
}

// Quit asks the loop to stop after pending messages.
func (a *App) Quit() {
	a.Post(quitMsg{})
}

// Run drives the loop until Quit or ctx is done. A Quit returns nil.
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return errors.New("backend is required")
	}
	if a.root == nil {
		return errors.New("root widget is required")
	}
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer a.backend.Fini()

	done := make(chan struct{})
	defer close(done)
	go a.pollEvents(done)

	a.width, a.height = a.backend.Size()
	a.root.Layout(Rect{Width: a.width, Height: a.height})
	a.render()
	close(a.ready)

	a.running = true
	for a.running {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-a.messages:
			if a.update(msg) {
				a.render()
			}
		}
	}
	return nil
}

func (a *App) update(msg Message) bool {
	switch m := msg.(type) {
	case quitMsg:
		a.running = false
		return false
	case ResultMsg:
		if m.Apply != nil {
			m.Apply()
		}
		return a.running
	case ResizeMsg:
		a.width, a.height = m.Width, m.Height
		a.root.Layout(Rect{Width: m.Width, Height: m.Height})
		return true
	case MouseMsg:
		if m.Pressed() && a.pointer != nil {
			a.pointer.Publish(m.X, m.Y)
		}
	}

	result := a.root.HandleMessage(msg)
	dirty := result.Handled
	for _, cmd := range result.Commands {
		switch cmd.(type) {
		case Quit:
			a.running = false
		case Refresh:
			dirty = true
		}
	}
	// Outside presses may have changed widget state without the
	// widget handling the message itself.
	if _, ok := msg.(MouseMsg); ok {
		dirty = true
	}
	return dirty && a.running
}

func (a *App) pollEvents(done <-chan struct{}) {
	for {
		ev := a.backend.PollEvent()
		if ev == nil {
			return
		}
		msg := FromEvent(ev)
		if msg == nil {
			continue
		}
		select {
		case a.messages <- msg:
		case <-done:
			return
		}
	}
}

func (a *App) render() {
	a.backend.Clear()
	a.root.Layout(Rect{Width: a.width, Height: a.height})
	a.root.Render(a.backend)
	a.backend.Show()
}
