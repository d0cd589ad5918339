package dirpicker

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/odvcencio/chooser/pkg/logging"
	"github.com/odvcencio/chooser/pkg/telemetry"
)

// DefaultRefreshInterval bounds how often a watched folder is re-listed.
const DefaultRefreshInterval = 250 * time.Millisecond

// Watcher reports structural changes to one directory at a time so an
// open picker can refresh. Bursts of changes collapse into one refresh.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	dir     string

	onChange func(dir string)
	limiter  *rate.Limiter
	pending  chan struct{}

	Logger *logging.Logger
	Hub    *telemetry.Hub
}

// NewWatcher creates a watcher calling onChange at most once per interval.
func NewWatcher(interval time.Duration, onChange func(dir string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Watcher{
		watcher:  fw,
		onChange: onChange,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		pending:  make(chan struct{}, 1),
	}, nil
}

// Watch switches the watched directory. An empty dir stops watching.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		_ = w.watcher.Remove(w.dir)
	}
	w.dir = ""
	if dir == "" {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dir = dir
	return nil
}

// Dir returns the directory being watched.
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Run delivers changes until ctx ends or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	go w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !structural(ev) {
				continue
			}
			select {
			case w.pending <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.Logger.Warn(logging.CategoryDirectory, "watch_error", "directory watch error",
				map[string]any{"error": err.Error()})
		}
	}
}

func (w *Watcher) refresh(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.pending:
		}
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
		dir := w.Dir()
		if dir == "" {
			continue
		}
		w.Hub.Publish(telemetry.Event{
			Type: telemetry.EventDirectoryChanged,
			Data: map[string]any{"path": dir},
		})
		if w.onChange != nil {
			w.onChange(dir)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// structural ignores writes and chmods; only entries appearing or
// disappearing change a listing.
func structural(ev fsnotify.Event) bool {
	return ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
