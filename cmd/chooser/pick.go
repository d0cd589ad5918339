package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/odvcencio/chooser/pkg/config"
	"github.com/odvcencio/chooser/pkg/dirpicker"
	"github.com/odvcencio/chooser/pkg/logging"
	"github.com/odvcencio/chooser/pkg/selector"
	"github.com/odvcencio/chooser/pkg/ui/backend"
	tcellbackend "github.com/odvcencio/chooser/pkg/ui/backend/tcell"
	"github.com/odvcencio/chooser/pkg/ui/pointer"
	"github.com/odvcencio/chooser/pkg/ui/runtime"
	"github.com/odvcencio/chooser/pkg/ui/terminal"
	"github.com/odvcencio/chooser/pkg/ui/widgets"
)

// newBackendFn lets tests swap the terminal for a simulation screen.
var newBackendFn = func() (backend.Backend, error) {
	return tcellbackend.New()
}

func (c cli) runPickCommand(args []string) error {
	fs := flag.NewFlagSet("pick", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	configPath := fs.String("config", "", "configuration file")
	dirs := fs.Bool("dirs", false, "treat options as directories")
	value := fs.String("value", "", "preselect this value")
	if err := fs.Parse(args); err != nil {
		return withExitCode(err, exitUsage)
	}

	cfg, err := c.loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	options, err := c.loadOptions(cfg, *dirs)
	if err != nil {
		return err
	}
	if len(options) == 0 && !*dirs && !cfg.Selector.CustomValue.Enabled {
		return withExitCode(fmt.Errorf("no options to choose from"), exitUsage)
	}

	be, err := newBackendFn()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	session := newPickSession(cfg, options, pickDeps{
		backend: be,
		logger:  logger,
		dirs:    *dirs,
		value:   *value,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	result, err := session.run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, result)
	return nil
}

// pickDeps are the collaborators of a pick session. A nil lister means an
// FSLister reporting to the session telemetry.
type pickDeps struct {
	backend backend.Backend
	lister  dirpicker.Lister
	logger  *logging.Logger
	dirs    bool
	value   string
}

// pickSession is one interactive pick: a dropdown, plus a folder browser
// in directory mode, running until something is chosen or dismissed.
type pickSession struct {
	app      *runtime.App
	hub      *pointer.Hub
	dropdown *widgets.Dropdown[string]
	browser  *widgets.FolderBrowser
	logger   *logging.Logger
	stats    *sessionTelemetry
	root     string

	result string
	chosen bool
	done   bool
}

func newPickSession(cfg *config.Config, options []selector.Option[string], deps pickDeps) *pickSession {
	s := &pickSession{
		hub:    pointer.NewHub(),
		logger: deps.logger,
		stats:  newSessionTelemetry(cfg, deps.logger),
		root:   config.ResolveRoot(cfg),
	}
	lister := deps.lister
	if lister == nil {
		lister = &dirpicker.FSLister{
			ShowHidden: cfg.Directory.ShowHidden,
			Logger:     deps.logger,
			Hub:        s.stats.hub,
			Recorder:   s.stats.metrics,
		}
	}

	sc := selectorConfig(cfg, options)
	if deps.dirs {
		dirpicker.Enhance(&sc, s.openBrowser)
		s.browser = widgets.NewFolderBrowser(widgets.FolderBrowserConfig{
			Lister:   lister,
			OnSelect: s.choose,
			OnClose:  s.browserClosed,
			Post:     func(m runtime.Message) { s.app.Post(m) },
		})
	} else if cfg.Selector.Browse.Enabled {
		deps.logger.Warn(logging.CategoryBrowse, "browse_unavailable", "browse needs -dirs", nil)
	}
	if deps.value != "" {
		sc.Value, sc.HasValue = deps.value, true
	}
	sc.Open = true
	sc.Pointer = s.hub
	sc.Logger = deps.logger
	sc.Observer = s.stats.observer()
	sc.OnChange = s.choose
	sc.OnOpenChange = s.dropdownOpenChanged

	s.dropdown = widgets.NewDropdown(widgets.DropdownConfig[string]{
		Selector:    sc,
		Placeholder: cfg.Selector.Placeholder,
	})
	s.app = runtime.NewApp(runtime.AppConfig{
		Backend: deps.backend,
		Root:    (*pickView)(s),
		Pointer: s.hub,
	})
	return s
}

func (s *pickSession) openBrowser() {
	s.browser.Open(s.root)
}

func (s *pickSession) choose(v string) {
	s.result, s.chosen, s.done = v, true, true
	s.logger.Info(logging.CategorySelector, "picked", "value picked", map[string]any{"value": v})
}

func (s *pickSession) dropdownOpenChanged(open bool) {
	if open || s.chosen || (s.browser != nil && s.browser.IsOpen()) {
		return
	}
	s.done = true
}

// browserClosed returns to the list when the browser is cancelled.
func (s *pickSession) browserClosed() {
	if s.chosen {
		return
	}
	s.dropdown.Controller().Open()
}

// run drives the UI and returns the chosen value.
func (s *pickSession) run(ctx context.Context) (result string, err error) {
	defer func() {
		if ferr := s.stats.finish(); ferr != nil && err == nil {
			err = ferr
		}
	}()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.startWatcher(ctx)
	defer s.dropdown.Controller().Unmount()

	if err := s.app.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return "", errCancelled
		}
		return "", err
	}
	if !s.chosen {
		return "", errCancelled
	}
	return s.result, nil
}

// startWatcher refreshes the open folder when its entries change.
func (s *pickSession) startWatcher(ctx context.Context) {
	if s.browser == nil {
		return
	}
	w, err := dirpicker.NewWatcher(dirpicker.DefaultRefreshInterval, func(string) {
		s.app.Post(runtime.ResultMsg{Apply: s.browser.Refresh})
	})
	if err != nil {
		s.logger.Warn(logging.CategoryDirectory, "watch_unavailable", "directory watch unavailable",
			map[string]any{"error": err.Error()})
		return
	}
	w.Logger = s.logger
	w.Hub = s.stats.hub
	s.browser.SetOnNavigate(func(path string) {
		if err := w.Watch(path); err != nil {
			s.logger.Debug(logging.CategoryDirectory, "watch_failed", "cannot watch folder",
				map[string]any{"path": path, "error": err.Error()})
		}
	})
	go w.Run(ctx)
	go func() {
		<-ctx.Done()
		_ = w.Close()
	}()
}

// pickView is the root widget of a pick session.
type pickView pickSession

func (v *pickView) Layout(bounds runtime.Rect) {
	v.dropdown.Layout(bounds)
	if v.browser != nil {
		v.browser.Layout(bounds)
	}
}

func (v *pickView) Render(t backend.RenderTarget) {
	v.dropdown.Render(t)
	if v.browser != nil && v.browser.IsOpen() {
		v.browser.Render(t)
	}
}

func (v *pickView) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if k, ok := msg.(runtime.KeyMsg); ok && k.Key == terminal.KeyCtrlC {
		return runtime.WithCommand(runtime.Quit{})
	}

	var result runtime.HandleResult
	if v.browser != nil && v.browser.IsOpen() {
		result = v.browser.HandleMessage(msg)
	} else {
		result = v.dropdown.HandleMessage(msg)
	}
	if v.done {
		return runtime.WithCommand(runtime.Quit{})
	}
	return result
}

var _ runtime.Widget = (*pickView)(nil)
