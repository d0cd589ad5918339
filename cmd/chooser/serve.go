package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/odvcencio/chooser/pkg/config"
	"github.com/odvcencio/chooser/pkg/dirpicker"
	"github.com/odvcencio/chooser/pkg/dirpicker/api"
	"github.com/odvcencio/chooser/pkg/logging"
	"github.com/odvcencio/chooser/pkg/telemetry"
	"github.com/odvcencio/chooser/pkg/terminal"
)

const shutdownTimeout = 5 * time.Second

func (c cli) runServeCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	configPath := fs.String("config", "", "configuration file")
	addr := fs.String("addr", "", "listen address (default from config)")
	watch := fs.Bool("watch", false, "publish directory.changed events for the configured root")
	if err := fs.Parse(args); err != nil {
		return withExitCode(err, exitUsage)
	}

	cfg, err := c.loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	if cfg.Telemetry.Tracing {
		tp, err := telemetry.NewTracerProvider("chooser", c.stderr)
		if err != nil {
			return err
		}
		defer tp.Shutdown(context.Background())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hub := telemetry.NewHub(logger.SessionID())
	defer hub.Close()
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	handler := newServeHandler(cfg, hub, reg, logger)

	if *watch {
		if err := watchRoot(ctx, config.ResolveRoot(cfg), hub, logger); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	terminal.NewWithOutput(c.stderr).Success("serving on http://%s", cfg.Server.Addr)
	logger.Info(logging.CategoryServer, "started", "server started", map[string]any{"addr": cfg.Server.Addr})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	logger.Info(logging.CategoryServer, "stopping", "server stopping", nil)
	return server.Shutdown(shutdownCtx)
}

// newServeHandler wires the browse API, the event stream and /metrics.
func newServeHandler(cfg *config.Config, hub *telemetry.Hub, reg *prometheus.Registry, logger *logging.Logger) http.Handler {
	metrics := telemetry.NewMetrics(reg)
	lister := &dirpicker.FSLister{
		ShowHidden: cfg.Directory.ShowHidden,
		Logger:     logger,
		Hub:        hub,
		Recorder:   metrics,
	}

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok\n"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	api.NewServer(lister, hub, logger).Mount(router)
	return router
}

// watchRoot publishes a directory.changed event whenever root's entries
// change.
func watchRoot(ctx context.Context, root string, hub *telemetry.Hub, logger *logging.Logger) error {
	w, err := dirpicker.NewWatcher(dirpicker.DefaultRefreshInterval, nil)
	if err != nil {
		return err
	}
	w.Hub = hub
	w.Logger = logger
	if err := w.Watch(root); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", root, err)
	}
	go w.Run(ctx)
	go func() {
		<-ctx.Done()
		_ = w.Close()
	}()
	return nil
}
