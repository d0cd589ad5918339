package main

import (
	"context"
	"flag"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/odvcencio/chooser/pkg/dirpicker"
	"github.com/odvcencio/chooser/pkg/selector"
	"github.com/odvcencio/chooser/pkg/telemetry"
	"github.com/odvcencio/chooser/pkg/terminal"
)

func (c cli) runRankCommand(args []string) error {
	fs := flag.NewFlagSet("rank", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	configPath := fs.String("config", "", "configuration file")
	dirs := fs.Bool("dirs", false, "treat options as directories")
	scores := fs.Bool("scores", false, "print match scores")
	all := fs.Bool("all", false, "print every match instead of the configured cap")
	limit := fs.Int("limit", 0, "maximum entries to print (overrides config)")
	value := fs.String("value", "", "mark this value as the current selection")
	noColor := fs.Bool("no-color", false, "disable colors")
	if err := fs.Parse(args); err != nil {
		return withExitCode(err, exitUsage)
	}
	query := strings.Join(fs.Args(), " ")

	cfg, err := c.loadConfig(*configPath)
	if err != nil {
		return err
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
	_, span := telemetry.StartSpan(context.Background(), "chooser.rank",
		attribute.String("query", query), attribute.Bool("dirs", *dirs))
	defer span.End()

	options, err := c.loadOptions(cfg, *dirs)
	if err != nil {
		return err
	}

	sc := selectorConfig(cfg, options)
	if *dirs {
		dirpicker.Enhance(&sc, nil)
	}
	switch {
	case *all:
		sc.MaxVisibleItems = selector.ShowAll
	case *limit > 0:
		sc.MaxVisibleItems = *limit
	}
	if *value != "" {
		sc.Value, sc.HasValue = *value, true
	}
	stats := newSessionTelemetry(cfg, logger)
	sc.Logger = logger
	sc.Observer = stats.observer()
	sc.Open = true

	ctrl := selector.New(sc)
	ctrl.SetQuery(query)
	visible := ctrl.Visible()
	span.SetAttributes(attribute.Int("visible", len(visible)))

	out := terminal.NewWithOutput(c.stdout)
	if *noColor {
		out = terminal.NewPlain(c.stdout, 0)
	}
	terminal.WriteRanked(out, visible, ctrl.IsSelected, terminal.RankOptions{Scores: *scores, Cursor: -1})
	ctrl.Unmount()
	return stats.finish()
}
