// Command chooser is a fuzzy selector for the terminal: pick a line or a
// directory interactively, rank options non-interactively, or serve the
// directory browse API.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"golang.org/x/term"

	"github.com/odvcencio/chooser/pkg/config"
	"github.com/odvcencio/chooser/pkg/dirpicker"
	"github.com/odvcencio/chooser/pkg/logging"
	"github.com/odvcencio/chooser/pkg/presets"
	"github.com/odvcencio/chooser/pkg/selector"
	"github.com/odvcencio/chooser/pkg/terminal"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// loadConfigFn lets tests stub configuration loading.
var loadConfigFn = func(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// cli carries the process streams so commands can run under test.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	c := cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(c.dispatch(os.Args[1:]))
}

func (c cli) dispatch(args []string) int {
	if len(args) == 0 {
		c.printHelp()
		return exitUsage
	}
	switch args[0] {
	case "--version", "-v", "version":
		c.printVersion()
		return exitOK
	case "--help", "-h", "help":
		c.printHelp()
		return exitOK
	case "pick":
		return c.run(c.runPickCommand, args[1:])
	case "rank":
		return c.run(c.runRankCommand, args[1:])
	case "serve":
		return c.run(c.runServeCommand, args[1:])
	default:
		fmt.Fprintf(c.stderr, "Error: unknown command %q\n\n", args[0])
		c.printHelp()
		return exitUsage
	}
}

func (c cli) run(handler func([]string) error, args []string) int {
	if err := handler(args); err != nil {
		if !errors.Is(err, errCancelled) {
			terminal.NewWithOutput(c.stderr).Error("%v", err)
		}
		return exitCodeForError(err)
	}
	return exitOK
}

func (c cli) printVersion() {
	fmt.Fprintf(c.stdout, "chooser %s\n", version)
	if commit != "unknown" {
		fmt.Fprintf(c.stdout, "  Commit:     %s\n", commit)
	}
	if buildDate != "unknown" {
		fmt.Fprintf(c.stdout, "  Built:      %s\n", buildDate)
	}
	fmt.Fprintf(c.stdout, "  Go version: %s\n", runtime.Version())
}

func (c cli) printHelp() {
	fmt.Fprint(c.stdout, `chooser - filterable selection for the terminal

Usage:
  chooser pick  [flags]          choose a line from stdin, or a directory
  chooser rank  [flags] QUERY    print the options matching QUERY
  chooser serve [flags]          serve the directory browse API and metrics
  chooser version

Options come from stdin, one per line. With -dirs, or when stdin is a
terminal, the recent directories from the config are offered instead.

Common flags:
  -config PATH   read configuration from PATH instead of ~/.chooser and ./.chooser
  -dirs          treat options as directories (typed paths, folder browser)

Exit status is 130 when a pick is dismissed without a choice.
`)
}

// loadConfig loads configuration and reports unknown preset names.
func (c cli) loadConfig(path string) (*config.Config, error) {
	cfg, err := loadConfigFn(path)
	if err != nil {
		return nil, withExitCode(err, exitUsage)
	}
	out := terminal.NewWithOutput(c.stderr)
	for _, w := range cfg.ValidationWarnings(presets.KnownValidator, presets.KnownPredicate) {
		out.Warn("%s", w)
	}
	return cfg, nil
}

// newLogger writes session events under the configured log dir, or
// nowhere.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	sessionID := logging.NewSessionID()
	if cfg.Logging.Dir == "" {
		return logging.New(io.Discard, sessionID), nil
	}
	logger, err := logging.NewFileLogger(cfg.Logging.Dir, sessionID)
	if err != nil {
		return nil, err
	}
	logger.SetMinLevel(logging.ParseLevel(cfg.Logging.Level))
	return logger, nil
}

// selectorConfig applies the selector section of cfg to a string
// selector over options.
func selectorConfig(cfg *config.Config, options []selector.Option[string]) selector.Config[string] {
	sc := cfg.Selector
	out := selector.Config[string]{
		Options:         options,
		MaxVisibleItems: sc.MaxVisibleItems,
		Codec:           selector.StringCodec(),
	}
	if sc.CustomValue.Enabled {
		out.AllowCustomValue = true
		out.CustomValueValidator = presets.Validator(sc.CustomValue.Validator)
		out.CustomValueLabel = sc.CustomValueLabel()
	}
	out.Predicate = presets.Predicate(sc.Predicate)
	return out
}

// readOptions reads one option per non-blank line.
func readOptions(r io.Reader) ([]selector.Option[string], error) {
	var values []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		values = append(values, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	return selector.Strings(values...), nil
}

// isTTY reports whether r is an interactive terminal.
func isTTY(r any) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// loadOptions reads options from stdin, or offers the configured recent
// directories when stdin is a terminal. In directory mode options are
// labelled by folder name.
func (c cli) loadOptions(cfg *config.Config, dirs bool) ([]selector.Option[string], error) {
	home, _ := os.UserHomeDir()
	if isTTY(c.stdin) || c.stdin == nil {
		return dirpicker.RecentOptions(cfg.Directory.Recent, home), nil
	}
	opts, err := readOptions(c.stdin)
	if err != nil || !dirs {
		return opts, err
	}
	paths := make([]string, len(opts))
	for i, o := range opts {
		paths[i] = o.Value
	}
	return dirpicker.RecentOptions(paths, home), nil
}
