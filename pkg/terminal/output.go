// Package terminal prints styled plain-text output for the non-interactive
// chooser commands. Colors adapt to the terminal and vanish when output is
// piped or NO_COLOR is set.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/odvcencio/chooser/pkg/selector"
)

// Writer provides styled line output.
type Writer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	width    int
	mu       sync.Mutex

	errorStyle    lipgloss.Style
	warnStyle     lipgloss.Style
	successStyle  lipgloss.Style
	dimStyle      lipgloss.Style
	boldStyle     lipgloss.Style
	markStyle     lipgloss.Style
	actionStyle   lipgloss.Style
	disabledStyle lipgloss.Style
}

// New creates a Writer on stdout.
func New() *Writer {
	return NewWithOutput(os.Stdout)
}

// NewWithOutput creates a Writer on out, detecting its color support.
func NewWithOutput(out io.Writer) *Writer {
	r := lipgloss.NewRenderer(out)
	if _, ok := os.LookupEnv("NO_COLOR"); ok || !isTerminal(out) {
		r.SetColorProfile(termenv.Ascii)
	}
	return newWriter(out, r, terminalWidth(out))
}

// NewPlain creates a Writer that never emits escape sequences.
func NewPlain(out io.Writer, width int) *Writer {
	r := lipgloss.NewRenderer(out, termenv.WithProfile(termenv.Ascii))
	return newWriter(out, r, width)
}

func newWriter(out io.Writer, r *lipgloss.Renderer, width int) *Writer {
	return &Writer{
		out:      out,
		renderer: r,
		width:    width,

		errorStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}).
			Bold(true),
		warnStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFAA00"}),
		successStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"}),
		dimStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
		boldStyle: r.NewStyle().Bold(true),
		markStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"}).
			Bold(true),
		actionStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#5599FF"}).
			Italic(true),
		disabledStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"}).
			Strikethrough(true),
	}
}

// Println writes a plain line.
func (w *Writer) Println(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Error prints an error message in red.
func (w *Writer) Error(format string, args ...any) {
	w.line(w.errorStyle, "error: "+fmt.Sprintf(format, args...))
}

// Warn prints a warning message in yellow.
func (w *Writer) Warn(format string, args ...any) {
	w.line(w.warnStyle, "warning: "+fmt.Sprintf(format, args...))
}

// Success prints a success message in green.
func (w *Writer) Success(format string, args ...any) {
	w.line(w.successStyle, "✓ "+fmt.Sprintf(format, args...))
}

// Dim prints secondary text.
func (w *Writer) Dim(format string, args ...any) {
	w.line(w.dimStyle, fmt.Sprintf(format, args...))
}

// Bold prints bold text.
func (w *Writer) Bold(format string, args ...any) {
	w.line(w.boldStyle, fmt.Sprintf(format, args...))
}

func (w *Writer) line(style lipgloss.Style, msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, style.Render(msg))
}

// RankOptions controls WriteRanked.
type RankOptions struct {
	// Scores appends each entry's match score.
	Scores bool
	// Cursor highlights one entry; -1 for none.
	Cursor int
}

// WriteRanked prints a ranked list, one entry per line: a ✓ for the
// selected entry, the label, then the description dimmed. Action entries
// are tagged with their kind. An empty list prints the no-options text.
func WriteRanked[V comparable](w *Writer, entries []selector.Entry[V], isSelected func(selector.Entry[V]) bool, opts RankOptions) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(entries) == 0 {
		fmt.Fprintln(w.out, w.dimStyle.Render(selector.NoOptionsText))
		return
	}
	for i, e := range entries {
		var sb strings.Builder
		mark := "  "
		if isSelected != nil && isSelected(e) {
			mark = w.markStyle.Render("✓") + " "
		}
		sb.WriteString(mark)

		label := e.Label
		if w.width > 0 {
			label = runewidth.Truncate(label, max(w.width-4, 8), "…")
		}
		switch {
		case e.Synthetic():
			sb.WriteString(w.actionStyle.Render(label))
			sb.WriteString(w.dimStyle.Render(" [" + e.Kind.String() + "]"))
		case e.Disabled:
			sb.WriteString(w.disabledStyle.Render(label))
		case i == opts.Cursor:
			sb.WriteString(w.boldStyle.Render(label))
		default:
			sb.WriteString(label)
		}
		if e.Description != "" {
			sb.WriteString("  ")
			sb.WriteString(w.dimStyle.Render(e.Description))
		}
		if opts.Scores && !e.Synthetic() {
			sb.WriteString(w.dimStyle.Render(fmt.Sprintf("  (%g)", e.Score)))
		}
		fmt.Fprintln(w.out, sb.String())
	}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of out, or 0 when it is not a terminal.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
