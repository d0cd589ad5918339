package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/chooser/pkg/config"
	"github.com/odvcencio/chooser/pkg/selector"
	"github.com/odvcencio/chooser/pkg/ui/backend/sim"
	"github.com/odvcencio/chooser/pkg/ui/terminal"
)

type pickOutcome struct {
	value string
	err   error
}

func startPick(t *testing.T, cfg *config.Config, options []selector.Option[string], dirs bool) (*sim.Backend, <-chan pickOutcome) {
	t.Helper()
	be := sim.New(100, 24)
	session := newPickSession(cfg, options, pickDeps{
		backend: be,
		dirs:    dirs,
	})
	done := make(chan pickOutcome, 1)
	go func() {
		v, err := session.run(context.Background())
		done <- pickOutcome{v, err}
	}()
	select {
	case <-session.app.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("pick never drew")
	}
	return be, done
}

func waitPick(t *testing.T, done <-chan pickOutcome) pickOutcome {
	t.Helper()
	select {
	case out := <-done:
		return out
	case <-time.After(3 * time.Second):
		t.Fatal("pick did not finish")
		return pickOutcome{}
	}
}

func TestPickTypeAndSelect(t *testing.T) {
	be, done := startPick(t, config.DefaultConfig(), selector.Strings("apple", "banana", "grape"), false)

	be.InjectString("ban")
	be.InjectKey(terminal.KeyDown)
	be.InjectKey(terminal.KeyEnter)

	out := waitPick(t, done)
	require.NoError(t, out.err)
	assert.Equal(t, "banana", out.value)
}

func TestPickEscapeCancels(t *testing.T) {
	be, done := startPick(t, config.DefaultConfig(), selector.Strings("apple"), false)
	be.InjectKey(terminal.KeyEscape)

	out := waitPick(t, done)
	assert.ErrorIs(t, out.err, errCancelled)
	assert.Equal(t, exitCancelled, exitCodeForError(out.err))
}

func TestPickOutsideClickCancels(t *testing.T) {
	be, done := startPick(t, config.DefaultConfig(), selector.Strings("apple"), false)
	be.InjectClick(90, 20)

	out := waitPick(t, done)
	assert.ErrorIs(t, out.err, errCancelled)
}

func TestPickTypedText(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Selector.CustomValue.Enabled = true
	be, done := startPick(t, cfg, selector.Strings("apple"), false)

	be.InjectString("kiwi")
	be.InjectKey(terminal.KeyEnter)

	out := waitPick(t, done)
	require.NoError(t, out.err)
	assert.Equal(t, "kiwi", out.value)
}

func TestPickBrowseFolder(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "alpha"), 0o755))
	cfg := config.DefaultConfig()
	cfg.Directory.Root = root
	be, done := startPick(t, cfg, nil, true)

	require.Eventually(t, func() bool { return be.ContainsText(selector.BrowseLabel) },
		2*time.Second, 10*time.Millisecond)
	be.InjectKey(terminal.KeyDown)
	be.InjectKey(terminal.KeyEnter)

	require.Eventually(t, func() bool { return be.ContainsText("alpha") },
		2*time.Second, 10*time.Millisecond)
	be.InjectKey(terminal.KeyTab)

	out := waitPick(t, done)
	require.NoError(t, out.err)
	assert.Equal(t, root, out.value)
}

func TestPickWritesSelectorMetrics(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Telemetry.MetricsFile = filepath.Join(t.TempDir(), "chooser.prom")
	be, done := startPick(t, cfg, selector.Strings("apple", "banana"), false)

	be.InjectString("ban")
	be.InjectKey(terminal.KeyDown)
	be.InjectKey(terminal.KeyEnter)
	require.NoError(t, waitPick(t, done).err)

	data, err := os.ReadFile(cfg.Telemetry.MetricsFile)
	require.NoError(t, err)
	metrics := string(data)
	assert.Contains(t, metrics, `chooser_selector_commits_total{kind="option"} 1`)
	assert.Contains(t, metrics, `chooser_selector_close_requests_total{reason="commit"} 1`)
	assert.Contains(t, metrics, "chooser_selector_rank_total")
}

func TestPickEscapeCountsCloseReason(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Telemetry.MetricsFile = filepath.Join(t.TempDir(), "chooser.prom")
	be, done := startPick(t, cfg, selector.Strings("apple"), false)
	be.InjectKey(terminal.KeyEscape)
	assert.ErrorIs(t, waitPick(t, done).err, errCancelled)

	data, err := os.ReadFile(cfg.Telemetry.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `chooser_selector_close_requests_total{reason="escape"} 1`)
	assert.NotContains(t, string(data), "chooser_selector_commits_total{")
}
