package app

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jontk/fsdash/internal/config"
	fsderrors "github.com/jontk/fsdash/internal/errors"
	"github.com/jontk/fsdash/internal/logging"
	"github.com/jontk/fsdash/internal/mockapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	srv := httptest.NewServer(mockapi.NewServer(0, logging.Nop()).Handler())
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.PollInterval = "1h"
	cfg.Export.Dir = t.TempDir()
	cfg.Export.Format = "csv"
	return cfg
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Stop() })
	return a
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		a, err := New(context.Background(), nil)
		assert.Error(t, err)
		assert.True(t, fsderrors.IsType(err, fsderrors.ErrorTypeConfiguration))
		assert.Nil(t, a)
	})

	t.Run("bad base URL", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.BaseURL = "not a url"
		a, err := New(context.Background(), cfg)
		assert.Error(t, err)
		assert.Nil(t, a)
	})

	t.Run("valid config", func(t *testing.T) {
		a := newTestApp(t)
		assert.NotNil(t, a.app)
		assert.NotNil(t, a.pages)
		assert.NotNil(t, a.header)
		assert.NotNil(t, a.statusBar)
		assert.NotNil(t, a.view)
		assert.Equal(t, time.Hour, a.Model().PollInterval())
		assert.Equal(t, 1, a.Model().Snapshot().UserID)
		assert.Contains(t, a.header.GetText(true), a.client.BaseURL())
	})
}

func TestExportKeys(t *testing.T) {
	a := newTestApp(t)

	assert.Nil(t, a.handleKey(runeKey('e')))
	assert.Contains(t, a.statusBar.Text(), "Nothing to export yet")

	_, err := a.Model().RunComparison(context.Background())
	require.NoError(t, err)

	assert.Nil(t, a.handleKey(runeKey('e')))
	assert.Contains(t, a.statusBar.Text(), "Exported 1 comparisons")

	assert.Nil(t, a.handleKey(runeKey('x')))
	assert.Contains(t, a.statusBar.Text(), "Chart saved")

	csvFiles, _ := filepath.Glob(filepath.Join(a.exporter.Dir(), "comparisons_*.csv"))
	pngFiles, _ := filepath.Glob(filepath.Join(a.exporter.Dir(), "chart_*.png"))
	assert.Len(t, csvFiles, 1)
	assert.Len(t, pngFiles, 1)
}

func TestExportBadFormat(t *testing.T) {
	a := newTestApp(t)
	a.config.Export.Format = "xml"

	_, err := a.Model().RunComparison(context.Background())
	require.NoError(t, err)

	a.handleKey(runeKey('e'))
	assert.Contains(t, a.statusBar.Text(), "xml")

	entries, err := os.ReadDir(a.exporter.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHelpOverlay(t *testing.T) {
	a := newTestApp(t)

	assert.Nil(t, a.handleKey(runeKey('?')))
	assert.True(t, a.IsHelpOpen())

	// Keys fall through to the overlay while it is open
	ev := runeKey('e')
	assert.Equal(t, ev, a.handleKey(ev))

	a.hideHelp()
	assert.False(t, a.IsHelpOpen())
}

func TestFocusCycling(t *testing.T) {
	a := newTestApp(t)
	items := a.view.Focusables()
	require.Len(t, items, 2)

	a.app.SetFocus(items[0])
	a.handleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	assert.Equal(t, items[1], a.app.GetFocus())

	a.handleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	assert.Equal(t, items[0], a.app.GetFocus())

	a.handleKey(tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone))
	assert.Equal(t, items[1], a.app.GetFocus())
}

func TestDigitsReachUserField(t *testing.T) {
	a := newTestApp(t)
	a.app.SetFocus(a.view.Focusables()[0])

	ev := runeKey('7')
	assert.Equal(t, ev, a.handleKey(ev))

	assert.Nil(t, a.handleKey(runeKey('e')))
}

func TestQuitKey(t *testing.T) {
	a := newTestApp(t)

	assert.Nil(t, a.handleKey(runeKey('q')))
	assert.Error(t, a.ctx.Err())
	assert.NoError(t, a.Stop())
}

func TestApplyConfig(t *testing.T) {
	a := newTestApp(t)

	next := config.DefaultConfig()
	next.PollInterval = "2s"
	a.applyConfig(next)

	assert.Equal(t, 2*time.Second, a.Model().PollInterval())
	assert.Contains(t, a.header.GetText(true), "every 2s")
	assert.Contains(t, a.statusBar.Text(), "Poll interval set to 2s")
}

func TestApplyConfigAfterStop(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Stop())

	next := config.DefaultConfig()
	next.PollInterval = "3s"

	done := make(chan struct{})
	go func() {
		a.applyConfig(next)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("config change after stop blocked")
	}
	assert.NotContains(t, a.header.GetText(true), "every 3s")
}

// startApp runs a on a simulation screen and waits for the first stats draw
func startApp(t *testing.T, cfg *config.Config) (*App, tcell.SimulationScreen, <-chan error) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")

	a, err := NewWithOptions(context.Background(), cfg, Options{Screen: screen, Mock: true})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	require.Eventually(t, func() bool {
		if a.Model().Snapshot().Stats == nil {
			return false
		}
		cells, width, _ := screen.GetContents()
		return width > 0 && len(cells[0].Runes) > 0 && cells[0].Runes[0] == 'F'
	}, 3*time.Second, 20*time.Millisecond)

	return a, screen, done
}

func waitStopped(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("application did not stop")
	}
}

// eventLoopAlive reports whether the UI goroutine still runs queued work
func eventLoopAlive(a *App) bool {
	ran := make(chan struct{})
	go a.app.QueueUpdate(func() { close(ran) })
	select {
	case <-ran:
		return true
	case <-time.After(3 * time.Second):
		return false
	}
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.PollInterval = "50ms"

	a, _, done := startApp(t, cfg)

	require.NoError(t, a.Stop())
	waitStopped(t, done)
}

func TestTypingUserIDKeepsUIResponsive(t *testing.T) {
	a, screen, done := startApp(t, testConfig(t))

	screen.InjectKey(tcell.KeyRune, '5', tcell.ModNone)

	require.Eventually(t, func() bool {
		return a.Model().Snapshot().UserID == 15
	}, 3*time.Second, 10*time.Millisecond)
	require.True(t, eventLoopAlive(a), "event loop stuck after typing into the user field")

	// q is not a digit, so it quits even while the field has focus
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	waitStopped(t, done)
}
