// Package app assembles the terminal dashboard: backend client, dashboard
// model, views and the tview application that hosts them.
package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/jontk/fsdash/internal/api"
	"github.com/jontk/fsdash/internal/config"
	"github.com/jontk/fsdash/internal/dashboard"
	fsderrors "github.com/jontk/fsdash/internal/errors"
	"github.com/jontk/fsdash/internal/export"
	"github.com/jontk/fsdash/internal/logging"
	"github.com/jontk/fsdash/internal/ui/components"
	"github.com/jontk/fsdash/internal/version"
	"github.com/jontk/fsdash/internal/views"
	"github.com/rivo/tview"
)

const mainPage = "main"

// Options tweaks how the application is assembled
type Options struct {
	// Screen replaces the terminal screen, mainly for tests
	Screen tcell.Screen

	// Mock marks the backend as the in-process mock in the header
	Mock bool

	// Overrides is reapplied to every reloaded config file
	Overrides func(*config.Config)
}

// App represents the main application
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	config *config.Config
	logger *logging.Logger

	client   *api.Client
	model    *dashboard.Dashboard
	exporter *export.Exporter

	// UI components
	app        *tview.Application
	pages      *tview.Pages
	header     *components.Header
	statusBar  *components.StatusBar
	view       *views.DashboardView
	help       *views.HelpView
	mainLayout *tview.Flex

	overrides func(*config.Config)

	stopOnce sync.Once
	running  atomic.Bool
}

// New creates a new application instance
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	return NewWithOptions(ctx, cfg, Options{})
}

// NewWithOptions creates a new application instance with explicit options
func NewWithOptions(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fsderrors.Configf("config is required")
	}

	info := version.Get()
	client, err := api.NewClient(api.ClientConfig{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.RequestTimeoutDuration(),
		UserAgent: info.UserAgent(),
	})
	if err != nil {
		return nil, err
	}

	appCtx, cancel := context.WithCancel(ctx)

	tapp := tview.NewApplication()
	if opts.Screen != nil {
		tapp.SetScreen(opts.Screen)
	}

	a := &App{
		ctx:       appCtx,
		cancel:    cancel,
		config:    cfg,
		logger:    logging.GetLogger().WithComponent("app"),
		client:    client,
		exporter:  export.NewExporter(cfg.Export.Dir),
		app:       tapp,
		pages:     tview.NewPages(),
		overrides: opts.Overrides,
	}

	a.model = dashboard.New(client, dashboard.Options{
		PollInterval: cfg.PollDuration(),
		UserID:       cfg.DefaultUserID,
		Logger:       logging.GetLogger(),
	})

	a.initUI(opts.Mock)
	a.setupKeyboardShortcuts()

	return a, nil
}

func (a *App) initUI(mock bool) {
	a.header = components.NewHeader("Feature Store Performance Demo")
	a.header.SetEndpoint(a.client.BaseURL(), mock)
	a.header.SetPollInterval(a.model.PollInterval())

	a.statusBar = components.NewStatusBar()

	a.view = views.NewDashboardView(a.model, views.DashboardOptions{
		ShowDetails: a.config.UI.ShowDetails,
		OnState: func(s dashboard.State) {
			if !s.StatsUpdatedAt.IsZero() {
				a.header.SetStatsUpdated(s.StatsUpdatedAt)
			}
		},
	})
	a.statusBar.SetHints(a.view.Hints())

	a.help = views.NewHelpView(a.view.Hints(), a.hideHelp)

	a.mainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.header, 1, 0, false).
		AddItem(a.view.Render(), 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.pages.AddPage(mainPage, a.mainLayout, true, true)
}

// Run starts polling and blocks until the application stops
func (a *App) Run() error {
	a.app.SetRoot(a.pages, true)
	a.app.EnableMouse(a.config.UI.EnableMouse)

	a.running.Store(true)
	a.view.Init(a.ctx, a.queueUpdate)
	a.statusBar.SetQueue(a.queueUpdate)
	a.model.Activate(a.ctx)

	config.Watch(a.config, a.overrides, a.applyConfig)

	if focus := a.view.Focusables(); len(focus) > 0 {
		a.app.SetFocus(focus[0])
	}

	a.logger.Info().Str("base_url", a.client.BaseURL()).Msg("Dashboard started")
	return a.app.Run()
}

// Stop gracefully stops the application. It is safe to call more than once.
func (a *App) Stop() error {
	a.stopOnce.Do(func() {
		_ = a.view.Stop()
		a.cancel()
		a.model.Deactivate()
		a.app.Stop()
		a.client.Close()
		a.logger.Info().Msg("Dashboard stopped")
	})
	return nil
}

// queueUpdate schedules f on the UI goroutine without waiting for it.
// QueueUpdateDraw blocks until the event loop runs f, and callers include
// the event loop itself. Before Run, f runs in place; after Stop it is dropped.
func (a *App) queueUpdate(f func()) {
	if a.ctx.Err() != nil {
		return
	}
	if !a.running.Load() {
		f()
		return
	}
	go a.app.QueueUpdateDraw(f)
}

// applyConfig picks up the settings that can change while running
func (a *App) applyConfig(next *config.Config) {
	interval := next.PollDuration()
	if interval == a.model.PollInterval() {
		return
	}
	a.model.SetPollInterval(interval)
	a.queueUpdate(func() {
		a.header.SetPollInterval(interval)
		a.statusBar.Info("Poll interval set to " + interval.String())
	})
}

// Model returns the dashboard model
func (a *App) Model() *dashboard.Dashboard {
	return a.model
}

// IsHelpOpen reports whether the help overlay is in front
func (a *App) IsHelpOpen() bool {
	name, _ := a.pages.GetFrontPage()
	return name == views.HelpPage
}

func (a *App) showHelp() {
	a.pages.AddPage(views.HelpPage, a.help.Render(), true, true)
	a.app.SetFocus(a.help.Render())
}

func (a *App) hideHelp() {
	a.pages.RemovePage(views.HelpPage)
	if focus := a.view.Focusables(); len(focus) > 0 {
		a.app.SetFocus(focus[0])
	}
}
