package views

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/jontk/fsdash/internal/dashboard"
	"github.com/jontk/fsdash/internal/logging"
	"github.com/jontk/fsdash/internal/ui/components"
	"github.com/jontk/fsdash/internal/ui/styles"
	"github.com/jontk/fsdash/internal/ui/widgets"
	"github.com/rivo/tview"
)

const (
	buttonIdle    = "Test Performance"
	buttonLoading = "Testing..."

	metricsHeight = 10
	detailsWidth  = 42
)

// DashboardOptions configures a DashboardView
type DashboardOptions struct {
	// ShowDetails shows the latest request details next to the chart
	ShowDetails bool

	// OnState runs on the UI goroutine after each snapshot is applied
	OnState func(dashboard.State)
}

// DashboardView renders the comparison dashboard model. It owns no state of
// its own beyond widgets; every change arrives as a dashboard.State snapshot.
type DashboardView struct {
	*BaseView

	model  *dashboard.Dashboard
	opts   DashboardOptions
	logger *logging.Logger

	mu      sync.Mutex
	ctx     context.Context
	queue   QueueFunc
	loading bool
	stopped atomic.Bool

	container *tview.Flex
	body      *tview.Flex
	userInput *tview.InputField
	button    *tview.Button
	errorView *tview.TextView
	metrics   *widgets.MetricsPanel
	chart     *widgets.ComparisonChart
	details   *widgets.DetailsPanel
}

// NewDashboardView creates the dashboard view for model
func NewDashboardView(model *dashboard.Dashboard, opts DashboardOptions) *DashboardView {
	v := &DashboardView{
		BaseView: NewBaseView("dashboard", "Feature Store Performance Demo"),
		model:    model,
		opts:     opts,
		logger:   logging.GetLogger().WithComponent("dashboard-view"),
		ctx:      context.Background(),
		queue:    func(f func()) { f() },
	}

	initial := model.Snapshot()

	v.userInput = styles.StyleInputField(tview.NewInputField()).
		SetLabel("User ID: ").
		SetPlaceholder("1-999").
		SetFieldWidth(8).
		SetAcceptanceFunc(tview.InputFieldInteger).
		SetText(strconv.Itoa(initial.UserID))
	v.userInput.SetChangedFunc(func(text string) {
		v.model.SetUserInput(text)
	})
	v.userInput.SetDoneFunc(func(key tcell.Key) {
		v.syncUserInput()
		if key == tcell.KeyEnter {
			v.RunComparison()
		}
	})
	v.userInput.SetBlurFunc(v.syncUserInput)

	v.button = styles.StyleButton(tview.NewButton(buttonIdle).SetSelectedFunc(v.RunComparison))

	v.errorView = tview.NewTextView().SetDynamicColors(true)

	controls := tview.NewFlex().
		AddItem(v.userInput, 20, 0, true).
		AddItem(nil, 2, 0, false).
		AddItem(v.button, len(buttonIdle)+4, 0, false).
		AddItem(nil, 2, 0, false).
		AddItem(v.errorView, 0, 1, false)

	v.metrics = widgets.NewMetricsPanel()
	v.chart = widgets.NewComparisonChart()
	v.details = widgets.NewDetailsPanel()

	v.body = tview.NewFlex().AddItem(v.chart, 0, 1, false)
	if opts.ShowDetails {
		v.body.AddItem(v.details, detailsWidth, 0, false)
	}

	v.container = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(controls, 1, 0, true).
		AddItem(nil, 1, 0, false).
		AddItem(v.metrics, 0, 0, false).
		AddItem(v.body, 0, 1, false)

	v.apply(initial)
	return v
}

// Init wires the view to the model. queue schedules work on the UI
// goroutine; ctx bounds comparisons started from the view.
func (v *DashboardView) Init(ctx context.Context, queue QueueFunc) {
	v.mu.Lock()
	v.ctx = ctx
	if queue != nil {
		v.queue = queue
	}
	v.mu.Unlock()

	v.stopped.Store(false)
	v.model.SetOnChange(v.onChange)
}

// Render returns the view's main component
func (v *DashboardView) Render() tview.Primitive {
	return v.container
}

// Focusables returns the widgets Tab cycles through
func (v *DashboardView) Focusables() []tview.Primitive {
	return []tview.Primitive{v.userInput, v.button}
}

// Hints returns keyboard hints
func (v *DashboardView) Hints() []components.Hint {
	return []components.Hint{
		{Key: "t", Action: "Test"},
		{Key: "Tab", Action: "Focus"},
		{Key: "e", Action: "Export"},
		{Key: "x", Action: "Chart PNG"},
		{Key: "?", Action: "Help"},
		{Key: "q", Action: "Quit"},
	}
}

// OnKey handles keyboard events
func (v *DashboardView) OnKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyRune && (event.Rune() == 't' || event.Rune() == 'T') {
		v.RunComparison()
		return nil
	}
	return event
}

// RunComparison starts a comparison in the background. It is ignored while
// one is already running or after the view stopped.
func (v *DashboardView) RunComparison() {
	if v.stopped.Load() {
		return
	}

	v.mu.Lock()
	if v.loading {
		v.mu.Unlock()
		return
	}
	v.loading = true
	ctx := v.ctx
	v.mu.Unlock()

	go func() {
		defer func() {
			v.mu.Lock()
			v.loading = false
			v.mu.Unlock()
		}()
		if _, err := v.model.RunComparison(ctx); err != nil {
			v.logger.Debug().Err(err).Msg("Comparison from view failed")
		}
	}()
}

// Stop detaches the view from the model. Snapshots arriving afterwards are
// dropped.
func (v *DashboardView) Stop() error {
	v.stopped.Store(true)
	v.model.SetOnChange(nil)
	return nil
}

// syncUserInput shows the stored user id once editing ends, so "0" or an
// empty field reads back as the clamped value
func (v *DashboardView) syncUserInput() {
	id := strconv.Itoa(v.model.Snapshot().UserID)
	if v.userInput.GetText() != id {
		v.userInput.SetText(id)
	}
}

func (v *DashboardView) onChange(s dashboard.State) {
	if v.stopped.Load() {
		return
	}

	v.mu.Lock()
	queue := v.queue
	v.mu.Unlock()

	queue(func() {
		if v.stopped.Load() {
			return
		}
		v.apply(s)
	})
}

// apply renders a snapshot; it must run on the UI goroutine
func (v *DashboardView) apply(s dashboard.State) {
	if dashboard.ClampUserID(v.userInput.GetText()) != s.UserID {
		v.userInput.SetText(strconv.Itoa(s.UserID))
	}

	if s.Loading {
		v.button.SetLabel(buttonLoading)
	} else {
		v.button.SetLabel(buttonIdle)
	}

	if s.Error != "" {
		v.errorView.SetText("[red]" + tview.Escape(s.Error) + "[white]")
	} else {
		v.errorView.SetText("")
	}

	if s.Stats != nil {
		v.metrics.Update(s.Stats)
		v.container.ResizeItem(v.metrics, metricsHeight, 0)
	} else {
		v.container.ResizeItem(v.metrics, 0, 0)
	}

	v.chart.SetData(s.Chart())
	if v.opts.ShowDetails {
		v.details.Update(s.Latest())
	}

	if v.opts.OnState != nil {
		v.opts.OnState(s)
	}
}
