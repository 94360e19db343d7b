package views

import (
	"context"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jontk/fsdash/internal/api"
	"github.com/jontk/fsdash/internal/dashboard"
	"github.com/jontk/fsdash/internal/logging"
	"github.com/jontk/fsdash/internal/mockapi"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uiQueue collects queued updates so the test goroutine can run them,
// standing in for the tview event loop
type uiQueue struct {
	mu      sync.Mutex
	pending []func()
	total   int
}

func (q *uiQueue) queue(f func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, f)
	q.total++
}

func (q *uiQueue) drain() {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, f := range pending {
		f()
	}
}

func (q *uiQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.total
}

func newModel(t *testing.T, mock *mockapi.Server) *dashboard.Dashboard {
	t.Helper()
	srv := httptest.NewServer(mock.Handler())
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	return dashboard.New(client, dashboard.Options{Logger: logging.Nop(), PollInterval: time.Hour})
}

func TestDashboardViewInitial(t *testing.T) {
	model := newModel(t, mockapi.NewServer(0, logging.Nop()))
	v := NewDashboardView(model, DashboardOptions{ShowDetails: true})

	assert.Equal(t, "dashboard", v.Name())
	assert.Equal(t, buttonIdle, v.button.GetLabel())
	assert.Equal(t, "1", v.userInput.GetText())
	assert.Empty(t, v.errorView.GetText(true))
	assert.True(t, v.chart.Data().Empty())
	assert.Len(t, v.Focusables(), 2)
	assert.NotEmpty(t, v.Hints())
}

func TestDashboardViewApply(t *testing.T) {
	model := newModel(t, mockapi.NewServer(0, logging.Nop()))
	var seen []dashboard.State
	v := NewDashboardView(model, DashboardOptions{
		ShowDetails: true,
		OnState:     func(s dashboard.State) { seen = append(seen, s) },
	})

	v.apply(dashboard.State{
		UserID:  42,
		Loading: true,
		Error:   dashboard.FetchFailedMessage,
		Stats: &api.AggregateStats{
			Basic:     api.BasicStats{TotalRequests: 2, AvgComputationTime: 100},
			Optimized: api.OptimizedStats{TotalRequests: 2, AvgComputationTime: 1, CacheSize: 1},
		},
		History: []dashboard.ComparisonResult{{Timestamp: "12:00:00", BasicTime: 100, OptimizedTime: 1, Improvement: "99.0"}},
	})

	assert.Equal(t, "42", v.userInput.GetText())
	assert.Equal(t, buttonLoading, v.button.GetLabel())
	assert.Equal(t, dashboard.FetchFailedMessage, v.errorView.GetText(true))
	assert.Contains(t, strings.Join(v.metrics.Lines(), "\n"), "Cache Size: 1 entries")
	assert.Equal(t, []string{"12:00:00"}, v.chart.Data().Labels)
	assert.Contains(t, v.details.GetText(true), "Improvement: 99.0%")
	require.Len(t, seen, 2, "constructor state, then the applied one")
	assert.Equal(t, 1, seen[0].UserID)
	assert.Equal(t, 42, seen[1].UserID)
}

func TestDashboardViewRunComparison(t *testing.T) {
	model := newModel(t, mockapi.NewServer(0, logging.Nop()))
	v := NewDashboardView(model, DashboardOptions{})
	q := &uiQueue{}
	v.Init(context.Background(), q.queue)

	v.OnKey(tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone))

	require.Eventually(t, func() bool {
		return len(model.Snapshot().History) == 1 && !model.Snapshot().Loading
	}, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		v.mu.Lock()
		defer v.mu.Unlock()
		return !v.loading
	}, time.Second, time.Millisecond)

	q.drain()
	assert.Equal(t, buttonIdle, v.button.GetLabel())
	assert.Len(t, v.chart.Data().Labels, 1)
	assert.Empty(t, v.errorView.GetText(true))
}

func TestDashboardViewShowsFailure(t *testing.T) {
	mock := mockapi.NewServer(0, logging.Nop())
	mock.FailNext("basic", 1)
	model := newModel(t, mock)
	v := NewDashboardView(model, DashboardOptions{})
	q := &uiQueue{}
	v.Init(context.Background(), q.queue)

	v.RunComparison()
	require.Eventually(t, func() bool {
		return model.Snapshot().Error != "" && !model.Snapshot().Loading
	}, 2*time.Second, 5*time.Millisecond)

	q.drain()
	assert.Equal(t, dashboard.FetchFailedMessage, v.errorView.GetText(true))
	assert.True(t, v.chart.Data().Empty())
}

func TestDashboardViewUserInput(t *testing.T) {
	model := newModel(t, mockapi.NewServer(0, logging.Nop()))
	v := NewDashboardView(model, DashboardOptions{})

	v.userInput.SetText("17")
	assert.Equal(t, 17, model.Snapshot().UserID)

	v.userInput.SetText("")
	assert.Equal(t, 1, model.Snapshot().UserID)
}

func TestDashboardViewUserInputShowsClampedValue(t *testing.T) {
	tests := []struct {
		name string
		text string
		end  func(v *DashboardView)
		want string
	}{
		{name: "zero on blur", text: "0", end: func(v *DashboardView) { v.userInput.Blur() }, want: "1"},
		{name: "empty on blur", text: "", end: func(v *DashboardView) { v.userInput.Blur() }, want: "1"},
		{name: "zero on escape", text: "0", end: func(v *DashboardView) {
			v.userInput.InputHandler()(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), func(tview.Primitive) {})
		}, want: "1"},
		{name: "valid kept", text: "27", end: func(v *DashboardView) { v.userInput.Blur() }, want: "27"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := newModel(t, mockapi.NewServer(0, logging.Nop()))
			v := NewDashboardView(model, DashboardOptions{})

			v.userInput.SetText(tt.text)
			assert.Equal(t, tt.text, v.userInput.GetText(), "field is not rewritten while editing")

			tt.end(v)
			assert.Equal(t, tt.want, v.userInput.GetText())
			assert.Equal(t, tt.want, strconv.Itoa(model.Snapshot().UserID))
		})
	}
}

func TestDashboardViewDropsUpdatesAfterStop(t *testing.T) {
	model := newModel(t, mockapi.NewServer(0, logging.Nop()))
	v := NewDashboardView(model, DashboardOptions{})
	q := &uiQueue{}
	v.Init(context.Background(), q.queue)

	model.SetUserID(5)
	assert.Equal(t, 1, q.count())

	require.NoError(t, v.Stop())
	model.SetUserID(6)
	assert.Equal(t, 1, q.count())

	// an update queued before Stop is discarded when it finally runs
	q.drain()
	assert.Equal(t, "1", v.userInput.GetText())

	v.RunComparison()
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, model.Snapshot().History)
}

func TestHelpView(t *testing.T) {
	closed := 0
	model := newModel(t, mockapi.NewServer(0, logging.Nop()))
	hv := NewHelpView(NewDashboardView(model, DashboardOptions{}).Hints(), func() { closed++ })

	assert.Contains(t, hv.Text(), "<t> Test")
	assert.Contains(t, hv.Text(), "<q> Quit")

	assert.Nil(t, hv.OnKey(tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone)))
	assert.Nil(t, hv.OnKey(tcell.NewEventKey(tcell.KeyRune, '?', tcell.ModNone)))
	assert.NotNil(t, hv.OnKey(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))
	assert.Equal(t, 2, closed)
}
