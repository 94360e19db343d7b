// Package dashboard holds the comparison dashboard model: the selected user,
// the bounded result history, the latest aggregate stats and the
// loading/error flags. Views render immutable State snapshots; all mutation
// goes through Dashboard methods.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/jontk/fsdash/internal/api"
	"github.com/jontk/fsdash/internal/logging"
)

// FetchFailedMessage is shown whenever a comparison cannot be completed
const FetchFailedMessage = "Failed to fetch features. Please try again."

// State is a point-in-time copy of the dashboard model
type State struct {
	UserID         int
	History        []ComparisonResult
	Stats          *api.AggregateStats
	StatsUpdatedAt time.Time
	Loading        bool
	Error          string
}

// Latest returns the newest comparison result
func (s State) Latest() (ComparisonResult, bool) {
	if len(s.History) == 0 {
		return ComparisonResult{}, false
	}
	return s.History[len(s.History)-1], true
}

// Chart projects the history onto chart series
func (s State) Chart() Chart {
	return ChartData(s.History)
}

// Options configures a Dashboard
type Options struct {
	// PollInterval is the stats refresh period; zero means DefaultPollInterval
	PollInterval time.Duration

	// UserID is the initial user; values below 1 become 1
	UserID int

	// Logger receives poll and comparison diagnostics
	Logger *logging.Logger

	// OnChange is called with a fresh snapshot after every mutation
	OnChange func(State)

	// Clock stamps comparison results; defaults to time.Now
	Clock func() time.Time
}

// Dashboard is the comparison dashboard model
type Dashboard struct {
	backend Backend
	logger  *logging.Logger
	clock   func() time.Time
	poller  *Poller

	mu             sync.Mutex
	userID         int
	history        *History
	stats          *api.AggregateStats
	statsUpdatedAt time.Time
	loading        bool
	errMsg         string
	onChange       func(State)
}

// New creates a dashboard backed by backend
func New(backend Backend, opts Options) *Dashboard {
	if opts.Logger == nil {
		opts.Logger = logging.GetLogger()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.UserID < 1 {
		opts.UserID = 1
	}

	d := &Dashboard{
		backend:  backend,
		logger:   opts.Logger.WithComponent("dashboard"),
		clock:    opts.Clock,
		userID:   opts.UserID,
		history:  NewHistory(),
		onChange: opts.OnChange,
	}
	d.poller = NewPoller(backend.Stats, opts.PollInterval,
		StatsSink(d.applyStats),
		LogSink(d.logger),
	)
	return d
}

// SetOnChange replaces the change callback. Passing nil silences notifications.
func (d *Dashboard) SetOnChange(fn func(State)) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

// Activate starts the stats poller: one poll now, then one per interval
func (d *Dashboard) Activate(ctx context.Context) {
	d.poller.Start(ctx)
}

// Deactivate stops the stats poller and waits for an in-flight poll
func (d *Dashboard) Deactivate() {
	d.poller.Stop()
}

// SetPollInterval retunes the stats poller
func (d *Dashboard) SetPollInterval(interval time.Duration) {
	d.poller.SetInterval(interval)
}

// PollInterval returns the current stats refresh period
func (d *Dashboard) PollInterval() time.Duration {
	return d.poller.Interval()
}

// SetUserInput sets the user from raw input text, clamping to at least 1
func (d *Dashboard) SetUserInput(text string) int {
	return d.SetUserID(ClampUserID(text))
}

// SetUserID sets the user, clamping to at least 1
func (d *Dashboard) SetUserID(id int) int {
	if id < 1 {
		id = 1
	}

	d.mu.Lock()
	changed := d.userID != id
	d.userID = id
	d.mu.Unlock()

	if changed {
		d.notify()
	}
	return id
}

// RefreshStats fetches one stats snapshot. On success the stored stats are
// replaced; on failure they are left untouched and the error is returned.
func (d *Dashboard) RefreshStats(ctx context.Context) (*api.AggregateStats, error) {
	stats, err := d.backend.Stats(ctx)
	if err != nil {
		return nil, err
	}
	d.applyStats(stats)
	return stats, nil
}

func (d *Dashboard) applyStats(stats *api.AggregateStats) {
	d.mu.Lock()
	d.stats = stats
	d.statsUpdatedAt = d.clock()
	d.mu.Unlock()

	d.notify()
}

// RunComparison compares both implementations for the current user. Success
// appends to history. Failure sets FetchFailedMessage, leaves history as it
// was and returns the underlying error. Loading is cleared either way.
func (d *Dashboard) RunComparison(ctx context.Context) (ComparisonResult, error) {
	d.mu.Lock()
	d.loading = true
	d.errMsg = ""
	userID := d.userID
	d.mu.Unlock()
	d.notify()

	defer func() {
		d.mu.Lock()
		d.loading = false
		d.mu.Unlock()
		d.notify()
	}()

	result, err := Compare(ctx, d.backend, userID, d.clock)
	if err != nil {
		d.logger.Error().Err(err).Int("user_id", userID).Msg("Comparison failed")

		d.mu.Lock()
		d.errMsg = FetchFailedMessage
		d.mu.Unlock()
		return ComparisonResult{}, err
	}

	d.history.Append(result)
	d.logger.Info().
		Int("user_id", userID).
		Float64("basic_ms", result.BasicTime).
		Float64("optimized_ms", result.OptimizedTime).
		Str("improvement", result.Improvement).
		Int("history", d.history.Len()).
		Msg("Comparison completed")
	return result, nil
}

// Snapshot returns a copy of the current state
func (d *Dashboard) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dashboard) snapshotLocked() State {
	var stats *api.AggregateStats
	if d.stats != nil {
		cp := *d.stats
		stats = &cp
	}
	return State{
		UserID:         d.userID,
		History:        d.history.Items(),
		Stats:          stats,
		StatsUpdatedAt: d.statsUpdatedAt,
		Loading:        d.loading,
		Error:          d.errMsg,
	}
}

func (d *Dashboard) notify() {
	d.mu.Lock()
	fn := d.onChange
	var s State
	if fn != nil {
		s = d.snapshotLocked()
	}
	d.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}
