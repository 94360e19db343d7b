package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jontk/fsdash/internal/api"
	"github.com/jontk/fsdash/internal/logging"
)

// DefaultPollInterval is how often aggregate stats are refreshed
const DefaultPollInterval = 5 * time.Second

// FetchFunc retrieves one stats snapshot
type FetchFunc func(ctx context.Context) (*api.AggregateStats, error)

// PollOutcome describes a single poll attempt. Skipped outcomes carry no
// stats or error; they mark a tick dropped because a poll was in flight.
type PollOutcome struct {
	Stats    *api.AggregateStats
	Err      error
	Started  time.Time
	Duration time.Duration
	Skipped  bool
}

// Sink consumes poll outcomes
type Sink func(PollOutcome)

// StatsSink forwards successful snapshots to apply and ignores the rest
func StatsSink(apply func(*api.AggregateStats)) Sink {
	return func(o PollOutcome) {
		if o.Skipped || o.Err != nil || o.Stats == nil {
			return
		}
		apply(o.Stats)
	}
}

// LogSink records every outcome. Failures are warnings; they never reach the UI.
func LogSink(logger *logging.Logger) Sink {
	return func(o PollOutcome) {
		switch {
		case o.Skipped:
			logger.Debug().Msg("Stats poll skipped, previous poll still running")
		case o.Err != nil:
			logger.Warn().Err(o.Err).Dur("duration", o.Duration).Msg("Stats poll failed")
		default:
			logger.Debug().Dur("duration", o.Duration).Msg("Stats refreshed")
		}
	}
}

// Poller fetches stats once on start and then on every tick. At most one
// fetch is outstanding at a time.
type Poller struct {
	fetch FetchFunc
	sinks []Sink

	mu       sync.Mutex
	interval time.Duration
	ticker   *time.Ticker
	cancel   context.CancelFunc
	done     chan struct{}

	inFlight atomic.Bool
	polls    sync.WaitGroup
}

// NewPoller creates a stopped poller. A non-positive interval falls back to
// DefaultPollInterval.
func NewPoller(fetch FetchFunc, interval time.Duration, sinks ...Sink) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		fetch:    fetch,
		interval: interval,
		sinks:    sinks,
	}
}

// Start begins polling until ctx is canceled or Stop is called. Starting a
// running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.ticker = time.NewTicker(p.interval)

	go p.loop(ctx, p.ticker, p.done)
}

// Stop halts the poller and waits for any outstanding fetch to return.
// No fetch starts after Stop returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.polls.Wait()
}

// Running reports whether the poller has been started and not stopped
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Interval returns the current tick interval
func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// SetInterval changes the tick interval, taking effect on a running poller
// immediately. Non-positive values are ignored.
func (p *Poller) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.interval = d
	if p.cancel != nil && p.ticker != nil {
		p.ticker.Reset(d)
	}
}

func (p *Poller) loop(ctx context.Context, ticker *time.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	p.trigger(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			p.trigger(ctx)
		}
	}
}

// trigger starts a fetch unless one is already running
func (p *Poller) trigger(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.emit(PollOutcome{Started: time.Now(), Skipped: true})
		return
	}

	p.polls.Add(1)
	go func() {
		defer p.polls.Done()
		defer p.inFlight.Store(false)

		started := time.Now()
		stats, err := p.fetch(ctx)
		if ctx.Err() != nil {
			// stopped while fetching; nobody is listening for this result
			return
		}
		p.emit(PollOutcome{
			Stats:    stats,
			Err:      err,
			Started:  started,
			Duration: time.Since(started),
		})
	}()
}

func (p *Poller) emit(o PollOutcome) {
	for _, sink := range p.sinks {
		sink(o)
	}
}
