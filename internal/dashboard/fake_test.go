package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jontk/fsdash/internal/api"
)

var errBackend = errors.New("backend down")

// fakeBackend returns canned responses and counts calls
type fakeBackend struct {
	mu           sync.Mutex
	basicTime    float64
	optimized    float64
	basicErr     error
	optimizedErr error
	stats        *api.AggregateStats
	statsErr     error
	statsDelay   time.Duration

	statsCalls atomic.Int32
	lastUser   atomic.Int32
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		basicTime: 100,
		optimized: 25,
		stats: &api.AggregateStats{
			Basic:     api.BasicStats{TotalRequests: 3, AvgComputationTime: 101.25},
			Optimized: api.OptimizedStats{TotalRequests: 3, AvgComputationTime: 0.5, CacheSize: 2},
		},
	}
}

func (f *fakeBackend) setStats(s *api.AggregateStats, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats, f.statsErr = s, err
}

func (f *fakeBackend) Stats(ctx context.Context) (*api.AggregateStats, error) {
	f.statsCalls.Add(1)
	f.mu.Lock()
	s, err, delay := f.stats, f.statsErr, f.statsDelay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	cp := *s
	return &cp, nil
}

func (f *fakeBackend) Basic(_ context.Context, userID int) (*api.FeatureResponse, error) {
	f.lastUser.Store(int32(userID))
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.basicErr != nil {
		return nil, f.basicErr
	}
	return &api.FeatureResponse{
		ComputationTime: f.basicTime,
		Metrics:         api.RequestMetrics{CacheHit: false, MemoryUsageMB: 50},
	}, nil
}

func (f *fakeBackend) Optimized(_ context.Context, _ int) (*api.FeatureResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.optimizedErr != nil {
		return nil, f.optimizedErr
	}
	return &api.FeatureResponse{
		ComputationTime: f.optimized,
		Metrics:         api.RequestMetrics{CacheHit: true, MemoryUsageMB: 51.5},
		Features:        []byte(`{"engagement_score":42}`),
	}, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
