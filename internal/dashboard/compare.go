package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jontk/fsdash/internal/api"
	"golang.org/x/sync/errgroup"
)

// TimestampLayout is the wall-clock label used for chart axes and exports
const TimestampLayout = "15:04:05"

// Backend is the subset of the API client the dashboard depends on
type Backend interface {
	Stats(ctx context.Context) (*api.AggregateStats, error)
	Basic(ctx context.Context, userID int) (*api.FeatureResponse, error)
	Optimized(ctx context.Context, userID int) (*api.FeatureResponse, error)
}

// ComparisonResult is one basic-vs-optimized measurement for a user
type ComparisonResult struct {
	ID               string             `json:"id" yaml:"id"`
	UserID           int                `json:"user_id" yaml:"user_id"`
	At               time.Time          `json:"at" yaml:"at"`
	Timestamp        string             `json:"timestamp" yaml:"timestamp"`
	BasicTime        float64            `json:"basic_time" yaml:"basic_time"`
	BasicMetrics     api.RequestMetrics `json:"basic_metrics" yaml:"basic_metrics"`
	OptimizedTime    float64            `json:"optimized_time" yaml:"optimized_time"`
	OptimizedMetrics api.RequestMetrics `json:"optimized_metrics" yaml:"optimized_metrics"`
	Features         json.RawMessage    `json:"features,omitempty" yaml:"-"`
	Improvement      string             `json:"improvement" yaml:"improvement"`
}

// Compare fetches features for userID from both implementations concurrently
// and joins the responses into a result stamped by clock once both have
// arrived. If either request fails the other is canceled and the first error
// is returned. A nil clock means time.Now.
func Compare(ctx context.Context, backend Backend, userID int, clock func() time.Time) (ComparisonResult, error) {
	if clock == nil {
		clock = time.Now
	}

	var basic, optimized *api.FeatureResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		basic, err = backend.Basic(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		optimized, err = backend.Optimized(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return ComparisonResult{}, err
	}

	now := clock()
	return ComparisonResult{
		ID:               uuid.NewString(),
		UserID:           userID,
		At:               now,
		Timestamp:        now.Format(TimestampLayout),
		BasicTime:        basic.ComputationTime,
		BasicMetrics:     basic.Metrics,
		OptimizedTime:    optimized.ComputationTime,
		OptimizedMetrics: optimized.Metrics,
		Features:         optimized.Features,
		Improvement:      Improvement(basic.ComputationTime, optimized.ComputationTime),
	}, nil
}
