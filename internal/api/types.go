package api

import (
	"encoding/json"
	"fmt"
)

// BasicStats aggregates the basic implementation's request history
type BasicStats struct {
	TotalRequests        int      `json:"total_requests"`
	AvgComputationTime   float64  `json:"avg_computation_time"`
	TotalComputationTime *float64 `json:"total_computation_time,omitempty"`
}

// OptimizedStats aggregates the optimized implementation's request history
type OptimizedStats struct {
	TotalRequests        int      `json:"total_requests"`
	AvgComputationTime   float64  `json:"avg_computation_time"`
	TotalComputationTime *float64 `json:"total_computation_time,omitempty"`
	CacheSize            int      `json:"cache_size"`
}

// AggregateStats is one complete /stats snapshot
type AggregateStats struct {
	Basic         BasicStats     `json:"basic"`
	Optimized     OptimizedStats `json:"optimized"`
	MemoryUsageMB *float64       `json:"memory_usage_mb,omitempty"`
}

// RequestMetrics describes how a single feature request was served
type RequestMetrics struct {
	CacheHit      bool    `json:"cache_hit" yaml:"cache_hit"`
	MemoryUsageMB float64 `json:"memory_usage_mb" yaml:"memory_usage_mb"`
	FeatureCount  *int    `json:"feature_count,omitempty" yaml:"feature_count,omitempty"`
}

// FeatureResponse is the payload of /basic/{id} and /optimized/{id}
type FeatureResponse struct {
	ComputationTime float64         `json:"computation_time"`
	Metrics         RequestMetrics  `json:"metrics"`
	Features        json.RawMessage `json:"features,omitempty"`
}

// HealthStatus is the payload of /health
type HealthStatus struct {
	Status string `json:"status"`
}

// Wire shapes. Required fields are pointers so a missing key is
// distinguishable from a zero value.

type wireBasicStats struct {
	TotalRequests        *int     `json:"total_requests"`
	AvgComputationTime   *float64 `json:"avg_computation_time"`
	TotalComputationTime *float64 `json:"total_computation_time"`
}

type wireOptimizedStats struct {
	TotalRequests        *int     `json:"total_requests"`
	AvgComputationTime   *float64 `json:"avg_computation_time"`
	TotalComputationTime *float64 `json:"total_computation_time"`
	CacheSize            *int     `json:"cache_size"`
}

type wireStats struct {
	Basic         *wireBasicStats     `json:"basic"`
	Optimized     *wireOptimizedStats `json:"optimized"`
	MemoryUsageMB *float64            `json:"memory_usage_mb"`
}

func (w *wireStats) toStats() (*AggregateStats, error) {
	switch {
	case w.Basic == nil:
		return nil, fmt.Errorf("missing basic section")
	case w.Optimized == nil:
		return nil, fmt.Errorf("missing optimized section")
	case w.Basic.TotalRequests == nil:
		return nil, fmt.Errorf("missing basic.total_requests")
	case w.Basic.AvgComputationTime == nil:
		return nil, fmt.Errorf("missing basic.avg_computation_time")
	case w.Optimized.TotalRequests == nil:
		return nil, fmt.Errorf("missing optimized.total_requests")
	case w.Optimized.AvgComputationTime == nil:
		return nil, fmt.Errorf("missing optimized.avg_computation_time")
	case w.Optimized.CacheSize == nil:
		return nil, fmt.Errorf("missing optimized.cache_size")
	}

	return &AggregateStats{
		Basic: BasicStats{
			TotalRequests:        *w.Basic.TotalRequests,
			AvgComputationTime:   *w.Basic.AvgComputationTime,
			TotalComputationTime: w.Basic.TotalComputationTime,
		},
		Optimized: OptimizedStats{
			TotalRequests:        *w.Optimized.TotalRequests,
			AvgComputationTime:   *w.Optimized.AvgComputationTime,
			TotalComputationTime: w.Optimized.TotalComputationTime,
			CacheSize:            *w.Optimized.CacheSize,
		},
		MemoryUsageMB: w.MemoryUsageMB,
	}, nil
}

type wireMetrics struct {
	CacheHit      *bool    `json:"cache_hit"`
	MemoryUsageMB *float64 `json:"memory_usage_mb"`
	FeatureCount  *int     `json:"feature_count"`
}

type wireFeatures struct {
	ComputationTime *float64        `json:"computation_time"`
	Metrics         *wireMetrics    `json:"metrics"`
	Features        json.RawMessage `json:"features"`
}

func (w *wireFeatures) toResponse() (*FeatureResponse, error) {
	switch {
	case w.ComputationTime == nil:
		return nil, fmt.Errorf("missing computation_time")
	case w.Metrics == nil:
		return nil, fmt.Errorf("missing metrics")
	case w.Metrics.CacheHit == nil:
		return nil, fmt.Errorf("missing metrics.cache_hit")
	case w.Metrics.MemoryUsageMB == nil:
		return nil, fmt.Errorf("missing metrics.memory_usage_mb")
	}

	return &FeatureResponse{
		ComputationTime: *w.ComputationTime,
		Metrics: RequestMetrics{
			CacheHit:      *w.Metrics.CacheHit,
			MemoryUsageMB: *w.Metrics.MemoryUsageMB,
			FeatureCount:  w.Metrics.FeatureCount,
		},
		Features: w.Features,
	}, nil
}
