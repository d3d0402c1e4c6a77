package rankgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordFetch is called after a dataset fetch run.
	// pages is the number of pages stored, err is nil if successful.
	RecordFetch(pages int, duration time.Duration, err error)

	// RecordValidate is called after a validation pass.
	// kept and dropped count classified records.
	RecordValidate(kept, dropped int, duration time.Duration, err error)

	// RecordRank is called after each ranking scan.
	// k is the configured cutoff, results the size of the result set.
	RecordRank(k, results int, duration time.Duration, err error)

	// RecordSubmit is called after each grading-service submission.
	RecordSubmit(endpoint string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFetch(int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordValidate(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRank(int, int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordSubmit(string, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FetchCount         atomic.Int64
	FetchErrors        atomic.Int64
	FetchPages         atomic.Int64
	FetchTotalNanos    atomic.Int64
	ValidateCount      atomic.Int64
	ValidateErrors     atomic.Int64
	ValidateKept       atomic.Int64
	ValidateDropped    atomic.Int64
	RankCount          atomic.Int64
	RankErrors         atomic.Int64
	RankTotalNanos     atomic.Int64
	SubmitCount        atomic.Int64
	SubmitErrors       atomic.Int64
}

// RecordFetch records a fetch run.
func (c *BasicMetricsCollector) RecordFetch(pages int, duration time.Duration, err error) {
	c.FetchCount.Add(1)
	c.FetchPages.Add(int64(pages))
	c.FetchTotalNanos.Add(int64(duration))
	if err != nil {
		c.FetchErrors.Add(1)
	}
}

// RecordValidate records a validation pass.
func (c *BasicMetricsCollector) RecordValidate(kept, dropped int, duration time.Duration, err error) {
	c.ValidateCount.Add(1)
	c.ValidateKept.Add(int64(kept))
	c.ValidateDropped.Add(int64(dropped))
	if err != nil {
		c.ValidateErrors.Add(1)
	}
}

// RecordRank records a ranking scan.
func (c *BasicMetricsCollector) RecordRank(k, results int, duration time.Duration, err error) {
	c.RankCount.Add(1)
	c.RankTotalNanos.Add(int64(duration))
	if err != nil {
		c.RankErrors.Add(1)
	}
}

// RecordSubmit records a submission.
func (c *BasicMetricsCollector) RecordSubmit(endpoint string, duration time.Duration, err error) {
	c.SubmitCount.Add(1)
	if err != nil {
		c.SubmitErrors.Add(1)
	}
}
