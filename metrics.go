package datasetter

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package
// server ships a Prometheus implementation.
type MetricsCollector interface {
	// RecordCount is called after each Count.
	RecordCount(dataset string, duration time.Duration, err error)

	// RecordCountBy is called after each CountBy.
	RecordCountBy(dataset, facet string, duration time.Duration, err error)

	// RecordSample is called after each Sample. rows is the number of rows returned.
	RecordSample(dataset string, rows int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCount(string, time.Duration, error)           {}
func (NoopMetricsCollector) RecordCountBy(string, string, time.Duration, error) {}
func (NoopMetricsCollector) RecordSample(string, int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	CountCount       atomic.Int64
	CountErrors      atomic.Int64
	CountTotalNanos  atomic.Int64
	CountByCount     atomic.Int64
	CountByErrors    atomic.Int64
	CountByNanos     atomic.Int64
	SampleCount      atomic.Int64
	SampleErrors     atomic.Int64
	SampleRows       atomic.Int64
	SampleTotalNanos atomic.Int64
}

// RecordCount implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCount(_ string, duration time.Duration, err error) {
	b.CountCount.Add(1)
	b.CountTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CountErrors.Add(1)
	}
}

// RecordCountBy implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCountBy(_, _ string, duration time.Duration, err error) {
	b.CountByCount.Add(1)
	b.CountByNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CountByErrors.Add(1)
	}
}

// RecordSample implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSample(_ string, rows int, duration time.Duration, err error) {
	b.SampleCount.Add(1)
	b.SampleTotalNanos.Add(duration.Nanoseconds())
	b.SampleRows.Add(int64(rows))
	if err != nil {
		b.SampleErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CountCount:      b.CountCount.Load(),
		CountErrors:     b.CountErrors.Load(),
		CountAvgNanos:   avg(b.CountTotalNanos.Load(), b.CountCount.Load()),
		CountByCount:    b.CountByCount.Load(),
		CountByErrors:   b.CountByErrors.Load(),
		CountByAvgNanos: avg(b.CountByNanos.Load(), b.CountByCount.Load()),
		SampleCount:     b.SampleCount.Load(),
		SampleErrors:    b.SampleErrors.Load(),
		SampleRows:      b.SampleRows.Load(),
		SampleAvgNanos:  avg(b.SampleTotalNanos.Load(), b.SampleCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CountCount      int64
	CountErrors     int64
	CountAvgNanos   int64
	CountByCount    int64
	CountByErrors   int64
	CountByAvgNanos int64
	SampleCount     int64
	SampleErrors    int64
	SampleRows      int64
	SampleAvgNanos  int64
}
