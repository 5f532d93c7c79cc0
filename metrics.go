package modelcompat

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see package
// prommetrics for a Prometheus implementation.
type MetricsCollector interface {
	// RecordLoad is called after each snapshot load.
	// err is nil if the snapshot loaded.
	RecordLoad(duration time.Duration, err error)

	// RecordIntersect is called after each range intersection.
	// versions is the size of the range, failed the number of snapshots
	// excluded, results the number of models found.
	RecordIntersect(versions, failed, results int, duration time.Duration)

	// RecordDifference is called after each pairwise difference.
	RecordDifference(results int, duration time.Duration, err error)

	// RecordSingle is called after each single-version view.
	RecordSingle(results int, duration time.Duration, err error)

	// RecordSuperseded is called when a finished result is discarded
	// because a newer operation was issued.
	RecordSuperseded()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(time.Duration, error)              {}
func (NoopMetricsCollector) RecordIntersect(int, int, int, time.Duration) {}
func (NoopMetricsCollector) RecordDifference(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordSingle(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordSuperseded()                            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount           atomic.Int64
	LoadErrors          atomic.Int64
	LoadTotalNanos      atomic.Int64
	IntersectCount      atomic.Int64
	IntersectDegraded   atomic.Int64
	IntersectTotalNanos atomic.Int64
	DifferenceCount     atomic.Int64
	DifferenceErrors    atomic.Int64
	SingleCount         atomic.Int64
	SingleErrors        atomic.Int64
	SupersededCount     atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// RecordIntersect implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIntersect(versions, failed, results int, duration time.Duration) {
	b.IntersectCount.Add(1)
	b.IntersectTotalNanos.Add(duration.Nanoseconds())
	if failed > 0 {
		b.IntersectDegraded.Add(1)
	}
}

// RecordDifference implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDifference(results int, duration time.Duration, err error) {
	b.DifferenceCount.Add(1)
	if err != nil {
		b.DifferenceErrors.Add(1)
	}
}

// RecordSingle implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSingle(results int, duration time.Duration, err error) {
	b.SingleCount.Add(1)
	if err != nil {
		b.SingleErrors.Add(1)
	}
}

// RecordSuperseded implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSuperseded() {
	b.SupersededCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:         b.LoadCount.Load(),
		LoadErrors:        b.LoadErrors.Load(),
		LoadAvgNanos:      avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		IntersectCount:    b.IntersectCount.Load(),
		IntersectDegraded: b.IntersectDegraded.Load(),
		IntersectAvgNanos: avg(b.IntersectTotalNanos.Load(), b.IntersectCount.Load()),
		DifferenceCount:   b.DifferenceCount.Load(),
		DifferenceErrors:  b.DifferenceErrors.Load(),
		SingleCount:       b.SingleCount.Load(),
		SingleErrors:      b.SingleErrors.Load(),
		SupersededCount:   b.SupersededCount.Load(),
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
	LoadCount         int64
	LoadErrors        int64
	LoadAvgNanos      int64
	IntersectCount    int64
	IntersectDegraded int64
	IntersectAvgNanos int64
	DifferenceCount   int64
	DifferenceErrors  int64
	SingleCount       int64
	SingleErrors      int64
	SupersededCount   int64
}
