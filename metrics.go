package hclust

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package
// prommetrics provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordDistances is called after each dissimilarity computation over
	// n observations.
	RecordDistances(n int, duration time.Duration, err error)

	// RecordLinkage is called after each merge tree build.
	RecordLinkage(n int, method string, duration time.Duration, err error)

	// RecordCut is called after each flat cluster extraction. clusters is
	// the number of clusters produced, which may be below k.
	RecordCut(k, clusters int, duration time.Duration, err error)

	// RecordCache is called for each artifact cache lookup.
	RecordCache(kind string, hit bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDistances(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordLinkage(int, string, time.Duration, error) {}
func (NoopMetricsCollector) RecordCut(int, int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordCache(string, bool)                        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	DistancesCount      atomic.Int64
	DistancesErrors     atomic.Int64
	DistancesTotalNanos atomic.Int64
	LinkageCount        atomic.Int64
	LinkageErrors       atomic.Int64
	LinkageTotalNanos   atomic.Int64
	CutCount            atomic.Int64
	CutErrors           atomic.Int64
	CutShortfalls       atomic.Int64
	CacheHits           atomic.Int64
	CacheMisses         atomic.Int64
}

// RecordDistances implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDistances(_ int, duration time.Duration, err error) {
	b.DistancesCount.Add(1)
	b.DistancesTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DistancesErrors.Add(1)
	}
}

// RecordLinkage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLinkage(_ int, _ string, duration time.Duration, err error) {
	b.LinkageCount.Add(1)
	b.LinkageTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LinkageErrors.Add(1)
	}
}

// RecordCut implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCut(k, clusters int, _ time.Duration, err error) {
	b.CutCount.Add(1)
	if err != nil {
		b.CutErrors.Add(1)
		return
	}
	if clusters < k {
		b.CutShortfalls.Add(1)
	}
}

// RecordCache implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCache(_ string, hit bool) {
	if hit {
		b.CacheHits.Add(1)
	} else {
		b.CacheMisses.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		DistancesCount:    b.DistancesCount.Load(),
		DistancesErrors:   b.DistancesErrors.Load(),
		DistancesAvgNanos: avg(b.DistancesTotalNanos.Load(), b.DistancesCount.Load()),
		LinkageCount:      b.LinkageCount.Load(),
		LinkageErrors:     b.LinkageErrors.Load(),
		LinkageAvgNanos:   avg(b.LinkageTotalNanos.Load(), b.LinkageCount.Load()),
		CutCount:          b.CutCount.Load(),
		CutErrors:         b.CutErrors.Load(),
		CutShortfalls:     b.CutShortfalls.Load(),
		CacheHits:         b.CacheHits.Load(),
		CacheMisses:       b.CacheMisses.Load(),
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
	DistancesCount    int64
	DistancesErrors   int64
	DistancesAvgNanos int64
	LinkageCount      int64
	LinkageErrors     int64
	LinkageAvgNanos   int64
	CutCount          int64
	CutErrors         int64
	CutShortfalls     int64
	CacheHits         int64
	CacheMisses       int64
}
