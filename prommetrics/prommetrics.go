// Package prommetrics exports hclust pipeline metrics to Prometheus.
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/hclust"
)

var _ hclust.MetricsCollector = (*Collector)(nil)

// Collector implements hclust.MetricsCollector with Prometheus counters and
// histograms.
type Collector struct {
	distances       *prometheus.CounterVec
	distanceSeconds prometheus.Histogram
	distanceRows    prometheus.Gauge
	linkage         *prometheus.CounterVec
	linkageSeconds  *prometheus.HistogramVec
	cuts            *prometheus.CounterVec
	cutShortfalls   prometheus.Counter
	cacheLookups    *prometheus.CounterVec
}

// New creates a Collector and registers its metrics on reg.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	// Complete linkage on ~12k sessions takes tens of seconds.
	buckets := prometheus.ExponentialBuckets(0.001, 4, 10)

	c := &Collector{
		distances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "distances",
			Name:      "runs_total",
			Help:      "Number of dissimilarity computations by outcome.",
		}, []string{"status"}),
		distanceSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "distances",
			Name:      "duration_seconds",
			Help:      "Duration of dissimilarity computations.",
			Buckets:   buckets,
		}),
		distanceRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "distances",
			Name:      "observations",
			Help:      "Number of observations in the last dissimilarity computation.",
		}),
		linkage: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "linkage",
			Name:      "runs_total",
			Help:      "Number of merge tree builds by method and outcome.",
		}, []string{"method", "status"}),
		linkageSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "linkage",
			Name:      "duration_seconds",
			Help:      "Duration of merge tree builds.",
			Buckets:   buckets,
		}, []string{"method"}),
		cuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fcluster",
			Name:      "cuts_total",
			Help:      "Number of flat cluster extractions by outcome.",
		}, []string{"status"}),
		cutShortfalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fcluster",
			Name:      "shortfalls_total",
			Help:      "Cuts that produced fewer clusters than requested because of tied merges.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Artifact cache lookups by artifact kind and result.",
		}, []string{"kind", "result"}),
	}

	for _, m := range []prometheus.Collector{
		c.distances, c.distanceSeconds, c.distanceRows,
		c.linkage, c.linkageSeconds,
		c.cuts, c.cutShortfalls,
		c.cacheLookups,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordDistances implements hclust.MetricsCollector.
func (c *Collector) RecordDistances(n int, d time.Duration, err error) {
	c.distances.WithLabelValues(status(err)).Inc()
	if err != nil {
		return
	}
	c.distanceSeconds.Observe(d.Seconds())
	c.distanceRows.Set(float64(n))
}

// RecordLinkage implements hclust.MetricsCollector.
func (c *Collector) RecordLinkage(_ int, method string, d time.Duration, err error) {
	c.linkage.WithLabelValues(method, status(err)).Inc()
	if err == nil {
		c.linkageSeconds.WithLabelValues(method).Observe(d.Seconds())
	}
}

// RecordCut implements hclust.MetricsCollector.
func (c *Collector) RecordCut(k, clusters int, _ time.Duration, err error) {
	c.cuts.WithLabelValues(status(err)).Inc()
	if err == nil && clusters < k {
		c.cutShortfalls.Inc()
	}
}

// RecordCache implements hclust.MetricsCollector.
func (c *Collector) RecordCache(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(kind, result).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
