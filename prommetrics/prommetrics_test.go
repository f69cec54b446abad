package prommetrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hclust"
	"github.com/hupe1980/hclust/feature"
	"github.com/hupe1980/hclust/linkage"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "hclust")
	require.NoError(t, err)

	c.RecordDistances(100, 2*time.Millisecond, nil)
	c.RecordDistances(100, time.Millisecond, errors.New("boom"))
	c.RecordLinkage(100, "complete", time.Second, nil)
	c.RecordCut(4, 3, time.Microsecond, nil)
	c.RecordCut(2, 2, time.Microsecond, nil)
	c.RecordCache("tree", true)
	c.RecordCache("tree", false)
	c.RecordCache("tree", false)

	assert.Equal(t, 1.0, promtest.ToFloat64(c.distances.WithLabelValues("ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.distances.WithLabelValues("error")))
	assert.Equal(t, 100.0, promtest.ToFloat64(c.distanceRows))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.linkage.WithLabelValues("complete", "ok")))
	assert.Equal(t, 2.0, promtest.ToFloat64(c.cuts.WithLabelValues("ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.cutShortfalls))
	assert.Equal(t, 2.0, promtest.ToFloat64(c.cacheLookups.WithLabelValues("tree", "miss")))

	expected := `
# HELP hclust_cache_lookups_total Artifact cache lookups by artifact kind and result.
# TYPE hclust_cache_lookups_total counter
hclust_cache_lookups_total{kind="tree",result="hit"} 1
hclust_cache_lookups_total{kind="tree",result="miss"} 2
`
	require.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(expected), "hclust_cache_lookups_total"))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, "hclust")
	require.NoError(t, err)

	_, err = New(reg, "hclust")
	assert.Error(t, err)
}

func TestCollector_WithEngine(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "test")
	require.NoError(t, err)

	m, err := feature.New([][]float64{{0, 1}, {1, 1}, {5, 0}, {6, 0}}, []bool{false, true})
	require.NoError(t, err)

	eng := hclust.New(hclust.WithMetricsCollector(c))
	for range 2 {
		_, err := eng.Cluster(t.Context(), m, linkage.Complete, 2)
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, promtest.ToFloat64(c.distances.WithLabelValues("ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.linkage.WithLabelValues("complete", "ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.cacheLookups.WithLabelValues("tree", "hit")))
	assert.Equal(t, 2.0, promtest.ToFloat64(c.cuts.WithLabelValues("ok")))
}
