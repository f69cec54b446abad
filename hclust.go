package hclust

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/hclust/condensed"
	"github.com/hupe1980/hclust/dendrogram"
	"github.com/hupe1980/hclust/distance"
	"github.com/hupe1980/hclust/fcluster"
	"github.com/hupe1980/hclust/feature"
	"github.com/hupe1980/hclust/internal/cache"
	"github.com/hupe1980/hclust/internal/hash"
	"github.com/hupe1980/hclust/internal/resource"
	"github.com/hupe1980/hclust/linkage"
)

// progressInterval throttles linkage progress logs.
const progressInterval = time.Second

// Engine runs the clustering pipeline and memoizes its derived artifacts.
// It is safe for concurrent use.
type Engine struct {
	opts    options
	logger  *Logger
	metrics MetricsCollector
	rc      *resource.Controller
	store   *cache.LRU[cache.Key, any]

	mu       sync.Mutex // guards snapshot and seen
	snapshot uint64
	seen     bool
}

// Result is the outcome of Cluster.
type Result struct {
	// Fingerprint identifies the feature matrix the result was derived from.
	Fingerprint uint64

	Tree *linkage.Tree

	// Assignments holds one partition per requested k, in request order.
	Assignments []*fcluster.Assignment

	// Cached reports whether the merge tree came from the artifact cache.
	Cached bool
}

// Assignment returns the partition computed for k, or nil.
func (r *Result) Assignment(k int) *fcluster.Assignment {
	for _, a := range r.Assignments {
		if a.K() == k {
			return a
		}
	}
	return nil
}

// CacheStats is a snapshot of the artifact cache.
type CacheStats struct {
	Entries int
	Bytes   int64
	Hits    int64
	Misses  int64
}

// New creates an Engine.
func New(optFns ...Option) *Engine {
	o := applyOptions(optFns)
	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:  o.memoryLimit,
		MaxConcurrentRuns: o.maxRuns,
	})
	return &Engine{
		opts:    o,
		logger:  o.logger,
		metrics: o.metricsCollector,
		rc:      rc,
		store:   cache.NewLRU[cache.Key, any](o.cacheCapacity, rc),
	}
}

// ComputeDistances returns the Gower dissimilarity matrix of m. The result
// is shared with the cache and must be treated as read-only.
func (e *Engine) ComputeDistances(ctx context.Context, m *feature.Matrix) (*condensed.Square, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	if err := e.rc.AcquireRun(ctx); err != nil {
		return nil, translateError(err)
	}
	defer e.rc.ReleaseRun()

	fp := e.fingerprint(m)
	e.rotate(ctx, fp)

	key := cache.Key{Kind: cache.KindDistances, Fingerprint: fp}
	if sq, ok := lookup[*condensed.Square](ctx, e, key); ok {
		return sq, nil
	}

	n := int64(m.Rows())
	release, err := e.reserve(ctx, n*n*4)
	if err != nil {
		return nil, translateError(err)
	}
	defer release()

	start := time.Now()
	sq, err := distance.Gower(ctx, m, e.distanceOptions()...)
	e.recordDistances(ctx, m, time.Since(start), err)
	if err != nil {
		return nil, translateError(err)
	}

	release()
	e.put(ctx, key, sq, sq.SizeBytes())
	return sq, nil
}

// BuildMergeTree clusters the observations of d with the given method.
func (e *Engine) BuildMergeTree(ctx context.Context, d *condensed.Square, method linkage.Method) (*linkage.Tree, error) {
	if d == nil {
		return nil, ErrNilDistances
	}
	if !method.Valid() {
		return nil, linkage.ErrInvalidMethod
	}
	if err := e.rc.AcquireRun(ctx); err != nil {
		return nil, translateError(err)
	}
	defer e.rc.ReleaseRun()

	n := d.N()
	release, err := e.reserve(ctx, workspaceBytes(n))
	if err != nil {
		return nil, translateError(err)
	}
	defer release()

	start := time.Now()
	tree, err := linkage.BuildSquare(ctx, d, method, e.progress(ctx))
	e.recordLinkage(ctx, n, method, time.Since(start), err)
	if err != nil {
		return nil, translateError(err)
	}
	return tree, nil
}

// ExtractFlatClusters cuts t into at most k clusters.
func (e *Engine) ExtractFlatClusters(t *linkage.Tree, k int) (*fcluster.Assignment, error) {
	return e.cut(context.Background(), t, k)
}

// ProjectDendrogram lays out t for plotting.
func (e *Engine) ProjectDendrogram(t *linkage.Tree, opts ...dendrogram.Option) (*dendrogram.Layout, error) {
	l, err := dendrogram.Project(t, opts...)
	if err != nil {
		return nil, translateError(err)
	}
	return l, nil
}

// Cluster runs the whole pipeline on m and cuts the tree for every k. The
// condensed distances and the merge tree are memoized per matrix
// fingerprint, so repeated calls with the same matrix only re-cut.
func (e *Engine) Cluster(ctx context.Context, m *feature.Matrix, method linkage.Method, ks ...int) (*Result, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	if !method.Valid() {
		return nil, linkage.ErrInvalidMethod
	}
	n := m.Rows()
	for _, k := range ks {
		if k < 1 || k > n {
			return nil, &fcluster.InvalidKError{K: k, N: n}
		}
	}

	if err := e.rc.AcquireRun(ctx); err != nil {
		return nil, translateError(err)
	}
	defer e.rc.ReleaseRun()

	fp := e.fingerprint(m)
	e.rotate(ctx, fp)

	tree, cached, err := e.tree(ctx, m, fp, method)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, translateError(err)
	}

	assignments, err := e.cutMany(ctx, tree, ks)
	if err != nil {
		return nil, err
	}

	e.logger.WithFingerprint(fp).WithMethod(method.String()).DebugContext(ctx, "pipeline finished",
		"n", n,
		"ks", ks,
		"cached", cached,
	)
	return &Result{Fingerprint: fp, Tree: tree, Assignments: assignments, Cached: cached}, nil
}

// Invalidate drops every memoized artifact.
func (e *Engine) Invalidate() {
	e.store.Purge()

	e.mu.Lock()
	e.seen = false
	e.mu.Unlock()
}

// CacheStats returns a snapshot of the artifact cache.
func (e *Engine) CacheStats() CacheStats {
	hits, misses := e.store.Stats()
	return CacheStats{
		Entries: e.store.Len(),
		Bytes:   e.store.Size(),
		Hits:    hits,
		Misses:  misses,
	}
}

// MemoryUsage returns the bytes currently reserved by runs and the cache.
func (e *Engine) MemoryUsage() int64 { return e.rc.MemoryUsage() }

func (e *Engine) tree(ctx context.Context, m *feature.Matrix, fp uint64, method linkage.Method) (*linkage.Tree, bool, error) {
	treeKey := cache.Key{Kind: cache.KindTree, Fingerprint: fp, Method: uint8(method)}
	if t, ok := lookup[*linkage.Tree](ctx, e, treeKey); ok {
		return t, true, nil
	}

	n := m.Rows()
	vecBytes := int64(condensed.Length(n)) * 4
	vecKey := cache.Key{Kind: cache.KindCondensed, Fingerprint: fp}

	releaseVec := func() {}
	v, fromCache := lookup[*condensed.Vector](ctx, e, vecKey)
	if !fromCache {
		release, err := e.reserve(ctx, vecBytes)
		if err != nil {
			return nil, false, translateError(err)
		}
		defer release()
		releaseVec = release

		start := time.Now()
		v, err = distance.GowerCondensed(ctx, m, e.distanceOptions()...)
		e.recordDistances(ctx, m, time.Since(start), err)
		if err != nil {
			return nil, false, translateError(err)
		}
	}

	linkOpts := []linkage.Option{e.progress(ctx)}
	keep := fromCache || vecBytes <= e.opts.cacheCapacity
	workspace := workspaceBytes(n)
	if !keep {
		// Nothing will reuse the vector, so linkage may consume it.
		linkOpts = append(linkOpts, linkage.WithInPlace())
		workspace -= vecBytes
	}

	release, err := e.reserve(ctx, workspace)
	if err != nil {
		return nil, false, translateError(err)
	}
	defer release()

	start := time.Now()
	tree, err := linkage.Build(ctx, v, method, linkOpts...)
	e.recordLinkage(ctx, n, method, time.Since(start), err)
	if err != nil {
		return nil, false, translateError(err)
	}

	// Hand the memory over to the cache.
	release()
	releaseVec()
	if keep && !fromCache {
		e.put(ctx, vecKey, v, vecBytes)
	}
	e.put(ctx, treeKey, tree, treeBytes(n))
	return tree, false, nil
}

func (e *Engine) cut(ctx context.Context, t *linkage.Tree, k int) (*fcluster.Assignment, error) {
	start := time.Now()
	a, err := fcluster.MaxClust(t, k)
	d := time.Since(start)
	if err != nil {
		e.metrics.RecordCut(k, 0, d, err)
		e.logger.LogCut(ctx, k, 0, 0, err)
		return nil, translateError(err)
	}
	e.metrics.RecordCut(k, a.K(), d, nil)
	e.logger.LogCut(ctx, k, a.K(), a.Threshold, nil)
	return a, nil
}

// cutMany cuts t once per k, sharing the height scan.
func (e *Engine) cutMany(ctx context.Context, t *linkage.Tree, ks []int) ([]*fcluster.Assignment, error) {
	if len(ks) == 0 {
		return nil, nil
	}
	start := time.Now()
	as, err := fcluster.MaxClustMany(t, ks...)
	d := time.Since(start) / time.Duration(len(ks))
	if err != nil {
		e.metrics.RecordCut(ks[0], 0, d, err)
		e.logger.LogCut(ctx, ks[0], 0, 0, err)
		return nil, translateError(err)
	}
	for i, a := range as {
		e.metrics.RecordCut(ks[i], a.K(), d, nil)
		e.logger.LogCut(ctx, ks[i], a.K(), a.Threshold, nil)
	}
	return as, nil
}

// fingerprint keys artifacts by matrix content and by every option that
// changes the distances.
func (e *Engine) fingerprint(m *feature.Matrix) uint64 {
	fp := m.Fingerprint()
	if e.opts.missingValues {
		fp = hash.Combine(fp, 1)
	}
	return fp
}

// rotate evicts artifacts of other matrices when single-snapshot caching is
// enabled and fp differs from the last matrix seen.
func (e *Engine) rotate(ctx context.Context, fp uint64) {
	if !e.opts.singleSnapshot {
		return
	}

	e.mu.Lock()
	changed := !e.seen || e.snapshot != fp
	e.snapshot, e.seen = fp, true
	e.mu.Unlock()

	if !changed {
		return
	}
	if n := e.store.Invalidate(func(k cache.Key) bool { return k.Fingerprint != fp }); n > 0 {
		e.logger.DebugContext(ctx, "evicted artifacts of previous matrix",
			"entries", n,
			"fingerprint", fp,
		)
	}
}

// reserve claims run memory. When the budget is exhausted the cache is
// emptied once before giving up.
func (e *Engine) reserve(ctx context.Context, bytes int64) (func(), error) {
	release, err := e.rc.Reserve(bytes)
	if errors.Is(err, resource.ErrMemoryLimitExceeded) && e.store.Len() > 0 {
		e.logger.DebugContext(ctx, "memory budget exhausted, purging artifact cache",
			"requested", bytes,
			"limit", e.rc.MemoryLimit(),
		)
		e.store.Purge()
		release, err = e.rc.Reserve(bytes)
	}
	return release, err
}

func (e *Engine) put(ctx context.Context, key cache.Key, v any, size int64) {
	if !e.store.Set(key, v, size) {
		e.logger.DebugContext(ctx, "artifact not cached",
			"key", key.String(),
			"bytes", size,
		)
	}
}

func lookup[T any](ctx context.Context, e *Engine, key cache.Key) (T, bool) {
	var zero T
	v, ok := e.store.Get(key)
	e.metrics.RecordCache(key.Kind.String(), ok)
	e.logger.LogCache(ctx, key.String(), ok)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

func (e *Engine) progress(ctx context.Context) linkage.Option {
	s := &rate.Sometimes{Interval: progressInterval}
	return linkage.WithProgress(func(done, total int) {
		s.Do(func() { e.logger.LogLinkageProgress(ctx, done, total) })
	})
}

func (e *Engine) distanceOptions() []distance.Option {
	opts := []distance.Option{distance.WithWorkers(e.opts.workers)}
	if e.opts.missingValues {
		opts = append(opts, distance.WithMissingValues())
	}
	return opts
}

func (e *Engine) recordDistances(ctx context.Context, m *feature.Matrix, d time.Duration, err error) {
	e.metrics.RecordDistances(m.Rows(), d, err)
	e.logger.LogDistances(ctx, m.Rows(), m.Cols(), d, err)
}

func (e *Engine) recordLinkage(ctx context.Context, n int, method linkage.Method, d time.Duration, err error) {
	e.metrics.RecordLinkage(n, method.String(), d, err)
	e.logger.LogLinkage(ctx, n, method.String(), d, err)
}

// workspaceBytes estimates the linkage working set: a condensed copy plus
// the per-slot bookkeeping.
func workspaceBytes(n int) int64 {
	return int64(condensed.Length(n))*4 + int64(n)*48
}

// treeBytes estimates the footprint of a merge tree with its lazily built
// leaf spans.
func treeBytes(n int) int64 {
	return int64(n-1)*32 + int64(n)*24
}
