// Package cache memoizes derived clustering artifacts.
//
// LRU is a size-bounded, least-recently-used store. Each entry carries its
// footprint in bytes; when a resource.Controller is attached the footprint
// is reserved against the global memory budget and released on eviction.
//
// Keys identify an artifact by kind, by the fingerprint of the feature
// matrix it was derived from and, for merge trees, by linkage method.
// Invalidate drops every entry matching a predicate, which is how stale
// snapshots are evicted when the input changes.
package cache
