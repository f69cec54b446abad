// Package hclust clusters mixed-type records hierarchically.
//
// The pipeline runs in four stages, each available on its own:
//
//  1. Gower dissimilarity between every pair of records (package distance).
//     Quantitative columns contribute |a−b| / range, categorical columns a
//     0/1 mismatch, and the result is their mean.
//  2. Agglomerative clustering of the dissimilarities into a binary merge
//     tree (package linkage). Complete linkage is the default.
//  3. A flat cut of the tree into at most k clusters (package fcluster).
//  4. A dendrogram layout of the tree for external plotting (package
//     dendrogram).
//
// # Quick Start
//
//	m, _ := feature.New(records, categoricalMask)
//
//	eng := hclust.New(hclust.WithLogLevel(slog.LevelDebug))
//	res, err := eng.Cluster(ctx, m, linkage.Complete, 3, 4)
//	if err != nil {
//	    return err
//	}
//	labels := res.Assignment(3).Labels
//
// # Memoization
//
// Cluster computes the condensed dissimilarities without materializing the
// N×N matrix and memoizes both the condensed vector and the merge tree,
// keyed by the fingerprint of the feature matrix and the linkage method. A
// second call with the same matrix only re-cuts the cached tree; another
// method reuses the cached distances. By default the cache holds one matrix
// at a time and evicts everything derived from a previous one
// (WithSingleSnapshot). Invalidate clears it explicitly.
//
// # Resources
//
// For 12,330 records the condensed vector alone takes about 304 MiB.
// WithMemoryLimit refuses runs whose buffers would exceed a budget and
// WithMaxConcurrentRuns bounds how many runs execute at once.
//
// # Errors
//
// Every error can be classified with errors.Is against ErrInvalidInput,
// ErrCancelled or ErrInternal, whichever package produced it. Typed errors
// such as *feature.MaskMismatchError carry the details.
package hclust
