// Package testutil provides testing utilities for hclust.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded generators for mixed-type records and distance
// matrices, and a brute-force agglomerative reference that recomputes
// inter-cluster distances from cluster members at every step.
//
// # Random Records
//
//	rng := testutil.NewRNG(seed)
//	rows, mask := rng.MixedRecords(100, 3, []int{12, 2})  // 3 quantitative, two one-hot blocks
//	rows, mask, groups := rng.ClusteredRecords(100, 4, 3, 0.05)
//
// # Brute-Force Reference
//
//	merges := testutil.BruteForceLinkage(d, testutil.MaxLink(d))
package testutil
