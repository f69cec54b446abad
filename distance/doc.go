// Package distance computes the Gower dissimilarity between mixed-type records.
//
// For records i and j the partial dissimilarity of column v is
//
//   - quantitative: |x_iv - x_jv| / range_v, or 0 when range_v is 0
//   - categorical:  0 if x_iv == x_jv, else 1
//
// and the dissimilarity is the (optionally weighted) mean over all columns,
// so every value lies in [0, 1].
//
// # Parallelism
//
// Rows are split into blocks of roughly equal pair counts and filled by an
// errgroup limited to the configured number of workers. Each worker writes a
// disjoint set of cells, so the output buffer needs no locking.
//
// # Usage
//
//	sq, err := distance.Gower(ctx, m)               // N x N
//	cv, err := distance.GowerCondensed(ctx, m)      // N(N-1)/2
//	cv, err := distance.GowerCondensed(ctx, m, distance.WithWorkers(4))
package distance
