// Package condensed stores symmetric, zero-diagonal distance matrices either
// as a full N x N Square or as the upper-triangular Vector of N(N-1)/2 pair
// distances, and converts between the two.
//
// Pair (i, j) with i < j lives at
//
//	Index(i, j, n) == i*(2n-i-1)/2 + (j-i-1)
//
// which is row-major upper-triangular order: (0,1), (0,2), ..., (0,n-1),
// (1,2), ... . Distances are float32, halving the footprint of the O(N^2)
// buffers compared to float64.
package condensed
