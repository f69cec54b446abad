// Package linkage builds agglomerative merge trees from condensed distances.
//
// # Methods
//
// Every method is expressed as a Lance–Williams update of the distance from
// a freshly merged cluster (a ∪ b) to another active cluster c:
//
//	Single    min(d_ac, d_bc)
//	Complete  max(d_ac, d_bc)
//	Average   (n_a d_ac + n_b d_bc) / (n_a + n_b)
//	Weighted  (d_ac + d_bc) / 2
//	Ward      sqrt(((n_a+n_c) d_ac² + (n_b+n_c) d_bc² − n_c d_ab²) / (n_a+n_b+n_c))
//
// Complete is the zero value and the default.
//
// # Algorithm
//
// Active clusters live in slots; the cluster in slot s always contains leaf s
// as its smallest member. A nearest-neighbour cache stores, for every active
// slot i, the closest active slot j > i. Each step takes the cache minimum
// (smallest slot pair on ties), merges the pair into the lower slot, updates
// that slot's distances in place and repairs only the cache rows the merge
// invalidated. Typical cost is O(N²) time and one condensed working copy.
//
// # Tree layout
//
// Leaves are node ids 0..N-1. Merge t creates node N+t. Each Merge records
// its two children (Left < Right), the merge height and the leaf count.
package linkage
