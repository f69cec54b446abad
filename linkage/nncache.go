package linkage

import "math"

// nnCache holds, per active slot i, the nearest active slot j > i and the
// distance to it. Rows without a forward neighbour have nbr -1 and dist +Inf.
//
// Ties always resolve to the smallest j, and argmin resolves ties to the
// smallest i, so the pair chosen each step is the lexicographically smallest
// pair at the minimum distance.
type nnCache struct {
	nbr  []int
	dist []float32
}

func newNNCache(n int) *nnCache {
	c := &nnCache{
		nbr:  make([]int, n),
		dist: make([]float32, n),
	}
	for i := range c.nbr {
		c.clear(i)
	}
	return c
}

func (c *nnCache) set(i, j int, d float32) {
	c.nbr[i] = j
	c.dist[i] = d
}

func (c *nnCache) clear(i int) {
	c.nbr[i] = -1
	c.dist[i] = float32(math.Inf(1))
}

// offer adopts j as the neighbour of i if it is closer than the cached one,
// or equally close with a smaller index.
func (c *nnCache) offer(i, j int, d float32) {
	if c.nbr[i] < 0 || d < c.dist[i] || (d == c.dist[i] && j < c.nbr[i]) {
		c.set(i, j, d)
	}
}

// argmin walks the active list starting at head and returns the slot with
// the smallest cached distance, or -1 if no slot has a neighbour.
func (c *nnCache) argmin(head int, next []int) int {
	best := -1
	for i := head; i != -1; i = next[i] {
		if c.nbr[i] < 0 {
			continue
		}
		if best < 0 || c.dist[i] < c.dist[best] {
			best = i
		}
	}
	return best
}
