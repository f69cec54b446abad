package testutil

import (
	"math"
	"slices"
)

// NaiveMerge mirrors one merge of a linkage tree: children use the same node
// numbering (leaves 0..n-1, merge t creates n+t) and Left < Right.
type NaiveMerge struct {
	Left   int
	Right  int
	Height float64
	Size   int
}

// LinkFunc returns the distance between two clusters given their members.
type LinkFunc func(a, b []int) float64

// MaxLink is the complete-linkage rule over the full matrix d.
func MaxLink(d [][]float64) LinkFunc {
	return func(a, b []int) float64 {
		best := math.Inf(-1)
		for _, x := range a {
			for _, y := range b {
				best = math.Max(best, d[x][y])
			}
		}
		return best
	}
}

// MinLink is the single-linkage rule over the full matrix d.
func MinLink(d [][]float64) LinkFunc {
	return func(a, b []int) float64 {
		best := math.Inf(1)
		for _, x := range a {
			for _, y := range b {
				best = math.Min(best, d[x][y])
			}
		}
		return best
	}
}

// MeanLink is the average-linkage (UPGMA) rule over the full matrix d.
func MeanLink(d [][]float64) LinkFunc {
	return func(a, b []int) float64 {
		var sum float64
		for _, x := range a {
			for _, y := range b {
				sum += d[x][y]
			}
		}
		return sum / float64(len(a)*len(b))
	}
}

// BruteForceLinkage agglomerates the observations of d by evaluating link
// on the members of every pair of active clusters at every step. Among pairs
// at the minimum distance it merges the one whose smallest members are
// lexicographically smallest.
func BruteForceLinkage(d [][]float64, link LinkFunc) []NaiveMerge {
	n := len(d)

	type cluster struct {
		id      int
		members []int // sorted
	}
	active := make([]cluster, n)
	for i := range n {
		active[i] = cluster{id: i, members: []int{i}}
	}

	merges := make([]NaiveMerge, 0, n-1)
	for step := 0; len(active) > 1; step++ {
		bi, bj := -1, -1
		best := math.Inf(1)
		// active is kept sorted by smallest member, so the first strict
		// minimum in (i, j) order is the lexicographically smallest pair.
		for i := range active {
			for j := i + 1; j < len(active); j++ {
				if v := link(active[i].members, active[j].members); v < best {
					best, bi, bj = v, i, j
				}
			}
		}

		a, b := active[bi], active[bj]
		left, right := min(a.id, b.id), max(a.id, b.id)
		members := append(slices.Clone(a.members), b.members...)
		slices.Sort(members)
		merges = append(merges, NaiveMerge{Left: left, Right: right, Height: best, Size: len(members)})

		active[bi] = cluster{id: n + step, members: members}
		active = slices.Delete(active, bj, bj+1)
	}
	return merges
}
