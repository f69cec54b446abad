package fcluster

import (
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/hclust/linkage"
)

// Assignment is a flat partition of the observations of a tree.
type Assignment struct {
	// Labels holds the cluster label of every observation, 1..K().
	Labels []int `json:"labels" yaml:"labels"`

	// Threshold is the cut height. It is -Inf when no merge was performed.
	Threshold float64 `json:"threshold" yaml:"threshold"`

	k int
}

// K returns the number of clusters.
func (a *Assignment) K() int { return a.k }

// Sizes returns the member count per cluster; index 0 is label 1.
func (a *Assignment) Sizes() []int {
	sizes := make([]int, a.k)
	for _, l := range a.Labels {
		sizes[l-1]++
	}
	return sizes
}

// Groups returns the members of every cluster as bitmaps; index 0 is label 1.
func (a *Assignment) Groups() []*roaring.Bitmap {
	groups := make([]*roaring.Bitmap, a.k)
	for i := range groups {
		groups[i] = roaring.New()
	}
	for i, l := range a.Labels {
		groups[l-1].Add(uint32(i))
	}
	return groups
}

// Members returns the observations with the given label in ascending order.
func (a *Assignment) Members(label int) []int {
	var out []int
	for i, l := range a.Labels {
		if l == label {
			out = append(out, i)
		}
	}
	return out
}

// MaxClust returns the partition with the largest achievable number of
// clusters that does not exceed k.
func MaxClust(t *linkage.Tree, k int) (*Assignment, error) {
	if t == nil {
		return nil, ErrNilTree
	}
	n := t.N()
	if k < 1 || k > n {
		return nil, &InvalidKError{K: k, N: n}
	}
	return cutMaxClust(t, t.MaxHeights(), k), nil
}

// MaxClustMany runs MaxClust for every k, sharing the height scan.
func MaxClustMany(t *linkage.Tree, ks ...int) ([]*Assignment, error) {
	if t == nil {
		return nil, ErrNilTree
	}
	n := t.N()
	for _, k := range ks {
		if k < 1 || k > n {
			return nil, &InvalidKError{K: k, N: n}
		}
	}

	mh := t.MaxHeights()
	out := make([]*Assignment, len(ks))
	for i, k := range ks {
		out[i] = cutMaxClust(t, mh, k)
	}
	return out, nil
}

// Distance performs every merge whose subtree max-height is at most h.
func Distance(t *linkage.Tree, h float64) (*Assignment, error) {
	if t == nil {
		return nil, ErrNilTree
	}
	if math.IsNaN(h) || h < 0 {
		return nil, ErrInvalidThreshold
	}
	return cut(t, t.MaxHeights(), h), nil
}

func cutMaxClust(t *linkage.Tree, mh []float64, k int) *Assignment {
	n := t.N()
	if k == n {
		return cut(t, mh, math.Inf(-1))
	}

	// Performing every merge at or below h leaves n - count(mh <= h)
	// clusters, so walk the distinct heights upwards.
	sorted := slices.Clone(mh)
	slices.Sort(sorted)

	h := sorted[len(sorted)-1]
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if n-j <= k {
			h = sorted[i]
			break
		}
		i = j
	}
	return cut(t, mh, h)
}

func cut(t *linkage.Tree, mh []float64, h float64) *Assignment {
	n := t.N()
	uf := newUnionFind(2*n - 1)
	for i, m := range t.Merges() {
		if mh[i] <= h {
			uf.union(m.Left, n+i)
			uf.union(m.Right, n+i)
		}
	}

	labels := make([]int, n)
	next := 0
	byRoot := make(map[int]int)
	for i := range n {
		r := uf.find(i)
		l, ok := byRoot[r]
		if !ok {
			next++
			l = next
			byRoot[r] = l
		}
		labels[i] = l
	}

	return &Assignment{Labels: labels, Threshold: h, k: next}
}
