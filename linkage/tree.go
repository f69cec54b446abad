package linkage

import (
	"math"
	"slices"
	"sync"

	"github.com/hupe1980/hclust/condensed"
)

// Merge is one internal node of a merge tree.
type Merge struct {
	Left   int     `json:"left"`
	Right  int     `json:"right"`
	Height float64 `json:"height"`
	Size   int     `json:"size"`
}

// Tree is an immutable binary merge tree over N leaves.
// It is safe for concurrent use.
type Tree struct {
	n      int
	method Method
	merges []Merge

	spanOnce sync.Once
	order    []int // in-order leaves, Left before Right
	start    []int // node id -> offset of its first leaf in order
}

// NewTree validates and wraps an externally produced merge list.
// Children are renormalized so that Left < Right.
func NewTree(n int, method Method, merges []Merge) (*Tree, error) {
	if n < 2 {
		return nil, ErrTooFewObservations
	}
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}
	if len(merges) != n-1 {
		return nil, &TreeError{Merge: len(merges), Reason: "merge count must be n-1"}
	}

	used := make([]bool, 2*n-1)
	sizes := make([]int, 2*n-1)
	for i := range n {
		sizes[i] = 1
	}

	out := make([]Merge, len(merges))
	for t, m := range merges {
		limit := n + t
		if m.Left < 0 || m.Right < 0 || m.Left >= limit || m.Right >= limit {
			return nil, &TreeError{Merge: t, Reason: "child id out of range"}
		}
		if m.Left == m.Right {
			return nil, &TreeError{Merge: t, Reason: "children must differ"}
		}
		if used[m.Left] || used[m.Right] {
			return nil, &TreeError{Merge: t, Reason: "child already merged"}
		}
		if math.IsNaN(m.Height) || m.Height < 0 {
			return nil, &TreeError{Merge: t, Reason: "height must be a non-negative number"}
		}
		if m.Size != sizes[m.Left]+sizes[m.Right] {
			return nil, &TreeError{Merge: t, Reason: "size does not match children"}
		}
		used[m.Left], used[m.Right] = true, true
		sizes[limit] = m.Size
		if m.Left > m.Right {
			m.Left, m.Right = m.Right, m.Left
		}
		out[t] = m
	}

	return &Tree{n: n, method: method, merges: out}, nil
}

// N returns the number of leaves.
func (t *Tree) N() int { return t.n }

// Method returns the linkage method that produced the tree.
func (t *Tree) Method() Method { return t.method }

// Len returns the number of merges, N-1.
func (t *Tree) Len() int { return len(t.merges) }

// Merges returns a copy of the merge list in merge order.
func (t *Tree) Merges() []Merge { return slices.Clone(t.merges) }

// Merge returns merge i, which created node N+i.
func (t *Tree) Merge(i int) Merge { return t.merges[i] }

// Root returns the node id of the final merge.
func (t *Tree) Root() int { return 2*t.n - 2 }

// IsLeaf reports whether id is an original observation.
func (t *Tree) IsLeaf(id int) bool { return id < t.n }

// Children returns the children of an internal node.
func (t *Tree) Children(id int) (left, right int, ok bool) {
	if id < t.n || id > t.Root() {
		return 0, 0, false
	}
	m := t.merges[id-t.n]
	return m.Left, m.Right, true
}

// Size returns the number of leaves below id.
func (t *Tree) Size(id int) int {
	if id < t.n {
		return 1
	}
	return t.merges[id-t.n].Size
}

// Height returns the merge height of id; leaves are at height 0.
func (t *Tree) Height(id int) float64 {
	if id < t.n {
		return 0
	}
	return t.merges[id-t.n].Height
}

// Leaves returns the observations below id in in-order (Left first).
func (t *Tree) Leaves(id int) []int {
	t.spans()
	s := t.start[id]
	return slices.Clone(t.order[s : s+t.Size(id)])
}

// MaxHeights returns, per merge, the largest height in its subtree.
// For monotonic trees this equals the merge heights.
func (t *Tree) MaxHeights() []float64 {
	out := make([]float64, len(t.merges))
	for i, m := range t.merges {
		h := m.Height
		if m.Left >= t.n {
			h = math.Max(h, out[m.Left-t.n])
		}
		if m.Right >= t.n {
			h = math.Max(h, out[m.Right-t.n])
		}
		out[i] = h
	}
	return out
}

// IsMonotonic reports whether no merge is lower than one of its children.
func (t *Tree) IsMonotonic() bool {
	for _, m := range t.merges {
		if m.Height < t.Height(m.Left) || m.Height < t.Height(m.Right) {
			return false
		}
	}
	return true
}

// Cophenetic returns the condensed cophenetic distances: for every pair the
// height of the merge that first joined them.
func (t *Tree) Cophenetic() *condensed.Vector {
	t.spans()
	v, _ := condensed.NewVector(t.n) // n >= 2 by construction
	for _, m := range t.merges {
		ls, rs := t.start[m.Left], t.start[m.Right]
		h := float32(m.Height)
		for _, x := range t.order[ls : ls+t.Size(m.Left)] {
			for _, y := range t.order[rs : rs+t.Size(m.Right)] {
				v.Set(x, y, h)
			}
		}
	}
	return v
}

// spans computes the in-order leaf sequence once. Every node covers a
// contiguous range of it.
func (t *Tree) spans() {
	t.spanOnce.Do(func() {
		t.order = make([]int, 0, t.n)
		t.start = make([]int, 2*t.n-1)

		stack := []int{t.Root()}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if id < t.n {
				t.start[id] = len(t.order)
				t.order = append(t.order, id)
				continue
			}
			t.start[id] = len(t.order)
			m := t.merges[id-t.n]
			stack = append(stack, m.Right, m.Left)
		}
	})
}
