package dendrogram

import (
	"math"

	"github.com/hupe1980/hclust/linkage"
)

// NoGroup is the colour group of links at or above the threshold.
const NoGroup = -1

// Leaf is a displayed leaf: an observation or a collapsed subtree.
type Leaf struct {
	Node      int     `json:"node" yaml:"node"`
	X         float64 `json:"x" yaml:"x"`
	Count     int     `json:"count" yaml:"count"`
	Collapsed bool    `json:"collapsed" yaml:"collapsed"`
	Group     int     `json:"group" yaml:"group"`
}

// Link is a displayed merge. It is drawn as the polyline
// (LeftX, LeftHeight) (LeftX, Height) (RightX, Height) (RightX, RightHeight).
type Link struct {
	Node        int     `json:"node" yaml:"node"`
	Height      float64 `json:"height" yaml:"height"`
	X           float64 `json:"x" yaml:"x"`
	Left        int     `json:"left" yaml:"left"`
	Right       int     `json:"right" yaml:"right"`
	LeftX       float64 `json:"left_x" yaml:"left_x"`
	RightX      float64 `json:"right_x" yaml:"right_x"`
	LeftHeight  float64 `json:"left_height" yaml:"left_height"`
	RightHeight float64 `json:"right_height" yaml:"right_height"`
	Group       int     `json:"group" yaml:"group"`
}

// Layout is the projected geometry of a tree.
type Layout struct {
	// Order is the full left-to-right permutation of the observations.
	Order []int `json:"order" yaml:"order"`

	// Leaves are the displayed leaves, left to right.
	Leaves []Leaf `json:"leaves" yaml:"leaves"`

	// Links are the displayed merges, children before parents.
	Links []Link `json:"links" yaml:"links"`

	ColorThreshold float64 `json:"color_threshold" yaml:"color_threshold"`

	// Groups is the number of colour groups below the threshold.
	Groups int `json:"groups" yaml:"groups"`
}

// Project lays out t.
func Project(t *linkage.Tree, optFns ...Option) (*Layout, error) {
	if t == nil {
		return nil, ErrNilTree
	}

	o := applyOptions(optFns)
	if o.order < OrderMerge || o.order > OrderCountDescending {
		return nil, ErrInvalidOrder
	}
	switch o.truncate {
	case truncateLevel:
		if o.p < 0 {
			return nil, &TruncateError{Mode: o.truncate.String(), P: o.p}
		}
	case truncateLastP:
		if o.p < 1 {
			return nil, &TruncateError{Mode: o.truncate.String(), P: o.p}
		}
	}
	if o.hasThresh && math.IsNaN(o.threshold) {
		return nil, ErrInvalidThreshold
	}
	if !o.hasThresh {
		o.threshold = 0.7 * maxHeight(t)
	}

	p := &projector{t: t, o: o, n: t.N()}
	l := &Layout{
		Order:          p.order(),
		ColorThreshold: o.threshold,
	}
	p.geometry(l)
	p.colour(l)
	return l, nil
}

type projector struct {
	t *linkage.Tree
	o options
	n int
}

// children returns the children of id in display order.
func (p *projector) children(id int) (int, int) {
	l, r, _ := p.t.Children(id)
	switch p.o.order {
	case OrderCountAscending:
		if p.t.Size(r) < p.t.Size(l) {
			return r, l
		}
	case OrderCountDescending:
		if p.t.Size(r) > p.t.Size(l) {
			return r, l
		}
	}
	return l, r
}

// expanded reports whether id is drawn as a link at the given depth.
func (p *projector) expanded(id, depth int) bool {
	if id < p.n {
		return false
	}
	switch p.o.truncate {
	case truncateLevel:
		return depth <= p.o.p
	case truncateLastP:
		return id >= 2*p.n-p.o.p
	}
	return true
}

func (p *projector) order() []int {
	out := make([]int, 0, p.n)
	stack := []int{p.t.Root()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id < p.n {
			out = append(out, id)
			continue
		}
		first, second := p.children(id)
		stack = append(stack, second, first)
	}
	return out
}

type frame struct {
	id, depth int
	visited   bool
}

func (p *projector) geometry(l *Layout) {
	size := 2*p.n - 1
	x := make([]float64, size)
	y := make([]float64, size)

	stack := []frame{{id: p.t.Root()}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !p.expanded(f.id, f.depth) {
			pos := 5 + 10*float64(len(l.Leaves))
			x[f.id] = pos
			l.Leaves = append(l.Leaves, Leaf{
				Node:      f.id,
				X:         pos,
				Count:     p.t.Size(f.id),
				Collapsed: f.id >= p.n,
				Group:     NoGroup,
			})
			continue
		}

		first, second := p.children(f.id)
		if !f.visited {
			f.visited = true
			stack = append(stack, f,
				frame{id: second, depth: f.depth + 1},
				frame{id: first, depth: f.depth + 1})
			continue
		}

		h := p.t.Height(f.id)
		x[f.id] = (x[first] + x[second]) / 2
		y[f.id] = h
		l.Links = append(l.Links, Link{
			Node:        f.id,
			Height:      h,
			X:           x[f.id],
			Left:        first,
			Right:       second,
			LeftX:       x[first],
			RightX:      x[second],
			LeftHeight:  y[first],
			RightHeight: y[second],
			Group:       NoGroup,
		})
	}
}

// colour numbers the sub-threshold subtrees in pre-order, left to right.
func (p *projector) colour(l *Layout) {
	size := 2*p.n - 1
	linkAt := make([]int, size)
	leafAt := make([]int, size)
	for i := range linkAt {
		linkAt[i], leafAt[i] = -1, -1
	}
	for i, lk := range l.Links {
		linkAt[lk.Node] = i
	}
	for i, lf := range l.Leaves {
		leafAt[lf.Node] = i
	}

	type item struct{ id, group int }
	stack := []item{{id: p.t.Root(), group: NoGroup}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if i := leafAt[it.id]; i >= 0 {
			l.Leaves[i].Group = it.group
			continue
		}

		lk := &l.Links[linkAt[it.id]]
		g := NoGroup
		if lk.Height < l.ColorThreshold {
			g = it.group
			if g == NoGroup {
				g = l.Groups
				l.Groups++
			}
		}
		lk.Group = g
		stack = append(stack, item{lk.Right, g}, item{lk.Left, g})
	}
}

func maxHeight(t *linkage.Tree) float64 {
	var h float64
	for i := range t.Len() {
		h = max(h, t.Merge(i).Height)
	}
	return h
}
