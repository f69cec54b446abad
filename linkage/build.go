package linkage

import (
	"context"
	"math"
	"slices"

	"github.com/hupe1980/hclust/condensed"
)

// ctxCheckMerges is how many merges run between context checks.
const ctxCheckMerges = 64

type options struct {
	inPlace  bool
	progress func(done, total int)
}

// Option configures Build.
type Option func(*options)

// WithInPlace lets Build use the input vector as its working buffer. The
// vector's contents are undefined afterwards.
func WithInPlace() Option {
	return func(o *options) {
		o.inPlace = true
	}
}

// WithProgress registers a callback invoked after every merge with the number
// of merges done and the total (N-1). It runs on the building goroutine.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// Build clusters the observations described by v and returns the merge tree.
func Build(ctx context.Context, v *condensed.Vector, method Method, optFns ...Option) (*Tree, error) {
	var o options
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if !method.Valid() {
		return nil, ErrInvalidMethod
	}
	if v == nil || v.N() < 2 {
		return nil, ErrTooFewObservations
	}
	if err := validate(v); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}

	work := v.Data()
	if !o.inPlace {
		work = slices.Clone(work)
	}

	b := newBuilder(v.N(), work, method)
	return b.run(ctx, o.progress)
}

// BuildSquare clusters the observations of a full distance matrix.
func BuildSquare(ctx context.Context, s *condensed.Square, method Method, optFns ...Option) (*Tree, error) {
	v, err := condensed.ToCondensed(s)
	if err != nil {
		return nil, err
	}
	// The condensed copy is private, so it can be consumed.
	return Build(ctx, v, method, append(optFns, WithInPlace())...)
}

func validate(v *condensed.Vector) error {
	for i := range v.N() - 1 {
		for k, d := range v.Row(i) {
			if d < 0 || math.IsNaN(float64(d)) || math.IsInf(float64(d), 0) {
				return &DistanceError{I: i, J: i + 1 + k, Value: d}
			}
		}
	}
	return nil
}

type builder struct {
	n      int
	method Method

	// d is the condensed working copy; d(i, j) = d[rowStart[i]+j] for i < j.
	d        []float32
	rowStart []int

	size []int
	node []int

	// Active slots form an ascending doubly linked list.
	head int
	next []int
	prev []int

	nn *nnCache
}

func newBuilder(n int, d []float32, method Method) *builder {
	b := &builder{
		n:        n,
		method:   method,
		d:        d,
		rowStart: make([]int, n),
		size:     make([]int, n),
		node:     make([]int, n),
		next:     make([]int, n),
		prev:     make([]int, n),
		nn:       newNNCache(n),
	}
	for i := range n {
		if i < n-1 {
			b.rowStart[i] = condensed.Index(i, i+1, n) - (i + 1)
		}
		b.size[i] = 1
		b.node[i] = i
		b.next[i] = i + 1
		b.prev[i] = i - 1
	}
	b.next[n-1] = -1
	return b
}

func (b *builder) dist(i, j int) float32 {
	if i > j {
		i, j = j, i
	}
	return b.d[b.rowStart[i]+j]
}

func (b *builder) setDist(i, j int, v float32) {
	if i > j {
		i, j = j, i
	}
	b.d[b.rowStart[i]+j] = v
}

// rescan recomputes the cached nearest forward neighbour of slot i.
func (b *builder) rescan(i int) {
	best := -1
	bestDist := float32(math.Inf(1))
	rs := b.rowStart[i]
	for j := b.next[i]; j != -1; j = b.next[j] {
		if d := b.d[rs+j]; d < bestDist {
			best, bestDist = j, d
		}
	}
	if best < 0 {
		b.nn.clear(i)
		return
	}
	b.nn.set(i, best, bestDist)
}

func (b *builder) retire(s int) {
	p, nx := b.prev[s], b.next[s]
	if p >= 0 {
		b.next[p] = nx
	} else {
		b.head = nx
	}
	if nx >= 0 {
		b.prev[nx] = p
	}
	b.next[s], b.prev[s] = -1, -1
}

func (b *builder) run(ctx context.Context, progress func(done, total int)) (*Tree, error) {
	total := b.n - 1
	for i := range b.n - 1 {
		b.rescan(i)
	}

	merges := make([]Merge, 0, total)
	for step := range total {
		if step%ctxCheckMerges == 0 {
			if err := ctx.Err(); err != nil {
				return nil, cancelled(err)
			}
		}

		a := b.nn.argmin(b.head, b.next)
		if a < 0 {
			return nil, &InvariantError{Reason: "no mergeable pair left before the root"}
		}
		s := b.nn.nbr[a]
		dab := b.nn.dist[a]

		left, right := b.node[a], b.node[s]
		if left > right {
			left, right = right, left
		}
		na, ns := b.size[a], b.size[s]
		merges = append(merges, Merge{Left: left, Right: right, Height: float64(dab), Size: na + ns})

		for k := b.head; k != -1; k = b.next[k] {
			if k == a || k == s {
				continue
			}
			nd := b.method.update(float64(b.dist(a, k)), float64(b.dist(s, k)), float64(dab), na, ns, b.size[k])
			if b.method == Ward {
				// Reducibility keeps the true value >= dab; undo rounding below it.
				nd = math.Max(nd, float64(dab))
			}
			b.setDist(a, k, float32(nd))
		}

		b.retire(s)
		b.nn.clear(s)
		b.size[a] = na + ns
		b.node[a] = b.n + step

		for k := b.head; k != -1; k = b.next[k] {
			if k == a {
				continue
			}
			switch nk := b.nn.nbr[k]; {
			case nk == a || nk == s:
				b.rescan(k)
			case k < a:
				b.nn.offer(k, a, b.dist(k, a))
			}
		}
		b.rescan(a)

		if progress != nil {
			progress(step+1, total)
		}
	}

	if len(merges) != total {
		return nil, &InvariantError{Reason: "merge count differs from n-1"}
	}
	if b.head < 0 || b.next[b.head] != -1 {
		return nil, &InvariantError{Reason: "more than one active cluster after the final merge"}
	}

	return &Tree{n: b.n, method: b.method, merges: merges}, nil
}
