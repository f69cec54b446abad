package distance

import (
	"context"
	"math"

	"github.com/hupe1980/hclust/condensed"
	"github.com/hupe1980/hclust/feature"
	"golang.org/x/sync/errgroup"
)

// ctxCheckRows is how many rows a worker fills between context checks.
const ctxCheckRows = 32

// Gower returns the full N x N dissimilarity matrix of m.
func Gower(ctx context.Context, m *feature.Matrix, optFns ...Option) (*condensed.Square, error) {
	g, err := newGower(m, applyOptions(optFns))
	if err != nil {
		return nil, err
	}

	n := m.Rows()
	sq, err := condensed.NewSquare(n)
	if err != nil {
		return nil, err
	}

	err = g.run(ctx, func(lo, hi int) error {
		scratch := make([]float32, n)
		for i := lo; i < hi; i++ {
			if (i-lo)%ctxCheckRows == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			row := scratch[:n-i-1]
			g.row(i, row)
			for k, d := range row {
				sq.Set(i, i+1+k, d)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sq, nil
}

// GowerCondensed returns the dissimilarities of m in condensed form without
// materializing the square matrix.
func GowerCondensed(ctx context.Context, m *feature.Matrix, optFns ...Option) (*condensed.Vector, error) {
	g, err := newGower(m, applyOptions(optFns))
	if err != nil {
		return nil, err
	}

	v, err := condensed.NewVector(m.Rows())
	if err != nil {
		return nil, err
	}

	err = g.run(ctx, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			if (i-lo)%ctxCheckRows == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			g.row(i, v.Row(i))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Pair returns the Gower dissimilarity of records i and j. It is intended for
// spot checks; use Gower or GowerCondensed for whole matrices.
func Pair(m *feature.Matrix, i, j int, optFns ...Option) (float64, error) {
	g, err := newGower(m, applyOptions(optFns))
	if err != nil {
		return 0, err
	}
	if i == j {
		return 0, nil
	}
	return g.pair(m.Row(i), m.Row(j)), nil
}

type gower struct {
	m       *feature.Matrix
	workers int
	missing bool

	// invRange is 1/range for quantitative columns, 0 for constant ones.
	invRange []float64
	cat      []bool
	weights  []float64
	wsum     float64
}

func newGower(m *feature.Matrix, o options) (*gower, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	if m.HasMissing() && !o.missing {
		return nil, ErrMissingValues
	}

	cols := m.Cols()
	g := &gower{
		m:        m,
		workers:  o.workers,
		missing:  o.missing,
		invRange: make([]float64, cols),
		cat:      m.CategoricalMask(),
		weights:  make([]float64, cols),
	}

	for j, r := range m.Ranges() {
		if r > 0 {
			g.invRange[j] = 1 / r
		}
	}

	if o.weights == nil {
		for j := range g.weights {
			g.weights[j] = 1
		}
		g.wsum = float64(cols)
		return g, nil
	}

	if len(o.weights) != cols {
		return nil, &WeightsError{Expected: cols, Actual: len(o.weights)}
	}
	for j, w := range o.weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, &WeightsError{Reason: "weights must be finite and non-negative"}
		}
		g.weights[j] = w
		g.wsum += w
	}
	if g.wsum == 0 {
		return nil, &WeightsError{Reason: "weights must not all be zero"}
	}
	return g, nil
}

// row fills dst[k] with the dissimilarity of (i, i+1+k).
func (g *gower) row(i int, dst []float32) {
	xi := g.m.Row(i)
	for k := range dst {
		dst[k] = float32(g.pair(xi, g.m.Row(i+1+k)))
	}
}

func (g *gower) pair(xi, xj []float64) float64 {
	var num, den float64
	for v, a := range xi {
		b := xj[v]
		w := g.weights[v]
		if g.missing && (math.IsNaN(a) || math.IsNaN(b)) {
			continue
		}
		den += w
		if g.cat[v] {
			if a != b {
				num += w
			}
			continue
		}
		if inv := g.invRange[v]; inv != 0 {
			num += w * math.Abs(a-b) * inv
		}
	}

	if !g.missing {
		den = g.wsum
	}
	if den == 0 {
		return 1
	}

	d := num / den
	// Rounding can push a mean of values <= 1 marginally above 1.
	if d > 1 {
		d = 1
	}
	return d
}

// run partitions rows into blocks of similar pair counts and executes fill
// for each block with bounded concurrency.
func (g *gower) run(ctx context.Context, fill func(lo, hi int) error) error {
	blocks := partition(g.m.Rows(), g.workers*4)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for _, b := range blocks {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			return fill(b.lo, b.hi)
		})
	}

	if err := eg.Wait(); err != nil {
		return cancelled(err)
	}
	// A cancellation that raced with the last block still invalidates the run.
	if err := ctx.Err(); err != nil {
		return cancelled(err)
	}
	return nil
}

type block struct {
	lo, hi int
}

// partition splits rows 0..n-2 (row n-1 has no forward pairs) into at most
// parts contiguous blocks of roughly equal pair counts.
func partition(n, parts int) []block {
	total := condensed.Length(n)
	if parts < 1 {
		parts = 1
	}
	target := max(total/parts, 1)

	var blocks []block
	lo, acc := 0, 0
	for i := range n - 1 {
		acc += n - i - 1
		if acc >= target {
			blocks = append(blocks, block{lo: lo, hi: i + 1})
			lo, acc = i+1, 0
		}
	}
	if lo < n-1 {
		blocks = append(blocks, block{lo: lo, hi: n - 1})
	}
	return blocks
}
