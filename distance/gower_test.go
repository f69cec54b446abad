package distance

import (
	"context"
	"math"
	"testing"

	"github.com/hupe1980/hclust/condensed"
	"github.com/hupe1980/hclust/feature"
	"github.com/hupe1980/hclust/internal/errkind"
	"github.com/hupe1980/hclust/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixed(t *testing.T, n int, seed int64) *feature.Matrix {
	t.Helper()
	rows, mask := testutil.NewRNG(seed).MixedRecords(n, 3, []int{4, 2})
	m, err := feature.New(rows, mask)
	require.NoError(t, err)
	return m
}

func TestGower_Manual(t *testing.T) {
	// Quantitative column range 4, then a two-level one-hot block.
	m, err := feature.New([][]float64{
		{0, 1, 0},
		{4, 0, 1},
		{1, 1, 0},
	}, []bool{false, true, true})
	require.NoError(t, err)

	sq, err := Gower(t.Context(), m)
	require.NoError(t, err)

	assert.InDelta(t, (1.0+1+1)/3, sq.At(0, 1), 1e-6)
	assert.InDelta(t, (0.25+0+0)/3, sq.At(0, 2), 1e-6)
	assert.InDelta(t, (0.75+1+1)/3, sq.At(1, 2), 1e-6)

	d, err := Pair(m, 0, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.25/3, d, 1e-12)

	d, err = Pair(m, 1, 1)
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestGower_Properties(t *testing.T) {
	m := mixed(t, 60, 1)

	sq, err := Gower(t.Context(), m, WithWorkers(3))
	require.NoError(t, err)
	require.NoError(t, sq.Validate(), "symmetric with zero diagonal")

	for i := range m.Rows() {
		for j := range m.Rows() {
			d := sq.At(i, j)
			assert.GreaterOrEqual(t, d, float32(0))
			assert.LessOrEqual(t, d, float32(1))
		}
	}
}

func TestGower_SquareMatchesCondensed(t *testing.T) {
	m := mixed(t, 41, 2)

	sq, err := Gower(t.Context(), m, WithWorkers(2))
	require.NoError(t, err)
	cv, err := GowerCondensed(t.Context(), m, WithWorkers(5))
	require.NoError(t, err)

	fromSq, err := condensed.ToCondensed(sq)
	require.NoError(t, err)
	assert.Equal(t, fromSq.Data(), cv.Data())
}

func TestGower_WorkerCountIndependent(t *testing.T) {
	m := mixed(t, 33, 3)

	one, err := GowerCondensed(t.Context(), m, WithWorkers(1))
	require.NoError(t, err)
	many, err := GowerCondensed(t.Context(), m, WithWorkers(16))
	require.NoError(t, err)
	assert.Equal(t, one.Data(), many.Data())
}

func TestGower_CategoricalIdentical(t *testing.T) {
	rows := make([][]float64, 10)
	for i := range rows {
		rows[i] = []float64{0, 1, 0, 1}
	}
	m, err := feature.New(rows, []bool{true, true, true, true})
	require.NoError(t, err)

	cv, err := GowerCondensed(t.Context(), m)
	require.NoError(t, err)
	for _, d := range cv.Data() {
		assert.Zero(t, d)
	}
}

func TestGower_QuantitativeOutlier(t *testing.T) {
	rows := [][]float64{
		{0.10, 0.20, 1, 0},
		{0.12, 0.21, 1, 0},
		{0.11, 0.19, 0, 1},
		{0.09, 0.22, 1, 0},
		{9.00, 0.20, 1, 0}, // outlier in column 0
	}
	m, err := feature.New(rows, []bool{false, false, true, true})
	require.NoError(t, err)

	sq, err := Gower(t.Context(), m)
	require.NoError(t, err)

	outlier := 4
	var maxInlier float32
	for i := range outlier {
		for j := i + 1; j < outlier; j++ {
			if sq.At(i, j) > maxInlier && rows[i][2] == rows[j][2] {
				maxInlier = sq.At(i, j)
			}
		}
	}
	for i := range outlier {
		assert.Greater(t, sq.At(outlier, i), maxInlier, "record %d", i)
		assert.Greater(t, sq.At(outlier, i), float32(0.24))
	}
}

func TestGower_ConstantColumn(t *testing.T) {
	m, err := feature.New([][]float64{{5, 0}, {5, 1}}, []bool{false, false})
	require.NoError(t, err)

	d, err := Pair(m, 0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d, 1e-12, "constant column contributes 0 but still counts in the mean")
}

func TestGower_MissingValues(t *testing.T) {
	nan := math.NaN()
	m, err := feature.New([][]float64{
		{0, 1},
		{nan, 0},
		{2, nan},
		{nan, nan},
	}, []bool{false, true}, feature.AllowMissing())
	require.NoError(t, err)

	_, err = GowerCondensed(t.Context(), m)
	require.ErrorIs(t, err, ErrMissingValues)
	assert.ErrorIs(t, err, errkind.InvalidInput)

	cv, err := GowerCondensed(t.Context(), m, WithMissingValues())
	require.NoError(t, err)

	assert.InDelta(t, 1.0, cv.At(0, 1), 1e-6, "only the categorical column is comparable")
	assert.InDelta(t, 1.0, cv.At(0, 2), 1e-6, "only the quantitative column is comparable")
	assert.InDelta(t, 1.0, cv.At(1, 2), 1e-6, "no comparable column")
	assert.InDelta(t, 1.0, cv.At(0, 3), 1e-6, "no comparable column")
}

func TestGower_Weights(t *testing.T) {
	m, err := feature.New([][]float64{{0, 0}, {1, 0}}, []bool{false, true})
	require.NoError(t, err)

	d, err := Pair(m, 0, 1, WithWeights([]float64{3, 1}))
	require.NoError(t, err)
	assert.InDelta(t, 0.75, d, 1e-12)

	tests := []struct {
		name string
		w    []float64
	}{
		{"Length", []float64{1}},
		{"Negative", []float64{-1, 1}},
		{"NaN", []float64{math.NaN(), 1}},
		{"AllZero", []float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pair(m, 0, 1, WithWeights(tt.w))
			var we *WeightsError
			require.ErrorAs(t, err, &we)
			assert.ErrorIs(t, err, errkind.InvalidInput)
		})
	}
}

func TestGower_Cancellation(t *testing.T) {
	m := mixed(t, 200, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GowerCondensed(ctx, m)
	require.ErrorIs(t, err, errkind.Cancelled)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Gower(ctx, m)
	assert.ErrorIs(t, err, errkind.Cancelled)
}

func TestGower_NilMatrix(t *testing.T) {
	_, err := Gower(t.Context(), nil)
	assert.ErrorIs(t, err, ErrNilMatrix)
}

func TestPartition(t *testing.T) {
	for _, tc := range []struct{ n, parts int }{{2, 1}, {2, 8}, {10, 3}, {100, 16}, {101, 1}, {7, 0}} {
		blocks := partition(tc.n, tc.parts)
		require.NotEmpty(t, blocks)

		next := 0
		for _, b := range blocks {
			assert.Equal(t, next, b.lo, "contiguous n=%d parts=%d", tc.n, tc.parts)
			assert.Greater(t, b.hi, b.lo)
			next = b.hi
		}
		assert.Equal(t, tc.n-1, next, "covers every row with forward pairs")
	}
}

func BenchmarkGowerCondensed(b *testing.B) {
	rows, mask := testutil.NewRNG(1).MixedRecords(2000, 6, []int{10, 2, 2})
	m, err := feature.New(rows, mask)
	require.NoError(b, err)

	b.ResetTimer()
	for b.Loop() {
		_, err := GowerCondensed(context.Background(), m)
		if err != nil {
			b.Fatal(err)
		}
	}
}
