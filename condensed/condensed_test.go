package condensed

import (
	"math/rand"
	"testing"

	"github.com/hupe1980/hclust/internal/errkind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	n := 5
	want := 0
	for i := range n - 1 {
		for j := i + 1; j < n; j++ {
			assert.Equal(t, want, Index(i, j, n), "(%d,%d)", i, j)
			assert.Equal(t, want, Index(j, i, n), "symmetric (%d,%d)", j, i)
			want++
		}
	}
	assert.Equal(t, Length(n), want)

	assert.Panics(t, func() { Index(2, 2, n) })
}

func TestSizeFromLength(t *testing.T) {
	for n := 2; n < 300; n++ {
		got, err := SizeFromLength(Length(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}

	for _, l := range []int{0, -1, 2, 4, 5, 7, 11} {
		_, err := SizeFromLength(l)
		var le *LengthError
		require.ErrorAs(t, err, &le, "length %d", l)
		assert.ErrorIs(t, err, errkind.InvalidInput)
	}

	got, err := SizeFromLength(Length(12330))
	require.NoError(t, err)
	assert.Equal(t, 12330, got)
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, n := range []int{2, 3, 10, 57} {
		s, err := NewSquare(n)
		require.NoError(t, err)
		for i := range n {
			for j := i + 1; j < n; j++ {
				s.Set(i, j, r.Float32())
			}
		}

		v, err := ToCondensed(s)
		require.NoError(t, err)
		assert.Equal(t, Length(n), v.Len())
		for i := range n {
			for j := i + 1; j < n; j++ {
				assert.Equal(t, s.At(i, j), v.Data()[Index(i, j, n)])
				assert.Equal(t, s.At(i, j), v.At(j, i))
			}
		}

		back, err := ToSquare(v)
		require.NoError(t, err)
		assert.True(t, s.Equal(back), "n=%d", n)
	}
}

func TestToCondensed_Validation(t *testing.T) {
	s, err := NewSquare(3)
	require.NoError(t, err)
	s.data[0*3+1] = 0.5 // only one side

	_, err = ToCondensed(s)
	var ae *AsymmetryError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 0, ae.I)
	assert.Equal(t, 1, ae.J)

	s, err = NewSquare(3)
	require.NoError(t, err)
	s.data[4] = 1
	_, err = ToCondensed(s)
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, ae.I, ae.J)

	_, err = ToCondensed(nil)
	assert.ErrorIs(t, err, ErrTooSmall)
}

func TestFromSlice(t *testing.T) {
	v, err := FromSlice([]float32{0.1, 0.9, 0.9, 0.9, 0.9, 0.2})
	require.NoError(t, err)
	assert.Equal(t, 4, v.N())
	assert.Equal(t, float32(0.2), v.At(2, 3))
	assert.Equal(t, float32(0), v.At(1, 1))
	assert.Equal(t, []float32{0.9, 0.9}, v.Row(1))
	assert.Nil(t, v.Row(3))

	_, err = FromSlice([]float32{1, 2})
	assert.ErrorIs(t, err, errkind.InvalidInput)
}

func TestFromRows(t *testing.T) {
	s, err := FromRows([][]float64{
		{0, 1, 2},
		{1, 0, 3},
		{2, 3, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, float32(3), s.At(2, 1))
	assert.Equal(t, []float32{2, 3, 0}, s.Row(2))

	_, err = FromRows([][]float64{{0, 1}, {2, 0}})
	assert.ErrorIs(t, err, errkind.InvalidInput)

	_, err = FromRows([][]float64{{0}})
	assert.ErrorIs(t, err, ErrTooSmall)
}

func TestClone(t *testing.T) {
	v, err := NewVector(3)
	require.NoError(t, err)
	v.Set(0, 2, 0.5)
	c := v.Clone()
	c.Set(0, 2, 0.7)
	assert.Equal(t, float32(0.5), v.At(0, 2))
	assert.Equal(t, int64(12), v.SizeBytes())
}
