package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMixedRecords(t *testing.T) {
	rng := NewRNG(4711)

	rows, mask := rng.MixedRecords(8, 2, []int{3, 2})

	assert.Len(t, rows, 8)
	assert.Len(t, rows[0], 7)
	assert.Equal(t, []bool{false, false, true, true, true, true, true}, mask)

	for _, r := range rows {
		assert.Equal(t, 1.0, r[2]+r[3]+r[4], "one level per block")
		assert.Equal(t, 1.0, r[5]+r[6])
	}
}

func TestClusteredRecords(t *testing.T) {
	rng := NewRNG(4711)

	rows, mask, groups := rng.ClusteredRecords(9, 2, 3, 0.1)

	assert.Len(t, rows, 9)
	assert.Len(t, mask, 5)
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0, 1, 2}, groups)
	assert.Equal(t, 1.0, rows[4][2+1])
	assert.InDelta(t, 20.0, rows[5][0], 1)
}

func TestDistances(t *testing.T) {
	d := NewRNG(1).Distances(6)
	for i := range d {
		assert.Zero(t, d[i][i])
		for j := range d {
			assert.Equal(t, d[i][j], d[j][i])
		}
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.Distances(4)
	rng.Reset()
	v2 := rng.Distances(4)
	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestBruteForceLinkage(t *testing.T) {
	d := [][]float64{
		{0, 0.1, 0.9, 0.9},
		{0.1, 0, 0.9, 0.9},
		{0.9, 0.9, 0, 0.2},
		{0.9, 0.9, 0.2, 0},
	}

	merges := BruteForceLinkage(d, MaxLink(d))
	assert.Equal(t, []NaiveMerge{
		{Left: 0, Right: 1, Height: 0.1, Size: 2},
		{Left: 2, Right: 3, Height: 0.2, Size: 2},
		{Left: 4, Right: 5, Height: 0.9, Size: 4},
	}, merges)

	merges = BruteForceLinkage(d, MinLink(d))
	assert.Equal(t, 0.9, merges[2].Height)

	merges = BruteForceLinkage(d, MeanLink(d))
	assert.InDelta(t, 0.9, merges[2].Height, 1e-12)
}
