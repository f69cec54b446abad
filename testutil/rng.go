package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// MixedRecords generates num records with quant standard-normal columns
// followed by one one-hot block per entry of levels (levels[b] indicator
// columns, exactly one set per record). The returned mask marks the
// indicator columns as categorical.
func (r *RNG) MixedRecords(num, quant int, levels []int) ([][]float64, []bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	width := quant
	for _, l := range levels {
		width += l
	}

	mask := make([]bool, width)
	for j := quant; j < width; j++ {
		mask[j] = true
	}

	data := make([]float64, num*width)
	rows := make([][]float64, num)
	for i := range num {
		row := data[i*width : (i+1)*width]
		for j := range quant {
			row[j] = r.rand.NormFloat64()
		}
		off := quant
		for _, l := range levels {
			row[off+r.rand.Intn(l)] = 1
			off += l
		}
		rows[i] = row
	}
	return rows, mask
}

// ClusteredRecords generates num records in k well separated groups. Every
// group has its own quantitative centre (spread controls the noise) and its
// own level of a k-way one-hot block. groups[i] is the group of record i;
// records are assigned round-robin.
func (r *RNG) ClusteredRecords(num, quant, k int, spread float64) ([][]float64, []bool, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	centres := make([][]float64, k)
	for g := range centres {
		centres[g] = make([]float64, quant)
		for j := range centres[g] {
			centres[g][j] = float64(g) * 10
		}
	}

	width := quant + k
	mask := make([]bool, width)
	for j := quant; j < width; j++ {
		mask[j] = true
	}

	rows := make([][]float64, num)
	groups := make([]int, num)
	for i := range num {
		g := i % k
		row := make([]float64, width)
		for j := range quant {
			row[j] = centres[g][j] + r.rand.NormFloat64()*spread
		}
		row[quant+g] = 1
		rows[i] = row
		groups[i] = g
	}
	return rows, mask, groups
}

// Distances generates a random symmetric n x n matrix with zero diagonal and
// off-diagonal entries in (0, 1). Values are rounded through float32 so they
// compare exactly with condensed storage.
func (r *RNG) Distances(n int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			v := float64(float32(r.rand.Float64()*0.999 + 0.001))
			d[i][j], d[j][i] = v, v
		}
	}
	return d
}
