package condensed

import (
	"math"
	"slices"
)

// Index returns the condensed offset of pair (i, j). The pair is unordered.
// It panics if i == j, like an out-of-range slice index.
func Index(i, j, n int) int {
	if i == j {
		panic("condensed: diagonal has no condensed index")
	}
	if i > j {
		i, j = j, i
	}
	return i*(2*n-i-1)/2 + (j - i - 1)
}

// Length returns N(N-1)/2.
func Length(n int) int {
	return n * (n - 1) / 2
}

// SizeFromLength returns N such that N(N-1)/2 == l.
func SizeFromLength(l int) (int, error) {
	if l < 1 {
		return 0, &LengthError{Length: l}
	}
	n := int((1 + math.Sqrt(1+8*float64(l))) / 2)
	// Correct float rounding in either direction.
	for Length(n) > l {
		n--
	}
	for Length(n+1) <= l {
		n++
	}
	if Length(n) != l {
		return 0, &LengthError{Length: l}
	}
	return n, nil
}

// Vector is the condensed upper-triangular form of a distance matrix.
type Vector struct {
	n    int
	data []float32
}

// NewVector allocates a zeroed vector for n observations.
func NewVector(n int) (*Vector, error) {
	if n < 2 {
		return nil, ErrTooSmall
	}
	return &Vector{n: n, data: make([]float32, Length(n))}, nil
}

// FromSlice wraps data as a condensed vector, inferring N. data is retained,
// not copied.
func FromSlice(data []float32) (*Vector, error) {
	n, err := SizeFromLength(len(data))
	if err != nil {
		return nil, err
	}
	return &Vector{n: n, data: data}, nil
}

// N returns the number of observations.
func (v *Vector) N() int { return v.n }

// Len returns N(N-1)/2.
func (v *Vector) Len() int { return len(v.data) }

// At returns the distance between i and j. At(i, i) is 0.
func (v *Vector) At(i, j int) float32 {
	if i == j {
		return 0
	}
	return v.data[Index(i, j, v.n)]
}

// Set stores the distance between i and j.
func (v *Vector) Set(i, j int, d float32) {
	v.data[Index(i, j, v.n)] = d
}

// Data exposes the backing slice. Callers must treat it as read-only unless
// they own the vector.
func (v *Vector) Data() []float32 { return v.data }

// Row returns the contiguous slice of distances (i, i+1) ... (i, n-1).
func (v *Vector) Row(i int) []float32 {
	if i >= v.n-1 {
		return nil
	}
	start := Index(i, i+1, v.n)
	return v.data[start : start+v.n-i-1]
}

// Clone returns a deep copy.
func (v *Vector) Clone() *Vector {
	return &Vector{n: v.n, data: slices.Clone(v.data)}
}

// SizeBytes reports the memory held by the distances.
func (v *Vector) SizeBytes() int64 { return int64(len(v.data)) * 4 }

// Square is a full N x N symmetric distance matrix.
type Square struct {
	n    int
	data []float32
}

// NewSquare allocates a zeroed n x n matrix.
func NewSquare(n int) (*Square, error) {
	if n < 2 {
		return nil, ErrTooSmall
	}
	return &Square{n: n, data: make([]float32, n*n)}, nil
}

// FromRows builds a Square from nested rows, validating shape, symmetry and
// the zero diagonal.
func FromRows(rows [][]float64) (*Square, error) {
	n := len(rows)
	s, err := NewSquare(n)
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		if len(r) != n {
			return nil, &LengthError{Length: len(r)}
		}
		for j, d := range r {
			s.data[i*n+j] = float32(d)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// N returns the number of observations.
func (s *Square) N() int { return s.n }

// At returns the distance between i and j.
func (s *Square) At(i, j int) float32 { return s.data[i*s.n+j] }

// Set stores d at (i, j) and (j, i).
func (s *Square) Set(i, j int, d float32) {
	s.data[i*s.n+j] = d
	s.data[j*s.n+i] = d
}

// Row returns a read-only view of row i.
func (s *Square) Row(i int) []float32 {
	off := i * s.n
	return s.data[off : off+s.n : off+s.n]
}

// SizeBytes reports the memory held by the distances.
func (s *Square) SizeBytes() int64 { return int64(len(s.data)) * 4 }

// Validate checks symmetry and the zero diagonal exactly.
func (s *Square) Validate() error {
	for i := range s.n {
		if s.data[i*s.n+i] != 0 {
			return &AsymmetryError{I: i, J: i}
		}
		for j := i + 1; j < s.n; j++ {
			if s.data[i*s.n+j] != s.data[j*s.n+i] {
				return &AsymmetryError{I: i, J: j}
			}
		}
	}
	return nil
}

// Equal reports whether both matrices hold identical distances.
func (s *Square) Equal(o *Square) bool {
	return s.n == o.n && slices.Equal(s.data, o.data)
}

// ToCondensed converts a validated square matrix into its condensed form.
func ToCondensed(s *Square) (*Vector, error) {
	if s == nil || s.n < 2 {
		return nil, ErrTooSmall
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	v := &Vector{n: s.n, data: make([]float32, Length(s.n))}
	k := 0
	for i := range s.n - 1 {
		row := s.data[i*s.n+i+1 : (i+1)*s.n]
		k += copy(v.data[k:], row)
	}
	return v, nil
}

// ToSquare expands a condensed vector into the full symmetric matrix.
func ToSquare(v *Vector) (*Square, error) {
	if v == nil {
		return nil, ErrTooSmall
	}
	if Length(v.n) != len(v.data) {
		return nil, &LengthError{Length: len(v.data)}
	}
	n := v.n
	s := &Square{n: n, data: make([]float32, n*n)}
	k := 0
	for i := range n - 1 {
		for j := i + 1; j < n; j++ {
			d := v.data[k]
			s.data[i*n+j] = d
			s.data[j*n+i] = d
			k++
		}
	}
	return s, nil
}
