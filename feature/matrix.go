package feature

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/hupe1980/hclust/internal/hash"
)

// Kind tags a column with the comparison rule used for it.
type Kind uint8

const (
	// Quantitative columns are compared by range-normalized absolute difference.
	Quantitative Kind = iota
	// Categorical columns are compared by simple matching.
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Quantitative:
		return "Quantitative"
	case Categorical:
		return "Categorical"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Option configures matrix construction.
type Option func(*options)

type options struct {
	allowMissing bool
}

// AllowMissing accepts NaN cells as missing values.
func AllowMissing() Option {
	return func(o *options) {
		o.allowMissing = true
	}
}

// Matrix is an immutable N x M feature matrix with per-column kinds.
// It is safe for concurrent use.
type Matrix struct {
	rows    int
	cols    int
	data    []float64
	kinds   []Kind
	missing bool

	rangesOnce sync.Once
	ranges     []float64

	fpOnce sync.Once
	fp     uint64
}

// New builds a Matrix from records. categorical[j] reports whether column j
// is categorical. The input is copied.
func New(records [][]float64, categorical []bool, optFns ...Option) (*Matrix, error) {
	if len(records) < 2 {
		return nil, ErrTooFewRows
	}
	cols := len(records[0])
	data := make([]float64, 0, len(records)*cols)
	for i, r := range records {
		if len(r) != cols {
			return nil, &RaggedRowError{Row: i, Expected: cols, Actual: len(r)}
		}
		data = append(data, r...)
	}
	return build(data, len(records), cols, categorical, optFns)
}

// NewDense builds a Matrix from a row-major slice of rows*cols values.
// The input is copied.
func NewDense(data []float64, rows, cols int, categorical []bool, optFns ...Option) (*Matrix, error) {
	if rows < 2 {
		return nil, ErrTooFewRows
	}
	if cols < 1 {
		return nil, ErrNoColumns
	}
	if len(data) != rows*cols {
		return nil, &RaggedRowError{Row: -1, Expected: rows * cols, Actual: len(data)}
	}
	return build(slices.Clone(data), rows, cols, categorical, optFns)
}

func build(data []float64, rows, cols int, categorical []bool, optFns []Option) (*Matrix, error) {
	var o options
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if cols < 1 {
		return nil, ErrNoColumns
	}
	if len(categorical) != cols {
		return nil, &MaskMismatchError{Expected: cols, Actual: len(categorical)}
	}

	kinds := make([]Kind, cols)
	for j, c := range categorical {
		if c {
			kinds[j] = Categorical
		}
	}

	m := &Matrix{rows: rows, cols: cols, data: data, kinds: kinds}
	for idx, v := range data {
		switch {
		case math.IsInf(v, 0):
			return nil, &ValueError{Row: idx / cols, Col: idx % cols, Reason: ErrNonFinite}
		case math.IsNaN(v):
			if !o.allowMissing {
				return nil, &ValueError{Row: idx / cols, Col: idx % cols, Reason: ErrNonFinite}
			}
			m.missing = true
		}
	}

	return m, nil
}

// Rows returns N, the number of records.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns M, the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.cols+j] }

// Row returns a read-only view of record i. Callers must not modify it.
func (m *Matrix) Row(i int) []float64 {
	off := i * m.cols
	return m.data[off : off+m.cols : off+m.cols]
}

// Kind returns the kind of column j.
func (m *Matrix) Kind(j int) Kind { return m.kinds[j] }

// Kinds returns a copy of the column kinds.
func (m *Matrix) Kinds() []Kind { return slices.Clone(m.kinds) }

// CategoricalMask returns the mask the matrix was built with.
func (m *Matrix) CategoricalMask() []bool {
	mask := make([]bool, m.cols)
	for j, k := range m.kinds {
		mask[j] = k == Categorical
	}
	return mask
}

// HasMissing reports whether any cell is NaN.
func (m *Matrix) HasMissing() bool { return m.missing }

// Ranges returns max-min of every quantitative column over all records,
// ignoring missing cells. Categorical columns and columns without any
// present value report 0. Computed once; the returned slice is a copy.
func (m *Matrix) Ranges() []float64 {
	m.rangesOnce.Do(func() {
		m.ranges = make([]float64, m.cols)
		for j := range m.cols {
			if m.kinds[j] == Categorical {
				continue
			}
			lo, hi := math.Inf(1), math.Inf(-1)
			for i := range m.rows {
				v := m.data[i*m.cols+j]
				if math.IsNaN(v) {
					continue
				}
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
			if hi > lo {
				m.ranges[j] = hi - lo
			}
		}
	})
	return slices.Clone(m.ranges)
}

// Fingerprint identifies this snapshot of values and kinds. Computed once.
func (m *Matrix) Fingerprint() uint64 {
	m.fpOnce.Do(func() {
		tags := make([]byte, m.cols)
		for j, k := range m.kinds {
			tags[j] = byte(k)
		}
		m.fp = hash.Fingerprint(m.rows, m.cols, tags, m.data)
	})
	return m.fp
}
