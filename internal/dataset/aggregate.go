package dataset

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LengthMismatchError reports labels that do not cover the sessions.
type LengthMismatchError struct {
	Sessions int
	Labels   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%d labels for %d sessions", e.Labels, e.Sessions)
}

// Table is a per-group summary. Rows are ordered by ascending label.
type Table struct {
	Columns []string
	Rows    []Row
}

// Row is the summary of one group.
type Row struct {
	Label  int
	Values []float64
}

// Value returns the named column of the row with the given label.
func (t *Table) Value(label int, column string) (float64, bool) {
	j := slices.Index(t.Columns, column)
	if j < 0 {
		return 0, false
	}
	for _, r := range t.Rows {
		if r.Label == label {
			return r.Values[j], true
		}
	}
	return 0, false
}

// Aggregate sums, per group, the raw Administrative, Informational and
// ProductRelated page counts, the number of special-day sessions and every
// Month indicator of p.
func Aggregate(sessions []Session, p *Prepared, labels []int) (*Table, error) {
	if len(labels) != len(sessions) {
		return nil, &LengthMismatchError{Sessions: len(sessions), Labels: len(labels)}
	}

	months := p.MonthColumns()
	cols := append([]string{"Administrative", "Informational", "ProductRelated", "SpecialDay"}, months...)
	monthVals := make([][]float64, len(months))
	for j, name := range months {
		monthVals[j] = p.Column(name)
	}

	sums := make(map[int][]float64)
	for i, s := range sessions {
		row, ok := sums[labels[i]]
		if !ok {
			row = make([]float64, len(cols))
			sums[labels[i]] = row
		}
		row[0] += s.Administrative
		row[1] += s.Informational
		row[2] += s.ProductRelated
		if IsSpecialDay(s) {
			row[3]++
		}
		for j := range months {
			row[4+j] += monthVals[j][i]
		}
	}

	return &Table{Columns: cols, Rows: sortedRows(sums)}, nil
}

// Profile summarizes BounceRates per group (mean, median, sample standard
// deviation, maximum) and counts sessions and purchases.
func Profile(sessions []Session, labels []int) (*Table, error) {
	if len(labels) != len(sessions) {
		return nil, &LengthMismatchError{Sessions: len(sessions), Labels: len(labels)}
	}

	bounce := make(map[int][]float64)
	revenue := make(map[int]float64)
	for i, s := range sessions {
		bounce[labels[i]] = append(bounce[labels[i]], s.BounceRates)
		if s.Revenue {
			revenue[labels[i]]++
		}
	}

	out := make(map[int][]float64, len(bounce))
	for l, x := range bounce {
		slices.Sort(x)
		std := math.NaN()
		if len(x) > 1 {
			std = stat.StdDev(x, nil)
		}
		out[l] = []float64{
			float64(len(x)),
			stat.Mean(x, nil),
			median(x),
			std,
			floats.Max(x),
			revenue[l],
		}
	}

	return &Table{
		Columns: []string{"Sessions", "BounceRates_mean", "BounceRates_median", "BounceRates_std", "BounceRates_max", "Revenue"},
		Rows:    sortedRows(out),
	}, nil
}

// median of sorted x, averaging the middle pair for even lengths.
func median(x []float64) float64 {
	n := len(x)
	if n%2 == 1 {
		return x[n/2]
	}
	return (x[n/2-1] + x[n/2]) / 2
}

func sortedRows(m map[int][]float64) []Row {
	rows := make([]Row, 0, len(m))
	for l, v := range m {
		rows = append(rows, Row{Label: l, Values: v})
	}
	slices.SortFunc(rows, func(a, b Row) int { return a.Label - b.Label })
	return rows
}
