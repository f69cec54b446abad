package dataset

import (
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/hclust/feature"
)

// QuantitativeColumns are the navigation columns used as quantitative
// features, in feature order.
var QuantitativeColumns = []string{
	"Administrative",
	"Administrative_Duration",
	"Informational",
	"Informational_Duration",
	"ProductRelated",
	"ProductRelated_Duration",
}

// CategoricalColumns are the date qualifiers that are one-hot encoded, in
// feature order.
var CategoricalColumns = []string{"Month", "Weekend", "SpecialDay"}

// Prepared is the feature representation of a session slice.
type Prepared struct {
	// Columns names every feature column.
	Columns []string

	// Categorical marks indicator columns.
	Categorical []bool

	Matrix *feature.Matrix
}

// MonthColumns returns the names of the Month indicator columns.
func (p *Prepared) MonthColumns() []string {
	var out []string
	for _, c := range p.Columns {
		if strings.HasPrefix(c, "Month_") {
			out = append(out, c)
		}
	}
	return out
}

// Column returns the values of the named feature column, or nil.
func (p *Prepared) Column(name string) []float64 {
	j := slices.Index(p.Columns, name)
	if j < 0 {
		return nil
	}
	out := make([]float64, p.Matrix.Rows())
	for i := range out {
		out[i] = p.Matrix.At(i, j)
	}
	return out
}

// IsSpecialDay reports whether a session is close to a special date.
func IsSpecialDay(s Session) bool { return s.SpecialDay > 0 }

func quantitative(s Session) [6]float64 {
	return [6]float64{
		s.Administrative,
		s.AdministrativeDuration,
		s.Informational,
		s.InformationalDuration,
		s.ProductRelated,
		s.ProductRelatedDuration,
	}
}

func categorical(s Session) [3]string {
	return [3]string{
		s.Month,
		strconv.FormatBool(s.Weekend),
		strconv.FormatBool(IsSpecialDay(s)),
	}
}

// Prepare builds the feature matrix of sessions.
func Prepare(sessions []Session) (*Prepared, error) {
	if len(sessions) == 0 {
		return nil, ErrNoSessions
	}
	n := len(sessions)

	quant := make([][]float64, len(QuantitativeColumns))
	for j := range quant {
		col := make([]float64, n)
		for i, s := range sessions {
			col[i] = quantitative(s)[j]
		}
		zscore(col)
		quant[j] = col
	}

	var (
		columns []string
		mask    []bool
		blocks  [][]string // levels per categorical column
	)
	columns = append(columns, QuantitativeColumns...)
	mask = append(mask, make([]bool, len(QuantitativeColumns))...)

	for j, name := range CategoricalColumns {
		levels := make([]string, 0, 12)
		for _, s := range sessions {
			v := categorical(s)[j]
			if !slices.Contains(levels, v) {
				levels = append(levels, v)
			}
		}
		slices.Sort(levels)
		blocks = append(blocks, levels)
		for _, l := range levels {
			columns = append(columns, name+"_"+dummyLabel(l))
			mask = append(mask, true)
		}
	}

	m := len(columns)
	data := make([]float64, n*m)
	for i, s := range sessions {
		row := data[i*m : (i+1)*m]
		for j := range quant {
			row[j] = quant[j][i]
		}
		off := len(quant)
		cat := categorical(s)
		for b, levels := range blocks {
			row[off+slices.Index(levels, cat[b])] = 1
			off += len(levels)
		}
	}

	fm, err := feature.NewDense(data, n, m, mask)
	if err != nil {
		return nil, err
	}
	return &Prepared{Columns: columns, Categorical: mask, Matrix: fm}, nil
}

// dummyLabel capitalizes boolean levels: Weekend_True, SpecialDay_False.
func dummyLabel(level string) string {
	switch level {
	case "true":
		return "True"
	case "false":
		return "False"
	default:
		return level
	}
}

// zscore standardizes x in place with the population standard deviation.
func zscore(x []float64) {
	mean, std := stat.PopMeanStdDev(x, nil)
	for i, v := range x {
		if std == 0 {
			x[i] = 0
			continue
		}
		x[i] = (v - mean) / std
	}
}
