package linkage

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/hclust/internal/errkind"
)

// Method selects the inter-cluster distance rule.
type Method uint8

const (
	// Complete uses the maximum pairwise distance between members.
	Complete Method = iota
	// Single uses the minimum pairwise distance between members.
	Single
	// Average uses the mean pairwise distance between members (UPGMA).
	Average
	// Weighted averages the two merged clusters' distances (WPGMA).
	Weighted
	// Ward minimizes the increase of within-cluster variance. Inputs should
	// be Euclidean distances for the heights to be meaningful.
	Ward
)

// Methods lists every supported method.
var Methods = []Method{Complete, Single, Average, Weighted, Ward}

func (m Method) String() string {
	switch m {
	case Complete:
		return "complete"
	case Single:
		return "single"
	case Average:
		return "average"
	case Weighted:
		return "weighted"
	case Ward:
		return "ward"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}

// ParseMethod resolves a method by its (case-insensitive) name.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown linkage method %q", errkind.InvalidInput, s)
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	return m <= Ward
}

// update returns the distance from the union of a and b to c.
func (m Method) update(dac, dbc, dab float64, na, nb, nc int) float64 {
	switch m {
	case Single:
		return math.Min(dac, dbc)
	case Average:
		fa, fb := float64(na), float64(nb)
		return (fa*dac + fb*dbc) / (fa + fb)
	case Weighted:
		return (dac + dbc) / 2
	case Ward:
		fa, fb, fc := float64(na), float64(nb), float64(nc)
		v := ((fa+fc)*dac*dac + (fb+fc)*dbc*dbc - fc*dab*dab) / (fa + fb + fc)
		if v < 0 {
			v = 0
		}
		return math.Sqrt(v)
	default:
		return math.Max(dac, dbc)
	}
}
