package dendrogram

// ChildOrder selects which child of a merge is laid out first.
type ChildOrder int

const (
	// OrderMerge keeps the recorded order: the smaller node id first.
	OrderMerge ChildOrder = iota
	// OrderCountAscending puts the child with fewer observations first.
	OrderCountAscending
	// OrderCountDescending puts the child with more observations first.
	OrderCountDescending
)

type truncateMode int

const (
	truncateNone truncateMode = iota
	truncateLevel
	truncateLastP
)

func (m truncateMode) String() string {
	switch m {
	case truncateLevel:
		return "level"
	case truncateLastP:
		return "lastp"
	default:
		return "none"
	}
}

type options struct {
	order     ChildOrder
	truncate  truncateMode
	p         int
	threshold float64
	hasThresh bool
}

// Option configures Project.
type Option func(o *options)

// WithOrder sets the child order. The default is OrderMerge.
func WithOrder(order ChildOrder) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithTruncateLevel displays at most p merge levels below the root (depth
// 0). Deeper subtrees become collapsed leaves. p must be >= 0.
func WithTruncateLevel(p int) Option {
	return func(o *options) {
		o.truncate = truncateLevel
		o.p = p
	}
}

// WithTruncateLastP displays only the last p merged clusters as leaves.
// p must be >= 1; a value of N or more disables truncation.
func WithTruncateLastP(p int) Option {
	return func(o *options) {
		o.truncate = truncateLastP
		o.p = p
	}
}

// WithColorThreshold sets the colour threshold height. Links strictly
// below it share the group of their topmost sub-threshold ancestor; links
// at or above it are in group -1. The default is 0.7 times the maximum
// merge height.
func WithColorThreshold(h float64) Option {
	return func(o *options) {
		o.threshold = h
		o.hasThresh = true
	}
}

func applyOptions(optFns []Option) options {
	var o options
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
