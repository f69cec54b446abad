package cache

import "fmt"

// Kind separates artifact key spaces.
type Kind uint8

const (
	KindUnknown   Kind = iota
	KindDistances      // N×N dissimilarity matrix
	KindCondensed      // condensed dissimilarity vector
	KindTree           // merge tree, one per linkage method
)

func (k Kind) String() string {
	switch k {
	case KindDistances:
		return "distances"
	case KindCondensed:
		return "condensed"
	case KindTree:
		return "tree"
	default:
		return "unknown"
	}
}

// Key identifies a cached artifact.
type Key struct {
	Kind Kind
	// Fingerprint of the feature matrix (values and column kinds).
	Fingerprint uint64
	// Method is the linkage method for KindTree and 0 otherwise.
	Method uint8
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%016x/%d", k.Kind, k.Fingerprint, k.Method)
}
