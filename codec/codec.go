// Package codec encodes exported artifacts such as dendrogram layouts and
// flat cluster assignments.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is named.
var Default Codec = JSON{Indent: "  "}

// Names lists the built-in codec names.
var Names = []string{"json", "yaml"}

// ByName returns a built-in codec by its name.
func ByName(name string) (Codec, bool) {
	switch strings.ToLower(name) {
	case "json":
		return Default, true
	case "yaml", "yml":
		return YAML{}, true
	default:
		return nil, false
	}
}

// ForPath picks a codec by file extension and falls back to Default.
func ForPath(path string) Codec {
	if c, ok := ByName(strings.TrimPrefix(filepath.Ext(path), ".")); ok {
		return c
	}
	return Default
}

// MustMarshal is a helper for tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
