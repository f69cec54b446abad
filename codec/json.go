package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec. Non-finite floats cannot be
// encoded.
type JSON struct {
	// Indent, when set, pretty-prints with this indent per level.
	Indent string
}

// Marshal encodes the value to JSON.
func (c JSON) Marshal(v any) ([]byte, error) {
	if c.Indent == "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", c.Indent)
}

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }
