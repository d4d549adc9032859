package codec

import (
	"bytes"

	gojson "github.com/goccy/go-json"
)

// GoJSON is a JSON codec backed by github.com/goccy/go-json.
type GoJSON struct {
	// Strict rejects object fields the target type does not declare.
	Strict bool
}

// Marshal encodes v as JSON.
func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal decodes data into v.
func (c GoJSON) Unmarshal(data []byte, v any) error {
	if !c.Strict {
		return gojson.Unmarshal(data, v)
	}
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Name returns "go-json", or "go-json-strict" in strict mode.
func (c GoJSON) Name() string {
	if c.Strict {
		return "go-json-strict"
	}
	return "go-json"
}
