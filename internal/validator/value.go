package validator

import (
	"bytes"
	"encoding/json"
)

// Value is a raw form value as typed by the user. It decodes from a JSON
// string, a JSON number (kept as its literal text) or null (empty). Any other
// JSON literal is kept verbatim so coercion reports it as a field error
// instead of failing the whole request body.
type Value string

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*v = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value(s)
	default:
		*v = Value(b)
	}
	return nil
}

// String returns the raw text.
func (v Value) String() string { return string(v) }
