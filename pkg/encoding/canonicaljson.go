package encoding

import (
	"bytes"
	"encoding/json"
)

// CanonicalJSON serializes v with byte-lexicographically sorted object keys
// and no insignificant whitespace. encoding/json already emits no
// whitespace for json.Marshal and sorts map[string]any keys at every
// nesting level, so round-tripping through a generic map canonicalizes any
// struct regardless of its field declaration order. UseNumber avoids
// mangling integers through a float64 round trip.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}

	return json.Marshal(generic)
}
