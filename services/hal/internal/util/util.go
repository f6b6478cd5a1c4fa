// services/hal/internal/util/util.go
package util

import "encoding/json"

// DecodeJSON decodes a JSON-like value into dst. src may be raw JSON
// ([]byte, json.RawMessage, string) or an already-decoded value such as
// map[string]any, which is re-encoded first.
func DecodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case json.RawMessage:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}
