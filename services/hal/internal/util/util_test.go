package util

import (
	"encoding/json"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	type P struct {
		A int    `json:"a"`
		B string `json:"b"`
	}

	for name, in := range map[string]any{
		"bytes":   []byte(`{"a":1,"b":"x"}`),
		"raw":     json.RawMessage(`{"a":1,"b":"x"}`),
		"string":  `{"a":1,"b":"x"}`,
		"map":     map[string]any{"a": 1, "b": "x"},
		"decoded": map[string]any{"a": float64(1), "b": "x"},
	} {
		var p P
		if err := DecodeJSON(in, &p); err != nil {
			t.Fatalf("%s: decode failed: %v", name, err)
		}
		if p.A != 1 || p.B != "x" {
			t.Fatalf("%s: unexpected result: %+v", name, p)
		}
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	var p struct{ A int }
	if err := DecodeJSON(`{"A":`, &p); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	if err := DecodeJSON(func() {}, &p); err == nil {
		t.Fatal("expected error for unencodable value")
	}
}
