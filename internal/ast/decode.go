package ast

import (
	"encoding/json"
	"fmt"
)

// decodeTag sniffs a tagged-union JSON value. It reports whether the value
// was a bare string (the "Break"/"Continue" shorthand spec.md §6 allows),
// and otherwise requires a single-key object and returns that key and its
// payload.
func decodeTag(data []byte) (tag string, body json.RawMessage, bare bool, err error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil, true, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", nil, false, fmt.Errorf("ast: expected a string or single-key object: %w", err)
	}
	if len(obj) != 1 {
		return "", nil, false, fmt.Errorf("ast: tagged object must have exactly one key, got %d", len(obj))
	}
	for k, v := range obj {
		return k, v, false, nil
	}
	panic("unreachable")
}

// decodeOpPair reads the dual encodings spec.md §6 requires for BinOp/UnOp
// payloads: a list form ([op, operands...]) or an object form
// ({"op":..., "left":..., ...}).
func decodeOpPair(data json.RawMessage) (isList bool, list []json.RawMessage, obj map[string]json.RawMessage, err error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err == nil {
		return true, arr, nil, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return false, nil, nil, fmt.Errorf("ast: expected a list or object payload: %w", err)
	}
	return false, nil, m, nil
}
