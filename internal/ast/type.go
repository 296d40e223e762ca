// Package ast defines the Cflat AST as read off the wire: a type-checked
// program tree produced by some upstream front end and handed to this
// repo as JSON. The shapes here mirror the LIR type algebra one level up,
// before conversion.
package ast

import (
	"encoding/json"
	"fmt"
)

// Type is a tagged union over the closed set of Cflat surface types:
// Int, Nil, Struct(name), Ptr(T), Array(T), Fn(params, ret).
type Type struct {
	Kind   TypeKind
	Name   string // Struct
	Elem   *Type  // Ptr, Array
	Params []Type // Fn
	Ret    *Type  // Fn
}

type TypeKind int

const (
	KindInt TypeKind = iota
	KindNil
	KindStruct
	KindPtr
	KindArray
	KindFn
)

func (t Type) String() string {
	switch t.Kind {
	case KindInt:
		return "Int"
	case KindNil:
		return "Nil"
	case KindStruct:
		return fmt.Sprintf("Struct(%s)", t.Name)
	case KindPtr:
		return fmt.Sprintf("Ptr(%s)", t.Elem.String())
	case KindArray:
		return fmt.Sprintf("Array(%s)", t.Elem.String())
	case KindFn:
		return fmt.Sprintf("Fn(%v, %s)", t.Params, t.Ret.String())
	default:
		return "?"
	}
}

// UnmarshalJSON accepts the two encodings spec.md §6 requires of types:
// a bare string ("Int", "Nil") or a single-key object
// ({"Struct":"Name"}, {"Ptr":T}, {"Array":T}, {"Struct":name},
// {"Fn":[[Pi...],R]}).
func (t *Type) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		switch asString {
		case "Int":
			*t = Type{Kind: KindInt}
			return nil
		case "Nil":
			*t = Type{Kind: KindNil}
			return nil
		default:
			return fmt.Errorf("ast: unrecognized bare type string %q", asString)
		}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("ast: type must be a string or single-key object: %w", err)
	}
	if len(obj) != 1 {
		return fmt.Errorf("ast: type object must have exactly one key, got %d", len(obj))
	}
	for key, raw := range obj {
		switch key {
		case "Struct":
			var name string
			if err := json.Unmarshal(raw, &name); err != nil {
				return fmt.Errorf("ast: Struct type: %w", err)
			}
			*t = Type{Kind: KindStruct, Name: name}
			return nil
		case "Ptr":
			var elem Type
			if err := json.Unmarshal(raw, &elem); err != nil {
				return fmt.Errorf("ast: Ptr type: %w", err)
			}
			*t = Type{Kind: KindPtr, Elem: &elem}
			return nil
		case "Array":
			var elem Type
			if err := json.Unmarshal(raw, &elem); err != nil {
				return fmt.Errorf("ast: Array type: %w", err)
			}
			*t = Type{Kind: KindArray, Elem: &elem}
			return nil
		case "Fn":
			var tuple [2]json.RawMessage
			if err := json.Unmarshal(raw, &tuple); err != nil {
				return fmt.Errorf("ast: Fn type: %w", err)
			}
			if tuple[0] == nil || tuple[1] == nil {
				return fmt.Errorf("ast: Fn type requires [params, ret]")
			}
			var params []Type
			if err := json.Unmarshal(tuple[0], &params); err != nil {
				return fmt.Errorf("ast: Fn params: %w", err)
			}
			var ret Type
			if err := json.Unmarshal(tuple[1], &ret); err != nil {
				return fmt.Errorf("ast: Fn ret: %w", err)
			}
			*t = Type{Kind: KindFn, Params: params, Ret: &ret}
			return nil
		default:
			return fmt.Errorf("ast: unrecognized type tag %q", key)
		}
	}
	return nil
}
