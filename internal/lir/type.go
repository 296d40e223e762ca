// Package lir is the low-level intermediate representation: a control-flow
// graph of basic blocks over a closed instruction and terminator set,
// built by lowering a type-checked Cflat AST.
package lir

import (
	"fmt"
	"strings"
)

// Type is the LIR type algebra: Int, Nil, Struct(name), Ptr(T), Array(T),
// Fn(params, ret). Equal implements the asymmetric Nil-admits-pointer/array
// equality rule rather than structural identity.
type Type interface {
	String() string
	isType()
}

type IntType struct{}

func (IntType) String() string { return "int" }
func (IntType) isType()        {}

type NilType struct{}

func (NilType) String() string { return "nil" }
func (NilType) isType()        {}

type StructType struct{ Name string }

func (t StructType) String() string { return "struct " + t.Name }
func (StructType) isType()          {}

type PtrType struct{ Elem Type }

func (t PtrType) String() string { return "&" + t.Elem.String() }
func (PtrType) isType()          {}

type ArrayType struct{ Elem Type }

func (t ArrayType) String() string { return "[" + t.Elem.String() + "]" }
func (ArrayType) isType()          {}

type FnType struct {
	Params []Type
	Ret    Type
}

func (t FnType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("fn (%s) -> %s", strings.Join(parts, ", "), t.Ret.String())
}
func (FnType) isType() {}

// Equal implements spec.md §3's type-equality law: structurally identical
// types are equal; Nil is additionally equal to any Nil, Ptr(_), or
// Array(_), in either operand position (and symmetrically, any Ptr(_) or
// Array(_) admits Nil as equal). Every other pairing requires exact kind
// and structural match.
func Equal(a, b Type) bool {
	_, aNil := a.(NilType)
	_, bNil := b.(NilType)
	if aNil || bNil {
		return admitsNil(a) && admitsNil(b)
	}
	switch av := a.(type) {
	case IntType:
		_, ok := b.(IntType)
		return ok
	case StructType:
		bv, ok := b.(StructType)
		return ok && av.Name == bv.Name
	case PtrType:
		bv, ok := b.(PtrType)
		return ok && Equal(av.Elem, bv.Elem)
	case ArrayType:
		bv, ok := b.(ArrayType)
		return ok && Equal(av.Elem, bv.Elem)
	case FnType:
		bv, ok := b.(FnType)
		if !ok || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return Equal(av.Ret, bv.Ret)
	default:
		return false
	}
}

func admitsNil(t Type) bool {
	switch t.(type) {
	case NilType, PtrType, ArrayType:
		return true
	default:
		return false
	}
}
