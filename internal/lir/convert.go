package lir

import (
	"cflatlower/internal/ast"
	cflaterrors "cflatlower/internal/errors"
)

// ConvertType lowers a Cflat surface type into its LIR counterpart. The
// two algebras are isomorphic one level down; the only failure mode is an
// AST type variant this converter does not recognize, which should not
// occur against a type-checked program but is reported as UnsupportedType
// rather than trusted blindly.
func ConvertType(t *ast.Type) (Type, error) {
	if t == nil {
		return nil, cflaterrors.New(cflaterrors.UnsupportedType, "nil ast.Type")
	}
	switch t.Kind {
	case ast.KindInt:
		return IntType{}, nil
	case ast.KindNil:
		return NilType{}, nil
	case ast.KindStruct:
		return StructType{Name: t.Name}, nil
	case ast.KindPtr:
		elem, err := ConvertType(t.Elem)
		if err != nil {
			return nil, err
		}
		return PtrType{Elem: elem}, nil
	case ast.KindArray:
		elem, err := ConvertType(t.Elem)
		if err != nil {
			return nil, err
		}
		return ArrayType{Elem: elem}, nil
	case ast.KindFn:
		params := make([]Type, len(t.Params))
		for i := range t.Params {
			p, err := ConvertType(&t.Params[i])
			if err != nil {
				return nil, err
			}
			params[i] = p
		}
		ret, err := ConvertType(t.Ret)
		if err != nil {
			return nil, err
		}
		return FnType{Params: params, Ret: ret}, nil
	default:
		return nil, cflaterrors.New(cflaterrors.UnsupportedType, "unrecognized ast type kind")
	}
}
