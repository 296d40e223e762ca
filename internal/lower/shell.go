// Package lower implements the lowering core: the program shell builder,
// the per-function lowerer that constructs each function's translation
// vector, and the CFG builder that reconstructs basic blocks from it.
package lower

import (
	"cflatlower/internal/ast"
	cflaterrors "cflatlower/internal/errors"
	"cflatlower/internal/lir"
)

// BuildShell converts every struct, extern, and function signature in an
// ast.Program into its LIR counterpart, with empty function bodies. Every
// function other than main also gets a function-pointer entry so that
// other functions may take its address.
func BuildShell(prog *ast.Program) (*lir.Program, error) {
	out := lir.NewProgram()

	for _, s := range prog.Structs {
		fields := make(map[string]lir.Type, len(s.Fields))
		for _, f := range s.Fields {
			t, err := lir.ConvertType(&f.Type)
			if err != nil {
				return nil, err
			}
			fields[f.Name] = t
		}
		out.Structs[s.Name] = &lir.StructDef{Name: s.Name, Fields: fields}
	}

	for _, e := range prog.Externs {
		params := make([]lir.Type, len(e.Params))
		for i := range e.Params {
			t, err := lir.ConvertType(&e.Params[i])
			if err != nil {
				return nil, err
			}
			params[i] = t
		}
		ret, err := lir.ConvertType(&e.Ret)
		if err != nil {
			return nil, err
		}
		out.Externs[e.Name] = lir.FnType{Params: params, Ret: ret}
	}

	for _, f := range prog.Functions {
		params := make([]lir.Param, len(f.Params))
		paramTypes := make([]lir.Type, len(f.Params))
		locals := make(map[string]lir.Type)
		for i, p := range f.Params {
			t, err := lir.ConvertType(&p.Type)
			if err != nil {
				return nil, err
			}
			params[i] = lir.Param{Name: p.Name, Type: t}
			paramTypes[i] = t
			locals[p.Name] = t
		}
		ret, err := lir.ConvertType(&f.Ret)
		if err != nil {
			return nil, err
		}
		for _, l := range f.Locals {
			t, err := lir.ConvertType(&l.Type)
			if err != nil {
				return nil, err
			}
			locals[l.Name] = t
		}

		out.Functions[f.Name] = &lir.Function{
			Name:   f.Name,
			Params: params,
			Ret:    ret,
			Locals: locals,
		}

		if f.Name != "main" {
			out.FunPtrs[f.Name] = lir.PtrType{Elem: lir.FnType{Params: paramTypes, Ret: ret}}
		}
	}

	if _, ok := out.Functions["main"]; !ok {
		return nil, cflaterrors.New(cflaterrors.MalformedAST, "program has no main function")
	}

	return out, nil
}
