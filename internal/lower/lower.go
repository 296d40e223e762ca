package lower

import (
	"cflatlower/internal/ast"
	"cflatlower/internal/lir"
)

// Lower runs the whole pipeline over a type-checked Cflat program: shell
// construction, per-function translation-vector lowering, and CFG
// reconstruction with unreachable-block pruning.
func Lower(prog *ast.Program) (*lir.Program, error) {
	out, err := BuildShell(prog)
	if err != nil {
		return nil, err
	}
	for _, f := range prog.Functions {
		if err := lowerFunction(out, f); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func lowerFunction(prog *lir.Program, f ast.FuncDef) error {
	fn := prog.Functions[f.Name]
	fl := newFunctionLowerer(prog, fn)

	if err := fl.lowerStmt(f.Body.Stmt); err != nil {
		return err
	}

	if !fl.terminated() {
		fl.emitTerm(lir.Ret{})
	}

	return buildCFG(fn, fl.tv)
}
