package lower_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cflatlower/internal/ast"
	cflaterrors "cflatlower/internal/errors"
	"cflatlower/internal/lir"
	"cflatlower/internal/lower"
)

func intT() ast.Type { return ast.Type{Kind: ast.KindInt} }

func id(name string) ast.Expr { return ast.ValExpr{Place: ast.IdPlace{Name: name}} }

func num(n int64) ast.Expr { return ast.NumExpr{N: n} }

func simpleProgram(fn ast.FuncDef) *ast.Program {
	return &ast.Program{Functions: []ast.FuncDef{fn, mainFn()}}
}

func mainFn() ast.FuncDef {
	return ast.FuncDef{
		Name: "main",
		Ret:  intT(),
		Body: stmtField(ast.ReturnStmt{Value: num(0)}),
	}
}

func stmtField(s ast.Stmt) ast.StmtField { return ast.StmtField{Stmt: s} }

func TestLowerSimpleReturn(t *testing.T) {
	fn := ast.FuncDef{
		Name: "add",
		Params: []ast.ParamDef{
			{Name: "a", Type: intT()},
			{Name: "b", Type: intT()},
		},
		Ret: intT(),
		Body: stmtField(ast.ReturnStmt{
			Value: ast.BinOpExpr{Op: ast.Add, Left: id("a"), Right: id("b")},
		}),
	}
	prog, err := lower.Lower(simpleProgram(fn))
	require.NoError(t, err)

	add := prog.Functions["add"]
	require.Len(t, add.Blocks, 1)
	entry := add.Blocks[add.Entry]
	require.Len(t, entry.Instructions, 1)
	arith, ok := entry.Instructions[0].(lir.Arith)
	require.True(t, ok)
	assert.Equal(t, lir.ArithAdd, arith.Op)
	assert.Equal(t, "a", arith.L)
	assert.Equal(t, "b", arith.R)

	ret, ok := entry.Terminator.(lir.Ret)
	require.True(t, ok)
	require.NotNil(t, ret.Value)
	assert.Equal(t, arith.Lhs, *ret.Value)
}

func TestLowerIfElsePrunesUnreachableJoin(t *testing.T) {
	fn := ast.FuncDef{
		Name:   "f",
		Params: []ast.ParamDef{{Name: "c", Type: intT()}},
		Ret:    intT(),
		Body: stmtField(ast.IfStmt{
			Cond: id("c"),
			Then: ast.ReturnStmt{Value: num(1)},
			Else: ast.ReturnStmt{Value: num(2)},
		}),
	}
	prog, err := lower.Lower(simpleProgram(fn))
	require.NoError(t, err)

	f := prog.Functions["f"]
	_, hasTrue := f.Blocks["if_true0"]
	_, hasFalse := f.Blocks["if_false1"]
	_, hasEnd := f.Blocks["if_end2"]
	assert.True(t, hasTrue)
	assert.True(t, hasFalse)
	assert.False(t, hasEnd, "if_end2 is unreachable when both branches return and must be pruned")
}

func TestLowerIfFallthroughKeepsJoinBlock(t *testing.T) {
	fn := ast.FuncDef{
		Name:   "f",
		Params: []ast.ParamDef{{Name: "c", Type: intT()}},
		Ret:    intT(),
		Body: stmtField(ast.StmtsStmt{Stmts: []ast.Stmt{
			ast.IfStmt{
				Cond: id("c"),
				Then: ast.ReturnStmt{Value: num(1)},
			},
			ast.ReturnStmt{Value: num(2)},
		}}),
	}
	prog, err := lower.Lower(simpleProgram(fn))
	require.NoError(t, err)

	f := prog.Functions["f"]
	_, hasEnd := f.Blocks["if_end2"]
	assert.True(t, hasEnd, "the else path falls through to the join block, so it must survive pruning")
}

func TestLowerWhileWithBreak(t *testing.T) {
	fn := ast.FuncDef{
		Name:   "f",
		Params: []ast.ParamDef{{Name: "n", Type: intT()}},
		Ret:    intT(),
		Locals: []ast.ParamDef{{Name: "i", Type: intT()}},
		Body: stmtField(ast.StmtsStmt{Stmts: []ast.Stmt{
			ast.AssignStmt{LHS: ast.IdPlace{Name: "i"}, Value: num(0)},
			ast.WhileStmt{
				Cond: ast.BinOpExpr{Op: ast.Lt, Left: id("i"), Right: id("n")},
				Body: ast.StmtsStmt{Stmts: []ast.Stmt{
					ast.IfStmt{
						Cond: ast.BinOpExpr{Op: ast.Eq, Left: id("i"), Right: num(5)},
						Then: ast.BreakStmt{},
					},
					ast.AssignStmt{
						LHS:   ast.IdPlace{Name: "i"},
						Value: ast.BinOpExpr{Op: ast.Add, Left: id("i"), Right: num(1)},
					},
				}},
			},
			ast.ReturnStmt{Value: id("i")},
		}}),
	}
	prog, err := lower.Lower(simpleProgram(fn))
	require.NoError(t, err)

	f := prog.Functions["f"]
	_, hasHdr := f.Blocks["loop_hdr0"]
	_, hasBody := f.Blocks["loop_body1"]
	_, hasEnd := f.Blocks["loop_end2"]
	assert.True(t, hasHdr)
	assert.True(t, hasBody)
	assert.True(t, hasEnd)
}

func TestBreakOutsideLoopIsAnError(t *testing.T) {
	fn := ast.FuncDef{
		Name: "f",
		Ret:  intT(),
		Body: stmtField(ast.BreakStmt{}),
	}
	_, err := lower.Lower(simpleProgram(fn))
	require.Error(t, err)
	cerr, ok := err.(*cflaterrors.Error)
	require.True(t, ok)
	assert.Equal(t, cflaterrors.BreakOutsideLoop, cerr.Kind)
}

func TestContinueOutsideLoopIsAnError(t *testing.T) {
	fn := ast.FuncDef{
		Name: "f",
		Ret:  intT(),
		Body: stmtField(ast.ContinueStmt{}),
	}
	_, err := lower.Lower(simpleProgram(fn))
	require.Error(t, err)
	cerr, ok := err.(*cflaterrors.Error)
	require.True(t, ok)
	assert.Equal(t, cflaterrors.ContinueOutsideLoop, cerr.Kind)
}

func TestConstCaching(t *testing.T) {
	fn := ast.FuncDef{
		Name: "f",
		Ret:  intT(),
		Body: stmtField(ast.ReturnStmt{
			Value: ast.BinOpExpr{Op: ast.Add, Left: num(5), Right: num(5)},
		}),
	}
	prog, err := lower.Lower(simpleProgram(fn))
	require.NoError(t, err)

	f := prog.Functions["f"]
	entry := f.Blocks[f.Entry]

	constCount := 0
	for _, inst := range entry.Instructions {
		if c, ok := inst.(lir.Const); ok {
			constCount++
			assert.Equal(t, int64(5), c.N)
		}
	}
	assert.Equal(t, 1, constCount, "both Num(5) literals must share one cached constant")
	_, ok := f.Locals["_const_5"]
	assert.True(t, ok)
}

func TestNegativeConstNaming(t *testing.T) {
	fn := ast.FuncDef{
		Name: "f",
		Ret:  intT(),
		Body: stmtField(ast.ReturnStmt{Value: ast.UnOpExpr{Op: ast.Neg, Operand: num(12)}}),
	}
	prog, err := lower.Lower(simpleProgram(fn))
	require.NoError(t, err)

	f := prog.Functions["f"]
	_, ok := f.Locals["_const_n12"]
	assert.True(t, ok, "literal Neg(Num(n)) folds directly to the cached constant -n")
}

func TestShortCircuitOr(t *testing.T) {
	fn := ast.FuncDef{
		Name:   "f",
		Params: []ast.ParamDef{{Name: "a", Type: intT()}, {Name: "b", Type: intT()}},
		Ret:    intT(),
		Body: stmtField(ast.ReturnStmt{
			Value: ast.BinOpExpr{Op: ast.Or, Left: id("a"), Right: id("b")},
		}),
	}
	prog, err := lower.Lower(simpleProgram(fn))
	require.NoError(t, err)

	f := prog.Functions["f"]
	_, hasFalse := f.Blocks["or_false0"]
	_, hasEnd := f.Blocks["or_end1"]
	assert.True(t, hasFalse)
	assert.True(t, hasEnd, "Or has no true block: the true path branches straight to the join label")
}

func TestSelectExpression(t *testing.T) {
	fn := ast.FuncDef{
		Name:   "f",
		Params: []ast.ParamDef{{Name: "c", Type: intT()}},
		Ret:    intT(),
		Body: stmtField(ast.ReturnStmt{
			Value: ast.SelectExpr{Cond: id("c"), Then: num(1), Else: num(2)},
		}),
	}
	prog, err := lower.Lower(simpleProgram(fn))
	require.NoError(t, err)

	f := prog.Functions["f"]
	_, hasTrue := f.Blocks["select_true0"]
	_, hasFalse := f.Blocks["select_false1"]
	_, hasEnd := f.Blocks["select_end2"]
	assert.True(t, hasTrue)
	assert.True(t, hasFalse)
	assert.True(t, hasEnd)
}

func TestSelectNullTolerant(t *testing.T) {
	ptrInt := ast.Type{Kind: ast.KindPtr, Elem: &ast.Type{Kind: ast.KindInt}}
	fn := ast.FuncDef{
		Name: "f",
		Params: []ast.ParamDef{
			{Name: "c", Type: intT()},
			{Name: "q", Type: ptrInt},
		},
		Ret: ptrInt,
		Body: stmtField(ast.ReturnStmt{
			Value: ast.SelectExpr{Cond: id("c"), Then: ast.NilLitExpr{}, Else: id("q")},
		}),
	}
	prog, err := lower.Lower(simpleProgram(fn))
	require.NoError(t, err)

	f := prog.Functions["f"]
	trueBlk := f.Blocks["select_true0"]
	falseBlk := f.Blocks["select_false1"]
	require.NotEmpty(t, trueBlk.Label)
	require.NotEmpty(t, falseBlk.Label)

	assert.Empty(t, trueBlk.Instructions, "the nil branch emits no Copy, since the result starts as __NULL")

	require.Len(t, falseBlk.Instructions, 1)
	cp, ok := falseBlk.Instructions[0].(lir.Copy)
	require.True(t, ok)
	assert.Equal(t, "q", cp.Src)

	resultType, ok := f.Locals[cp.Lhs]
	require.True(t, ok)
	assert.Equal(t, lir.PtrType{Elem: lir.IntType{}}, resultType, "the select result is typed &int, never Nil")
}

func TestImplicitReturnAppended(t *testing.T) {
	fn := ast.FuncDef{
		Name:   "f",
		Params: []ast.ParamDef{{Name: "a", Type: intT()}},
		Ret:    ast.Type{Kind: ast.KindNil},
		Body: stmtField(ast.AssignStmt{
			LHS:   ast.IdPlace{Name: "a"},
			Value: num(1),
		}),
	}
	prog, err := lower.Lower(simpleProgram(fn))
	require.NoError(t, err)

	f := prog.Functions["f"]
	entry := f.Blocks[f.Entry]
	ret, ok := entry.Terminator.(lir.Ret)
	require.True(t, ok)
	assert.Nil(t, ret.Value)
}
