package ast_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cflatlower/internal/ast"
)

func TestParseTypes(t *testing.T) {
	prog, err := ast.Parse(strings.NewReader(`{
		"structs": [{"name":"Node","fields":[
			{"name":"val","type":"Int"},
			{"name":"next","type":{"Ptr":{"Struct":"Node"}}}
		]}],
		"externs": [{"name":"puts","params":[{"Ptr":"Int"}],"ret":"Nil"}],
		"functions": []
	}`))
	require.NoError(t, err)
	require.Len(t, prog.Structs, 1)
	assert.Equal(t, "Node", prog.Structs[0].Name)
	assert.Equal(t, ast.KindPtr, prog.Structs[0].Fields[1].Type.Kind)
	assert.Equal(t, "Node", prog.Structs[0].Fields[1].Type.Elem.Name)
	require.Len(t, prog.Externs, 1)
	assert.Equal(t, ast.KindNil, prog.Externs[0].Ret.Kind)
}

func TestBinOpListForm(t *testing.T) {
	prog := parseFunc(t, `{"BinOp": ["add", {"Val":{"Id":"x"}}, {"Num": 1}]}`)
	bin, ok := prog.(ast.BinOpExpr)
	require.True(t, ok)
	assert.Equal(t, ast.Add, bin.Op)
	assert.Equal(t, "x", bin.Left.(ast.ValExpr).Place.(ast.IdPlace).Name)
	assert.Equal(t, int64(1), bin.Right.(ast.NumExpr).N)
}

func TestBinOpObjectForm(t *testing.T) {
	prog := parseFunc(t, `{"BinOp": {"op":"lt","left":{"Num":1},"right":{"Num":2}}}`)
	bin, ok := prog.(ast.BinOpExpr)
	require.True(t, ok)
	assert.Equal(t, ast.Lt, bin.Op)
}

func TestUnOpBothForms(t *testing.T) {
	list := parseFunc(t, `{"UnOp": ["neg", {"Num": 5}]}`)
	assert.Equal(t, ast.Neg, list.(ast.UnOpExpr).Op)

	obj := parseFunc(t, `{"UnOp": {"op":"not","operand":{"Num":0}}}`)
	assert.Equal(t, ast.Not, obj.(ast.UnOpExpr).Op)
}

func TestBreakContinueBareAndTagged(t *testing.T) {
	body := `{"Stmts": ["Break", {"Continue":{}}]}`
	prog, err := ast.Parse(strings.NewReader(`{"structs":[],"externs":[],"functions":[
		{"name":"f","params":[],"ret":"Nil","locals":[],"body":` + body + `}
	]}`))
	require.NoError(t, err)
	stmts := prog.Functions[0].Body.Stmt.(ast.StmtsStmt).Stmts
	require.Len(t, stmts, 2)
	_, isBreak := stmts[0].(ast.BreakStmt)
	_, isContinue := stmts[1].(ast.ContinueStmt)
	assert.True(t, isBreak)
	assert.True(t, isContinue)
}

// parseFunc wraps a single expression JSON fragment in a minimal function
// body (a Return of that expression) and returns the decoded expression.
func parseFunc(t *testing.T, exprJSON string) ast.Expr {
	t.Helper()
	body := `{"Return": {"value": ` + exprJSON + `}}`
	prog, err := ast.Parse(strings.NewReader(`{"structs":[],"externs":[],"functions":[
		{"name":"f","params":[],"ret":"Int","locals":[],"body":` + body + `}
	]}`))
	require.NoError(t, err)
	ret := prog.Functions[0].Body.Stmt.(ast.ReturnStmt)
	return ret.Value
}
