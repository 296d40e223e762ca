package printer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cflatlower/internal/lir"
	"cflatlower/internal/printer"
)

func TestPrintIsDeterministic(t *testing.T) {
	prog := lir.NewProgram()
	prog.Structs["Zeta"] = &lir.StructDef{Name: "Zeta", Fields: map[string]lir.Type{"x": lir.IntType{}}}
	prog.Structs["Alpha"] = &lir.StructDef{Name: "Alpha", Fields: map[string]lir.Type{"y": lir.IntType{}}}
	prog.Functions["zz"] = &lir.Function{
		Name: "zz", Ret: lir.IntType{}, Locals: map[string]lir.Type{},
		Blocks: map[string]*lir.BasicBlock{
			"zz_entry": {Label: "zz_entry", Terminator: lir.Ret{}},
		},
		Entry: "zz_entry",
	}
	prog.Functions["aa"] = &lir.Function{
		Name: "aa", Ret: lir.IntType{}, Locals: map[string]lir.Type{},
		Blocks: map[string]*lir.BasicBlock{
			"aa_entry": {Label: "aa_entry", Terminator: lir.Ret{}},
		},
		Entry: "aa_entry",
	}

	first := printer.Print(prog)
	second := printer.Print(prog)
	require.Equal(t, first, second)

	alphaIdx := strings.Index(first, "struct Alpha")
	zetaIdx := strings.Index(first, "struct Zeta")
	aaIdx := strings.Index(first, "fn aa")
	zzIdx := strings.Index(first, "fn zz")

	require.NotEqual(t, -1, alphaIdx)
	require.NotEqual(t, -1, zetaIdx)
	require.NotEqual(t, -1, aaIdx)
	require.NotEqual(t, -1, zzIdx)

	assert.Less(t, alphaIdx, zetaIdx, "structs print in lexicographic order")
	assert.Less(t, aaIdx, zzIdx, "functions print in lexicographic order")
	assert.Less(t, zetaIdx, aaIdx, "structs print before functions")
}

func TestPrintBasicBlockShape(t *testing.T) {
	prog := lir.NewProgram()
	one := "one"
	prog.Functions["f"] = &lir.Function{
		Name: "f",
		Ret:  lir.IntType{},
		Locals: map[string]lir.Type{
			"one": lir.IntType{},
		},
		Blocks: map[string]*lir.BasicBlock{
			"f_entry": {
				Label:        "f_entry",
				Instructions: []lir.Instruction{lir.Const{Lhs: "one", N: 1}},
				Terminator:   lir.Ret{Value: &one},
			},
		},
		Entry: "f_entry",
	}

	out := printer.Print(prog)
	assert.Contains(t, out, "fn f() -> int {")
	assert.Contains(t, out, "let one: int")
	assert.Contains(t, out, "f_entry:")
	assert.Contains(t, out, "one = $const 1")
	assert.Contains(t, out, "$ret one")
}
