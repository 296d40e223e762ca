package lir

import (
	"fmt"
	"strings"
)

// Instruction is the closed set of LIR instructions (spec.md §3): Const,
// Copy, Arith, Cmp, Load, Store, Gfp, Gep, AllocSingle, AllocArray, Call.
type Instruction interface {
	String() string
	isInstruction()
}

type ArithOp string

const (
	ArithAdd ArithOp = "add"
	ArithSub ArithOp = "sub"
	ArithMul ArithOp = "mul"
	ArithDiv ArithOp = "div"
)

type CmpOp string

const (
	CmpEq  CmpOp = "eq"
	CmpNe  CmpOp = "ne"
	CmpLt  CmpOp = "lt"
	CmpLte CmpOp = "lte"
	CmpGt  CmpOp = "gt"
	CmpGte CmpOp = "gte"
)

type Const struct {
	Lhs string
	N   int64
}

func (i Const) String() string { return fmt.Sprintf("%s = $const %d", i.Lhs, i.N) }
func (Const) isInstruction()   {}

type Copy struct {
	Lhs string
	Src string
}

func (i Copy) String() string { return fmt.Sprintf("%s = $copy %s", i.Lhs, i.Src) }
func (Copy) isInstruction()   {}

type Arith struct {
	Lhs string
	Op  ArithOp
	L   string
	R   string
}

func (i Arith) String() string {
	return fmt.Sprintf("%s = $arith %s %s %s", i.Lhs, i.Op, i.L, i.R)
}
func (Arith) isInstruction() {}

type Cmp struct {
	Lhs string
	Op  CmpOp
	L   string
	R   string
}

func (i Cmp) String() string {
	return fmt.Sprintf("%s = $cmp %s %s %s", i.Lhs, i.Op, i.L, i.R)
}
func (Cmp) isInstruction() {}

type Load struct {
	Lhs string
	Src string
}

func (i Load) String() string { return fmt.Sprintf("%s = $load %s", i.Lhs, i.Src) }
func (Load) isInstruction()   {}

type Store struct {
	Dst string
	Src string
}

func (i Store) String() string { return fmt.Sprintf("$store %s %s", i.Dst, i.Src) }
func (Store) isInstruction()   {}

// Gfp computes the address of a struct field: lhs = &src->field.
type Gfp struct {
	Lhs        string
	Src        string
	StructName string
	Field      string
}

func (i Gfp) String() string {
	return fmt.Sprintf("%s = $gfp %s, %s, %s", i.Lhs, i.Src, i.StructName, i.Field)
}
func (Gfp) isInstruction() {}

// Gep computes the address of an array element: lhs = &src[idx]. Checked
// selects whether the lowered element access carries a bounds check.
type Gep struct {
	Lhs     string
	Src     string
	Idx     string
	Checked bool
}

func (i Gep) String() string {
	return fmt.Sprintf("%s = $gep %s %s %s", i.Lhs, i.Src, i.Idx, boolWord(i.Checked))
}
func (Gep) isInstruction() {}

type AllocSingle struct {
	Lhs  string
	Elem Type
}

func (i AllocSingle) String() string {
	return fmt.Sprintf("%s = $alloc_single %s", i.Lhs, i.Elem.String())
}
func (AllocSingle) isInstruction() {}

type AllocArray struct {
	Lhs   string
	Count string
	Elem  Type
}

func (i AllocArray) String() string {
	return fmt.Sprintf("%s = $alloc_array %s %s", i.Lhs, i.Count, i.Elem.String())
}
func (AllocArray) isInstruction() {}

// Call invokes Callee with Args in order, optionally binding the result to
// Lhs (nil for a statement-position call with a discarded or void result).
type Call struct {
	Lhs    *string
	Callee string
	Args   []string
}

func (i Call) String() string {
	var b strings.Builder
	if i.Lhs != nil {
		fmt.Fprintf(&b, "%s = ", *i.Lhs)
	}
	fmt.Fprintf(&b, "$call %s", i.Callee)
	for _, a := range i.Args {
		fmt.Fprintf(&b, ", %s", a)
	}
	return b.String()
}
func (Call) isInstruction() {}

func boolWord(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
