package lower

import (
	"cflatlower/internal/ast"
	cflaterrors "cflatlower/internal/errors"
	"cflatlower/internal/lir"
)

// lowerExpr lowers e and returns the name of the LIR variable holding its
// value.
func (fl *functionLowerer) lowerExpr(e ast.Expr) (string, error) {
	switch ex := e.(type) {
	case ast.ValExpr:
		if id, ok := ex.Place.(ast.IdPlace); ok {
			return id.Name, nil
		}
		p, err := fl.lowerPlace(ex.Place)
		if err != nil {
			return "", err
		}
		pt, err := fl.typeOf(p)
		if err != nil {
			return "", err
		}
		ptr, ok := pt.(lir.PtrType)
		if !ok {
			return "", cflaterrors.New(cflaterrors.TypeShapeMismatch, "Val place is not addressable")
		}
		t := fl.freshNonInner(ptr.Elem)
		fl.emitInst(lir.Load{Lhs: t, Src: p})
		fl.release(p)
		return t, nil

	case ast.NumExpr:
		return fl.constVar(ex.N), nil

	case ast.NilLitExpr:
		return "__NULL", nil

	case ast.SelectExpr:
		return fl.lowerSelect(ex.Cond, ex.Then, ex.Else)

	case ast.UnOpExpr:
		return fl.lowerUnOp(ex)

	case ast.BinOpExpr:
		return fl.lowerBinOp(ex)

	case ast.NewSingleExpr:
		elem, err := lir.ConvertType(&ex.Elem)
		if err != nil {
			return "", err
		}
		t := fl.freshNonInner(lir.PtrType{Elem: elem})
		fl.emitInst(lir.AllocSingle{Lhs: t, Elem: elem})
		return t, nil

	case ast.NewArrayExpr:
		elem, err := lir.ConvertType(&ex.Elem)
		if err != nil {
			return "", err
		}
		t := fl.freshNonInner(lir.ArrayType{Elem: elem})
		x, err := fl.lowerExpr(ex.Count)
		if err != nil {
			return "", err
		}
		fl.emitInst(lir.AllocArray{Lhs: t, Count: x, Elem: elem})
		fl.release(x)
		return t, nil

	case ast.CallExpr:
		lhs, _, err := fl.lowerCall(ex, true)
		if err != nil {
			return "", err
		}
		if lhs == nil {
			return "", cflaterrors.New(cflaterrors.MalformedAST, "call used in expression position returns no value")
		}
		return *lhs, nil

	default:
		return "", cflaterrors.New(cflaterrors.MalformedAST, "unrecognized expression form")
	}
}

func (fl *functionLowerer) lowerUnOp(ex ast.UnOpExpr) (string, error) {
	switch ex.Op {
	case ast.Neg:
		if n, ok := ex.Operand.(ast.NumExpr); ok {
			return fl.constVar(-n.N), nil
		}
		t := fl.freshNonInner(lir.IntType{})
		zero := fl.constVar(0)
		x, err := fl.lowerExpr(ex.Operand)
		if err != nil {
			return "", err
		}
		fl.emitInst(lir.Arith{Lhs: t, Op: lir.ArithSub, L: zero, R: x})
		fl.release(x)
		return t, nil

	case ast.Not:
		x, err := fl.lowerExpr(ex.Operand)
		if err != nil {
			return "", err
		}
		zero := fl.constVar(0)
		t := fl.freshNonInner(lir.IntType{})
		fl.emitInst(lir.Cmp{Lhs: t, Op: lir.CmpEq, L: x, R: zero})
		fl.release(x)
		return t, nil

	default:
		return "", cflaterrors.New(cflaterrors.MalformedAST, "unrecognized unary operator %q", ex.Op)
	}
}

func (fl *functionLowerer) lowerBinOp(ex ast.BinOpExpr) (string, error) {
	switch {
	case ex.Op == ast.And:
		return fl.lowerSelect(ex.Left, ex.Right, ast.NumExpr{N: 0})
	case ex.Op == ast.Or:
		return fl.lowerOr(ex.Left, ex.Right)
	case ex.Op.IsArith():
		a, err := fl.lowerExpr(ex.Left)
		if err != nil {
			return "", err
		}
		b, err := fl.lowerExpr(ex.Right)
		if err != nil {
			return "", err
		}
		t := fl.freshNonInner(lir.IntType{})
		fl.emitInst(lir.Arith{Lhs: t, Op: arithOpOf(ex.Op), L: a, R: b})
		fl.release(a, b)
		return t, nil
	case ex.Op.IsCmp():
		a, err := fl.lowerExpr(ex.Left)
		if err != nil {
			return "", err
		}
		b, err := fl.lowerExpr(ex.Right)
		if err != nil {
			return "", err
		}
		t := fl.freshNonInner(lir.IntType{})
		fl.emitInst(lir.Cmp{Lhs: t, Op: cmpOpOf(ex.Op), L: a, R: b})
		fl.release(a, b)
		return t, nil
	default:
		return "", cflaterrors.New(cflaterrors.MalformedAST, "unrecognized binary operator %q", ex.Op)
	}
}

func arithOpOf(op ast.BinOp) lir.ArithOp {
	switch op {
	case ast.Add:
		return lir.ArithAdd
	case ast.Sub:
		return lir.ArithSub
	case ast.Mul:
		return lir.ArithMul
	default:
		return lir.ArithDiv
	}
}

func cmpOpOf(op ast.BinOp) lir.CmpOp {
	switch op {
	case ast.Eq:
		return lir.CmpEq
	case ast.Ne:
		return lir.CmpNe
	case ast.Lt:
		return lir.CmpLt
	case ast.Lte:
		return lir.CmpLte
	case ast.Gt:
		return lir.CmpGt
	default:
		return lir.CmpGte
	}
}

// lowerSelect lowers a ternary-style Select(cond, then, else), and also
// serves as the desugaring target for short-circuit And: And(l, r) is
// lowered as Select(l, r, Num(0)).
//
// Either branch may evaluate to __NULL, whose type is Nil; a fresh
// temporary of type Nil would be illegal if the result later flows into a
// context demanding a concrete pointer or array type. The result variable
// is therefore left as the literal name __NULL until the first branch that
// produces a non-null value picks its concrete type.
func (fl *functionLowerer) lowerSelect(cond, thenE, elseE ast.Expr) (string, error) {
	trueL := fl.nextLabel("select_true")
	falseL := fl.nextLabel("select_false")
	endL := fl.nextLabel("select_end")

	result := "__NULL"

	g, err := fl.lowerExpr(cond)
	if err != nil {
		return "", err
	}
	fl.emitTerm(lir.Branch{Guard: g, Then: trueL, Else: falseL})
	fl.release(g)

	fl.emitLabel(trueL)
	z, err := fl.lowerExpr(thenE)
	if err != nil {
		return "", err
	}
	if z != "__NULL" {
		zt, err := fl.typeOf(z)
		if err != nil {
			return "", err
		}
		result = fl.freshNonInner(zt)
		fl.emitInst(lir.Copy{Lhs: result, Src: z})
		fl.release(z)
	}
	fl.emitTerm(lir.Jump{Label: endL})

	fl.emitLabel(falseL)
	w, err := fl.lowerExpr(elseE)
	if err != nil {
		return "", err
	}
	if w != "__NULL" {
		if result == "__NULL" {
			wt, err := fl.typeOf(w)
			if err != nil {
				return "", err
			}
			result = fl.freshNonInner(wt)
		}
		fl.emitInst(lir.Copy{Lhs: result, Src: w})
		fl.release(w)
	}
	fl.emitTerm(lir.Jump{Label: endL})

	fl.emitLabel(endL)
	return result, nil
}

// lowerOr lowers short-circuit Or(l, r): if l is true, the branch jumps
// straight to the join block carrying l's own (already-copied) value; only
// the false path evaluates r. Unlike If/Select this has no true block: the
// true case needs no code of its own, since the result already equals l.
func (fl *functionLowerer) lowerOr(left, right ast.Expr) (string, error) {
	falseL := fl.nextLabel("or_false")
	endL := fl.nextLabel("or_end")

	x, err := fl.lowerExpr(left)
	if err != nil {
		return "", err
	}
	result := fl.freshNonInner(lir.IntType{})
	fl.emitInst(lir.Copy{Lhs: result, Src: x})
	fl.emitTerm(lir.Branch{Guard: result, Then: endL, Else: falseL})
	fl.release(x)

	fl.emitLabel(falseL)
	z, err := fl.lowerExpr(right)
	if err != nil {
		return "", err
	}
	fl.emitInst(lir.Copy{Lhs: result, Src: z})
	fl.release(z)
	fl.emitTerm(lir.Jump{Label: endL})

	fl.emitLabel(endL)
	return result, nil
}

// lowerPlace lowers a Place into the LIR variable holding its address.
func (fl *functionLowerer) lowerPlace(p ast.Place) (string, error) {
	switch pl := p.(type) {
	case ast.IdPlace:
		return pl.Name, nil

	case ast.DerefPlace:
		return fl.lowerExpr(pl.Operand)

	case ast.ArrayAccessPlace:
		s, err := fl.lowerExpr(pl.Array)
		if err != nil {
			return "", err
		}
		j, err := fl.lowerExpr(pl.Index)
		if err != nil {
			return "", err
		}
		st, err := fl.typeOf(s)
		if err != nil {
			return "", err
		}
		arr, ok := st.(lir.ArrayType)
		if !ok {
			return "", cflaterrors.New(cflaterrors.TypeShapeMismatch, "array access on non-array value")
		}
		t := fl.freshInner(lir.PtrType{Elem: arr.Elem})
		fl.emitInst(lir.Gep{Lhs: t, Src: s, Idx: j, Checked: true})
		fl.release(s, j)
		return t, nil

	case ast.FieldAccessPlace:
		s, err := fl.lowerExpr(pl.Operand)
		if err != nil {
			return "", err
		}
		st, err := fl.typeOf(s)
		if err != nil {
			return "", err
		}
		ptr, ok := st.(lir.PtrType)
		if !ok {
			return "", cflaterrors.New(cflaterrors.TypeShapeMismatch, "field access on non-pointer value")
		}
		sn, ok := ptr.Elem.(lir.StructType)
		if !ok {
			return "", cflaterrors.New(cflaterrors.TypeShapeMismatch, "field access on non-struct pointee")
		}
		fields, err := structFields(fl.prog, sn.Name)
		if err != nil {
			return "", err
		}
		ft, ok := fields[pl.Field]
		if !ok {
			return "", cflaterrors.New(cflaterrors.TypeShapeMismatch, "struct %q has no field %q", sn.Name, pl.Field)
		}
		t := fl.freshInner(lir.PtrType{Elem: ft})
		fl.emitInst(lir.Gfp{Lhs: t, Src: s, StructName: sn.Name, Field: pl.Field})
		fl.release(s)
		return t, nil

	default:
		return "", cflaterrors.New(cflaterrors.MalformedAST, "unrecognized place form")
	}
}

// lowerCall lowers a call's arguments and callee and emits the Call
// instruction, in both expression and statement position. Arguments are
// evaluated right-to-left (this fixes the observable order of any
// side-effect-producing sub-expressions), then the callee; the emitted
// instruction's argument list is reassembled in source (left-to-right)
// order regardless. wantResult requests a bound result temporary only when
// the callee actually returns a non-Nil type; the lhs return value is nil
// when the call is void or when wantResult is false.
func (fl *functionLowerer) lowerCall(call ast.CallExpr, wantResult bool) (*string, lir.FnType, error) {
	args := make([]string, len(call.Args))
	for i := len(call.Args) - 1; i >= 0; i-- {
		v, err := fl.lowerExpr(call.Args[i])
		if err != nil {
			return nil, lir.FnType{}, err
		}
		args[i] = v
	}

	c, err := fl.lowerExpr(call.Callee)
	if err != nil {
		return nil, lir.FnType{}, err
	}
	ct, err := fl.typeOf(c)
	if err != nil {
		return nil, lir.FnType{}, err
	}
	sig, err := fl.calleeSignature(ct)
	if err != nil {
		return nil, lir.FnType{}, err
	}

	var lhs *string
	if wantResult {
		if _, void := sig.Ret.(lir.NilType); !void {
			t := fl.freshNonInner(sig.Ret)
			lhs = &t
		}
	}
	fl.emitInst(lir.Call{Lhs: lhs, Callee: c, Args: args})
	fl.release(append(args, c)...)
	return lhs, sig, nil
}
