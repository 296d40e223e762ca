package lower

import (
	"cflatlower/internal/ast"
	cflaterrors "cflatlower/internal/errors"
	"cflatlower/internal/lir"
)

func (fl *functionLowerer) lowerStmt(s ast.Stmt) error {
	switch st := s.(type) {
	case ast.StmtsStmt:
		for _, inner := range st.Stmts {
			if err := fl.lowerStmt(inner); err != nil {
				return err
			}
		}
		return nil

	case ast.AssignStmt:
		dst, err := fl.lowerPlace(st.LHS)
		if err != nil {
			return err
		}
		src, err := fl.lowerExpr(st.Value)
		if err != nil {
			return err
		}
		if _, ok := st.LHS.(ast.IdPlace); ok {
			fl.emitInst(lir.Copy{Lhs: dst, Src: src})
		} else {
			fl.emitInst(lir.Store{Dst: dst, Src: src})
		}
		fl.release(dst, src)
		return nil

	case ast.CallStmt:
		_, _, err := fl.lowerCall(st.Call, false)
		return err

	case ast.IfStmt:
		return fl.lowerIf(st)

	case ast.WhileStmt:
		return fl.lowerWhile(st)

	case ast.BreakStmt:
		if len(fl.loopEndStack) == 0 {
			return cflaterrors.New(cflaterrors.BreakOutsideLoop, "break outside of a loop")
		}
		fl.emitTerm(lir.Jump{Label: fl.loopEndStack[len(fl.loopEndStack)-1]})
		return nil

	case ast.ContinueStmt:
		if len(fl.loopHdrStack) == 0 {
			return cflaterrors.New(cflaterrors.ContinueOutsideLoop, "continue outside of a loop")
		}
		fl.emitTerm(lir.Jump{Label: fl.loopHdrStack[len(fl.loopHdrStack)-1]})
		return nil

	case ast.ReturnStmt:
		if st.Value == nil {
			fl.emitTerm(lir.Ret{})
			return nil
		}
		v, err := fl.lowerExpr(st.Value)
		if err != nil {
			return err
		}
		fl.emitTerm(lir.Ret{Value: &v})
		fl.release(v)
		return nil

	default:
		return cflaterrors.New(cflaterrors.MalformedAST, "unrecognized statement form")
	}
}

func (fl *functionLowerer) lowerIf(st ast.IfStmt) error {
	thenL := fl.nextLabel("if_true")
	elseL := fl.nextLabel("if_false")
	endL := fl.nextLabel("if_end")

	g, err := fl.lowerExpr(st.Cond)
	if err != nil {
		return err
	}
	fl.emitTerm(lir.Branch{Guard: g, Then: thenL, Else: elseL})
	fl.release(g)

	fl.emitLabel(thenL)
	if err := fl.lowerStmt(st.Then); err != nil {
		return err
	}
	fl.ensureJump(endL)

	fl.emitLabel(elseL)
	if st.Else != nil {
		if err := fl.lowerStmt(st.Else); err != nil {
			return err
		}
	}
	fl.ensureJump(endL)

	fl.emitLabel(endL)
	return nil
}

func (fl *functionLowerer) lowerWhile(st ast.WhileStmt) error {
	hdrL := fl.nextLabel("loop_hdr")
	bodyL := fl.nextLabel("loop_body")
	endL := fl.nextLabel("loop_end")
	fl.pushLoop(hdrL, endL)

	fl.emitTerm(lir.Jump{Label: hdrL})
	fl.emitLabel(hdrL)
	g, err := fl.lowerExpr(st.Cond)
	if err != nil {
		fl.popLoop()
		return err
	}
	fl.emitTerm(lir.Branch{Guard: g, Then: bodyL, Else: endL})
	fl.release(g)

	fl.emitLabel(bodyL)
	err = fl.lowerStmt(st.Body)
	fl.popLoop()
	if err != nil {
		return err
	}
	fl.ensureJump(hdrL)

	fl.emitLabel(endL)
	return nil
}
