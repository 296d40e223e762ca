package ast

import (
	"encoding/json"
	"fmt"
)

// Stmt is a tagged union over the closed set of Cflat statement forms.
type Stmt interface {
	stmtNode()
}

type StmtsStmt struct {
	Stmts []Stmt
}

type AssignStmt struct {
	LHS   Place
	Value Expr
}

type CallStmt struct {
	Call CallExpr
}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

type WhileStmt struct {
	Cond Expr
	Body Stmt
}

type BreakStmt struct{}

type ContinueStmt struct{}

type ReturnStmt struct {
	Value Expr // nil when absent
}

func (StmtsStmt) stmtNode()    {}
func (AssignStmt) stmtNode()   {}
func (CallStmt) stmtNode()     {}
func (IfStmt) stmtNode()       {}
func (WhileStmt) stmtNode()    {}
func (BreakStmt) stmtNode()    {}
func (ContinueStmt) stmtNode() {}
func (ReturnStmt) stmtNode()   {}

// StmtField is the envelope used to unmarshal into the Stmt interface.
type StmtField struct {
	Stmt Stmt
}

func (s *StmtField) UnmarshalJSON(data []byte) error {
	st, err := unmarshalStmt(data)
	if err != nil {
		return err
	}
	s.Stmt = st
	return nil
}

func unmarshalStmt(data []byte) (Stmt, error) {
	tag, body, bare, err := decodeTag(data)
	if err != nil {
		return nil, fmt.Errorf("ast: stmt: %w", err)
	}
	if bare {
		switch tag {
		case "Break":
			return BreakStmt{}, nil
		case "Continue":
			return ContinueStmt{}, nil
		default:
			return nil, fmt.Errorf("ast: unrecognized bare stmt tag %q", tag)
		}
	}
	switch tag {
	case "Break":
		return BreakStmt{}, nil
	case "Continue":
		return ContinueStmt{}, nil
	case "Stmts":
		var raw []StmtField
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("ast: Stmts: %w", err)
		}
		stmts := make([]Stmt, len(raw))
		for i, s := range raw {
			stmts[i] = s.Stmt
		}
		return StmtsStmt{Stmts: stmts}, nil
	case "Assign":
		var raw struct {
			Place PlaceField `json:"place"`
			Value ExprField  `json:"value"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("ast: Assign: %w", err)
		}
		return AssignStmt{LHS: raw.Place.Place, Value: raw.Value.Expr}, nil
	case "CallStmt":
		var raw struct {
			Callee ExprField   `json:"callee"`
			Args   []ExprField `json:"args"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("ast: CallStmt: %w", err)
		}
		args := make([]Expr, len(raw.Args))
		for i, a := range raw.Args {
			args[i] = a.Expr
		}
		return CallStmt{Call: CallExpr{Callee: raw.Callee.Expr, Args: args}}, nil
	case "If":
		var raw struct {
			Cond ExprField  `json:"cond"`
			Then StmtField  `json:"then"`
			Else *StmtField `json:"else"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("ast: If: %w", err)
		}
		st := IfStmt{Cond: raw.Cond.Expr, Then: raw.Then.Stmt}
		if raw.Else != nil {
			st.Else = raw.Else.Stmt
		}
		return st, nil
	case "While":
		var raw struct {
			Cond ExprField `json:"cond"`
			Body StmtField `json:"body"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("ast: While: %w", err)
		}
		return WhileStmt{Cond: raw.Cond.Expr, Body: raw.Body.Stmt}, nil
	case "Return":
		var raw struct {
			Value *ExprField `json:"value"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("ast: Return: %w", err)
		}
		ret := ReturnStmt{}
		if raw.Value != nil {
			ret.Value = raw.Value.Expr
		}
		return ret, nil
	default:
		return nil, fmt.Errorf("ast: unrecognized stmt tag %q", tag)
	}
}
