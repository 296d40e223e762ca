package ast

import (
	"encoding/json"
	"fmt"
)

// Expr is a tagged union over the closed set of Cflat expression forms.
type Expr interface {
	exprNode()
}

type UnOp string

const (
	Neg UnOp = "neg"
	Not UnOp = "not"
)

type BinOp string

const (
	Add BinOp = "add"
	Sub BinOp = "sub"
	Mul BinOp = "mul"
	Div BinOp = "div"
	Eq  BinOp = "eq"
	Ne  BinOp = "ne"
	Lt  BinOp = "lt"
	Lte BinOp = "lte"
	Gt  BinOp = "gt"
	Gte BinOp = "gte"
	And BinOp = "and"
	Or  BinOp = "or"
)

// arithOps and cmpOps classify BinOp values for the lowering core; And/Or
// are handled separately via desugaring (§4.3.8) and never reach the
// generic arithmetic/comparison instruction emitters.
var arithOps = map[BinOp]bool{Add: true, Sub: true, Mul: true, Div: true}
var cmpOps = map[BinOp]bool{Eq: true, Ne: true, Lt: true, Lte: true, Gt: true, Gte: true}

func (op BinOp) IsArith() bool { return arithOps[op] }
func (op BinOp) IsCmp() bool   { return cmpOps[op] }

type ValExpr struct {
	Place Place
}

type NumExpr struct {
	N int64
}

type NilLitExpr struct{}

type SelectExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

type UnOpExpr struct {
	Op      UnOp
	Operand Expr
}

type BinOpExpr struct {
	Op    BinOp
	Left  Expr
	Right Expr
}

type NewSingleExpr struct {
	Elem Type
}

type NewArrayExpr struct {
	Elem  Type
	Count Expr
}

type CallExpr struct {
	Callee Expr
	Args   []Expr
}

func (ValExpr) exprNode()       {}
func (NumExpr) exprNode()       {}
func (NilLitExpr) exprNode()    {}
func (SelectExpr) exprNode()    {}
func (UnOpExpr) exprNode()      {}
func (BinOpExpr) exprNode()     {}
func (NewSingleExpr) exprNode() {}
func (NewArrayExpr) exprNode()  {}
func (CallExpr) exprNode()      {}

// ExprField is the envelope used to unmarshal into the Expr interface; any
// struct field of type Expr should instead be declared as ExprField and
// read through its Expr member after decoding.
type ExprField struct {
	Expr Expr
}

func (e *ExprField) UnmarshalJSON(data []byte) error {
	ex, err := unmarshalExpr(data)
	if err != nil {
		return err
	}
	e.Expr = ex
	return nil
}

func unmarshalExpr(data []byte) (Expr, error) {
	tag, body, bare, err := decodeTag(data)
	if err != nil {
		return nil, fmt.Errorf("ast: expr: %w", err)
	}
	if bare {
		switch tag {
		case "Nil":
			return NilLitExpr{}, nil
		default:
			return nil, fmt.Errorf("ast: unrecognized bare expr tag %q", tag)
		}
	}
	switch tag {
	case "Val":
		// Val wraps a Place; the place payload may itself be a bare
		// {"Id":"x"} object.
		pl, err := unmarshalPlace(body)
		if err != nil {
			return nil, fmt.Errorf("ast: Val expr: %w", err)
		}
		return ValExpr{Place: pl}, nil
	case "Num":
		var n int64
		if err := json.Unmarshal(body, &n); err != nil {
			return nil, fmt.Errorf("ast: Num expr: %w", err)
		}
		return NumExpr{N: n}, nil
	case "Nil":
		return NilLitExpr{}, nil
	case "Select":
		var raw struct {
			Cond ExprField `json:"cond"`
			Then ExprField `json:"then"`
			Else ExprField `json:"else"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("ast: Select expr: %w", err)
		}
		return SelectExpr{Cond: raw.Cond.Expr, Then: raw.Then.Expr, Else: raw.Else.Expr}, nil
	case "UnOp":
		isList, list, obj, err := decodeOpPair(body)
		if err != nil {
			return nil, fmt.Errorf("ast: UnOp expr: %w", err)
		}
		var op string
		var operandRaw json.RawMessage
		if isList {
			if len(list) != 2 {
				return nil, fmt.Errorf("ast: UnOp list form requires [op, operand], got %d elements", len(list))
			}
			if err := json.Unmarshal(list[0], &op); err != nil {
				return nil, fmt.Errorf("ast: UnOp op: %w", err)
			}
			operandRaw = list[1]
		} else {
			if obj["op"] == nil || obj["operand"] == nil {
				return nil, fmt.Errorf("ast: UnOp object form requires op and operand")
			}
			if err := json.Unmarshal(obj["op"], &op); err != nil {
				return nil, fmt.Errorf("ast: UnOp op: %w", err)
			}
			operandRaw = obj["operand"]
		}
		var operand ExprField
		if err := json.Unmarshal(operandRaw, &operand); err != nil {
			return nil, fmt.Errorf("ast: UnOp operand: %w", err)
		}
		return UnOpExpr{Op: UnOp(op), Operand: operand.Expr}, nil
	case "BinOp":
		isList, list, obj, err := decodeOpPair(body)
		if err != nil {
			return nil, fmt.Errorf("ast: BinOp expr: %w", err)
		}
		var op string
		var leftRaw, rightRaw json.RawMessage
		if isList {
			if len(list) != 3 {
				return nil, fmt.Errorf("ast: BinOp list form requires [op, left, right], got %d elements", len(list))
			}
			if err := json.Unmarshal(list[0], &op); err != nil {
				return nil, fmt.Errorf("ast: BinOp op: %w", err)
			}
			leftRaw, rightRaw = list[1], list[2]
		} else {
			if obj["op"] == nil || obj["left"] == nil || obj["right"] == nil {
				return nil, fmt.Errorf("ast: BinOp object form requires op, left and right")
			}
			if err := json.Unmarshal(obj["op"], &op); err != nil {
				return nil, fmt.Errorf("ast: BinOp op: %w", err)
			}
			leftRaw, rightRaw = obj["left"], obj["right"]
		}
		var left, right ExprField
		if err := json.Unmarshal(leftRaw, &left); err != nil {
			return nil, fmt.Errorf("ast: BinOp left: %w", err)
		}
		if err := json.Unmarshal(rightRaw, &right); err != nil {
			return nil, fmt.Errorf("ast: BinOp right: %w", err)
		}
		return BinOpExpr{Op: BinOp(op), Left: left.Expr, Right: right.Expr}, nil
	case "NewSingle":
		var t Type
		if err := json.Unmarshal(body, &t); err != nil {
			return nil, fmt.Errorf("ast: NewSingle expr: %w", err)
		}
		return NewSingleExpr{Elem: t}, nil
	case "NewArray":
		var raw struct {
			Type  Type      `json:"type"`
			Count ExprField `json:"count"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("ast: NewArray expr: %w", err)
		}
		return NewArrayExpr{Elem: raw.Type, Count: raw.Count.Expr}, nil
	case "Call":
		var raw struct {
			Callee ExprField   `json:"callee"`
			Args   []ExprField `json:"args"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("ast: Call expr: %w", err)
		}
		args := make([]Expr, len(raw.Args))
		for i, a := range raw.Args {
			args[i] = a.Expr
		}
		return CallExpr{Callee: raw.Callee.Expr, Args: args}, nil
	default:
		return nil, fmt.Errorf("ast: unrecognized expr tag %q", tag)
	}
}
