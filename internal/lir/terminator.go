package lir

import "fmt"

// Terminator is the closed set of LIR block terminators: Jump, Branch, Ret.
type Terminator interface {
	String() string
	isTerminator()
}

type Jump struct {
	Label string
}

func (t Jump) String() string { return fmt.Sprintf("$jump %s", t.Label) }
func (Jump) isTerminator()    {}

type Branch struct {
	Guard string
	Then  string
	Else  string
}

func (t Branch) String() string {
	return fmt.Sprintf("$branch %s %s %s", t.Guard, t.Then, t.Else)
}
func (Branch) isTerminator() {}

// Ret returns from the enclosing function, optionally carrying a value
// (nil for a void return).
type Ret struct {
	Value *string
}

func (t Ret) String() string {
	if t.Value == nil {
		return "$ret"
	}
	return fmt.Sprintf("$ret %s", *t.Value)
}
func (Ret) isTerminator() {}
