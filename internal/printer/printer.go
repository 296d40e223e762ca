// Package printer renders a lowered lir.Program into the deterministic
// textual form spec.md §6 defines: structs, then externs, then function
// pointers, then functions, each section internally sorted
// lexicographically by name so two runs over the same program never
// differ byte-for-byte.
package printer

import (
	"fmt"
	"sort"
	"strings"

	"cflatlower/internal/lir"
)

type Printer struct {
	indent int
	out    strings.Builder
}

func New() *Printer {
	return &Printer{}
}

// Print serializes prog and returns the resulting text.
func Print(prog *lir.Program) string {
	p := New()
	p.printProgram(prog)
	return p.out.String()
}

func (p *Printer) writeIndent() {
	p.out.WriteString(strings.Repeat("  ", p.indent))
}

func (p *Printer) writeLine(format string, args ...any) {
	p.writeIndent()
	fmt.Fprintf(&p.out, format, args...)
	p.out.WriteByte('\n')
}

func (p *Printer) printProgram(prog *lir.Program) {
	for _, name := range sortedKeys(prog.Structs) {
		p.printStruct(prog.Structs[name])
	}
	for _, name := range sortedKeys(prog.Externs) {
		p.printExtern(name, prog.Externs[name])
	}
	for _, name := range sortedKeys(prog.FunPtrs) {
		p.printFunPtr(name, prog.FunPtrs[name])
	}
	for _, name := range sortedKeys(prog.Functions) {
		p.printFunction(prog.Functions[name])
	}
}

func (p *Printer) printStruct(s *lir.StructDef) {
	p.writeLine("struct %s {", s.Name)
	p.indent++
	names := make([]string, 0, len(s.Fields))
	for n := range s.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		p.writeLine("%s: %s;", n, s.Fields[n].String())
	}
	p.indent--
	p.writeLine("}")
	p.out.WriteByte('\n')
}

func (p *Printer) printExtern(name string, t lir.FnType) {
	p.writeLine("extern %s: %s", name, t.String())
}

func (p *Printer) printFunPtr(name string, t lir.PtrType) {
	p.writeLine("funptr %s: %s", name, t.String())
}

func (p *Printer) printFunction(fn *lir.Function) {
	params := make([]string, len(fn.Params))
	for i, prm := range fn.Params {
		params[i] = fmt.Sprintf("%s: %s", prm.Name, prm.Type.String())
	}
	p.writeLine("fn %s(%s) -> %s {", fn.Name, strings.Join(params, ", "), fn.Ret.String())
	p.indent++

	localNames := sortedKeys(fn.Locals)
	if len(localNames) > 0 {
		decls := make([]string, len(localNames))
		for i, n := range localNames {
			decls[i] = fmt.Sprintf("%s: %s", n, fn.Locals[n].String())
		}
		p.writeLine("let %s", strings.Join(decls, ", "))
		p.out.WriteByte('\n')
	}

	labels := []string{fn.Entry}
	var rest []string
	for label := range fn.Blocks {
		if label != fn.Entry {
			rest = append(rest, label)
		}
	}
	sort.Strings(rest)
	labels = append(labels, rest...)

	for _, label := range labels {
		blk, ok := fn.Blocks[label]
		if !ok {
			continue
		}
		p.printBlock(blk)
	}

	p.indent--
	p.writeLine("}")
	p.out.WriteByte('\n')
}

func (p *Printer) printBlock(blk *lir.BasicBlock) {
	p.writeLine("%s:", blk.Label)
	p.indent++
	for _, inst := range blk.Instructions {
		p.writeLine("%s", inst.String())
	}
	if blk.Terminator != nil {
		p.writeLine("%s", blk.Terminator.String())
	}
	p.indent--
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
