package lower

import (
	cflaterrors "cflatlower/internal/errors"
	"cflatlower/internal/lir"
)

// buildCFG is the second pass over a function's translation vector: it
// slices the flat Label/Inst/Terminator sequence into basic blocks, then
// discards every block unreachable from the entry label.
func buildCFG(fn *lir.Function, tv []tvItem) error {
	blocks := make(map[string]*lir.BasicBlock)
	var order []string
	var cur *lir.BasicBlock

	for _, item := range tv {
		switch item.kind {
		case tvLabel:
			cur = &lir.BasicBlock{Label: item.label}
			blocks[item.label] = cur
			order = append(order, item.label)
		case tvInst:
			if cur == nil {
				return cflaterrors.New(cflaterrors.MalformedBlock, "instruction precedes any label").In(fn.Name)
			}
			if cur.Terminator != nil {
				return cflaterrors.New(cflaterrors.MalformedBlock, "instruction follows a terminator in block %s", cur.Label).In(fn.Name)
			}
			cur.Instructions = append(cur.Instructions, item.inst)
		case tvTerm:
			if cur == nil {
				return cflaterrors.New(cflaterrors.MalformedBlock, "terminator precedes any label").In(fn.Name)
			}
			if cur.Terminator != nil {
				return cflaterrors.New(cflaterrors.MalformedBlock, "block %s has more than one terminator", cur.Label).In(fn.Name)
			}
			cur.Terminator = item.term
		}
	}

	for _, label := range order {
		if blocks[label].Terminator == nil {
			return cflaterrors.New(cflaterrors.MalformedBlock, "block %s falls off the end without a terminator", label).In(fn.Name)
		}
	}

	reachable := make(map[string]bool)
	markReachable(blocks, fn.Entry, reachable)

	fn.Blocks = make(map[string]*lir.BasicBlock, len(reachable))
	for label, blk := range blocks {
		if reachable[label] {
			fn.Blocks[label] = blk
		}
	}
	return nil
}

// markReachable walks the successor edges of each block's terminator
// (Jump's target, Branch's two targets; Ret has none) to find every block
// reachable from the entry label.
func markReachable(blocks map[string]*lir.BasicBlock, label string, reachable map[string]bool) {
	if reachable[label] {
		return
	}
	blk, ok := blocks[label]
	if !ok {
		return
	}
	reachable[label] = true
	switch term := blk.Terminator.(type) {
	case lir.Jump:
		markReachable(blocks, term.Label, reachable)
	case lir.Branch:
		markReachable(blocks, term.Then, reachable)
		markReachable(blocks, term.Else, reachable)
	case lir.Ret:
		// no successors
	}
}
