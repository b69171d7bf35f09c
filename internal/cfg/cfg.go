// Package cfg builds a control-flow graph of typed basic blocks from the
// decoder's flat instruction stream and branch records (spec §4.3). It is
// grounded on the explicit-adjacency, iterative-worklist graph style used
// throughout google/gapid's gapis/resolve/dependencygraph package,
// generalized from gapid's API-call dependency graph to IR basic blocks.
package cfg

import (
	"github.com/shadercore/recompiler/core/fault"
	"github.com/shadercore/recompiler/internal/decode"
	"github.com/shadercore/recompiler/internal/ir"
)

// Build splits d's flat entry block into typed basic blocks at every branch
// and every branch target, wires predecessor/successor lists, and computes
// the program's reverse post-order (spec §4.3, used by SSA sealing in
// §4.4). d.Program must have exactly one (flat) block, as produced by
// decode.NewDecoder/Decode.
func Build(d *decode.Decoder) (*ir.Program, error) {
	prog := d.Program
	if len(prog.Blocks) != 1 {
		return nil, fault.Newf(fault.InvalidArgument, "cfg.Build expects a flat single-block program, got %d blocks", len(prog.Blocks))
	}
	flat := prog.Blocks[0]

	cuts := collectCuts(d, flat)
	blocks := splitAt(prog, flat, cuts)
	wireEdges(d, blocks, cuts)

	prog.Blocks = blocks
	prog.PostOrder = reversePostOrder(blocks)
	return prog, nil
}

// collectCuts returns, in ascending instruction order, every instruction
// that must begin a new block: the flat block's first instruction, every
// branch target, and the instruction immediately following every branch
// (the fall-through block).
func collectCuts(d *decode.Decoder, flat *ir.Block) []*ir.Inst {
	set := map[*ir.Inst]bool{}
	if first := flat.First(); first != nil {
		set[first] = true
	}
	for _, br := range d.Branches {
		if !br.Indirect && br.TargetWord >= 0 && br.TargetWord < len(d.WordStart) {
			if t := d.WordStart[br.TargetWord]; t != nil {
				set[t] = true
			}
		}
		if fall := br.Inst.Next(); fall != nil {
			set[fall] = true
		}
	}
	var cuts []*ir.Inst
	for i := flat.First(); i != nil; i = i.Next() {
		if set[i] {
			cuts = append(cuts, i)
		}
	}
	return cuts
}

// splitAt rehomes flat's instructions into one freshly allocated block per
// cut point, preserving order, and returns the new blocks in program order.
func splitAt(prog *ir.Program, flat *ir.Block, cuts []*ir.Inst) []*ir.Block {
	prog.Blocks = nil
	if len(cuts) == 0 {
		return []*ir.Block{flat}
	}
	cutSet := map[*ir.Inst]bool{}
	for _, c := range cuts {
		cutSet[c] = true
	}

	blocks := make([]*ir.Block, 0, len(cuts))
	cur := prog.AddBlock()
	blocks = append(blocks, cur)

	i := flat.First()
	for i != nil {
		next := i.Next()
		if cutSet[i] && i != cuts[0] {
			cur = prog.AddBlock()
			blocks = append(blocks, cur)
		}
		flat.Remove(i)
		cur.PushBack(i)
		i = next
	}
	return blocks
}

// wireEdges connects Preds/Succs. Unconditional branches and fall-throughs
// get a single successor; conditional branches synthesize two (taken,
// fall-through); Return and indirect branches get none (spec §4.3 —
// indirect targets are resolved at the data-flow level via
// IndirectBranchVariable, not as static CFG edges).
func wireEdges(d *decode.Decoder, blocks []*ir.Block, cuts []*ir.Inst) {
	blockOf := map[*ir.Inst]*ir.Block{}
	for _, b := range blocks {
		for i := b.First(); i != nil; i = i.Next() {
			blockOf[i] = b
		}
	}
	startOf := func(wordIdx int) *ir.Block {
		if wordIdx < 0 || wordIdx >= len(d.WordStart) {
			return nil
		}
		inst := d.WordStart[wordIdx]
		if inst == nil {
			return nil
		}
		return blockOf[inst]
	}
	link := func(from, to *ir.Block) {
		if from == nil || to == nil {
			return
		}
		from.Succs = append(from.Succs, to)
		to.Preds = append(to.Preds, from)
	}

	branchAt := map[*ir.Inst]decode.Branch{}
	for _, br := range d.Branches {
		branchAt[br.Inst] = br
	}

	for idx, b := range blocks {
		last := b.Last()
		if last == nil {
			continue
		}
		if br, ok := branchAt[last]; ok {
			if br.Indirect {
				continue
			}
			target := startOf(br.TargetWord)
			if last.Opcode == ir.OpBranchConditional {
				link(b, target)
				if idx+1 < len(blocks) {
					link(b, blocks[idx+1])
				}
			} else {
				link(b, target)
			}
			continue
		}
		if last.Opcode == ir.OpReturn || last.Opcode == ir.OpDiscard {
			continue
		}
		if idx+1 < len(blocks) {
			link(b, blocks[idx+1])
		}
	}
}

// reversePostOrder computes blocks' reverse post-order from entry block 0,
// used by the SSA rewriter to guarantee every predecessor of a block is
// processed (and hence sealable) before the block itself (spec §4.4
// "reverse post-order traversal guarantees this for reducible graphs").
func reversePostOrder(blocks []*ir.Block) []*ir.Block {
	if len(blocks) == 0 {
		return nil
	}
	visited := map[*ir.Block]bool{}
	var postOrder []*ir.Block

	type frame struct {
		b    *ir.Block
		next int
	}
	stack := []frame{{b: blocks[0]}}
	visited[blocks[0]] = true
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.b.Succs) {
			succ := top.b.Succs[top.next]
			top.next++
			if !visited[succ] {
				visited[succ] = true
				stack = append(stack, frame{b: succ})
			}
			continue
		}
		postOrder = append(postOrder, top.b)
		stack = stack[:len(stack)-1]
	}

	rpo := make([]*ir.Block, len(postOrder))
	for i, b := range postOrder {
		rpo[len(postOrder)-1-i] = b
	}
	// Blocks unreachable from the entry (dead guest code past an
	// unconditional exit) are appended after the reachable set in their
	// original order, so every block still appears exactly once.
	for _, b := range blocks {
		if !visited[b] {
			rpo = append(rpo, b)
		}
	}
	return rpo
}
