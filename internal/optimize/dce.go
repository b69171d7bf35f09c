package optimize

import "github.com/shadercore/recompiler/internal/ir"

// hasSideEffect reports whether op's instruction must be kept even when
// nothing consumes its result: either it has no result to consume (a
// terminator, a variable write) or it mutates memory/state that something
// outside the IR graph observes (an atomic, a shared/global/storage write,
// an image write).
func hasSideEffect(op ir.Opcode) bool {
	switch op {
	case ir.OpSetAttribute, ir.OpSetPatch,
		ir.OpWriteGlobalU8, ir.OpWriteGlobalU16, ir.OpWriteGlobal32, ir.OpWriteGlobal64,
		ir.OpWriteStorageU8, ir.OpWriteStorageU16, ir.OpWriteStorage32, ir.OpWriteStorage64,
		ir.OpWriteSharedU32, ir.OpWriteSharedU64,
		ir.OpSharedAtomicIAdd32, ir.OpStorageAtomicIAdd32, ir.OpGlobalAtomicIAdd32, ir.OpStorageAtomicFPAdd32,
		ir.OpImageWrite, ir.OpBindlessImageWrite,
		ir.OpBranch, ir.OpBranchConditional, ir.OpReturn, ir.OpDiscard,
		ir.OpEndPrimitive, ir.OpEmitVertex:
		return true
	default:
		return false
	}
}

// DeadCodeElimination removes every instruction with zero remaining uses
// and no side effect (spec §4.5). It walks blocks in post-order (the
// reverse of PostOrder, i.e. a block's successors are visited before it)
// and each block tail-to-first, so a value's consumers are always decided
// before the value's own producer is examined: one backward pass is
// sufficient to collapse an entire dead chain, since removing a dead
// consumer immediately drops its operands' use-counts before they are
// checked in turn.
func DeadCodeElimination(prog *ir.Program) {
	for bi := len(prog.PostOrder) - 1; bi >= 0; bi-- {
		b := prog.PostOrder[bi]
		for i := b.Last(); i != nil; {
			prev := i.Prev()
			if i.Opcode != ir.OpVoid && i.UseCount() == 0 && !hasSideEffect(i.Opcode) {
				i.Invalidate()
				b.Remove(i)
			}
			i = prev
		}
	}
}
