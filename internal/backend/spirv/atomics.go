package spirv

import (
	"github.com/shadercore/recompiler/internal/ir"
)

// atomicIAdd lowers one of the integer atomic-add opcodes directly to
// OpAtomicIAdd: core SPIR-V has a native integer atomic add, unlike the
// floating-point case atomicFAddCAS below. Memory semantics are left
// relaxed (MemorySemanticsNone): this back-end does not model the guest's
// memory-ordering/visibility scopes beyond the atomic op itself.
func (em *emitter) atomicIAdd(i *ir.Inst, addr memAddr, scope uint32) {
	ptr := em.accessChainPtr(addr)
	value := em.value(i.Arg(i.NumArgs() - 1))
	t := em.m.typeID(i.Opcode.ResultType())
	id := em.resultID(i)
	emitInst(&em.m.functions, OpAtomicIAdd, t, id, ptr,
		em.m.constU32(scope), em.m.constU32(MemorySemanticsNone), value)
}

// atomicFAddCAS lowers StorageAtomicFPAdd32 (spec §4.2, §8 "CAS helper for
// sub-word/fp64 atomics"): core SPIR-V has no floating-point atomic add,
// so a fetch-add has to be built from a compare-and-swap retry loop over
// the word's raw bits, retrying whenever a concurrent invocation updated
// the memory location between this invocation's load and its exchange.
//
// The loop splices three extra blocks into what the IR model treats as a
// single block (i.Block()): a header carrying the loop-carried "old value"
// Phi, a body doing the add and attempting the exchange, and a merge block
// where this instruction's result (the value before the add, matching
// fetch-add semantics) becomes available. Because of that splice, any
// later reference to i.Block() — a branch target, or a Phi predecessor in
// some successor block — must resolve to the merge label, not the block's
// original entry label, so em.labels[i.Block()] is repointed at the end.
func (em *emitter) atomicFAddCAS(i *ir.Inst, addr memAddr) {
	u32T := em.m.typeID(ir.TypeU32)
	f32T := em.m.typeID(ir.TypeF32)
	boolT := em.m.typeID(ir.TypeU1)

	ptr := em.accessChainPtr(addr)
	addend := em.value(i.Arg(i.NumArgs() - 1))
	scope := em.m.constU32(ScopeDevice)
	sem := em.m.constU32(MemorySemanticsNone)

	entryLabel := em.labels[i.Block()]
	headerLabel := em.m.ids.id()
	bodyLabel := em.m.ids.id()
	mergeLabel := em.m.ids.id()

	oldInit := em.m.ids.id()
	emitInst(&em.m.functions, OpLoad, u32T, oldInit, ptr)
	emitInst(&em.m.functions, OpBranch, headerLabel)

	// oldID and casResultID are allocated before the instructions that
	// define them: the loop-carried Phi (header) must name casResultID
	// (defined in body, emitted further below) as one of its operands,
	// which SPIR-V permits as a forward reference.
	oldID := em.m.ids.id()
	casResultID := em.m.ids.id()

	emitInst(&em.m.functions, OpLabel, headerLabel)
	emitInst(&em.m.functions, OpPhi, u32T, oldID, oldInit, entryLabel, casResultID, bodyLabel)
	emitInst(&em.m.functions, OpLoopMerge, mergeLabel, bodyLabel, 0)
	emitInst(&em.m.functions, OpBranch, bodyLabel)

	emitInst(&em.m.functions, OpLabel, bodyLabel)
	oldF := em.m.ids.id()
	emitInst(&em.m.functions, OpBitcast, f32T, oldF, oldID)
	newF := em.m.ids.id()
	emitInst(&em.m.functions, OpFAdd, f32T, newF, oldF, addend)
	newU := em.m.ids.id()
	emitInst(&em.m.functions, OpBitcast, u32T, newU, newF)
	emitInst(&em.m.functions, OpAtomicCompareExchange, u32T, casResultID, ptr, scope, sem, sem, newU, oldID)
	success := em.m.ids.id()
	emitInst(&em.m.functions, OpIEqual, boolT, success, casResultID, oldID)
	emitInst(&em.m.functions, OpBranchConditional, success, mergeLabel, headerLabel)

	emitInst(&em.m.functions, OpLabel, mergeLabel)
	em.ids[i] = oldID
	em.labels[i.Block()] = mergeLabel
}
