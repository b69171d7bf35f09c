package decode

import "github.com/shadercore/recompiler/internal/ir"

// PredicateGuard describes the 4-bit predicate-register index plus
// negation bit every guest instruction carries (spec §4.2 "Predication").
type PredicateGuard struct {
	Index    ir.Pred
	Negated  bool
}

// IsTrivial reports whether g is the hardware-wired "always execute" guard:
// predicate PT with no negation. The decoder emits no conditionalization at
// all for a trivial guard (spec §4.2).
func (g PredicateGuard) IsTrivial() bool {
	return g.Index == ir.PT && !g.Negated
}

// predicateValue emits the U1 Value the guard tests: GetPred(index),
// wrapped in LogicalNot when negated. Like Phi's result type, the
// predicate index this GetPred reads is carried in the instruction's flag
// word rather than as an argument (spec §4.1 "Associated flags payload").
func predicateValue(e *ir.Emitter, g PredicateGuard) ir.Value {
	p := ir.InstWithFlags(e, ir.OpGetPred, g.Index)
	if g.Negated {
		p = e.Inst(ir.OpLogicalNot, p)
	}
	return p
}

// ConditionalizeRegisterWrite guards a register write with g. The decoder
// emits a flat pre-SSA instruction stream (spec §4.2, §4.3: the CFG builder
// runs after decode, over the decoder's already-flat output), so predicated
// writes cannot be expressed as real control flow at decode time; instead
// the write is expressed data-flow-style as a select between the freshly
// computed value and the register's current pre-SSA value, matching guest
// hardware's "skip the write" semantics without forking the block.
//
// For a trivial guard this degenerates to SetRegister(dst, computed) with
// no GetPred/Select emitted at all (spec §4.2, §8 scenario 4's ordinary
// case).
func ConditionalizeRegisterWrite(e *ir.Emitter, g PredicateGuard, dst ir.Reg, computed ir.Value) {
	if g.IsTrivial() {
		ir.InstWithFlags(e, ir.OpSetRegister, dst, computed)
		return
	}
	pred := predicateValue(e, g)
	prior := ir.InstWithFlags(e, ir.OpGetRegister, dst)
	guarded := e.Inst(ir.OpSelectU32, pred, computed, prior)
	ir.InstWithFlags(e, ir.OpSetRegister, dst, guarded)
}

// ConditionalizePredicateWrite is ConditionalizeRegisterWrite's counterpart
// for predicate-register destinations (guest SETP-family instructions).
// There is no boolean-typed SelectU32 equivalent in the opcode table, so
// the guard is expressed directly in terms of LogicalAnd/Or/Not: (pred AND
// computed) OR (NOT pred AND prior).
func ConditionalizePredicateWrite(e *ir.Emitter, g PredicateGuard, dst ir.Pred, computed ir.Value) {
	if g.IsTrivial() {
		ir.InstWithFlags(e, ir.OpSetPred, dst, computed)
		return
	}
	pred := predicateValue(e, g)
	prior := ir.InstWithFlags(e, ir.OpGetPred, dst)
	guarded := orv(e, andv(e, pred, computed), andv(e, notv(e, pred), prior))
	ir.InstWithFlags(e, ir.OpSetPred, dst, guarded)
}
