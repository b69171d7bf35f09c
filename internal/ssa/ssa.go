// Package ssa rewrites a decoder's pre-SSA register/predicate/flag/goto
// variable traffic (OpGetRegister/OpSetRegister and friends) into real SSA
// values, via the algorithm of Braun, Buchwald, Hack, Leiba, Mallon &
// Zwinkau (2013, "Simple and Efficient Construction of Static Single
// Assignment Form"), spec §4.4. It is grounded on the same
// explicit-worklist style as internal/cfg's reversePostOrder: every
// recursive step of the textbook algorithm is reified as a frame pushed
// onto an explicit stack, since a guest shader's block count can exceed
// what a recursive rewrite would safely walk on the native stack.
package ssa

import (
	"github.com/shadercore/recompiler/internal/ir"
)

// opcodePair pairs each pre-SSA Get opcode with the Set opcode that
// writes the same variable kind, and the Variable.Kind it belongs to.
type opcodePair struct {
	get, set ir.Opcode
	kind     ir.VariableKind
}

var trackedVariables = []opcodePair{
	{ir.OpGetRegister, ir.OpSetRegister, ir.VarRegister},
	{ir.OpGetPred, ir.OpSetPred, ir.VarPredicate},
	{ir.OpGetZFlag, ir.OpSetZFlag, ir.VarZFlag},
	{ir.OpGetSFlag, ir.OpSetSFlag, ir.VarSFlag},
	{ir.OpGetCFlag, ir.OpSetCFlag, ir.VarCFlag},
	{ir.OpGetOFlag, ir.OpSetOFlag, ir.VarOFlag},
	{ir.OpGetGotoVariable, ir.OpSetGotoVariable, ir.VarGoto},
	{ir.OpGetIndirectBranchVariable, ir.OpSetIndirectBranchVariable, ir.VarIndirectBranch},
}

func kindOf(op ir.Opcode) (ir.VariableKind, bool, bool) {
	for _, p := range trackedVariables {
		if p.get == op {
			return p.kind, false, true
		}
		if p.set == op {
			return p.kind, true, true
		}
	}
	return 0, false, false
}

func undefFor(t ir.Type) ir.Opcode {
	switch t {
	case ir.TypeU1:
		return ir.OpUndefU1
	case ir.TypeU8:
		return ir.OpUndefU8
	case ir.TypeU16:
		return ir.OpUndefU16
	case ir.TypeU64:
		return ir.OpUndefU64
	case ir.TypeF16:
		return ir.OpUndefF16
	case ir.TypeF32:
		return ir.OpUndefF32
	case ir.TypeF64:
		return ir.OpUndefF64
	default:
		return ir.OpUndefU32
	}
}

// resultTypeOf returns the SSA value type a variable's reads should carry,
// taken from the Get opcode's declared result type since every pre-SSA
// Get/Set pair agrees on the variable's type (spec §4.2 opcode table).
func resultTypeOf(kind ir.VariableKind) ir.Type {
	for _, p := range trackedVariables {
		if p.kind == kind {
			return p.get.ResultType()
		}
	}
	return ir.TypeOpaque
}

// Rewriter drives the Braun et al. construction over one program. Construct
// with NewRewriter and call Run once the program's blocks and PostOrder
// have been populated by the CFG builder (spec §4.3, §4.4).
type Rewriter struct {
	prog *ir.Program
}

// NewRewriter returns a Rewriter for prog.
func NewRewriter(prog *ir.Program) *Rewriter {
	return &Rewriter{prog: prog}
}

// Run walks the program in reverse post-order, rewriting every tracked
// Get/Set pair into SSA form and sealing each block once all of its
// predecessors have been processed (spec §4.4 "Sealing").
func (r *Rewriter) Run() {
	for _, b := range r.prog.PostOrder {
		r.rewriteBlock(b)
		r.trySeal(b)
	}
	// A reducible graph's reverse post-order seals every block as it is
	// reached, but guard here too: any block left unsealed (e.g. an
	// unreachable block with predecessors only among other unreachable
	// blocks processed later) is forced sealed so its incomplete phis
	// still get completed.
	for _, b := range r.prog.PostOrder {
		if !b.Sealed {
			r.seal(b)
		}
	}
}

// trySeal seals b once every predecessor has itself been visited. Reverse
// post-order guarantees this holds the first time b is visited for
// reducible control flow (spec §4.4), but loop headers are sealed only
// after their back-edge predecessor is processed; since RPO places a loop
// header before its back edge's source, this check can still be false the
// first time through for a loop header with a not-yet-visited back edge —
// Run's final unsealed sweep above sealed those.
func (r *Rewriter) trySeal(b *ir.Block) {
	for _, pred := range b.Preds {
		if !r.visited(pred) {
			return
		}
	}
	r.seal(b)
}

func (r *Rewriter) visited(b *ir.Block) bool {
	return b.Rewritten
}

func (r *Rewriter) seal(b *ir.Block) {
	if b.Sealed {
		return
	}
	for v, phi := range b.IncompletePhis() {
		r.addPhiOperands(phi, v, b)
	}
	b.Sealed = true
}

// rewriteBlock processes every tracked Get/Set instruction in b, in
// program order, replacing Get-instructions with Identity(ReadVariable)
// and dropping Set-instructions after recording their value as the
// block's current definition (spec §4.4 "Per-opcode behavior").
func (r *Rewriter) rewriteBlock(b *ir.Block) {
	for i := b.First(); i != nil; {
		next := i.Next()
		kind, isSet, ok := kindOf(i.Opcode)
		if !ok {
			i = next
			continue
		}
		v := ir.Variable{Kind: kind, Index: int(flagIndex(i))}
		if isSet {
			if isDiscardedWrite(kind, v.Index) {
				i.Invalidate()
				b.Remove(i)
				i = next
				continue
			}
			b.WriteVariable(v, i.Arg(0))
			i.Invalidate()
			b.Remove(i)
		} else {
			val := r.readVariable(v, b)
			i.ReplaceUsesWith(val)
		}
		i = next
	}
	b.Rewritten = true
}

// isDiscardedWrite reports whether a write to this variable is silently
// dropped rather than becoming an SSA definition: RZ (register 255) and PT
// (predicate 7) are immutable guest names (spec §4.4 "writes to RZ and PT
// are silently dropped").
func isDiscardedWrite(kind ir.VariableKind, index int) bool {
	switch kind {
	case ir.VarRegister:
		return ir.Reg(index) == ir.RZ
	case ir.VarPredicate:
		return ir.Pred(index) == ir.PT
	default:
		return false
	}
}

// flagIndex extracts the register/predicate/goto index the decoder stored
// in an instruction's flags word (spec §4.2's Get/Set opcodes carry their
// operand index there, not as an argument Value).
func flagIndex(i *ir.Inst) int32 {
	switch i.Opcode {
	case ir.OpGetRegister, ir.OpSetRegister:
		return int32(ir.Flags[ir.Reg](i))
	case ir.OpGetPred, ir.OpSetPred:
		return int32(ir.Flags[ir.Pred](i))
	case ir.OpGetGotoVariable, ir.OpSetGotoVariable:
		return ir.Flags[int32](i)
	case ir.OpGetIndirectBranchVariable, ir.OpSetIndirectBranchVariable:
		return 0
	default:
		return 0
	}
}

// frame is one reified step of the textbook recursive ReadVariable, used
// to drive the lookup with an explicit stack instead of Go call recursion
// (spec §4.4 "Non-recursive iterative driver"). A chain of single-
// predecessor blocks pushes one frame per hop instead of calling back into
// ReadVariable, so an arbitrarily long straight-line run of fall-through
// blocks costs stack-slice growth, not native call-stack depth.
type frame struct {
	v     ir.Variable
	block *ir.Block
	// dst receives the resolved value once this frame's block is known.
	dst *ir.Value
	// cacheBlocks are blocks along a single-predecessor chain that should
	// also record the resolved value as their own current definition,
	// so repeat reads in the same rewrite don't re-walk the chain.
	cacheBlocks []*ir.Block
}

// readVariable is the iterative ReadVariable (spec §4.4).
func (r *Rewriter) readVariable(v ir.Variable, b *ir.Block) ir.Value {
	var out ir.Value
	stack := []frame{{v: v, block: b, dst: &out}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if val, ok := f.block.CurrentDef(f.v); ok {
			r.resolve(f, val)
			continue
		}
		if !f.block.Sealed {
			phi := r.emitEmptyPhi(f.block, f.v)
			f.block.SetIncompletePhi(f.v, phi)
			f.block.WriteVariable(f.v, phi.Value())
			r.resolve(f, phi.Value())
			continue
		}
		if len(f.block.Preds) == 1 {
			stack = append(stack, frame{
				v:           f.v,
				block:       f.block.Preds[0],
				dst:         f.dst,
				cacheBlocks: append(f.cacheBlocks, f.block),
			})
			continue
		}
		phi := r.emitEmptyPhi(f.block, f.v)
		f.block.WriteVariable(f.v, phi.Value())
		r.addPhiOperands(phi, f.v, f.block)
		simplified := r.tryRemoveTrivialPhi(phi, f.v, f.block)
		r.resolve(f, simplified)
	}
	return out
}

// resolve writes val into a frame's destination and every block cached
// along the single-predecessor chain that produced it.
func (r *Rewriter) resolve(f frame, val ir.Value) {
	*f.dst = val
	for _, cb := range f.cacheBlocks {
		cb.WriteVariable(f.v, val)
	}
}

// emitEmptyPhi inserts an operandless Phi for v at block's entry.
func (r *Rewriter) emitEmptyPhi(block *ir.Block, v ir.Variable) *ir.Inst {
	e := ir.NewEmitter(block)
	return e.Phi(resultTypeOf(v.Kind))
}

// addPhiOperands completes phi with one operand per predecessor of block,
// resolved via ReadVariable (spec §4.4 "Sealing" / "exactly one predecessor
// ... else insert an operandless phi ... then add one operand per
// predecessor"). Each predecessor lookup is itself a fresh, self-contained
// call to the iterative readVariable; the recursion here is bounded by
// block's predecessor count, not by chain depth.
func (r *Rewriter) addPhiOperands(phi *ir.Inst, v ir.Variable, block *ir.Block) {
	for _, pred := range block.Preds {
		val := r.readVariable(v, pred)
		phi.AddPhiOperand(pred, val)
	}
}

// tryRemoveTrivialPhi collapses phi to its single distinct non-self
// operand, if one exists (spec §4.4 "Try-remove-trivial-phi"). Returns the
// value callers should use in place of phi.Value().
func (r *Rewriter) tryRemoveTrivialPhi(phi *ir.Inst, v ir.Variable, block *ir.Block) ir.Value {
	self := phi.Value()
	var same ir.Value
	hasSame := false
	trivial := true
	for _, op := range phi.PhiOperands() {
		if op.Value.Equal(self) {
			continue
		}
		if hasSame && !op.Value.Equal(same) {
			trivial = false
			break
		}
		same = op.Value
		hasSame = true
	}
	if !trivial {
		return self
	}

	var replacement ir.Value
	if hasSame {
		replacement = same
	} else {
		e := ir.NewEmitter(block)
		e.SetInsertionPoint(block.FirstNonPhi())
		replacement = e.Inst(undefFor(resultTypeOf(v.Kind)))
	}

	block.Remove(phi)
	phi.ReplaceUsesWith(replacement)
	at := block.FirstNonPhi()
	block.InsertBefore(at, phi)
	block.WriteVariable(v, replacement)
	return replacement
}

// Run is a convenience wrapper constructing a Rewriter and running it to
// completion over prog.
func Run(prog *ir.Program) {
	NewRewriter(prog).Run()
}
