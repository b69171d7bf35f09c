package glasm

import (
	"github.com/shadercore/recompiler/core/fault"
	"github.com/shadercore/recompiler/internal/ir"
)

// pool tracks which register indices of one width are currently live, so
// an index can be reused once its value's last consumer has fired.
type pool struct {
	long   bool
	free   []uint16
	next   uint16
	liveBy map[*ir.Inst]uint16
}

func newPool(long bool) *pool {
	return &pool{long: long, liveBy: map[*ir.Inst]uint16{}}
}

// allocatorState is the per-compile register allocator: one pool per
// width, reset for every Program (spec §5: "allocators are per-invocation").
type allocatorState struct {
	short pool
	long  pool
}

func newAllocatorState() *allocatorState {
	return &allocatorState{short: *newPool(false), long: *newPool(true)}
}

// allocate reserves a fresh register of the given width for i, raising
// fault.RuntimeError if the pool is exhausted. Spilling beyond
// registerPoolSize simultaneously-live registers of one width is a known,
// declared-unimplemented gap (spec §4.6): this back-end never spills.
func (p *pool) allocate(i *ir.Inst) uint16 {
	var idx uint16
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		if int(p.next) >= registerPoolSize {
			fail(fault.RuntimeError, "glasm: exhausted %d simultaneously-live registers (width long=%v); spilling is not implemented", registerPoolSize, p.long)
		}
		idx = p.next
		p.next++
	}
	p.liveBy[i] = idx
	return idx
}

// release returns i's register to the free list once its last consumer
// has emitted (use-count tracking; spec §4.6 "Consume/Peek/DestructiveAddUsage(1)").
func (p *pool) release(i *ir.Inst) {
	if idx, ok := p.liveBy[i]; ok {
		p.free = append(p.free, idx)
		delete(p.liveBy, i)
	}
}

// isAliasOpcode reports whether op never needs a physical register of its
// own: their single argument already names a live register (or
// immediate/null), and the instruction is purely a reinterpretation of its
// bits (spec §8 "Aliasing": a bit-cast and its use share the same physical
// register in this back-end).
func isAliasOpcode(op ir.Opcode) bool {
	switch op {
	case ir.OpIdentity, ir.OpBitCastU32F32, ir.OpBitCastF32U32, ir.OpBitCastU64F64, ir.OpBitCastF64U64:
		return true
	default:
		return false
	}
}

// AliasInst walks back through an Identity/BitCast* producer chain to the
// instruction that actually owns the physical register v is backed by, or
// nil if v resolves to something other than an instruction.
func AliasInst(v ir.Value) *ir.Inst {
	p := v.Producer()
	for p != nil && isAliasOpcode(p.Opcode) {
		arg := p.Arg(0)
		next := arg.Producer()
		if next == nil {
			return p
		}
		p = next
	}
	return p
}

// registerOf returns the register id backing v, allocating one the first
// time a non-alias producer is seen. Values with zero uses but a side
// effect still need a destination: callers pass forceNull=true to get the
// null-register token instead of allocating.
func (a *allocatorState) registerOf(v ir.Value, forceNull bool) regID {
	p := AliasInst(v)
	if p == nil {
		// Immediate/register/predicate-valued: the caller is responsible
		// for emitting it as a literal operand instead of a register.
		return regID{}
	}
	long := isLong(p.Value().Type())
	if forceNull || p.UseCount() == 0 {
		return regID{Long: long, Valid: false}
	}
	if existing, ok := regIDFromDefinition(p); ok {
		return existing
	}
	var idx uint16
	if long {
		idx = a.long.allocate(p)
	} else {
		idx = a.short.allocate(p)
	}
	id := regID{Long: long, Valid: true, Index: idx}
	ir.SetDefinition(p, id)
	return id
}

func regIDFromDefinition(p *ir.Inst) (regID, bool) {
	id := ir.Definition[regID](p)
	return id, id.Valid
}

// release returns i's register to its pool's free list. The emitter does
// not call it: a register allocated during Emit stays allocated until the
// compile ends, so registers are not reused once their last consumer has
// been emitted.
func (a *allocatorState) release(i *ir.Inst) {
	if id, ok := regIDFromDefinition(i); ok {
		if id.Long {
			a.long.release(i)
		} else {
			a.short.release(i)
		}
	}
}
