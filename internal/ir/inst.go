package ir

import (
	"fmt"
	"unsafe"

	"github.com/shadercore/recompiler/core/fault"
)

// PhiOperand pairs a phi's predecessor block with the value it carries
// along that edge (spec §3, §4.1).
type PhiOperand struct {
	Pred  *Block
	Value Value
}

// Inst is one IR instruction, owned by the block it is inserted into. It
// never outlives its block (spec §3 "Ownership summary").
//
// Arguments point at other instructions within the same program; rather
// than an arena index (spec §9's suggested representation) this
// implementation uses direct *Inst pointers; Go's GC makes the arena's
// "freed wholesale at program end" property unnecessary to hand-manage.
type Inst struct {
	Opcode   Opcode
	useCount int
	flags    uint32
	definition uint32

	args []Value
	phi  []PhiOperand

	pseudo [numPseudoKinds]*Inst

	block *Block
	prev, next *Inst
}

func fail(kind fault.Kind, format string, args ...interface{}) {
	panic(fault.Newf(kind, format, args...))
}

// newInst allocates a detached instruction; it is not part of any block
// until Block.InsertBefore/PushBack places it.
func newInst(op Opcode, args []Value) *Inst {
	i := &Inst{Opcode: op}
	if op == OpPhi {
		return i
	}
	n := NumArgsOf(op)
	if n >= 0 && len(args) != n {
		fail(fault.InvalidArgument, "opcode %v expects %d args, got %d", op, n, len(args))
	}
	i.args = make([]Value, len(args))
	for idx, a := range args {
		i.setArgNoBoundsCheck(idx, a, op)
	}
	return i
}

// Value returns the Value referring to i with i's (Identity-unresolved)
// declared type.
func (i *Inst) Value() Value { return instrValue(i) }

// UseCount returns the number of argument slots across the program that
// currently reference i by pointer identity.
func (i *Inst) UseCount() int { return i.useCount }

// NumArgs returns the number of argument slots i currently has (len(phi)
// for a Phi instruction).
func (i *Inst) NumArgs() int {
	if i.Opcode == OpPhi {
		return len(i.phi)
	}
	return len(i.args)
}

// Arg returns argument n; for a Phi it returns the value of phi operand n
// (PhiOperands also gives the predecessor). An out-of-range n panics with
// Go's index-out-of-range error.
func (i *Inst) Arg(n int) Value {
	if i.Opcode == OpPhi {
		return i.phi[n].Value
	}
	return i.args[n]
}

func (i *Inst) checkArgType(op Opcode, idx int, v Value) {
	want := ArgType(op, idx)
	got := v.Type()
	if !AreTypesCompatible(want, got) {
		fail(fault.InvalidArgument, "%v arg %d: want type compatible with %v, got %v", op, idx, want, got)
	}
}

func (i *Inst) setArgNoBoundsCheck(idx int, v Value, op Opcode) {
	i.checkArgType(op, idx, v)
	i.args[idx] = v
	i.registerUse(v)
}

// registerUse increments the use-count of v's raw (unresolved) producer and
// wires up a pseudo-instruction association if i itself is a pseudo-kind
// consumer.
func (i *Inst) registerUse(v Value) {
	p := v.rawInstr()
	if p == nil {
		return
	}
	p.useCount++
	if kind, ok := pseudoKindOf[i.Opcode]; ok {
		if p.pseudo[kind] != nil && p.pseudo[kind] != i {
			fail(fault.LogicError, "producer already has a %v pseudo consumer", kind)
		}
		p.pseudo[kind] = i
	}
}

// unregisterUse is the inverse of registerUse, run before an argument slot
// is overwritten or cleared.
func (i *Inst) unregisterUse(v Value) {
	p := v.rawInstr()
	if p == nil {
		return
	}
	p.useCount--
	if kind, ok := pseudoKindOf[i.Opcode]; ok {
		if p.pseudo[kind] == i {
			p.pseudo[kind] = nil
		}
	}
}

// SetArg replaces argument n with v, maintaining use-counts and pseudo
// associations (spec §4.1 "Use tracking").
func (i *Inst) SetArg(n int, v Value) {
	if i.Opcode == OpPhi {
		fail(fault.InvalidArgument, "SetArg called on Phi; use AddPhiOperand")
	}
	i.unregisterUse(i.args[n])
	i.setArgNoBoundsCheck(n, v, i.Opcode)
}

// AddPhiOperand appends a (predecessor, value) pair to a Phi instruction.
func (i *Inst) AddPhiOperand(pred *Block, v Value) {
	if i.Opcode != OpPhi {
		fail(fault.InvalidArgument, "AddPhiOperand called on non-Phi opcode %v", i.Opcode)
	}
	i.phi = append(i.phi, PhiOperand{Pred: pred, Value: v})
	i.registerUse(v)
}

// PhiOperands returns the phi's (predecessor, value) pairs.
func (i *Inst) PhiOperands() []PhiOperand {
	if i.Opcode != OpPhi {
		return nil
	}
	return i.phi
}

// SetPhiOperand overwrites the value half of phi operand n, maintaining
// use-counts; the optimizer's identity removal uses it to shorten phi
// operands.
func (i *Inst) SetPhiOperand(n int, v Value) {
	i.unregisterUse(i.phi[n].Value)
	i.phi[n].Value = v
	i.registerUse(v)
}

// ClearArgs releases every current argument's use-count (and phi operand,
// if a Phi) without changing the opcode.
func (i *Inst) ClearArgs() {
	for _, a := range i.args {
		i.unregisterUse(a)
	}
	i.args = nil
	for _, p := range i.phi {
		i.unregisterUse(p.Value)
	}
	i.phi = nil
}

// Invalidate clears all arguments (decrementing their use-counts) and
// rewrites the opcode to Void (spec §3).
func (i *Inst) Invalidate() {
	i.ClearArgs()
	i.Opcode = OpVoid
	i.flags = 0
}

// ReplaceUsesWith rewrites i to Identity(v): existing pointers to i keep
// working (their use-count bookkeeping is untouched, since that counts
// argument slots that reference i's pointer, not i's own contents) while
// readers resolving i's type/producer/payload transparently see v instead
// (spec §3, §4.1).
func (i *Inst) ReplaceUsesWith(v Value) {
	i.ClearArgs()
	i.Opcode = OpIdentity
	i.flags = 0
	i.args = make([]Value, 1)
	i.setArgNoBoundsCheck(0, v, OpIdentity)
}

// ReplaceOpcode rewrites i's opcode in place without touching its
// arguments; the caller is responsible for the new opcode's arity/type
// compatibility with the existing argument list.
func (i *Inst) ReplaceOpcode(op Opcode) {
	i.Opcode = op
}

// ownResultType returns i's own declared result type, special-casing Phi
// whose true type lives in the flag word (spec §4.1 "Phi representation").
// It does not resolve Identity chains; callers needing the eventual type
// of a possibly-rewritten value should go through Value.Type instead.
func (i *Inst) ownResultType() Type {
	if i.Opcode == OpPhi {
		return Flags[Type](i)
	}
	return i.Opcode.ResultType()
}

// GetAssociatedPseudoOperation returns the instruction that consumes i's
// kind-k pseudo flag, or nil if none exists. Pseudo associations are keyed
// against i's own pointer identity at Use time and are unaffected by i
// later becoming an Identity (spec §3).
func (i *Inst) GetAssociatedPseudoOperation(kind PseudoKind) *Inst {
	return i.pseudo[kind]
}

// Block returns the block that owns i.
func (i *Inst) Block() *Block { return i.block }

func bitcastTo[T any](word uint32) T {
	var t T
	if sz := unsafe.Sizeof(t); sz > 4 {
		fail(fault.LogicError, "flags/definition payload too large: %d bytes", sz)
	}
	var buf [4]byte
	buf[0] = byte(word)
	buf[1] = byte(word >> 8)
	buf[2] = byte(word >> 16)
	buf[3] = byte(word >> 24)
	return *(*T)(unsafe.Pointer(&buf[0]))
}

func bitcastFrom[T any](v T) uint32 {
	if sz := unsafe.Sizeof(v); sz > 4 {
		fail(fault.LogicError, "flags/definition payload too large: %d bytes", sz)
	}
	var buf [4]byte
	*(*T)(unsafe.Pointer(&buf[0])) = v
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}

// Flags reinterprets i's opcode-specific 32-bit flags word as T. T must be
// at most 4 bytes (spec §9 "Associated flags payload").
func Flags[T any](i *Inst) T { return bitcastTo[T](i.flags) }

// SetFlags bit-casts v into i's flags word.
func SetFlags[T any](i *Inst, v T) { i.flags = bitcastFrom(v) }

// Definition reinterprets i's back-end-private 32-bit definition slot as T
// (spec §3: "holds the allocated register or SPIR-V id").
func Definition[T any](i *Inst) T { return bitcastTo[T](i.definition) }

// SetDefinition bit-casts v into i's definition slot.
func SetDefinition[T any](i *Inst, v T) { i.definition = bitcastFrom(v) }

func (i *Inst) String() string {
	return fmt.Sprintf("%s", i.Opcode)
}
