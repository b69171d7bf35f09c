package ir

import "math"

// Reg is a guest general-purpose register index. RZ is the hard-wired
// always-zero register; writes to it are silently dropped (spec §4.4).
type Reg uint8

// RZ is the always-zero guest register R255 (guest registers are R0..R254).
const RZ Reg = 255

// Pred is a guest predicate register index. PT is the hard-wired
// always-true predicate; writes to it are silently dropped.
type Pred uint8

// PT is the always-true guest predicate P7 (guest predicates are P0..P6).
const PT Pred = 7

// Attribute enumerates guest vertex/fragment attribute slots. Sized to fit
// a flags-word bit-cast (ir.Flags/ir.SetFlags require sizeof(T) <= 4).
type Attribute int32

// Patch enumerates guest tessellation patch slots. Same sizing constraint
// as Attribute.
type Patch int32

type valueKind uint8

const (
	valueImmediate valueKind = iota
	valueReg
	valuePred
	valueAttribute
	valuePatch
	valueInstr
)

// Value is a tagged union over: an immediate of any scalar type, a guest
// register reference, a guest predicate reference, an attribute or patch
// enumerator, or a pointer to the instruction that produces it. Values are
// trivially copyable.
type Value struct {
	kind  valueKind
	typ   Type
	imm   uint64
	reg   Reg
	pred  Pred
	attr  Attribute
	patch Patch
	instr *Inst
}

// IsImmediate reports whether v is an immediate constant.
func (v Value) IsImmediate() bool { return v.kind == valueImmediate }

// IsReg reports whether v is a guest register reference.
func (v Value) IsReg() bool { return v.kind == valueReg }

// IsPred reports whether v is a guest predicate reference.
func (v Value) IsPred() bool { return v.kind == valuePred }

// IsInstr reports whether v refers to a producing instruction.
func (v Value) IsInstr() bool { return v.kind == valueInstr }

// RegIndex returns the referenced register; only valid when IsReg().
func (v Value) RegIndex() Reg { return v.reg }

// PredIndex returns the referenced predicate; only valid when IsPred().
func (v Value) PredIndex() Pred { return v.pred }

// AttributeIndex returns the referenced attribute; only valid for attribute values.
func (v Value) AttributeIndex() Attribute { return v.attr }

// PatchIndex returns the referenced patch; only valid for patch values.
func (v Value) PatchIndex() Patch { return v.patch }

// resolve descends through Identity producers until it finds a value that
// is either a non-Identity instruction or not instruction-valued at all
// (spec §4.1 "Identity resolution" operates on Values, since Identity's
// single argument may itself be an immediate/register/predicate rather
// than another instruction).
func (v Value) resolve() Value {
	for v.kind == valueInstr && v.instr.Opcode == OpIdentity {
		v = v.instr.args[0]
	}
	return v
}

// Type returns v's type, resolving through Identity producer chains so that
// a rewritten (ReplaceUsesWith'd) instruction reports the type of its
// eventual value rather than Identity's own Opaque declaration.
func (v Value) Type() Type {
	r := v.resolve()
	if r.kind == valueInstr {
		return r.instr.ownResultType()
	}
	return r.typ
}

// ResolveIdentity returns v with any Identity producer chain resolved away.
// Most callers never need this: Type/Producer/Imm already resolve
// internally. It exists for passes outside this package that want to
// physically shorten an argument to bypass an Identity chain rather than
// rely on read-time resolution (spec §4.5 "identity removal").
func ResolveIdentity(v Value) Value { return v.resolve() }

// Producer returns the instruction that produces v after resolving any
// Identity chain, or nil if v resolves to something other than an
// instruction (an immediate, register, predicate, attribute or patch).
func (v Value) Producer() *Inst {
	r := v.resolve()
	if r.kind != valueInstr {
		return nil
	}
	return r.instr
}

// rawInstr returns the instruction v directly names, without resolving
// Identity. Used internally for use-count bookkeeping, where the pointer
// identity of the argument slot (not its eventual value) is what matters.
func (v Value) rawInstr() *Inst {
	if v.kind != valueInstr {
		return nil
	}
	return v.instr
}

// Equal reports structural equality: immediates compare by payload and
// type, instruction-valued values compare by pointer identity (without
// Identity resolution — two arguments naming the same Identity node are
// equal even before it resolves to anything).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case valueImmediate:
		return v.typ == o.typ && v.imm == o.imm
	case valueReg:
		return v.reg == o.reg
	case valuePred:
		return v.pred == o.pred
	case valueAttribute:
		return v.attr == o.attr
	case valuePatch:
		return v.patch == o.patch
	case valueInstr:
		return v.instr == o.instr
	default:
		return false
	}
}

// ImmU1 constructs a 1-bit immediate.
func ImmU1(b bool) Value {
	var i uint64
	if b {
		i = 1
	}
	return Value{kind: valueImmediate, typ: TypeU1, imm: i}
}

// ImmU8 constructs an 8-bit immediate.
func ImmU8(v uint8) Value { return Value{kind: valueImmediate, typ: TypeU8, imm: uint64(v)} }

// ImmU16 constructs a 16-bit immediate.
func ImmU16(v uint16) Value { return Value{kind: valueImmediate, typ: TypeU16, imm: uint64(v)} }

// ImmU32 constructs a 32-bit immediate.
func ImmU32(v uint32) Value { return Value{kind: valueImmediate, typ: TypeU32, imm: uint64(v)} }

// ImmU64 constructs a 64-bit immediate.
func ImmU64(v uint64) Value { return Value{kind: valueImmediate, typ: TypeU64, imm: v} }

// ImmF16 constructs a 16-bit-float immediate, stored as its raw bit pattern.
func ImmF16(bits uint16) Value { return Value{kind: valueImmediate, typ: TypeF16, imm: uint64(bits)} }

// ImmF32 constructs a 32-bit-float immediate.
func ImmF32(v float32) Value {
	return Value{kind: valueImmediate, typ: TypeF32, imm: uint64(math.Float32bits(v))}
}

// ImmF64 constructs a 64-bit-float immediate.
func ImmF64(v float64) Value {
	return Value{kind: valueImmediate, typ: TypeF64, imm: math.Float64bits(v)}
}

// Imm returns v's raw payload as a uint64, regardless of scalar type. For
// instruction-valued v that are not immediates after Identity resolution,
// ok is false.
func (v Value) Imm() (raw uint64, ok bool) {
	r := v.resolve()
	if r.kind == valueImmediate {
		return r.imm, true
	}
	return 0, false
}

// ImmF32Value returns v's value reinterpreted as a float32; ok is false if v
// is not an immediate.
func (v Value) ImmF32Value() (float32, bool) {
	raw, ok := v.Imm()
	if !ok {
		return 0, false
	}
	return math.Float32frombits(uint32(raw)), true
}

// ImmU32Value returns v's value reinterpreted as a uint32; ok is false if v
// is not an immediate.
func (v Value) ImmU32Value() (uint32, bool) {
	raw, ok := v.Imm()
	if !ok {
		return 0, false
	}
	return uint32(raw), true
}

// RegValue constructs a reference to guest register r.
func RegValue(r Reg) Value { return Value{kind: valueReg, typ: TypeReg, reg: r} }

// PredValue constructs a reference to guest predicate p.
func PredValue(p Pred) Value { return Value{kind: valuePred, typ: TypePred, pred: p} }

// AttributeValue constructs a reference to attribute a.
func AttributeValue(a Attribute) Value { return Value{kind: valueAttribute, typ: TypeAttribute, attr: a} }

// PatchValue constructs a reference to patch p.
func PatchValue(p Patch) Value { return Value{kind: valuePatch, typ: TypePatch, patch: p} }

// instrValue constructs a reference to the instruction i, with i's declared
// result type. Only called by Inst construction/rewrite helpers so that
// every instruction-valued Value in the program points at a live Inst.
func instrValue(i *Inst) Value {
	return Value{kind: valueInstr, typ: i.Opcode.ResultType(), instr: i}
}
