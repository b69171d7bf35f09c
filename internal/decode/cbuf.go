package decode

import (
	"github.com/shadercore/recompiler/core/fault"
	"github.com/shadercore/recompiler/internal/ir"
)

// CbufSize is the LDC size field (spec §4.2 "Memory opcodes").
type CbufSize int

const (
	CbufU8 CbufSize = iota
	CbufS8
	CbufU16
	CbufS16
	CbufB32
	CbufB64
)

// AddressMode selects how LDC's operand is assembled (spec §4.2 "Address
// arithmetic respects the guest 'modes'"). Default is imm_index + reg + imm;
// this module implements Default, the only mode exercised by the spec's
// testable scenarios, and raises NotImplemented for anything else rather
// than guess at undocumented offset arithmetic.
type AddressMode int

const (
	AddressDefault AddressMode = iota
)

// cbufOOBThreshold is the offset at or above which guest hardware
// deterministically returns zero instead of issuing the load (spec §4.2,
// §8 scenario 5). The zero-return itself is realized by the GLASM and
// SPIR-V back-ends (through IsStaticallyOOB); the decoder always emits the
// GetCbuf* op unconditionally.
const cbufOOBThreshold = 0x10000

// CbufAddress is LDC's assembled source address, in Default mode
// imm_index + reg + imm (spec §4.2).
type CbufAddress struct {
	Mode     AddressMode
	ImmIndex int
	Reg      ir.Value // TypeU32, the register operand; may be a zero Value if absent
	Imm      int
}

// Resolve assembles addr's address expression into an IR value, applying
// Default-mode arithmetic, and returns that byte-offset value. When addr.Reg
// is absent (the zero Value) the offset is the immediate ImmIndex + Imm and
// no IAdd32 is emitted.
func (addr CbufAddress) Resolve(e *ir.Emitter) (offset ir.Value, err error) {
	if addr.Mode != AddressDefault {
		return ir.Value{}, fault.Newf(fault.NotImplemented, "cbuf address mode %d", int(addr.Mode))
	}
	off := ir.ImmU32(uint32(addr.ImmIndex + addr.Imm))
	if (addr.Reg.IsImmediate() || addr.Reg.IsInstr()) && !addr.Reg.Equal(ir.Value{}) {
		off = e.Inst(ir.OpIAdd32, off, addr.Reg)
	}
	return off, nil
}

// LoadCbuf dispatches LDC's size field to the corresponding GetCbuf*
// emission (spec §4.2). binding is the constant-buffer index; offset is the
// already-resolved byte offset (see CbufAddress.Resolve).
func LoadCbuf(e *ir.Emitter, binding int, offset ir.Value, size CbufSize) (ir.Value, error) {
	b := ir.ImmU32(uint32(binding))
	switch size {
	case CbufU8:
		return e.Inst(ir.OpGetCbufU8, b, offset), nil
	case CbufS8:
		return e.Inst(ir.OpGetCbufS8, b, offset), nil
	case CbufU16:
		return e.Inst(ir.OpGetCbufU16, b, offset), nil
	case CbufS16:
		return e.Inst(ir.OpGetCbufS16, b, offset), nil
	case CbufB32:
		return e.Inst(ir.OpGetCbufU32, b, offset), nil
	case CbufB64:
		vec := e.Inst(ir.OpGetCbufU32x2, b, offset)
		return e.Inst(ir.OpPackUint2x32, vec), nil
	default:
		return ir.Value{}, fault.Newf(fault.InvalidArgument, "unknown cbuf size %d", int(size))
	}
}

// IsStaticallyOOB reports whether offset is a compile-time-known immediate
// at or beyond the out-of-bounds threshold (spec §8 scenario 5). Back-ends
// use this to decide between emitting the real load and a guarded zero.
func IsStaticallyOOB(offset ir.Value) bool {
	raw, ok := offset.Imm()
	if !ok {
		return false
	}
	return raw >= cbufOOBThreshold
}
