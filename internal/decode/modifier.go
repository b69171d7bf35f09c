package decode

import "github.com/shadercore/recompiler/internal/ir"

// AbsNeg applies the guest instruction's absolute-value and/or negation
// source modifiers to v (spec §4.2 "applies per-opcode modifiers ... using
// generic AbsNeg/Saturate helpers"). abs is applied before neg, matching
// guest hardware's documented modifier order.
func AbsNeg(e *ir.Emitter, v ir.Value, abs, neg bool, float bool) ir.Value {
	if abs {
		if float {
			v = e.Inst(ir.OpFPAbs32, v)
		} else {
			v = e.Inst(ir.OpIAbs32, v)
		}
	}
	if neg {
		if float {
			v = e.Inst(ir.OpFPNeg32, v)
		} else {
			v = e.Inst(ir.OpINeg32, v)
		}
	}
	return v
}

// Saturate clamps a floating-point result to [0, 1] when the guest
// instruction's .SAT modifier is set.
func Saturate(e *ir.Emitter, v ir.Value, sat bool) ir.Value {
	if !sat {
		return v
	}
	return e.Inst(ir.OpFPSaturate32, v)
}
