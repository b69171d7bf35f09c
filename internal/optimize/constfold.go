package optimize

import "github.com/shadercore/recompiler/internal/ir"

// ConstantFold walks the program once in reverse post-order and replaces
// any pure instruction whose operands are all immediates with the folded
// immediate result (spec §4.5 "constant propagation/folding", first in the
// pass order so later passes see the simplified arithmetic). An opcode this
// pass does not recognize, or one whose operands are not all immediate
// after Identity resolution, is left untouched.
func ConstantFold(prog *ir.Program) {
	for _, b := range prog.PostOrder {
		for i := b.First(); i != nil; i = i.Next() {
			if folded, ok := fold(i); ok {
				i.ReplaceUsesWith(folded)
			}
		}
	}
}

func fold(i *ir.Inst) (ir.Value, bool) {
	switch i.Opcode {
	case ir.OpIAdd32:
		return foldU32(i, func(a, b uint32) uint32 { return a + b })
	case ir.OpISub32:
		return foldU32(i, func(a, b uint32) uint32 { return a - b })
	case ir.OpIMul32:
		return foldU32(i, func(a, b uint32) uint32 { return a * b })
	case ir.OpIMin32:
		return foldU32(i, func(a, b uint32) uint32 {
			if int32(a) < int32(b) {
				return a
			}
			return b
		})
	case ir.OpIMax32:
		return foldU32(i, func(a, b uint32) uint32 {
			if int32(a) > int32(b) {
				return a
			}
			return b
		})
	case ir.OpUMin32:
		return foldU32(i, func(a, b uint32) uint32 {
			if a < b {
				return a
			}
			return b
		})
	case ir.OpUMax32:
		return foldU32(i, func(a, b uint32) uint32 {
			if a > b {
				return a
			}
			return b
		})
	case ir.OpBitwiseAnd32:
		return foldU32(i, func(a, b uint32) uint32 { return a & b })
	case ir.OpBitwiseOr32:
		return foldU32(i, func(a, b uint32) uint32 { return a | b })
	case ir.OpBitwiseXor32:
		return foldU32(i, func(a, b uint32) uint32 { return a ^ b })
	case ir.OpShiftLeftLogical32:
		return foldU32(i, func(a, b uint32) uint32 { return a << (b & 31) })
	case ir.OpShiftRightLogical32:
		return foldU32(i, func(a, b uint32) uint32 { return a >> (b & 31) })
	case ir.OpShiftRightArithmetic32:
		return foldU32(i, func(a, b uint32) uint32 { return uint32(int32(a) >> (b & 31)) })
	case ir.OpINeg32:
		return foldU32Unary(i, func(a uint32) uint32 { return uint32(-int32(a)) })
	case ir.OpIAbs32:
		return foldU32Unary(i, func(a uint32) uint32 {
			v := int32(a)
			if v < 0 {
				v = -v
			}
			return uint32(v)
		})
	case ir.OpBitwiseNot32:
		return foldU32Unary(i, func(a uint32) uint32 { return ^a })
	case ir.OpIEqual:
		return foldCompare32(i, func(a, b uint32) bool { return a == b })
	case ir.OpINotEqual:
		return foldCompare32(i, func(a, b uint32) bool { return a != b })
	case ir.OpSLessThan:
		return foldCompare32(i, func(a, b uint32) bool { return int32(a) < int32(b) })
	case ir.OpULessThan:
		return foldCompare32(i, func(a, b uint32) bool { return a < b })
	case ir.OpLogicalAnd:
		return foldU1(i, func(a, b bool) bool { return a && b })
	case ir.OpLogicalOr:
		return foldU1(i, func(a, b bool) bool { return a || b })
	case ir.OpLogicalXor:
		return foldU1(i, func(a, b bool) bool { return a != b })
	case ir.OpLogicalNot:
		return foldU1Unary(i, func(a bool) bool { return !a })
	case ir.OpFPAdd32:
		return foldF32(i, func(a, b float32) float32 { return a + b })
	case ir.OpFPMul32:
		return foldF32(i, func(a, b float32) float32 { return a * b })
	case ir.OpFPMin32:
		return foldF32(i, func(a, b float32) float32 {
			if a < b {
				return a
			}
			return b
		})
	case ir.OpFPMax32:
		return foldF32(i, func(a, b float32) float32 {
			if a > b {
				return a
			}
			return b
		})
	case ir.OpFPNeg32:
		return foldF32Unary(i, func(a float32) float32 { return -a })
	case ir.OpFPAbs32:
		return foldF32Unary(i, func(a float32) float32 {
			if a < 0 {
				return -a
			}
			return a
		})
	case ir.OpSelectU32:
		cond, ok := ir.ResolveIdentity(i.Arg(0)).Imm()
		if !ok {
			return ir.Value{}, false
		}
		if cond != 0 {
			return i.Arg(1), true
		}
		return i.Arg(2), true
	default:
		return ir.Value{}, false
	}
}

func operandsU32(i *ir.Inst) (a, b uint32, ok bool) {
	av, aok := ir.ResolveIdentity(i.Arg(0)).ImmU32Value()
	bv, bok := ir.ResolveIdentity(i.Arg(1)).ImmU32Value()
	return av, bv, aok && bok
}

func foldU32(i *ir.Inst, f func(a, b uint32) uint32) (ir.Value, bool) {
	a, b, ok := operandsU32(i)
	if !ok {
		return ir.Value{}, false
	}
	return ir.ImmU32(f(a, b)), true
}

func foldU32Unary(i *ir.Inst, f func(a uint32) uint32) (ir.Value, bool) {
	a, ok := ir.ResolveIdentity(i.Arg(0)).ImmU32Value()
	if !ok {
		return ir.Value{}, false
	}
	return ir.ImmU32(f(a)), true
}

func foldCompare32(i *ir.Inst, f func(a, b uint32) bool) (ir.Value, bool) {
	a, b, ok := operandsU32(i)
	if !ok {
		return ir.Value{}, false
	}
	return ir.ImmU1(f(a, b)), true
}

func foldU1(i *ir.Inst, f func(a, b bool) bool) (ir.Value, bool) {
	araw, aok := ir.ResolveIdentity(i.Arg(0)).Imm()
	braw, bok := ir.ResolveIdentity(i.Arg(1)).Imm()
	if !aok || !bok {
		return ir.Value{}, false
	}
	return ir.ImmU1(f(araw != 0, braw != 0)), true
}

func foldU1Unary(i *ir.Inst, f func(a bool) bool) (ir.Value, bool) {
	araw, ok := ir.ResolveIdentity(i.Arg(0)).Imm()
	if !ok {
		return ir.Value{}, false
	}
	return ir.ImmU1(f(araw != 0)), true
}

func foldF32(i *ir.Inst, f func(a, b float32) float32) (ir.Value, bool) {
	a, aok := ir.ResolveIdentity(i.Arg(0)).ImmF32Value()
	b, bok := ir.ResolveIdentity(i.Arg(1)).ImmF32Value()
	if !aok || !bok {
		return ir.Value{}, false
	}
	return ir.ImmF32(f(a, b)), true
}

func foldF32Unary(i *ir.Inst, f func(a float32) float32) (ir.Value, bool) {
	a, ok := ir.ResolveIdentity(i.Arg(0)).ImmF32Value()
	if !ok {
		return ir.Value{}, false
	}
	return ir.ImmF32(f(a)), true
}
