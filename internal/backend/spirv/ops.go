package spirv

import (
	"github.com/shadercore/recompiler/core/fault"
	"github.com/shadercore/recompiler/internal/decode"
	"github.com/shadercore/recompiler/internal/ir"
)

// emitInst dispatches one non-Phi, non-Identity instruction, mirroring
// glasm's two-stage switch (spec §8's four mandatory patterns first, then
// the broad opcode table) but emitting SPIR-V words instead of text.
func (em *emitter) emitInst(i *ir.Inst) {
	switch i.Opcode {
	case ir.OpFPAdd32:
		em.emitFPAdd32(i)
		return
	case ir.OpConvertS32F32:
		em.emitConvertS32F32(i)
		return
	case ir.OpBitFieldUExtract:
		em.binaryOp3(i, OpBitFieldUExtract)
		return
	case ir.OpImageSampleImplicitLod:
		em.emitImageSampleImplicitLod(i)
		return
	case ir.OpGetCbufU8, ir.OpGetCbufS8, ir.OpGetCbufU16, ir.OpGetCbufS16, ir.OpGetCbufU32, ir.OpGetCbufF32, ir.OpGetCbufU32x2:
		em.emitGetCbuf(i)
		return
	}

	switch i.Opcode {
	case ir.OpUndefU1, ir.OpUndefU8, ir.OpUndefU16, ir.OpUndefU32, ir.OpUndefU64,
		ir.OpUndefF16, ir.OpUndefF32, ir.OpUndefF64:
		emitInst(&em.m.functions, OpUndef, em.m.typeID(i.Opcode.ResultType()), em.resultID(i))

	case ir.OpIAdd32, ir.OpIAdd64:
		em.binary(i, OpIAdd)
	case ir.OpISub32:
		em.binary(i, OpISub)
	case ir.OpIMul32:
		em.binary(i, OpIMul)
	case ir.OpINeg32:
		em.unary(i, OpSNegate)
	case ir.OpIAbs32:
		em.extInst(i, GLSLstd450SAbs, i.Arg(0))
	case ir.OpIMin32:
		em.extInst(i, GLSLstd450SMin, i.Arg(0), i.Arg(1))
	case ir.OpIMax32:
		em.extInst(i, GLSLstd450SMax, i.Arg(0), i.Arg(1))
	case ir.OpUMin32:
		em.extInst(i, GLSLstd450UMin, i.Arg(0), i.Arg(1))
	case ir.OpUMax32:
		em.extInst(i, GLSLstd450UMax, i.Arg(0), i.Arg(1))
	case ir.OpBitwiseAnd32:
		em.binary(i, OpBitwiseAnd)
	case ir.OpBitwiseOr32:
		em.binary(i, OpBitwiseOr)
	case ir.OpBitwiseXor32:
		em.binary(i, OpBitwiseXor)
	case ir.OpBitwiseNot32:
		em.unary(i, OpNot)
	case ir.OpShiftLeftLogical32:
		em.binary(i, OpShiftLeftLogical)
	case ir.OpShiftRightLogical32:
		em.binary(i, OpShiftRightLogical)
	case ir.OpShiftRightArithmetic32:
		em.binary(i, OpShiftRightArithmetic)
	case ir.OpBitFieldSExtract:
		em.binaryOp3(i, OpBitFieldSExtract)
	case ir.OpBitFieldInsert:
		em.binaryOp4(i, OpBitFieldInsert)
	case ir.OpBitCastU32F32, ir.OpBitCastF32U32, ir.OpBitCastU64F64, ir.OpBitCastF64U64:
		em.unary(i, OpBitcast)

	case ir.OpFPAdd16x2:
		em.binary(i, OpFAdd)
	case ir.OpFPAdd64:
		em.binary(i, OpFAdd)
	case ir.OpFPMul32:
		em.binary(i, OpFMul)
	case ir.OpFPFma32:
		em.extInst(i, GLSLstd450Fma, i.Arg(0), i.Arg(1), i.Arg(2))
	case ir.OpFPMin32:
		em.extInst(i, GLSLstd450FMin, i.Arg(0), i.Arg(1))
	case ir.OpFPMax32:
		em.extInst(i, GLSLstd450FMax, i.Arg(0), i.Arg(1))
	case ir.OpFPNeg32:
		em.unary(i, OpFNegate)
	case ir.OpFPAbs32:
		em.extInst(i, GLSLstd450FAbs, i.Arg(0))
	case ir.OpFPSaturate32:
		em.extInst(i, GLSLstd450FClamp, i.Arg(0), ir.ImmF32(0), ir.ImmF32(1))
	case ir.OpFPRoundEven32:
		em.extInst(i, GLSLstd450Round, i.Arg(0))
	case ir.OpFPOrdEqual32:
		em.binary(i, OpFOrdEqual)
	case ir.OpFPOrdNotEqual32:
		em.binary(i, OpFOrdNotEqual)
	case ir.OpFPOrdLessThan32:
		em.binary(i, OpFOrdLessThan)
	case ir.OpFPOrdGreaterThan32:
		em.binary(i, OpFOrdGreaterThan)
	case ir.OpFPUnordLessThan32:
		em.binary(i, OpFUnordLessThan)
	case ir.OpFPIsNan32:
		em.unaryIsNan(i)

	case ir.OpConvertU32F32:
		em.unary(i, OpConvertFToU)
	case ir.OpConvertF32S32:
		em.unary(i, OpConvertSToF)
	case ir.OpConvertF32U32:
		em.unary(i, OpConvertUToF)
	case ir.OpConvertF32F16, ir.OpConvertF16F32, ir.OpConvertF64F32, ir.OpConvertF32F64:
		// Same-category (float-to-float) width changes are all OpFConvert.
		em.unary(i, OpFConvert)

	case ir.OpLogicalAnd:
		em.binary(i, OpLogicalAnd)
	case ir.OpLogicalOr:
		em.binary(i, OpLogicalOr)
	case ir.OpLogicalXor:
		em.binary(i, OpLogicalNotEqual)
	case ir.OpLogicalNot:
		em.unary(i, OpLogicalNot)
	case ir.OpSelectU32:
		em.selectOp(i)
	case ir.OpIEqual:
		em.binary(i, OpIEqual)
	case ir.OpINotEqual:
		em.binary(i, OpINotEqual)
	case ir.OpSLessThan:
		em.binary(i, OpSLessThan)
	case ir.OpULessThan:
		em.binary(i, OpULessThan)

	case ir.OpLoadGlobalU8, ir.OpLoadGlobalU16, ir.OpLoadGlobal32, ir.OpLoadGlobal64:
		em.globalLoad(i)
	case ir.OpWriteGlobalU8, ir.OpWriteGlobalU16, ir.OpWriteGlobal32, ir.OpWriteGlobal64:
		em.globalStore(i)

	case ir.OpLoadStorageU8, ir.OpLoadStorageU16, ir.OpLoadStorage32, ir.OpLoadStorage64:
		em.storageLoad(i)
	case ir.OpWriteStorageU8, ir.OpWriteStorageU16, ir.OpWriteStorage32, ir.OpWriteStorage64:
		em.storageStore(i)

	case ir.OpLoadSharedU32, ir.OpLoadSharedU64:
		em.sharedLoad(i)
	case ir.OpWriteSharedU32, ir.OpWriteSharedU64:
		em.sharedStore(i)

	case ir.OpSharedAtomicIAdd32:
		em.atomicIAdd(i, em.sharedAddr(i.Arg(0)), ScopeWorkgroup)
	case ir.OpStorageAtomicIAdd32:
		em.atomicIAdd(i, em.storageAddr(i.Arg(0), i.Arg(1)), ScopeDevice)
	case ir.OpGlobalAtomicIAdd32:
		em.atomicIAdd(i, em.globalAddr(i.Arg(0)), ScopeDevice)
	case ir.OpStorageAtomicFPAdd32:
		em.atomicFAddCAS(i, em.storageAddr(i.Arg(0), i.Arg(1)))

	case ir.OpBindlessImageSampleImplicitLod, ir.OpBoundImageSampleImplicitLod:
		em.imageSampleLadder(i)
	case ir.OpImageSampleExplicitLod:
		em.imageSampleLadder(i)
	case ir.OpImageFetch, ir.OpImageGather, ir.OpImageGatherDref, ir.OpImageQueryDimensions, ir.OpImageQueryLod, ir.OpImageRead:
		em.imageSampleLadder(i)
	case ir.OpImageWrite, ir.OpBindlessImageWrite:
		em.imageStore(i)

	case ir.OpBranch:
		emitInst(&em.m.functions, OpBranch, em.labels[singleSucc(i)])
	case ir.OpBranchConditional:
		em.branchConditional(i)
	case ir.OpReturn:
		emitInst(&em.m.functions, OpReturn)
	case ir.OpDiscard:
		emitInst(&em.m.functions, OpKill)
	case ir.OpEndPrimitive, ir.OpEmitVertex:
		// Geometry-stage primitive emission has no analogue in this core's
		// SPIR-V back-end scope (spec Non-goals exclude the rasterizer
		// pipeline the GS feeds); treated as a no-op.

	case ir.OpSubgroupShuffle, ir.OpVoteAll, ir.OpVoteAny, ir.OpBallot:
		fail(fault.NotImplemented, "spirv: subgroup opcode %v not lowered by this back-end", i.Opcode)

	default:
		fail(fault.NotImplemented, "spirv: no emission rule for opcode %v", i.Opcode)
	}
}

func singleSucc(i *ir.Inst) *ir.Block {
	succs := i.Block().Succs
	if len(succs) != 1 {
		fail(fault.LogicError, "spirv: unconditional Branch's block has %d successors, want 1", len(succs))
	}
	return succs[0]
}

// branchConditional treats the false-successor block as the structured
// merge block SPIR-V's validator requires OpSelectionMerge to name. That
// holds for a simple if-without-else (the common shape the optimizer's
// block layout produces), but is not true in general — an if/else whose
// two arms reconverge at a third block would need that third block named
// instead, which this back-end does not currently detect (it would need a
// dominance-based reconvergence search over prog.PostOrder that the rest
// of this emitter does not otherwise perform). Treated here as a known
// scope limitation rather than a general structured-CFG reconstruction.
func (em *emitter) branchConditional(i *ir.Inst) {
	succs := i.Block().Succs
	if len(succs) != 2 {
		fail(fault.LogicError, "spirv: BranchConditional's block has %d successors, want 2", len(succs))
	}
	cond := em.value(i.Arg(0))
	emitInst(&em.m.functions, OpSelectionMerge, em.labels[succs[1]], 0)
	emitInst(&em.m.functions, OpBranchConditional, cond, em.labels[succs[0]], em.labels[succs[1]])
}

func (em *emitter) binary(i *ir.Inst, op OpCode) {
	typeID := em.m.typeID(i.Opcode.ResultType())
	emitInst(&em.m.functions, op, typeID, em.resultID(i), em.value(i.Arg(0)), em.value(i.Arg(1)))
}

func (em *emitter) unary(i *ir.Inst, op OpCode) {
	typeID := em.m.typeID(i.Opcode.ResultType())
	emitInst(&em.m.functions, op, typeID, em.resultID(i), em.value(i.Arg(0)))
}

func (em *emitter) binaryOp3(i *ir.Inst, op OpCode) {
	typeID := em.m.typeID(i.Opcode.ResultType())
	emitInst(&em.m.functions, op, typeID, em.resultID(i), em.value(i.Arg(0)), em.value(i.Arg(1)), em.value(i.Arg(2)))
}

func (em *emitter) binaryOp4(i *ir.Inst, op OpCode) {
	typeID := em.m.typeID(i.Opcode.ResultType())
	emitInst(&em.m.functions, op, typeID, em.resultID(i),
		em.value(i.Arg(0)), em.value(i.Arg(1)), em.value(i.Arg(2)), em.value(i.Arg(3)))
}

func (em *emitter) unaryIsNan(i *ir.Inst) {
	a := em.value(i.Arg(0))
	typeID := em.m.typeID(ir.TypeU1)
	emitInst(&em.m.functions, OpFUnordNotEqual, typeID, em.resultID(i), a, a)
}

func (em *emitter) selectOp(i *ir.Inst) {
	typeID := em.m.typeID(i.Opcode.ResultType())
	emitInst(&em.m.functions, OpSelect, typeID, em.resultID(i),
		em.value(i.Arg(0)), em.value(i.Arg(1)), em.value(i.Arg(2)))
}

func (em *emitter) extInst(i *ir.Inst, instruction uint32, args ...ir.Value) {
	typeID := em.m.typeID(i.Opcode.ResultType())
	operands := []uint32{typeID, em.resultID(i), em.m.glslExtSetID, instruction}
	for _, a := range args {
		operands = append(operands, em.value(a))
	}
	emitInst(&em.m.functions, OpExtInst, operands...)
}
