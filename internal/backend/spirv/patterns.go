package spirv

import (
	"github.com/shadercore/recompiler/internal/decode"
	"github.com/shadercore/recompiler/internal/ir"
)

// emitFPAdd32 is this back-end's realization of mandatory emission pattern
// 1 (spec §8): a contraction-suppressed add must forbid the compiler from
// fusing it into a later multiply. SPIR-V names that exact guarantee
// NoContraction, so unlike glasm's ADD.F.PREC mnemonic switch this is a
// decoration on the OpFAdd result rather than a different opcode.
func (em *emitter) emitFPAdd32(i *ir.Inst) {
	fc := ir.Flags[decode.FpControl](i)
	typeID := em.m.typeID(i.Opcode.ResultType())
	id := em.resultID(i)
	emitInst(&em.m.functions, OpFAdd, typeID, id, em.value(i.Arg(0)), em.value(i.Arg(1)))
	if fc.SuppressContraction {
		emitInst(&em.m.decorations, OpDecorate, id, uint32(DecorationNoContraction))
	}
}

// emitConvertS32F32 is this back-end's realization of mandatory pattern 2.
// Core SPIR-V 1.3 has one float-to-signed-int conversion opcode and no
// per-instruction rounding-mode selector (that needs the
// SPV_KHR_float_controls2 extension this core does not declare), so every
// rounding mode collapses to OpConvertFToS's fixed round-toward-zero
// behavior here; RoundNearestEven/RoundTowardPositive/RoundTowardNegative
// requests are accepted but not distinguished.
func (em *emitter) emitConvertS32F32(i *ir.Inst) {
	em.unary(i, OpConvertFToS)
}

// emitImageSampleImplicitLod is this back-end's realization of mandatory
// pattern 4: a plain implicit-LOD sample through whichever of the
// program's finite, compile-time-known texture descriptors this
// instruction's handle resolves to.
func (em *emitter) emitImageSampleImplicitLod(i *ir.Inst) {
	em.imageSampleLadder(i)
}

// emitGetCbuf lowers a constant-buffer load, guarding against the
// statically-known-out-of-bounds case (spec §4.2, §8 scenario 5) exactly
// as glasm's emitGetCbuf does: guest hardware returns zero for a load
// whose offset is provably beyond the bound, so this skips the storage-
// buffer access entirely and substitutes the zero constant.
func (em *emitter) emitGetCbuf(i *ir.Inst) {
	resultType := i.Opcode.ResultType()
	offset := i.Arg(1)
	if decode.IsStaticallyOOB(offset) {
		if resultType == ir.TypeU32x2 {
			zero := em.m.constU32(0)
			key := typeKey{kind: "czerovec2", a: zero}
			if id, ok := em.m.consts[key]; ok {
				em.ids[i] = id
				return
			}
			id := em.m.ids.id()
			emitInst(&em.m.typesGlobals, OpConstantComposite, em.m.typeID(resultType), id, zero, zero)
			em.m.consts[key] = id
			em.ids[i] = id
			return
		}
		// The resultID cache lets this id simply BE the cached zero
		// constant's id: no load was needed, so no instruction is either.
		em.ids[i] = em.zeroConstant(resultType)
		return
	}
	index, _ := i.Arg(0).Imm()
	addr := em.cbufAddr(uint32(index), offset)
	em.loadFromAddr(i, addr)
}

func (em *emitter) zeroConstant(t ir.Type) uint32 {
	switch t {
	case ir.TypeF32:
		return em.m.constF32(0)
	default:
		return em.m.constU32(0)
	}
}
