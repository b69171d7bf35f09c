package glasm

import (
	"fmt"

	"github.com/shadercore/recompiler/internal/decode"
	"github.com/shadercore/recompiler/internal/ir"
)

// emitFPAdd32 is one of the four mandatory emission patterns (spec §8):
// a contraction-suppressed add always carries .PREC so the hardware
// scheduler may not fuse it into a later multiply (FMA contraction would
// silently change rounding, which SuppressContraction exists to forbid).
func (em *emitter) emitFPAdd32(i *ir.Inst) {
	fc := ir.Flags[decode.FpControl](i)
	mnemonic := "ADD.F"
	if fc.SuppressContraction {
		mnemonic = "ADD.F.PREC"
	}
	if fc.FlushDenormToZero {
		mnemonic += ".FTZ"
	}
	fmt.Fprintf(&em.out, "\t%s %s, %s, %s;\n", mnemonic, em.dest(i), em.operand(i.Arg(0)), em.operand(i.Arg(1)))
}

// roundingSuffix maps a guest FpControl rounding mode onto CVT's rounding
// suffix (spec §8). Round-to-nearest-even needs no suffix: it is CVT's
// default behavior absent one.
var roundingSuffix = map[decode.RoundingMode]string{
	decode.RoundNearestEven:    "",
	decode.RoundTowardZero:     ".TRUNC",
	decode.RoundTowardPositive: ".CEIL",
	decode.RoundTowardNegative: ".FLR",
}

// emitConvertS32F32 is the second mandatory pattern (spec §8): float-to-
// signed-int conversion with an explicit rounding mode.
func (em *emitter) emitConvertS32F32(i *ir.Inst) {
	fc := ir.Flags[decode.FpControl](i)
	fmt.Fprintf(&em.out, "\tCVT.S32.F32%s %s.x,%s;\n", roundingSuffix[fc.Round], em.dest(i), em.operand(i.Arg(0)))
}

// emitBitFieldUExtract is the third mandatory pattern (spec §8): an
// unsigned bitfield extract with an immediate {cnt, off, 0, 0} vector
// operand ahead of base, matching NV_gpu_program5's BFE encoding.
func (em *emitter) emitBitFieldUExtract(i *ir.Inst) {
	fmt.Fprintf(&em.out, "\tBFE.U %s,{%s,%s,0,0},%s;\n",
		em.dest(i), em.operand(i.Arg(2)), em.operand(i.Arg(1)), em.operand(i.Arg(0)))
}

// emitImageSampleImplicitLod is the fourth mandatory pattern (spec §8): a
// plain implicit-LOD texture sample. LOD-clamp and cube-array addressing
// are guest-side modifiers this demonstration back-end does not thread
// through the flags word; a complete port would fold them into TEX.F's
// optional clamp/array operands here.
func (em *emitter) emitImageSampleImplicitLod(i *ir.Inst) {
	fmt.Fprintf(&em.out, "\tTEX.F %s, %s, texture[%s], 2D;\n",
		em.dest(i), em.operand(i.Arg(2)), em.operand(i.Arg(0)))
}

// emitGetCbuf lowers a constant-buffer load, guarding against the
// statically-known-out-of-bounds case (spec §4.2, §8 scenario 5): guest
// hardware returns zero for an LDC whose offset is provably beyond the
// bound, so rather than emit a load that would read undefined backing
// store, this skips LDC entirely and moves the zero constant in directly.
func (em *emitter) emitGetCbuf(i *ir.Inst) {
	offset := i.Arg(1)
	if decode.IsStaticallyOOB(offset) {
		fmt.Fprintf(&em.out, "\tMOV.S %s, 0;\n", em.dest(i))
		return
	}
	fmt.Fprintf(&em.out, "\tLDC.%s %s, c[%s][%s];\n",
		suffixFor(i.Opcode.ResultType()), em.dest(i), em.operand(i.Arg(0)), em.operand(offset))
}
