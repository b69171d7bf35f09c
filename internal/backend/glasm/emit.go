package glasm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shadercore/recompiler/core/fault"
	"github.com/shadercore/recompiler/internal/ir"
)

// emitter walks an optimized program's blocks in order and appends one
// GLASM text line per instruction, using allocatorState to name each
// instruction's register the first time it is referenced as a destination.
type emitter struct {
	out   strings.Builder
	alloc *allocatorState
}

// Emit renders prog as NV_gpu_program5-style GLASM text (spec §4.6). It
// assumes prog has already been through SSA construction and the
// optimizer passes; Emit does not itself run DCE or constant folding.
//
// Failures raise via fail() and propagate as panics (spec §7): Emit has no
// recover of its own, matching every other deep call site in this back-end.
// The outermost catch belongs to shader.Compile.
func Emit(prog *ir.Program) string {
	em := &emitter{alloc: newAllocatorState()}
	em.out.WriteString("!!NVgpup5.0\n")
	em.out.WriteString("OPTION NV_internal;\n")
	for _, b := range prog.Blocks {
		em.emitBlock(b)
	}
	em.out.WriteString("END\n")
	return em.out.String()
}

func isTerminator(op ir.Opcode) bool {
	switch op {
	case ir.OpBranch, ir.OpBranchConditional, ir.OpReturn, ir.OpDiscard:
		return true
	default:
		return false
	}
}

func (em *emitter) emitBlock(b *ir.Block) {
	fmt.Fprintf(&em.out, "BB%d:\n", b.ID)

	insts := b.Instructions()
	var term *ir.Inst
	if n := len(insts); n > 0 && isTerminator(insts[n-1].Opcode) {
		term = insts[n-1]
		insts = insts[:n-1]
	}

	for _, i := range insts {
		if i.Opcode == ir.OpPhi || isAliasOpcode(i.Opcode) {
			// Phis resolve to MOVs on the predecessor edge below; aliases
			// (Identity/BitCast*) share their argument's register and emit
			// no instruction of their own (spec §8 "Aliasing").
			continue
		}
		em.emitInst(i)
	}

	em.emitPhiResolution(b)

	if term != nil {
		em.emitInst(term)
	}
}

// emitPhiResolution copies each live successor phi's value for this edge
// into the phi's own register just before the block's terminator, the
// standard SSA-to-register-machine lowering (spec §4.4's phi semantics
// have no register-machine analogue of their own).
func (em *emitter) emitPhiResolution(b *ir.Block) {
	for _, succ := range b.Succs {
		for i := succ.First(); i != nil && i.Opcode == ir.OpPhi; i = i.Next() {
			if i.UseCount() == 0 {
				continue
			}
			for _, op := range i.PhiOperands() {
				if op.Pred != b {
					continue
				}
				dst := em.alloc.registerOf(i.Value(), false)
				// A Phi's declared result type lives in its flags word
				// (spec §4.1 "Phi representation"), set by Emitter.Phi.
				fmt.Fprintf(&em.out, "\tMOV.%s %s, %s;\n", suffixFor(ir.Flags[ir.Type](i)), dst, em.operand(op.Value))
			}
		}
	}
}

func (em *emitter) emitInst(i *ir.Inst) {
	switch i.Opcode {
	case ir.OpFPAdd32:
		em.emitFPAdd32(i)
		return
	case ir.OpConvertS32F32:
		em.emitConvertS32F32(i)
		return
	case ir.OpBitFieldUExtract:
		em.emitBitFieldUExtract(i)
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
		// Undefined values need no instruction; any register reading one
		// reads whatever the pool slot last held.
		return

	case ir.OpIAdd32, ir.OpIAdd64:
		em.binary(i, "ADD.S")
	case ir.OpISub32:
		em.binary(i, "SUB.S")
	case ir.OpIMul32:
		em.binary(i, "MUL.S")
	case ir.OpINeg32:
		em.unary(i, "MOV.S", "-")
	case ir.OpIAbs32:
		em.unaryAbs(i, "S")
	case ir.OpIMin32:
		em.binary(i, "MIN.S")
	case ir.OpIMax32:
		em.binary(i, "MAX.S")
	case ir.OpUMin32:
		em.binary(i, "MIN.U")
	case ir.OpUMax32:
		em.binary(i, "MAX.U")
	case ir.OpBitwiseAnd32:
		em.binary(i, "AND.U")
	case ir.OpBitwiseOr32:
		em.binary(i, "OR.U")
	case ir.OpBitwiseXor32:
		em.binary(i, "XOR.U")
	case ir.OpBitwiseNot32:
		em.unaryPrefixed(i, "NOT.U")
	case ir.OpShiftLeftLogical32:
		em.binary(i, "SHL.U")
	case ir.OpShiftRightLogical32:
		em.binary(i, "SHR.U")
	case ir.OpShiftRightArithmetic32:
		em.binary(i, "SHR.S")
	case ir.OpBitFieldSExtract:
		em.ternary(i, "BFE.S")
	case ir.OpBitFieldInsert:
		em.quaternary(i, "BFI.U")
	case ir.OpBitCastU32F32, ir.OpBitCastF32U32, ir.OpBitCastU64F64, ir.OpBitCastF64U64:
		// Never reached: isAliasOpcode filters these out in emitBlock.
		fail(fault.LogicError, "glasm: alias opcode %v reached emitInst", i.Opcode)

	case ir.OpFPAdd16x2:
		em.binary(i, "ADD.F16")
	case ir.OpFPAdd64:
		em.binary(i, "ADD.F64")
	case ir.OpFPMul32:
		em.binary(i, "MUL.F")
	case ir.OpFPFma32:
		em.ternary(i, "MAD.F")
	case ir.OpFPMin32:
		em.binary(i, "MIN.F")
	case ir.OpFPMax32:
		em.binary(i, "MAX.F")
	case ir.OpFPNeg32:
		em.unary(i, "MOV.F", "-")
	case ir.OpFPAbs32:
		em.unaryAbs(i, "F")
	case ir.OpFPSaturate32:
		em.unarySat(i)
	case ir.OpFPRoundEven32:
		em.unaryPrefixed(i, "ROUND.F")
	case ir.OpFPOrdEqual32:
		em.ordCompare(i, "SEQ")
	case ir.OpFPOrdNotEqual32:
		em.ordCompare(i, "SNE")
	case ir.OpFPOrdLessThan32:
		em.ordCompare(i, "SLT")
	case ir.OpFPOrdGreaterThan32:
		em.ordCompare(i, "SGT")
	case ir.OpFPUnordLessThan32:
		em.binaryPred(i, "SLT.F")
	case ir.OpFPIsNan32:
		em.unaryPred(i, "SNAN.F")

	case ir.OpConvertU32F32:
		em.unaryPrefixed(i, "CVT.U32.F32")
	case ir.OpConvertF32S32:
		em.unaryPrefixed(i, "CVT.F32.S32")
	case ir.OpConvertF32U32:
		em.unaryPrefixed(i, "CVT.F32.U32")
	case ir.OpConvertF32F16:
		em.unaryPrefixed(i, "CVT.F32.F16")
	case ir.OpConvertF16F32:
		em.unaryPrefixed(i, "CVT.F16.F32")
	case ir.OpConvertF64F32:
		em.unaryPrefixed(i, "CVT.F64.F32")
	case ir.OpConvertF32F64:
		em.unaryPrefixed(i, "CVT.F32.F64")

	case ir.OpLogicalAnd:
		em.binaryPred(i, "AND.U")
	case ir.OpLogicalOr:
		em.binaryPred(i, "OR.U")
	case ir.OpLogicalXor:
		em.binaryPred(i, "XOR.U")
	case ir.OpLogicalNot:
		em.unaryPrefixed(i, "NOT.U")
	case ir.OpSelectU32:
		em.select3(i)
	case ir.OpIEqual:
		em.ordCompare(i, "SEQ")
	case ir.OpINotEqual:
		em.ordCompare(i, "SNE")
	case ir.OpSLessThan:
		em.ordCompare(i, "SLT")
	case ir.OpULessThan:
		em.binaryPred(i, "SLT.U")

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
		em.atomic(i, "ATOMS.ADD.U", em.operand(i.Arg(0)), em.operand(i.Arg(1)))
	case ir.OpStorageAtomicIAdd32:
		em.atomic(i, "ATOM.ADD.U", em.storageAddr(i.Arg(0), i.Arg(1)), em.operand(i.Arg(2)))
	case ir.OpGlobalAtomicIAdd32:
		em.atomic(i, "ATOM.ADD.U", em.operand(i.Arg(0)), em.operand(i.Arg(1)))
	case ir.OpStorageAtomicFPAdd32:
		em.atomic(i, "ATOM.ADD.F", em.storageAddr(i.Arg(0), i.Arg(1)), em.operand(i.Arg(2)))

	case ir.OpBindlessImageSampleImplicitLod, ir.OpBoundImageSampleImplicitLod:
		em.simpleTex(i, "TEX.F")
	case ir.OpImageSampleExplicitLod:
		em.simpleTex(i, "TXL.F")
	case ir.OpImageFetch:
		em.simpleTex(i, "TXF.F")
	case ir.OpImageGather:
		em.simpleTex(i, "TXG.F")
	case ir.OpImageGatherDref:
		em.simpleTex(i, "TXG.F.DREF")
	case ir.OpImageQueryDimensions:
		em.simpleTex(i, "TXQ.U")
	case ir.OpImageQueryLod:
		em.simpleTex(i, "LOD.F")
	case ir.OpImageRead:
		em.simpleTex(i, "LOAD.U")
	case ir.OpImageWrite, ir.OpBindlessImageWrite:
		em.imageStore(i)

	case ir.OpBranch:
		fmt.Fprintf(&em.out, "\tBRA BB%d;\n", singleSucc(i).ID)
	case ir.OpBranchConditional:
		em.branchConditional(i)
	case ir.OpReturn:
		em.out.WriteString("\tRET;\n")
	case ir.OpDiscard:
		em.out.WriteString("\tKIL;\n")
	case ir.OpEndPrimitive:
		em.out.WriteString("\tENDPRIM;\n")
	case ir.OpEmitVertex:
		em.out.WriteString("\tEMIT;\n")

	case ir.OpSubgroupShuffle:
		em.binary(i, "SHFL.U")
	case ir.OpVoteAll:
		em.unaryPred(i, "VOTE.ALL")
	case ir.OpVoteAny:
		em.unaryPred(i, "VOTE.ANY")
	case ir.OpBallot:
		em.unaryPred(i, "VOTE.BALLOT")

	default:
		fail(fault.NotImplemented, "glasm: no emission rule for opcode %v", i.Opcode)
	}
}

func singleSucc(i *ir.Inst) *ir.Block {
	succs := i.Block().Succs
	if len(succs) != 1 {
		fail(fault.LogicError, "glasm: unconditional Branch's block has %d successors, want 1", len(succs))
	}
	return succs[0]
}

func (em *emitter) branchConditional(i *ir.Inst) {
	succs := i.Block().Succs
	if len(succs) != 2 {
		fail(fault.LogicError, "glasm: BranchConditional's block has %d successors, want 2", len(succs))
	}
	fmt.Fprintf(&em.out, "\tMOV.U RC.x, %s;\n\tIF NE.x;\n\t\tBRA BB%d;\n\tELSE;\n\t\tBRA BB%d;\n\tENDIF;\n",
		em.operand(i.Arg(0)), succs[0].ID, succs[1].ID)
}

func suffixFor(t ir.Type) string {
	switch t {
	case ir.TypeF32, ir.TypeF32x2, ir.TypeF32x3, ir.TypeF32x4:
		return "F"
	case ir.TypeF64:
		return "F64"
	case ir.TypeU64:
		return "U64"
	case ir.TypeU1:
		return "U"
	default:
		return "U"
	}
}

func (em *emitter) dest(i *ir.Inst) string {
	return em.alloc.registerOf(i.Value(), i.UseCount() == 0).String()
}

// operand renders v as a GLASM source operand: a literal for immediates,
// a direct slot name for attributes/patches (neither is SSA-renamed,
// spec §4.4), or the register backing its producer otherwise.
func (em *emitter) operand(v ir.Value) string {
	switch {
	case v.IsImmediate():
		return immediateOperand(v)
	case v.IsReg(), v.IsPred():
		fail(fault.LogicError, "glasm: pre-SSA %v value reached emission; SSA rewriter should have eliminated it", v.Type())
		return ""
	case v.Type() == ir.TypeAttribute:
		rv := ir.ResolveIdentity(v)
		return fmt.Sprintf("vertex.attrib[%d]", int(rv.AttributeIndex()))
	case v.Type() == ir.TypePatch:
		rv := ir.ResolveIdentity(v)
		return fmt.Sprintf("patch.attrib[%d]", int(rv.PatchIndex()))
	default:
		return em.alloc.registerOf(v, false).String()
	}
}

func immediateOperand(v ir.Value) string {
	switch v.Type() {
	case ir.TypeF32:
		f, _ := v.ImmF32Value()
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	case ir.TypeU1:
		raw, _ := v.Imm()
		if raw != 0 {
			return "1"
		}
		return "0"
	default:
		raw, _ := v.Imm()
		return strconv.FormatUint(raw, 10)
	}
}

func (em *emitter) binary(i *ir.Inst, mnemonic string) {
	fmt.Fprintf(&em.out, "\t%s %s, %s, %s;\n", mnemonic, em.dest(i), em.operand(i.Arg(0)), em.operand(i.Arg(1)))
}

func (em *emitter) binaryPred(i *ir.Inst, mnemonic string) {
	em.binary(i, mnemonic)
}

func (em *emitter) ternary(i *ir.Inst, mnemonic string) {
	fmt.Fprintf(&em.out, "\t%s %s, %s, %s, %s;\n", mnemonic, em.dest(i), em.operand(i.Arg(0)), em.operand(i.Arg(1)), em.operand(i.Arg(2)))
}

func (em *emitter) quaternary(i *ir.Inst, mnemonic string) {
	fmt.Fprintf(&em.out, "\t%s %s, %s, %s, %s, %s;\n", mnemonic, em.dest(i), em.operand(i.Arg(0)), em.operand(i.Arg(1)), em.operand(i.Arg(2)), em.operand(i.Arg(3)))
}

func (em *emitter) unary(i *ir.Inst, mnemonic, prefix string) {
	fmt.Fprintf(&em.out, "\t%s %s, %s%s;\n", mnemonic, em.dest(i), prefix, em.operand(i.Arg(0)))
}

func (em *emitter) unaryPrefixed(i *ir.Inst, mnemonic string) {
	fmt.Fprintf(&em.out, "\t%s %s, %s;\n", mnemonic, em.dest(i), em.operand(i.Arg(0)))
}

func (em *emitter) unaryPred(i *ir.Inst, mnemonic string) {
	em.unaryPrefixed(i, mnemonic)
}

func (em *emitter) unaryAbs(i *ir.Inst, kind string) {
	fmt.Fprintf(&em.out, "\tMOV.%s %s, |%s|;\n", kind, em.dest(i), em.operand(i.Arg(0)))
}

func (em *emitter) unarySat(i *ir.Inst) {
	fmt.Fprintf(&em.out, "\tMOV.F.SAT %s, %s;\n", em.dest(i), em.operand(i.Arg(0)))
}

// ordCompare emits mnemonic straight, then excludes the NaN-unordered case
// by ANDing with a self-equality test on both operands (spec §8 "ordered
// FP compare must exclude NaN inputs" — x != x is true exactly when x is
// NaN, so ANDing with both operands' self-SEQ rules NaN out of every
// ordered comparison without a dedicated hardware "ordered" flag).
func (em *emitter) ordCompare(i *ir.Inst, mnemonic string) {
	a, b := em.operand(i.Arg(0)), em.operand(i.Arg(1))
	if i.Opcode != ir.OpFPOrdEqual32 && i.Opcode != ir.OpFPOrdNotEqual32 &&
		i.Opcode != ir.OpFPOrdLessThan32 && i.Opcode != ir.OpFPOrdGreaterThan32 {
		fmt.Fprintf(&em.out, "\t%s %s, %s, %s;\n", mnemonic, em.dest(i), a, b)
		return
	}
	dst := em.dest(i)
	fmt.Fprintf(&em.out, "\t%s %s, %s, %s;\n", mnemonic, dst, a, b)
	fmt.Fprintf(&em.out, "\tSEQ RC.x, %s, %s;\n", a, a)
	fmt.Fprintf(&em.out, "\tSEQ RC.y, %s, %s;\n", b, b)
	fmt.Fprintf(&em.out, "\tAND.U RC.x, RC.x, RC.y;\n")
	fmt.Fprintf(&em.out, "\tAND.U %s, %s, RC.x;\n", dst, dst)
}

func (em *emitter) select3(i *ir.Inst) {
	fmt.Fprintf(&em.out, "\tCMP.U %s, %s, %s, %s;\n", em.dest(i), em.operand(i.Arg(0)), em.operand(i.Arg(2)), em.operand(i.Arg(1)))
}

func (em *emitter) globalLoad(i *ir.Inst) {
	fmt.Fprintf(&em.out, "\tLOAD.U %s, global[%s];\n", em.dest(i), em.operand(i.Arg(0)))
}

func (em *emitter) globalStore(i *ir.Inst) {
	fmt.Fprintf(&em.out, "\tSTORE.U global[%s], %s;\n", em.operand(i.Arg(0)), em.operand(i.Arg(1)))
}

func (em *emitter) storageAddr(binding, offset ir.Value) string {
	return fmt.Sprintf("buffer%s[%s]", em.operand(binding), em.operand(offset))
}

func (em *emitter) storageLoad(i *ir.Inst) {
	fmt.Fprintf(&em.out, "\tLOAD.U %s, %s;\n", em.dest(i), em.storageAddr(i.Arg(0), i.Arg(1)))
}

func (em *emitter) storageStore(i *ir.Inst) {
	fmt.Fprintf(&em.out, "\tSTORE.U %s, %s;\n", em.storageAddr(i.Arg(0), i.Arg(1)), em.operand(i.Arg(2)))
}

func (em *emitter) sharedLoad(i *ir.Inst) {
	fmt.Fprintf(&em.out, "\tLOAD.U %s, shared[%s];\n", em.dest(i), em.operand(i.Arg(0)))
}

func (em *emitter) sharedStore(i *ir.Inst) {
	fmt.Fprintf(&em.out, "\tSTORE.U shared[%s], %s;\n", em.operand(i.Arg(0)), em.operand(i.Arg(1)))
}

func (em *emitter) atomic(i *ir.Inst, mnemonic, addr, value string) {
	fmt.Fprintf(&em.out, "\t%s %s, %s, %s;\n", mnemonic, em.dest(i), addr, value)
}

func (em *emitter) simpleTex(i *ir.Inst, mnemonic string) {
	args := make([]string, 0, i.NumArgs())
	for n := 0; n < i.NumArgs(); n++ {
		args = append(args, em.operand(i.Arg(n)))
	}
	fmt.Fprintf(&em.out, "\t%s %s, %s;\n", mnemonic, em.dest(i), strings.Join(args, ", "))
}

func (em *emitter) imageStore(i *ir.Inst) {
	fmt.Fprintf(&em.out, "\tSTORE.U texture[%s][%s], %s;\n", em.operand(i.Arg(0)), em.operand(i.Arg(1)), em.operand(i.Arg(2)))
}
