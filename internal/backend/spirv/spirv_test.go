package spirv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shadercore/recompiler/internal/decode"
	"github.com/shadercore/recompiler/internal/ir"
)

func singleBlockProgram() (*ir.Program, *ir.Emitter, *ir.Block) {
	prog := ir.NewProgram(ir.StageFragment)
	b := prog.AddBlock()
	e := ir.NewEmitter(b)
	return prog, e, b
}

// decodedInst is one instruction recovered from a flat SPIR-V word stream,
// used by the assertions below instead of matching against mnemonics the
// way the text-based glasm tests do.
type decodedInst struct {
	op       OpCode
	operands []uint32
}

// decodeInsts walks words (skipping the five-word module header) and
// returns every instruction in declaration order, using each instruction's
// self-described word count the same way Assemble's consumer would.
func decodeInsts(t *testing.T, words []uint32) []decodedInst {
	t.Helper()
	require.GreaterOrEqual(t, len(words), 5)
	var out []decodedInst
	for i := 5; i < len(words); {
		header := words[i]
		length := header >> 16
		require.Greater(t, length, uint32(0), "zero-length instruction at word %d", i)
		op := OpCode(header & 0xffff)
		operands := append([]uint32{}, words[i+1:i+int(length)]...)
		out = append(out, decodedInst{op: op, operands: operands})
		i += int(length)
	}
	return out
}

func findAll(insts []decodedInst, op OpCode) []decodedInst {
	var out []decodedInst
	for _, in := range insts {
		if in.op == op {
			out = append(out, in)
		}
	}
	return out
}

func TestModuleHeaderWellFormed(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	e.Inst(ir.OpReturn)

	words := Emit(prog)
	require.Equal(t, uint32(magicNumber), words[0])
	require.Equal(t, uint32(versionWord), words[1])
	require.Equal(t, uint32(schemaReserved), words[4])
	// Bound must exceed every id handed out; this program allocates at
	// least the GLSL.std.450 import id and the main function's id.
	require.Greater(t, words[3], uint32(1))
}

func TestShaderCapabilityAlwaysPresentExactlyOnce(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	caps := findAll(insts, OpCapability)
	require.Len(t, caps, 1)
	require.Equal(t, uint32(CapabilityShader), caps[0].operands[0])
}

func TestFloat64ResultGatesCapabilityOnce(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	a := e.Inst(ir.OpUndefF64)
	ir.InstWithFlags(e, ir.OpFPAdd64, decode.FpControl{}, a, a)
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	caps := findAll(insts, OpCapability)
	var float64Caps int
	for _, c := range caps {
		if Capability(c.operands[0]) == CapabilityFloat64 {
			float64Caps++
		}
	}
	require.Equal(t, 1, float64Caps)
}

func TestFPAdd32DecoratesNoContractionWhenSuppressed(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	a := e.Inst(ir.OpUndefF32)
	c := e.Inst(ir.OpUndefF32)
	ir.InstWithFlags(e, ir.OpFPAdd32, decode.FpControl{SuppressContraction: true}, a, c)
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	adds := findAll(insts, OpFAdd)
	require.Len(t, adds, 1)
	addResult := adds[0].operands[1]

	decs := findAll(insts, OpDecorate)
	var found bool
	for _, d := range decs {
		if d.operands[0] == addResult && Decoration(d.operands[1]) == DecorationNoContraction {
			found = true
		}
	}
	require.True(t, found, "expected NoContraction decoration on the FAdd result")
}

func TestFPAdd32OmitsNoContractionWhenContractionAllowed(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	a := e.Inst(ir.OpUndefF32)
	c := e.Inst(ir.OpUndefF32)
	ir.InstWithFlags(e, ir.OpFPAdd32, decode.FpControl{SuppressContraction: false}, a, c)
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	require.Empty(t, findAll(insts, OpDecorate))
}

func TestConvertS32F32EmitsOpConvertFToS(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	src := e.Inst(ir.OpUndefF32)
	ir.InstWithFlags(e, ir.OpConvertS32F32, decode.FpControl{Round: decode.RoundTowardZero}, src)
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	require.Len(t, findAll(insts, OpConvertFToS), 1)
}

func TestGetCbufStaticallyOOBSkipsAccessChain(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	e.Inst(ir.OpGetCbufU32, ir.ImmU32(0), ir.ImmU32(0x20000))
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	require.Empty(t, findAll(insts, OpAccessChain))
	require.Empty(t, findAll(insts, OpLoad))
}

func TestGetCbufInBoundsEmitsAccessChainAndLoad(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	e.Inst(ir.OpGetCbufU32, ir.ImmU32(0), ir.ImmU32(0x40))
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	require.Len(t, findAll(insts, OpAccessChain), 1)
	require.Len(t, findAll(insts, OpLoad), 1)
}

// TestPhiEmitsRealOpPhi exercises the property glasm's alias test exercises
// for bitcasts: unlike glasm's register-file model, SPIR-V retains SSA
// natively, so a Phi lowers to a genuine OpPhi rather than predecessor-edge
// MOV lowering.
func TestPhiEmitsRealOpPhi(t *testing.T) {
	prog := ir.NewProgram(ir.StageFragment)
	entry := prog.AddBlock()
	thenB := prog.AddBlock()
	merge := prog.AddBlock()
	entry.Succs = []*ir.Block{thenB, merge}
	thenB.Succs = []*ir.Block{merge}

	e := ir.NewEmitter(entry)
	cond := e.Inst(ir.OpUndefU1)
	a := e.Inst(ir.OpUndefF32)
	e.Inst(ir.OpBranchConditional, cond)

	e.SetBlock(thenB)
	b := e.Inst(ir.OpUndefF32)
	e.Inst(ir.OpBranch)

	e.SetBlock(merge)
	phi := e.Phi(ir.TypeF32)
	phi.AddPhiOperand(entry, a)
	phi.AddPhiOperand(thenB, b)
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	phis := findAll(insts, OpPhi)
	require.Len(t, phis, 1)
	// Result type, result id, then (value, predecessor) pairs.
	require.Len(t, phis[0].operands, 6)
}

func TestBitcastEmitsRealOpBitcastNoAliasing(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	u := e.Inst(ir.OpUndefU32)
	f := e.Inst(ir.OpBitCastF32U32, u)
	ir.InstWithFlags(e, ir.OpFPAdd32, decode.FpControl{}, f, f)
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	bitcasts := findAll(insts, OpBitcast)
	require.Len(t, bitcasts, 1)

	adds := findAll(insts, OpFAdd)
	require.Len(t, adds, 1)
	// Both FAdd operands must reference the bitcast's own result id, not
	// some register the bitcast merely aliases (SPIR-V has no register
	// file to alias into).
	bitcastResult := bitcasts[0].operands[1]
	require.Equal(t, bitcastResult, adds[0].operands[2])
	require.Equal(t, bitcastResult, adds[0].operands[3])
}

func TestOrderedCompareEmitsNativeOpFOrdEqual(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	a := e.Inst(ir.OpUndefF32)
	b := e.Inst(ir.OpUndefF32)
	e.Inst(ir.OpFPOrdEqual32, a, b)
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	require.Len(t, findAll(insts, OpFOrdEqual), 1)
	// No NaN-handling workaround (glasm's SEQ+AND-style sequence) is
	// needed: core SPIR-V's ordered compare already excludes NaN operands.
	require.Empty(t, findAll(insts, OpLogicalAnd))
}

func TestUnordNotEqualUsedForIsNan(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	a := e.Inst(ir.OpUndefF32)
	e.Inst(ir.OpFPIsNan32, a)
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	unords := findAll(insts, OpFUnordNotEqual)
	require.Len(t, unords, 1)
	require.Equal(t, unords[0].operands[2], unords[0].operands[3])
}

func TestBranchConditionalEmitsSelectionMergeAndBothTargets(t *testing.T) {
	prog := ir.NewProgram(ir.StageFragment)
	entry := prog.AddBlock()
	thenB := prog.AddBlock()
	elseB := prog.AddBlock()
	entry.Succs = []*ir.Block{thenB, elseB}

	e := ir.NewEmitter(entry)
	cond := e.Inst(ir.OpUndefU1)
	e.Inst(ir.OpBranchConditional, cond)

	e.SetBlock(thenB)
	e.Inst(ir.OpReturn)
	e.SetBlock(elseB)
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	merges := findAll(insts, OpSelectionMerge)
	require.Len(t, merges, 1)
	branches := findAll(insts, OpBranchConditional)
	require.Len(t, branches, 1)
	// The merge names the false-successor's label, matching
	// OpBranchConditional's own false-target operand.
	require.Equal(t, merges[0].operands[0], branches[0].operands[2])
}

func TestStorageAtomicIAddEmitsOpAtomicIAdd(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	binding := e.Inst(ir.OpUndefU32)
	offset := e.Inst(ir.OpUndefU32)
	value := e.Inst(ir.OpUndefU32)
	e.Inst(ir.OpStorageAtomicIAdd32, binding, offset, value)
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	require.Len(t, findAll(insts, OpAtomicIAdd), 1)
}

// TestStorageAtomicFPAddBuildsCASLoop exercises the compare-and-swap retry
// loop StorageAtomicFPAdd32 lowers to, since core SPIR-V has no native
// floating-point atomic add.
func TestStorageAtomicFPAddBuildsCASLoop(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	binding := e.Inst(ir.OpUndefU32)
	offset := e.Inst(ir.OpUndefU32)
	addend := e.Inst(ir.OpUndefF32)
	e.Inst(ir.OpStorageAtomicFPAdd32, binding, offset, addend)
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	require.Len(t, findAll(insts, OpLoopMerge), 1)
	require.Len(t, findAll(insts, OpAtomicCompareExchange), 1)
	require.GreaterOrEqual(t, len(findAll(insts, OpBranchConditional)), 1)
	require.GreaterOrEqual(t, len(findAll(insts, OpLabel)), 3, "expected header/body/merge blocks")

	phis := findAll(insts, OpPhi)
	require.Len(t, phis, 1)
	// The Phi's second (value, predecessor) pair must name the
	// OpAtomicCompareExchange result as its loop-carried value, a forward
	// reference SPIR-V permits but which only this CAS loop relies on.
	cas := findAll(insts, OpAtomicCompareExchange)[0]
	casResult := cas.operands[1]
	require.Contains(t, phis[0].operands, casResult)
}

func TestImageSampleLadderNoDescriptorsReturnsZeroConstant(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	handle := e.Inst(ir.OpUndefU32)
	coord := e.Inst(ir.OpUndefF32)
	e.Inst(ir.OpBindlessImageSampleImplicitLod, handle, coord)
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	require.Empty(t, findAll(insts, OpImageSampleImplicitLod))
	require.NotEmpty(t, findAll(insts, OpConstantComposite))
}

func TestImageSampleLadderMultipleDescriptorsBuildsSelectChain(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	prog.Info.TextureDescriptors = []ir.TextureHandleDescriptor{
		{Index: 0},
		{Index: 1},
	}
	handle := e.Inst(ir.OpUndefU32)
	coord := e.Inst(ir.OpUndefF32)
	e.Inst(ir.OpBindlessImageSampleImplicitLod, handle, coord)
	e.Inst(ir.OpReturn)

	insts := decodeInsts(t, Emit(prog))
	// One sample per descriptor.
	require.Len(t, findAll(insts, OpImageSampleImplicitLod), 2)
	// One compare+select bridging the second descriptor into the chain.
	require.Len(t, findAll(insts, OpIEqual), 1)
	require.Len(t, findAll(insts, OpSelect), 1)
}
