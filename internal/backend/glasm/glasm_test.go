package glasm

import (
	"strings"
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

func TestFPAdd32EmitsPrecWhenContractionSuppressed(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	a := e.Inst(ir.OpUndefF32)
	c := e.Inst(ir.OpUndefF32)
	ir.InstWithFlags(e, ir.OpFPAdd32, decode.FpControl{SuppressContraction: true}, a, c)
	e.Inst(ir.OpReturn)

	out := Emit(prog)
	require.Contains(t, out, "ADD.F.PREC")
}

func TestFPAdd32OmitsPrecWhenContractionAllowed(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	a := e.Inst(ir.OpUndefF32)
	c := e.Inst(ir.OpUndefF32)
	ir.InstWithFlags(e, ir.OpFPAdd32, decode.FpControl{SuppressContraction: false}, a, c)
	e.Inst(ir.OpReturn)

	out := Emit(prog)
	require.Contains(t, out, "ADD.F ")
	require.NotContains(t, out, "ADD.F.PREC")
}

func TestConvertS32F32RoundingSuffixes(t *testing.T) {
	cases := []struct {
		round  decode.RoundingMode
		suffix string
	}{
		{decode.RoundNearestEven, "CVT.S32.F32 "},
		{decode.RoundTowardZero, "CVT.S32.F32.TRUNC"},
		{decode.RoundTowardPositive, "CVT.S32.F32.CEIL"},
		{decode.RoundTowardNegative, "CVT.S32.F32.FLR"},
	}
	for _, c := range cases {
		prog, e, _ := singleBlockProgram()
		src := e.Inst(ir.OpUndefF32)
		ir.InstWithFlags(e, ir.OpConvertS32F32, decode.FpControl{Round: c.round}, src)
		e.Inst(ir.OpReturn)

		out := Emit(prog)
		require.Contains(t, out, c.suffix, "round mode %v", c.round)
		require.Contains(t, out, ".x,", "round mode %v must write-mask its destination to .x", c.round)
	}
}

func TestBitFieldUExtractUsesImmediateOffsetCountPair(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	src := e.Inst(ir.OpUndefU32)
	e.Inst(ir.OpBitFieldUExtract, src, ir.ImmU32(4), ir.ImmU32(8))
	e.Inst(ir.OpReturn)

	out := Emit(prog)
	require.Contains(t, out, "BFE.U")
	// cnt comes before off in the immediate vector, ahead of base, per the
	// mandatory BFE.U pattern (spec §8).
	require.Contains(t, out, "{8,4,0,0}")
}

func TestImageSampleImplicitLodEmitsTexF(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	coord := e.Inst(ir.OpUndefF32)
	e.Inst(ir.OpImageSampleImplicitLod, ir.ImmU32(0), e.Inst(ir.OpUndefU1), coord, e.Inst(ir.OpUndefU1))
	e.Inst(ir.OpReturn)

	out := Emit(prog)
	require.Contains(t, out, "TEX.F")
}

func TestGetCbufStaticallyOOBSkipsLDC(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	e.Inst(ir.OpGetCbufU32, ir.ImmU32(0), ir.ImmU32(0x20000))
	e.Inst(ir.OpReturn)

	out := Emit(prog)
	require.NotContains(t, out, "LDC")
	require.Contains(t, out, "MOV.S")
}

func TestGetCbufInBoundsEmitsLDC(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	e.Inst(ir.OpGetCbufU32, ir.ImmU32(0), ir.ImmU32(0x40))
	e.Inst(ir.OpReturn)

	out := Emit(prog)
	require.Contains(t, out, "LDC.U")
}

// TestAliasSharesRegisterWithItsArgument exercises the aliasing property
// (spec §8): a BitCastF32U32 feeding two different consumers never gets a
// register of its own, and both consumers end up referencing the same
// physical register that the bitcast's argument was assigned.
func TestAliasSharesRegisterWithItsArgument(t *testing.T) {
	prog, e, _ := singleBlockProgram()
	u := e.Inst(ir.OpUndefU32)
	f := e.Inst(ir.OpBitCastF32U32, u)
	ir.InstWithFlags(e, ir.OpFPAdd32, decode.FpControl{}, f, f)
	e.Inst(ir.OpReturn)

	out := Emit(prog)
	lines := strings.Split(out, "\n")
	var addLine string
	for _, l := range lines {
		if strings.Contains(l, "ADD.F") {
			addLine = l
		}
	}
	require.NotEmpty(t, addLine)
	// Both operands of the self-add must name the identical register
	// (the tokens are "R0," and "R0;", so the separators are trimmed).
	parts := strings.Split(strings.TrimSpace(addLine), " ")
	require.True(t, len(parts) >= 4)
	require.Equal(t, strings.TrimSuffix(parts[2], ","), strings.TrimSuffix(parts[3], ";"))
}

func TestBranchConditionalEmitsBothTargets(t *testing.T) {
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

	out := Emit(prog)
	require.Contains(t, out, "BB1")
	require.Contains(t, out, "BB2")
}
