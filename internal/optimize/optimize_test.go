package optimize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shadercore/recompiler/internal/ir"
)

func singleBlockProgram() (*ir.Program, *ir.Block) {
	prog := ir.NewProgram(ir.StageFragment)
	b := prog.AddBlock()
	prog.PostOrder = []*ir.Block{b}
	return prog, b
}

func TestConstantFoldIAdd32(t *testing.T) {
	prog, b := singleBlockProgram()
	e := ir.NewEmitter(b)
	sum := e.Inst(ir.OpIAdd32, ir.ImmU32(2), ir.ImmU32(3))
	e.Inst(ir.OpWriteSharedU32, ir.ImmU32(0), sum)

	ConstantFold(prog)

	got, ok := sum.Imm()
	require.True(t, ok, "IAdd32 of two immediates should fold to an immediate")
	require.Equal(t, uint64(5), got)
}

func TestConstantFoldLeavesNonImmediateOperandsUnchanged(t *testing.T) {
	prog, b := singleBlockProgram()
	e := ir.NewEmitter(b)
	reg := e.Inst(ir.OpUndefU32)
	sum := e.Inst(ir.OpIAdd32, reg, ir.ImmU32(3))
	e.Inst(ir.OpWriteSharedU32, ir.ImmU32(0), sum)

	ConstantFold(prog)

	require.Equal(t, ir.OpIAdd32, sum.Producer().Opcode, "an operand that isn't a compile-time immediate must not be folded")
}

func TestRemoveIdentitiesShortensChain(t *testing.T) {
	prog, b := singleBlockProgram()
	e := ir.NewEmitter(b)
	base := e.Inst(ir.OpUndefU32)
	base.Producer().ReplaceUsesWith(ir.ImmU32(7))
	user := e.Inst(ir.OpWriteSharedU32, ir.ImmU32(0), base)

	RemoveIdentities(prog)

	require.True(t, user.Producer().Arg(1).Equal(ir.ImmU32(7)), "the consumer's argument should be rewritten past the Identity")
}

func TestDeadCodeEliminationRemovesUnusedPureInstruction(t *testing.T) {
	prog, b := singleBlockProgram()
	e := ir.NewEmitter(b)
	e.Inst(ir.OpIAdd32, ir.ImmU32(1), ir.ImmU32(2))
	e.Inst(ir.OpReturn)

	DeadCodeElimination(prog)

	for i := b.First(); i != nil; i = i.Next() {
		require.NotEqual(t, ir.OpIAdd32, i.Opcode, "an unused pure instruction must be removed")
	}
}

func TestDeadCodeEliminationKeepsSideEffectingWrite(t *testing.T) {
	prog, b := singleBlockProgram()
	e := ir.NewEmitter(b)
	e.Inst(ir.OpWriteSharedU32, ir.ImmU32(0), ir.ImmU32(42))
	e.Inst(ir.OpReturn)

	DeadCodeElimination(prog)

	found := false
	for i := b.First(); i != nil; i = i.Next() {
		if i.Opcode == ir.OpWriteSharedU32 {
			found = true
		}
	}
	require.True(t, found, "a write with no consumers still has an observable side effect and must survive DCE")
}

func TestLowerGlobalMemoryRewritesCbufDerivedLoad(t *testing.T) {
	prog, b := singleBlockProgram()
	e := ir.NewEmitter(b)
	vec := e.Inst(ir.OpGetCbufU32x2, ir.ImmU32(1), ir.ImmU32(0x40))
	ptr := e.Inst(ir.OpPackUint2x32, vec)
	load := e.Inst(ir.OpLoadGlobal32, ptr)
	e.Inst(ir.OpWriteSharedU32, ir.ImmU32(0), load)

	LowerGlobalMemory(prog)

	require.Len(t, prog.Info.StorageBuffersDescriptors, 1)
	desc := prog.Info.StorageBuffersDescriptors[0]
	require.Equal(t, 1, desc.CbufIndex)
	require.Equal(t, 0x40, desc.CbufOffset)
	require.True(t, prog.Info.UsesGlobalMemory)

	require.Equal(t, ir.OpLoadStorage32, load.Producer().Opcode, "the load's producer should have become a LoadStorage32 behind the original instruction's Identity")
}

func TestLowerGlobalMemoryLeavesUnrecognizedPointerAlone(t *testing.T) {
	prog, b := singleBlockProgram()
	e := ir.NewEmitter(b)
	ptr := e.Inst(ir.OpUndefU64)
	load := e.Inst(ir.OpLoadGlobal32, ptr)
	e.Inst(ir.OpWriteSharedU32, ir.ImmU32(0), load)

	LowerGlobalMemory(prog)

	require.Empty(t, prog.Info.StorageBuffersDescriptors)
	require.Equal(t, ir.OpLoadGlobal32, load.Producer().Opcode, "an address this pass can't trace must be left as a raw global load")
}

func TestTrackTextureHandlesDedupesBindlessDescriptor(t *testing.T) {
	prog, b := singleBlockProgram()
	e := ir.NewEmitter(b)
	handleA := e.Inst(ir.OpGetCbufU32, ir.ImmU32(2), ir.ImmU32(0x20))
	handleB := e.Inst(ir.OpGetCbufU32, ir.ImmU32(2), ir.ImmU32(0x20))
	coord := e.Inst(ir.OpUndefF32)
	e.Inst(ir.OpImageSampleImplicitLod, handleA, coord, ir.ImmF32(0), coord)
	e.Inst(ir.OpImageSampleImplicitLod, handleB, coord, ir.ImmF32(0), coord)

	TrackTextureHandles(prog)

	require.Len(t, prog.Info.TextureDescriptors, 1, "two handles resolving to the same cbuf slot should dedupe to one descriptor")
	require.True(t, prog.Info.TextureDescriptors[0].Bindless)
}

func TestTrackTextureHandlesSeparatesImagesFromTextures(t *testing.T) {
	prog, b := singleBlockProgram()
	e := ir.NewEmitter(b)
	texHandle := e.Inst(ir.OpGetCbufU32, ir.ImmU32(1), ir.ImmU32(0x10))
	imgHandle := e.Inst(ir.OpGetCbufU32, ir.ImmU32(3), ir.ImmU32(0x30))
	coord := e.Inst(ir.OpUndefF32)
	e.Inst(ir.OpImageFetch, texHandle, coord, ir.ImmU32(0), ir.ImmU32(0))
	e.Inst(ir.OpImageRead, imgHandle, coord)

	TrackTextureHandles(prog)

	require.Len(t, prog.Info.TextureDescriptors, 1)
	require.Len(t, prog.Info.ImageDescriptors, 1)
}
