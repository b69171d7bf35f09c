package cfg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shadercore/recompiler/internal/decode"
	"github.com/shadercore/recompiler/internal/ir"
)

func wordsForLinearProgram() []decode.GuestWord {
	iadd := decode.GuestWord(0x01) << 5
	exit := decode.GuestWord(0x05) << 5
	return []decode.GuestWord{iadd, exit}
}

func TestBuildLinearProgramSingleBlock(t *testing.T) {
	d := decode.NewDecoder(ir.StageFragment, decode.DefaultTable())
	require.NoError(t, d.Decode(wordsForLinearProgram()))

	prog, err := Build(d)
	require.NoError(t, err)
	require.Len(t, prog.Blocks, 1, "no branches means the whole program is one block")
	require.Empty(t, prog.Blocks[0].Succs)
}

func TestBuildUnconditionalBranchSplitsThreeBlocks(t *testing.T) {
	d := decode.NewDecoder(ir.StageFragment, decode.DefaultTable())
	// word 0: BRA +1 (skip word 1, land on word 2)
	// word 1: IADD (dead, never reached statically)
	// word 2: EXIT
	bra := decode.GuestWord(0x06)<<5 | decode.GuestWord(1)<<45
	iadd := decode.GuestWord(0x01) << 5
	exit := decode.GuestWord(0x05) << 5
	require.NoError(t, d.Decode([]decode.GuestWord{bra, iadd, exit}))

	prog, err := Build(d)
	require.NoError(t, err)
	require.Len(t, prog.Blocks, 3)

	entry := prog.Blocks[0]
	require.Len(t, entry.Succs, 1)
	require.Same(t, prog.Blocks[2], entry.Succs[0], "BRA +1 from word 0 should land on word 2's block")
	require.Contains(t, prog.Blocks[2].Preds, entry)
}

func TestBuildConditionalBranchSynthesizesTwoSuccessors(t *testing.T) {
	d := decode.NewDecoder(ir.StageFragment, decode.DefaultTable())
	// word 0: BRACC test=F (always false), target word 2
	// word 1: IADD (fall-through block)
	// word 2: EXIT (taken-branch block)
	bracc := decode.GuestWord(0x08)<<5 | decode.GuestWord(1)<<45
	iadd := decode.GuestWord(0x01) << 5
	exit := decode.GuestWord(0x05) << 5
	require.NoError(t, d.Decode([]decode.GuestWord{bracc, iadd, exit}))

	prog, err := Build(d)
	require.NoError(t, err)
	require.Len(t, prog.Blocks, 3)

	entry := prog.Blocks[0]
	require.Len(t, entry.Succs, 2, "conditional branch synthesizes two successors")
}

func TestReversePostOrderPlacesEntryFirst(t *testing.T) {
	d := decode.NewDecoder(ir.StageFragment, decode.DefaultTable())
	bra := decode.GuestWord(0x06)<<5 | decode.GuestWord(1)<<45
	iadd := decode.GuestWord(0x01) << 5
	exit := decode.GuestWord(0x05) << 5
	require.NoError(t, d.Decode([]decode.GuestWord{bra, iadd, exit}))

	prog, err := Build(d)
	require.NoError(t, err)
	require.Same(t, prog.Blocks[0], prog.PostOrder[0])
}
