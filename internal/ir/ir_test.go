package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUseCountTracksArgumentSlots(t *testing.T) {
	b := NewBlock(0)
	e := NewEmitter(b)

	a := e.Inst(OpUndefU32)
	bv := e.Inst(OpUndefU32)
	sum := e.Inst(OpIAdd32, a, bv)
	_ = e.Inst(OpIAdd32, sum, a)

	require.Equal(t, 2, a.Producer().UseCount(), "a is used by sum and the second add")
	require.Equal(t, 1, bv.Producer().UseCount())
	require.Equal(t, 1, sum.Producer().UseCount())
}

func TestReplaceUsesWithIsTransparentToReaders(t *testing.T) {
	b := NewBlock(0)
	e := NewEmitter(b)

	orig := e.Inst(OpUndefU32)
	replacement := ImmU32(42)

	origInst := orig.Producer()
	user := e.Inst(OpIAdd32, orig, ImmU32(1))

	origInst.ReplaceUsesWith(replacement)

	// user's argument slot still names origInst by pointer, but reading
	// through it (type, immediate payload) transparently resolves to
	// replacement instead.
	arg := user.Producer().Arg(0)
	require.True(t, arg.Equal(orig), "pointer identity of the slot is unchanged")
	raw, ok := arg.Imm()
	require.True(t, ok)
	require.Equal(t, uint32(42), uint32(raw))
	require.Equal(t, TypeU32, arg.Type())
	require.Nil(t, arg.Producer(), "resolves to an immediate, not an instruction")
}

func TestAreTypesCompatible(t *testing.T) {
	require.True(t, AreTypesCompatible(TypeU32, TypeU32))
	require.True(t, AreTypesCompatible(TypeU32, TypeOpaque))
	require.True(t, AreTypesCompatible(TypeOpaque, TypeF32))
	require.False(t, AreTypesCompatible(TypeU32, TypeF32))
}

func TestPhiNumArgsMatchesPredecessorsAfterSealing(t *testing.T) {
	entry := NewBlock(0)
	left := NewBlock(1)
	right := NewBlock(2)
	join := NewBlock(3)
	join.Preds = []*Block{left, right}

	e := NewEmitter(join)
	phi := e.Phi(TypeU32)
	phi.AddPhiOperand(left, ImmU32(1))
	phi.AddPhiOperand(right, ImmU32(2))

	require.Equal(t, 2, phi.NumArgs())
	require.Equal(t, len(join.Preds), phi.NumArgs())
	_ = entry
}

func TestInvalidateClearsArgsAndRewritesOpcode(t *testing.T) {
	b := NewBlock(0)
	e := NewEmitter(b)
	a := e.Inst(OpUndefU32)
	sum := e.Inst(OpIAdd32, a, ImmU32(1))

	sumInst := sum.Producer()
	sumInst.Invalidate()

	require.Equal(t, OpVoid, sumInst.Opcode)
	require.Equal(t, 0, a.Producer().UseCount())
}

func TestFlagsRoundTrip(t *testing.T) {
	b := NewBlock(0)
	e := NewEmitter(b)
	i := e.Inst(OpUndefU32).Producer()

	SetFlags(i, uint32(0xdeadbeef))
	require.Equal(t, uint32(0xdeadbeef), Flags[uint32](i))
}
