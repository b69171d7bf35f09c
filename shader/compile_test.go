package shader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shadercore/recompiler/core/fault"
	"github.com/shadercore/recompiler/internal/decode"
	"github.com/shadercore/recompiler/internal/ir"
)

func linearProgramWords() []decode.GuestWord {
	iadd := decode.GuestWord(0x01) << 5
	exit := decode.GuestWord(0x05) << 5
	return []decode.GuestWord{iadd, exit}
}

func TestCompileToGLASM(t *testing.T) {
	res, err := Compile(context.Background(), linearProgramWords(), ir.StageFragment, TargetGLASM)
	require.NoError(t, err)
	require.NotEmpty(t, res.GLASM)
	require.Empty(t, res.SPIRV)
}

func TestCompileToSPIRV(t *testing.T) {
	res, err := Compile(context.Background(), linearProgramWords(), ir.StageFragment, TargetSPIRV)
	require.NoError(t, err)
	require.NotEmpty(t, res.SPIRV)
	require.Empty(t, res.GLASM)
}

// TestCompileRejectsUnknownTarget checks that a valid word stream compiled
// for a target Compile does not know surfaces as an ordinary
// InvalidArgument *fault.Error return.
func TestCompileRejectsUnknownTarget(t *testing.T) {
	_, err := Compile(context.Background(), linearProgramWords(), ir.StageFragment, Target(99))
	require.Error(t, err)
	kind, ok := fault.KindOf(err)
	require.True(t, ok)
	require.Equal(t, fault.InvalidArgument, kind)
}

func TestCompileReportsDecodeErrorWithoutPanicking(t *testing.T) {
	// An instruction class no dispatch row matches; Decode should fail
	// with an ordinary error, which Compile wraps rather than panicking.
	unmatched := []decode.GuestWord{decode.GuestWord(0x1f) << 5}
	_, err := Compile(context.Background(), unmatched, ir.StageFragment, TargetGLASM)
	require.Error(t, err)
	kind, ok := fault.KindOf(err)
	require.True(t, ok)
	require.Equal(t, fault.InvalidArgument, kind)
}
