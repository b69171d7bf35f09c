// Package shader wires the decoder, CFG builder, SSA rewriter, optimizer,
// and both back-ends into one Compile entry point (spec §4, §7). It is the
// pipeline's single panic/recover boundary: the stages after decoding and
// CFG construction raise a *fault.Error by panicking rather than threading
// an error return through every helper (mirrors gapil/compiler's internal
// panic-based error propagation, recovered once at its own Compile entry
// point); the decoder and CFG builder return errors instead.
package shader

import (
	"context"

	"github.com/shadercore/recompiler/core/fault"
	"github.com/shadercore/recompiler/core/log"
	"github.com/shadercore/recompiler/internal/backend/glasm"
	"github.com/shadercore/recompiler/internal/backend/spirv"
	"github.com/shadercore/recompiler/internal/cfg"
	"github.com/shadercore/recompiler/internal/decode"
	"github.com/shadercore/recompiler/internal/ir"
	"github.com/shadercore/recompiler/internal/optimize"
	"github.com/shadercore/recompiler/internal/ssa"
)

// Target selects which back-end Compile lowers the optimized program to.
type Target int

const (
	TargetGLASM Target = iota
	TargetSPIRV
)

func (t Target) String() string {
	if t == TargetSPIRV {
		return "spirv"
	}
	return "glasm"
}

// CompileResult aggregates a compiled program's artifact together with the
// resource-binding metadata (spec §6's loads/stores/texture-descriptor
// info) an Environment needs to set up bindings before dispatch, matching
// the teacher's habit of returning one rich result struct from a compile
// entry point rather than several correlated ones.
type CompileResult struct {
	Target Target
	GLASM  string
	SPIRV  []uint32
	Info   ir.Info
}

// Compile decodes words (one guest shader stage's flat instruction stream),
// builds its CFG, converts to SSA, runs the optimizer pipeline, and lowers
// the result to target.
//
// decode.Decode and cfg.Build report malformed guest input through ordinary
// error returns (spec §7: a guest program that does not validate is not a
// compiler bug). Every stage after that — ssa, optimize, and the two
// back-ends — reports failure by panicking, normally with a *fault.Error,
// since anything they reject is this module's own invariant violation, not
// a guest-data problem; Compile recovers any panic into the same error
// return the earlier stages already use (a panic value that is not a
// *fault.Error becomes a RuntimeError), so callers never need to
// distinguish the two failure styles.
func Compile(ctx context.Context, words []decode.GuestWord, stage ir.Stage, target Target) (result *CompileResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = recoveredError(r)
		}
	}()

	d := decode.NewDecoder(stage, decode.DefaultTable())
	if derr := d.Decode(words); derr != nil {
		return nil, fault.Explain(fault.InvalidArgument, derr, "shader: decode failed")
	}

	prog, cerr := cfg.Build(d)
	if cerr != nil {
		return nil, cerr
	}

	ssa.Run(prog)
	optimize.Run(prog)

	log.I(ctx, "shader: compiled stage=%v blocks=%d target=%v", prog.Stage, len(prog.Blocks), target)

	res := &CompileResult{Target: target, Info: prog.Info}
	switch target {
	case TargetGLASM:
		res.GLASM = glasm.Emit(prog)
	case TargetSPIRV:
		res.SPIRV = spirv.Emit(prog)
	default:
		return nil, fault.Newf(fault.InvalidArgument, "shader: unknown target %v", target)
	}
	return res, nil
}

// recoveredError converts a recovered panic value into an error, preserving
// an already-Kind-tagged *fault.Error as-is and wrapping anything else as
// RuntimeError (an internal invariant this package cannot otherwise name).
func recoveredError(r interface{}) error {
	if e, ok := r.(*fault.Error); ok {
		return e
	}
	if e, ok := r.(error); ok {
		return fault.Wrap(fault.RuntimeError, e)
	}
	return fault.Newf(fault.RuntimeError, "shader: panic: %v", r)
}
