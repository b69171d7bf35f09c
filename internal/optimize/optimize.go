// Package optimize runs the fixed-order pass pipeline over an SSA-complete
// program: constant folding, identity removal, dead-code elimination,
// global-memory-to-storage-buffer lowering, and texture-handle tracking
// (spec §4.5). It is grounded on the single-direction, single-pass-over-RPO
// analysis shape used throughout google/gapid's gapis/resolve/dependencygraph2
// package, generalized from gapid's per-command dependency analysis to this
// module's per-instruction IR passes.
//
// Every pass here follows the same rule: an unrecognized pattern leaves the
// IR unchanged rather than guessing (spec §4.5 "Error modes"). None of these
// passes raise an error; a pass that cannot make progress on an instruction
// simply moves on to the next one.
package optimize

import "github.com/shadercore/recompiler/internal/ir"

// Run executes the fixed pass order over prog. prog must already be in SSA
// form (internal/ssa.Run has completed) and carry a populated PostOrder
// (internal/cfg.Build's output).
func Run(prog *ir.Program) {
	ConstantFold(prog)
	RemoveIdentities(prog)
	DeadCodeElimination(prog)
	LowerGlobalMemory(prog)
	TrackTextureHandles(prog)
}
