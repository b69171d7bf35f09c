// Package glasm emits the GL-assembly (NV_gpu_program5-style) textual
// shading target from a fully-optimized SSA program (spec §4.6). It is
// grounded on the teacher's textual-emission pattern in
// gapis/api/gles/glsl (walk an IR-like tree, append one line of output
// text per node) generalized from a decompiler's GLSL reconstruction to a
// direct IR-to-assembly emitter with no intermediate AST.
package glasm

import (
	"strconv"

	"github.com/shadercore/recompiler/core/fault"
	"github.com/shadercore/recompiler/internal/ir"
)

// fail raises a Kind-tagged error the same way internal/ir's deep call
// sites do (spec §7 "Deep call sites raise; callers propagate unchanged.
// Only the outermost entry point catches"): here, that outermost catch is
// shader.Compile's recover.
func fail(kind fault.Kind, format string, args ...interface{}) {
	panic(fault.Newf(kind, format, args...))
}

// registerPoolSize is the number of simultaneously live registers this
// back-end tracks per width before declaring spill-exhaustion (spec §4.6).
const registerPoolSize = 4096

// Null register tokens (spec §6 "Bit-exact constants"): the destination a
// side-effecting instruction's result is written to when nothing consumes
// it, so the instruction still executes without allocating a live
// register for a value nobody reads.
const (
	NullShortRegister = "RC"
	NullLongRegister  = "DC"
)

// regID packs the allocator's view of one register: width (short/long),
// and its pool index. Stored in each producing Inst's Definition slot
// (spec §3 "definition... holds the allocated register").
type regID struct {
	Long  bool
	Valid bool
	Index uint16
}

func (r regID) String() string {
	if !r.Valid {
		if r.Long {
			return NullLongRegister
		}
		return NullShortRegister
	}
	if r.Long {
		return longRegisterName(r.Index)
	}
	return shortRegisterName(r.Index)
}

func shortRegisterName(idx uint16) string { return "R" + strconv.Itoa(int(idx)) }
func longRegisterName(idx uint16) string  { return "RL" + strconv.Itoa(int(idx)) }

// isLong reports whether t needs the 64-bit register pool.
func isLong(t ir.Type) bool {
	switch t {
	case ir.TypeU64, ir.TypeF64, ir.TypeU32x2:
		return true
	default:
		return false
	}
}
