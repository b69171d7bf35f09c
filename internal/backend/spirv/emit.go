package spirv

import (
	"github.com/shadercore/recompiler/core/fault"
	"github.com/shadercore/recompiler/internal/ir"
)

// emitter walks an optimized program's blocks in SPIR-V's structured-SSA
// form, mirroring glasm's emitter (spec §4.6/§4.7 share one IR walk) but
// producing typed SPIR-V ids instead of GLASM register names. Unlike
// glasm, Phi and BitCast* need no special-casing here: SPIR-V retains SSA
// natively, so a Phi becomes a real OpPhi and a bitcast a real OpBitcast
// rather than a register-aliasing trick.
type emitter struct {
	m    *Module
	prog *ir.Program

	ids    map[*ir.Inst]uint32
	labels map[*ir.Block]uint32

	attrInputs  map[uint32]uint32
	patchInputs map[uint32]uint32
	textures    map[uint32]uint32
	writeImages map[uint32]uint32

	mainFuncID uint32
}

// Emit lowers prog into a complete SPIR-V 1.3 module (spec §4.7, §6
// "artifact is a SPIR-V word stream"). Like glasm.Emit, it assumes prog
// has already been through SSA construction and the optimizer passes and
// has no recover of its own: failures raise via fail() and propagate as
// panics up to shader.Compile (spec §7).
func Emit(prog *ir.Program) []uint32 {
	m := NewModule()
	em := &emitter{
		m:           m,
		prog:        prog,
		ids:         map[*ir.Inst]uint32{},
		labels:      map[*ir.Block]uint32{},
		attrInputs:  map[uint32]uint32{},
		patchInputs: map[uint32]uint32{},
		textures:    map[uint32]uint32{},
		writeImages: map[uint32]uint32{},
	}
	em.emitFunction(prog)
	em.declareEntryPoint(prog)
	return m.Assemble()
}

func executionModelFor(stage ir.Stage) ExecutionModel {
	switch stage {
	case ir.StageVertexA, ir.StageVertexB:
		return ExecutionModelVertex
	case ir.StageGeometry:
		return ExecutionModelGeometry
	case ir.StageCompute:
		return ExecutionModelGLCompute
	default:
		return ExecutionModelFragment
	}
}

// declareEntryPoint emits OpEntryPoint/OpExecutionMode once the function
// body has run, since OpEntryPoint's interface list names every Input/
// Output global the function touched and those are only known once
// emission has declared them.
func (em *emitter) declareEntryPoint(prog *ir.Program) {
	model := executionModelFor(prog.Stage)
	interfaces := make([]uint32, 0, len(em.attrInputs)+len(em.patchInputs))
	for _, id := range em.attrInputs {
		interfaces = append(interfaces, id)
	}
	for _, id := range em.patchInputs {
		interfaces = append(interfaces, id)
	}
	operands := append([]uint32{uint32(model), em.mainFuncID}, interfaces...)
	emitInstWithString(&em.m.entryPoint, OpEntryPoint, operands, "main")
	if model == ExecutionModelFragment {
		emitInst(&em.m.execModes, OpExecutionMode, em.mainFuncID, uint32(ExecutionModeOriginUpperLeft))
	}
	if model == ExecutionModelGLCompute {
		// The IR carries no per-program workgroup-size record (it is a
		// guest-ISA-level constant the decoder does not currently surface
		// into Program), so this back-end declares the minimal valid
		// single-invocation workgroup rather than guess at one.
		emitInst(&em.m.execModes, OpExecutionMode, em.mainFuncID, uint32(ExecutionModeLocalSize), 1, 1, 1)
	}
}

// emitFunction emits the program's single niladic void "main" function:
// every guest shader this core compiles is one entry point with no guest-
// visible function boundaries of its own (those are inlined by C4/C5).
func (em *emitter) emitFunction(prog *ir.Program) {
	voidT := em.m.typeID(ir.TypeVoid)
	fnT := em.m.functionType(voidT)
	fnID := em.m.ids.id()
	em.mainFuncID = fnID
	emitInst(&em.m.functions, OpFunction, voidT, fnID, uint32(FunctionControlNone), fnT)

	for _, b := range prog.Blocks {
		em.labels[b] = em.m.ids.id()
	}
	for _, b := range prog.Blocks {
		em.emitBlock(b)
	}
	emitInst(&em.m.functions, OpFunctionEnd)
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
	emitInst(&em.m.functions, OpLabel, em.labels[b])

	insts := b.Instructions()
	var term *ir.Inst
	if n := len(insts); n > 0 && isTerminator(insts[n-1].Opcode) {
		term = insts[n-1]
		insts = insts[:n-1]
	}

	// Every live Phi at the top of this block becomes one OpPhi, listing
	// (value, predecessor-label) pairs directly; SPIR-V's structured SSA
	// needs none of glasm's predecessor-edge MOV lowering.
	for _, i := range insts {
		if i.Opcode != ir.OpPhi {
			break
		}
		em.emitPhi(i)
	}
	for _, i := range insts {
		if i.Opcode == ir.OpPhi || i.Opcode == ir.OpIdentity {
			// Phis are handled above; Identity is pure plumbing left by the
			// SSA rewriter and has no SPIR-V representation of its own
			// (every consumer resolves through it via value()/resultID).
			continue
		}
		em.emitInst(i)
	}
	if term != nil {
		em.emitInst(term)
	}
}

func (em *emitter) emitPhi(i *ir.Inst) {
	resT := em.m.typeID(ir.Flags[ir.Type](i))
	id := em.resultID(i)
	operands := []uint32{resT, id}
	for _, op := range i.PhiOperands() {
		operands = append(operands, em.value(op.Value), em.labels[op.Pred])
	}
	emitInst(&em.m.functions, OpPhi, operands...)
}

// resultID returns i's cached result id, allocating one the first time i
// is referenced. Callers that hold a Value rather than an *ir.Inst must
// resolve through value()/ResolveIdentity first: resultID never does so
// itself, since i is always a concrete (never-Identity) instruction here.
func (em *emitter) resultID(i *ir.Inst) uint32 {
	if id, ok := em.ids[i]; ok {
		return id
	}
	id := em.m.ids.id()
	em.ids[i] = id
	return id
}

// value resolves v (an operand, not necessarily a destination) to its
// SPIR-V id: an immediate becomes a cached OpConstant, an attribute/patch
// reference becomes a fresh OpLoad from its Input variable, and anything
// else is its producing instruction's cached result id.
func (em *emitter) value(v ir.Value) uint32 {
	switch {
	case v.IsImmediate():
		return em.immediate(v)
	case v.IsReg(), v.IsPred():
		fail(fault.LogicError, "spirv: pre-SSA %v value reached emission; SSA rewriter should have eliminated it", v.Type())
		return 0
	case v.Type() == ir.TypeAttribute:
		rv := ir.ResolveIdentity(v)
		return em.loadAttribute(uint32(rv.AttributeIndex()))
	case v.Type() == ir.TypePatch:
		rv := ir.ResolveIdentity(v)
		return em.loadPatch(uint32(rv.PatchIndex()))
	default:
		rv := ir.ResolveIdentity(v)
		if p := rv.Producer(); p != nil {
			return em.resultID(p)
		}
		fail(fault.LogicError, "spirv: value %v has no producing instruction", v.Type())
		return 0
	}
}

func (em *emitter) immediate(v ir.Value) uint32 {
	switch v.Type() {
	case ir.TypeF32:
		f, _ := v.ImmF32Value()
		return em.m.constF32(f)
	case ir.TypeU1:
		raw, _ := v.Imm()
		return em.m.constBool(raw != 0)
	default:
		raw, _ := v.Imm()
		return em.m.constU32(uint32(raw))
	}
}

func (em *emitter) loadAttribute(index uint32) uint32 {
	varID, ok := em.attrInputs[index]
	if !ok {
		ptrT := em.m.pointerType(StorageClassInput, em.m.typeID(ir.TypeF32))
		varID = em.m.ids.id()
		emitInst(&em.m.typesGlobals, OpVariable, ptrT, varID, uint32(StorageClassInput))
		emitInst(&em.m.decorations, OpDecorate, varID, uint32(DecorationLocation), index)
		em.attrInputs[index] = varID
	}
	loaded := em.m.ids.id()
	emitInst(&em.m.functions, OpLoad, em.m.typeID(ir.TypeF32), loaded, varID)
	return loaded
}

// patchLocation offsets per-patch attribute locations past the ordinary
// attribute location space so the two index spaces never collide; this
// demonstration back-end does not model a dedicated patch-constant
// interface block the way a complete tessellation pipeline would.
const patchLocationBase = 1024

func (em *emitter) loadPatch(index uint32) uint32 {
	varID, ok := em.patchInputs[index]
	if !ok {
		ptrT := em.m.pointerType(StorageClassInput, em.m.typeID(ir.TypeF32))
		varID = em.m.ids.id()
		emitInst(&em.m.typesGlobals, OpVariable, ptrT, varID, uint32(StorageClassInput))
		emitInst(&em.m.decorations, OpDecorate, varID, uint32(DecorationLocation), patchLocationBase+index)
		em.patchInputs[index] = varID
	}
	loaded := em.m.ids.id()
	emitInst(&em.m.functions, OpLoad, em.m.typeID(ir.TypeF32), loaded, varID)
	return loaded
}
