// Package spirv emits a raw SPIR-V word stream from a fully-optimized SSA
// program (spec §4.7, §6 "artifact is a SPIR-V word stream"). Its opcode,
// decoration, storage-class and execution-mode constants are restated (not
// imported) from the retrieval pack's gogpu-naga writer, since the core
// must produce the word stream with no external SPIR-V dependency.
package spirv

import (
	"github.com/shadercore/recompiler/core/fault"
)

func fail(kind fault.Kind, format string, args ...interface{}) {
	panic(fault.Newf(kind, format, args...))
}

const (
	magicNumber     = 0x07230203
	versionWord     = 0x00010300 // SPIR-V 1.3
	generatorMagic  = 0
	schemaReserved  = 0
	boundPlaceholder = 0
)

// idAllocator hands out monotonically increasing result-ids; id 0 is
// reserved by SPIR-V, so the first real id is 1.
type idAllocator struct{ next uint32 }

func (a *idAllocator) id() uint32 {
	a.next++
	return a.next
}

// typeKey dedups OpType*/OpConstant declarations (it keys both the types
// and the consts maps): SPIR-V
// requires at most one id per distinct type/constant, so re-requesting the
// same (kind, params) combination must return the previously allocated id.
type typeKey struct {
	kind    string
	a, b, c uint32
}

// Module accumulates a program's SPIR-V sections independently (SPIR-V's
// binary layout groups all capabilities, then all types/constants/globals,
// then all functions, regardless of declaration order) and concatenates
// them in Assemble.
type Module struct {
	ids idAllocator

	capabilities  []uint32
	extInstImport []uint32
	memoryModel   []uint32
	entryPoint    []uint32
	execModes     []uint32
	debugNames    []uint32
	decorations   []uint32
	typesGlobals  []uint32
	functions     []uint32

	glslExtSetID uint32

	types  map[typeKey]uint32
	consts map[typeKey]uint32
	// buffers dedups storage-buffer-backed global variables by descriptor
	// binding, so two loads addressing the same binding always reference
	// the same OpVariable (spec §4.7 "descriptor-aliasing-aware... layout").
	buffers map[uint32]uint32

	haveCapability map[Capability]bool
}

// NewModule allocates an empty module declaring the Shader capability and
// importing GLSL.std.450 (every entry point needs both).
func NewModule() *Module {
	m := &Module{
		types:          map[typeKey]uint32{},
		consts:         map[typeKey]uint32{},
		buffers:        map[uint32]uint32{},
		haveCapability: map[Capability]bool{},
	}
	m.requireCapability(CapabilityShader)
	m.glslExtSetID = m.ids.id()
	emitInstWithString(&m.extInstImport, OpExtInstImport, []uint32{m.glslExtSetID}, "GLSL.std.450")
	emitInst(&m.memoryModel, OpMemoryModel, uint32(AddressingModelLogical), uint32(MemoryModelGLSL450))
	return m
}

// requireCapability emits OpCapability the first time cap is requested
// (spec §4.7 "capability gating by info.UsedStorageBufferTypes").
func (m *Module) requireCapability(cap Capability) {
	if m.haveCapability[cap] {
		return
	}
	m.haveCapability[cap] = true
	emitInst(&m.capabilities, OpCapability, uint32(cap))
}

// emitInst appends a complete, self-length-prefixed instruction: opcode
// word (patched with the final word count once every operand is known),
// then operands.
func emitInst(words *[]uint32, op OpCode, operands ...uint32) {
	at := len(*words)
	*words = append(*words, uint32(op))
	*words = append(*words, operands...)
	fixLength(words, at)
}

// emitInstWithString is emitInst for the handful of opcodes that carry a
// trailing literal string operand (OpExtInstImport, OpEntryPoint's name,
// OpName/OpMemberName, OpSourceExtension).
func emitInstWithString(words *[]uint32, op OpCode, operands []uint32, s string) {
	at := len(*words)
	*words = append(*words, uint32(op))
	*words = append(*words, operands...)
	*words = appendLiteralString(*words, s)
	fixLength(words, at)
}

// fixLength patches the word-count/opcode header at words[at] to reflect
// the instruction's true length once its trailing operands (and any
// variable-length literal string) have all been appended.
func fixLength(words *[]uint32, at int) {
	w := *words
	length := uint32(len(w) - at)
	w[at] = (length << 16) | (w[at] & 0xffff)
}

// appendLiteralString appends s as SPIR-V's nul-terminated, word-padded
// UTF-8 literal encoding.
func appendLiteralString(words []uint32, s string) []uint32 {
	b := []byte(s)
	b = append(b, 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	for i := 0; i < len(b); i += 4 {
		words = append(words, uint32(b[i])|uint32(b[i+1])<<8|uint32(b[i+2])<<16|uint32(b[i+3])<<24)
	}
	return words
}

// Assemble concatenates every section into the final binary module,
// prefixed by the standard five-word header (spec §6).
func (m *Module) Assemble() []uint32 {
	out := []uint32{magicNumber, versionWord, generatorMagic, m.ids.next + 1, schemaReserved}
	out = append(out, m.capabilities...)
	out = append(out, m.extInstImport...)
	out = append(out, m.memoryModel...)
	out = append(out, m.entryPoint...)
	out = append(out, m.execModes...)
	out = append(out, m.debugNames...)
	out = append(out, m.decorations...)
	out = append(out, m.typesGlobals...)
	out = append(out, m.functions...)
	return out
}
