package spirv

import (
	"math"

	"github.com/shadercore/recompiler/core/fault"
	"github.com/shadercore/recompiler/internal/ir"
)

// typeID returns the id of t's OpType* declaration, declaring it the first
// time it is requested (spec §4.7 "typed-id allocator"). Scalars/vectors
// map directly; Reg/Pred/Attribute/Patch have no SPIR-V type of their own
// since the SSA rewriter and decoder erase them before a program reaches
// this back-end (mirrors glasm's defensive guard on the same pre-SSA kinds).
func (m *Module) typeID(t ir.Type) uint32 {
	switch t {
	case ir.TypeVoid:
		return m.scalarType(typeKey{kind: "void"}, OpTypeVoid)
	case ir.TypeU1:
		return m.scalarType(typeKey{kind: "bool"}, OpTypeBool)
	case ir.TypeU8:
		return m.intType(8, 0)
	case ir.TypeU16:
		return m.intType(16, 0)
	case ir.TypeU32:
		return m.intType(32, 0)
	case ir.TypeU64:
		m.requireCapability(CapabilityInt64)
		return m.intType(64, 0)
	case ir.TypeF16:
		m.requireCapability(CapabilityFloat16)
		return m.floatType(16)
	case ir.TypeF32:
		return m.floatType(32)
	case ir.TypeF64:
		m.requireCapability(CapabilityFloat64)
		return m.floatType(64)
	case ir.TypeU32x2:
		return m.vectorType(m.intType(32, 0), 2)
	case ir.TypeU32x3:
		return m.vectorType(m.intType(32, 0), 3)
	case ir.TypeU32x4:
		return m.vectorType(m.intType(32, 0), 4)
	case ir.TypeF16x2:
		return m.vectorType(m.floatType(16), 2)
	case ir.TypeF16x3:
		return m.vectorType(m.floatType(16), 3)
	case ir.TypeF16x4:
		return m.vectorType(m.floatType(16), 4)
	case ir.TypeF32x2:
		return m.vectorType(m.floatType(32), 2)
	case ir.TypeF32x3:
		return m.vectorType(m.floatType(32), 3)
	case ir.TypeF32x4:
		return m.vectorType(m.floatType(32), 4)
	case ir.TypeF64x2:
		return m.vectorType(m.floatType(64), 2)
	case ir.TypeF64x3:
		return m.vectorType(m.floatType(64), 3)
	case ir.TypeF64x4:
		return m.vectorType(m.floatType(64), 4)
	default:
		fail(fault.LogicError, "type %v has no SPIR-V representation", t)
		panic("unreachable")
	}
}

func (m *Module) scalarType(key typeKey, op OpCode) uint32 {
	if id, ok := m.types[key]; ok {
		return id
	}
	id := m.ids.id()
	emitInst(&m.typesGlobals, op, id)
	m.types[key] = id
	return id
}

func (m *Module) intType(width, signed uint32) uint32 {
	key := typeKey{kind: "int", a: width, b: signed}
	if id, ok := m.types[key]; ok {
		return id
	}
	id := m.ids.id()
	emitInst(&m.typesGlobals, OpTypeInt, id, width, signed)
	m.types[key] = id
	return id
}

func (m *Module) floatType(width uint32) uint32 {
	key := typeKey{kind: "float", a: width}
	if id, ok := m.types[key]; ok {
		return id
	}
	id := m.ids.id()
	emitInst(&m.typesGlobals, OpTypeFloat, id, width)
	m.types[key] = id
	return id
}

func (m *Module) vectorType(componentID, count uint32) uint32 {
	key := typeKey{kind: "vector", a: componentID, b: count}
	if id, ok := m.types[key]; ok {
		return id
	}
	id := m.ids.id()
	emitInst(&m.typesGlobals, OpTypeVector, id, componentID, count)
	m.types[key] = id
	return id
}

// pointerType returns (declaring if needed) an OpTypePointer to pointee in
// storageClass. Two pointer types with the same (class, pointee) must share
// one id (SPIR-V validation rule), hence the cache.
func (m *Module) pointerType(storageClass StorageClass, pointee uint32) uint32 {
	key := typeKey{kind: "ptr", a: uint32(storageClass), b: pointee}
	if id, ok := m.types[key]; ok {
		return id
	}
	id := m.ids.id()
	emitInst(&m.typesGlobals, OpTypePointer, id, uint32(storageClass), pointee)
	m.types[key] = id
	return id
}

// runtimeArrayType returns an OpTypeRuntimeArray of element, used for the
// unbounded tail member of a storage-buffer block type.
func (m *Module) runtimeArrayType(element uint32) uint32 {
	key := typeKey{kind: "runtimearray", a: element}
	if id, ok := m.types[key]; ok {
		return id
	}
	id := m.ids.id()
	emitInst(&m.typesGlobals, OpTypeRuntimeArray, id, element)
	m.types[key] = id
	return id
}

// functionType returns an OpTypeFunction for a niladic function returning
// ret, which is all this back-end's single entry-point function needs.
func (m *Module) functionType(ret uint32) uint32 {
	key := typeKey{kind: "func", a: ret}
	if id, ok := m.types[key]; ok {
		return id
	}
	id := m.ids.id()
	emitInst(&m.typesGlobals, OpTypeFunction, id, ret)
	m.types[key] = id
	return id
}

// imageType returns an OpTypeImage of sampledType (always the float32 type
// for the sampled-texture case this core emits), 2D, non-depth, non-array,
// non-MS, sampled=1 (usable with a sampler), format Unknown.
func (m *Module) imageType(sampledType uint32) uint32 {
	key := typeKey{kind: "image", a: sampledType}
	if id, ok := m.types[key]; ok {
		return id
	}
	id := m.ids.id()
	// Dim=1 (2D), Depth=0, Arrayed=0, MS=0, Sampled=1, Format=Unknown.
	emitInst(&m.typesGlobals, OpTypeImage, id, sampledType, 1, 0, 0, 0, 1, uint32(ImageFormatUnknown))
	m.types[key] = id
	return id
}

// storageBlockStruct returns the struct-of-one-runtime-array type backing
// a storage-buffer variable: { uint words[]; }, decorated Block per
// SPIR-V's storage-buffer interface-block requirement.
func (m *Module) storageBlockStruct(elementType uint32) uint32 {
	key := typeKey{kind: "block", a: elementType}
	if id, ok := m.types[key]; ok {
		return id
	}
	arr := m.runtimeArrayType(elementType)
	emitInst(&m.decorations, OpDecorate, arr, uint32(DecorationArrayStride), 4)
	id := m.ids.id()
	emitInst(&m.typesGlobals, OpTypeStruct, id, arr)
	emitInst(&m.decorations, OpDecorate, id, uint32(DecorationBlock))
	emitInst(&m.decorations, OpMemberDecorate, id, 0, uint32(DecorationOffset), 0)
	m.types[key] = id
	return id
}

// storageBufferVar returns the StorageBuffer-class variable bound to
// (set 0, binding), declaring it the first time this binding is used so
// every load/store addressing the same binding shares one variable.
func (m *Module) storageBufferVar(binding uint32) uint32 {
	if id, ok := m.buffers[binding]; ok {
		return id
	}
	structT := m.storageBlockStruct(m.typeID(ir.TypeU32))
	ptrT := m.pointerType(StorageClassStorageBuffer, structT)
	id := m.ids.id()
	emitInst(&m.typesGlobals, OpVariable, ptrT, id, uint32(StorageClassStorageBuffer))
	emitInst(&m.decorations, OpDecorate, id, uint32(DecorationDescriptorSet), 0)
	emitInst(&m.decorations, OpDecorate, id, uint32(DecorationBinding), binding)
	m.buffers[binding] = id
	return id
}

// workgroupArrayVar returns the fixed-size Workgroup-class uint array
// variable backing shared memory, sized from the program's declared
// SharedMemorySize (rounded up to whole words).
func (m *Module) workgroupArrayVar(words uint32) uint32 {
	if id, ok := m.buffers[workgroupBufferKey]; ok {
		return id
	}
	if words == 0 {
		words = 1
	}
	lenConst := m.constU32(words)
	key := typeKey{kind: "wgarray", a: words}
	arrT, ok := m.types[key]
	if !ok {
		arrT = m.ids.id()
		emitInst(&m.typesGlobals, OpTypeArray, arrT, m.typeID(ir.TypeU32), lenConst)
		m.types[key] = arrT
	}
	ptrT := m.pointerType(StorageClassWorkgroup, arrT)
	id := m.ids.id()
	emitInst(&m.typesGlobals, OpVariable, ptrT, id, uint32(StorageClassWorkgroup))
	m.buffers[workgroupBufferKey] = id
	return id
}

// workgroupBufferKey is a binding value no real descriptor binding uses,
// reserving a slot in the (binding -> variable) cache for the one
// Workgroup-class shared-memory array (which has no descriptor binding of
// its own).
const workgroupBufferKey = ^uint32(0)

func (m *Module) samplerType() uint32 {
	return m.scalarType(typeKey{kind: "sampler"}, OpTypeSampler)
}

func (m *Module) sampledImageType(imageType uint32) uint32 {
	key := typeKey{kind: "sampledimage", a: imageType}
	if id, ok := m.types[key]; ok {
		return id
	}
	id := m.ids.id()
	emitInst(&m.typesGlobals, OpTypeSampledImage, id, imageType)
	m.types[key] = id
	return id
}

// constU32 returns the id of a cached OpConstant for a uint32 value of
// SPIR-V type ir.TypeU32.
func (m *Module) constU32(v uint32) uint32 {
	key := typeKey{kind: "cu32", a: v}
	if id, ok := m.consts[key]; ok {
		return id
	}
	id := m.ids.id()
	emitInst(&m.typesGlobals, OpConstant, m.typeID(ir.TypeU32), id, v)
	m.consts[key] = id
	return id
}

// constF32 returns the id of a cached OpConstant for a float32 value,
// reinterpreting its IEEE-754 bit pattern as the constant's literal word.
func (m *Module) constF32(v float32) uint32 {
	bits := math.Float32bits(v)
	key := typeKey{kind: "cf32", a: bits}
	if id, ok := m.consts[key]; ok {
		return id
	}
	id := m.ids.id()
	emitInst(&m.typesGlobals, OpConstant, m.typeID(ir.TypeF32), id, bits)
	m.consts[key] = id
	return id
}

// constBool returns the id of a cached OpConstantTrue/OpConstantFalse.
func (m *Module) constBool(v bool) uint32 {
	key := typeKey{kind: "cbool", a: boolToWord(v)}
	if id, ok := m.consts[key]; ok {
		return id
	}
	id := m.ids.id()
	op := OpConstantFalse
	if v {
		op = OpConstantTrue
	}
	emitInst(&m.typesGlobals, op, m.typeID(ir.TypeU1), id)
	m.consts[key] = id
	return id
}

func boolToWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
