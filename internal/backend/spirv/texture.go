package spirv

import (
	"github.com/shadercore/recompiler/core/fault"
	"github.com/shadercore/recompiler/internal/ir"
)

// textureDescriptorSet is the descriptor set every combined-image-sampler
// and storage-image variable this back-end declares lives in, keeping the
// texture binding space separate from set 0's cbuf/storage/global buffers.
const textureDescriptorSet = 1

// textureVar returns the combined-image-sampler variable bound to
// (textureDescriptorSet, index), declaring it the first time this index
// is sampled.
func (em *emitter) textureVar(index uint32) uint32 {
	if id, ok := em.textures[index]; ok {
		return id
	}
	sampledT := em.m.sampledImageType(em.m.imageType(em.m.typeID(ir.TypeF32)))
	ptrT := em.m.pointerType(StorageClassUniformConstant, sampledT)
	id := em.m.ids.id()
	emitInst(&em.m.typesGlobals, OpVariable, ptrT, id, uint32(StorageClassUniformConstant))
	emitInst(&em.m.decorations, OpDecorate, id, uint32(DecorationDescriptorSet), textureDescriptorSet)
	emitInst(&em.m.decorations, OpDecorate, id, uint32(DecorationBinding), index)
	em.textures[index] = id
	return id
}

// sampleDescriptor emits one candidate OpImageSampleImplicitLod against
// desc's combined image-sampler, always in TypeF32x4 space: every opcode
// this back-end routes through imageSampleLadder (fetch/gather/query/read
// included) collapses to this one implicit-LOD sample, a documented
// simplification (spec §4.2's texture-handle ladder scope).
func (em *emitter) sampleDescriptor(desc ir.TextureHandleDescriptor, coords uint32) uint32 {
	varID := em.textureVar(uint32(desc.Index))
	sampledT := em.m.sampledImageType(em.m.imageType(em.m.typeID(ir.TypeF32)))
	loaded := em.m.ids.id()
	emitInst(&em.m.functions, OpLoad, sampledT, loaded, varID)
	resT := em.m.typeID(ir.TypeF32x4)
	id := em.m.ids.id()
	emitInst(&em.m.functions, OpImageSampleImplicitLod, resT, id, loaded, coords)
	return id
}

// coerceResult adapts a TypeF32x4 sample to whichever result type i's
// actual opcode declares (ImageRead/ImageQueryDimensions want an integer
// vector, ImageQueryLod a 2-component float vector): a same-width bitcast
// for the integer case, a shuffle for the narrower float case. Neither is
// semantically correct for what those opcodes actually mean (a query
// returns dimensions/LOD, not sampled texels) — this back-end does not
// model a separate query path and instead substitutes the nearest-shaped
// reinterpretation of the one sample it does emit.
func (em *emitter) coerceResult(sampleID uint32, resultType ir.Type) uint32 {
	switch resultType {
	case ir.TypeF32x4:
		return sampleID
	case ir.TypeU32x4:
		id := em.m.ids.id()
		emitInst(&em.m.functions, OpBitcast, em.m.typeID(resultType), id, sampleID)
		return id
	case ir.TypeF32x2:
		id := em.m.ids.id()
		emitInst(&em.m.functions, OpVectorShuffle, em.m.typeID(resultType), id, sampleID, sampleID, 0, 1)
		return id
	default:
		return sampleID
	}
}

// imageSampleLadder lowers any texture-reading opcode against the
// program's finite, compile-time-known texture descriptor set (spec §4.2
// "attribute compare-ladder helpers", generalized from the decoder's
// data-flow predicate-guard idiom — predicate.go's
// ConditionalizeRegisterWrite chains LogicalAnd/LogicalOr/Select rather
// than branching — to a per-descriptor texture select): a bindless handle
// is a runtime value that may, depending on control flow, equal any of
// several descriptors' static indices, so every candidate is sampled and
// OpSelect picks the one whose index the handle actually matches, nested
// rather than branched to avoid splicing extra blocks into i.Block() the
// way atomicFAddCAS's retry loop does.
func (em *emitter) imageSampleLadder(i *ir.Inst) {
	descs := em.prog.Info.TextureDescriptors
	resultType := i.Opcode.ResultType()
	if len(descs) == 0 {
		em.ids[i] = em.zeroVector(resultType)
		return
	}

	handle := em.value(i.Arg(0))
	coords := em.value(em.coordArg(i))
	u1T := em.m.typeID(ir.TypeU1)

	result := em.sampleDescriptor(descs[0], coords)
	for _, d := range descs[1:] {
		cmp := em.m.ids.id()
		emitInst(&em.m.functions, OpIEqual, u1T, cmp, handle, em.m.constU32(uint32(d.Index)))
		sample := em.sampleDescriptor(d, coords)
		selected := em.m.ids.id()
		emitInst(&em.m.functions, OpSelect, em.m.typeID(ir.TypeF32x4), selected, cmp, sample, result)
		result = selected
	}
	em.ids[i] = em.coerceResult(result, resultType)
}

// coordArg picks the argument carrying the sample coordinate. Every
// opcode this ladder handles places it at Arg(1) except
// OpImageSampleImplicitLod, whose mandatory-pattern realization
// (patterns.go's emitImageSampleImplicitLod) matches glasm's own
// TEX.F lowering in reading it from Arg(2) instead (Arg(1) and Arg(3) are
// LOD-bias/cube-array modifiers this back-end does not thread through).
func (em *emitter) coordArg(i *ir.Inst) ir.Value {
	if i.Opcode == ir.OpImageSampleImplicitLod && i.NumArgs() > 2 {
		return i.Arg(2)
	}
	return i.Arg(1)
}

// zeroVector returns a cached all-zero OpConstantComposite for t, used
// when imageSampleLadder has no descriptor to sample (the program
// referenced no texture this compile resolved).
func (em *emitter) zeroVector(t ir.Type) uint32 {
	count := 0
	scalar := ir.TypeF32
	switch t {
	case ir.TypeF32x4:
		count = 4
	case ir.TypeU32x4:
		count, scalar = 4, ir.TypeU32
	case ir.TypeF32x2:
		count = 2
	default:
		return em.zeroConstant(t)
	}
	zero := em.zeroConstant(scalar)
	key := typeKey{kind: "zerovec", a: uint32(t), b: zero}
	if id, ok := em.m.consts[key]; ok {
		return id
	}
	id := em.m.ids.id()
	operands := []uint32{em.m.typeID(t), id}
	for n := 0; n < count; n++ {
		operands = append(operands, zero)
	}
	emitInst(&em.m.typesGlobals, OpConstantComposite, operands...)
	em.m.consts[key] = id
	return id
}

// writableImageVar returns the plain (non-sampled) storage-image variable
// bound to (textureDescriptorSet, index), declaring it the first time
// this index is written. Kept in its own cache from textureVar's
// combined-image-samplers since OpImageWrite requires a bare OpTypeImage
// operand, not an OpTypeSampledImage one.
func (em *emitter) writableImageVar(index uint32) uint32 {
	if id, ok := em.writeImages[index]; ok {
		return id
	}
	imgT := em.m.imageType(em.m.typeID(ir.TypeF32))
	ptrT := em.m.pointerType(StorageClassUniformConstant, imgT)
	id := em.m.ids.id()
	emitInst(&em.m.typesGlobals, OpVariable, ptrT, id, uint32(StorageClassUniformConstant))
	emitInst(&em.m.decorations, OpDecorate, id, uint32(DecorationDescriptorSet), textureDescriptorSet)
	emitInst(&em.m.decorations, OpDecorate, id, uint32(DecorationBinding), index)
	em.writeImages[index] = id
	return id
}

// imageStore lowers OpImageWrite/OpBindlessImageWrite. Unlike the sample
// ladder, a store's target must be a single concrete image, so (mirroring
// emitGetCbuf's similar requirement that a cbuf index be static) the
// handle must resolve to a compile-time constant.
func (em *emitter) imageStore(i *ir.Inst) {
	handle, ok := i.Arg(0).Imm()
	if !ok {
		fail(fault.LogicError, "spirv: image store target handle must be a compile-time constant")
	}
	imgVar := em.writableImageVar(uint32(handle))
	imgT := em.m.imageType(em.m.typeID(ir.TypeF32))
	loaded := em.m.ids.id()
	emitInst(&em.m.functions, OpLoad, imgT, loaded, imgVar)
	coords := em.value(i.Arg(1))
	value := em.value(i.Arg(2))
	emitInst(&em.m.functions, OpImageWrite, loaded, coords, value)
}
