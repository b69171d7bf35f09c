package optimize

import (
	"golang.org/x/exp/slices"

	"github.com/shadercore/recompiler/internal/ir"
)

// textureHandleArg is the argument index carrying the texture/image handle
// for each sampling/image opcode (always 0 in this opcode set, spec §4.2's
// texture op table).
const textureHandleArg = 0

// isImageOp reports whether op reads or writes a storage image (as opposed
// to sampling a texture), the distinction spec §4.5 draws between
// Info.image_descriptors and Info.texture_descriptors.
func isImageOp(op ir.Opcode) bool {
	switch op {
	case ir.OpImageRead, ir.OpImageWrite, ir.OpBindlessImageWrite:
		return true
	default:
		return false
	}
}

func isTextureOrImageOp(op ir.Opcode) bool {
	switch op {
	case ir.OpBindlessImageSampleImplicitLod, ir.OpBoundImageSampleImplicitLod,
		ir.OpImageSampleImplicitLod, ir.OpImageSampleExplicitLod,
		ir.OpImageFetch, ir.OpImageGather, ir.OpImageGatherDref,
		ir.OpImageQueryDimensions, ir.OpImageQueryLod,
		ir.OpImageRead, ir.OpImageWrite, ir.OpBindlessImageWrite:
		return true
	default:
		return false
	}
}

// resolveHandle walks a handle value's def-use chain back to either a
// compile-time-constant bound unit index, or a GetCbufU32 load recording
// where the bindless handle was fetched from (spec §4.5 "Texture-handle
// tracking"). Anything else is reported unresolved and gets no descriptor.
func resolveHandle(handle ir.Value) (cbufIndex, cbufOffset int, bindless bool, ok bool) {
	handle = ir.ResolveIdentity(handle)
	if imm, isImm := handle.ImmU32Value(); isImm {
		return int(imm), 0, false, true
	}
	p := handle.Producer()
	if p == nil || p.Opcode != ir.OpGetCbufU32 {
		return 0, 0, false, false
	}
	binding, ok1 := ir.ResolveIdentity(p.Arg(0)).ImmU32Value()
	offset, ok2 := ir.ResolveIdentity(p.Arg(1)).ImmU32Value()
	if !ok1 || !ok2 {
		return 0, 0, false, false
	}
	return int(binding), int(offset), true, true
}

// TrackTextureHandles resolves every texture/image handle operand to a
// descriptor index, appending to Info.TextureDescriptors/ImageDescriptors
// (spec §4.5). Descriptors are deduplicated by (cbuf index, cbuf offset)
// for bindless handles and by unit index for bound handles, then sorted by
// index for output determinism independent of visitation order.
//
// Info.TextureBufferDescriptors/ImageBufferDescriptors stay empty: nothing
// in this opcode set distinguishes a texel (buffer-backed) texture/image
// from a normal dimensioned one, so there is no signal to classify a
// descriptor into either subset without guessing.
func TrackTextureHandles(prog *ir.Program) {
	textureSeen := map[[2]int]int{}
	imageSeen := map[[2]int]int{}

	for _, b := range prog.PostOrder {
		for i := b.First(); i != nil; i = i.Next() {
			if !isTextureOrImageOp(i.Opcode) {
				continue
			}
			cbufIndex, cbufOffset, bindless, ok := resolveHandle(i.Arg(textureHandleArg))
			if !ok {
				continue
			}
			key := [2]int{cbufIndex, cbufOffset}
			if isImageOp(i.Opcode) {
				trackImage(prog, key, cbufIndex, cbufOffset, bindless, imageSeen)
			} else {
				trackTexture(prog, key, cbufIndex, cbufOffset, bindless, textureSeen)
			}
		}
	}

	slices.SortFunc(prog.Info.TextureDescriptors, func(a, b ir.TextureHandleDescriptor) bool {
		return a.Index < b.Index
	})
	slices.SortFunc(prog.Info.ImageDescriptors, func(a, b ir.ImageHandleDescriptor) bool {
		return a.Index < b.Index
	})
}

func trackTexture(prog *ir.Program, key [2]int, cbufIndex, cbufOffset int, bindless bool, textureSeen map[[2]int]int) {
	if _, ok := textureSeen[key]; ok {
		return
	}
	idx := len(prog.Info.TextureDescriptors)
	prog.Info.TextureDescriptors = append(prog.Info.TextureDescriptors, ir.TextureHandleDescriptor{
		Index:      idx,
		CbufIndex:  cbufIndex,
		CbufOffset: cbufOffset,
		Bindless:   bindless,
	})
	textureSeen[key] = idx
}

func trackImage(prog *ir.Program, key [2]int, cbufIndex, cbufOffset int, bindless bool, imageSeen map[[2]int]int) {
	if _, ok := imageSeen[key]; ok {
		return
	}
	idx := len(prog.Info.ImageDescriptors)
	prog.Info.ImageDescriptors = append(prog.Info.ImageDescriptors, ir.ImageHandleDescriptor{
		Index:      idx,
		CbufIndex:  cbufIndex,
		CbufOffset: cbufOffset,
		Bindless:   bindless,
	})
	imageSeen[key] = idx
}
