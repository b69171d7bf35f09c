package blocklinear

// Swizzle2DParams is the set of values a compute-shader swizzle/unswizzle
// dispatch needs: enough to let the Environment's accelerated path recompute
// the same per-texel offset this package computes on the CPU, without
// re-deriving the block-shrink or gob-table logic on the host side.
type Swizzle2DParams struct {
	OriginX, OriginY   int
	DestX, DestY       int
	BytesPerBlockLog2  uint
	BlockSize          int
	WidthInGobs        int
	XShift             uint
	BlockHeightLog2    int
	BlockHeightMask    uint32
}

// Swizzle3DParams extends Swizzle2DParams with the depth-axis fields a 3D
// dispatch additionally needs.
type Swizzle3DParams struct {
	Swizzle2DParams
	OriginZ, DestZ  int
	SliceSize       int
	BlockDepthLog2  int
	BlockDepthMask  uint32
}

func bytesPerBlockLog2(bpp int) uint {
	shift := uint(0)
	for (1 << shift) < bpp {
		shift++
	}
	return shift
}

// MakeBlockLinearSwizzle2DParams builds the accelerated-path parameters for
// a 2D swizzle of a w x h surface at the given block height exponent.
func MakeBlockLinearSwizzle2DParams(bpp, w, h, bh int) Swizzle2DParams {
	shrunkBH, _ := shrinkBlock(h, 1, bh, 0)
	widthInGobs := ceilDiv(w*bpp, GobWidth)
	return Swizzle2DParams{
		BytesPerBlockLog2: bytesPerBlockLog2(bpp),
		BlockSize:         blockSizeBytes(shrunkBH, 0),
		WidthInGobs:       atLeastOne(widthInGobs),
		XShift:            gobShiftX,
		BlockHeightLog2:   shrunkBH,
		BlockHeightMask:   uint32(1<<uint(shrunkBH+GobHeight) - 1),
	}
}

// MakeBlockLinearSwizzle3DParams builds the accelerated-path parameters for
// a 3D swizzle of a w x h x d surface at the given block height/depth
// exponents.
func MakeBlockLinearSwizzle3DParams(bpp, w, h, d, bh, bd int) Swizzle3DParams {
	shrunkBH, shrunkBD := shrinkBlock(h, d, bh, bd)
	base := MakeBlockLinearSwizzle2DParams(bpp, w, h, bh)
	base.BlockSize = blockSizeBytes(shrunkBH, shrunkBD)
	base.BlockHeightLog2 = shrunkBH
	return Swizzle3DParams{
		Swizzle2DParams: base,
		SliceSize:       base.BlockSize * ceilDiv(w*bpp, GobWidth) * ceilDiv(h, GobHeight<<uint(shrunkBH)),
		BlockDepthLog2:  shrunkBD,
		BlockDepthMask:  uint32(1<<uint(shrunkBD) - 1),
	}
}
