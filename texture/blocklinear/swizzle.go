package blocklinear

// layout captures the per-surface geometry the swizzled-offset formula
// needs: how many gobs wide the surface is, how many blocks tall, and the
// (possibly shrunk) block exponents to use for it.
type layout struct {
	widthInGobs    int
	heightInBlocks int
	blockHeightLog2 int
	blockDepthLog2  int
}

func newLayout(width, height, depth, bpp, bh, bd int) layout {
	shrunkBH, shrunkBD := shrinkBlock(height, depth, bh, bd)
	widthInGobs := ceilDiv(width*bpp, GobWidth)
	heightInBlocks := ceilDiv(height, GobHeight<<uint(shrunkBH))
	return layout{
		widthInGobs:     atLeastOne(widthInGobs),
		heightInBlocks:  atLeastOne(heightInBlocks),
		blockHeightLog2: shrunkBH,
		blockDepthLog2:  shrunkBD,
	}
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// offset returns the byte offset, within the swizzled surface, of byte xb
// (a byte index along the padded row, i.e. x*bpp+k) at row y, slice z.
func (l layout) offset(xb, y, z int) int {
	blockHeightGobs := 1 << uint(l.blockHeightLog2)
	blockDepthGobs := 1 << uint(l.blockDepthLog2)

	gx := xb / GobWidth
	localX := xb % GobWidth

	gy := y / GobHeight
	localY := y % GobHeight
	by := gy / blockHeightGobs
	localYInBlock := gy % blockHeightGobs

	bz := z / blockDepthGobs
	localZInBlock := z % blockDepthGobs

	blockIndex := bz*l.widthInGobs*l.heightInBlocks + by*l.widthInGobs + gx
	subBlockGob := localYInBlock*blockDepthGobs + localZInBlock
	blockSize := blockSizeBytes(l.blockHeightLog2, l.blockDepthLog2)

	return blockIndex*blockSize + subBlockGob*GobSize + int(swizzleTable[localY][localX])
}

func copyBytes(dst, src []byte, dstOff, srcOff, n int) {
	copy(dst[dstOff:dstOff+n], src[srcOff:srcOff+n])
}

// SwizzleTexture copies one full linear layer (input, pitch = w*bpp, rows of
// height h, d slices) into its block-linear representation (output).
// strideAlignment, if non-zero, is the alignment the caller's linear pitch
// already honors (0 means tightly packed, pitch == w*bpp).
func SwizzleTexture(output, input []byte, bpp, w, h, d, bh, bd, strideAlignment int) {
	swizzleDirectional(output, input, bpp, w, h, d, bh, bd, strideAlignment, true)
}

// UnswizzleTexture is the inverse of SwizzleTexture: it copies a
// block-linear layer (input) into a linear buffer (output).
func UnswizzleTexture(output, input []byte, bpp, w, h, d, bh, bd, strideAlignment int) {
	swizzleDirectional(output, input, bpp, w, h, d, bh, bd, strideAlignment, false)
}

func linePitch(w, bpp, strideAlignment int) int {
	pitch := w * bpp
	if strideAlignment > 0 {
		pitch = ((pitch + strideAlignment - 1) / strideAlignment) * strideAlignment
	}
	return pitch
}

func swizzleDirectional(output, input []byte, bpp, w, h, d, bh, bd, strideAlignment int, toSwizzled bool) {
	l := newLayout(w, h, d, bpp, bh, bd)
	pitch := linePitch(w, bpp, strideAlignment)

	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			linearRow := z*h*pitch + y*pitch
			for x := 0; x < w; x++ {
				xb := x * bpp
				swizzledOff := l.offset(xb, y, z)
				linearOff := linearRow + xb
				if toSwizzled {
					copyBytes(output, input, swizzledOff, linearOff, bpp)
				} else {
					copyBytes(output, input, linearOff, swizzledOff, bpp)
				}
			}
		}
	}
}

// SwizzleSubrect copies a sub-rectangle, at (offsetX, offsetY) within a
// full surface of (w, h, d), from a tightly (or targetPitch-) packed linear
// buffer into the matching region of a block-linear surface.
func SwizzleSubrect(output, input []byte, bpp, w, h, d, bh, bd int, offsetX, offsetY, rectW, rectH, targetPitch int) {
	subrectDirectional(output, input, bpp, w, h, d, bh, bd, offsetX, offsetY, rectW, rectH, targetPitch, true)
}

// UnswizzleSubrect is the inverse of SwizzleSubrect.
func UnswizzleSubrect(output, input []byte, bpp, w, h, d, bh, bd int, offsetX, offsetY, rectW, rectH, targetPitch int) {
	subrectDirectional(output, input, bpp, w, h, d, bh, bd, offsetX, offsetY, rectW, rectH, targetPitch, false)
}

func subrectDirectional(output, input []byte, bpp, w, h, d, bh, bd int, offsetX, offsetY, rectW, rectH, targetPitch int, toSwizzled bool) {
	l := newLayout(w, h, d, bpp, bh, bd)
	pitch := targetPitch
	if pitch == 0 {
		pitch = rectW * bpp
	}

	for y := 0; y < rectH; y++ {
		surfaceY := offsetY + y
		linearRow := y * pitch
		for x := 0; x < rectW; x++ {
			surfaceX := offsetX + x
			xb := surfaceX * bpp
			swizzledOff := l.offset(xb, surfaceY, 0)
			linearOff := linearRow + x*bpp
			if toSwizzled {
				copyBytes(output, input, swizzledOff, linearOff, bpp)
			} else {
				copyBytes(output, input, linearOff, swizzledOff, bpp)
			}
		}
	}
}

// SwizzleSliceToVoxel copies one 2D linear slice (input, tightly packed,
// w*bpp pitch) into depth index sliceIndex of a 3D block-linear surface.
// Only origin_x == origin_y == 0 is supported (spec §4.8): replacing a
// sub-rectangle of a 3D slice isn't a shape this function recognizes.
func SwizzleSliceToVoxel(output, input []byte, bpp, w, h, d, bh, bd, sliceIndex int) {
	l := newLayout(w, h, d, bpp, bh, bd)
	pitch := w * bpp
	for y := 0; y < h; y++ {
		linearRow := y * pitch
		for x := 0; x < w; x++ {
			xb := x * bpp
			swizzledOff := l.offset(xb, y, sliceIndex)
			copyBytes(output, input, swizzledOff, linearRow+xb, bpp)
		}
	}
}
