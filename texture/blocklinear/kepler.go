package blocklinear

// GetGOBOffset returns the byte offset, within a block-linear surface of
// the given width (texels) and block height exponent, of the gob that
// covers texel (dstX, dstY). Grounded on the original decoder's
// GetGOBOffset: it walks the same block/gob arithmetic as layout.offset
// but in terms of whole gobs rather than per-byte table lookups.
// SwizzleKepler does not call it; it computes its gob addresses inline.
func GetGOBOffset(width, height, dstX, dstY, blockHeightLog2, bpp int) int {
	gobsInBlock := 1 << uint(blockHeightLog2)
	yBlocks := GobHeight << uint(blockHeightLog2)
	xPerGob := GobWidth / bpp
	xBlocks := ceilDiv(width, xPerGob)
	blockSize := GobSize * gobsInBlock
	stride := blockSize * xBlocks

	base := (dstY/yBlocks)*stride + (dstX/xPerGob)*blockSize
	relativeY := dstY % yBlocks
	return base + (relativeY/GobHeight)*GobSize
}

// SwizzleKepler copies copySize bytes of sourceData, starting at surface
// position (dstX, dstY), into their swizzled positions within swizzleData:
// the accelerated upload path the original used for the Kepler generation,
// which streams a flat byte run across however many texel rows it spans
// rather than requiring the caller to pre-split it into whole rows (as
// SwizzleTexture's row-major loop does).
func SwizzleKepler(width, height, dstX, dstY, blockHeightLog2 int, copySize int, sourceData, swizzleData []byte) {
	blockHeight := 1 << uint(blockHeightLog2)
	imageWidthInGobs := ceilDiv(width, GobWidth)

	count := 0
	for y := dstY; y < height && count < copySize; y++ {
		gobAddressY := (y/(GobHeight*blockHeight))*GobSize*blockHeight*imageWidthInGobs +
			((y % (GobHeight * blockHeight)) / GobHeight) * GobSize
		table := swizzleTable[y%GobHeight]
		for x := dstX; x < width && count < copySize; x++ {
			gobAddress := gobAddressY + (x/GobWidth)*GobSize*blockHeight
			swizzledOffset := gobAddress + int(table[x%GobWidth])
			swizzleData[swizzledOffset] = sourceData[count]
			count++
		}
	}
}
