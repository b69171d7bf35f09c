package blocklinear

import "github.com/shadercore/recompiler/core/math/sint"

// LevelInfo describes one mip level's texel dimensions, for
// CalculateMipLevelOffsets. BytesPerPixel is constant across a mip chain;
// Width/Height/Depth shrink by half (floor, minimum 1) per level.
type LevelInfo struct {
	Width, Height, Depth int
	BytesPerPixel         int
	BlockHeightLog2       int
	BlockDepthLog2        int
	Tiled                 bool
}

// mipDims returns the texel dimensions of level within a chain whose base
// level is base: the standard floor-halving with a floor of 1.
func mipDims(base LevelInfo, level int) (w, h, d int) {
	w = base.Width >> uint(level)
	h = base.Height >> uint(level)
	d = base.Depth >> uint(level)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if d < 1 {
		d = 1
	}
	return w, h, d
}

// CalculateLevelSize returns the size, in bytes, of level within base's mip
// chain, applying the automatic block-shrink: the block height/depth
// exponents used for this level are base's, reduced so neither exceeds the
// level's own gob count (spec §4.8).
func CalculateLevelSize(base LevelInfo, level int) int {
	w, h, d := mipDims(base, level)
	bh, bd := shrinkBlock(h, d, base.BlockHeightLog2, base.BlockDepthLog2)
	return CalculateSize(base.Tiled, base.BytesPerPixel, w, h, d, bh, bd)
}

// CalculateLevelOffset returns the cumulative byte offset of level within
// one layer: the sum of every preceding level's own (block-shrunk) size.
func CalculateLevelOffset(base LevelInfo, level int) int {
	offset := 0
	for l := 0; l < level; l++ {
		offset += CalculateLevelSize(base, l)
	}
	return offset
}

// MipLevelOffsets is the result of CalculateMipLevelOffsets: the cumulative
// offset of each level plus the total size of the whole mip chain (before
// any layer alignment).
type MipLevelOffsets struct {
	Offsets []int
	Total   int
}

// CalculateMipLevelOffsets returns the cumulative offset of every level in
// [0, levels) plus the chain's total size, each computed with the
// automatic per-level block shrink.
func CalculateMipLevelOffsets(base LevelInfo, levels int) MipLevelOffsets {
	offsets := make([]int, levels)
	total := 0
	for l := 0; l < levels; l++ {
		offsets[l] = total
		total += CalculateLevelSize(base, l)
	}
	return MipLevelOffsets{Offsets: offsets, Total: total}
}

// AlignLayerSize rounds size (typically a mip chain's Total) up to the
// alignment the next array layer must start at. When tileWidthSpacing > 0
// the alignment is 2^(gob_shift + spacing + bh + bd); otherwise the block
// height/depth exponents shrink toward the layer's own (height, depth)
// bounds the same way a mip level's block does, and the alignment is one
// full (possibly shrunk) block.
func AlignLayerSize(size, height, depth, blockHeightLog2, blockDepthLog2, tileWidthSpacing int) int {
	if tileWidthSpacing > 0 {
		alignment := 1 << uint(gobShift+tileWidthSpacing+blockHeightLog2+blockDepthLog2)
		return sint.AlignUp(size, alignment)
	}
	bh, bd := shrinkBlock(height, depth, blockHeightLog2, blockDepthLog2)
	alignment := blockSizeBytes(bh, bd)
	return sint.AlignUp(size, alignment)
}
