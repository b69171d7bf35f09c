package blocklinear

import "github.com/shadercore/recompiler/core/math/sint"

// ASTCCompressedSize returns the byte size of one ASTC-compressed layer:
// 16 bytes per compressed block, with width and height independently
// aligned up to the format's block dimensions before dividing into blocks.
// Grounded on the host image library's FmtASTC.size alignment formula,
// re-derived here for block-linear layer sizing rather than decompression.
func ASTCCompressedSize(blockWidth, blockHeight, w, h, d int) int {
	return (16 * sint.AlignUp(w, blockWidth) * sint.AlignUp(h, blockHeight)) / (blockWidth * blockHeight) * d
}

// ASTCLevelInfo builds a LevelInfo for an ASTC-compressed mip chain: the
// "bytes per pixel" plane CalculateSize works in doesn't apply directly to
// a compressed format, so compressed levels instead express width/height
// in blocks and bpp as the fixed 16-byte ASTC block size.
func ASTCLevelInfo(blockWidth, blockHeight, w, h, d int, bh, bd int, tiled bool) LevelInfo {
	return LevelInfo{
		Width:           ceilDiv(w, blockWidth),
		Height:          ceilDiv(h, blockHeight),
		Depth:           d,
		BytesPerPixel:   16,
		BlockHeightLog2: bh,
		BlockDepthLog2:  bd,
		Tiled:           tiled,
	}
}
