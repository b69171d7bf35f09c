// Package blocklinear computes offsets for the console GPU's block-linear
// texture layout: memory partitioned into 64x8x1-byte gobs (group of bytes),
// gobs grouped into blocks of 2^bh gobs tall and 2^bd gobs deep, addressed
// through a fixed per-gob byte permutation table.
//
// Every function here is a pure, re-entrant computation over plain integers:
// no floating point, no package-level mutable state beyond the swizzle
// table that init fills once, consistent with this being usable from multiple concurrent
// compiles (and, here, multiple concurrent texture uploads) without locking.
package blocklinear

import "github.com/shadercore/recompiler/core/math/sint"

const (
	// GobWidth, GobHeight and GobDepth are the fixed dimensions, in bytes,
	// of one group-of-bytes: the atomic unit of the block-linear layout.
	GobWidth  = 64
	GobHeight = 8
	GobDepth  = 1
	GobSize   = GobWidth * GobHeight * GobDepth // 512

	gobShiftX = 6
	gobShiftY = 3
	gobShiftZ = 0
	gobShift  = gobShiftX + gobShiftY + gobShiftZ // log2(GobSize) == 9
)

// swizzleTable is the fixed 8x64 per-gob byte permutation: byte (x, y)
// within a single gob maps to swizzleTable[y][x].
var swizzleTable [GobHeight][GobWidth]uint32

func init() {
	for y := 0; y < GobHeight; y++ {
		for x := 0; x < GobWidth; x++ {
			swizzleTable[y][x] = uint32((x%64/32)*256 + (y%8/2)*64 + (x%32/16)*32 + (y%2)*16 + (x % 16))
		}
	}
}

// SwizzleTableEntry returns the fixed per-gob permutation offset for byte
// (x, y) within a gob. Exposed for the concrete seed scenario check
// (SWIZZLE_TABLE[3][17] == 113).
func SwizzleTableEntry(y, x int) uint32 { return swizzleTable[y%GobHeight][x%GobWidth] }

// CalculateSize returns the size in bytes of one swizzled layer. For a
// linear (non-tiled) layer this is simply w*bpp*h*d; for a block-linear
// layer, w*bpp, h and d are each independently aligned up to the gob size
// in that dimension times 2^(the block's exponent in that dimension) (block
// width is always exactly one gob; see the package doc comment).
func CalculateSize(tiled bool, bpp, w, h, d, bh, bd int) int {
	if !tiled {
		return w * bpp * h * d
	}
	widthAligned := sint.AlignUp(w*bpp, GobWidth)
	heightAligned := sint.AlignUp(h, GobHeight<<uint(bh))
	depthAligned := sint.AlignUp(d, GobDepth<<uint(bd))
	return widthAligned * heightAligned * depthAligned
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// blockSizeBytes is the byte size of one full block: 2^bh gobs tall by
// 2^bd gobs deep by 1 gob wide.
func blockSizeBytes(bh, bd int) int {
	return GobSize << uint(bh+bd)
}

// shrinkExponent reduces exponent until 2^exponent no longer exceeds
// unitsInGobs, the automatic block-shrink spec §4.8 requires at each mip
// level and at each array layer: a block must never span more gobs than
// the surface actually has in that dimension.
func shrinkExponent(unitsInGobs, exponent int) int {
	for exponent > 0 && (1<<uint(exponent)) > unitsInGobs {
		exponent--
	}
	return exponent
}

// shrinkBlock returns the block height/depth exponents to use for a
// surface of the given height and depth (in texels), shrunk from the
// nominal (bh, bd) so that neither block dimension exceeds the surface's
// own gob count.
func shrinkBlock(height, depth, bh, bd int) (int, int) {
	heightInGobs := ceilDiv(sint.Max(height, 1), GobHeight)
	depthInGobs := ceilDiv(sint.Max(depth, 1), GobDepth)
	return shrinkExponent(heightInGobs, bh), shrinkExponent(depthInGobs, bd)
}
