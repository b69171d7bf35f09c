package blocklinear

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwizzleTableSample(t *testing.T) {
	// y=3: (3%8/2)=1 -> 64; (3%2)=1 -> 16. x=17: (17%64/32)=0; (17%32/16)=1 -> 32; (17%16)=1.
	require.Equal(t, uint32(113), SwizzleTableEntry(3, 17))
}

func TestCalculateSizeLinear(t *testing.T) {
	require.Equal(t, 4*4*16*1, CalculateSize(false, 4, 4, 16, 1, 0, 0))
}

func TestCalculateSizeTiledAlignsEachAxis(t *testing.T) {
	// w*bpp=8 aligns up to one gob-row (64); h=3 aligns up to 8<<1=16.
	got := CalculateSize(true, 4, 2, 3, 1, 1, 0)
	require.Equal(t, 64*16*1, got)
}

func TestSwizzleRoundTrip(t *testing.T) {
	cases := []struct {
		w, h, d, bpp, bh, bd int
	}{
		{16, 16, 1, 4, 0, 0},
		{64, 32, 1, 4, 2, 0},
		{32, 64, 4, 8, 1, 1},
		{8, 8, 1, 1, 0, 0},
		{128, 8, 1, 16, 0, 0},
		{17, 23, 3, 12, 1, 2},
	}
	rng := rand.New(rand.NewSource(1))
	for _, c := range cases {
		size := c.w * c.h * c.d * c.bpp
		if size > 64*1024*1024 {
			continue
		}
		input := make([]byte, size)
		rng.Read(input)

		swizzled := make([]byte, CalculateSize(true, c.bpp, c.w, c.h, c.d, c.bh, c.bd))
		SwizzleTexture(swizzled, input, c.bpp, c.w, c.h, c.d, c.bh, c.bd, 0)

		output := make([]byte, size)
		UnswizzleTexture(output, swizzled, c.bpp, c.w, c.h, c.d, c.bh, c.bd, 0)

		require.Equal(t, input, output, "w=%d h=%d d=%d bpp=%d bh=%d bd=%d", c.w, c.h, c.d, c.bpp, c.bh, c.bd)
	}
}

func TestSwizzleOffsetsAreDistinctWithinOneLayer(t *testing.T) {
	w, h, d, bpp, bh, bd := 32, 16, 2, 4, 1, 0
	l := newLayout(w, h, d, bpp, bh, bd)
	seen := map[int]bool{}
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				off := l.offset(x*bpp, y, z)
				require.False(t, seen[off], "duplicate swizzled offset at x=%d y=%d z=%d", x, y, z)
				seen[off] = true
			}
		}
	}
}

func TestMipLevelOffsetMonotonic(t *testing.T) {
	base := LevelInfo{Width: 256, Height: 256, Depth: 1, BytesPerPixel: 4, BlockHeightLog2: 4, BlockDepthLog2: 0, Tiled: true}
	const levels = 9
	result := CalculateMipLevelOffsets(base, levels)
	for level := 0; level < levels-1; level++ {
		require.Greater(t, result.Offsets[level+1], result.Offsets[level],
			"level %d offset should exceed level %d", level+1, level)
		delta := result.Offsets[level+1] - result.Offsets[level]
		require.Equal(t, CalculateLevelSize(base, level), delta)
	}
}

func TestMipLevelOffsetMonotonicRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		base := LevelInfo{
			Width:           32 + rng.Intn(480),
			Height:          32 + rng.Intn(480),
			Depth:           1,
			BytesPerPixel:   []int{1, 2, 4, 8}[rng.Intn(4)],
			BlockHeightLog2: rng.Intn(5),
			BlockDepthLog2:  0,
			Tiled:           true,
		}
		levels := 4 + rng.Intn(4)
		result := CalculateMipLevelOffsets(base, levels)
		for level := 0; level < levels-1; level++ {
			require.GreaterOrEqual(t, result.Offsets[level+1], result.Offsets[level])
		}
	}
}

func TestAlignLayerSizeWithTileWidthSpacing(t *testing.T) {
	// spacing=0 falls back to block-shrink alignment; a positive spacing
	// widens the alignment to 2^(gob_shift + spacing + bh + bd).
	got := AlignLayerSize(1, 1024, 1, 3, 4, 4)
	want := 1 << uint(gobShift+4+3+4)
	require.Equal(t, want, got)
}

func TestAlignLayerSizeShrinksBlockTowardLayerBounds(t *testing.T) {
	// A layer much shorter than the nominal block height shrinks bh down,
	// so the alignment is smaller than the unshrunk block size would be.
	unshrunk := blockSizeBytes(5, 0)
	got := AlignLayerSize(1, 8, 1, 5, 0, 0)
	require.Less(t, got, unshrunk)
}

func TestSwizzleSubrectMatchesFullSwizzleRegion(t *testing.T) {
	w, h, bpp, bh, bd := 32, 16, 4, 1, 0
	input := make([]byte, w*h*bpp)
	rng := rand.New(rand.NewSource(3))
	rng.Read(input)

	full := make([]byte, CalculateSize(true, bpp, w, h, 1, bh, bd))
	SwizzleTexture(full, input, bpp, w, h, 1, bh, bd, 0)

	rectW, rectH, offX, offY := 8, 4, 4, 2
	rectLinear := make([]byte, rectW*rectH*bpp)
	for y := 0; y < rectH; y++ {
		copy(rectLinear[y*rectW*bpp:(y+1)*rectW*bpp], input[(offY+y)*w*bpp+offX*bpp:(offY+y)*w*bpp+offX*bpp+rectW*bpp])
	}

	swizzledRect := make([]byte, CalculateSize(true, bpp, w, h, 1, bh, bd))
	SwizzleSubrect(swizzledRect, rectLinear, bpp, w, h, 1, bh, bd, offX, offY, rectW, rectH, 0)

	recovered := make([]byte, rectW*rectH*bpp)
	UnswizzleSubrect(recovered, swizzledRect, bpp, w, h, 1, bh, bd, offX, offY, rectW, rectH, 0)
	require.Equal(t, rectLinear, recovered)
}

func TestASTCCompressedSize(t *testing.T) {
	// 12x12 blocks, 16 bytes each; a 24x24 image is exactly 2x2 blocks.
	require.Equal(t, 16*2*2, ASTCCompressedSize(12, 12, 24, 24, 1))
	// Dimensions not a multiple of the block size still round up to a
	// whole block.
	require.Equal(t, 16*2*2, ASTCCompressedSize(12, 12, 13, 13, 1))
}
