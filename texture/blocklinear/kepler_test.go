package blocklinear

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetGOBOffsetMatchesLayoutOffsetAtGobGranularity(t *testing.T) {
	// GetGOBOffset names the start of the gob covering (dstX, dstY); it
	// must agree with layout.offset's byte address once both are rounded
	// down to the start of that gob (the swizzle-table permutation within
	// a gob is exactly what GetGOBOffset, unlike layout.offset, ignores).
	width, height, bpp, bh := 256, 128, 4, 1
	l := newLayout(width, height, 1, bpp, bh, 0)
	for _, p := range []struct{ x, y int }{{0, 0}, {60, 0}, {64, 8}, {192, 64}, {0, 120}} {
		xb := p.x * bpp
		got := GetGOBOffset(width, height, p.x, p.y, bh, bpp)
		want := l.offset(xb, p.y, 0) - int(SwizzleTableEntry(p.y, xb))
		require.Equal(t, want, got, "x=%d y=%d", p.x, p.y)
	}
}

func TestSwizzleKeplerMatchesSwizzleTexture(t *testing.T) {
	width, height, bpp, bh := 64, 32, 4, 1
	input := make([]byte, width*height*bpp)
	rng := rand.New(rand.NewSource(11))
	rng.Read(input)

	want := make([]byte, CalculateSize(true, bpp, width, height, 1, bh, 0))
	SwizzleTexture(want, input, bpp, width, height, 1, bh, 0, 0)

	got := make([]byte, len(want))
	SwizzleKepler(width*bpp, height, 0, 0, bh, len(input), input, got)
	require.Equal(t, want, got)
}

func TestResolveImageInfoClampsLevelsAndLayers(t *testing.T) {
	info := ResolveImageInfo(TICEntry{Size: Extent3D{Width: 16, Height: 16, Depth: 1}, BytesPerPixel: 4})
	require.Equal(t, 1, info.Levels)
	require.Equal(t, 1, info.Layers)
	require.Greater(t, info.LayerStride, 0)
}

func TestCalculateLayerStrideMatchesAlignedMipTotal(t *testing.T) {
	info := ImageInfo{
		Size:            Extent3D{Width: 256, Height: 256, Depth: 1},
		BytesPerPixel:   4,
		BlockHeightLog2: 4,
		Tiled:           true,
		Levels:          9,
	}
	mip := CalculateMipLevelOffsets(info.levelInfo(), info.Levels)
	want := AlignLayerSize(mip.Total, info.Size.Height, info.Size.Depth, info.BlockHeightLog2, info.BlockDepthLog2, info.TileWidthSpacing)
	require.Equal(t, want, CalculateLayerStride(info))
}

func TestCalculateSliceOffsetsDistinctWithinLevel(t *testing.T) {
	info := ImageInfo{
		Size:            Extent3D{Width: 64, Height: 64, Depth: 8},
		BytesPerPixel:   4,
		BlockHeightLog2: 2,
		BlockDepthLog2:  1,
		Tiled:           true,
		Levels:          1,
	}
	offsets := CalculateSliceOffsets(info)
	require.Len(t, offsets, int(info.Size.Depth))
	seen := map[int]bool{}
	for _, off := range offsets {
		require.False(t, seen[off], "duplicate slice offset %d", off)
		seen[off] = true
	}
}

func TestCalculateSliceOffsetsCoversEveryLevel(t *testing.T) {
	info := ImageInfo{
		Size:            Extent3D{Width: 32, Height: 32, Depth: 4},
		BytesPerPixel:   4,
		BlockHeightLog2: 1,
		Tiled:           true,
		Levels:          3,
	}
	// Depth halves each level (4, 2, 1): total slice count is 4+2+1.
	offsets := CalculateSliceOffsets(info)
	require.Len(t, offsets, 4+2+1)
}
