package blocklinear

// Extent3D is a plain width/height/depth triple, in texels, used wherever
// the layout engine needs all three axes together (spec §3).
type Extent3D struct {
	Width, Height, Depth int
}

// TICEntry is the guest texture image control descriptor: the fields a
// compute shader's TIC slot carries for one bound texture (spec §3). The
// layout engine never reads a TIC directly; ResolveImageInfo derives the
// ImageInfo it actually operates on.
type TICEntry struct {
	BaseAddress          uint64
	Size                 Extent3D
	MipLevels            int
	Layers               int
	BytesPerPixel        int
	BlockHeightLog2      int
	BlockDepthLog2       int
	TileWidthSpacingLog2 int
	SRGB                 bool
	Tiled                bool
}

// ImageInfo is the resolved, ready-to-compute-with form of a TICEntry: every
// field the swizzle and mip/layer-offset functions need, with LayerStride
// already filled in. The layout engine is a pure function over ImageInfo;
// it holds no state of its own (spec §3, §6).
type ImageInfo struct {
	Size             Extent3D
	BytesPerPixel    int
	BlockHeightLog2  int
	BlockDepthLog2   int
	TileWidthSpacing int
	Tiled            bool
	Levels           int
	Layers           int
	LayerStride      int
}

// ResolveImageInfo derives an ImageInfo from a guest TICEntry, clamping
// MipLevels/Layers to at least one (a TIC with MipLevels==0 still names one
// resident level) and computing LayerStride once up front so callers never
// recompute it per access.
func ResolveImageInfo(tic TICEntry) ImageInfo {
	info := ImageInfo{
		Size:             tic.Size,
		BytesPerPixel:    tic.BytesPerPixel,
		BlockHeightLog2:  tic.BlockHeightLog2,
		BlockDepthLog2:   tic.BlockDepthLog2,
		TileWidthSpacing: tic.TileWidthSpacingLog2,
		Tiled:            tic.Tiled,
		Levels:           atLeastOne(tic.MipLevels),
		Layers:           atLeastOne(tic.Layers),
	}
	info.LayerStride = CalculateLayerStride(info)
	return info
}

// levelInfo projects ImageInfo down to the LevelInfo the mip-chain
// functions in mip.go already operate on.
func (info ImageInfo) levelInfo() LevelInfo {
	return LevelInfo{
		Width:           info.Size.Width,
		Height:          info.Size.Height,
		Depth:           info.Size.Depth,
		BytesPerPixel:   info.BytesPerPixel,
		BlockHeightLog2: info.BlockHeightLog2,
		BlockDepthLog2:  info.BlockDepthLog2,
		Tiled:           info.Tiled,
	}
}

// CalculateLayerStride returns the byte offset between consecutive array
// layers of info: the mip chain's total size aligned up to the next
// layer's start (spec §3, §6), grounded on the original's
// ImageInfo-shaped CalculateLayerStride.
func CalculateLayerStride(info ImageInfo) int {
	mip := CalculateMipLevelOffsets(info.levelInfo(), info.Levels)
	return AlignLayerSize(mip.Total, info.Size.Height, info.Size.Depth, info.BlockHeightLog2, info.BlockDepthLog2, info.TileWidthSpacing)
}

// CalculateSliceOffsets returns, for a 3D (Depth > 1) image, the byte offset
// of every depth slice across every mip level: level 0's slices first, then
// level 1's, and so on. Within a level, block-linear addressing places the
// 2^bd consecutive slices of one slice-group (bd being the level's shrunk
// block depth exponent) in adjacent gobs of the same blocks, matching
// layout.offset's Z-before-Y gob order, before advancing to the next
// slice-group, so the offset formula differs from a flat slice*sliceSize
// stride.
func CalculateSliceOffsets(info ImageInfo) []int {
	base := info.levelInfo()
	offsets := make([]int, 0, info.Size.Depth)

	mipOffset := 0
	for level := 0; level < info.Levels; level++ {
		w, h, d := mipDims(base, level)
		bh, bd := shrinkBlock(h, d, info.BlockHeightLog2, info.BlockDepthLog2)

		widthInGobs := atLeastOne(ceilDiv(w*info.BytesPerPixel, GobWidth))
		heightInBlocks := atLeastOne(ceilDiv(h, GobHeight<<uint(bh)))
		gobSizeShift := uint(bh) + gobShift
		sliceSize := (widthInGobs * heightInBlocks) << gobSizeShift

		zMask := (1 << uint(bd)) - 1
		for slice := 0; slice < d; slice++ {
			zLow := slice & zMask
			zHigh := slice &^ zMask
			offsets = append(offsets, mipOffset+(zLow<<gobShift)+zHigh*sliceSize)
		}
		mipOffset += CalculateLevelSize(base, level)
	}
	return offsets
}
