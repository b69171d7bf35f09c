package ir

// Stage is the guest shader stage a Program was decoded for (spec §3).
type Stage int

const (
	StageVertexA Stage = iota
	StageVertexB
	StageTessellationControl
	StageTessellationEval
	StageGeometry
	StageFragment
	StageCompute
)

func (s Stage) String() string {
	switch s {
	case StageVertexA:
		return "VertexA"
	case StageVertexB:
		return "VertexB"
	case StageTessellationControl:
		return "TessellationControl"
	case StageTessellationEval:
		return "TessellationEval"
	case StageGeometry:
		return "Geometry"
	case StageFragment:
		return "Fragment"
	case StageCompute:
		return "Compute"
	default:
		return "UnknownStage"
	}
}

// InterpolationMode is the fragment-stage per-attribute interpolation
// qualifier (spec §4.7 "Input/output declarations").
type InterpolationMode int

const (
	InterpSmooth InterpolationMode = iota
	InterpNoPerspective
	InterpFlat
)

// StorageBufferDescriptor records one constant-buffer-derived global
// pointer rewritten to an SSBO binding by the global-memory-to-SSBO pass
// (spec §4.5).
type StorageBufferDescriptor struct {
	Index        int
	CbufIndex    int
	CbufOffset   int
}

// TextureHandleDescriptor records one resolved bindless/bound texture
// handle (spec §4.5 "Texture-handle tracking").
type TextureHandleDescriptor struct {
	Index      int
	CbufIndex  int
	CbufOffset int
	Bindless   bool
	HasSecondaryHandle bool
	SecondaryCbufIndex  int
	SecondaryCbufOffset int
}

// ImageHandleDescriptor mirrors TextureHandleDescriptor for image
// (read/write, non-sampled) handles.
type ImageHandleDescriptor struct {
	Index      int
	CbufIndex  int
	CbufOffset int
	Bindless   bool
	Format     int
}

// AttrUse marks one generic attribute/patch slot as read and/or written,
// with its interpolation mode when read by a fragment shader.
type AttrUse struct {
	Used          bool
	Interpolation InterpolationMode
}

// Info aggregates everything a back-end or the Environment needs to know
// about a compiled Program beyond its instructions (spec §3 "Program").
type Info struct {
	Loads, Stores [32]AttrUse
	UsedPatches   map[int]bool

	StorageBuffersDescriptors []StorageBufferDescriptor
	TextureDescriptors        []TextureHandleDescriptor
	ImageDescriptors          []ImageHandleDescriptor
	TextureBufferDescriptors  []int
	ImageBufferDescriptors    []int

	UsesGlobalMemory     bool
	UsedStorageBufferTypes map[Type]bool

	XfbVaryings []XfbVarying
}

// XfbVarying records one transform-feedback varying assignment.
type XfbVarying struct {
	Attribute int
	Buffer    int
	Offset    int
	Stride    int
}

// Program is a list of basic blocks plus per-stage metadata (spec §3).
type Program struct {
	Blocks    []*Block
	PostOrder []*Block // reverse post-order, computed by the CFG builder

	Stage Stage

	LocalMemorySize  uint32
	SharedMemorySize uint32

	// InvocationCount is the tessellation-control invocation count; -1
	// when not applicable to Stage.
	InvocationCount int

	Info Info
}

// NewProgram creates an empty program for the given stage.
func NewProgram(stage Stage) *Program {
	return &Program{
		Stage:           stage,
		InvocationCount: -1,
		Info: Info{
			UsedPatches:            map[int]bool{},
			UsedStorageBufferTypes: map[Type]bool{},
		},
	}
}

// AddBlock appends a freshly created block to the program and returns it.
func (p *Program) AddBlock() *Block {
	b := NewBlock(len(p.Blocks))
	p.Blocks = append(p.Blocks, b)
	return b
}
