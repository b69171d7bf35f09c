package spirv

// The constants in this file restate the subset of the SPIR-V 1.3 binary
// encoding this package needs; they are not imported from anywhere, since
// the core is meant to produce the word stream with no external SPIR-V
// dependency (spec §4.7).

// Capability gates an optional instruction/type before it may appear in a
// module (spec §4.7 "capability gating").
type Capability uint32

const (
	CapabilityMatrix  Capability = 0
	CapabilityShader  Capability = 1
	CapabilityFloat16 Capability = 9
	CapabilityFloat64 Capability = 10
	CapabilityInt64   Capability = 11
	CapabilityInt16   Capability = 22
	CapabilityInt8    Capability = 39
)

// OpCode is a SPIR-V instruction opcode.
type OpCode uint16

const (
	OpNop               OpCode = 0
	OpUndef             OpCode = 1
	OpSource            OpCode = 3
	OpName              OpCode = 5
	OpMemberName        OpCode = 6
	OpString            OpCode = 7
	OpExtension         OpCode = 10
	OpExtInstImport     OpCode = 11
	OpExtInst           OpCode = 12
	OpMemoryModel       OpCode = 14
	OpEntryPoint        OpCode = 15
	OpExecutionMode     OpCode = 16
	OpCapability        OpCode = 17
	OpTypeVoid          OpCode = 19
	OpTypeBool          OpCode = 20
	OpTypeInt           OpCode = 21
	OpTypeFloat         OpCode = 22
	OpTypeVector        OpCode = 23
	OpTypeMatrix        OpCode = 24
	OpTypeImage         OpCode = 25
	OpTypeSampler       OpCode = 26
	OpTypeSampledImage  OpCode = 27
	OpTypeArray         OpCode = 28
	OpTypeRuntimeArray  OpCode = 29
	OpTypeStruct        OpCode = 30
	OpTypePointer       OpCode = 32
	OpTypeFunction      OpCode = 33
	OpConstantTrue      OpCode = 41
	OpConstantFalse     OpCode = 42
	OpConstant          OpCode = 43
	OpConstantComposite OpCode = 44
	OpConstantNull      OpCode = 46
	OpFunction          OpCode = 54
	OpFunctionParameter OpCode = 55
	OpFunctionEnd       OpCode = 56
	OpFunctionCall      OpCode = 57
	OpVariable          OpCode = 59
	OpLoad              OpCode = 61
	OpStore             OpCode = 62
	OpAccessChain       OpCode = 65
	OpDecorate          OpCode = 71
	OpMemberDecorate    OpCode = 72
	OpVectorShuffle     OpCode = 79
	OpCompositeConstruct OpCode = 80
	OpCompositeExtract  OpCode = 81
	OpCompositeInsert   OpCode = 82

	OpConvertFToU OpCode = 109
	OpConvertFToS OpCode = 110
	OpConvertSToF OpCode = 111
	OpConvertUToF OpCode = 112
	OpUConvert    OpCode = 113
	OpSConvert    OpCode = 114
	OpFConvert    OpCode = 115
	OpBitcast     OpCode = 124

	OpSNegate OpCode = 126
	OpFNegate OpCode = 127
	OpIAdd    OpCode = 128
	OpFAdd    OpCode = 129
	OpISub    OpCode = 130
	OpFSub    OpCode = 131
	OpIMul    OpCode = 132
	OpFMul    OpCode = 133
	OpUDiv    OpCode = 134
	OpSDiv    OpCode = 135
	OpFDiv    OpCode = 136
	OpUMod    OpCode = 137
	OpSRem    OpCode = 138
	OpSMod    OpCode = 139
	OpFRem    OpCode = 140
	OpFMod    OpCode = 141

	OpLogicalEqual    OpCode = 164
	OpLogicalNotEqual OpCode = 165
	OpLogicalOr       OpCode = 166
	OpLogicalAnd      OpCode = 167
	OpLogicalNot      OpCode = 168
	OpSelect          OpCode = 169
	OpIEqual          OpCode = 170
	OpINotEqual       OpCode = 171

	OpUGreaterThan      OpCode = 172
	OpSGreaterThan      OpCode = 173
	OpUGreaterThanEqual OpCode = 174
	OpSGreaterThanEqual OpCode = 175
	OpULessThan         OpCode = 176
	OpSLessThan         OpCode = 177
	OpULessThanEqual    OpCode = 178
	OpSLessThanEqual    OpCode = 179

	OpFOrdEqual            OpCode = 180
	OpFUnordEqual          OpCode = 181
	OpFOrdNotEqual         OpCode = 182
	OpFUnordNotEqual       OpCode = 183
	OpFOrdLessThan         OpCode = 184
	OpFUnordLessThan       OpCode = 185
	OpFOrdGreaterThan      OpCode = 186
	OpFUnordGreaterThan    OpCode = 187
	OpFOrdLessThanEqual    OpCode = 188
	OpFUnordLessThanEqual  OpCode = 189
	OpFOrdGreaterThanEqual OpCode = 190
	OpFUnordGreaterThanEqual OpCode = 191

	OpShiftRightLogical    OpCode = 194
	OpShiftRightArithmetic OpCode = 195
	OpShiftLeftLogical     OpCode = 196
	OpBitwiseOr            OpCode = 197
	OpBitwiseXor           OpCode = 198
	OpBitwiseAnd           OpCode = 199
	OpNot                  OpCode = 200

	OpBitFieldInsert      OpCode = 201
	OpBitFieldSExtract    OpCode = 202
	OpBitFieldUExtract    OpCode = 203
	OpBitReverse          OpCode = 204
	OpBitCount            OpCode = 205

	OpDPdx         OpCode = 207
	OpDPdy         OpCode = 208
	OpFwidth       OpCode = 209

	OpControlBarrier OpCode = 224
	OpMemoryBarrier  OpCode = 225

	OpAtomicLoad           OpCode = 227
	OpAtomicStore          OpCode = 228
	OpAtomicExchange       OpCode = 229
	OpAtomicCompareExchange OpCode = 230
	OpAtomicIIncrement     OpCode = 232
	OpAtomicIDecrement     OpCode = 233
	OpAtomicIAdd           OpCode = 234
	OpAtomicISub           OpCode = 235
	OpAtomicSMin           OpCode = 236
	OpAtomicUMin           OpCode = 237
	OpAtomicSMax           OpCode = 238
	OpAtomicUMax           OpCode = 239
	OpAtomicAnd            OpCode = 240
	OpAtomicOr             OpCode = 241
	OpAtomicXor            OpCode = 242

	OpPhi               OpCode = 245
	OpLoopMerge         OpCode = 246
	OpSelectionMerge     OpCode = 247
	OpLabel             OpCode = 248
	OpBranch            OpCode = 249
	OpBranchConditional OpCode = 250
	OpSwitch            OpCode = 251
	OpKill              OpCode = 252
	OpReturn            OpCode = 253
	OpReturnValue       OpCode = 254
	OpUnreachable       OpCode = 255

	OpSampledImage          OpCode = 86
	OpImageSampleImplicitLod OpCode = 87
	OpImageSampleExplicitLod OpCode = 88
	OpImageFetch            OpCode = 95
	OpImageRead             OpCode = 98
	OpImageWrite            OpCode = 99
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

const (
	DecorationBlock         Decoration = 2
	DecorationRowMajor      Decoration = 4
	DecorationColMajor      Decoration = 5
	DecorationArrayStride   Decoration = 6
	DecorationMatrixStride  Decoration = 7
	DecorationBuiltIn       Decoration = 11
	DecorationNoContraction Decoration = 42
	DecorationLocation      Decoration = 30
	DecorationBinding       Decoration = 33
	DecorationDescriptorSet Decoration = 34
	DecorationOffset        Decoration = 35
)

// BuiltIn identifies a SPIR-V built-in variable (used with DecorationBuiltIn).
type BuiltIn uint32

const (
	BuiltInPosition      BuiltIn = 0
	BuiltInFragCoord     BuiltIn = 15
	BuiltInFragDepth     BuiltIn = 22
	BuiltInVertexIndex   BuiltIn = 42
	BuiltInInstanceIndex BuiltIn = 43
)

// ExecutionModel identifies the shader stage an entry point runs in.
type ExecutionModel uint32

const (
	ExecutionModelVertex    ExecutionModel = 0
	ExecutionModelGeometry  ExecutionModel = 3
	ExecutionModelFragment  ExecutionModel = 4
	ExecutionModelGLCompute ExecutionModel = 5
)

// ExecutionMode represents a SPIR-V execution mode.
type ExecutionMode uint32

const (
	ExecutionModeOriginUpperLeft ExecutionMode = 7
	ExecutionModeDepthReplacing  ExecutionMode = 12
	ExecutionModeLocalSize       ExecutionMode = 17
)

// StorageClass represents a SPIR-V storage class.
type StorageClass uint32

const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassStorageBuffer   StorageClass = 12
)

// AddressingModel represents a SPIR-V addressing model.
type AddressingModel uint32

const (
	AddressingModelLogical AddressingModel = 0
)

// MemoryModel represents a SPIR-V memory model.
type MemoryModel uint32

const (
	MemoryModelGLSL450 MemoryModel = 1
)

// FunctionControl represents OpFunction's control mask.
type FunctionControl uint32

const (
	FunctionControlNone FunctionControl = 0x0
)

// ImageFormat represents a SPIR-V image format (for OpTypeImage).
type ImageFormat uint32

const (
	ImageFormatUnknown ImageFormat = 0
	ImageFormatRgba32f ImageFormat = 1
	ImageFormatR32f    ImageFormat = 3
	ImageFormatRgba8   ImageFormat = 4
	ImageFormatR32ui   ImageFormat = 33
	ImageFormatR32i    ImageFormat = 24
)

// Memory scope for atomic/barrier operations.
const (
	ScopeDevice    uint32 = 1
	ScopeWorkgroup uint32 = 2
	ScopeInvocation uint32 = 4
)

// Memory semantics for atomic/barrier operations.
const (
	MemorySemanticsNone            uint32 = 0x0
	MemorySemanticsAcquire         uint32 = 0x2
	MemorySemanticsRelease         uint32 = 0x4
	MemorySemanticsAcquireRelease  uint32 = 0x8
	MemorySemanticsUniformMemory   uint32 = 0x40
	MemorySemanticsWorkgroupMemory uint32 = 0x100
	MemorySemanticsImageMemory     uint32 = 0x800
)

// GLSL.std.450 extended-instruction-set opcodes used by the math lowering
// this back-end actually exercises (floor/ceil/sqrt/min/max/fma/etc.); the
// full set the reference writer restates is far larger than this core uses.
const (
	GLSLstd450Round       uint32 = 1
	GLSLstd450Trunc       uint32 = 3
	GLSLstd450FAbs        uint32 = 4
	GLSLstd450SAbs        uint32 = 5
	GLSLstd450Floor       uint32 = 8
	GLSLstd450Ceil        uint32 = 9
	GLSLstd450Fract       uint32 = 10
	GLSLstd450Sin         uint32 = 13
	GLSLstd450Cos         uint32 = 14
	GLSLstd450Exp2        uint32 = 29
	GLSLstd450Log2        uint32 = 30
	GLSLstd450Sqrt        uint32 = 31
	GLSLstd450InverseSqrt uint32 = 32
	GLSLstd450FMin        uint32 = 37
	GLSLstd450UMin        uint32 = 38
	GLSLstd450SMin        uint32 = 39
	GLSLstd450FMax        uint32 = 40
	GLSLstd450UMax        uint32 = 41
	GLSLstd450SMax        uint32 = 42
	GLSLstd450FClamp      uint32 = 43
	GLSLstd450Fma         uint32 = 50
	GLSLstd450FindILsb    uint32 = 73
	GLSLstd450FindSMsb    uint32 = 74
	GLSLstd450FindUMsb    uint32 = 75
)
