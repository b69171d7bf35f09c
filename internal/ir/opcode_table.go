package ir

// opcodeEntry is one row of the declarative opcode table: name, result
// type, and fixed argument types. Phi is listed with a nil args slice and
// handled specially (variadic, spec §4.1).
type opcodeEntry struct {
	name   string
	result Type
	args   []Type
}

const (
	OpVoid Opcode = iota
	OpIdentity

	OpUndefU1
	OpUndefU8
	OpUndefU16
	OpUndefU32
	OpUndefU64
	OpUndefF16
	OpUndefF32
	OpUndefF64

	OpPhi

	// Pre-SSA guest-variable access. The decoder emits these; the SSA
	// rewriter (C4) replaces every Get* with the value ReadVariable
	// resolves to and drops the Set*s entirely once their writes have
	// been folded into the current-definition map.
	OpGetRegister
	OpSetRegister
	OpGetPred
	OpSetPred
	OpGetZFlag
	OpSetZFlag
	OpGetSFlag
	OpSetSFlag
	OpGetCFlag
	OpSetCFlag
	OpGetOFlag
	OpSetOFlag
	OpGetGotoVariable
	OpSetGotoVariable
	OpGetIndirectBranchVariable
	OpSetIndirectBranchVariable
	OpGetAttribute
	OpSetAttribute
	OpGetPatch
	OpSetPatch

	// Pseudo-instruction consumers (spec §3 "associated pseudo-instructions").
	OpGetZeroFromOp
	OpGetSignFromOp
	OpGetCarryFromOp
	OpGetOverflowFromOp
	OpGetSparseFromOp
	OpGetInBoundsFromOp

	// Integer arithmetic/logical.
	OpIAdd32
	OpIAdd64
	OpISub32
	OpIMul32
	OpINeg32
	OpIAbs32
	OpIMin32
	OpIMax32
	OpUMin32
	OpUMax32
	OpBitwiseAnd32
	OpBitwiseOr32
	OpBitwiseXor32
	OpBitwiseNot32
	OpShiftLeftLogical32
	OpShiftRightLogical32
	OpShiftRightArithmetic32
	OpBitFieldUExtract
	OpBitFieldSExtract
	OpBitFieldInsert
	OpBitCastU32F32
	OpBitCastF32U32
	OpBitCastU64F64
	OpBitCastF64U64
	OpPackUint2x32
	OpUnpackUint2x32

	// Floating point.
	OpFPAdd16x2
	OpFPAdd32
	OpFPAdd64
	OpFPMul32
	OpFPFma32
	OpFPMin32
	OpFPMax32
	OpFPNeg32
	OpFPAbs32
	OpFPSaturate32
	OpFPRoundEven32
	OpFPOrdEqual32
	OpFPOrdNotEqual32
	OpFPOrdLessThan32
	OpFPOrdGreaterThan32
	OpFPUnordLessThan32
	OpFPIsNan32

	// Conversions.
	OpConvertS32F32
	OpConvertU32F32
	OpConvertF32S32
	OpConvertF32U32
	OpConvertF32F16
	OpConvertF16F32
	OpConvertF64F32
	OpConvertF32F64

	// Logical / predicate.
	OpLogicalAnd
	OpLogicalOr
	OpLogicalXor
	OpLogicalNot
	OpSelectU32
	OpIEqual
	OpINotEqual
	OpSLessThan
	OpULessThan

	// Constant-buffer loads.
	OpGetCbufU8
	OpGetCbufS8
	OpGetCbufU16
	OpGetCbufS16
	OpGetCbufU32
	OpGetCbufF32
	OpGetCbufU32x2

	// Global (raw 64-bit guest pointer) memory.
	OpLoadGlobalU8
	OpLoadGlobalU16
	OpLoadGlobal32
	OpLoadGlobal64
	OpWriteGlobalU8
	OpWriteGlobalU16
	OpWriteGlobal32
	OpWriteGlobal64

	// Storage-buffer (SSBO) memory, the target of global->SSBO lowering (C5).
	OpLoadStorageU8
	OpLoadStorageU16
	OpLoadStorage32
	OpLoadStorage64
	OpWriteStorageU8
	OpWriteStorageU16
	OpWriteStorage32
	OpWriteStorage64

	// Shared (workgroup) memory.
	OpLoadSharedU32
	OpWriteSharedU32
	OpLoadSharedU64
	OpWriteSharedU64

	// Atomics.
	OpSharedAtomicIAdd32
	OpStorageAtomicIAdd32
	OpGlobalAtomicIAdd32
	OpStorageAtomicFPAdd32

	// Texture sampling / images.
	OpBindlessImageSampleImplicitLod
	OpBoundImageSampleImplicitLod
	OpImageSampleImplicitLod
	OpImageSampleExplicitLod
	OpImageFetch
	OpImageGather
	OpImageGatherDref
	OpImageQueryDimensions
	OpImageQueryLod
	OpImageRead
	OpImageWrite
	OpBindlessImageWrite

	// Control flow.
	OpBranch
	OpBranchConditional
	OpReturn
	OpDiscard
	OpEndPrimitive
	OpEmitVertex

	// Subgroup.
	OpSubgroupShuffle
	OpVoteAll
	OpVoteAny
	OpBallot

	opcodeCount
)

var opcodeTable = map[Opcode]opcodeEntry{
	OpVoid:     {"Void", TypeVoid, nil},
	OpIdentity: {"Identity", TypeOpaque, []Type{TypeOpaque}},

	OpUndefU1:  {"UndefU1", TypeU1, nil},
	OpUndefU8:  {"UndefU8", TypeU8, nil},
	OpUndefU16: {"UndefU16", TypeU16, nil},
	OpUndefU32: {"UndefU32", TypeU32, nil},
	OpUndefU64: {"UndefU64", TypeU64, nil},
	OpUndefF16: {"UndefF16", TypeF16, nil},
	OpUndefF32: {"UndefF32", TypeF32, nil},
	OpUndefF64: {"UndefF64", TypeF64, nil},

	OpPhi: {"Phi", TypeOpaque, nil},

	OpGetRegister: {"GetRegister", TypeU32, nil},
	OpSetRegister: {"SetRegister", TypeVoid, []Type{TypeU32}},
	OpGetPred:     {"GetPred", TypeU1, nil},
	OpSetPred:     {"SetPred", TypeVoid, []Type{TypeU1}},
	OpGetZFlag:    {"GetZFlag", TypeU1, nil},
	OpSetZFlag:    {"SetZFlag", TypeVoid, []Type{TypeU1}},
	OpGetSFlag:    {"GetSFlag", TypeU1, nil},
	OpSetSFlag:    {"SetSFlag", TypeVoid, []Type{TypeU1}},
	OpGetCFlag:    {"GetCFlag", TypeU1, nil},
	OpSetCFlag:    {"SetCFlag", TypeVoid, []Type{TypeU1}},
	OpGetOFlag:    {"GetOFlag", TypeU1, nil},
	OpSetOFlag:    {"SetOFlag", TypeVoid, []Type{TypeU1}},

	OpGetGotoVariable:           {"GetGotoVariable", TypeU1, nil},
	OpSetGotoVariable:           {"SetGotoVariable", TypeVoid, []Type{TypeU1}},
	OpGetIndirectBranchVariable: {"GetIndirectBranchVariable", TypeU32, nil},
	OpSetIndirectBranchVariable: {"SetIndirectBranchVariable", TypeVoid, []Type{TypeU32}},
	OpGetAttribute:              {"GetAttribute", TypeF32, nil},
	OpSetAttribute:              {"SetAttribute", TypeVoid, []Type{TypeF32}},
	OpGetPatch:                  {"GetPatch", TypeF32, nil},
	OpSetPatch:                  {"SetPatch", TypeVoid, []Type{TypeF32}},

	OpGetZeroFromOp:     {"GetZeroFromOp", TypeU1, []Type{TypeOpaque}},
	OpGetSignFromOp:     {"GetSignFromOp", TypeU1, []Type{TypeOpaque}},
	OpGetCarryFromOp:    {"GetCarryFromOp", TypeU1, []Type{TypeOpaque}},
	OpGetOverflowFromOp: {"GetOverflowFromOp", TypeU1, []Type{TypeOpaque}},
	OpGetSparseFromOp:   {"GetSparseFromOp", TypeU1, []Type{TypeOpaque}},
	OpGetInBoundsFromOp: {"GetInBoundsFromOp", TypeU1, []Type{TypeOpaque}},

	OpIAdd32:                {"IAdd32", TypeU32, []Type{TypeU32, TypeU32}},
	OpIAdd64:                {"IAdd64", TypeU64, []Type{TypeU64, TypeU64}},
	OpISub32:                {"ISub32", TypeU32, []Type{TypeU32, TypeU32}},
	OpIMul32:                {"IMul32", TypeU32, []Type{TypeU32, TypeU32}},
	OpINeg32:                {"INeg32", TypeU32, []Type{TypeU32}},
	OpIAbs32:                {"IAbs32", TypeU32, []Type{TypeU32}},
	OpIMin32:                {"IMin32", TypeU32, []Type{TypeU32, TypeU32}},
	OpIMax32:                {"IMax32", TypeU32, []Type{TypeU32, TypeU32}},
	OpUMin32:                {"UMin32", TypeU32, []Type{TypeU32, TypeU32}},
	OpUMax32:                {"UMax32", TypeU32, []Type{TypeU32, TypeU32}},
	OpBitwiseAnd32:          {"BitwiseAnd32", TypeU32, []Type{TypeU32, TypeU32}},
	OpBitwiseOr32:           {"BitwiseOr32", TypeU32, []Type{TypeU32, TypeU32}},
	OpBitwiseXor32:          {"BitwiseXor32", TypeU32, []Type{TypeU32, TypeU32}},
	OpBitwiseNot32:          {"BitwiseNot32", TypeU32, []Type{TypeU32}},
	OpShiftLeftLogical32:    {"ShiftLeftLogical32", TypeU32, []Type{TypeU32, TypeU32}},
	OpShiftRightLogical32:   {"ShiftRightLogical32", TypeU32, []Type{TypeU32, TypeU32}},
	OpShiftRightArithmetic32: {"ShiftRightArithmetic32", TypeU32, []Type{TypeU32, TypeU32}},
	OpBitFieldUExtract:      {"BitFieldUExtract", TypeU32, []Type{TypeU32, TypeU32, TypeU32}},
	OpBitFieldSExtract:      {"BitFieldSExtract", TypeU32, []Type{TypeU32, TypeU32, TypeU32}},
	OpBitFieldInsert:        {"BitFieldInsert", TypeU32, []Type{TypeU32, TypeU32, TypeU32, TypeU32}},
	OpBitCastU32F32:         {"BitCastU32F32", TypeU32, []Type{TypeF32}},
	OpBitCastF32U32:         {"BitCastF32U32", TypeF32, []Type{TypeU32}},
	OpBitCastU64F64:         {"BitCastU64F64", TypeU64, []Type{TypeF64}},
	OpBitCastF64U64:         {"BitCastF64U64", TypeF64, []Type{TypeU64}},
	OpPackUint2x32:          {"PackUint2x32", TypeU64, []Type{TypeU32x2}},
	OpUnpackUint2x32:        {"UnpackUint2x32", TypeU32x2, []Type{TypeU64}},

	OpFPAdd16x2:      {"FPAdd16x2", TypeF16x2, []Type{TypeF16x2, TypeF16x2}},
	OpFPAdd32:        {"FPAdd32", TypeF32, []Type{TypeF32, TypeF32}},
	OpFPAdd64:        {"FPAdd64", TypeF64, []Type{TypeF64, TypeF64}},
	OpFPMul32:        {"FPMul32", TypeF32, []Type{TypeF32, TypeF32}},
	OpFPFma32:        {"FPFma32", TypeF32, []Type{TypeF32, TypeF32, TypeF32}},
	OpFPMin32:        {"FPMin32", TypeF32, []Type{TypeF32, TypeF32}},
	OpFPMax32:        {"FPMax32", TypeF32, []Type{TypeF32, TypeF32}},
	OpFPNeg32:        {"FPNeg32", TypeF32, []Type{TypeF32}},
	OpFPAbs32:        {"FPAbs32", TypeF32, []Type{TypeF32}},
	OpFPSaturate32:   {"FPSaturate32", TypeF32, []Type{TypeF32}},
	OpFPRoundEven32:  {"FPRoundEven32", TypeF32, []Type{TypeF32}},
	OpFPOrdEqual32:    {"FPOrdEqual32", TypeU1, []Type{TypeF32, TypeF32}},
	OpFPOrdNotEqual32: {"FPOrdNotEqual32", TypeU1, []Type{TypeF32, TypeF32}},
	OpFPOrdLessThan32: {"FPOrdLessThan32", TypeU1, []Type{TypeF32, TypeF32}},
	OpFPOrdGreaterThan32: {"FPOrdGreaterThan32", TypeU1, []Type{TypeF32, TypeF32}},
	OpFPUnordLessThan32:  {"FPUnordLessThan32", TypeU1, []Type{TypeF32, TypeF32}},
	OpFPIsNan32:      {"FPIsNan32", TypeU1, []Type{TypeF32}},

	OpConvertS32F32: {"ConvertS32F32", TypeU32, []Type{TypeF32}},
	OpConvertU32F32: {"ConvertU32F32", TypeU32, []Type{TypeF32}},
	OpConvertF32S32: {"ConvertF32S32", TypeF32, []Type{TypeU32}},
	OpConvertF32U32: {"ConvertF32U32", TypeF32, []Type{TypeU32}},
	OpConvertF32F16: {"ConvertF32F16", TypeF32, []Type{TypeF16}},
	OpConvertF16F32: {"ConvertF16F32", TypeF16, []Type{TypeF32}},
	OpConvertF64F32: {"ConvertF64F32", TypeF64, []Type{TypeF32}},
	OpConvertF32F64: {"ConvertF32F64", TypeF32, []Type{TypeF64}},

	OpLogicalAnd: {"LogicalAnd", TypeU1, []Type{TypeU1, TypeU1}},
	OpLogicalOr:  {"LogicalOr", TypeU1, []Type{TypeU1, TypeU1}},
	OpLogicalXor: {"LogicalXor", TypeU1, []Type{TypeU1, TypeU1}},
	OpLogicalNot: {"LogicalNot", TypeU1, []Type{TypeU1}},
	OpSelectU32:  {"SelectU32", TypeU32, []Type{TypeU1, TypeU32, TypeU32}},
	OpIEqual:     {"IEqual", TypeU1, []Type{TypeU32, TypeU32}},
	OpINotEqual:  {"INotEqual", TypeU1, []Type{TypeU32, TypeU32}},
	OpSLessThan:  {"SLessThan", TypeU1, []Type{TypeU32, TypeU32}},
	OpULessThan:  {"ULessThan", TypeU1, []Type{TypeU32, TypeU32}},

	OpGetCbufU8:   {"GetCbufU8", TypeU32, []Type{TypeU32, TypeU32}},
	OpGetCbufS8:   {"GetCbufS8", TypeU32, []Type{TypeU32, TypeU32}},
	OpGetCbufU16:  {"GetCbufU16", TypeU32, []Type{TypeU32, TypeU32}},
	OpGetCbufS16:  {"GetCbufS16", TypeU32, []Type{TypeU32, TypeU32}},
	OpGetCbufU32:  {"GetCbufU32", TypeU32, []Type{TypeU32, TypeU32}},
	OpGetCbufF32:  {"GetCbufF32", TypeF32, []Type{TypeU32, TypeU32}},
	OpGetCbufU32x2: {"GetCbufU32x2", TypeU32x2, []Type{TypeU32, TypeU32}},

	OpLoadGlobalU8:  {"LoadGlobalU8", TypeU32, []Type{TypeU64}},
	OpLoadGlobalU16: {"LoadGlobalU16", TypeU32, []Type{TypeU64}},
	OpLoadGlobal32:  {"LoadGlobal32", TypeU32, []Type{TypeU64}},
	OpLoadGlobal64:  {"LoadGlobal64", TypeU32x2, []Type{TypeU64}},
	OpWriteGlobalU8:  {"WriteGlobalU8", TypeVoid, []Type{TypeU64, TypeU32}},
	OpWriteGlobalU16: {"WriteGlobalU16", TypeVoid, []Type{TypeU64, TypeU32}},
	OpWriteGlobal32:  {"WriteGlobal32", TypeVoid, []Type{TypeU64, TypeU32}},
	OpWriteGlobal64:  {"WriteGlobal64", TypeVoid, []Type{TypeU64, TypeU32x2}},

	OpLoadStorageU8:  {"LoadStorageU8", TypeU32, []Type{TypeU32, TypeU32}},
	OpLoadStorageU16: {"LoadStorageU16", TypeU32, []Type{TypeU32, TypeU32}},
	OpLoadStorage32:  {"LoadStorage32", TypeU32, []Type{TypeU32, TypeU32}},
	OpLoadStorage64:  {"LoadStorage64", TypeU32x2, []Type{TypeU32, TypeU32}},
	OpWriteStorageU8:  {"WriteStorageU8", TypeVoid, []Type{TypeU32, TypeU32, TypeU32}},
	OpWriteStorageU16: {"WriteStorageU16", TypeVoid, []Type{TypeU32, TypeU32, TypeU32}},
	OpWriteStorage32:  {"WriteStorage32", TypeVoid, []Type{TypeU32, TypeU32, TypeU32}},
	OpWriteStorage64:  {"WriteStorage64", TypeVoid, []Type{TypeU32, TypeU32, TypeU32x2}},

	OpLoadSharedU32:  {"LoadSharedU32", TypeU32, []Type{TypeU32}},
	OpWriteSharedU32: {"WriteSharedU32", TypeVoid, []Type{TypeU32, TypeU32}},
	OpLoadSharedU64:  {"LoadSharedU64", TypeU32x2, []Type{TypeU32}},
	OpWriteSharedU64: {"WriteSharedU64", TypeVoid, []Type{TypeU32, TypeU32x2}},

	OpSharedAtomicIAdd32:   {"SharedAtomicIAdd32", TypeU32, []Type{TypeU32, TypeU32}},
	OpStorageAtomicIAdd32:  {"StorageAtomicIAdd32", TypeU32, []Type{TypeU32, TypeU32, TypeU32}},
	OpGlobalAtomicIAdd32:   {"GlobalAtomicIAdd32", TypeU32, []Type{TypeU64, TypeU32}},
	OpStorageAtomicFPAdd32: {"StorageAtomicFPAdd32", TypeF32, []Type{TypeU32, TypeU32, TypeF32}},

	OpBindlessImageSampleImplicitLod: {"BindlessImageSampleImplicitLod", TypeF32x4, []Type{TypeU32, TypeOpaque}},
	OpBoundImageSampleImplicitLod:    {"BoundImageSampleImplicitLod", TypeF32x4, []Type{TypeU32, TypeOpaque}},
	OpImageSampleImplicitLod:         {"ImageSampleImplicitLod", TypeF32x4, []Type{TypeU32, TypeOpaque, TypeF32, TypeOpaque}},
	OpImageSampleExplicitLod:         {"ImageSampleExplicitLod", TypeF32x4, []Type{TypeU32, TypeOpaque, TypeF32}},
	OpImageFetch:                     {"ImageFetch", TypeF32x4, []Type{TypeU32, TypeOpaque, TypeU32, TypeU32}},
	OpImageGather:                    {"ImageGather", TypeF32x4, []Type{TypeU32, TypeOpaque, TypeU32}},
	OpImageGatherDref:                {"ImageGatherDref", TypeF32x4, []Type{TypeU32, TypeOpaque, TypeF32}},
	OpImageQueryDimensions:           {"ImageQueryDimensions", TypeU32x4, []Type{TypeU32, TypeU32}},
	OpImageQueryLod:                  {"ImageQueryLod", TypeF32x2, []Type{TypeU32, TypeOpaque}},
	OpImageRead:                      {"ImageRead", TypeU32x4, []Type{TypeU32, TypeOpaque}},
	OpImageWrite:                     {"ImageWrite", TypeVoid, []Type{TypeU32, TypeOpaque, TypeU32x4}},
	OpBindlessImageWrite:             {"BindlessImageWrite", TypeVoid, []Type{TypeU32, TypeOpaque, TypeU32x4}},

	OpBranch:             {"Branch", TypeVoid, nil},
	OpBranchConditional:  {"BranchConditional", TypeVoid, []Type{TypeU1}},
	OpReturn:             {"Return", TypeVoid, nil},
	OpDiscard:            {"Discard", TypeVoid, nil},
	OpEndPrimitive:       {"EndPrimitive", TypeVoid, nil},
	OpEmitVertex:         {"EmitVertex", TypeVoid, nil},

	OpSubgroupShuffle: {"SubgroupShuffle", TypeU32, []Type{TypeU32, TypeU32}},
	OpVoteAll:         {"VoteAll", TypeU1, []Type{TypeU1}},
	OpVoteAny:         {"VoteAny", TypeU1, []Type{TypeU1}},
	OpBallot:          {"Ballot", TypeU32, []Type{TypeU1}},
}

var pseudoKindOf = map[Opcode]PseudoKind{
	OpGetZeroFromOp:     PseudoZero,
	OpGetSignFromOp:     PseudoSign,
	OpGetCarryFromOp:    PseudoCarry,
	OpGetOverflowFromOp: PseudoOverflow,
	OpGetSparseFromOp:   PseudoSparse,
	OpGetInBoundsFromOp: PseudoInBounds,
}
