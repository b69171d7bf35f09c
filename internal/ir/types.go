// Package ir implements the typed value/instruction/block/program model
// that the rest of the recompiler (decoder, CFG builder, SSA rewriter,
// optimizer, back-ends) is built on. It is grounded on the builder/value
// pattern of google/gapid's core/codegen (Builder/Value/Function/Module),
// generalized from an LLVM-backed code generator to a self-contained SSA IR
// with its own block-owned instructions instead of llvm.Value handles.
package ir

// Type is a bit-set of scalar/vector/opaque kinds. Two types are
// "compatible" when equal or when at least one of them is Opaque.
type Type uint32

const (
	TypeU1 Type = 1 << iota
	TypeU8
	TypeU16
	TypeU32
	TypeU64
	TypeF16
	TypeF32
	TypeF64
	TypeU32x2
	TypeU32x3
	TypeU32x4
	TypeF16x2
	TypeF16x3
	TypeF16x4
	TypeF32x2
	TypeF32x3
	TypeF32x4
	TypeF64x2
	TypeF64x3
	TypeF64x4
	TypeReg
	TypePred
	TypeAttribute
	TypePatch
	TypeVoid
	// TypeOpaque means "type known only from the producing instruction".
	TypeOpaque
)

var typeNames = map[Type]string{
	TypeU1: "U1", TypeU8: "U8", TypeU16: "U16", TypeU32: "U32", TypeU64: "U64",
	TypeF16: "F16", TypeF32: "F32", TypeF64: "F64",
	TypeU32x2: "U32x2", TypeU32x3: "U32x3", TypeU32x4: "U32x4",
	TypeF16x2: "F16x2", TypeF16x3: "F16x3", TypeF16x4: "F16x4",
	TypeF32x2: "F32x2", TypeF32x3: "F32x3", TypeF32x4: "F32x4",
	TypeF64x2: "F64x2", TypeF64x3: "F64x3", TypeF64x4: "F64x4",
	TypeReg: "Reg", TypePred: "Pred", TypeAttribute: "Attribute",
	TypePatch: "Patch", TypeVoid: "Void", TypeOpaque: "Opaque",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Type(?)"
}

// IsVector reports whether t is one of the Nx{2,3,4} vector forms.
func (t Type) IsVector() bool {
	switch t {
	case TypeU32x2, TypeU32x3, TypeU32x4,
		TypeF16x2, TypeF16x3, TypeF16x4,
		TypeF32x2, TypeF32x3, TypeF32x4,
		TypeF64x2, TypeF64x3, TypeF64x4:
		return true
	default:
		return false
	}
}

// AreTypesCompatible reports whether a and b may stand in for one another:
// equal types are always compatible, and Opaque is compatible with anything.
func AreTypesCompatible(a, b Type) bool {
	return a == b || a == TypeOpaque || b == TypeOpaque
}
