// Package ir models the closed set of IR node variants this verifier
// reasons about: types, constraint classes, values, instructions,
// constant-expression analogues, and predicates (spec.md §3). It is the
// consumed "IR node library" of spec.md §6: every variant exposes
// Subterms and TypeConstraints; dispatch over a Term's concrete variant
// is done with a type switch (internal/translate), not an Accept method
// (spec.md §9's own design note allows either).
package ir

import (
	"fmt"

	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/enum"
)

// Type is one of the six closed variants spec.md §3 names. Rather than
// re-deriving LLVM's type system from scratch, each variant is a thin
// wrapper around the corresponding github.com/llir/llvm/ir/types value —
// the one library in this module's dependency graph that already models
// it, and the natural stand-in for the "IR node library" contract.
type Type interface {
	isType()
	// Bits returns the width of the type in bits: the IntType width for
	// IntType, the IEEE exponent+fraction size for floats (80 for
	// X86FP80, by convention rather than arithmetic, same as the
	// original), and the fixed pointer width for PtrType (spec.md §4:
	// a pointer's "bits" is a constant for width-ordering purposes even
	// though pointers are otherwise incomparable with non-pointer types).
	Bits() int
	// String renders the type the way error messages and reports name it.
	String() string
	// llType exposes the backing llir/llvm representation, used by the
	// SMT translator's sort mapping (internal/translate) and nowhere else.
	llType() lltypes.Type
}

// PointerWidth is the fixed width (in bits) ascribed to every PtrType,
// since this verifier does not model pointer provenance or memory
// layout (spec.md Non-goals).
const PointerWidth = 64

// MaxIntWidth is the largest width an IntType may carry; combined with
// Config.IntLimit (internal/refine) it bounds the enumerator (spec.md §4.3).
const MaxIntWidth = 1 << 20

// IntType is an integer type of a given bit width, 1 <= Width <= MaxIntWidth.
type IntType struct{ Width int }

func NewIntType(width int) IntType {
	if width < 1 {
		panic(fmt.Sprintf("ir: invalid integer width %d", width))
	}
	return IntType{Width: width}
}

func (IntType) isType()             {}
func (t IntType) Bits() int         { return t.Width }
func (t IntType) String() string    { return fmt.Sprintf("i%d", t.Width) }
func (t IntType) llType() lltypes.Type { return lltypes.NewInt(uint64(t.Width)) }

// HalfType is IEEE binary16.
type HalfType struct{}

func (HalfType) isType()          {}
func (HalfType) Bits() int        { return 16 }
func (HalfType) String() string   { return "half" }
func (HalfType) llType() lltypes.Type {
	return lltypes.NewFloat(enum.FloatKindHalf)
}

// SingleType is IEEE binary32.
type SingleType struct{}

func (SingleType) isType()        {}
func (SingleType) Bits() int      { return 32 }
func (SingleType) String() string { return "float" }
func (SingleType) llType() lltypes.Type {
	return lltypes.NewFloat(enum.FloatKindFloat)
}

// DoubleType is IEEE binary64.
type DoubleType struct{}

func (DoubleType) isType()        {}
func (DoubleType) Bits() int      { return 64 }
func (DoubleType) String() string { return "double" }
func (DoubleType) llType() lltypes.Type {
	return lltypes.NewFloat(enum.FloatKindDouble)
}

// X86FP80Type is the x86 80-bit extended precision format. It is excluded
// from type-vector enumeration (spec.md §4.3) but remains a legal pinned
// or specific type.
type X86FP80Type struct{}

func (X86FP80Type) isType()        {}
func (X86FP80Type) Bits() int      { return 80 }
func (X86FP80Type) String() string { return "x86_fp80" }
func (X86FP80Type) llType() lltypes.Type {
	return lltypes.NewFloat(enum.FloatKindX86FP80)
}

// PtrType is an opaque pointer; this verifier does not model pointee
// types, provenance, or memory operations (spec.md Non-goals).
type PtrType struct{}

func (PtrType) isType()          {}
func (PtrType) Bits() int        { return PointerWidth }
func (PtrType) String() string   { return "ptr" }
func (PtrType) llType() lltypes.Type {
	return lltypes.NewPointer(lltypes.I8)
}

// floatOrder gives the Half < Single < Double < X86FP80 ordering spec.md §3
// defines among the four float variants.
func floatOrder(t Type) (int, bool) {
	switch t.(type) {
	case HalfType:
		return 0, true
	case SingleType:
		return 1, true
	case DoubleType:
		return 2, true
	case X86FP80Type:
		return 3, true
	default:
		return 0, false
	}
}

// Less implements spec.md §3's type ordering: within a kind, narrower
// integers precede wider ones and Half < Single < Double < X86FP80;
// pointers are incomparable with everything, including other pointers,
// and report false both ways (callers that need "equal" must check that
// separately).
func Less(a, b Type) bool {
	ai, aIsInt := a.(IntType)
	bi, bIsInt := b.(IntType)
	if aIsInt && bIsInt {
		return ai.Width < bi.Width
	}
	ao, aIsFloat := floatOrder(a)
	bo, bIsFloat := floatOrder(b)
	if aIsFloat && bIsFloat {
		return ao < bo
	}
	return false
}

// Equal reports whether two types are the same variant (and, for
// IntType, the same width).
func Equal(a, b Type) bool {
	switch av := a.(type) {
	case IntType:
		bv, ok := b.(IntType)
		return ok && av.Width == bv.Width
	case HalfType:
		_, ok := b.(HalfType)
		return ok
	case SingleType:
		_, ok := b.(SingleType)
		return ok
	case DoubleType:
		_, ok := b.(DoubleType)
		return ok
	case X86FP80Type:
		_, ok := b.(X86FP80Type)
		return ok
	case PtrType:
		_, ok := b.(PtrType)
		return ok
	default:
		return false
	}
}

// IsInt, IsFloat, IsPtr are the small predicates the constraint lattice
// (constraint.go) and the validator build on.
func IsInt(t Type) bool   { _, ok := t.(IntType); return ok }
func IsFloat(t Type) bool { return isFloatType(t) }
func IsPtr(t Type) bool   { _, ok := t.(PtrType); return ok }

func isFloatType(t Type) bool {
	switch t.(type) {
	case HalfType, SingleType, DoubleType, X86FP80Type:
		return true
	default:
		return false
	}
}

// LLType exposes the llir/llvm backing representation for a Type, used
// only by internal/translate's sort mapping.
func LLType(t Type) lltypes.Type { return t.llType() }
