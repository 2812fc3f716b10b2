// Package smt defines the solver-backend contract spec.md §6 consumes:
// bit-vector and floating-point sorts, the operations the translator
// (internal/translate) needs to build expressions in them, and a solver
// with the three-state check result the refinement checker (C7) drives.
//
// Binding a real SMT library (z3, cvc5, ...) is explicitly out of scope
// for this module (spec.md §1's "external collaborators") — no concrete
// Go z3 binding exists anywhere in the example pack this repository was
// built from, so the only implementation shipped here is
// internal/smt/smtfake, a deterministic in-memory double used by this
// module's own tests and by the cmd/rival demo driver.
package smt

import "math/big"

// Sort is a bit-vector or floating-point sort.
type Sort interface {
	isSort()
	Bits() int
}

// BVSort is a bit-vector sort of a given width.
type BVSort struct{ Width int }

func (BVSort) isSort()       {}
func (s BVSort) Bits() int   { return s.Width }

// FPKind distinguishes the three floating-point sorts the translator
// builds. There is no sort for X86FP80: enumeration never yields it
// (spec.md §4.3), and the translator panics on a term pinned to it.
type FPKind int

const (
	FPHalf FPKind = iota
	FPSingle
	FPDouble
)

// FPSort is a floating-point sort.
type FPSort struct{ Kind FPKind }

func (FPSort) isSort() {}
func (s FPSort) Bits() int {
	switch s.Kind {
	case FPHalf:
		return 16
	case FPDouble:
		return 64
	default:
		return 32
	}
}

// RoundingMode selects the FP rounding mode taken by FPAdd/FPSub/FPMul/
// FPDiv (FPRem takes none). The translator always uses the default mode
// (spec.md §4.6): round-nearest-ties-to-even.
type RoundingMode int

const RNE RoundingMode = 0

// Expr is an opaque backend expression of a bit-vector, FP, or boolean
// sort, built and combined by a Builder and asserted or evaluated by a
// Solver.
type Expr interface {
	isExpr()
}

// CheckResult is the three-valued outcome of Solver.Check.
type CheckResult int

const (
	Sat CheckResult = iota
	Unsat
	Unknown
)

func (r CheckResult) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Builder constructs backend expressions. internal/translate is the
// only consumer; every method corresponds directly to a translation
// contract in spec.md §4.6.
type Builder interface {
	// Constants.
	BVConst(val *big.Int, width int) Expr
	FPConst(val float64, kind FPKind) Expr
	BVVar(name string, width int) Expr
	FPVar(name string, kind FPKind) Expr
	BoolVar(name string) Expr
	BoolConst(b bool) Expr

	// Bit-vector arithmetic and bitwise ops.
	Add(x, y Expr) Expr
	Sub(x, y Expr) Expr
	Mul(x, y Expr) Expr
	And(x, y Expr) Expr
	Or(x, y Expr) Expr
	Xor(x, y Expr) Expr
	Shl(x, y Expr) Expr
	AShr(x, y Expr) Expr
	LShr(x, y Expr) Expr
	SDiv(x, y Expr) Expr
	UDiv(x, y Expr) Expr
	SRem(x, y Expr) Expr
	URem(x, y Expr) Expr
	Neg(x Expr) Expr
	Not(x Expr) Expr // bitwise complement

	// Bit-vector comparisons (all return a boolean Expr).
	Eq(x, y Expr) Expr
	Ne(x, y Expr) Expr
	ULT(x, y Expr) Expr
	ULE(x, y Expr) Expr
	UGT(x, y Expr) Expr
	UGE(x, y Expr) Expr
	SLT(x, y Expr) Expr
	SLE(x, y Expr) Expr
	SGT(x, y Expr) Expr
	SGE(x, y Expr) Expr

	// Width adjustment and extraction.
	SignExtend(x Expr, extraBits int) Expr
	ZeroExtend(x Expr, extraBits int) Expr
	Extract(x Expr, hi, lo int) Expr

	// Floating-point.
	FPAdd(rm RoundingMode, x, y Expr) Expr
	FPSub(rm RoundingMode, x, y Expr) Expr
	FPMul(rm RoundingMode, x, y Expr) Expr
	FPDiv(rm RoundingMode, x, y Expr) Expr
	FPRem(x, y Expr) Expr
	IsNaN(x Expr) Expr
	IsInfinite(x Expr) Expr

	// Boolean combinators and conditional.
	BoolAnd(clauses ...Expr) Expr
	BoolOr(clauses ...Expr) Expr
	BoolNot(x Expr) Expr
	Implies(a, b Expr) Expr
	Ite(cond, x, y Expr) Expr

	// BoolToBV widens a boolean expression to a BV(1), the representation
	// every boolean-valued IR term (Icmp, predicates) carries (spec.md
	// §4.6: "result is a 1-bit BV").
	BoolToBV(b Expr) Expr
}

// Model is an evaluable satisfying assignment returned by a Solver after
// a Sat check. BV values expose both signed and unsigned readings so a
// RefinementError's report can format counterexamples either way
// (spec.md §6).
type Model interface {
	EvalBV(e Expr) (unsigned *big.Int, signed *big.Int, width int, ok bool)
	EvalFP(e Expr) (val float64, ok bool)
	EvalBool(e Expr) (val bool, ok bool)
}

// Solver accumulates assertions and checks their joint satisfiability.
// check_refinement_at (internal/refine) opens one Solver per query.
type Solver interface {
	Assert(e Expr)
	Check() CheckResult
	Model() Model
}
