// Package smtfake is a deterministic, in-memory stand-in for the real
// SMT backend smt.Builder/smt.Solver describe. It is not a production
// solver: Check works by brute-force enumeration of every free
// variable's domain, bounded by maxSearchBits, and reports Unknown
// rather than exhaustively searching anything larger — the same
// "solver unknown" outcome spec.md §6 already requires callers to
// handle. It exists so this module's own tests (internal/translate,
// internal/refine) and the cmd/rival demo driver can exercise the
// translator and the refinement checker end-to-end without a real
// z3/cvc5 binding,
// which is explicitly out of scope for this repository (spec.md §1).
package smtfake

import (
	"math/big"

	"rival/internal/smt"
)

// maxSearchBits bounds the total number of free bits smtfake will
// brute-force before giving up and reporting Unknown, keeping Check
// always-terminating.
const maxSearchBits = 22

type opcode int

const (
	opBVConst opcode = iota
	opFPConst
	opBVVar
	opFPVar
	opBoolVar
	opBoolConst
	opAdd
	opSub
	opMul
	opAnd
	opOr
	opXor
	opShl
	opAShr
	opLShr
	opSDiv
	opUDiv
	opSRem
	opURem
	opNeg
	opNot
	opEq
	opNe
	opULT
	opULE
	opUGT
	opUGE
	opSLT
	opSLE
	opSGT
	opSGE
	opSignExtend
	opZeroExtend
	opExtract
	opFPAdd
	opFPSub
	opFPMul
	opFPDiv
	opFPRem
	opIsNaN
	opIsInfinite
	opBoolAnd
	opBoolOr
	opBoolNot
	opImplies
	opIte
	opBoolToBV
)

// expr is the single AST node type backing every smt.Expr this package
// produces; fields not relevant to op are left zero. The embedded (always
// nil) smt.Expr supplies smt.Expr's unexported marker method, which a type
// outside package smt cannot declare itself.
type expr struct {
	smt.Expr
	op       opcode
	width    int
	kind     smt.FPKind
	name     string
	bvVal    *big.Int
	fpVal    float64
	boolVal  bool
	args     []*expr
	hi, lo   int
	extraBits int
}

func as(e smt.Expr) *expr { return e.(*expr) }

// Builder implements smt.Builder over the expr AST.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

func leaf(op opcode) *expr { return &expr{op: op} }

func (b *Builder) BVConst(val *big.Int, width int) smt.Expr {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
	v := new(big.Int).Mod(val, mod)
	if v.Sign() < 0 {
		v.Add(v, mod)
	}
	return &expr{op: opBVConst, width: width, bvVal: v}
}
func (b *Builder) FPConst(val float64, kind smt.FPKind) smt.Expr {
	return &expr{op: opFPConst, kind: kind, fpVal: val}
}
func (b *Builder) BVVar(name string, width int) smt.Expr {
	return &expr{op: opBVVar, width: width, name: name}
}
func (b *Builder) FPVar(name string, kind smt.FPKind) smt.Expr {
	return &expr{op: opFPVar, kind: kind, name: name}
}
func (b *Builder) BoolVar(name string) smt.Expr { return &expr{op: opBoolVar, name: name} }
func (b *Builder) BoolConst(v bool) smt.Expr    { return &expr{op: opBoolConst, boolVal: v} }

func bin(op opcode, width int, x, y smt.Expr) *expr {
	return &expr{op: op, width: width, args: []*expr{as(x), as(y)}}
}

func (b *Builder) Add(x, y smt.Expr) smt.Expr  { return bin(opAdd, as(x).width, x, y) }
func (b *Builder) Sub(x, y smt.Expr) smt.Expr  { return bin(opSub, as(x).width, x, y) }
func (b *Builder) Mul(x, y smt.Expr) smt.Expr  { return bin(opMul, as(x).width, x, y) }
func (b *Builder) And(x, y smt.Expr) smt.Expr  { return bin(opAnd, as(x).width, x, y) }
func (b *Builder) Or(x, y smt.Expr) smt.Expr   { return bin(opOr, as(x).width, x, y) }
func (b *Builder) Xor(x, y smt.Expr) smt.Expr  { return bin(opXor, as(x).width, x, y) }
func (b *Builder) Shl(x, y smt.Expr) smt.Expr  { return bin(opShl, as(x).width, x, y) }
func (b *Builder) AShr(x, y smt.Expr) smt.Expr { return bin(opAShr, as(x).width, x, y) }
func (b *Builder) LShr(x, y smt.Expr) smt.Expr { return bin(opLShr, as(x).width, x, y) }
func (b *Builder) SDiv(x, y smt.Expr) smt.Expr { return bin(opSDiv, as(x).width, x, y) }
func (b *Builder) UDiv(x, y smt.Expr) smt.Expr { return bin(opUDiv, as(x).width, x, y) }
func (b *Builder) SRem(x, y smt.Expr) smt.Expr { return bin(opSRem, as(x).width, x, y) }
func (b *Builder) URem(x, y smt.Expr) smt.Expr { return bin(opURem, as(x).width, x, y) }
func (b *Builder) Neg(x smt.Expr) smt.Expr     { return &expr{op: opNeg, width: as(x).width, args: []*expr{as(x)}} }
func (b *Builder) Not(x smt.Expr) smt.Expr     { return &expr{op: opNot, width: as(x).width, args: []*expr{as(x)}} }

func cmp(op opcode, x, y smt.Expr) *expr { return &expr{op: op, args: []*expr{as(x), as(y)}} }

func (b *Builder) Eq(x, y smt.Expr) smt.Expr  { return cmp(opEq, x, y) }
func (b *Builder) Ne(x, y smt.Expr) smt.Expr  { return cmp(opNe, x, y) }
func (b *Builder) ULT(x, y smt.Expr) smt.Expr { return cmp(opULT, x, y) }
func (b *Builder) ULE(x, y smt.Expr) smt.Expr { return cmp(opULE, x, y) }
func (b *Builder) UGT(x, y smt.Expr) smt.Expr { return cmp(opUGT, x, y) }
func (b *Builder) UGE(x, y smt.Expr) smt.Expr { return cmp(opUGE, x, y) }
func (b *Builder) SLT(x, y smt.Expr) smt.Expr { return cmp(opSLT, x, y) }
func (b *Builder) SLE(x, y smt.Expr) smt.Expr { return cmp(opSLE, x, y) }
func (b *Builder) SGT(x, y smt.Expr) smt.Expr { return cmp(opSGT, x, y) }
func (b *Builder) SGE(x, y smt.Expr) smt.Expr { return cmp(opSGE, x, y) }

func (b *Builder) SignExtend(x smt.Expr, extraBits int) smt.Expr {
	return &expr{op: opSignExtend, width: as(x).width + extraBits, extraBits: extraBits, args: []*expr{as(x)}}
}
func (b *Builder) ZeroExtend(x smt.Expr, extraBits int) smt.Expr {
	return &expr{op: opZeroExtend, width: as(x).width + extraBits, extraBits: extraBits, args: []*expr{as(x)}}
}
func (b *Builder) Extract(x smt.Expr, hi, lo int) smt.Expr {
	return &expr{op: opExtract, width: hi - lo + 1, hi: hi, lo: lo, args: []*expr{as(x)}}
}

func (b *Builder) FPAdd(rm smt.RoundingMode, x, y smt.Expr) smt.Expr {
	return &expr{op: opFPAdd, kind: as(x).kind, args: []*expr{as(x), as(y)}}
}
func (b *Builder) FPSub(rm smt.RoundingMode, x, y smt.Expr) smt.Expr {
	return &expr{op: opFPSub, kind: as(x).kind, args: []*expr{as(x), as(y)}}
}
func (b *Builder) FPMul(rm smt.RoundingMode, x, y smt.Expr) smt.Expr {
	return &expr{op: opFPMul, kind: as(x).kind, args: []*expr{as(x), as(y)}}
}
func (b *Builder) FPDiv(rm smt.RoundingMode, x, y smt.Expr) smt.Expr {
	return &expr{op: opFPDiv, kind: as(x).kind, args: []*expr{as(x), as(y)}}
}
func (b *Builder) FPRem(x, y smt.Expr) smt.Expr {
	return &expr{op: opFPRem, kind: as(x).kind, args: []*expr{as(x), as(y)}}
}
func (b *Builder) IsNaN(x smt.Expr) smt.Expr      { return &expr{op: opIsNaN, args: []*expr{as(x)}} }
func (b *Builder) IsInfinite(x smt.Expr) smt.Expr { return &expr{op: opIsInfinite, args: []*expr{as(x)}} }

func (b *Builder) BoolAnd(clauses ...smt.Expr) smt.Expr {
	return &expr{op: opBoolAnd, args: toExprs(clauses)}
}
func (b *Builder) BoolOr(clauses ...smt.Expr) smt.Expr {
	return &expr{op: opBoolOr, args: toExprs(clauses)}
}
func (b *Builder) BoolNot(x smt.Expr) smt.Expr { return &expr{op: opBoolNot, args: []*expr{as(x)}} }
func (b *Builder) Implies(a, c smt.Expr) smt.Expr {
	return &expr{op: opImplies, args: []*expr{as(a), as(c)}}
}
func (b *Builder) Ite(cond, x, y smt.Expr) smt.Expr {
	return &expr{op: opIte, width: as(x).width, kind: as(x).kind, args: []*expr{as(cond), as(x), as(y)}}
}
func (b *Builder) BoolToBV(x smt.Expr) smt.Expr {
	return &expr{op: opBoolToBV, width: 1, args: []*expr{as(x)}}
}

func toExprs(clauses []smt.Expr) []*expr {
	out := make([]*expr, len(clauses))
	for i, c := range clauses {
		out[i] = as(c)
	}
	return out
}
