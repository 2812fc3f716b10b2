// Package translate implements the SMT translator spec.md §4.6 describes
// (C6): a stateful, single-pass walk over an IR term, parameterized by a
// concrete type vector, producing a backend expression for every node
// together with its accumulated definedness, non-poison, and existential
// (undef) quantifier state.
//
// Grounded on alive/smtinterp.py's SMTTranslator: the same accumulator
// fields (defs/nops/qvars/fresh) and the same per-opcode translation
// contracts, dispatched here via an exhaustive Go type switch instead of
// a second visitor interface (spec.md §9's explicit design note: "favor
// exhaustive pattern matching over a class hierarchy ... for the
// translator, a type switch ... is more idiomatic than threading a
// second visitor interface").
package translate

import (
	"fmt"
	"math/big"

	"rival/internal/ir"
	"rival/internal/smt"
	"rival/internal/typing"
)

// Translator accumulates backend expressions and side conditions for one
// type vector. Eval memoizes by term identity and keeps appending to
// Defs/Nops/QVars, so several terms (src, tgt, pre) can share one
// Translator and its fresh-name counter; Call clears that state and the
// memo table first and returns only its own term's side conditions.
type Translator struct {
	Build  smt.Builder
	Model  *typing.Model
	Vector []ir.Type

	Defs  []smt.Expr
	Nops  []smt.Expr
	QVars []smt.Expr

	fresh  int
	values map[ir.TermID]smt.Expr
}

// New returns a Translator ready to evaluate terms against model/vector.
func New(build smt.Builder, model *typing.Model, vector []ir.Type) *Translator {
	return &Translator{Build: build, Model: model, Vector: vector, values: make(map[ir.TermID]smt.Expr)}
}

func (t *Translator) freshName(prefix string) string {
	t.fresh++
	return fmt.Sprintf("%s_%d", prefix, t.fresh)
}

func (t *Translator) typeOf(term ir.Term) ir.Type {
	vid, ok := t.Model.TyVarOf(term.ID())
	if !ok {
		panic(fmt.Sprintf("translate: %s has no assigned type variable", term.Describe()))
	}
	return t.Vector[vid]
}

// sortOf maps an ir.Type to the backend sort the translator builds
// expressions in (spec.md §4.6's "sort mapping").
func sortOf(ty ir.Type) smt.Sort {
	switch v := ty.(type) {
	case ir.IntType:
		return smt.BVSort{Width: v.Width}
	case ir.PtrType:
		return smt.BVSort{Width: ir.PointerWidth}
	case ir.HalfType:
		return smt.FPSort{Kind: smt.FPHalf}
	case ir.SingleType:
		return smt.FPSort{Kind: smt.FPSingle}
	case ir.DoubleType:
		return smt.FPSort{Kind: smt.FPDouble}
	default:
		panic(fmt.Sprintf("translate: no backend sort for %s (x86_fp80 is excluded from enumeration and has no backend sort)", ty))
	}
}

// Call resets defs/nops/qvars and the memo table, evaluates term, and
// returns the resulting expression alongside the accumulated state
// (spec.md §4.6's "call(t) resets ... before evaluating and returns all
// four"). The fresh-name counter is not reset.
func (t *Translator) Call(term ir.Term) (value smt.Expr, defs, nops, qvars []smt.Expr) {
	t.Defs = nil
	t.Nops = nil
	t.QVars = nil
	t.values = make(map[ir.TermID]smt.Expr)
	v := t.Eval(term)
	return v, t.Defs, t.Nops, t.QVars
}

func (t *Translator) addDef(e smt.Expr)  { t.Defs = append(t.Defs, e) }
func (t *Translator) addNop(e smt.Expr)  { t.Nops = append(t.Nops, e) }
func (t *Translator) addQVar(e smt.Expr) { t.QVars = append(t.QVars, e) }

// Eval dispatches by concrete term variant and returns its backend
// expression, memoizing by term identity so a DAG with shared subterms
// is translated once (spec.md §4.6).
func (t *Translator) Eval(term ir.Term) smt.Expr {
	if v, ok := t.values[term.ID()]; ok {
		return v
	}
	v := t.eval(term)
	t.values[term.ID()] = v
	return v
}

func (t *Translator) eval(term ir.Term) smt.Expr {
	switch n := term.(type) {
	case *ir.Input:
		return t.evalInput(n)
	case *ir.Literal:
		return t.evalLiteral(n)
	case *ir.FLiteral:
		return t.evalFLiteral(n)
	case *ir.UndefValue:
		return t.evalUndef(n)
	case *ir.BinIntInst:
		return t.evalBinInt(n)
	case *ir.BinFPInst:
		return t.evalBinFP(n)
	case *ir.ConvInst:
		return t.evalConv(n)
	case *ir.IcmpInst:
		return t.evalIcmp(n)
	case *ir.SelectInst:
		return t.evalSelect(n)
	case *ir.CnxpUn:
		return t.evalCnxpUn(n)
	case *ir.CnxpBin:
		return t.evalCnxpBin(n)
	case *ir.CnxpConv:
		return t.evalCnxpConv(n)
	case *ir.AndPred:
		return t.evalAndPred(n)
	case *ir.OrPred:
		return t.evalOrPred(n)
	case *ir.NotPred:
		return t.evalNotPred(n)
	case *ir.Comparison:
		return t.evalComparison(n)
	case *ir.UnaryAnalysisPred:
		return t.evalUnaryAnalysis(n)
	case *ir.BinaryAnalysisPred:
		return t.evalBinaryAnalysis(n)
	default:
		panic(fmt.Sprintf("translate: unclassified IR variant %T (internal invariant violation)", term))
	}
}

func (t *Translator) evalInput(n *ir.Input) smt.Expr {
	ty := t.typeOf(n)
	s := sortOf(ty)
	if fp, ok := s.(smt.FPSort); ok {
		return t.Build.FPVar(n.Name, fp.Kind)
	}
	return t.Build.BVVar(n.Name, s.Bits())
}

func (t *Translator) evalLiteral(n *ir.Literal) smt.Expr {
	ty := t.typeOf(n)
	return t.Build.BVConst(n.Val, sortOf(ty).Bits())
}

func (t *Translator) evalFLiteral(n *ir.FLiteral) smt.Expr {
	ty := t.typeOf(n)
	fp := sortOf(ty).(smt.FPSort)
	return t.Build.FPConst(n.Val, fp.Kind)
}

// evalUndef introduces a fresh existentially-quantified backend constant
// named undef_<n>, recorded in qvars (spec.md §4.6).
func (t *Translator) evalUndef(n *ir.UndefValue) smt.Expr {
	ty := t.typeOf(n)
	s := sortOf(ty)
	name := t.freshName("undef")
	var v smt.Expr
	if fp, ok := s.(smt.FPSort); ok {
		v = t.Build.FPVar(name, fp.Kind)
	} else {
		v = t.Build.BVVar(name, s.Bits())
	}
	t.addQVar(v)
	return v
}

// isConstant reports whether term is a "constant" for must-analysis
// shortcut purposes: a Constant-variant term, or an Input whose name
// begins with 'C' (spec.md §4.6).
func isConstant(term ir.Term) bool {
	switch n := term.(type) {
	case *ir.Literal, *ir.FLiteral:
		return true
	case *ir.Input:
		return n.IsSymbolicConst()
	default:
		return false
	}
}

func (t *Translator) evalBinInt(n *ir.BinIntInst) smt.Expr {
	x, y := t.Eval(n.X), t.Eval(n.Y)
	width := t.typeOf(n).Bits()
	b := t.Build

	switch n.Op {
	case ir.Add:
		res := b.Add(x, y)
		if n.Flags.Has(ir.FlagNSW) {
			t.addNop(b.Eq(b.SignExtend(res, 1), b.Add(b.SignExtend(x, 1), b.SignExtend(y, 1))))
		}
		if n.Flags.Has(ir.FlagNUW) {
			t.addNop(b.Eq(b.ZeroExtend(res, 1), b.Add(b.ZeroExtend(x, 1), b.ZeroExtend(y, 1))))
		}
		return res
	case ir.Sub:
		res := b.Sub(x, y)
		if n.Flags.Has(ir.FlagNSW) {
			t.addNop(b.Eq(b.SignExtend(res, 1), b.Sub(b.SignExtend(x, 1), b.SignExtend(y, 1))))
		}
		if n.Flags.Has(ir.FlagNUW) {
			t.addNop(b.Eq(b.ZeroExtend(res, 1), b.Sub(b.ZeroExtend(x, 1), b.ZeroExtend(y, 1))))
		}
		return res
	case ir.Mul:
		res := b.Mul(x, y)
		if n.Flags.Has(ir.FlagNSW) {
			t.addNop(b.Eq(b.SignExtend(res, width), b.Mul(b.SignExtend(x, width), b.SignExtend(y, width))))
		}
		if n.Flags.Has(ir.FlagNUW) {
			t.addNop(b.Eq(b.ZeroExtend(res, width), b.Mul(b.ZeroExtend(x, width), b.ZeroExtend(y, width))))
		}
		return res
	case ir.And:
		return b.And(x, y)
	case ir.Or:
		return b.Or(x, y)
	case ir.Xor:
		return b.Xor(x, y)
	case ir.Shl:
		t.addDef(b.ULT(y, b.BVConst(big.NewInt(int64(width)), width)))
		res := b.Shl(x, y)
		if n.Flags.Has(ir.FlagNSW) {
			t.addNop(b.Eq(b.AShr(res, y), x))
		}
		if n.Flags.Has(ir.FlagNUW) {
			t.addNop(b.Eq(b.LShr(res, y), x))
		}
		if n.Flags.Has(ir.FlagExact) {
			t.addNop(b.Eq(b.LShr(res, y), x))
		}
		return res
	case ir.AShr:
		t.addDef(b.ULT(y, b.BVConst(big.NewInt(int64(width)), width)))
		res := b.AShr(x, y)
		if n.Flags.Has(ir.FlagExact) {
			t.addNop(b.Eq(b.Shl(res, y), x))
		}
		return res
	case ir.LShr:
		t.addDef(b.ULT(y, b.BVConst(big.NewInt(int64(width)), width)))
		res := b.LShr(x, y)
		if n.Flags.Has(ir.FlagExact) {
			t.addNop(b.Eq(b.Shl(res, y), x))
		}
		return res
	case ir.SDiv:
		zero := b.BVConst(big.NewInt(0), width)
		t.addDef(b.Ne(y, zero))
		t.addDef(b.BoolNot(b.BoolAnd(b.Eq(x, intMin(b, width)), b.Eq(y, b.BVConst(big.NewInt(-1), width)))))
		res := b.SDiv(x, y)
		if n.Flags.Has(ir.FlagExact) {
			t.addNop(b.Eq(b.Mul(res, y), x))
		}
		return res
	case ir.UDiv:
		zero := b.BVConst(big.NewInt(0), width)
		t.addDef(b.Ne(y, zero))
		res := b.UDiv(x, y)
		if n.Flags.Has(ir.FlagExact) {
			t.addNop(b.Eq(b.Mul(res, y), x))
		}
		return res
	case ir.SRem:
		zero := b.BVConst(big.NewInt(0), width)
		t.addDef(b.Ne(y, zero))
		t.addDef(b.BoolNot(b.BoolAnd(b.Eq(x, intMin(b, width)), b.Eq(y, b.BVConst(big.NewInt(-1), width)))))
		return b.SRem(x, y)
	case ir.URem:
		zero := b.BVConst(big.NewInt(0), width)
		t.addDef(b.Ne(y, zero))
		return b.URem(x, y)
	default:
		panic(fmt.Sprintf("translate: unclassified BinIntOp %v", n.Op))
	}
}

func intMin(b smt.Builder, width int) smt.Expr {
	v := new(big.Int).Lsh(big.NewInt(1), uint(width-1))
	return b.BVConst(v, width)
}

func (t *Translator) evalBinFP(n *ir.BinFPInst) smt.Expr {
	x, y := t.Eval(n.X), t.Eval(n.Y)
	b := t.Build

	var res smt.Expr
	switch n.Op {
	case ir.FAdd:
		res = b.FPAdd(smt.RNE, x, y)
	case ir.FSub:
		res = b.FPSub(smt.RNE, x, y)
	case ir.FMul:
		res = b.FPMul(smt.RNE, x, y)
	case ir.FDiv:
		res = b.FPDiv(smt.RNE, x, y)
	case ir.FRem:
		res = b.FPRem(x, y)
	default:
		panic(fmt.Sprintf("translate: unclassified BinFPOp %v", n.Op))
	}

	if n.Flags.Has(ir.FlagNNan) {
		t.addNop(b.BoolAnd(b.BoolNot(b.IsNaN(x)), b.BoolNot(b.IsNaN(y)), b.BoolNot(b.IsNaN(res))))
	}
	if n.Flags.Has(ir.FlagNInf) {
		t.addNop(b.BoolAnd(b.BoolNot(b.IsInfinite(x)), b.BoolNot(b.IsInfinite(y)), b.BoolNot(b.IsInfinite(res))))
	}
	return res
}

func (t *Translator) evalConv(n *ir.ConvInst) smt.Expr {
	arg := t.Eval(n.Arg)
	argWidth := t.typeOf(n.Arg).Bits()
	resWidth := t.typeOf(n).Bits()
	b := t.Build

	switch n.Op {
	case ir.SExt:
		return b.SignExtend(arg, resWidth-argWidth)
	case ir.ZExt:
		return b.ZeroExtend(arg, resWidth-argWidth)
	case ir.Trunc:
		return b.Extract(arg, resWidth-1, 0)
	case ir.ZExtOrTrunc:
		switch {
		case resWidth == argWidth:
			return arg
		case resWidth > argWidth:
			return b.ZeroExtend(arg, resWidth-argWidth)
		default:
			return b.Extract(arg, resWidth-1, 0)
		}
	default:
		panic(fmt.Sprintf("translate: unclassified ConvOp %v", n.Op))
	}
}

func (t *Translator) icmp(b smt.Builder, pred ir.IntPred, x, y smt.Expr) smt.Expr {
	switch pred {
	case ir.PredEQ:
		return b.Eq(x, y)
	case ir.PredNE:
		return b.Ne(x, y)
	case ir.PredUGT:
		return b.UGT(x, y)
	case ir.PredUGE:
		return b.UGE(x, y)
	case ir.PredULT:
		return b.ULT(x, y)
	case ir.PredULE:
		return b.ULE(x, y)
	case ir.PredSGT:
		return b.SGT(x, y)
	case ir.PredSGE:
		return b.SGE(x, y)
	case ir.PredSLT:
		return b.SLT(x, y)
	case ir.PredSLE:
		return b.SLE(x, y)
	default:
		panic(fmt.Sprintf("translate: unclassified IntPred %v", pred))
	}
}

func (t *Translator) evalIcmp(n *ir.IcmpInst) smt.Expr {
	x, y := t.Eval(n.X), t.Eval(n.Y)
	return t.Build.BoolToBV(t.icmp(t.Build, n.Pred, x, y))
}

func (t *Translator) evalSelect(n *ir.SelectInst) smt.Expr {
	cond := t.Eval(n.Cond)
	x, y := t.Eval(n.X), t.Eval(n.Y)
	one := t.Build.BVConst(big.NewInt(1), 1)
	return t.Build.Ite(t.Build.Eq(cond, one), x, y)
}

// Constant-expression variants share op semantics with their instruction
// counterparts but never contribute defs/nops (spec.md §4.6).
func (t *Translator) evalCnxpUn(n *ir.CnxpUn) smt.Expr {
	b := t.Build
	switch n.Op {
	case ir.CnxpWidth:
		width := t.typeOf(n).Bits()
		return b.BVConst(big.NewInt(int64(t.typeOf(n.Arg).Bits())), width)
	}
	arg := t.Eval(n.Arg)
	width := t.typeOf(n.Arg).Bits()
	switch n.Op {
	case ir.CnxpNot:
		return b.Not(arg)
	case ir.CnxpNeg:
		return b.Neg(arg)
	case ir.CnxpAbs:
		zero := b.BVConst(big.NewInt(0), width)
		neg := b.Neg(arg)
		return b.Ite(b.SLT(arg, zero), neg, arg)
	case ir.CnxpSignBits, ir.CnxpOneBits, ir.CnxpZeroBits:
		return t.knownBits(n, arg)
	case ir.CnxpLeadingZeros, ir.CnxpTrailingZeros, ir.CnxpLog2:
		return t.bitCountFn(n, arg, width)
	default:
		panic(fmt.Sprintf("translate: unclassified CnxpUnOp %v", n.Op))
	}
}

// knownBits allocates a fresh BV for a symbolic bit-analysis op
// (SignBitsCnxp/OneBitsCnxp/ZeroBitsCnxp) and asserts the actual
// bitwise relation to arg smtinterp.py:314-336 requires: SignBitsCnxp's
// fresh var is bounded by the true sign-bit count of arg, and
// OneBitsCnxp/ZeroBitsCnxp's fresh var must agree with arg wherever it
// claims a known one/zero bit.
func (t *Translator) knownBits(n *ir.CnxpUn, arg smt.Expr) smt.Expr {
	b := t.Build
	width := t.typeOf(n).Bits()
	name := t.freshName(n.Op.String())
	v := b.BVVar(name, width)
	zero := b.BVConst(big.NewInt(0), width)
	switch n.Op {
	case ir.CnxpSignBits:
		t.addDef(b.ULE(v, t.computeNumSignBits(arg, width)))
	case ir.CnxpOneBits:
		t.addDef(b.Eq(b.And(v, b.Not(arg)), zero))
	case ir.CnxpZeroBits:
		t.addDef(b.Eq(b.And(v, arg), zero))
	}
	return v
}

// computeNumSignBits counts how many leading bits of x agree with its own
// sign bit (smtinterp.py's ComputeNumSignBits, from z3util.py, not kept in
// original_source's code-only filter): leading zeros of x if x is
// non-negative, leading zeros of ~x if x is negative.
func (t *Translator) computeNumSignBits(x smt.Expr, width int) smt.Expr {
	b := t.Build
	zero := b.BVConst(big.NewInt(0), width)
	posCount := t.ctlz(x, width, width)
	negCount := t.ctlz(b.Not(x), width, width)
	return b.Ite(b.SLT(x, zero), negCount, posCount)
}

// bitCountFn computes LeadingZerosCnxp/TrailingZerosCnxp/Log2Cnxp as exact,
// deterministic functions of arg (spec.md §4.6), matching smtinterp.py's
// ctlz/cttz/bv_log2 via a bit-by-bit Extract/Ite chain rather than an
// unconstrained fresh variable.
func (t *Translator) bitCountFn(n *ir.CnxpUn, arg smt.Expr, width int) smt.Expr {
	resWidth := t.typeOf(n).Bits()
	switch n.Op {
	case ir.CnxpLeadingZeros:
		return t.ctlz(arg, width, resWidth)
	case ir.CnxpTrailingZeros:
		return t.cttz(arg, width, resWidth)
	default: // ir.CnxpLog2
		return t.bvLog2(arg, width, resWidth)
	}
}

// ctlz counts x's leading zero bits (width if x == 0), built as a chain of
// Ite over each bit position with the highest bit's test outermost so it
// takes priority.
func (t *Translator) ctlz(x smt.Expr, width, resWidth int) smt.Expr {
	b := t.Build
	one := b.BVConst(big.NewInt(1), 1)
	result := b.BVConst(big.NewInt(int64(width)), resWidth)
	for i := 0; i < width; i++ {
		isSet := b.Eq(b.Extract(x, i, i), one)
		count := b.BVConst(big.NewInt(int64(width-1-i)), resWidth)
		result = b.Ite(isSet, count, result)
	}
	return result
}

// cttz counts x's trailing zero bits (width if x == 0), built the same way
// as ctlz but with the lowest bit's test outermost.
func (t *Translator) cttz(x smt.Expr, width, resWidth int) smt.Expr {
	b := t.Build
	one := b.BVConst(big.NewInt(1), 1)
	result := b.BVConst(big.NewInt(int64(width)), resWidth)
	for i := width - 1; i >= 0; i-- {
		isSet := b.Eq(b.Extract(x, i, i), one)
		count := b.BVConst(big.NewInt(int64(i)), resWidth)
		result = b.Ite(isSet, count, result)
	}
	return result
}

// bvLog2 returns the index of x's highest set bit (0 if x == 0), matching
// smtinterp.py's bv_log2 convention.
func (t *Translator) bvLog2(x smt.Expr, width, resWidth int) smt.Expr {
	b := t.Build
	one := b.BVConst(big.NewInt(1), 1)
	result := b.BVConst(big.NewInt(0), resWidth)
	for i := 0; i < width; i++ {
		isSet := b.Eq(b.Extract(x, i, i), one)
		idx := b.BVConst(big.NewInt(int64(i)), resWidth)
		result = b.Ite(isSet, idx, result)
	}
	return result
}

func (t *Translator) evalCnxpBin(n *ir.CnxpBin) smt.Expr {
	x, y := t.Eval(n.X), t.Eval(n.Y)
	b := t.Build
	switch n.Op {
	case ir.CnxpAdd:
		return b.Add(x, y)
	case ir.CnxpSub:
		return b.Sub(x, y)
	case ir.CnxpMul:
		return b.Mul(x, y)
	case ir.CnxpSDiv:
		return b.SDiv(x, y)
	case ir.CnxpUDiv:
		return b.UDiv(x, y)
	case ir.CnxpSRem:
		return b.SRem(x, y)
	case ir.CnxpURem:
		return b.URem(x, y)
	case ir.CnxpShl:
		return b.Shl(x, y)
	case ir.CnxpAShr:
		return b.AShr(x, y)
	case ir.CnxpLShr, ir.CnxpLShrFun:
		return b.LShr(x, y)
	case ir.CnxpAnd:
		return b.And(x, y)
	case ir.CnxpOr:
		return b.Or(x, y)
	case ir.CnxpXor:
		return b.Xor(x, y)
	case ir.CnxpSMax:
		return b.Ite(b.SGT(x, y), x, y)
	case ir.CnxpUMax:
		return b.Ite(b.UGT(x, y), x, y)
	default:
		panic(fmt.Sprintf("translate: unclassified CnxpBinOp %v", n.Op))
	}
}

func (t *Translator) evalCnxpConv(n *ir.CnxpConv) smt.Expr {
	arg := t.Eval(n.Arg)
	argWidth := t.typeOf(n.Arg).Bits()
	resWidth := t.typeOf(n).Bits()
	b := t.Build
	switch n.Op {
	case ir.CnxpSExt:
		return b.SignExtend(arg, resWidth-argWidth)
	case ir.CnxpZExt:
		return b.ZeroExtend(arg, resWidth-argWidth)
	case ir.CnxpTrunc:
		return b.Extract(arg, resWidth-1, 0)
	default:
		panic(fmt.Sprintf("translate: unclassified CnxpConvOp %v", n.Op))
	}
}

func (t *Translator) evalAndPred(n *ir.AndPred) smt.Expr {
	clauses := make([]smt.Expr, len(n.Clauses))
	for i, c := range n.Clauses {
		clauses[i] = t.Eval(c)
	}
	return t.Build.BoolAnd(clauses...)
}

func (t *Translator) evalOrPred(n *ir.OrPred) smt.Expr {
	clauses := make([]smt.Expr, len(n.Clauses))
	for i, c := range n.Clauses {
		clauses[i] = t.Eval(c)
	}
	return t.Build.BoolOr(clauses...)
}

func (t *Translator) evalNotPred(n *ir.NotPred) smt.Expr {
	return t.Build.BoolNot(t.Eval(n.P))
}

func (t *Translator) evalComparison(n *ir.Comparison) smt.Expr {
	x, y := t.Eval(n.X), t.Eval(n.Y)
	return t.icmp(t.Build, n.Op, x, y)
}

// mustAnalysis builds the shared "must-analysis" shape every analysis
// predicate uses (spec.md §4.6): when every argument is a compile-time
// constant, the predicate itself (already known sound) is returned
// directly; otherwise a fresh boolean c is allocated, c ⇒ predicate is
// asserted into defs, and c is returned — a conservative approximation
// that may be false even when the predicate actually holds.
func (t *Translator) mustAnalysis(name string, predicate smt.Expr, constArgs bool) smt.Expr {
	if constArgs {
		return predicate
	}
	b := t.Build
	c := b.BoolVar(t.freshName(name))
	t.addDef(b.Implies(c, predicate))
	return c
}

func (t *Translator) evalUnaryAnalysis(n *ir.UnaryAnalysisPred) smt.Expr {
	b := t.Build
	if n.Op == ir.PredOneUse {
		// OneUsePred always returns true: a known over-approximation,
		// preserved verbatim (spec.md §4.6, SPEC_FULL.md §4 supplement).
		return b.BoolConst(true)
	}

	arg := t.Eval(n.Arg)
	width := t.typeOf(n.Arg).Bits()
	zero := b.BVConst(big.NewInt(0), width)

	var pred smt.Expr
	switch n.Op {
	case ir.PredIntMin:
		pred = b.Eq(arg, intMin(b, width))
	case ir.PredPower2:
		one := b.BVConst(big.NewInt(1), width)
		pred = b.BoolAnd(b.Ne(arg, zero), b.Eq(b.And(arg, b.Sub(arg, one)), zero))
	case ir.PredPower2OrZ:
		one := b.BVConst(big.NewInt(1), width)
		pred = b.Eq(b.And(arg, b.Sub(arg, one)), zero)
	case ir.PredShiftedMask:
		// v=(arg-1)|arg fills in the low run below the lowest set bit; a
		// contiguous (possibly shifted) run of ones then makes v+1 a
		// single power of two, i.e. (v+1)&v == 0 (smtinterp.py:303-307).
		one := b.BVConst(big.NewInt(1), width)
		v := b.Or(b.Sub(arg, one), arg)
		vPlus1 := b.Add(v, one)
		pred = b.BoolAnd(b.Ne(v, zero), b.Eq(b.And(vPlus1, v), zero))
	default:
		panic(fmt.Sprintf("translate: unclassified UnaryAnalysisOp %v", n.Op))
	}
	return t.mustAnalysis(n.Op.String(), pred, isConstant(n.Arg))
}

func (t *Translator) evalBinaryAnalysis(n *ir.BinaryAnalysisPred) smt.Expr {
	b := t.Build
	x, y := t.Eval(n.X), t.Eval(n.Y)
	width := t.typeOf(n.X).Bits()
	widePlus1 := func(e smt.Expr) smt.Expr { return b.SignExtend(e, 1) }
	wideZ1 := func(e smt.Expr) smt.Expr { return b.ZeroExtend(e, 1) }

	var pred smt.Expr
	switch n.Op {
	case ir.PredMaskZero:
		zero := b.BVConst(big.NewInt(0), width)
		pred = b.Eq(b.And(x, y), zero)
	case ir.PredNSWAdd:
		pred = b.Eq(widePlus1(b.Add(x, y)), b.Add(widePlus1(x), widePlus1(y)))
	case ir.PredNUWAdd:
		pred = b.Eq(wideZ1(b.Add(x, y)), b.Add(wideZ1(x), wideZ1(y)))
	case ir.PredNSWSub:
		pred = b.Eq(widePlus1(b.Sub(x, y)), b.Sub(widePlus1(x), widePlus1(y)))
	case ir.PredNUWSub:
		pred = b.Eq(wideZ1(b.Sub(x, y)), b.Sub(wideZ1(x), wideZ1(y)))
	case ir.PredNSWMul:
		pred = b.Eq(b.SignExtend(b.Mul(x, y), width), b.Mul(b.SignExtend(x, width), b.SignExtend(y, width)))
	case ir.PredNUWMul:
		pred = b.Eq(b.ZeroExtend(b.Mul(x, y), width), b.Mul(b.ZeroExtend(x, width), b.ZeroExtend(y, width)))
	case ir.PredNUWShl:
		pred = b.Eq(b.LShr(b.Shl(x, y), y), x)
	default:
		panic(fmt.Sprintf("translate: unclassified BinaryAnalysisOp %v", n.Op))
	}
	return t.mustAnalysis(n.Op.String(), pred, isConstant(n.X) && isConstant(n.Y))
}
