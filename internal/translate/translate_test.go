package translate

import (
	"math/big"
	"testing"

	"rival/internal/ir"
	"rival/internal/smt"
	"rival/internal/smt/smtfake"
	"rival/internal/typevector"
	"rival/internal/typing"
)

// firstVector finalizes a model for term and returns the first type
// vector the enumerator produces.
func firstVector(t *testing.T, term ir.Term) (*typing.Model, []ir.Type) {
	t.Helper()
	c := typing.NewConstraints()
	if err := c.Collect(term, nil); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	model, err := c.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	enum := typevector.New(model, 9)
	vector, ok := enum.Next()
	if !ok {
		t.Fatalf("enumerator produced no vector")
	}
	return model, vector
}

func TestEval_MemoizesSharedSubterm(t *testing.T) {
	x := ir.NewInput("x")
	add := ir.NewBinInt(ir.Add, x, x) // x shared as both operands
	model, vector := firstVector(t, add)

	tr := New(smtfake.NewBuilder(), model, vector)
	first := tr.Eval(x)
	second := tr.Eval(x)
	if first != second {
		t.Fatalf("Eval(x) returned different expressions on repeat calls")
	}
}

func TestCall_ResetsAccumulatedState(t *testing.T) {
	x := ir.NewInput("x")
	y := ir.NewInput("y")
	div := ir.NewBinInt(ir.UDiv, x, y) // udiv contributes a def (y != 0)
	model, vector := firstVector(t, div)

	tr := New(smtfake.NewBuilder(), model, vector)
	_, defs1, _, _ := tr.Call(div)
	if len(defs1) == 0 {
		t.Fatalf("expected udiv to contribute at least one def")
	}
	_, defs2, _, _ := tr.Call(div)
	if len(defs2) != len(defs1) {
		t.Fatalf("second Call did not reset defs: got %d, want %d", len(defs2), len(defs1))
	}
}

func TestEvalUndef_ContributesQVar(t *testing.T) {
	u := ir.NewUndefValue()
	add := ir.NewBinInt(ir.Add, ir.NewInput("x"), u)
	model, vector := firstVector(t, add)

	tr := New(smtfake.NewBuilder(), model, vector)
	_, _, _, qvars := tr.Call(add)
	if len(qvars) != 1 {
		t.Fatalf("expected exactly one qvar for one undef, got %d", len(qvars))
	}
}

// IntMinPred on a symbolic-constant Input (name starting with 'C') should
// take the must-analysis shortcut's constant-argument branch and
// contribute no fresh def (spec.md §4.6: "when all arguments are
// constant, return the predicate directly").
func TestMustAnalysis_ConstantArgumentSkipsFreshBoolean(t *testing.T) {
	c := ir.NewInput("C1")
	pred := ir.NewUnaryAnalysisPred(ir.PredIntMin, c)
	model, vector := firstVector(t, pred)

	tr := New(smtfake.NewBuilder(), model, vector)
	_, defs, _, _ := tr.Call(pred)
	if len(defs) != 0 {
		t.Fatalf("expected no defs for a constant-argument must-analysis predicate, got %d", len(defs))
	}
}

// The same predicate over a non-constant Input must allocate a fresh
// boolean and assert c => predicate into defs (spec.md §4.6).
func TestMustAnalysis_SymbolicArgumentAllocatesFreshBoolean(t *testing.T) {
	x := ir.NewInput("x")
	pred := ir.NewUnaryAnalysisPred(ir.PredIntMin, x)
	model, vector := firstVector(t, pred)

	tr := New(smtfake.NewBuilder(), model, vector)
	_, defs, _, _ := tr.Call(pred)
	if len(defs) != 1 {
		t.Fatalf("expected exactly one def for a symbolic-argument must-analysis predicate, got %d", len(defs))
	}
}

func TestEvalIcmp_ProducesOneBitResult(t *testing.T) {
	x := ir.NewInput("x")
	y := ir.NewInput("y")
	icmp := ir.NewIcmp(ir.PredULT, x, y)
	model, vector := firstVector(t, icmp)

	tr := New(smtfake.NewBuilder(), model, vector)
	v := tr.Eval(icmp)
	if v == nil {
		t.Fatalf("Eval(icmp) returned nil")
	}
}

func TestEvalSelect_IsConstantFoldableUnderSolver(t *testing.T) {
	cond := ir.NewInput("c")
	x := ir.NewInput("x")
	y := ir.NewInput("y")
	sel := ir.NewSelect(cond, x, y)
	model, vector := firstVector(t, sel)

	build := smtfake.NewBuilder()
	tr := New(build, model, vector)
	selExpr := tr.Eval(sel)
	xExpr := tr.Eval(x)

	// select true, x, y must equal x.
	condVal := tr.Eval(cond)
	goal := build.Implies(build.Eq(condVal, build.BVConst(big.NewInt(1), 1)), build.Eq(selExpr, xExpr))

	s := smtfake.NewSolver()
	s.Assert(build.BoolNot(goal))
	if got := s.Check(); got != smt.Unsat {
		t.Fatalf("select true branch equivalence: Check() = %v, want unsat (tautology)", got)
	}
}
