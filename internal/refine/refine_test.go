package refine

import (
	"testing"

	"rival/internal/ir"
	"rival/internal/smt"
	"rival/internal/smt/smtfake"
)

func newFakeSolver() smt.Solver { return smtfake.NewSolver() }

// Tautology (spec.md §8.1): icmp ult %x, 0 refines target literal 0,
// since an unsigned comparison against 0 is always false.
func TestCheckRefinement_Tautology(t *testing.T) {
	x := ir.NewInput("x")
	zero := ir.NewLiteral(0)
	src := ir.NewIcmp(ir.PredULT, x, zero)
	var tgt ir.Term = ir.NewLiteral(0)

	// int_limit kept small so every enumerated width stays inside
	// smtfake's brute-force search budget; the tautology holds at every
	// width, so this only restricts how many widths the test checks,
	// not which ones verify.
	build := smtfake.NewBuilder()
	cfg := Config{IntLimit: 6, PoisonUndef: false}
	refErr, err := CheckRefinement(build, newFakeSolver, cfg, src, tgt, nil)
	if err != nil {
		t.Fatalf("CheckRefinement: %v", err)
	}
	if refErr != nil {
		t.Fatalf("expected verified, got counterexample: %s", refErr.Error())
	}
}

// AShr-Shl with an slt precondition (spec.md §8.2): shl (ashr exact x,
// C1), C2 refines shl x, (C2-C1) whenever C1 <s C2, for a fixed width.
func TestCheckRefinement_AShrShlWithPrecondition(t *testing.T) {
	// Width kept small (5 bits, 3 free variables) to stay inside
	// smtfake's brute-force search budget (maxSearchBits) — the real
	// scenario in spec.md §8.2 uses i33, which only a real solver
	// backend could check.
	ty := ir.NewIntType(5)
	x := ir.NewTypedInput("x", ty)
	c1 := ir.NewTypedInput("C1", ty)
	c2 := ir.NewTypedInput("C2", ty)

	ashr := ir.NewBinInt(ir.AShr, x, c1, ir.FlagExact)
	var src ir.Term = ir.NewBinInt(ir.Shl, ashr, c2)

	diff := ir.NewCnxpBin(ir.CnxpSub, c2, c1)
	var tgt ir.Term = ir.NewBinInt(ir.Shl, x, diff)

	var pre ir.Term = ir.NewComparison(ir.PredSLT, c1, c2)

	build := smtfake.NewBuilder()
	cfg := Config{IntLimit: 5, PoisonUndef: false}
	refErr, err := CheckRefinement(build, newFakeSolver, cfg, src, tgt, pre)
	if err != nil {
		t.Fatalf("CheckRefinement: %v", err)
	}
	if refErr != nil {
		t.Fatalf("expected verified, got counterexample: %s", refErr.Error())
	}
}

// Xor/Add with an IntMin precondition (spec.md §8.3): add (xor x, C1),
// C2 refines add x, (xor C1 C2) whenever C1 is INT_MIN.
func TestCheckRefinement_XorAddWithIntMinPrecondition(t *testing.T) {
	ty := ir.NewIntType(4)
	x := ir.NewTypedInput("x", ty)
	c1 := ir.NewTypedInput("C1", ty)
	c2 := ir.NewTypedInput("C2", ty)

	xored := ir.NewBinInt(ir.Xor, x, c1)
	var src ir.Term = ir.NewBinInt(ir.Add, xored, c2)

	constXor := ir.NewCnxpBin(ir.CnxpXor, c1, c2)
	var tgt ir.Term = ir.NewBinInt(ir.Add, x, constXor)

	var pre ir.Term = ir.NewUnaryAnalysisPred(ir.PredIntMin, c1)

	build := smtfake.NewBuilder()
	refErr, err := CheckRefinement(build, newFakeSolver, DefaultConfig(), src, tgt, pre)
	if err != nil {
		t.Fatalf("CheckRefinement: %v", err)
	}
	if refErr != nil {
		t.Fatalf("expected verified, got counterexample: %s", refErr.Error())
	}
}

// A genuinely unsound rewrite (add x, 1 "refined by" add x, 2) must
// report an UNEQUAL counterexample at every width it checks.
func TestCheckRefinement_UnsoundRewriteReportsUnequal(t *testing.T) {
	ty := ir.NewIntType(4)
	x := ir.NewTypedInput("x", ty)
	var src ir.Term = ir.NewBinInt(ir.Add, x, ir.NewTypedLiteral(1, ty))
	var tgt ir.Term = ir.NewBinInt(ir.Add, x, ir.NewTypedLiteral(2, ty))

	build := smtfake.NewBuilder()
	refErr, err := CheckRefinement(build, newFakeSolver, DefaultConfig(), src, tgt, nil)
	if err != nil {
		t.Fatalf("CheckRefinement: %v", err)
	}
	if refErr == nil {
		t.Fatalf("expected a counterexample for an unsound rewrite")
	}
	if refErr.Cause != Unequal {
		t.Fatalf("Cause = %v, want Unequal", refErr.Cause)
	}
	if refErr.Error() == "" {
		t.Fatalf("Error() returned an empty report")
	}
}
