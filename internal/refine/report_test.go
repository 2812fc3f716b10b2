package refine

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rival/internal/ir"
	"rival/internal/smt/smtfake"
)

// formatReport's only non-deterministic byte sequence is the ReportID
// (spec.md §9 correlates a report to a log run, not to solver state), so
// two renders of the same RefinementError must agree everywhere else —
// compared with cmp.Diff the way ailang's parser golden tests compare
// expected-vs-got (internal/parser/testutil.go), rather than a brittle
// reflect.DeepEqual.
func TestFormatReport_IsStableAcrossCallsModuloReportID(t *testing.T) {
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

	first := stripReportID(formatReport(refErr))
	second := stripReportID(formatReport(refErr))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("formatReport not stable across calls (-first +second):\n%s", diff)
	}

	if !strings.Contains(first, "UNEQUAL refinement failure") {
		t.Fatalf("report missing cause header:\n%s", first)
	}
	if !strings.Contains(first, "counterexample inputs:") {
		t.Fatalf("report missing inputs section:\n%s", first)
	}
	if !strings.Contains(first, "%x = ") {
		t.Fatalf("report missing formatted input value:\n%s", first)
	}
}

// stripReportID drops the header line, since it embeds a fresh uuid per
// RefinementError rather than per render.
func stripReportID(s string) string {
	lines := strings.SplitN(s, "\n", 2)
	return lines[len(lines)-1]
}
