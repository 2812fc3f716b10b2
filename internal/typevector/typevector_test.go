package typevector

import (
	"testing"

	"rival/internal/ir"
	"rival/internal/typing"
)

func model(t *testing.T, term ir.Term) *typing.Model {
	t.Helper()
	c := typing.NewConstraints()
	if err := c.Collect(term, nil); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	m, err := c.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return m
}

func collectAll(t *testing.T, e *Enumerator, limit int) [][]ir.Type {
	t.Helper()
	var out [][]ir.Type
	for i := 0; i < limit; i++ {
		v, ok := e.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
	t.Fatalf("enumerator did not terminate within %d vectors", limit)
	return nil
}

// A single unconstrained integer term should enumerate exactly the
// non-monotone width order 4, 8, 1, 2, 3, 5, 6, 7, 9..limit-1 (spec.md
// §4.3), once the synthesized default tyvar's own single candidate
// (IntType(64), pinned) is accounted for.
func TestEnumerator_IntWidthOrder(t *testing.T) {
	add := ir.NewBinInt(ir.Add, ir.NewInput("x"), ir.NewInput("y"))
	m := model(t, add)

	e := New(m, 10)
	vectors := collectAll(t, e, 1000)
	if len(vectors) == 0 {
		t.Fatalf("expected at least one vector")
	}

	av, _ := m.TyVarOf(add.ID())
	want := []int{4, 8, 1, 2, 3, 5, 6, 7, 9}
	if len(vectors) != len(want) {
		t.Fatalf("got %d vectors, want %d", len(vectors), len(want))
	}
	for i, v := range vectors {
		if v[av].Bits() != want[i] {
			t.Fatalf("vector %d: width %d, want %d", i, v[av].Bits(), want[i])
		}
	}
}

// (Width monotonicity): build a sext whose argument and result share a
// lower-bound relation, and check every enumerated vector honors
// bits(hi) > bits(lo).
func TestEnumerator_WidthMonotonicity(t *testing.T) {
	x := ir.NewInput("x")
	sext := ir.NewConv(ir.SExt, x)
	m := model(t, sext)

	xv, _ := m.TyVarOf(x.ID())
	sv, _ := m.TyVarOf(sext.ID())

	e := New(m, 9)
	vectors := collectAll(t, e, 5000)
	if len(vectors) == 0 {
		t.Fatalf("expected at least one vector")
	}
	for _, v := range vectors {
		if v[sv].Bits() <= v[xv].Bits() {
			t.Fatalf("width monotonicity violated: sext=%d arg=%d", v[sv].Bits(), v[xv].Bits())
		}
	}
}

// (Specific pinning): a pinned term must take exactly its pinned type in
// every enumerated vector.
func TestEnumerator_RespectsPinning(t *testing.T) {
	x := ir.NewTypedInput("x", ir.NewIntType(17))
	y := ir.NewInput("y")
	add := ir.NewBinInt(ir.Add, x, y)
	m := model(t, add)

	xv, _ := m.TyVarOf(x.ID())

	e := New(m, 9)
	vectors := collectAll(t, e, 500)
	for _, v := range vectors {
		if v[xv].Bits() != 17 {
			t.Fatalf("expected pinned width 17, got %d", v[xv].Bits())
		}
	}
}

// (Enumerator finiteness): a finite int_limit and finite tyvars must
// yield a finite sequence.
func TestEnumerator_Finite(t *testing.T) {
	x := ir.NewInput("x")
	id := ir.NewConv(ir.ZExtOrTrunc, x)
	m := model(t, id)

	e := New(m, 6)
	vectors := collectAll(t, e, 10000)
	if len(vectors) == 0 {
		t.Fatalf("expected at least one vector")
	}
	if _, ok := e.Next(); ok {
		t.Fatalf("expected enumeration to terminate")
	}
}
