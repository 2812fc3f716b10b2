package unionfind

import (
	"reflect"
	"testing"
)

func assertRepsEqual(t *testing.T, u *Unifier[int], a, b int) {
	t.Helper()
	if u.Rep(a) != u.Rep(b) {
		t.Errorf("expected Rep(%d) == Rep(%d), got %d != %d", a, b, u.Rep(a), u.Rep(b))
	}
}

func TestUnifyMergesSubsets(t *testing.T) {
	u := New[int]()
	u.AddKey(1)
	u.AddKey(2)
	u.AddKey(3)

	u.Unify(1, 2, nil)
	assertRepsEqual(t, u, 1, 2)

	u.Unify(2, 3, nil)
	assertRepsEqual(t, u, 1, 3)
}

func TestUnifyIdempotence(t *testing.T) {
	// (Unification idempotence) After eq_types(a, a), every subsequent
	// rep(a) is stable — spec.md §8.
	u := New[int]()
	u.AddKey(1)
	r1 := u.Rep(1)
	u.Unify(1, 1, nil)
	if u.Rep(1) != r1 {
		t.Errorf("rep changed after self-unify: %d != %d", u.Rep(1), r1)
	}
}

func TestOnMergeCalledOnce(t *testing.T) {
	u := New[int]()
	u.AddKey(1)
	u.AddKey(2)

	calls := 0
	var survivor, absorbed int
	u.Unify(1, 2, func(s, a int) {
		calls++
		survivor, absorbed = s, a
	})

	if calls != 1 {
		t.Fatalf("expected OnMerge called exactly once, got %d", calls)
	}
	if u.Rep(1) != survivor || u.Rep(2) != survivor {
		t.Errorf("survivor %d is not the resulting rep", survivor)
	}
	if survivor == absorbed {
		t.Errorf("survivor and absorbed must differ")
	}

	// Unifying already-merged elements must not call OnMerge again.
	u.Unify(1, 2, func(int, int) { t.Errorf("OnMerge should not fire for already-unified keys") })
}

func TestSubsetAndReps(t *testing.T) {
	u := New[int]()
	for _, k := range []int{1, 2, 3, 4} {
		u.AddKey(k)
	}
	u.Unify(1, 2, nil)
	u.Unify(3, 4, nil)

	reps := u.Reps()
	if len(reps) != 2 {
		t.Fatalf("expected 2 representatives, got %d: %v", len(reps), reps)
	}

	sub := u.Subset(u.Rep(1))
	want := []int{1, 2}
	if !reflect.DeepEqual(sub, want) {
		t.Errorf("Subset(rep(1)) = %v, want %v", sub, want)
	}
}

func TestAddKeyCreatesSingleton(t *testing.T) {
	u := New[int]()
	u.AddKey(42)
	if u.Rep(42) != 42 {
		t.Errorf("expected singleton rep 42, got %d", u.Rep(42))
	}
	if len(u.Subset(42)) != 1 {
		t.Errorf("expected singleton subset, got %v", u.Subset(42))
	}
}
