package ir

import "sync/atomic"

// TermID is the stable integer identity spec.md §9 recommends in place of
// the original's object-identity-keyed weak map: every Term gets one at
// construction time and keeps it for its lifetime, so a typing.Model can
// key its context mapping on a plain int instead of pointer identity.
type TermID int64

var nextTermID int64

func newTermID() TermID {
	return TermID(atomic.AddInt64(&nextTermID, 1))
}

// Term is the common interface every IR node variant (Value, Instruction,
// Constant, Predicate) implements: spec.md §6's "IR-node contract".
type Term interface {
	// ID is this term's stable identity, used by typing.Model's context
	// mapping and by Subterms' seen-set.
	ID() TermID
	// Operands returns this node's direct children in a fixed arity
	// order, used for generic DAG traversal (Subterms). Leaves return nil.
	Operands() []Term
	// TypeConstraints invokes the visitor's methods describing this
	// node's local typing rule (spec.md §4.2). The same method is reused,
	// unmodified, by the gatherer, the model extender, and the validator
	// — only the Visitor implementation differs (spec.md §4.4, §4.5).
	TypeConstraints(v Visitor)
	// Describe names the term for error messages, without requiring a
	// caller to reach back into a map that might not hold it (spec.md §9).
	Describe() string
}

// Width is either a concrete bit count (an integer literal lower bound,
// as in "width(%x) < 33") or a Term whose own width participates in an
// ordering or equality constraint (spec.md §3's "lo may be a term or an
// integer").
type Width struct {
	term    Term
	konst   int
	isKonst bool
}

func WidthOf(t Term) Width  { return Width{term: t} }
func WidthConst(n int) Width { return Width{konst: n, isKonst: true} }

func (w Width) IsConst() bool { return w.isKonst }
func (w Width) Const() int    { return w.konst }
func (w Width) Term() Term    { return w.term }

// Visitor is the constraint-gathering interface spec.md §4.2 describes.
// Constraints (internal/typing) is the primary implementation; the model
// extender and the validator reuse the same TypeConstraints call sites
// through their own Visitor implementations (spec.md §4.4, §4.5).
type Visitor interface {
	EqTypes(terms ...Term)
	Specific(t Term, ty Type)
	Constrain(t Term, c ConstraintClass)
	Integer(t Term)
	Bool(t Term)
	Pointer(t Term)
	IntPtrVec(t Term)
	Float(t Term)
	Number(t Term)
	FirstClass(t Term)
	WidthOrder(lo Width, hi Term)
	WidthEqual(a, b Term)
	Default(t Term)
}

// Subterms yields term and every subterm reachable from it, in
// depth-first order, each exactly once. seen, if non-nil, is both
// consulted and updated, letting a caller gather several terms (e.g. a
// source, a target, and a precondition that share inputs) without
// revisiting shared subterms (spec.md §6).
func Subterms(term Term, seen map[TermID]bool) []Term {
	if seen == nil {
		seen = make(map[TermID]bool)
	}
	var order []Term
	var visit func(Term)
	visit = func(t Term) {
		if t == nil || seen[t.ID()] {
			return
		}
		seen[t.ID()] = true
		for _, child := range t.Operands() {
			visit(child)
		}
		order = append(order, t)
	}
	visit(term)
	return order
}
