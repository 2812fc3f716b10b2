// Package typing implements the constraint gatherer (C3) and abstract
// type model (C4) of spec.md §4.2-§4.4: unifying type variables across a
// term, building a model of the remaining typing freedom, and extending
// or validating a term against an already-built model.
package typing

import (
	"fmt"
	"sort"

	"rival/internal/ir"
	"rival/internal/rvlerr"
	"rival/internal/unionfind"
)

// widthBound is spec.md §3's "lo is a term or an integer": the lower
// side of a width_order constraint.
type widthBound struct {
	isConst bool
	konst   int
	term    ir.TermID
}

func constBound(n int) widthBound    { return widthBound{isConst: true, konst: n} }
func termBound(id ir.TermID) widthBound { return widthBound{term: id} }

type orderPair struct {
	lo widthBound
	hi ir.TermID
}

type eqPair struct{ a, b ir.TermID }

func canonicalEq(a, b ir.TermID) eqPair {
	if a > b {
		a, b = b, a
	}
	return eqPair{a, b}
}

// Constraints is the constraint-gathering visitor spec.md §4.2 describes
// (C3): it implements ir.Visitor and accumulates a disjoint-set over term
// identities, per-representative pinned types and constraint classes,
// and the raw width ordering/equality relations, ready for Finalize.
type Constraints struct {
	uf       *unionfind.Unifier[ir.TermID]
	terms    map[ir.TermID]ir.Term
	specific map[ir.TermID]ir.Type
	classOf  map[ir.TermID]ir.ConstraintClass
	ordering map[orderPair]struct{}
	widthEq  map[eqPair]struct{}

	defaultRep ir.TermID
	hasDefault bool
}

// NewConstraints returns an empty gatherer.
func NewConstraints() *Constraints {
	return &Constraints{
		uf:       unionfind.New[ir.TermID](),
		terms:    make(map[ir.TermID]ir.Term),
		specific: make(map[ir.TermID]ir.Type),
		classOf:  make(map[ir.TermID]ir.ConstraintClass),
		ordering: make(map[orderPair]struct{}),
		widthEq:  make(map[eqPair]struct{}),
	}
}

// Collect gathers constraints for term and every subterm reachable from
// it not already present in seen (spec.md §4.2's "collect"). Passing the
// same seen set across several calls (source, target, precondition) lets
// shared subterms be visited once.
func (c *Constraints) Collect(term ir.Term, seen map[ir.TermID]bool) (err error) {
	defer recoverTypeError(&err)
	for _, t := range ir.Subterms(term, seen) {
		t.TypeConstraints(c)
	}
	return nil
}

func (c *Constraints) rep(t ir.Term) ir.TermID {
	id := t.ID()
	if _, ok := c.terms[id]; !ok {
		c.terms[id] = t
		c.uf.AddKey(id)
	}
	return c.uf.Rep(id)
}

func (c *Constraints) describe(id ir.TermID) string {
	if t, ok := c.terms[id]; ok {
		return t.Describe()
	}
	return fmt.Sprintf("term#%d", id)
}

// merge migrates the absorbed representative's specific type, constraint
// class, and default-rep role onto the survivor, exactly as
// TypeConstraints._merge does in the original.
func (c *Constraints) merge(survivor, absorbed ir.TermID) {
	if ty, ok := c.specific[absorbed]; ok {
		delete(c.specific, absorbed)
		c.specificRep(survivor, ty)
	}
	if cls, ok := c.classOf[absorbed]; ok {
		delete(c.classOf, absorbed)
		c.constrainRep(survivor, cls)
	}
	if c.hasDefault && c.defaultRep == absorbed {
		c.defaultRep = survivor
	}
}

// EqTypes unifies the representatives of every argument (spec.md §4.2).
func (c *Constraints) EqTypes(terms ...ir.Term) {
	if len(terms) == 0 {
		return
	}
	r1 := c.rep(terms[0])
	for _, t := range terms[1:] {
		c.uf.Unify(r1, c.rep(t), c.merge)
	}
}

func (c *Constraints) specificRep(r ir.TermID, ty ir.Type) {
	if existing, ok := c.specific[r]; ok {
		if !ir.Equal(existing, ty) {
			panic(rvlerr.New(rvlerr.IncompatibleTypes, rvlerr.TermDesc{Name: c.describe(r)},
				"%s and %s", existing, ty))
		}
		return
	}
	c.specific[r] = ty
}

// Specific pins term's representative to a concrete type; a conflicting
// second pin is a fatal IncompatibleTypes error (spec.md §4.2, §9's note
// on formatting the error from the resolved rep/type directly).
func (c *Constraints) Specific(t ir.Term, ty ir.Type) {
	if ty == nil {
		return
	}
	c.specificRep(c.rep(t), ty)
}

func (c *Constraints) constrainRep(r ir.TermID, class ir.ConstraintClass) {
	cur, ok := c.classOf[r]
	if !ok {
		cur = ir.FirstClass
	}
	merged, okMeet := ir.Meet(cur, class)
	if !okMeet {
		panic(rvlerr.New(rvlerr.IncompatibleConstraints, rvlerr.TermDesc{Name: c.describe(r)},
			"%s and %s", class, cur))
	}
	c.classOf[r] = merged
}

// Constrain meets term's representative's constraint class with class;
// an incompatible meet is a fatal IncompatibleConstraints error.
func (c *Constraints) Constrain(t ir.Term, class ir.ConstraintClass) {
	c.constrainRep(c.rep(t), class)
}

func (c *Constraints) Integer(t ir.Term)    { c.Constrain(t, ir.Int) }
func (c *Constraints) Bool(t ir.Term)       { c.Constrain(t, ir.Bool) }
func (c *Constraints) Pointer(t ir.Term)    { c.Constrain(t, ir.Ptr) }
func (c *Constraints) IntPtrVec(t ir.Term)  { c.Constrain(t, ir.IntPtr) }
func (c *Constraints) Float(t ir.Term)      { c.Constrain(t, ir.Float) }
func (c *Constraints) Number(t ir.Term)     { c.Constrain(t, ir.Number) }
func (c *Constraints) FirstClass(t ir.Term) { c.Constrain(t, ir.FirstClass) }

// WidthOrder records width(lo) < width(hi); lo may be a fixed integer
// lower bound or another term (spec.md §4.2).
func (c *Constraints) WidthOrder(lo ir.Width, hi ir.Term) {
	var b widthBound
	if lo.IsConst() {
		b = constBound(lo.Const())
	} else {
		b = termBound(c.rep(lo.Term()))
	}
	c.ordering[orderPair{lo: b, hi: c.rep(hi)}] = struct{}{}
}

// WidthEqual records bits(a) == bits(b) (spec.md §4.2). No
// TypeConstraints method in internal/ir calls it.
func (c *Constraints) WidthEqual(a, b ir.Term) {
	c.widthEq[canonicalEq(c.rep(a), c.rep(b))] = struct{}{}
}

func (c *Constraints) initDefault(r ir.TermID) {
	c.specificRep(r, ir.NewIntType(64))
	c.constrainRep(r, ir.Int)
	c.defaultRep = r
	c.hasDefault = true
}

// Default ties term to the model's default predicate type
// (IntType(64), constraint INT), creating that default representative
// the first time it is needed (spec.md §4.2, §4.3).
func (c *Constraints) Default(t ir.Term) {
	if !c.hasDefault {
		c.initDefault(c.rep(t))
		return
	}
	c.uf.Unify(c.rep(t), c.defaultRep, c.merge)
}

// sortedOrderPairs and sortedEqPairs give Finalize a deterministic
// iteration order over its gathered sets (Go's map iteration is
// randomized; the refinement checker's behavior must not be, spec.md §6).
// Both take the already-rep-resolved set built in Finalize's step 1,
// not c.ordering/c.widthEq directly, since those still need resolving
// through the union-find before they're comparable.
func sortedOrderPairs(set map[orderPair]struct{}) []orderPair {
	out := make([]orderPair, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].hi != out[j].hi {
			return out[i].hi < out[j].hi
		}
		if out[i].lo.isConst != out[j].lo.isConst {
			return out[i].lo.isConst
		}
		if out[i].lo.isConst {
			return out[i].lo.konst < out[j].lo.konst
		}
		return out[i].lo.term < out[j].lo.term
	})
	return out
}

func sortedEqPairs(set map[eqPair]struct{}) []eqPair {
	out := make([]eqPair, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].a != out[j].a {
			return out[i].a < out[j].a
		}
		return out[i].b < out[j].b
	})
	return out
}
