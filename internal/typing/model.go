package typing

import (
	"rival/internal/ir"
	"rival/internal/rvlerr"
)

// Model is the AbstractTypeModel spec.md §3/§4.3 (C4) describes: an
// immutable snapshot of every remaining typing freedom in a term,
// indexed by dense type-variable IDs 0..TyVars-1 in topological order of
// LowerBounds (j in LowerBounds[i] implies j < i).
//
// Per spec.md §9's rewrite recommendation, the term-identity-to-tyvar
// context mapping is a field on Model rather than a process-wide weak
// map: there is no global state to invalidate on re-typing, and
// concurrent finalization of disjoint models is trivially safe because
// each has its own map.
type Model struct {
	Constraint    []ir.ConstraintClass
	Specific      map[int]ir.Type
	MinWidth      map[int]int
	LowerBounds   map[int][]int
	WidthEquality map[int]int // tyvar -> canonical (smallest) tyvar in its class
	DefaultID     int
	TyVars        int

	context map[ir.TermID]int
}

// TyVarOf returns the type-variable ID assigned to term, if any.
func (m *Model) TyVarOf(id ir.TermID) (int, bool) {
	v, ok := m.context[id]
	return v, ok
}

// Bits returns a type's bit width the way the model's width relations
// count it: PtrType is always 64 regardless of its incomparability with
// non-pointer types in the Type ordering (SPEC_FULL.md §4.1).
func (m *Model) Bits(t ir.Type) int { return t.Bits() }

// Floor computes the width floor for variable vid given a
// partially-assigned vector: the max of its min-width bound and the
// widths already assigned to its lower-bound variables (spec.md §4.3).
func (m *Model) Floor(vid int, vector []ir.Type) int {
	floor := m.MinWidth[vid]
	for _, lb := range m.LowerBounds[vid] {
		if vector[lb] == nil {
			continue
		}
		if w := m.Bits(vector[lb]); w > floor {
			floor = w
		}
	}
	return floor
}

// WidthEqualTyvars reports whether a and b belong to the same
// width-equality class (spec.md §4.3's "helper queries").
func (m *Model) WidthEqualTyvars(a, b int) bool {
	if a > b {
		a, b = b, a
	}
	for {
		next, ok := m.WidthEquality[b]
		if !ok {
			return false
		}
		b = next
		if a == b {
			return true
		}
	}
}

// TransitiveLowerBounds yields the reflexive-exclusive transitive
// closure of LowerBounds for tyvar.
func (m *Model) TransitiveLowerBounds(tyvar int) []int {
	seen := make(map[int]bool)
	var out []int
	var visit func(int)
	visit = func(v int) {
		for _, lb := range m.LowerBounds[v] {
			if seen[lb] {
				continue
			}
			seen[lb] = true
			out = append(out, lb)
			visit(lb)
		}
	}
	visit(tyvar)
	return out
}

// color is used by the three-color DFS topological sort in Finalize.
type color int

const (
	white color = iota
	gray
	black
)

// Finalize produces the AbstractTypeModel for every constraint gathered
// so far (spec.md §4.2's "finalize" algorithm, steps 1-8).
func (c *Constraints) Finalize() (m *Model, err error) {
	defer recoverTypeError(&err)

	// Step 1: simplify ordering/equality sets to current reps, drop
	// reflexive equalities, canonicalize unordered pairs. Reps may have
	// moved since WidthOrder/WidthEqual were recorded (further unifies
	// happened later), so re-resolve through the union-find now.
	orderSet := make(map[orderPair]struct{})
	for p := range c.ordering {
		hi := c.uf.Rep(p.hi)
		lo := p.lo
		if !lo.isConst {
			lo = termBound(c.uf.Rep(lo.term))
		}
		orderSet[orderPair{lo: lo, hi: hi}] = struct{}{}
	}
	eqSet := make(map[eqPair]struct{})
	for p := range c.widthEq {
		a, b := c.uf.Rep(p.a), c.uf.Rep(p.b)
		if a == b {
			continue
		}
		eqSet[canonicalEq(a, b)] = struct{}{}
	}

	// Every downstream pass over orderSet/eqSet uses this sorted form
	// instead of ranging the maps directly: map iteration order is
	// randomized, but the lower_bounds append order below feeds the DFS's
	// child-visit order, which in turn decides tyvar numbering — that must
	// be a pure function of the gathered constraints (spec.md §6).
	sortedOrders := sortedOrderPairs(orderSet)
	sortedEqs := sortedEqPairs(eqSet)

	// Step 2: every ordering with a term lower bound must have compatible
	// constraint classes.
	for _, p := range sortedOrders {
		if p.lo.isConst {
			continue
		}
		loClass := c.classOf[p.lo.term]
		hiClass := c.classOf[p.hi]
		if _, ok := ir.Meet(loClass, hiClass); !ok {
			return nil, rvlerr.New(rvlerr.IncompatibleConstraints,
				rvlerr.TermDesc{Name: c.describe(p.hi)},
				"width ordering between incompatible constraint classes %s and %s", loClass, hiClass)
		}
	}

	// Step 3-4: topological sort reps by lower_bounds via three-color DFS,
	// assigning dense IDs in visitation-completion order.
	lowerBoundsByRep := make(map[ir.TermID][]ir.TermID)
	minWidthByRep := make(map[ir.TermID]int)
	for _, p := range sortedOrders {
		if p.lo.isConst {
			if p.lo.konst > minWidthByRep[p.hi] {
				minWidthByRep[p.hi] = p.lo.konst
			}
			continue
		}
		lowerBoundsByRep[p.hi] = append(lowerBoundsByRep[p.hi], p.lo.term)
	}

	colors := make(map[ir.TermID]color)
	var order []ir.TermID
	var visit func(ir.TermID) error
	visit = func(r ir.TermID) error {
		switch colors[r] {
		case black:
			return nil
		case gray:
			return rvlerr.New(rvlerr.CircularOrdering, rvlerr.TermDesc{Name: c.describe(r)},
				"circular width ordering")
		}
		colors[r] = gray
		for _, p := range lowerBoundsByRep[r] {
			if err := visit(p); err != nil {
				return err
			}
		}
		colors[r] = black
		order = append(order, r)
		return nil
	}
	for _, r := range c.uf.Reps() {
		if err := visit(r); err != nil {
			return nil, err
		}
	}

	tyvars := make(map[ir.TermID]int, len(order))
	for i, r := range order {
		tyvars[r] = i
	}

	// Step 5: copy specifics/constraints/min_width/lower_bounds into
	// tyvar-indexed form.
	constraint := make([]ir.ConstraintClass, len(order))
	specific := make(map[int]ir.Type)
	minWidth := make(map[int]int)
	lowerBounds := make(map[int][]int)
	context := make(map[ir.TermID]int)

	for r, vid := range tyvars {
		cls, ok := c.classOf[r]
		if !ok {
			cls = ir.FirstClass
		}
		constraint[vid] = cls

		if ty, ok := c.specific[r]; ok {
			if !ir.Meets(cls, ty) {
				return nil, rvlerr.New(rvlerr.IncompatibleConstraints, rvlerr.TermDesc{Name: c.describe(r)},
					"%s does not meet constraint %s", ty, cls)
			}
			specific[vid] = ty
		}
		if w, ok := minWidthByRep[r]; ok {
			minWidth[vid] = w
		}
		if lbs, ok := lowerBoundsByRep[r]; ok {
			ids := make([]int, len(lbs))
			for i, lb := range lbs {
				ids[i] = tyvars[lb]
			}
			lowerBounds[vid] = ids
		}
		for _, member := range c.uf.Subset(r) {
			context[member] = vid
		}
	}

	// width_equality: each variable points to the smallest ID in its
	// class (spec.md §4.2 step 5). Classes are merged under the smaller
	// root, then flattened so each member points straight at that root.
	widthEquality := make(map[int]int)
	root := func(v int) int {
		for next, ok := widthEquality[v]; ok; next, ok = widthEquality[v] {
			v = next
		}
		return v
	}
	for _, p := range sortedEqs {
		ra, rb := root(tyvars[p.a]), root(tyvars[p.b])
		if ra > rb {
			ra, rb = rb, ra
		}
		if ra != rb {
			widthEquality[rb] = ra
		}
	}
	for v := range widthEquality {
		widthEquality[v] = root(v)
	}

	// Step 6: synthesize a default variable if none was tied by Default().
	defaultID := 0
	if c.hasDefault {
		defaultID = tyvars[c.uf.Rep(c.defaultRep)]
	} else {
		defaultID = len(constraint)
		constraint = append(constraint, ir.Int)
		specific[defaultID] = ir.NewIntType(64)
	}

	m = &Model{
		Constraint:    constraint,
		Specific:      specific,
		MinWidth:      minWidth,
		LowerBounds:   lowerBounds,
		WidthEquality: widthEquality,
		DefaultID:     defaultID,
		TyVars:        len(constraint),
		context:       context,
	}
	return m, nil
}
