package typing

import (
	"rival/internal/ir"
	"rival/internal/rvlerr"
)

// Extend checks term (and its subterms not already in seen) against an
// already-finalized model without introducing new type variables
// (spec.md §4.4): each typing rule is checked against the tyvars the
// model already assigns, so a precondition or target term can be checked
// for consistency with a model built from the source term. Extend does
// not record tyvars for terms the model does not cover and does not tie
// them to the model's default; a rule involving such a term is not
// checked against it.
//
// The operands of Comparison, UnaryAnalysisPred and BinaryAnalysisPred
// may therefore fall outside of model's context entirely; they are
// recursed into for their own subterms but never themselves required to
// already have a tyvar.
func Extend(model *Model, term ir.Term, seen map[ir.TermID]bool) (err error) {
	defer recoverTypeError(&err)

	e := &extender{model: model}
	for _, t := range ir.Subterms(term, seen) {
		t.TypeConstraints(e)
	}
	return nil
}

// extender implements ir.Visitor by checking each constraint against an
// already-finalized Model instead of accumulating new ones.
type extender struct {
	model *Model
}

func (e *extender) tyvar(t ir.Term) (int, bool) {
	return e.model.TyVarOf(t.ID())
}

func (e *extender) vname(t ir.Term) string { return t.Describe() }

// checkClass verifies that t's assigned tyvar (if any) is compatible
// with class; if t has no tyvar at all, it is a pinned-specific-only
// term and there is nothing further to check here (spec.md §4.4's
// "defaultable" allowance).
func (e *extender) checkClass(t ir.Term, class ir.ConstraintClass) {
	vid, ok := e.tyvar(t)
	if !ok {
		return
	}
	if _, okMeet := ir.Meet(e.model.Constraint[vid], class); !okMeet {
		panic(rvlerr.New(rvlerr.ConstraintsTooStrong, rvlerr.TermDesc{Name: e.vname(t)},
			"model constraint %s is incompatible with required %s", e.model.Constraint[vid], class))
	}
}

func (e *extender) EqTypes(terms ...ir.Term) {
	var first int
	var haveFirst bool
	for _, t := range terms {
		vid, ok := e.tyvar(t)
		if !ok {
			continue
		}
		if !haveFirst {
			first, haveFirst = vid, true
			continue
		}
		if vid != first {
			panic(rvlerr.New(rvlerr.AmbiguousType, rvlerr.TermDesc{Name: e.vname(t)},
				"term is tied to tyvar %d but its peer is tied to %d", vid, first))
		}
	}
}

func (e *extender) Specific(t ir.Term, ty ir.Type) {
	if ty == nil {
		return
	}
	vid, ok := e.tyvar(t)
	if !ok {
		return
	}
	if pinned, hasPin := e.model.Specific[vid]; hasPin && !ir.Equal(pinned, ty) {
		panic(rvlerr.New(rvlerr.IncompatibleTypes, rvlerr.TermDesc{Name: e.vname(t)},
			"model pins %s but term requires %s", pinned, ty))
	}
}

func (e *extender) Constrain(t ir.Term, class ir.ConstraintClass) { e.checkClass(t, class) }

func (e *extender) Integer(t ir.Term)    { e.checkClass(t, ir.Int) }
func (e *extender) Bool(t ir.Term)       { e.checkClass(t, ir.Bool) }
func (e *extender) Pointer(t ir.Term)    { e.checkClass(t, ir.Ptr) }
func (e *extender) IntPtrVec(t ir.Term)  { e.checkClass(t, ir.IntPtr) }
func (e *extender) Float(t ir.Term)      { e.checkClass(t, ir.Float) }
func (e *extender) Number(t ir.Term)     { e.checkClass(t, ir.Number) }
func (e *extender) FirstClass(t ir.Term) { e.checkClass(t, ir.FirstClass) }

// WidthOrder and WidthEqual check consistency against the model's
// already-finalized lower_bounds/width_equality relations when both
// sides already have tyvars; a side with no tyvar (a pinned constant
// term, or a defaultable argument) is accepted without further checks,
// since Finalize already validated every relation it itself recorded.
func (e *extender) WidthOrder(lo ir.Width, hi ir.Term) {
	hiID, ok := e.tyvar(hi)
	if !ok {
		return
	}
	if lo.IsConst() {
		return
	}
	loID, ok := e.tyvar(lo.Term())
	if !ok {
		return
	}
	for _, lb := range e.model.TransitiveLowerBounds(hiID) {
		if lb == loID {
			return
		}
	}
	if loID == hiID {
		return
	}
	panic(rvlerr.New(rvlerr.ConstraintsTooStrong, rvlerr.TermDesc{Name: e.vname(hi)},
		"width ordering not present in model"))
}

func (e *extender) WidthEqual(a, b ir.Term) {
	aID, aok := e.tyvar(a)
	bID, bok := e.tyvar(b)
	if !aok || !bok {
		return
	}
	if aID == bID || e.model.WidthEqualTyvars(aID, bID) {
		return
	}
	panic(rvlerr.New(rvlerr.ConstraintsTooStrong, rvlerr.TermDesc{Name: e.vname(a)},
		"width equality not present in model"))
}

func (e *extender) Default(t ir.Term) {
	vid, ok := e.tyvar(t)
	if !ok {
		return
	}
	if vid != e.model.DefaultID {
		panic(rvlerr.New(rvlerr.AmbiguousType, rvlerr.TermDesc{Name: e.vname(t)},
			"term is tied to tyvar %d but model default is %d", vid, e.model.DefaultID))
	}
}
