package typing

import (
	"rival/internal/ir"
	"rival/internal/rvlerr"
)

// Validate checks that vector — one concrete ir.Type per tyvar, indexed
// by tyvar ID — actually satisfies every constraint term's subterms
// impose, bit-exactly (spec.md §4.5). This mirrors the enumerator's own
// incremental pruning but runs it as a single pass over a complete
// vector, the way the original Validator class double-checks a
// candidate before it is handed to the translator.
func Validate(model *Model, vector []ir.Type, term ir.Term, seen map[ir.TermID]bool) (err error) {
	defer recoverTypeError(&err)

	v := &validator{model: model, vector: vector}
	for _, t := range ir.Subterms(term, seen) {
		t.TypeConstraints(v)
	}
	return nil
}

type validator struct {
	model  *Model
	vector []ir.Type
}

func (v *validator) typeOf(t ir.Term) (ir.Type, bool) {
	vid, ok := v.model.TyVarOf(t.ID())
	if !ok {
		return nil, false
	}
	return v.vector[vid], true
}

func (v *validator) vname(t ir.Term) string { return t.Describe() }

func (v *validator) checkClass(t ir.Term, class ir.ConstraintClass) {
	ty, ok := v.typeOf(t)
	if !ok {
		return
	}
	if !ir.Meets(class, ty) {
		panic(rvlerr.New(rvlerr.IncompatibleConstraints, rvlerr.TermDesc{Name: v.vname(t)},
			"%s does not meet %s", ty, class))
	}
}

func (v *validator) EqTypes(terms ...ir.Term) {
	var first ir.Type
	for _, t := range terms {
		ty, ok := v.typeOf(t)
		if !ok {
			continue
		}
		if first == nil {
			first = ty
			continue
		}
		if !ir.Equal(first, ty) {
			panic(rvlerr.New(rvlerr.IncompatibleTypes, rvlerr.TermDesc{Name: v.vname(t)},
				"%s and %s", first, ty))
		}
	}
}

func (v *validator) Specific(t ir.Term, ty ir.Type) {
	if ty == nil {
		return
	}
	actual, ok := v.typeOf(t)
	if !ok {
		return
	}
	if !ir.Equal(actual, ty) {
		panic(rvlerr.New(rvlerr.IncompatibleTypes, rvlerr.TermDesc{Name: v.vname(t)},
			"vector assigns %s but term requires %s", actual, ty))
	}
}

func (v *validator) Constrain(t ir.Term, class ir.ConstraintClass) { v.checkClass(t, class) }

func (v *validator) Integer(t ir.Term)    { v.checkClass(t, ir.Int) }
func (v *validator) Bool(t ir.Term)       { v.checkClass(t, ir.Bool) }
func (v *validator) Pointer(t ir.Term)    { v.checkClass(t, ir.Ptr) }
func (v *validator) IntPtrVec(t ir.Term)  { v.checkClass(t, ir.IntPtr) }
func (v *validator) Float(t ir.Term)      { v.checkClass(t, ir.Float) }
func (v *validator) Number(t ir.Term)     { v.checkClass(t, ir.Number) }
func (v *validator) FirstClass(t ir.Term) { v.checkClass(t, ir.FirstClass) }

func (v *validator) WidthOrder(lo ir.Width, hi ir.Term) {
	hiTy, ok := v.typeOf(hi)
	if !ok {
		return
	}
	var loBits int
	if lo.IsConst() {
		loBits = lo.Const()
	} else {
		loTy, ok := v.typeOf(lo.Term())
		if !ok {
			return
		}
		loBits = loTy.Bits()
	}
	if loBits >= hiTy.Bits() {
		panic(rvlerr.New(rvlerr.IncompatibleConstraints, rvlerr.TermDesc{Name: v.vname(hi)},
			"width %d is not strictly greater than %d", hiTy.Bits(), loBits))
	}
}

func (v *validator) WidthEqual(a, b ir.Term) {
	aTy, aok := v.typeOf(a)
	bTy, bok := v.typeOf(b)
	if !aok || !bok {
		return
	}
	if aTy.Bits() != bTy.Bits() {
		panic(rvlerr.New(rvlerr.IncompatibleConstraints, rvlerr.TermDesc{Name: v.vname(a)},
			"widths %d and %d are not equal", aTy.Bits(), bTy.Bits()))
	}
}

func (v *validator) Default(t ir.Term) {
	ty, ok := v.typeOf(t)
	if !ok {
		return
	}
	def := v.vector[v.model.DefaultID]
	if !ir.Equal(ty, def) {
		panic(rvlerr.New(rvlerr.IncompatibleTypes, rvlerr.TermDesc{Name: v.vname(t)},
			"%s does not match model default %s", ty, def))
	}
}
