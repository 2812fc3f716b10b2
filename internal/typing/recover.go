package typing

import "rival/internal/rvlerr"

// recoverTypeError turns a panic raised by a *rvlerr.TypeError (the way
// Specific/Constrain signal a lattice conflict, matching the original's
// exception-raising style) into a returned error. Any other panic value
// is an internal invariant violation and is allowed to propagate and
// abort loudly (spec.md §7).
func recoverTypeError(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if te, ok := r.(*rvlerr.TypeError); ok {
		*err = te
		return
	}
	panic(r)
}
