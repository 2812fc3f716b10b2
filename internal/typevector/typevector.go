// Package typevector implements the lazy type-vector enumerator spec.md
// §4.3 describes (C5): given an AbstractTypeModel, it streams every
// concrete type assignment consistent with the model's constraints,
// ordering integer-width candidates the same deliberately non-monotone
// way the original does, so that the practically interesting widths
// (4, 8) surface before the enumerator works through the rest of the
// range.
//
// Grounded on alive/typing.py's TypeVectorEnumerator: replaced the
// recursive-generator style with an explicit DFS stack of
// (var_index, candidate index) frames (spec.md §9's rewrite note), which
// makes the sequence both lazy and restartable without goroutines.
package typevector

import (
	"rival/internal/ir"
	"rival/internal/typing"
)

// Enumerator streams type vectors for a Model via successive calls to
// Next. It holds no goroutine; each Next resumes the DFS from wherever
// the previous call left off.
type Enumerator struct {
	model    *typing.Model
	intLimit int

	vector []ir.Type
	stack  []frame
	done   bool
	first  bool
}

type frame struct {
	varIdx     int
	candidates []ir.Type
	pos        int
}

// New builds an Enumerator for model, bounding integer widths to
// [1, intLimit) (spec.md §4.3's int_limit tunable, internal/refine.Config).
func New(model *typing.Model, intLimit int) *Enumerator {
	return &Enumerator{
		model:    model,
		intLimit: intLimit,
		vector:   make([]ir.Type, model.TyVars),
		first:    true,
	}
}

// floatCandidates is the fixed float search order: X86FP80 is excluded
// from enumeration even though it remains a legal pinned/specific type
// (spec.md §4.3).
var floatCandidates = []ir.Type{ir.HalfType{}, ir.SingleType{}, ir.DoubleType{}}

// intWidthOrder returns the non-monotone integer-width search sequence
// spec.md §4.3 specifies: 4, then 8, then 1-3, then 5-7, then 9..limit.
func intWidthOrder(limit int) []int {
	var out []int
	add := func(w int) {
		if w >= 1 && w < limit {
			out = append(out, w)
		}
	}
	add(4)
	add(8)
	for w := 1; w <= 3; w++ {
		add(w)
	}
	for w := 5; w <= 7; w++ {
		add(w)
	}
	for w := 9; w < limit; w++ {
		add(w)
	}
	return out
}

// candidatesFor builds the raw candidate list for a constraint class,
// before floor/equality filtering (spec.md §4.3).
func (e *Enumerator) candidatesFor(class ir.ConstraintClass) []ir.Type {
	switch class {
	case ir.Bool:
		return []ir.Type{ir.NewIntType(1)}
	case ir.Ptr:
		return []ir.Type{ir.PtrType{}}
	case ir.Float:
		return floatCandidates
	case ir.Int:
		widths := intWidthOrder(e.intLimit)
		out := make([]ir.Type, len(widths))
		for i, w := range widths {
			out[i] = ir.NewIntType(w)
		}
		return out
	case ir.IntPtr:
		widths := intWidthOrder(e.intLimit)
		out := make([]ir.Type, 0, len(widths)+1)
		for _, w := range widths {
			out = append(out, ir.NewIntType(w))
		}
		out = append(out, ir.PtrType{})
		return out
	case ir.Number:
		widths := intWidthOrder(e.intLimit)
		out := make([]ir.Type, 0, len(widths)+len(floatCandidates))
		for _, w := range widths {
			out = append(out, ir.NewIntType(w))
		}
		out = append(out, floatCandidates...)
		return out
	default: // FirstClass
		widths := intWidthOrder(e.intLimit)
		out := make([]ir.Type, 0, len(widths)+len(floatCandidates)+1)
		for _, w := range widths {
			out = append(out, ir.NewIntType(w))
		}
		out = append(out, floatCandidates...)
		out = append(out, ir.PtrType{})
		return out
	}
}

// survives reports whether candidate ty satisfies variable vid's floor
// (min_width plus sibling-resolved lower bounds) and any already-assigned
// width-equality partner.
func (e *Enumerator) survives(vid int, ty ir.Type) bool {
	floor := e.model.Floor(vid, e.vector)
	if ty.Bits() <= floor {
		return false
	}
	if partner, ok := e.model.WidthEquality[vid]; ok {
		if assigned := e.vector[partner]; assigned != nil {
			if assigned.Bits() != ty.Bits() {
				return false
			}
		}
	}
	return true
}

// pushFrame computes (or short-circuits) the candidate list for variable
// vid and pushes a DFS frame for it. ok is false if vid is exhausted with
// no viable candidate (the caller should backtrack).
func (e *Enumerator) pushFrame(vid int) (fr frame, ok bool) {
	if pinned, isPinned := e.model.Specific[vid]; isPinned {
		if !e.survives(vid, pinned) {
			return frame{}, false
		}
		return frame{varIdx: vid, candidates: []ir.Type{pinned}, pos: 0}, true
	}
	raw := e.candidatesFor(e.model.Constraint[vid])
	filtered := raw[:0:0]
	for _, c := range raw {
		if e.survives(vid, c) {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return frame{}, false
	}
	return frame{varIdx: vid, candidates: filtered, pos: 0}, true
}

// Next advances the DFS to the next complete vector, returning it (a
// fresh slice the caller owns) and true, or (nil, false) once the
// sequence is exhausted. Repeated calls resume from where the previous
// one left off; the sequence is finite whenever int_limit is finite
// (spec.md §8's "Enumerator finiteness").
func (e *Enumerator) Next() ([]ir.Type, bool) {
	if e.done {
		return nil, false
	}

	if e.first {
		e.first = false
		if e.model.TyVars == 0 {
			e.done = true
			return []ir.Type{}, true
		}
		fr, ok := e.pushFrame(0)
		if !ok {
			e.done = true
			return nil, false
		}
		e.vector[0] = fr.candidates[0]
		e.stack = append(e.stack, fr)
		if out, complete := e.descend(); complete {
			return out, true
		}
		return e.advance()
	}
	return e.advance()
}

// descend pushes frames for every remaining variable after the top of
// the stack has just been assigned a candidate, returning the completed
// vector if it reaches the end.
func (e *Enumerator) descend() ([]ir.Type, bool) {
	for len(e.stack) < e.model.TyVars {
		next := e.stack[len(e.stack)-1].varIdx + 1
		fr, ok := e.pushFrame(next)
		if !ok {
			return nil, false
		}
		e.vector[next] = fr.candidates[0]
		e.stack = append(e.stack, fr)
	}
	out := make([]ir.Type, len(e.vector))
	copy(out, e.vector)
	return out, true
}

// advance backtracks until it finds a frame with an unexplored
// candidate, reassigns it, and re-descends; it is the workhorse behind
// every Next call after the first.
func (e *Enumerator) advance() ([]ir.Type, bool) {
	for {
		if len(e.stack) == 0 {
			e.done = true
			return nil, false
		}
		top := &e.stack[len(e.stack)-1]
		top.pos++
		if top.pos < len(top.candidates) {
			e.vector[top.varIdx] = top.candidates[top.pos]
			if out, complete := e.descend(); complete {
				return out, true
			}
			continue
		}
		e.vector[top.varIdx] = nil
		e.stack = e.stack[:len(e.stack)-1]
	}
}
