// Package refine implements the refinement checker spec.md §4.7
// describes (C7): orchestrating the gatherer, the abstract type model,
// the enumerator, and the translator into the three-query protocol that
// decides whether a target term refines a source term, and packaging any
// failure into a structured, deterministic counterexample report.
//
// Grounded on alive/__main__.py's check_refinement/check_refinement_at,
// with the solver-unknown handling spec.md §9 flags as an open question
// resolved explicitly here (see DESIGN.md): unknown is its own sentinel
// error distinct from both a clean pass and a RefinementError.
package refine

import (
	"github.com/google/uuid"

	"rival/internal/ir"
	"rival/internal/smt"
	"rival/internal/translate"
	"rival/internal/typevector"
	"rival/internal/typing"
)

// Config carries the two tunables spec.md §6 names: int_limit (the
// enumerator's exclusive upper bound on integer widths) and poison_undef
// (whether source poison excuses the target from its own UB obligation).
type Config struct {
	IntLimit    int
	PoisonUndef bool
}

// DefaultConfig matches spec.md §6's stated defaults.
func DefaultConfig() Config {
	return Config{IntLimit: 65, PoisonUndef: false}
}

// Cause names which of the three queries produced a counterexample.
type Cause int

const (
	UB Cause = iota
	Poison
	Unequal
)

func (c Cause) String() string {
	switch c {
	case UB:
		return "UB"
	case Poison:
		return "POISON"
	default:
		return "UNEQUAL"
	}
}

// ErrUnknown signals that a solver query returned `unknown` rather than
// sat/unsat (spec.md §9's open question, resolved as its own sentinel:
// distinct from both a clean pass and a reported RefinementError, so a
// driver can tell "verified", "counterexample found", and "solver gave
// up" apart).
type ErrUnknown struct {
	Vector []ir.Type
	Query  string
}

func (e *ErrUnknown) Error() string {
	return "refine: solver returned unknown on the " + e.Query + " query"
}

// RefinementError is the structured counterexample spec.md §6 names:
// which query failed, the model/types in play, and enough of the
// solver's satisfying assignment to format a human-readable report.
type RefinementError struct {
	Cause  Cause
	Model  *typing.Model
	Vector []ir.Type
	Src    ir.Term
	Tgt    ir.Term

	SrcValue, TgtValue smt.Expr
	SolverModel        smt.Model
	Inputs             []ir.Term // every Input reachable from src, in a stable order

	// InputValues carries each Input's own translated backend expression,
	// so the report can re-evaluate it against SolverModel without
	// re-running the translator.
	InputValues map[ir.TermID]smt.Expr

	// ReportID correlates this counterexample across whatever log lines
	// a driver emitted while enumerating type vectors toward it (spec.md
	// §9's translate/refine run identifier, never solver-visible and
	// never part of the deterministic `fresh` naming counter).
	ReportID uuid.UUID
}

func (e *RefinementError) Error() string {
	return formatReport(e)
}

// NewSolver is a factory for a fresh, empty smt.Solver. Each of the
// three queries check_refinement_at issues (spec.md §4.7) needs its own
// solver instance, since solver state is transient per query (spec.md
// §5): "solver state is transient per query".
type NewSolver func() smt.Solver

// CheckRefinement is spec.md §4.7's top-level entry point: gather
// constraints over src, tgt, and pre; finalize a model; enumerate every
// consistent type vector; and run check_refinement_at against each,
// stopping at the first counterexample (not exhaustive — spec.md §7).
func CheckRefinement(build smt.Builder, newSolver NewSolver, cfg Config, src, tgt ir.Term, pre ir.Term) (*RefinementError, error) {
	c := typing.NewConstraints()
	seen := make(map[ir.TermID]bool)
	if err := c.Collect(src, seen); err != nil {
		return nil, err
	}
	if err := c.Collect(tgt, seen); err != nil {
		return nil, err
	}
	if pre != nil {
		if err := c.Collect(pre, seen); err != nil {
			return nil, err
		}
	}

	model, err := c.Finalize()
	if err != nil {
		return nil, err
	}

	limit := cfg.IntLimit
	if limit <= 0 {
		limit = DefaultConfig().IntLimit
	}
	enum := typevector.New(model, limit)
	for {
		vector, ok := enum.Next()
		if !ok {
			return nil, nil
		}
		refErr, err := CheckRefinementAt(build, newSolver, cfg, model, vector, src, tgt, pre)
		if err != nil {
			return nil, err
		}
		if refErr != nil {
			return refErr, nil
		}
	}
}

// CheckRefinementAt runs the three-query protocol (UB, Poison, Equality)
// for one fixed type vector (spec.md §4.7's table). All three share one
// existential scope over every qvar introduced while translating src and
// tgt; a satisfiable query is reported distinctly by cause, and the
// first one found stops further checking of this vector.
func CheckRefinementAt(build smt.Builder, newSolver NewSolver, cfg Config, model *typing.Model, vector []ir.Type, src, tgt, pre ir.Term) (*RefinementError, error) {
	// One Translator evaluates src, tgt, and pre in turn so fresh names
	// (qvars, must-analysis booleans) stay unique across all three: every
	// qvar introduced anywhere shares one existential scope (spec.md
	// §4.7's "under the same existential for all qvars").
	tr := translate.New(build, model, vector)

	sv, sd, sp := evalWithSideConditions(tr, src)
	tv, td, tp := evalWithSideConditions(tr, tgt)

	var preCond smt.Expr
	var preDefs []smt.Expr
	if pre != nil {
		pv, pd, _ := evalWithSideConditions(tr, pre)
		preCond = pv
		preDefs = pd // pre's own side conditions are assumed, not asserted as goals
	}

	sdAll := build.BoolAnd(sd...)
	spAll := build.BoolAnd(sp...)
	tdAll := build.BoolAnd(td...)
	tpAll := build.BoolAnd(tp...)

	baseClauses := []smt.Expr{sdAll, spAll}
	if preCond != nil {
		baseClauses = append(baseClauses, preCond)
		baseClauses = append(baseClauses, preDefs...)
	}

	// UB query: if poison_undef is set, source poison also excuses the
	// target's definedness obligation (spec.md §4.7's table).
	ubGoal := build.BoolNot(tdAll)
	var ubClauses []smt.Expr
	if cfg.PoisonUndef {
		ubClauses = append(append([]smt.Expr{}, baseClauses...), ubGoal)
	} else {
		ubClauses = append([]smt.Expr{sdAll, ubGoal}, preconditionOnly(preCond, preDefs)...)
	}
	if cause, found, err := runQuery(build, newSolver, ubClauses, "UB"); err != nil {
		return nil, err
	} else if found {
		return buildError(UB, model, vector, src, tgt, tr, sv, tv, cause), nil
	}

	// Poison query.
	poisonGoal := build.BoolNot(tpAll)
	poisonClauses := append(append([]smt.Expr{}, baseClauses...), poisonGoal)
	if cause, found, err := runQuery(build, newSolver, poisonClauses, "Poison"); err != nil {
		return nil, err
	} else if found {
		return buildError(Poison, model, vector, src, tgt, tr, sv, tv, cause), nil
	}

	// Equality query. spec.md §4.7's table excludes the case both sides
	// are NaN: two NaNs are never "equal" under IEEE comparison, but they
	// also aren't a real refinement violation, so the negated goal is
	// sv≠tv ∧ ¬(isNaN(sv)∧isNaN(tv)).
	eqGoal := build.Ne(sv, tv)
	if isFPTerm(model, vector, src) {
		bothNaN := build.BoolAnd(build.IsNaN(sv), build.IsNaN(tv))
		eqGoal = build.BoolAnd(eqGoal, build.BoolNot(bothNaN))
	}
	eqClauses := append(append([]smt.Expr{}, baseClauses...), eqGoal)
	if cause, found, err := runQuery(build, newSolver, eqClauses, "Equality"); err != nil {
		return nil, err
	} else if found {
		return buildError(Unequal, model, vector, src, tgt, tr, sv, tv, cause), nil
	}

	return nil, nil
}

// evalWithSideConditions evaluates term on tr and returns its value
// alongside the defs/nops it contributed, without disturbing whatever
// tr already accumulated for a previously-evaluated term (qvars and the
// fresh-name counter stay shared and monotonically growing across an
// entire CheckRefinementAt call).
func evalWithSideConditions(tr *translate.Translator, term ir.Term) (value smt.Expr, defs, nops []smt.Expr) {
	defStart, nopStart := len(tr.Defs), len(tr.Nops)
	v := tr.Eval(term)
	return v, append([]smt.Expr{}, tr.Defs[defStart:]...), append([]smt.Expr{}, tr.Nops[nopStart:]...)
}

func preconditionOnly(preCond smt.Expr, preDefs []smt.Expr) []smt.Expr {
	if preCond == nil {
		return nil
	}
	return append([]smt.Expr{preCond}, preDefs...)
}

// runQuery asserts clauses into a fresh solver and checks them: a Sat
// result means the negated goal is reachable, i.e. a counterexample
// exists for this query.
func runQuery(build smt.Builder, newSolver NewSolver, clauses []smt.Expr, query string) (smt.Model, bool, error) {
	s := newSolver()
	s.Assert(build.BoolAnd(clauses...))
	switch s.Check() {
	case smt.Sat:
		return s.Model(), true, nil
	case smt.Unsat:
		return nil, false, nil
	default:
		return nil, false, &ErrUnknown{Query: query}
	}
}

func buildError(cause Cause, model *typing.Model, vector []ir.Type, src, tgt ir.Term, tr *translate.Translator, sv, tv smt.Expr, m smt.Model) *RefinementError {
	inputs := collectInputs(src)
	values := make(map[ir.TermID]smt.Expr, len(inputs))
	for _, in := range inputs {
		values[in.ID()] = tr.Eval(in)
	}
	return &RefinementError{
		Cause:       cause,
		Model:       model,
		Vector:      vector,
		Src:         src,
		Tgt:         tgt,
		SrcValue:    sv,
		TgtValue:    tv,
		SolverModel: m,
		Inputs:      inputs,
		InputValues: values,
		ReportID:    uuid.New(),
	}
}

// isFPTerm reports whether term's concrete type (per model/vector) is one
// of the floating-point sorts, so CheckRefinementAt knows whether its
// Equality query needs the both-NaN exclusion.
func isFPTerm(model *typing.Model, vector []ir.Type, term ir.Term) bool {
	switch typeOf(model, vector, term).(type) {
	case ir.HalfType, ir.SingleType, ir.DoubleType, ir.X86FP80Type:
		return true
	default:
		return false
	}
}

func collectInputs(term ir.Term) []ir.Term {
	var out []ir.Term
	seen := make(map[ir.TermID]bool)
	for _, t := range ir.Subterms(term, seen) {
		if _, ok := t.(*ir.Input); ok {
			out = append(out, t)
		}
	}
	return out
}
