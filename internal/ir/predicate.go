package ir

import (
	"fmt"
	"strings"
)

// Predicate is the marker every boolean (non-IR-value) node implements;
// it is purely documentary (Go has no sealed-interface enforcement) but
// names the subset of Term that internal/translate's top-level entry
// point expects to yield a boolean, not a bit-vector/FP, expression.
type Predicate interface {
	Term
	isPredicate()
}

// AndPred is the conjunction of its clauses.
type AndPred struct {
	id      TermID
	Clauses []Term
}

func NewAndPred(clauses ...Term) *AndPred { return &AndPred{id: newTermID(), Clauses: clauses} }

func (t *AndPred) ID() TermID              { return t.id }
func (t *AndPred) Operands() []Term        { return t.Clauses }
func (t *AndPred) TypeConstraints(Visitor) {}
func (t *AndPred) isPredicate()            {}
func (t *AndPred) Describe() string {
	parts := make([]string, len(t.Clauses))
	for i, c := range t.Clauses {
		parts[i] = c.Describe()
	}
	return "(" + strings.Join(parts, " and ") + ")"
}

// OrPred is the disjunction of its clauses.
type OrPred struct {
	id      TermID
	Clauses []Term
}

func NewOrPred(clauses ...Term) *OrPred { return &OrPred{id: newTermID(), Clauses: clauses} }

func (t *OrPred) ID() TermID              { return t.id }
func (t *OrPred) Operands() []Term        { return t.Clauses }
func (t *OrPred) TypeConstraints(Visitor) {}
func (t *OrPred) isPredicate()            {}
func (t *OrPred) Describe() string {
	parts := make([]string, len(t.Clauses))
	for i, c := range t.Clauses {
		parts[i] = c.Describe()
	}
	return "(" + strings.Join(parts, " or ") + ")"
}

// NotPred negates a single predicate.
type NotPred struct {
	id TermID
	P  Term
}

func NewNotPred(p Term) *NotPred { return &NotPred{id: newTermID(), P: p} }

func (t *NotPred) ID() TermID              { return t.id }
func (t *NotPred) Operands() []Term        { return []Term{t.P} }
func (t *NotPred) TypeConstraints(Visitor) {}
func (t *NotPred) isPredicate()            {}
func (t *NotPred) Describe() string        { return "not " + t.P.Describe() }

// Comparison is a standalone integer/pointer comparison predicate, used
// directly in a precondition (as opposed to IcmpInst, which materializes
// its result as an i1 IR value). Its operands are not tied to a default
// type: its TypeConstraints never calls Visitor.Default, Collect gives
// them a type variable like any other term, and Extend (internal/typing)
// accepts an operand the model has no tyvar for without checking it.
type Comparison struct {
	id   TermID
	Op   IntPred
	X, Y Term
}

func NewComparison(op IntPred, x, y Term) *Comparison {
	return &Comparison{id: newTermID(), Op: op, X: x, Y: y}
}

func (t *Comparison) ID() TermID       { return t.id }
func (t *Comparison) Operands() []Term { return []Term{t.X, t.Y} }
func (t *Comparison) isPredicate()     {}
func (t *Comparison) Describe() string {
	return fmt.Sprintf("%s %s, %s", t.Op, t.X.Describe(), t.Y.Describe())
}

func (t *Comparison) TypeConstraints(v Visitor) {
	v.IntPtrVec(t.X)
	v.EqTypes(t.X, t.Y)
}

// UnaryAnalysisOp enumerates the single-argument "must analysis"
// predicates (spec.md §4.6): a sound but incomplete test, conservatively
// approximated when its argument is not a compile-time constant.
type UnaryAnalysisOp int

const (
	PredIntMin UnaryAnalysisOp = iota
	PredPower2
	PredPower2OrZ
	PredShiftedMask
	PredOneUse
)

func (op UnaryAnalysisOp) String() string {
	return [...]string{"isIntMin", "isPower2", "isPower2OrZero", "isShiftedMask", "hasOneUse"}[op]
}

// UnaryAnalysisPred is a single-argument must-analysis predicate. Its
// argument is typed the same way Comparison's operands are.
type UnaryAnalysisPred struct {
	id  TermID
	Op  UnaryAnalysisOp
	Arg Term
}

func NewUnaryAnalysisPred(op UnaryAnalysisOp, arg Term) *UnaryAnalysisPred {
	return &UnaryAnalysisPred{id: newTermID(), Op: op, Arg: arg}
}

func (t *UnaryAnalysisPred) ID() TermID       { return t.id }
func (t *UnaryAnalysisPred) Operands() []Term { return []Term{t.Arg} }
func (t *UnaryAnalysisPred) isPredicate()     {}
func (t *UnaryAnalysisPred) Describe() string { return fmt.Sprintf("%s(%s)", t.Op, t.Arg.Describe()) }

func (t *UnaryAnalysisPred) TypeConstraints(v Visitor) {
	if t.Op == PredOneUse {
		v.FirstClass(t.Arg)
		return
	}
	v.Integer(t.Arg)
}

// BinaryAnalysisOp enumerates the two-argument must-analysis predicates:
// the overflow-flag analogues (NSW/NUW Add/Sub/Mul, NUWShl) plus
// MaskZeroPred.
type BinaryAnalysisOp int

const (
	PredMaskZero BinaryAnalysisOp = iota
	PredNSWAdd
	PredNUWAdd
	PredNSWSub
	PredNUWSub
	PredNSWMul
	PredNUWMul
	PredNUWShl
)

func (op BinaryAnalysisOp) String() string {
	return [...]string{"maskZero", "nswAdd", "nuwAdd", "nswSub", "nuwSub", "nswMul", "nuwMul", "nuwShl"}[op]
}

// BinaryAnalysisPred is a two-argument must-analysis predicate; X and Y
// share one type variable like an ordinary binary instruction.
type BinaryAnalysisPred struct {
	id   TermID
	Op   BinaryAnalysisOp
	X, Y Term
}

func NewBinaryAnalysisPred(op BinaryAnalysisOp, x, y Term) *BinaryAnalysisPred {
	return &BinaryAnalysisPred{id: newTermID(), Op: op, X: x, Y: y}
}

func (t *BinaryAnalysisPred) ID() TermID       { return t.id }
func (t *BinaryAnalysisPred) Operands() []Term { return []Term{t.X, t.Y} }
func (t *BinaryAnalysisPred) isPredicate()     {}
func (t *BinaryAnalysisPred) Describe() string {
	return fmt.Sprintf("%s(%s, %s)", t.Op, t.X.Describe(), t.Y.Describe())
}

func (t *BinaryAnalysisPred) TypeConstraints(v Visitor) {
	v.Integer(t.X)
	v.EqTypes(t.X, t.Y)
}
