package ir

import (
	"fmt"
	"math/big"
)

// Input is a free variable: a function argument in the source term.
// A name beginning with 'C' is, by convention, a symbolic constant —
// the "is this a constant for must-analysis purposes" test in spec.md
// §4.6 treats such Inputs like a Constant.
type Input struct {
	id   TermID
	Name string
	ty   Type // optional: Specific() pin, e.g. predicate_default
}

func NewInput(name string) *Input { return &Input{id: newTermID(), Name: name} }

// NewTypedInput pins the input to a concrete type up front, the way a
// precondition's default-typed comparands are created.
func NewTypedInput(name string, ty Type) *Input {
	return &Input{id: newTermID(), Name: name, ty: ty}
}

func (t *Input) ID() TermID          { return t.id }
func (t *Input) Operands() []Term    { return nil }
func (t *Input) Describe() string    { return t.Name }
func (t *Input) IsSymbolicConst() bool {
	return len(t.Name) > 0 && t.Name[0] == 'C'
}

func (t *Input) TypeConstraints(v Visitor) {
	if t.ty != nil {
		v.Specific(t, t.ty)
	}
}

// Literal is a fixed-width integer constant. Val holds the raw,
// non-negative bit pattern (value mod 2^width); operations that care
// about signedness (SDiv, AShr, Icmp slt, ...) interpret it at
// translation time, the constant itself carries no signedness.
type Literal struct {
	id  TermID
	Val *big.Int
	ty  Type // optional Specific() pin; width is otherwise inferred
}

func NewLiteral(val int64) *Literal {
	return &Literal{id: newTermID(), Val: big.NewInt(val)}
}

func NewLiteralBig(val *big.Int) *Literal {
	return &Literal{id: newTermID(), Val: new(big.Int).Set(val)}
}

func NewTypedLiteral(val int64, ty Type) *Literal {
	return &Literal{id: newTermID(), Val: big.NewInt(val), ty: ty}
}

func (t *Literal) ID() TermID       { return t.id }
func (t *Literal) Operands() []Term { return nil }
func (t *Literal) Describe() string { return t.Val.String() }

func (t *Literal) TypeConstraints(v Visitor) {
	v.Integer(t)
	if t.ty != nil {
		v.Specific(t, t.ty)
	}
}

// FLiteral is a floating-point constant. Val is its value as a float64;
// internal/translate emits it as an FP constant of the term's half, float
// or double sort, and has no backend sort for an X86FP80Type term.
type FLiteral struct {
	id  TermID
	Val float64
	ty  Type
}

func NewFLiteral(val float64) *FLiteral { return &FLiteral{id: newTermID(), Val: val} }

func NewTypedFLiteral(val float64, ty Type) *FLiteral {
	return &FLiteral{id: newTermID(), Val: val, ty: ty}
}

func (t *FLiteral) ID() TermID       { return t.id }
func (t *FLiteral) Operands() []Term { return nil }
func (t *FLiteral) Describe() string { return fmt.Sprintf("%v", t.Val) }

func (t *FLiteral) TypeConstraints(v Visitor) {
	v.Float(t)
	if t.ty != nil {
		v.Specific(t, t.ty)
	}
}

// UndefValue translates to a fresh, existentially-quantified backend
// constant (spec.md §4.6): it carries no constraint of its own beyond
// whatever the unifier ties it to through EqTypes elsewhere in the term.
type UndefValue struct {
	id TermID
}

func NewUndefValue() *UndefValue { return &UndefValue{id: newTermID()} }

func (t *UndefValue) ID() TermID          { return t.id }
func (t *UndefValue) Operands() []Term    { return nil }
func (t *UndefValue) Describe() string    { return "undef" }
func (t *UndefValue) TypeConstraints(Visitor) {}
