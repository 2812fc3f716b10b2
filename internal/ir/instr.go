package ir

import "fmt"

// BinIntOp enumerates the integer binary instruction opcodes spec.md
// §4.6 gives translation contracts for.
type BinIntOp int

const (
	Add BinIntOp = iota
	Sub
	Mul
	And
	Or
	Xor
	Shl
	AShr
	LShr
	SDiv
	UDiv
	SRem
	URem
)

func (op BinIntOp) String() string {
	return [...]string{"add", "sub", "mul", "and", "or", "xor",
		"shl", "ashr", "lshr", "sdiv", "udiv", "srem", "urem"}[op]
}

// BinIntInst is a binary integer instruction: spec.md §4.6's "Binary
// integer ops (Add/Sub/Mul/And/Or/Xor/Shl/AShr/LShr/SDiv/UDiv/SRem/URem)".
// X, Y, and the instruction itself share one type variable.
type BinIntInst struct {
	id    TermID
	Op    BinIntOp
	X, Y  Term
	Flags FlagSet
}

func NewBinInt(op BinIntOp, x, y Term, flags ...Flag) *BinIntInst {
	return &BinIntInst{id: newTermID(), Op: op, X: x, Y: y, Flags: NewFlagSet(flags...)}
}

func (t *BinIntInst) ID() TermID       { return t.id }
func (t *BinIntInst) Operands() []Term { return []Term{t.X, t.Y} }
func (t *BinIntInst) Describe() string { return fmt.Sprintf("%s %s, %s", t.Op, t.X.Describe(), t.Y.Describe()) }

func (t *BinIntInst) TypeConstraints(v Visitor) {
	v.Integer(t)
	v.EqTypes(t, t.X, t.Y)
	if t.Op == Shl || t.Op == AShr || t.Op == LShr {
		// the shift amount need not equal the shifted value's type in
		// general IR, but this verifier only models same-width shifts
		// (scalar integers, spec.md Non-goals exclude vector shift-amount
		// broadcasting scenarios).
	}
}

// BinFPOp enumerates the floating-point binary instruction opcodes.
type BinFPOp int

const (
	FAdd BinFPOp = iota
	FSub
	FMul
	FDiv
	FRem
)

func (op BinFPOp) String() string {
	return [...]string{"fadd", "fsub", "fmul", "fdiv", "frem"}[op]
}

// BinFPInst is a binary floating-point instruction; nnan/ninf are the
// only flags that apply (spec.md §4.6).
type BinFPInst struct {
	id    TermID
	Op    BinFPOp
	X, Y  Term
	Flags FlagSet
}

func NewBinFP(op BinFPOp, x, y Term, flags ...Flag) *BinFPInst {
	return &BinFPInst{id: newTermID(), Op: op, X: x, Y: y, Flags: NewFlagSet(flags...)}
}

func (t *BinFPInst) ID() TermID       { return t.id }
func (t *BinFPInst) Operands() []Term { return []Term{t.X, t.Y} }
func (t *BinFPInst) Describe() string { return fmt.Sprintf("%s %s, %s", t.Op, t.X.Describe(), t.Y.Describe()) }

func (t *BinFPInst) TypeConstraints(v Visitor) {
	v.Float(t)
	v.EqTypes(t, t.X, t.Y)
}

// ConvOp enumerates the scalar conversion opcodes.
type ConvOp int

const (
	SExt ConvOp = iota
	ZExt
	Trunc
	ZExtOrTrunc
)

func (op ConvOp) String() string {
	return [...]string{"sext", "zext", "trunc", "zextOrTrunc"}[op]
}

// ConvInst widens, narrows, or reinterprets an integer term. Its own
// width is an independently-constrained type variable; the translator
// (internal/translate) computes the width delta from the type vector,
// not from a field on this struct (spec.md §4.6).
type ConvInst struct {
	id  TermID
	Op  ConvOp
	Arg Term
}

func NewConv(op ConvOp, arg Term) *ConvInst {
	return &ConvInst{id: newTermID(), Op: op, Arg: arg}
}

func (t *ConvInst) ID() TermID       { return t.id }
func (t *ConvInst) Operands() []Term { return []Term{t.Arg} }
func (t *ConvInst) Describe() string { return fmt.Sprintf("%s %s", t.Op, t.Arg.Describe()) }

func (t *ConvInst) TypeConstraints(v Visitor) {
	v.Integer(t)
	v.Integer(t.Arg)
	switch t.Op {
	case SExt:
		v.WidthOrder(WidthOf(t.Arg), t)
	case ZExt:
		v.WidthOrder(WidthOf(t.Arg), t)
	case Trunc:
		v.WidthOrder(WidthOf(t), t.Arg)
	case ZExtOrTrunc:
		// no width ordering: target may be narrower, equal, or wider.
	}
}

// IntPred enumerates the ten integer comparison predicates shared by
// IcmpInst (an instruction producing an i1 value) and Comparison (a
// predicate node used directly in preconditions, spec.md §3).
type IntPred int

const (
	PredEQ IntPred = iota
	PredNE
	PredUGT
	PredUGE
	PredULT
	PredULE
	PredSGT
	PredSGE
	PredSLT
	PredSLE
)

func (p IntPred) String() string {
	return [...]string{"eq", "ne", "ugt", "uge", "ult", "ule", "sgt", "sge", "slt", "sle"}[p]
}

// IcmpInst is an integer (or pointer) comparison instruction; it always
// yields IntType(1) (spec.md §4.6 "result is a 1-bit BV").
type IcmpInst struct {
	id   TermID
	Pred IntPred
	X, Y Term
}

func NewIcmp(pred IntPred, x, y Term) *IcmpInst {
	return &IcmpInst{id: newTermID(), Pred: pred, X: x, Y: y}
}

func (t *IcmpInst) ID() TermID       { return t.id }
func (t *IcmpInst) Operands() []Term { return []Term{t.X, t.Y} }
func (t *IcmpInst) Describe() string { return fmt.Sprintf("icmp %s %s, %s", t.Pred, t.X.Describe(), t.Y.Describe()) }

func (t *IcmpInst) TypeConstraints(v Visitor) {
	v.Bool(t)
	v.IntPtrVec(t.X)
	v.EqTypes(t.X, t.Y)
}

// SelectInst is `select cond, x, y`; Cond must be i1, and X, Y, and the
// instruction itself share one type variable (spec.md §4.6: `If(cond ==
// 1, x, y)`).
type SelectInst struct {
	id        TermID
	Cond, X, Y Term
}

func NewSelect(cond, x, y Term) *SelectInst {
	return &SelectInst{id: newTermID(), Cond: cond, X: x, Y: y}
}

func (t *SelectInst) ID() TermID       { return t.id }
func (t *SelectInst) Operands() []Term { return []Term{t.Cond, t.X, t.Y} }
func (t *SelectInst) Describe() string {
	return fmt.Sprintf("select %s, %s, %s", t.Cond.Describe(), t.X.Describe(), t.Y.Describe())
}

func (t *SelectInst) TypeConstraints(v Visitor) {
	v.Bool(t.Cond)
	v.FirstClass(t)
	v.EqTypes(t, t.X, t.Y)
}
