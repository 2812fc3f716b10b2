package refine

import (
	"fmt"
	"math/big"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/mewmew/float"

	"rival/internal/ir"
	"rival/internal/smt"
	"rival/internal/typing"
)

// formatReport renders a RefinementError the way spec.md §6 requires: a
// deterministic counterexample, one line per input, each bit-vector input
// shown unsigned plus hex (with its signed reading added when that is
// negative), each floating-point input
// shown in its default printed form. ANSI highlighting of the header is
// the only non-deterministic part, and it is gated on whether stdout is
// actually a terminal (github.com/mattn/go-isatty), never baked into the
// string tests compare against.
func formatReport(e *RefinementError) string {
	var b strings.Builder

	style := plainStyle
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		style = ansiBoldStyle
	}

	fmt.Fprintf(&b, "%s  (report %s)\n", style(e.Cause.String()+" refinement failure"), e.ReportID)
	fmt.Fprintf(&b, "checked type vector of %s type variable(s):\n", humanize.Comma(int64(len(e.Vector))))
	for i, ty := range e.Vector {
		fmt.Fprintf(&b, "  t%d = %s\n", i, ty.String())
	}

	b.WriteString("source: ")
	b.WriteString(describeValue(e.Model, e.Vector, e.Src, e.SrcValue, e.SolverModel))
	b.WriteByte('\n')

	b.WriteString("target: ")
	b.WriteString(describeValue(e.Model, e.Vector, e.Tgt, e.TgtValue, e.SolverModel))
	b.WriteByte('\n')

	if len(e.Inputs) == 0 {
		return b.String()
	}

	inputs := append([]ir.Term(nil), e.Inputs...)
	sort.Slice(inputs, func(i, j int) bool {
		return inputs[i].(*ir.Input).Name < inputs[j].(*ir.Input).Name
	})

	b.WriteString("counterexample inputs:\n")
	for _, term := range inputs {
		in := term.(*ir.Input)
		val := e.InputValues[in.ID()]
		fmt.Fprintf(&b, "  %%%s = %s\n", in.Name, describeValue(e.Model, e.Vector, in, val, e.SolverModel))
	}
	return b.String()
}

func plainStyle(s string) string { return s }

func ansiBoldStyle(s string) string { return "\x1b[1m" + s + "\x1b[0m" }

// describeValue resolves term's concrete type from model/vector and
// formats expr's evaluation under m: hex/decimal/signed for a bit-vector,
// the default printed form for a float (half-precision values are first
// rounded through github.com/mewmew/float's binary16 representation,
// since float64 alone over-represents their precision).
func describeValue(model *typing.Model, vector []ir.Type, term ir.Term, expr smt.Expr, m smt.Model) string {
	ty := typeOf(model, vector, term)

	if u, s, width, ok := m.EvalBV(expr); ok {
		return formatBV(ty, u, s, width)
	}
	if v, ok := m.EvalFP(expr); ok {
		return formatFP(ty, v)
	}
	if v, ok := m.EvalBool(expr); ok {
		return strconv.FormatBool(v)
	}
	return "<unevaluated>"
}

func typeOf(model *typing.Model, vector []ir.Type, term ir.Term) ir.Type {
	vid, ok := model.TyVarOf(term.ID())
	if !ok || vid >= len(vector) {
		return nil
	}
	return vector[vid]
}

func formatBV(ty ir.Type, unsigned, signed *big.Int, width int) string {
	hex := fmt.Sprintf("0x%0*x", (width+3)/4, unsigned)
	if signed.Sign() < 0 {
		return fmt.Sprintf("%s (%s / %s) : %s", unsigned, signed, hex, typeLabel(ty, width))
	}
	return fmt.Sprintf("%s (%s) : %s", unsigned, hex, typeLabel(ty, width))
}

func typeLabel(ty ir.Type, width int) string {
	if ty == nil {
		return fmt.Sprintf("i%d", width)
	}
	return ty.String()
}

func formatFP(ty ir.Type, v float64) string {
	if _, ok := ty.(ir.HalfType); ok {
		bits := float.Float16ToBits(big.NewFloat(v))
		rounded, _ := float.NewFloat16FromBits(bits).Float64()
		return strconv.FormatFloat(rounded, 'g', -1, 64) + " : half"
	}
	label := "double"
	if _, ok := ty.(ir.SingleType); ok {
		label = "float"
	}
	return strconv.FormatFloat(v, 'g', -1, 64) + " : " + label
}
