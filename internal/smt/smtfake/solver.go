package smtfake

import (
	"math"
	"math/big"

	"rival/internal/smt"
)

// env is a satisfying assignment under construction: each free BV
// variable's raw (unsigned) value, each free FP variable's value, and
// each free boolean variable's value, keyed by name.
type env struct {
	bv   map[string]*big.Int
	fp   map[string]float64
	bl   map[string]bool
}

func newEnv() *env {
	return &env{bv: map[string]*big.Int{}, fp: map[string]float64{}, bl: map[string]bool{}}
}

// freeVar names every distinct free variable reachable from e, in a
// stable (first-seen, depth-first) order so the search enumerates
// assignments deterministically.
type freeVar struct {
	name string
	kind int // 0 = bv, 1 = fp, 2 = bool
	bits int
}

func collectFree(e *expr, seen map[string]bool, out *[]freeVar) {
	switch e.op {
	case opBVVar:
		if !seen[e.name] {
			seen[e.name] = true
			*out = append(*out, freeVar{name: e.name, kind: 0, bits: e.width})
		}
		return
	case opFPVar:
		if !seen[e.name] {
			seen[e.name] = true
			*out = append(*out, freeVar{name: e.name, kind: 1})
		}
		return
	case opBoolVar:
		if !seen[e.name] {
			seen[e.name] = true
			*out = append(*out, freeVar{name: e.name, kind: 2, bits: 1})
		}
		return
	}
	for _, a := range e.args {
		collectFree(a, seen, out)
	}
}

// Solver is a brute-force smt.Solver over the expr AST (see package doc).
type Solver struct {
	assertions []*expr
	model      *foundModel
}

func NewSolver() *Solver { return &Solver{} }

func (s *Solver) Assert(e smt.Expr) { s.assertions = append(s.assertions, as(e)) }

// Check enumerates every assignment to the free variables referenced by
// the current assertions, in domain order, and stops at the first one
// that satisfies every assertion. If the combined domain exceeds
// maxSearchBits it reports Unknown rather than searching forever.
func (s *Solver) Check() smt.CheckResult {
	seen := map[string]bool{}
	var vars []freeVar
	for _, a := range s.assertions {
		collectFree(a, seen, &vars)
	}

	totalBits := 0
	for _, v := range vars {
		if v.kind == 1 {
			totalBits += 64 // one FP var alone exceeds maxSearchBits, so any free FP var yields Unknown
		} else {
			totalBits += v.bits
		}
	}
	if totalBits > maxSearchBits {
		return smt.Unknown
	}

	e := newEnv()
	if searchAssign(vars, 0, e, s.assertions) {
		s.model = &foundModel{env: e}
		return smt.Sat
	}
	s.model = nil
	return smt.Unsat
}

func (s *Solver) Model() smt.Model { return s.model }

// fpGrid is the small, fixed set of FP values searchAssign tries for a
// free FP variable: zero, one of each sign, NaN, and the two infinities.
// Check weighs every free FP variable at 64 bits, above maxSearchBits, so
// an assertion set with a free FP variable is reported Unknown before
// this search runs.
var fpGrid = []float64{0, -0.0, 1, -1, math.NaN(), math.Inf(1), math.Inf(-1)}

func searchAssign(vars []freeVar, i int, e *env, assertions []*expr) bool {
	if i == len(vars) {
		for _, a := range assertions {
			v, ok := evalBool(a, e)
			if !ok || !v {
				return false
			}
		}
		return true
	}
	v := vars[i]
	switch v.kind {
	case 0:
		limit := new(big.Int).Lsh(big.NewInt(1), uint(v.bits))
		for n := big.NewInt(0); n.Cmp(limit) < 0; n.Add(n, big.NewInt(1)) {
			e.bv[v.name] = new(big.Int).Set(n)
			if searchAssign(vars, i+1, e, assertions) {
				return true
			}
		}
		delete(e.bv, v.name)
		return false
	case 1:
		for _, f := range fpGrid {
			e.fp[v.name] = f
			if searchAssign(vars, i+1, e, assertions) {
				return true
			}
		}
		delete(e.fp, v.name)
		return false
	default:
		for _, b := range []bool{false, true} {
			e.bl[v.name] = b
			if searchAssign(vars, i+1, e, assertions) {
				return true
			}
		}
		delete(e.bl, v.name)
		return false
	}
}

func mask(v *big.Int, width int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	r := new(big.Int).Mod(v, m)
	if r.Sign() < 0 {
		r.Add(r, m)
	}
	return r
}

func toSigned(v *big.Int, width int) *big.Int {
	half := new(big.Int).Lsh(big.NewInt(1), uint(width-1))
	if v.Cmp(half) >= 0 {
		full := new(big.Int).Lsh(big.NewInt(1), uint(width))
		return new(big.Int).Sub(v, full)
	}
	return new(big.Int).Set(v)
}

// evalBV evaluates a bit-vector-sorted expr under e, returning its raw
// (unsigned, masked to width) value.
func evalBV(x *expr, e *env) (*big.Int, bool) {
	switch x.op {
	case opBVConst:
		return x.bvVal, true
	case opBVVar:
		v, ok := e.bv[x.name]
		return v, ok
	case opBoolToBV:
		b, ok := evalBool(x.args[0], e)
		if !ok {
			return nil, false
		}
		if b {
			return big.NewInt(1), true
		}
		return big.NewInt(0), true
	case opIte:
		c, ok := evalBool(x.args[0], e)
		if !ok {
			return nil, false
		}
		if c {
			return evalBV(x.args[1], e)
		}
		return evalBV(x.args[2], e)
	}

	xv, ok := evalBV(x.args[0], e)
	if !ok {
		return nil, false
	}
	switch x.op {
	case opNeg:
		return mask(new(big.Int).Neg(xv), x.width), true
	case opNot:
		full := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(x.width)), big.NewInt(1))
		return mask(new(big.Int).Xor(xv, full), x.width), true
	case opSignExtend:
		origWidth := x.width - x.extraBits
		return mask(toSigned(xv, origWidth), x.width), true
	case opZeroExtend:
		return mask(xv, x.width), true
	case opExtract:
		shifted := new(big.Int).Rsh(xv, uint(x.lo))
		return mask(shifted, x.width), true
	}

	yv, ok := evalBV(x.args[1], e)
	if !ok {
		return nil, false
	}
	argWidth := x.args[0].width
	sxv, syv := toSigned(xv, argWidth), toSigned(yv, argWidth)

	switch x.op {
	case opAdd:
		return mask(new(big.Int).Add(xv, yv), x.width), true
	case opSub:
		return mask(new(big.Int).Sub(xv, yv), x.width), true
	case opMul:
		return mask(new(big.Int).Mul(xv, yv), x.width), true
	case opAnd:
		return mask(new(big.Int).And(xv, yv), x.width), true
	case opOr:
		return mask(new(big.Int).Or(xv, yv), x.width), true
	case opXor:
		return mask(new(big.Int).Xor(xv, yv), x.width), true
	case opShl:
		return mask(new(big.Int).Lsh(xv, uint(yv.Uint64())), x.width), true
	case opLShr:
		return mask(new(big.Int).Rsh(xv, uint(yv.Uint64())), x.width), true
	case opAShr:
		return mask(new(big.Int).Rsh(sxv, uint(yv.Uint64())), x.width), true
	case opUDiv:
		if yv.Sign() == 0 {
			return big.NewInt(0), true
		}
		return mask(new(big.Int).Div(xv, yv), x.width), true
	case opURem:
		if yv.Sign() == 0 {
			return xv, true
		}
		return mask(new(big.Int).Mod(xv, yv), x.width), true
	case opSDiv:
		if syv.Sign() == 0 {
			return big.NewInt(0), true
		}
		q := new(big.Int).Quo(sxv, syv)
		return mask(q, x.width), true
	case opSRem:
		if syv.Sign() == 0 {
			return xv, true
		}
		r := new(big.Int).Rem(sxv, syv)
		return mask(r, x.width), true
	}
	return nil, false
}

func evalFP(x *expr, e *env) (float64, bool) {
	switch x.op {
	case opFPConst:
		return x.fpVal, true
	case opFPVar:
		v, ok := e.fp[x.name]
		return v, ok
	case opIte:
		c, ok := evalBool(x.args[0], e)
		if !ok {
			return 0, false
		}
		if c {
			return evalFP(x.args[1], e)
		}
		return evalFP(x.args[2], e)
	}
	xv, ok := evalFP(x.args[0], e)
	if !ok {
		return 0, false
	}
	if x.op == opIsNaN || x.op == opIsInfinite {
		return 0, false // handled in evalBool
	}
	yv, ok := evalFP(x.args[1], e)
	if !ok {
		return 0, false
	}
	switch x.op {
	case opFPAdd:
		return xv + yv, true
	case opFPSub:
		return xv - yv, true
	case opFPMul:
		return xv * yv, true
	case opFPDiv:
		return xv / yv, true
	case opFPRem:
		return math.Mod(xv, yv), true
	}
	return 0, false
}

func evalBool(x *expr, e *env) (bool, bool) {
	switch x.op {
	case opBoolConst:
		return x.boolVal, true
	case opBoolVar:
		v, ok := e.bl[x.name]
		return v, ok
	case opBoolAnd:
		for _, a := range x.args {
			v, ok := evalBool(a, e)
			if !ok {
				return false, false
			}
			if !v {
				return false, true
			}
		}
		return true, true
	case opBoolOr:
		for _, a := range x.args {
			v, ok := evalBool(a, e)
			if !ok {
				return false, false
			}
			if v {
				return true, true
			}
		}
		return false, true
	case opBoolNot:
		v, ok := evalBool(x.args[0], e)
		return !v, ok
	case opImplies:
		a, ok := evalBool(x.args[0], e)
		if !ok {
			return false, false
		}
		if !a {
			return true, true
		}
		return evalBool(x.args[1], e)
	case opIsNaN:
		v, ok := evalFP(x.args[0], e)
		return math.IsNaN(v), ok
	case opIsInfinite:
		v, ok := evalFP(x.args[0], e)
		return math.IsInf(v, 0), ok
	case opIte:
		c, ok := evalBool(x.args[0], e)
		if !ok {
			return false, false
		}
		if c {
			return evalBool(x.args[1], e)
		}
		return evalBool(x.args[2], e)
	}

	// Remaining boolean ops are comparisons over BV or FP operands.
	if isFPOperand(x.args[0]) {
		xv, ok := evalFP(x.args[0], e)
		if !ok {
			return false, false
		}
		yv, ok := evalFP(x.args[1], e)
		if !ok {
			return false, false
		}
		switch x.op {
		case opEq:
			return xv == yv, true
		case opNe:
			return xv != yv, true
		}
		return false, false
	}

	xv, ok := evalBV(x.args[0], e)
	if !ok {
		return false, false
	}
	yv, ok := evalBV(x.args[1], e)
	if !ok {
		return false, false
	}
	width := x.args[0].width
	sxv, syv := toSigned(xv, width), toSigned(yv, width)
	switch x.op {
	case opEq:
		return xv.Cmp(yv) == 0, true
	case opNe:
		return xv.Cmp(yv) != 0, true
	case opULT:
		return xv.Cmp(yv) < 0, true
	case opULE:
		return xv.Cmp(yv) <= 0, true
	case opUGT:
		return xv.Cmp(yv) > 0, true
	case opUGE:
		return xv.Cmp(yv) >= 0, true
	case opSLT:
		return sxv.Cmp(syv) < 0, true
	case opSLE:
		return sxv.Cmp(syv) <= 0, true
	case opSGT:
		return sxv.Cmp(syv) > 0, true
	case opSGE:
		return sxv.Cmp(syv) >= 0, true
	}
	return false, false
}

func isFPOperand(x *expr) bool {
	switch x.op {
	case opFPConst, opFPVar, opFPAdd, opFPSub, opFPMul, opFPDiv, opFPRem:
		return true
	default:
		return false
	}
}

type foundModel struct{ env *env }

func (m *foundModel) EvalBV(e smt.Expr) (unsigned, signed *big.Int, width int, ok bool) {
	x := as(e)
	v, ok := evalBV(x, m.env)
	if !ok {
		return nil, nil, 0, false
	}
	return v, toSigned(v, x.width), x.width, true
}

func (m *foundModel) EvalFP(e smt.Expr) (float64, bool) {
	return evalFP(as(e), m.env)
}

func (m *foundModel) EvalBool(e smt.Expr) (bool, bool) {
	return evalBool(as(e), m.env)
}
