// cmd/rival/main.go demonstrates internal/refine's CheckRefinement over
// the worked scenarios spec.md §8 names, dispatched the way
// cmd/sentra/main.go reads its own os.Args: a manual command switch, no
// flag library.
package main

import (
	"fmt"
	"os"

	"github.com/kr/pretty"

	"rival/internal/ir"
	"rival/internal/refine"
	"rival/internal/smt"
	"rival/internal/smt/smtfake"
)

const version = "0.1.0"

var scenarios = map[string]func() (src, tgt, pre ir.Term){
	"tautology":  tautologyScenario,
	"ashr-shl":   ashrShlScenario,
	"xor-add":    xorAddScenario,
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the testable core of main: it returns the exit code instead of
// calling os.Exit, so testscript's "rival" command (cmd/rival/main_test.go),
// which re-runs the test binary as a subprocess, can assert on
// stdout/stderr/exit-code.
func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 0
	}

	switch args[0] {
	case "--help", "-h", "help":
		usage()
	case "--version", "-v", "version":
		fmt.Println("rival", version)
	case "check":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: rival check <scenario>")
			return 2
		}
		return runScenario(args[1])
	case "list":
		for name := range scenarios {
			fmt.Println(name)
		}
	case "dump":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: rival dump <scenario>")
			return 2
		}
		return dumpScenario(args[1])
	default:
		fmt.Fprintf(os.Stderr, "rival: unknown command %q (try --help)\n", args[0])
		return 2
	}
	return 0
}

func usage() {
	fmt.Println(`rival — peephole refinement checker demo driver

Usage:
  rival check <scenario>   run one of the spec.md §8 worked scenarios
  rival dump <scenario>    pretty-print a scenario's src/tgt/pre terms
  rival list               list available scenario names
  rival version            print the version
  rival help               print this message`)
}

// dumpScenario pretty-prints a scenario's three terms with kr/pretty, the
// way bin2ll's disassembler dumps parsed values for inspection.
func dumpScenario(name string) int {
	build := scenarios[name]
	if build == nil {
		fmt.Fprintf(os.Stderr, "rival: no such scenario %q\n", name)
		return 1
	}
	src, tgt, pre := build()
	fmt.Println("src:")
	pretty.Println(src)
	fmt.Println("tgt:")
	pretty.Println(tgt)
	if pre != nil {
		fmt.Println("pre:")
		pretty.Println(pre)
	}
	return 0
}

func runScenario(name string) int {
	build := scenarios[name]
	if build == nil {
		fmt.Fprintf(os.Stderr, "rival: no such scenario %q\n", name)
		return 1
	}
	src, tgt, pre := build()

	builder := smtfake.NewBuilder()
	newSolver := func() smt.Solver { return smtfake.NewSolver() }

	refErr, err := refine.CheckRefinement(builder, newSolver, refine.DefaultConfig(), src, tgt, pre)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rival: %s: %v\n", name, err)
		return 1
	}
	if refErr == nil {
		fmt.Printf("%s: verified\n", name)
		return 0
	}
	fmt.Printf("%s: refinement failed\n%s\n", name, refErr.Error())
	return 1
}

// tautologyScenario: icmp ult %x, 0 refines target literal 0 — always
// false, so the rewrite trivially holds (spec.md §8.1). Pinned to a small
// width so a type-vector enumeration never reaches a width smtfake's
// brute-force search budget can't decide.
func tautologyScenario() (src, tgt, pre ir.Term) {
	ty := ir.NewIntType(8)
	x := ir.NewTypedInput("x", ty)
	zero := ir.NewTypedLiteral(0, ty)
	src = ir.NewIcmp(ir.PredULT, x, zero)
	tgt = ir.NewTypedLiteral(0, ty)
	return src, tgt, nil
}

// ashrShlScenario: shl (ashr exact x, C1), C2 refines shl x, (C2-C1) under
// precondition C1 <s C2 (spec.md §8.2). Pinned to a small width, not the
// spec's i33, so smtfake's brute-force search budget (internal/smt/smtfake)
// can still decide it without a real solver backend.
func ashrShlScenario() (src, tgt, pre ir.Term) {
	ty := ir.NewIntType(5)
	x := ir.NewTypedInput("x", ty)
	c1 := ir.NewTypedInput("C1", ty)
	c2 := ir.NewTypedInput("C2", ty)

	ashr := ir.NewBinInt(ir.AShr, x, c1, ir.FlagExact)
	src = ir.NewBinInt(ir.Shl, ashr, c2)

	diff := ir.NewCnxpBin(ir.CnxpSub, c2, c1)
	tgt = ir.NewBinInt(ir.Shl, x, diff)

	pre = ir.NewComparison(ir.PredSLT, c1, c2)
	return src, tgt, pre
}

// xorAddScenario: add (xor x, C1), C2 refines add x, (xor C1 C2) under
// precondition IntMinPred(C1) (spec.md §8.3). Pinned to a small width for
// the same smtfake search-budget reason as ashrShlScenario.
func xorAddScenario() (src, tgt, pre ir.Term) {
	ty := ir.NewIntType(4)
	x := ir.NewTypedInput("x", ty)
	c1 := ir.NewTypedInput("C1", ty)
	c2 := ir.NewTypedInput("C2", ty)

	xored := ir.NewBinInt(ir.Xor, x, c1)
	src = ir.NewBinInt(ir.Add, xored, c2)

	constXor := ir.NewCnxpBin(ir.CnxpXor, c1, c2)
	tgt = ir.NewBinInt(ir.Add, x, constXor)

	pre = ir.NewUnaryAnalysisPred(ir.PredIntMin, c1)
	return src, tgt, pre
}
