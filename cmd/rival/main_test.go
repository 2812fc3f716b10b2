package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets "rival" run as a real subprocess inside each script, the
// way testscript itself is meant to be wired in (rather than shelling out
// to a built binary): testscript re-execs this same test binary with an
// env var TestMain detects, and RunMain dispatches to run() instead of
// going through testing.M.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"rival": func() int { return run(os.Args[1:]) },
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
