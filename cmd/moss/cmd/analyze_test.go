package cmd

import (
	"strings"
	"testing"

	"github.com/ntwiles/moss/internal/ast"
	"github.com/ntwiles/moss/internal/config"
)

func TestRunAnalyzePrintsInferredType(t *testing.T) {
	path := writeProgramFile(t, block(intLit(7)))

	var output string
	withCfg(t, config.Default(), func() {
		output = captureStdout(t, func() {
			if err := runAnalyze(analyzeCmd, []string{path}); err != nil {
				t.Fatalf("runAnalyze: %v", err)
			}
		})
	})

	if strings.TrimSpace(output) != "Int" {
		t.Errorf("got output %q, want %q", output, "Int")
	}
}

func TestRunAnalyzeDoesNotExecute(t *testing.T) {
	// A program that would error at runtime (division by a non-literal
	// zero can't be caught statically) should still succeed under
	// analyze, since analyze never interprets it.
	zero := ast.Binary{Op: ast.Sub, Left: intLit(1), Right: intLit(1)}
	path := writeProgramFile(t, block(ast.Binary{Op: ast.Div, Left: intLit(1), Right: zero}))

	withCfg(t, config.Default(), func() {
		if err := runAnalyze(analyzeCmd, []string{path}); err != nil {
			t.Fatalf("runAnalyze: %v", err)
		}
	})
}

func TestRunAnalyzeReportsTypeError(t *testing.T) {
	path := writeProgramFile(t, block(listLit()))

	withCfg(t, config.Default(), func() {
		err := runAnalyze(analyzeCmd, []string{path})
		if err == nil {
			t.Fatal("expected an analysis error, got nil")
		}
		if !strings.Contains(err.Error(), "analysis failed") {
			t.Errorf("got %q, want it to mention analysis failed", err.Error())
		}
	})
}
