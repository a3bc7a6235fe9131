package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ntwiles/moss/internal/ast"
	"github.com/ntwiles/moss/internal/astjson"
	"github.com/ntwiles/moss/internal/config"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// whatever was written to it. Grounded on the teacher's run_unit_test.go,
// which pipes os.Stdout the same way to assert on a CLI command's output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

// writeProgramFile encodes block as JSON and writes it to a temp file,
// returning its path.
func writeProgramFile(t *testing.T, block *ast.Block) string {
	t.Helper()

	encoded, err := astjson.Encode(block)
	if err != nil {
		t.Fatalf("astjson.Encode: %v", err)
	}

	path := filepath.Join(t.TempDir(), "program.json")
	if err := os.WriteFile(path, []byte(encoded), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func intLit(v int32) ast.Expr { return ast.Literal{Kind: ast.LiteralInt, Int: v} }
func listLit() ast.Expr       { return ast.List{Elements: nil} }

// writeRawFile writes contents to a temp file and returns its path, bypassing
// the JSON encoder so malformed input can be exercised directly.
func writeRawFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func block(stmts ...ast.Expr) *ast.Block {
	ss := make([]ast.Stmt, len(stmts))
	for i, s := range stmts {
		ss[i] = ast.Stmt{Expr: s}
	}
	return &ast.Block{Stmts: ss}
}

// withCfg sets the package-level cfg for the duration of fn and restores
// whatever was there before. Tests bypass loadConfig (which reads the
// working directory's .moss.yaml) and set cfg directly instead.
func withCfg(t *testing.T, c config.Config, fn func()) {
	t.Helper()
	old := cfg
	cfg = c
	defer func() { cfg = old }()
	fn()
}
