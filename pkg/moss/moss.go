// Package moss is the public embedding facade: build an Analyzer and
// Interpreter pair from a config.Config, analyze an untyped program, and
// run the typed result against a host-supplied IoContext. cmd/moss's
// subcommands are thin wrappers over these three functions.
package moss

import (
	"io"

	"github.com/ntwiles/moss/internal/ast"
	"github.com/ntwiles/moss/internal/builtins"
	"github.com/ntwiles/moss/internal/config"
	"github.com/ntwiles/moss/internal/interp"
	"github.com/ntwiles/moss/internal/runtime"
	"github.com/ntwiles/moss/internal/semantic"
	"github.com/ntwiles/moss/internal/state"
	"github.com/ntwiles/moss/internal/typedast"
	"github.com/ntwiles/moss/internal/types"
)

// valueBindings returns the builtin bindings to seed the analyzer/
// interpreter with, honoring cfg.ShouldPreseedBuiltins.
func valueBindings(cfg config.Config) []builtins.ValueBinding {
	if !cfg.ShouldPreseedBuiltins() {
		return nil
	}
	return builtins.ValueBindings()
}

// NewAnalyzer builds an Analyzer pre-populated with the prelude type
// bindings and, unless cfg disables it, the five registered builtins.
func NewAnalyzer(cfg config.Config) *semantic.Analyzer {
	return semantic.NewAnalyzer(valueBindings(cfg), types.PreludeBindings())
}

// Analyze type-checks an untyped program, returning its typed form or the
// first TypeError encountered.
func Analyze(program *ast.Block, cfg config.Config) (*typedast.Block, error) {
	return NewAnalyzer(cfg).Analyze(program)
}

// NewIoContext builds an IoContext sized per cfg.IO, the channel builtins
// read/write process stdio or a test fixture through.
func NewIoContext(r io.Reader, w io.Writer, cfg config.Config) *state.IoContext {
	return state.NewIoContextSize(r, w, cfg.IO.ReaderBufferSize, cfg.IO.WriterBufferSize)
}

// Run interprets an already-typed program against io, returning its final
// value or a runtime.Error.
func Run(program *typedast.Block, io_ *state.IoContext, cfg config.Config) (runtime.Value, error) {
	it := interp.NewInterpreter(builtins.RuntimeTable())
	return it.Run(program, valueBindings(cfg), io_)
}

// AnalyzeAndRun chains Analyze and Run, short-circuiting before
// interpretation when analysis fails — the same staged pipeline the driver
// uses: stop after the first stage that reports an error.
func AnalyzeAndRun(program *ast.Block, io_ *state.IoContext, cfg config.Config) (runtime.Value, *typedast.Block, error) {
	typed, err := Analyze(program, cfg)
	if err != nil {
		return runtime.Value{}, nil, err
	}
	v, err := Run(typed, io_, cfg)
	return v, typed, err
}
