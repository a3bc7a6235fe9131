package interp

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ntwiles/moss/internal/ast"
	"github.com/ntwiles/moss/internal/builtins"
	"github.com/ntwiles/moss/internal/runtime"
	"github.com/ntwiles/moss/internal/state"
	"github.com/ntwiles/moss/internal/typedast"
	"github.com/ntwiles/moss/internal/types"
)

func intT() types.Type  { return types.Type{Kind: types.Int} }
func boolT() types.Type { return types.Type{Kind: types.Bool} }
func strT() types.Type  { return types.Type{Kind: types.Str} }

func intLit(v int32) typedast.Expr {
	return typedast.Literal{Kind: ast.LiteralInt, Int: v, Type: intT()}
}

func boolLit(v bool) typedast.Expr {
	return typedast.Literal{Kind: ast.LiteralBool, Bool: v, Type: boolT()}
}

func strLit(v string) typedast.Expr {
	return typedast.Literal{Kind: ast.LiteralStr, Str: v, Type: strT()}
}

func typedBlock(stmts ...typedast.Expr) *typedast.Block {
	ss := make([]typedast.Stmt, len(stmts))
	for i, s := range stmts {
		ss[i] = typedast.Stmt{Expr: s}
	}
	return &typedast.Block{Stmts: ss}
}

func run(t *testing.T, program *typedast.Block) runtime.Value {
	t.Helper()
	io_ := state.NewIoContext(strings.NewReader(""), &strings.Builder{})
	it := NewInterpreter(builtins.RuntimeTable())
	v, err := it.Run(program, nil, io_)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return v
}

func TestRunArithmetic(t *testing.T) {
	// 10 + 5 * 2 - 8 / 4 = 18
	program := typedBlock(typedast.Binary{
		Op:   ast.Sub,
		Type: intT(),
		Left: typedast.Binary{
			Op:    ast.Add,
			Type:  intT(),
			Left:  intLit(10),
			Right: typedast.Binary{Op: ast.Mult, Type: intT(), Left: intLit(5), Right: intLit(2)},
		},
		Right: typedast.Binary{Op: ast.Div, Type: intT(), Left: intLit(8), Right: intLit(4)},
	})
	got := run(t, program)
	if got.Int != 18 {
		t.Errorf("got %d, want 18", got.Int)
	}
}

func TestRunDivisionByZero(t *testing.T) {
	program := typedBlock(typedast.Binary{Op: ast.Div, Type: intT(), Left: intLit(1), Right: intLit(0)})
	io_ := state.NewIoContext(strings.NewReader(""), &strings.Builder{})
	it := NewInterpreter(builtins.RuntimeTable())
	_, err := it.Run(program, nil, io_)
	if err == nil {
		t.Fatalf("expected division-by-zero error")
	}
	rtErr, ok := err.(*runtime.Error)
	if !ok {
		t.Fatalf("got %T, want *runtime.Error", err)
	}
	if rtErr.Category != runtime.ErrDivisionByZero {
		t.Errorf("got category %v, want ErrDivisionByZero", rtErr.Category)
	}
}

func TestRunDeclarationAndAssignment(t *testing.T) {
	program := typedBlock(
		typedast.Declaration{Ident: "x", Value: intLit(1), IsMutable: true},
		typedast.Assignment{Ident: "x", Value: intLit(2)},
		typedast.Identifier{Name: "x", Type: intT()},
	)
	got := run(t, program)
	if got.Int != 2 {
		t.Errorf("got %d, want 2", got.Int)
	}
}

func TestRunIfElse(t *testing.T) {
	for _, tc := range []struct {
		cond ast.LiteralKind
		b    bool
		want int32
	}{
		{ast.LiteralBool, true, 7},
		{ast.LiteralBool, false, 8},
	} {
		program := typedBlock(typedast.IfElse{
			Condition: boolLit(tc.b),
			Then:      typedBlock(intLit(7)),
			Else:      typedBlock(intLit(8)),
			Type:      intT(),
		})
		got := run(t, program)
		if got.Int != tc.want {
			t.Errorf("cond=%v: got %d, want %d", tc.b, got.Int, tc.want)
		}
	}
}

func TestRunLoopBreak(t *testing.T) {
	// let mut i = 0;
	// loop { i = i + 1; if i == 3 { break; }; };
	// i;
	program := typedBlock(
		typedast.Declaration{Ident: "i", Value: intLit(0), IsMutable: true},
		typedast.Loop{Type: types.Type{Kind: types.Void}, Body: typedBlock(
			typedast.Assignment{
				Ident: "i",
				Value: typedast.Binary{Op: ast.Add, Type: intT(), Left: typedast.Identifier{Name: "i", Type: intT()}, Right: intLit(1)},
			},
			typedast.If{
				Condition: typedast.Binary{
					Op:    ast.Eq,
					Type:  boolT(),
					Left:  typedast.Identifier{Name: "i", Type: intT()},
					Right: intLit(3),
				},
				Then: typedBlock(typedast.Break{}),
				Type: types.Type{Kind: types.Void},
			},
		)),
		typedast.Identifier{Name: "i", Type: intT()},
	)
	got := run(t, program)
	if got.Int != 3 {
		t.Errorf("got %d, want 3", got.Int)
	}
}

func TestRunClosureSeesOuterScope(t *testing.T) {
	// let outer = 10;
	// let addOuter = (x: Int): Int => { x + outer; }; // closure
	// addOuter(5); -> 15
	addOuter := typedast.FuncDeclare{
		Params:     []typedast.Param{{Name: "x", Type: intT()}},
		ReturnType: intT(),
		IsClosure:  true,
		Type:       types.Type{Kind: types.Func, Func: []types.Type{intT(), intT()}},
		Body: typedBlock(typedast.Binary{
			Op: ast.Add, Type: intT(),
			Left:  typedast.Identifier{Name: "x", Type: intT()},
			Right: typedast.Identifier{Name: "outer", Type: intT()},
		}),
	}
	program := typedBlock(
		typedast.Declaration{Ident: "outer", Value: intLit(10)},
		typedast.Declaration{Ident: "addOuter", Value: addOuter},
		typedast.FuncCall{
			Callee: typedast.Identifier{Name: "addOuter", Type: addOuter.Type},
			Args:   []typedast.Expr{intLit(5)},
			Type:   intT(),
		},
	)
	got := run(t, program)
	if got.Int != 15 {
		t.Errorf("got %d, want 15", got.Int)
	}
}

func TestRunNonClosureHidesOuterScope(t *testing.T) {
	// let outer = 10;
	// let f = (x: Int): Int => { x + outer; }; // non-closure, can't see outer
	// f(5);
	f := typedast.FuncDeclare{
		Params:     []typedast.Param{{Name: "x", Type: intT()}},
		ReturnType: intT(),
		IsClosure:  false,
		Type:       types.Type{Kind: types.Func, Func: []types.Type{intT(), intT()}},
		Body: typedBlock(typedast.Binary{
			Op: ast.Add, Type: intT(),
			Left:  typedast.Identifier{Name: "x", Type: intT()},
			Right: typedast.Identifier{Name: "outer", Type: intT()},
		}),
	}
	program := typedBlock(
		typedast.Declaration{Ident: "outer", Value: intLit(10)},
		typedast.Declaration{Ident: "f", Value: f},
		typedast.FuncCall{
			Callee: typedast.Identifier{Name: "f", Type: f.Type},
			Args:   []typedast.Expr{intLit(5)},
			Type:   intT(),
		},
	)
	io_ := state.NewIoContext(strings.NewReader(""), &strings.Builder{})
	it := NewInterpreter(builtins.RuntimeTable())
	_, err := it.Run(program, nil, io_)
	if err == nil {
		t.Fatalf("expected a scope-lookup error since a non-closure cannot see the caller's bindings")
	}
	rtErr, ok := err.(*runtime.Error)
	if !ok || rtErr.Category != runtime.ErrScopeLookup {
		t.Fatalf("got %v, want a scope-lookup runtime.Error", err)
	}
}

func TestRunListAndPushBuiltin(t *testing.T) {
	pushDecl := builtins.ValueBindings()[4] // push
	program := typedBlock(
		typedast.FuncCall{
			Callee: typedast.Identifier{Name: "push", Type: pushDecl.Decl.Type},
			Args: []typedast.Expr{
				typedast.List{Type: types.Type{Kind: types.List, Elem: &[]types.Type{strT()}[0]}, Elements: []typedast.Expr{strLit("a")}},
				strLit("b"),
			},
			Type: types.Type{Kind: types.List, Elem: &[]types.Type{strT()}[0]},
		},
	)
	io_ := state.NewIoContext(strings.NewReader(""), &strings.Builder{})
	it := NewInterpreter(builtins.RuntimeTable())
	got, err := it.Run(program, builtins.ValueBindings(), io_)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != runtime.VList || len(got.List) != 2 {
		t.Fatalf("got %v, want a two-element list", got)
	}
	if got.List[0].Str != "a" || got.List[1].Str != "b" {
		t.Errorf("got %v, want [a, b]", got)
	}
}

func TestRunPrintLineSnapshot(t *testing.T) {
	var out strings.Builder
	io_ := state.NewIoContext(strings.NewReader(""), &out)
	it := NewInterpreter(builtins.RuntimeTable())

	printLine := builtins.ValueBindings()[2]
	program := typedBlock(
		typedast.FuncCall{
			Callee: typedast.Identifier{Name: "print_line", Type: printLine.Decl.Type},
			Args:   []typedast.Expr{strLit("hello world")},
			Type:   types.Type{Kind: types.Void},
		},
	)

	if _, err := it.Run(program, builtins.ValueBindings(), io_); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snaps.MatchSnapshot(t, out.String())
}
