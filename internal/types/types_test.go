package types

import (
	"testing"

	"github.com/ntwiles/moss/internal/ast"
)

// testScope adapts a plain map to TypeScope, the same way internal/semantic
// does, for tests that need to exercise Resolve directly.
type testScope map[string]Binding

func (s testScope) Get(name string) (Binding, bool) {
	b, ok := s[name]
	return b, ok
}

func TestResolveAtomic(t *testing.T) {
	scope := testScope(PreludeBindings())

	tests := []struct {
		name string
		want Kind
	}{
		{"Int", Int},
		{"Float", Float},
		{"Bool", Bool},
		{"Str", Str},
		{"String", Str},
		{"Void", Void},
		{"Any", Any},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(ast.AtomicProto{Name: tt.name}, scope)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.name, err)
			}
			if got.Kind != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.name, got.Kind, tt.want)
			}
		})
	}
}

func TestResolveUnknownAtomic(t *testing.T) {
	scope := testScope(PreludeBindings())
	if _, err := Resolve(ast.AtomicProto{Name: "Nope"}, scope); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestResolveListApplied(t *testing.T) {
	scope := testScope(PreludeBindings())
	got, err := Resolve(ast.AppliedProto{Name: "List", Args: []ast.ProtoType{ast.AtomicProto{Name: "Int"}}}, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != List || got.Elem.Kind != Int {
		t.Errorf("got %v, want List<Int>", got)
	}
}

func TestResolveListWrongArity(t *testing.T) {
	scope := testScope(PreludeBindings())
	_, err := Resolve(ast.AppliedProto{Name: "List", Args: []ast.ProtoType{
		ast.AtomicProto{Name: "Int"}, ast.AtomicProto{Name: "Bool"},
	}}, scope)
	if err == nil {
		t.Fatalf("expected arity error")
	}
	if _, ok := err.(*AppliedArityError); !ok {
		t.Fatalf("got %T, want *AppliedArityError", err)
	}
}

func TestResolveFuncVariadicArity(t *testing.T) {
	scope := testScope(PreludeBindings())

	// Func requires at least one arg (the return type); zero is rejected.
	if _, err := Resolve(ast.AppliedProto{Name: "Func", Args: nil}, scope); err == nil {
		t.Fatalf("expected error for zero-arg Func")
	}

	got, err := Resolve(ast.AppliedProto{Name: "Func", Args: []ast.ProtoType{
		ast.AtomicProto{Name: "Int"}, ast.AtomicProto{Name: "Int"}, ast.AtomicProto{Name: "Bool"},
	}}, scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != Func || len(got.Func) != 3 {
		t.Errorf("got %v, want a 3-element Func type", got)
	}
}

func TestEqualAndArgMatches(t *testing.T) {
	intT := Type{Kind: Int}
	strT := Type{Kind: Str}
	anyT := Type{Kind: Any}

	if !intT.Equal(Type{Kind: Int}) {
		t.Errorf("Int should equal Int")
	}
	if intT.Equal(strT) {
		t.Errorf("Int should not equal Str")
	}
	if intT.Equal(anyT) {
		t.Errorf("Equal must not treat Any as a wildcard")
	}
	if !ArgMatches(anyT, strT) {
		t.Errorf("ArgMatches must treat an Any parameter as matching any argument")
	}
	if ArgMatches(strT, anyT) {
		t.Errorf("ArgMatches must not treat Any on the argument side as a wildcard")
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		t    Type
		want string
	}{
		{Type{Kind: Int}, "Int"},
		{Type{Kind: Str}, "String"},
		{Type{Kind: List, Elem: &Type{Kind: Bool}}, "List<Bool>"},
		{Type{Kind: Func, Func: []Type{{Kind: Int}, {Kind: Bool}}}, "Func<Int, Bool>"},
	}
	for _, tt := range tests {
		if got := Display(tt.t); got != tt.want {
			t.Errorf("Display(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}
