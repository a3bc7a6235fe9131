package runtime

import (
	"testing"

	"github.com/ntwiles/moss/internal/typedast"
	"github.com/ntwiles/moss/internal/types"
)

func TestValueDisplay(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"int", Value{Kind: VInt, Int: 42}, "42"},
		{"string", Value{Kind: VString, Str: "hi"}, "hi"},
		{"bool true", Value{Kind: VBool, Bool: true}, "True"},
		{"bool false", Value{Kind: VBool, Bool: false}, "False"},
		{"void", Value{Kind: VVoid}, "Void"},
		{"list", Value{Kind: VList, List: []Value{{Kind: VInt, Int: 1}, {Kind: VInt, Int: 2}}}, "[1, 2]"},
		{"empty list", Value{Kind: VList}, "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Display(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueTypeMatchesKind(t *testing.T) {
	if (Value{Kind: VInt}).Type().Kind != types.Int {
		t.Errorf("VInt should report types.Int")
	}
	if (Value{Kind: VBool}).Type().Kind != types.Bool {
		t.Errorf("VBool should report types.Bool")
	}
	fn := Value{Kind: VFunc, Func: &Func{
		Params:     []typedast.Param{{Name: "x", Type: types.Type{Kind: types.Int}}},
		ReturnType: types.Type{Kind: types.Bool},
	}}
	ft := fn.Type()
	if ft.Kind != types.Func || len(ft.Func) != 2 {
		t.Errorf("got %v, want a 2-element Func type", ft)
	}
}

func TestValueTypeListElemFromFirstElement(t *testing.T) {
	empty := Value{Kind: VList}
	if empty.Type().Elem.Kind != types.Any {
		t.Errorf("an empty list should report its element type as Any")
	}
	nonEmpty := Value{Kind: VList, List: []Value{{Kind: VString, Str: "x"}}}
	if nonEmpty.Type().Elem.Kind != types.Str {
		t.Errorf("got %v, want element type Str", nonEmpty.Type().Elem.Kind)
	}
}

func TestNewErrorFormatsMessage(t *testing.T) {
	err := NewError(ErrDivisionByZero, "cannot divide %d by zero", 5)
	if err.Category != ErrDivisionByZero {
		t.Errorf("got category %v, want ErrDivisionByZero", err.Category)
	}
	if err.Error() != "cannot divide 5 by zero" {
		t.Errorf("got %q, want %q", err.Error(), "cannot divide 5 by zero")
	}
}
