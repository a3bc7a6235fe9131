// Package builtins is the registry described in spec.md §4.6: one typed
// declaration per builtin (for the analyzer to pre-populate the value
// scope and check call sites against) paired with one runtime evaluator
// (for the interpreter to dispatch to), both keyed by the stable id.BuiltinID
// enumeration. Builtin bodies are intentionally simple; the five entries
// here (int, str, print_line, read_line, push) are the complete set named
// in spec.md and are not meant to be extended casually — see SPEC_FULL.md §C.
package builtins

import (
	"strconv"
	"strings"

	"github.com/ntwiles/moss/internal/builtins/id"
	"github.com/ntwiles/moss/internal/runtime"
	"github.com/ntwiles/moss/internal/state"
	"github.com/ntwiles/moss/internal/typedast"
	"github.com/ntwiles/moss/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ValueBinding pairs a builtin's source-level name with its typed
// declaration, ready to be inserted into the analyzer's (and the
// interpreter's) initial value scope as an immutable Func binding.
type ValueBinding struct {
	Name string
	Decl typedast.FuncDeclare
}

func anyT() types.Type    { return types.Type{Kind: types.Any} }
func voidT() types.Type   { return types.Type{Kind: types.Void} }
func strT() types.Type    { return types.Type{Kind: types.Str} }
func funcType(params []types.Type, ret types.Type) types.Type {
	all := append(append([]types.Type{}, params...), ret)
	return types.Type{Kind: types.Func, Func: all}
}

func builtinDecl(paramNames []string, paramTypes []types.Type, ret types.Type, bid id.BuiltinID) typedast.FuncDeclare {
	params := make([]typedast.Param, len(paramNames))
	for i, n := range paramNames {
		params[i] = typedast.Param{Name: n, Type: paramTypes[i]}
	}
	body := &typedast.Block{
		Kind:       typedast.BlockBuiltin,
		ParamNames: paramNames,
		BuiltinID:  bid,
		Type:       ret,
	}
	return typedast.FuncDeclare{
		Params:     params,
		ReturnType: ret,
		Body:       body,
		IsClosure:  false,
		Type:       funcType(paramTypes, ret),
	}
}

// ValueBindings returns the typed declarations for every builtin, in the
// stable order the language surface documents them.
func ValueBindings() []ValueBinding {
	listOfStr := types.Type{Kind: types.List, Elem: &[]types.Type{strT()}[0]}

	return []ValueBinding{
		{Name: "int", Decl: builtinDecl([]string{"v"}, []types.Type{anyT()}, types.Type{Kind: types.Int}, id.Int)},
		{Name: "str", Decl: builtinDecl([]string{"v"}, []types.Type{anyT()}, strT(), id.Str)},
		{Name: "print_line", Decl: builtinDecl([]string{"msg"}, []types.Type{anyT()}, voidT(), id.PrintLine)},
		{Name: "read_line", Decl: builtinDecl(nil, nil, strT(), id.ReadLine)},
		{Name: "push", Decl: builtinDecl([]string{"list", "item"}, []types.Type{listOfStr, strT()}, listOfStr, id.Push)},
	}
}

// RuntimeFunc is the host-provided evaluator a builtin dispatches to.
type RuntimeFunc func(io *state.IoContext, args []runtime.Value) (runtime.Value, error)

// RuntimeTable returns the interpreter-facing dispatch table.
func RuntimeTable() map[id.BuiltinID]RuntimeFunc {
	return map[id.BuiltinID]RuntimeFunc{
		id.Int:       builtinInt,
		id.Str:       builtinStr,
		id.PrintLine: builtinPrintLine,
		id.ReadLine:  builtinReadLine,
		id.Push:      builtinPush,
	}
}

func builtinInt(_ *state.IoContext, args []runtime.Value) (runtime.Value, error) {
	v := args[0]
	switch v.Kind {
	case runtime.VString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 32)
		if err != nil {
			return runtime.Value{}, runtime.NewError(runtime.ErrParse, "int(): cannot parse %q as an integer", v.Str)
		}
		return runtime.Value{Kind: runtime.VInt, Int: int32(n)}, nil
	case runtime.VBool:
		if v.Bool {
			return runtime.Value{Kind: runtime.VInt, Int: 1}, nil
		}
		return runtime.Value{Kind: runtime.VInt, Int: 0}, nil
	default:
		return runtime.Value{}, runtime.NewError(runtime.ErrOther, "int(): unsupported argument kind")
	}
}

// titleCaser renders Moss's "True"/"False" boolean display form; golang.org/x/text
// gives us a locale-aware title caser instead of a hand-rolled ASCII upcase
// of the first rune.
var titleCaser = cases.Title(language.English)

func builtinStr(_ *state.IoContext, args []runtime.Value) (runtime.Value, error) {
	v := args[0]
	switch v.Kind {
	case runtime.VInt:
		return runtime.Value{Kind: runtime.VString, Str: strconv.FormatInt(int64(v.Int), 10)}, nil
	case runtime.VBool:
		word := "false"
		if v.Bool {
			word = "true"
		}
		return runtime.Value{Kind: runtime.VString, Str: titleCaser.String(word)}, nil
	default:
		return runtime.Value{}, runtime.NewError(runtime.ErrOther, "str(): unsupported argument kind")
	}
}

func builtinPrintLine(io_ *state.IoContext, args []runtime.Value) (runtime.Value, error) {
	v := args[0]
	if v.Kind == runtime.VList {
		return runtime.Value{}, runtime.NewError(runtime.ErrOther, "print_line(): lists are not printable")
	}
	if err := io_.WriteLine(v.Display()); err != nil {
		return runtime.Value{}, err
	}
	return runtime.Value{Kind: runtime.VVoid}, nil
}

func builtinReadLine(io_ *state.IoContext, _ []runtime.Value) (runtime.Value, error) {
	line, err := io_.ReadLine()
	if err != nil {
		return runtime.Value{}, err
	}
	return runtime.Value{Kind: runtime.VString, Str: line}, nil
}

func builtinPush(_ *state.IoContext, args []runtime.Value) (runtime.Value, error) {
	list, item := args[0], args[1]
	out := make([]runtime.Value, len(list.List)+1)
	copy(out, list.List)
	out[len(list.List)] = item
	return runtime.Value{Kind: runtime.VList, List: out}, nil
}
