// Package runtime defines the values the interpreter produces and moves
// through its value stack, plus the error type the interpreter surfaces
// when an operation fails during execution (as opposed to during static
// analysis).
package runtime

import (
	"fmt"
	"strings"

	"github.com/ntwiles/moss/internal/typedast"
	"github.com/ntwiles/moss/internal/types"
)

// ValueKind discriminates the variant of a Value.
type ValueKind int

const (
	VInt ValueKind = iota
	VFloat
	VString
	VBool
	VVoid
	VFunc
	VList
)

// Value is the runtime value sum. Exactly one of the typed fields is
// meaningful, selected by Kind.
type Value struct {
	Kind  ValueKind
	Int   int32
	Float float64
	Str   string
	Bool  bool
	Func  *Func
	List  []Value
}

// Func captures everything needed to invoke a function value at a later
// point: its parameter/return descriptors and its body block. It is
// cloned out of the FuncDeclare node that produced it, then consumed
// (moved) from the value stack at call time.
type Func struct {
	Params     []typedast.Param
	ReturnType types.Type
	Body       *typedast.Block
	IsClosure  bool
}

// Type reports the static type this value's kind corresponds to. Used by
// defense-in-depth runtime checks; the analyzer has already guaranteed
// this matches the node's declared type before the interpreter ever sees it.
func (v Value) Type() types.Type {
	switch v.Kind {
	case VInt:
		return types.Type{Kind: types.Int}
	case VFloat:
		return types.Type{Kind: types.Float}
	case VString:
		return types.Type{Kind: types.Str}
	case VBool:
		return types.Type{Kind: types.Bool}
	case VVoid:
		return types.Type{Kind: types.Void}
	case VFunc:
		parts := make([]types.Type, 0, len(v.Func.Params)+1)
		for _, p := range v.Func.Params {
			parts = append(parts, p.Type)
		}
		parts = append(parts, v.Func.ReturnType)
		return types.Type{Kind: types.Func, Func: parts}
	case VList:
		elem := types.Type{Kind: types.Any}
		if len(v.List) > 0 {
			elem = v.List[0].Type()
		}
		return types.Type{Kind: types.List, Elem: &elem}
	default:
		return types.Type{}
	}
}

// Display renders a value the way print_line/str present it to the host.
func (v Value) Display() string {
	switch v.Kind {
	case VInt:
		return fmt.Sprintf("%d", v.Int)
	case VFloat:
		return fmt.Sprintf("%v", v.Float)
	case VString:
		return v.Str
	case VBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case VVoid:
		return "Void"
	case VFunc:
		return fmt.Sprintf("<func %s>", types.Display(v.Type()))
	case VList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.Display()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "?"
	}
}

// Error is the single structured runtime-error category described in
// spec.md §7. Category distinguishes the handful of named failure shapes
// the spec calls out explicitly; Message is the human-readable detail.
type Error struct {
	Category ErrorCategory
	Message  string
}

func (e *Error) Error() string { return e.Message }

// ErrorCategory names the kinds of runtime failure the spec requires a
// host to be able to distinguish.
type ErrorCategory int

const (
	ErrIO ErrorCategory = iota
	ErrDivisionByZero
	ErrScopeLookup
	ErrParse
	ErrOther
)

// NewError builds a runtime Error with a formatted message.
func NewError(cat ErrorCategory, format string, args ...any) *Error {
	return &Error{Category: cat, Message: fmt.Sprintf(format, args...)}
}
