// Package types implements Moss's structural type system: concrete value
// types, the bindings that name them in a type scope, and resolution of
// the parser's syntactic ProtoType forms against that scope.
package types

import (
	"fmt"
	"strings"

	"github.com/ntwiles/moss/internal/ast"
)

// Kind discriminates the variant of a Type.
type Kind int

const (
	Int Kind = iota
	Float
	Bool
	Str
	Void
	// Any is a temporary universal type used only for builtin parameter
	// positions until the language grows real generics.
	Any
	Func
	List
)

// Type is a structurally-equal value type. Func and List carry element
// types; the other kinds are singletons.
type Type struct {
	Kind Kind
	// Func holds [param1, ..., paramN, return] when Kind == Func.
	Func []Type
	// Elem holds the element type when Kind == List.
	Elem *Type
}

// Equal reports structural equality. Any is never equal to anything but
// itself under plain Equal; the asymmetric match used at call sites is
// ArgMatches.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Func:
		if len(t.Func) != len(other.Func) {
			return false
		}
		for i := range t.Func {
			if !t.Func[i].Equal(other.Func[i]) {
				return false
			}
		}
		return true
	case List:
		return t.Elem.Equal(*other.Elem)
	default:
		return true
	}
}

// ArgMatches is used only when checking an argument against a declared
// parameter type at a call site: it behaves like Equal except that a
// parameter declared as Any matches any concrete argument type.
func ArgMatches(param, arg Type) bool {
	if param.Kind == Any {
		return true
	}
	return param.Equal(arg)
}

// Display renders a Type in Moss's canonical surface syntax.
func Display(t Type) string {
	switch t.Kind {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case Str:
		return "String"
	case Void:
		return "Void"
	case Any:
		return "Any"
	case Func:
		parts := make([]string, len(t.Func))
		for i, p := range t.Func {
			parts[i] = Display(p)
		}
		return fmt.Sprintf("Func<%s>", strings.Join(parts, ", "))
	case List:
		return fmt.Sprintf("List<%s>", Display(*t.Elem))
	default:
		return "?"
	}
}

// BindingKind discriminates the two ways a name can populate the type
// scope: as a concrete type, or as a parametric type constructor.
type BindingKind int

const (
	BindingAtomic BindingKind = iota
	BindingApplied
)

// Binding is an entry in the type scope. Atomic bindings name a concrete
// Type directly (e.g. "Int" -> Type{Kind: Int}); Applied bindings name a
// constructor of fixed arity (e.g. "List" -> arity 1).
type Binding struct {
	Kind  BindingKind
	Atom  Type
	Arity int
}

// TypeScope is the name -> Binding mapping proto-types resolve against.
type TypeScope interface {
	Get(name string) (Binding, bool)
}

// ResolveError reports a failure to resolve a ProtoType.
type ResolveError struct {
	Message string
}

func (e *ResolveError) Error() string { return e.Message }

// Resolve turns a syntactic ProtoType into a concrete Type by looking up
// constructor/atomic bindings in scope.
func Resolve(proto ast.ProtoType, scope TypeScope) (Type, error) {
	switch p := proto.(type) {
	case ast.AtomicProto:
		binding, ok := scope.Get(p.Name)
		if !ok {
			return Type{}, &ResolveError{Message: fmt.Sprintf("unknown type %q", p.Name)}
		}
		if binding.Kind != BindingAtomic {
			return Type{}, &ResolveError{Message: fmt.Sprintf("%q is a type constructor, not a type", p.Name)}
		}
		return binding.Atom, nil

	case ast.AppliedProto:
		binding, ok := scope.Get(p.Name)
		if !ok {
			return Type{}, &ResolveError{Message: fmt.Sprintf("unknown type constructor %q", p.Name)}
		}
		if binding.Kind != BindingApplied {
			return Type{}, &ResolveError{Message: fmt.Sprintf("%q is not a type constructor", p.Name)}
		}
		// Func is variadic (N params + 1 return); every other constructor
		// in the prelude has a fixed arity checked exactly.
		if p.Name != "Func" && len(p.Args) != binding.Arity {
			return Type{}, &AppliedArityError{Name: p.Name, Expected: binding.Arity, Received: len(p.Args)}
		}
		if p.Name == "Func" && len(p.Args) < 1 {
			return Type{}, &AppliedArityError{Name: p.Name, Expected: 1, Received: len(p.Args)}
		}

		args := make([]Type, len(p.Args))
		for i, a := range p.Args {
			resolved, err := Resolve(a, scope)
			if err != nil {
				return Type{}, err
			}
			args[i] = resolved
		}

		switch p.Name {
		case "Func":
			return Type{Kind: Func, Func: args}, nil
		case "List":
			return Type{Kind: List, Elem: &args[0]}, nil
		default:
			return Type{}, &ResolveError{Message: fmt.Sprintf("unrecognized type constructor %q", p.Name)}
		}

	default:
		return Type{}, &ResolveError{Message: "unknown proto-type form"}
	}
}

// AppliedArityError reports a type constructor applied to the wrong number
// of arguments, surfaced by the analyzer as TypeError.AppliedTypeWrongNumberArgs.
type AppliedArityError struct {
	Name     string
	Expected int
	Received int
}

func (e *AppliedArityError) Error() string {
	return fmt.Sprintf("type constructor %q expects %d argument(s), got %d", e.Name, e.Expected, e.Received)
}

// PreludeBindings returns the type bindings every Moss program starts
// with: the primitive atomic types plus the two built-in parametric
// constructors.
func PreludeBindings() map[string]Binding {
	return map[string]Binding{
		"Int":    {Kind: BindingAtomic, Atom: Type{Kind: Int}},
		"Float":  {Kind: BindingAtomic, Atom: Type{Kind: Float}},
		"Bool":   {Kind: BindingAtomic, Atom: Type{Kind: Bool}},
		"Str":    {Kind: BindingAtomic, Atom: Type{Kind: Str}},
		"String": {Kind: BindingAtomic, Atom: Type{Kind: Str}},
		"Void":   {Kind: BindingAtomic, Atom: Type{Kind: Void}},
		"Any":    {Kind: BindingAtomic, Atom: Type{Kind: Any}},
		"Func":   {Kind: BindingApplied, Arity: -1}, // variadic; see Resolve
		"List":   {Kind: BindingApplied, Arity: 1},
	}
}
