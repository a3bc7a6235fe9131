// Package id defines the stable builtin identifier enumeration shared by
// internal/typedast (which tags Block.Builtin nodes with it) and
// internal/builtins (which keys both of its registries by it). It is split
// out from internal/builtins to avoid an import cycle: typedast must name
// a BuiltinID without depending on the registries themselves.
package id

// BuiltinID names one of the host-provided builtin functions.
type BuiltinID int

const (
	Int BuiltinID = iota
	Str
	PrintLine
	ReadLine
	Push
)

// String renders the identifier's source-level name, used in diagnostics
// and in the typed AST's debug dump.
func (b BuiltinID) String() string {
	switch b {
	case Int:
		return "int"
	case Str:
		return "str"
	case PrintLine:
		return "print_line"
	case ReadLine:
		return "read_line"
	case Push:
		return "push"
	default:
		return "?"
	}
}
