package semantic

import (
	"fmt"

	"github.com/ntwiles/moss/internal/ast"
	"github.com/ntwiles/moss/internal/types"
)

// TypeError is the structured taxonomy from spec.md §7. Every variant
// carries enough data (types, identifiers, spans) for a driver to render
// a snippet; the analyzer never recovers from one locally.
type TypeError interface {
	error
	typeErrorNode()
}

type AmbiguousListType struct{}

func (AmbiguousListType) typeErrorNode() {}
func (e AmbiguousListType) Error() string {
	return "cannot infer element type of empty list literal without a type annotation"
}

type AssignWrongType struct {
	Expected, Received types.Type
}

func (AssignWrongType) typeErrorNode() {}
func (e AssignWrongType) Error() string {
	return fmt.Sprintf("expected value of type %s, got %s", types.Display(e.Expected), types.Display(e.Received))
}

type AssignImmutable struct {
	Ident string
}

func (AssignImmutable) typeErrorNode() {}
func (e AssignImmutable) Error() string {
	return fmt.Sprintf("cannot assign to immutable binding %q", e.Ident)
}

type AssignVoid struct{}

func (AssignVoid) typeErrorNode() {}
func (AssignVoid) Error() string { return "cannot declare a binding with type Void" }

type BinaryOpWrongTypes struct {
	Op   ast.BinaryOp
	A, B types.Type
}

func (BinaryOpWrongTypes) typeErrorNode() {}
func (e BinaryOpWrongTypes) Error() string {
	return fmt.Sprintf("operator %s cannot be applied to %s and %s", binaryOpSymbol(e.Op), types.Display(e.A), types.Display(e.B))
}

type DivisionZero struct{}

func (DivisionZero) typeErrorNode() {}
func (DivisionZero) Error() string { return "division by literal zero" }

type ExpectedTypeReceivedList struct {
	Expected types.Type
}

func (ExpectedTypeReceivedList) typeErrorNode() {}
func (e ExpectedTypeReceivedList) Error() string {
	return fmt.Sprintf("expected %s, got a list", types.Display(e.Expected))
}

type FuncWrongReturnType struct {
	Expected, Received types.Type
	Span                ast.Span
}

func (FuncWrongReturnType) typeErrorNode() {}
func (e FuncWrongReturnType) Error() string {
	return fmt.Sprintf("function body has type %s but declares return type %s", types.Display(e.Received), types.Display(e.Expected))
}

type IfElseBlockTypeMismatch struct {
	A, B types.Type
}

func (IfElseBlockTypeMismatch) typeErrorNode() {}
func (e IfElseBlockTypeMismatch) Error() string {
	return fmt.Sprintf("if/else branches have mismatched types %s and %s", types.Display(e.A), types.Display(e.B))
}

type IfElseConditionNonBool struct {
	Type types.Type
}

func (IfElseConditionNonBool) typeErrorNode() {}
func (e IfElseConditionNonBool) Error() string {
	return fmt.Sprintf("condition must be Bool, got %s", types.Display(e.Type))
}

type InvokeNonFunc struct {
	Type types.Type
}

func (InvokeNonFunc) typeErrorNode() {}
func (e InvokeNonFunc) Error() string {
	return fmt.Sprintf("cannot call a value of type %s", types.Display(e.Type))
}

type InvokeWrongSignature struct {
	ParamTypes []types.Type
	ArgTypes   []types.Type
	Span       ast.Span
}

func (InvokeWrongSignature) typeErrorNode() {}
func (e InvokeWrongSignature) Error() string {
	return fmt.Sprintf("call does not match signature: expected %d argument(s), got %d", len(e.ParamTypes), len(e.ArgTypes))
}

type UnaryOpWrongType struct {
	Op   string
	Type types.Type
}

func (UnaryOpWrongType) typeErrorNode() {}
func (e UnaryOpWrongType) Error() string {
	return fmt.Sprintf("operator %s cannot be applied to %s", e.Op, types.Display(e.Type))
}

type ScopeBindingNotFound struct {
	Ident string
}

func (ScopeBindingNotFound) typeErrorNode() {}
func (e ScopeBindingNotFound) Error() string {
	return fmt.Sprintf("undeclared identifier %q", e.Ident)
}

type ScopeBindingAlreadyExists struct {
	Ident string
}

func (ScopeBindingAlreadyExists) typeErrorNode() {}
func (e ScopeBindingAlreadyExists) Error() string {
	return fmt.Sprintf("%q is already declared in this scope", e.Ident)
}

type AppliedTypeWrongNumberArgs struct {
	Name               string
	Expected, Received int
}

func (AppliedTypeWrongNumberArgs) typeErrorNode() {}
func (e AppliedTypeWrongNumberArgs) Error() string {
	return fmt.Sprintf("%s expects %d type argument(s), got %d", e.Name, e.Expected, e.Received)
}

func binaryOpSymbol(op ast.BinaryOp) string {
	switch op {
	case ast.Eq:
		return "=="
	case ast.Gt:
		return ">"
	case ast.Lt:
		return "<"
	case ast.Gte:
		return ">="
	case ast.Lte:
		return "<="
	case ast.Add:
		return "+"
	case ast.Sub:
		return "-"
	case ast.Mult:
		return "*"
	case ast.Div:
		return "/"
	case ast.Modulo:
		return "%"
	default:
		return "?"
	}
}
