// Package typedast defines the typed mirror of internal/ast. It is
// produced by internal/semantic and consumed by internal/interp; every
// node knows the concrete types.Type its evaluation will produce.
package typedast

import (
	"github.com/ntwiles/moss/internal/ast"
	"github.com/ntwiles/moss/internal/builtins/id"
	"github.com/ntwiles/moss/internal/types"
)

// Expr is the typed expression tree. Every node exposes its result Type.
type Expr interface {
	Ty() types.Type
}

// Stmt wraps a single typed expression used in statement position.
type Stmt struct {
	Expr Expr
}

// Literal mirrors ast.Literal, tagged with its primitive type.
type Literal struct {
	Kind  ast.LiteralKind
	Int   int32
	Float float64
	Str   string
	Bool  bool
	Type  types.Type
}

func (l Literal) Ty() types.Type { return l.Type }

// Identifier mirrors ast.Identifier; its type is the bound value's type.
type Identifier struct {
	Name string
	Type types.Type
}

func (i Identifier) Ty() types.Type { return i.Type }

// Binary mirrors ast.Binary, with the operator's result type attached.
type Binary struct {
	Op    ast.BinaryOp
	Left  Expr
	Right Expr
	Type  types.Type
}

func (b Binary) Ty() types.Type { return b.Type }

// Negate mirrors ast.Negate.
type Negate struct {
	Operand Expr
	Type    types.Type
}

func (n Negate) Ty() types.Type { return n.Type }

// Declaration mirrors ast.Declaration. Its own type is always Void; the
// value's type is recorded on Value.
type Declaration struct {
	Ident     string
	Value     Expr
	IsMutable bool
}

func (Declaration) Ty() types.Type { return types.Type{Kind: types.Void} }

// Assignment mirrors ast.Assignment. Its own type is always Void.
type Assignment struct {
	Ident string
	Value Expr
}

func (Assignment) Ty() types.Type { return types.Type{Kind: types.Void} }

// FuncCall mirrors ast.FuncCall; Type is the callee's declared return type.
type FuncCall struct {
	Callee Expr
	Args   []Expr
	Span   ast.Span
	Type   types.Type
}

func (c FuncCall) Ty() types.Type { return c.Type }

// If mirrors ast.If; its type is the Then block's type.
type If struct {
	Condition Expr
	Then      *Block
	Type      types.Type
}

func (i If) Ty() types.Type { return i.Type }

// IfElse mirrors ast.IfElse; Else is either *Block or IfElse.
type IfElse struct {
	Condition Expr
	Then      *Block
	Else      Expr
	Type      types.Type
}

func (ie IfElse) Ty() types.Type { return ie.Type }

// Loop mirrors ast.Loop; its type is the body's type, though the loop's
// value is ordinarily Void since it only ever exits via Break.
type Loop struct {
	Body *Block
	Type types.Type
}

func (l Loop) Ty() types.Type { return l.Type }

// Break mirrors ast.Break; always Void.
type Break struct{}

func (Break) Ty() types.Type { return types.Type{Kind: types.Void} }

// BlockKind discriminates an ordinary interpreted block body from a
// builtin block whose body is a host-registered evaluator.
type BlockKind int

const (
	BlockInterpreted BlockKind = iota
	BlockBuiltin
)

// Block mirrors ast.Block. An Interpreted block carries typed statements;
// a Builtin block instead carries the declared parameter names to collect
// from scope and the BuiltinId to dispatch to.
type Block struct {
	Kind       BlockKind
	Stmts      []Stmt
	ParamNames []string
	BuiltinID  id.BuiltinID
	Span       ast.Span
	Type       types.Type
}

func (b Block) Ty() types.Type { return b.Type }

// FuncDeclare mirrors ast.FuncDeclare; its type is Func([param1..paramN, return]).
type FuncDeclare struct {
	Params     []Param
	ReturnType types.Type
	Body       *Block
	IsClosure  bool
	Type       types.Type
}

func (f FuncDeclare) Ty() types.Type { return f.Type }

// Param is a typed function parameter.
type Param struct {
	Name string
	Type types.Type
}

// List mirrors ast.List; Type is List(elementType).
type List struct {
	Elements []Expr
	Type     types.Type
}

func (l List) Ty() types.Type { return l.Type }
