// Package semantic implements the analyzer described in spec.md §4.3: it
// walks the untyped ast.Expr tree once, producing a typedast.Expr tree or
// failing immediately with a TypeError. No node is recovered locally — the
// first failure aborts the walk.
package semantic

import (
	"fmt"

	"github.com/ntwiles/moss/internal/ast"
	"github.com/ntwiles/moss/internal/builtins"
	"github.com/ntwiles/moss/internal/scope"
	"github.com/ntwiles/moss/internal/typedast"
	"github.com/ntwiles/moss/internal/types"
)

// typeScopeMap adapts a plain map to types.TypeScope.
type typeScopeMap map[string]types.Binding

func (m typeScopeMap) Get(name string) (types.Binding, bool) {
	b, ok := m[name]
	return b, ok
}

// Analyzer holds the two scopes a walk threads through: type bindings
// (flat, resolved once at construction) and value bindings (a stack, since
// blocks and function calls each open and close their own frames).
type Analyzer struct {
	types  typeScopeMap
	values *scope.ScopeStack[types.Type]
}

// NewAnalyzer pre-populates the type scope from typeBindings and the value
// scope from valueBindings, per spec.md §4.3's walk discipline. Builtins
// are always immutable.
func NewAnalyzer(valueBindings []builtins.ValueBinding, typeBindings map[string]types.Binding) *Analyzer {
	a := &Analyzer{
		types:  typeScopeMap(typeBindings),
		values: scope.NewScopeStack[types.Type](),
	}
	for _, vb := range valueBindings {
		_ = a.values.Insert(vb.Name, false, vb.Decl.Type)
	}
	return a
}

// Analyze type-checks a top-level program block.
func (a *Analyzer) Analyze(program *ast.Block) (*typedast.Block, error) {
	return a.analyzeBlock(program)
}

func (a *Analyzer) resolveProto(proto ast.ProtoType) (types.Type, error) {
	t, err := types.Resolve(proto, a.types)
	if err != nil {
		if arityErr, ok := err.(*types.AppliedArityError); ok {
			return types.Type{}, AppliedTypeWrongNumberArgs{Name: arityErr.Name, Expected: arityErr.Expected, Received: arityErr.Received}
		}
		return types.Type{}, err
	}
	return t, nil
}

func (a *Analyzer) analyzeExpr(e ast.Expr, hint *types.Type) (typedast.Expr, error) {
	switch n := e.(type) {
	case ast.Literal:
		return a.analyzeLiteral(n), nil
	case ast.Identifier:
		return a.analyzeIdentifier(n)
	case ast.Binary:
		return a.analyzeBinary(n)
	case ast.Negate:
		return a.analyzeNegate(n)
	case ast.Declaration:
		return a.analyzeDeclaration(n)
	case ast.Assignment:
		return a.analyzeAssignment(n)
	case ast.FuncCall:
		return a.analyzeFuncCall(n)
	case ast.If:
		return a.analyzeIf(n)
	case ast.IfElse:
		return a.analyzeIfElse(n)
	case ast.Block:
		b := n
		return a.analyzeBlock(&b)
	case *ast.Block:
		return a.analyzeBlock(n)
	case ast.Loop:
		return a.analyzeLoop(n)
	case ast.Break:
		return typedast.Break{}, nil
	case ast.FuncDeclare:
		return a.analyzeFuncDeclare(n, "")
	case ast.List:
		return a.analyzeList(n, hint)
	default:
		return nil, fmt.Errorf("semantic: unhandled expression node %T", e)
	}
}

func (a *Analyzer) analyzeLiteral(n ast.Literal) typedast.Expr {
	var t types.Type
	switch n.Kind {
	case ast.LiteralInt:
		t = types.Type{Kind: types.Int}
	case ast.LiteralFloat:
		t = types.Type{Kind: types.Float}
	case ast.LiteralStr:
		t = types.Type{Kind: types.Str}
	case ast.LiteralBool:
		t = types.Type{Kind: types.Bool}
	}
	return typedast.Literal{Kind: n.Kind, Int: n.Int, Float: n.Float, Str: n.Str, Bool: n.Bool, Type: t}
}

func (a *Analyzer) analyzeIdentifier(n ast.Identifier) (typedast.Expr, error) {
	entry, err := a.values.Lookup(n.Name)
	if err != nil {
		return nil, ScopeBindingNotFound{Ident: n.Name}
	}
	return typedast.Identifier{Name: n.Name, Type: entry.Value}, nil
}

func (a *Analyzer) analyzeBinary(n ast.Binary) (typedast.Expr, error) {
	left, err := a.analyzeExpr(n.Left, nil)
	if err != nil {
		return nil, err
	}
	right, err := a.analyzeExpr(n.Right, nil)
	if err != nil {
		return nil, err
	}

	lt, rt := left.Ty(), right.Ty()
	if !lt.Equal(rt) {
		return nil, BinaryOpWrongTypes{Op: n.Op, A: lt, B: rt}
	}

	switch n.Op {
	case ast.Eq:
		return typedast.Binary{Op: n.Op, Left: left, Right: right, Type: types.Type{Kind: types.Bool}}, nil

	case ast.Gt, ast.Lt, ast.Gte, ast.Lte:
		if lt.Kind != types.Int && lt.Kind != types.Float {
			return nil, BinaryOpWrongTypes{Op: n.Op, A: lt, B: rt}
		}
		return typedast.Binary{Op: n.Op, Left: left, Right: right, Type: types.Type{Kind: types.Bool}}, nil

	case ast.Add:
		if lt.Kind != types.Int && lt.Kind != types.Float && lt.Kind != types.Str {
			return nil, BinaryOpWrongTypes{Op: n.Op, A: lt, B: rt}
		}
		return typedast.Binary{Op: n.Op, Left: left, Right: right, Type: lt}, nil

	case ast.Sub, ast.Mult, ast.Div, ast.Modulo:
		if lt.Kind != types.Int && lt.Kind != types.Float {
			return nil, BinaryOpWrongTypes{Op: n.Op, A: lt, B: rt}
		}
		if n.Op == ast.Div || n.Op == ast.Modulo {
			if lit, ok := right.(typedast.Literal); ok && lit.Kind == ast.LiteralInt && lit.Int == 0 {
				return nil, DivisionZero{}
			}
		}
		return typedast.Binary{Op: n.Op, Left: left, Right: right, Type: lt}, nil

	default:
		return nil, fmt.Errorf("semantic: unknown binary operator %v", n.Op)
	}
}

func (a *Analyzer) analyzeNegate(n ast.Negate) (typedast.Expr, error) {
	operand, err := a.analyzeExpr(n.Operand, nil)
	if err != nil {
		return nil, err
	}
	k := operand.Ty().Kind
	if k != types.Int && k != types.Float {
		return nil, UnaryOpWrongType{Op: "-", Type: operand.Ty()}
	}
	return typedast.Negate{Operand: operand, Type: operand.Ty()}, nil
}

func (a *Analyzer) analyzeDeclaration(n ast.Declaration) (typedast.Expr, error) {
	if fd, ok := n.Value.(ast.FuncDeclare); ok {
		typedFD, err := a.analyzeFuncDeclare(fd, n.Ident)
		if err != nil {
			return nil, err
		}
		if err := a.values.Insert(n.Ident, n.IsMutable, typedFD.Ty()); err != nil {
			return nil, ScopeBindingAlreadyExists{Ident: n.Ident}
		}
		return typedast.Declaration{Ident: n.Ident, Value: typedFD, IsMutable: n.IsMutable}, nil
	}

	var hint *types.Type
	if n.TypeAnnotation != nil {
		t, err := a.resolveProto(n.TypeAnnotation)
		if err != nil {
			return nil, err
		}
		hint = &t
	}

	value, err := a.analyzeExpr(n.Value, hint)
	if err != nil {
		return nil, err
	}

	valType := value.Ty()
	if hint != nil && !valType.Equal(*hint) {
		return nil, AssignWrongType{Expected: *hint, Received: valType}
	}
	if valType.Kind == types.Void {
		return nil, AssignVoid{}
	}
	if err := a.values.Insert(n.Ident, n.IsMutable, valType); err != nil {
		return nil, ScopeBindingAlreadyExists{Ident: n.Ident}
	}
	return typedast.Declaration{Ident: n.Ident, Value: value, IsMutable: n.IsMutable}, nil
}

func (a *Analyzer) analyzeAssignment(n ast.Assignment) (typedast.Expr, error) {
	entry, err := a.values.Lookup(n.Ident)
	if err != nil {
		return nil, ScopeBindingNotFound{Ident: n.Ident}
	}
	if !entry.IsMutable {
		return nil, AssignImmutable{Ident: n.Ident}
	}

	value, err := a.analyzeExpr(n.Value, &entry.Value)
	if err != nil {
		return nil, err
	}
	if !value.Ty().Equal(entry.Value) {
		return nil, AssignWrongType{Expected: entry.Value, Received: value.Ty()}
	}
	if err := a.values.Mutate(n.Ident, value.Ty()); err != nil {
		return nil, ScopeBindingNotFound{Ident: n.Ident}
	}
	return typedast.Assignment{Ident: n.Ident, Value: value}, nil
}

// analyzeFuncDeclare resolves a function's signature and type-checks its
// body. selfName, when non-empty, is bound immutably inside the new frame
// before the body is analyzed so direct recursion resolves — for a
// non-closure this is the only way the callee can ever see its own name,
// since CreateNewStack hides everything the caller could see.
func (a *Analyzer) analyzeFuncDeclare(fd ast.FuncDeclare, selfName string) (typedast.Expr, error) {
	paramTypes := make([]types.Type, len(fd.Params))
	for i, p := range fd.Params {
		t, err := a.resolveProto(p.Type)
		if err != nil {
			return nil, err
		}
		paramTypes[i] = t
	}
	retType, err := a.resolveProto(fd.ReturnType)
	if err != nil {
		return nil, err
	}
	funcType := types.Type{Kind: types.Func, Func: append(append([]types.Type{}, paramTypes...), retType)}

	if fd.IsClosure {
		a.values.PushScope()
	} else {
		a.values.CreateNewStack()
	}

	if selfName != "" {
		_ = a.values.Insert(selfName, false, funcType)
	}

	typedParams := make([]typedast.Param, len(fd.Params))
	for i, p := range fd.Params {
		_ = a.values.Insert(p.Name, false, paramTypes[i])
		typedParams[i] = typedast.Param{Name: p.Name, Type: paramTypes[i]}
	}

	body, bodyErr := a.analyzeBlock(fd.Body)

	if fd.IsClosure {
		a.values.PopScope()
	} else {
		a.values.RestorePreviousStack()
	}

	if bodyErr != nil {
		return nil, bodyErr
	}
	if !body.Ty().Equal(retType) {
		return nil, FuncWrongReturnType{Expected: retType, Received: body.Ty(), Span: fd.Body.Span}
	}

	return typedast.FuncDeclare{
		Params:     typedParams,
		ReturnType: retType,
		Body:       body,
		IsClosure:  fd.IsClosure,
		Type:       funcType,
	}, nil
}

func (a *Analyzer) analyzeFuncCall(n ast.FuncCall) (typedast.Expr, error) {
	callee, err := a.analyzeExpr(n.Call.Callee, nil)
	if err != nil {
		return nil, err
	}
	ct := callee.Ty()
	if ct.Kind != types.Func {
		return nil, InvokeNonFunc{Type: ct}
	}

	paramTypes := ct.Func[:len(ct.Func)-1]
	retType := ct.Func[len(ct.Func)-1]

	if len(n.Call.Args) != len(paramTypes) {
		return nil, InvokeWrongSignature{ParamTypes: paramTypes, ArgTypes: nil, Span: n.Span}
	}

	typedArgs := make([]typedast.Expr, len(n.Call.Args))
	argTypes := make([]types.Type, len(n.Call.Args))
	for i, arg := range n.Call.Args {
		ta, err := a.analyzeExpr(arg, &paramTypes[i])
		if err != nil {
			return nil, err
		}
		typedArgs[i] = ta
		argTypes[i] = ta.Ty()
		if !types.ArgMatches(paramTypes[i], ta.Ty()) {
			return nil, InvokeWrongSignature{ParamTypes: paramTypes, ArgTypes: argTypes, Span: n.Span}
		}
	}

	return typedast.FuncCall{Callee: callee, Args: typedArgs, Span: n.Span, Type: retType}, nil
}

func (a *Analyzer) analyzeIf(n ast.If) (typedast.Expr, error) {
	cond, err := a.analyzeExpr(n.Condition, nil)
	if err != nil {
		return nil, err
	}
	if cond.Ty().Kind != types.Bool {
		return nil, IfElseConditionNonBool{Type: cond.Ty()}
	}
	then, err := a.analyzeBlock(n.Then)
	if err != nil {
		return nil, err
	}
	return typedast.If{Condition: cond, Then: then, Type: then.Ty()}, nil
}

func (a *Analyzer) analyzeIfElse(n ast.IfElse) (typedast.Expr, error) {
	cond, err := a.analyzeExpr(n.Condition, nil)
	if err != nil {
		return nil, err
	}
	if cond.Ty().Kind != types.Bool {
		return nil, IfElseConditionNonBool{Type: cond.Ty()}
	}
	then, err := a.analyzeBlock(n.Then)
	if err != nil {
		return nil, err
	}
	elseExpr, err := a.analyzeExpr(n.Else, nil)
	if err != nil {
		return nil, err
	}
	if !then.Ty().Equal(elseExpr.Ty()) {
		return nil, IfElseBlockTypeMismatch{A: then.Ty(), B: elseExpr.Ty()}
	}
	return typedast.IfElse{Condition: cond, Then: then, Else: elseExpr, Type: then.Ty()}, nil
}

func (a *Analyzer) analyzeLoop(n ast.Loop) (typedast.Expr, error) {
	body, err := a.analyzeBlock(n.Body)
	if err != nil {
		return nil, err
	}
	return typedast.Loop{Body: body, Type: body.Ty()}, nil
}

func (a *Analyzer) analyzeList(n ast.List, hint *types.Type) (typedast.Expr, error) {
	var elemHint *types.Type
	if hint != nil && hint.Kind == types.List {
		elemHint = hint.Elem
	}

	if len(n.Elements) == 0 {
		if elemHint == nil {
			return nil, AmbiguousListType{}
		}
		return typedast.List{Elements: nil, Type: types.Type{Kind: types.List, Elem: elemHint}}, nil
	}

	typedElems := make([]typedast.Expr, len(n.Elements))
	for i, el := range n.Elements {
		te, err := a.analyzeExpr(el, nil)
		if err != nil {
			return nil, err
		}
		typedElems[i] = te
	}
	elemType := typedElems[0].Ty()
	return typedast.List{Elements: typedElems, Type: types.Type{Kind: types.List, Elem: &elemType}}, nil
}

// analyzeBlock pushes a nested scope, analyzes each statement in order, and
// pops the scope. The block's type is the type of the first non-Void
// statement; if every statement is Void (or the block is empty) the block
// is Void.
func (a *Analyzer) analyzeBlock(b *ast.Block) (*typedast.Block, error) {
	a.values.PushScope()
	defer a.values.PopScope()

	typedStmts := make([]typedast.Stmt, len(b.Stmts))
	blockType := types.Type{Kind: types.Void}
	found := false
	for i, stmt := range b.Stmts {
		te, err := a.analyzeExpr(stmt.Expr, nil)
		if err != nil {
			return nil, err
		}
		typedStmts[i] = typedast.Stmt{Expr: te}
		if !found && te.Ty().Kind != types.Void {
			blockType = te.Ty()
			found = true
		}
	}

	return &typedast.Block{
		Kind:  typedast.BlockInterpreted,
		Stmts: typedStmts,
		Span:  b.Span,
		Type:  blockType,
	}, nil
}
