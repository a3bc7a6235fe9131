// Package interp implements the iterative tree-walking evaluator described
// in spec.md §4.5: a single flat loop dispatching on an explicit
// ControlStack, never recursing into the host call stack regardless of
// program nesting depth.
package interp

import (
	"fmt"
	"math"

	"github.com/ntwiles/moss/internal/ast"
	"github.com/ntwiles/moss/internal/builtins"
	"github.com/ntwiles/moss/internal/builtins/id"
	"github.com/ntwiles/moss/internal/runtime"
	"github.com/ntwiles/moss/internal/state"
	"github.com/ntwiles/moss/internal/typedast"
)

// Interpreter holds the host-provided builtin runtime table; everything
// else a run needs lives in the per-run state.ExecState.
type Interpreter struct {
	runtimeTable map[id.BuiltinID]builtins.RuntimeFunc
}

func NewInterpreter(runtimeTable map[id.BuiltinID]builtins.RuntimeFunc) *Interpreter {
	return &Interpreter{runtimeTable: runtimeTable}
}

// Run evaluates a typed program to completion, returning the top of the
// value stack when the control stack empties.
func (it *Interpreter) Run(program *typedast.Block, valueBindings []builtins.ValueBinding, io *state.IoContext) (runtime.Value, error) {
	st := state.NewExecState(io)

	for _, vb := range valueBindings {
		fnVal := runtime.Value{Kind: runtime.VFunc, Func: &runtime.Func{
			Params:     vb.Decl.Params,
			ReturnType: vb.Decl.ReturnType,
			Body:       vb.Decl.Body,
			IsClosure:  vb.Decl.IsClosure,
		}}
		_ = st.Scopes.Insert(vb.Name, false, fnVal)
	}

	st.Control.Push(state.Op{Kind: state.EvalBlock, Expr: program})

	for st.Control.Len() > 0 {
		op, _ := st.Control.Pop()
		signal, err := it.dispatch(op, st)
		if err != nil {
			return runtime.Value{}, err
		}
		switch signal {
		case state.Break:
			st.Control.UnwindTo(state.MarkLoopStart)
		case state.Return:
			st.Control.UnwindTo(state.MarkBlockStart)
		}
	}

	if st.Values.Len() == 0 {
		return runtime.Value{Kind: runtime.VVoid}, nil
	}
	return st.Values.Peek(), nil
}

func (it *Interpreter) dispatch(op state.Op, st *state.ExecState) (state.Signal, error) {
	switch op.Kind {
	case state.EvalBlock:
		return it.evalBlock(op.Expr, st)
	case state.EvalStmt:
		st.Control.Push(state.Op{Kind: state.ApplyStmt})
		st.Control.Push(state.Op{Kind: state.EvalExpr, Expr: op.Stmt.Expr})
		return state.Continue, nil
	case state.EvalExpr:
		return it.evalExpr(op.Expr, st)
	case state.ApplyStmt:
		if st.Values.Peek().Kind == runtime.VVoid {
			return state.Continue, nil
		}
		return state.Return, nil

	case state.ApplyAdd, state.ApplySub, state.ApplyMult, state.ApplyDiv, state.ApplyModulo:
		return it.applyArith(op.Kind, st)
	case state.ApplyEq, state.ApplyGt, state.ApplyLt, state.ApplyGte, state.ApplyLte:
		return it.applyCompare(op.Kind, st)
	case state.ApplyNegate:
		return it.applyNegate(st)

	case state.ApplyAssignment:
		v := st.Values.Pop()
		if err := st.Scopes.Mutate(op.Ident, v); err != nil {
			return 0, runtime.NewError(runtime.ErrScopeLookup, "undeclared identifier %q", op.Ident)
		}
		st.Values.Push(runtime.Value{Kind: runtime.VVoid})
		return state.Continue, nil

	case state.ApplyDeclaration:
		v := st.Values.Pop()
		_ = st.Scopes.Insert(op.Ident, op.IsMut, v)
		st.Values.Push(runtime.Value{Kind: runtime.VVoid})
		return state.Continue, nil

	case state.ApplyFuncCall:
		return it.applyFuncCall(op.Args, st)

	case state.ApplyBinding:
		v := st.Values.Pop()
		_ = st.Scopes.Insert(op.Ident, false, v)
		return state.Continue, nil

	case state.PushScope:
		if op.CreateN {
			st.Scopes.CreateNewStack()
		} else {
			st.Scopes.PushScope()
		}
		return state.Continue, nil

	case state.PopScope:
		if op.RestoreP {
			st.Scopes.RestorePreviousStack()
		} else {
			st.Scopes.PopScope()
		}
		return state.Continue, nil

	case state.ApplyIf:
		cond := st.Values.Pop()
		if cond.Bool {
			st.Control.Push(state.Op{Kind: state.EvalBlock, Expr: op.Then})
		}
		return state.Continue, nil

	case state.ApplyIfElse:
		cond := st.Values.Pop()
		if cond.Bool {
			st.Control.Push(state.Op{Kind: state.EvalBlock, Expr: op.Then})
			return state.Continue, nil
		}
		switch e := op.Else.(type) {
		case *typedast.Block:
			st.Control.Push(state.Op{Kind: state.EvalBlock, Expr: e})
		case typedast.IfElse:
			st.Control.Push(state.Op{Kind: state.ApplyIfElse, Then: e.Then, Else: e.Else})
			st.Control.Push(state.Op{Kind: state.EvalExpr, Expr: e.Condition})
		default:
			return 0, fmt.Errorf("interp: unexpected else-branch node %T", op.Else)
		}
		return state.Continue, nil

	case state.PushLoop:
		st.Control.Push(state.Op{Kind: state.PushLoop, Body: op.Body})
		st.Control.Push(state.Op{Kind: state.EvalBlock, Expr: op.Body})
		return state.Continue, nil

	case state.MarkLoopStart, state.MarkBlockStart:
		return state.Continue, nil

	case state.ApplyList:
		n := op.Size
		vals := make([]runtime.Value, n)
		for i := n - 1; i >= 0; i-- {
			vals[i] = st.Values.Pop()
		}
		st.Values.Push(runtime.Value{Kind: runtime.VList, List: vals})
		return state.Continue, nil

	default:
		return 0, fmt.Errorf("interp: unhandled control op %v", op.Kind)
	}
}

func (it *Interpreter) evalBlock(e typedast.Expr, st *state.ExecState) (state.Signal, error) {
	blk, ok := e.(*typedast.Block)
	if !ok {
		return 0, fmt.Errorf("interp: EvalBlock given non-block node %T", e)
	}

	if blk.Kind == typedast.BlockBuiltin {
		args := make([]runtime.Value, len(blk.ParamNames))
		for i, name := range blk.ParamNames {
			entry, err := st.Scopes.Lookup(name)
			if err != nil {
				return 0, runtime.NewError(runtime.ErrScopeLookup, "undeclared identifier %q", name)
			}
			args[i] = entry.Value
		}
		fn, ok := it.runtimeTable[blk.BuiltinID]
		if !ok {
			return 0, runtime.NewError(runtime.ErrOther, "no runtime implementation registered for builtin %s", blk.BuiltinID)
		}
		result, err := fn(st.Io, args)
		if err != nil {
			return 0, err
		}
		st.Values.Push(result)
		return state.Continue, nil
	}

	st.Control.Push(state.Op{Kind: state.MarkBlockStart})
	for i := len(blk.Stmts) - 1; i >= 0; i-- {
		st.Control.Push(state.Op{Kind: state.EvalStmt, Stmt: blk.Stmts[i]})
	}
	return state.Continue, nil
}

func (it *Interpreter) evalExpr(e typedast.Expr, st *state.ExecState) (state.Signal, error) {
	switch n := e.(type) {
	case typedast.Literal:
		st.Values.Push(literalValue(n))
		return state.Continue, nil

	case typedast.Identifier:
		entry, err := st.Scopes.Lookup(n.Name)
		if err != nil {
			return 0, runtime.NewError(runtime.ErrScopeLookup, "undeclared identifier %q", n.Name)
		}
		st.Values.Push(entry.Value)
		return state.Continue, nil

	case typedast.Binary:
		st.Control.Push(state.Op{Kind: binaryOpKind(n.Op)})
		st.Control.Push(state.Op{Kind: state.EvalExpr, Expr: n.Right})
		st.Control.Push(state.Op{Kind: state.EvalExpr, Expr: n.Left})
		return state.Continue, nil

	case typedast.Negate:
		st.Control.Push(state.Op{Kind: state.ApplyNegate})
		st.Control.Push(state.Op{Kind: state.EvalExpr, Expr: n.Operand})
		return state.Continue, nil

	case typedast.Declaration:
		st.Control.Push(state.Op{Kind: state.ApplyDeclaration, Ident: n.Ident, IsMut: n.IsMutable})
		st.Control.Push(state.Op{Kind: state.EvalExpr, Expr: n.Value})
		return state.Continue, nil

	case typedast.Assignment:
		st.Control.Push(state.Op{Kind: state.ApplyAssignment, Ident: n.Ident})
		st.Control.Push(state.Op{Kind: state.EvalExpr, Expr: n.Value})
		return state.Continue, nil

	case typedast.FuncCall:
		st.Control.Push(state.Op{Kind: state.ApplyFuncCall, Args: n.Args})
		st.Control.Push(state.Op{Kind: state.EvalExpr, Expr: n.Callee})
		return state.Continue, nil

	case typedast.If:
		st.Control.Push(state.Op{Kind: state.ApplyIf, Then: n.Then})
		st.Control.Push(state.Op{Kind: state.EvalExpr, Expr: n.Condition})
		return state.Continue, nil

	case typedast.IfElse:
		st.Control.Push(state.Op{Kind: state.ApplyIfElse, Then: n.Then, Else: n.Else})
		st.Control.Push(state.Op{Kind: state.EvalExpr, Expr: n.Condition})
		return state.Continue, nil

	case typedast.Loop:
		st.Control.Push(state.Op{Kind: state.MarkLoopStart})
		st.Control.Push(state.Op{Kind: state.PushLoop, Body: n.Body})
		return state.Continue, nil

	case typedast.Break:
		return state.Break, nil

	case *typedast.Block:
		st.Control.Push(state.Op{Kind: state.EvalBlock, Expr: n})
		return state.Continue, nil

	case typedast.FuncDeclare:
		st.Values.Push(runtime.Value{Kind: runtime.VFunc, Func: &runtime.Func{
			Params:     n.Params,
			ReturnType: n.ReturnType,
			Body:       n.Body,
			IsClosure:  n.IsClosure,
		}})
		return state.Continue, nil

	case typedast.List:
		st.Control.Push(state.Op{Kind: state.ApplyList, Size: len(n.Elements)})
		for i := len(n.Elements) - 1; i >= 0; i-- {
			st.Control.Push(state.Op{Kind: state.EvalExpr, Expr: n.Elements[i]})
		}
		return state.Continue, nil

	default:
		return 0, fmt.Errorf("interp: unhandled typed expression %T", e)
	}
}

func (it *Interpreter) applyFuncCall(args []typedast.Expr, st *state.ExecState) (state.Signal, error) {
	callee := st.Values.Pop()
	if callee.Kind != runtime.VFunc {
		return 0, runtime.NewError(runtime.ErrOther, "attempted to call a non-function value")
	}
	fn := callee.Func

	st.Control.Push(state.Op{Kind: state.PopScope, RestoreP: !fn.IsClosure})
	st.Control.Push(state.Op{Kind: state.EvalBlock, Expr: fn.Body})
	for i := range fn.Params {
		st.Control.Push(state.Op{Kind: state.ApplyBinding, Ident: fn.Params[i].Name})
	}
	st.Control.Push(state.Op{Kind: state.PushScope, CreateN: !fn.IsClosure})
	for i := len(args) - 1; i >= 0; i-- {
		st.Control.Push(state.Op{Kind: state.EvalExpr, Expr: args[i]})
	}
	return state.Continue, nil
}

func binaryOpKind(op ast.BinaryOp) state.OpKind {
	switch op {
	case ast.Add:
		return state.ApplyAdd
	case ast.Sub:
		return state.ApplySub
	case ast.Mult:
		return state.ApplyMult
	case ast.Div:
		return state.ApplyDiv
	case ast.Modulo:
		return state.ApplyModulo
	case ast.Eq:
		return state.ApplyEq
	case ast.Gt:
		return state.ApplyGt
	case ast.Lt:
		return state.ApplyLt
	case ast.Gte:
		return state.ApplyGte
	case ast.Lte:
		return state.ApplyLte
	default:
		return state.ApplyAdd
	}
}

func (it *Interpreter) applyArith(kind state.OpKind, st *state.ExecState) (state.Signal, error) {
	right := st.Values.Pop()
	left := st.Values.Pop()

	switch kind {
	case state.ApplyAdd:
		switch left.Kind {
		case runtime.VInt:
			st.Values.Push(runtime.Value{Kind: runtime.VInt, Int: left.Int + right.Int})
		case runtime.VFloat:
			st.Values.Push(runtime.Value{Kind: runtime.VFloat, Float: left.Float + right.Float})
		case runtime.VString:
			st.Values.Push(runtime.Value{Kind: runtime.VString, Str: left.Str + right.Str})
		default:
			return 0, runtime.NewError(runtime.ErrOther, "+ is not defined for this value kind")
		}
		return state.Continue, nil

	case state.ApplySub:
		if left.Kind == runtime.VInt {
			st.Values.Push(runtime.Value{Kind: runtime.VInt, Int: left.Int - right.Int})
		} else {
			st.Values.Push(runtime.Value{Kind: runtime.VFloat, Float: left.Float - right.Float})
		}
		return state.Continue, nil

	case state.ApplyMult:
		if left.Kind == runtime.VInt {
			st.Values.Push(runtime.Value{Kind: runtime.VInt, Int: left.Int * right.Int})
		} else {
			st.Values.Push(runtime.Value{Kind: runtime.VFloat, Float: left.Float * right.Float})
		}
		return state.Continue, nil

	case state.ApplyDiv:
		if left.Kind == runtime.VInt {
			if right.Int == 0 {
				return 0, runtime.NewError(runtime.ErrDivisionByZero, "division by zero")
			}
			st.Values.Push(runtime.Value{Kind: runtime.VInt, Int: left.Int / right.Int})
		} else {
			if right.Float == 0 {
				return 0, runtime.NewError(runtime.ErrDivisionByZero, "division by zero")
			}
			st.Values.Push(runtime.Value{Kind: runtime.VFloat, Float: left.Float / right.Float})
		}
		return state.Continue, nil

	case state.ApplyModulo:
		if left.Kind == runtime.VInt {
			if right.Int == 0 {
				return 0, runtime.NewError(runtime.ErrDivisionByZero, "modulo by zero")
			}
			st.Values.Push(runtime.Value{Kind: runtime.VInt, Int: left.Int % right.Int})
		} else {
			if right.Float == 0 {
				return 0, runtime.NewError(runtime.ErrDivisionByZero, "modulo by zero")
			}
			st.Values.Push(runtime.Value{Kind: runtime.VFloat, Float: math.Mod(left.Float, right.Float)})
		}
		return state.Continue, nil

	default:
		return 0, fmt.Errorf("interp: unreachable arithmetic op %v", kind)
	}
}

func (it *Interpreter) applyCompare(kind state.OpKind, st *state.ExecState) (state.Signal, error) {
	right := st.Values.Pop()
	left := st.Values.Pop()

	var result bool
	switch kind {
	case state.ApplyEq:
		result = valuesEqual(left, right)
	case state.ApplyGt:
		result = compareNumeric(left, right) > 0
	case state.ApplyLt:
		result = compareNumeric(left, right) < 0
	case state.ApplyGte:
		result = compareNumeric(left, right) >= 0
	case state.ApplyLte:
		result = compareNumeric(left, right) <= 0
	}
	st.Values.Push(runtime.Value{Kind: runtime.VBool, Bool: result})
	return state.Continue, nil
}

func (it *Interpreter) applyNegate(st *state.ExecState) (state.Signal, error) {
	v := st.Values.Pop()
	switch v.Kind {
	case runtime.VInt:
		st.Values.Push(runtime.Value{Kind: runtime.VInt, Int: -v.Int})
	case runtime.VFloat:
		st.Values.Push(runtime.Value{Kind: runtime.VFloat, Float: -v.Float})
	default:
		return 0, runtime.NewError(runtime.ErrOther, "negation is not defined for this value kind")
	}
	return state.Continue, nil
}

func compareNumeric(l, r runtime.Value) int {
	if l.Kind == runtime.VInt {
		switch {
		case l.Int < r.Int:
			return -1
		case l.Int > r.Int:
			return 1
		default:
			return 0
		}
	}
	switch {
	case l.Float < r.Float:
		return -1
	case l.Float > r.Float:
		return 1
	default:
		return 0
	}
}

func valuesEqual(l, r runtime.Value) bool {
	switch l.Kind {
	case runtime.VInt:
		return l.Int == r.Int
	case runtime.VFloat:
		return l.Float == r.Float
	case runtime.VString:
		return l.Str == r.Str
	case runtime.VBool:
		return l.Bool == r.Bool
	case runtime.VVoid:
		return true
	case runtime.VList:
		if len(l.List) != len(r.List) {
			return false
		}
		for i := range l.List {
			if !valuesEqual(l.List[i], r.List[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func literalValue(n typedast.Literal) runtime.Value {
	switch n.Kind {
	case ast.LiteralInt:
		return runtime.Value{Kind: runtime.VInt, Int: n.Int}
	case ast.LiteralFloat:
		return runtime.Value{Kind: runtime.VFloat, Float: n.Float}
	case ast.LiteralStr:
		return runtime.Value{Kind: runtime.VString, Str: n.Str}
	case ast.LiteralBool:
		return runtime.Value{Kind: runtime.VBool, Bool: n.Bool}
	default:
		return runtime.Value{Kind: runtime.VVoid}
	}
}
