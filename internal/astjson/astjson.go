// Package astjson serializes and deserializes internal/ast's untyped Expr
// tree to and from JSON. This is the wire format a host frontend (the
// grammar/parser, which sits outside this system's scope) hands the CLI:
// spec.md §1 treats parsing as an external collaborator, so the CLI accepts
// the already-parsed tree rather than Moss source text.
package astjson

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/ntwiles/moss/internal/ast"
)

// Decode parses a JSON-encoded program into its top-level Block.
func Decode(jsonStr string) (*ast.Block, error) {
	if !gjson.Valid(jsonStr) {
		return nil, fmt.Errorf("astjson: invalid JSON")
	}
	expr, err := decodeExpr(gjson.Parse(jsonStr))
	if err != nil {
		return nil, err
	}
	block, ok := expr.(*ast.Block)
	if !ok {
		return nil, fmt.Errorf("astjson: top-level program must be a Block, got %T", expr)
	}
	return block, nil
}

// Encode renders a program as canonically key-ordered JSON.
func Encode(program *ast.Block) (string, error) {
	return encodeExpr(program)
}

func decodeExpr(r gjson.Result) (ast.Expr, error) {
	switch typ := r.Get("type").String(); typ {
	case "Literal":
		return decodeLiteral(r)
	case "Identifier":
		return ast.Identifier{Name: r.Get("name").String()}, nil
	case "Binary":
		left, err := decodeExpr(r.Get("left"))
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(r.Get("right"))
		if err != nil {
			return nil, err
		}
		op, err := binaryOpFromName(r.Get("op").String())
		if err != nil {
			return nil, err
		}
		return ast.Binary{Op: op, Left: left, Right: right}, nil
	case "Negate":
		operand, err := decodeExpr(r.Get("operand"))
		if err != nil {
			return nil, err
		}
		return ast.Negate{Operand: operand}, nil
	case "Declaration":
		var typeAnnotation ast.ProtoType
		if ta := r.Get("typeAnnotation"); ta.Exists() && ta.Type != gjson.Null {
			t, err := decodeProtoType(ta)
			if err != nil {
				return nil, err
			}
			typeAnnotation = t
		}
		value, err := decodeExpr(r.Get("value"))
		if err != nil {
			return nil, err
		}
		return ast.Declaration{
			Ident:          r.Get("ident").String(),
			TypeAnnotation: typeAnnotation,
			Value:          value,
			IsMutable:      r.Get("isMutable").Bool(),
		}, nil
	case "Assignment":
		value, err := decodeExpr(r.Get("value"))
		if err != nil {
			return nil, err
		}
		return ast.Assignment{Ident: r.Get("ident").String(), Value: value}, nil
	case "FuncCall":
		callee, err := decodeExpr(r.Get("callee"))
		if err != nil {
			return nil, err
		}
		argResults := r.Get("args").Array()
		args := make([]ast.Expr, len(argResults))
		for i, ar := range argResults {
			a, err := decodeExpr(ar)
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return ast.FuncCall{Call: ast.Call{Callee: callee, Args: args}, Span: decodeSpan(r.Get("span"))}, nil
	case "If":
		cond, err := decodeExpr(r.Get("condition"))
		if err != nil {
			return nil, err
		}
		then, err := decodeBlock(r.Get("then"))
		if err != nil {
			return nil, err
		}
		return ast.If{Condition: cond, Then: then}, nil
	case "IfElse":
		cond, err := decodeExpr(r.Get("condition"))
		if err != nil {
			return nil, err
		}
		then, err := decodeBlock(r.Get("then"))
		if err != nil {
			return nil, err
		}
		elseExpr, err := decodeExpr(r.Get("else"))
		if err != nil {
			return nil, err
		}
		return ast.IfElse{Condition: cond, Then: then, Else: elseExpr}, nil
	case "Block":
		return decodeBlock(r)
	case "Loop":
		body, err := decodeBlock(r.Get("body"))
		if err != nil {
			return nil, err
		}
		return ast.Loop{Body: body}, nil
	case "Break":
		return ast.Break{}, nil
	case "FuncDeclare":
		paramResults := r.Get("params").Array()
		params := make([]ast.Param, len(paramResults))
		for i, pr := range paramResults {
			t, err := decodeProtoType(pr.Get("type"))
			if err != nil {
				return nil, err
			}
			params[i] = ast.Param{Name: pr.Get("name").String(), Type: t}
		}
		returnType, err := decodeProtoType(r.Get("returnType"))
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(r.Get("body"))
		if err != nil {
			return nil, err
		}
		return ast.FuncDeclare{
			Params:     params,
			ReturnType: returnType,
			Body:       body,
			IsClosure:  r.Get("isClosure").Bool(),
		}, nil
	case "List":
		elemResults := r.Get("elements").Array()
		elements := make([]ast.Expr, len(elemResults))
		for i, er := range elemResults {
			e, err := decodeExpr(er)
			if err != nil {
				return nil, err
			}
			elements[i] = e
		}
		return ast.List{Elements: elements}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown node type %q", typ)
	}
}

func decodeLiteral(r gjson.Result) (ast.Expr, error) {
	switch kind := r.Get("kind").String(); kind {
	case "Int":
		return ast.Literal{Kind: ast.LiteralInt, Int: int32(r.Get("int").Int())}, nil
	case "Float":
		return ast.Literal{Kind: ast.LiteralFloat, Float: r.Get("float").Float()}, nil
	case "Str":
		return ast.Literal{Kind: ast.LiteralStr, Str: r.Get("str").String()}, nil
	case "Bool":
		return ast.Literal{Kind: ast.LiteralBool, Bool: r.Get("bool").Bool()}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown literal kind %q", kind)
	}
}

func decodeBlock(r gjson.Result) (*ast.Block, error) {
	stmtResults := r.Get("stmts").Array()
	stmts := make([]ast.Stmt, len(stmtResults))
	for i, sr := range stmtResults {
		e, err := decodeExpr(sr)
		if err != nil {
			return nil, err
		}
		stmts[i] = ast.Stmt{Expr: e}
	}
	return &ast.Block{Stmts: stmts, Span: decodeSpan(r.Get("span"))}, nil
}

func decodeSpan(r gjson.Result) ast.Span {
	return ast.Span{Start: int(r.Get("start").Int()), End: int(r.Get("end").Int())}
}

func decodeProtoType(r gjson.Result) (ast.ProtoType, error) {
	switch kind := r.Get("kind").String(); kind {
	case "atomic":
		return ast.AtomicProto{Name: r.Get("name").String()}, nil
	case "applied":
		argResults := r.Get("args").Array()
		args := make([]ast.ProtoType, len(argResults))
		for i, ar := range argResults {
			a, err := decodeProtoType(ar)
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return ast.AppliedProto{Name: r.Get("name").String(), Args: args}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown proto-type kind %q", kind)
	}
}

func binaryOpFromName(name string) (ast.BinaryOp, error) {
	switch name {
	case "Eq":
		return ast.Eq, nil
	case "Gt":
		return ast.Gt, nil
	case "Lt":
		return ast.Lt, nil
	case "Gte":
		return ast.Gte, nil
	case "Lte":
		return ast.Lte, nil
	case "Add":
		return ast.Add, nil
	case "Sub":
		return ast.Sub, nil
	case "Mult":
		return ast.Mult, nil
	case "Div":
		return ast.Div, nil
	case "Modulo":
		return ast.Modulo, nil
	default:
		return 0, fmt.Errorf("astjson: unknown binary operator %q", name)
	}
}

func binaryOpName(op ast.BinaryOp) string {
	switch op {
	case ast.Eq:
		return "Eq"
	case ast.Gt:
		return "Gt"
	case ast.Lt:
		return "Lt"
	case ast.Gte:
		return "Gte"
	case ast.Lte:
		return "Lte"
	case ast.Add:
		return "Add"
	case ast.Sub:
		return "Sub"
	case ast.Mult:
		return "Mult"
	case ast.Div:
		return "Div"
	case ast.Modulo:
		return "Modulo"
	default:
		return "?"
	}
}

func encodeExpr(e ast.Expr) (string, error) {
	switch n := e.(type) {
	case ast.Literal:
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "Literal")
		switch n.Kind {
		case ast.LiteralInt:
			obj, _ = sjson.Set(obj, "kind", "Int")
			obj, _ = sjson.Set(obj, "int", n.Int)
		case ast.LiteralFloat:
			obj, _ = sjson.Set(obj, "kind", "Float")
			obj, _ = sjson.Set(obj, "float", n.Float)
		case ast.LiteralStr:
			obj, _ = sjson.Set(obj, "kind", "Str")
			obj, _ = sjson.Set(obj, "str", n.Str)
		case ast.LiteralBool:
			obj, _ = sjson.Set(obj, "kind", "Bool")
			obj, _ = sjson.Set(obj, "bool", n.Bool)
		}
		return obj, nil

	case ast.Identifier:
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "Identifier")
		obj, _ = sjson.Set(obj, "name", n.Name)
		return obj, nil

	case ast.Binary:
		left, err := encodeExpr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := encodeExpr(n.Right)
		if err != nil {
			return "", err
		}
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "Binary")
		obj, _ = sjson.Set(obj, "op", binaryOpName(n.Op))
		obj, _ = sjson.SetRaw(obj, "left", left)
		obj, _ = sjson.SetRaw(obj, "right", right)
		return obj, nil

	case ast.Negate:
		operand, err := encodeExpr(n.Operand)
		if err != nil {
			return "", err
		}
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "Negate")
		obj, _ = sjson.SetRaw(obj, "operand", operand)
		return obj, nil

	case ast.Declaration:
		value, err := encodeExpr(n.Value)
		if err != nil {
			return "", err
		}
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "Declaration")
		obj, _ = sjson.Set(obj, "ident", n.Ident)
		if n.TypeAnnotation != nil {
			ta, err := encodeProtoType(n.TypeAnnotation)
			if err != nil {
				return "", err
			}
			obj, _ = sjson.SetRaw(obj, "typeAnnotation", ta)
		} else {
			obj, _ = sjson.SetRaw(obj, "typeAnnotation", "null")
		}
		obj, _ = sjson.SetRaw(obj, "value", value)
		obj, _ = sjson.Set(obj, "isMutable", n.IsMutable)
		return obj, nil

	case ast.Assignment:
		value, err := encodeExpr(n.Value)
		if err != nil {
			return "", err
		}
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "Assignment")
		obj, _ = sjson.Set(obj, "ident", n.Ident)
		obj, _ = sjson.SetRaw(obj, "value", value)
		return obj, nil

	case ast.FuncCall:
		callee, err := encodeExpr(n.Call.Callee)
		if err != nil {
			return "", err
		}
		args, err := encodeExprList(n.Call.Args)
		if err != nil {
			return "", err
		}
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "FuncCall")
		obj, _ = sjson.SetRaw(obj, "callee", callee)
		obj, _ = sjson.SetRaw(obj, "args", args)
		obj, _ = sjson.SetRaw(obj, "span", encodeSpan(n.Span))
		return obj, nil

	case ast.If:
		cond, err := encodeExpr(n.Condition)
		if err != nil {
			return "", err
		}
		then, err := encodeExpr(n.Then)
		if err != nil {
			return "", err
		}
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "If")
		obj, _ = sjson.SetRaw(obj, "condition", cond)
		obj, _ = sjson.SetRaw(obj, "then", then)
		return obj, nil

	case ast.IfElse:
		cond, err := encodeExpr(n.Condition)
		if err != nil {
			return "", err
		}
		then, err := encodeExpr(n.Then)
		if err != nil {
			return "", err
		}
		elseExpr, err := encodeExpr(n.Else)
		if err != nil {
			return "", err
		}
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "IfElse")
		obj, _ = sjson.SetRaw(obj, "condition", cond)
		obj, _ = sjson.SetRaw(obj, "then", then)
		obj, _ = sjson.SetRaw(obj, "else", elseExpr)
		return obj, nil

	case *ast.Block:
		stmts := make([]string, len(n.Stmts))
		for i, s := range n.Stmts {
			v, err := encodeExpr(s.Expr)
			if err != nil {
				return "", err
			}
			stmts[i] = v
		}
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "Block")
		obj, _ = sjson.SetRaw(obj, "stmts", "["+strings.Join(stmts, ",")+"]")
		obj, _ = sjson.SetRaw(obj, "span", encodeSpan(n.Span))
		return obj, nil

	case ast.Block:
		b := n
		return encodeExpr(&b)

	case ast.Loop:
		body, err := encodeExpr(n.Body)
		if err != nil {
			return "", err
		}
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "Loop")
		obj, _ = sjson.SetRaw(obj, "body", body)
		return obj, nil

	case ast.Break:
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "Break")
		return obj, nil

	case ast.FuncDeclare:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			t, err := encodeProtoType(p.Type)
			if err != nil {
				return "", err
			}
			po := "{}"
			po, _ = sjson.Set(po, "name", p.Name)
			po, _ = sjson.SetRaw(po, "type", t)
			params[i] = po
		}
		returnType, err := encodeProtoType(n.ReturnType)
		if err != nil {
			return "", err
		}
		body, err := encodeExpr(n.Body)
		if err != nil {
			return "", err
		}
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "FuncDeclare")
		obj, _ = sjson.SetRaw(obj, "params", "["+strings.Join(params, ",")+"]")
		obj, _ = sjson.SetRaw(obj, "returnType", returnType)
		obj, _ = sjson.SetRaw(obj, "body", body)
		obj, _ = sjson.Set(obj, "isClosure", n.IsClosure)
		return obj, nil

	case ast.List:
		elements, err := encodeExprList(n.Elements)
		if err != nil {
			return "", err
		}
		obj := "{}"
		obj, _ = sjson.Set(obj, "type", "List")
		obj, _ = sjson.SetRaw(obj, "elements", elements)
		return obj, nil

	default:
		return "", fmt.Errorf("astjson: unhandled expression node %T", e)
	}
}

func encodeExprList(exprs []ast.Expr) (string, error) {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		v, err := encodeExpr(e)
		if err != nil {
			return "", err
		}
		parts[i] = v
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}

func encodeSpan(s ast.Span) string {
	obj := "{}"
	obj, _ = sjson.Set(obj, "start", s.Start)
	obj, _ = sjson.Set(obj, "end", s.End)
	return obj
}

func encodeProtoType(p ast.ProtoType) (string, error) {
	switch t := p.(type) {
	case ast.AtomicProto:
		obj := "{}"
		obj, _ = sjson.Set(obj, "kind", "atomic")
		obj, _ = sjson.Set(obj, "name", t.Name)
		return obj, nil
	case ast.AppliedProto:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			v, err := encodeProtoType(a)
			if err != nil {
				return "", err
			}
			args[i] = v
		}
		obj := "{}"
		obj, _ = sjson.Set(obj, "kind", "applied")
		obj, _ = sjson.Set(obj, "name", t.Name)
		obj, _ = sjson.SetRaw(obj, "args", "["+strings.Join(args, ",")+"]")
		return obj, nil
	default:
		return "", fmt.Errorf("astjson: unhandled proto-type node %T", p)
	}
}
