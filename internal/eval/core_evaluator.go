package eval

import (
	"github.com/avon-lang/avon/internal/ast"
	avonerrors "github.com/avon-lang/avon/internal/errors"
)

// Eval is the public tree-walking entry point, using a default Context
// (stderr diagnostics, cwd-relative I/O). Embedders that need a custom
// Context (captured trace output, a sandboxed base directory) should use
// EvalCtx instead.
func Eval(expr ast.Expr, env *Environment) (Value, *EvalError) {
	return EvalCtx(expr, env, NewContext())
}

// EvalCtx evaluates expr in env, threading ctx through every builtin call
// it reaches. eval is pure with respect to everything except the
// path-validated I/O primitives ctx's builtins invoke (spec.md §2).
func EvalCtx(expr ast.Expr, env *Environment, ctx *Context) (Value, *EvalError) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		if e.IsInt {
			return IntBig(e.IntVal), nil
		}
		return Float(e.FloatVal), nil
	case *ast.StringLit:
		return Str(e.Value), nil
	case *ast.BoolLit:
		return Bool(e.Value), nil
	case *ast.NoneLit:
		return None, nil
	case *ast.Ident:
		v, ok := env.Lookup(e.Name)
		if !ok {
			return nil, newErr(avonerrors.UnboundName, e.Pos(), "unbound name %q", e.Name)
		}
		return v, nil
	case *ast.Let:
		return evalLet(e, env, ctx)
	case *ast.Lambda:
		return &FunctionValue{Param: e.Param, Body: e.Body, Env: env}, nil
	case *ast.App:
		return evalApp(e, env, ctx)
	case *ast.BinaryOp:
		return evalBinaryOp(e, env, ctx)
	case *ast.UnaryOp:
		return evalUnaryOp(e, env, ctx)
	case *ast.If:
		return evalIf(e, env, ctx)
	case *ast.Match:
		return evalMatch(e, env, ctx)
	case *ast.ListLit:
		return evalListLit(e, env, ctx)
	case *ast.RangeLit:
		return evalRangeLit(e, env, ctx)
	case *ast.DictLit:
		return evalDictLit(e, env, ctx)
	case *ast.PathLit:
		return &PathValue{Segments: e.Segments}, nil
	case *ast.TemplateLit:
		return &TemplateValue{Chunks: e.Chunks, Env: env}, nil
	case *ast.FieldAccess:
		return evalFieldAccess(e, env, ctx)
	case *ast.Index:
		return evalIndex(e, env, ctx)
	}
	return nil, newErr(avonerrors.SyntaxError, expr.Pos(), "cannot evaluate expression of type %T", expr)
}

func evalLet(e *ast.Let, env *Environment, ctx *Context) (Value, *EvalError) {
	// e.Name is deliberately not in scope while evaluating e.Value: Avon
	// has no letrec (spec.md §9).
	v, err := EvalCtx(e.Value, env, ctx)
	if err != nil {
		return nil, err
	}
	return EvalCtx(e.Body, env.Extend(e.Name, v), ctx)
}

func evalIf(e *ast.If, env *Environment, ctx *Context) (Value, *EvalError) {
	cond, err := EvalCtx(e.Cond, env, ctx)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(*BoolValue)
	if !ok {
		return nil, newErr(avonerrors.TypeMismatch, e.Cond.Pos(), "if condition: expected Boolean, found %s", cond.Type())
	}
	if b.Value {
		return EvalCtx(e.Then, env, ctx)
	}
	return EvalCtx(e.Else, env, ctx)
}
