package eval

import (
	"github.com/avon-lang/avon/internal/ast"
	avonerrors "github.com/avon-lang/avon/internal/errors"
	"github.com/avon-lang/avon/internal/lexer"
)

func evalApp(e *ast.App, env *Environment, ctx *Context) (Value, *EvalError) {
	fnVal, err := EvalCtx(e.Fn, env, ctx)
	if err != nil {
		return nil, err
	}
	fn, ok := fnVal.(*FunctionValue)
	if !ok {
		return nil, newErr(avonerrors.NotCallable, e.Pos(), "cannot call a value of type %s", fnVal.Type())
	}
	argVal, err := EvalCtx(e.Arg, env, ctx)
	if err != nil {
		return nil, err
	}
	return Apply(fn, argVal, ctx, e.Pos())
}

// Apply applies fn to a single argument. For a user closure this binds the
// argument in the closure's captured environment and evaluates the body.
// For a builtin, the argument is accumulated until Arity is reached
// (currying), at which point Native is invoked with the full list.
func Apply(fn *FunctionValue, arg Value, ctx *Context, pos lexer.Position) (Value, *EvalError) {
	if fn.isBuiltin() {
		applied := append(append([]Value{}, fn.Applied...), arg)
		if len(applied) < fn.Arity {
			return &FunctionValue{Name: fn.Name, Native: fn.Native, Arity: fn.Arity, Applied: applied}, nil
		}
		return fn.Native(ctx, applied)
	}
	bodyEnv := fn.Env.Extend(fn.Param, arg)
	return EvalCtx(fn.Body, bodyEnv, ctx)
}
