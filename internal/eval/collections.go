package eval

import (
	"math/big"

	"github.com/avon-lang/avon/internal/ast"
	avonerrors "github.com/avon-lang/avon/internal/errors"
)

func evalListLit(e *ast.ListLit, env *Environment, ctx *Context) (Value, *EvalError) {
	elems := make([]Value, 0, len(e.Elements))
	for _, el := range e.Elements {
		v, err := EvalCtx(el, env, ctx)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return &ListValue{Elements: elems}, nil
}

func evalRangeLit(e *ast.RangeLit, env *Environment, ctx *Context) (Value, *EvalError) {
	fromV, err := EvalCtx(e.From, env, ctx)
	if err != nil {
		return nil, err
	}
	toV, err := EvalCtx(e.To, env, ctx)
	if err != nil {
		return nil, err
	}
	from, ok := fromV.(*NumberValue)
	if !ok || !from.IsInt {
		return nil, newErr(avonerrors.TypeMismatch, e.From.Pos(), "range bound: expected Integer, found %s", fromV.Type())
	}
	to, ok := toV.(*NumberValue)
	if !ok || !to.IsInt {
		return nil, newErr(avonerrors.TypeMismatch, e.To.Pos(), "range bound: expected Integer, found %s", toV.Type())
	}

	var elems []Value
	one := big.NewInt(1)
	for i := new(big.Int).Set(from.Int); i.Cmp(to.Int) <= 0; i.Add(i, one) {
		elems = append(elems, IntBig(new(big.Int).Set(i)))
	}
	return &ListValue{Elements: elems}, nil
}

func evalDictLit(e *ast.DictLit, env *Environment, ctx *Context) (Value, *EvalError) {
	d := NewDict()
	for i, key := range e.Keys {
		v, err := EvalCtx(e.Values[i], env, ctx)
		if err != nil {
			return nil, err
		}
		d.Set(key, v)
	}
	return d, nil
}

func evalFieldAccess(e *ast.FieldAccess, env *Environment, ctx *Context) (Value, *EvalError) {
	target, err := EvalCtx(e.Target, env, ctx)
	if err != nil {
		return nil, err
	}
	dict, ok := target.(*DictValue)
	if !ok {
		return nil, newErr(avonerrors.TypeMismatch, e.Pos(), "field access on non-Dict value of type %s", target.Type())
	}
	v, present := dict.Get(e.Field)
	if !present {
		return nil, newErr(avonerrors.MissingField, e.Pos(), "dict has no field %q (keys: %v)", e.Field, dict.Keys)
	}
	return v, nil
}

func evalIndex(e *ast.Index, env *Environment, ctx *Context) (Value, *EvalError) {
	target, err := EvalCtx(e.Target, env, ctx)
	if err != nil {
		return nil, err
	}
	idxV, err := EvalCtx(e.Index, env, ctx)
	if err != nil {
		return nil, err
	}

	switch t := target.(type) {
	case *ListValue:
		n, ok := idxV.(*NumberValue)
		if !ok || !n.IsInt {
			return nil, newErr(avonerrors.TypeMismatch, e.Index.Pos(), "list index: expected Integer, found %s", idxV.Type())
		}
		i := n.Int.Int64()
		if i < 0 || i >= int64(len(t.Elements)) {
			return nil, newErr(avonerrors.IndexOutOfRange, e.Pos(), "index %d out of range for list of length %d", i, len(t.Elements))
		}
		return t.Elements[i], nil
	case *DictValue:
		s, ok := idxV.(*StringValue)
		if !ok {
			return nil, newErr(avonerrors.TypeMismatch, e.Index.Pos(), "dict index: expected String, found %s", idxV.Type())
		}
		v, present := t.Get(s.Value)
		if !present {
			return nil, newErr(avonerrors.MissingField, e.Pos(), "dict has no field %q (keys: %v)", s.Value, t.Keys)
		}
		return v, nil
	}
	return nil, newErr(avonerrors.TypeMismatch, e.Pos(), "cannot index a value of type %s", target.Type())
}
