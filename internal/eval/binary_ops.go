package eval

import (
	"math"
	"math/big"
	"strings"

	"github.com/avon-lang/avon/internal/ast"
	avonerrors "github.com/avon-lang/avon/internal/errors"
)

func evalBinaryOp(e *ast.BinaryOp, env *Environment, ctx *Context) (Value, *EvalError) {
	// && and || short-circuit: the right operand is only evaluated when it
	// can affect the result (spec.md invariant 3).
	switch e.Op {
	case "&&":
		left, err := EvalCtx(e.Left, env, ctx)
		if err != nil {
			return nil, err
		}
		lb, ok := left.(*BoolValue)
		if !ok {
			return nil, typeMismatch(e, "&&", "Boolean", left.Type())
		}
		if !lb.Value {
			return Bool(false), nil
		}
		right, err := EvalCtx(e.Right, env, ctx)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(*BoolValue)
		if !ok {
			return nil, typeMismatch(e, "&&", "Boolean", right.Type())
		}
		return Bool(rb.Value), nil
	case "||":
		left, err := EvalCtx(e.Left, env, ctx)
		if err != nil {
			return nil, err
		}
		lb, ok := left.(*BoolValue)
		if !ok {
			return nil, typeMismatch(e, "||", "Boolean", left.Type())
		}
		if lb.Value {
			return Bool(true), nil
		}
		right, err := EvalCtx(e.Right, env, ctx)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(*BoolValue)
		if !ok {
			return nil, typeMismatch(e, "||", "Boolean", right.Type())
		}
		return Bool(rb.Value), nil
	}

	left, err := EvalCtx(e.Left, env, ctx)
	if err != nil {
		return nil, err
	}
	right, err := EvalCtx(e.Right, env, ctx)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "+":
		return evalAdd(e, left, right)
	case "-", "*", "/", "%":
		return evalArith(e, left, right)
	case "==", "!=":
		return evalEquality(e, left, right)
	case "<", "<=", ">", ">=":
		return evalCompare(e, left, right)
	}
	return nil, newErr(avonerrors.SyntaxError, e.Pos(), "unknown operator %q", e.Op)
}

func typeMismatch(pos ast.Expr, op, expected, found string) *EvalError {
	return newErr(avonerrors.TypeMismatch, pos.Pos(), "operator %q: expected %s, found %s", op, expected, found)
}

func evalAdd(e *ast.BinaryOp, left, right Value) (Value, *EvalError) {
	switch l := left.(type) {
	case *NumberValue:
		r, ok := right.(*NumberValue)
		if !ok {
			return nil, typeMismatch(e, "+", "Number", right.Type())
		}
		return numAdd(l, r), nil
	case *StringValue:
		r, ok := right.(*StringValue)
		if !ok {
			return nil, typeMismatch(e, "+", "String", right.Type())
		}
		return Str(l.Value + r.Value), nil
	case *ListValue:
		r, ok := right.(*ListValue)
		if !ok {
			return nil, typeMismatch(e, "+", "List", right.Type())
		}
		out := make([]Value, 0, len(l.Elements)+len(r.Elements))
		out = append(out, l.Elements...)
		out = append(out, r.Elements...)
		return &ListValue{Elements: out}, nil
	case *PathValue:
		switch r := right.(type) {
		case *PathValue:
			segs := append(append([]string{}, l.Segments...), r.Segments...)
			return &PathValue{Segments: segs}, nil
		case *StringValue:
			segs := strings.Split(r.Value, "/")
			for _, s := range segs {
				if s == "" || s == ".." {
					return nil, newErr(avonerrors.PathTraversal, e.Pos(), "cannot append string %q to Path: invalid component", r.Value)
				}
			}
			out := append(append([]string{}, l.Segments...), segs...)
			return &PathValue{Segments: out}, nil
		}
		return nil, typeMismatch(e, "+", "Path or String", right.Type())
	}
	return nil, newErr(avonerrors.TypeMismatch, e.Pos(), "operator \"+\": unsupported operand type %s", left.Type())
}

func numAdd(l, r *NumberValue) *NumberValue {
	if l.IsInt && r.IsInt {
		return IntBig(new(big.Int).Add(l.Int, r.Int))
	}
	return Float(l.AsFloat() + r.AsFloat())
}

func evalArith(e *ast.BinaryOp, left, right Value) (Value, *EvalError) {
	l, ok := left.(*NumberValue)
	if !ok {
		return nil, typeMismatch(e, e.Op, "Number", left.Type())
	}
	r, ok := right.(*NumberValue)
	if !ok {
		return nil, typeMismatch(e, e.Op, "Number", right.Type())
	}

	bothInt := l.IsInt && r.IsInt

	switch e.Op {
	case "-":
		if bothInt {
			return IntBig(new(big.Int).Sub(l.Int, r.Int)), nil
		}
		return Float(l.AsFloat() - r.AsFloat()), nil
	case "*":
		if bothInt {
			return IntBig(new(big.Int).Mul(l.Int, r.Int)), nil
		}
		return Float(l.AsFloat() * r.AsFloat()), nil
	case "/":
		if bothInt {
			if r.Int.Sign() == 0 {
				return nil, newErr(avonerrors.DivisionByZero, e.Pos(), "integer division by zero")
			}
			q := new(big.Int)
			m := new(big.Int)
			q.QuoRem(l.Int, r.Int, m)
			return IntBig(q), nil
		}
		if r.AsFloat() == 0 {
			return nil, newErr(avonerrors.DivisionByZero, e.Pos(), "float division by zero")
		}
		return Float(l.AsFloat() / r.AsFloat()), nil
	case "%":
		if bothInt {
			if r.Int.Sign() == 0 {
				return nil, newErr(avonerrors.DivisionByZero, e.Pos(), "integer modulo by zero")
			}
			m := new(big.Int).Mod(l.Int, r.Int)
			return IntBig(m), nil
		}
		return Float(math.Mod(l.AsFloat(), r.AsFloat())), nil
	}
	return nil, newErr(avonerrors.SyntaxError, e.Pos(), "unknown arithmetic operator %q", e.Op)
}

func evalEquality(e *ast.BinaryOp, left, right Value) (Value, *EvalError) {
	if left.Type() != right.Type() {
		return nil, newErr(avonerrors.TypeMismatch, e.Pos(), "operator %q: cannot compare %s with %s", e.Op, left.Type(), right.Type())
	}
	eq := valuesEqual(left, right)
	if e.Op == "!=" {
		eq = !eq
	}
	return Bool(eq), nil
}

func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case *NumberValue:
		bv := b.(*NumberValue)
		if av.IsInt && bv.IsInt {
			return av.Int.Cmp(bv.Int) == 0
		}
		return av.AsFloat() == bv.AsFloat()
	case *StringValue:
		return av.Value == b.(*StringValue).Value
	case *BoolValue:
		return av.Value == b.(*BoolValue).Value
	case *NoneValue:
		return true
	case *PathValue:
		bv := b.(*PathValue)
		if len(av.Segments) != len(bv.Segments) {
			return false
		}
		for i := range av.Segments {
			if av.Segments[i] != bv.Segments[i] {
				return false
			}
		}
		return true
	case *ListValue:
		bv := b.(*ListValue)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if av.Elements[i].Type() != bv.Elements[i].Type() || !valuesEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *DictValue:
		bv := b.(*DictValue)
		if len(av.Keys) != len(bv.Keys) {
			return false
		}
		for _, k := range av.Keys {
			bval, ok := bv.Get(k)
			if !ok {
				return false
			}
			aval, _ := av.Get(k)
			if aval.Type() != bval.Type() || !valuesEqual(aval, bval) {
				return false
			}
		}
		return true
	}
	return a == b
}

func evalCompare(e *ast.BinaryOp, left, right Value) (Value, *EvalError) {
	switch l := left.(type) {
	case *NumberValue:
		r, ok := right.(*NumberValue)
		if !ok {
			return nil, typeMismatch(e, e.Op, "Number", right.Type())
		}
		var cmp int
		if l.IsInt && r.IsInt {
			cmp = l.Int.Cmp(r.Int)
		} else {
			lf, rf := l.AsFloat(), r.AsFloat()
			switch {
			case lf < rf:
				cmp = -1
			case lf > rf:
				cmp = 1
			default:
				cmp = 0
			}
		}
		return Bool(compareResult(e.Op, cmp)), nil
	case *StringValue:
		r, ok := right.(*StringValue)
		if !ok {
			return nil, typeMismatch(e, e.Op, "String", right.Type())
		}
		return Bool(compareResult(e.Op, strings.Compare(l.Value, r.Value))), nil
	}
	return nil, newErr(avonerrors.TypeMismatch, e.Pos(), "operator %q: unsupported operand type %s", e.Op, left.Type())
}

func compareResult(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

func evalUnaryOp(e *ast.UnaryOp, env *Environment, ctx *Context) (Value, *EvalError) {
	v, err := EvalCtx(e.Expr, env, ctx)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "!":
		b, ok := v.(*BoolValue)
		if !ok {
			return nil, newErr(avonerrors.TypeMismatch, e.Pos(), "operator \"!\": expected Boolean, found %s", v.Type())
		}
		return Bool(!b.Value), nil
	case "-":
		n, ok := v.(*NumberValue)
		if !ok {
			return nil, newErr(avonerrors.TypeMismatch, e.Pos(), "unary \"-\": expected Number, found %s", v.Type())
		}
		if n.IsInt {
			return IntBig(new(big.Int).Neg(n.Int)), nil
		}
		return Float(-n.Float), nil
	}
	return nil, newErr(avonerrors.SyntaxError, e.Pos(), "unknown unary operator %q", e.Op)
}
