package eval

import (
	"github.com/avon-lang/avon/internal/ast"
	avonerrors "github.com/avon-lang/avon/internal/errors"
)

func evalMatch(e *ast.Match, env *Environment, ctx *Context) (Value, *EvalError) {
	subject, err := EvalCtx(e.Subject, env, ctx)
	if err != nil {
		return nil, err
	}
	for _, arm := range e.Arms {
		bound, ok := matchPattern(arm.Pattern, subject, env)
		if ok {
			return EvalCtx(arm.Body, bound, ctx)
		}
	}
	return nil, newErr(avonerrors.MatchFailed, e.Pos(), "no arm matched value %s", subject.Display())
}

// matchPattern reports whether pattern matches value and, if so, returns
// env extended with every binding the pattern introduces.
func matchPattern(pattern ast.Pattern, value Value, env *Environment) (*Environment, bool) {
	switch p := pattern.(type) {
	case *ast.LiteralPattern:
		lit, err := EvalCtx(p.Value, env, nil)
		if err != nil {
			return env, false
		}
		if lit.Type() != value.Type() {
			return env, false
		}
		return env, valuesEqual(lit, value)
	case *ast.BindingPattern:
		if p.Name == "_" {
			return env, true
		}
		return env.Extend(p.Name, value), true
	case *ast.ListPattern:
		list, ok := value.(*ListValue)
		if !ok {
			return env, false
		}
		if p.Rest == "" && len(list.Elements) != len(p.Heads) {
			return env, false
		}
		if p.Rest != "" && len(list.Elements) < len(p.Heads) {
			return env, false
		}
		cur := env
		for i, head := range p.Heads {
			var ok2 bool
			cur, ok2 = matchPattern(head, list.Elements[i], cur)
			if !ok2 {
				return env, false
			}
		}
		if p.Rest != "" {
			cur = cur.Extend(p.Rest, &ListValue{Elements: append([]Value{}, list.Elements[len(p.Heads):]...)})
		}
		return cur, true
	case *ast.DictPattern:
		dict, ok := value.(*DictValue)
		if !ok {
			return env, false
		}
		cur := env
		for i, key := range p.Keys {
			v, present := dict.Get(key)
			if !present {
				return env, false
			}
			var ok2 bool
			cur, ok2 = matchPattern(p.Patterns[i], v, cur)
			if !ok2 {
				return env, false
			}
		}
		return cur, true
	}
	return env, false
}
