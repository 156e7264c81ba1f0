package builtins

import (
	avonerrors "github.com/avon-lang/avon/internal/errors"
	"github.com/avon-lang/avon/internal/eval"
	"github.com/avon-lang/avon/internal/lexer"
)

// zeroPos is used for errors raised inside a built-in's own body: by the
// time Apply invokes a Native function the call site's Position is no
// longer threaded through (spec.md §4.4 validates type and arity before
// effect, but the diagnostic format's line:col is necessarily the caller's,
// which built-ins don't have direct access to).
var zeroPos = lexer.Position{}

func typeErr(fnName, expected string, got eval.Value) *eval.EvalError {
	return avonerrors.New(avonerrors.TypeMismatch, zeroPos, "%s: expected %s, found %s", fnName, expected, got.Type())
}

func asNumber(fnName string, v eval.Value) (*eval.NumberValue, *eval.EvalError) {
	n, ok := v.(*eval.NumberValue)
	if !ok {
		return nil, typeErr(fnName, "Number", v)
	}
	return n, nil
}

func asString(fnName string, v eval.Value) (*eval.StringValue, *eval.EvalError) {
	s, ok := v.(*eval.StringValue)
	if !ok {
		return nil, typeErr(fnName, "String", v)
	}
	return s, nil
}

func asBool(fnName string, v eval.Value) (*eval.BoolValue, *eval.EvalError) {
	b, ok := v.(*eval.BoolValue)
	if !ok {
		return nil, typeErr(fnName, "Boolean", v)
	}
	return b, nil
}

func asList(fnName string, v eval.Value) (*eval.ListValue, *eval.EvalError) {
	l, ok := v.(*eval.ListValue)
	if !ok {
		return nil, typeErr(fnName, "List", v)
	}
	return l, nil
}

func asDict(fnName string, v eval.Value) (*eval.DictValue, *eval.EvalError) {
	d, ok := v.(*eval.DictValue)
	if !ok {
		return nil, typeErr(fnName, "Dict", v)
	}
	return d, nil
}

func asFunction(fnName string, v eval.Value) (*eval.FunctionValue, *eval.EvalError) {
	f, ok := v.(*eval.FunctionValue)
	if !ok {
		return nil, typeErr(fnName, "Function", v)
	}
	return f, nil
}

func asPath(fnName string, v eval.Value) (*eval.PathValue, *eval.EvalError) {
	p, ok := v.(*eval.PathValue)
	if !ok {
		return nil, typeErr(fnName, "Path", v)
	}
	return p, nil
}

// asPathString accepts either a Path or String value, since several
// path-guarded I/O built-ins (spec.md §4.4) take either.
func asPathString(fnName string, v eval.Value) (string, *eval.EvalError) {
	switch t := v.(type) {
	case *eval.PathValue:
		return t.Display(), nil
	case *eval.StringValue:
		return t.Value, nil
	}
	return "", typeErr(fnName, "Path or String", v)
}

func ioErr(format string, args ...any) *eval.EvalError {
	return avonerrors.New(avonerrors.IoError, zeroPos, format, args...)
}

func syntaxErr(format string, args ...any) *eval.EvalError {
	return avonerrors.New(avonerrors.SyntaxError, zeroPos, format, args...)
}

func assertionErr(format string, args ...any) *eval.EvalError {
	return avonerrors.New(avonerrors.AssertionFailed, zeroPos, format, args...)
}

func avonMissingField(fnName string, keys []string, requested string) *eval.EvalError {
	return avonerrors.New(avonerrors.MissingField, zeroPos, "%s: dict has no field %q (keys: %v)", fnName, requested, keys)
}
