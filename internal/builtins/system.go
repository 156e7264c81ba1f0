package builtins

import (
	"runtime"

	"github.com/avon-lang/avon/internal/eval"
)

// RegisterSystemFunctions registers the diagnostic and system built-ins
// spec.md §4.4 names: trace, debug, assert, os. file_template is this
// implementation's constructor for the FileTemplate Value (spec.md §3
// describes FileTemplate as "a record {path, content}" but gives it no
// literal syntax, so — the way go-dws exposes its native-thunk built-ins
// as ordinary callable values rather than new grammar productions — Avon
// exposes FileTemplate construction the same way, as a built-in function
// rather than new parser syntax).
func RegisterSystemFunctions(r *Registry) {
	r.Register("trace", 2, CategorySystem, "trace label v: write [TRACE] label: display(v) then return v", biTrace)
	r.Register("debug", 1, CategorySystem, "debug v: write [DEBUG] display(v) then return v", biDebug)
	r.Register("assert", 2, CategorySystem, "assert p v: return v if p else raise AssertionFailed", biAssert)
	r.Register("os", 0, CategorySystem, "os: the host OS name, lowercase", biOS)
	r.Register("file_template", 2, CategoryDeploy, "file_template path content: construct a FileTemplate value", biFileTemplate)
}

func biTrace(ctx *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	label, err := asString("trace", args[0])
	if err != nil {
		return nil, err
	}
	ctx.Trace(label.Value, args[1])
	return args[1], nil
}

func biDebug(ctx *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	ctx.Debug(args[0])
	return args[0], nil
}

func biAssert(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	p, err := asBool("assert", args[0])
	if err != nil {
		return nil, err
	}
	if !p.Value {
		return nil, assertionErr("assertion failed for value %s", args[1].Display())
	}
	return args[1], nil
}

func biOS(_ *eval.Context, _ []eval.Value) (eval.Value, *eval.EvalError) {
	return eval.Str(runtime.GOOS), nil
}

func biFileTemplate(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	path, err := asPath("file_template", args[0])
	if err != nil {
		return nil, err
	}
	switch args[1].(type) {
	case *eval.StringValue, *eval.TemplateValue:
	default:
		return nil, typeErr("file_template", "String or Template", args[1])
	}
	return &eval.FileTemplateValue{Path: path, Content: args[1]}, nil
}
