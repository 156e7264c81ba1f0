package builtins

import (
	"github.com/avon-lang/avon/internal/eval"
)

// RegisterCollectionFunctions registers the pure List/Dict built-ins
// spec.md §4.4 names explicitly: map, filter, fold, length, keys, values,
// concat, get.
func RegisterCollectionFunctions(r *Registry) {
	r.Register("map", 2, CategoryCollection, "map f list: apply f to every element", biMap)
	r.Register("filter", 2, CategoryCollection, "filter f list: keep elements where f returns true", biFilter)
	r.Register("fold", 3, CategoryCollection, "fold f init list: left fold", biFold)
	r.Register("length", 1, CategoryCollection, "length v: element/character count of a List, Dict, or String", biLength)
	r.Register("keys", 1, CategoryCollection, "keys dict: insertion-ordered key list", biKeys)
	r.Register("values", 1, CategoryCollection, "values dict: insertion-ordered value list", biValues)
	r.Register("concat", 2, CategoryCollection, "concat a b: List+List or String+String concatenation", biConcat)
	r.Register("get", 2, CategoryCollection, "get dict key: dotted-field-access equivalent", biGet)
	r.Register("reverse", 1, CategoryCollection, "reverse list: element-order reversal", biReverse)
	r.Register("contains", 2, CategoryCollection, "contains list v: membership test by value equality", biContains)
}

func biMap(ctx *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	fn, err := asFunction("map", args[0])
	if err != nil {
		return nil, err
	}
	list, err := asList("map", args[1])
	if err != nil {
		return nil, err
	}
	out := make([]eval.Value, len(list.Elements))
	for i, el := range list.Elements {
		v, err := eval.Apply(fn, el, ctx, zeroPos)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return &eval.ListValue{Elements: out}, nil
}

func biFilter(ctx *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	fn, err := asFunction("filter", args[0])
	if err != nil {
		return nil, err
	}
	list, err := asList("filter", args[1])
	if err != nil {
		return nil, err
	}
	var out []eval.Value
	for _, el := range list.Elements {
		v, err := eval.Apply(fn, el, ctx, zeroPos)
		if err != nil {
			return nil, err
		}
		keep, err := asBool("filter", v)
		if err != nil {
			return nil, err
		}
		if keep.Value {
			out = append(out, el)
		}
	}
	return &eval.ListValue{Elements: out}, nil
}

func biFold(ctx *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	fn, err := asFunction("fold", args[0])
	if err != nil {
		return nil, err
	}
	acc := args[1]
	list, err := asList("fold", args[2])
	if err != nil {
		return nil, err
	}
	for _, el := range list.Elements {
		step, err := eval.Apply(fn, acc, ctx, zeroPos)
		if err != nil {
			return nil, err
		}
		stepFn, err := asFunction("fold", step)
		if err != nil {
			return nil, err
		}
		acc, err = eval.Apply(stepFn, el, ctx, zeroPos)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func biLength(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	switch v := args[0].(type) {
	case *eval.ListValue:
		return eval.Int(int64(len(v.Elements))), nil
	case *eval.DictValue:
		return eval.Int(int64(len(v.Keys))), nil
	case *eval.StringValue:
		return eval.Int(int64(len([]rune(v.Value)))), nil
	}
	return nil, typeErr("length", "List, Dict, or String", args[0])
}

func biKeys(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	d, err := asDict("keys", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]eval.Value, len(d.Keys))
	for i, k := range d.Keys {
		out[i] = eval.Str(k)
	}
	return &eval.ListValue{Elements: out}, nil
}

func biValues(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	d, err := asDict("values", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]eval.Value, len(d.Keys))
	for i, k := range d.Keys {
		v, _ := d.Get(k)
		out[i] = v
	}
	return &eval.ListValue{Elements: out}, nil
}

func biConcat(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	switch a := args[0].(type) {
	case *eval.ListValue:
		b, err := asList("concat", args[1])
		if err != nil {
			return nil, err
		}
		out := make([]eval.Value, 0, len(a.Elements)+len(b.Elements))
		out = append(out, a.Elements...)
		out = append(out, b.Elements...)
		return &eval.ListValue{Elements: out}, nil
	case *eval.StringValue:
		b, err := asString("concat", args[1])
		if err != nil {
			return nil, err
		}
		return eval.Str(a.Value + b.Value), nil
	}
	return nil, typeErr("concat", "List or String", args[0])
}

func biGet(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	d, err := asDict("get", args[0])
	if err != nil {
		return nil, err
	}
	key, err := asString("get", args[1])
	if err != nil {
		return nil, err
	}
	v, present := d.Get(key.Value)
	if !present {
		return nil, avonMissingField("get", d.Keys, key.Value)
	}
	return v, nil
}

func biReverse(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	list, err := asList("reverse", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]eval.Value, len(list.Elements))
	for i, el := range list.Elements {
		out[len(list.Elements)-1-i] = el
	}
	return &eval.ListValue{Elements: out}, nil
}

func biContains(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	list, err := asList("contains", args[0])
	if err != nil {
		return nil, err
	}
	for _, el := range list.Elements {
		if el.Type() == args[1].Type() && displayEqual(el, args[1]) {
			return eval.Bool(true), nil
		}
	}
	return eval.Bool(false), nil
}

// displayEqual is a conservative structural-equality fallback for built-ins
// that don't have access to the evaluator's unexported valuesEqual; display
// form is canonical per spec.md §6, so two values with the same Display
// output and Type are equal for every Value kind Avon defines.
func displayEqual(a, b eval.Value) bool {
	if n1, ok := a.(*eval.NumberValue); ok {
		n2 := b.(*eval.NumberValue)
		if n1.IsInt && n2.IsInt {
			return n1.Int.Cmp(n2.Int) == 0
		}
		return n1.AsFloat() == n2.AsFloat()
	}
	return a.Display() == b.Display()
}
