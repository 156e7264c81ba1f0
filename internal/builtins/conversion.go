package builtins

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/avon-lang/avon/internal/eval"
)

// RegisterConversionFunctions registers the display/conversion/predicate
// built-ins spec.md §4.4 groups together ("predicates, conversions").
func RegisterConversionFunctions(r *Registry) {
	r.Register("to_string", 1, CategoryConversion, "to_string v: canonical display form of any value", biToString)
	r.Register("to_int", 1, CategoryConversion, "to_int v: String or Number to Integer", biToInt)
	r.Register("to_float", 1, CategoryConversion, "to_float v: String or Number to Float", biToFloat)
	r.Register("to_bool", 1, CategoryConversion, "to_bool s: \"true\"/\"false\" String to Boolean", biToBool)

	r.Register("is_number", 1, CategoryConversion, "is_number v", typePredicate("Number"))
	r.Register("is_string", 1, CategoryConversion, "is_string v", typePredicate("String"))
	r.Register("is_bool", 1, CategoryConversion, "is_bool v", typePredicate("Boolean"))
	r.Register("is_none", 1, CategoryConversion, "is_none v", typePredicate("None"))
	r.Register("is_list", 1, CategoryConversion, "is_list v", typePredicate("List"))
	r.Register("is_dict", 1, CategoryConversion, "is_dict v", typePredicate("Dict"))
	r.Register("is_path", 1, CategoryConversion, "is_path v", typePredicate("Path"))
	r.Register("is_function", 1, CategoryConversion, "is_function v", typePredicate("Function"))
}

func typePredicate(want string) eval.NativeFunc {
	return func(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
		return eval.Bool(args[0].Type() == want), nil
	}
}

func biToString(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	if t, ok := args[0].(*eval.TemplateValue); ok {
		s, err := t.Force()
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return eval.Str(args[0].Display()), nil
}

func biToInt(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	switch v := args[0].(type) {
	case *eval.NumberValue:
		if v.IsInt {
			return v, nil
		}
		bi, _ := big.NewFloat(v.Float).Int(nil)
		return eval.IntBig(bi), nil
	case *eval.StringValue:
		bi, ok := new(big.Int).SetString(strings.TrimSpace(v.Value), 10)
		if !ok {
			return nil, syntaxErr("to_int: %q is not a valid integer", v.Value)
		}
		return eval.IntBig(bi), nil
	}
	return nil, typeErr("to_int", "Number or String", args[0])
}

func biToFloat(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	switch v := args[0].(type) {
	case *eval.NumberValue:
		return eval.Float(v.AsFloat()), nil
	case *eval.StringValue:
		f, perr := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
		if perr != nil {
			return nil, syntaxErr("to_float: %q is not a valid float", v.Value)
		}
		return eval.Float(f), nil
	}
	return nil, typeErr("to_float", "Number or String", args[0])
}

func biToBool(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	s, err := asString("to_bool", args[0])
	if err != nil {
		return nil, err
	}
	switch strings.TrimSpace(s.Value) {
	case "true":
		return eval.Bool(true), nil
	case "false":
		return eval.Bool(false), nil
	}
	return nil, syntaxErr("to_bool: %q is neither \"true\" nor \"false\"", s.Value)
}
