package builtins

import (
	yaml "github.com/goccy/go-yaml"

	"github.com/avon-lang/avon/internal/eval"
)

// RegisterYAMLFunctions registers to_yaml/from_yaml. Grounded on
// goccy/go-yaml because, unlike gopkg.in/yaml.v3, it marshals through
// plain interface{} trees (map[string]interface{}, []interface{}) without
// requiring struct tags, which is what lets toGoValue/fromGoValue below
// round-trip Avon's dynamically-typed Value domain without an intermediate
// schema.
func RegisterYAMLFunctions(r *Registry) {
	r.Register("to_yaml", 1, CategoryYAML, "to_yaml v: render a value as a YAML document", biToYAML)
	r.Register("from_yaml", 1, CategoryYAML, "from_yaml s: parse a YAML document into a value", biFromYAML)
}

func biToYAML(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	goVal, err := toGoValue(args[0])
	if err != nil {
		return nil, err
	}
	out, merr := yaml.Marshal(goVal)
	if merr != nil {
		return nil, ioErr("to_yaml: %v", merr)
	}
	return eval.Str(string(out)), nil
}

func biFromYAML(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	s, err := asString("from_yaml", args[0])
	if err != nil {
		return nil, err
	}
	var decoded any
	if uerr := yaml.Unmarshal([]byte(s.Value), &decoded); uerr != nil {
		return nil, syntaxErr("from_yaml: %v", uerr)
	}
	return fromGoValue(decoded), nil
}

func toGoValue(v eval.Value) (any, *eval.EvalError) {
	switch t := v.(type) {
	case *eval.NumberValue:
		if t.IsInt {
			if t.Int.IsInt64() {
				return t.Int.Int64(), nil
			}
			return t.Int.String(), nil
		}
		return t.Float, nil
	case *eval.StringValue:
		return t.Value, nil
	case *eval.BoolValue:
		return t.Value, nil
	case *eval.NoneValue:
		return nil, nil
	case *eval.PathValue:
		return t.Display(), nil
	case *eval.ListValue:
		out := make([]any, len(t.Elements))
		for i, el := range t.Elements {
			gv, err := toGoValue(el)
			if err != nil {
				return nil, err
			}
			out[i] = gv
		}
		return out, nil
	case *eval.DictValue:
		out := make(map[string]any, len(t.Keys))
		for _, k := range t.Keys {
			val, _ := t.Get(k)
			gv, err := toGoValue(val)
			if err != nil {
				return nil, err
			}
			out[k] = gv
		}
		return out, nil
	case *eval.TemplateValue:
		forced, ferr := t.Force()
		if ferr != nil {
			return nil, ferr
		}
		return forced.Value, nil
	}
	return nil, typeErr("to_yaml", "a YAML-representable value", v)
}

func fromGoValue(v any) eval.Value {
	switch t := v.(type) {
	case nil:
		return eval.None
	case bool:
		return eval.Bool(t)
	case string:
		return eval.Str(t)
	case int:
		return eval.Int(int64(t))
	case int64:
		return eval.Int(t)
	case uint64:
		return eval.Int(int64(t))
	case float64:
		return eval.Float(t)
	case []any:
		elems := make([]eval.Value, len(t))
		for i, el := range t {
			elems[i] = fromGoValue(el)
		}
		return &eval.ListValue{Elements: elems}
	case map[string]any:
		d := eval.NewDict()
		for k, val := range t {
			d.Set(k, fromGoValue(val))
		}
		return d
	}
	return eval.None
}
