package builtins

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/avon-lang/avon/internal/eval"
)

// RegisterJSONFunctions registers to_json/from_json, Avon's JSON codec
// built-ins (spec.md §4.4's "json helpers"). from_json is built on
// tidwall/gjson's path-result walk rather than encoding/json so the decoded
// tree can be folded directly into Avon's Value constructors without an
// intermediate interface{} pass; to_json is built incrementally with
// tidwall/sjson for the same reason — both libraries operate on raw JSON
// text instead of reflection-driven (un)marshaling.
func RegisterJSONFunctions(r *Registry) {
	r.Register("to_json", 1, CategoryJSON, "to_json v: render a value as a JSON string", biToJSON)
	r.Register("from_json", 1, CategoryJSON, "from_json s: parse a JSON string into a value", biFromJSON)
}

func biToJSON(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	s, err := valueToJSON(args[0])
	if err != nil {
		return nil, err
	}
	return eval.Str(s), nil
}

func valueToJSON(v eval.Value) (string, *eval.EvalError) {
	switch t := v.(type) {
	case *eval.NumberValue:
		return t.Display(), nil
	case *eval.BoolValue:
		if t.Value {
			return "true", nil
		}
		return "false", nil
	case *eval.NoneValue:
		return "null", nil
	case *eval.StringValue:
		out, serr := sjson.Set("", "", t.Value)
		if serr != nil {
			return "", ioErr("to_json: %v", serr)
		}
		return out, nil
	case *eval.ListValue:
		doc := "[]"
		for i, el := range t.Elements {
			raw, jerr := valueToJSON(el)
			if jerr != nil {
				return "", jerr
			}
			var serr error
			doc, serr = sjson.SetRaw(doc, itoaPath(i), raw)
			if serr != nil {
				return "", ioErr("to_json: %v", serr)
			}
		}
		return doc, nil
	case *eval.DictValue:
		doc := "{}"
		for _, k := range t.Keys {
			val, _ := t.Get(k)
			raw, jerr := valueToJSON(val)
			if jerr != nil {
				return "", jerr
			}
			var serr error
			doc, serr = sjson.SetRaw(doc, k, raw)
			if serr != nil {
				return "", ioErr("to_json: %v", serr)
			}
		}
		return doc, nil
	case *eval.TemplateValue:
		forced, ferr := t.Force()
		if ferr != nil {
			return "", ferr
		}
		return valueToJSON(forced)
	case *eval.PathValue:
		return valueToJSON(eval.Str(t.Display()))
	}
	return "", typeErr("to_json", "a JSON-representable value", v)
}

func itoaPath(i int) string {
	digits := []byte{}
	if i == 0 {
		return "0"
	}
	n := i
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func biFromJSON(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	s, err := asString("from_json", args[0])
	if err != nil {
		return nil, err
	}
	if !gjson.Valid(s.Value) {
		return nil, syntaxErr("from_json: invalid JSON")
	}
	return gjsonToValue(gjson.Parse(s.Value)), nil
}

func gjsonToValue(r gjson.Result) eval.Value {
	switch r.Type {
	case gjson.Null:
		return eval.None
	case gjson.False:
		return eval.Bool(false)
	case gjson.True:
		return eval.Bool(true)
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) && !hasDecimalPoint(r.Raw) {
			return eval.Int(int64(r.Num))
		}
		return eval.Float(r.Num)
	case gjson.String:
		return eval.Str(r.String())
	case gjson.JSON:
		if r.IsArray() {
			var elems []eval.Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, gjsonToValue(v))
				return true
			})
			return &eval.ListValue{Elements: elems}
		}
		d := eval.NewDict()
		r.ForEach(func(k, v gjson.Result) bool {
			d.Set(k.String(), gjsonToValue(v))
			return true
		})
		return d
	}
	return eval.None
}

func hasDecimalPoint(raw string) bool {
	for _, c := range raw {
		if c == '.' || c == 'e' || c == 'E' {
			return true
		}
	}
	return false
}
