package builtins

import (
	"fmt"
	"strings"

	"github.com/avon-lang/avon/internal/eval"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RegisterStringFunctions registers the string-manipulation built-ins
// spec.md §4.4 groups under "string/format/json helpers". Case-folding
// goes through golang.org/x/text/cases (language.Und) rather than
// strings.ToUpper/ToLower, so Unicode's full case mappings apply, including
// ones that change length (German ß uppercases to SS), where strings.ToUpper
// uses per-rune simple mappings only. No language-specific rules (such as
// Turkish dotted/dotless i) are applied.
func RegisterStringFunctions(r *Registry) {
	r.Register("upper", 1, CategoryString, "upper s: Unicode-aware uppercasing", biUpper)
	r.Register("lower", 1, CategoryString, "lower s: Unicode-aware lowercasing", biLower)
	r.Register("trim", 1, CategoryString, "trim s: strip leading/trailing whitespace", biTrim)
	r.Register("split", 2, CategoryString, "split sep s: String to List of Strings", biSplit)
	r.Register("join", 2, CategoryString, "join sep list: List of Strings to String", biJoin)
	r.Register("replace", 3, CategoryString, "replace old new s: all non-overlapping occurrences", biReplace)
	r.Register("contains_str", 2, CategoryString, "contains_str sub s: substring test", biContainsStr)
	r.Register("starts_with", 2, CategoryString, "starts_with prefix s", biStartsWith)
	r.Register("ends_with", 2, CategoryString, "ends_with suffix s", biEndsWith)
	r.Register("format", 2, CategoryString, "format template list: positional {0},{1},... substitution", biFormat)
}

func biUpper(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	s, err := asString("upper", args[0])
	if err != nil {
		return nil, err
	}
	return eval.Str(cases.Upper(language.Und).String(s.Value)), nil
}

func biLower(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	s, err := asString("lower", args[0])
	if err != nil {
		return nil, err
	}
	return eval.Str(cases.Lower(language.Und).String(s.Value)), nil
}

func biTrim(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	s, err := asString("trim", args[0])
	if err != nil {
		return nil, err
	}
	return eval.Str(strings.TrimSpace(s.Value)), nil
}

func biSplit(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	sep, err := asString("split", args[0])
	if err != nil {
		return nil, err
	}
	s, err := asString("split", args[1])
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s.Value, sep.Value)
	out := make([]eval.Value, len(parts))
	for i, p := range parts {
		out[i] = eval.Str(p)
	}
	return &eval.ListValue{Elements: out}, nil
}

func biJoin(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	sep, err := asString("join", args[0])
	if err != nil {
		return nil, err
	}
	list, err := asList("join", args[1])
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(list.Elements))
	for i, el := range list.Elements {
		s, err := asString("join", el)
		if err != nil {
			return nil, err
		}
		parts[i] = s.Value
	}
	return eval.Str(strings.Join(parts, sep.Value)), nil
}

func biReplace(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	old, err := asString("replace", args[0])
	if err != nil {
		return nil, err
	}
	nw, err := asString("replace", args[1])
	if err != nil {
		return nil, err
	}
	s, err := asString("replace", args[2])
	if err != nil {
		return nil, err
	}
	return eval.Str(strings.ReplaceAll(s.Value, old.Value, nw.Value)), nil
}

func biContainsStr(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	sub, err := asString("contains_str", args[0])
	if err != nil {
		return nil, err
	}
	s, err := asString("contains_str", args[1])
	if err != nil {
		return nil, err
	}
	return eval.Bool(strings.Contains(s.Value, sub.Value)), nil
}

func biStartsWith(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	prefix, err := asString("starts_with", args[0])
	if err != nil {
		return nil, err
	}
	s, err := asString("starts_with", args[1])
	if err != nil {
		return nil, err
	}
	return eval.Bool(strings.HasPrefix(s.Value, prefix.Value)), nil
}

func biEndsWith(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	suffix, err := asString("ends_with", args[0])
	if err != nil {
		return nil, err
	}
	s, err := asString("ends_with", args[1])
	if err != nil {
		return nil, err
	}
	return eval.Bool(strings.HasSuffix(s.Value, suffix.Value)), nil
}

func biFormat(_ *eval.Context, args []eval.Value) (eval.Value, *eval.EvalError) {
	tmpl, err := asString("format", args[0])
	if err != nil {
		return nil, err
	}
	list, err := asList("format", args[1])
	if err != nil {
		return nil, err
	}
	out := tmpl.Value
	for i, el := range list.Elements {
		out = strings.ReplaceAll(out, fmt.Sprintf("{%d}", i), el.Display())
	}
	return eval.Str(out), nil
}
