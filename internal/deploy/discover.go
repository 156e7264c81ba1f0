package deploy

import (
	avonerrors "github.com/avon-lang/avon/internal/errors"
	"github.com/avon-lang/avon/internal/eval"
	"github.com/avon-lang/avon/internal/lexer"
)

// Discover walks root and collects every FileTemplate it contains
// (spec.md §4.5 "Discovery"):
//
//   - FileTemplate → one plan entry.
//   - List → each element, recursively, in order.
//   - Dict → each value, recursively, in insertion order.
//   - anything else → NothingToDeploy, but only when it is root itself;
//     a bare non-FileTemplate value nested inside a List/Dict is silently
//     skipped (spec.md: "NothingToDeploy at root / silent skip inside
//     containers").
//
// A List or Dict root that holds no FileTemplate yields an empty Plan.
func Discover(root eval.Value) (Plan, *eval.EvalError) {
	var plan Plan
	found, err := walk(root, &plan)
	if err != nil {
		return Plan{}, err
	}
	if !found {
		switch root.(type) {
		case *eval.ListValue, *eval.DictValue:
			return plan, nil
		}
		return Plan{}, avonerrors.New(avonerrors.NothingToDeploy, lexer.Position{}, "value contains no FileTemplate to deploy")
	}
	return plan, nil
}

// walk appends every FileTemplate under v to plan in pre-order and reports
// whether any was found. A non-container, non-FileTemplate value (at any
// depth) is silently skipped; Discover alone turns "none found" into
// NothingToDeploy, and only when the root itself is not a List or Dict.
func walk(v eval.Value, plan *Plan) (bool, *eval.EvalError) {
	switch t := v.(type) {
	case *eval.FileTemplateValue:
		plan.Entries = append(plan.Entries, PlanEntry{
			RelPath: t.Path.Display(),
			Content: t.Content,
		})
		return true, nil
	case *eval.ListValue:
		found := false
		for _, el := range t.Elements {
			ok, err := walk(el, plan)
			if err != nil {
				return false, err
			}
			found = found || ok
		}
		return found, nil
	case *eval.DictValue:
		found := false
		for _, k := range t.Keys {
			val, _ := t.Get(k)
			ok, err := walk(val, plan)
			if err != nil {
				return false, err
			}
			found = found || ok
		}
		return found, nil
	}
	return false, nil
}
