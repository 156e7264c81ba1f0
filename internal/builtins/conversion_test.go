package builtins

import (
	"testing"

	"github.com/avon-lang/avon/internal/eval"
)

func TestToIntFromFloatTruncatesTowardBigInt(t *testing.T) {
	v, err := biToInt(nil, []eval.Value{eval.Float(3.9)})
	if err != nil {
		t.Fatalf("to_int: %s", err.Error())
	}
	if v.Display() != "3" {
		t.Fatalf("got %s", v.Display())
	}
}

func TestToIntFromStringRejectsGarbage(t *testing.T) {
	_, err := biToInt(nil, []eval.Value{eval.Str("not-a-number")})
	if err == nil || err.Kind != "SyntaxError" {
		t.Fatalf("err = %v", err)
	}
}

func TestToBoolRejectsNonBooleanText(t *testing.T) {
	_, err := biToBool(nil, []eval.Value{eval.Str("yes")})
	if err == nil {
		t.Fatalf("expected an error for %q", "yes")
	}
}

func TestTypePredicates(t *testing.T) {
	isNum := typePredicate("Number")
	v, err := isNum(nil, []eval.Value{eval.Int(1)})
	if err != nil || !v.(*eval.BoolValue).Value {
		t.Fatalf("is_number(1) = %v, %v", v, err)
	}
	v, err = isNum(nil, []eval.Value{eval.Str("x")})
	if err != nil || v.(*eval.BoolValue).Value {
		t.Fatalf("is_number(\"x\") = %v, %v", v, err)
	}
}
