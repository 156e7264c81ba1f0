package parser

import (
	"testing"

	"github.com/avon-lang/avon/internal/ast"
)

func mustParse(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, err := ParseExpr(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return expr
}

func TestParseLetIn(t *testing.T) {
	expr := mustParse(t, "let x = 1 in x")
	let, ok := expr.(*ast.Let)
	if !ok {
		t.Fatalf("got %T, want *ast.Let", expr)
	}
	if let.Name != "x" {
		t.Fatalf("name = %q", let.Name)
	}
}

func TestParseApplicationIsLeftAssociative(t *testing.T) {
	// f x y parses as (f x) y, not f (x y).
	expr := mustParse(t, "f x y")
	outer, ok := expr.(*ast.App)
	if !ok {
		t.Fatalf("got %T, want *ast.App", expr)
	}
	inner, ok := outer.Fn.(*ast.App)
	if !ok {
		t.Fatalf("outer.Fn = %T, want *ast.App", outer.Fn)
	}
	if inner.Fn.(*ast.Ident).Name != "f" {
		t.Fatalf("innermost function is not f")
	}
}

func TestCurriedLambdaSugar(t *testing.T) {
	expr := mustParse(t, `\x \y x + y`)
	outer, ok := expr.(*ast.Lambda)
	if !ok || outer.Param != "x" {
		t.Fatalf("got %T", expr)
	}
	inner, ok := outer.Body.(*ast.Lambda)
	if !ok || inner.Param != "y" {
		t.Fatalf("inner lambda = %T", outer.Body)
	}
}

func TestBinaryPrecedence(t *testing.T) {
	// 1 + 2 * 3 must parse as 1 + (2 * 3).
	expr := mustParse(t, "1 + 2 * 3")
	bin, ok := expr.(*ast.BinaryOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("got %T", expr)
	}
	rhs, ok := bin.Right.(*ast.BinaryOp)
	if !ok || rhs.Op != "*" {
		t.Fatalf("rhs = %T, want a '*' BinaryOp", bin.Right)
	}
}

func TestSubtractionIsNotConsumedAsApplicationArgument(t *testing.T) {
	// Regression: MINUS must never be a startsAtom token, or `x - 1` parses
	// as App{Fn: x, Arg: -1} instead of BinaryOp{Op: "-", Left: x, Right: 1}.
	expr := mustParse(t, "x - 1")
	bin, ok := expr.(*ast.BinaryOp)
	if !ok || bin.Op != "-" {
		t.Fatalf("got %T, want BinaryOp \"-\"", expr)
	}
	if _, ok := bin.Left.(*ast.Ident); !ok {
		t.Fatalf("lhs = %T, want *ast.Ident", bin.Left)
	}
}

func TestApplicationBindsTighterThanBinaryOps(t *testing.T) {
	// f x + 1 must parse as (f x) + 1.
	expr := mustParse(t, "f x + 1")
	bin, ok := expr.(*ast.BinaryOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("got %T", expr)
	}
	if _, ok := bin.Left.(*ast.App); !ok {
		t.Fatalf("lhs = %T, want *ast.App", bin.Left)
	}
}

func TestRangeLiteralVsListLiteral(t *testing.T) {
	rng := mustParse(t, "[1..5]")
	if _, ok := rng.(*ast.RangeLit); !ok {
		t.Fatalf("got %T, want *ast.RangeLit", rng)
	}

	lst := mustParse(t, "[1, 2, 5]")
	ll, ok := lst.(*ast.ListLit)
	if !ok || len(ll.Elements) != 3 {
		t.Fatalf("got %T", lst)
	}
}

func TestMatchArmsAndListRestPattern(t *testing.T) {
	expr := mustParse(t, `match xs { [] => 0, [h, ..t] => h }`)
	m, ok := expr.(*ast.Match)
	if !ok || len(m.Arms) != 2 {
		t.Fatalf("got %T", expr)
	}
	second, ok := m.Arms[1].Pattern.(*ast.ListPattern)
	if !ok {
		t.Fatalf("arm 1 pattern = %T", m.Arms[1].Pattern)
	}
	if len(second.Heads) != 1 || second.Rest != "t" {
		t.Fatalf("list pattern = %+v", second)
	}
}

func TestDictLiteralAndFieldAccess(t *testing.T) {
	expr := mustParse(t, `{port: 8080, name: "x"}.port`)
	fa, ok := expr.(*ast.FieldAccess)
	if !ok || fa.Field != "port" {
		t.Fatalf("got %T", expr)
	}
	if _, ok := fa.Target.(*ast.DictLit); !ok {
		t.Fatalf("target = %T", fa.Target)
	}
}

func TestUnexpectedTokenIsParseError(t *testing.T) {
	_, err := ParseExpr("let = 1 in x")
	if err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestTrailingInputIsParseError(t *testing.T) {
	_, err := ParseExpr("1 + 2 )")
	if err == nil {
		t.Fatalf("expected a parse error for trailing input")
	}
}

func TestTemplateLiteralSplice(t *testing.T) {
	expr := mustParse(t, `{"port: {port}"}`)
	tl, ok := expr.(*ast.TemplateLit)
	if !ok {
		t.Fatalf("got %T", expr)
	}
	if len(tl.Chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(tl.Chunks))
	}
	if tl.Chunks[0].Text != "port: " {
		t.Fatalf("chunk0 = %q", tl.Chunks[0].Text)
	}
}
