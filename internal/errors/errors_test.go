package errors

import (
	"strings"
	"testing"

	"github.com/avon-lang/avon/internal/lexer"
)

func TestFormatHeader(t *testing.T) {
	e := New(TypeMismatch, lexer.Position{Line: 1, Column: 10}, "expected String, found Number")
	got := e.Format(false)
	want := "Error: TypeMismatch: expected String, found Number (at 1:10)"
	if !strings.HasPrefix(got, want) {
		t.Errorf("got %q, want prefix %q", got, want)
	}
}

func TestFormatWithSourceCaret(t *testing.T) {
	e := New(TypeMismatch, lexer.Position{Line: 1, Column: 9}, "bad op")
	e.Source = `"hello" + 5`
	e.File = "<eval>"
	got := e.Format(false)
	if !strings.Contains(got, `"hello" + 5`) {
		t.Errorf("missing source line: %q", got)
	}
	if !strings.Contains(got, "^") {
		t.Errorf("missing caret: %q", got)
	}
}
