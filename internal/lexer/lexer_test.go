package lexer

import "testing"

func collect(src string) []Token {
	l := New(src)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

func TestIdentifiersAndKeywords(t *testing.T) {
	toks := collect("let x in port true false none")
	want := []TokenType{LET, IDENT, IN, IDENT, TRUE, FALSE, NONE, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestNumbers(t *testing.T) {
	toks := collect("42 3.14 1.5e10 10e2")
	want := []TokenType{INT, FLOAT, FLOAT, FLOAT, EOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
	if toks[0].Literal != "42" {
		t.Errorf("int literal = %q", toks[0].Literal)
	}
}

func TestBareAtAtEOFIsAbsolutePathNotAllowed(t *testing.T) {
	// Regression: isPathBoundary must treat EOF (ch == 0) as a boundary, or
	// '@' at end of input never reaches the AbsolutePathNotAllowed check and
	// the segment scan loops forever advancing past EOF.
	l := New("@")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL", tok.Type)
	}
}

func TestStringEscapes(t *testing.T) {
	toks := collect(`"a\nb\"c\\d"`)
	if toks[0].Type != STRING {
		t.Fatalf("got %s", toks[0].Type)
	}
	if toks[0].Literal != "a\nb\"c\\d" {
		t.Errorf("got %q", toks[0].Literal)
	}
}

func TestPathLiteralRelative(t *testing.T) {
	toks := collect("@config/app.yml")
	if toks[0].Type != PATH {
		t.Fatalf("got %s", toks[0].Type)
	}
	want := []string{"config", "app.yml"}
	if len(toks[0].PathSegments) != len(want) {
		t.Fatalf("segments = %v", toks[0].PathSegments)
	}
	for i := range want {
		if toks[0].PathSegments[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, toks[0].PathSegments[i], want[i])
		}
	}
}

func TestPathLiteralAbsoluteRejected(t *testing.T) {
	l := New("@/etc/hosts")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL", tok.Type)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("errors = %v", l.Errors())
	}
	if l.Errors()[0].Pos.Column != 1 {
		t.Errorf("column = %d, want 1", l.Errors()[0].Pos.Column)
	}
}

func TestPathLiteralTraversalRejected(t *testing.T) {
	l := New("@a/../b")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL", tok.Type)
	}
	if len(l.Errors()) == 0 {
		t.Fatalf("expected a PathTraversal error")
	}
}

func TestTemplateLiteral(t *testing.T) {
	toks := collect(`{"port: {port}\n"}`)
	if toks[0].Type != TEMPLATE {
		t.Fatalf("got %s", toks[0].Type)
	}
	chunks := toks[0].Chunks
	if len(chunks) != 3 {
		t.Fatalf("chunks = %+v", chunks)
	}
	if chunks[0].Text != "port: " {
		t.Errorf("chunk 0 = %q", chunks[0].Text)
	}
	if chunks[1].Literal || chunks[1].Expr != "port" {
		t.Errorf("chunk 1 = %+v", chunks[1])
	}
}

func TestOperators(t *testing.T) {
	toks := collect("+ - * / % == != < <= > >= && || ! = . , ; ( ) [ ] { } : \\ -> ..")
	want := []TokenType{
		PLUS, MINUS, STAR, SLASH, PERCENT, EQ, NEQ, LT, LTE, GT, GTE, AND, OR,
		NOT, ASSIGN, DOT, COMMA, SEMI, LPAREN, RPAREN, LBRACKET, RBRACKET,
		LBRACE, RBRACE, COLON, BACKSLASH, ARROW, RANGE, EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestComment(t *testing.T) {
	toks := collect("let x = 1 # this is a comment\nin x")
	if toks[len(toks)-1].Type != EOF {
		t.Fatalf("unexpected trailing tokens: %+v", toks)
	}
}
