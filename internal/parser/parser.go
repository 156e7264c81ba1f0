// Package parser implements a Pratt/recursive-descent parser over the
// Avon token stream, producing an internal/ast expression tree.
package parser

import (
	"fmt"
	"math/big"

	"github.com/avon-lang/avon/internal/ast"
	"github.com/avon-lang/avon/internal/lexer"
)

// ParseError is a single parser failure.
type ParseError struct {
	Pos      lexer.Position
	Message  string
	Expected string
	Found    string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s (at %s)", e.Message, e.Pos)
}

// precedence levels, low to high.
const (
	lowest int = iota
	orPrec
	andPrec
	equalsPrec
	comparePrec
	additivePrec
	multiplicativePrec
	applicationPrec
	unaryPrec
	postfixPrec
)

var binPrecedence = map[lexer.TokenType]int{
	lexer.OR:      orPrec,
	lexer.AND:     andPrec,
	lexer.EQ:      equalsPrec,
	lexer.NEQ:     equalsPrec,
	lexer.LT:      comparePrec,
	lexer.LTE:     comparePrec,
	lexer.GT:      comparePrec,
	lexer.GTE:     comparePrec,
	lexer.PLUS:    additivePrec,
	lexer.MINUS:   additivePrec,
	lexer.STAR:    multiplicativePrec,
	lexer.SLASH:   multiplicativePrec,
	lexer.PERCENT: multiplicativePrec,
}

// Parser is a single-pass recursive-descent parser. It collects every error
// it encounters (for batch diagnostics) but ParseExpr's returned error is
// the first one, matching spec.md's "never silently accepts an incomplete
// expression."
type Parser struct {
	l *lexer.Lexer

	cur  lexer.Token
	peek lexer.Token

	errors []ParseError
}

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every parse error collected so far.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...any) {
	p.errors = append(p.errors, ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) expect(tt lexer.TokenType, what string) bool {
	if p.cur.Type == tt {
		return true
	}
	p.errorf(p.cur.Pos, "expected %s, found %q", what, p.cur.Literal)
	return false
}

// ParseExpr parses the entire input as a single expression (a whole Avon
// program is one expression) and returns the first error encountered, if
// any.
func ParseExpr(src string) (ast.Expr, error) {
	p := New(lexer.New(src))
	expr := p.parseExpr(lowest)
	if len(p.l.Errors()) > 0 {
		le := p.l.Errors()[0]
		return nil, fmt.Errorf("%s", le.Error())
	}
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	if p.cur.Type != lexer.EOF {
		p.errorf(p.cur.Pos, "unexpected trailing input %q", p.cur.Literal)
		return nil, p.errors[len(p.errors)-1]
	}
	return expr, nil
}

// parseExpr is the Pratt entry point: it parses a prefix form, then
// extends it with any binary operators whose precedence is at least minPrec,
// and finally with juxtaposition application and postfix forms.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for {
		left = p.parsePostfix(left)

		if minPrec < applicationPrec && p.startsAtom() {
			arg := p.parseApplicationArg()
			if arg == nil {
				break
			}
			left = &ast.App{Base: ast.NewBase(left.Pos()), Fn: left, Arg: arg}
			continue
		}

		prec, ok := binPrecedence[p.cur.Type]
		if !ok || prec < minPrec {
			break
		}
		op := p.cur
		p.nextToken()
		right := p.parseExpr(prec + 1)
		if right == nil {
			return left
		}
		left = &ast.BinaryOp{Base: ast.NewBase(op.Pos), Op: op.Type.String(), Left: left, Right: right}
	}
	return left
}

// startsAtom reports whether the current token can begin an application
// argument (juxtaposition), used to decide whether `f x` should be parsed
// as application rather than stopping at `f`.
func (p *Parser) startsAtom() bool {
	switch p.cur.Type {
	case lexer.IDENT, lexer.INT, lexer.FLOAT, lexer.STRING, lexer.TEMPLATE,
		lexer.PATH, lexer.TRUE, lexer.FALSE, lexer.NONE, lexer.LPAREN,
		lexer.LBRACKET, lexer.LBRACE, lexer.BACKSLASH, lexer.NOT:
		// MINUS is deliberately excluded: it is a binary operator (subtraction),
		// not a prefix that can begin a juxtaposed application argument. Unary
		// minus is still handled as a prefix form in parsePrefix.
		return true
	}
	return false
}

// parseApplicationArg parses one juxtaposed argument: an atom extended only
// by postfix forms (field access, indexing), never by further application
// or binary operators, so `f x y` parses as ((f x) y).
func (p *Parser) parseApplicationArg() ast.Expr {
	arg := p.parsePrefix()
	if arg == nil {
		return nil
	}
	return p.parsePostfix(arg)
}

func (p *Parser) parsePostfix(left ast.Expr) ast.Expr {
	for {
		switch p.cur.Type {
		case lexer.DOT:
			pos := p.cur.Pos
			p.nextToken()
			if !p.expect(lexer.IDENT, "field name") {
				return left
			}
			field := p.cur.Literal
			p.nextToken()
			left = &ast.FieldAccess{Base: ast.NewBase(pos), Target: left, Field: field}
		case lexer.LBRACKET:
			pos := p.cur.Pos
			p.nextToken()
			idx := p.parseExpr(lowest)
			if !p.expect(lexer.RBRACKET, "]") {
				return left
			}
			p.nextToken()
			left = &ast.Index{Base: ast.NewBase(pos), Target: left, Index: idx}
		default:
			return left
		}
	}
}

func (p *Parser) parsePrefix() ast.Expr {
	switch p.cur.Type {
	case lexer.INT:
		return p.parseIntLit()
	case lexer.FLOAT:
		return p.parseFloatLit()
	case lexer.STRING:
		lit := &ast.StringLit{Base: ast.NewBase(p.cur.Pos), Value: p.cur.Literal}
		p.nextToken()
		return lit
	case lexer.TEMPLATE:
		return p.parseTemplate()
	case lexer.PATH:
		lit := &ast.PathLit{Base: ast.NewBase(p.cur.Pos), Segments: p.cur.PathSegments}
		p.nextToken()
		return lit
	case lexer.TRUE, lexer.FALSE:
		lit := &ast.BoolLit{Base: ast.NewBase(p.cur.Pos), Value: p.cur.Type == lexer.TRUE}
		p.nextToken()
		return lit
	case lexer.NONE:
		lit := &ast.NoneLit{Base: ast.NewBase(p.cur.Pos)}
		p.nextToken()
		return lit
	case lexer.IDENT:
		lit := &ast.Ident{Base: ast.NewBase(p.cur.Pos), Name: p.cur.Literal}
		p.nextToken()
		return lit
	case lexer.LPAREN:
		p.nextToken()
		inner := p.parseExpr(lowest)
		if !p.expect(lexer.RPAREN, ")") {
			return inner
		}
		p.nextToken()
		return inner
	case lexer.LBRACKET:
		return p.parseListOrRange()
	case lexer.LBRACE:
		return p.parseDict()
	case lexer.BACKSLASH:
		return p.parseLambda()
	case lexer.NOT:
		pos := p.cur.Pos
		p.nextToken()
		operand := p.parseExpr(unaryPrec)
		return &ast.UnaryOp{Base: ast.NewBase(pos), Op: "!", Expr: operand}
	case lexer.MINUS:
		pos := p.cur.Pos
		p.nextToken()
		operand := p.parseExpr(unaryPrec)
		return &ast.UnaryOp{Base: ast.NewBase(pos), Op: "-", Expr: operand}
	case lexer.LET:
		return p.parseLet()
	case lexer.IF:
		return p.parseIf()
	case lexer.MATCH:
		return p.parseMatch()
	}

	p.errorf(p.cur.Pos, "unexpected token %q", p.cur.Literal)
	return nil
}

func (p *Parser) parseIntLit() ast.Expr {
	v := new(big.Int)
	v.SetString(p.cur.Literal, 10)
	lit := ast.NewIntLit(p.cur.Pos, v)
	p.nextToken()
	return lit
}

func (p *Parser) parseFloatLit() ast.Expr {
	var f float64
	fmt.Sscanf(p.cur.Literal, "%g", &f)
	lit := ast.NewFloatLit(p.cur.Pos, f)
	p.nextToken()
	return lit
}

func (p *Parser) parseTemplate() ast.Expr {
	pos := p.cur.Pos
	chunks := make([]ast.TemplateChunk, 0, len(p.cur.Chunks))
	for _, c := range p.cur.Chunks {
		if c.Literal {
			chunks = append(chunks, ast.TemplateChunk{Literal: true, Text: c.Text})
			continue
		}
		sub := New(lexer.New(c.Expr))
		expr := sub.parseExpr(lowest)
		if len(sub.errors) > 0 {
			p.errors = append(p.errors, sub.errors...)
		}
		chunks = append(chunks, ast.TemplateChunk{Literal: false, Expr: expr})
	}
	p.nextToken()
	return &ast.TemplateLit{Base: ast.NewBase(pos), Chunks: chunks}
}

func (p *Parser) parseLet() ast.Expr {
	pos := p.cur.Pos
	p.nextToken() // consume 'let'
	if !p.expect(lexer.IDENT, "identifier") {
		return nil
	}
	name := p.cur.Literal
	p.nextToken()
	if !p.expect(lexer.ASSIGN, "=") {
		return nil
	}
	p.nextToken()
	value := p.parseExpr(lowest)
	if !p.expect(lexer.IN, "in") {
		return nil
	}
	p.nextToken()
	body := p.parseExpr(lowest)
	return &ast.Let{Base: ast.NewBase(pos), Name: name, Value: value, Body: body}
}

func (p *Parser) parseIf() ast.Expr {
	pos := p.cur.Pos
	p.nextToken() // consume 'if'
	cond := p.parseExpr(lowest)
	if !p.expect(lexer.THEN, "then") {
		return nil
	}
	p.nextToken()
	thenExpr := p.parseExpr(lowest)
	if !p.expect(lexer.ELSE, "else") {
		return nil
	}
	p.nextToken()
	elseExpr := p.parseExpr(lowest)
	return &ast.If{Base: ast.NewBase(pos), Cond: cond, Then: thenExpr, Else: elseExpr}
}

// parseLambda parses `\x body` and curries `\x \y body` into nested
// lambdas.
func (p *Parser) parseLambda() ast.Expr {
	pos := p.cur.Pos
	p.nextToken() // consume '\'
	if !p.expect(lexer.IDENT, "parameter name") {
		return nil
	}
	param := p.cur.Literal
	p.nextToken()

	var body ast.Expr
	if p.cur.Type == lexer.BACKSLASH {
		body = p.parseLambda()
	} else {
		body = p.parseExpr(lowest)
	}
	return &ast.Lambda{Base: ast.NewBase(pos), Param: param, Body: body}
}

// parseListOrRange parses `[e1, e2, ...]` and the `[a..b]` range sugar.
func (p *Parser) parseListOrRange() ast.Expr {
	pos := p.cur.Pos
	p.nextToken() // consume '['

	if p.cur.Type == lexer.RBRACKET {
		p.nextToken()
		return &ast.ListLit{Base: ast.NewBase(pos)}
	}

	first := p.parseExpr(lowest)

	if p.cur.Type == lexer.RANGE {
		p.nextToken()
		to := p.parseExpr(lowest)
		if !p.expect(lexer.RBRACKET, "]") {
			return nil
		}
		p.nextToken()
		return &ast.RangeLit{Base: ast.NewBase(pos), From: first, To: to}
	}

	elements := []ast.Expr{first}
	for p.cur.Type == lexer.COMMA {
		p.nextToken()
		if p.cur.Type == lexer.RBRACKET {
			break // trailing comma
		}
		elements = append(elements, p.parseExpr(lowest))
	}
	if !p.expect(lexer.RBRACKET, "]") {
		return nil
	}
	p.nextToken()
	return &ast.ListLit{Base: ast.NewBase(pos), Elements: elements}
}

func (p *Parser) parseDictKey() (string, bool) {
	switch p.cur.Type {
	case lexer.IDENT:
		k := p.cur.Literal
		p.nextToken()
		return k, true
	case lexer.STRING:
		k := p.cur.Literal
		p.nextToken()
		return k, true
	}
	p.errorf(p.cur.Pos, "expected dict key, found %q", p.cur.Literal)
	return "", false
}

func (p *Parser) parseDict() ast.Expr {
	pos := p.cur.Pos
	p.nextToken() // consume '{'

	var keys []string
	var values []ast.Expr

	for p.cur.Type != lexer.RBRACE {
		key, ok := p.parseDictKey()
		if !ok {
			return nil
		}
		if !p.expect(lexer.COLON, ":") {
			return nil
		}
		p.nextToken()
		val := p.parseExpr(lowest)
		keys = append(keys, key)
		values = append(values, val)

		if p.cur.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(lexer.RBRACE, "}") {
		return nil
	}
	p.nextToken()
	return &ast.DictLit{Base: ast.NewBase(pos), Keys: keys, Values: values}
}

func (p *Parser) parseMatch() ast.Expr {
	pos := p.cur.Pos
	p.nextToken() // consume 'match'
	// The subject is a single operand (an atom plus any field access or
	// indexing): parsing it at applicationPrec keeps the `{` that opens the
	// arms from being read as a dict argument. An application or a binary
	// expression used as a subject must be parenthesized.
	subject := p.parseExpr(applicationPrec)
	if !p.expect(lexer.LBRACE, "{") {
		return nil
	}
	p.nextToken()

	var arms []ast.MatchArm
	for p.cur.Type != lexer.RBRACE {
		pat := p.parsePattern()
		if pat == nil {
			return nil
		}
		if !p.expectArrow() {
			return nil
		}
		body := p.parseExpr(lowest)
		arms = append(arms, ast.MatchArm{Pattern: pat, Body: body})
		if p.cur.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(lexer.RBRACE, "}") {
		return nil
	}
	p.nextToken()
	return &ast.Match{Base: ast.NewBase(pos), Subject: subject, Arms: arms}
}

// expectArrow consumes the `=>` match-arm separator, which the lexer
// tokenizes as ASSIGN followed immediately by GT (no dedicated token: `=`
// then `>` with no space is lexed as ASSIGN, GT since '=' is only combined
// with a following '=' into EQ).
func (p *Parser) expectArrow() bool {
	if p.cur.Type != lexer.ASSIGN {
		p.errorf(p.cur.Pos, "expected '=>', found %q", p.cur.Literal)
		return false
	}
	p.nextToken()
	if p.cur.Type != lexer.GT {
		p.errorf(p.cur.Pos, "expected '=>', found incomplete arrow")
		return false
	}
	p.nextToken()
	return true
}

func (p *Parser) parsePattern() ast.Pattern {
	switch p.cur.Type {
	case lexer.INT:
		e := p.parseIntLit()
		return &ast.LiteralPattern{Value: e}
	case lexer.FLOAT:
		e := p.parseFloatLit()
		return &ast.LiteralPattern{Value: e}
	case lexer.STRING:
		lit := &ast.StringLit{Base: ast.NewBase(p.cur.Pos), Value: p.cur.Literal}
		p.nextToken()
		return &ast.LiteralPattern{Value: lit}
	case lexer.TRUE, lexer.FALSE:
		lit := &ast.BoolLit{Base: ast.NewBase(p.cur.Pos), Value: p.cur.Type == lexer.TRUE}
		p.nextToken()
		return &ast.LiteralPattern{Value: lit}
	case lexer.NONE:
		lit := &ast.NoneLit{Base: ast.NewBase(p.cur.Pos)}
		p.nextToken()
		return &ast.LiteralPattern{Value: lit}
	case lexer.IDENT:
		name := p.cur.Literal
		p.nextToken()
		return &ast.BindingPattern{Name: name}
	case lexer.LBRACKET:
		return p.parseListPattern()
	case lexer.LBRACE:
		return p.parseDictPattern()
	}
	p.errorf(p.cur.Pos, "expected pattern, found %q", p.cur.Literal)
	return nil
}

// parseListPattern parses `[]`, `[a, b]`, or `[a, b, ..rest]`.
func (p *Parser) parseListPattern() ast.Pattern {
	p.nextToken() // consume '['
	var heads []ast.Pattern
	rest := ""

	for p.cur.Type != lexer.RBRACKET {
		if p.cur.Type == lexer.RANGE {
			p.nextToken()
			if !p.expect(lexer.IDENT, "tail binding name") {
				return nil
			}
			rest = p.cur.Literal
			p.nextToken()
			break
		}
		heads = append(heads, p.parsePattern())
		if p.cur.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(lexer.RBRACKET, "]") {
		return nil
	}
	p.nextToken()
	return &ast.ListPattern{Heads: heads, Rest: rest}
}

func (p *Parser) parseDictPattern() ast.Pattern {
	p.nextToken() // consume '{'
	var keys []string
	var pats []ast.Pattern

	for p.cur.Type != lexer.RBRACE {
		key, ok := p.parseDictKey()
		if !ok {
			return nil
		}
		var pat ast.Pattern = &ast.BindingPattern{Name: key}
		if p.cur.Type == lexer.COLON {
			p.nextToken()
			pat = p.parsePattern()
		}
		keys = append(keys, key)
		pats = append(pats, pat)
		if p.cur.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(lexer.RBRACE, "}") {
		return nil
	}
	p.nextToken()
	return &ast.DictPattern{Keys: keys, Patterns: pats}
}
