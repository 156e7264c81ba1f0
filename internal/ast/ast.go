// Package ast defines Avon's expression tree. Avon has no statements: a
// whole program is one Expr that evaluates to a Value.
package ast

import (
	"math/big"

	"github.com/avon-lang/avon/internal/lexer"
)

// Expr is implemented by every expression node.
type Expr interface {
	Pos() lexer.Position
	exprNode()
}

type Base struct {
	pos lexer.Position
}

func (b Base) Pos() lexer.Position { return b.pos }
func (b Base) exprNode()           {}

// NumberLit is an integer or float literal.
type NumberLit struct {
	Base
	IsInt    bool
	IntVal   *big.Int
	FloatVal float64
}

func NewIntLit(pos lexer.Position, v *big.Int) *NumberLit {
	return &NumberLit{Base: Base{pos}, IsInt: true, IntVal: v}
}

func NewFloatLit(pos lexer.Position, v float64) *NumberLit {
	return &NumberLit{Base: Base{pos}, IsInt: false, FloatVal: v}
}

// StringLit is a double-quoted string literal with escapes already decoded.
type StringLit struct {
	Base
	Value string
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Base
	Value bool
}

// NoneLit is the literal `none`.
type NoneLit struct{ Base }

// Ident is a bare identifier reference.
type Ident struct {
	Base
	Name string
}

// Let is `let Name = Value in Body`. Name is not in scope within Value.
type Let struct {
	Base
	Name  string
	Value Expr
	Body  Expr
}

// Lambda is a single-parameter function literal `\Param Body`. Multi-param
// sugar is desugared by the parser into nested Lambdas.
type Lambda struct {
	Base
	Param string
	Body  Expr
}

// App is function application by juxtaposition: `Fn Arg`.
type App struct {
	Base
	Fn  Expr
	Arg Expr
}

// BinaryOp is a binary operator expression.
type BinaryOp struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

// UnaryOp is a unary operator expression (only `!` and unary `-`).
type UnaryOp struct {
	Base
	Op   string
	Expr Expr
}

// If is `if Cond then Then else Else`.
type If struct {
	Base
	Cond Expr
	Then Expr
	Else Expr
}

// Pattern is implemented by every match-arm pattern.
type Pattern interface {
	patternNode()
}

type basePattern struct{}

func (basePattern) patternNode() {}

// LiteralPattern matches when the subject equals Value exactly.
type LiteralPattern struct {
	basePattern
	Value Expr // NumberLit, StringLit, BoolLit, or NoneLit
}

// BindingPattern always matches and binds the subject to Name. Name "_"
// matches without binding.
type BindingPattern struct {
	basePattern
	Name string
}

// ListPattern destructures a list: the first len(Heads) elements bind
// positionally, and Rest (if non-empty) binds the remaining tail as a list.
// An empty list pattern with no Rest matches only the empty list.
type ListPattern struct {
	basePattern
	Heads []Pattern
	Rest  string // "" if there is no tail binding
}

// DictPattern matches a Dict that has every named key, binding each key's
// value to the pattern given for it.
type DictPattern struct {
	basePattern
	Keys     []string
	Patterns []Pattern
}

// MatchArm is one `pattern => expr` arm of a match expression.
type MatchArm struct {
	Pattern Pattern
	Body    Expr
}

// Match is `match Subject { arm, arm, ... }`.
type Match struct {
	Base
	Subject Expr
	Arms    []MatchArm
}

// ListLit is `[e1, e2, ...]`.
type ListLit struct {
	Base
	Elements []Expr
}

// RangeLit is the `[a..b]` sugar producing a list of integers a..b
// inclusive.
type RangeLit struct {
	Base
	From Expr
	To   Expr
}

// DictLit is `{k1: e1, k2: e2}`.
type DictLit struct {
	Base
	Keys   []string
	Values []Expr
}

// PathLit is `@a/b/c`, already validated relative and traversal-free by the
// lexer.
type PathLit struct {
	Base
	Segments []string
}

// TemplateChunk is one piece of a TemplateLit: either literal text, or an
// expression to splice in.
type TemplateChunk struct {
	Literal bool
	Text    string
	Expr    Expr
}

// TemplateLit is `{"...{expr}..."}`.
type TemplateLit struct {
	Base
	Chunks []TemplateChunk
}

// FieldAccess is `Target.Field`.
type FieldAccess struct {
	Base
	Target Expr
	Field  string
}

// Index is `Target[Index]`.
type Index struct {
	Base
	Target Expr
	Index  Expr
}

// NewBase is a helper for constructing the embedded Base from a
// Position, used by node constructors in the parser package.
func NewBase(pos lexer.Position) Base { return Base{pos} }
