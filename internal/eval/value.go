// Package eval implements Avon's tree-walking evaluator: the Value domain,
// the persistent Environment, and eval() itself.
package eval

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/avon-lang/avon/internal/ast"
)

// Value is the runtime value domain (spec.md §3): a tagged union over
// Number, String, Boolean, None, List, Dict, Path, Template, FileTemplate,
// and Function.
type Value interface {
	Type() string
	Display() string
}

// NumberValue is spec.md's Number variant: a single Go type carrying an
// IsInt sub-tag rather than two distinct Value variants, resolving the
// spec's Open Question in favor of "distinct internal representation
// preserved by operations."
type NumberValue struct {
	IsInt bool
	Int   *big.Int
	Float float64
}

func Int(v int64) *NumberValue    { return &NumberValue{IsInt: true, Int: big.NewInt(v)} }
func IntBig(v *big.Int) *NumberValue { return &NumberValue{IsInt: true, Int: v} }
func Float(v float64) *NumberValue { return &NumberValue{IsInt: false, Float: v} }

func (n *NumberValue) Type() string { return "Number" }

func (n *NumberValue) Display() string {
	if n.IsInt {
		return n.Int.String()
	}
	return strconv.FormatFloat(n.Float, 'g', -1, 64)
}

// AsFloat returns the value widened to float64 regardless of sub-tag.
func (n *NumberValue) AsFloat() float64 {
	if n.IsInt {
		f := new(big.Float).SetInt(n.Int)
		out, _ := f.Float64()
		return out
	}
	return n.Float
}

// StringValue is an immutable UTF-8 string.
type StringValue struct {
	Value string
}

func Str(s string) *StringValue { return &StringValue{Value: s} }

func (s *StringValue) Type() string    { return "String" }
func (s *StringValue) Display() string { return s.Value }

// BoolValue is true/false.
type BoolValue struct{ Value bool }

func Bool(b bool) *BoolValue { return &BoolValue{Value: b} }

func (b *BoolValue) Type() string { return "Boolean" }
func (b *BoolValue) Display() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// NoneValue is the terminal absent value.
type NoneValue struct{}

var None = &NoneValue{}

func (n *NoneValue) Type() string    { return "None" }
func (n *NoneValue) Display() string { return "none" }

// ListValue is an ordered, 0-indexed sequence. Element typing is not
// enforced.
type ListValue struct {
	Elements []Value
}

func List(vs ...Value) *ListValue { return &ListValue{Elements: vs} }

func (l *ListValue) Type() string { return "List" }
func (l *ListValue) Display() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.Display()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DictValue is an insertion-ordered mapping from distinct string keys to
// Values.
type DictValue struct {
	Keys   []string
	Values map[string]Value
}

func NewDict() *DictValue {
	return &DictValue{Values: make(map[string]Value)}
}

// Set inserts or overwrites key, preserving its original insertion position
// when the key already exists.
func (d *DictValue) Set(key string, v Value) {
	if _, exists := d.Values[key]; !exists {
		d.Keys = append(d.Keys, key)
	}
	d.Values[key] = v
}

func (d *DictValue) Get(key string) (Value, bool) {
	v, ok := d.Values[key]
	return v, ok
}

func (d *DictValue) Type() string { return "Dict" }
func (d *DictValue) Display() string {
	parts := make([]string, 0, len(d.Keys))
	for _, k := range d.Keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, d.Values[k].Display()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// PathValue is a sequence of non-empty, non-".." relative path components.
// Every Path ever produced by any Avon operation satisfies this by
// construction (spec.md invariant 1).
type PathValue struct {
	Segments []string
}

func (p *PathValue) Type() string    { return "Path" }
func (p *PathValue) Display() string { return strings.Join(p.Segments, "/") }

// TemplateValue is an unforced string template: literal chunks and
// expression placeholders, closed over the environment active at the
// template literal's source location. It is not a String; it becomes one
// only when Force is called.
type TemplateValue struct {
	Chunks []ast.TemplateChunk
	Env    *Environment
}

func (t *TemplateValue) Type() string    { return "Template" }
func (t *TemplateValue) Display() string { return "<template>" }

// Force evaluates every placeholder in the template's captured environment
// and concatenates chunks in order, per spec.md §4.3's template semantics:
// placeholder results are displayed and inserted verbatim, never re-lexed
// (the template-injection guarantee, spec.md invariant 5).
func (t *TemplateValue) Force() (*StringValue, *EvalError) {
	var sb strings.Builder
	for _, c := range t.Chunks {
		if c.Literal {
			sb.WriteString(c.Text)
			continue
		}
		v, err := Eval(c.Expr, t.Env)
		if err != nil {
			return nil, err
		}
		sb.WriteString(v.Display())
	}
	return Str(sb.String()), nil
}

// FileTemplateValue pairs a relative Path with a body that is either a
// String or a Template. It is the unit the deployment engine consumes.
type FileTemplateValue struct {
	Path    *PathValue
	Content Value // *StringValue or *TemplateValue
}

func (f *FileTemplateValue) Type() string { return "FileTemplate" }
func (f *FileTemplateValue) Display() string {
	return fmt.Sprintf("FileTemplate:\n  Path: %s\n  Content:\n%s", f.Path.Display(), indent(f.bodyPreview()))
}

func (f *FileTemplateValue) bodyPreview() string {
	switch c := f.Content.(type) {
	case *StringValue:
		return c.Value
	case *TemplateValue:
		if s, err := c.Force(); err == nil {
			return s.Value
		}
		return "<unforced template>"
	default:
		return c.Display()
	}
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

// FunctionValue is a closure: a single formal parameter, a body expression,
// and the environment captured at the lexical site of creation. Built-in
// functions are represented the same way, with Native set instead of Body,
// and support currying via Applied/Arity so a multi-argument builtin can be
// partially applied exactly like a user closure chain.
type FunctionValue struct {
	// User closure fields.
	Param string
	Body  ast.Expr
	Env   *Environment

	// Builtin fields.
	Name    string
	Native  NativeFunc
	Arity   int
	Applied []Value
}

// NativeFunc is the implementation of a built-in function: it receives the
// full, already-arity-checked argument list and a Context for path-guarded
// I/O and diagnostics.
type NativeFunc func(ctx *Context, args []Value) (Value, *EvalError)

func (f *FunctionValue) Type() string    { return "Function" }
func (f *FunctionValue) Display() string {
	if f.Native != nil {
		return fmt.Sprintf("<builtin %s>", f.Name)
	}
	return fmt.Sprintf("<function \\%s>", f.Param)
}

func (f *FunctionValue) isBuiltin() bool { return f.Native != nil }
