// Package avon is the embedding API for the Avon language: parse a
// program, evaluate it to a Value, or evaluate and deploy it to disk.
//
// Grounded on the functional-options Engine shape the pack's go-dws
// exposes at pkg/dwscript (New(opts...) *Engine, engine.Compile/Eval),
// carried over from its test suite's observed call shape — go-dws's own
// pkg/dwscript implementation file was not part of this retrieval, only
// its tests, so the options below are designed fresh for Avon's actual
// operations (Eval, Deploy, Preview) rather than copied.
package avon

import (
	"io"
	"os"

	"github.com/avon-lang/avon/internal/ast"
	"github.com/avon-lang/avon/internal/builtins"
	"github.com/avon-lang/avon/internal/deploy"
	avonerrors "github.com/avon-lang/avon/internal/errors"
	"github.com/avon-lang/avon/internal/eval"
	"github.com/avon-lang/avon/internal/lexer"
	"github.com/avon-lang/avon/internal/parser"
)

func init() {
	// import built-ins evaluate another source file by recursing through
	// this package's own parse+eval pipeline. internal/builtins does not
	// import internal/parser itself, so the evaluator is installed here,
	// the one place that imports both.
	builtins.SetImportEvaluator(func(ctx *eval.Context, src, path string) (eval.Value, *eval.EvalError) {
		expr, perr := parser.ParseExpr(src)
		if perr != nil {
			return nil, toEvalError(perr)
		}
		env := eval.NewEnvironment()
		env = builtins.Bind(builtins.NewStandardRegistry(), env, ctx)
		return eval.EvalCtx(expr, env, ctx)
	})
}

// Engine evaluates and deploys Avon programs with a fixed set of host
// options (base directory, diagnostic stream, extra bindings).
type Engine struct {
	baseDir  string
	output   io.Writer
	registry *builtins.Registry
	globals  map[string]eval.Value
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithBaseDir sets the directory the I/O built-ins resolve relative paths
// against. Defaults to the current working directory. It does not affect
// deploy.Policy.Root, which is used as given: a relative Root resolves
// against the process's working directory.
func WithBaseDir(dir string) Option {
	return func(e *Engine) { e.baseDir = dir }
}

// WithOutput sets the stream trace/debug built-ins write diagnostics to.
// Defaults to os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.output = w }
}

// WithGlobal binds an additional name into every program's top-level
// environment, ahead of evaluation — the mechanism deploy parameter
// bindings (spec.md §4.5 "parameter binding") are layered on top of.
func WithGlobal(name string, v eval.Value) Option {
	return func(e *Engine) {
		if e.globals == nil {
			e.globals = make(map[string]eval.Value)
		}
		e.globals[name] = v
	}
}

// WithRegistry overrides the built-in function registry, letting an
// embedder add or omit built-ins. Defaults to builtins.NewStandardRegistry().
func WithRegistry(r *builtins.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// New constructs an Engine with the given options applied over sensible
// defaults.
func New(opts ...Option) *Engine {
	wd, _ := os.Getwd()
	e := &Engine{
		baseDir:  wd,
		output:   os.Stderr,
		registry: builtins.NewStandardRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse parses src without evaluating it.
func (e *Engine) Parse(src string) (ast.Expr, *eval.EvalError) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, toEvalError(err)
	}
	return expr, nil
}

// toEvalError adapts an error from ParseExpr into the AvonError taxonomy
// as a SyntaxError. A parser.ParseError keeps its position; a lexical
// error, which ParseExpr returns as a plain error carrying the lexer's
// message, is reported with a zero Position.
func toEvalError(err error) *eval.EvalError {
	if pe, ok := err.(parser.ParseError); ok {
		return avonerrors.New(avonerrors.SyntaxError, pe.Pos, "%s", pe.Message)
	}
	return avonerrors.New(avonerrors.SyntaxError, lexer.Position{}, "%v", err)
}

func (e *Engine) rootEnv(ctx *eval.Context) *eval.Environment {
	env := eval.NewEnvironment()
	env = builtins.Bind(e.registry, env, ctx)
	for name, v := range e.globals {
		env = env.Extend(name, v)
	}
	return env
}

func (e *Engine) context() *eval.Context {
	return &eval.Context{Output: e.output, BaseDir: e.baseDir}
}

// Eval parses and evaluates src, returning its resulting Value.
func (e *Engine) Eval(src string) (eval.Value, *eval.EvalError) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, toEvalError(err)
	}
	ctx := e.context()
	return eval.EvalCtx(expr, e.rootEnv(ctx), ctx)
}

// Deploy parses, evaluates, and writes src's result to disk under policy.
func (e *Engine) Deploy(src string, policy deploy.Policy) (deploy.Result, *eval.EvalError) {
	v, err := e.Eval(src)
	if err != nil {
		return deploy.Result{}, err
	}
	plan, err := deploy.Discover(v)
	if err != nil {
		return deploy.Result{}, err
	}
	return deploy.Write(plan, policy)
}

// PreviewDeploy parses and evaluates src, then renders what Deploy would
// write without touching disk.
func (e *Engine) PreviewDeploy(src string, policy deploy.Policy) ([]deploy.PreviewEntry, *eval.EvalError) {
	v, err := e.Eval(src)
	if err != nil {
		return nil, err
	}
	plan, err := deploy.Discover(v)
	if err != nil {
		return nil, err
	}
	return deploy.Preview(plan, policy)
}
