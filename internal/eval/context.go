package eval

import (
	"fmt"
	"io"
	"os"
)

// Context is threaded through every builtin call. It carries the
// diagnostic stream (trace/debug) and the base directory I/O builtins
// resolve relative paths against, per spec.md §4.6's ReadPath/ReadString
// resolution.
type Context struct {
	Output  io.Writer
	BaseDir string
}

// NewContext returns a Context writing diagnostics to os.Stderr and
// resolving I/O against the current working directory, the default a host
// embedding the evaluator gets unless it overrides them.
func NewContext() *Context {
	wd, _ := os.Getwd()
	return &Context{Output: os.Stderr, BaseDir: wd}
}

// Trace implements the `trace label v` built-in's side effect.
func (c *Context) Trace(label string, v Value) {
	fmt.Fprintf(c.Output, "[TRACE] %s: %s\n", label, v.Display())
}

// Debug implements the `debug v` built-in's side effect.
func (c *Context) Debug(v Value) {
	fmt.Fprintf(c.Output, "[DEBUG] %s\n", v.Display())
}
