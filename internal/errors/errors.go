// Package errors formats Avon's error taxonomy (spec.md §7) the way the
// source tree's error package formats compiler diagnostics: a one-line
// "Error: <kind>: <message> (at <line>:<col>)" header, with an optional
// source line and caret when the source text is available.
package errors

import (
	"fmt"
	"strings"

	"github.com/avon-lang/avon/internal/lexer"
)

// Kind is the error taxonomy named in spec.md §7. It is a label, not a Go
// type: every AvonError carries one.
type Kind string

const (
	SyntaxError            Kind = "SyntaxError"
	AbsolutePathNotAllowed Kind = "AbsolutePathNotAllowed"
	PathTraversal          Kind = "PathTraversal"
	PathEscape             Kind = "PathEscape"
	TypeMismatch           Kind = "TypeMismatch"
	NotCallable            Kind = "NotCallable"
	UnboundName            Kind = "UnboundName"
	MissingField           Kind = "MissingField"
	IndexOutOfRange        Kind = "IndexOutOfRange"
	DivisionByZero         Kind = "DivisionByZero"
	MatchFailed            Kind = "MatchFailed"
	AssertionFailed        Kind = "AssertionFailed"
	IoError                Kind = "IoError"
	FileExists             Kind = "FileExists"
	DeployPartial          Kind = "DeployPartial"
	NothingToDeploy        Kind = "NothingToDeploy"
)

// AvonError is a single diagnostic with the kind taxonomy, a human message,
// and (when available) the source span and source text needed to render a
// caret.
type AvonError struct {
	Kind    Kind
	Message string
	Pos     lexer.Position
	Source  string
	File    string
}

// New constructs an AvonError. Pos may be the zero Position when no span is
// available (e.g. an error raised by a host embedding the evaluator outside
// any parsed expression).
func New(kind Kind, pos lexer.Position, format string, args ...any) *AvonError {
	return &AvonError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func (e *AvonError) Error() string {
	return e.Format(false)
}

// Format renders the user-visible form spec.md §7 requires:
// "Error: <kind>: <human message> (at <line>:<col>)", with an optional
// source line + caret when source text was attached, and ANSI color when
// requested.
func (e *AvonError) Format(color bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("Error: %s: %s (at %d:%d)", e.Kind, e.Message, e.Pos.Line, e.Pos.Column)
	if color {
		sb.WriteString("\033[1;31m")
		sb.WriteString(header)
		sb.WriteString("\033[0m")
	} else {
		sb.WriteString(header)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		sb.WriteString("\n")
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+max(e.Pos.Column-1, 0)))
		sb.WriteString("^")
	}

	return sb.String()
}

func (e *AvonError) sourceLine(n int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
