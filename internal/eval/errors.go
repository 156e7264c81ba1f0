package eval

import (
	avonerrors "github.com/avon-lang/avon/internal/errors"
	"github.com/avon-lang/avon/internal/lexer"
)

// EvalError is the evaluator's error type; it is just an AvonError, kept as
// a distinct name in this package so call sites read as eval-specific.
type EvalError = avonerrors.AvonError

func newErr(kind avonerrors.Kind, pos lexer.Position, format string, args ...any) *EvalError {
	return avonerrors.New(kind, pos, format, args...)
}
