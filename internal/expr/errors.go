package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidExpression is returned when an expression cannot be compiled:
	// bad syntax, an identifier outside the whitelist, or a disallowed construct.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrEvaluation is returned when a compiled expression fails at a point,
	// e.g. division by zero, a domain error or a non-finite result.
	ErrEvaluation = errors.New("evaluation error")
)

// SyntaxError describes a compile failure at a byte offset of the source.
type SyntaxError struct {
	Expr   string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("invalid expression %q: %s", e.Expr, e.Msg)
	}
	return fmt.Sprintf("invalid expression %q at offset %d: %s", e.Expr, e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrInvalidExpression }

// EvalError describes an evaluation failure of a compiled expression.
type EvalError struct {
	Expr string
	X    float64
	Msg  string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("error evaluating %q at x=%g: %s", e.Expr, e.X, e.Msg)
}

func (e *EvalError) Unwrap() error { return ErrEvaluation }
