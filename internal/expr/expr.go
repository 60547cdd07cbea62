// Package expr compiles user-typed mathematical expressions in one variable x
// into callable numeric functions.
//
// The accepted language is a closed grammar: numbers, the variable x, the
// operators + - * / ** with parentheses and unary signs, and calls to a fixed
// whitelist of math functions and constants. Expressions are parsed into a
// small syntax tree that is interpreted directly, so there is no path from
// user text to code execution.
package expr

import (
	"errors"
	"strings"
)

// DefaultMaxLength is the longest source accepted by Compile unless
// overridden with WithMaxLength.
const DefaultMaxLength = 1024

type options struct {
	maxLength int
}

// Option configures Compile.
type Option func(*options)

// WithMaxLength sets the maximum accepted source length in bytes.
// Values <= 0 keep the default.
func WithMaxLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLength = n
		}
	}
}

// Function is a compiled expression f(x). It holds no mutable state and is
// safe for concurrent use.
type Function struct {
	src  string
	root node
}

// Compile parses src into a Function. All failures wrap ErrInvalidExpression.
func Compile(src string, opts ...Option) (*Function, error) {
	o := options{maxLength: DefaultMaxLength}
	for _, opt := range opts {
		opt(&o)
	}

	src = strings.TrimSpace(src)
	if src == "" {
		return nil, &SyntaxError{Expr: src, Offset: -1, Msg: "empty expression"}
	}
	if len(src) > o.maxLength {
		return nil, &SyntaxError{Expr: truncate(src, 32), Offset: -1, Msg: "expression too long"}
	}

	root, err := newParser(src).parse()
	if err != nil {
		return nil, err
	}
	return &Function{src: src, root: root}, nil
}

// MustCompile is like Compile but panics on error. Intended for literals.
func MustCompile(src string) *Function {
	f, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return f
}

// Eval evaluates the expression at x. Failures are *EvalError values
// wrapping ErrEvaluation.
func (f *Function) Eval(x float64) (float64, error) {
	v, err := f.root.eval(x)
	if err != nil {
		var fail failure
		if errors.As(err, &fail) {
			return 0, &EvalError{Expr: f.src, X: x, Msg: string(fail)}
		}
		return 0, err
	}
	return v, nil
}

// String returns the normalized source of the expression.
func (f *Function) String() string { return f.src }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
