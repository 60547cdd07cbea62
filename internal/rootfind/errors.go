package rootfind

import (
	"errors"
	"fmt"

	"github.com/copyleftdev/rootfinder/internal/expr"
)

// Error kinds. Use errors.Is against these to classify a failed solve.
var (
	// ErrInvalidExpression: the expression could not be compiled.
	ErrInvalidExpression = expr.ErrInvalidExpression
	// ErrEvaluation: a function failed or produced a non-finite value.
	ErrEvaluation = expr.ErrEvaluation
	// ErrInvalidBracket: f(a) and f(b) are strictly of the same sign.
	ErrInvalidBracket = errors.New("invalid bracket")
	// ErrZeroDerivative: Newton-Raphson met f'(x) == 0.
	ErrZeroDerivative = errors.New("zero derivative")
	// ErrZeroDenominator: a secant-type step divided by zero.
	ErrZeroDenominator = errors.New("zero denominator")
	// ErrInvalidParameters: tolerance, iteration cap, seeds or method are invalid.
	ErrInvalidParameters = errors.New("invalid parameters")
)

// Error is a failed solve with the method, the operation and the iteration
// where it happened. Log holds the iterations completed before the failure.
type Error struct {
	// Method is the algorithm that failed.
	Method Method
	// Op is the operation that failed, e.g. "check bracket".
	Op string
	// Iteration is the 1-based iteration that failed, 0 if before the loop.
	Iteration int
	// Message describes the failure.
	Message string
	// Err is the underlying error, one of the kinds above or wrapping one.
	Err error
	// Log holds the completed iterations.
	Log Log
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	prefix := string(e.Method)
	if e.Op != "" {
		if prefix != "" {
			prefix += ": "
		}
		prefix += e.Op
	}
	if e.Iteration > 0 {
		prefix = fmt.Sprintf("%s (iteration %d)", prefix, e.Iteration)
	}

	msg := e.Message
	if e.Err != nil {
		if msg != "" {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		} else {
			msg = e.Err.Error()
		}
	}
	if prefix == "" {
		return msg
	}
	return prefix + ": " + msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError creates an Error of the given kind.
func NewError(m Method, op string, kind error, format string, args ...interface{}) *Error {
	return &Error{
		Method:  m,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
		Err:     kind,
	}
}

// WrapError attaches method and operation context to err.
// If err is nil, WrapError returns nil.
func WrapError(err error, m Method, op string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Method: m, Op: op, Err: err}
}

// At records the failing iteration and the log accumulated so far.
func (e *Error) At(iteration int, log Log) *Error {
	e.Iteration = iteration
	e.Log = log
	return e
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
