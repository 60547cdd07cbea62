// Package rootfind defines the contract shared by the root-finding methods:
// numeric functions, solver parameters, per-iteration records and results.
package rootfind

import (
	"fmt"
	"math"

	"github.com/copyleftdev/rootfinder/internal/expr"
)

// Defaults used by shells when a parameter is not specified.
const (
	DefaultTolerance      = 1e-6
	DefaultMaxIterations  = 50
	DefaultDelta          = 1e-3
	DefaultDerivativeStep = 1e-6
)

// Func is a real function of one real variable. It must be pure.
type Func func(x float64) (float64, error)

// FromExpr adapts a compiled expression to a Func.
func FromExpr(f *expr.Function) Func {
	return f.Eval
}

// Evaluate calls f at x and rejects non-finite input or output with
// ErrEvaluation. Solvers call functions only through Evaluate.
func Evaluate(f Func, x float64) (float64, error) {
	if !isFinite(x) {
		return 0, fmt.Errorf("%w: argument %g is not finite", ErrEvaluation, x)
	}
	v, err := f(x)
	if err != nil {
		return 0, err
	}
	if !isFinite(v) {
		return 0, fmt.Errorf("%w: f(%g) = %g is not finite", ErrEvaluation, x, v)
	}
	return v, nil
}

// Params are the parameters common to every method.
type Params struct {
	Tolerance     float64 `json:"tolerance"`
	MaxIterations int     `json:"max_iterations"`
}

// DefaultParams returns tolerance 1e-6 and 50 iterations.
func DefaultParams() Params {
	return Params{Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}
}

// Validate checks Tolerance > 0 and MaxIterations >= 1.
func (p Params) Validate() error {
	if !isFinite(p.Tolerance) || p.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be a positive number, got %g", ErrInvalidParameters, p.Tolerance)
	}
	if p.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalidParameters, p.MaxIterations)
	}
	return nil
}

// Result is the outcome of one solve. Iterations equals len(Log) and never
// exceeds MaxIterations. When Converged is false the cap was exhausted and
// Root is the last estimate.
type Result struct {
	Method        Method  `json:"method"`
	Root          float64 `json:"root"`
	Error         float64 `json:"error"`
	Iterations    int     `json:"iterations"`
	MaxIterations int     `json:"max_iterations"`
	Converged     bool    `json:"converged"`
	Log           Log     `json:"log"`
}

// Exhausted reports whether the run stopped on the iteration cap.
func (r *Result) Exhausted() bool {
	return !r.Converged && r.Iterations == r.MaxIterations
}

// NewResult builds a Result from the final state of a run.
func NewResult(m Method, p Params, root, errBound float64, converged bool, log Log) *Result {
	return &Result{
		Method:        m,
		Root:          root,
		Error:         errBound,
		Iterations:    len(log),
		MaxIterations: p.MaxIterations,
		Converged:     converged,
		Log:           log,
	}
}

// CheckSeed rejects non-finite starting values.
func CheckSeed(name string, v float64) error {
	if !isFinite(v) {
		return fmt.Errorf("%w: %s must be finite, got %g", ErrInvalidParameters, name, v)
	}
	return nil
}

// CheckIterate rejects an iterate that has left the finite reals.
func CheckIterate(v float64) error {
	if !isFinite(v) {
		return fmt.Errorf("%w: iterate %g is not finite", ErrEvaluation, v)
	}
	return nil
}

// CheckErrorBound rejects an error measure that overflowed, which happens
// when consecutive iterates lie near opposite ends of the float64 range.
func CheckErrorBound(v float64) error {
	if !isFinite(v) {
		return fmt.Errorf("%w: error bound %g is not finite", ErrEvaluation, v)
	}
	return nil
}

// OppositeSigns reports whether u and v are strictly of opposite sign.
func OppositeSigns(u, v float64) bool {
	return (u < 0 && v > 0) || (u > 0 && v < 0)
}

// SameSign reports whether u and v are strictly of the same sign.
func SameSign(u, v float64) bool {
	return (u < 0 && v < 0) || (u > 0 && v > 0)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
