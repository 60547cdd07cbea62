// Package open implements the open root-finding methods, which iterate from
// one or two starting guesses without maintaining a bracket: Secant,
// Newton-Raphson, Fixed-Point iteration and Modified Secant.
//
// None of them is guaranteed to converge. Every loop stops after
// Params.MaxIterations steps and returns the last estimate with Converged
// set to false.
package open

import (
	"math"

	"github.com/copyleftdev/rootfinder/internal/rootfind"
)

func validate(m rootfind.Method, p rootfind.Params, seeds map[string]float64) error {
	if err := p.Validate(); err != nil {
		return rootfind.WrapError(err, m, "validate parameters")
	}
	for name, v := range seeds {
		if err := rootfind.CheckSeed(name, v); err != nil {
			return rootfind.WrapError(err, m, "validate parameters")
		}
	}
	return nil
}

// Secant advances the window (x0, x1) with
//
//	x2 = x1 - f(x1)*(x1-x0)/(f(x1)-f(x0))
//
// until |x2-x1| < tolerance. It fails with ErrZeroDenominator when
// f(x1) == f(x0).
func Secant(f rootfind.Func, x0, x1 float64, p rootfind.Params) (*rootfind.Result, error) {
	if err := validate(rootfind.Secant, p, map[string]float64{"x0": x0, "x1": x1}); err != nil {
		return nil, err
	}

	f0, err := rootfind.Evaluate(f, x0)
	if err != nil {
		return nil, rootfind.WrapError(err, rootfind.Secant, "evaluate f(x0)")
	}
	f1, err := rootfind.Evaluate(f, x1)
	if err != nil {
		return nil, rootfind.WrapError(err, rootfind.Secant, "evaluate f(x1)")
	}

	log := rootfind.NewLog(p)
	for i := 1; i <= p.MaxIterations; i++ {
		if f1 == f0 {
			return nil, rootfind.NewError(rootfind.Secant, "step", rootfind.ErrZeroDenominator,
				"f(x1) - f(x0) = 0 at x0=%g, x1=%g", x0, x1).At(i, log)
		}
		x2 := x1 - f1*(x1-x0)/(f1-f0)
		if err := rootfind.CheckIterate(x2); err != nil {
			return nil, rootfind.WrapError(err, rootfind.Secant, "step").At(i, log)
		}
		delta := math.Abs(x2 - x1)
		if err := rootfind.CheckErrorBound(delta); err != nil {
			return nil, rootfind.WrapError(err, rootfind.Secant, "step").At(i, log)
		}

		log = append(log, rootfind.SecantStep{I: i, X0: x0, X1: x1, X2: x2, F0: f0, F1: f1, Err: delta})
		if delta < p.Tolerance {
			return rootfind.NewResult(rootfind.Secant, p, x2, delta, true, log), nil
		}
		if i == p.MaxIterations {
			// f(x2) is never needed past the cap.
			x0, x1 = x1, x2
			break
		}

		f2, err := rootfind.Evaluate(f, x2)
		if err != nil {
			return nil, rootfind.WrapError(err, rootfind.Secant, "evaluate f(x2)").At(i+1, log)
		}
		x0, f0, x1, f1 = x1, f1, x2, f2
	}
	return rootfind.NewResult(rootfind.Secant, p, x1, math.Abs(x1-x0), false, log), nil
}

// Newton iterates x_new = x - f(x)/df(x) until |x_new-x| < tolerance.
// It fails with ErrZeroDerivative when df(x) == 0. See CentralDifference
// for a df that needs no analytic derivative.
func Newton(f, df rootfind.Func, x0 float64, p rootfind.Params) (*rootfind.Result, error) {
	if err := validate(rootfind.Newton, p, map[string]float64{"x0": x0}); err != nil {
		return nil, err
	}

	log := rootfind.NewLog(p)
	x, delta := x0, math.Inf(1)
	for i := 1; i <= p.MaxIterations; i++ {
		fx, err := rootfind.Evaluate(f, x)
		if err != nil {
			return nil, rootfind.WrapError(err, rootfind.Newton, "evaluate f(x)").At(i, log)
		}
		dfx, err := rootfind.Evaluate(df, x)
		if err != nil {
			return nil, rootfind.WrapError(err, rootfind.Newton, "evaluate f'(x)").At(i, log)
		}
		if dfx == 0 {
			return nil, rootfind.NewError(rootfind.Newton, "step", rootfind.ErrZeroDerivative,
				"f'(%g) = 0", x).At(i, log)
		}

		xNew := x - fx/dfx
		if err := rootfind.CheckIterate(xNew); err != nil {
			return nil, rootfind.WrapError(err, rootfind.Newton, "step").At(i, log)
		}
		delta = math.Abs(xNew - x)
		if err := rootfind.CheckErrorBound(delta); err != nil {
			return nil, rootfind.WrapError(err, rootfind.Newton, "step").At(i, log)
		}

		log = append(log, rootfind.NewtonStep{I: i, X: x, XNew: xNew, FX: fx, DFX: dfx, Err: delta})
		if delta < p.Tolerance {
			return rootfind.NewResult(rootfind.Newton, p, xNew, delta, true, log), nil
		}
		x = xNew
	}
	return rootfind.NewResult(rootfind.Newton, p, x, delta, false, log), nil
}

// FixedPoint iterates x_new = g(x) until |x_new-x| < tolerance. g is expected
// to be a rearrangement of f(x) = 0 as x = g(x); whether it contracts near
// the root is not checked, and a diverging g runs until the iteration cap.
func FixedPoint(g rootfind.Func, x0 float64, p rootfind.Params) (*rootfind.Result, error) {
	if err := validate(rootfind.FixedPoint, p, map[string]float64{"x0": x0}); err != nil {
		return nil, err
	}

	log := rootfind.NewLog(p)
	x, delta := x0, math.Inf(1)
	for i := 1; i <= p.MaxIterations; i++ {
		xNew, err := rootfind.Evaluate(g, x)
		if err != nil {
			return nil, rootfind.WrapError(err, rootfind.FixedPoint, "evaluate g(x)").At(i, log)
		}
		delta = math.Abs(xNew - x)
		if err := rootfind.CheckErrorBound(delta); err != nil {
			return nil, rootfind.WrapError(err, rootfind.FixedPoint, "step").At(i, log)
		}

		log = append(log, rootfind.FixedPointStep{I: i, X: x, XNew: xNew, Err: delta})
		if delta < p.Tolerance {
			return rootfind.NewResult(rootfind.FixedPoint, p, xNew, delta, true, log), nil
		}
		x = xNew
	}
	return rootfind.NewResult(rootfind.FixedPoint, p, x, delta, false, log), nil
}

// ModifiedSecant replaces the derivative of Newton's method with the
// relative finite difference (f(x+delta*x) - f(x)) / (delta*x):
//
//	x_new = x - delta*x*f(x) / (f(x+delta*x) - f(x))
//
// It fails with ErrZeroDenominator when the difference vanishes, which
// always happens at x == 0 where the perturbation collapses.
func ModifiedSecant(f rootfind.Func, x0, delta float64, p rootfind.Params) (*rootfind.Result, error) {
	if err := validate(rootfind.ModifiedSecant, p, map[string]float64{"x0": x0, "delta": delta}); err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, rootfind.NewError(rootfind.ModifiedSecant, "validate parameters", rootfind.ErrInvalidParameters,
			"delta must be non-zero")
	}

	log := rootfind.NewLog(p)
	x, step := x0, math.Inf(1)
	for i := 1; i <= p.MaxIterations; i++ {
		fx, err := rootfind.Evaluate(f, x)
		if err != nil {
			return nil, rootfind.WrapError(err, rootfind.ModifiedSecant, "evaluate f(x)").At(i, log)
		}
		fxp, err := rootfind.Evaluate(f, x+delta*x)
		if err != nil {
			return nil, rootfind.WrapError(err, rootfind.ModifiedSecant, "evaluate f(x+delta*x)").At(i, log)
		}
		denom := fxp - fx
		if denom == 0 {
			return nil, rootfind.NewError(rootfind.ModifiedSecant, "step", rootfind.ErrZeroDenominator,
				"f(x+delta*x) - f(x) = 0 at x=%g", x).At(i, log)
		}

		xNew := x - delta*x*fx/denom
		if err := rootfind.CheckIterate(xNew); err != nil {
			return nil, rootfind.WrapError(err, rootfind.ModifiedSecant, "step").At(i, log)
		}
		step = math.Abs(xNew - x)
		if err := rootfind.CheckErrorBound(step); err != nil {
			return nil, rootfind.WrapError(err, rootfind.ModifiedSecant, "step").At(i, log)
		}

		log = append(log, rootfind.ModifiedSecantStep{I: i, X: x, XNew: xNew, FX: fx, FXPerturbed: fxp, Err: step})
		if step < p.Tolerance {
			return rootfind.NewResult(rootfind.ModifiedSecant, p, xNew, step, true, log), nil
		}
		x = xNew
	}
	return rootfind.NewResult(rootfind.ModifiedSecant, p, x, step, false, log), nil
}
