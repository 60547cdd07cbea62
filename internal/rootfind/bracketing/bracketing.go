// Package bracketing implements the root-finding methods that keep a
// sign-changing interval [a, b] around the root: Bisection and Regula Falsi.
package bracketing

import (
	"math"

	"github.com/copyleftdev/rootfinder/internal/rootfind"
)

// bracket evaluates f at both endpoints and rejects intervals over which f
// does not change sign. An exact zero at either endpoint is accepted.
func bracket(m rootfind.Method, f rootfind.Func, a, b float64, p rootfind.Params) (fa, fb float64, err error) {
	if err := p.Validate(); err != nil {
		return 0, 0, rootfind.WrapError(err, m, "validate parameters")
	}
	if err := rootfind.CheckSeed("a", a); err != nil {
		return 0, 0, rootfind.WrapError(err, m, "validate parameters")
	}
	if err := rootfind.CheckSeed("b", b); err != nil {
		return 0, 0, rootfind.WrapError(err, m, "validate parameters")
	}

	if fa, err = rootfind.Evaluate(f, a); err != nil {
		return 0, 0, rootfind.WrapError(err, m, "evaluate f(a)")
	}
	if fb, err = rootfind.Evaluate(f, b); err != nil {
		return 0, 0, rootfind.WrapError(err, m, "evaluate f(b)")
	}
	if rootfind.SameSign(fa, fb) {
		return 0, 0, rootfind.NewError(m, "check bracket", rootfind.ErrInvalidBracket,
			"f(a) and f(b) must have opposite signs, got f(%g)=%g and f(%g)=%g", a, fa, b, fb)
	}
	return fa, fb, nil
}

// Bisection halves the bracket [a, b] until |f(c)| or the half-width drops
// below the tolerance. The half-width is halved on every iteration.
//
// When MaxIterations is exhausted the final midpoint and half-width are
// returned with Converged set to false.
func Bisection(f rootfind.Func, a, b float64, p rootfind.Params) (*rootfind.Result, error) {
	fa, fb, err := bracket(rootfind.Bisection, f, a, b, p)
	if err != nil {
		return nil, err
	}

	log := rootfind.NewLog(p)
	for i := 1; i <= p.MaxIterations; i++ {
		c := midpoint(a, b)
		fc, err := rootfind.Evaluate(f, c)
		if err != nil {
			return nil, rootfind.WrapError(err, rootfind.Bisection, "evaluate f(c)").At(i, log)
		}
		width := halfWidth(a, b)

		log = append(log, rootfind.BracketStep{I: i, A: a, B: b, C: c, FA: fa, FB: fb, FC: fc, Err: width})
		if math.Abs(fc) < p.Tolerance || width < p.Tolerance {
			return rootfind.NewResult(rootfind.Bisection, p, c, width, true, log), nil
		}

		if rootfind.OppositeSigns(fa, fc) {
			b, fb = c, fc
		} else {
			a, fa = c, fc
		}
	}
	return rootfind.NewResult(rootfind.Bisection, p, midpoint(a, b), halfWidth(a, b), false, log), nil
}

// midpoint and halfWidth halve before combining so that a bracket spanning
// most of the float64 range does not overflow.
func midpoint(a, b float64) float64 { return a/2 + b/2 }

func halfWidth(a, b float64) float64 { return math.Abs(b/2 - a/2) }

// RegulaFalsi replaces the midpoint of Bisection with the point where the
// chord through (a, f(a)) and (b, f(b)) crosses zero. It converges on
// |f(c)| only: one endpoint may stay fixed for many iterations, so the
// bracket width is not a usable error bound.
func RegulaFalsi(f rootfind.Func, a, b float64, p rootfind.Params) (*rootfind.Result, error) {
	fa, fb, err := bracket(rootfind.RegulaFalsi, f, a, b, p)
	if err != nil {
		return nil, err
	}

	log := rootfind.NewLog(p)
	c, fc := a, fa
	for i := 1; i <= p.MaxIterations; i++ {
		denom := fb - fa
		if denom == 0 {
			return nil, rootfind.NewError(rootfind.RegulaFalsi, "interpolate", rootfind.ErrZeroDenominator,
				"f(b) - f(a) = 0 on [%g, %g]", a, b).At(i, log)
		}
		c = (a*fb - b*fa) / denom
		if err := rootfind.CheckIterate(c); err != nil {
			return nil, rootfind.WrapError(err, rootfind.RegulaFalsi, "interpolate").At(i, log)
		}
		if fc, err = rootfind.Evaluate(f, c); err != nil {
			return nil, rootfind.WrapError(err, rootfind.RegulaFalsi, "evaluate f(c)").At(i, log)
		}
		residual := math.Abs(fc)

		log = append(log, rootfind.BracketStep{I: i, A: a, B: b, C: c, FA: fa, FB: fb, FC: fc, Err: residual})
		if residual < p.Tolerance {
			return rootfind.NewResult(rootfind.RegulaFalsi, p, c, residual, true, log), nil
		}

		if rootfind.OppositeSigns(fa, fc) {
			b, fb = c, fc
		} else {
			a, fa = c, fc
		}
	}
	return rootfind.NewResult(rootfind.RegulaFalsi, p, c, math.Abs(fc), false, log), nil
}
