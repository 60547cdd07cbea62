package open

import (
	"gonum.org/v1/gonum/diff/fd"

	"github.com/copyleftdev/rootfinder/internal/rootfind"
)

// CentralDifference returns the numerical derivative
//
//	df(x) = (f(x+h) - f(x-h)) / (2h)
//
// so that Newton can run without an analytic derivative. Every call evaluates
// f twice and the first evaluation failure is returned as the error of df.
// A non-positive h selects rootfind.DefaultDerivativeStep.
func CentralDifference(f rootfind.Func, h float64) rootfind.Func {
	if !(h > 0) {
		h = rootfind.DefaultDerivativeStep
	}
	settings := &fd.Settings{Formula: fd.Central, Step: h}

	return func(x float64) (float64, error) {
		var evalErr error
		d := fd.Derivative(func(x float64) float64 {
			if evalErr != nil {
				return 0
			}
			v, err := rootfind.Evaluate(f, x)
			if err != nil {
				evalErr = err
				return 0
			}
			return v
		}, x, settings)
		if evalErr != nil {
			return 0, evalErr
		}
		return d, nil
	}
}
