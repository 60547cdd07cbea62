package expr

import (
	"math"
	"sort"
)

// builtin is a whitelisted real-valued function.
type builtin struct {
	minArgs int
	maxArgs int
	fn      func(args []float64) float64
}

func unary(f func(float64) float64) builtin {
	return builtin{minArgs: 1, maxArgs: 1, fn: func(a []float64) float64 { return f(a[0]) }}
}

func binary(f func(float64, float64) float64) builtin {
	return builtin{minArgs: 2, maxArgs: 2, fn: func(a []float64) float64 { return f(a[0], a[1]) }}
}

// constants and functions are the complete set of names an expression may
// reference besides the variable. Both tables are built once and only read.
var (
	constants = map[string]float64{
		"pi":  math.Pi,
		"e":   math.E,
		"tau": 2 * math.Pi,
	}

	functions = map[string]builtin{
		"sin":   unary(math.Sin),
		"cos":   unary(math.Cos),
		"tan":   unary(math.Tan),
		"asin":  unary(math.Asin),
		"acos":  unary(math.Acos),
		"atan":  unary(math.Atan),
		"atan2": binary(math.Atan2),
		"sinh":  unary(math.Sinh),
		"cosh":  unary(math.Cosh),
		"tanh":  unary(math.Tanh),
		"asinh": unary(math.Asinh),
		"acosh": unary(math.Acosh),
		"atanh": unary(math.Atanh),
		"exp":   unary(math.Exp),
		"exp2":  unary(math.Exp2),
		"expm1": unary(math.Expm1),
		"log": {minArgs: 1, maxArgs: 2, fn: func(a []float64) float64 {
			if len(a) == 2 {
				return math.Log(a[0]) / math.Log(a[1])
			}
			return math.Log(a[0])
		}},
		"log2":     unary(math.Log2),
		"log10":    unary(math.Log10),
		"log1p":    unary(math.Log1p),
		"sqrt":     unary(math.Sqrt),
		"cbrt":     unary(math.Cbrt),
		"pow":      binary(math.Pow),
		"abs":      unary(math.Abs),
		"fabs":     unary(math.Abs),
		"floor":    unary(math.Floor),
		"ceil":     unary(math.Ceil),
		"trunc":    unary(math.Trunc),
		"hypot":    binary(math.Hypot),
		"degrees":  unary(func(x float64) float64 { return x * 180 / math.Pi }),
		"radians":  unary(func(x float64) float64 { return x * math.Pi / 180 }),
		"copysign": binary(math.Copysign),
		"fmod":     binary(math.Mod),
		"erf":      unary(math.Erf),
		"erfc":     unary(math.Erfc),
		"gamma":    unary(math.Gamma),
		"lgamma": unary(func(x float64) float64 {
			v, _ := math.Lgamma(x)
			return v
		}),
	}
)

// Names returns the sorted whitelist of constants and functions.
func Names() (consts, funcs []string) {
	for name := range constants {
		consts = append(consts, name)
	}
	for name := range functions {
		funcs = append(funcs, name)
	}
	sort.Strings(consts)
	sort.Strings(funcs)
	return consts, funcs
}
