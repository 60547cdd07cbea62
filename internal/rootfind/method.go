package rootfind

import (
	"fmt"
	"strings"
)

// Method selects one of the six root-finding algorithms.
type Method string

const (
	Bisection      Method = "bisection"
	RegulaFalsi    Method = "regula_falsi"
	Secant         Method = "secant"
	Newton         Method = "newton"
	FixedPoint     Method = "fixed_point"
	ModifiedSecant Method = "modified_secant"
)

// Methods returns all methods in menu order.
func Methods() []Method {
	return []Method{Bisection, RegulaFalsi, Secant, Newton, FixedPoint, ModifiedSecant}
}

var methodAliases = map[string]Method{
	"1":                     Bisection,
	"bisect":                Bisection,
	"2":                     RegulaFalsi,
	"false_position":        RegulaFalsi,
	"falsi":                 RegulaFalsi,
	"3":                     Secant,
	"4":                     Newton,
	"newton_raphson":        Newton,
	"5":                     FixedPoint,
	"fixed_point_iteration": FixedPoint,
	"6":                     ModifiedSecant,
}

// ParseMethod resolves a method from its canonical name, an alias or its
// menu number. Matching ignores case, and '-' or ' ' are read as '_'.
func ParseMethod(s string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	for _, m := range Methods() {
		if string(m) == key {
			return m, nil
		}
	}
	if m, ok := methodAliases[key]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown method %q", ErrInvalidParameters, s)
}

// Title is the human-readable name of the method.
func (m Method) Title() string {
	switch m {
	case Bisection:
		return "Bisection"
	case RegulaFalsi:
		return "Regula Falsi (False Position)"
	case Secant:
		return "Secant"
	case Newton:
		return "Newton-Raphson"
	case FixedPoint:
		return "Fixed Point Iteration"
	case ModifiedSecant:
		return "Modified Secant"
	}
	return string(m)
}

// Bracketing reports whether the method needs a sign-changing interval.
func (m Method) Bracketing() bool {
	return m == Bisection || m == RegulaFalsi
}

// Seeds lists the starting values the method needs besides the expression.
func (m Method) Seeds() []string {
	switch m {
	case Bisection, RegulaFalsi:
		return []string{"a", "b"}
	case Secant:
		return []string{"x0", "x1"}
	case Newton, FixedPoint:
		return []string{"x0"}
	case ModifiedSecant:
		return []string{"x0", "delta"}
	}
	return nil
}

func (m Method) String() string { return string(m) }
