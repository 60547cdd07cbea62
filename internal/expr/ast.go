package expr

import (
	"fmt"
	"math"
)

// node is an element of the restricted syntax tree. The tree holds only
// numbers, the variable, arithmetic and whitelisted calls.
type node interface {
	eval(x float64) (float64, error)
}

// failure is an evaluation problem before it gets the source and point attached.
type failure string

func (f failure) Error() string { return string(f) }

func checked(v float64, what string) (float64, error) {
	if math.IsNaN(v) {
		return 0, failure(fmt.Sprintf("math domain error in %s", what))
	}
	if math.IsInf(v, 0) {
		return 0, failure(fmt.Sprintf("%s is not finite", what))
	}
	return v, nil
}

type number float64

func (n number) eval(float64) (float64, error) { return float64(n), nil }

type variable struct{}

func (variable) eval(x float64) (float64, error) { return x, nil }

type negate struct{ arg node }

func (n negate) eval(x float64) (float64, error) {
	v, err := n.arg.eval(x)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

// Operator codes of binaryOp. opPow stands for "**" and lies outside the
// range of both runes and text/scanner token classes.
const (
	opAdd rune = '+'
	opSub rune = '-'
	opMul rune = '*'
	opDiv rune = '/'
	opPow rune = -100
)

type binaryOp struct {
	op          rune
	left, right node
}

func (b binaryOp) eval(x float64) (float64, error) {
	l, err := b.left.eval(x)
	if err != nil {
		return 0, err
	}
	r, err := b.right.eval(x)
	if err != nil {
		return 0, err
	}
	switch b.op {
	case opAdd:
		return checked(l+r, "addition")
	case opSub:
		return checked(l-r, "subtraction")
	case opMul:
		return checked(l*r, "multiplication")
	case opDiv:
		if r == 0 {
			return 0, failure("division by zero")
		}
		return checked(l/r, "division")
	case opPow:
		if l == 0 && r < 0 {
			return 0, failure("zero raised to a negative power")
		}
		return checked(math.Pow(l, r), "exponentiation")
	}
	return 0, failure(fmt.Sprintf("unknown operator %d", b.op))
}

type call struct {
	name string
	fn   builtin
	args []node
}

func (c call) eval(x float64) (float64, error) {
	vals := make([]float64, len(c.args))
	for i, arg := range c.args {
		v, err := arg.eval(x)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}
	return checked(c.fn.fn(vals), c.name+"()")
}
