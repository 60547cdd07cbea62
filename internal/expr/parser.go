package expr

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

// maxDepth bounds the nesting of parentheses and unary operators.
const maxDepth = 128

// parser is a recursive-descent parser over text/scanner tokens for the grammar
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("-" | "+") unary | power
//	power   = primary [ "**" unary ]
//	primary = number | name | name "(" expr { "," expr } ")" | "(" expr ")"
type parser struct {
	src     string
	s       scanner.Scanner
	tok     rune
	text    string
	offset  int
	depth   int
	scanErr *SyntaxError
}

func newParser(src string) *parser {
	p := &parser{src: src}
	p.s.Init(strings.NewReader(src))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.scanErr == nil {
			p.scanErr = p.errorAt(s.Pos().Offset, "%s", msg)
		}
	}
	p.next()
	return p
}

func (p *parser) errorAt(offset int, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Expr: p.src, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) errorf(format string, args ...interface{}) *SyntaxError {
	return p.errorAt(p.offset, format, args...)
}

// next advances to the following token, folding "**" into a single opPow.
func (p *parser) next() {
	p.tok = p.s.Scan()
	p.text = p.s.TokenText()
	p.offset = p.s.Position.Offset
	if p.tok == '*' && p.s.Peek() == '*' {
		p.s.Next()
		p.tok = opPow
		p.text = "**"
	}
}

func (p *parser) parse() (node, error) {
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.scanErr != nil {
		return nil, p.scanErr
	}
	if p.tok != scanner.EOF {
		return nil, p.unexpected()
	}
	return n, nil
}

func (p *parser) unexpected() *SyntaxError {
	if p.scanErr != nil {
		return p.scanErr
	}
	switch p.tok {
	case scanner.EOF:
		return p.errorf("unexpected end of expression")
	case '.':
		return p.errorf("attribute access is not allowed")
	case '^':
		return p.errorf("unexpected token %q (use ** for powers)", p.text)
	case '=':
		if p.s.Peek() == '=' {
			return p.errorf("comparison operators are not allowed")
		}
		return p.errorf("assignment is not allowed")
	case '<', '>':
		return p.errorf("comparison operators are not allowed")
	case '!':
		if p.s.Peek() == '=' {
			return p.errorf("comparison operators are not allowed")
		}
	}
	return p.errorf("unexpected token %q", p.text)
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok == '+' || p.tok == '-' {
		op := p.tok
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryOp{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok == '*' || p.tok == '/' {
		op := p.tok
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryOp{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, p.errorf("expression nested too deeply")
	}

	switch p.tok {
	case '-':
		p.next()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negate{arg: arg}, nil
	case '+':
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.tok != opPow {
		return base, nil
	}
	p.next()
	// The exponent may itself carry a sign and is right-associative.
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return binaryOp{op: opPow, left: base, right: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	switch p.tok {
	case scanner.Int, scanner.Float:
		v, err := parseNumber(p.text)
		if err != nil {
			return nil, p.errorf("invalid number %q", p.text)
		}
		p.next()
		return number(v), nil

	case scanner.Ident:
		return p.parseName()

	case '(':
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok != ')' {
			return nil, p.unexpected()
		}
		p.next()
		return inner, nil
	}
	return nil, p.unexpected()
}

func (p *parser) parseName() (node, error) {
	name, offset := p.text, p.offset
	p.next()

	if p.tok == '.' {
		return nil, p.errorf("attribute access is not allowed")
	}

	if p.tok != '(' {
		if name == "x" {
			return variable{}, nil
		}
		if v, ok := constants[name]; ok {
			return number(v), nil
		}
		if _, ok := functions[name]; ok {
			return nil, p.errorAt(offset, "function %q used without arguments", name)
		}
		return nil, p.errorAt(offset, "unknown identifier %q", name)
	}

	fn, ok := functions[name]
	if !ok {
		return nil, p.errorAt(offset, "call to unknown function %q", name)
	}
	p.next()

	var args []node
	if p.tok != ')' {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok != ',' {
				break
			}
			p.next()
		}
	}
	if p.tok != ')' {
		return nil, p.unexpected()
	}
	p.next()

	if len(args) < fn.minArgs || len(args) > fn.maxArgs {
		if fn.minArgs == fn.maxArgs {
			return nil, p.errorAt(offset, "%s() takes %d argument(s), got %d", name, fn.minArgs, len(args))
		}
		return nil, p.errorAt(offset, "%s() takes %d to %d arguments, got %d", name, fn.minArgs, fn.maxArgs, len(args))
	}
	return call{name: name, fn: fn, args: args}, nil
}

func parseNumber(text string) (float64, error) {
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v, nil
	}
	i, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, err
	}
	return float64(i), nil
}
