package rootfind

// Step is one entry of the iteration log. Each method family has its own
// concrete type; all of them expose the common accessors below.
type Step interface {
	// Iteration is the 1-based index of the step.
	Iteration() int
	// Estimate is the root estimate produced by the step.
	Estimate() float64
	// ErrorBound is the error measure the step tested against the tolerance.
	ErrorBound() float64
	// Fields lists the method-specific values in display order.
	Fields() []Field
}

// Field is a named value of a Step.
type Field struct {
	Name  string
	Value float64
}

// Log is the ordered, append-only sequence of steps of one run.
type Log []Step

// NewLog returns an empty log sized for p.
func NewLog(p Params) Log {
	n := p.MaxIterations
	if n > 64 {
		n = 64
	}
	return make(Log, 0, n)
}

// Columns returns the field names of the log's steps, or nil if it is empty.
func (l Log) Columns() []string {
	if len(l) == 0 {
		return nil
	}
	fields := l[0].Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// BracketStep is a Bisection or Regula Falsi iteration: the bracket [A,B],
// the new point C and the function values at all three.
type BracketStep struct {
	I   int     `json:"i"`
	A   float64 `json:"a"`
	B   float64 `json:"b"`
	C   float64 `json:"c"`
	FA  float64 `json:"fa"`
	FB  float64 `json:"fb"`
	FC  float64 `json:"fc"`
	Err float64 `json:"err"`
}

func (s BracketStep) Iteration() int      { return s.I }
func (s BracketStep) Estimate() float64   { return s.C }
func (s BracketStep) ErrorBound() float64 { return s.Err }
func (s BracketStep) Fields() []Field {
	return []Field{
		{"a", s.A}, {"b", s.B}, {"c", s.C},
		{"f(a)", s.FA}, {"f(b)", s.FB}, {"f(c)", s.FC},
		{"err", s.Err},
	}
}

// SecantStep is a Secant iteration from the window (X0, X1) to X2.
type SecantStep struct {
	I   int     `json:"i"`
	X0  float64 `json:"x0"`
	X1  float64 `json:"x1"`
	X2  float64 `json:"x2"`
	F0  float64 `json:"f0"`
	F1  float64 `json:"f1"`
	Err float64 `json:"err"`
}

func (s SecantStep) Iteration() int      { return s.I }
func (s SecantStep) Estimate() float64   { return s.X2 }
func (s SecantStep) ErrorBound() float64 { return s.Err }
func (s SecantStep) Fields() []Field {
	return []Field{
		{"x0", s.X0}, {"x1", s.X1}, {"x2", s.X2},
		{"f(x0)", s.F0}, {"f(x1)", s.F1},
		{"err", s.Err},
	}
}

// NewtonStep is a Newton-Raphson iteration.
type NewtonStep struct {
	I    int     `json:"i"`
	X    float64 `json:"x"`
	XNew float64 `json:"x_new"`
	FX   float64 `json:"fx"`
	DFX  float64 `json:"dfx"`
	Err  float64 `json:"err"`
}

func (s NewtonStep) Iteration() int      { return s.I }
func (s NewtonStep) Estimate() float64   { return s.XNew }
func (s NewtonStep) ErrorBound() float64 { return s.Err }
func (s NewtonStep) Fields() []Field {
	return []Field{
		{"x", s.X}, {"x_new", s.XNew},
		{"f(x)", s.FX}, {"f'(x)", s.DFX},
		{"err", s.Err},
	}
}

// FixedPointStep is an iteration x_new = g(x).
type FixedPointStep struct {
	I    int     `json:"i"`
	X    float64 `json:"x"`
	XNew float64 `json:"x_new"`
	Err  float64 `json:"err"`
}

func (s FixedPointStep) Iteration() int      { return s.I }
func (s FixedPointStep) Estimate() float64   { return s.XNew }
func (s FixedPointStep) ErrorBound() float64 { return s.Err }
func (s FixedPointStep) Fields() []Field {
	return []Field{{"x", s.X}, {"x_new", s.XNew}, {"err", s.Err}}
}

// ModifiedSecantStep is a Modified Secant iteration. FXPerturbed is
// f(x + delta*x).
type ModifiedSecantStep struct {
	I           int     `json:"i"`
	X           float64 `json:"x"`
	XNew        float64 `json:"x_new"`
	FX          float64 `json:"fx"`
	FXPerturbed float64 `json:"fx_perturbed"`
	Err         float64 `json:"err"`
}

func (s ModifiedSecantStep) Iteration() int      { return s.I }
func (s ModifiedSecantStep) Estimate() float64   { return s.XNew }
func (s ModifiedSecantStep) ErrorBound() float64 { return s.Err }
func (s ModifiedSecantStep) Fields() []Field {
	return []Field{
		{"x", s.X}, {"x_new", s.XNew},
		{"f(x)", s.FX}, {"f(x+dx)", s.FXPerturbed},
		{"err", s.Err},
	}
}
