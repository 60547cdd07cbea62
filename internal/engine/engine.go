// Package engine is the solve orchestrator. It resolves defaults and limits,
// compiles the user expressions, dispatches to the selected method and
// records logs and metrics. It is the only entry point used by the shells.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/copyleftdev/rootfinder/internal/expr"
	"github.com/copyleftdev/rootfinder/internal/logging"
	"github.com/copyleftdev/rootfinder/internal/rootfind"
	"github.com/copyleftdev/rootfinder/internal/rootfind/bracketing"
	"github.com/copyleftdev/rootfinder/internal/rootfind/open"
)

// DerivativeAuto selects the central-difference derivative for Newton.
const DerivativeAuto = "auto"

// DefaultIterationLimit caps MaxIterations of a single request.
const DefaultIterationLimit = 10000

// Config holds the defaults and limits of an Engine.
type Config struct {
	Tolerance           float64
	MaxIterations       int
	Delta               float64
	IterationLimit      int
	MaxExpressionLength int
	DerivativeStep      float64
}

// DefaultConfig returns tolerance 1e-6, 50 iterations and delta 1e-3.
func DefaultConfig() Config {
	return Config{
		Tolerance:           rootfind.DefaultTolerance,
		MaxIterations:       rootfind.DefaultMaxIterations,
		Delta:               rootfind.DefaultDelta,
		IterationLimit:      DefaultIterationLimit,
		MaxExpressionLength: expr.DefaultMaxLength,
		DerivativeStep:      rootfind.DefaultDerivativeStep,
	}
}

// Request selects a method and carries its inputs. Only the seeds the method
// needs are read (see rootfind.Method.Seeds). Zero Tolerance, MaxIterations
// and Delta take the configured defaults.
type Request struct {
	Method     rootfind.Method `json:"method"`
	Expression string          `json:"expression"`
	// Derivative is f'(x) for Newton; "" or "auto" uses a central difference.
	Derivative    string  `json:"derivative,omitempty"`
	A             float64 `json:"a,omitempty"`
	B             float64 `json:"b,omitempty"`
	X0            float64 `json:"x0,omitempty"`
	X1            float64 `json:"x1,omitempty"`
	Delta         float64 `json:"delta,omitempty"`
	Tolerance     float64 `json:"tolerance,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`
}

// Engine runs solves. It holds no per-solve state and is safe for
// concurrent use.
type Engine struct {
	cfg     Config
	logger  *logging.Logger
	metrics *Metrics
}

// New creates an Engine. Unset fields of cfg take their defaults; logger and
// metrics may be nil.
func New(cfg Config, logger *logging.Logger, metrics *Metrics) *Engine {
	def := DefaultConfig()
	if !(cfg.Tolerance > 0) {
		cfg.Tolerance = def.Tolerance
	}
	if cfg.MaxIterations < 1 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.Delta == 0 {
		cfg.Delta = def.Delta
	}
	if cfg.IterationLimit < 1 {
		cfg.IterationLimit = def.IterationLimit
	}
	if cfg.MaxExpressionLength < 1 {
		cfg.MaxExpressionLength = def.MaxExpressionLength
	}
	if !(cfg.DerivativeStep > 0) {
		cfg.DerivativeStep = def.DerivativeStep
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{cfg: cfg, logger: logger, metrics: metrics}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

var defaultEngine = New(DefaultConfig(), nil, nil)

// Solve runs req on an engine with the default configuration.
func Solve(req Request) (*rootfind.Result, error) {
	return defaultEngine.Solve(context.Background(), req)
}

// Solve runs one solve. Failures are *rootfind.Error values; use errors.Is
// with the rootfind sentinels to classify them. A canceled ctx stops the run
// at the next function evaluation.
func (e *Engine) Solve(ctx context.Context, req Request) (*rootfind.Result, error) {
	start := time.Now()
	logger := logging.Ctx(ctx, e.logger).WithFields(map[string]interface{}{
		"solve_method": string(req.Method),
		"expression":   req.Expression,
	})
	logger.Debug("Solving")

	res, err := e.solve(ctx, req)

	elapsed := time.Since(start)
	label := "unknown"
	if m, perr := rootfind.ParseMethod(string(req.Method)); perr == nil {
		label = string(m)
	}
	outcome := Outcome(res, err)
	iterations := 0
	if res != nil {
		iterations = res.Iterations
	}
	e.metrics.observe(label, outcome, iterations, elapsed)

	fields := map[string]interface{}{
		"outcome":     outcome,
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	}
	switch {
	case err != nil:
		if solveErr, ok := rootfind.AsError(err); ok && solveErr.Iteration > 0 {
			fields["iteration"] = solveErr.Iteration
		}
		logger.WithError(err).Warn("Solve failed", fields)
	case !res.Converged:
		fields["iterations"] = res.Iterations
		fields["root"] = res.Root
		fields["error_bound"] = res.Error
		logger.Warn("Solve stopped at the iteration limit", fields)
	default:
		fields["iterations"] = res.Iterations
		fields["root"] = res.Root
		fields["error_bound"] = res.Error
		logger.Info("Solve converged", fields)
	}
	return res, err
}

func (e *Engine) solve(ctx context.Context, req Request) (*rootfind.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := rootfind.ParseMethod(string(req.Method))
	if err != nil {
		return nil, &rootfind.Error{Op: "select method", Err: err}
	}
	p, err := e.params(req)
	if err != nil {
		return nil, rootfind.WrapError(err, m, "validate parameters")
	}

	role := "f"
	if m == rootfind.FixedPoint {
		role = "g"
	}
	f, err := e.compile(ctx, m, role, req.Expression)
	if err != nil {
		return nil, err
	}

	switch m {
	case rootfind.Bisection:
		return bracketing.Bisection(f, req.A, req.B, p)
	case rootfind.RegulaFalsi:
		return bracketing.RegulaFalsi(f, req.A, req.B, p)
	case rootfind.Secant:
		return open.Secant(f, req.X0, req.X1, p)
	case rootfind.Newton:
		df, err := e.derivative(ctx, f, req.Derivative)
		if err != nil {
			return nil, err
		}
		return open.Newton(f, df, req.X0, p)
	case rootfind.FixedPoint:
		return open.FixedPoint(f, req.X0, p)
	case rootfind.ModifiedSecant:
		delta := req.Delta
		if delta == 0 {
			delta = e.cfg.Delta
		}
		return open.ModifiedSecant(f, req.X0, delta, p)
	}
	return nil, rootfind.NewError(m, "select method", rootfind.ErrInvalidParameters, "method is not supported")
}

// params applies the configured defaults and the iteration limit.
func (e *Engine) params(req Request) (rootfind.Params, error) {
	p := rootfind.Params{Tolerance: req.Tolerance, MaxIterations: req.MaxIterations}
	if p.Tolerance == 0 {
		p.Tolerance = e.cfg.Tolerance
	}
	if p.MaxIterations == 0 {
		p.MaxIterations = e.cfg.MaxIterations
	}
	if p.MaxIterations > e.cfg.IterationLimit {
		return p, fmt.Errorf("%w: max iterations %d exceeds the limit of %d",
			rootfind.ErrInvalidParameters, p.MaxIterations, e.cfg.IterationLimit)
	}
	return p, p.Validate()
}

func (e *Engine) compile(ctx context.Context, m rootfind.Method, role, src string) (rootfind.Func, error) {
	fn, err := expr.Compile(src, expr.WithMaxLength(e.cfg.MaxExpressionLength))
	if err != nil {
		return nil, rootfind.WrapError(err, m, "compile "+role)
	}
	return withContext(ctx, rootfind.FromExpr(fn)), nil
}

func (e *Engine) derivative(ctx context.Context, f rootfind.Func, src string) (rootfind.Func, error) {
	if s := strings.TrimSpace(src); s == "" || strings.EqualFold(s, DerivativeAuto) {
		return open.CentralDifference(f, e.cfg.DerivativeStep), nil
	}
	return e.compile(ctx, rootfind.Newton, "df", src)
}

// withContext makes f fail once ctx is done.
func withContext(ctx context.Context, f rootfind.Func) rootfind.Func {
	if ctx.Done() == nil {
		return f
	}
	return func(x float64) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return f(x)
	}
}

// Outcome names the result of a solve for metrics and logs: "converged",
// "exhausted", or the kind of failure.
func Outcome(res *rootfind.Result, err error) string {
	switch {
	case err == nil && res != nil && res.Converged:
		return "converged"
	case err == nil:
		return "exhausted"
	case errors.Is(err, rootfind.ErrInvalidExpression):
		return "invalid_expression"
	case errors.Is(err, rootfind.ErrInvalidParameters):
		return "invalid_parameters"
	case errors.Is(err, rootfind.ErrInvalidBracket):
		return "invalid_bracket"
	case errors.Is(err, rootfind.ErrEvaluation):
		return "evaluation_error"
	case errors.Is(err, rootfind.ErrZeroDerivative):
		return "zero_derivative"
	case errors.Is(err, rootfind.ErrZeroDenominator):
		return "zero_denominator"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
