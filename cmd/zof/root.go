package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/copyleftdev/rootfinder/internal/config"
	"github.com/copyleftdev/rootfinder/internal/engine"
	"github.com/copyleftdev/rootfinder/internal/logging"
	"github.com/copyleftdev/rootfinder/internal/report"
	"github.com/copyleftdev/rootfinder/internal/rootfind"
)

// errReported marks a failure whose report is already on stdout.
var errReported = errors.New("solve failed")

type options struct {
	a, b     float64
	x0, x1   float64
	delta    float64
	df       string
	tol      float64
	maxIter  int
	output   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "zof <method> <expression>",
		Short: "Find a zero of f(x)",
		Long: `Find a zero of a function of one variable and print every iteration.

Methods and their seeds:
  bisection        --a --b    bracket with a sign change
  regula_falsi     --a --b    bracket with a sign change
  secant           --x0 --x1  two starting points
  newton           --x0       derivative from --df, or a central difference
  fixed_point      --x0       the expression is g(x) in x = g(x)
  modified_secant  --x0       perturbation fraction from --delta

Methods may also be given by menu number (1-6) or by alias.

Examples:
  zof bisection "x**3 - x - 2" --a 1 --b 2
  zof newton "cos(x) - x" --x0 1 --df "-sin(x) - 1"
  zof fixed_point "cos(x)" --x0 1 --tol 1e-8 -o json
  zof methods`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.a, "a", 0, "left end of the bracket")
	f.Float64Var(&opts.b, "b", 0, "right end of the bracket")
	f.Float64Var(&opts.x0, "x0", 0, "initial guess")
	f.Float64Var(&opts.x1, "x1", 0, "second initial guess (secant)")
	f.Float64Var(&opts.delta, "delta", 0, "perturbation fraction (modified secant, default from SOLVER_DELTA)")
	f.StringVar(&opts.df, "df", engine.DerivativeAuto, `derivative f'(x) for Newton-Raphson, or "auto"`)
	f.Float64Var(&opts.tol, "tol", 0, "stopping tolerance (default from SOLVER_TOLERANCE)")
	f.IntVar(&opts.maxIter, "max-iter", 0, "iteration cap (default from SOLVER_MAX_ITERATIONS)")

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.output, "output", "o", string(report.FormatTable), "output format: table or json")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level for diagnostics on stderr")

	cmd.AddCommand(newMethodsCmd(opts))
	return cmd
}

func newMethodsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the available methods and their seeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(opts.output)
			if err != nil {
				return err
			}
			return report.WriteMethods(cmd.OutOrStdout(), format)
		},
	}
}

func runSolve(cmd *cobra.Command, args []string, opts *options) error {
	m, err := rootfind.ParseMethod(args[0])
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(opts.output)
	if err != nil {
		return err
	}
	for _, seed := range m.Seeds() {
		if seed != "delta" && !cmd.Flags().Changed(seed) {
			return fmt.Errorf("%s requires --%s", m.Title(), seed)
		}
	}
	switch {
	case cmd.Flags().Changed("delta") && opts.delta == 0:
		return fmt.Errorf("--delta must be non-zero")
	case cmd.Flags().Changed("tol") && !(opts.tol > 0):
		return fmt.Errorf("--tol must be positive")
	case cmd.Flags().Changed("max-iter") && opts.maxIter < 1:
		return fmt.Errorf("--max-iter must be at least 1")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger, err := logging.NewLogger(&logging.Config{Level: opts.logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	eng := engine.New(cfg.EngineConfig(), logger, nil)
	res, err := eng.Solve(cmd.Context(), engine.Request{
		Method:        m,
		Expression:    args[1],
		Derivative:    opts.df,
		A:             opts.a,
		B:             opts.b,
		X0:            opts.x0,
		X1:            opts.x1,
		Delta:         opts.delta,
		Tolerance:     opts.tol,
		MaxIterations: opts.maxIter,
	})
	if err != nil {
		if werr := report.WriteError(cmd.OutOrStdout(), err, format); werr != nil {
			return werr
		}
		return errReported
	}
	return report.Write(cmd.OutOrStdout(), res, format)
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
