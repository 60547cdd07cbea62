// Package config loads the process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/copyleftdev/rootfinder/internal/engine"
	"github.com/copyleftdev/rootfinder/internal/logging"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
		MaxBodyBytes    int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"65536"`
		RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"10s"`
	}
	Logging logging.Config
	Solver  struct {
		Tolerance           float64 `env:"SOLVER_TOLERANCE" envDefault:"1e-6"`
		MaxIterations       int     `env:"SOLVER_MAX_ITERATIONS" envDefault:"50"`
		Delta               float64 `env:"SOLVER_DELTA" envDefault:"1e-3"`
		IterationLimit      int     `env:"SOLVER_ITERATION_LIMIT" envDefault:"10000"`
		MaxExpressionLength int     `env:"SOLVER_MAX_EXPRESSION_LENGTH" envDefault:"1024"`
	}
	History struct {
		Size int `env:"SOLVE_HISTORY_SIZE" envDefault:"256"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}

	// Parse environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Debug logging by default in development
	if cfg.Environment == "development" && GetEnv("LOG_LEVEL", "") == "" {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the solver and server cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.HTTP.Port < 0 || c.HTTP.Port > 65535:
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTP.Port)
	case c.HTTP.MaxBodyBytes <= 0:
		return fmt.Errorf("HTTP_MAX_BODY_BYTES must be positive, got %d", c.HTTP.MaxBodyBytes)
	case !(c.Solver.Tolerance > 0):
		return fmt.Errorf("SOLVER_TOLERANCE must be positive, got %g", c.Solver.Tolerance)
	case c.Solver.MaxIterations < 1:
		return fmt.Errorf("SOLVER_MAX_ITERATIONS must be at least 1, got %d", c.Solver.MaxIterations)
	case c.Solver.Delta == 0:
		return fmt.Errorf("SOLVER_DELTA must be non-zero")
	case c.Solver.IterationLimit < c.Solver.MaxIterations:
		return fmt.Errorf("SOLVER_ITERATION_LIMIT (%d) is below SOLVER_MAX_ITERATIONS (%d)",
			c.Solver.IterationLimit, c.Solver.MaxIterations)
	case c.Solver.MaxExpressionLength < 1:
		return fmt.Errorf("SOLVER_MAX_EXPRESSION_LENGTH must be positive, got %d", c.Solver.MaxExpressionLength)
	case c.History.Size < 1:
		return fmt.Errorf("SOLVE_HISTORY_SIZE must be positive, got %d", c.History.Size)
	}
	return nil
}

// EngineConfig maps the solver section onto the engine configuration.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		Tolerance:           c.Solver.Tolerance,
		MaxIterations:       c.Solver.MaxIterations,
		Delta:               c.Solver.Delta,
		IterationLimit:      c.Solver.IterationLimit,
		MaxExpressionLength: c.Solver.MaxExpressionLength,
	}
}

// GetEnv returns the value of the environment variable or the default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
